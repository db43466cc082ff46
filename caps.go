package term

import (
	"os"
	"strings"
)

// ColorCapability describes the level of color support in a terminal.
type ColorCapability int

const (
	// ColorNone indicates a monochrome terminal with no color support.
	ColorNone ColorCapability = iota
	// Color16 indicates basic 16-color support (ANSI standard colors).
	Color16
	// Color256 indicates ANSI 256 palette support.
	Color256
	// ColorTrue indicates 24-bit true color (RGB) support.
	ColorTrue
)

// Capabilities describes what features the terminal supports.
type Capabilities struct {
	// Colors indicates the level of color support.
	Colors ColorCapability
	// TrueColor indicates whether 24-bit RGB colors are supported.
	TrueColor bool
	// Unicode indicates whether the terminal can render Unicode characters.
	Unicode bool
	// AltScreen indicates whether the terminal supports the alternate
	// screen buffer.
	AltScreen bool
	// Mouse indicates whether the terminal can report mouse input.
	Mouse bool
	// BracketedPaste indicates whether the terminal can bracket pasted
	// text in markers.
	BracketedPaste bool
	// FocusReporting indicates whether the terminal can report focus
	// changes.
	FocusReporting bool
}

// truecolorEnvVars are environment variables whose presence identifies a
// terminal emulator known to support true color.
var truecolorEnvVars = []string{
	"WT_SESSION",       // Windows Terminal
	"ITERM_SESSION_ID", // iTerm2
	"KITTY_WINDOW_ID",  // Kitty
	"KONSOLE_VERSION",  // Konsole
	"VTE_VERSION",      // VTE-based (GNOME Terminal, Tilix, ...)
}

// DetectCapabilities determines terminal capabilities from environment
// variables. Returns conservative defaults when detection fails.
func DetectCapabilities() Capabilities {
	caps := Capabilities{
		Colors:         Color16, // Safe default for most terminals
		Unicode:        true,    // Assume modern terminal
		AltScreen:      true,
		Mouse:          true,
		BracketedPaste: true,
		FocusReporting: true,
	}

	// Explicit true color indicators override everything else.
	colorterm := strings.ToLower(os.Getenv("COLORTERM"))
	if colorterm == "truecolor" || colorterm == "24bit" {
		caps.Colors = ColorTrue
		caps.TrueColor = true
	}
	for _, v := range truecolorEnvVars {
		if os.Getenv(v) != "" {
			caps.Colors = ColorTrue
			caps.TrueColor = true
		}
	}
	if caps.TrueColor {
		return caps
	}

	term := strings.ToLower(os.Getenv("TERM"))
	switch {
	case term == "dumb":
		caps.Colors = ColorNone
		caps.Unicode = false
		caps.AltScreen = false
		caps.Mouse = false
		caps.BracketedPaste = false
		caps.FocusReporting = false
	case strings.Contains(term, "truecolor"):
		caps.Colors = ColorTrue
		caps.TrueColor = true
	case strings.Contains(term, "256color"):
		caps.Colors = Color256
	case term == "linux":
		// The Linux console has no mouse or paste bracketing of its own.
		caps.Mouse = false
		caps.BracketedPaste = false
		caps.FocusReporting = false
	}

	return caps
}

// SupportsColor returns true if the terminal supports the given color type.
func (c Capabilities) SupportsColor(color Color) bool {
	switch color.Type() {
	case ColorDefault:
		return true
	case ColorANSI:
		return c.Colors >= Color16
	case ColorRGB:
		return c.TrueColor
	}
	return false
}

// EffectiveColor returns the color to use given the terminal's
// capabilities: the original color when supported, otherwise the closest
// expressible fallback.
func (c Capabilities) EffectiveColor(color Color) Color {
	if c.SupportsColor(color) {
		return color
	}

	switch color.Type() {
	case ColorRGB:
		if c.Colors >= Color16 {
			return color.ToANSI()
		}
		return DefaultColor()
	case ColorANSI:
		if c.Colors < Color16 {
			return DefaultColor()
		}
		return color
	default:
		return color
	}
}

// String returns a human-readable description of the capabilities.
func (c Capabilities) String() string {
	var parts []string

	switch c.Colors {
	case ColorNone:
		parts = append(parts, "no-color")
	case Color16:
		parts = append(parts, "16-color")
	case Color256:
		parts = append(parts, "256-color")
	case ColorTrue:
		parts = append(parts, "true-color")
	}

	if c.Unicode {
		parts = append(parts, "unicode")
	} else {
		parts = append(parts, "ascii")
	}
	if c.AltScreen {
		parts = append(parts, "altscreen")
	}
	if c.Mouse {
		parts = append(parts, "mouse")
	}
	if c.BracketedPaste {
		parts = append(parts, "paste")
	}
	if c.FocusReporting {
		parts = append(parts, "focus")
	}

	return strings.Join(parts, ", ")
}
