package term

// Attr is a bitset of text attributes. Each bit corresponds to one SGR
// parameter; attrSGR maps the set to the parameters the encoder emits.
type Attr uint8

const (
	// AttrBold makes text bold/bright.
	AttrBold Attr = 1 << iota
	// AttrDim makes text dimmed/faint.
	AttrDim
	// AttrItalic makes text italic.
	AttrItalic
	// AttrUnderline underlines the text.
	AttrUnderline
	// AttrBlink makes text blink (rarely supported).
	AttrBlink
	// AttrReverse swaps foreground and background colors.
	AttrReverse
	// AttrStrikethrough draws a line through the text.
	AttrStrikethrough

	// AttrNone is the empty attribute set.
	AttrNone Attr = 0
)

// attrSGR lists every attribute alongside the SGR parameter that enables
// it, in emission order. The output encoder walks this table when
// translating a style into an escape sequence.
var attrSGR = [...]struct {
	attr Attr
	code byte
}{
	{AttrBold, '1'},
	{AttrDim, '2'},
	{AttrItalic, '3'},
	{AttrUnderline, '4'},
	{AttrBlink, '5'},
	{AttrReverse, '7'},
	{AttrStrikethrough, '9'},
}

// Style pairs foreground and background colors with an attribute set.
// The zero value is the terminal's default rendition. Styles are values:
// the builder methods return modified copies and never mutate the
// receiver.
type Style struct {
	Fg    Color
	Bg    Color
	Attrs Attr
}

// NewStyle returns the default style.
func NewStyle() Style {
	return Style{}
}

// Foreground returns a copy of s drawing text in the given color.
func (s Style) Foreground(c Color) Style {
	s.Fg = c
	return s
}

// Background returns a copy of s painting the background in the given
// color.
func (s Style) Background(c Color) Style {
	s.Bg = c
	return s
}

func (s Style) with(a Attr) Style {
	s.Attrs |= a
	return s
}

// Bold returns a copy of s with bold text.
func (s Style) Bold() Style { return s.with(AttrBold) }

// Dim returns a copy of s with dimmed text.
func (s Style) Dim() Style { return s.with(AttrDim) }

// Italic returns a copy of s with italic text.
func (s Style) Italic() Style { return s.with(AttrItalic) }

// Underline returns a copy of s with underlined text.
func (s Style) Underline() Style { return s.with(AttrUnderline) }

// Blink returns a copy of s with blinking text.
func (s Style) Blink() Style { return s.with(AttrBlink) }

// Reverse returns a copy of s with foreground and background swapped.
func (s Style) Reverse() Style { return s.with(AttrReverse) }

// Strikethrough returns a copy of s with struck-through text.
func (s Style) Strikethrough() Style { return s.with(AttrStrikethrough) }

// Equal reports whether both styles produce the same rendition.
func (s Style) Equal(other Style) bool {
	return s.Fg.Equal(other.Fg) && s.Bg.Equal(other.Bg) && s.Attrs == other.Attrs
}

// HasAttr reports whether every attribute in a is set.
func (s Style) HasAttr(a Attr) bool {
	return s.Attrs&a == a
}
