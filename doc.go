// Package term provides cross-platform terminal control: a unified typed
// event stream for keyboard, mouse, resize, focus, and bracketed-paste
// input, plus raw-mode management and an ANSI output encoder.
//
// The same API works under Unix-style terminal emulators (where input
// arrives as a byte stream of escape sequences) and the Windows console
// host (where input arrives as structured records).
package term
