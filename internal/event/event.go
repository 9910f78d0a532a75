package event

import "fmt"

// Event is the interface implemented by all terminal input events.
// The set of implementations is closed; consumers switch on the concrete type.
type Event interface {
	// String returns a human-readable description of the event.
	String() string

	// event marks the closed set of implementations.
	event()
}

// KeyEvent is a keyboard event.
type KeyEvent struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Mod contains the active modifier keys.
	Mod Modifier

	// Kind reports press, release or repeat.
	Kind KeyKind
}

func (KeyEvent) event() {}

// NewRuneKey creates a press event for a character key.
func NewRuneKey(r rune, mod Modifier) KeyEvent {
	return KeyEvent{Key: KeyRune, Rune: r, Mod: mod}
}

// NewSpecialKey creates a press event for a special key.
func NewSpecialKey(key Key, mod Modifier) KeyEvent {
	return KeyEvent{Key: key, Mod: mod}
}

// IsRune returns true if this is a character key event.
func (e KeyEvent) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// Equals returns true if two events represent the same key stroke.
func (e KeyEvent) Equals(other KeyEvent) bool {
	return e.Key == other.Key && e.Rune == other.Rune &&
		e.Mod == other.Mod && e.Kind == other.Kind
}

// String returns a canonical representation like "a", "Ctrl+c" or "Alt+F4".
func (e KeyEvent) String() string {
	name := e.Key.String()
	if e.Key == KeyRune {
		name = string(e.Rune)
	}
	if e.Mod == ModNone {
		return name
	}
	return e.Mod.String() + "+" + name
}

// MouseEvent is a mouse event. Coordinates are zero-based cells.
type MouseEvent struct {
	// X and Y are the cell coordinates of the pointer.
	X, Y int

	// DX and DY are the deltas from the previous mouse event.
	DX, DY int

	// Button is the button involved, if any.
	Button MouseButton

	// Action reports what the mouse did.
	Action MouseAction

	// Mod contains the active modifier keys.
	Mod Modifier
}

func (MouseEvent) event() {}

// String returns a description like "mouse press left (10,5)".
func (e MouseEvent) String() string {
	return fmt.Sprintf("mouse %s %s (%d,%d)", e.Action, e.Button, e.X, e.Y)
}

// PasteEvent carries the contents of a bracketed paste.
type PasteEvent struct {
	// Text is the pasted text, verbatim.
	Text string
}

func (PasteEvent) event() {}

// String returns a description including the paste length.
func (e PasteEvent) String() string {
	return fmt.Sprintf("paste (%d bytes)", len(e.Text))
}

// FocusEvent reports the terminal gaining or losing focus.
type FocusEvent struct {
	// Gained is true for focus-in, false for focus-out.
	Gained bool
}

func (FocusEvent) event() {}

// String returns "focus in" or "focus out".
func (e FocusEvent) String() string {
	if e.Gained {
		return "focus in"
	}
	return "focus out"
}

// ResizeEvent reports a change in terminal dimensions.
type ResizeEvent struct {
	// Cols and Rows are the new terminal size in cells.
	Cols, Rows int
}

func (ResizeEvent) event() {}

// String returns a description like "resize 80x24".
func (e ResizeEvent) String() string {
	return fmt.Sprintf("resize %dx%d", e.Cols, e.Rows)
}

// UnknownEvent carries a complete but unrecognized escape sequence.
// Decoding continues after an unknown sequence; it is not an error.
type UnknownEvent struct {
	// Raw is the unrecognized byte sequence.
	Raw []byte
}

func (UnknownEvent) event() {}

// String returns a description with the raw bytes quoted.
func (e UnknownEvent) String() string {
	return fmt.Sprintf("unknown %q", e.Raw)
}
