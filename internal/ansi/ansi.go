// Package ansi holds the exact control sequences the engine writes to the
// terminal and the input-side markers the decoder recognizes. Terminals do
// not tolerate malformed control codes, so every sequence here is emitted
// bit-for-bit as defined.
package ansi

import "strconv"

// ESC is the escape byte beginning every control sequence.
const ESC = 0x1b

// CSI is the control sequence introducer.
const CSI = "\x1b["

// Output sequences with no parameters.
const (
	// EnterAltScreen switches to the alternate screen buffer and homes
	// the cursor.
	EnterAltScreen = "\x1b[?1049h\x1b[H"

	// ExitAltScreen returns to the main screen buffer.
	ExitAltScreen = "\x1b[?1049l"

	// EnableMouse turns on button, any-event, SGR and urxvt mouse
	// reporting. Terminals ignore the modes they do not support.
	EnableMouse = "\x1b[?1000h\x1b[?1003h\x1b[?1006h\x1b[?1015h"

	// DisableMouse turns mouse reporting back off.
	DisableMouse = "\x1b[?1000l\x1b[?1003l\x1b[?1015l\x1b[?1006l"

	// EnableBracketedPaste makes the terminal wrap pasted text in
	// PasteStart/PasteEnd markers.
	EnableBracketedPaste = "\x1b[?2004h"

	// DisableBracketedPaste turns bracketed paste off.
	DisableBracketedPaste = "\x1b[?2004l"

	// EnableFocusReporting makes the terminal send FocusIn/FocusOut.
	EnableFocusReporting = "\x1b[?1004h"

	// DisableFocusReporting turns focus reporting off.
	DisableFocusReporting = "\x1b[?1004l"

	// ShowCursor makes the text cursor visible.
	ShowCursor = "\x1b[?25h"

	// HideCursor hides the text cursor.
	HideCursor = "\x1b[?25l"

	// ResetAttributes clears all graphic rendition attributes.
	ResetAttributes = "\x1b[0m"

	// SaveCursor saves the current cursor position (DECSC).
	SaveCursor = "\x1b7"

	// RestoreCursor restores the saved cursor position (DECRC).
	RestoreCursor = "\x1b8"

	// ClearScreen erases the whole display.
	ClearScreen = "\x1b[2J"
)

// Device status requests. Responses arrive on the input stream and are
// decoded into report events while a request is outstanding.
const (
	// RequestCursorPosition asks for a cursor position report.
	RequestCursorPosition = "\x1b[6n"

	// RequestForegroundColor asks for the default foreground color.
	RequestForegroundColor = "\x1b]10;?\x1b\\"

	// RequestBackgroundColor asks for the default background color.
	RequestBackgroundColor = "\x1b]11;?\x1b\\"

	// RequestDeviceAttributes asks for primary device attributes.
	RequestDeviceAttributes = "\x1b[c"

	// RequestCellGeometry asks for the pixel size of one cell.
	RequestCellGeometry = "\x1b[16t"

	// RequestTerminalGeometry asks for the pixel size of the terminal.
	RequestTerminalGeometry = "\x1b[14t"
)

// Input-side markers recognized by the decoder.
const (
	// PasteStart begins a bracketed paste.
	PasteStart = "\x1b[200~"

	// PasteEnd terminates a bracketed paste.
	PasteEnd = "\x1b[201~"

	// FocusIn reports the terminal gaining focus.
	FocusIn = "\x1b[I"

	// FocusOut reports the terminal losing focus.
	FocusOut = "\x1b[O"
)

// CursorPosition returns the sequence moving the cursor to the zero-based
// cell (x, y). The wire protocol is 1-based row;column.
func CursorPosition(x, y int) string {
	return CSI + strconv.Itoa(y+1) + ";" + strconv.Itoa(x+1) + "H"
}

// AppendCursorPosition appends CursorPosition(x, y) to dst.
func AppendCursorPosition(dst []byte, x, y int) []byte {
	dst = append(dst, CSI...)
	dst = strconv.AppendInt(dst, int64(y+1), 10)
	dst = append(dst, ';')
	dst = strconv.AppendInt(dst, int64(x+1), 10)
	return append(dst, 'H')
}

// SetTitle returns the sequence setting the terminal window title.
func SetTitle(title string) string {
	return "\x1b]2;" + title + "\x07"
}

// CursorUp returns the sequence moving the cursor up n rows.
func CursorUp(n int) string { return CSI + strconv.Itoa(n) + "A" }

// CursorDown returns the sequence moving the cursor down n rows.
func CursorDown(n int) string { return CSI + strconv.Itoa(n) + "B" }

// CursorForward returns the sequence moving the cursor right n columns.
func CursorForward(n int) string { return CSI + strconv.Itoa(n) + "C" }

// CursorBack returns the sequence moving the cursor left n columns.
func CursorBack(n int) string { return CSI + strconv.Itoa(n) + "D" }

// EraseInDisplay clears part of the screen: 0 cursor to end, 1 cursor to
// beginning, 2 whole screen, 3 whole screen plus scrollback.
func EraseInDisplay(n int) string { return CSI + strconv.Itoa(n) + "J" }

// EraseInLine clears part of the current line: 0 cursor to end, 1 cursor to
// beginning, 2 whole line.
func EraseInLine(n int) string { return CSI + strconv.Itoa(n) + "K" }

// ScrollUp scrolls the display up n rows.
func ScrollUp(n int) string { return CSI + strconv.Itoa(n) + "S" }

// ScrollDown scrolls the display down n rows.
func ScrollDown(n int) string { return CSI + strconv.Itoa(n) + "T" }
