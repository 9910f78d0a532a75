package event

import "fmt"

// Report events carry terminal responses to device status requests.
// They are only produced while a matching request is outstanding; otherwise
// the same byte sequences decode as UnknownEvent.

// CursorReportEvent is a cursor position report (response to CSI 6n).
// Coordinates are zero-based.
type CursorReportEvent struct {
	X, Y int
}

func (CursorReportEvent) event() {}

// String returns a description like "cursor report (3,7)".
func (e CursorReportEvent) String() string {
	return fmt.Sprintf("cursor report (%d,%d)", e.X, e.Y)
}

// ColorReportEvent is a foreground or background color report
// (response to OSC 10/11).
type ColorReportEvent struct {
	// Foreground is true for a foreground color report.
	Foreground bool

	// R, G, B are the reported color components.
	R, G, B uint8
}

func (ColorReportEvent) event() {}

// String returns a description like "fg color #1A2B3C".
func (e ColorReportEvent) String() string {
	kind := "bg"
	if e.Foreground {
		kind = "fg"
	}
	return fmt.Sprintf("%s color #%02X%02X%02X", kind, e.R, e.G, e.B)
}

// DeviceAttrsEvent is a primary device attributes report (response to CSI c).
type DeviceAttrsEvent struct {
	// Attrs are the reported attribute codes.
	Attrs []int
}

func (DeviceAttrsEvent) event() {}

// String returns a description like "device attrs [1 2]".
func (e DeviceAttrsEvent) String() string {
	return fmt.Sprintf("device attrs %v", e.Attrs)
}

// GeometryEvent is a pixel geometry report (response to CSI 14t / 16t).
type GeometryEvent struct {
	// Cell is true for per-cell geometry, false for whole-terminal geometry.
	Cell bool

	// Width and Height are in pixels.
	Width, Height int
}

func (GeometryEvent) event() {}

// String returns a description like "terminal geometry 1280x800".
func (e GeometryEvent) String() string {
	kind := "terminal"
	if e.Cell {
		kind = "cell"
	}
	return fmt.Sprintf("%s geometry %dx%d", kind, e.Width, e.Height)
}
