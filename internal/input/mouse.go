package input

import (
	"github.com/dshills/termflow/internal/event"
)

// decodeSGRMouse decodes an SGR extended mouse report: CSI < b ; x ; y M/m.
// The button parameter packs everything: button in the low two bits, motion
// in bit 5, wheel in bit 6, and Shift/Alt/Ctrl in bits 2-4. Coordinates are
// 1-based on the wire and converted to 0-based cells.
func (p *Parser) decodeSGRMouse(seq []byte) (event.MouseEvent, bool) {
	n := len(seq)
	if n < 9 || seq[0] != 0x1b || seq[1] != '[' || seq[2] != '<' {
		return event.MouseEvent{}, false
	}
	final := seq[n-1]
	if final != 'M' && final != 'm' {
		return event.MouseEvent{}, false
	}
	params, ok := splitParams(seq[3 : n-1])
	if !ok || len(params) != 3 {
		return event.MouseEvent{}, false
	}

	info := params[0]
	x := params[1] - 1
	y := params[2] - 1

	ev := event.MouseEvent{
		X:  x,
		Y:  y,
		DX: x - p.lastX,
		DY: y - p.lastY,
	}
	p.lastX = x
	p.lastY = y

	switch info & 3 {
	case 0:
		ev.Button = event.ButtonLeft
	case 1:
		ev.Button = event.ButtonMiddle
	case 2:
		ev.Button = event.ButtonRight
	case 3:
		ev.Button = event.ButtonNone
	}

	if info&4 != 0 {
		ev.Mod = ev.Mod.With(event.ModShift)
	}
	if info&8 != 0 {
		ev.Mod = ev.Mod.With(event.ModAlt)
	}
	if info&16 != 0 {
		ev.Mod = ev.Mod.With(event.ModCtrl)
	}

	switch {
	case info&64 != 0:
		ev.Button = event.ButtonNone
		if info&1 != 0 {
			ev.Action = event.MouseWheelDown
		} else {
			ev.Action = event.MouseWheelUp
		}
	case info&32 != 0:
		ev.Action = event.MouseMotion
	case final == 'm':
		ev.Action = event.MouseRelease
	case ev.Button == event.ButtonNone:
		ev.Action = event.MouseMotion
	default:
		ev.Action = event.MousePress
	}

	return ev, true
}
