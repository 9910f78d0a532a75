package input

import (
	"strconv"

	"github.com/dshills/termflow/internal/event"
)

// defaultSequences returns the built-in escape-to-key table: the xterm and
// VT100/VT220 sequences every mainstream terminal emits. The table is per
// parser so callers can extend it for vendor-specific codes.
func defaultSequences() map[string]event.KeyEvent {
	t := map[string]event.KeyEvent{
		"\x1b": event.NewSpecialKey(event.KeyEscape, event.ModNone),

		// Cursor keys, normal mode
		"\x1b[A": event.NewSpecialKey(event.KeyUp, event.ModNone),
		"\x1b[B": event.NewSpecialKey(event.KeyDown, event.ModNone),
		"\x1b[C": event.NewSpecialKey(event.KeyRight, event.ModNone),
		"\x1b[D": event.NewSpecialKey(event.KeyLeft, event.ModNone),
		"\x1b[H": event.NewSpecialKey(event.KeyHome, event.ModNone),
		"\x1b[F": event.NewSpecialKey(event.KeyEnd, event.ModNone),

		// Cursor keys, application mode (DECCKM)
		"\x1bOA": event.NewSpecialKey(event.KeyUp, event.ModNone),
		"\x1bOB": event.NewSpecialKey(event.KeyDown, event.ModNone),
		"\x1bOC": event.NewSpecialKey(event.KeyRight, event.ModNone),
		"\x1bOD": event.NewSpecialKey(event.KeyLeft, event.ModNone),
		"\x1bOH": event.NewSpecialKey(event.KeyHome, event.ModNone),
		"\x1bOF": event.NewSpecialKey(event.KeyEnd, event.ModNone),

		// F1-F4, SS3 form
		"\x1bOP": event.NewSpecialKey(event.KeyF1, event.ModNone),
		"\x1bOQ": event.NewSpecialKey(event.KeyF2, event.ModNone),
		"\x1bOR": event.NewSpecialKey(event.KeyF3, event.ModNone),
		"\x1bOS": event.NewSpecialKey(event.KeyF4, event.ModNone),

		// Linux console F1-F5
		"\x1b[[A": event.NewSpecialKey(event.KeyF1, event.ModNone),
		"\x1b[[B": event.NewSpecialKey(event.KeyF2, event.ModNone),
		"\x1b[[C": event.NewSpecialKey(event.KeyF3, event.ModNone),
		"\x1b[[D": event.NewSpecialKey(event.KeyF4, event.ModNone),
		"\x1b[[E": event.NewSpecialKey(event.KeyF5, event.ModNone),

		// Back-tab
		"\x1b[Z": event.NewSpecialKey(event.KeyTab, event.ModShift),
	}

	for n, k := range tildeKeys {
		t["\x1b["+strconv.Itoa(n)+"~"] = event.NewSpecialKey(k, event.ModNone)
	}
	return t
}

// tildeKeys maps the first parameter of CSI n ~ sequences to keys.
var tildeKeys = map[int]event.Key{
	1:  event.KeyHome,
	2:  event.KeyInsert,
	3:  event.KeyDelete,
	4:  event.KeyEnd,
	5:  event.KeyPageUp,
	6:  event.KeyPageDown,
	7:  event.KeyHome,
	8:  event.KeyEnd,
	11: event.KeyF1,
	12: event.KeyF2,
	13: event.KeyF3,
	14: event.KeyF4,
	15: event.KeyF5,
	17: event.KeyF6,
	18: event.KeyF7,
	19: event.KeyF8,
	20: event.KeyF9,
	21: event.KeyF10,
	23: event.KeyF11,
	24: event.KeyF12,
}

// csiLetterKeys maps CSI final letters to keys for the modifier form
// CSI 1 ; m <letter>.
var csiLetterKeys = map[byte]event.Key{
	'A': event.KeyUp,
	'B': event.KeyDown,
	'C': event.KeyRight,
	'D': event.KeyLeft,
	'H': event.KeyHome,
	'F': event.KeyEnd,
	'P': event.KeyF1,
	'Q': event.KeyF2,
	'R': event.KeyF3,
	'S': event.KeyF4,
}

// decodeCSIKey handles the parameterized key forms the exact-match table
// cannot: CSI 1 ; m <letter> and CSI n ; m ~, where m encodes modifiers as
// 1 + bitmask (shift 1, alt 2, ctrl 4, meta 8).
func decodeCSIKey(seq []byte) (event.KeyEvent, bool) {
	if len(seq) < 3 || seq[0] != 0x1b || seq[1] != '[' {
		return event.KeyEvent{}, false
	}
	final := seq[len(seq)-1]
	params, ok := splitParams(seq[2 : len(seq)-1])
	if !ok {
		return event.KeyEvent{}, false
	}

	switch {
	case final == '~' && (len(params) == 1 || len(params) == 2):
		key, ok := tildeKeys[params[0]]
		if !ok {
			return event.KeyEvent{}, false
		}
		mod := event.ModNone
		if len(params) == 2 {
			mod = decodeModParam(params[1])
		}
		return event.NewSpecialKey(key, mod), true

	case len(params) == 2 && params[0] == 1:
		key, ok := csiLetterKeys[final]
		if !ok {
			return event.KeyEvent{}, false
		}
		return event.NewSpecialKey(key, decodeModParam(params[1])), true
	}
	return event.KeyEvent{}, false
}

// decodeModParam converts an xterm modifier parameter to a Modifier set.
func decodeModParam(m int) event.Modifier {
	bits := m - 1
	if bits <= 0 {
		return event.ModNone
	}
	var mod event.Modifier
	if bits&1 != 0 {
		mod = mod.With(event.ModShift)
	}
	if bits&2 != 0 {
		mod = mod.With(event.ModAlt)
	}
	if bits&4 != 0 {
		mod = mod.With(event.ModCtrl)
	}
	if bits&8 != 0 {
		mod = mod.With(event.ModMeta)
	}
	return mod
}

// splitParams parses a semicolon-separated run of decimal parameters.
// A missing parameter defaults to zero; any non-numeric byte fails.
func splitParams(b []byte) ([]int, bool) {
	if len(b) == 0 {
		return nil, true
	}
	params := make([]int, 0, 4)
	n := 0
	for _, c := range b {
		switch {
		case c >= '0' && c <= '9':
			n = n*10 + int(c-'0')
		case c == ';':
			params = append(params, n)
			n = 0
		default:
			return nil, false
		}
	}
	return append(params, n), true
}

