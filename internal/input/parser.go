package input

import (
	"unicode/utf8"

	"github.com/dshills/termflow/internal/ansi"
	"github.com/dshills/termflow/internal/event"
)

// state identifies the parser's position within an escape sequence.
type state uint8

const (
	// stateGround is the initial state; printable bytes are key events.
	stateGround state = iota

	// stateEscape follows a bare ESC byte.
	stateEscape

	// stateCSI collects a control sequence's parameter and final bytes.
	stateCSI

	// stateSS3 follows ESC O; the next byte completes a legacy key code.
	stateSS3

	// stateOSC collects an operating system command until BEL or ST.
	stateOSC

	// statePaste collects bracketed paste content verbatim.
	statePaste
)

// Parser is the escape-sequence decoding state machine.
//
// Parser is not safe for concurrent use; it is designed to be driven by a
// single read loop.
type Parser struct {
	st    state
	seq   []byte // escape sequence buffer
	paste []byte // bracketed paste buffer
	part  []byte // pending incomplete UTF-8 rune

	table map[string]event.KeyEvent

	reports *reportMatcher

	// last mouse position, for event deltas
	lastX, lastY int

	out []event.Event
}

// NewParser creates a parser seeded with the default sequence table.
func NewParser() *Parser {
	return &Parser{
		table:   defaultSequences(),
		reports: newReportMatcher(),
	}
}

// RegisterSequence maps a complete escape sequence to a key event, adding to
// or overriding the built-in table. The decoder's structural handling (SGR
// mouse, modifier parameters, paste markers) always runs first.
func (p *Parser) RegisterSequence(seq string, ev event.KeyEvent) {
	p.table[seq] = ev
}

// ExpectReport arms matching of one device status response. Responses are
// only decoded into report events while a request is outstanding; the window
// closes after a bounded time.
func (p *Parser) ExpectReport() {
	p.reports.expect()
}

// Pending returns true if bytes of an unfinished sequence are buffered.
// The caller's ambiguity timer should be armed whenever this is true.
func (p *Parser) Pending() bool {
	return p.st != stateGround || len(p.part) > 0
}

// Reset discards all buffered state and returns the parser to ground.
func (p *Parser) Reset() {
	p.st = stateGround
	p.seq = nil
	p.paste = nil
	p.part = nil
}

// Feed consumes newly arrived bytes and returns the events they complete.
// It never blocks and never drops bytes: an incomplete sequence tail is
// retained for the next call. The returned slice is only valid until the
// next call to Feed or Expire.
func (p *Parser) Feed(data []byte) []event.Event {
	p.out = p.out[:0]
	for _, b := range data {
		p.feedByte(b)
	}
	return p.out
}

// Expire resolves a buffered prefix that no further bytes completed. A lone
// ESC becomes the Escape key; an unterminated paste is salvaged per the
// original protocol. Expire on a ground-state parser returns nil.
func (p *Parser) Expire() []event.Event {
	p.out = p.out[:0]
	switch p.st {
	case stateGround:
		if len(p.part) > 0 {
			p.emit(event.UnknownEvent{Raw: takeBytes(&p.part)})
		}
	case statePaste:
		// The end marker may have been cut off; strip a partial one.
		text := p.paste
		if i := lastIndexByte(text, ansi.ESC); i >= 0 {
			tail := text[i:]
			if len(tail) < len(ansi.PasteEnd) && string(ansi.PasteEnd[:len(tail)]) == string(tail) {
				text = text[:i]
			}
		}
		p.emit(event.PasteEvent{Text: string(text)})
		p.paste = nil
		p.st = stateGround
	default:
		p.execute()
	}
	return p.out
}

func (p *Parser) emit(ev event.Event) {
	p.out = append(p.out, ev)
}

// feedByte advances the state machine by one byte.
func (p *Parser) feedByte(b byte) {
	switch p.st {
	case stateOSC:
		// ESC inside an OSC is part of the ST terminator, never a
		// new sequence.
		p.seq = append(p.seq, b)
		if b == 0x07 || (b == '\\' && len(p.seq) >= 2 && p.seq[len(p.seq)-2] == ansi.ESC) {
			p.execute()
		}
		return

	case statePaste:
		// Paste content is opaque: inner bytes are never reinterpreted
		// as control sequences.
		p.paste = append(p.paste, b)
		if b == '~' && endsWith(p.paste, ansi.PasteEnd) {
			text := p.paste[:len(p.paste)-len(ansi.PasteEnd)]
			p.emit(event.PasteEvent{Text: string(text)})
			p.paste = nil
			p.st = stateGround
		}
		return
	}

	if b == ansi.ESC {
		// Start a new escape, abandoning any unfinished one.
		p.flushPartial()
		p.seq = append(p.seq[:0], b)
		p.st = stateEscape
		return
	}

	switch p.st {
	case stateGround:
		p.feedGround(b)

	case stateEscape:
		p.seq = append(p.seq, b)
		switch b {
		case '[':
			p.st = stateCSI
		case 'O':
			p.st = stateSS3
		case ']':
			p.st = stateOSC
		default:
			p.execute()
		}

	case stateSS3:
		p.seq = append(p.seq, b)
		p.execute()

	case stateCSI:
		p.seq = append(p.seq, b)
		switch {
		case b == '[' && len(p.seq) == 3:
			// Linux console function keys: ESC [ [ then one byte.
			p.st = stateSS3
		case b >= 0x30 && b <= 0x3F:
			// parameter bytes: digits, ;, and private markers < = > ?
		case b >= 0x20 && b <= 0x2F:
			// intermediate bytes
		case b >= 0x40 && b <= 0x7E:
			// final byte
			p.execute()
		default:
			// Control byte inside a sequence: malformed, surfaced
			// whole and decoding resumes at ground.
			p.execute()
		}
	}
}

// feedGround handles a byte outside any escape sequence.
func (p *Parser) feedGround(b byte) {
	if len(p.part) > 0 || b >= 0x80 {
		p.feedUTF8(b)
		return
	}

	switch {
	case b == 0x7F || b == 0x08:
		p.emit(event.NewSpecialKey(event.KeyBackspace, event.ModNone))
	case b == '\r':
		p.emit(event.NewSpecialKey(event.KeyEnter, event.ModNone))
	case b == '\t':
		p.emit(event.NewSpecialKey(event.KeyTab, event.ModNone))
	case b == 0x00:
		p.emit(event.NewRuneKey(' ', event.ModCtrl))
	case b < 0x1B:
		// Ctrl+letter; ESC itself was handled by the caller.
		p.emit(event.NewRuneKey(rune('a'+b-1), event.ModCtrl))
	case b < 0x20:
		// 0x1C-0x1F: Ctrl+\ Ctrl+] Ctrl+^ Ctrl+_
		p.emit(event.NewRuneKey(rune('\\'+b-0x1C), event.ModCtrl))
	default:
		p.emit(event.NewRuneKey(rune(b), event.ModNone))
	}
}

// feedUTF8 accumulates multi-byte codepoints, tolerating splits across Feed
// boundaries. Invalid encodings surface as UnknownEvent, never as errors.
func (p *Parser) feedUTF8(b byte) {
	p.part = append(p.part, b)
	if !utf8.FullRune(p.part) {
		if len(p.part) >= utf8.UTFMax {
			p.emit(event.UnknownEvent{Raw: takeBytes(&p.part)})
		}
		return
	}
	r, size := utf8.DecodeRune(p.part)
	if r == utf8.RuneError && size <= 1 {
		// Only the offending byte is discarded; the rest is replayed.
		bad := p.part[:1]
		rest := p.part[1:]
		p.part = nil
		p.emit(event.UnknownEvent{Raw: bad})
		for _, nb := range rest {
			p.feedByte(nb)
		}
		return
	}
	rest := p.part[size:]
	p.part = nil
	p.emit(event.NewRuneKey(r, event.ModNone))
	for _, nb := range rest {
		p.feedByte(nb)
	}
}

// flushPartial surfaces an interrupted UTF-8 accumulation before a new
// sequence begins.
func (p *Parser) flushPartial() {
	if len(p.part) > 0 {
		p.emit(event.UnknownEvent{Raw: takeBytes(&p.part)})
	}
}

// execute resolves the buffered escape sequence into an event.
func (p *Parser) execute() {
	seq := p.seq
	p.seq = nil
	p.st = stateGround

	if p.reports.outstanding() {
		if ev, ok := p.reports.match(seq); ok {
			p.emit(ev)
			return
		}
	}

	s := string(seq)
	switch s {
	case ansi.PasteStart:
		p.st = statePaste
		p.paste = p.paste[:0]
		return
	case ansi.FocusIn:
		p.emit(event.FocusEvent{Gained: true})
		return
	case ansi.FocusOut:
		p.emit(event.FocusEvent{Gained: false})
		return
	}

	if ev, ok := p.decodeSGRMouse(seq); ok {
		p.emit(ev)
		return
	}
	if ev, ok := p.table[s]; ok {
		p.emit(ev)
		return
	}
	if ev, ok := decodeCSIKey(seq); ok {
		p.emit(ev)
		return
	}
	if len(seq) == 2 && seq[1] >= 0x20 && seq[1] <= 0x7E {
		// ESC followed by a printable: Alt-prefixed key.
		p.emit(event.NewRuneKey(rune(seq[1]), event.ModAlt))
		return
	}
	if len(seq) == 2 && seq[1] == 0x7F {
		p.emit(event.NewSpecialKey(event.KeyBackspace, event.ModAlt))
		return
	}
	p.emit(event.UnknownEvent{Raw: seq})
}

// takeBytes returns *b and clears it.
func takeBytes(b *[]byte) []byte {
	out := *b
	*b = nil
	return out
}

// endsWith reports whether b ends with the string suffix.
func endsWith(b []byte, suffix string) bool {
	return len(b) >= len(suffix) && string(b[len(b)-len(suffix):]) == suffix
}

// lastIndexByte returns the index of the last occurrence of c in b, or -1.
func lastIndexByte(b []byte, c byte) int {
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] == c {
			return i
		}
	}
	return -1
}
