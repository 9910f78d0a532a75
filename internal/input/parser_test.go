package input

import (
	"reflect"
	"testing"

	"github.com/dshills/termflow/internal/event"
)

func feedAll(t *testing.T, p *Parser, data string) []event.Event {
	t.Helper()
	evs := p.Feed([]byte(data))
	out := make([]event.Event, len(evs))
	copy(out, evs)
	return out
}

func TestParserPrintableKeys(t *testing.T) {
	p := NewParser()
	evs := feedAll(t, p, "ab!")

	want := []event.Event{
		event.NewRuneKey('a', event.ModNone),
		event.NewRuneKey('b', event.ModNone),
		event.NewRuneKey('!', event.ModNone),
	}
	if !reflect.DeepEqual(evs, want) {
		t.Errorf("Feed(\"ab!\") = %v, want %v", evs, want)
	}
}

func TestParserControlKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want event.KeyEvent
	}{
		{"enter", "\r", event.NewSpecialKey(event.KeyEnter, event.ModNone)},
		{"tab", "\t", event.NewSpecialKey(event.KeyTab, event.ModNone)},
		{"backspace del", "\x7f", event.NewSpecialKey(event.KeyBackspace, event.ModNone)},
		{"backspace bs", "\x08", event.NewSpecialKey(event.KeyBackspace, event.ModNone)},
		{"ctrl-a", "\x01", event.NewRuneKey('a', event.ModCtrl)},
		{"ctrl-z", "\x1a", event.NewRuneKey('z', event.ModCtrl)},
		{"ctrl-space", "\x00", event.NewRuneKey(' ', event.ModCtrl)},
		{"ctrl-backslash", "\x1c", event.NewRuneKey('\\', event.ModCtrl)},
		{"ctrl-underscore", "\x1f", event.NewRuneKey('_', event.ModCtrl)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser()
			evs := feedAll(t, p, tt.in)
			if len(evs) != 1 {
				t.Fatalf("got %d events, want 1", len(evs))
			}
			if got := evs[0].(event.KeyEvent); !got.Equals(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParserArrowKey(t *testing.T) {
	p := NewParser()
	evs := feedAll(t, p, "\x1b[A")

	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	want := event.NewSpecialKey(event.KeyUp, event.ModNone)
	if got := evs[0].(event.KeyEvent); !got.Equals(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParserSequenceTable(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want event.KeyEvent
	}{
		{"up", "\x1b[A", event.NewSpecialKey(event.KeyUp, event.ModNone)},
		{"down", "\x1b[B", event.NewSpecialKey(event.KeyDown, event.ModNone)},
		{"right app mode", "\x1bOC", event.NewSpecialKey(event.KeyRight, event.ModNone)},
		{"home", "\x1b[H", event.NewSpecialKey(event.KeyHome, event.ModNone)},
		{"end tilde", "\x1b[4~", event.NewSpecialKey(event.KeyEnd, event.ModNone)},
		{"delete", "\x1b[3~", event.NewSpecialKey(event.KeyDelete, event.ModNone)},
		{"page up", "\x1b[5~", event.NewSpecialKey(event.KeyPageUp, event.ModNone)},
		{"f1 ss3", "\x1bOP", event.NewSpecialKey(event.KeyF1, event.ModNone)},
		{"f5", "\x1b[15~", event.NewSpecialKey(event.KeyF5, event.ModNone)},
		{"f12", "\x1b[24~", event.NewSpecialKey(event.KeyF12, event.ModNone)},
		{"linux console f1", "\x1b[[A", event.NewSpecialKey(event.KeyF1, event.ModNone)},
		{"back-tab", "\x1b[Z", event.NewSpecialKey(event.KeyTab, event.ModShift)},
		{"ctrl-up", "\x1b[1;5A", event.NewSpecialKey(event.KeyUp, event.ModCtrl)},
		{"shift-f1", "\x1b[1;2P", event.NewSpecialKey(event.KeyF1, event.ModShift)},
		{"alt-delete", "\x1b[3;3~", event.NewSpecialKey(event.KeyDelete, event.ModAlt)},
		{"ctrl-shift-end", "\x1b[1;6F", event.NewSpecialKey(event.KeyEnd, event.ModCtrl|event.ModShift)},
		{"alt-x", "\x1bx", event.NewRuneKey('x', event.ModAlt)},
		{"alt-backspace", "\x1b\x7f", event.NewSpecialKey(event.KeyBackspace, event.ModAlt)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser()
			evs := feedAll(t, p, tt.in)
			if len(evs) != 1 {
				t.Fatalf("%q: got %d events (%v), want 1", tt.in, len(evs), evs)
			}
			got, ok := evs[0].(event.KeyEvent)
			if !ok {
				t.Fatalf("%q: got %T, want KeyEvent", tt.in, evs[0])
			}
			if !got.Equals(tt.want) {
				t.Errorf("%q: got %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParserStreamingInvariance(t *testing.T) {
	// Decoding must produce identical events no matter where the byte
	// stream is split across Feed calls.
	inputs := []string{
		"\x1b[A",
		"\x1b[1;5A",
		"\x1b[<0;10;5M",
		"\x1b[200~hello\x1b[201~",
		"héllo",
		"\x1b[3~abc\x1b[B",
		"日本",
	}

	for _, in := range inputs {
		whole := NewParser()
		want := feedAll(t, whole, in)

		for split := 1; split < len(in); split++ {
			p := NewParser()
			var got []event.Event
			got = append(got, feedAll(t, p, in[:split])...)
			got = append(got, feedAll(t, p, in[split:])...)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("%q split at %d: got %v, want %v", in, split, got, want)
			}
		}
	}
}

func TestParserSGRMouse(t *testing.T) {
	p := NewParser()
	evs := feedAll(t, p, "\x1b[<0;10;5M")

	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	got := evs[0].(event.MouseEvent)
	// Wire coordinates are 1-based.
	want := event.MouseEvent{X: 9, Y: 4, DX: 9, DY: 4, Button: event.ButtonLeft, Action: event.MousePress}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestParserSGRMouseVariants(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		button event.MouseButton
		action event.MouseAction
		mod    event.Modifier
	}{
		{"left press", "\x1b[<0;1;1M", event.ButtonLeft, event.MousePress, event.ModNone},
		{"left release", "\x1b[<0;1;1m", event.ButtonLeft, event.MouseRelease, event.ModNone},
		{"middle press", "\x1b[<1;1;1M", event.ButtonMiddle, event.MousePress, event.ModNone},
		{"right press", "\x1b[<2;1;1M", event.ButtonRight, event.MousePress, event.ModNone},
		{"drag", "\x1b[<32;2;2M", event.ButtonLeft, event.MouseMotion, event.ModNone},
		{"bare motion", "\x1b[<35;2;2M", event.ButtonNone, event.MouseMotion, event.ModNone},
		{"wheel up", "\x1b[<64;1;1M", event.ButtonNone, event.MouseWheelUp, event.ModNone},
		{"wheel down", "\x1b[<65;1;1M", event.ButtonNone, event.MouseWheelDown, event.ModNone},
		{"shift click", "\x1b[<4;1;1M", event.ButtonLeft, event.MousePress, event.ModShift},
		{"ctrl click", "\x1b[<16;1;1M", event.ButtonLeft, event.MousePress, event.ModCtrl},
		{"alt drag", "\x1b[<40;1;1M", event.ButtonLeft, event.MouseMotion, event.ModAlt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser()
			evs := feedAll(t, p, tt.in)
			if len(evs) != 1 {
				t.Fatalf("got %d events, want 1", len(evs))
			}
			got := evs[0].(event.MouseEvent)
			if got.Button != tt.button {
				t.Errorf("button = %v, want %v", got.Button, tt.button)
			}
			if got.Action != tt.action {
				t.Errorf("action = %v, want %v", got.Action, tt.action)
			}
			if got.Mod != tt.mod {
				t.Errorf("mod = %v, want %v", got.Mod, tt.mod)
			}
		})
	}
}

func TestParserBracketedPaste(t *testing.T) {
	p := NewParser()
	evs := feedAll(t, p, "\x1b[200~arbitrary text\x1b[201~")

	if len(evs) != 1 {
		t.Fatalf("got %d events (%v), want 1", len(evs), evs)
	}
	got := evs[0].(event.PasteEvent)
	if got.Text != "arbitrary text" {
		t.Errorf("paste text = %q, want %q", got.Text, "arbitrary text")
	}
}

func TestParserPasteContentIsOpaque(t *testing.T) {
	// Escape-like bytes inside a paste must not decode as events.
	p := NewParser()
	evs := feedAll(t, p, "\x1b[200~one\x1b[Atwo\x1b[201~")

	if len(evs) != 1 {
		t.Fatalf("got %d events (%v), want 1", len(evs), evs)
	}
	got := evs[0].(event.PasteEvent)
	if got.Text != "one\x1b[Atwo" {
		t.Errorf("paste text = %q, want %q", got.Text, "one\x1b[Atwo")
	}
}

func TestParserPasteExpireSalvage(t *testing.T) {
	// A paste cut off mid end-marker keeps the content, drops the stub.
	p := NewParser()
	if evs := feedAll(t, p, "\x1b[200~hello\x1b[20"); len(evs) != 0 {
		t.Fatalf("unexpected events before expiry: %v", evs)
	}

	evs := p.Expire()
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	got := evs[0].(event.PasteEvent)
	if got.Text != "hello" {
		t.Errorf("paste text = %q, want %q", got.Text, "hello")
	}
}

func TestParserLoneEscapeExpire(t *testing.T) {
	p := NewParser()
	if evs := feedAll(t, p, "\x1b"); len(evs) != 0 {
		t.Fatalf("bare ESC should buffer, got %v", evs)
	}
	if !p.Pending() {
		t.Fatal("parser should report pending state")
	}

	evs := p.Expire()
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	want := event.NewSpecialKey(event.KeyEscape, event.ModNone)
	if got := evs[0].(event.KeyEvent); !got.Equals(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if p.Pending() {
		t.Error("parser should be back at ground after expire")
	}
}

func TestParserExpireAtGroundIsNoop(t *testing.T) {
	p := NewParser()
	if evs := p.Expire(); len(evs) != 0 {
		t.Errorf("Expire at ground = %v, want none", evs)
	}
}

func TestParserUTF8(t *testing.T) {
	p := NewParser()
	evs := feedAll(t, p, "é日")

	want := []event.Event{
		event.NewRuneKey('é', event.ModNone),
		event.NewRuneKey('日', event.ModNone),
	}
	if !reflect.DeepEqual(evs, want) {
		t.Errorf("got %v, want %v", evs, want)
	}
}

func TestParserUTF8SplitAcrossFeeds(t *testing.T) {
	p := NewParser()
	raw := []byte("日") // 3 bytes

	if evs := p.Feed(raw[:1]); len(evs) != 0 {
		t.Fatalf("partial rune should buffer, got %v", evs)
	}
	if evs := p.Feed(raw[1:2]); len(evs) != 0 {
		t.Fatalf("partial rune should buffer, got %v", evs)
	}
	evs := feedAll(t, p, string(raw[2:]))
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	want := event.NewRuneKey('日', event.ModNone)
	if got := evs[0].(event.KeyEvent); !got.Equals(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParserInvalidUTF8(t *testing.T) {
	p := NewParser()
	evs := feedAll(t, p, "\xffa")

	if len(evs) != 2 {
		t.Fatalf("got %d events (%v), want 2", len(evs), evs)
	}
	if _, ok := evs[0].(event.UnknownEvent); !ok {
		t.Errorf("first event = %T, want UnknownEvent", evs[0])
	}
	want := event.NewRuneKey('a', event.ModNone)
	if got := evs[1].(event.KeyEvent); !got.Equals(want) {
		t.Errorf("second event = %v, want %v", got, want)
	}
}

func TestParserFocusEvents(t *testing.T) {
	p := NewParser()
	evs := feedAll(t, p, "\x1b[I\x1b[O")

	want := []event.Event{
		event.FocusEvent{Gained: true},
		event.FocusEvent{Gained: false},
	}
	if !reflect.DeepEqual(evs, want) {
		t.Errorf("got %v, want %v", evs, want)
	}
}

func TestParserUnknownSequence(t *testing.T) {
	p := NewParser()
	evs := feedAll(t, p, "\x1b[99z")

	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	got, ok := evs[0].(event.UnknownEvent)
	if !ok {
		t.Fatalf("got %T, want UnknownEvent", evs[0])
	}
	if string(got.Raw) != "\x1b[99z" {
		t.Errorf("raw = %q, want %q", got.Raw, "\x1b[99z")
	}

	// Decoding continues normally afterwards.
	evs = feedAll(t, p, "a")
	if len(evs) != 1 {
		t.Fatalf("decoding did not resume, got %v", evs)
	}
}

func TestParserMalformedCSI(t *testing.T) {
	// A control byte inside a CSI terminates it as unknown; the stream
	// resumes at the next byte.
	p := NewParser()
	evs := feedAll(t, p, "\x1b[12\rx")

	if len(evs) != 2 {
		t.Fatalf("got %d events (%v), want 2", len(evs), evs)
	}
	if _, ok := evs[0].(event.UnknownEvent); !ok {
		t.Errorf("first event = %T, want UnknownEvent", evs[0])
	}
	want := event.NewRuneKey('x', event.ModNone)
	if got := evs[1].(event.KeyEvent); !got.Equals(want) {
		t.Errorf("second event = %v, want %v", got, want)
	}
}

func TestParserEscRestartsSequence(t *testing.T) {
	// A new ESC abandons an unfinished sequence, matching the original
	// protocol: the interrupted prefix is dropped, not misdecoded.
	p := NewParser()
	if evs := feedAll(t, p, "\x1b[1;\x1b[A"); len(evs) != 1 {
		t.Fatalf("got %v, want single arrow event", evs)
	} else {
		want := event.NewSpecialKey(event.KeyUp, event.ModNone)
		if got := evs[0].(event.KeyEvent); !got.Equals(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}

func TestParserRegisterSequence(t *testing.T) {
	p := NewParser()
	custom := event.NewSpecialKey(event.KeyF12, event.ModMeta)
	p.RegisterSequence("\x1b[99z", custom)

	evs := feedAll(t, p, "\x1b[99z")
	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1", len(evs))
	}
	if got := evs[0].(event.KeyEvent); !got.Equals(custom) {
		t.Errorf("got %v, want %v", got, custom)
	}
}

func TestParserReset(t *testing.T) {
	p := NewParser()
	feedAll(t, p, "\x1b[1;")
	if !p.Pending() {
		t.Fatal("expected pending state")
	}

	p.Reset()
	if p.Pending() {
		t.Error("Reset should clear pending state")
	}
	evs := feedAll(t, p, "a")
	want := event.NewRuneKey('a', event.ModNone)
	if len(evs) != 1 || !evs[0].(event.KeyEvent).Equals(want) {
		t.Errorf("got %v, want [%v]", evs, want)
	}
}
