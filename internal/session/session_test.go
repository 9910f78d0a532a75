package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dshills/termflow/internal/ansi"
	"github.com/dshills/termflow/internal/config"
	"github.com/dshills/termflow/internal/event"
	"github.com/dshills/termflow/internal/render"
	"github.com/dshills/termflow/internal/term"
)

func testOptions(t *testing.T, opts ...config.Option) config.Options {
	t.Helper()
	base := []config.Option{
		config.WithColorDepth(config.DepthTrueColor),
		config.WithEscapeTimeout(10 * time.Millisecond),
	}
	o, err := config.New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("config.New() error = %v", err)
	}
	return o
}

func startSession(t *testing.T, dev *term.MemDevice, opts ...config.Option) *Session {
	t.Helper()
	s, err := New(dev, testOptions(t, opts...))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { s.Stop() })
	return s
}

func nextEvent(t *testing.T, s *Session) event.Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ev, err := s.NextEvent(ctx)
	if err != nil {
		t.Fatalf("NextEvent() error = %v", err)
	}
	return ev
}

func TestSessionStartEntersModes(t *testing.T) {
	dev := term.NewMemDevice(80, 24)
	startSession(t, dev)

	if !dev.RawActive() {
		t.Error("raw mode not active after Start")
	}
	out := dev.Output()
	for _, seq := range []string{
		ansi.EnterAltScreen,
		ansi.EnableMouse,
		ansi.EnableBracketedPaste,
		ansi.EnableFocusReporting,
	} {
		if !strings.Contains(out, seq) {
			t.Errorf("startup output %q missing %q", out, seq)
		}
	}
}

func TestSessionStartWritesTitle(t *testing.T) {
	dev := term.NewMemDevice(80, 24)
	startSession(t, dev, config.WithTitle("demo"))

	if got := dev.Output(); !strings.Contains(got, ansi.SetTitle("demo")) {
		t.Errorf("startup output %q missing title sequence", got)
	}
}

func TestSessionKeyEvents(t *testing.T) {
	dev := term.NewMemDevice(80, 24)
	s := startSession(t, dev)

	dev.FeedInput([]byte("hi"))
	for _, want := range []rune{'h', 'i'} {
		ev := nextEvent(t, s)
		ke, ok := ev.(event.KeyEvent)
		if !ok {
			t.Fatalf("event = %T (%v), want KeyEvent", ev, ev)
		}
		if !ke.Equals(event.NewRuneKey(want, 0)) {
			t.Errorf("event = %v, want rune %q", ke, want)
		}
	}
}

func TestSessionSpecialKey(t *testing.T) {
	dev := term.NewMemDevice(80, 24)
	s := startSession(t, dev)

	dev.FeedInput([]byte("\x1b[A"))
	ev := nextEvent(t, s)
	ke, ok := ev.(event.KeyEvent)
	if !ok || !ke.Equals(event.NewSpecialKey(event.KeyUp, 0)) {
		t.Errorf("event = %v (%T), want Up key", ev, ev)
	}
}

func TestSessionEscapeTimeout(t *testing.T) {
	dev := term.NewMemDevice(80, 24)
	s := startSession(t, dev)

	// A lone ESC has no continuation; the ambiguity timer resolves it.
	dev.FeedInput([]byte{0x1b})
	ev := nextEvent(t, s)
	ke, ok := ev.(event.KeyEvent)
	if !ok || !ke.Equals(event.NewSpecialKey(event.KeyEscape, 0)) {
		t.Errorf("event = %v (%T), want Escape key", ev, ev)
	}
}

func TestSessionPaste(t *testing.T) {
	dev := term.NewMemDevice(80, 24)
	s := startSession(t, dev)

	dev.FeedInput([]byte(ansi.PasteStart + "pasted text" + ansi.PasteEnd))
	ev := nextEvent(t, s)
	pe, ok := ev.(event.PasteEvent)
	if !ok || pe.Text != "pasted text" {
		t.Errorf("event = %v (%T), want paste", ev, ev)
	}
}

func TestSessionResize(t *testing.T) {
	dev := term.NewMemDevice(80, 24)
	s := startSession(t, dev)

	dev.SetSize(100, 40)
	ev := nextEvent(t, s)
	re, ok := ev.(event.ResizeEvent)
	if !ok || re.Cols != 100 || re.Rows != 40 {
		t.Fatalf("event = %v (%T), want resize 100x40", ev, ev)
	}
	if cols, rows := s.Size(); cols != 100 || rows != 40 {
		t.Errorf("Size() = (%d, %d), want (100, 40)", cols, rows)
	}
}

func TestSessionFlush(t *testing.T) {
	dev := term.NewMemDevice(80, 24)
	s := startSession(t, dev)
	dev.TakeOutput()

	s.Grid().SetContent(0, 0, "hello", render.DefaultStyle())
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if got := dev.Output(); !strings.Contains(got, "hello") {
		t.Errorf("flush output %q missing content", got)
	}
}

func TestSessionCursorReport(t *testing.T) {
	dev := term.NewMemDevice(80, 24)
	s := startSession(t, dev)
	dev.TakeOutput()

	if err := s.RequestCursorPosition(); err != nil {
		t.Fatalf("RequestCursorPosition() error = %v", err)
	}
	if got := dev.Output(); !strings.Contains(got, ansi.RequestCursorPosition) {
		t.Fatalf("request output %q missing %q", got, ansi.RequestCursorPosition)
	}

	dev.FeedInput([]byte("\x1b[5;12R"))
	ev := nextEvent(t, s)
	cr, ok := ev.(event.CursorReportEvent)
	if !ok || cr.X != 11 || cr.Y != 4 {
		t.Errorf("event = %v (%T), want cursor report (11,4)", ev, ev)
	}
}

func TestSessionReportWithoutRequestIsKey(t *testing.T) {
	dev := term.NewMemDevice(80, 24)
	s := startSession(t, dev)

	// Without an outstanding request the same bytes decode as a
	// modified function key, not a report.
	dev.FeedInput([]byte("\x1b[1;2R"))
	ev := nextEvent(t, s)
	if _, ok := ev.(event.CursorReportEvent); ok {
		t.Errorf("event = %v, want keystroke interpretation", ev)
	}
}

func TestSessionStopRestores(t *testing.T) {
	dev := term.NewMemDevice(80, 24)
	s := startSession(t, dev)
	dev.TakeOutput()

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if dev.RawActive() {
		t.Error("raw mode still active after Stop")
	}
	out := dev.Output()
	for _, seq := range []string{
		ansi.DisableFocusReporting,
		ansi.DisableBracketedPaste,
		ansi.DisableMouse,
		ansi.ExitAltScreen,
		ansi.ResetAttributes,
	} {
		if !strings.Contains(out, seq) {
			t.Errorf("shutdown output %q missing %q", out, seq)
		}
	}
}

func TestSessionStopIdempotent(t *testing.T) {
	dev := term.NewMemDevice(80, 24)
	s := startSession(t, dev)

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	dev.TakeOutput()
	if err := s.Stop(); err != nil {
		t.Fatalf("second Stop() error = %v", err)
	}
	if got := dev.Output(); got != "" {
		t.Errorf("second Stop() wrote %q, want nothing", got)
	}
}

func TestSessionNextEventAfterStop(t *testing.T) {
	dev := term.NewMemDevice(80, 24)
	s := startSession(t, dev)

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	_, err := s.NextEvent(context.Background())
	if !errors.Is(err, ErrStopped) {
		t.Errorf("NextEvent() after Stop = %v, want ErrStopped", err)
	}
}

func TestSessionEndOfInput(t *testing.T) {
	dev := term.NewMemDevice(80, 24)
	s := startSession(t, dev)

	dev.FeedInput([]byte("x"))
	dev.Close()

	// The buffered byte still arrives, then the stream ends.
	ev := nextEvent(t, s)
	if ke, ok := ev.(event.KeyEvent); !ok || !ke.Equals(event.NewRuneKey('x', 0)) {
		t.Fatalf("event = %v (%T), want rune x", ev, ev)
	}

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done() not closed after end of input")
	}
	if _, err := s.NextEvent(context.Background()); !errors.Is(err, ErrStopped) {
		t.Errorf("NextEvent() after end of input = %v, want ErrStopped", err)
	}
}

func TestSessionReadErrorPropagates(t *testing.T) {
	cause := errors.New("descriptor yanked")
	dev := term.NewMemDevice(80, 24)
	dev.ReadErr = &term.DeviceError{Op: "read", Err: cause}
	s := startSession(t, dev)

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done() not closed after read failure")
	}

	// The device error, not the generic stop sentinel, reaches the caller.
	_, err := s.NextEvent(context.Background())
	if errors.Is(err, ErrStopped) {
		t.Fatalf("NextEvent() = %v, want the device error", err)
	}
	var de *term.DeviceError
	if !errors.As(err, &de) || !errors.Is(err, cause) {
		t.Errorf("NextEvent() = %v, want DeviceError wrapping %v", err, cause)
	}
	if err := s.Stop(); !errors.Is(err, cause) {
		t.Errorf("Stop() = %v, want the device error", err)
	}
}

func TestSessionStartFailureRollsBack(t *testing.T) {
	dev := term.NewMemDevice(80, 24)
	dev.RawErr = errors.New("no tty")
	s, err := New(dev, testOptions(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Start(); err == nil {
		t.Fatal("Start() with failing raw switch: want error")
	}
	if got := dev.Output(); got != "" {
		t.Errorf("failed Start() left output %q, want none", got)
	}
}

func TestSessionFlushBeforeStart(t *testing.T) {
	dev := term.NewMemDevice(80, 24)
	s, err := New(dev, testOptions(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Flush(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Flush() before Start = %v, want ErrNotStarted", err)
	}
}
