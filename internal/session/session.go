// Package session ties the engine together: it switches the terminal into
// the configured modes, runs the read loop that turns raw bytes into
// events, exposes the cell grid and its flush, and guarantees the terminal
// is restored exactly once no matter how the session ends.
package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/dshills/termflow/internal/ansi"
	"github.com/dshills/termflow/internal/config"
	"github.com/dshills/termflow/internal/event"
	"github.com/dshills/termflow/internal/input"
	"github.com/dshills/termflow/internal/render"
	"github.com/dshills/termflow/internal/term"
)

// ErrStopped indicates the session has ended and no further events will
// arrive.
var ErrStopped = errors.New("session stopped")

// ErrNotStarted indicates an operation that requires a running session.
var ErrNotStarted = errors.New("session not started")

// readPollInterval bounds how long the read loop blocks in the device, so
// Stop is noticed promptly.
const readPollInterval = 50 * time.Millisecond

// eventBuffer is the capacity of the delivery channel. Input is bursty
// (pastes, mouse drags); the buffer absorbs a burst without stalling the
// read loop.
const eventBuffer = 128

// Session is a running terminal session.
//
// The read loop runs on its own goroutine and delivers decoded events
// through Events or NextEvent. Grid and Flush belong to the client's
// goroutine; Stop may be called from anywhere, repeatedly.
type Session struct {
	opts config.Options
	dev  term.Device
	ctrl *term.Controller

	resolver *input.Resolver
	comp     *render.Compositor
	out      io.Writer

	// writeMu orders every byte written to the terminal: flushes,
	// requests, and resize handling.
	writeMu sync.Mutex

	events   chan event.Event
	done     chan struct{}
	finished chan struct{}

	wg         sync.WaitGroup
	started    bool
	ownsDev    bool
	stopOnce   sync.Once
	finishOnce sync.Once
	stopErr    error

	// readErr holds the device error that ended the read loop, if any.
	// Written before finished closes; read only after it has.
	readErr error
}

// New creates a session over dev. Nothing touches the terminal until
// Start.
func New(dev term.Device, opts config.Options) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		opts:     opts,
		dev:      dev,
		ctrl:     term.NewController(dev),
		events:   make(chan event.Event, eventBuffer),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	parser := input.NewParser()
	s.resolver = input.NewResolver(parser, opts.EscapeTimeout, func(evs []event.Event) {
		for _, ev := range evs {
			s.deliver(ev)
		}
	})
	return s, nil
}

// Open creates a session over the process's terminal and starts it. The
// session owns the terminal device and closes it on Stop.
func Open(opts ...config.Option) (*Session, error) {
	o, err := config.New(opts...)
	if err != nil {
		return nil, err
	}
	tty, err := term.Open()
	if err != nil {
		return nil, err
	}
	s, err := New(tty, o)
	if err != nil {
		tty.Close()
		return nil, err
	}
	s.ownsDev = true
	if err := s.Start(); err != nil {
		tty.Close()
		return nil, err
	}
	return s, nil
}

// Start switches the terminal into the configured modes and begins
// decoding input. On failure every mode change already made is undone.
func (s *Session) Start() error {
	if s.started {
		return errors.New("session already started")
	}

	size, err := s.dev.Size()
	if err != nil {
		return err
	}
	s.comp = render.NewCompositor(size.Cols, size.Rows)
	s.comp.SetDepth(renderDepth(s.opts.ColorDepth))

	out, err := newEncodedWriter(s.dev, s.opts.Charset)
	if err != nil {
		return err
	}
	s.out = out

	if err := s.ctrl.Enter(s.modes()...); err != nil {
		return err
	}
	if s.opts.Title != "" {
		if err := s.write(ansi.SetTitle(s.opts.Title)); err != nil {
			s.ctrl.RestoreAll()
			return err
		}
	}

	s.started = true
	s.wg.Add(2)
	go s.readLoop()
	go s.resizeLoop()
	return nil
}

// modes translates the configuration into the mode list, in entry order.
func (s *Session) modes() []term.Mode {
	modes := []term.Mode{term.ModeRaw}
	if s.opts.AltScreen {
		modes = append(modes, term.ModeAltScreen)
	}
	if s.opts.Mouse {
		modes = append(modes, term.ModeMouse)
	}
	if s.opts.BracketedPaste {
		modes = append(modes, term.ModeBracketedPaste)
	}
	if s.opts.FocusReporting {
		modes = append(modes, term.ModeFocusReporting)
	}
	if s.opts.HideCursor {
		modes = append(modes, term.ModeHiddenCursor)
	}
	return modes
}

func renderDepth(name string) render.Depth {
	switch name {
	case config.Depth256:
		return render.Depth256
	case config.Depth16:
		return render.Depth16
	}
	return render.DepthTrueColor
}

// readLoop pulls bytes from the device and feeds them through the decoder
// until the session stops or the device reports end of input.
func (s *Session) readLoop() {
	defer s.wg.Done()
	buf := make([]byte, 4096)
	for {
		select {
		case <-s.done:
			return
		default:
		}

		n, err := s.dev.ReadTimeout(buf, readPollInterval)
		if n > 0 {
			for _, ev := range s.resolver.Feed(buf[:n]) {
				s.deliver(ev)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				for _, ev := range s.resolver.Drain() {
					s.deliver(ev)
				}
			} else {
				s.readErr = err
			}
			s.finishOnce.Do(func() { close(s.finished) })
			return
		}
	}
}

// resizeLoop reacts to terminal size changes: the grids are resized under
// the write lock, then a resize event joins the ordinary event stream.
func (s *Session) resizeLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case <-s.dev.Resized():
			sz, err := s.dev.Size()
			if err != nil {
				continue
			}
			s.writeMu.Lock()
			s.comp.Resize(sz.Cols, sz.Rows)
			s.writeMu.Unlock()
			s.deliver(event.ResizeEvent{Cols: sz.Cols, Rows: sz.Rows})
		}
	}
}

// deliver hands one event to the consumer, giving up if the session stops
// first.
func (s *Session) deliver(ev event.Event) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

// Events returns the delivery channel. It is never closed; watch Done to
// learn that no further events will arrive.
func (s *Session) Events() <-chan event.Event {
	return s.events
}

// Done returns a channel closed when the event stream has ended, either by
// Stop or because the device reached end of input.
func (s *Session) Done() <-chan struct{} {
	return s.finished
}

// NextEvent returns the next decoded event. Buffered events drain even
// after the stream ends; once empty it returns the device error that ended
// the stream, or ErrStopped when it ended cleanly. Cancelling the context
// returns its error.
func (s *Session) NextEvent(ctx context.Context) (event.Event, error) {
	select {
	case ev := <-s.events:
		return ev, nil
	default:
	}
	select {
	case ev := <-s.events:
		return ev, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.finished:
		select {
		case ev := <-s.events:
			return ev, nil
		default:
			if s.readErr != nil {
				return nil, s.readErr
			}
			return nil, ErrStopped
		}
	}
}

// Grid returns the desired-state grid clients draw into. Call Flush to
// push the changes to the terminal.
func (s *Session) Grid() *render.Grid {
	return s.comp.Desired()
}

// Size returns the current grid dimensions.
func (s *Session) Size() (cols, rows int) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.comp.Size()
}

// Flush writes the pending grid changes to the terminal as one ordered
// write.
func (s *Session) Flush() error {
	if s.out == nil {
		return ErrNotStarted
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, err := s.comp.Flush(s.out)
	return err
}

// write sends a control string to the terminal under the write lock.
func (s *Session) write(seq string) error {
	if s.out == nil {
		return ErrNotStarted
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, err := io.WriteString(s.out, seq)
	return err
}

// Stop ends the session: the loops wind down, every terminal mode is
// restored in reverse order, and, for sessions that own their device, the
// device is closed. Stop is idempotent; later calls return the first
// call's result.
func (s *Session) Stop() error {
	s.stopOnce.Do(func() {
		close(s.done)
		s.resolver.Stop()
		s.wg.Wait()

		// A transcoding writer may hold a partial rune; flush it before
		// the restore sequences go out on the raw device.
		if c, ok := s.out.(io.Closer); ok {
			c.Close()
		}
		s.stopErr = s.readErr
		if s.started {
			if err := s.ctrl.RestoreAll(); err != nil && s.stopErr == nil {
				s.stopErr = err
			}
		}
		if s.ownsDev {
			if err := s.dev.Close(); err != nil && s.stopErr == nil {
				s.stopErr = err
			}
		}
		s.finishOnce.Do(func() { close(s.finished) })
	})
	return s.stopErr
}
