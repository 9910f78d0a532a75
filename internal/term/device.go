package term

import (
	"io"
	"sync"
	"time"
)

// Size holds terminal dimensions in cells.
type Size struct {
	Cols int
	Rows int
}

// Device is the engine's view of a terminal: timed byte reads on the input
// side, ordered writes on the output side, size queries, resize
// notification, and raw-mode switching. The real implementation is TTY; a
// MemDevice stands in for tests.
type Device interface {
	// ReadTimeout reads available input bytes, waiting at most timeout.
	// It returns (0, nil) when the timeout expires with no input, and
	// io.EOF once the device has no further input to deliver. A negative
	// timeout blocks until input arrives.
	ReadTimeout(p []byte, timeout time.Duration) (int, error)

	// Write delivers p to the terminal in one ordered write.
	Write(p []byte) (int, error)

	// Size returns the current terminal dimensions.
	Size() (Size, error)

	// Resized returns a channel that receives a signal whenever the
	// terminal dimensions change.
	Resized() <-chan struct{}

	// EnterRaw disables line buffering, echo and signal generation.
	EnterRaw() error

	// ExitRaw restores the line discipline saved by EnterRaw.
	ExitRaw() error

	// Close releases the device. Raw mode is exited if still active.
	Close() error
}

// MemDevice is an in-memory Device used by tests: input is scripted with
// FeedInput, output is captured, and resizes are injected with SetSize.
type MemDevice struct {
	mu      sync.Mutex
	input   []byte
	output  []byte
	size    Size
	resized chan struct{}
	wake    chan struct{}
	closed  bool
	raw     bool

	// WriteErr, when set, is returned by every Write.
	WriteErr error
	// RawErr, when set, is returned by EnterRaw.
	RawErr error
	// ReadErr, when set, is returned by every ReadTimeout. Set it before
	// handing the device to a session.
	ReadErr error
}

// NewMemDevice creates an in-memory device reporting the given size.
func NewMemDevice(cols, rows int) *MemDevice {
	return &MemDevice{
		size:    Size{Cols: cols, Rows: rows},
		resized: make(chan struct{}, 1),
		wake:    make(chan struct{}),
	}
}

// FeedInput appends bytes to the pending input stream and wakes blocked
// readers.
func (d *MemDevice) FeedInput(p []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.input = append(d.input, p...)
	d.signal()
}

// signal wakes readers waiting for input. Caller holds mu.
func (d *MemDevice) signal() {
	close(d.wake)
	d.wake = make(chan struct{})
}

// ReadTimeout drains pending input, waiting up to timeout for some to
// arrive. It returns (0, nil) on timeout, io.EOF once the device is closed
// and drained, and blocks indefinitely for a negative timeout.
func (d *MemDevice) ReadTimeout(p []byte, timeout time.Duration) (int, error) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	for {
		d.mu.Lock()
		if d.ReadErr != nil {
			err := d.ReadErr
			d.mu.Unlock()
			return 0, err
		}
		if len(d.input) > 0 {
			n := copy(p, d.input)
			d.input = d.input[n:]
			d.mu.Unlock()
			return n, nil
		}
		if d.closed {
			d.mu.Unlock()
			return 0, io.EOF
		}
		wake := d.wake
		d.mu.Unlock()

		if timeout == 0 {
			return 0, nil
		}
		if timeout < 0 {
			<-wake
			continue
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0, nil
		}
		select {
		case <-wake:
		case <-time.After(remaining):
			return 0, nil
		}
	}
}

func (d *MemDevice) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.WriteErr != nil {
		return 0, d.WriteErr
	}
	if d.closed {
		return 0, ErrClosed
	}
	d.output = append(d.output, p...)
	return len(p), nil
}

// Output returns everything written so far.
func (d *MemDevice) Output() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return string(d.output)
}

// TakeOutput returns everything written so far and clears the capture.
func (d *MemDevice) TakeOutput() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := string(d.output)
	d.output = d.output[:0]
	return out
}

func (d *MemDevice) Size() (Size, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return Size{}, ErrClosed
	}
	return d.size, nil
}

// SetSize changes the reported dimensions and signals a resize.
func (d *MemDevice) SetSize(cols, rows int) {
	d.mu.Lock()
	d.size = Size{Cols: cols, Rows: rows}
	d.mu.Unlock()
	select {
	case d.resized <- struct{}{}:
	default:
	}
}

func (d *MemDevice) Resized() <-chan struct{} {
	return d.resized
}

func (d *MemDevice) EnterRaw() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.RawErr != nil {
		return d.RawErr
	}
	d.raw = true
	return nil
}

func (d *MemDevice) ExitRaw() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.raw = false
	return nil
}

// RawActive reports whether the device is in raw mode.
func (d *MemDevice) RawActive() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.raw
}

// Close marks the device closed. Buffered input still drains; reads after
// that return io.EOF.
func (d *MemDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.raw = false
	d.signal()
	return nil
}
