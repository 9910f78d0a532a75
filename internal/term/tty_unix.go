//go:build unix

package term

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// TTY is the Device backed by a real terminal. Input and output normally
// share the process's controlling terminal.
type TTY struct {
	in  *os.File
	out *os.File

	mu    sync.Mutex
	state *term.State
	done  chan struct{}

	winch   chan os.Signal
	resized chan struct{}
}

// Open returns a TTY over stdin and stdout. It fails with ErrNotTerminal
// when stdin is not attached to a terminal.
func Open() (*TTY, error) {
	return NewTTY(os.Stdin, os.Stdout)
}

// NewTTY wraps the given files as a terminal device. A SIGWINCH watcher is
// started to surface resizes; Close stops it.
func NewTTY(in, out *os.File) (*TTY, error) {
	if !term.IsTerminal(int(in.Fd())) {
		return nil, &DeviceError{Op: "open", Err: ErrNotTerminal}
	}
	t := &TTY{
		in:      in,
		out:     out,
		done:    make(chan struct{}),
		winch:   make(chan os.Signal, 1),
		resized: make(chan struct{}, 1),
	}
	signal.Notify(t.winch, syscall.SIGWINCH)
	go t.watchResize()
	return t, nil
}

func (t *TTY) watchResize() {
	for {
		select {
		case <-t.done:
			return
		case <-t.winch:
			select {
			case t.resized <- struct{}{}:
			default:
			}
		}
	}
}

// ReadTimeout polls the input descriptor for at most timeout, then reads
// whatever arrived. It returns (0, nil) on timeout. A negative timeout
// blocks until input or close.
func (t *TTY) ReadTimeout(p []byte, timeout time.Duration) (int, error) {
	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
	}

	fds := []unix.PollFd{{Fd: int32(t.in.Fd()), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, ms)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, &DeviceError{Op: "poll", Err: err}
	}
	if n == 0 {
		return 0, nil
	}

	nr, err := t.in.Read(p)
	if err != nil {
		return nr, &DeviceError{Op: "read", Err: err}
	}
	return nr, nil
}

func (t *TTY) Write(p []byte) (int, error) {
	n, err := t.out.Write(p)
	if err != nil {
		return n, &DeviceError{Op: "write", Err: err}
	}
	return n, nil
}

// Size queries the kernel for the terminal dimensions.
func (t *TTY) Size() (Size, error) {
	ws, err := unix.IoctlGetWinsize(int(t.out.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return Size{}, &DeviceError{Op: "winsize", Err: err}
	}
	return Size{Cols: int(ws.Col), Rows: int(ws.Row)}, nil
}

func (t *TTY) Resized() <-chan struct{} {
	return t.resized
}

// EnterRaw switches the line discipline to raw mode, saving the prior
// state. Nested calls are no-ops until ExitRaw.
func (t *TTY) EnterRaw() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != nil {
		return nil
	}
	state, err := term.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return &DeviceError{Op: "raw", Err: err}
	}
	t.state = state
	return nil
}

// ExitRaw restores the line discipline saved by EnterRaw.
func (t *TTY) ExitRaw() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == nil {
		return nil
	}
	err := term.Restore(int(t.in.Fd()), t.state)
	t.state = nil
	if err != nil {
		return &DeviceError{Op: "restore", Err: err}
	}
	return nil
}

// Close stops the resize watcher and restores the line discipline. The
// underlying files are left open; they belong to the caller.
func (t *TTY) Close() error {
	t.mu.Lock()
	if t.done != nil {
		select {
		case <-t.done:
		default:
			close(t.done)
		}
	}
	t.mu.Unlock()

	signal.Stop(t.winch)
	return t.ExitRaw()
}
