package term

import "errors"

// ErrNotTerminal indicates the file descriptor is not attached to a
// terminal.
var ErrNotTerminal = errors.New("not a terminal")

// ErrClosed indicates the device has been closed.
var ErrClosed = errors.New("device closed")

// ErrUnknownMode indicates a mode value the controller does not recognize.
var ErrUnknownMode = errors.New("unknown mode")

// DeviceError wraps a failed operation on the terminal device.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return "terminal " + e.Op + ": " + e.Err.Error()
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// ModeError wraps a failure to enter or leave a terminal mode.
type ModeError struct {
	Mode Mode
	Err  error
}

func (e *ModeError) Error() string {
	return "mode " + e.Mode.String() + ": " + e.Err.Error()
}

func (e *ModeError) Unwrap() error {
	return e.Err
}
