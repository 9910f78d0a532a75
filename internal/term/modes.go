package term

import (
	"sync"

	"github.com/dshills/termflow/internal/ansi"
)

// Mode is a terminal mode the engine can switch on and off.
type Mode uint8

const (
	// ModeRaw disables line buffering, echo and signal keys.
	ModeRaw Mode = iota

	// ModeAltScreen switches to the alternate screen buffer.
	ModeAltScreen

	// ModeMouse enables mouse event reporting.
	ModeMouse

	// ModeBracketedPaste wraps pasted text in paste markers.
	ModeBracketedPaste

	// ModeFocusReporting enables focus in/out reports.
	ModeFocusReporting

	// ModeHiddenCursor hides the text cursor.
	ModeHiddenCursor
)

func (m Mode) String() string {
	switch m {
	case ModeRaw:
		return "raw"
	case ModeAltScreen:
		return "alt-screen"
	case ModeMouse:
		return "mouse"
	case ModeBracketedPaste:
		return "bracketed-paste"
	case ModeFocusReporting:
		return "focus-reporting"
	case ModeHiddenCursor:
		return "hidden-cursor"
	}
	return "unknown"
}

// modeSequences holds the control strings entering and leaving each screen
// mode. ModeRaw is absent: it is a line-discipline switch, not a control
// sequence.
var modeSequences = map[Mode]struct{ enter, exit string }{
	ModeAltScreen:      {ansi.EnterAltScreen, ansi.ExitAltScreen},
	ModeMouse:          {ansi.EnableMouse, ansi.DisableMouse},
	ModeBracketedPaste: {ansi.EnableBracketedPaste, ansi.DisableBracketedPaste},
	ModeFocusReporting: {ansi.EnableFocusReporting, ansi.DisableFocusReporting},
	ModeHiddenCursor:   {ansi.HideCursor, ansi.ShowCursor},
}

// Controller tracks which terminal modes are active so every entered mode
// is undone exactly once, in reverse order, no matter how the program
// terminates.
type Controller struct {
	dev Device

	mu       sync.Mutex
	active   []Mode
	restored bool

	restoreOnce sync.Once
	restoreErr  error
}

// NewController creates a mode controller over dev. No modes are active.
func NewController(dev Device) *Controller {
	return &Controller{dev: dev}
}

// Enter switches on the given modes in order. If one fails, the modes
// already entered by this call are rolled back in reverse and a ModeError
// for the failed mode is returned, leaving the terminal as Enter found it.
func (c *Controller) Enter(modes ...Mode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.restored {
		return &ModeError{Mode: ModeRaw, Err: ErrClosed}
	}

	var entered []Mode
	for _, m := range modes {
		if c.isActive(m) {
			continue
		}
		if err := c.enterOne(m); err != nil {
			for i := len(entered) - 1; i >= 0; i-- {
				c.leaveOne(entered[i])
				c.deactivate(entered[i])
			}
			return &ModeError{Mode: m, Err: err}
		}
		entered = append(entered, m)
		c.active = append(c.active, m)
	}
	return nil
}

// Leave switches off the given modes, most recently entered first. Modes
// that are not active are skipped. The first failure is returned after all
// requested modes have been attempted.
func (c *Controller) Leave(modes ...Mode) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for i := len(c.active) - 1; i >= 0; i-- {
		m := c.active[i]
		if !containsMode(modes, m) {
			continue
		}
		if err := c.leaveOne(m); err != nil && firstErr == nil {
			firstErr = &ModeError{Mode: m, Err: err}
		}
		c.active = append(c.active[:i], c.active[i+1:]...)
	}
	return firstErr
}

// Active returns the active modes in the order they were entered.
func (c *Controller) Active() []Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Mode, len(c.active))
	copy(out, c.active)
	return out
}

// IsActive reports whether m is currently active.
func (c *Controller) IsActive(m Mode) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isActive(m)
}

// RestoreAll undoes every active mode in reverse entry order and resets
// text attributes. It runs its work exactly once; later calls return the
// first call's result. After RestoreAll the controller rejects Enter.
func (c *Controller) RestoreAll() error {
	c.restoreOnce.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.restored = true

		// Screen modes come off before raw mode so the control strings
		// still reach a terminal in a known state.
		for i := len(c.active) - 1; i >= 0; i-- {
			m := c.active[i]
			if m == ModeRaw {
				continue
			}
			if err := c.leaveOne(m); err != nil && c.restoreErr == nil {
				c.restoreErr = &ModeError{Mode: m, Err: err}
			}
		}
		if _, err := c.dev.Write([]byte(ansi.ResetAttributes)); err != nil && c.restoreErr == nil {
			c.restoreErr = &DeviceError{Op: "restore", Err: err}
		}
		if c.isActive(ModeRaw) {
			if err := c.dev.ExitRaw(); err != nil && c.restoreErr == nil {
				c.restoreErr = &ModeError{Mode: ModeRaw, Err: err}
			}
		}
		c.active = nil
	})
	return c.restoreErr
}

func (c *Controller) enterOne(m Mode) error {
	if m == ModeRaw {
		return c.dev.EnterRaw()
	}
	seq, ok := modeSequences[m]
	if !ok {
		return ErrUnknownMode
	}
	_, err := c.dev.Write([]byte(seq.enter))
	return err
}

func (c *Controller) leaveOne(m Mode) error {
	if m == ModeRaw {
		return c.dev.ExitRaw()
	}
	seq, ok := modeSequences[m]
	if !ok {
		return ErrUnknownMode
	}
	_, err := c.dev.Write([]byte(seq.exit))
	return err
}

func (c *Controller) isActive(m Mode) bool {
	return containsMode(c.active, m)
}

func (c *Controller) deactivate(m Mode) {
	for i, a := range c.active {
		if a == m {
			c.active = append(c.active[:i], c.active[i+1:]...)
			return
		}
	}
}

func containsMode(modes []Mode, m Mode) bool {
	for _, a := range modes {
		if a == m {
			return true
		}
	}
	return false
}
