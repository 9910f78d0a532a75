package event

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	// ButtonNone indicates no button (motion with nothing held).
	ButtonNone MouseButton = iota

	// ButtonLeft is the primary button.
	ButtonLeft

	// ButtonMiddle is the middle (wheel) button.
	ButtonMiddle

	// ButtonRight is the secondary button.
	ButtonRight
)

// String returns the string representation of the button.
func (b MouseButton) String() string {
	switch b {
	case ButtonNone:
		return "none"
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "unknown"
	}
}

// MouseAction identifies what the mouse did.
type MouseAction uint8

const (
	// MousePress is a button press.
	MousePress MouseAction = iota

	// MouseRelease is a button release.
	MouseRelease

	// MouseMotion is movement, with or without a held button.
	MouseMotion

	// MouseWheelUp is an upward scroll.
	MouseWheelUp

	// MouseWheelDown is a downward scroll.
	MouseWheelDown
)

// String returns the string representation of the action.
func (a MouseAction) String() string {
	switch a {
	case MousePress:
		return "press"
	case MouseRelease:
		return "release"
	case MouseMotion:
		return "motion"
	case MouseWheelUp:
		return "wheel_up"
	case MouseWheelDown:
		return "wheel_down"
	default:
		return "unknown"
	}
}

// IsWheel returns true for scroll actions.
func (a MouseAction) IsWheel() bool {
	return a == MouseWheelUp || a == MouseWheelDown
}
