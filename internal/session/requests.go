package session

import "github.com/dshills/termflow/internal/ansi"

// SetTitle sets the terminal window title.
func (s *Session) SetTitle(title string) error {
	return s.write(ansi.SetTitle(title))
}

// Beep sounds the terminal bell.
func (s *Session) Beep() error {
	return s.write("\a")
}

// request arms the decoder for a status response, then sends the request.
// The response arrives as a report event on the event stream; an expected
// response that never comes simply expires.
func (s *Session) request(seq string) error {
	if s.out == nil {
		return ErrNotStarted
	}
	s.resolver.ExpectReport()
	return s.write(seq)
}

// RequestCursorPosition asks the terminal where its cursor is. The answer
// arrives as a CursorReportEvent.
func (s *Session) RequestCursorPosition() error {
	return s.request(ansi.RequestCursorPosition)
}

// RequestForegroundColor asks for the default foreground color, answered
// by a ColorReportEvent.
func (s *Session) RequestForegroundColor() error {
	return s.request(ansi.RequestForegroundColor)
}

// RequestBackgroundColor asks for the default background color, answered
// by a ColorReportEvent.
func (s *Session) RequestBackgroundColor() error {
	return s.request(ansi.RequestBackgroundColor)
}

// RequestDeviceAttributes asks for primary device attributes, answered by
// a DeviceAttrsEvent.
func (s *Session) RequestDeviceAttributes() error {
	return s.request(ansi.RequestDeviceAttributes)
}

// RequestCellGeometry asks for the pixel size of one character cell,
// answered by a GeometryEvent.
func (s *Session) RequestCellGeometry() error {
	return s.request(ansi.RequestCellGeometry)
}

// RequestTerminalGeometry asks for the pixel size of the text area,
// answered by a GeometryEvent.
func (s *Session) RequestTerminalGeometry() error {
	return s.request(ansi.RequestTerminalGeometry)
}
