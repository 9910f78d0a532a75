package render

import "strconv"

// Attribute represents text attributes (bold, italic, etc.).
type Attribute uint16

// Text attribute flags.
const (
	AttrNone          Attribute = 0
	AttrBold          Attribute = 1 << iota
	AttrDim                     // Faint/dim text
	AttrItalic                  // Italic text
	AttrUnderline               // Underlined text
	AttrBlink                   // Blinking text (rarely supported)
	AttrReverse                 // Reverse video (swap fg/bg)
	AttrStrikethrough           // Strikethrough text
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// With returns a new attribute set with the given attribute added.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Without returns a new attribute set with the given attribute removed.
func (a Attribute) Without(attr Attribute) Attribute {
	return a &^ attr
}

// Style represents the visual style of a cell.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle returns the terminal's default style.
func DefaultStyle() Style {
	return Style{
		Foreground: ColorDefault,
		Background: ColorDefault,
	}
}

// WithForeground returns a new style with the given foreground color.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns a new style with the given background color.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// Bold returns a new style with the bold attribute added.
func (s Style) Bold() Style {
	s.Attributes |= AttrBold
	return s
}

// Underline returns a new style with the underline attribute added.
func (s Style) Underline() Style {
	s.Attributes |= AttrUnderline
	return s
}

// Reverse returns a new style with the reverse video attribute added.
func (s Style) Reverse() Style {
	s.Attributes |= AttrReverse
	return s
}

// Equals returns true if two styles are identical.
func (s Style) Equals(other Style) bool {
	return s.Foreground.Equals(other.Foreground) &&
		s.Background.Equals(other.Background) &&
		s.Attributes == other.Attributes
}

// sgrAttrParams maps attributes to their SGR parameter, in emission order.
var sgrAttrParams = []struct {
	attr  Attribute
	param byte
}{
	{AttrBold, '1'},
	{AttrDim, '2'},
	{AttrItalic, '3'},
	{AttrUnderline, '4'},
	{AttrBlink, '5'},
	{AttrReverse, '7'},
	{AttrStrikethrough, '9'},
}

// appendSGR appends the single SGR sequence that takes the terminal from any
// prior state to this style: a reset parameter first, then attributes, then
// colors at the given depth.
func (s Style) appendSGR(dst []byte, depth Depth) []byte {
	dst = append(dst, "\x1b[0"...)
	for _, ap := range sgrAttrParams {
		if s.Attributes.Has(ap.attr) {
			dst = append(dst, ';', ap.param)
		}
	}
	dst = appendColorParams(dst, s.Foreground.Downsample(depth), 38)
	dst = appendColorParams(dst, s.Background.Downsample(depth), 48)
	return append(dst, 'm')
}

// appendColorParams appends ";base;2;r;g;b" or ";base;5;n" for a color.
// Default colors append nothing; the reset parameter already selected them.
func appendColorParams(dst []byte, c Color, base int) []byte {
	if c.Default {
		return dst
	}
	dst = append(dst, ';')
	dst = strconv.AppendInt(dst, int64(base), 10)
	if c.Indexed {
		dst = append(dst, ";5;"...)
		return strconv.AppendInt(dst, int64(c.R), 10)
	}
	dst = append(dst, ";2;"...)
	dst = strconv.AppendInt(dst, int64(c.R), 10)
	dst = append(dst, ';')
	dst = strconv.AppendInt(dst, int64(c.G), 10)
	dst = append(dst, ';')
	return strconv.AppendInt(dst, int64(c.B), 10)
}
