package render

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Cell represents a single terminal cell.
type Cell struct {
	// Content is the displayed grapheme cluster. It may span several
	// codepoints (combining marks, emoji sequences). Empty content
	// marks the continuation cell of a wide character.
	Content string

	// Width is the display width of this cell: 0 for continuation
	// cells, 1 for normal characters, 2 for wide CJK or emoji.
	Width int

	// Style is the visual style for this cell.
	Style Style
}

// EmptyCell returns a blank cell with the default style.
func EmptyCell() Cell {
	return Cell{Content: " ", Width: 1, Style: DefaultStyle()}
}

// NewCell creates a cell holding one grapheme cluster. Content wider than
// two columns is truncated to its first cluster by GraphemeWidth.
func NewCell(content string, style Style) Cell {
	return Cell{Content: content, Width: GraphemeWidth(content), Style: style}
}

// ContinuationCell returns the placeholder occupying the second column of a
// wide character.
func ContinuationCell(style Style) Cell {
	return Cell{Style: style}
}

// IsContinuation returns true if this is the second cell of a wide
// character.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Content == ""
}

// Equals returns true if two cells are identical.
func (c Cell) Equals(other Cell) bool {
	return c.Content == other.Content &&
		c.Width == other.Width &&
		c.Style.Equals(other.Style)
}

// GraphemeWidth returns the display width of a grapheme cluster, clamped to
// the 1-2 columns a cell pair can hold.
func GraphemeWidth(content string) int {
	w := runewidth.StringWidth(content)
	if w < 1 {
		return 1
	}
	if w > 2 {
		return 2
	}
	return w
}

// Graphemes splits a string into grapheme clusters, so multi-codepoint
// sequences land in single cells.
func Graphemes(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}
