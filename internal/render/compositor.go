package render

import (
	"io"

	"github.com/dshills/termflow/internal/ansi"
)

// Compositor diffs a desired grid against the believed on-screen state and
// emits the minimal ordered byte stream that reconciles them.
//
// Compositor is a sequential state machine; callers must not run two Flush
// calls concurrently.
type Compositor struct {
	current *Grid
	desired *Grid

	// full forces every in-bounds cell to be rewritten, used when the
	// on-screen content is unknown (startup, resize, failed write).
	full bool

	// cx, cy track where the terminal cursor was left; -1 means unknown.
	cx, cy int

	// style is the last SGR state sent, valid only if styleValid.
	style      Style
	styleValid bool

	depth Depth
	buf   []byte
}

// NewCompositor creates a compositor for a terminal of the given size.
// The first flush rewrites everything, since prior screen content is
// unknown.
func NewCompositor(cols, rows int) *Compositor {
	return &Compositor{
		current: NewGrid(cols, rows),
		desired: NewGrid(cols, rows),
		full:    true,
		cx:      -1,
		cy:      -1,
	}
}

// Desired returns the grid clients mutate. Changes become visible on the
// next Flush; repeated writes to one cell before a flush keep only the last.
func (c *Compositor) Desired() *Grid {
	return c.desired
}

// Size returns the grid dimensions.
func (c *Compositor) Size() (cols, rows int) {
	return c.desired.Size()
}

// SetDepth sets the color depth used when emitting SGR sequences.
func (c *Compositor) SetDepth(d Depth) {
	if d != c.depth {
		c.depth = d
		c.styleValid = false
		c.full = true
	}
}

// Resize reallocates both grids to the new dimensions. No diff against the
// prior screen is possible, so the next flush rewrites every cell.
func (c *Compositor) Resize(cols, rows int) {
	c.current.Resize(cols, rows)
	c.desired.Resize(cols, rows)
	c.full = true
	c.cx, c.cy = -1, -1
	c.styleValid = false
}

// Invalidate forces the next flush to rewrite every cell.
func (c *Compositor) Invalidate() {
	c.full = true
	c.styleValid = false
	c.cx, c.cy = -1, -1
}

// Flush writes the pending diff to w in one ordered write and, only if the
// write succeeds, commits desired into current. An unchanged desired grid
// writes zero bytes. On error the grids are untouched, so a later flush
// retries the same cells.
func (c *Compositor) Flush(w io.Writer) (int, error) {
	c.buf = c.buf[:0]
	cols, rows := c.desired.Size()

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; {
			d := c.desired.Cell(x, y)
			if d.IsContinuation() {
				x++
				continue
			}
			if !c.full && c.cellClean(x, y, d) {
				x += d.Width
				continue
			}
			c.emitCell(x, y, d)
			x += d.Width
		}
	}

	if len(c.buf) == 0 {
		c.full = false
		return 0, nil
	}

	n, err := w.Write(c.buf)
	if err != nil {
		// The terminal state is now unknown; current is deliberately
		// not updated so the next flush retries everything pending.
		c.cx, c.cy = -1, -1
		c.styleValid = false
		return n, err
	}

	c.current.CopyFrom(c.desired)
	c.full = false
	return n, nil
}

// cellClean reports whether the on-screen cell (and its continuation, for
// wide characters) already matches the desired cell.
func (c *Compositor) cellClean(x, y int, d Cell) bool {
	if !d.Equals(c.current.Cell(x, y)) {
		return false
	}
	if d.Width == 2 && !c.desired.Cell(x+1, y).Equals(c.current.Cell(x+1, y)) {
		return false
	}
	return true
}

// emitCell appends the bytes that draw one cell: a cursor move if the
// terminal cursor is elsewhere, an SGR if the style changed, then the
// content. Contiguous cells on a row cost no extra cursor moves.
func (c *Compositor) emitCell(x, y int, d Cell) {
	if c.cx != x || c.cy != y {
		c.buf = ansi.AppendCursorPosition(c.buf, x, y)
		c.cx, c.cy = x, y
	}
	if !c.styleValid || !d.Style.Equals(c.style) {
		c.buf = d.Style.appendSGR(c.buf, c.depth)
		c.style = d.Style
		c.styleValid = true
	}
	c.buf = append(c.buf, d.Content...)
	c.cx += d.Width
}
