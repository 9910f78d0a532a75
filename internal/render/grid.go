package render

// Grid is a fixed-size 2-D array of cells indexed by (column, row).
type Grid struct {
	cols, rows int
	cells      [][]Cell
}

// NewGrid creates a grid of the given dimensions filled with blank cells.
// Negative dimensions are clamped to zero.
func NewGrid(cols, rows int) *Grid {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	g := &Grid{cols: cols, rows: rows}
	g.allocate()
	return g
}

func (g *Grid) allocate() {
	g.cells = make([][]Cell, g.rows)
	for y := 0; y < g.rows; y++ {
		row := make([]Cell, g.cols)
		for x := range row {
			row[x] = EmptyCell()
		}
		g.cells[y] = row
	}
}

// Size returns the grid dimensions.
func (g *Grid) Size() (cols, rows int) {
	return g.cols, g.rows
}

// Cell returns the cell at (x, y), or a blank cell out of bounds.
func (g *Grid) Cell(x, y int) Cell {
	if x < 0 || x >= g.cols || y < 0 || y >= g.rows {
		return EmptyCell()
	}
	return g.cells[y][x]
}

// SetCell stores a cell at (x, y). Out-of-bounds writes are ignored.
// Writing over half of an existing wide character blanks its other half so
// no orphaned continuation cell survives.
func (g *Grid) SetCell(x, y int, c Cell) {
	if x < 0 || x >= g.cols || y < 0 || y >= g.rows {
		return
	}

	// A cell literal built without Width must still occupy at least one
	// column, or the flush loop's column walk would never advance past it.
	if !c.IsContinuation() {
		if c.Width < 1 {
			c.Width = 1
		} else if c.Width > 2 {
			c.Width = 2
		}
	}

	// Clear a wide character this write splits.
	old := g.cells[y][x]
	if old.IsContinuation() && x > 0 {
		left := g.cells[y][x-1]
		if left.Width == 2 {
			left.Content = " "
			left.Width = 1
			g.cells[y][x-1] = left
		}
	}
	if old.Width == 2 && x+1 < g.cols {
		g.cells[y][x+1] = EmptyCell()
	}

	g.cells[y][x] = c
}

// SetContent places a string starting at (x, y), one grapheme cluster per
// cell, adding continuation cells after wide clusters. It returns the number
// of columns consumed. Content past the right edge is dropped.
func (g *Grid) SetContent(x, y int, s string, style Style) int {
	start := x
	for _, cluster := range Graphemes(s) {
		if x >= g.cols {
			break
		}
		c := NewCell(cluster, style)
		if c.Width == 2 && x+1 >= g.cols {
			// A wide character cannot straddle the edge.
			g.SetCell(x, y, Cell{Content: " ", Width: 1, Style: style})
			x++
			break
		}
		g.SetCell(x, y, c)
		if c.Width == 2 {
			g.SetCell(x+1, y, ContinuationCell(style))
		}
		x += c.Width
	}
	return x - start
}

// Fill sets every cell to a copy of c.
func (g *Grid) Fill(c Cell) {
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			g.cells[y][x] = c
		}
	}
}

// Clear fills the grid with blank cells.
func (g *Grid) Clear() {
	g.Fill(EmptyCell())
}

// Resize reallocates the grid to new dimensions, discarding all content.
func (g *Grid) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	g.cols = cols
	g.rows = rows
	g.allocate()
}

// CopyFrom makes this grid an exact copy of src. Both grids must have the
// same dimensions.
func (g *Grid) CopyFrom(src *Grid) {
	for y := 0; y < g.rows && y < src.rows; y++ {
		copy(g.cells[y], src.cells[y])
	}
}
