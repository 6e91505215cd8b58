package display

import (
	"strings"
	"unicode/utf8"
)

const (
	// CellWidth is the horizontal size of one text cell in pixels.
	CellWidth = 4

	// CellHeight is the vertical size of one text cell in pixels.
	CellHeight = 12
)

type cell struct {
	ch   rune
	fg   Color
	bg   Color
	bold bool
}

// Grid is a character-cell [Canvas].
//
// Pixel coordinates are mapped onto cells of [CellWidth] x [CellHeight]
// pixels, which is enough resolution for the sign's text-only layout. A
// rectangle colors every cell it touches.
type Grid struct {
	width, height int
	cols, rows    int
	cells         []cell
}

// NewGrid creates a grid covering width x height pixels.
func NewGrid(width, height int) *Grid {
	cols := (width + CellWidth - 1) / CellWidth
	rows := (height + CellHeight - 1) / CellHeight
	g := &Grid{
		width:  width,
		height: height,
		cols:   cols,
		rows:   rows,
		cells:  make([]cell, cols*rows),
	}
	g.Clear()
	return g
}

// Size returns the pixel dimensions of the grid.
func (g *Grid) Size() (int, int) {
	return g.width, g.height
}

// Dimensions returns the number of text columns and rows.
func (g *Grid) Dimensions() (cols, rows int) {
	return g.cols, g.rows
}

// Clear resets every cell to a black blank.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = cell{ch: ' ', fg: White, bg: Black}
	}
}

// FillRect sets the background of every cell touched by r.
func (g *Grid) FillRect(r Rect, c Color) error {
	r = r.Intersect(Rect{W: g.width, H: g.height})
	if r.Empty() {
		return ErrOutOfBounds
	}

	c0, r0 := r.X/CellWidth, r.Y/CellHeight
	c1 := (r.X + r.W + CellWidth - 1) / CellWidth
	r1 := (r.Y + r.H + CellHeight - 1) / CellHeight

	for row := r0; row < r1 && row < g.rows; row++ {
		for col := c0; col < c1 && col < g.cols; col++ {
			idx := row*g.cols + col
			g.cells[idx].bg = c
			// a filled block with no glyph shows the fill color
			if g.cells[idx].ch == ' ' {
				g.cells[idx].fg = c
			}
		}
	}
	return nil
}

// DrawText writes text into the row containing y. Characters that fall off
// either edge are clipped.
func (g *Grid) DrawText(x, y int, text string, style TextStyle) error {
	if y < 0 || y >= g.height {
		return ErrOutOfBounds
	}
	row := y / CellHeight

	n := utf8.RuneCountInString(text)
	col := x / CellWidth
	switch style.Align {
	case AlignCenter:
		col = (g.cols - n) / 2
	case AlignRight:
		col = x/CellWidth - n
	}
	if col >= g.cols || col+n <= 0 {
		return ErrOutOfBounds
	}

	for _, ch := range text {
		if col >= 0 && col < g.cols {
			idx := row*g.cols + col
			g.cells[idx].ch = ch
			g.cells[idx].fg = style.Color
			g.cells[idx].bold = style.Bold
		}
		col++
	}
	return nil
}

// Lines returns the text content of each row with trailing blanks trimmed.
func (g *Grid) Lines() []string {
	lines := make([]string, g.rows)
	var sb strings.Builder
	for row := 0; row < g.rows; row++ {
		sb.Reset()
		for col := 0; col < g.cols; col++ {
			sb.WriteRune(g.cells[row*g.cols+col].ch)
		}
		lines[row] = strings.TrimRight(sb.String(), " ")
	}
	return lines
}

// Background returns the background color of the cell containing the pixel.
func (g *Grid) Background(x, y int) Color {
	col, row := x/CellWidth, y/CellHeight
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return Black
	}
	return g.cells[row*g.cols+col].bg
}
