package viz

import "strings"

// Braille cells pack 2x4 sub-pixels per terminal character, offset from
// U+2800:
//
//	1 4
//	2 5
//	3 6
//	7 8
var brailleBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille sub-pixel canvas of Width x Height characters,
// addressable as (Width*2) x (Height*4) pixels.
type Canvas struct {
	Width  int
	Height int
	cells  [][]rune
}

func NewCanvas(width, height int) *Canvas {
	c := &Canvas{Width: width, Height: height, cells: make([][]rune, height)}
	for i := range c.cells {
		c.cells[i] = make([]rune, width)
		for j := range c.cells[i] {
			c.cells[i][j] = 0x2800
		}
	}
	return c
}

// Set lights the sub-pixel at (x, y). Out-of-range coordinates are
// ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.cells[row][col] |= brailleBits[y%4][x%2]
}

// IsSet reports whether any sub-pixel of the cell at character position
// (col, row) is lit.
func (c *Canvas) IsSet(col, row int) bool {
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return false
	}
	return c.cells[row][col] != 0x2800
}

// Cell returns the braille rune at character position (col, row).
func (c *Canvas) Cell(col, row int) rune {
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return 0x2800
	}
	return c.cells[row][col]
}

// Clear resets every cell.
func (c *Canvas) Clear() {
	for i := range c.cells {
		for j := range c.cells[i] {
			c.cells[i][j] = 0x2800
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow((c.Width + 1) * c.Height)
	for _, row := range c.cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}
