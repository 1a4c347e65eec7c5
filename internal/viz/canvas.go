// Package viz renders the particle cloud in the terminal using braille
// cells, and hosts the live bubbletea view.
package viz

import "strings"

const brailleBlank = '⠀'

// Each braille rune packs a 2x4 dot block; dotBits[y][x] is the bit for the
// dot at sub-pixel (x, y) within a cell.
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille dot raster. Width and Height are in character cells;
// Set addresses sub-pixels, of which there are Width*2 by Height*4.
type Canvas struct {
	Width, Height int
	cells         []rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([]rune, w*h)}
	c.Clear()
	return c
}

// Set lights the dot at sub-pixel (x, y). Out-of-range dots are dropped.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.cells[row*c.Width+col] |= dotBits[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = brailleBlank
	}
}

// Cell returns the braille rune at character cell (row, col).
func (c *Canvas) Cell(row, col int) rune {
	return c.cells[row*c.Width+col]
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow((c.Width*3 + 1) * c.Height)
	for row := 0; row < c.Height; row++ {
		b.WriteString(string(c.cells[row*c.Width : (row+1)*c.Width]))
		b.WriteByte('\n')
	}
	return b.String()
}
