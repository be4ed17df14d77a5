package viz

import (
	"strings"
)

// Braille cells are 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille pixel buffer. Its resolution in dots is
// (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

// Set lights the dot at (x, y), y growing downwards. Dots outside the
// canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&pixelMap[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine uses Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Disc fills a small circle of radius r dots around (cx, cy).
func (c *Canvas) Disc(cx, cy, r int) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				c.Set(cx+x, cy+y)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		b.WriteString(string(row))
		if i < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Viewport maps a (time, height) window onto canvas dots.
type Viewport struct {
	T0, T1 float64
	Y0, Y1 float64
	W, H   int
}

func (v Viewport) Project(t, y float64) (int, int) {
	tr, yr := v.T1-v.T0, v.Y1-v.Y0
	if tr <= 0 {
		tr = 1
	}
	if yr <= 0 {
		yr = 1
	}
	x := int((t - v.T0) / tr * float64(v.W-1))
	py := int((v.Y1 - y) / yr * float64(v.H-1))
	return x, py
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
