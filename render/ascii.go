package render

import (
	"strings"
	"time"

	"github.com/TFMV/forcegraph/layout"
)

// Cells per output unit. Terminal cells are roughly twice as tall as wide.
const (
	asciiCellWidth  = 10
	asciiCellHeight = 20
)

// ASCIIRenderer outputs ASCII art format
type ASCIIRenderer struct{}

// Name returns the name of the renderer
func (r *ASCIIRenderer) Name() string {
	return "ASCII Renderer"
}

// Description returns a description of the renderer
func (r *ASCIIRenderer) Description() string {
	return "Renders layouts as ASCII art for terminal or text-based output"
}

// Render creates an ASCII representation of the frame. Width and height are
// scaled down to grid cells.
func (r *ASCIIRenderer) Render(frame layout.Frame, options *OutputOptions) ([]byte, error) {
	width := max(int(options.Width/asciiCellWidth), 20)
	height := max(int(options.Height/asciiCellHeight), 10)
	return []byte(Grid(frame, width, height, options.ShowLabels, options.Timestamp)), nil
}

// Grid draws frame on a width x height character grid with a border.
func Grid(frame layout.Frame, width, height int, labels, timestamp bool) string {
	c := newCanvas(width, height)
	c.border()

	// One cell of padding inside the border.
	vp := fit(frame, float64(width-3), float64(height-3), 0)
	cell := func(x, y float64) (int, int) {
		px, py := vp.apply(x, y)
		cx := min(max(int(px+0.5)+1, 1), width-2)
		cy := min(max(int(py+0.5)+1, 1), height-2)
		return cx, cy
	}

	idx := frame.Index()
	for _, edge := range frame.Edges {
		si, okS := idx[edge.Source]
		ti, okT := idx[edge.Target]
		if !okS || !okT {
			continue
		}
		x1, y1 := cell(frame.Nodes[si].X, frame.Nodes[si].Y)
		x2, y2 := cell(frame.Nodes[ti].X, frame.Nodes[ti].Y)
		c.line(x1, y1, x2, y2)
	}

	for _, node := range frame.Nodes {
		x, y := cell(node.X, node.Y)
		symbol := nodeSymbol
		if node.Anchor {
			symbol = anchorSymbol
		}
		c.set(x, y, symbol)

		if labels && y+1 < height-1 {
			label := node.Label
			if label == "" {
				label = node.ID
			}
			c.text(x, y+1, label)
		}
	}

	if timestamp && height > 4 && width > 20 {
		c.text(2, height-2, time.Now().Format("2006-01-02 15:04"))
	}
	return c.String()
}

const (
	nodeSymbol   = 'O'
	anchorSymbol = '#'
	edgeSymbol   = '·'
)

// canvas is a fixed character grid. Writes outside the interior are dropped.
type canvas struct {
	w, h  int
	cells [][]rune
}

func newCanvas(w, h int) *canvas {
	cells := make([][]rune, h)
	for y := range cells {
		cells[y] = []rune(strings.Repeat(" ", w))
	}
	return &canvas{w: w, h: h, cells: cells}
}

func (c *canvas) border() {
	for x := 0; x < c.w; x++ {
		c.cells[0][x], c.cells[c.h-1][x] = '-', '-'
	}
	for y := 0; y < c.h; y++ {
		c.cells[y][0], c.cells[y][c.w-1] = '|', '|'
	}
	for _, y := range []int{0, c.h - 1} {
		c.cells[y][0], c.cells[y][c.w-1] = '+', '+'
	}
}

func (c *canvas) inside(x, y int) bool {
	return x > 0 && x < c.w-1 && y > 0 && y < c.h-1
}

func (c *canvas) set(x, y int, r rune) {
	if c.inside(x, y) {
		c.cells[y][x] = r
	}
}

// text writes s left to right from (x, y), cut at the border.
func (c *canvas) text(x, y int, s string) {
	for i, r := range []rune(s) {
		if !c.inside(x+i, y) {
			return
		}
		c.cells[y][x+i] = r
	}
}

// line traces (x1, y1) to (x2, y2) with Bresenham steps. Node symbols win.
func (c *canvas) line(x1, y1, x2, y2 int) {
	dx, dy := x2-x1, y2-y1
	sx, sy := 1, 1
	if dx < 0 {
		sx, dx = -1, -dx
	}
	if dy < 0 {
		sy, dy = -1, -dy
	}
	diff := dx - dy

	x, y := x1, y1
	for {
		if c.inside(x, y) {
			if r := c.cells[y][x]; r != nodeSymbol && r != anchorSymbol {
				c.cells[y][x] = edgeSymbol
			}
		}
		if x == x2 && y == y2 {
			return
		}
		d := 2 * diff
		if d > -dy {
			diff -= dy
			x += sx
		}
		if d < dx {
			diff += dx
			y += sy
		}
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}
