package export

import (
	"math"
	"strings"

	"sketchflow/internal/diagram"
	"sketchflow/internal/geometry"
)

// A terminal cell covers CellWidth x CellHeight screen units.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

// Grid is a character raster of part of the canvas. The view maps canvas
// space to grid-local screen units; its origin is ignored.
type Grid struct {
	cols, rows int
	cells      [][]rune
	view       geometry.Viewport
}

func NewGrid(cols, rows int, view geometry.Viewport) *Grid {
	view.Origin = geometry.Point{}
	g := &Grid{cols: max(cols, 0), rows: max(rows, 0), view: view}
	g.cells = make([][]rune, g.rows)
	for i := range g.cells {
		g.cells[i] = []rune(strings.Repeat(" ", g.cols))
	}
	return g
}

func (g *Grid) Cols() int { return g.cols }
func (g *Grid) Rows() int { return g.rows }

func (g *Grid) valid(col, row int) bool {
	return col >= 0 && col < g.cols && row >= 0 && row < g.rows
}

func (g *Grid) Set(col, row int, r rune) {
	if g.valid(col, row) {
		g.cells[row][col] = r
	}
}

func (g *Grid) At(col, row int) rune {
	if !g.valid(col, row) {
		return 0
	}
	return g.cells[row][col]
}

// Cell is the cell containing canvas point p.
func (g *Grid) Cell(p geometry.Point) (col, row int) {
	x, y := g.cellF(p)
	return int(math.Floor(x)), int(math.Floor(y))
}

func (g *Grid) cellF(p geometry.Point) (float64, float64) {
	s := g.view.CanvasToScreen(p)
	return s.X / CellWidth, s.Y / CellHeight
}

// cellCenter is the canvas point at the middle of a cell.
func (g *Grid) cellCenter(col, row int) geometry.Point {
	return g.view.ScreenToCanvas(geometry.Point{
		X: (float64(col) + 0.5) * CellWidth,
		Y: (float64(row) + 0.5) * CellHeight,
	})
}

// Span is the inclusive cell range a canvas rectangle covers, at least two
// cells in each direction.
func (g *Grid) Span(r geometry.Rect) (c0, r0, c1, r1 int) {
	ax, ay := g.cellF(geometry.Point{X: r.X, Y: r.Y})
	bx, by := g.cellF(geometry.Point{X: r.MaxX(), Y: r.MaxY()})
	c0, r0 = int(math.Floor(ax)), int(math.Floor(ay))
	c1 = max(c0+1, int(math.Ceil(bx))-1)
	r1 = max(r0+1, int(math.Ceil(by))-1)
	return c0, r0, c1, r1
}

// Draw paints doc in z-order; later elements cover earlier ones.
func (g *Grid) Draw(doc diagram.Document) {
	for _, e := range doc {
		g.DrawElement(e)
	}
}

func (g *Grid) DrawElement(e diagram.Element) {
	switch e.Type {
	case diagram.TypeConnector:
		path := ConnectorPath(e)
		g.polyline(path, false)
		g.arrow(path)
	case diagram.TypeText:
		g.fill(e, nil)
	case diagram.TypeRectangle:
		g.fill(e, nil)
		g.box(e.Bounds(), '┌', '┐', '└', '┘')
	case diagram.TypeEllipse:
		g.fill(e, Outline(e))
		g.box(e.Bounds(), '╭', '╮', '╰', '╯')
	case diagram.TypeCylinder:
		g.fill(e, nil)
		c0, r0, c1, r1 := g.box(e.Bounds(), '╭', '╮', '╰', '╯')
		if r1-r0 >= 3 {
			g.Set(c0, r0+1, '├')
			g.hline(c0+1, c1-1, r0+1, '─')
			g.Set(c1, r0+1, '┤')
		}
	case diagram.TypeDocument:
		g.fill(e, nil)
		c0, _, c1, r1 := g.box(e.Bounds(), '┌', '┐', '└', '┘')
		g.hline(c0+1, c1-1, r1, '~')
	default:
		poly := Outline(e)
		g.fill(e, poly)
		g.polyline(poly, true)
	}
	g.label(e)
}

func (g *Grid) fill(e diagram.Element, poly []geometry.Point) {
	if e.Fill == diagram.Transparent || e.Fill == "" {
		return
	}
	c0, r0, c1, r1 := g.Span(e.Bounds())
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			if poly == nil || inside(poly, g.cellCenter(col, row)) {
				g.Set(col, row, ' ')
			}
		}
	}
}

func (g *Grid) box(r geometry.Rect, tl, tr, bl, br rune) (c0, r0, c1, r1 int) {
	c0, r0, c1, r1 = g.Span(r)
	g.hline(c0+1, c1-1, r0, '─')
	g.hline(c0+1, c1-1, r1, '─')
	for row := r0 + 1; row < r1; row++ {
		g.Set(c0, row, '│')
		g.Set(c1, row, '│')
	}
	g.Set(c0, r0, tl)
	g.Set(c1, r0, tr)
	g.Set(c0, r1, bl)
	g.Set(c1, r1, br)
	return c0, r0, c1, r1
}

func (g *Grid) hline(from, to, row int, r rune) {
	for col := from; col <= to; col++ {
		g.Set(col, row, r)
	}
}

func (g *Grid) polyline(pts []geometry.Point, closed bool) {
	for i := 0; i+1 < len(pts); i++ {
		g.segment(pts[i], pts[i+1])
	}
	if closed && len(pts) > 2 {
		g.segment(pts[len(pts)-1], pts[0])
	}
}

func (g *Grid) segment(a, b geometry.Point) {
	ax, ay := g.cellF(a)
	bx, by := g.cellF(b)
	dx, dy := bx-ax, by-ay
	r := lineRune(dx, dy)
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		g.Set(int(math.Floor(ax)), int(math.Floor(ay)), r)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		g.Set(int(math.Floor(ax+dx*t)), int(math.Floor(ay+dy*t)), r)
	}
}

func lineRune(dx, dy float64) rune {
	switch {
	case math.Abs(dy) <= 0.5*math.Abs(dx):
		return '─'
	case math.Abs(dx) <= 0.5*math.Abs(dy):
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	}
	return '╱'
}

func (g *Grid) arrow(path []geometry.Point) {
	if len(path) < 2 {
		return
	}
	ax, ay := g.cellF(path[len(path)-2])
	bx, by := g.cellF(path[len(path)-1])
	dx, dy := bx-ax, by-ay
	if dx == 0 && dy == 0 {
		return
	}
	var r rune
	switch {
	case math.Abs(dx) >= math.Abs(dy) && dx > 0:
		r = '▶'
	case math.Abs(dx) >= math.Abs(dy):
		r = '◀'
	case dy > 0:
		r = '▼'
	default:
		r = '▲'
	}
	g.Set(int(math.Floor(bx)), int(math.Floor(by)), r)
}

// labelLine is one line of an element's text as laid out on the grid.
type labelLine struct {
	row, col int
	text     []rune
	n        int // runes in the source line before clipping
}

// layout centres the element text inside its box, one row per line,
// clipped to the box width.
func (g *Grid) layout(e diagram.Element) (lines []labelLine, r0, r1 int) {
	c0, r0, c1, r1 := g.Span(e.Bounds())
	if e.Type == diagram.TypeConnector {
		mid := ConnectorPath(e)
		c, r := g.Cell(mid[len(mid)/2])
		c0, c1, r0, r1 = c-8, c+8, r, r
	} else if e.Type != diagram.TypeText {
		c0, c1 = c0+1, c1-1
	}
	width := c1 - c0 + 1
	if width <= 0 {
		return nil, r0, r1
	}
	src := strings.Split(e.Text, "\n")
	top := r0 + (r1-r0+1-len(src))/2
	for i, line := range src {
		rs := []rune(line)
		n := len(rs)
		if len(rs) > width {
			rs = rs[:width]
		}
		lines = append(lines, labelLine{row: top + i, col: c0 + (width-len(rs))/2, text: rs, n: n})
	}
	return lines, r0, r1
}

func (g *Grid) label(e diagram.Element) {
	if e.Text == "" {
		return
	}
	lines, r0, r1 := g.layout(e)
	for _, l := range lines {
		if l.row < r0 || l.row > r1 {
			continue
		}
		for j, r := range l.text {
			g.Set(l.col+j, l.row, r)
		}
	}
}

// TextCell is the cell a caret at rune offset caret of e.Text occupies.
// ok is false when the element is too narrow to hold text.
func (g *Grid) TextCell(e diagram.Element, caret int) (col, row int, ok bool) {
	lines, _, _ := g.layout(e)
	if len(lines) == 0 {
		return 0, 0, false
	}
	for _, l := range lines {
		if caret <= l.n {
			return l.col + min(caret, len(l.text)), l.row, true
		}
		caret -= l.n + 1
	}
	last := lines[len(lines)-1]
	return last.col + len(last.text), last.row, true
}

// Lines returns the grid rows as strings.
func (g *Grid) Lines() []string {
	out := make([]string, g.rows)
	for i, row := range g.cells {
		out[i] = string(row)
	}
	return out
}
