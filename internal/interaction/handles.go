package interaction

import (
	"math"

	"sketchflow/internal/geometry"
)

// Handle names a resize grip by compass direction.
type Handle int

const (
	HandleNW Handle = iota
	HandleN
	HandleNE
	HandleE
	HandleSE
	HandleS
	HandleSW
	HandleW
)

var Handles = []Handle{HandleNW, HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW}

func (h Handle) String() string {
	return [...]string{"nw", "n", "ne", "e", "se", "s", "sw", "w"}[h]
}

func (h Handle) west() bool  { return h == HandleNW || h == HandleW || h == HandleSW }
func (h Handle) east() bool  { return h == HandleNE || h == HandleE || h == HandleSE }
func (h Handle) north() bool { return h == HandleNW || h == HandleN || h == HandleNE }
func (h Handle) south() bool { return h == HandleSW || h == HandleS || h == HandleSE }

// Point is the handle's position on r.
func (h Handle) Point(r geometry.Rect) geometry.Point {
	p := r.Center()
	switch {
	case h.west():
		p.X = r.X
	case h.east():
		p.X = r.MaxX()
	}
	switch {
	case h.north():
		p.Y = r.Y
	case h.south():
		p.Y = r.MaxY()
	}
	return p
}

// Resize moves the edges named by h by d. Width and height never drop
// below min; when clamped, the edge opposite the handle stays put.
func Resize(r geometry.Rect, h Handle, d geometry.Point, min float64) geometry.Rect {
	out := r
	if h.west() {
		w := math.Max(r.Width-d.X, min)
		out.X = r.MaxX() - w
		out.Width = w
	}
	if h.east() {
		out.Width = math.Max(r.Width+d.X, min)
	}
	if h.north() {
		ht := math.Max(r.Height-d.Y, min)
		out.Y = r.MaxY() - ht
		out.Height = ht
	}
	if h.south() {
		out.Height = math.Max(r.Height+d.Y, min)
	}
	return out
}

// handleAt finds the resize handle under a screen point. Handles exist only
// in the select tool with exactly one element selected.
func (c *Controller) handleAt(screen geometry.Point) (string, Handle, bool) {
	sel := c.store.Selected()
	if len(sel) != 1 {
		return "", 0, false
	}
	e, ok := c.store.Element(sel[0])
	if !ok {
		return "", 0, false
	}
	view := c.store.View()
	best, found := Handle(0), false
	bestDist := math.Inf(1)
	for _, h := range Handles {
		hp := view.CanvasToScreen(h.Point(e.Bounds()))
		dx, dy := math.Abs(hp.X-screen.X), math.Abs(hp.Y-screen.Y)
		if dx > c.handleTol.X || dy > c.handleTol.Y {
			continue
		}
		// nearest wins when handles of a small element overlap
		if d := math.Hypot(dx, dy); d < bestDist {
			best, bestDist, found = h, d, true
		}
	}
	return e.ID, best, found
}
