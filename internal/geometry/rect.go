package geometry

import "math"

// Rect is an axis-aligned box in canvas space.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (r Rect) MaxX() float64 { return r.X + r.Width }
func (r Rect) MaxY() float64 { return r.Y + r.Height }

func (r Rect) Center() Point {
	return Point{r.X + r.Width/2, r.Y + r.Height/2}
}

// Contains reports whether p lies within r grown by tolerance on every side.
func (r Rect) Contains(p Point, tolerance float64) bool {
	return p.X >= r.X-tolerance && p.X <= r.MaxX()+tolerance &&
		p.Y >= r.Y-tolerance && p.Y <= r.MaxY()+tolerance
}

func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.MaxX(), o.MaxX())
	maxY := math.Max(r.MaxY(), o.MaxY())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
}

// SpanRect returns the box spanned by two corner points and whether b lies
// to the left of / above a.
func SpanRect(a, b Point) (r Rect, flipX, flipY bool) {
	r = Rect{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
	return r, b.X < a.X, b.Y < a.Y
}
