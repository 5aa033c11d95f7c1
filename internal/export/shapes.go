package export

import (
	"math"

	"sketchflow/internal/diagram"
	"sketchflow/internal/geometry"
)

const (
	ellipseSegments = 36
	curveSegments   = 24
	parallelSkew    = 0.2
	documentWave    = 0.15
)

// Outline is the closed polygon of a shape in canvas space. Text and
// connectors have none.
func Outline(e diagram.Element) []geometry.Point {
	x, y, w, h := e.X, e.Y, e.Width, e.Height
	switch e.Type {
	case diagram.TypeRectangle, diagram.TypeCylinder:
		return []geometry.Point{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}
	case diagram.TypeDiamond:
		return []geometry.Point{{X: x + w/2, Y: y}, {X: x + w, Y: y + h/2}, {X: x + w/2, Y: y + h}, {X: x, Y: y + h/2}}
	case diagram.TypeTriangle:
		return []geometry.Point{{X: x + w/2, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}
	case diagram.TypeParallelogram:
		s := w * parallelSkew
		return []geometry.Point{{X: x + s, Y: y}, {X: x + w, Y: y}, {X: x + w - s, Y: y + h}, {X: x, Y: y + h}}
	case diagram.TypeEllipse:
		c := e.Bounds().Center()
		pts := make([]geometry.Point, ellipseSegments)
		for i := range pts {
			a := 2 * math.Pi * float64(i) / ellipseSegments
			pts[i] = geometry.Point{X: c.X + w/2*math.Cos(a), Y: c.Y + h/2*math.Sin(a)}
		}
		return pts
	case diagram.TypeDocument:
		base := y + h*(1-documentWave)
		pts := []geometry.Point{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: base}}
		for i := 1; i <= curveSegments; i++ {
			t := float64(i) / curveSegments
			pts = append(pts, geometry.Point{
				X: x + w*(1-t),
				Y: base + h*documentWave*math.Sin(2*math.Pi*t),
			})
		}
		return pts
	}
	return nil
}

// ConnectorPath is the polyline a connector is drawn along, from its start
// to its end.
func ConnectorPath(e diagram.Element) []geometry.Point {
	start, end := e.Endpoints()
	switch e.ConnectorType {
	case diagram.ConnectorElbow:
		return []geometry.Point{start, {X: end.X, Y: start.Y}, end}
	case diagram.ConnectorCurve:
		c1, c2 := curveControls(start, end)
		pts := make([]geometry.Point, 0, curveSegments+1)
		for i := 0; i <= curveSegments; i++ {
			pts = append(pts, bezier(start, c1, c2, end, float64(i)/curveSegments))
		}
		return pts
	}
	return []geometry.Point{start, end}
}

func curveControls(start, end geometry.Point) (geometry.Point, geometry.Point) {
	mid := (start.X + end.X) / 2
	return geometry.Point{X: mid, Y: start.Y}, geometry.Point{X: mid, Y: end.Y}
}

func bezier(p0, p1, p2, p3 geometry.Point, t float64) geometry.Point {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return geometry.Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// inside reports whether p is inside the polygon (even-odd rule).
func inside(poly []geometry.Point, p geometry.Point) bool {
	in := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}
