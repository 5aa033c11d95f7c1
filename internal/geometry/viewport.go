// Package geometry converts between screen (pointer) coordinates and canvas
// coordinates under the pan/zoom transform of the diagram view.
package geometry

import "math"

const (
	MinZoom     = 0.1
	MaxZoom     = 5.0
	DefaultZoom = 1.0

	wheelZoomFactor = 0.001
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Viewport holds the view transform. Origin is the top-left of the canvas
// container in screen space; it is not persisted.
type Viewport struct {
	Zoom   float64
	Pan    Point
	Origin Point
}

func NewViewport() Viewport {
	return Viewport{Zoom: DefaultZoom}
}

// ScreenToCanvas maps a pointer position to canvas space:
// (screen - origin - pan) / zoom.
func (v Viewport) ScreenToCanvas(p Point) Point {
	z := v.zoom()
	return Point{
		X: (p.X - v.Origin.X - v.Pan.X) / z,
		Y: (p.Y - v.Origin.Y - v.Pan.Y) / z,
	}
}

func (v Viewport) CanvasToScreen(p Point) Point {
	z := v.zoom()
	return Point{
		X: p.X*z + v.Pan.X + v.Origin.X,
		Y: p.Y*z + v.Pan.Y + v.Origin.Y,
	}
}

// ScreenDelta converts a pointer movement into a canvas-space movement.
func (v Viewport) ScreenDelta(dx, dy float64) Point {
	z := v.zoom()
	return Point{dx / z, dy / z}
}

// ApplyWheel zooms when the zoom modifier is held and pans otherwise.
func (v *Viewport) ApplyWheel(deltaX, deltaY float64, zoomModifier bool) {
	if zoomModifier {
		v.SetZoom(v.zoom() - deltaY*wheelZoomFactor)
		return
	}
	v.PanBy(-deltaX, -deltaY)
}

func (v *Viewport) SetZoom(z float64) {
	if math.IsNaN(z) {
		return
	}
	v.Zoom = ClampZoom(z)
}

func (v *Viewport) PanBy(dx, dy float64) {
	v.Pan.X += dx
	v.Pan.Y += dy
}

// Reset restores default zoom and pan, keeping the container origin.
func (v *Viewport) Reset() {
	v.Zoom = DefaultZoom
	v.Pan = Point{}
}

func (v Viewport) zoom() float64 {
	if v.Zoom == 0 {
		return DefaultZoom
	}
	return v.Zoom
}

func ClampZoom(z float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}
