package interaction

import (
	"math"

	"sketchflow/internal/diagram"
	"sketchflow/internal/geometry"
)

type session struct {
	g     gesture
	epoch uint64
}

type gesture interface {
	name() string
	move(c *Controller, screen geometry.Point)
	end(c *Controller)
	cancel(c *Controller)
	preview(doc diagram.Document) diagram.Document
}

// panGesture translates the view; it never touches the document.
type panGesture struct {
	last geometry.Point
}

func (g *panGesture) name() string { return "pan" }

func (g *panGesture) move(c *Controller, p geometry.Point) {
	d := p.Sub(g.last)
	c.store.View().PanBy(d.X, d.Y)
	g.last = p
}

func (g *panGesture) end(*Controller)    {}
func (g *panGesture) cancel(*Controller) {}

func (g *panGesture) preview(doc diagram.Document) diagram.Document { return doc }

// moveGesture drags the selected elements by a transient offset and commits
// their final positions once, on release.
type moveGesture struct {
	ids   []string
	start geometry.Point
	delta geometry.Point
}

func (g *moveGesture) name() string { return "move" }

func (g *moveGesture) move(c *Controller, p geometry.Point) {
	d := p.Sub(g.start)
	g.delta = c.store.View().ScreenDelta(d.X, d.Y)
}

func (g *moveGesture) end(c *Controller) {
	if g.delta == (geometry.Point{}) {
		return
	}
	c.store.UpdateElements(g.patches(c.store.Document()))
}

func (g *moveGesture) cancel(*Controller) {}

func (g *moveGesture) preview(doc diagram.Document) diagram.Document {
	if g.delta == (geometry.Point{}) {
		return doc
	}
	return doc.Patch(g.patches(doc))
}

func (g *moveGesture) patches(doc diagram.Document) map[string]diagram.Patch {
	out := make(map[string]diagram.Patch, len(g.ids))
	for _, id := range g.ids {
		if e, ok := doc.Find(id); ok {
			out[id] = diagram.Position(e.X+g.delta.X, e.Y+g.delta.Y)
		}
	}
	return out
}

// resizeGesture previews the new frame and commits it on release.
type resizeGesture struct {
	id     string
	handle Handle
	from   geometry.Rect
	to     geometry.Rect
	min    float64
	start  geometry.Point
}

func (g *resizeGesture) name() string { return "resize" }

func (g *resizeGesture) move(c *Controller, p geometry.Point) {
	d := p.Sub(g.start)
	g.to = Resize(g.from, g.handle, c.store.View().ScreenDelta(d.X, d.Y), g.min)
}

func (g *resizeGesture) end(c *Controller) {
	if g.to == g.from {
		return
	}
	c.store.UpdateElement(g.id, diagram.Frame(g.to.X, g.to.Y, g.to.Width, g.to.Height))
}

func (g *resizeGesture) cancel(*Controller) {}

func (g *resizeGesture) preview(doc diagram.Document) diagram.Document {
	return doc.Patch(map[string]diagram.Patch{g.id: diagram.Frame(g.to.X, g.to.Y, g.to.Width, g.to.Height)})
}

// connectorGesture spans a connector from the press point to the pointer.
// The connector was added on press; its final box amends that history
// entry so drawing it is a single undo step.
type connectorGesture struct {
	id     string
	anchor geometry.Point
	box    geometry.Rect
	flipX  bool
	flipY  bool
}

func (g *connectorGesture) name() string { return "connector" }

func (g *connectorGesture) move(c *Controller, p geometry.Point) {
	g.track(c.store.View().ScreenToCanvas(p))
}

func (g *connectorGesture) track(at geometry.Point) {
	r, fx, fy := geometry.SpanRect(g.anchor, at)
	r.Width = math.Max(r.Width, diagram.MinConnectorSize)
	r.Height = math.Max(r.Height, diagram.MinConnectorSize)
	g.box, g.flipX, g.flipY = r, fx, fy
}

func (g *connectorGesture) patch() diagram.Patch {
	p := diagram.Frame(g.box.X, g.box.Y, g.box.Width, g.box.Height)
	p.FlipX = diagram.Ptr(g.flipX)
	p.FlipY = diagram.Ptr(g.flipY)
	return p
}

func (g *connectorGesture) end(c *Controller) {
	c.store.AmendElement(g.id, g.patch())
}

// cancel keeps what has been drawn so far.
func (g *connectorGesture) cancel(c *Controller) { g.end(c) }

func (g *connectorGesture) preview(doc diagram.Document) diagram.Document {
	return doc.Patch(map[string]diagram.Patch{g.id: g.patch()})
}
