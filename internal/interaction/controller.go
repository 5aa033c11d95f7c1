// Package interaction turns pointer, wheel and keyboard events into editor
// operations.
//
// A pointer-down starts at most one gesture session (pan, move, resize or
// connector draw). The session receives every move until pointer-up,
// Escape, or a document switch tears it down. Gestures show their effect
// through VisibleDocument and touch the element store only when they
// commit, so one gesture is one history entry.
package interaction

import (
	"github.com/rs/zerolog"

	"sketchflow/internal/diagram"
	"sketchflow/internal/editor"
	"sketchflow/internal/geometry"
)

type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
}

func (m Modifiers) multiSelect() bool { return m.Shift || m.Ctrl || m.Meta }
func (m Modifiers) zoom() bool        { return m.Ctrl || m.Meta }
func (m Modifiers) command() bool     { return m.Ctrl || m.Meta || m.Alt }

// Pointer is a pointer event in screen coordinates.
type Pointer struct {
	X, Y float64
	Mods Modifiers
}

func (p Pointer) point() geometry.Point { return geometry.Point{X: p.X, Y: p.Y} }

type Wheel struct {
	DeltaX, DeltaY float64
	Mods           Modifiers
}

type Controller struct {
	store *editor.Store
	log   zerolog.Logger

	session *session
	edit    *textEdit
	epoch   uint64

	handleTol geometry.Point
	hitTol    float64
}

type Option func(*Controller)

// WithHandleTolerance sets how far from a resize handle, in screen units,
// a press still grabs it.
func WithHandleTolerance(dx, dy float64) Option {
	return func(c *Controller) { c.handleTol = geometry.Point{X: dx, Y: dy} }
}

// WithHitTolerance grows element hit boxes by d screen units.
func WithHitTolerance(d float64) Option {
	return func(c *Controller) { c.hitTol = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func New(store *editor.Store, opts ...Option) *Controller {
	c := &Controller{
		store:     store,
		log:       zerolog.Nop(),
		epoch:     store.Epoch(),
		handleTol: geometry.Point{X: 6, Y: 6},
		hitTol:    3,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().Str("component", "interaction").Logger()
	return c
}

func (c *Controller) Store() *editor.Store { return c.store }

// Active reports whether a gesture session is in progress.
func (c *Controller) Active() bool { return c.session != nil }

func (c *Controller) PointerDown(ev Pointer) {
	c.syncEpoch()
	if c.session != nil {
		// a press without a release in between; drop the stale gesture
		c.cancelGesture()
	}

	view := c.store.View()
	at := view.ScreenToCanvas(ev.point())
	doc := c.store.Document()
	hit := doc.HitTest(at, c.hitTol/view.Zoom)

	if c.edit != nil {
		if hit >= 0 && doc[hit].ID == c.edit.id {
			return
		}
		c.commitEdit()
	}

	tool := c.store.Tool()
	switch tool {
	case editor.ToolHand:
		c.begin(&panGesture{last: ev.point()}, ev)
	case editor.ToolSelect:
		c.selectDown(ev, at, doc, hit)
	case editor.ToolConnector:
		c.connectorDown(ev, at)
	default:
		et, ok := tool.ElementType()
		if !ok {
			return
		}
		if hit >= 0 {
			// shapes are only placed on empty canvas
			c.selectDown(ev, at, doc, hit)
			return
		}
		if _, err := c.store.AddElement(et, at.X, at.Y, diagram.Patch{}); err != nil {
			c.log.Error().Err(err).Str("tool", string(tool)).Msg("place element")
		}
	}
}

func (c *Controller) selectDown(ev Pointer, at geometry.Point, doc diagram.Document, hit int) {
	if id, h, ok := c.handleAt(ev.point()); ok {
		if e, found := doc.Find(id); found {
			c.begin(&resizeGesture{id: id, handle: h, from: e.Bounds(), to: e.Bounds(), min: e.MinSize(), start: ev.point()}, ev)
			return
		}
	}
	if hit < 0 {
		c.store.ClearSelection()
		return
	}
	id := doc[hit].ID
	if ev.Mods.multiSelect() {
		c.store.ToggleSelection(id)
	} else {
		c.store.Select(id)
	}
	if !c.store.IsSelected(id) {
		return
	}
	c.begin(&moveGesture{ids: c.store.Selected(), start: ev.point()}, ev)
}

func (c *Controller) connectorDown(ev Pointer, at geometry.Point) {
	id, err := c.store.AddElement(diagram.TypeConnector, at.X, at.Y, diagram.Patch{
		Width:         diagram.Ptr(0.0),
		Height:        diagram.Ptr(0.0),
		ConnectorType: diagram.Ptr(c.store.ConnectorType()),
	})
	if err != nil {
		c.log.Error().Err(err).Msg("start connector")
		return
	}
	g := &connectorGesture{id: id, anchor: at}
	g.track(at)
	c.begin(g, ev)
}

func (c *Controller) PointerMove(ev Pointer) {
	c.syncEpoch()
	if c.session == nil {
		return
	}
	c.session.g.move(c, ev.point())
}

func (c *Controller) PointerUp(ev Pointer) {
	c.syncEpoch()
	if c.session == nil {
		return
	}
	s := c.session
	c.session = nil
	s.g.move(c, ev.point())
	s.g.end(c)
}

func (c *Controller) Wheel(ev Wheel) {
	c.store.View().ApplyWheel(ev.DeltaX, ev.DeltaY, ev.Mods.zoom())
}

// Cancel tears down any gesture without committing it and leaves text
// editing, discarding uncommitted text.
func (c *Controller) Cancel() {
	c.cancelGesture()
	c.edit = nil
}

// VisibleDocument is the current document with the live gesture and the
// text being edited applied. It is for display only.
func (c *Controller) VisibleDocument() diagram.Document {
	c.syncEpoch()
	doc := c.store.Document()
	if c.session != nil {
		doc = c.session.g.preview(doc)
	}
	if c.edit != nil {
		doc = doc.Patch(map[string]diagram.Patch{c.edit.id: {Text: diagram.Ptr(c.edit.text())}})
	}
	return doc
}

func (c *Controller) begin(g gesture, ev Pointer) {
	c.session = &session{g: g, epoch: c.store.Epoch()}
	c.log.Debug().Str("gesture", g.name()).Float64("x", ev.X).Float64("y", ev.Y).Msg("gesture start")
}

func (c *Controller) cancelGesture() {
	if c.session == nil {
		return
	}
	s := c.session
	c.session = nil
	if s.epoch == c.store.Epoch() {
		s.g.cancel(c)
	}
	c.log.Debug().Str("gesture", s.g.name()).Msg("gesture cancelled")
}

// syncEpoch drops gesture and edit state that belongs to a document that is
// no longer open.
func (c *Controller) syncEpoch() {
	if c.epoch == c.store.Epoch() {
		return
	}
	c.epoch = c.store.Epoch()
	if c.session != nil {
		c.log.Debug().Str("gesture", c.session.g.name()).Msg("gesture dropped on document switch")
	}
	c.session = nil
	c.edit = nil
}
