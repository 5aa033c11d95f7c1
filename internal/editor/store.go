// Package editor is the element store: the current diagram document kept on
// an undo/redo history, plus the ephemeral editing state around it
// (selection, active tool, connector style and view transform).
//
// Every mutation builds a new Document and pushes it onto the history; the
// interaction layer never edits elements directly.
package editor

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sketchflow/internal/diagram"
	"sketchflow/internal/geometry"
	"sketchflow/internal/history"
)

type Store struct {
	history *history.Store[diagram.Document]
	newID   func() string
	log     zerolog.Logger

	selection     Selection
	tool          Tool
	connectorType diagram.ConnectorType
	view          geometry.Viewport

	revision uint64
	epoch    uint64
}

type Option func(*storeOptions)

type storeOptions struct {
	newID func() string
	limit int
	log   zerolog.Logger
}

func WithIDGenerator(fn func() string) Option {
	return func(o *storeOptions) { o.newID = fn }
}

func WithHistoryLimit(n int) Option {
	return func(o *storeOptions) { o.limit = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *storeOptions) { o.log = l }
}

func New(opts ...Option) *Store {
	o := storeOptions{newID: uuid.NewString, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store{
		history: history.New(diagram.Document{},
			history.WithEqual(diagram.Document.Equal),
			history.WithLimit[diagram.Document](o.limit)),
		newID:         o.newID,
		log:           o.log.With().Str("component", "editor").Logger(),
		tool:          ToolSelect,
		connectorType: diagram.ConnectorStraight,
		view:          geometry.NewViewport(),
	}
}

// Document returns the current snapshot. Callers must treat it as read-only.
func (s *Store) Document() diagram.Document { return s.history.Current() }

func (s *Store) Element(id string) (diagram.Element, bool) {
	return s.Document().Find(id)
}

// Revision changes whenever the current document changes, including undo,
// redo and document switches.
func (s *Store) Revision() uint64 { return s.revision }

// Epoch changes only when a different document is loaded or created.
func (s *Store) Epoch() uint64 { return s.epoch }

// AddElement appends a new element with type defaults, selects it alone and
// switches back to the select tool.
func (s *Store) AddElement(t diagram.ElementType, x, y float64, props diagram.Patch) (string, error) {
	id := s.newID()
	e, err := diagram.New(id, t, x, y, props)
	if err != nil {
		return "", err
	}
	s.push(s.Document().Append(e))
	s.selection.Set(id)
	s.tool = ToolSelect
	s.log.Debug().Str("id", id).Str("type", string(t)).Msg("element added")
	return id, nil
}

// UpdateElement applies patch to one element. Unknown ids are ignored.
func (s *Store) UpdateElement(id string, patch diagram.Patch) bool {
	return s.UpdateElements(map[string]diagram.Patch{id: patch})
}

// UpdateElements applies several patches as a single history entry.
func (s *Store) UpdateElements(patches map[string]diagram.Patch) bool {
	if len(patches) == 0 {
		return false
	}
	return s.push(s.Document().Patch(patches))
}

// AmendElement patches an element in place of the current history entry
// instead of adding a new one.
func (s *Store) AmendElement(id string, patch diagram.Patch) bool {
	next := s.Document().Patch(map[string]diagram.Patch{id: patch})
	if !s.history.Amend(next) {
		return false
	}
	s.revision++
	return true
}

// DeleteSelected removes every selected element and clears the selection.
func (s *Store) DeleteSelected() bool {
	ids := s.selection.set()
	s.selection.Clear()
	if len(ids) == 0 {
		return false
	}
	return s.push(s.Document().Remove(ids))
}

func (s *Store) Delete(ids ...string) bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	changed := s.push(s.Document().Remove(set))
	s.pruneSelection()
	return changed
}

func (s *Store) Undo() bool {
	if !s.history.Undo() {
		return false
	}
	s.revision++
	s.pruneSelection()
	return true
}

func (s *Store) Redo() bool {
	if !s.history.Redo() {
		return false
	}
	s.revision++
	s.pruneSelection()
	return true
}

func (s *Store) CanUndo() bool { return s.history.CanUndo() }
func (s *Store) CanRedo() bool { return s.history.CanRedo() }

// Reset switches to doc with a fresh single-entry history, clearing the
// selection and returning to the select tool. View state is left to the
// caller.
func (s *Store) Reset(doc diagram.Document) {
	s.history.Reset(doc.Clone())
	s.selection.Clear()
	s.tool = ToolSelect
	s.revision++
	s.epoch++
}

func (s *Store) Selected() []string       { return s.selection.IDs() }
func (s *Store) IsSelected(id string) bool { return s.selection.Has(id) }
func (s *Store) Select(ids ...string)      { s.selection.Set(ids...) }
func (s *Store) ToggleSelection(id string) { s.selection.Toggle(id) }
func (s *Store) ClearSelection()           { s.selection.Clear() }

func (s *Store) Tool() Tool { return s.tool }

func (s *Store) SetTool(t Tool) {
	if t.Valid() {
		s.tool = t
	}
}

func (s *Store) ConnectorType() diagram.ConnectorType { return s.connectorType }

func (s *Store) SetConnectorType(c diagram.ConnectorType) {
	if c.Valid() {
		s.connectorType = c
	}
}

// View exposes the view transform for in-place pan/zoom changes.
func (s *Store) View() *geometry.Viewport { return &s.view }

// Copy returns the selected elements in z-order.
func (s *Store) Copy() []diagram.Element {
	sel := s.selection.set()
	var out []diagram.Element
	for _, e := range s.Document() {
		if sel[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

// Paste appends copies of elems offset by (dx, dy) with fresh ids, as one
// history entry, and selects them.
func (s *Store) Paste(elems []diagram.Element, dx, dy float64) []string {
	if len(elems) == 0 {
		return nil
	}
	copies := make([]diagram.Element, 0, len(elems))
	ids := make([]string, 0, len(elems))
	for _, pasted := range elems {
		e, err := diagram.Normalize(pasted)
		if err != nil {
			s.log.Warn().Err(err).Msg("skipping invalid pasted element")
			continue
		}
		e.ID = s.newID()
		e.X += dx
		e.Y += dy
		copies = append(copies, e)
		ids = append(ids, e.ID)
	}
	if len(copies) == 0 {
		return nil
	}
	s.push(s.Document().Append(copies...))
	s.selection.Set(ids...)
	s.tool = ToolSelect
	return ids
}

func (s *Store) push(doc diagram.Document) bool {
	if !s.history.Push(doc) {
		return false
	}
	s.revision++
	return true
}

func (s *Store) pruneSelection() {
	doc := s.Document()
	var keep []string
	for _, id := range s.selection.IDs() {
		if doc.Index(id) >= 0 {
			keep = append(keep, id)
		}
	}
	s.selection.Set(keep...)
}
