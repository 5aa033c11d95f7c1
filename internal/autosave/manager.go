// Package autosave keeps the open diagram durable: a crash-recovery slot
// written after every quiet period, the list of saved diagrams, and the id
// of the saved diagram the editor is currently working on.
//
// The manager only reads the element store's document; switching documents
// (load, new) goes through editor.Store.Reset.
package autosave

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sketchflow/internal/diagram"
	"sketchflow/internal/editor"
	"sketchflow/internal/storage"
)

var ErrNotFound = errors.New("saved diagram not found")

const DefaultPrefix = "sketchflow"

type Manager struct {
	kv    storage.KV
	store *editor.Store
	log   zerolog.Logger
	now   func() time.Time
	newID func() string

	keyAutosave string
	keyHistory  string
	keyActive   string

	history  []SavedDiagram
	activeID string
}

type Option func(*Manager)

func WithPrefix(prefix string) Option {
	return func(m *Manager) { m.setPrefix(prefix) }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) { m.newID = fn }
}

func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

func New(kv storage.KV, store *editor.Store, opts ...Option) *Manager {
	m := &Manager{
		kv:    kv,
		store: store,
		log:   zerolog.Nop(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	m.setPrefix(DefaultPrefix)
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With().Str("component", "autosave").Logger()
	return m
}

func (m *Manager) setPrefix(prefix string) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	m.keyAutosave = prefix + ":autosave"
	m.keyHistory = prefix + ":history"
	m.keyActive = prefix + ":active-id"
}

// Restore loads durable state in order: the saved-diagram list, the
// autosave slot (which seeds the editor), then the active id. Missing or
// malformed data is treated as absent.
func (m *Manager) Restore(ctx context.Context) {
	m.history = nil
	if ok := m.readJSON(ctx, m.keyHistory, &m.history); !ok {
		m.history = nil
	}

	var snap Snapshot
	if m.readJSON(ctx, m.keyAutosave, &snap) {
		m.apply(snap)
	}

	m.activeID = ""
	raw, ok, err := m.kv.Get(ctx, m.keyActive)
	if err != nil {
		m.log.Warn().Err(err).Str("key", m.keyActive).Msg("read active id")
	} else if ok && m.index(string(raw)) >= 0 {
		m.activeID = string(raw)
	}
	m.log.Info().Int("saved", len(m.history)).Str("active", m.activeID).
		Int("elements", len(m.store.Document())).Msg("restored")
}

// Autosave writes the crash-recovery slot and, for a non-empty document,
// upserts the active saved diagram. Write failures are logged and returned;
// the in-memory state stays authoritative.
func (m *Manager) Autosave(ctx context.Context) error {
	snap := m.Snapshot()
	var errs []error
	if err := m.writeJSON(ctx, m.keyAutosave, snap); err != nil {
		errs = append(errs, err)
	}
	if len(snap.Elements) == 0 {
		return errors.Join(errs...)
	}

	now := m.now()
	derived := DeriveName(snap.Elements, now)
	if i := m.index(m.activeID); i >= 0 {
		saved := &m.history[i]
		if saved.Data.Equal(snap) {
			return errors.Join(errs...)
		}
		saved.LastModified = now
		saved.Data = snap
		saved.Name, saved.AutoNamed = refreshName(*saved, derived)
	} else {
		saved := SavedDiagram{
			ID:           m.newID(),
			Name:         derived,
			LastModified: now,
			Data:         snap,
			AutoNamed:    true,
		}
		m.history = append([]SavedDiagram{saved}, m.history...)
		if err := m.setActive(ctx, saved.ID); err != nil {
			errs = append(errs, err)
		}
	}
	if err := m.writeJSON(ctx, m.keyHistory, m.history); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SaveToHistory stores the current document as a new saved diagram and
// makes it the active one. An empty name derives one from the content.
func (m *Manager) SaveToHistory(ctx context.Context, name string) (SavedDiagram, error) {
	snap := m.Snapshot()
	now := m.now()
	saved := SavedDiagram{
		ID:           m.newID(),
		Name:         name,
		LastModified: now,
		Data:         snap,
	}
	if name == "" {
		saved.Name = DeriveName(snap.Elements, now)
		saved.AutoNamed = true
	}
	m.history = append([]SavedDiagram{saved}, m.history...)
	err := errors.Join(
		m.setActive(ctx, saved.ID),
		m.writeJSON(ctx, m.keyHistory, m.history),
	)
	m.log.Info().Str("id", saved.ID).Str("name", saved.Name).Msg("saved copy")
	return saved, err
}

// LoadDiagram makes saved the open document with a fresh history.
func (m *Manager) LoadDiagram(ctx context.Context, saved SavedDiagram) error {
	m.apply(saved.Data)
	m.log.Info().Str("id", saved.ID).Str("name", saved.Name).Msg("loaded")
	return m.setActive(ctx, saved.ID)
}

func (m *Manager) Load(ctx context.Context, idOrName string) error {
	saved, ok := m.Find(idOrName)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, idOrName)
	}
	return m.LoadDiagram(ctx, saved)
}

// DeleteFromHistory removes a saved diagram. The open document is kept; if
// it was the deleted entry it becomes unsaved.
func (m *Manager) DeleteFromHistory(ctx context.Context, id string) error {
	i := m.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.history = append(m.history[:i:i], m.history[i+1:]...)
	var errs []error
	if m.activeID == id {
		errs = append(errs, m.setActive(ctx, ""))
	}
	errs = append(errs, m.writeJSON(ctx, m.keyHistory, m.history))
	return errors.Join(errs...)
}

// CreateNew opens an empty, unsaved document with the default view.
func (m *Manager) CreateNew(ctx context.Context) error {
	m.store.Reset(diagram.Document{})
	m.store.View().Reset()
	return m.setActive(ctx, "")
}

// Rename gives a saved diagram a user-chosen name, which autosave will no
// longer replace with a derived one.
func (m *Manager) Rename(ctx context.Context, id, name string) error {
	i := m.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.history[i].Name = name
	m.history[i].AutoNamed = false
	return m.writeJSON(ctx, m.keyHistory, m.history)
}

// History returns the saved diagrams, most recent first.
func (m *Manager) History() []SavedDiagram {
	return append([]SavedDiagram(nil), m.history...)
}

func (m *Manager) ActiveID() string { return m.activeID }

// Find looks a saved diagram up by id, then by exact name.
func (m *Manager) Find(idOrName string) (SavedDiagram, bool) {
	if i := m.index(idOrName); i >= 0 {
		return m.history[i], true
	}
	for _, s := range m.history {
		if s.Name == idOrName {
			return s, true
		}
	}
	return SavedDiagram{}, false
}

// Snapshot captures the editor's persisted state.
func (m *Manager) Snapshot() Snapshot {
	view := m.store.View()
	return Snapshot{
		Elements:            m.store.Document().Clone(),
		Zoom:                view.Zoom,
		Pan:                 view.Pan,
		ActiveConnectorType: m.store.ConnectorType(),
	}
}

// apply opens snap in the editor. Stored elements that fail validation are
// dropped as if they were never saved.
func (m *Manager) apply(snap Snapshot) {
	elems, dropped := snap.Elements.Sanitize()
	if dropped > 0 {
		m.log.Warn().Int("dropped", dropped).Msg("invalid stored elements ignored")
	}
	m.store.Reset(elems)
	view := m.store.View()
	view.Reset()
	if snap.Zoom != 0 {
		view.SetZoom(snap.Zoom)
	}
	view.Pan = snap.Pan
	m.store.SetConnectorType(snap.ActiveConnectorType)
}

func (m *Manager) index(id string) int {
	if id == "" {
		return -1
	}
	for i, s := range m.history {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) setActive(ctx context.Context, id string) error {
	if id == m.activeID {
		return nil
	}
	m.activeID = id
	var err error
	if id == "" {
		err = m.kv.Delete(ctx, m.keyActive)
	} else {
		err = m.kv.Set(ctx, m.keyActive, []byte(id))
	}
	if err != nil {
		m.log.Error().Err(err).Str("key", m.keyActive).Msg("persist active id")
		return fmt.Errorf("persist active id: %w", err)
	}
	return nil
}

func (m *Manager) readJSON(ctx context.Context, key string, v any) bool {
	raw, ok, err := m.kv.Get(ctx, key)
	if err != nil {
		m.log.Warn().Err(err).Str("key", key).Msg("read failed, treating as absent")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		m.log.Warn().Err(err).Str("key", key).Msg("malformed data, treating as absent")
		return false
	}
	return true
}

func (m *Manager) writeJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := m.kv.Set(ctx, key, raw); err != nil {
		m.log.Error().Err(err).Str("key", key).Msg("write failed")
		return err
	}
	return nil
}
