package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchflow/internal/autosave"
	"sketchflow/internal/config"
	"sketchflow/internal/diagram"
	"sketchflow/internal/editor"
	"sketchflow/internal/export"
	"sketchflow/internal/geometry"
	"sketchflow/internal/interaction"
	"sketchflow/internal/storage"
)

const autosaveKey = "sketchflow:autosave"

func newTestModel(t *testing.T) (*model, *storage.Memory) {
	t.Helper()
	kv := storage.NewMemory()
	cfg := config.Default()
	cfg.SaveDirectory = t.TempDir()

	n := 0
	store := editor.New(editor.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("el-%d", n)
	}))
	a := &app{cfg: cfg, log: zerolog.Nop(), kv: kv, store: store, saves: autosave.New(kv, store)}
	ctrl := interaction.New(store,
		interaction.WithHandleTolerance(export.CellWidth, export.CellHeight),
		interaction.WithHitTolerance(export.CellWidth/2),
	)
	m := newModel(context.Background(), a, ctrl)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, kv
}

func press(m *model, col, row int) tea.Cmd {
	_, cmd := m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	return cmd
}

func drag(m *model, col, row int) {
	m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
}

func release(m *model, col, row int) tea.Cmd {
	_, cmd := m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone})
	return cmd
}

func typeText(m *model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func pressKey(m *model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

// placeRect draws a rectangle whose top-left corner is the centre of
// terminal cell (5, 3): canvas (44, 40).
func placeRect(t *testing.T, m *model) diagram.Element {
	t.Helper()
	typeText(m, "r")
	require.Equal(t, editor.ToolRectangle, m.store.Tool())
	press(m, 5, 3)
	release(m, 5, 3)
	doc := m.store.Document()
	require.Len(t, doc, 1)
	return doc[0]
}

func TestModel_PlaceAndDrag(t *testing.T) {
	m, _ := newTestModel(t)

	e := placeRect(t, m)
	assert.Equal(t, 44.0, e.X)
	assert.Equal(t, 40.0, e.Y)
	assert.Equal(t, editor.ToolSelect, m.store.Tool())

	press(m, 12, 5)
	drag(m, 14, 6)
	drag(m, 15, 7)
	release(m, 15, 7)

	e, _ = m.store.Element(e.ID)
	assert.Equal(t, 68.0, e.X)
	assert.Equal(t, 72.0, e.Y)

	typeText(m, "u")
	e, _ = m.store.Element(e.ID)
	assert.Equal(t, 44.0, e.X, "one drag is one undo step")
	typeText(m, "U")
	e, _ = m.store.Element(e.ID)
	assert.Equal(t, 68.0, e.X)
}

func TestModel_ToolbarRowIsNotCanvas(t *testing.T) {
	m, _ := newTestModel(t)
	typeText(m, "r")
	press(m, 5, 0)
	assert.Empty(t, m.store.Document())
}

func TestModel_AutosaveDebounce(t *testing.T) {
	ctx := context.Background()
	m, kv := newTestModel(t)

	placeRect(t, m)
	assert.True(t, m.debounce.Pending())

	press(m, 12, 5)
	drag(m, 15, 7)
	cmd := release(m, 15, 7)
	require.NotNil(t, cmd, "a change schedules a write")

	m.Update(autosaveMsg{seq: 1})
	_, ok, err := kv.Get(ctx, autosaveKey)
	require.NoError(t, err)
	assert.False(t, ok, "a superseded timer does not write")

	m.Update(autosaveMsg{seq: 2})
	raw, ok, err := kv.Get(ctx, autosaveKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(raw), `"x":68`)
	assert.False(t, m.debounce.Pending())
}

func TestModel_ViewChangesAreAutosaved(t *testing.T) {
	m, _ := newTestModel(t)
	placeRect(t, m)
	m.Update(autosaveMsg{seq: 1})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.NotNil(t, cmd)
	assert.Equal(t, geometry.Point{X: export.CellWidth}, m.store.View().Pan)
	assert.True(t, m.debounce.Pending())
}

func TestModel_QuitFlushesAutosave(t *testing.T) {
	m, kv := newTestModel(t)
	placeRect(t, m)

	typeText(m, "q")
	_, ok, err := kv.Get(context.Background(), autosaveKey)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestModel_DoubleClickEditsText(t *testing.T) {
	m, _ := newTestModel(t)
	e := placeRect(t, m)

	press(m, 12, 5)
	release(m, 12, 5)
	press(m, 12, 5)
	release(m, 12, 5)

	id, _, _, editing := m.ctrl.Editing()
	require.True(t, editing)
	assert.Equal(t, e.ID, id)

	// shortcuts are text while editing
	typeText(m, "Hi q")
	assert.Equal(t, ModeNormal, m.mode)
	pressKey(m, tea.KeyEnter)

	_, _, _, editing = m.ctrl.Editing()
	assert.False(t, editing)
	e, _ = m.store.Element(e.ID)
	assert.Equal(t, "Hi q", e.Text)
}

func TestModel_RenderHandlesAndSelection(t *testing.T) {
	m, _ := newTestModel(t)
	placeRect(t, m)

	f := m.rasterize(80, 22)
	assert.Equal(t, handleRune, f.grid.At(5, 2), "nw handle")
	assert.Equal(t, handle, f.marks[2][5])
	assert.Equal(t, '─', f.grid.At(10, 2))
	assert.Equal(t, selected, f.marks[2][10])

	m.store.ClearSelection()
	f = m.rasterize(80, 22)
	assert.Equal(t, '┌', f.grid.At(5, 2))
	assert.Equal(t, plain, f.marks[2][10])

	assert.Len(t, m.renderCanvas(80, 22), 22)
}

func TestModel_RenderCaret(t *testing.T) {
	m, _ := newTestModel(t)
	e := placeRect(t, m)
	m.ctrl.BeginEdit(e.ID)
	typeText(m, "ab")

	f := m.rasterize(80, 22)
	assert.Equal(t, 1, countMarks(f, caret))
	assert.Zero(t, countMarks(f, handle), "no handles while editing")
}

func countMarks(f *canvasFrame, h highlight) int {
	n := 0
	for _, row := range f.marks {
		for _, x := range row {
			if x == h {
				n++
			}
		}
	}
	return n
}

func TestModel_SaveAsAndOpen(t *testing.T) {
	m, _ := newTestModel(t)
	placeRect(t, m)

	typeText(m, "S")
	require.Equal(t, ModeFileInput, m.mode)
	typeText(m, "Plan")
	pressKey(m, tea.KeyEnter)

	assert.Equal(t, ModeNormal, m.mode)
	saved := m.saves.History()
	require.Len(t, saved, 1)
	assert.Equal(t, "Plan", saved[0].Name)
	assert.Equal(t, saved[0].ID, m.saves.ActiveID())

	typeText(m, "n")
	assert.Empty(t, m.store.Document())
	assert.Empty(t, m.saves.ActiveID())

	typeText(m, "O")
	require.Equal(t, ModeOpen, m.mode)
	assert.Contains(t, m.View(), "Plan")
	pressKey(m, tea.KeyEnter)
	assert.Equal(t, ModeNormal, m.mode)
	assert.Len(t, m.store.Document(), 1)
	assert.Equal(t, saved[0].ID, m.saves.ActiveID())
}

func TestModel_RenameAndDeleteFromList(t *testing.T) {
	m, _ := newTestModel(t)
	placeRect(t, m)
	_, err := m.saves.SaveToHistory(context.Background(), "Old")
	require.NoError(t, err)

	typeText(m, "O")
	typeText(m, "r")
	require.Equal(t, ModeFileInput, m.mode)
	for range "Old" {
		pressKey(m, tea.KeyBackspace)
	}
	typeText(m, "New")
	pressKey(m, tea.KeyEnter)
	assert.Equal(t, ModeOpen, m.mode)
	assert.Equal(t, "New", m.saves.History()[0].Name)

	typeText(m, "x")
	require.Equal(t, ModeConfirm, m.mode)
	typeText(m, "y")
	assert.Equal(t, ModeOpen, m.mode)
	assert.Empty(t, m.saves.History())
	assert.Len(t, m.store.Document(), 1, "the open document is kept")
}

func TestModel_NewKeepsPreviousInList(t *testing.T) {
	m, _ := newTestModel(t)
	placeRect(t, m)

	typeText(m, "n")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Empty(t, m.store.Document())
	assert.Empty(t, m.saves.ActiveID())

	saved := m.saves.History()
	require.Len(t, saved, 1)
	assert.True(t, autosave.IsUntitled(saved[0].Name))
	assert.Len(t, saved[0].Data.Elements, 1)

	// an empty document does not add an entry
	typeText(m, "n")
	assert.Len(t, m.saves.History(), 1)
}

func TestModel_ConfirmationsOff(t *testing.T) {
	m, _ := newTestModel(t)
	placeRect(t, m)
	_, err := m.saves.SaveToHistory(context.Background(), "Doomed")
	require.NoError(t, err)
	m.cfg.Confirmations = false

	typeText(m, "O")
	typeText(m, "x")
	assert.Equal(t, ModeOpen, m.mode)
	assert.Empty(t, m.saves.History())
}

func TestModel_WheelAndZoom(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.Equal(t, -wheelDelta, m.store.View().Pan.Y)

	m.Update(tea.MouseMsg{X: 10, Y: 10, Ctrl: true, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.InDelta(t, 1.1, m.store.View().Zoom, 1e-9)

	typeText(m, "0")
	assert.Equal(t, geometry.DefaultZoom, m.store.View().Zoom)
	typeText(m, "+")
	assert.InDelta(t, 1.25, m.store.View().Zoom, 1e-9)
}

func TestModel_ShapeKeys(t *testing.T) {
	m, _ := newTestModel(t)
	for key, tool := range shapeKeys {
		typeText(m, key)
		assert.Equal(t, tool, m.store.Tool())
	}
	typeText(m, "l")
	assert.Equal(t, editor.ToolConnector, m.store.Tool())
	typeText(m, "3")
	assert.Equal(t, diagram.ConnectorCurve, m.store.ConnectorType())
}

func TestModel_Help(t *testing.T) {
	m, _ := newTestModel(t)
	typeText(m, "?")
	assert.Contains(t, m.View(), "sketchflow help")
	typeText(m, "j")
	assert.Equal(t, 1, m.helpScroll)
	typeText(m, "r")
	assert.Equal(t, editor.ToolSelect, m.store.Tool(), "keys do not reach the canvas under help")
	pressKey(m, tea.KeyEsc)
	assert.False(t, m.help)
}

func TestToKeys(t *testing.T) {
	keys := toKeys(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab")})
	assert.Equal(t, []interaction.Key{{Name: "a"}, {Name: "b"}}, keys)

	keys = toKeys(tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	assert.Equal(t, []interaction.Key{{Name: interaction.KeyEnter, Mods: interaction.Modifiers{Alt: true}}}, keys)

	keys = toKeys(tea.KeyMsg{Type: tea.KeyCtrlZ})
	assert.Equal(t, []interaction.Key{{Name: "z", Mods: interaction.Modifiers{Ctrl: true}}}, keys)

	assert.Nil(t, toKeys(tea.KeyMsg{Type: tea.KeyTab}))
}

func TestExportDiagram(t *testing.T) {
	m, _ := newTestModel(t)

	_, err := m.exportDiagram("empty.png")
	assert.ErrorIs(t, err, export.ErrEmpty)

	placeRect(t, m)
	path, err := m.exportDiagram("out.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(m.cfg.SaveDirectory, "out.txt"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "┌")

	path, err = m.exportDiagram("picture")
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(path))

	_, err = m.exportDiagram("out.svg")
	assert.Error(t, err)
}
