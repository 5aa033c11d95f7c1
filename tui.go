package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"sketchflow/internal/autosave"
	"sketchflow/internal/config"
	"sketchflow/internal/diagram"
	"sketchflow/internal/editor"
	"sketchflow/internal/export"
	"sketchflow/internal/geometry"
	"sketchflow/internal/interaction"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeFileInput
	ModeOpen
	ModeConfirm
)

type promptKind int

const (
	promptSaveAs promptKind = iota
	promptExport
	promptRename
)

// canvasTop is the number of terminal rows above the canvas (the toolbar).
const canvasTop = 1

// wheelDelta is one wheel notch in screen units.
const wheelDelta = 100.0

// shapeKeys select the creation tools that have no controller shortcut.
var shapeKeys = map[string]editor.Tool{
	"a": editor.ToolTriangle,
	"p": editor.ToolParallelogram,
	"c": editor.ToolCylinder,
	"f": editor.ToolDocument,
}

type autosaveMsg struct{ seq uint64 }

type cell struct{ col, row int }

// changeMark is the state an autosave writes. A new mark schedules one.
type changeMark struct {
	revision  uint64
	zoom      float64
	pan       geometry.Point
	connector diagram.ConnectorType
}

type model struct {
	ctx   context.Context
	cfg   *config.Config
	log   zerolog.Logger
	store *editor.Store
	ctrl  *interaction.Controller
	saves *autosave.Manager
	now   func() time.Time

	width  int
	height int

	mode       Mode
	help       bool
	helpScroll int

	prompt   promptKind
	input    string
	renameID string

	listCursor int

	confirmText string
	onConfirm   func()
	returnMode  Mode

	debounce autosave.Debouncer
	mark     changeMark

	lastClick time.Time
	lastCell  cell

	clip []diagram.Element

	status string
	errMsg string
}

func newModel(ctx context.Context, a *app, ctrl *interaction.Controller) *model {
	m := &model{
		ctx:   ctx,
		cfg:   a.cfg,
		log:   a.log.With().Str("component", "tui").Logger(),
		store: a.store,
		ctrl:  ctrl,
		saves: a.saves,
		now:   time.Now,
	}
	m.store.View().Origin = geometry.Point{Y: canvasTop * export.CellHeight}
	m.mark = m.currentMark()
	return m
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case autosaveMsg:
		if m.debounce.Fire(msg.seq) {
			m.autosave()
		}
		return m, nil
	}
	return m, tea.Batch(cmd, m.scheduleAutosave())
}

func (m *model) currentMark() changeMark {
	view := m.store.View()
	return changeMark{
		revision:  m.store.Revision(),
		zoom:      view.Zoom,
		pan:       view.Pan,
		connector: m.store.ConnectorType(),
	}
}

// scheduleAutosave starts a debounce timer when the persisted state moved
// since the last call. Only the newest timer writes.
func (m *model) scheduleAutosave() tea.Cmd {
	mark := m.currentMark()
	if mark == m.mark {
		return nil
	}
	m.mark = mark
	seq := m.debounce.Trigger()
	return tea.Tick(m.cfg.AutosaveDelay(), func(time.Time) tea.Msg {
		return autosaveMsg{seq: seq}
	})
}

func (m *model) autosave() {
	if err := m.saves.Autosave(m.ctx); err != nil {
		m.errMsg = "autosave failed: " + err.Error()
	}
}

// flush writes any change still waiting on the debounce timer.
func (m *model) flush() {
	m.scheduleAutosave()
	if m.debounce.Flush() {
		m.autosave()
	}
}

func (m *model) quit() tea.Cmd {
	m.ctrl.CommitEdit()
	m.ctrl.Cancel()
	m.flush()
	return tea.Quit
}

func (m *model) canvasRows() int {
	return max(m.height-canvasTop-1, 1)
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	if m.mode != ModeNormal || m.help {
		return
	}
	ev := interaction.Pointer{
		X:    (float64(msg.X) + 0.5) * export.CellWidth,
		Y:    (float64(msg.Y) + 0.5) * export.CellHeight,
		Mods: interaction.Modifiers{Shift: msg.Shift, Alt: msg.Alt, Ctrl: msg.Ctrl},
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.ctrl.Wheel(interaction.Wheel{DeltaY: -wheelDelta, Mods: ev.Mods})
		return
	case tea.MouseButtonWheelDown:
		m.ctrl.Wheel(interaction.Wheel{DeltaY: wheelDelta, Mods: ev.Mods})
		return
	case tea.MouseButtonWheelLeft:
		m.ctrl.Wheel(interaction.Wheel{DeltaX: -wheelDelta, Mods: ev.Mods})
		return
	case tea.MouseButtonWheelRight:
		m.ctrl.Wheel(interaction.Wheel{DeltaX: wheelDelta, Mods: ev.Mods})
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || msg.Y < canvasTop {
			return
		}
		m.status, m.errMsg = "", ""
		at := cell{col: msg.X, row: msg.Y}
		now := m.now()
		if at == m.lastCell && now.Sub(m.lastClick) <= m.cfg.DoubleClick() {
			m.lastClick = time.Time{}
			if m.ctrl.DoubleClick(ev) {
				return
			}
		} else {
			m.lastClick, m.lastCell = now, at
		}
		m.ctrl.PointerDown(ev)
	case tea.MouseActionMotion:
		m.ctrl.PointerMove(ev)
	case tea.MouseActionRelease:
		m.ctrl.PointerUp(ev)
	}
}

// toKeys translates a terminal key into controller keys. Pasted text
// arrives as one message and becomes one key per rune.
func toKeys(msg tea.KeyMsg) []interaction.Key {
	mods := interaction.Modifiers{Alt: msg.Alt}
	named := func(name string) []interaction.Key {
		return []interaction.Key{{Name: name, Mods: mods}}
	}
	switch msg.Type {
	case tea.KeyEnter:
		return named(interaction.KeyEnter)
	case tea.KeyEsc:
		return named(interaction.KeyEscape)
	case tea.KeyBackspace:
		return named(interaction.KeyBackspace)
	case tea.KeyDelete:
		return named(interaction.KeyDelete)
	case tea.KeyLeft:
		return named(interaction.KeyLeft)
	case tea.KeyRight:
		return named(interaction.KeyRight)
	case tea.KeyHome:
		return named(interaction.KeyHome)
	case tea.KeyEnd:
		return named(interaction.KeyEnd)
	case tea.KeySpace:
		return named(" ")
	case tea.KeyCtrlZ:
		return []interaction.Key{{Name: "z", Mods: interaction.Modifiers{Ctrl: true}}}
	case tea.KeyCtrlY:
		return []interaction.Key{{Name: "y", Mods: interaction.Modifiers{Ctrl: true}}}
	case tea.KeyRunes:
		keys := make([]interaction.Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			keys = append(keys, interaction.Key{Name: string(r), Mods: mods})
		}
		return keys
	}
	return nil
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	if _, _, _, editing := m.ctrl.Editing(); editing {
		for _, k := range toKeys(msg) {
			m.ctrl.Key(k)
		}
		return nil
	}
	if m.help {
		m.helpKey(msg.String())
		return nil
	}

	switch m.mode {
	case ModeFileInput:
		m.inputKey(msg)
		return nil
	case ModeOpen:
		m.openKey(msg.String())
		return nil
	case ModeConfirm:
		m.confirmKey(msg.String())
		return nil
	}
	return m.normalKey(msg)
}

func (m *model) normalKey(msg tea.KeyMsg) tea.Cmd {
	m.status, m.errMsg = "", ""
	key := msg.String()
	switch key {
	case "q":
		return m.quit()
	case "?":
		m.help = true
		m.helpScroll = 0
		return nil
	case "u":
		m.ctrl.Key(interaction.Key{Name: "z", Mods: interaction.Modifiers{Ctrl: true}})
		return nil
	case "U":
		m.ctrl.Key(interaction.Key{Name: "y", Mods: interaction.Modifiers{Ctrl: true}})
		return nil
	case "n":
		m.newDiagram()
		return nil
	case "S":
		m.startPrompt(promptSaveAs, "")
		return nil
	case "O":
		m.openList()
		return nil
	case "E":
		m.startPrompt(promptExport, defaultExportName)
		return nil
	case "y":
		m.copySelection()
		return nil
	case "P":
		m.pasteClipboard()
		return nil
	case "e", "enter":
		if sel := m.store.Selected(); len(sel) == 1 {
			m.ctrl.BeginEdit(sel[0])
		}
		return nil
	case "+", "=":
		m.zoomBy(1.25)
		return nil
	case "-", "_":
		m.zoomBy(0.8)
		return nil
	case "0":
		m.store.View().Reset()
		return nil
	}
	if m.handleNavigation(key) {
		return nil
	}
	if t, ok := shapeKeys[key]; ok {
		m.store.SetTool(t)
		return nil
	}
	for _, k := range toKeys(msg) {
		m.ctrl.Key(k)
	}
	return nil
}

// newDiagram autosaves the open document, which keeps it in the saved
// list, and starts an empty one.
func (m *model) newDiagram() {
	m.flush()
	if err := m.saves.CreateNew(m.ctx); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.status = "New diagram"
}

// confirm asks a yes/no question before running action, unless
// confirmations are turned off.
func (m *model) confirm(question string, action func()) {
	if !m.cfg.Confirmations {
		action()
		return
	}
	m.confirmText = question
	m.onConfirm = action
	m.returnMode = m.mode
	m.mode = ModeConfirm
}

func (m *model) confirmKey(key string) {
	action := m.onConfirm
	m.mode = m.returnMode
	m.onConfirm = nil
	m.confirmText = ""
	switch key {
	case "y", "Y", "enter":
		action()
	}
}

func (m *model) startPrompt(kind promptKind, initial string) {
	m.prompt = kind
	m.input = initial
	m.returnMode = m.mode
	m.mode = ModeFileInput
}

func (m *model) inputKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = m.returnMode
		m.input = ""
	case tea.KeyEnter:
		m.mode = m.returnMode
		m.submitPrompt(strings.TrimSpace(m.input))
		m.input = ""
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
}

func (m *model) submitPrompt(value string) {
	switch m.prompt {
	case promptSaveAs:
		saved, err := m.saves.SaveToHistory(m.ctx, value)
		if err != nil {
			m.errMsg = err.Error()
			return
		}
		m.status = fmt.Sprintf("Saved as %q", saved.Name)
	case promptExport:
		path, err := m.exportDiagram(value)
		if errors.Is(err, export.ErrEmpty) {
			m.errMsg = "Nothing to export"
			return
		}
		if err != nil {
			m.errMsg = err.Error()
			return
		}
		m.status = "Exported to " + path
	case promptRename:
		if value == "" {
			return
		}
		if err := m.saves.Rename(m.ctx, m.renameID, value); err != nil {
			m.errMsg = err.Error()
			return
		}
		m.status = fmt.Sprintf("Renamed to %q", value)
	}
}

func (m *model) openList() {
	m.mode = ModeOpen
	m.listCursor = 0
	for i, s := range m.saves.History() {
		if s.ID == m.saves.ActiveID() {
			m.listCursor = i
		}
	}
}

func (m *model) openKey(key string) {
	saved := m.saves.History()
	if len(saved) == 0 {
		if key == "esc" || key == "q" || key == "O" {
			m.mode = ModeNormal
		}
		return
	}
	m.listCursor = min(m.listCursor, len(saved)-1)
	current := saved[m.listCursor]

	switch key {
	case "esc", "q", "O":
		m.mode = ModeNormal
	case "j", "down":
		m.listCursor = min(m.listCursor+1, len(saved)-1)
	case "k", "up":
		m.listCursor = max(m.listCursor-1, 0)
	case "enter", "o":
		m.flush()
		m.mode = ModeNormal
		if err := m.saves.LoadDiagram(m.ctx, current); err != nil {
			m.errMsg = err.Error()
			return
		}
		m.status = fmt.Sprintf("Opened %q", current.Name)
	case "r":
		m.renameID = current.ID
		m.startPrompt(promptRename, current.Name)
	case "x", "d":
		m.confirm(fmt.Sprintf("Delete %q?", current.Name), func() {
			if err := m.saves.DeleteFromHistory(m.ctx, current.ID); err != nil {
				m.errMsg = err.Error()
				return
			}
			m.status = fmt.Sprintf("Deleted %q", current.Name)
		})
	}
}

func (m *model) helpKey(key string) {
	switch key {
	case "esc", "q", "?":
		m.help = false
		m.helpScroll = 0
	case "j", "down":
		m.helpScroll = min(m.helpScroll+1, max(len(helpLines)-m.helpHeight(), 0))
	case "k", "up":
		m.helpScroll = max(m.helpScroll-1, 0)
	}
}

func (m *model) zoomBy(factor float64) {
	view := m.store.View()
	view.SetZoom(view.Zoom * factor)
}
