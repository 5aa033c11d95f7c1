package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sketchflow/internal/editor"
)

var (
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	cursorStyle = lipgloss.NewStyle().Reverse(true)
)

type toolButton struct {
	key   string
	label string
	tool  editor.Tool
}

var toolbar = []toolButton{
	{"v", "select", editor.ToolSelect},
	{"h", "hand", editor.ToolHand},
	{"r", "rect", editor.ToolRectangle},
	{"o", "ellipse", editor.ToolEllipse},
	{"d", "diamond", editor.ToolDiamond},
	{"a", "triangle", editor.ToolTriangle},
	{"p", "parallelogram", editor.ToolParallelogram},
	{"c", "cylinder", editor.ToolCylinder},
	{"f", "document", editor.ToolDocument},
	{"t", "text", editor.ToolText},
	{"l", "line", editor.ToolConnector},
}

var helpLines = []string{
	"sketchflow help",
	"===============",
	"",
	"Mouse:",
	"------",
	"  click            Select an element (shift- or ctrl-click adds or removes)",
	"  drag             Move the selection, or resize from a ■ handle",
	"  double-click     Edit the text of an element",
	"  wheel            Pan the canvas (ctrl+wheel zooms)",
	"",
	"Tools:",
	"------",
	"  v / h            Select / hand (drag to pan)",
	"  r o d            Rectangle, ellipse, diamond (click to place)",
	"  a p c f          Triangle, parallelogram, cylinder, document",
	"  t                Text",
	"  l                Line: drag from start to end",
	"  1 / 2 / 3        Line style: straight, elbow, curve (also restyles selected lines)",
	"",
	"Editing:",
	"--------",
	"  e / Enter        Edit text of the selected element",
	"  Enter            Finish editing (alt+Enter inserts a new line)",
	"  Esc              Cancel editing, cancel a drag, or clear the selection",
	"  Delete/Backspace Delete the selection",
	"  y / P            Copy / paste (plain clipboard text becomes a text element)",
	"  u / U            Undo / redo (ctrl+z / ctrl+y also work)",
	"",
	"View:",
	"-----",
	"  arrows           Pan (shift+arrows pans faster)",
	"  + / -            Zoom in / out",
	"  0                Reset zoom and pan",
	"",
	"Diagrams:",
	"---------",
	"  S                Save a copy under a name (empty derives one from the content)",
	"  O                Open the saved diagram list (r rename, x delete)",
	"  n                Start a new diagram (the current one stays in the list)",
	"  E                Export as PNG (.txt exports box-drawing text)",
	"",
	"Changes are saved automatically shortly after you stop editing.",
	"",
	"  ?                Toggle this help screen",
	"  q / ctrl+c       Quit",
}

func (m *model) View() string {
	if m.help {
		return m.helpView()
	}
	if m.mode == ModeOpen || (m.mode != ModeNormal && m.returnMode == ModeOpen) {
		return m.openView()
	}

	var b strings.Builder
	b.WriteString(m.toolbarView())
	b.WriteString("\n")
	b.WriteString(strings.Join(m.renderCanvas(max(m.width, 1), m.canvasRows()), "\n"))
	b.WriteString("\n")
	b.WriteString(m.statusView())
	return b.String()
}

func (m *model) toolbarView() string {
	parts := make([]string, 0, len(toolbar)+1)
	for _, t := range toolbar {
		label := fmt.Sprintf(" %s %s ", t.key, t.label)
		if m.store.Tool() == t.tool {
			parts = append(parts, activeStyle.Render(label))
		} else {
			parts = append(parts, barStyle.Render(label))
		}
	}
	parts = append(parts, barStyle.Render(fmt.Sprintf("│ line: %s ", m.store.ConnectorType())))
	return lipgloss.NewStyle().MaxWidth(max(m.width, 1)).Render(strings.Join(parts, ""))
}

func (m *model) statusView() string {
	switch m.mode {
	case ModeFileInput:
		return m.promptLabel() + m.input + cursorStyle.Render(" ")
	case ModeConfirm:
		return errorStyle.Render(m.confirmText) + " (y/n)"
	}

	name := "unsaved"
	if saved, ok := m.saves.Find(m.saves.ActiveID()); ok {
		name = saved.Name
	}
	fields := []string{
		m.modeString(),
		name,
		fmt.Sprintf("%d%%", int(m.store.View().Zoom*100+0.5)),
	}
	if n := len(m.store.Selected()); n > 0 {
		fields = append(fields, fmt.Sprintf("%d selected", n))
	}
	if m.debounce.Pending() {
		fields = append(fields, "●")
	}
	status := statusStyle.Render(strings.Join(fields, " | "))

	switch {
	case m.errMsg != "":
		status += " | " + errorStyle.Render(m.errMsg)
	case m.status != "":
		status += " | " + okStyle.Render(m.status)
	default:
		status += statusStyle.Render(" | ? for help | q to quit")
	}
	return lipgloss.NewStyle().MaxWidth(max(m.width, 1)).Render(status)
}

func (m *model) promptLabel() string {
	switch m.prompt {
	case promptExport:
		return "Export to (.png or .txt): "
	case promptRename:
		return "Rename to: "
	}
	return "Save as (empty for automatic name): "
}

func (m *model) modeString() string {
	if _, _, _, editing := m.ctrl.Editing(); editing {
		return "TEXT"
	}
	if m.ctrl.Active() {
		return "DRAG"
	}
	switch m.mode {
	case ModeNormal:
		return "NORMAL"
	case ModeFileInput:
		return "INPUT"
	case ModeOpen:
		return "OPEN"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

func (m *model) openView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Saved diagrams"))
	b.WriteString("\n\n")

	saved := m.saves.History()
	if len(saved) == 0 {
		b.WriteString("  No saved diagrams yet. Press S in the editor to save one.\n")
	}
	for i, s := range saved {
		marker := "  "
		if s.ID == m.saves.ActiveID() {
			marker = "* "
		}
		line := fmt.Sprintf("%s%-40s %4d elements   %s", marker, s.Name, len(s.Data.Elements),
			s.LastModified.Local().Format("2006-01-02 15:04"))
		if i == m.listCursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.mode != ModeOpen {
		b.WriteString(m.statusView())
	} else {
		b.WriteString(statusStyle.Render("enter open | r rename | x delete | esc back"))
	}
	return b.String()
}

func (m *model) helpHeight() int {
	return max(m.height-1, 1)
}

func (m *model) helpView() string {
	start := min(m.helpScroll, max(len(helpLines)-1, 0))
	end := min(start+m.helpHeight(), len(helpLines))

	result := strings.Join(helpLines[start:end], "\n")
	result += "\n" + statusStyle.Render(fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		start+1, end, len(helpLines)))
	return result
}
