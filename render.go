package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sketchflow/internal/editor"
	"sketchflow/internal/export"
	"sketchflow/internal/interaction"
)

// highlight is how one canvas cell is styled on top of its rune.
type highlight uint8

const (
	plain highlight = iota
	selected
	handle
	caret
)

const handleRune = '■'

var highlightStyles = map[highlight]lipgloss.Style{
	selected: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	handle:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	caret:    lipgloss.NewStyle().Reverse(true),
}

// canvasFrame is the rasterized canvas before styling.
type canvasFrame struct {
	grid  *export.Grid
	marks [][]highlight
}

func (f *canvasFrame) mark(col, row int, h highlight) {
	if row < 0 || row >= len(f.marks) || col < 0 || col >= len(f.marks[row]) {
		return
	}
	f.marks[row][col] = h
}

// rasterize draws what the user currently sees: the document with any live
// gesture applied, the selection, resize handles and the text caret.
func (m *model) rasterize(cols, rows int) *canvasFrame {
	g := export.NewGrid(cols, rows, *m.store.View())
	doc := m.ctrl.VisibleDocument()
	g.Draw(doc)

	f := &canvasFrame{grid: g, marks: make([][]highlight, g.Rows())}
	for i := range f.marks {
		f.marks[i] = make([]highlight, g.Cols())
	}

	sel := m.store.Selected()
	for _, id := range sel {
		e, ok := doc.Find(id)
		if !ok {
			continue
		}
		c0, r0, c1, r1 := g.Span(e.Bounds())
		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				if r := g.At(col, row); r != 0 && r != ' ' {
					f.mark(col, row, selected)
				}
			}
		}
	}

	editID, _, caretAt, editing := m.ctrl.Editing()
	if editing {
		if e, ok := doc.Find(editID); ok {
			if col, row, ok := g.TextCell(e, caretAt); ok {
				f.mark(col, row, caret)
			}
		}
		return f
	}

	if len(sel) == 1 && m.store.Tool() == editor.ToolSelect {
		if e, ok := doc.Find(sel[0]); ok {
			for _, h := range interaction.Handles {
				col, row := g.Cell(h.Point(e.Bounds()))
				g.Set(col, row, handleRune)
				f.mark(col, row, handle)
			}
		}
	}
	return f
}

// renderCanvas returns the styled canvas rows.
func (m *model) renderCanvas(cols, rows int) []string {
	f := m.rasterize(cols, rows)
	lines := make([]string, f.grid.Rows())
	for row := range lines {
		var b strings.Builder
		var run []rune
		cur := plain
		emit := func() {
			if len(run) == 0 {
				return
			}
			if cur == plain {
				b.WriteString(string(run))
			} else {
				b.WriteString(highlightStyles[cur].Render(string(run)))
			}
			run = run[:0]
		}
		for col := 0; col < f.grid.Cols(); col++ {
			if h := f.marks[row][col]; h != cur {
				emit()
				cur = h
			}
			run = append(run, f.grid.At(col, row))
		}
		emit()
		lines[row] = b.String()
	}
	return lines
}
