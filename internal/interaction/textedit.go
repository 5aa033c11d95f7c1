package interaction

import (
	"sketchflow/internal/diagram"
	"sketchflow/internal/editor"
)

// textEdit is the in-place text buffer of one element. Nothing reaches the
// store until the edit commits.
type textEdit struct {
	id       string
	original string
	buf      []rune
	caret    int
}

func (e *textEdit) text() string { return string(e.buf) }

func (e *textEdit) insert(s string) {
	rs := []rune(s)
	buf := make([]rune, 0, len(e.buf)+len(rs))
	buf = append(buf, e.buf[:e.caret]...)
	buf = append(buf, rs...)
	buf = append(buf, e.buf[e.caret:]...)
	e.buf = buf
	e.caret += len(rs)
}

func (e *textEdit) backspace() {
	if e.caret == 0 {
		return
	}
	e.buf = append(e.buf[:e.caret-1], e.buf[e.caret:]...)
	e.caret--
}

func (e *textEdit) del() {
	if e.caret >= len(e.buf) {
		return
	}
	e.buf = append(e.buf[:e.caret], e.buf[e.caret+1:]...)
}

// DoubleClick starts editing the text of the top-most element under the
// pointer. It only applies in the select tool.
func (c *Controller) DoubleClick(ev Pointer) bool {
	c.syncEpoch()
	if c.store.Tool() != editor.ToolSelect {
		return false
	}
	view := c.store.View()
	doc := c.store.Document()
	i := doc.HitTest(view.ScreenToCanvas(ev.point()), c.hitTol/view.Zoom)
	if i < 0 {
		return false
	}
	id := doc[i].ID
	c.cancelGesture()
	if c.edit != nil {
		if c.edit.id == id {
			return true
		}
		c.commitEdit()
	}
	c.BeginEdit(id)
	return c.edit != nil
}

// BeginEdit opens the text editor on id with the caret at the end.
func (c *Controller) BeginEdit(id string) {
	e, ok := c.store.Element(id)
	if !ok {
		return
	}
	c.store.Select(id)
	buf := []rune(e.Text)
	c.edit = &textEdit{id: id, original: e.Text, buf: buf, caret: len(buf)}
	c.log.Debug().Str("id", id).Msg("text edit start")
}

// Editing reports the element being edited, its live buffer and the caret
// position in runes.
func (c *Controller) Editing() (id, text string, caret int, ok bool) {
	c.syncEpoch()
	if c.edit == nil {
		return "", "", 0, false
	}
	return c.edit.id, c.edit.text(), c.edit.caret, true
}

// CommitEdit writes the buffer back as one history entry, if it changed.
func (c *Controller) CommitEdit() { c.commitEdit() }

func (c *Controller) commitEdit() {
	ed := c.edit
	if ed == nil {
		return
	}
	c.edit = nil
	if ed.text() == ed.original {
		return
	}
	c.store.UpdateElement(ed.id, diagram.Patch{Text: diagram.Ptr(ed.text())})
}

func (c *Controller) editKey(k Key) {
	ed := c.edit
	switch k.Name {
	case KeyEnter:
		if k.Mods.Shift || k.Mods.Alt {
			ed.insert("\n")
			return
		}
		c.commitEdit()
	case KeyEscape:
		c.edit = nil
	case KeyBackspace:
		ed.backspace()
	case KeyDelete:
		ed.del()
	case KeyLeft:
		if ed.caret > 0 {
			ed.caret--
		}
	case KeyRight:
		if ed.caret < len(ed.buf) {
			ed.caret++
		}
	case KeyHome:
		ed.caret = 0
	case KeyEnd:
		ed.caret = len(ed.buf)
	default:
		if k.Mods.Ctrl || k.Mods.Meta {
			return
		}
		if len([]rune(k.Name)) == 1 {
			ed.insert(k.Name)
		}
	}
}
