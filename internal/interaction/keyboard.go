package interaction

import (
	"strings"

	"sketchflow/internal/diagram"
	"sketchflow/internal/editor"
)

// Key is a key press. Name is either a single printable character ("v",
// "Z", " ") or a named key: Enter, Escape, Backspace, Delete, Left, Right,
// Home, End.
type Key struct {
	Name string
	Mods Modifiers
}

const (
	KeyEnter     = "Enter"
	KeyEscape    = "Escape"
	KeyBackspace = "Backspace"
	KeyDelete    = "Delete"
	KeyLeft      = "Left"
	KeyRight     = "Right"
	KeyHome      = "Home"
	KeyEnd       = "End"
)

var toolKeys = map[string]editor.Tool{
	"v": editor.ToolSelect,
	"h": editor.ToolHand,
	"r": editor.ToolRectangle,
	"o": editor.ToolEllipse,
	"d": editor.ToolDiamond,
	"t": editor.ToolText,
	"l": editor.ToolConnector,
}

var connectorKeys = map[string]diagram.ConnectorType{
	"1": diagram.ConnectorStraight,
	"2": diagram.ConnectorElbow,
	"3": diagram.ConnectorCurve,
}

// Key handles a key press and reports whether it was consumed. While a text
// edit is active every key goes to the edit buffer.
func (c *Controller) Key(k Key) bool {
	c.syncEpoch()
	if c.edit != nil {
		c.editKey(k)
		return true
	}

	name := k.Name
	if k.Mods.Ctrl || k.Mods.Meta {
		switch strings.ToLower(name) {
		case "z":
			c.cancelGesture()
			if k.Mods.Shift || name == "Z" {
				return c.store.Redo()
			}
			return c.store.Undo()
		case "y":
			c.cancelGesture()
			return c.store.Redo()
		}
		return false
	}

	switch name {
	case KeyDelete, KeyBackspace:
		c.cancelGesture()
		return c.store.DeleteSelected()
	case KeyEscape:
		if c.session != nil {
			c.cancelGesture()
			return true
		}
		c.store.ClearSelection()
		return true
	}
	if k.Mods.command() {
		return false
	}
	if t, ok := toolKeys[name]; ok {
		c.store.SetTool(t)
		return true
	}
	if ct, ok := connectorKeys[name]; ok {
		c.setConnectorType(ct)
		return true
	}
	return false
}

// setConnectorType changes the style for new connectors and restyles any
// selected connectors in one history entry.
func (c *Controller) setConnectorType(ct diagram.ConnectorType) {
	c.store.SetConnectorType(ct)
	patches := map[string]diagram.Patch{}
	for _, id := range c.store.Selected() {
		if e, ok := c.store.Element(id); ok && e.Type == diagram.TypeConnector && e.ConnectorType != ct {
			patches[id] = diagram.Patch{ConnectorType: diagram.Ptr(ct)}
		}
	}
	c.store.UpdateElements(patches)
}
