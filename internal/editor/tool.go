package editor

import "sketchflow/internal/diagram"

type Tool string

const (
	ToolSelect        Tool = "select"
	ToolHand          Tool = "hand"
	ToolRectangle     Tool = "rectangle"
	ToolEllipse       Tool = "ellipse"
	ToolDiamond       Tool = "diamond"
	ToolText          Tool = "text"
	ToolConnector     Tool = "connector"
	ToolTriangle      Tool = "triangle"
	ToolParallelogram Tool = "parallelogram"
	ToolCylinder      Tool = "cylinder"
	ToolDocument      Tool = "document"
)

// ElementType returns the element a creation tool places. ok is false for
// select and hand.
func (t Tool) ElementType() (diagram.ElementType, bool) {
	switch t {
	case ToolSelect, ToolHand:
		return "", false
	}
	et := diagram.ElementType(t)
	for _, known := range diagram.ElementTypes {
		if known == et {
			return et, true
		}
	}
	return "", false
}

func (t Tool) Valid() bool {
	if t == ToolSelect || t == ToolHand {
		return true
	}
	_, ok := t.ElementType()
	return ok
}
