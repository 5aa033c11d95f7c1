package autosave

import (
	"time"

	"sketchflow/internal/diagram"
	"sketchflow/internal/geometry"
)

// Snapshot is the persisted part of an editing session. Selection and the
// active tool are not saved.
type Snapshot struct {
	Elements            diagram.Document      `json:"elements"`
	Zoom                float64               `json:"zoom"`
	Pan                 geometry.Point        `json:"pan"`
	ActiveConnectorType diagram.ConnectorType `json:"activeConnectorType"`
}

func (s Snapshot) Equal(o Snapshot) bool {
	return s.Zoom == o.Zoom && s.Pan == o.Pan &&
		s.ActiveConnectorType == o.ActiveConnectorType &&
		s.Elements.Equal(o.Elements)
}

// SavedDiagram is one entry of the saved-diagram list.
type SavedDiagram struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	LastModified time.Time `json:"lastModified"`
	Data         Snapshot  `json:"data"`

	// AutoNamed is true while Name was derived from the content rather
	// than given by the user.
	AutoNamed bool `json:"autoNamed,omitempty"`
}
