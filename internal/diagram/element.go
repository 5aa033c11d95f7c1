// Package diagram defines the elements of a diagram and the immutable
// Document operations the editor builds snapshots from.
package diagram

import (
	"errors"
	"fmt"

	"sketchflow/internal/geometry"
)

var (
	ErrUnknownType      = errors.New("unknown element type")
	ErrInvalidConnector = errors.New("invalid connector type")
)

type ElementType string

const (
	TypeRectangle     ElementType = "rectangle"
	TypeEllipse       ElementType = "ellipse"
	TypeDiamond       ElementType = "diamond"
	TypeText          ElementType = "text"
	TypeConnector     ElementType = "connector"
	TypeTriangle      ElementType = "triangle"
	TypeParallelogram ElementType = "parallelogram"
	TypeCylinder      ElementType = "cylinder"
	TypeDocument      ElementType = "document"
)

// ElementTypes lists every element type in tool order.
var ElementTypes = []ElementType{
	TypeRectangle, TypeEllipse, TypeDiamond, TypeText, TypeConnector,
	TypeTriangle, TypeParallelogram, TypeCylinder, TypeDocument,
}

type ConnectorType string

const (
	ConnectorStraight ConnectorType = "straight"
	ConnectorElbow    ConnectorType = "elbow"
	ConnectorCurve    ConnectorType = "curve"
)

func (c ConnectorType) Valid() bool {
	switch c {
	case ConnectorStraight, ConnectorElbow, ConnectorCurve:
		return true
	}
	return false
}

const (
	MinShapeSize     = 20.0
	MinConnectorSize = 2.0

	Transparent     = "transparent"
	PlaceholderText = "Text"
)

// Element is one shape, text or connector. Values are copied, never shared,
// so a snapshot cannot be changed through an element taken from it.
type Element struct {
	ID       string      `json:"id"`
	Type     ElementType `json:"type"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Rotation float64     `json:"rotation"`

	Fill        string  `json:"fill"`
	Stroke      float64 `json:"stroke"`
	StrokeColor string  `json:"strokeColor"`
	TextColor   string  `json:"textColor"`
	FontSize    float64 `json:"fontSize"`
	FontWeight  string  `json:"fontWeight"`
	Text        string  `json:"text"`

	ConnectorType ConnectorType `json:"connectorType,omitempty"`
	FlipX         bool          `json:"flipX,omitempty"`
	FlipY         bool          `json:"flipY,omitempty"`
}

func (e Element) Bounds() geometry.Rect {
	return geometry.Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}

// Endpoints returns a connector's start and end in canvas space, honouring
// the flip flags recorded while it was drawn.
func (e Element) Endpoints() (start, end geometry.Point) {
	x1, x2 := e.X, e.X+e.Width
	y1, y2 := e.Y, e.Y+e.Height
	if e.FlipX {
		x1, x2 = x2, x1
	}
	if e.FlipY {
		y1, y2 = y2, y1
	}
	return geometry.Point{X: x1, Y: y1}, geometry.Point{X: x2, Y: y2}
}

// MinSize is the smallest width/height a resize may leave.
func (e Element) MinSize() float64 {
	return MinSizeFor(e.Type)
}

func MinSizeFor(t ElementType) float64 {
	if t == TypeConnector {
		return MinConnectorSize
	}
	return MinShapeSize
}

// typeDefaults is the closed default configuration of one element type.
type typeDefaults struct {
	width, height float64
	fill          string
	text          string
	connector     bool
}

func defaultsFor(t ElementType) (typeDefaults, error) {
	switch t {
	case TypeRectangle, TypeEllipse, TypeDiamond, TypeTriangle,
		TypeParallelogram, TypeCylinder, TypeDocument:
		return typeDefaults{width: 120, height: 80, fill: "#ffffff"}, nil
	case TypeText:
		return typeDefaults{width: 100, height: 30, fill: "#ffffff", text: PlaceholderText}, nil
	case TypeConnector:
		return typeDefaults{width: 120, height: 80, fill: Transparent, connector: true}, nil
	}
	return typeDefaults{}, fmt.Errorf("%w: %q", ErrUnknownType, t)
}

// New builds an element of type t at (x, y) with the type defaults, then
// applies props.
func New(id string, t ElementType, x, y float64, props Patch) (Element, error) {
	sp, err := defaultsFor(t)
	if err != nil {
		return Element{}, err
	}
	e := Element{
		ID:          id,
		Type:        t,
		X:           x,
		Y:           y,
		Width:       sp.width,
		Height:      sp.height,
		Fill:        sp.fill,
		Stroke:      2,
		StrokeColor: "#000000",
		TextColor:   "#000000",
		FontSize:    14,
		FontWeight:  "normal",
		Text:        sp.text,
	}
	if sp.connector {
		e.ConnectorType = ConnectorStraight
	}
	return props.Apply(e), nil
}

// Normalize checks an element decoded from outside the editor. It rejects
// unknown element and connector types, clamps negative sizes to zero and
// gives a connector without a style the straight one.
func Normalize(e Element) (Element, error) {
	if _, err := defaultsFor(e.Type); err != nil {
		return Element{}, err
	}
	if e.ConnectorType != "" && !e.ConnectorType.Valid() {
		return Element{}, fmt.Errorf("%w: %q", ErrInvalidConnector, e.ConnectorType)
	}
	if e.Type == TypeConnector && e.ConnectorType == "" {
		e.ConnectorType = ConnectorStraight
	}
	return Patch{}.Apply(e), nil
}

// IsPlaceholder reports whether text is empty or the default placeholder.
func IsPlaceholder(text string) bool {
	return text == "" || text == PlaceholderText
}
