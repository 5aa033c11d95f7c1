package diagram

import (
	"encoding/json"
	"testing"

	"sketchflow/internal/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	tests := []struct {
		typ           ElementType
		width, height float64
		fill, text    string
	}{
		{TypeRectangle, 120, 80, "#ffffff", ""},
		{TypeDocument, 120, 80, "#ffffff", ""},
		{TypeText, 100, 30, "#ffffff", PlaceholderText},
		{TypeConnector, 120, 80, Transparent, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			e, err := New("id-1", tt.typ, 10, 20, Patch{})
			require.NoError(t, err)
			assert.Equal(t, tt.width, e.Width)
			assert.Equal(t, tt.height, e.Height)
			assert.Equal(t, tt.fill, e.Fill)
			assert.Equal(t, tt.text, e.Text)
			assert.Equal(t, 2.0, e.Stroke)
			assert.Equal(t, "#000000", e.StrokeColor)
			assert.Equal(t, 14.0, e.FontSize)
			assert.Equal(t, "normal", e.FontWeight)
		})
	}
}

func TestNew_EveryTypeHasDefaults(t *testing.T) {
	for _, typ := range ElementTypes {
		_, err := New("x", typ, 0, 0, Patch{})
		assert.NoError(t, err, typ)
	}
}

func TestNew_UnknownType(t *testing.T) {
	_, err := New("x", ElementType("hexagon"), 0, 0, Patch{})
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestNew_PropsOverride(t *testing.T) {
	e, err := New("x", TypeConnector, 0, 0, Patch{
		Width:         Ptr(0.0),
		ConnectorType: Ptr(ConnectorElbow),
		Text:          Ptr("label"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, e.Width)
	assert.Equal(t, ConnectorElbow, e.ConnectorType)
	assert.Equal(t, "label", e.Text)
}

func TestDocument_Immutability(t *testing.T) {
	a, _ := New("a", TypeRectangle, 0, 0, Patch{})
	b, _ := New("b", TypeEllipse, 50, 50, Patch{})
	doc := Document{a, b}

	moved := doc.Patch(map[string]Patch{"a": Position(5, 6)})
	assert.Equal(t, 0.0, doc[0].X)
	assert.Equal(t, 5.0, moved[0].X)

	removed := doc.Remove(map[string]bool{"b": true})
	assert.Len(t, doc, 2)
	assert.Len(t, removed, 1)

	appended := doc.Append(a)
	assert.Len(t, doc, 2)
	assert.Len(t, appended, 3)
}

func TestDocument_PatchMissingID(t *testing.T) {
	a, _ := New("a", TypeRectangle, 0, 0, Patch{})
	doc := Document{a}
	assert.True(t, doc.Equal(doc.Patch(map[string]Patch{"nope": Position(1, 1)})))
}

func TestDocument_HitTestTopMost(t *testing.T) {
	a, _ := New("a", TypeRectangle, 0, 0, Patch{})
	b, _ := New("b", TypeRectangle, 50, 50, Patch{})
	doc := Document{a, b}
	assert.Equal(t, 1, doc.HitTest(geometry.Point{X: 60, Y: 60}, 0))
	assert.Equal(t, 0, doc.HitTest(geometry.Point{X: 10, Y: 10}, 0))
	assert.Equal(t, -1, doc.HitTest(geometry.Point{X: 500, Y: 10}, 0))
}

func TestDocument_Bounds(t *testing.T) {
	_, ok := Document{}.Bounds()
	assert.False(t, ok)

	a, _ := New("a", TypeRectangle, -10, 5, Patch{})
	b, _ := New("b", TypeText, 200, 100, Patch{})
	r, ok := Document{a, b}.Bounds()
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X: -10, Y: 5, Width: 310, Height: 125}, r)
}

func TestDocument_JSONRoundTrip(t *testing.T) {
	a, _ := New("a", TypeConnector, 1.5, -2, Patch{FlipX: Ptr(true), ConnectorType: Ptr(ConnectorCurve)})
	b, _ := New("b", TypeText, 3, 4, Patch{Text: Ptr("multi\nline")})
	doc := Document{a, b}

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	var back Document
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, doc.Equal(back))
}

func TestElement_Endpoints(t *testing.T) {
	e := Element{Type: TypeConnector, X: 0, Y: 0, Width: 50, Height: 30, FlipX: true}
	start, end := e.Endpoints()
	assert.Equal(t, geometry.Point{X: 50, Y: 0}, start)
	assert.Equal(t, geometry.Point{X: 0, Y: 30}, end)
}

func TestPatch_ClampsNegativeSize(t *testing.T) {
	e := Frame(0, 0, -5, -1).Apply(Element{Type: TypeRectangle})
	assert.Equal(t, 0.0, e.Width)
	assert.Equal(t, 0.0, e.Height)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      Element
		want    Element
		wantErr error
	}{
		{
			name: "negative size clamped",
			in:   Element{ID: "a", Type: TypeRectangle, Width: -50, Height: -40},
			want: Element{ID: "a", Type: TypeRectangle},
		},
		{
			name: "connector style defaults to straight",
			in:   Element{ID: "a", Type: TypeConnector, Width: 10, Height: 10},
			want: Element{ID: "a", Type: TypeConnector, Width: 10, Height: 10, ConnectorType: ConnectorStraight},
		},
		{
			name:    "unknown type",
			in:      Element{ID: "a", Type: "hexagon"},
			wantErr: ErrUnknownType,
		},
		{
			name:    "unknown connector style",
			in:      Element{ID: "a", Type: TypeConnector, ConnectorType: "zigzag"},
			wantErr: ErrInvalidConnector,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocument_Sanitize(t *testing.T) {
	doc := Document{
		{ID: "a", Type: TypeRectangle, Width: -1, Height: 30},
		{ID: "b", Type: "hexagon"},
		{ID: "", Type: TypeText},
		{ID: "a", Type: TypeEllipse},
		{ID: "c", Type: TypeConnector, ConnectorType: "zigzag"},
		{ID: "d", Type: TypeText, Text: "ok"},
	}
	out, dropped := doc.Sanitize()
	assert.Equal(t, 4, dropped)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, 0.0, out[0].Width)
	assert.Equal(t, "d", out[1].ID)
	assert.Equal(t, -1.0, doc[0].Width, "receiver untouched")
}
