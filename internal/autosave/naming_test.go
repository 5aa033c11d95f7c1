package autosave

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sketchflow/internal/diagram"
)

func TestDeriveName(t *testing.T) {
	tests := []struct {
		name string
		doc  diagram.Document
		want string
	}{
		{
			name: "empty",
			want: "Untitled - 2026-03-14 09:26:53",
		},
		{
			name: "placeholders and blanks are skipped",
			doc: diagram.Document{
				{Text: "Text", Y: 0},
				{Text: "   ", Y: 5},
				{Text: "Real", Y: 200},
			},
			want: "Real",
		},
		{
			name: "top-most wins",
			doc: diagram.Document{
				{Text: "Lower", X: 0, Y: 50},
				{Text: "Upper", X: 300, Y: 0},
			},
			want: "Upper",
		},
		{
			name: "same row breaks ties on x",
			doc: diagram.Document{
				{Text: "Right", X: 100, Y: 0},
				{Text: "Left", X: 0, Y: 8},
			},
			want: "Left",
		},
		{
			name: "first line only",
			doc:  diagram.Document{{Text: "  Title\nbody text"}},
			want: "Title",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveName(tt.doc, testNow))
		})
	}
}

func TestDeriveName_IgnoresOrder(t *testing.T) {
	a := diagram.Element{ID: "a", Text: "A", X: 20, Y: 0}
	b := diagram.Element{ID: "b", Text: "B", X: 10, Y: 8}
	c := diagram.Element{ID: "c", Text: "C", X: 0, Y: 16}
	orders := []diagram.Document{
		{a, b, c}, {a, c, b}, {b, a, c},
		{b, c, a}, {c, a, b}, {c, b, a},
	}
	for _, doc := range orders {
		assert.Equal(t, "B", DeriveName(doc, testNow), "order %s%s%s", doc[0].ID, doc[1].ID, doc[2].ID)
	}

	twin := diagram.Element{ID: "d", Text: "D", X: 10, Y: 8}
	assert.Equal(t, "B", DeriveName(diagram.Document{b, twin}, testNow))
	assert.Equal(t, "D", DeriveName(diagram.Document{twin, b}, testNow))
}

func TestRefreshName(t *testing.T) {
	name, auto := refreshName(SavedDiagram{Name: "Hello", AutoNamed: true}, "World")
	assert.Equal(t, "World", name)
	assert.True(t, auto)

	name, auto = refreshName(SavedDiagram{Name: "Mine"}, "World")
	assert.Equal(t, "Mine", name)
	assert.False(t, auto)

	name, _ = refreshName(SavedDiagram{Name: "Mine"}, "Untitled - 2026-03-14 09:26:53")
	assert.True(t, IsUntitled(name))
}

func TestDebouncer(t *testing.T) {
	var d Debouncer
	assert.False(t, d.Fire(0))

	first := d.Trigger()
	second := d.Trigger()
	assert.True(t, d.Pending())
	assert.False(t, d.Fire(first), "superseded timer must not write")
	assert.True(t, d.Fire(second))
	assert.False(t, d.Fire(second), "fires once")
	assert.False(t, d.Pending())

	d.Trigger()
	assert.True(t, d.Flush())
	assert.False(t, d.Flush())
}
