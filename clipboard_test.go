package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanClipboardText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Start", want: "Start"},
		{name: "line endings", in: "a\r\nb\rc", want: "a\nb\nc"},
		{name: "control characters", in: "a\x00b\tc", want: "ab    c"},
		{name: "rtf", in: `{\rtf1\ansi Hello\par World}`, want: "Hello\nWorld"},
		{name: "rtf escapes", in: `{\rtf1 a\{b\}c\\d}`, want: `a{b}c\d`},
		{name: "html", in: "<div>Tom &amp; Jerry &lt;3</div>", want: "Tom & Jerry <3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanClipboardText(tt.in))
		})
	}
}

func TestDecodeElements(t *testing.T) {
	m, _ := newTestModel(t)
	e := placeRect(t, m)

	text, err := encodeElements(m.store.Copy())
	require.NoError(t, err)
	elems, ok := decodeElements(text)
	require.True(t, ok)
	assert.Equal(t, e, elems[0])

	_, ok = decodeElements("just some words")
	assert.False(t, ok)
	_, ok = decodeElements(clipHeader + "not json")
	assert.False(t, ok)
	_, ok = decodeElements(clipHeader + "[]")
	assert.False(t, ok)
}

func TestPasteElements(t *testing.T) {
	m, _ := newTestModel(t)
	e := placeRect(t, m)

	m.pasteElements(m.store.Copy())
	doc := m.store.Document()
	require.Len(t, doc, 2)
	assert.NotEqual(t, e.ID, doc[1].ID)
	assert.Equal(t, e.X+pasteOffset, doc[1].X)
	assert.Equal(t, []string{doc[1].ID}, m.store.Selected())
	assert.Equal(t, "1 element pasted", m.status)
}

func TestPasteElements_NegativeSizeClamped(t *testing.T) {
	m, _ := newTestModel(t)

	elems, ok := decodeElements(clipHeader + `[{"type":"rectangle","width":-50,"height":-40}]`)
	require.True(t, ok)
	m.pasteElements(elems)

	doc := m.store.Document()
	require.Len(t, doc, 1)
	assert.Equal(t, 0.0, doc[0].Width)
	assert.Equal(t, 0.0, doc[0].Height)
}

func TestPasteText(t *testing.T) {
	m, _ := newTestModel(t)

	m.pasteText("first line\nsecond")
	doc := m.store.Document()
	require.Len(t, doc, 1)
	assert.Equal(t, "first line\nsecond", doc[0].Text)
	assert.Equal(t, 100.0, doc[0].Width)
	assert.Equal(t, 32.0, doc[0].Height)

	center := m.viewCenter()
	assert.InDelta(t, center.X, doc[0].X+doc[0].Width/2, 1e-9)
}
