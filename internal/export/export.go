// Package export renders a document to a PNG image or to a text grid.
// Both crop to the bounding box of all elements plus padding.
package export

import (
	"errors"

	"sketchflow/internal/diagram"
	"sketchflow/internal/geometry"
)

var ErrEmpty = errors.New("nothing to export")

type Options struct {
	Padding    float64 // canvas units around the bounding box
	Scale      float64 // PNG pixels per canvas unit
	Background string
}

func (o Options) withDefaults() Options {
	if o.Padding <= 0 {
		o.Padding = 20
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.Background == "" {
		o.Background = "#ffffff"
	}
	return o
}

// Frame is the exported region: the document bounds grown by padding.
func Frame(doc diagram.Document, padding float64) (geometry.Rect, error) {
	r, ok := doc.Bounds()
	if !ok {
		return geometry.Rect{}, ErrEmpty
	}
	return r.Inset(-padding), nil
}
