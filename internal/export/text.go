package export

import (
	"bufio"
	"io"
	"math"
	"strings"

	"sketchflow/internal/diagram"
	"sketchflow/internal/geometry"
)

// Text writes doc as box-drawing characters, one terminal cell per
// CellWidth x CellHeight canvas units.
func Text(w io.Writer, doc diagram.Document, opts Options) error {
	opts = opts.withDefaults()
	frame, err := Frame(doc, opts.Padding)
	if err != nil {
		return err
	}
	view := geometry.NewViewport()
	view.Pan = geometry.Point{X: -frame.X, Y: -frame.Y}
	g := NewGrid(
		int(math.Ceil(frame.Width/CellWidth)),
		int(math.Ceil(frame.Height/CellHeight)),
		view,
	)
	g.Draw(doc)

	bw := bufio.NewWriter(w)
	for _, line := range g.Lines() {
		bw.WriteString(strings.TrimRight(line, " "))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
