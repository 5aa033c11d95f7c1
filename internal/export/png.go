package export

import (
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"

	"sketchflow/internal/diagram"
	"sketchflow/internal/geometry"
)

const arrowSize = 10.0

var (
	fontsOnce sync.Once
	fontsErr  error
	regular   *truetype.Font
	bold      *truetype.Font
)

func loadFonts() error {
	fontsOnce.Do(func() {
		if regular, fontsErr = truetype.Parse(gomono.TTF); fontsErr != nil {
			fontsErr = fmt.Errorf("parse font: %w", fontsErr)
			return
		}
		if bold, fontsErr = truetype.Parse(gomonobold.TTF); fontsErr != nil {
			fontsErr = fmt.Errorf("parse bold font: %w", fontsErr)
		}
	})
	return fontsErr
}

// PNG rasterizes doc in z-order and writes it as a PNG image.
func PNG(w io.Writer, doc diagram.Document, opts Options) error {
	opts = opts.withDefaults()
	frame, err := Frame(doc, opts.Padding)
	if err != nil {
		return err
	}
	if err := loadFonts(); err != nil {
		return err
	}

	width := int(math.Ceil(frame.Width * opts.Scale))
	height := int(math.Ceil(frame.Height * opts.Scale))
	dc := gg.NewContext(width, height)
	dc.SetHexColor(opts.Background)
	dc.Clear()
	dc.Scale(opts.Scale, opts.Scale)
	dc.Translate(-frame.X, -frame.Y)

	faces := map[string]font.Face{}
	for _, e := range doc {
		dc.Push()
		if e.Rotation != 0 {
			c := e.Bounds().Center()
			dc.RotateAbout(gg.Radians(e.Rotation), c.X, c.Y)
		}
		if e.Type == diagram.TypeConnector {
			drawConnector(dc, e)
		} else {
			drawShape(dc, e)
		}
		drawLabel(dc, e, faces)
		dc.Pop()
	}
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func drawShape(dc *gg.Context, e diagram.Element) {
	if e.Type == diagram.TypeText {
		if e.Fill != diagram.Transparent && e.Fill != "" {
			dc.DrawRectangle(e.X, e.Y, e.Width, e.Height)
			dc.SetHexColor(e.Fill)
			dc.Fill()
		}
		return
	}

	trace := func() {
		if e.Type == diagram.TypeEllipse {
			c := e.Bounds().Center()
			dc.DrawEllipse(c.X, c.Y, e.Width/2, e.Height/2)
			return
		}
		polygon(dc, Outline(e))
	}
	if e.Fill != diagram.Transparent && e.Fill != "" {
		trace()
		dc.SetHexColor(e.Fill)
		dc.Fill()
	}
	trace()
	stroke(dc, e)

	if e.Type == diagram.TypeCylinder {
		// lip of the top cap
		lip := math.Min(e.Height*0.15, 12)
		dc.DrawEllipse(e.X+e.Width/2, e.Y+lip, e.Width/2, lip)
		stroke(dc, e)
	}
}

func drawConnector(dc *gg.Context, e diagram.Element) {
	start, end := e.Endpoints()
	var from geometry.Point
	switch e.ConnectorType {
	case diagram.ConnectorCurve:
		c1, c2 := curveControls(start, end)
		dc.MoveTo(start.X, start.Y)
		dc.CubicTo(c1.X, c1.Y, c2.X, c2.Y, end.X, end.Y)
		from = c2
	default:
		path := ConnectorPath(e)
		dc.MoveTo(path[0].X, path[0].Y)
		for _, p := range path[1:] {
			dc.LineTo(p.X, p.Y)
		}
		from = path[len(path)-2]
	}
	stroke(dc, e)
	arrowHead(dc, e, from, end)
}

func arrowHead(dc *gg.Context, e diagram.Element, from, tip geometry.Point) {
	dx, dy := tip.X-from.X, tip.Y-from.Y
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}
	dx, dy = dx/length, dy/length
	size := arrowSize + e.Stroke
	dc.MoveTo(tip.X, tip.Y)
	dc.LineTo(tip.X-size*dx+size*dy*0.5, tip.Y-size*dy-size*dx*0.5)
	dc.LineTo(tip.X-size*dx-size*dy*0.5, tip.Y-size*dy+size*dx*0.5)
	dc.ClosePath()
	dc.SetHexColor(strokeColor(e))
	dc.Fill()
}

func drawLabel(dc *gg.Context, e diagram.Element, faces map[string]font.Face) {
	if e.Text == "" {
		return
	}
	dc.SetFontFace(face(faces, e))
	dc.SetHexColor(textColor(e))
	c := e.Bounds().Center()
	wrap := math.Max(e.Width-8, e.FontSize)
	dc.DrawStringWrapped(e.Text, c.X, c.Y, 0.5, 0.5, wrap, 1.2, gg.AlignCenter)
}

func face(cache map[string]font.Face, e diagram.Element) font.Face {
	size := e.FontSize
	if size <= 0 {
		size = 14
	}
	f, weight := regular, "normal"
	if e.FontWeight == "bold" {
		f, weight = bold, "bold"
	}
	key := fmt.Sprintf("%s-%g", weight, size)
	if fc, ok := cache[key]; ok {
		return fc
	}
	fc := truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	cache[key] = fc
	return fc
}

func polygon(dc *gg.Context, pts []geometry.Point) {
	if len(pts) == 0 {
		return
	}
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.ClosePath()
}

func stroke(dc *gg.Context, e diagram.Element) {
	w := e.Stroke
	if w <= 0 {
		w = 1
	}
	dc.SetLineWidth(w)
	dc.SetHexColor(strokeColor(e))
	dc.Stroke()
}

func strokeColor(e diagram.Element) string {
	if e.StrokeColor == "" {
		return "#000000"
	}
	return e.StrokeColor
}

func textColor(e diagram.Element) string {
	if e.TextColor == "" {
		return "#000000"
	}
	return e.TextColor
}
