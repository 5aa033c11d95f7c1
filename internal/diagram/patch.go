package diagram

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	X        *float64
	Y        *float64
	Width    *float64
	Height   *float64
	Rotation *float64

	Fill        *string
	Stroke      *float64
	StrokeColor *string
	TextColor   *string
	FontSize    *float64
	FontWeight  *string
	Text        *string

	ConnectorType *ConnectorType
	FlipX         *bool
	FlipY         *bool
}

func Ptr[T any](v T) *T { return &v }

// Position is a patch that only moves an element.
func Position(x, y float64) Patch {
	return Patch{X: &x, Y: &y}
}

// Frame is a patch that moves and sizes an element.
func Frame(x, y, w, h float64) Patch {
	return Patch{X: &x, Y: &y, Width: &w, Height: &h}
}

func (p Patch) Empty() bool {
	return p == Patch{}
}

// Apply returns e with the patch applied. The id and type are immutable.
func (p Patch) Apply(e Element) Element {
	setF(&e.X, p.X)
	setF(&e.Y, p.Y)
	setF(&e.Width, p.Width)
	setF(&e.Height, p.Height)
	setF(&e.Rotation, p.Rotation)
	setS(&e.Fill, p.Fill)
	setF(&e.Stroke, p.Stroke)
	setS(&e.StrokeColor, p.StrokeColor)
	setS(&e.TextColor, p.TextColor)
	setF(&e.FontSize, p.FontSize)
	setS(&e.FontWeight, p.FontWeight)
	setS(&e.Text, p.Text)
	if p.ConnectorType != nil {
		e.ConnectorType = *p.ConnectorType
	}
	if p.FlipX != nil {
		e.FlipX = *p.FlipX
	}
	if p.FlipY != nil {
		e.FlipY = *p.FlipY
	}
	if e.Width < 0 {
		e.Width = 0
	}
	if e.Height < 0 {
		e.Height = 0
	}
	return e
}

func setF(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setS(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
