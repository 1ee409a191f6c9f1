package pcb

import "github.com/OpenTraceLab/OpenTraceBoard/pkg/geometry"

// Text is a text item, either free on the board or owned by a footprint
// (reference, value or extra graphic text).
type Text struct {
	itemBase
	text      string
	position  geometry.Point
	size      geometry.Size
	thickness int
	angle     float64
	visible   bool
	layer     LayerID
}

// NewText builds a visible text item at pos.
func NewText(text string, pos geometry.Point, layer LayerID) *Text {
	return &Text{
		text:     text,
		position: pos,
		size:     geometry.SizeMM(1, 1),
		visible:  true,
		layer:    layer,
	}
}

func (t *Text) Kind() Kind { return KindText }

func (t *Text) Text() string     { return t.text }
func (t *Text) SetText(s string) { t.text = s }

func (t *Text) Position() geometry.Point     { return t.position }
func (t *Text) SetPosition(p geometry.Point) { t.position = p }

func (t *Text) Size() geometry.Size     { return t.size }
func (t *Text) SetSize(s geometry.Size) { t.size = s }

func (t *Text) Thickness() int        { return t.thickness }
func (t *Text) SetThickness(th int)   { t.thickness = th }
func (t *Text) Angle() float64        { return t.angle }
func (t *Text) SetAngle(deg float64)  { t.angle = deg }
func (t *Text) IsVisible() bool       { return t.visible }
func (t *Text) SetVisible(v bool)     { t.visible = v }
func (t *Text) Layer() LayerID        { return t.layer }
func (t *Text) SetLayer(l LayerID)    { t.layer = l }

// CopyStyle copies the visual attributes of src without touching the text
// content or position. Used when a footprint is swapped and the new
// reference/value must keep the old look.
func (t *Text) CopyStyle(src *Text) {
	t.size = src.size
	t.thickness = src.thickness
	t.angle = src.angle
	t.visible = src.visible
	t.layer = src.layer
}

func (t *Text) BoundingBox() geometry.Rect {
	w := t.size.W * len(t.text)
	if w == 0 {
		w = t.size.W
	}
	return geometry.RectAt(t.position, geometry.Size{W: w, H: t.size.H})
}

// Clone returns a detached copy.
func (t *Text) Clone() *Text {
	c := *t
	c.board = nil
	return &c
}
