package pcb

import (
	"strings"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geometry"
)

// LibID names a footprint in a library, e.g. "Resistor_SMD:R_0603".
type LibID string

// Lib returns the library nickname before the colon.
func (id LibID) Lib() string {
	if i := strings.IndexByte(string(id), ':'); i >= 0 {
		return string(id)[:i]
	}
	return ""
}

// Item returns the footprint name after the colon.
func (id LibID) Item() string {
	if i := strings.IndexByte(string(id), ':'); i >= 0 {
		return string(id)[i+1:]
	}
	return string(id)
}

// Footprint is a placed component: an anchor position with owned pads and
// text items. Child positions are absolute and move with the footprint.
type Footprint struct {
	itemBase
	libID    LibID
	position geometry.Point
	angle    float64
	layer    LayerID
	locked   bool
	// path is the sheet path / unique identifier tying the footprint to
	// its schematic component.
	path string

	refText   *Text
	valueText *Text
	texts     []*Text
	pads      []*Pad
}

// NewFootprint builds an empty footprint at pos on the given layer.
func NewFootprint(libID LibID, pos geometry.Point, layer LayerID) *Footprint {
	fp := &Footprint{
		libID:    libID,
		position: pos,
		layer:    layer,
	}
	fp.refText = NewText("", pos, FSilkS)
	fp.valueText = NewText("", pos, FFab)
	return fp
}

func (f *Footprint) Kind() Kind { return KindFootprint }

func (f *Footprint) LibID() LibID       { return f.libID }
func (f *Footprint) SetLibID(id LibID)  { f.libID = id }
func (f *Footprint) Layer() LayerID     { return f.layer }
func (f *Footprint) SetLayer(l LayerID) { f.layer = l }
func (f *Footprint) IsLocked() bool     { return f.locked }
func (f *Footprint) SetLocked(lk bool)  { f.locked = lk }

// Path returns the schematic sheet path identifying this footprint.
func (f *Footprint) Path() string     { return f.path }
func (f *Footprint) SetPath(p string) { f.path = p }

// Reference returns the component reference designator, e.g. "R1".
func (f *Footprint) Reference() string { return f.refText.Text() }

// SetReference updates the reference designator text.
func (f *Footprint) SetReference(ref string) { f.refText.SetText(ref) }

// Value returns the component value text, e.g. "10k".
func (f *Footprint) Value() string { return f.valueText.Text() }

// SetValue updates the value text.
func (f *Footprint) SetValue(v string) { f.valueText.SetText(v) }

// ReferenceText returns the owned reference text item.
func (f *Footprint) ReferenceText() *Text { return f.refText }

// ValueText returns the owned value text item.
func (f *Footprint) ValueText() *Text { return f.valueText }

// Texts returns the extra graphic text items, excluding reference and value.
func (f *Footprint) Texts() []*Text { return f.texts }

// AddText attaches an extra graphic text item.
func (f *Footprint) AddText(t *Text) {
	t.attach(f.board)
	f.texts = append(f.texts, t)
}

// Pads returns the footprint's pads in declaration order.
func (f *Footprint) Pads() []*Pad { return f.pads }

// AddPad attaches a pad to the footprint.
func (f *Footprint) AddPad(p *Pad) {
	p.parent = f
	p.attach(f.board)
	f.pads = append(f.pads, p)
}

// FindPadByName returns the pad with the given number, or nil.
func (f *Footprint) FindPadByName(name string) *Pad {
	for _, p := range f.pads {
		if p.name == name {
			return p
		}
	}
	return nil
}

// PadAt returns the first pad covering pos on a layer shared with lset,
// or nil.
func (f *Footprint) PadAt(pos geometry.Point, lset LayerSet) *Pad {
	for _, p := range f.pads {
		if p.layers.Intersect(lset).Any() && p.HitTest(pos) {
			return p
		}
	}
	return nil
}

func (f *Footprint) Position() geometry.Point { return f.position }

// Angle returns the placement rotation in degrees.
func (f *Footprint) Angle() float64 { return f.angle }

// SetPosition moves the footprint anchor to pos, translating every owned
// pad and text by the same delta.
func (f *Footprint) SetPosition(pos geometry.Point) {
	delta := pos.Sub(f.position)
	f.Move(delta)
}

// Move translates the footprint and all its children by delta.
func (f *Footprint) Move(delta geometry.Point) {
	f.position = f.position.Add(delta)
	f.refText.SetPosition(f.refText.Position().Add(delta))
	f.valueText.SetPosition(f.valueText.Position().Add(delta))
	for _, t := range f.texts {
		t.SetPosition(t.Position().Add(delta))
	}
	for _, p := range f.pads {
		p.position = p.position.Add(delta)
	}
}

// SetAngle rotates the footprint to the given absolute angle in degrees,
// spinning pads and texts around the anchor.
func (f *Footprint) SetAngle(deg float64) {
	delta := deg - f.angle
	if delta == 0 {
		return
	}
	f.angle = deg
	rotate := func(p geometry.Point) geometry.Point {
		return geometry.RotateAbout(p, f.position, delta)
	}
	f.refText.SetPosition(rotate(f.refText.Position()))
	f.valueText.SetPosition(rotate(f.valueText.Position()))
	for _, t := range f.texts {
		t.SetPosition(rotate(t.Position()))
	}
	for _, p := range f.pads {
		p.position = rotate(p.position)
	}
}

// BoundingBox covers the anchor, pads and owned texts.
func (f *Footprint) BoundingBox() geometry.Rect {
	r := geometry.NewRect().ExpandPoint(f.position)
	for _, p := range f.pads {
		r = r.Merge(p.BoundingBox())
	}
	for _, t := range f.texts {
		r = r.Merge(t.BoundingBox())
	}
	if f.refText.IsVisible() {
		r = r.Merge(f.refText.BoundingBox())
	}
	if f.valueText.IsVisible() {
		r = r.Merge(f.valueText.BoundingBox())
	}
	return r
}

// Clone returns a detached deep copy, including pads and texts.
func (f *Footprint) Clone() *Footprint {
	c := &Footprint{
		libID:     f.libID,
		position:  f.position,
		angle:     f.angle,
		layer:     f.layer,
		locked:    f.locked,
		path:      f.path,
		refText:   f.refText.Clone(),
		valueText: f.valueText.Clone(),
	}
	for _, t := range f.texts {
		c.texts = append(c.texts, t.Clone())
	}
	for _, p := range f.pads {
		np := p.Clone()
		np.parent = c
		c.pads = append(c.pads, np)
	}
	return c
}

// CopyNetlistSettings transfers placement and pad net assignments from f to
// dst, matching pads by number. Used when a footprint is exchanged for a new
// library version.
func (f *Footprint) CopyNetlistSettings(dst *Footprint) {
	dst.SetPosition(f.position)
	dst.SetAngle(f.angle)
	dst.layer = f.layer
	dst.locked = f.locked
	for _, dp := range dst.pads {
		if sp := f.FindPadByName(dp.name); sp != nil {
			dp.netCode = sp.netCode
			dp.padToDie = sp.padToDie
		} else {
			dp.netCode = UnconnectedNetCode
		}
	}
}

// attach propagates board ownership to the children.
func (f *Footprint) attach(b *Board) {
	f.board = b
	f.refText.attach(b)
	f.valueText.attach(b)
	for _, t := range f.texts {
		t.attach(b)
	}
	for _, p := range f.pads {
		p.attach(b)
	}
}
