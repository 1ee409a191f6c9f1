package pcb

import "github.com/OpenTraceLab/OpenTraceBoard/pkg/geometry"

// PadShape is the pad outline shape keyword.
type PadShape int

const (
	PadCircle PadShape = iota
	PadRect
	PadOval
	PadRoundRect
)

func (s PadShape) String() string {
	switch s {
	case PadCircle:
		return "circle"
	case PadRect:
		return "rect"
	case PadOval:
		return "oval"
	case PadRoundRect:
		return "roundrect"
	default:
		return "unknown"
	}
}

// Pad is a footprint connection point. Positions are absolute board
// coordinates; the owning footprint keeps them in sync when it moves.
type Pad struct {
	itemBase
	parent   *Footprint
	name     string
	shape    PadShape
	position geometry.Point
	size     geometry.Size
	drill    int
	layers   LayerSet
	netCode  int
	// padToDie is the extra length from the pad to the die inside the
	// package, credited when measuring trace length.
	padToDie int
}

// NewPad builds a pad with the given number ("1", "A3", ...) at an absolute
// position.
func NewPad(name string, pos geometry.Point, size geometry.Size, layers LayerSet) *Pad {
	return &Pad{name: name, position: pos, size: size, layers: layers}
}

func (p *Pad) Kind() Kind { return KindPad }

// Name returns the pad number within its footprint.
func (p *Pad) Name() string     { return p.name }
func (p *Pad) SetName(n string) { p.name = n }

// Footprint returns the owning footprint, or nil for a detached pad.
func (p *Pad) Footprint() *Footprint { return p.parent }

func (p *Pad) Shape() PadShape       { return p.shape }
func (p *Pad) SetShape(s PadShape)   { p.shape = s }
func (p *Pad) Size() geometry.Size   { return p.size }
func (p *Pad) SetSize(s geometry.Size) { p.size = s }
func (p *Pad) Drill() int            { return p.drill }
func (p *Pad) SetDrill(d int)        { p.drill = d }

func (p *Pad) Position() geometry.Point      { return p.position }
func (p *Pad) SetPosition(pt geometry.Point) { p.position = pt }

// Layers returns the copper and technical layers the pad appears on.
func (p *Pad) Layers() LayerSet        { return p.layers }
func (p *Pad) SetLayers(ls LayerSet)   { p.layers = ls }

// IsOnLayer reports whether the pad reaches l.
func (p *Pad) IsOnLayer(l LayerID) bool { return p.layers.Contains(l) }

func (p *Pad) NetCode() int        { return p.netCode }
func (p *Pad) SetNetCode(code int) { p.netCode = code }

// NetName returns the name of the pad's net, or "" when detached from a
// board or unconnected.
func (p *Pad) NetName() string {
	if p.board == nil {
		return ""
	}
	return p.board.FindNet(p.netCode).Name()
}

// PadToDieLength returns the internal package length credited to traces
// ending at this pad.
func (p *Pad) PadToDieLength() int       { return p.padToDie }
func (p *Pad) SetPadToDieLength(l int)   { p.padToDie = l }

// HitTest reports whether pt falls inside the pad's copper, using the
// bounding extent of the pad shape.
func (p *Pad) HitTest(pt geometry.Point) bool {
	return geometry.RectAt(p.position, p.size).Contains(pt)
}

func (p *Pad) BoundingBox() geometry.Rect {
	return geometry.RectAt(p.position, p.size)
}

// Clone returns a detached copy without a parent footprint.
func (p *Pad) Clone() *Pad {
	c := *p
	c.board = nil
	c.parent = nil
	return &c
}
