package pcb

import "github.com/OpenTraceLab/OpenTraceBoard/pkg/geometry"

// HatchStyle selects how a zone outline is displayed.
type HatchStyle int

const (
	HatchNone HatchStyle = iota
	HatchEdge
	HatchFull
)

// Zone is a copper pour or keepout area bounded by a polygon outline.
type Zone struct {
	itemBase
	netCode int
	// netName is the net name recorded in the board file. It survives
	// net renumbering and lets the zone re-resolve its net code.
	netName  string
	layer    LayerID
	outline  geometry.Polygon
	fills    []geometry.Polygon
	keepout  bool
	hatch    HatchStyle
	priority int
	uuid     string
}

// NewZone builds an unfilled zone on the given layer.
func NewZone(netCode int, layer LayerID, outline geometry.Polygon) *Zone {
	return &Zone{netCode: netCode, layer: layer, outline: outline, hatch: HatchEdge}
}

func (z *Zone) Kind() Kind { return KindZone }

func (z *Zone) NetCode() int        { return z.netCode }
func (z *Zone) SetNetCode(code int) { z.netCode = code }

// NetName returns the saved net name used to re-resolve the net code after
// netlist changes.
func (z *Zone) NetName() string     { return z.netName }
func (z *Zone) SetNetName(n string) { z.netName = n }

func (z *Zone) Layer() LayerID     { return z.layer }
func (z *Zone) SetLayer(l LayerID) { z.layer = l }

// IsOnCopperLayer reports whether the zone pours copper.
func (z *Zone) IsOnCopperLayer() bool { return z.layer.IsCopper() }

func (z *Zone) IsKeepout() bool    { return z.keepout }
func (z *Zone) SetKeepout(k bool)  { z.keepout = k }
func (z *Zone) Hatch() HatchStyle  { return z.hatch }
func (z *Zone) SetHatch(h HatchStyle) { z.hatch = h }
func (z *Zone) Priority() int      { return z.priority }
func (z *Zone) SetPriority(p int)  { z.priority = p }
func (z *Zone) UUID() string       { return z.uuid }
func (z *Zone) SetUUID(u string)   { z.uuid = u }

// Outline returns the zone boundary polygon.
func (z *Zone) Outline() geometry.Polygon { return z.outline }

// SetOutline replaces the boundary polygon and discards stale fills.
func (z *Zone) SetOutline(pg geometry.Polygon) {
	z.outline = pg
	z.fills = nil
}

// AppendCorner adds a corner to the boundary polygon.
func (z *Zone) AppendCorner(p geometry.Point) {
	z.outline = append(z.outline, p)
	z.fills = nil
}

// CornerCount returns the number of outline corners.
func (z *Zone) CornerCount() int { return len(z.outline) }

// Fills returns the filled copper polygons, empty when unfilled.
func (z *Zone) Fills() []geometry.Polygon { return z.fills }

// SetFills replaces the filled polygons.
func (z *Zone) SetFills(fills []geometry.Polygon) { z.fills = fills }

// HitTestFilledArea reports whether p lies inside the zone's filled copper.
// An unfilled zone tests against its outline.
func (z *Zone) HitTestFilledArea(p geometry.Point) bool {
	if len(z.fills) == 0 {
		return z.outline.Contains(p)
	}
	for _, f := range z.fills {
		if f.Contains(p) {
			return true
		}
	}
	return false
}

// Position returns the first outline corner.
func (z *Zone) Position() geometry.Point {
	if len(z.outline) == 0 {
		return geometry.Point{}
	}
	return z.outline[0]
}

func (z *Zone) BoundingBox() geometry.Rect {
	return z.outline.BoundingBox()
}

// Clone returns a detached copy including outline and fills.
func (z *Zone) Clone() *Zone {
	c := *z
	c.board = nil
	c.outline = append(geometry.Polygon(nil), z.outline...)
	c.fills = nil
	for _, f := range z.fills {
		c.fills = append(c.fills, append(geometry.Polygon(nil), f...))
	}
	return &c
}
