package pcb

import "github.com/OpenTraceLab/OpenTraceBoard/pkg/geometry"

// TrackLike is the common surface of copper tracks and vias, the items the
// trace topology walks. A via reports its position for both endpoints.
type TrackLike interface {
	Netted
	LayerSet() LayerSet
	Start() geometry.Point
	End() geometry.Point
	Width() int
	Length() float64
	IsLocked() bool
}

// otherEnd returns the endpoint of t that is not at p. Vias return their
// single position.
func otherEnd(t TrackLike, p geometry.Point) geometry.Point {
	if t.Start() == p {
		return t.End()
	}
	return t.Start()
}

// hitsEndpoint reports whether p coincides with either endpoint of t on a
// layer shared with lset.
func hitsEndpoint(t TrackLike, p geometry.Point, lset LayerSet) bool {
	if !t.LayerSet().Intersect(lset).Any() {
		return false
	}
	return t.Start() == p || t.End() == p
}

// Track is a straight copper segment on a single layer.
type Track struct {
	itemBase
	start, end geometry.Point
	width      int
	layer      LayerID
	netCode    int
	locked     bool
}

// NewTrack builds a segment from start to end on the given copper layer.
func NewTrack(start, end geometry.Point, width int, layer LayerID, netCode int) *Track {
	return &Track{start: start, end: end, width: width, layer: layer, netCode: netCode}
}

func (t *Track) Kind() Kind { return KindTrack }

// Position returns the start point; tracks have no single anchor.
func (t *Track) Position() geometry.Point { return t.start }

func (t *Track) Start() geometry.Point     { return t.start }
func (t *Track) End() geometry.Point       { return t.end }
func (t *Track) SetStart(p geometry.Point) { t.start = p }
func (t *Track) SetEnd(p geometry.Point)   { t.end = p }

func (t *Track) Width() int         { return t.width }
func (t *Track) SetWidth(w int)     { t.width = w }
func (t *Track) Layer() LayerID     { return t.layer }
func (t *Track) SetLayer(l LayerID) { t.layer = l }

// LayerSet returns the single copper layer the segment lives on.
func (t *Track) LayerSet() LayerSet { return NewLayerSet(t.layer) }

func (t *Track) NetCode() int        { return t.netCode }
func (t *Track) SetNetCode(code int) { t.netCode = code }

func (t *Track) IsLocked() bool     { return t.locked }
func (t *Track) SetLocked(lk bool)  { t.locked = lk }

// Length returns the segment length in internal units.
func (t *Track) Length() float64 {
	return geometry.Distance(t.start, t.end)
}

// BoundingBox covers the segment including its width.
func (t *Track) BoundingBox() geometry.Rect {
	r := geometry.NewRect().ExpandPoint(t.start).ExpandPoint(t.end)
	return r.Inflate(t.width / 2)
}

// Clone returns a detached copy.
func (t *Track) Clone() *Track {
	c := *t
	c.board = nil
	return &c
}

// Via is a plated hole connecting a span of copper layers.
type Via struct {
	itemBase
	position geometry.Point
	diameter int
	drill    int
	top      LayerID
	bottom   LayerID
	netCode  int
	locked   bool
}

// NewVia builds a via at pos spanning the copper layers top..bottom.
func NewVia(pos geometry.Point, diameter, drill int, top, bottom LayerID, netCode int) *Via {
	if top > bottom {
		top, bottom = bottom, top
	}
	return &Via{position: pos, diameter: diameter, drill: drill, top: top, bottom: bottom, netCode: netCode}
}

// NewThroughVia builds a via spanning every copper layer.
func NewThroughVia(pos geometry.Point, diameter, drill, netCode int) *Via {
	return NewVia(pos, diameter, drill, FCu, BCu, netCode)
}

func (v *Via) Kind() Kind                { return KindVia }
func (v *Via) Position() geometry.Point  { return v.position }
func (v *Via) SetPosition(p geometry.Point) { v.position = p }

// Start returns the via position; vias are zero-length track items.
func (v *Via) Start() geometry.Point { return v.position }

// End returns the via position.
func (v *Via) End() geometry.Point { return v.position }

func (v *Via) Width() int    { return v.diameter }
func (v *Via) Drill() int    { return v.drill }
func (v *Via) Length() float64 { return 0 }

// TopLayer returns the uppermost copper layer the via reaches.
func (v *Via) TopLayer() LayerID { return v.top }

// BottomLayer returns the lowermost copper layer the via reaches.
func (v *Via) BottomLayer() LayerID { return v.bottom }

// LayerSet returns every copper layer in the via's span.
func (v *Via) LayerSet() LayerSet { return CopperRange(v.top, v.bottom) }

// IsThrough reports whether the via spans the full stackup.
func (v *Via) IsThrough() bool { return v.top == FCu && v.bottom == BCu }

func (v *Via) NetCode() int        { return v.netCode }
func (v *Via) SetNetCode(code int) { v.netCode = code }

func (v *Via) IsLocked() bool    { return v.locked }
func (v *Via) SetLocked(lk bool) { v.locked = lk }

func (v *Via) BoundingBox() geometry.Rect {
	return geometry.RectAt(v.position, geometry.Size{W: v.diameter, H: v.diameter})
}

// Clone returns a detached copy.
func (v *Via) Clone() *Via {
	c := *v
	c.board = nil
	return &c
}

// ZoneFillSegment is a legacy zone fill stroke. It behaves like a track but
// lives in its own board list and never joins the trace topology.
type ZoneFillSegment struct {
	Track
}

// NewZoneFillSegment builds a fill stroke from start to end.
func NewZoneFillSegment(start, end geometry.Point, width int, layer LayerID, netCode int) *ZoneFillSegment {
	return &ZoneFillSegment{Track: *NewTrack(start, end, width, layer, netCode)}
}

func (z *ZoneFillSegment) Kind() Kind { return KindZoneFill }
