package pcb

import (
	"fmt"
	"sort"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geometry"
)

// Config carries board-level settings that previously tended to live in
// globals: the page size used for default placement and the number of
// enabled copper layers.
type Config struct {
	// PageSize is the drawing sheet extent in internal units.
	PageSize geometry.Size
	// CopperLayers is the number of enabled copper layers, front and back
	// included. Zero means two.
	CopperLayers int
	// PolygonNormalizer, when set, repairs self-intersecting zone outlines
	// during NormalizeAreaPolygon instead of rejecting them.
	PolygonNormalizer geometry.Normalizer
}

// DefaultConfig returns an A4 sheet with two copper layers.
func DefaultConfig() Config {
	return Config{
		PageSize:     geometry.SizeMM(297, 210),
		CopperLayers: 2,
	}
}

// AddMode selects where a newly added item lands in its board list.
type AddMode int

const (
	// AddAppend places the item at the end of its list.
	AddAppend AddMode = iota
	// AddInsert places the item at the front, or for track items next to
	// related tracks of the same net.
	AddInsert
)

// Board is the document container: it owns nets, footprints, track items,
// zones, drawings and markers, and keeps its connectivity collaborator
// informed of every change. A Board is not safe for concurrent mutation;
// callers serialize writes.
type Board struct {
	cfg    Config
	layers [LayerCount]Layer
	conn   ConnectivityProvider
	nets   *netRegistry

	footprints []*Footprint
	tracks     []TrackLike
	zoneFills  []*ZoneFillSegment
	drawings   []*Drawing
	zones      []*Zone
	markers    []*Marker
}

// New builds an empty board. A nil connectivity provider is replaced with a
// no-op one.
func New(cfg Config, conn ConnectivityProvider) *Board {
	if cfg.CopperLayers == 0 {
		cfg.CopperLayers = 2
	}
	if conn == nil {
		conn = nopConnectivity{}
	}
	b := &Board{cfg: cfg, conn: conn}
	b.nets = newNetRegistry(b)
	for l := LayerID(0); l < LayerCount; l++ {
		b.layers[l] = Layer{Name: StandardLayerName(l), Type: LayerSignal}
	}
	return b
}

// Config returns the board settings.
func (b *Board) Config() Config { return b.cfg }

// Connectivity returns the connectivity collaborator.
func (b *Board) Connectivity() ConnectivityProvider { return b.conn }

// Item interface: the board is itself a visitable item.

func (b *Board) Kind() Kind                  { return KindBoard }
func (b *Board) Board() *Board               { return b }
func (b *Board) Position() geometry.Point    { return geometry.Point{} }
func (b *Board) BoundingBox() geometry.Rect  { return b.ComputeBoundingBox(false) }
func (b *Board) attach(*Board)               {}

// Add places item on the board, sets its parent, and notifies connectivity.
// Adding nil or an unknown kind panics: both are caller bugs.
func (b *Board) Add(item Item, mode AddMode) {
	if item == nil {
		panic("pcb: Add called with nil item")
	}
	switch it := item.(type) {
	case *NetInfo:
		b.nets.append(it)
	case *Marker:
		b.markers = append(b.markers, it)
	case *Zone:
		b.zones = append(b.zones, it)
	case *Track:
		b.insertTrack(it, mode)
	case *Via:
		b.insertTrack(it, mode)
	case *ZoneFillSegment:
		if mode == AddInsert {
			b.zoneFills = append([]*ZoneFillSegment{it}, b.zoneFills...)
		} else {
			b.zoneFills = append(b.zoneFills, it)
		}
	case *Footprint:
		if mode == AddInsert {
			b.footprints = append([]*Footprint{it}, b.footprints...)
		} else {
			b.footprints = append(b.footprints, it)
		}
	case *Drawing:
		if mode == AddInsert {
			b.drawings = append([]*Drawing{it}, b.drawings...)
		} else {
			b.drawings = append(b.drawings, it)
		}
	default:
		panic(fmt.Sprintf("pcb: Add does not handle %s items", item.Kind()))
	}
	item.attach(b)
	b.conn.Add(item)
}

// insertTrack places t in the track list. Insert mode keeps items of the
// same net adjacent so net-ordered scans stay cheap.
func (b *Board) insertTrack(t TrackLike, mode AddMode) {
	if mode == AddAppend {
		b.tracks = append(b.tracks, t)
		return
	}
	at := len(b.tracks)
	for i, other := range b.tracks {
		if other.NetCode() >= t.NetCode() {
			at = i
			break
		}
	}
	b.tracks = append(b.tracks, nil)
	copy(b.tracks[at+1:], b.tracks[at:])
	b.tracks[at] = t
}

// Remove detaches item from the board without destroying it; the caller
// keeps ownership, typically for an undo list. Removing nil panics.
func (b *Board) Remove(item Item) {
	if item == nil {
		panic("pcb: Remove called with nil item")
	}
	switch it := item.(type) {
	case *NetInfo:
		b.nets.remove(it)
	case *Marker:
		b.markers = removeItem(b.markers, it)
	case *Zone:
		b.zones = removeItem(b.zones, it)
	case *Track:
		b.tracks = removeItem(b.tracks, TrackLike(it))
	case *Via:
		b.tracks = removeItem(b.tracks, TrackLike(it))
	case *ZoneFillSegment:
		b.zoneFills = removeItem(b.zoneFills, it)
	case *Footprint:
		b.footprints = removeItem(b.footprints, it)
	case *Drawing:
		b.drawings = removeItem(b.drawings, it)
	default:
		panic(fmt.Sprintf("pcb: Remove does not handle %s items", item.Kind()))
	}
	b.conn.Remove(item)
	item.attach(nil)
}

// Delete removes item and releases it; the item must not be used afterwards.
func (b *Board) Delete(item Item) {
	b.Remove(item)
}

func removeItem[T comparable](list []T, item T) []T {
	for i, v := range list {
		if v == item {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// DeleteMarkers drops every marker from the board.
func (b *Board) DeleteMarkers() {
	for _, m := range b.markers {
		m.attach(nil)
	}
	b.markers = nil
}

// DeleteZoneOutlines drops every zone from the board.
func (b *Board) DeleteZoneOutlines() {
	for _, z := range b.zones {
		b.conn.Remove(z)
		z.attach(nil)
	}
	b.zones = nil
}

// Accessors. The returned slices are the board's own lists; callers must
// treat them as read-only.

func (b *Board) Footprints() []*Footprint        { return b.footprints }
func (b *Board) Tracks() []TrackLike             { return b.tracks }
func (b *Board) Zones() []*Zone                  { return b.zones }
func (b *Board) Markers() []*Marker              { return b.markers }
func (b *Board) Drawings() []*Drawing            { return b.drawings }
func (b *Board) ZoneFillSegments() []*ZoneFillSegment { return b.zoneFills }

// Nets returns the live nets in code order.
func (b *Board) Nets() []*NetInfo { return b.nets.all() }

// NetCount returns the number of nets, the unconnected net included.
func (b *Board) NetCount() int { return b.nets.count() }

// FindNet returns the net with the given code. Unknown codes return the
// orphaned sentinel, never nil.
func (b *Board) FindNet(code int) *NetInfo {
	if n := b.nets.byCode(code); n != nil {
		return n
	}
	return orphanedNet
}

// FindNetByName returns the net with the given name, or nil.
func (b *Board) FindNetByName(name string) *NetInfo {
	return b.nets.byName[name]
}

// SortedNetNames returns the non-empty net names, ordered by pad count
// (descending) when byPadCount is set, alphabetically otherwise.
func (b *Board) SortedNetNames(byPadCount bool) []string {
	nets := b.nets.all()
	names := make([]string, 0, len(nets))
	for _, n := range nets {
		if n.Name() != "" {
			names = append(names, n.Name())
		}
	}
	if byPadCount {
		sort.SliceStable(names, func(i, j int) bool {
			ni := b.FindNetByName(names[i])
			nj := b.FindNetByName(names[j])
			return b.conn.PadCountInNet(ni.Code()) > b.conn.PadCountInNet(nj.Code())
		})
	} else {
		sort.Strings(names)
	}
	return names
}

// BuildListOfNets revalidates item net assignments after bulk net changes:
// any item pointing at a removed net is reset to unconnected, and the
// connectivity engine reloads.
func (b *Board) BuildListOfNets() {
	fix := func(n Netted) {
		if b.nets.byCode(n.NetCode()) == nil {
			n.SetNetCode(UnconnectedNetCode)
		}
	}
	for _, fp := range b.footprints {
		for _, p := range fp.pads {
			fix(p)
		}
	}
	for _, t := range b.tracks {
		fix(t)
	}
	for _, z := range b.zones {
		fix(z)
	}
	for _, s := range b.zoneFills {
		fix(s)
	}
	b.conn.Build(b)
}

// FindFootprintByReference returns the footprint with the given reference
// designator, or nil.
func (b *Board) FindFootprintByReference(ref string) *Footprint {
	var found *Footprint
	b.Visit(func(item Item) SearchResult {
		fp := item.(*Footprint)
		if fp.Reference() == ref {
			found = fp
			return SearchQuit
		}
		return SearchContinue
	}, KindFootprint)
	return found
}

// FindFootprintByPath returns the footprint whose sheet path matches,
// case-insensitively, or nil.
func (b *Board) FindFootprintByPath(path string) *Footprint {
	for _, fp := range b.footprints {
		if strings.EqualFold(fp.Path(), path) {
			return fp
		}
	}
	return nil
}

// Pads returns every pad on the board in footprint order.
func (b *Board) Pads() []*Pad {
	var out []*Pad
	for _, fp := range b.footprints {
		out = append(out, fp.pads...)
	}
	return out
}

// SegmentCount returns the number of track items, vias included.
func (b *Board) SegmentCount() int { return len(b.tracks) }

// NodeCount returns the number of pads registered with connectivity.
func (b *Board) NodeCount() int { return b.conn.PadCount() }

// UnconnectedCount returns the number of missing connections.
func (b *Board) UnconnectedCount() int { return b.conn.UnconnectedCount() }

// IsEmpty reports whether the board holds no items at all.
func (b *Board) IsEmpty() bool {
	return len(b.footprints) == 0 && len(b.tracks) == 0 &&
		len(b.drawings) == 0 && len(b.zones) == 0 && len(b.zoneFills) == 0
}

// ComputeBoundingBox returns the extent of the board. With edgesOnly set,
// only board outline drawings on Edge.Cuts count.
func (b *Board) ComputeBoundingBox(edgesOnly bool) geometry.Rect {
	r := geometry.NewRect()
	for _, d := range b.drawings {
		if edgesOnly && !d.IsBoardEdge() {
			continue
		}
		r = r.Merge(d.BoundingBox())
	}
	if edgesOnly {
		return r
	}
	for _, fp := range b.footprints {
		r = r.Merge(fp.BoundingBox())
	}
	for _, t := range b.tracks {
		r = r.Merge(t.BoundingBox())
	}
	for _, s := range b.zoneFills {
		r = r.Merge(s.BoundingBox())
	}
	for _, z := range b.zones {
		r = r.Merge(z.BoundingBox())
	}
	return r
}

// BoardEdgesBoundingBox returns the extent of the Edge.Cuts outline alone.
func (b *Board) BoardEdgesBoundingBox() geometry.Rect {
	return b.ComputeBoundingBox(true)
}

// Move translates every item on the board by delta.
func (b *Board) Move(delta geometry.Point) {
	for _, fp := range b.footprints {
		fp.Move(delta)
	}
	for _, t := range b.tracks {
		switch it := t.(type) {
		case *Track:
			it.start = it.start.Add(delta)
			it.end = it.end.Add(delta)
		case *Via:
			it.position = it.position.Add(delta)
		}
	}
	for _, s := range b.zoneFills {
		s.start = s.start.Add(delta)
		s.end = s.end.Add(delta)
	}
	for _, d := range b.drawings {
		d.start = d.start.Add(delta)
		d.end = d.end.Add(delta)
		for i := range d.points {
			d.points[i] = d.points[i].Add(delta)
		}
	}
	for _, z := range b.zones {
		for i := range z.outline {
			z.outline[i] = z.outline[i].Add(delta)
		}
		for _, f := range z.fills {
			for i := range f {
				f[i] = f[i].Add(delta)
			}
		}
	}
	for _, m := range b.markers {
		m.position = m.position.Add(delta)
	}
}

// Duplicate clones item and optionally adds the clone to the board. Kinds
// that cannot be duplicated return nil.
func (b *Board) Duplicate(item Item, addToBoard bool) Item {
	var clone Item
	switch it := item.(type) {
	case *Track:
		clone = it.Clone()
	case *Via:
		clone = it.Clone()
	case *Footprint:
		clone = it.Clone()
	case *Drawing:
		clone = it.Clone()
	case *Zone:
		clone = it.Clone()
	case *Text:
		clone = it.Clone()
	default:
		return nil
	}
	if addToBoard {
		b.Add(clone, AddAppend)
	}
	return clone
}

// TracksInNet returns the track items (segments and vias) on a net, in
// board order.
func (b *Board) TracksInNet(netCode int) []TrackLike {
	var out []TrackLike
	for _, t := range b.tracks {
		if t.NetCode() == netCode {
			out = append(out, t)
		}
	}
	return out
}

// Layer metadata.

// LayerName returns the board-local name of l, falling back to the standard
// name for invalid IDs.
func (b *Board) LayerName(l LayerID) string {
	if !l.IsValid() {
		return StandardLayerName(l)
	}
	return b.layers[l].Name
}

// SetLayerName renames a copper layer. The name must be non-empty, carry no
// spaces and not collide with another enabled layer's name.
func (b *Board) SetLayerName(l LayerID, name string) error {
	if !l.IsCopper() {
		return fmt.Errorf("pcb: layer %s is not a copper layer", l)
	}
	if name == "" {
		return fmt.Errorf("pcb: empty layer name")
	}
	for _, r := range name {
		if r == ' ' {
			return fmt.Errorf("pcb: layer name %q contains a space", name)
		}
	}
	for other := LayerID(0); other < LayerCount; other++ {
		if other != l && b.IsLayerEnabled(other) && b.layers[other].Name == name {
			return fmt.Errorf("pcb: layer name %q already in use", name)
		}
	}
	b.layers[l].Name = name
	return nil
}

// LayerType returns the stackup role of a copper layer.
func (b *Board) LayerType(l LayerID) LayerType {
	if !l.IsCopper() {
		return LayerUndefined
	}
	return b.layers[l].Type
}

// SetLayerType assigns the stackup role of a copper layer.
func (b *Board) SetLayerType(l LayerID, t LayerType) error {
	if !l.IsCopper() {
		return fmt.Errorf("pcb: layer %s is not a copper layer", l)
	}
	b.layers[l].Type = t
	return nil
}

// LayerIDByName resolves a board-local or standard layer name.
func (b *Board) LayerIDByName(name string) (LayerID, bool) {
	for l := LayerID(0); l < LayerCount; l++ {
		if b.layers[l].Name == name {
			return l, true
		}
	}
	return LayerIDByStandardName(name)
}

// IsLayerEnabled reports whether l exists in the current stackup.
func (b *Board) IsLayerEnabled(l LayerID) bool {
	if l.IsCopper() {
		if l == FCu || l == BCu {
			return true
		}
		return int(l) < b.cfg.CopperLayers-1
	}
	return l.IsValid()
}

// EnabledLayers returns the set of layers in the current stackup.
func (b *Board) EnabledLayers() LayerSet {
	var s LayerSet
	for l := LayerID(0); l < LayerCount; l++ {
		if b.IsLayerEnabled(l) {
			s |= NewLayerSet(l)
		}
	}
	return s
}
