// Package connectivity implements the copper connectivity collaborator of a
// board: it tracks the netted items, groups them into physically connected
// clusters per net, and derives ratsnest edges and unconnected counts.
//
// Items are considered joined when they share exact coordinates: a track
// endpoint on a pad position or another track endpoint with a common layer,
// a via at a shared point inside its span, or a zone outline containing the
// point on the zone's layer. This is a coordinate-graph model, not a full
// geometric overlap search.
package connectivity

import (
	"sort"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/pcb"
)

// Engine implements pcb.ConnectivityProvider.
type Engine struct {
	items map[pcb.Netted]struct{}

	dirty    bool
	clusters map[int][][]pcb.Netted
	ratsnest map[int][]pcb.RatsnestEdge
}

// New returns an empty engine ready to be injected into pcb.New.
func New() *Engine {
	return &Engine{
		items: make(map[pcb.Netted]struct{}),
		dirty: true,
	}
}

var _ pcb.ConnectivityProvider = (*Engine)(nil)

// Add registers a netted item; other kinds are ignored.
func (e *Engine) Add(item pcb.Item) {
	if n, ok := item.(pcb.Netted); ok && connectable(n) {
		e.items[n] = struct{}{}
		e.dirty = true
	}
	// Footprints register through their pads.
	if fp, ok := item.(*pcb.Footprint); ok {
		for _, p := range fp.Pads() {
			e.items[p] = struct{}{}
		}
		e.dirty = true
	}
}

// Remove unregisters a netted item.
func (e *Engine) Remove(item pcb.Item) {
	if n, ok := item.(pcb.Netted); ok {
		delete(e.items, n)
		e.dirty = true
	}
	if fp, ok := item.(*pcb.Footprint); ok {
		for _, p := range fp.Pads() {
			delete(e.items, p)
		}
		e.dirty = true
	}
}

func connectable(n pcb.Netted) bool {
	switch n.(type) {
	case *pcb.Pad, *pcb.Track, *pcb.Via, *pcb.Zone:
		return true
	default:
		return false
	}
}

// Build discards all state and reloads from the board.
func (e *Engine) Build(b *pcb.Board) {
	e.items = make(map[pcb.Netted]struct{})
	for _, p := range b.Pads() {
		e.items[p] = struct{}{}
	}
	for _, t := range b.Tracks() {
		e.items[t.(pcb.Netted)] = struct{}{}
	}
	for _, z := range b.Zones() {
		if z.IsOnCopperLayer() && !z.IsKeepout() {
			e.items[z] = struct{}{}
		}
	}
	e.dirty = true
}

// RecalculateRatsnest recomputes clusters and unrouted edges for every net.
func (e *Engine) RecalculateRatsnest() {
	e.clusters = make(map[int][][]pcb.Netted)
	e.ratsnest = make(map[int][]pcb.RatsnestEdge)

	byNet := make(map[int][]pcb.Netted)
	for n := range e.items {
		if n.NetCode() == pcb.UnconnectedNetCode {
			continue
		}
		byNet[n.NetCode()] = append(byNet[n.NetCode()], n)
	}

	for net, members := range byNet {
		clusters := clusterNet(members)
		e.clusters[net] = clusters
		e.ratsnest[net] = ratsnestEdges(clusters)
	}
	e.dirty = false
}

func (e *Engine) refresh() {
	if e.dirty {
		e.RecalculateRatsnest()
	}
}

// clusterNet groups one net's items into connected clusters with a
// union-find over shared coordinates.
func clusterNet(members []pcb.Netted) [][]pcb.Netted {
	// Deterministic base order: pads first, then by position.
	sort.SliceStable(members, func(i, j int) bool {
		pi, pj := members[i].Position(), members[j].Position()
		if pi.X != pj.X {
			return pi.X < pj.X
		}
		return pi.Y < pj.Y
	})

	parent := make([]int, len(members))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(i, j int) {
		ri, rj := find(i), find(j)
		if ri != rj {
			parent[rj] = ri
		}
	}

	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			if touches(members[i], members[j]) {
				union(i, j)
			}
		}
	}

	groups := make(map[int][]pcb.Netted)
	var roots []int
	for i := range members {
		r := find(i)
		if _, seen := groups[r]; !seen {
			roots = append(roots, r)
		}
		groups[r] = append(groups[r], members[i])
	}
	out := make([][]pcb.Netted, 0, len(groups))
	for _, r := range roots {
		out = append(out, groups[r])
	}
	return out
}

// touches reports whether two same-net items share a connection point.
func touches(a, b pcb.Netted) bool {
	if za, ok := a.(*pcb.Zone); ok {
		return zoneTouches(za, b)
	}
	if zb, ok := b.(*pcb.Zone); ok {
		return zoneTouches(zb, a)
	}

	la, lb := itemLayers(a), itemLayers(b)
	if !la.Intersect(lb).Any() {
		return false
	}
	for _, pa := range itemPoints(a) {
		for _, pb := range itemPoints(b) {
			if pa == pb {
				return true
			}
		}
	}
	// Track ends landing inside a pad area also connect.
	if pad, ok := a.(*pcb.Pad); ok {
		return padCovers(pad, b)
	}
	if pad, ok := b.(*pcb.Pad); ok {
		return padCovers(pad, a)
	}
	return false
}

func padCovers(pad *pcb.Pad, other pcb.Netted) bool {
	for _, p := range itemPoints(other) {
		if pad.HitTest(p) {
			return true
		}
	}
	return false
}

func zoneTouches(z *pcb.Zone, other pcb.Netted) bool {
	lset := itemLayers(other)
	if !lset.Contains(z.Layer()) {
		return false
	}
	for _, p := range itemPoints(other) {
		if z.HitTestFilledArea(p) {
			return true
		}
	}
	return false
}

func itemLayers(n pcb.Netted) pcb.LayerSet {
	switch it := n.(type) {
	case *pcb.Pad:
		return it.Layers()
	case pcb.TrackLike:
		return it.LayerSet()
	case *pcb.Zone:
		return pcb.NewLayerSet(it.Layer())
	default:
		return 0
	}
}

func itemPoints(n pcb.Netted) []geometry.Point {
	switch it := n.(type) {
	case *pcb.Pad:
		return []geometry.Point{it.Position()}
	case *pcb.Via:
		return []geometry.Point{it.Position()}
	case pcb.TrackLike:
		return []geometry.Point{it.Start(), it.End()}
	default:
		return nil
	}
}

// ratsnestEdges links consecutive clusters through their anchor pads.
// Clusters without a pad anchor on nearest track endpoints are skipped;
// an edge per missing link keeps UnconnectedCount consistent.
func ratsnestEdges(clusters [][]pcb.Netted) []pcb.RatsnestEdge {
	var anchors []*pcb.Pad
	for _, c := range clusters {
		for _, n := range c {
			if p, ok := n.(*pcb.Pad); ok {
				anchors = append(anchors, p)
				break
			}
		}
	}
	var edges []pcb.RatsnestEdge
	for i := 1; i < len(anchors); i++ {
		edges = append(edges, pcb.RatsnestEdge{From: anchors[i-1], To: anchors[i]})
	}
	return edges
}

// PadCount returns the number of registered pads.
func (e *Engine) PadCount() int {
	n := 0
	for it := range e.items {
		if _, ok := it.(*pcb.Pad); ok {
			n++
		}
	}
	return n
}

// PadCountInNet returns the number of registered pads on netCode.
func (e *Engine) PadCountInNet(netCode int) int {
	n := 0
	for it := range e.items {
		if p, ok := it.(*pcb.Pad); ok && p.NetCode() == netCode {
			n++
		}
	}
	return n
}

// PadList returns the registered pads sorted by net code, then position.
func (e *Engine) PadList() []*pcb.Pad {
	var pads []*pcb.Pad
	for it := range e.items {
		if p, ok := it.(*pcb.Pad); ok {
			pads = append(pads, p)
		}
	}
	sort.SliceStable(pads, func(i, j int) bool {
		if pads[i].NetCode() != pads[j].NetCode() {
			return pads[i].NetCode() < pads[j].NetCode()
		}
		pi, pj := pads[i].Position(), pads[j].Position()
		if pi.X != pj.X {
			return pi.X < pj.X
		}
		return pi.Y < pj.Y
	})
	return pads
}

// UnconnectedCount returns the number of missing connections: for every net
// with n clusters, n-1 links are still unrouted.
func (e *Engine) UnconnectedCount() int {
	e.refresh()
	n := 0
	for _, clusters := range e.clusters {
		if len(clusters) > 1 {
			n += len(clusters) - 1
		}
	}
	return n
}

// RatsnestForNet returns the unrouted edges of one net.
func (e *Engine) RatsnestForNet(netCode int) []pcb.RatsnestEdge {
	e.refresh()
	return e.ratsnest[netCode]
}

// NetItems returns the registered items of a net, optionally filtered by
// kind, in deterministic position order.
func (e *Engine) NetItems(netCode int, kinds ...pcb.Kind) []pcb.Item {
	want := make(map[pcb.Kind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	var out []pcb.Item
	for it := range e.items {
		if it.NetCode() != netCode {
			continue
		}
		if len(kinds) > 0 && !want[it.Kind()] {
			continue
		}
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Position(), out[j].Position()
		if pi.X != pj.X {
			return pi.X < pj.X
		}
		if pi.Y != pj.Y {
			return pi.Y < pj.Y
		}
		return out[i].Kind() < out[j].Kind()
	})
	return out
}
