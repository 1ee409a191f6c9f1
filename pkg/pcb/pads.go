package pcb

import (
	"sort"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geometry"
)

// GetPad returns the first pad whose copper covers pos on a layer shared
// with lset, scanning footprints in board order. An empty lset means all
// copper layers.
func (b *Board) GetPad(pos geometry.Point, lset LayerSet) *Pad {
	if !lset.Any() {
		lset = AllCopper()
	}
	for _, fp := range b.footprints {
		if p := fp.PadAt(pos, lset); p != nil {
			return p
		}
	}
	return nil
}

// GetPadAtTrackEnd returns the pad under the given endpoint of a track
// item, restricted to the item's layers.
func (b *Board) GetPadAtTrackEnd(t TrackLike, end geometry.Point) *Pad {
	return b.GetPad(end, t.LayerSet())
}

// GetPadFast returns a pad exactly at pos on a layer shared with lset. It
// matches pad positions, not pad areas, which is enough for track ends that
// land on pad centres.
func (b *Board) GetPadFast(pos geometry.Point, lset LayerSet) *Pad {
	for _, fp := range b.footprints {
		for _, p := range fp.pads {
			if p.position == pos && p.layers.Intersect(lset).Any() {
				return p
			}
		}
	}
	return nil
}

// SortPadsByXY orders pads by X then Y, the order PadInSortedList expects.
func SortPadsByXY(pads []*Pad) {
	sort.SliceStable(pads, func(i, j int) bool {
		a, b := pads[i].position, pads[j].position
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
}

// SortedPads returns every board pad ordered by X then Y. With a
// non-negative netCode, only pads of that net are returned.
func (b *Board) SortedPads(netCode int) []*Pad {
	var pads []*Pad
	for _, fp := range b.footprints {
		for _, p := range fp.pads {
			if netCode < 0 || p.netCode == netCode {
				pads = append(pads, p)
			}
		}
	}
	SortPadsByXY(pads)
	return pads
}

// PadInSortedList finds a pad exactly at pos on a layer shared with lset in
// a list ordered by SortPadsByXY. Binary search locates the coordinate,
// then same-position pads are scanned linearly for a layer match.
func PadInSortedList(pads []*Pad, pos geometry.Point, lset LayerSet) *Pad {
	i := sort.Search(len(pads), func(i int) bool {
		p := pads[i].position
		if p.X != pos.X {
			return p.X > pos.X
		}
		return p.Y >= pos.Y
	})
	for ; i < len(pads) && pads[i].position == pos; i++ {
		if pads[i].layers.Intersect(lset).Any() {
			return pads[i]
		}
	}
	return nil
}

// PadDelete removes a pad from the board: it leaves the connectivity engine
// and its parent footprint.
func (b *Board) PadDelete(p *Pad) {
	b.conn.Remove(p)
	if fp := p.parent; fp != nil {
		fp.pads = removeItem(fp.pads, p)
	}
	p.parent = nil
	p.attach(nil)
}

// ViaAt returns the first via at pos whose span covers layer, or nil.
func (b *Board) ViaAt(pos geometry.Point, layer LayerID) *Via {
	for _, t := range b.tracks {
		v, ok := t.(*Via)
		if !ok {
			continue
		}
		if v.position == pos && v.LayerSet().Contains(layer) {
			return v
		}
	}
	return nil
}

// GetLockPoint returns the connectable item at pos on lset: a pad when one
// covers the position, otherwise a track segment with an endpoint there.
func (b *Board) GetLockPoint(pos geometry.Point, lset LayerSet) Item {
	if p := b.GetPad(pos, lset); p != nil {
		return p
	}
	for _, t := range b.tracks {
		if t.Kind() != KindTrack {
			continue
		}
		if hitsEndpoint(t, pos, lset) {
			return t
		}
	}
	return nil
}
