package pcb

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/undo"
)

// visitedSet tracks which track items a topology walk has already claimed.
// Walks keep their own set, so concurrent read-only walks never interfere.
type visitedSet map[TrackLike]bool

// trackAt returns the first track item in list with an endpoint at pos on a
// layer shared with lset, for which skip returns false.
func trackAt(list []TrackLike, pos geometry.Point, lset LayerSet, skip func(TrackLike) bool) TrackLike {
	for _, t := range list {
		if skip != nil && skip(t) {
			continue
		}
		if hitsEndpoint(t, pos, lset) {
			return t
		}
	}
	return nil
}

// chainMarkedSegments follows a trace from pos, collecting segments into
// seen/chain until it reaches a pad, a junction of more than two segments,
// or runs out of copper. Vias along the way widen the layer set to their
// span.
func (b *Board) chainMarkedSegments(pos geometry.Point, lset LayerSet, seen visitedSet, chain *[]TrackLike) {
	for {
		// A pad ends the trace: anything beyond it is the pad's business.
		if b.GetPad(pos, lset) != nil {
			return
		}

		// A via changes layers without ending the trace.
		var via *Via
		if v := b.viaAtOnSet(pos, lset, seen); v != nil {
			via = v
			lset = v.LayerSet()
			seen[v] = true
			*chain = append(*chain, v)
		}

		// Exactly one unclaimed continuation keeps the chain alive;
		// more means a junction, fewer means the trace is exhausted.
		var next TrackLike
		count := 0
		for _, t := range b.tracks {
			if seen[t] || t == TrackLike(via) {
				continue
			}
			if hitsEndpoint(t, pos, lset) {
				next = t
				if count++; count > 1 {
					return
				}
			}
		}
		if next == nil {
			return
		}

		seen[next] = true
		*chain = append(*chain, next)
		pos = otherEnd(next, pos)
		lset = next.LayerSet()
	}
}

// viaAtOnSet returns an unclaimed via at pos whose span intersects lset.
func (b *Board) viaAtOnSet(pos geometry.Point, lset LayerSet, seen visitedSet) *Via {
	for _, t := range b.tracks {
		v, ok := t.(*Via)
		if !ok || seen[t] {
			continue
		}
		if v.position == pos && v.LayerSet().Intersect(lset).Any() {
			return v
		}
	}
	return nil
}

// TraceInfo is the result of MarkTrace: the full set of segments and vias
// that form one trace, with its electrical length.
type TraceInfo struct {
	// Segments holds the trace members; the seed is always included.
	Segments []TrackLike
	// Length is the copper length in internal units. Segments lying
	// entirely inside a pad contribute nothing.
	Length float64
	// PadToDieLength adds the in-package die lengths of the trace's
	// terminal pads, plus any stub distance from the last segment end to
	// the pad centre.
	PadToDieLength float64
}

// Count returns the number of trace members.
func (ti *TraceInfo) Count() int { return len(ti.Segments) }

// MarkTrace collects the complete trace containing seed: the maximal run of
// segments and vias connected end to end with no branches. When reorder is
// set, the board's track list is rearranged so the trace members are
// contiguous, starting at the seed's position in the list. Returns nil for
// a nil seed.
func (b *Board) MarkTrace(seed TrackLike, reorder bool) *TraceInfo {
	if seed == nil {
		return nil
	}
	seen := visitedSet{seed: true}
	chain := []TrackLike{seed}

	if via, ok := seed.(*Via); ok {
		// A via with three or more incident tracks is a trace of its
		// own: the tracks belong to branches, not to this trace.
		lset := via.LayerSet()
		var incident []TrackLike
		for _, t := range b.tracks {
			if t == seed {
				continue
			}
			if hitsEndpoint(t, via.position, lset) {
				incident = append(incident, t)
				if len(incident) >= 3 {
					return &TraceInfo{Segments: chain}
				}
			}
		}
		for _, t := range incident {
			if seen[t] {
				continue
			}
			seen[t] = true
			chain = append(chain, t)
			b.chainMarkedSegments(otherEnd(t, via.position), t.LayerSet(), seen, &chain)
		}
	} else {
		b.chainMarkedSegments(seed.Start(), seed.LayerSet(), seen, &chain)
		b.chainMarkedSegments(seed.End(), seed.LayerSet(), seen, &chain)
	}

	b.pruneBranchVias(seed, seen, &chain)

	info := &TraceInfo{Segments: chain}
	b.measureTrace(info)

	if reorder {
		b.reorderTrace(seen)
	}
	return info
}

// pruneBranchVias drops collected vias that actually belong to a diverging
// branch: a via stays on the trace only while every uncollected track at
// its position lies on a single layer.
func (b *Board) pruneBranchVias(seed TrackLike, seen visitedSet, chain *[]TrackLike) {
	for i := len(*chain) - 1; i >= 0; i-- {
		via, ok := (*chain)[i].(*Via)
		if !ok || TrackLike(via) == seed {
			continue
		}
		lset := via.LayerSet()
		first := trackAt(b.tracks, via.position, lset, func(t TrackLike) bool { return seen[t] })
		if first == nil {
			continue
		}
		layer := first.LayerSet()
		diverges := false
		for _, t := range b.tracks {
			if seen[t] || t == first {
				continue
			}
			if hitsEndpoint(t, via.position, lset) && t.LayerSet() != layer {
				diverges = true
				break
			}
		}
		if diverges {
			delete(seen, via)
			*chain = append((*chain)[:i], (*chain)[i+1:]...)
		}
	}
}

// measureTrace computes the copper and pad-to-die length of a collected
// trace.
func (b *Board) measureTrace(info *TraceInfo) {
	for _, t := range info.Segments {
		lset := t.LayerSet()
		padStart := b.GetPad(t.Start(), lset)
		padEnd := b.GetPad(t.End(), lset)
		if padStart != nil && padStart == padEnd {
			// Both ends inside one pad: no copper length outside it.
			continue
		}
		info.Length += t.Length()
		for _, p := range []*Pad{padStart, padEnd} {
			if p == nil {
				continue
			}
			// Credit the stub from the trace end to the pad centre
			// plus the package-internal length.
			end := t.Start()
			if p == padEnd {
				end = t.End()
			}
			info.PadToDieLength += geometry.Distance(end, p.position) + float64(p.padToDie)
		}
	}
}

// reorderTrace compacts the members of seen into a contiguous run of the
// track list, starting where the first member currently sits.
func (b *Board) reorderTrace(seen visitedSet) {
	first := -1
	for i, t := range b.tracks {
		if seen[t] {
			first = i
			break
		}
	}
	if first < 0 {
		return
	}
	reordered := make([]TrackLike, 0, len(b.tracks))
	var members []TrackLike
	for _, t := range b.tracks[:first] {
		reordered = append(reordered, t)
	}
	var rest []TrackLike
	for _, t := range b.tracks[first:] {
		if seen[t] {
			members = append(members, t)
		} else {
			rest = append(rest, t)
		}
	}
	reordered = append(reordered, members...)
	reordered = append(reordered, rest...)
	b.tracks = reordered
}

// PathError reports why no track path could be established between two
// points, carrying one diagnostic per attempted start segment.
type PathError struct {
	Start, Goal geometry.Point
	Problems    []string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("pcb: no track path from %s to %s: %s",
		e.Start, e.Goal, strings.Join(e.Problems, "; "))
}

// TracksInNetBetweenPoints collects the unbranched track path of one net
// from start to goal. Every segment of the net ending at start seeds an
// attempt; the first attempt that reaches goal wins. When all attempts
// fail, the returned PathError carries each attempt's diagnostic.
func (b *Board) TracksInNetBetweenPoints(start, goal geometry.Point, netCode int) ([]TrackLike, error) {
	inNet := b.TracksInNet(netCode)
	perr := &PathError{Start: start, Goal: goal}
	attempted := false
	for _, t := range inNet {
		if t.Kind() != KindTrack {
			continue
		}
		if t.Start() != start && t.End() != start {
			continue
		}
		attempted = true
		path, err := b.checkConnectedTo(inNet, goal, start, t)
		if err == nil {
			return path, nil
		}
		perr.Problems = append(perr.Problems, err.Error())
	}
	if !attempted {
		perr.Problems = append(perr.Problems, fmt.Sprintf("no segment of net %d starts at %s", netCode, start))
	}
	return nil, perr
}

// checkConnectedTo walks from first (one end at start) toward goal through
// the net's remaining track items. The walk demands exactly one
// continuation at every step and fails on an intervening pad.
func (b *Board) checkConnectedTo(inNet []TrackLike, goal, start geometry.Point, first TrackLike) ([]TrackLike, error) {
	pool := make([]TrackLike, 0, len(inNet))
	for _, t := range inNet {
		if t != first {
			pool = append(pool, t)
		}
	}
	path := []TrackLike{first}
	lset := first.LayerSet()
	next := otherEnd(first, start)

	for {
		if next == goal {
			return path, nil
		}
		if len(pool) == 0 {
			return nil, fmt.Errorf("not enough copper to reach %s from %s", goal, start)
		}
		if b.GetPadFast(next, lset) != nil {
			return nil, fmt.Errorf("intervening pad at %s between %s and %s", next, start, goal)
		}

		// Vias at the junction join the path and widen the layers.
		for {
			moved := false
			for i, t := range pool {
				v, ok := t.(*Via)
				if !ok {
					continue
				}
				if v.position == next && v.LayerSet().Intersect(lset).Any() {
					lset = lset.Union(v.LayerSet())
					path = append(path, v)
					pool = append(pool[:i], pool[i+1:]...)
					moved = true
					break
				}
			}
			if !moved {
				break
			}
		}

		// Exactly one continuing segment is acceptable; a junction
		// makes the path ambiguous.
		segCount := 0
		for i := 0; i < len(pool); {
			t := pool[i]
			if t.Kind() == KindTrack && hitsEndpoint(t, next, lset) {
				path = append(path, t)
				pool = append(pool[:i], pool[i+1:]...)
				segCount++
				continue
			}
			i++
		}
		if segCount != 1 {
			return nil, fmt.Errorf("found %d tracks intersecting at %s, exactly 2 would be acceptable", segCount+1, next)
		}

		last := path[len(path)-1]
		lset = last.LayerSet()
		next = otherEnd(last, next)
	}
}

// CreateLockPoint splits the segment under pos so a trace endpoint exists
// exactly there, returning the segment that now ends at pos. When pos
// already coincides with an end of seg, seg is returned unchanged. The
// original segment state and the created half are recorded in picked.
func (b *Board) CreateLockPoint(pos geometry.Point, seg *Track, picked *undo.PickList) *Track {
	if seg == nil {
		return nil
	}
	if pos == seg.start || pos == seg.end {
		return seg
	}

	if picked != nil {
		picked.Push(undo.Pick{Item: seg, Status: undo.StatusChanged, Link: seg.Clone()})
	}

	newSeg := seg.Clone()
	newSeg.start = pos
	newSeg.end = seg.end
	seg.end = pos

	b.conn.Remove(seg)
	b.conn.Add(seg)
	b.Add(newSeg, AddAppend)

	if picked != nil {
		picked.PushItem(newSeg, undo.StatusNew)
	}
	return seg
}
