package pcb

import (
	"math"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/undo"
)

func mmTrack(x1, y1, x2, y2 float64, layer LayerID, net int) *Track {
	return NewTrack(geometry.PointMM(x1, y1), geometry.PointMM(x2, y2), geometry.FromMM(0.25), layer, net)
}

// chainBoard lays out three collinear segments between two pads:
// pad(0,0) - (10,0) - (20,0) - (30,0) - pad(30,0), all net 1.
func chainBoard(t *testing.T) (*Board, []*Track) {
	t.Helper()
	b := New(DefaultConfig(), nil)
	b.Add(NewNetInfo("SIG"), AddAppend)

	left := NewFootprint("Test:CONN", geometry.PointMM(0, 0), FCu)
	left.SetReference("J1")
	lp := NewPad("1", geometry.PointMM(0, 0), geometry.SizeMM(1, 1), NewLayerSet(FCu))
	lp.SetNetCode(1)
	left.AddPad(lp)
	b.Add(left, AddAppend)

	right := NewFootprint("Test:CONN", geometry.PointMM(30, 0), FCu)
	right.SetReference("J2")
	rp := NewPad("1", geometry.PointMM(30, 0), geometry.SizeMM(1, 1), NewLayerSet(FCu))
	rp.SetNetCode(1)
	right.AddPad(rp)
	b.Add(right, AddAppend)

	segs := []*Track{
		mmTrack(0, 0, 10, 0, FCu, 1),
		mmTrack(10, 0, 20, 0, FCu, 1),
		mmTrack(20, 0, 30, 0, FCu, 1),
	}
	for _, s := range segs {
		b.Add(s, AddAppend)
	}
	return b, segs
}

func TestMarkTraceStraightChain(t *testing.T) {
	b, segs := chainBoard(t)

	info := b.MarkTrace(segs[1], false)
	if info == nil || info.Count() != 3 {
		t.Fatalf("trace should span 3 segments, got %v", info)
	}
	wantLen := float64(geometry.FromMM(30))
	if math.Abs(info.Length-wantLen) > 1 {
		t.Fatalf("trace length = %v, want %v", info.Length, wantLen)
	}
}

func TestMarkTraceNilSeed(t *testing.T) {
	b, _ := chainBoard(t)
	if b.MarkTrace(nil, false) != nil {
		t.Fatal("nil seed should return nil")
	}
}

func TestMarkTraceStopsAtJunction(t *testing.T) {
	b, segs := chainBoard(t)
	// A branch at (20,0) turns it into a junction.
	b.Add(mmTrack(20, 0, 20, 10, FCu, 1), AddAppend)

	info := b.MarkTrace(segs[0], false)
	// Chain runs from pad(0,0) through (10,0) and stops at the junction.
	if info.Count() != 2 {
		t.Fatalf("trace should stop at the junction, got %d members", info.Count())
	}
}

func TestMarkTracePadToDie(t *testing.T) {
	b, segs := chainBoard(t)
	die := geometry.FromMM(2)
	for _, fp := range b.Footprints() {
		fp.Pads()[0].SetPadToDieLength(die)
	}

	info := b.MarkTrace(segs[1], false)
	want := float64(2 * die)
	if math.Abs(info.PadToDieLength-want) > 1 {
		t.Fatalf("pad-to-die = %v, want %v", info.PadToDieLength, want)
	}
}

func TestMarkTraceSegmentInsidePad(t *testing.T) {
	b := New(DefaultConfig(), nil)
	b.Add(NewNetInfo("SIG"), AddAppend)

	fp := NewFootprint("Test:BIG", geometry.PointMM(0, 0), FCu)
	pad := NewPad("1", geometry.PointMM(0, 0), geometry.SizeMM(10, 10), NewLayerSet(FCu))
	pad.SetNetCode(1)
	fp.AddPad(pad)
	b.Add(fp, AddAppend)

	// Entirely inside the pad: contributes no length.
	inside := mmTrack(-2, 0, 2, 0, FCu, 1)
	b.Add(inside, AddAppend)

	info := b.MarkTrace(inside, false)
	if info.Length != 0 {
		t.Fatalf("segment inside one pad must not add length, got %v", info.Length)
	}
}

func TestMarkTraceViaWidensLayers(t *testing.T) {
	b := New(DefaultConfig(), nil)
	b.Add(NewNetInfo("SIG"), AddAppend)

	top := mmTrack(0, 0, 10, 0, FCu, 1)
	via := NewThroughVia(geometry.PointMM(10, 0), 2000, 1000, 1)
	bottom := mmTrack(10, 0, 20, 0, BCu, 1)
	b.Add(top, AddAppend)
	b.Add(via, AddAppend)
	b.Add(bottom, AddAppend)

	info := b.MarkTrace(top, false)
	if info.Count() != 3 {
		t.Fatalf("via should join the layers, got %d members", info.Count())
	}
}

func TestMarkTraceViaSeedWithThreeTracks(t *testing.T) {
	b := New(DefaultConfig(), nil)
	b.Add(NewNetInfo("SIG"), AddAppend)

	via := NewThroughVia(geometry.PointMM(0, 0), 2000, 1000, 1)
	b.Add(via, AddAppend)
	b.Add(mmTrack(0, 0, 10, 0, FCu, 1), AddAppend)
	b.Add(mmTrack(0, 0, 0, 10, FCu, 1), AddAppend)
	b.Add(mmTrack(0, 0, -10, 0, BCu, 1), AddAppend)

	// Three or more incident tracks: the via is a trace of its own.
	info := b.MarkTrace(via, false)
	if info.Count() != 1 {
		t.Fatalf("via with 3 incident tracks should be alone, got %d", info.Count())
	}
}

func TestMarkTraceViaSeedTwoTracks(t *testing.T) {
	b := New(DefaultConfig(), nil)
	b.Add(NewNetInfo("SIG"), AddAppend)

	via := NewThroughVia(geometry.PointMM(10, 0), 2000, 1000, 1)
	b.Add(via, AddAppend)
	b.Add(mmTrack(0, 0, 10, 0, FCu, 1), AddAppend)
	b.Add(mmTrack(10, 0, 20, 0, BCu, 1), AddAppend)

	info := b.MarkTrace(via, false)
	if info.Count() != 3 {
		t.Fatalf("via seed should chain both tracks, got %d", info.Count())
	}
}

func TestMarkTraceReorderMakesContiguous(t *testing.T) {
	b, segs := chainBoard(t)
	// Interleave a foreign-net segment between the chain members.
	foreign := mmTrack(50, 50, 60, 50, FCu, 0)
	b.Remove(segs[1])
	b.Add(foreign, AddAppend)
	b.Add(segs[1], AddAppend)

	info := b.MarkTrace(segs[0], true)
	if info.Count() != 3 {
		t.Fatalf("trace count = %d", info.Count())
	}

	// Members must now occupy consecutive track list slots.
	member := map[TrackLike]bool{}
	for _, s := range info.Segments {
		member[s] = true
	}
	first := -1
	for i, tr := range b.Tracks() {
		if member[tr] {
			first = i
			break
		}
	}
	for i := first; i < first+info.Count(); i++ {
		if !member[b.Tracks()[i]] {
			t.Fatal("trace members not contiguous after reorder")
		}
	}
}

func TestTracksInNetBetweenPoints(t *testing.T) {
	b, _ := chainBoard(t)

	path, err := b.TracksInNetBetweenPoints(geometry.PointMM(0, 0), geometry.PointMM(30, 0), 1)
	if err != nil {
		t.Fatalf("path should exist: %v", err)
	}
	if len(path) != 3 {
		t.Fatalf("path has %d members, want 3", len(path))
	}

	// The walk is symmetric.
	back, err := b.TracksInNetBetweenPoints(geometry.PointMM(30, 0), geometry.PointMM(0, 0), 1)
	if err != nil {
		t.Fatalf("reverse path should exist: %v", err)
	}
	if len(back) != len(path) {
		t.Fatalf("reverse path has %d members, want %d", len(back), len(path))
	}
}

func TestTracksInNetBetweenPointsThroughVia(t *testing.T) {
	b := New(DefaultConfig(), nil)
	b.Add(NewNetInfo("SIG"), AddAppend)
	b.Add(mmTrack(0, 0, 10, 0, FCu, 1), AddAppend)
	b.Add(NewThroughVia(geometry.PointMM(10, 0), 2000, 1000, 1), AddAppend)
	b.Add(mmTrack(10, 0, 20, 0, BCu, 1), AddAppend)

	path, err := b.TracksInNetBetweenPoints(geometry.PointMM(0, 0), geometry.PointMM(20, 0), 1)
	if err != nil {
		t.Fatalf("layer-changing path should exist: %v", err)
	}
	if len(path) != 3 {
		t.Fatalf("path has %d members, want segment+via+segment", len(path))
	}
}

func TestTracksInNetBetweenPointsInterveningPad(t *testing.T) {
	b, _ := chainBoard(t)
	// Plant a pad exactly on the (10,0) junction.
	fp := NewFootprint("Test:TP", geometry.PointMM(10, 0), FCu)
	tp := NewPad("1", geometry.PointMM(10, 0), geometry.SizeMM(1, 1), NewLayerSet(FCu))
	tp.SetNetCode(1)
	fp.AddPad(tp)
	b.Add(fp, AddAppend)

	_, err := b.TracksInNetBetweenPoints(geometry.PointMM(0, 0), geometry.PointMM(30, 0), 1)
	if err == nil {
		t.Fatal("intervening pad should fail the walk")
	}
	if !strings.Contains(err.Error(), "intervening pad") {
		t.Fatalf("diagnostic missing: %v", err)
	}
}

func TestTracksInNetBetweenPointsJunctionFails(t *testing.T) {
	b, _ := chainBoard(t)
	b.Add(mmTrack(10, 0, 10, 10, FCu, 1), AddAppend)

	_, err := b.TracksInNetBetweenPoints(geometry.PointMM(0, 0), geometry.PointMM(30, 0), 1)
	if err == nil {
		t.Fatal("a junction should make the path ambiguous")
	}
	var perr *PathError
	if pe, ok := err.(*PathError); ok {
		perr = pe
	} else {
		t.Fatalf("error type = %T", err)
	}
	if len(perr.Problems) == 0 {
		t.Fatal("PathError should carry diagnostics")
	}
}

func TestTracksInNetBetweenPointsNoStart(t *testing.T) {
	b, _ := chainBoard(t)
	_, err := b.TracksInNetBetweenPoints(geometry.PointMM(99, 99), geometry.PointMM(30, 0), 1)
	if err == nil {
		t.Fatal("no segment at start should fail")
	}
}

func TestCreateLockPoint(t *testing.T) {
	b := New(DefaultConfig(), nil)
	seg := mmTrack(0, 0, 10, 0, FCu, 1)
	b.Add(seg, AddAppend)

	var picked undo.PickList
	mid := geometry.PointMM(5, 0)
	got := b.CreateLockPoint(mid, seg, &picked)
	if got != seg {
		t.Fatal("CreateLockPoint should return the trimmed original")
	}
	if seg.End() != mid {
		t.Fatalf("original segment end = %v, want %v", seg.End(), mid)
	}
	if len(b.Tracks()) != 2 {
		t.Fatalf("board should hold 2 segments, got %d", len(b.Tracks()))
	}
	other := b.Tracks()[1]
	if other.Start() != mid || other.End() != geometry.PointMM(10, 0) {
		t.Fatalf("new segment spans %v..%v", other.Start(), other.End())
	}
	if picked.Len() != 2 {
		t.Fatalf("pick list should record change + new, got %d", picked.Len())
	}

	// An existing endpoint needs no split.
	if got := b.CreateLockPoint(seg.Start(), seg, nil); got != seg {
		t.Fatal("endpoint lock should return the segment unchanged")
	}
	if len(b.Tracks()) != 2 {
		t.Fatal("endpoint lock must not add segments")
	}
}
