package pcb

import (
	"testing"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/undo"
)

func squareOutline(x, y, side float64) geometry.Polygon {
	return geometry.Polygon{
		geometry.PointMM(x, y),
		geometry.PointMM(x+side, y),
		geometry.PointMM(x+side, y+side),
		geometry.PointMM(x, y+side),
	}
}

func TestAddArea(t *testing.T) {
	b := New(DefaultConfig(), nil)
	var picked undo.PickList
	z := b.AddArea(&picked, 1, FCu, geometry.PointMM(5, 5), HatchEdge)
	if z == nil || len(b.Zones()) != 1 {
		t.Fatal("zone not added")
	}
	if z.CornerCount() != 1 {
		t.Fatalf("new zone corners = %d", z.CornerCount())
	}
	if picked.Len() != 1 || picked.Picks()[0].Status != undo.StatusNew {
		t.Fatal("pick list should record the new zone")
	}
}

func TestInsertArea(t *testing.T) {
	b := New(DefaultConfig(), nil)
	first := NewZone(0, FCu, squareOutline(0, 0, 10))
	second := NewZone(0, FCu, squareOutline(20, 0, 10))
	b.Add(first, AddAppend)
	b.Add(second, AddAppend)

	mid := NewZone(0, BCu, squareOutline(10, 0, 5))
	b.InsertArea(mid, 1)
	if b.Zones()[1] != mid {
		t.Fatal("InsertArea should place the zone at index 1")
	}
	if mid.Board() != b {
		t.Fatal("inserted zone not attached")
	}

	tail := NewZone(0, BCu, squareOutline(40, 0, 5))
	b.InsertArea(tail, 99)
	if b.Zones()[len(b.Zones())-1] != tail {
		t.Fatal("out-of-range index should append")
	}
}

func TestRemoveAreaWithPickList(t *testing.T) {
	b := New(DefaultConfig(), nil)
	z := NewZone(0, FCu, squareOutline(0, 0, 10))
	b.Add(z, AddAppend)

	var picked undo.PickList
	b.RemoveArea(&picked, z)
	if len(b.Zones()) != 0 {
		t.Fatal("zone still on board")
	}
	if picked.Len() != 1 || picked.Picks()[0].Status != undo.StatusDeleted {
		t.Fatal("deleted zone should be picked")
	}
}

func TestNormalizeAreaPolygon(t *testing.T) {
	b := New(DefaultConfig(), nil)
	good := NewZone(0, FCu, squareOutline(0, 0, 10))
	b.Add(good, AddAppend)
	if !b.NormalizeAreaPolygon(nil, good) {
		t.Fatal("square outline should survive")
	}
	if len(b.Zones()) != 1 {
		t.Fatal("good zone removed")
	}

	bowtie := NewZone(0, FCu, geometry.Polygon{
		geometry.PointMM(0, 0), geometry.PointMM(10, 10),
		geometry.PointMM(10, 0), geometry.PointMM(0, 10),
	})
	b.Add(bowtie, AddAppend)
	var picked undo.PickList
	if b.NormalizeAreaPolygon(&picked, bowtie) {
		t.Fatal("self-intersecting outline should be rejected")
	}
	if len(b.Zones()) != 1 {
		t.Fatal("rejected zone should leave the board")
	}
	if picked.Len() != 1 || picked.Picks()[0].Status != undo.StatusDeleted {
		t.Fatal("rejected zone should be picked as deleted")
	}
}

// splitInTwo stands in for a real polygon boolean library.
type splitInTwo struct{}

func (splitInTwo) Normalize(pg geometry.Polygon) []geometry.Polygon {
	return []geometry.Polygon{squareOutline(0, 0, 5), squareOutline(5, 5, 5)}
}

func TestNormalizeAreaPolygonWithNormalizer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PolygonNormalizer = splitInTwo{}
	b := New(cfg, nil)

	bowtie := NewZone(1, FCu, geometry.Polygon{
		geometry.PointMM(0, 0), geometry.PointMM(10, 10),
		geometry.PointMM(10, 0), geometry.PointMM(0, 10),
	})
	bowtie.SetNetName("GND")
	b.Add(bowtie, AddAppend)

	var picked undo.PickList
	if !b.NormalizeAreaPolygon(&picked, bowtie) {
		t.Fatal("normalized outline should survive")
	}
	if len(b.Zones()) != 2 {
		t.Fatalf("zones = %d, want the repaired zone plus one split-off", len(b.Zones()))
	}
	if bowtie.CornerCount() != 4 || bowtie.Outline().SelfIntersecting() {
		t.Fatal("zone outline not replaced by the simple polygon")
	}
	extra := b.Zones()[1]
	if extra.NetCode() != 1 || extra.NetName() != "GND" {
		t.Fatal("split-off zone should keep the net")
	}
	if picked.Len() != 2 {
		t.Fatalf("picks = %d, want new split-off + changed original", picked.Len())
	}
	if picked.Picks()[0].Status != undo.StatusNew || picked.Picks()[1].Status != undo.StatusChanged {
		t.Fatal("pick statuses wrong")
	}
}

func TestHitTestForAnyFilledArea(t *testing.T) {
	b := New(DefaultConfig(), nil)
	gndZone := NewZone(1, FCu, squareOutline(0, 0, 10))
	b.Add(gndZone, AddAppend)
	keepout := NewZone(0, BCu, squareOutline(0, 0, 10))
	keepout.SetKeepout(true)
	b.Add(keepout, AddAppend)
	silk := NewZone(0, FSilkS, squareOutline(0, 0, 10))
	b.Add(silk, AddAppend)

	inside := geometry.PointMM(5, 5)
	if got := b.HitTestForAnyFilledArea(inside, FCu, BCu, -1); got != gndZone {
		t.Fatalf("hit = %v, want the copper zone", got)
	}
	// Net filter.
	if b.HitTestForAnyFilledArea(inside, FCu, BCu, 2) != nil {
		t.Fatal("net filter should exclude the zone")
	}
	// Layer window excluding F.Cu.
	if b.HitTestForAnyFilledArea(inside, In1Cu, BCu, -1) != nil {
		t.Fatal("layer window should exclude the zone")
	}
	if b.HitTestForAnyFilledArea(geometry.PointMM(50, 50), FCu, BCu, -1) != nil {
		t.Fatal("outside point should miss")
	}
}

func TestHitTestPrefersFills(t *testing.T) {
	z := NewZone(1, FCu, squareOutline(0, 0, 10))
	z.SetFills([]geometry.Polygon{squareOutline(0, 0, 4)})
	if !z.HitTestFilledArea(geometry.PointMM(2, 2)) {
		t.Fatal("point inside fill should hit")
	}
	// Inside the outline but outside the fill.
	if z.HitTestFilledArea(geometry.PointMM(8, 8)) {
		t.Fatal("point outside the fill should miss once filled")
	}
}

func TestSetAreasNetCodesFromNetNames(t *testing.T) {
	b := New(DefaultConfig(), nil)
	gnd := NewNetInfo("GND")
	b.Add(gnd, AddAppend)

	zone := NewZone(99, FCu, squareOutline(0, 0, 10))
	zone.SetNetName("GND")
	b.Add(zone, AddAppend)

	gone := NewZone(5, FCu, squareOutline(20, 0, 10))
	gone.SetNetName("OLD_NET")
	b.Add(gone, AddAppend)

	silk := NewZone(5, FSilkS, squareOutline(40, 0, 10))
	b.Add(silk, AddAppend)

	errs := b.SetAreasNetCodesFromNetNames()
	if errs != 1 {
		t.Fatalf("unresolved count = %d, want 1", errs)
	}
	if zone.NetCode() != gnd.Code() {
		t.Fatalf("zone net = %d, want %d", zone.NetCode(), gnd.Code())
	}
	if gone.NetCode() != UnconnectedNetCode {
		t.Fatal("orphaned zone should fall back to unconnected")
	}
	if silk.NetCode() != UnconnectedNetCode {
		t.Fatal("non-copper zone should carry no net")
	}
}
