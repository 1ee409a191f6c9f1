package pcb

import (
	"testing"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geometry"
)

func visitBoard() *Board {
	b := New(DefaultConfig(), nil)
	b.Add(testFootprint("R1", geometry.PointMM(10, 10), 0, 0), AddAppend)
	b.Add(NewLine(geometry.PointMM(0, 0), geometry.PointMM(1, 0), 0, EdgeCuts), AddAppend)
	b.Add(NewTrack(geometry.PointMM(0, 0), geometry.PointMM(1, 0), 1000, FCu, 0), AddAppend)
	b.Add(NewThroughVia(geometry.PointMM(1, 0), 2000, 1000, 0), AddAppend)
	b.Add(NewMarker(geometry.PointMM(5, 5), "drc"), AddAppend)
	b.Add(NewZone(0, FCu, geometry.Polygon{geometry.PointMM(0, 0), geometry.PointMM(9, 0), geometry.PointMM(9, 9)}), AddAppend)
	return b
}

func TestVisitOrder(t *testing.T) {
	b := visitBoard()
	var kinds []Kind
	b.Visit(func(item Item) SearchResult {
		kinds = append(kinds, item.Kind())
		return SearchContinue
	}, KindBoard, KindFootprint, KindPad, KindDrawing, KindVia, KindTrack, KindMarker, KindZone)

	want := []Kind{KindBoard, KindFootprint, KindPad, KindPad, KindDrawing, KindVia, KindTrack, KindMarker, KindZone}
	if len(kinds) != len(want) {
		t.Fatalf("visited %d items, want %d: %v", len(kinds), len(want), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("position %d: got %v, want %v (full: %v)", i, kinds[i], want[i], kinds)
		}
	}
}

func TestVisitDeduplicatesKinds(t *testing.T) {
	b := visitBoard()
	count := 0
	b.Visit(func(item Item) SearchResult {
		count++
		return SearchContinue
	}, KindTrack, KindTrack, KindTrack)
	if count != 1 {
		t.Fatalf("duplicate filter entries visited the track %d times", count)
	}
}

func TestVisitQuit(t *testing.T) {
	b := visitBoard()
	count := 0
	result := b.Visit(func(item Item) SearchResult {
		count++
		return SearchQuit
	}, KindFootprint, KindPad, KindTrack)
	if result != SearchQuit {
		t.Fatalf("result = %v, want SearchQuit", result)
	}
	if count != 1 {
		t.Fatalf("inspector called %d times after quit", count)
	}
}

func TestVisitQuitBranchSkipsFootprintChildren(t *testing.T) {
	b := New(DefaultConfig(), nil)
	b.Add(testFootprint("R1", geometry.PointMM(10, 10), 0, 0), AddAppend)
	b.Add(testFootprint("R2", geometry.PointMM(20, 10), 0, 0), AddAppend)

	var seen []string
	b.Visit(func(item Item) SearchResult {
		if fp, ok := item.(*Footprint); ok {
			seen = append(seen, fp.Reference())
			if fp.Reference() == "R1" {
				return SearchQuitBranch
			}
			return SearchContinue
		}
		seen = append(seen, "pad")
		return SearchContinue
	}, KindFootprint, KindPad)

	// R1's pads are skipped; R2's two pads are visited.
	want := []string{"R1", "R2", "pad", "pad"}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("seen = %v, want %v", seen, want)
		}
	}
}

func TestVisitUnfilteredKindsSkipped(t *testing.T) {
	b := visitBoard()
	b.Visit(func(item Item) SearchResult {
		if item.Kind() != KindVia {
			t.Fatalf("unexpected kind %v", item.Kind())
		}
		return SearchContinue
	}, KindVia)
}
