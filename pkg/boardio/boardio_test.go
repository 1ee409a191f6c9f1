package boardio

import (
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/pcb"
)

const sampleBoard = `(kicad_pcb (version 20240108) (generator "pcbnew")
  (net 0 "")
  (net 1 "GND")
  (net 2 "SIG")
  (footprint "Resistor_SMD:R_0603" (layer "F.Cu")
    (at 10 10)
    (path "/r1-path")
    (property "Reference" "R1")
    (property "Value" "10k")
    (pad "1" smd rect (at -1 0) (size 0.8 0.8) (layers "F.Cu") (net 1 "GND"))
    (pad "2" smd rect (at 1 0) (size 0.8 0.8) (layers "F.Cu") (net 2 "SIG") (die_length 0.5)))
  (footprint "Package_TO:TO-220" (layer "F.Cu")
    (at 30 10 90)
    (tstamp "q1-stamp")
    (fp_text reference "Q1" (at 0 -2))
    (fp_text value "IRF540" (at 0 2))
    (pad "1" thru_hole circle (at -2 0) (size 1.5 1.5) (drill 0.8) (layers "*.Cu" "*.Mask") (net 1 "GND")))
  (segment (start 9 10) (end 20 10) (width 0.25) (layer "F.Cu") (net 1))
  (via (at 20 10) (size 0.8) (drill 0.4) (layers "F.Cu" "B.Cu") (net 1))
  (segment (start 20 10) (end 28 10) (width 0.25) (layer "B.Cu") (net 1))
  (gr_line (start 0 0) (end 50 0) (layer "Edge.Cuts") (width 0.1))
  (zone (net 1) (net_name "GND") (layer "B.Cu") (tstamp "zone-1")
    (polygon (pts (xy 0 0) (xy 50 0) (xy 50 40) (xy 0 40)))))`

func loadSample(t *testing.T) *pcb.Board {
	t.Helper()
	b, err := Load(strings.NewReader(sampleBoard), pcb.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return b
}

func TestLoadNets(t *testing.T) {
	b := loadSample(t)
	if b.NetCount() != 3 {
		t.Fatalf("NetCount = %d, want 3", b.NetCount())
	}
	gnd := b.FindNetByName("GND")
	if gnd == nil || gnd.Code() != 1 {
		t.Fatalf("GND = %v", gnd)
	}
}

func TestLoadFootprints(t *testing.T) {
	b := loadSample(t)
	r1 := b.FindFootprintByReference("R1")
	if r1 == nil {
		t.Fatal("R1 missing")
	}
	if r1.Value() != "10k" || r1.Path() != "/r1-path" {
		t.Fatalf("R1 identity: value=%q path=%q", r1.Value(), r1.Path())
	}
	p1 := r1.FindPadByName("1")
	if p1 == nil || p1.Position() != geometry.PointMM(9, 10) {
		t.Fatalf("R1 pad 1 = %+v", p1)
	}
	if p1.NetCode() != 1 {
		t.Fatalf("R1 pad 1 net = %d", p1.NetCode())
	}
	p2 := r1.FindPadByName("2")
	if p2.PadToDieLength() != geometry.FromMM(0.5) {
		t.Fatalf("die length = %d", p2.PadToDieLength())
	}

	// Legacy fp_text identity and rotated pad placement.
	q1 := b.FindFootprintByReference("Q1")
	if q1 == nil {
		t.Fatal("Q1 missing")
	}
	if q1.Value() != "IRF540" || q1.Path() != "q1-stamp" {
		t.Fatalf("Q1 identity: value=%q path=%q", q1.Value(), q1.Path())
	}
	// Pad offset (-2,0) rotated 90 degrees around (30,10).
	qp := q1.FindPadByName("1")
	want := geometry.RotateAbout(geometry.PointMM(28, 10), geometry.PointMM(30, 10), 90)
	if qp.Position() != want {
		t.Fatalf("Q1 pad = %v, want %v", qp.Position(), want)
	}
	if !qp.Layers().Contains(pcb.BCu) || !qp.Layers().Contains(pcb.FMask) {
		t.Fatal("through-hole pad should span all copper plus mask")
	}
}

func TestLoadTracksAndVias(t *testing.T) {
	b := loadSample(t)
	if b.SegmentCount() != 3 {
		t.Fatalf("SegmentCount = %d, want 3", b.SegmentCount())
	}
	inNet := b.TracksInNet(1)
	if len(inNet) != 3 {
		t.Fatalf("net 1 track items = %d", len(inNet))
	}

	// The loaded copper forms a walkable path from pad to pad.
	path, err := b.TracksInNetBetweenPoints(geometry.PointMM(9, 10), geometry.PointMM(28, 10), 1)
	if err != nil {
		t.Fatalf("path across loaded board failed: %v", err)
	}
	if len(path) != 3 {
		t.Fatalf("path length = %d, want 3", len(path))
	}
}

func TestLoadZoneAndOutline(t *testing.T) {
	b := loadSample(t)
	if len(b.Zones()) != 1 {
		t.Fatalf("zones = %d", len(b.Zones()))
	}
	z := b.Zones()[0]
	if z.NetName() != "GND" || z.Layer() != pcb.BCu || z.CornerCount() != 4 {
		t.Fatalf("zone = net %q layer %v corners %d", z.NetName(), z.Layer(), z.CornerCount())
	}
	edges := b.BoardEdgesBoundingBox()
	if edges.Empty() {
		t.Fatal("edge outline missing")
	}
}

func TestLoadNonContiguousNetCodes(t *testing.T) {
	// Saved boards may skip net numbers; references must still resolve to
	// the right net after the registry renumbers them.
	const gappy = `(kicad_pcb
  (net 0 "")
  (net 1 "GND")
  (net 5 "SIG")
  (footprint "Lib:FP" (layer "F.Cu") (at 10 10)
    (property "Reference" "U1")
    (pad "1" smd rect (at 0 0) (size 1 1) (layers "F.Cu") (net 5 "SIG")))
  (segment (start 10 10) (end 20 10) (width 0.25) (layer "F.Cu") (net 5)))`

	b, err := Load(strings.NewReader(gappy), pcb.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	sig := b.FindNetByName("SIG")
	if sig == nil {
		t.Fatal("SIG missing")
	}
	pad := b.FindFootprintByReference("U1").Pads()[0]
	if pad.NetName() != "SIG" {
		t.Fatalf("pad net = %q, want SIG", pad.NetName())
	}
	if got := b.Tracks()[0].NetCode(); got != sig.Code() {
		t.Fatalf("segment net = %d, want %d", got, sig.Code())
	}
}

func TestLoadUndeclaredNetFails(t *testing.T) {
	const bad = `(kicad_pcb
  (net 0 "")
  (segment (start 0 0) (end 1 0) (width 0.25) (layer "F.Cu") (net 7)))`
	if _, err := Load(strings.NewReader(bad), pcb.DefaultConfig(), nil); err == nil {
		t.Fatal("undeclared net reference should fail")
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	if _, err := Load(strings.NewReader(`(export (version 1))`), pcb.DefaultConfig(), nil); err == nil {
		t.Fatal("non-board input should fail")
	}
	if _, err := Load(strings.NewReader(`(kicad_pcb (segment (start 0 0)))`), pcb.DefaultConfig(), nil); err == nil {
		t.Fatal("incomplete segment should fail")
	}
}
