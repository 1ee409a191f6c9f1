package pcb

import "testing"

func TestLayerSetOps(t *testing.T) {
	s := NewLayerSet(FCu, BCu)
	if !s.Any() || s.Count() != 2 {
		t.Fatalf("set should have 2 layers, got %d", s.Count())
	}
	if !s.Contains(FCu) || s.Contains(In1Cu) {
		t.Fatal("membership wrong")
	}
	u := s.Union(NewLayerSet(In1Cu))
	if u.Count() != 3 {
		t.Fatalf("union count = %d", u.Count())
	}
	if got := s.Intersect(NewLayerSet(BCu, In2Cu)); got != NewLayerSet(BCu) {
		t.Fatalf("intersect = %v", got.Layers())
	}
	if got := s.Xor(NewLayerSet(BCu)); got != NewLayerSet(FCu) {
		t.Fatalf("xor = %v", got.Layers())
	}
}

func TestCopperRange(t *testing.T) {
	through := CopperRange(FCu, BCu)
	if through != AllCopper() {
		t.Fatal("F.Cu..B.Cu should span all copper")
	}
	blind := CopperRange(FCu, In2Cu)
	if blind.Count() != 3 || !blind.Contains(In1Cu) {
		t.Fatalf("blind via span wrong: %v", blind.Layers())
	}
	// Reversed arguments are normalized.
	if CopperRange(In2Cu, FCu) != blind {
		t.Fatal("reversed range differs")
	}
}

func TestStandardLayerNames(t *testing.T) {
	tests := []struct {
		layer LayerID
		name  string
	}{
		{FCu, "F.Cu"},
		{BCu, "B.Cu"},
		{In3Cu, "In3.Cu"},
		{EdgeCuts, "Edge.Cuts"},
		{FSilkS, "F.SilkS"},
	}
	for _, tt := range tests {
		if got := StandardLayerName(tt.layer); got != tt.name {
			t.Errorf("StandardLayerName(%d) = %q, want %q", tt.layer, got, tt.name)
		}
		id, ok := LayerIDByStandardName(tt.name)
		if !ok || id != tt.layer {
			t.Errorf("LayerIDByStandardName(%q) = %d, %v", tt.name, id, ok)
		}
	}
}

func TestLayersIterate(t *testing.T) {
	s := NewLayerSet(BCu, FCu, In1Cu)
	layers := s.Layers()
	if len(layers) != 3 || layers[0] != FCu || layers[2] != BCu {
		t.Fatalf("Layers order wrong: %v", layers)
	}
	if s.First() != FCu {
		t.Fatalf("First = %v", s.First())
	}
	if LayerSet(0).First() != UndefinedLayer {
		t.Fatal("empty set First should be undefined")
	}
}

func TestBoardLayerMetadata(t *testing.T) {
	b := New(Config{CopperLayers: 4}, nil)

	if err := b.SetLayerName(In1Cu, "GND_plane"); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if got := b.LayerName(In1Cu); got != "GND_plane" {
		t.Fatalf("LayerName = %q", got)
	}
	id, ok := b.LayerIDByName("GND_plane")
	if !ok || id != In1Cu {
		t.Fatalf("LayerIDByName = %d, %v", id, ok)
	}

	// Veto rules.
	if err := b.SetLayerName(In1Cu, ""); err == nil {
		t.Error("empty name should be rejected")
	}
	if err := b.SetLayerName(In1Cu, "bad name"); err == nil {
		t.Error("name with space should be rejected")
	}
	if err := b.SetLayerName(In2Cu, "GND_plane"); err == nil {
		t.Error("duplicate name should be rejected")
	}
	if err := b.SetLayerName(EdgeCuts, "outline"); err == nil {
		t.Error("non-copper rename should be rejected")
	}

	if err := b.SetLayerType(In1Cu, LayerPower); err != nil {
		t.Fatalf("SetLayerType failed: %v", err)
	}
	if got := b.LayerType(In1Cu); got != LayerPower {
		t.Fatalf("LayerType = %v", got)
	}
	if got := b.LayerType(EdgeCuts); got != LayerUndefined {
		t.Fatalf("non-copper LayerType = %v", got)
	}
}

func TestIsLayerEnabled(t *testing.T) {
	b := New(Config{CopperLayers: 2}, nil)
	if !b.IsLayerEnabled(FCu) || !b.IsLayerEnabled(BCu) {
		t.Fatal("outer copper always enabled")
	}
	if b.IsLayerEnabled(In1Cu) {
		t.Fatal("inner copper should be disabled on a 2-layer board")
	}
	b4 := New(Config{CopperLayers: 4}, nil)
	if !b4.IsLayerEnabled(In1Cu) || !b4.IsLayerEnabled(In2Cu) {
		t.Fatal("4-layer board should enable In1/In2")
	}
	if b4.IsLayerEnabled(In3Cu) {
		t.Fatal("In3 should stay disabled on a 4-layer board")
	}
}

func TestParseLayerType(t *testing.T) {
	for _, typ := range []LayerType{LayerSignal, LayerPower, LayerMixed, LayerJumper} {
		got, ok := ParseLayerType(typ.String())
		if !ok || got != typ {
			t.Errorf("ParseLayerType(%q) = %v, %v", typ.String(), got, ok)
		}
	}
	if _, ok := ParseLayerType("bogus"); ok {
		t.Error("bogus type should not parse")
	}
}
