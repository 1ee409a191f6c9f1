package pcb

import (
	"fmt"
	"math/bits"
)

// LayerID identifies one board layer. Copper layers occupy 0..31 with the
// front at 0 and the back at 31; technical layers follow.
type LayerID int

const (
	FCu  LayerID = 0
	In1Cu LayerID = 1
	In2Cu LayerID = 2
	In3Cu LayerID = 3
	In4Cu LayerID = 4
	In5Cu LayerID = 5
	In6Cu LayerID = 6
	BCu  LayerID = 31

	BAdhes LayerID = iota + 24 // 32
	FAdhes
	BPaste
	FPaste
	BSilkS
	FSilkS
	BMask
	FMask
	DwgsUser
	CmtsUser
	Eco1User
	Eco2User
	EdgeCuts
	Margin
	BCrtYd
	FCrtYd
	BFab
	FFab

	// LayerCount is one past the highest valid layer.
	LayerCount

	// UndefinedLayer marks an unresolved layer reference.
	UndefinedLayer LayerID = -1
)

// MaxCopperLayers is the size of the copper layer block.
const MaxCopperLayers = 32

// InnerCu returns the n-th inner copper layer, n in 1..30.
func InnerCu(n int) LayerID {
	return LayerID(n)
}

// IsCopper reports whether l is a copper layer.
func (l LayerID) IsCopper() bool {
	return l >= FCu && l <= BCu
}

// IsValid reports whether l names an existing layer.
func (l LayerID) IsValid() bool {
	return l >= 0 && l < LayerCount
}

var technicalLayerNames = map[LayerID]string{
	BAdhes:   "B.Adhes",
	FAdhes:   "F.Adhes",
	BPaste:   "B.Paste",
	FPaste:   "F.Paste",
	BSilkS:   "B.SilkS",
	FSilkS:   "F.SilkS",
	BMask:    "B.Mask",
	FMask:    "F.Mask",
	DwgsUser: "Dwgs.User",
	CmtsUser: "Cmts.User",
	Eco1User: "Eco1.User",
	Eco2User: "Eco2.User",
	EdgeCuts: "Edge.Cuts",
	Margin:   "Margin",
	BCrtYd:   "B.CrtYd",
	FCrtYd:   "F.CrtYd",
	BFab:     "B.Fab",
	FFab:     "F.Fab",
}

// StandardLayerName returns the canonical file name of l ("F.Cu",
// "Edge.Cuts", ...). Boards may override copper names; see Board.LayerName.
func StandardLayerName(l LayerID) string {
	switch {
	case l == FCu:
		return "F.Cu"
	case l == BCu:
		return "B.Cu"
	case l.IsCopper():
		return fmt.Sprintf("In%d.Cu", int(l))
	default:
		if name, ok := technicalLayerNames[l]; ok {
			return name
		}
		return fmt.Sprintf("Layer%d", int(l))
	}
}

// LayerIDByStandardName resolves a canonical layer name.
func LayerIDByStandardName(name string) (LayerID, bool) {
	for l := LayerID(0); l < LayerCount; l++ {
		if !l.IsCopper() && technicalLayerNames[l] == "" {
			continue
		}
		if StandardLayerName(l) == name {
			return l, true
		}
	}
	return UndefinedLayer, false
}

func (l LayerID) String() string {
	return StandardLayerName(l)
}

// LayerSet is a set of layers as a bitmask over LayerID.
type LayerSet uint64

// NewLayerSet builds a set from the given layers.
func NewLayerSet(layers ...LayerID) LayerSet {
	var s LayerSet
	for _, l := range layers {
		if l.IsValid() {
			s |= 1 << uint(l)
		}
	}
	return s
}

// AllCopper returns the set of every copper layer.
func AllCopper() LayerSet {
	return LayerSet(0xFFFFFFFF)
}

// CopperRange returns the copper layers spanned from top to bottom,
// inclusive. A via from F.Cu to B.Cu yields every copper layer.
func CopperRange(top, bottom LayerID) LayerSet {
	if top > bottom {
		top, bottom = bottom, top
	}
	var s LayerSet
	for l := top; l <= bottom; l++ {
		s |= 1 << uint(l)
	}
	return s & AllCopper()
}

// Any reports whether the set is non-empty.
func (s LayerSet) Any() bool { return s != 0 }

// Contains reports whether l is in the set.
func (s LayerSet) Contains(l LayerID) bool {
	return l.IsValid() && s&(1<<uint(l)) != 0
}

// Union returns the layers in either set.
func (s LayerSet) Union(o LayerSet) LayerSet { return s | o }

// Intersect returns the layers in both sets.
func (s LayerSet) Intersect(o LayerSet) LayerSet { return s & o }

// Xor returns the layers in exactly one of the sets.
func (s LayerSet) Xor(o LayerSet) LayerSet { return s ^ o }

// Count returns the number of layers in the set.
func (s LayerSet) Count() int { return bits.OnesCount64(uint64(s)) }

// Layers lists the members from lowest ID to highest.
func (s LayerSet) Layers() []LayerID {
	var out []LayerID
	for s != 0 {
		l := LayerID(bits.TrailingZeros64(uint64(s)))
		out = append(out, l)
		s &^= 1 << uint(l)
	}
	return out
}

// First returns the lowest layer in the set, or UndefinedLayer when empty.
func (s LayerSet) First() LayerID {
	if s == 0 {
		return UndefinedLayer
	}
	return LayerID(bits.TrailingZeros64(uint64(s)))
}

// LayerType classifies a copper layer's role in the stackup.
type LayerType int

const (
	LayerSignal LayerType = iota
	LayerPower
	LayerMixed
	LayerJumper
	LayerUndefined
)

// String returns the keyword used in board files.
func (t LayerType) String() string {
	switch t {
	case LayerSignal:
		return "signal"
	case LayerPower:
		return "power"
	case LayerMixed:
		return "mixed"
	case LayerJumper:
		return "jumper"
	default:
		return "undefined"
	}
}

// ParseLayerType resolves a board-file layer type keyword.
func ParseLayerType(s string) (LayerType, bool) {
	switch s {
	case "signal":
		return LayerSignal, true
	case "power":
		return LayerPower, true
	case "mixed":
		return LayerMixed, true
	case "jumper":
		return LayerJumper, true
	default:
		return LayerUndefined, false
	}
}

// Layer is the per-board metadata of one layer slot.
type Layer struct {
	Name string
	Type LayerType
}
