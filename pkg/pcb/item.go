// Package pcb models a printed circuit board document: its nets, footprints,
// copper tracks and vias, zones and drawings, plus the queries and track
// topology operations layered on top of them.
package pcb

import "github.com/OpenTraceLab/OpenTraceBoard/pkg/geometry"

// Kind discriminates the closed set of board item types.
type Kind int

const (
	KindBoard Kind = iota
	KindFootprint
	KindPad
	KindText
	KindDrawing
	KindTrack
	KindVia
	KindZone
	KindZoneFill
	KindMarker
	KindNetInfo
)

func (k Kind) String() string {
	switch k {
	case KindBoard:
		return "board"
	case KindFootprint:
		return "footprint"
	case KindPad:
		return "pad"
	case KindText:
		return "text"
	case KindDrawing:
		return "drawing"
	case KindTrack:
		return "track"
	case KindVia:
		return "via"
	case KindZone:
		return "zone"
	case KindZoneFill:
		return "zone-fill"
	case KindMarker:
		return "marker"
	case KindNetInfo:
		return "net"
	default:
		return "unknown"
	}
}

// Item is implemented by everything that can live on a board. The set of
// implementations is closed; the unexported attach method keeps it that way.
type Item interface {
	Kind() Kind
	Board() *Board
	Position() geometry.Point
	BoundingBox() geometry.Rect

	attach(*Board)
}

// Netted is implemented by items that belong to a net.
type Netted interface {
	Item
	NetCode() int
	SetNetCode(code int)
}

// itemBase carries the board back-pointer shared by all items.
type itemBase struct {
	board *Board
}

func (b *itemBase) Board() *Board    { return b.board }
func (b *itemBase) attach(bd *Board) { b.board = bd }
