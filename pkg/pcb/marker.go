package pcb

import "github.com/OpenTraceLab/OpenTraceBoard/pkg/geometry"

// Marker flags a design rule violation or other diagnostic at a board
// position.
type Marker struct {
	itemBase
	position geometry.Point
	message  string
}

// NewMarker builds a marker at pos carrying a diagnostic message.
func NewMarker(pos geometry.Point, message string) *Marker {
	return &Marker{position: pos, message: message}
}

func (m *Marker) Kind() Kind { return KindMarker }

func (m *Marker) Position() geometry.Point { return m.position }
func (m *Marker) Message() string          { return m.message }

func (m *Marker) BoundingBox() geometry.Rect {
	return geometry.NewRect().ExpandPoint(m.position)
}
