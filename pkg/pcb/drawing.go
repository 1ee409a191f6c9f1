package pcb

import "github.com/OpenTraceLab/OpenTraceBoard/pkg/geometry"

// DrawingShape selects the geometric primitive of a Drawing.
type DrawingShape int

const (
	ShapeLine DrawingShape = iota
	ShapeCircle
	ShapeArc
	ShapePoly
)

func (s DrawingShape) String() string {
	switch s {
	case ShapeLine:
		return "line"
	case ShapeCircle:
		return "circle"
	case ShapeArc:
		return "arc"
	case ShapePoly:
		return "poly"
	default:
		return "unknown"
	}
}

// Drawing is a graphic primitive on the board: board outline segments on
// Edge.Cuts, silkscreen art, dimensions and so on.
type Drawing struct {
	itemBase
	shape  DrawingShape
	layer  LayerID
	start  geometry.Point
	end    geometry.Point
	width  int
	points geometry.Polygon
}

// NewLine builds a line drawing from start to end.
func NewLine(start, end geometry.Point, width int, layer LayerID) *Drawing {
	return &Drawing{shape: ShapeLine, layer: layer, start: start, end: end, width: width}
}

// NewCircle builds a circle drawing centred on center with the given radius
// point on its circumference.
func NewCircle(center, radiusPoint geometry.Point, width int, layer LayerID) *Drawing {
	return &Drawing{shape: ShapeCircle, layer: layer, start: center, end: radiusPoint, width: width}
}

// NewPolyDrawing builds a closed polygon drawing.
func NewPolyDrawing(points geometry.Polygon, width int, layer LayerID) *Drawing {
	d := &Drawing{shape: ShapePoly, layer: layer, width: width, points: points}
	if len(points) > 0 {
		d.start = points[0]
	}
	return d
}

func (d *Drawing) Kind() Kind { return KindDrawing }

func (d *Drawing) Shape() DrawingShape { return d.shape }
func (d *Drawing) Layer() LayerID      { return d.layer }
func (d *Drawing) SetLayer(l LayerID)  { d.layer = l }
func (d *Drawing) Width() int          { return d.width }

func (d *Drawing) Position() geometry.Point { return d.start }
func (d *Drawing) Start() geometry.Point    { return d.start }
func (d *Drawing) End() geometry.Point      { return d.end }

// Points returns the polygon corners for ShapePoly drawings.
func (d *Drawing) Points() geometry.Polygon { return d.points }

// IsBoardEdge reports whether the drawing contributes to the board outline.
func (d *Drawing) IsBoardEdge() bool {
	return d.layer == EdgeCuts
}

func (d *Drawing) BoundingBox() geometry.Rect {
	var r geometry.Rect
	switch d.shape {
	case ShapeCircle:
		radius := int(geometry.Distance(d.start, d.end))
		r = geometry.RectAt(d.start, geometry.Size{W: 2 * radius, H: 2 * radius})
	case ShapePoly:
		r = d.points.BoundingBox()
	default:
		r = geometry.NewRect().ExpandPoint(d.start).ExpandPoint(d.end)
	}
	return r.Inflate(d.width / 2)
}

// Clone returns a detached copy.
func (d *Drawing) Clone() *Drawing {
	c := *d
	c.board = nil
	c.points = append(geometry.Polygon(nil), d.points...)
	return &c
}
