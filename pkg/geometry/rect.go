package geometry

import "math"

// Rect is an axis-aligned bounding rectangle in internal units. The zero
// value from NewRect is the empty rectangle; merging anything into it yields
// the other operand.
type Rect struct {
	Min, Max Point
}

// NewRect returns an empty rectangle ready for Merge/ExpandPoint.
func NewRect() Rect {
	return Rect{
		Min: Point{X: math.MaxInt, Y: math.MaxInt},
		Max: Point{X: math.MinInt, Y: math.MinInt},
	}
}

// RectAt returns a rectangle covering the given size centred on pos.
func RectAt(pos Point, size Size) Rect {
	return Rect{
		Min: Point{X: pos.X - size.W/2, Y: pos.Y - size.H/2},
		Max: Point{X: pos.X + size.W/2, Y: pos.Y + size.H/2},
	}
}

// Empty reports whether the rectangle covers nothing.
func (r Rect) Empty() bool {
	return r.Min.X > r.Max.X || r.Min.Y > r.Max.Y
}

// Width returns the horizontal extent in internal units.
func (r Rect) Width() int {
	if r.Empty() {
		return 0
	}
	return r.Max.X - r.Min.X
}

// Height returns the vertical extent in internal units.
func (r Rect) Height() int {
	if r.Empty() {
		return 0
	}
	return r.Max.Y - r.Min.Y
}

// Centre returns the rectangle midpoint.
func (r Rect) Centre() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Bottom returns the largest Y covered. Y grows downward, so this is the
// lowest edge on screen.
func (r Rect) Bottom() int {
	return r.Max.Y
}

// Contains reports whether p lies inside or on the edge of r.
func (r Rect) Contains(p Point) bool {
	return !r.Empty() &&
		p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Merge returns the smallest rectangle covering both r and other.
func (r Rect) Merge(other Rect) Rect {
	if other.Empty() {
		return r
	}
	if r.Empty() {
		return other
	}
	return Rect{
		Min: Point{X: min(r.Min.X, other.Min.X), Y: min(r.Min.Y, other.Min.Y)},
		Max: Point{X: max(r.Max.X, other.Max.X), Y: max(r.Max.Y, other.Max.Y)},
	}
}

// ExpandPoint returns r grown to cover p.
func (r Rect) ExpandPoint(p Point) Rect {
	return r.Merge(Rect{Min: p, Max: p})
}

// Inflate returns r grown by d in every direction.
func (r Rect) Inflate(d int) Rect {
	if r.Empty() {
		return r
	}
	return Rect{
		Min: Point{X: r.Min.X - d, Y: r.Min.Y - d},
		Max: Point{X: r.Max.X + d, Y: r.Max.Y + d},
	}
}
