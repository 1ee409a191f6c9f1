package geometry

// Polygon is a closed outline given by its corner list. The edge from the
// last corner back to the first is implicit.
type Polygon []Point

// Normalizer resolves a self-intersecting outline into one or more simple
// polygons. The boolean algebra behind it is supplied by the caller; this
// package only defines the contract.
type Normalizer interface {
	Normalize(pg Polygon) []Polygon
}

// BoundingBox returns the smallest rectangle covering every corner.
func (pg Polygon) BoundingBox() Rect {
	r := NewRect()
	for _, p := range pg {
		r = r.ExpandPoint(p)
	}
	return r
}

// Contains reports whether p lies inside the polygon, using the even-odd
// ray-casting rule. Points exactly on an edge may land on either side.
func (pg Polygon) Contains(p Point) bool {
	if len(pg) < 3 {
		return false
	}
	inside := false
	j := len(pg) - 1
	for i := 0; i < len(pg); i++ {
		a, b := pg[i], pg[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := float64(b.X-a.X)*float64(p.Y-a.Y)/float64(b.Y-a.Y) + float64(a.X)
			if float64(p.X) < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// SelfIntersecting reports whether any two non-adjacent edges of the outline
// cross. Shared corners between adjacent edges do not count.
func (pg Polygon) SelfIntersecting() bool {
	n := len(pg)
	if n < 4 {
		return false
	}
	edge := func(i int) (Point, Point) {
		return pg[i], pg[(i+1)%n]
	}
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			// Skip adjacent edges, including the last/first pair.
			if i == 0 && j == n-1 {
				continue
			}
			a1, a2 := edge(i)
			b1, b2 := edge(j)
			if segmentsCross(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

func segmentsCross(a1, a2, b1, b2 Point) bool {
	d1 := cross(b1, b2, a1)
	d2 := cross(b1, b2, a2)
	d3 := cross(a1, a2, b1)
	d4 := cross(a1, a2, b2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(b1, b2, a1)) ||
		(d2 == 0 && onSegment(b1, b2, a2)) ||
		(d3 == 0 && onSegment(a1, a2, b1)) ||
		(d4 == 0 && onSegment(a1, a2, b2))
}

func cross(o, a, b Point) int64 {
	return int64(a.X-o.X)*int64(b.Y-o.Y) - int64(a.Y-o.Y)*int64(b.X-o.X)
}

func onSegment(a, b, p Point) bool {
	return min(a.X, b.X) <= p.X && p.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= p.Y && p.Y <= max(a.Y, b.Y)
}
