// Package geometry provides the integer board-coordinate primitives shared by
// the PCB model: points, rectangles and polygons in nanometre units.
package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// IUPerMM is the number of internal units (nanometres) per millimetre.
const IUPerMM = 1_000_000

// Point is a position on the board in internal units. Y grows downward,
// matching the board file coordinate system.
type Point struct {
	X, Y int
}

// PointMM builds a Point from millimetre coordinates.
func PointMM(x, y float64) Point {
	return Point{X: FromMM(x), Y: FromMM(y)}
}

// FromMM converts millimetres to internal units, rounding to the nearest unit.
func FromMM(mm float64) int {
	if mm < 0 {
		return int(mm*IUPerMM - 0.5)
	}
	return int(mm*IUPerMM + 0.5)
}

// ToMM converts internal units to millimetres.
func ToMM(iu int) float64 {
	return float64(iu) / IUPerMM
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Vec converts p to a gonum r2 vector for floating-point math.
func (p Point) Vec() r2.Vec {
	return r2.Vec{X: float64(p.X), Y: float64(p.Y)}
}

// String renders the point in millimetres, the way board files print
// coordinates.
func (p Point) String() string {
	return fmt.Sprintf("(xy %.4f %.4f)", ToMM(p.X), ToMM(p.Y))
}

func fromVec(v r2.Vec) Point {
	round := func(f float64) int {
		if f < 0 {
			return int(f - 0.5)
		}
		return int(f + 0.5)
	}
	return Point{X: round(v.X), Y: round(v.Y)}
}

// Distance returns the euclidean distance between a and b in internal units.
func Distance(a, b Point) float64 {
	return r2.Norm(r2.Sub(b.Vec(), a.Vec()))
}

// RotateAbout rotates p by angle degrees counter-clockwise around center.
func RotateAbout(p, center Point, angleDeg float64) Point {
	if angleDeg == 0 {
		return p
	}
	rad := angleDeg * math.Pi / 180
	return fromVec(r2.Rotate(p.Vec(), rad, center.Vec()))
}

// Size is a width/height pair in internal units.
type Size struct {
	W, H int
}

// SizeMM builds a Size from millimetre dimensions.
func SizeMM(w, h float64) Size {
	return Size{W: FromMM(w), H: FromMM(h)}
}
