package geometry

import (
	"math"
	"testing"
)

func TestFromMMRounding(t *testing.T) {
	tests := []struct {
		mm   float64
		want int
	}{
		{0, 0},
		{1, 1_000_000},
		{0.0000004, 0},
		{0.0000006, 1},
		{-1.5, -1_500_000},
	}
	for _, tt := range tests {
		if got := FromMM(tt.mm); got != tt.want {
			t.Errorf("FromMM(%v) = %d, want %d", tt.mm, got, tt.want)
		}
	}
}

func TestDistance(t *testing.T) {
	a := PointMM(0, 0)
	b := PointMM(3, 4)
	if got := Distance(a, b); math.Abs(got-5_000_000) > 1e-6 {
		t.Fatalf("Distance = %v, want 5000000", got)
	}
}

func TestRotateAbout(t *testing.T) {
	p := Point{X: 1000, Y: 0}
	got := RotateAbout(p, Point{}, 90)
	if got.X != 0 || got.Y != 1000 {
		t.Fatalf("RotateAbout 90deg = %+v, want (0,1000)", got)
	}
	if got := RotateAbout(p, p, 45); got != p {
		t.Fatalf("rotating about itself moved the point: %+v", got)
	}
}

func TestRectMerge(t *testing.T) {
	empty := NewRect()
	if !empty.Empty() {
		t.Fatal("NewRect should be empty")
	}
	a := Rect{Min: Point{0, 0}, Max: Point{10, 10}}
	if got := empty.Merge(a); got != a {
		t.Fatalf("empty.Merge(a) = %+v, want %+v", got, a)
	}
	b := Rect{Min: Point{5, -5}, Max: Point{20, 8}}
	got := a.Merge(b)
	want := Rect{Min: Point{0, -5}, Max: Point{20, 10}}
	if got != want {
		t.Fatalf("Merge = %+v, want %+v", got, want)
	}
	if got.Width() != 20 || got.Height() != 15 {
		t.Fatalf("Width/Height = %d/%d", got.Width(), got.Height())
	}
}

func TestRectExpandContains(t *testing.T) {
	r := NewRect().ExpandPoint(Point{3, 4}).ExpandPoint(Point{-1, 2})
	if !r.Contains(Point{0, 3}) {
		t.Fatal("expected point inside")
	}
	if r.Contains(Point{5, 3}) {
		t.Fatal("expected point outside")
	}
}

func TestPolygonContains(t *testing.T) {
	square := Polygon{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if !square.Contains(Point{5, 5}) {
		t.Fatal("centre should be inside")
	}
	if square.Contains(Point{15, 5}) {
		t.Fatal("outside point reported inside")
	}
}

func TestPolygonSelfIntersecting(t *testing.T) {
	square := Polygon{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if square.SelfIntersecting() {
		t.Fatal("square is not self-intersecting")
	}
	bowtie := Polygon{{0, 0}, {10, 10}, {10, 0}, {0, 10}}
	if !bowtie.SelfIntersecting() {
		t.Fatal("bowtie should be self-intersecting")
	}
}
