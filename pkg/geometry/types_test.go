package geometry

import (
	"math"
	"testing"
)

func TestRectIntClamp(t *testing.T) {
	cases := []struct {
		name string
		in   RectInt
		want RectInt
	}{
		{"inside", RectInt{10, 10, 20, 20}, RectInt{10, 10, 20, 20}},
		{"negative origin", RectInt{-5, -5, 20, 20}, RectInt{0, 0, 15, 15}},
		{"past edge", RectInt{90, 90, 20, 20}, RectInt{90, 90, 10, 10}},
		{"fully outside", RectInt{200, 200, 10, 10}, RectInt{200, 200, 0, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Clamp(100, 100)
			if got.Width != tc.want.Width || got.Height != tc.want.Height {
				t.Errorf("Clamp(%+v) = %+v, want %+v", tc.in, got, tc.want)
			}
			if got.Area() != tc.want.Width*tc.want.Height {
				t.Errorf("Area() = %d after clamp, want %d", got.Area(), tc.want.Width*tc.want.Height)
			}
		})
	}
}

func TestRectIntInflate(t *testing.T) {
	r := RectInt{X: 10, Y: 10, Width: 20, Height: 20}
	grown := r.Inflate(5)
	if grown.X != 5 || grown.Y != 5 || grown.Width != 30 || grown.Height != 30 {
		t.Errorf("Inflate(5) = %+v", grown)
	}
}

func TestRectIntIntersects(t *testing.T) {
	a := RectInt{0, 0, 10, 10}
	if !a.Intersects(RectInt{5, 5, 10, 10}) {
		t.Error("overlapping rects reported disjoint")
	}
	if a.Intersects(RectInt{10, 0, 10, 10}) {
		t.Error("edge-adjacent rects reported overlapping")
	}
}

func TestConvexHullAndArea(t *testing.T) {
	// Unit square with an interior point; hull must drop the interior point.
	pts := []Point2D{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0.5, 0.5}}
	hull := ConvexHull(pts)
	if len(hull) != 4 {
		t.Fatalf("hull has %d vertices, want 4: %v", len(hull), hull)
	}
	if area := PolygonArea(hull); math.Abs(area-1.0) > 1e-9 {
		t.Errorf("hull area = %v, want 1", area)
	}
}
