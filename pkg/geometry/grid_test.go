package geometry

import (
	"reflect"
	"testing"
)

func TestWellLabel(t *testing.T) {
	cases := []struct {
		row, col int
		want     string
	}{
		{0, 0, "A1"},
		{2, 3, "C4"},
		{7, 11, "H12"},
		{25, 0, "Z1"},
	}
	for _, tc := range cases {
		if got := WellLabel(tc.row, tc.col); got != tc.want {
			t.Errorf("WellLabel(%d, %d) = %q, want %q", tc.row, tc.col, got, tc.want)
		}
	}
}

func TestGridLabels(t *testing.T) {
	g := GridSpec{Rows: 2, Cols: 3}
	want := []string{"A1", "A2", "A3", "B1", "B2", "B3"}
	if got := g.Labels(); !reflect.DeepEqual(got, want) {
		t.Errorf("Labels() = %v, want %v", got, want)
	}
}

func TestCellRectTilesImage(t *testing.T) {
	g := GridSpec{Rows: 8, Cols: 12}
	const w, h = 1200, 800

	total := 0
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			cell := g.CellRect(w, h, r, c)
			if cell.Width <= 0 || cell.Height <= 0 {
				t.Fatalf("cell (%d,%d) has empty rect %+v", r, c, cell)
			}
			total += cell.Area()
		}
	}
	if total != w*h {
		t.Errorf("cells cover %d pixels, want %d", total, w*h)
	}
}

func TestPaddedCellRectInsideCell(t *testing.T) {
	g := GridSpec{Rows: 4, Cols: 6, Padding: 0.05}
	const w, h = 600, 400

	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			outer := g.CellRect(w, h, r, c)
			inner := g.PaddedCellRect(w, h, r, c)
			if inner.X < outer.X || inner.Y < outer.Y ||
				inner.X+inner.Width > outer.X+outer.Width ||
				inner.Y+inner.Height > outer.Y+outer.Height {
				t.Errorf("padded cell (%d,%d) %+v escapes cell %+v", r, c, inner, outer)
			}
			if inner.Area() >= outer.Area() {
				t.Errorf("padded cell (%d,%d) not shrunk: %d >= %d", r, c, inner.Area(), outer.Area())
			}
		}
	}
}

func TestWellAt(t *testing.T) {
	g := GridSpec{Rows: 2, Cols: 2}

	label, ok := g.WellAt(100, 100, PointInt{X: 75, Y: 25})
	if !ok || label != "A2" {
		t.Errorf("WellAt(75,25) = %q, %v; want A2, true", label, ok)
	}

	if _, ok := g.WellAt(100, 100, PointInt{X: 100, Y: 10}); ok {
		t.Error("WellAt outside image reported ok")
	}
}

func TestOverlappingWells(t *testing.T) {
	g := GridSpec{Rows: 2, Cols: 2}
	const w, h = 100, 100

	cases := []struct {
		name string
		rect RectInt
		want []string
	}{
		{"single cell", RectInt{X: 10, Y: 10, Width: 20, Height: 20}, []string{"A1"}},
		{"spans columns", RectInt{X: 40, Y: 10, Width: 20, Height: 20}, []string{"A1", "A2"}},
		{"spans all", RectInt{X: 40, Y: 40, Width: 20, Height: 20}, []string{"A1", "A2", "B1", "B2"}},
		{"outside", RectInt{X: 200, Y: 200, Width: 10, Height: 10}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := g.OverlappingWells(w, h, tc.rect); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("OverlappingWells(%+v) = %v, want %v", tc.rect, got, tc.want)
			}
		})
	}
}
