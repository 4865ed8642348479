package image

import (
	"image"
	"image/color"
	"testing"
)

func TestParseOrientation(t *testing.T) {
	cases := []struct {
		in   string
		want Orientation
	}{
		{"front", Front},
		{"back", Back},
		{"BACK", Back},
		{" Back ", Back},
		{"", Front},
		{"sideways", Front},
	}
	for _, tc := range cases {
		if got := ParseOrientation(tc.in); got != tc.want {
			t.Errorf("ParseOrientation(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestGuessOrientation(t *testing.T) {
	cases := []struct {
		path string
		want Orientation
	}{
		{"plate03_back.tif", Back},
		{"scans/day4/agar_side.png", Back},
		{"plate03_front.tif", Front},
		{"colonies.jpg", Front},
	}
	for _, tc := range cases {
		if got := GuessOrientation(tc.path); got != tc.want {
			t.Errorf("GuessOrientation(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestMatRoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 3))
	src.Set(1, 2, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	mat, err := ToMat(src)
	if err != nil {
		t.Fatalf("ToMat: %v", err)
	}
	defer mat.Close()

	if mat.Rows() != 3 || mat.Cols() != 4 {
		t.Fatalf("mat is %dx%d, want 3x4", mat.Rows(), mat.Cols())
	}

	// BGR order in the mat
	if b := mat.GetUCharAt(2, 1*3+0); b != 50 {
		t.Errorf("B = %d, want 50", b)
	}
	if r := mat.GetUCharAt(2, 1*3+2); r != 200 {
		t.Errorf("R = %d, want 200", r)
	}

	back, err := ToImage(mat)
	if err != nil {
		t.Fatalf("ToImage: %v", err)
	}
	r, g, b, _ := back.At(1, 2).RGBA()
	if uint8(r>>8) != 200 || uint8(g>>8) != 100 || uint8(b>>8) != 50 {
		t.Errorf("round trip pixel = (%d,%d,%d), want (200,100,50)", r>>8, g>>8, b>>8)
	}
}

func TestToMatEmptyImage(t *testing.T) {
	if _, err := ToMat(image.NewRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Error("expected error for empty image")
	}
}
