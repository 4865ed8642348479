package sam

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestNormalizeChannels(t *testing.T) {
	cases := []struct {
		name      string
		matType   gocv.MatType
		wantOwned bool
	}{
		{"grayscale expanded", gocv.MatTypeCV8U, true},
		{"bgr passthrough", gocv.MatTypeCV8UC3, false},
		{"alpha dropped", gocv.MatTypeCV8UC4, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := gocv.Zeros(8, 8, tc.matType)
			defer src.Close()

			out, owned := normalizeChannels(src)
			if owned {
				defer out.Close()
			}

			if owned != tc.wantOwned {
				t.Errorf("owned = %v, want %v", owned, tc.wantOwned)
			}
			if out.Channels() != 3 {
				t.Errorf("channels = %d, want 3", out.Channels())
			}
			if out.Rows() != 8 || out.Cols() != 8 {
				t.Errorf("dimensions changed to %dx%d", out.Rows(), out.Cols())
			}
		})
	}
}

func TestNormalizeChannelsPreservesPixels(t *testing.T) {
	src := gocv.Zeros(4, 4, gocv.MatTypeCV8U)
	defer src.Close()
	src.SetUCharAt(1, 2, 200)

	out, owned := normalizeChannels(src)
	if !owned {
		t.Fatal("grayscale input should allocate a new mat")
	}
	defer out.Close()

	for c := 0; c < 3; c++ {
		if got := out.GetUCharAt(1, 2*3+c); got != 200 {
			t.Errorf("channel %d at (1,2) = %d, want 200", c, got)
		}
	}
}
