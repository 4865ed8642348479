package ocr

import "testing"

func TestCleanLabel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims and collapses whitespace", "  exp-042 \n b3  ", "EXP-042 B3"},
		{"already clean", "PLATE_7", "PLATE_7"},
		{"empty", "   \n ", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanLabel(tc.in); got != tc.want {
				t.Errorf("CleanLabel(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
