package scoring

import "testing"

func TestCalculateScoresBounds(t *testing.T) {
	sys := NewSystem()

	cases := []struct {
		name     string
		features map[string]float64
	}{
		{"empty features", map[string]float64{}},
		{"typical colony", map[string]float64{
			"area": 1200, "circularity": 0.9, "solidity": 0.95,
			"center_elevation": 20, "aerial_ratio": 0.3,
			"pigment_saturation": 120, "pigment_area_ratio": 0.8,
		}},
		{"out of range raw values", map[string]float64{
			"area": 1e9, "circularity": 5, "solidity": -2,
			"center_elevation": 1e6, "aerial_ratio": 7,
			"pigment_saturation": 1e4, "pigment_area_ratio": -1,
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			scores := sys.CalculateScores(tc.features)
			for _, key := range []string{"size_score", "shape_score", "aerial_score", "pigment_score"} {
				v, ok := scores[key]
				if !ok {
					t.Errorf("missing score %q", key)
					continue
				}
				if v < 0 || v > 10 {
					t.Errorf("%s = %v, want within [0, 10]", key, v)
				}
			}
		})
	}
}

func TestSizeScoreMonotonic(t *testing.T) {
	sys := NewSystem()
	prev := -1.0
	for _, area := range []float64{0, 100, 1000, 5000, 10000} {
		score := sys.CalculateScores(map[string]float64{"area": area})["size_score"]
		if score < prev {
			t.Errorf("size_score decreased from %v to %v at area %v", prev, score, area)
		}
		prev = score
	}
}

func TestClassifyPhenotype(t *testing.T) {
	sys := NewSystem()

	cases := []struct {
		name     string
		features map[string]float64
		field    string
		want     string
	}{
		{"pinpoint", map[string]float64{"equivalent_diameter": 5}, "size_class", "pinpoint"},
		{"small", map[string]float64{"equivalent_diameter": 15}, "size_class", "small"},
		{"medium", map[string]float64{"equivalent_diameter": 40}, "size_class", "medium"},
		{"large", map[string]float64{"equivalent_diameter": 80}, "size_class", "large"},
		{"circular", map[string]float64{"circularity": 0.9, "solidity": 0.95}, "form", "circular"},
		{"filamentous", map[string]float64{"circularity": 0.3, "solidity": 0.4}, "form", "filamentous"},
		{"irregular", map[string]float64{"circularity": 0.7, "solidity": 0.8}, "form", "irregular"},
		{"raised", map[string]float64{"center_elevation": 25}, "elevation", "raised"},
		{"flat", map[string]float64{"center_elevation": 2}, "elevation", "flat"},
		{"red pigment", map[string]float64{"pigment_hue": 5, "pigment_saturation": 180}, "pigmentation", "red"},
		{"unpigmented", map[string]float64{"pigment_hue": 90, "pigment_saturation": 10}, "pigmentation", "none"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := sys.ClassifyPhenotype(tc.features)[tc.field]; got != tc.want {
				t.Errorf("%s = %q, want %q", tc.field, got, tc.want)
			}
		})
	}
}
