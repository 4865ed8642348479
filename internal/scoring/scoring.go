// Package scoring turns raw colony features into normalized scores and
// phenotype labels. Thresholds follow the lab's manual scoring sheet; every
// score lands on the familiar 0-10 scale.
package scoring

import "colony-scan/pkg/colorutil"

// Score scale bounds.
const (
	scoreMax = 10.0

	// Linear ramp anchors for raw feature values
	sizeFullScoreArea  = 5000.0 // px
	elevationFullScore = 40.0   // gray levels core vs margin
	pigmentSatFull     = 200.0  // HSV saturation
	pigmentMinSat      = 40.0   // below this the colony reads unpigmented
)

// Size class thresholds on equivalent diameter, in pixels.
var sizeClasses = []struct {
	maxDiameter float64
	label       string
}{
	{10, "pinpoint"},
	{25, "small"},
	{50, "medium"},
}

// System computes scores and phenotype classifications from feature maps.
// Both operations are pure with respect to their input map.
type System struct{}

// NewSystem creates a scoring system.
func NewSystem() *System { return &System{} }

// CalculateScores maps raw feature values onto 0-10 scores. Features a
// given score depends on may be absent (zero), which simply yields the
// bottom of that score's scale.
func (s *System) CalculateScores(features map[string]float64) map[string]float64 {
	scores := map[string]float64{
		"size_score":    ramp(features["area"], 0, sizeFullScoreArea),
		"shape_score":   (0.6*clamp01(features["circularity"]) + 0.4*clamp01(features["solidity"])) * scoreMax,
		"aerial_score":  0.5*ramp(features["center_elevation"], 0, elevationFullScore) + 0.5*scoreMax*clamp01(features["aerial_ratio"]),
		"pigment_score": 0.7*ramp(features["pigment_saturation"], pigmentMinSat, pigmentSatFull) + 0.3*scoreMax*clamp01(features["pigment_area_ratio"]),
	}
	return scores
}

// ClassifyPhenotype assigns categorical labels from feature values.
func (s *System) ClassifyPhenotype(features map[string]float64) map[string]string {
	phenotype := map[string]string{
		"size_class":   classifySize(features["equivalent_diameter"]),
		"form":         classifyForm(features["circularity"], features["solidity"]),
		"elevation":    classifyElevation(features["center_elevation"]),
		"pigmentation": colorutil.HueName(features["pigment_hue"], features["pigment_saturation"], pigmentMinSat),
	}
	return phenotype
}

func classifySize(equivDiameter float64) string {
	for _, c := range sizeClasses {
		if equivDiameter < c.maxDiameter {
			return c.label
		}
	}
	return "large"
}

func classifyForm(circularity, solidity float64) string {
	switch {
	case circularity >= 0.85 && solidity >= 0.9:
		return "circular"
	case solidity < 0.6:
		return "filamentous"
	default:
		return "irregular"
	}
}

func classifyElevation(centerElevation float64) string {
	if centerElevation > 10 {
		return "raised"
	}
	return "flat"
}

// ramp maps v linearly from [lo, hi] onto [0, 10], clamping outside.
func ramp(v, lo, hi float64) float64 {
	if v <= lo {
		return 0
	}
	if v >= hi {
		return scoreMax
	}
	return (v - lo) / (hi - lo) * scoreMax
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
