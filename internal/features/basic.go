package features

import (
	"math"

	"colony-scan/pkg/geometry"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"
)

// Basic measures colony shape and overall intensity: the descriptors every
// downstream score builds on.
type Basic struct{}

// NewBasic creates the base extractor.
func NewBasic() *Basic { return &Basic{} }

func (b *Basic) Name() string { return "basic" }

// Extract computes area, perimeter, circularity, equivalent diameter,
// solidity, and masked intensity statistics.
func (b *Basic) Extract(img, mask gocv.Mat) (map[string]float64, error) {
	if err := validateInputs(img, mask); err != nil {
		return nil, err
	}

	bin := binarize(mask)
	defer bin.Close()

	area := float64(gocv.CountNonZero(bin))
	out := map[string]float64{
		"area":                area,
		"perimeter":           0,
		"circularity":         0,
		"equivalent_diameter": 0,
		"solidity":            0,
	}
	if area == 0 {
		out["mean_intensity"] = 0
		out["intensity_std"] = 0
		return out, nil
	}

	out["equivalent_diameter"] = math.Sqrt(4 * area / math.Pi)

	contours := gocv.FindContours(bin, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() > 0 {
		// Largest contour is the colony outline
		largest := 0
		largestArea := 0.0
		for i := 0; i < contours.Size(); i++ {
			if a := gocv.ContourArea(contours.At(i)); a > largestArea {
				largest, largestArea = i, a
			}
		}
		outline := contours.At(largest)

		perimeter := gocv.ArcLength(outline, true)
		out["perimeter"] = perimeter
		if perimeter > 0 {
			out["circularity"] = math.Min(1.0, 4*math.Pi*largestArea/(perimeter*perimeter))
		}

		pts := outline.ToPoints()
		hullPts := make([]geometry.Point2D, len(pts))
		for i, p := range pts {
			hullPts[i] = geometry.Point2D{X: float64(p.X), Y: float64(p.Y)}
		}
		if hullArea := geometry.PolygonArea(geometry.ConvexHull(hullPts)); hullArea > 0 {
			out["solidity"] = math.Min(1.0, largestArea/hullArea)
		}
	}

	gray := toGray(img)
	defer gray.Close()

	vals := maskedGrayValues(gray, bin)
	out["mean_intensity"] = stat.Mean(vals, nil)
	if len(vals) > 1 {
		out["intensity_std"] = stat.StdDev(vals, nil)
	} else {
		out["intensity_std"] = 0
	}

	return out, nil
}
