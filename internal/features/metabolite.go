package features

import (
	"image"
	"math"

	"colony-scan/pkg/colorutil"

	"gocv.io/x/gocv"
)

// Metabolite measures pigment production on back-side (agar side) images,
// where secreted pigments show as colored halos and stained agar.
type Metabolite struct{}

// NewMetabolite creates the back-orientation extractor.
func NewMetabolite() *Metabolite { return &Metabolite{} }

func (m *Metabolite) Name() string { return "metabolite" }

// Extract computes the colony's mean pigment color in HSV, its contrast
// against the surrounding agar, and the pigmented fraction of the colony.
func (m *Metabolite) Extract(img, mask gocv.Mat) (map[string]float64, error) {
	if err := validateInputs(img, mask); err != nil {
		return nil, err
	}

	out := map[string]float64{
		"pigment_hue":        0,
		"pigment_saturation": 0,
		"pigment_value":      0,
		"pigment_contrast":   0,
		"pigment_area_ratio": 0,
	}

	bin := binarize(mask)
	defer bin.Close()
	if gocv.CountNonZero(bin) == 0 || img.Channels() != 3 {
		return out, nil
	}

	colonyMean := img.MeanWithMask(bin)
	h, s, v := colorutil.RGBToHSV(colonyMean.Val3, colonyMean.Val2, colonyMean.Val1)
	out["pigment_hue"] = h
	out["pigment_saturation"] = s
	out["pigment_value"] = v

	// Surrounding agar: a dilated ring around the colony
	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(3, 3))
	defer kernel.Close()

	ring := gocv.NewMat()
	defer ring.Close()
	bin.CopyTo(&ring)
	for i := 0; i < 5; i++ {
		gocv.Dilate(ring, &ring, kernel)
	}
	gocv.Subtract(ring, bin, &ring)

	if gocv.CountNonZero(ring) > 0 {
		agarMean := img.MeanWithMask(ring)
		db := colonyMean.Val1 - agarMean.Val1
		dg := colonyMean.Val2 - agarMean.Val2
		dr := colonyMean.Val3 - agarMean.Val3
		out["pigment_contrast"] = math.Sqrt(db*db + dg*dg + dr*dr)
	}

	// Per-pixel pigmented fraction via the saturation channel
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(img, &hsv, gocv.ColorBGRToHSV)

	colonyPixels, pigmented := 0, 0
	for y := 0; y < hsv.Rows(); y++ {
		for x := 0; x < hsv.Cols(); x++ {
			if bin.GetUCharAt(y, x) == 0 {
				continue
			}
			colonyPixels++
			if hsv.GetUCharAt(y, x*3+1) > 40 {
				pigmented++
			}
		}
	}
	if colonyPixels > 0 {
		out["pigment_area_ratio"] = float64(pigmented) / float64(colonyPixels)
	}

	return out, nil
}
