package features

import (
	"image"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"
)

// Aerial measures aerial hyphae growth on front-side images. Aerial mycelium
// reads as a bright, matte, slightly raised center, so the extractor compares
// the colony core against its margin.
type Aerial struct{}

// NewAerial creates the front-orientation extractor.
func NewAerial() *Aerial { return &Aerial{} }

func (a *Aerial) Name() string { return "aerial" }

// Extract computes core brightness, the bright-pixel fraction, core-vs-margin
// elevation, and core texture.
func (a *Aerial) Extract(img, mask gocv.Mat) (map[string]float64, error) {
	if err := validateInputs(img, mask); err != nil {
		return nil, err
	}

	out := map[string]float64{
		"aerial_brightness": 0,
		"aerial_ratio":      0,
		"center_elevation":  0,
		"aerial_texture":    0,
	}

	bin := binarize(mask)
	defer bin.Close()
	if gocv.CountNonZero(bin) == 0 {
		return out, nil
	}

	gray := toGray(img)
	defer gray.Close()

	// Erode to separate the colony core from its margin
	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(3, 3))
	defer kernel.Close()

	core := gocv.NewMat()
	defer core.Close()
	gocv.Erode(bin, &core, kernel)
	gocv.Erode(core, &core, kernel)
	if gocv.CountNonZero(core) == 0 {
		// Colony too small to have a distinct core
		bin.CopyTo(&core)
	}

	margin := gocv.NewMat()
	defer margin.Close()
	gocv.Subtract(bin, core, &margin)

	colonyVals := maskedGrayValues(gray, bin)
	coreVals := maskedGrayValues(gray, core)

	colonyMean := stat.Mean(colonyVals, nil)
	coreMean := stat.Mean(coreVals, nil)
	out["aerial_brightness"] = coreMean

	bright := 0
	for _, v := range colonyVals {
		if v > colonyMean+15 {
			bright++
		}
	}
	out["aerial_ratio"] = float64(bright) / float64(len(colonyVals))

	if gocv.CountNonZero(margin) > 0 {
		marginVals := maskedGrayValues(gray, margin)
		out["center_elevation"] = coreMean - stat.Mean(marginVals, nil)
	}

	if len(coreVals) > 1 {
		out["aerial_texture"] = stat.StdDev(coreVals, nil)
	}

	return out, nil
}
