// Package features computes numeric morphological and metabolic descriptors
// from a colony crop and its mask. Extractors are pure functions of their
// inputs and use disjoint feature keys, so their outputs can be merged into
// one feature map without collisions.
package features

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Extractor computes a named set of features from an image and its binary
// region-of-interest mask.
type Extractor interface {
	Name() string
	Extract(img, mask gocv.Mat) (map[string]float64, error)
}

// validateInputs rejects the input combinations no extractor can work with.
func validateInputs(img, mask gocv.Mat) error {
	if img.Empty() {
		return fmt.Errorf("empty image")
	}
	if mask.Empty() {
		return fmt.Errorf("empty mask")
	}
	if mask.Channels() != 1 {
		return fmt.Errorf("mask must be single-channel, got %d channels", mask.Channels())
	}
	if img.Rows() != mask.Rows() || img.Cols() != mask.Cols() {
		return fmt.Errorf("image %dx%d and mask %dx%d differ in size",
			img.Rows(), img.Cols(), mask.Rows(), mask.Cols())
	}
	return nil
}

// maskedGrayValues returns the grayscale values of every mask pixel.
func maskedGrayValues(gray, mask gocv.Mat) []float64 {
	vals := make([]float64, 0, gocv.CountNonZero(mask))
	for y := 0; y < gray.Rows(); y++ {
		for x := 0; x < gray.Cols(); x++ {
			if mask.GetUCharAt(y, x) > 0 {
				vals = append(vals, float64(gray.GetUCharAt(y, x)))
			}
		}
	}
	return vals
}

// toGray converts a BGR image to grayscale; single-channel input is cloned.
func toGray(img gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	if img.Channels() == 1 {
		img.CopyTo(&gray)
	} else {
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	}
	return gray
}

// binarize normalizes a mask to strict 0/255 values.
func binarize(mask gocv.Mat) gocv.Mat {
	bin := gocv.NewMat()
	gocv.Threshold(mask, &bin, 0, 255, gocv.ThresholdBinary)
	return bin
}
