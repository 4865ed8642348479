// Package sam wraps a promptable segmentation capability and exposes the
// segmentation strategies used for colony discovery: whole-image automatic
// segmentation, grid-prompted segmentation, single-prompt segmentation, and
// morphological diffusion-zone estimation.
package sam

import (
	"image"

	"gocv.io/x/gocv"
)

// MaskCandidate is one region proposed by the automatic mask generator:
// a binary mask, its stability score, and its pixel area. Candidates are
// ephemeral; callers own the mask Mats of whatever they keep.
type MaskCandidate struct {
	Mask           gocv.Mat
	StabilityScore float64
	Area           int
}

// Generator is the unprompted mode of the segmentation capability: given an
// image, propose every region it can find.
type Generator interface {
	Generate(img gocv.Mat) ([]MaskCandidate, error)
}

// Point prompt labels, matching the underlying model's convention.
const (
	LabelBackground = 0
	LabelForeground = 1
)

// Predictor is the prompted mode of the segmentation capability. SetImage
// establishes the working image and mutates predictor state; Predict is only
// meaningful after it. A single Predictor is not safe for concurrent use.
type Predictor interface {
	SetImage(img gocv.Mat) error
	Predict(points []image.Point, pointLabels []int, box *image.Rectangle, multimask bool) (masks []gocv.Mat, scores []float64, err error)
}
