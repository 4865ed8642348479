package sam

import (
	"fmt"
	"image"

	"colony-scan/pkg/geometry"

	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// Default parameters for grid and diffusion operations.
const (
	DefaultGridPadding     = 0.05
	DefaultExpansionPixels = 15
)

// Engine drives the segmentation capability. The zero value is not usable;
// construct with New.
type Engine struct {
	generator Generator
	predictor Predictor
	log       *zap.SugaredLogger
}

// New creates an Engine over the given capability. Both modes are required;
// a nil generator or predictor is a construction-time failure, not something
// recovered later.
func New(generator Generator, predictor Predictor, log *zap.SugaredLogger) (*Engine, error) {
	if generator == nil {
		return nil, fmt.Errorf("sam: nil mask generator")
	}
	if predictor == nil {
		return nil, fmt.Errorf("sam: nil predictor")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{generator: generator, predictor: predictor, log: log}, nil
}

// Ready reports whether the engine's required components are initialized.
func (e *Engine) Ready() bool {
	return e != nil && e.generator != nil && e.predictor != nil
}

// SegmentEverything runs unprompted segmentation over the whole image and
// filters candidates by pixel area. minArea <= 0 disables the lower bound,
// maxArea <= 0 the upper one. Masks and scores are parallel slices in
// generator order. An empty candidate list is an empty result, not an error.
func (e *Engine) SegmentEverything(img gocv.Mat, minArea, maxArea int) ([]gocv.Mat, []float64, error) {
	pre, owned := normalizeChannels(img)
	if owned {
		defer pre.Close()
	}

	candidates, err := e.generator.Generate(pre)
	if err != nil {
		return nil, nil, fmt.Errorf("automatic segmentation failed: %w", err)
	}

	masks := []gocv.Mat{}
	scores := []float64{}

	for _, cand := range candidates {
		if minArea > 0 && cand.Area < minArea {
			cand.Mask.Close()
			continue
		}
		if maxArea > 0 && cand.Area > maxArea {
			cand.Mask.Close()
			continue
		}
		masks = append(masks, cand.Mask)
		scores = append(scores, cand.StabilityScore)
	}

	e.log.Debugw("automatic segmentation",
		"candidates", len(candidates), "kept", len(masks),
		"min_area", minArea, "max_area", maxArea)

	return masks, scores, nil
}

// SegmentGrid partitions the image into rows x cols cells, shrinks each cell
// by the fractional padding per side, and issues one box-prompted call per
// cell. A failed cell gets a warning and an all-zero mask; the result always
// holds exactly rows*cols masks and well labels, in row-major order.
func (e *Engine) SegmentGrid(img gocv.Mat, rows, cols int, padding float64) ([]gocv.Mat, []string, error) {
	if rows <= 0 || cols <= 0 {
		return nil, nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", rows, cols)
	}

	pre, owned := normalizeChannels(img)
	if owned {
		defer pre.Close()
	}

	height, width := pre.Rows(), pre.Cols()
	grid := geometry.GridSpec{Rows: rows, Cols: cols, Padding: padding}

	masks := make([]gocv.Mat, 0, rows*cols)
	labels := make([]string, 0, rows*cols)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			label := geometry.WellLabel(r, c)
			box := grid.PaddedCellRect(width, height, r, c).ToImageRect()

			mask, _, err := e.SegmentWithPrompts(pre, nil, nil, &box)
			if err != nil {
				e.log.Warnw("grid cell segmentation failed", "well", label, "error", err)
				mask = gocv.Zeros(height, width, gocv.MatTypeCV8U)
			}

			masks = append(masks, mask)
			labels = append(labels, label)
		}
	}

	return masks, labels, nil
}

// SegmentWithPrompts runs prompted segmentation with any combination of
// point prompts and a bounding box, and returns the highest-scoring of the
// candidate masks together with its score. Supplying at least one prompt
// form is the caller's responsibility.
func (e *Engine) SegmentWithPrompts(img gocv.Mat, points []image.Point, pointLabels []int, box *image.Rectangle) (gocv.Mat, float64, error) {
	pre, owned := normalizeChannels(img)
	if owned {
		defer pre.Close()
	}

	if err := e.predictor.SetImage(pre); err != nil {
		return gocv.NewMat(), 0, fmt.Errorf("failed to set predictor image: %w", err)
	}

	masks, scores, err := e.predictor.Predict(points, pointLabels, box, true)
	if err != nil {
		return gocv.NewMat(), 0, fmt.Errorf("prompted segmentation failed: %w", err)
	}
	if len(masks) == 0 || len(masks) != len(scores) {
		return gocv.NewMat(), 0, fmt.Errorf("predictor returned %d masks for %d scores", len(masks), len(scores))
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	for i, m := range masks {
		if i != best {
			m.Close()
		}
	}

	return masks[best], scores[best], nil
}

// FindDiffusionZone approximates the halo around a colony where secreted
// metabolites diffuse: the colony mask is dilated with a 3x3 kernel for
// max(1, expansionPixels/3) iterations, and the zone is the dilated area
// minus the original mask. The image is accepted only for shape
// compatibility with the caller's record. The caller owns the returned mask.
func (e *Engine) FindDiffusionZone(img gocv.Mat, colonyMask gocv.Mat, expansionPixels int) (gocv.Mat, error) {
	if colonyMask.Empty() {
		return gocv.NewMat(), fmt.Errorf("empty colony mask")
	}

	iterations := max(1, expansionPixels/3)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(colonyMask, &binary, 0, 255, gocv.ThresholdBinary)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer kernel.Close()

	dilated := gocv.NewMat()
	defer dilated.Close()
	binary.CopyTo(&dilated)
	for i := 0; i < iterations; i++ {
		gocv.Dilate(dilated, &dilated, kernel)
	}

	// 0/255 values make the saturated subtraction exactly the set difference
	diffusion := gocv.NewMat()
	gocv.Subtract(dilated, binary, &diffusion)

	return diffusion, nil
}
