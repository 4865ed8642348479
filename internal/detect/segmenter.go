// Package detect finds colony regions with classic computer vision and
// builds the colony records the analyzer consumes. Its Segmenter implements
// the same capability contract as the neural backend, so the pipeline runs
// on plain thresholding when no model checkpoint is available.
package detect

import (
	"fmt"
	"image"
	"image/color"

	"colony-scan/internal/sam"

	"gocv.io/x/gocv"
)

// Options configures threshold segmentation.
type Options struct {
	// Invert when colonies are darker than the agar background.
	Invert bool
	// CleanupIterations controls morphological open/close strength.
	CleanupIterations int
	// MinRegionArea discards specks below this contour area.
	MinRegionArea float64
}

// DefaultOptions returns detection defaults tuned for bright colonies on
// dark agar.
func DefaultOptions() Options {
	return Options{
		Invert:            false,
		CleanupIterations: 2,
		MinRegionArea:     50,
	}
}

// Segmenter is an Otsu-threshold region proposer. It satisfies both
// sam.Generator and sam.Predictor. Like the neural predictor, SetImage
// mutates its state, so a single Segmenter is not safe for concurrent use.
type Segmenter struct {
	opts    Options
	workImg gocv.Mat
}

// NewSegmenter creates a threshold segmenter.
func NewSegmenter(opts Options) *Segmenter {
	return &Segmenter{opts: opts, workImg: gocv.NewMat()}
}

// Close releases the working image.
func (s *Segmenter) Close() {
	s.workImg.Close()
}

// Generate proposes one candidate per connected bright region.
func (s *Segmenter) Generate(img gocv.Mat) ([]sam.MaskCandidate, error) {
	if img.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	binary := s.binarize(img)
	defer binary.Close()

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var candidates []sam.MaskCandidate
	for i := 0; i < contours.Size(); i++ {
		contourArea := gocv.ContourArea(contours.At(i))
		if contourArea < s.opts.MinRegionArea {
			continue
		}

		mask := gocv.Zeros(img.Rows(), img.Cols(), gocv.MatTypeCV8U)
		gocv.DrawContours(&mask, contours, i, color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)

		candidates = append(candidates, sam.MaskCandidate{
			Mask:           mask,
			StabilityScore: regionScore(contours.At(i), contourArea),
			Area:           gocv.CountNonZero(mask),
		})
	}

	return candidates, nil
}

// SetImage establishes the working image for subsequent Predict calls.
func (s *Segmenter) SetImage(img gocv.Mat) error {
	if img.Empty() {
		return fmt.Errorf("empty image")
	}
	img.CopyTo(&s.workImg)
	return nil
}

// Predict segments the working image restricted to the prompts: regions
// outside the box are discarded, and when point prompts are given only the
// region containing a foreground point qualifies. Returns up to three
// candidate masks, best region first.
func (s *Segmenter) Predict(points []image.Point, pointLabels []int, box *image.Rectangle, multimask bool) ([]gocv.Mat, []float64, error) {
	if s.workImg.Empty() {
		return nil, nil, fmt.Errorf("predict before SetImage")
	}

	binary := s.binarize(s.workImg)
	defer binary.Close()

	if box != nil {
		restrictToBox(&binary, *box)
	}

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	type region struct {
		index int
		area  float64
	}
	var regions []region
	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if area < s.opts.MinRegionArea {
			continue
		}
		if !containsForegroundPoint(contours.At(i), points, pointLabels) {
			continue
		}
		regions = append(regions, region{index: i, area: area})
	}
	if len(regions) == 0 {
		return nil, nil, fmt.Errorf("no region matches the prompts")
	}

	// Largest regions first
	for i := 0; i < len(regions)-1; i++ {
		for j := i + 1; j < len(regions); j++ {
			if regions[j].area > regions[i].area {
				regions[i], regions[j] = regions[j], regions[i]
			}
		}
	}
	limit := len(regions)
	if !multimask {
		limit = 1
	} else if limit > 3 {
		limit = 3
	}

	masks := make([]gocv.Mat, 0, limit)
	scores := make([]float64, 0, limit)
	for _, reg := range regions[:limit] {
		mask := gocv.Zeros(s.workImg.Rows(), s.workImg.Cols(), gocv.MatTypeCV8U)
		gocv.DrawContours(&mask, contours, reg.index, color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)
		masks = append(masks, mask)
		scores = append(scores, regionScore(contours.At(reg.index), reg.area))
	}

	return masks, scores, nil
}

// binarize thresholds the image with Otsu and cleans the result up
// morphologically. The caller owns the returned mask.
func (s *Segmenter) binarize(img gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	defer gray.Close()
	if img.Channels() == 1 {
		img.CopyTo(&gray)
	} else {
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	}

	gocv.GaussianBlur(gray, &gray, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	thresholdType := gocv.ThresholdBinary
	if s.opts.Invert {
		thresholdType = gocv.ThresholdBinaryInv
	}
	binary := gocv.NewMat()
	gocv.Threshold(gray, &binary, 0, 255, thresholdType|gocv.ThresholdOtsu)

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(3, 3))
	defer kernel.Close()
	for i := 0; i < s.opts.CleanupIterations; i++ {
		gocv.MorphologyEx(binary, &binary, gocv.MorphOpen, kernel)
		gocv.MorphologyEx(binary, &binary, gocv.MorphClose, kernel)
	}

	return binary
}

// regionScore rates a region by how well it fills its bounding box, a crude
// stand-in for the neural model's stability score. Compact round colonies
// score near pi/4, noise streaks much lower.
func regionScore(contour gocv.PointVector, area float64) float64 {
	rect := gocv.BoundingRect(contour)
	boxArea := float64(rect.Dx() * rect.Dy())
	if boxArea == 0 {
		return 0
	}
	score := area / boxArea
	if score > 1 {
		score = 1
	}
	return score
}

// restrictToBox zeroes every binary pixel outside the prompt box.
func restrictToBox(binary *gocv.Mat, box image.Rectangle) {
	bounded := box.Intersect(image.Rect(0, 0, binary.Cols(), binary.Rows()))
	masked := gocv.Zeros(binary.Rows(), binary.Cols(), gocv.MatTypeCV8U)
	defer masked.Close()

	if !bounded.Empty() {
		roiSrc := binary.Region(bounded)
		roiDst := masked.Region(bounded)
		roiSrc.CopyTo(&roiDst)
		roiSrc.Close()
		roiDst.Close()
	}
	masked.CopyTo(binary)
}

// containsForegroundPoint reports whether any foreground-labeled prompt
// point lies inside the contour. With no point prompts every region
// qualifies.
func containsForegroundPoint(contour gocv.PointVector, points []image.Point, labels []int) bool {
	if len(points) == 0 {
		return true
	}
	for i, p := range points {
		if i < len(labels) && labels[i] != sam.LabelForeground {
			continue
		}
		if gocv.PointPolygonTest(contour, image.Pt(p.X, p.Y), false) >= 0 {
			return true
		}
	}
	return false
}
