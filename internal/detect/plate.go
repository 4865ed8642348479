package detect

import (
	"fmt"
	"image"

	"colony-scan/internal/analysis"
	"colony-scan/internal/sam"
	"colony-scan/pkg/geometry"

	"gocv.io/x/gocv"
)

// PlateMapper turns raw candidate masks into colony records with crops and
// well assignments.
type PlateMapper struct {
	grid geometry.GridSpec
	// CropMargin widens each colony crop beyond its mask bounds.
	CropMargin int
}

// NewPlateMapper creates a mapper over the given well grid.
func NewPlateMapper(grid geometry.GridSpec) *PlateMapper {
	return &PlateMapper{grid: grid, CropMargin: 5}
}

// BuildRecords crops one colony record per candidate mask. Empty masks are
// skipped. Records own their Mats; candidate masks remain the caller's to
// close.
func (m *PlateMapper) BuildRecords(plate gocv.Mat, candidates []sam.MaskCandidate) ([]*analysis.Colony, error) {
	if plate.Empty() {
		return nil, fmt.Errorf("empty plate image")
	}

	width, height := plate.Cols(), plate.Rows()
	var records []*analysis.Colony
	for _, cand := range candidates {
		bounds, ok := maskBounds(cand.Mask)
		if !ok {
			continue
		}

		crop := bounds.Inflate(m.CropMargin).Clamp(width, height)
		record := analysis.NewColony(fmt.Sprintf("colony-%03d", len(records)+1))
		record.Bounds = crop
		record.Img = cloneRegion(plate, crop.ToImageRect())
		record.Mask = cloneRegion(cand.Mask, crop.ToImageRect())
		record.QualityScore = clampUnit(cand.StabilityScore)

		wells := m.grid.OverlappingWells(width, height, bounds)
		if len(wells) > 0 {
			record.Well = wells[0]
		}
		if len(wells) > 1 {
			record.CrossBoundary = true
			record.OverlappingWells = wells
		}

		records = append(records, record)
	}
	return records, nil
}

// maskBounds returns the tight bounding box of the mask's foreground, or
// ok=false for an all-zero mask.
func maskBounds(mask gocv.Mat) (geometry.RectInt, bool) {
	if mask.Empty() || gocv.CountNonZero(mask) == 0 {
		return geometry.RectInt{}, false
	}

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()
	if contours.Size() == 0 {
		return geometry.RectInt{}, false
	}

	union := gocv.BoundingRect(contours.At(0))
	for i := 1; i < contours.Size(); i++ {
		union = union.Union(gocv.BoundingRect(contours.At(i)))
	}
	return geometry.FromImageRect(union), true
}

func cloneRegion(src gocv.Mat, rect image.Rectangle) gocv.Mat {
	roi := src.Region(rect)
	defer roi.Close()
	return roi.Clone()
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
