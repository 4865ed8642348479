package report

import (
	"fmt"
	"image"

	"colony-scan/internal/analysis"
	"colony-scan/pkg/colorutil"
	"colony-scan/pkg/geometry"

	"gocv.io/x/gocv"
)

// RenderOverlay draws the well grid and per-colony annotations on a copy of
// the plate image. The caller owns the returned Mat.
func RenderOverlay(plate gocv.Mat, grid geometry.GridSpec, colonies []*analysis.Colony) (gocv.Mat, error) {
	if plate.Empty() {
		return gocv.NewMat(), fmt.Errorf("empty plate image")
	}

	overlay := plate.Clone()
	width, height := overlay.Cols(), overlay.Rows()

	for row := 1; row < grid.Rows; row++ {
		y := grid.CellRect(width, height, row, 0).Y
		gocv.Line(&overlay, image.Pt(0, y), image.Pt(width, y), colorutil.Cyan, 1)
	}
	for col := 1; col < grid.Cols; col++ {
		x := grid.CellRect(width, height, 0, col).X
		gocv.Line(&overlay, image.Pt(x, 0), image.Pt(x, height), colorutil.Cyan, 1)
	}

	for _, c := range colonies {
		rect := c.Bounds.ToImageRect()
		boxColor := colorutil.Green
		if c.CrossBoundary {
			boxColor = colorutil.Yellow
		}
		gocv.Rectangle(&overlay, rect, boxColor, 2)

		label := c.Well
		if label == "" {
			label = c.ID
		}
		origin := image.Pt(rect.Min.X, rect.Min.Y-4)
		if origin.Y < 12 {
			origin.Y = rect.Max.Y + 14
		}
		gocv.PutText(&overlay, label, origin, gocv.FontHersheySimplex, 0.4, colorutil.White, 1)
	}

	return overlay, nil
}

// WriteOverlay renders the annotated plate and writes it to disk.
func WriteOverlay(path string, plate gocv.Mat, grid geometry.GridSpec, colonies []*analysis.Colony) error {
	overlay, err := RenderOverlay(plate, grid, colonies)
	if err != nil {
		return err
	}
	defer overlay.Close()

	if ok := gocv.IMWrite(path, overlay); !ok {
		return fmt.Errorf("failed to write overlay to %s", path)
	}
	return nil
}
