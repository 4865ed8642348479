package geometry

import "strconv"

// GridSpec describes a regular rectangular partition of a plate image into
// addressable cells, mimicking microplate well layout (rows A, B, C, ...
// by index, columns 1-based).
type GridSpec struct {
	Rows    int     `json:"rows"`
	Cols    int     `json:"cols"`
	Padding float64 `json:"padding"` // fractional inset per cell side
}

// DefaultGrid returns the layout of a standard 96-well plate.
func DefaultGrid() GridSpec {
	return GridSpec{Rows: 8, Cols: 12, Padding: 0.05}
}

// WellLabel returns the microplate-style label for a 0-indexed row and
// column, e.g. row 2, col 3 -> "C4". Rows are assigned by offsetting the
// row index from 'A' and are not capped at 26.
func WellLabel(row, col int) string {
	return string(rune('A'+row)) + strconv.Itoa(col+1)
}

// Labels returns all well labels in row-major order.
func (g GridSpec) Labels() []string {
	labels := make([]string, 0, g.Rows*g.Cols)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			labels = append(labels, WellLabel(r, c))
		}
	}
	return labels
}

// CellRect returns the full rectangle of the cell at (row, col) for an
// image of the given pixel dimensions.
func (g GridSpec) CellRect(imgWidth, imgHeight, row, col int) RectInt {
	cellH := float64(imgHeight) / float64(g.Rows)
	cellW := float64(imgWidth) / float64(g.Cols)

	y1 := int(float64(row) * cellH)
	y2 := int(float64(row+1) * cellH)
	x1 := int(float64(col) * cellW)
	x2 := int(float64(col+1) * cellW)

	return RectInt{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// PaddedCellRect returns the cell rectangle shrunk by the grid's fractional
// padding on each side, to keep prompts away from neighboring cells.
func (g GridSpec) PaddedCellRect(imgWidth, imgHeight, row, col int) RectInt {
	cellH := float64(imgHeight) / float64(g.Rows)
	cellW := float64(imgWidth) / float64(g.Cols)

	padY := int(cellH * g.Padding)
	padX := int(cellW * g.Padding)

	y1 := int(float64(row)*cellH) + padY
	y2 := int(float64(row+1)*cellH) - padY
	x1 := int(float64(col)*cellW) + padX
	x2 := int(float64(col+1)*cellW) - padX

	return RectInt{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// WellAt returns the label of the cell containing the point, or false if
// the point lies outside the image.
func (g GridSpec) WellAt(imgWidth, imgHeight int, p PointInt) (string, bool) {
	if p.X < 0 || p.Y < 0 || p.X >= imgWidth || p.Y >= imgHeight {
		return "", false
	}
	row := p.Y * g.Rows / imgHeight
	col := p.X * g.Cols / imgWidth
	return WellLabel(row, col), true
}

// OverlappingWells returns, in row-major order, the labels of every cell
// the rectangle intersects. An empty slice means the rectangle lies
// entirely outside the image.
func (g GridSpec) OverlappingWells(imgWidth, imgHeight int, r RectInt) []string {
	clamped := r.Clamp(imgWidth, imgHeight)
	if clamped.Area() == 0 {
		return nil
	}

	var wells []string
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			if g.CellRect(imgWidth, imgHeight, row, col).Intersects(clamped) {
				wells = append(wells, WellLabel(row, col))
			}
		}
	}
	return wells
}
