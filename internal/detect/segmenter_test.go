package detect

import (
	"image"
	"image/color"
	"testing"

	"colony-scan/internal/sam"
	"colony-scan/pkg/geometry"

	"gocv.io/x/gocv"
)

// testPlate builds a dark BGR plate with bright filled squares.
func testPlate(t *testing.T, width, height int, squares ...image.Rectangle) gocv.Mat {
	t.Helper()
	img := gocv.Zeros(height, width, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { img.Close() })
	for _, sq := range squares {
		gocv.Rectangle(&img, sq, color.RGBA{R: 230, G: 230, B: 230, A: 255}, -1)
	}
	return img
}

func closeCandidates(cands []sam.MaskCandidate) {
	for i := range cands {
		cands[i].Mask.Close()
	}
}

func TestGenerateFindsSeparateRegions(t *testing.T) {
	img := testPlate(t, 120, 80,
		image.Rect(10, 10, 35, 35),
		image.Rect(70, 40, 100, 70),
	)

	seg := NewSegmenter(DefaultOptions())
	defer seg.Close()

	cands, err := seg.Generate(img)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	defer closeCandidates(cands)

	if len(cands) != 2 {
		t.Fatalf("got %d candidates, want 2", len(cands))
	}
	for i, c := range cands {
		if c.Area < 300 {
			t.Errorf("candidate %d area = %d, want a few hundred pixels", i, c.Area)
		}
		if c.StabilityScore <= 0 || c.StabilityScore > 1 {
			t.Errorf("candidate %d score = %v, want (0, 1]", i, c.StabilityScore)
		}
	}
}

func TestGenerateDropsTinyRegions(t *testing.T) {
	img := testPlate(t, 100, 100,
		image.Rect(10, 10, 40, 40),
		image.Rect(70, 70, 73, 73),
	)

	seg := NewSegmenter(DefaultOptions())
	defer seg.Close()

	cands, err := seg.Generate(img)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	defer closeCandidates(cands)

	if len(cands) != 1 {
		t.Fatalf("got %d candidates, want 1 (speck filtered)", len(cands))
	}
}

func TestGenerateEmptyImage(t *testing.T) {
	seg := NewSegmenter(DefaultOptions())
	defer seg.Close()

	empty := gocv.NewMat()
	defer empty.Close()
	if _, err := seg.Generate(empty); err == nil {
		t.Fatal("expected error for empty image")
	}
}

func TestPredictRequiresSetImage(t *testing.T) {
	seg := NewSegmenter(DefaultOptions())
	defer seg.Close()

	if _, _, err := seg.Predict(nil, nil, nil, false); err == nil {
		t.Fatal("expected error before SetImage")
	}
}

func TestPredictBoxSelectsRegion(t *testing.T) {
	img := testPlate(t, 120, 80,
		image.Rect(10, 10, 35, 35),
		image.Rect(70, 40, 100, 70),
	)

	seg := NewSegmenter(DefaultOptions())
	defer seg.Close()
	if err := seg.SetImage(img); err != nil {
		t.Fatalf("SetImage: %v", err)
	}

	box := image.Rect(60, 30, 110, 78)
	masks, scores, err := seg.Predict(nil, nil, &box, false)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	defer func() {
		for i := range masks {
			masks[i].Close()
		}
	}()

	if len(masks) != 1 || len(scores) != 1 {
		t.Fatalf("got %d masks %d scores, want 1 each", len(masks), len(scores))
	}
	// The selected region must lie inside the box, not in the other square.
	if masks[0].GetUCharAt(50, 85) == 0 {
		t.Error("mask missing the in-box region")
	}
	if masks[0].GetUCharAt(20, 20) != 0 {
		t.Error("mask leaked into the out-of-box region")
	}
}

func TestPredictEmptyBoxFails(t *testing.T) {
	img := testPlate(t, 120, 80, image.Rect(10, 10, 35, 35))

	seg := NewSegmenter(DefaultOptions())
	defer seg.Close()
	if err := seg.SetImage(img); err != nil {
		t.Fatalf("SetImage: %v", err)
	}

	box := image.Rect(60, 50, 110, 75)
	if _, _, err := seg.Predict(nil, nil, &box, false); err == nil {
		t.Fatal("expected error when the box contains no region")
	}
}

func TestPredictForegroundPointFilters(t *testing.T) {
	img := testPlate(t, 120, 80,
		image.Rect(10, 10, 35, 35),
		image.Rect(70, 40, 100, 70),
	)

	seg := NewSegmenter(DefaultOptions())
	defer seg.Close()
	if err := seg.SetImage(img); err != nil {
		t.Fatalf("SetImage: %v", err)
	}

	masks, _, err := seg.Predict(
		[]image.Point{image.Pt(20, 20), image.Pt(85, 55)},
		[]int{sam.LabelForeground, sam.LabelBackground},
		nil, true)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	defer func() {
		for i := range masks {
			masks[i].Close()
		}
	}()

	if len(masks) != 1 {
		t.Fatalf("got %d masks, want 1 (only the foreground-pointed region)", len(masks))
	}
	if masks[0].GetUCharAt(20, 20) == 0 {
		t.Error("mask missing the pointed region")
	}
}

func TestBuildRecordsWellsAndCrossBoundary(t *testing.T) {
	plate := testPlate(t, 100, 100)
	grid := geometry.GridSpec{Rows: 2, Cols: 2, Padding: 0.05}

	single := gocv.Zeros(100, 100, gocv.MatTypeCV8U)
	defer single.Close()
	gocv.Rectangle(&single, image.Rect(10, 10, 30, 30), color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)

	spanning := gocv.Zeros(100, 100, gocv.MatTypeCV8U)
	defer spanning.Close()
	gocv.Rectangle(&spanning, image.Rect(30, 30, 70, 44), color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)

	blank := gocv.Zeros(100, 100, gocv.MatTypeCV8U)
	defer blank.Close()

	mapper := NewPlateMapper(grid)
	records, err := mapper.BuildRecords(plate, []sam.MaskCandidate{
		{Mask: single, StabilityScore: 0.9},
		{Mask: spanning, StabilityScore: 1.7},
		{Mask: blank, StabilityScore: 0.5},
	})
	if err != nil {
		t.Fatalf("BuildRecords: %v", err)
	}
	defer func() {
		for _, r := range records {
			r.Close()
		}
	}()

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (blank mask skipped)", len(records))
	}

	first := records[0]
	if first.ID != "colony-001" {
		t.Errorf("ID = %q, want colony-001", first.ID)
	}
	if first.Well != "A1" {
		t.Errorf("Well = %q, want A1", first.Well)
	}
	if first.CrossBoundary {
		t.Error("single-cell colony flagged cross-boundary")
	}
	if first.QualityScore != 0.9 {
		t.Errorf("QualityScore = %v, want 0.9", first.QualityScore)
	}
	if first.Img.Empty() || first.Mask.Empty() {
		t.Error("record crop is empty")
	}
	if first.Img.Rows() != first.Mask.Rows() || first.Img.Cols() != first.Mask.Cols() {
		t.Error("image and mask crops disagree on size")
	}

	second := records[1]
	if !second.CrossBoundary {
		t.Fatal("spanning colony not flagged cross-boundary")
	}
	if len(second.OverlappingWells) != 2 ||
		second.OverlappingWells[0] != "A1" || second.OverlappingWells[1] != "A2" {
		t.Errorf("OverlappingWells = %v, want [A1 A2]", second.OverlappingWells)
	}
	if second.Well != "A1" {
		t.Errorf("Well = %q, want primary well A1", second.Well)
	}
	if second.QualityScore != 1 {
		t.Errorf("QualityScore = %v, want clamped to 1", second.QualityScore)
	}
}

func TestBuildRecordsEmptyPlate(t *testing.T) {
	mapper := NewPlateMapper(geometry.DefaultGrid())
	empty := gocv.NewMat()
	defer empty.Close()
	if _, err := mapper.BuildRecords(empty, nil); err == nil {
		t.Fatal("expected error for empty plate image")
	}
}
