// Package ocr reads printed plate labels (experiment IDs, strain codes,
// dates) off plate photographs with Tesseract.
package ocr

import (
	"fmt"
	"image"
	"strings"

	"colony-scan/pkg/geometry"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// LabelChars is the character set accepted on plate labels. Lowercase is
// excluded since lab printers emit uppercase codes and it cuts 0/O and 1/I
// confusion.
const LabelChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ-_."

// Reader recognizes plate label text.
type Reader struct {
	client *gosseract.Client
}

// NewReader creates a label reader. Close must be called to release the
// Tesseract client.
func NewReader() (*Reader, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// Plate IDs like EXP-042_B3 are not dictionary words; stop Tesseract
	// from "correcting" them.
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")
	_ = client.SetVariable("language_model_penalty_non_dict_word", "0")

	return &Reader{client: client}, nil
}

// Close releases OCR resources.
func (r *Reader) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// ReadRegion recognizes the label text inside the given region of the plate
// image.
func (r *Reader) ReadRegion(img gocv.Mat, bounds geometry.RectInt) (string, error) {
	if img.Empty() {
		return "", fmt.Errorf("empty image")
	}

	clamped := bounds.Clamp(img.Cols(), img.Rows())
	if clamped.Area() == 0 {
		return "", fmt.Errorf("label region outside image")
	}

	region := img.Region(clamped.ToImageRect())
	defer region.Close()

	processed := prepareLabel(region)
	defer processed.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, processed)
	if err != nil {
		return "", fmt.Errorf("failed to encode label region: %w", err)
	}
	defer buf.Close()

	if err := r.client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("failed to set page mode: %w", err)
	}
	if err := r.client.SetWhitelist(LabelChars); err != nil {
		return "", fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := r.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := r.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return CleanLabel(text), nil
}

// ReadImage recognizes label text across the whole image, for cropped label
// photos.
func (r *Reader) ReadImage(img gocv.Mat) (string, error) {
	return r.ReadRegion(img, geometry.RectInt{Width: img.Cols(), Height: img.Rows()})
}

// CleanLabel normalizes raw OCR output into a label string: whitespace runs
// collapse to single spaces and the text is uppercased.
func CleanLabel(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	return strings.ToUpper(text)
}

// prepareLabel readies a label crop for recognition: upscale, boost
// contrast, binarize, and make sure the text is dark on light.
func prepareLabel(region gocv.Mat) gocv.Mat {
	minDim := region.Rows()
	if region.Cols() < minDim {
		minDim = region.Cols()
	}

	var scaled gocv.Mat
	if minDim > 0 && minDim < 150 {
		scale := 150.0 / float64(minDim)
		scaled = gocv.NewMat()
		gocv.Resize(region, &scaled, image.Point{}, scale, scale, gocv.InterpolationCubic)
	} else {
		scaled = region.Clone()
	}

	gray := gocv.NewMat()
	if scaled.Channels() == 1 {
		scaled.CopyTo(&gray)
	} else {
		gocv.CvtColor(scaled, &gray, gocv.ColorBGRToGray)
	}
	scaled.Close()

	clahe := gocv.NewCLAHEWithParams(2.0, image.Point{X: 8, Y: 8})
	defer clahe.Close()
	enhanced := gocv.NewMat()
	clahe.Apply(gray, &enhanced)
	gray.Close()

	binary := gocv.NewMat()
	gocv.Threshold(enhanced, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	enhanced.Close()

	// Tesseract expects dark text on light background.
	whiteRatio := float64(gocv.CountNonZero(binary)) / float64(binary.Rows()*binary.Cols())
	if whiteRatio < 0.5 {
		gocv.BitwiseNot(binary, &binary)
	}

	result := gocv.NewMat()
	gocv.CvtColor(binary, &result, gocv.ColorGrayToBGR)
	binary.Close()
	return result
}
