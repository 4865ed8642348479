// Package image provides plate photograph loading and Mat conversion.
package image

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"

	_ "golang.org/x/image/tiff"
)

// Orientation indicates which side of the plate an image shows.
type Orientation int

const (
	// Front is the colony side of the plate (morphology, aerial growth).
	Front Orientation = iota
	// Back is the agar side (pigment and metabolite diffusion).
	Back
)

func (o Orientation) String() string {
	if o == Back {
		return "back"
	}
	return "front"
}

// ParseOrientation interprets an orientation string, case-insensitively.
// Anything other than "back" means Front.
func ParseOrientation(s string) Orientation {
	if strings.EqualFold(strings.TrimSpace(s), "back") {
		return Back
	}
	return Front
}

// GuessOrientation attempts to determine the plate orientation from a
// filename, e.g. "plate03_back.tif".
func GuessOrientation(path string) Orientation {
	base := strings.ToLower(filepath.Base(path))
	for _, kw := range []string{"back", "rear", "agar", "reverse"} {
		if strings.Contains(base, kw) {
			return Back
		}
	}
	return Front
}

// Load reads a plate photograph (PNG, JPEG, or TIFF) from disk.
func Load(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// LoadMat reads a plate photograph from disk as a BGR gocv.Mat.
// The caller owns the returned Mat.
func LoadMat(path string) (gocv.Mat, error) {
	img, err := Load(path)
	if err != nil {
		return gocv.NewMat(), err
	}
	return ToMat(img)
}

// ToMat converts a Go image.Image to a 3-channel BGR gocv.Mat.
// The caller owns the returned Mat.
func ToMat(srcImg image.Image) (gocv.Mat, error) {
	bounds := srcImg.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return gocv.NewMat(), fmt.Errorf("empty image")
	}

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := srcImg.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// Convert from 16-bit to 8-bit and BGR order for OpenCV
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}

	return mat, nil
}

// ToImage converts a 3-channel BGR gocv.Mat to a Go image.Image.
func ToImage(mat gocv.Mat) (image.Image, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("empty mat")
	}
	if mat.Channels() != 3 {
		return nil, fmt.Errorf("expected 3-channel mat, got %d", mat.Channels())
	}

	h, w := mat.Rows(), mat.Cols()
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		rowOffset := y * img.Stride
		for x := 0; x < w; x++ {
			pixOffset := rowOffset + x*4
			img.Pix[pixOffset+0] = mat.GetUCharAt(y, x*3+2) // R
			img.Pix[pixOffset+1] = mat.GetUCharAt(y, x*3+1) // G
			img.Pix[pixOffset+2] = mat.GetUCharAt(y, x*3+0) // B
			img.Pix[pixOffset+3] = 255
		}
	}

	return img, nil
}
