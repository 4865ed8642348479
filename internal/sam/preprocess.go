package sam

import "gocv.io/x/gocv"

// normalizeChannels converts heterogeneous input formats to the 3-channel
// BGR layout the segmentation capability expects: grayscale is expanded,
// a 4th (alpha) channel is dropped, and anything wider is truncated to the
// first three channels. The returned bool reports whether a new Mat was
// allocated, in which case the caller must Close it.
func normalizeChannels(img gocv.Mat) (gocv.Mat, bool) {
	switch ch := img.Channels(); {
	case ch == 1:
		out := gocv.NewMat()
		gocv.CvtColor(img, &out, gocv.ColorGrayToBGR)
		return out, true
	case ch == 4:
		out := gocv.NewMat()
		gocv.CvtColor(img, &out, gocv.ColorBGRAToBGR)
		return out, true
	case ch > 4:
		chans := gocv.Split(img)
		out := gocv.NewMat()
		gocv.Merge(chans[:3], &out)
		for _, c := range chans {
			c.Close()
		}
		return out, true
	default:
		return img, false
	}
}
