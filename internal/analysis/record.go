// Package analysis drives colony records through feature extraction,
// scoring, classification, and optional diffusion analysis, isolating
// failures per record so one bad colony cannot abort a batch.
package analysis

import (
	"colony-scan/pkg/geometry"

	"gocv.io/x/gocv"
)

// DefaultQuality is assumed for records whose detector did not score them.
const DefaultQuality = 0.5

// Colony is the per-organism record: the cropped plate image, its binary
// region mask, and everything the analysis derives from them. A record is
// owned by exactly one Analyzer call at a time; nothing mutates it
// concurrently.
type Colony struct {
	ID     string
	Img    gocv.Mat
	Mask   gocv.Mat
	Well   string
	Bounds geometry.RectInt

	Features  map[string]float64
	Scores    map[string]float64
	Phenotype map[string]string

	// QualityScore in [0,1]; below 0.3 triggers an advisory warning.
	QualityScore float64

	// CrossBoundary marks colonies whose region spans multiple wells;
	// OverlappingWells lists them in row-major order.
	CrossBoundary    bool
	OverlappingWells []string

	// AdvancedMasks holds masks produced by advanced analysis, keyed by
	// kind (e.g. "diffusion").
	AdvancedMasks map[string]gocv.Mat
}

// NewColony creates a record with the default quality score. Img and Mask
// start empty; the detection stage fills them in.
func NewColony(id string) *Colony {
	return &Colony{ID: id, QualityScore: DefaultQuality}
}

// Close releases the record's image data, including any advanced masks.
func (c *Colony) Close() {
	c.Img.Close()
	c.Mask.Close()
	for _, m := range c.AdvancedMasks {
		m.Close()
	}
}

// ensureMaps guarantees the three result maps exist.
func (c *Colony) ensureMaps() {
	if c.Features == nil {
		c.Features = make(map[string]float64)
	}
	if c.Scores == nil {
		c.Scores = make(map[string]float64)
	}
	if c.Phenotype == nil {
		c.Phenotype = make(map[string]string)
	}
}

// clone copies the record with fresh result maps and slices. Mats are
// shared by handle: analysis reads them but never writes pixels.
func (c *Colony) clone() *Colony {
	dup := *c

	if c.Features != nil {
		dup.Features = make(map[string]float64, len(c.Features))
		for k, v := range c.Features {
			dup.Features[k] = v
		}
	}
	if c.Scores != nil {
		dup.Scores = make(map[string]float64, len(c.Scores))
		for k, v := range c.Scores {
			dup.Scores[k] = v
		}
	}
	if c.Phenotype != nil {
		dup.Phenotype = make(map[string]string, len(c.Phenotype))
		for k, v := range c.Phenotype {
			dup.Phenotype[k] = v
		}
	}
	if c.OverlappingWells != nil {
		dup.OverlappingWells = append([]string(nil), c.OverlappingWells...)
	}
	if c.AdvancedMasks != nil {
		dup.AdvancedMasks = make(map[string]gocv.Mat, len(c.AdvancedMasks))
		for k, v := range c.AdvancedMasks {
			dup.AdvancedMasks[k] = v
		}
	}

	return &dup
}
