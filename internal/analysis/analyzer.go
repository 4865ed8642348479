package analysis

import (
	"fmt"
	"strings"

	"colony-scan/internal/features"
	plateimage "colony-scan/internal/image"
	"colony-scan/internal/sam"
	"colony-scan/internal/scoring"

	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// qualityFloor is the advisory threshold for QualityScore.
const qualityFloor = 0.3

// DiffusionFinder is the slice of the segmentation engine the analyzer
// needs for advanced analysis. *sam.Engine satisfies it.
type DiffusionFinder interface {
	FindDiffusionZone(img, colonyMask gocv.Mat, expansionPixels int) (gocv.Mat, error)
}

// Scorer is the external scoring/classification capability.
type Scorer interface {
	CalculateScores(features map[string]float64) map[string]float64
	ClassifyPhenotype(features map[string]float64) map[string]string
}

// Config selects the analyzer's fixed extractor set and diffusion reach.
type Config struct {
	// Orientation is "front" or "back", case-insensitive; anything else
	// (including empty) means front. Back pairs the base extractor with
	// the metabolite extractor, front with the aerial one.
	Orientation string
	// ExpansionPixels for diffusion-zone estimation; 0 means the engine
	// default.
	ExpansionPixels int
}

// Analyzer processes batches of colony records. The extractor set is fixed
// at construction and never reselected per record. Processing is strictly
// sequential, in input order.
type Analyzer struct {
	engine     DiffusionFinder
	extractors []features.Extractor
	scorer     Scorer
	expansion  int
	log        *zap.SugaredLogger
}

// NewAnalyzer creates an analyzer. engine may be nil, which disables
// advanced analysis; scorer nil selects the built-in scoring system.
func NewAnalyzer(engine DiffusionFinder, scorer Scorer, cfg Config, log *zap.SugaredLogger) *Analyzer {
	if scorer == nil {
		scorer = scoring.NewSystem()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	expansion := cfg.ExpansionPixels
	if expansion == 0 {
		expansion = sam.DefaultExpansionPixels
	}

	var extractors []features.Extractor
	if plateimage.ParseOrientation(cfg.Orientation) == plateimage.Back {
		extractors = []features.Extractor{features.NewBasic(), features.NewMetabolite()}
	} else {
		extractors = []features.Extractor{features.NewBasic(), features.NewAerial()}
	}

	return &Analyzer{
		engine:     engine,
		extractors: extractors,
		scorer:     scorer,
		expansion:  expansion,
		log:        log,
	}
}

// Analyze processes every record in the batch independently and returns a
// same-length slice in input order. A record whose analysis fails is logged
// with its batch index and passed through untouched; the batch never
// shrinks and never aborts.
func (a *Analyzer) Analyze(colonies []*Colony, advanced bool) []*Colony {
	if len(colonies) == 0 {
		a.log.Warn("no colonies to analyze")
		return []*Colony{}
	}

	out := make([]*Colony, 0, len(colonies))
	for i, colony := range colonies {
		analyzed, err := a.analyzeGuarded(colony, advanced)
		if err != nil {
			a.log.Errorw("colony analysis failed", "index", i, "id", colony.ID, "error", err)
			out = append(out, colony)
			continue
		}
		out = append(out, analyzed)
	}

	a.log.Infow("colony analysis complete", "count", len(out))
	return out
}

// analyzeGuarded converts panics from misbehaving collaborators into errors
// so the batch loop can substitute the original record.
func (a *Analyzer) analyzeGuarded(colony *Colony, advanced bool) (result *Colony, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("panic during analysis: %v", r)
		}
	}()
	return a.AnalyzeColony(colony, advanced)
}

// AnalyzeColony runs one record through the full pipeline and returns the
// analyzed copy. The input record is never mutated; on error the caller
// still holds it unchanged.
func (a *Analyzer) AnalyzeColony(colony *Colony, advanced bool) (*Colony, error) {
	c := colony.clone()
	c.ensureMaps()

	if c.Img.Empty() || c.Mask.Empty() {
		a.log.Warnw("colony missing image or mask data", "id", c.ID)
		return c, nil
	}

	for _, ex := range a.extractors {
		extracted, err := ex.Extract(c.Img, c.Mask)
		if err != nil {
			return nil, fmt.Errorf("%s feature extraction: %w", ex.Name(), err)
		}
		for k, v := range extracted {
			c.Features[k] = v
		}
	}

	for k, v := range a.scorer.CalculateScores(c.Features) {
		c.Scores[k] = v
	}
	for k, v := range a.scorer.ClassifyPhenotype(c.Features) {
		c.Phenotype[k] = v
	}

	if advanced && a.engine != nil {
		a.advancedAnalysis(c)
	}

	if c.QualityScore < qualityFloor {
		a.log.Warnw("low quality colony", "id", c.ID, "quality", c.QualityScore)
	}

	if c.CrossBoundary {
		c.Phenotype["special_case"] = "cross_boundary"
		if len(c.OverlappingWells) > 0 {
			c.Phenotype["affected_wells"] = strings.Join(c.OverlappingWells, ", ")
		} else {
			c.Phenotype["affected_wells"] = "none"
		}
	}

	return c, nil
}

// advancedAnalysis estimates the metabolite diffusion zone around the
// colony. Failures here are contained: the record keeps whatever was
// computed so far and the remaining pipeline stages still run.
func (a *Analyzer) advancedAnalysis(c *Colony) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Errorw("advanced analysis panicked", "id", c.ID, "error", r)
		}
	}()

	zone, err := a.engine.FindDiffusionZone(c.Img, c.Mask, a.expansion)
	if err != nil {
		a.log.Errorw("advanced analysis failed", "id", c.ID, "error", err)
		return
	}

	if c.AdvancedMasks == nil {
		c.AdvancedMasks = make(map[string]gocv.Mat)
	}
	c.AdvancedMasks["diffusion"] = zone

	diffusionArea := float64(gocv.CountNonZero(zone))
	colonyArea := float64(gocv.CountNonZero(c.Mask))

	ratio := 0.0
	if colonyArea > 0 {
		ratio = diffusionArea / colonyArea
	}
	c.Features["metabolite_diffusion_ratio"] = ratio
}
