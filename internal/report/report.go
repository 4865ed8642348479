// Package report serializes analysis results to JSON and renders annotated
// plate overlays.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"colony-scan/internal/analysis"
	"colony-scan/pkg/geometry"
)

// ColonyResult is the serializable view of one analyzed colony.
type ColonyResult struct {
	ID               string             `json:"id"`
	Well             string             `json:"well,omitempty"`
	Bounds           geometry.RectInt   `json:"bounds"`
	QualityScore     float64            `json:"quality_score"`
	CrossBoundary    bool               `json:"cross_boundary,omitempty"`
	OverlappingWells []string           `json:"overlapping_wells,omitempty"`
	Features         map[string]float64 `json:"features,omitempty"`
	Scores           map[string]float64 `json:"scores,omitempty"`
	Phenotype        map[string]string  `json:"phenotype,omitempty"`
}

// Report is a full plate scan result.
type Report struct {
	Version     int            `json:"version"`
	PlateLabel  string         `json:"plate_label,omitempty"`
	SourceImage string         `json:"source_image,omitempty"`
	Orientation string         `json:"orientation"`
	Generated   time.Time      `json:"generated"`
	ColonyCount int            `json:"colony_count"`
	Colonies    []ColonyResult `json:"colonies"`
}

// New assembles a report from analyzed colony records.
func New(label, sourceImage, orientation string, colonies []*analysis.Colony) *Report {
	results := make([]ColonyResult, 0, len(colonies))
	for _, c := range colonies {
		results = append(results, ColonyResult{
			ID:               c.ID,
			Well:             c.Well,
			Bounds:           c.Bounds,
			QualityScore:     c.QualityScore,
			CrossBoundary:    c.CrossBoundary,
			OverlappingWells: c.OverlappingWells,
			Features:         c.Features,
			Scores:           c.Scores,
			Phenotype:        c.Phenotype,
		})
	}
	return &Report{
		Version:     1,
		PlateLabel:  label,
		SourceImage: sourceImage,
		Orientation: orientation,
		Generated:   time.Now(),
		ColonyCount: len(results),
		Colonies:    results,
	}
}

// Save writes the report as indented JSON.
func (r *Report) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a previously saved report.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &r, nil
}
