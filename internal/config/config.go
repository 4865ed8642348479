// Package config provides typed pipeline configuration with YAML
// persistence.
package config

import (
	"fmt"
	"os"

	"colony-scan/pkg/geometry"

	"gopkg.in/yaml.v3"
)

// ModelConfig selects the neural segmentation backend.
type ModelConfig struct {
	// Type is the backbone variant: vit_h, vit_l, or vit_b.
	Type string `yaml:"type"`
	// Checkpoint overrides the default weight search locations.
	Checkpoint string `yaml:"checkpoint,omitempty"`
	// PointsPerSide is the prompt grid density for automatic generation.
	PointsPerSide int `yaml:"points_per_side"`
	// PredIoUThresh and StabilityScoreThresh gate candidate quality.
	PredIoUThresh        float64 `yaml:"pred_iou_thresh"`
	StabilityScoreThresh float64 `yaml:"stability_score_thresh"`
	CropLayers           int     `yaml:"crop_n_layers"`
	CropPointsDownscale  int     `yaml:"crop_n_points_downscale_factor"`
	MinMaskRegionArea    float64 `yaml:"min_mask_region_area"`
}

// DetectionConfig tunes the classic threshold segmenter used when no model
// checkpoint is available.
type DetectionConfig struct {
	// Invert when colonies are darker than the agar.
	Invert            bool    `yaml:"invert"`
	CleanupIterations int     `yaml:"cleanup_iterations"`
	MinRegionArea     float64 `yaml:"min_region_area"`
}

// AnalysisConfig tunes the per-colony analysis stage.
type AnalysisConfig struct {
	// Orientation is "front" or "back"; it selects the feature set.
	Orientation string `yaml:"orientation"`
	// Advanced enables diffusion-zone estimation.
	Advanced bool `yaml:"advanced"`
	// MinColonyArea and MaxColonyArea bound accepted mask areas in pixels.
	// Zero disables the respective bound.
	MinColonyArea int `yaml:"min_colony_area"`
	MaxColonyArea int `yaml:"max_colony_area"`
	// ExpansionPixels sizes the diffusion search ring.
	ExpansionPixels int `yaml:"expansion_pixels"`
}

// OutputConfig controls report writing.
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Overlay bool   `yaml:"overlay"`
}

// Config is the full pipeline configuration.
type Config struct {
	Model     ModelConfig     `yaml:"model"`
	Detection DetectionConfig `yaml:"detection"`
	Grid      geometry.GridSpec `yaml:"grid"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Output    OutputConfig    `yaml:"output"`
}

// Default returns the stock configuration for a 96-well plate scan.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Type:                 "vit_b",
			PointsPerSide:        64,
			PredIoUThresh:        0.85,
			StabilityScoreThresh: 0.8,
			CropLayers:           1,
			CropPointsDownscale:  1,
			MinMaskRegionArea:    1500,
		},
		Detection: DetectionConfig{
			CleanupIterations: 2,
			MinRegionArea:     50,
		},
		Grid: geometry.DefaultGrid(),
		Analysis: AnalysisConfig{
			Orientation:     "front",
			MinColonyArea:   25,
			MaxColonyArea:   0,
			ExpansionPixels: 15,
		},
		Output: OutputConfig{
			Dir:     "results",
			Overlay: true,
		},
	}
}

// Load reads a YAML config file. Keys absent from the file keep their
// default values. A missing file yields the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.Model.Type {
	case "vit_h", "vit_l", "vit_b":
	default:
		return fmt.Errorf("unknown model type %q", c.Model.Type)
	}
	if c.Grid.Rows <= 0 || c.Grid.Cols <= 0 {
		return fmt.Errorf("grid must have positive rows and cols, got %dx%d", c.Grid.Rows, c.Grid.Cols)
	}
	if c.Grid.Padding < 0 || c.Grid.Padding >= 0.5 {
		return fmt.Errorf("grid padding %v out of range [0, 0.5)", c.Grid.Padding)
	}
	if c.Analysis.MaxColonyArea > 0 && c.Analysis.MinColonyArea > c.Analysis.MaxColonyArea {
		return fmt.Errorf("min colony area %d exceeds max %d", c.Analysis.MinColonyArea, c.Analysis.MaxColonyArea)
	}
	return nil
}
