// Command colony-scan runs the full plate pipeline: detect colonies on a
// plate photograph, analyze each one, and write a JSON report plus an
// annotated overlay image.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"colony-scan/internal/analysis"
	"colony-scan/internal/config"
	"colony-scan/internal/detect"
	plateimage "colony-scan/internal/image"
	"colony-scan/internal/ocr"
	"colony-scan/internal/report"
	"colony-scan/internal/sam"
	"colony-scan/internal/version"
	"colony-scan/pkg/geometry"

	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

func main() {
	imagePath := flag.String("image", "", "Path to plate image (TIFF, PNG, or JPEG)")
	configPath := flag.String("config", "", "Path to YAML config (optional)")
	orientation := flag.String("orientation", "", "Plate orientation: front, back, or auto (default: config value)")
	advanced := flag.Bool("advanced", false, "Enable diffusion-zone estimation")
	outDir := flag.String("out", "", "Output directory (default: config value)")
	label := flag.String("label", "", "Plate label (skips OCR)")
	readLabel := flag.Bool("read-label", false, "Read the plate label from the top of the image")
	verbose := flag.Bool("verbose", false, "Debug logging")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: colony-scan -image <path> [-config scan.yaml] [-orientation front|back|auto] [-advanced]")
		os.Exit(1)
	}

	logCfg := zap.NewDevelopmentConfig()
	if !*verbose {
		logCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := logCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(*imagePath, *configPath, *orientation, *outDir, *label, *advanced, *readLabel, logger.Sugar()); err != nil {
		logger.Sugar().Errorw("scan failed", "error", err)
		os.Exit(1)
	}
}

func run(imagePath, configPath, orientationFlag, outDir, label string, advanced, readLabel bool, log *zap.SugaredLogger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if advanced {
		cfg.Analysis.Advanced = true
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}

	orientation := resolveOrientation(orientationFlag, cfg.Analysis.Orientation, imagePath)
	log.Info(version.String())
	log.Infow("starting scan", "image", imagePath, "orientation", orientation,
		"grid", fmt.Sprintf("%dx%d", cfg.Grid.Rows, cfg.Grid.Cols), "advanced", cfg.Analysis.Advanced)

	plate, err := plateimage.LoadMat(imagePath)
	if err != nil {
		return fmt.Errorf("failed to load plate image: %w", err)
	}
	defer plate.Close()

	if label == "" && readLabel {
		label = scanLabel(plate, log)
	}

	seg := detect.NewSegmenter(detect.Options{
		Invert:            cfg.Detection.Invert,
		CleanupIterations: cfg.Detection.CleanupIterations,
		MinRegionArea:     cfg.Detection.MinRegionArea,
	})
	defer seg.Close()

	engine, err := sam.New(seg, seg, log)
	if err != nil {
		return err
	}

	masks, scores, err := engine.SegmentEverything(plate, cfg.Analysis.MinColonyArea, cfg.Analysis.MaxColonyArea)
	if err != nil {
		return fmt.Errorf("segmentation failed: %w", err)
	}
	candidates := make([]sam.MaskCandidate, len(masks))
	for i := range masks {
		candidates[i] = sam.MaskCandidate{Mask: masks[i], StabilityScore: scores[i]}
	}
	defer func() {
		for i := range masks {
			masks[i].Close()
		}
	}()

	mapper := detect.NewPlateMapper(cfg.Grid)
	records, err := mapper.BuildRecords(plate, candidates)
	if err != nil {
		return err
	}
	defer func() {
		for _, r := range records {
			r.Close()
		}
	}()
	log.Infow("colonies detected", "count", len(records))

	analyzer := analysis.NewAnalyzer(engine, nil, analysis.Config{
		Orientation:     orientation,
		ExpansionPixels: cfg.Analysis.ExpansionPixels,
	}, log)
	results := analyzer.Analyze(records, cfg.Analysis.Advanced)
	defer closeAdvancedMasks(results)

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))

	reportPath := filepath.Join(cfg.Output.Dir, base+"_results.json")
	if err := report.New(label, imagePath, orientation, results).Save(reportPath); err != nil {
		return err
	}
	log.Infow("report written", "path", reportPath)

	if cfg.Output.Overlay {
		overlayPath := filepath.Join(cfg.Output.Dir, base+"_overlay.png")
		if err := report.WriteOverlay(overlayPath, plate, cfg.Grid, results); err != nil {
			return err
		}
		log.Infow("overlay written", "path", overlayPath)
	}

	return nil
}

// resolveOrientation picks the plate orientation from the flag, falling back
// to the config. "auto" infers it from the image filename.
func resolveOrientation(flagValue, cfgValue, imagePath string) string {
	switch flagValue {
	case "":
		return cfgValue
	case "auto":
		return plateimage.GuessOrientation(imagePath).String()
	default:
		return flagValue
	}
}

// scanLabel OCRs the strip along the top edge of the plate photo where the
// printed label usually sits. Failure is not fatal.
func scanLabel(plate gocv.Mat, log *zap.SugaredLogger) string {
	reader, err := ocr.NewReader()
	if err != nil {
		log.Warnw("label OCR unavailable", "error", err)
		return ""
	}
	defer reader.Close()

	strip := geometry.RectInt{Width: plate.Cols(), Height: plate.Rows() / 10}
	text, err := reader.ReadRegion(plate, strip)
	if err != nil {
		log.Warnw("label OCR failed", "error", err)
		return ""
	}
	log.Infow("plate label read", "label", text)
	return text
}

func closeAdvancedMasks(colonies []*analysis.Colony) {
	for _, c := range colonies {
		for _, m := range c.AdvancedMasks {
			m.Close()
		}
	}
}
