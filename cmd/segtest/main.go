// Command segtest runs automatic colony segmentation on a plate image and
// prints the candidate regions.
package main

import (
	"flag"
	"fmt"
	"os"

	"colony-scan/internal/detect"
	plateimage "colony-scan/internal/image"
	"colony-scan/internal/sam"

	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

func main() {
	imagePath := flag.String("image", "", "Path to plate image (TIFF, PNG, or JPEG)")
	minArea := flag.Int("min-area", 25, "Minimum colony area in pixels (0 = no bound)")
	maxArea := flag.Int("max-area", 0, "Maximum colony area in pixels (0 = no bound)")
	invert := flag.Bool("invert", false, "Colonies darker than agar")
	checkpoint := flag.String("checkpoint", "", "Model checkpoint path to resolve (optional)")
	modelType := flag.String("model", "vit_b", "Model type: vit_h, vit_l, or vit_b")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: segtest -image <path> [-min-area 25] [-max-area 0] [-invert]")
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	if *checkpoint != "" || *modelType != "" {
		path, err := sam.ResolveCheckpoint(*checkpoint, *modelType)
		if err != nil {
			fmt.Printf("No model checkpoint found (%v); using threshold segmentation\n", err)
		} else {
			fmt.Printf("Model checkpoint: %s\n", path)
		}
	}

	plate, err := plateimage.LoadMat(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	defer plate.Close()
	fmt.Printf("Loaded image: %dx%d pixels\n", plate.Cols(), plate.Rows())

	opts := detect.DefaultOptions()
	opts.Invert = *invert
	seg := detect.NewSegmenter(opts)
	defer seg.Close()

	engine, err := sam.New(seg, seg, logger.Sugar())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Engine setup failed: %v\n", err)
		os.Exit(1)
	}

	masks, scores, err := engine.SegmentEverything(plate, *minArea, *maxArea)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Segmentation failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		for i := range masks {
			masks[i].Close()
		}
	}()

	fmt.Printf("\nDetected %d colonies:\n", len(masks))
	fmt.Printf("%-6s %10s %10s\n", "#", "Area", "Score")
	for i := range masks {
		fmt.Printf("%-6d %10d %10.2f\n", i+1, gocv.CountNonZero(masks[i]), scores[i])
	}
}
