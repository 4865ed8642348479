// Command gridtest runs grid-prompted segmentation on a plate image and
// reports which wells contain growth.
package main

import (
	"flag"
	"fmt"
	"os"

	"colony-scan/internal/detect"
	plateimage "colony-scan/internal/image"
	"colony-scan/internal/sam"
	"colony-scan/pkg/geometry"

	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

func main() {
	imagePath := flag.String("image", "", "Path to plate image (TIFF, PNG, or JPEG)")
	rows := flag.Int("rows", 8, "Grid rows")
	cols := flag.Int("cols", 12, "Grid columns")
	padding := flag.Float64("padding", geometry.DefaultGrid().Padding, "Fractional cell padding")
	invert := flag.Bool("invert", false, "Colonies darker than agar")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: gridtest -image <path> [-rows 8] [-cols 12] [-padding 0.05]")
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	plate, err := plateimage.LoadMat(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	defer plate.Close()
	fmt.Printf("Loaded image: %dx%d pixels, grid %dx%d\n", plate.Cols(), plate.Rows(), *rows, *cols)

	opts := detect.DefaultOptions()
	opts.Invert = *invert
	seg := detect.NewSegmenter(opts)
	defer seg.Close()

	engine, err := sam.New(seg, seg, logger.Sugar())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Engine setup failed: %v\n", err)
		os.Exit(1)
	}

	masks, labels, err := engine.SegmentGrid(plate, *rows, *cols, *padding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Grid segmentation failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		for i := range masks {
			masks[i].Close()
		}
	}()

	grown := 0
	fmt.Printf("\n%-6s %10s\n", "Well", "Area")
	for i := range masks {
		area := gocv.CountNonZero(masks[i])
		if area == 0 {
			continue
		}
		grown++
		fmt.Printf("%-6s %10d\n", labels[i], area)
	}
	fmt.Printf("\nGrowth in %d of %d wells\n", grown, len(masks))
}
