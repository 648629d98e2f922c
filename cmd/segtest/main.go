// Command segtest runs only the tiled segmenter and boundary refiner on
// a single band and writes the colorized segment rasters, for tuning
// segmentation parameters in isolation.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"crop-cluster/internal/features"
	"crop-cluster/internal/raster"
	"crop-cluster/internal/segment"
	"crop-cluster/pkg/render"
)

func main() {
	bandPath := flag.String("band", "", "Path to band raster (TIFF, PNG, or JPEG)")
	gridSize := flag.Int("grid", 25, "Tile edge length in pixels")
	targets := flag.Int("segments", 8, "Superpixel target count per tile")
	compactness := flag.Float64("compactness", 0.5, "Spatial compactness weight")
	sigma := flag.Float64("sigma", 1.0, "Gaussian pre-smoothing sigma")
	fraction := flag.Float64("fraction", 0.33, "Canny threshold fraction around the median")
	outDir := flag.String("out", ".", "Output directory")
	flag.Parse()

	if *bandPath == "" {
		fmt.Println("Usage: segtest -band <path> [-grid 25] [-segments 8] [-compactness 0.5] [-sigma 1.0]")
		os.Exit(1)
	}

	band, err := raster.Load(*bandPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load band: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded band: %dx%d pixels\n", band.H, band.W)

	// Segment the log-compressed intensities, same as the full pipeline.
	rows, err := features.BuildMatrix([]*raster.Grid{band}, nil, features.DefaultOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Feature building failed: %v\n", err)
		os.Exit(1)
	}
	compressed, _ := raster.NewGrid(band.H, band.W)
	for i, row := range rows {
		compressed.Data[i] = row[0]
	}

	opts := segment.DefaultOptions()
	opts.GridSize = *gridSize
	opts.TargetSegments = *targets
	opts.Compactness = *compactness
	opts.SmoothSigma = *sigma
	opts.Verbose = true

	segs, n, err := segment.Run(compressed, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Segmentation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Segments: %d\n", n)

	refOpts := segment.DefaultRefineOptions()
	refOpts.ThresholdFraction = *fraction
	refOpts.Verbose = true
	refined, err := segment.Refine(compressed, segs, refOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Refinement failed: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}
	palette := render.Palette(64)
	for _, out := range []struct {
		name   string
		labels *raster.IntGrid
	}{
		{"segments.png", segs},
		{"refined.png", refined},
	} {
		path := filepath.Join(*outDir, out.name)
		if err := render.WritePNG(render.LabelImage(out.labels, palette), path); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
	}
}
