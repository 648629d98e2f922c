// Command cropclass runs unsupervised crop-type clustering on two
// co-registered radar backscatter bands and writes label rasters as
// PNG, optionally scoring them against ground-truth crop polygons.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"crop-cluster/internal/eval"
	"crop-cluster/internal/groundtruth"
	"crop-cluster/internal/pipeline"
	"crop-cluster/internal/raster"
	"crop-cluster/internal/version"
	"crop-cluster/pkg/config"
	"crop-cluster/pkg/render"
)

func main() {
	band1Path := flag.String("band1", "", "Path to first polarization band (TIFF, PNG, or JPEG)")
	band2Path := flag.String("band2", "", "Path to second polarization band")
	maskPath := flag.String("mask", "", "Optional binary validity mask raster")
	truthPath := flag.String("truth", "", "Optional GeoJSON ground-truth polygons for scoring")
	configPath := flag.String("config", "cropclass.yaml", "Path to YAML configuration")
	outDir := flag.String("out", ".", "Output directory for label rasters")
	scale := flag.Int("scale", 1, "Integer upscale factor for output PNGs")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("cropclass %s (built %s, commit %s)\n", version.Version, version.BuildTime, version.GitCommit)
		return
	}

	if *band1Path == "" || *band2Path == "" {
		fmt.Println("Usage: cropclass -band1 <path> -band2 <path> [-mask <path>] [-truth <path>] [-config <path>] [-out <dir>]")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		fatal("Invalid config: %v", err)
	}

	band1, err := raster.Load(*band1Path)
	if err != nil {
		fatal("Failed to load band 1: %v", err)
	}
	band2, err := raster.Load(*band2Path)
	if err != nil {
		fatal("Failed to load band 2: %v", err)
	}
	fmt.Printf("Loaded bands: %dx%d pixels\n", band1.H, band1.W)

	var mask *raster.Grid
	if *maskPath != "" {
		mask, err = raster.Load(*maskPath)
		if err != nil {
			fatal("Failed to load mask: %v", err)
		}
	}

	result, err := pipeline.Run([]*raster.Grid{band1, band2}, mask, cfg)
	if err != nil {
		fatal("Pipeline failed: %v", err)
	}
	fmt.Printf("Segments: %d, regions retained: %d\n", result.NumSegments, len(result.Regions))

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fatal("Failed to create output directory: %v", err)
	}
	clusterPalette := render.Palette(cfg.Clustering.PixelClusters)
	if cfg.Clustering.RegionClusters > cfg.Clustering.PixelClusters {
		clusterPalette = render.Palette(cfg.Clustering.RegionClusters)
	}
	segPalette := render.Palette(64)

	writes := []struct {
		name    string
		labels  *raster.IntGrid
		palette []color.RGBA
	}{
		{"pixel_labels.png", result.PixelLabels, clusterPalette},
		{"segments.png", result.Segments, segPalette},
		{"refined.png", result.Refined, segPalette},
		{"region_labels.png", result.RegionLabels, clusterPalette},
	}
	for _, w := range writes {
		img := render.Upscale(render.LabelImage(w.labels, w.palette), *scale)
		path := filepath.Join(*outDir, w.name)
		if err := render.WritePNG(img, path); err != nil {
			fatal("Failed to write %s: %v", path, err)
		}
		fmt.Printf("Wrote %s\n", path)
	}

	if *truthPath == "" {
		return
	}

	gtOpts := groundtruth.DefaultOptions()
	gtOpts.ClassProperty = cfg.GroundTruth.ClassProperty
	gtOpts.Verbose = cfg.Output.Verbose
	truth, err := groundtruth.Load(*truthPath, band1.H, band1.W, gtOpts)
	if err != nil {
		fatal("Failed to load ground truth: %v", err)
	}

	for _, path := range []struct {
		name   string
		labels *raster.IntGrid
	}{
		{"pixel path", result.PixelLabels},
		{"region path", result.RegionLabels},
	} {
		report, err := eval.Evaluate(path.labels, truth)
		if err != nil {
			fatal("Evaluation failed for %s: %v", path.name, err)
		}
		fmt.Printf("\n%s:\n%s", path.name, report)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
