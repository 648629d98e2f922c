// Package pipeline wires the clustering stages end to end: feature
// building, the per-pixel path, and the object-level path of tiled
// segmentation, boundary refinement, region description, and region
// clustering.
package pipeline

import (
	"fmt"

	"crop-cluster/internal/cluster"
	"crop-cluster/internal/features"
	"crop-cluster/internal/raster"
	"crop-cluster/internal/region"
	"crop-cluster/internal/segment"
	"crop-cluster/pkg/config"
)

// Result holds every output and diagnostic intermediate of one run.
type Result struct {
	PixelLabels  *raster.IntGrid // Per-pixel cluster labels, [0, K_pixel-1]
	Segments     *raster.IntGrid // Assembled segment raster, globally unique IDs
	NumSegments  int
	Refined      *raster.IntGrid // Segment raster after edge-aware trimming
	Regions      []region.Region // Retained regions in discovery order
	RegionLabels *raster.IntGrid // Region-path labels, [0, K_region-1] or unlabeled
}

// Run executes both clustering paths over the given bands. An optional
// validity mask zeroes pixels outside the area of interest. Each stage
// fully consumes its input before the next begins; only tile
// segmentation fans out internally.
func Run(bands []*raster.Grid, mask *raster.Grid, cfg *config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if len(bands) == 0 {
		return nil, fmt.Errorf("no feature bands supplied")
	}
	h, w := bands[0].H, bands[0].W
	verbose := cfg.Output.Verbose

	featOpts := features.DefaultOptions()
	featOpts.Epsilon = cfg.Features.Epsilon
	featOpts.Verbose = verbose
	rows, err := features.BuildMatrix(bands, mask, featOpts)
	if err != nil {
		return nil, fmt.Errorf("build features: %w", err)
	}

	// Path A: cluster the pixels directly.
	if verbose {
		fmt.Printf("[Pipeline] pixel path: %d pixels, k=%d\n", len(rows), cfg.Clustering.PixelClusters)
	}
	pixRes, err := cluster.Run(rows, cluster.Options{
		K:             cfg.Clustering.PixelClusters,
		MaxIterations: cfg.Clustering.MaxIterations,
		Seed:          cfg.Clustering.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("pixel clustering: %w", err)
	}
	pixelLabels, err := features.PaintLabels(pixRes.Labels, h, w)
	if err != nil {
		return nil, err
	}

	// Path B: object-level. Segmentation and description run on the
	// composite of the compressed bands.
	composite, err := raster.NewGrid(h, w)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		s := 0.0
		for _, v := range row {
			s += v
		}
		composite.Data[i] = s / float64(len(row))
	}

	segOpts := segment.DefaultOptions()
	segOpts.GridSize = cfg.Segmentation.GridSize
	segOpts.TargetSegments = cfg.Segmentation.TargetSegments
	segOpts.Compactness = cfg.Segmentation.Compactness
	segOpts.SmoothSigma = cfg.Segmentation.SmoothSigma
	segOpts.Workers = cfg.Segmentation.Workers
	segOpts.Seed = cfg.Clustering.Seed
	segOpts.Verbose = verbose
	segs, nSegs, err := segment.Run(composite, segOpts)
	if err != nil {
		return nil, fmt.Errorf("tiled segmentation: %w", err)
	}

	refOpts := segment.DefaultRefineOptions()
	refOpts.ThresholdFraction = cfg.Refinement.ThresholdFraction
	refOpts.DilateRadius = cfg.Refinement.DilateRadius
	refOpts.Verbose = verbose
	refined, err := segment.Refine(composite, segs, refOpts)
	if err != nil {
		return nil, fmt.Errorf("boundary refinement: %w", err)
	}

	regions, err := region.Discover(refined, cfg.Regions.MinArea)
	if err != nil {
		return nil, fmt.Errorf("region discovery: %w", err)
	}
	if verbose {
		fmt.Printf("[Pipeline] region path: %d regions retained (minArea %d)\n", len(regions), cfg.Regions.MinArea)
	}

	descOpts := region.DefaultDescriptorOptions()
	descOpts.HistogramBins = cfg.Regions.HistogramBins
	descOpts.OrientationBins = cfg.Regions.OrientationBins
	descOpts.GLCMLevels = cfg.Regions.GLCMLevels
	descOpts.Verbose = verbose
	descs, err := region.Descriptors(composite, regions, descOpts)
	if err != nil {
		return nil, fmt.Errorf("region descriptors: %w", err)
	}

	regionLabels, _, err := region.Cluster(regions, descs, h, w, cluster.Options{
		K:             cfg.Clustering.RegionClusters,
		MaxIterations: cfg.Clustering.MaxIterations,
		Seed:          cfg.Clustering.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("region clustering: %w", err)
	}

	return &Result{
		PixelLabels:  pixelLabels,
		Segments:     segs,
		NumSegments:  nSegs,
		Refined:      refined,
		Regions:      regions,
		RegionLabels: regionLabels,
	}, nil
}
