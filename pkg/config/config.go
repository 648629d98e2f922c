// Package config provides YAML configuration loading for the crop
// clustering pipeline, with defaults for every parameter.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full pipeline configuration loaded from YAML.
type Config struct {
	Features struct {
		// Epsilon is the additive constant inside the log10 compression.
		Epsilon float64 `yaml:"epsilon"`
	} `yaml:"features"`

	Clustering struct {
		// PixelClusters is K for the per-pixel path.
		PixelClusters int `yaml:"pixelClusters"`

		// RegionClusters is K for the region path.
		RegionClusters int `yaml:"regionClusters"`

		// MaxIterations caps Lloyd iterations.
		MaxIterations int `yaml:"maxIterations"`

		// Seed makes every clustering run reproducible.
		Seed int64 `yaml:"seed"`
	} `yaml:"clustering"`

	Segmentation struct {
		// GridSize is the tile edge length in pixels.
		GridSize int `yaml:"gridSize"`

		// TargetSegments is the superpixel target count per tile.
		TargetSegments int `yaml:"targetSegments"`

		// Compactness weighs spatial proximity against intensity similarity.
		Compactness float64 `yaml:"compactness"`

		// SmoothSigma is the Gaussian pre-smoothing sigma; 0 disables.
		SmoothSigma float64 `yaml:"smoothSigma"`

		// Workers is the number of concurrent tile workers; 0 means all cores.
		Workers int `yaml:"workers"`
	} `yaml:"segmentation"`

	Refinement struct {
		// ThresholdFraction places the Canny thresholds around the median.
		ThresholdFraction float64 `yaml:"thresholdFraction"`

		// DilateRadius is the half-width of the boundary search band.
		DilateRadius int `yaml:"dilateRadius"`
	} `yaml:"refinement"`

	Regions struct {
		// MinArea drops regions below this pixel count.
		MinArea int `yaml:"minArea"`

		// HistogramBins is the intensity histogram size.
		HistogramBins int `yaml:"histogramBins"`

		// OrientationBins is the gradient orientation histogram size.
		OrientationBins int `yaml:"orientationBins"`

		// GLCMLevels is the gray level count of the co-occurrence matrix.
		GLCMLevels int `yaml:"glcmLevels"`
	} `yaml:"regions"`

	GroundTruth struct {
		// ClassProperty names the GeoJSON property holding crop-type codes.
		ClassProperty string `yaml:"classProperty"`
	} `yaml:"groundTruth"`

	Output struct {
		// Verbose enables progress logging.
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Features.Epsilon = 1e-6

	cfg.Clustering.PixelClusters = 10
	cfg.Clustering.RegionClusters = 10
	cfg.Clustering.MaxIterations = 100
	cfg.Clustering.Seed = 1

	cfg.Segmentation.GridSize = 25
	cfg.Segmentation.TargetSegments = 8
	cfg.Segmentation.Compactness = 0.5
	cfg.Segmentation.SmoothSigma = 1.0
	cfg.Segmentation.Workers = 0

	cfg.Refinement.ThresholdFraction = 0.33
	cfg.Refinement.DilateRadius = 1

	cfg.Regions.MinArea = 12
	cfg.Regions.HistogramBins = 16
	cfg.Regions.OrientationBins = 9
	cfg.Regions.GLCMLevels = 8

	cfg.GroundTruth.ClassProperty = "crop_code"

	return cfg
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults; a present but invalid file is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// Validate rejects invalid parameters before any raster processing
// begins.
func (c *Config) Validate() error {
	if c.Features.Epsilon <= 0 {
		return fmt.Errorf("features.epsilon must be positive, got %g", c.Features.Epsilon)
	}
	if c.Clustering.PixelClusters <= 0 {
		return fmt.Errorf("clustering.pixelClusters must be positive, got %d", c.Clustering.PixelClusters)
	}
	if c.Clustering.RegionClusters <= 0 {
		return fmt.Errorf("clustering.regionClusters must be positive, got %d", c.Clustering.RegionClusters)
	}
	if c.Clustering.MaxIterations <= 0 {
		return fmt.Errorf("clustering.maxIterations must be positive, got %d", c.Clustering.MaxIterations)
	}
	if c.Segmentation.GridSize <= 0 {
		return fmt.Errorf("segmentation.gridSize must be positive, got %d", c.Segmentation.GridSize)
	}
	if c.Segmentation.TargetSegments <= 0 {
		return fmt.Errorf("segmentation.targetSegments must be positive, got %d", c.Segmentation.TargetSegments)
	}
	if c.Segmentation.Compactness < 0 {
		return fmt.Errorf("segmentation.compactness must not be negative, got %g", c.Segmentation.Compactness)
	}
	if c.Segmentation.SmoothSigma < 0 {
		return fmt.Errorf("segmentation.smoothSigma must not be negative, got %g", c.Segmentation.SmoothSigma)
	}
	if c.Refinement.ThresholdFraction <= 0 || c.Refinement.ThresholdFraction >= 1 {
		return fmt.Errorf("refinement.thresholdFraction must be in (0, 1), got %g", c.Refinement.ThresholdFraction)
	}
	if c.Refinement.DilateRadius < 0 {
		return fmt.Errorf("refinement.dilateRadius must not be negative, got %d", c.Refinement.DilateRadius)
	}
	if c.Regions.MinArea <= 0 {
		return fmt.Errorf("regions.minArea must be positive, got %d", c.Regions.MinArea)
	}
	if c.Regions.HistogramBins <= 0 {
		return fmt.Errorf("regions.histogramBins must be positive, got %d", c.Regions.HistogramBins)
	}
	if c.Regions.OrientationBins <= 0 {
		return fmt.Errorf("regions.orientationBins must be positive, got %d", c.Regions.OrientationBins)
	}
	if c.Regions.GLCMLevels < 2 {
		return fmt.Errorf("regions.glcmLevels must be at least 2, got %d", c.Regions.GLCMLevels)
	}
	if c.GroundTruth.ClassProperty == "" {
		return fmt.Errorf("groundTruth.classProperty must not be empty")
	}
	return nil
}
