// Package groundtruth loads crop-type polygons from GeoJSON and
// rasterizes them into class masks for the evaluator. Polygon
// coordinates are expected in image pixel space; coordinate reference
// system reprojection is out of scope.
package groundtruth

import (
	"fmt"
	"math"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"crop-cluster/internal/raster"
)

// Options configures ground-truth rasterization.
type Options struct {
	ClassProperty string // Feature property holding the integer crop-type code
	Verbose       bool
}

// DefaultOptions returns default ground-truth options.
func DefaultOptions() Options {
	return Options{
		ClassProperty: "crop_code",
	}
}

// Load reads a GeoJSON FeatureCollection from disk and rasterizes it.
func Load(path string, h, w int, opts Options) (*raster.IntGrid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ground truth %s: %w", path, err)
	}
	return Rasterize(data, h, w, opts)
}

// Rasterize burns every polygon feature's crop-type code into an (h, w)
// class mask. Pixels covered by no polygon stay 0, which the evaluator
// treats as "no ground truth". Later features win where polygons
// overlap. Pixel centers decide coverage.
func Rasterize(data []byte, h, w int, opts Options) (*raster.IntGrid, error) {
	if opts.ClassProperty == "" {
		return nil, fmt.Errorf("class property name is required")
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse ground truth geojson: %w", err)
	}

	mask, err := raster.NewIntGrid(h, w, 0)
	if err != nil {
		return nil, err
	}

	painted := 0
	for fi, f := range fc.Features {
		code := f.Properties.MustInt(opts.ClassProperty, 0)
		if code <= 0 {
			if opts.Verbose {
				fmt.Printf("[GroundTruth] feature %d: no positive %q property, skipped\n", fi, opts.ClassProperty)
			}
			continue
		}
		switch geom := f.Geometry.(type) {
		case orb.Polygon:
			painted += burn(mask, geom.Bound(), int32(code), func(pt orb.Point) bool {
				return planar.PolygonContains(geom, pt)
			})
		case orb.MultiPolygon:
			painted += burn(mask, geom.Bound(), int32(code), func(pt orb.Point) bool {
				return planar.MultiPolygonContains(geom, pt)
			})
		default:
			if opts.Verbose {
				fmt.Printf("[GroundTruth] feature %d: ignoring %T geometry\n", fi, geom)
			}
		}
	}
	if opts.Verbose {
		fmt.Printf("[GroundTruth] painted %d pixels from %d features\n", painted, len(fc.Features))
	}
	return mask, nil
}

// burn scans the polygon's bounding box and writes code wherever the
// pixel center falls inside.
func burn(mask *raster.IntGrid, bound orb.Bound, code int32, contains func(orb.Point) bool) int {
	x0 := clamp(int(math.Floor(bound.Min[0])), 0, mask.W-1)
	x1 := clamp(int(math.Ceil(bound.Max[0])), 0, mask.W-1)
	y0 := clamp(int(math.Floor(bound.Min[1])), 0, mask.H-1)
	y1 := clamp(int(math.Ceil(bound.Max[1])), 0, mask.H-1)

	painted := 0
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if contains(orb.Point{float64(x) + 0.5, float64(y) + 0.5}) {
				mask.Set(y, x, code)
				painted++
			}
		}
	}
	return painted
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
