// Package features builds per-pixel feature matrices from co-registered
// radar backscatter bands.
package features

import (
	"fmt"
	"math"

	"crop-cluster/internal/raster"
)

// Options configures feature matrix construction.
type Options struct {
	Epsilon float64 // Additive constant inside the log compression
	Verbose bool
}

// DefaultOptions returns default feature options.
func DefaultOptions() Options {
	return Options{
		Epsilon: 1e-6,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.Epsilon <= 0 {
		return fmt.Errorf("epsilon must be positive, got %g", o.Epsilon)
	}
	return nil
}

// BuildMatrix converts the bands into an N x len(bands) feature matrix,
// N = H*W, rows in row-major pixel order. Backscatter spans orders of
// magnitude, so every band is compressed with log10(v + epsilon); any
// non-finite result is cleared to 0 rather than dropped, keeping the
// row count at exactly H*W. A non-nil mask zeroes rows outside the area
// of interest without removing them.
func BuildMatrix(bands []*raster.Grid, mask *raster.Grid, opts Options) ([][]float64, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(bands) == 0 {
		return nil, fmt.Errorf("no feature bands supplied")
	}
	shapes := make([]*raster.Grid, 0, len(bands)+1)
	shapes = append(shapes, bands...)
	if mask != nil {
		shapes = append(shapes, mask)
	}
	if err := checkShapes(shapes); err != nil {
		return nil, err
	}

	h, w := bands[0].H, bands[0].W
	n := h * w
	rows := make([][]float64, n)
	backing := make([]float64, n*len(bands))
	for i := range rows {
		rows[i] = backing[i*len(bands) : (i+1)*len(bands)]
	}

	for b, band := range bands {
		cleared := 0
		for i, v := range band.Data {
			c := math.Log10(v + opts.Epsilon)
			if math.IsNaN(c) || math.IsInf(c, 0) {
				c = 0
				cleared++
			}
			rows[i][b] = c
		}
		if opts.Verbose && cleared > 0 {
			fmt.Printf("[Features] band %d: cleared %d non-finite values\n", b, cleared)
		}
	}

	if mask != nil {
		for i, m := range mask.Data {
			if m == 0 {
				for b := range rows[i] {
					rows[i][b] = 0
				}
			}
		}
	}

	return rows, nil
}

// PaintLabels writes per-pixel cluster labels back onto an (h, w) label
// raster in the same row-major order the feature matrix was built in.
func PaintLabels(labels []int, h, w int) (*raster.IntGrid, error) {
	if len(labels) != h*w {
		return nil, fmt.Errorf("label count %d does not match %dx%d raster", len(labels), h, w)
	}
	out, err := raster.NewIntGrid(h, w, 0)
	if err != nil {
		return nil, err
	}
	for i, l := range labels {
		out.Data[i] = int32(l)
	}
	return out, nil
}

func checkShapes(grids []*raster.Grid) error {
	if len(grids) < 2 {
		return nil
	}
	h, w := grids[0].H, grids[0].W
	for _, g := range grids[1:] {
		if g.H != h || g.W != w {
			return fmt.Errorf("raster shape mismatch: %dx%d vs %dx%d", h, w, g.H, g.W)
		}
	}
	return nil
}
