// Package raster provides in-memory raster grids and loading of band images.
package raster

import (
	"fmt"
	"math"
	"sort"
)

// Unlabeled marks pixels of a label raster that belong to no retained
// region. It is also used as the boundary sentinel in refined segment
// rasters.
const Unlabeled int32 = -1

// Grid is a 2D raster of float64 samples stored in row-major order.
type Grid struct {
	H, W int
	Data []float64
}

// NewGrid allocates a zero-filled grid.
func NewGrid(h, w int) (*Grid, error) {
	if h <= 0 || w <= 0 {
		return nil, fmt.Errorf("invalid grid shape %dx%d", h, w)
	}
	return &Grid{H: h, W: w, Data: make([]float64, h*w)}, nil
}

// At returns the sample at row y, column x.
func (g *Grid) At(y, x int) float64 {
	return g.Data[y*g.W+x]
}

// Set stores the sample at row y, column x.
func (g *Grid) Set(y, x int, v float64) {
	g.Data[y*g.W+x] = v
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	out := &Grid{H: g.H, W: g.W, Data: make([]float64, len(g.Data))}
	copy(out.Data, g.Data)
	return out
}

// Sub extracts the sub-window [y0,y1) x [x0,x1) as a new grid.
func (g *Grid) Sub(y0, y1, x0, x1 int) (*Grid, error) {
	if y0 < 0 || x0 < 0 || y1 > g.H || x1 > g.W || y0 >= y1 || x0 >= x1 {
		return nil, fmt.Errorf("invalid sub-window [%d:%d, %d:%d] of %dx%d grid", y0, y1, x0, x1, g.H, g.W)
	}
	out, _ := NewGrid(y1-y0, x1-x0)
	for y := y0; y < y1; y++ {
		copy(out.Data[(y-y0)*out.W:(y-y0+1)*out.W], g.Data[y*g.W+x0:y*g.W+x1])
	}
	return out, nil
}

// MinMax returns the smallest and largest finite samples. Non-finite
// samples are skipped; a grid with no finite samples reports (0, 0).
func (g *Grid) MinMax() (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range g.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}

// Median returns the median of the finite samples, or 0 if there are none.
func (g *Grid) Median() float64 {
	vals := make([]float64, 0, len(g.Data))
	for _, v := range g.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		vals = append(vals, v)
	}
	if len(vals) == 0 {
		return 0
	}
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 0 {
		return (vals[mid-1] + vals[mid]) / 2
	}
	return vals[mid]
}

// ApplyMask multiplies the grid in place by a binary mask of the same
// shape. Mask samples other than zero keep the pixel; zero clears it.
func (g *Grid) ApplyMask(mask *Grid) error {
	if err := CheckSameShape(g, mask); err != nil {
		return err
	}
	for i, m := range mask.Data {
		if m == 0 {
			g.Data[i] = 0
		}
	}
	return nil
}

// IntGrid is a 2D raster of int32 labels stored in row-major order.
type IntGrid struct {
	H, W int
	Data []int32
}

// NewIntGrid allocates an IntGrid with every label set to fill.
func NewIntGrid(h, w int, fill int32) (*IntGrid, error) {
	if h <= 0 || w <= 0 {
		return nil, fmt.Errorf("invalid grid shape %dx%d", h, w)
	}
	g := &IntGrid{H: h, W: w, Data: make([]int32, h*w)}
	if fill != 0 {
		for i := range g.Data {
			g.Data[i] = fill
		}
	}
	return g, nil
}

// At returns the label at row y, column x.
func (g *IntGrid) At(y, x int) int32 {
	return g.Data[y*g.W+x]
}

// Set stores the label at row y, column x.
func (g *IntGrid) Set(y, x int, v int32) {
	g.Data[y*g.W+x] = v
}

// Clone returns a deep copy of the label raster.
func (g *IntGrid) Clone() *IntGrid {
	out := &IntGrid{H: g.H, W: g.W, Data: make([]int32, len(g.Data))}
	copy(out.Data, g.Data)
	return out
}

// shaped is satisfied by both grid kinds.
type shaped interface {
	shape() (int, int)
}

func (g *Grid) shape() (int, int)    { return g.H, g.W }
func (g *IntGrid) shape() (int, int) { return g.H, g.W }

// CheckSameShape verifies that all grids share one (H, W). A mismatch is
// fatal for the caller and reported immediately.
func CheckSameShape(grids ...shaped) error {
	if len(grids) < 2 {
		return nil
	}
	h0, w0 := grids[0].shape()
	for _, g := range grids[1:] {
		h, w := g.shape()
		if h != h0 || w != w0 {
			return fmt.Errorf("raster shape mismatch: %dx%d vs %dx%d", h0, w0, h, w)
		}
	}
	return nil
}
