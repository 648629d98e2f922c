package region

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"

	"crop-cluster/internal/raster"
	"crop-cluster/pkg/geometry"
)

// DescriptorOptions configures region descriptor extraction.
type DescriptorOptions struct {
	HistogramBins   int // Intensity histogram bins
	OrientationBins int // Gradient orientation bins over [0, pi)
	GLCMLevels      int // Gray levels for the co-occurrence matrix
	Verbose         bool
}

// DefaultDescriptorOptions returns default descriptor options.
func DefaultDescriptorOptions() DescriptorOptions {
	return DescriptorOptions{
		HistogramBins:   16,
		OrientationBins: 9,
		GLCMLevels:      8,
	}
}

// Validate checks the options.
func (o DescriptorOptions) Validate() error {
	if o.HistogramBins <= 0 {
		return fmt.Errorf("histogram bin count must be positive, got %d", o.HistogramBins)
	}
	if o.OrientationBins <= 0 {
		return fmt.Errorf("orientation bin count must be positive, got %d", o.OrientationBins)
	}
	if o.GLCMLevels < 2 {
		return fmt.Errorf("co-occurrence level count must be at least 2, got %d", o.GLCMLevels)
	}
	return nil
}

// Length returns the descriptor dimensionality: intensity histogram,
// orientation histogram, and the three co-occurrence statistics
// (contrast, energy, homogeneity).
func (o DescriptorOptions) Length() int {
	return o.HistogramBins + o.OrientationBins + 3
}

// Descriptors computes one fixed-length descriptor per region over the
// raw raster. Each sub-vector is normalized independently before
// concatenation, so descriptors are comparable across regions of any
// size and no sub-vector dominates by raw magnitude. Row i of the
// result corresponds to regions[i].
func Descriptors(g *raster.Grid, regions []Region, opts DescriptorOptions) ([][]float64, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	lo, hi := g.MinMax()
	span := hi - lo

	// One Sobel pass over the whole raster serves every region.
	src := raster.ToMat32F(g)
	defer src.Close()
	gx := gocv.NewMat()
	defer gx.Close()
	gy := gocv.NewMat()
	defer gy.Close()
	gocv.Sobel(src, &gx, gocv.MatTypeCV32F, 1, 0, 3, 1, 0, gocv.BorderDefault)
	gocv.Sobel(src, &gy, gocv.MatTypeCV32F, 0, 1, 3, 1, 0, gocv.BorderDefault)

	descs := make([][]float64, len(regions))
	for i, reg := range regions {
		d := make([]float64, 0, opts.Length())
		d = append(d, intensityHistogram(g, reg, lo, span, opts.HistogramBins)...)
		d = append(d, orientationHistogram(gx, gy, reg, opts.OrientationBins)...)
		d = append(d, cooccurrenceStats(g, reg, lo, span, opts.GLCMLevels)...)
		descs[i] = d
	}
	if opts.Verbose {
		fmt.Printf("[Region] %d descriptors of length %d\n", len(descs), opts.Length())
	}
	return descs, nil
}

// intensityHistogram bins the raw intensities of the region's pixel
// support and normalizes the histogram to sum to 1.
func intensityHistogram(g *raster.Grid, reg Region, lo, span float64, bins int) []float64 {
	hist := make([]float64, bins)
	for _, p := range reg.Pixels {
		hist[quantize(g.At(p.Y, p.X), lo, span, bins)]++
	}
	if s := floats.Sum(hist); s > 0 {
		floats.Scale(1/s, hist)
	}
	return hist
}

// orientationHistogram accumulates gradient orientations over [0, pi)
// weighted by gradient magnitude, HOG style, and normalizes to sum to
// 1. A region with zero gradient everywhere keeps an all-zero
// histogram.
func orientationHistogram(gx, gy gocv.Mat, reg Region, bins int) []float64 {
	hist := make([]float64, bins)
	for _, p := range reg.Pixels {
		dx := float64(gx.GetFloatAt(p.Y, p.X))
		dy := float64(gy.GetFloatAt(p.Y, p.X))
		mag := math.Hypot(dx, dy)
		if mag == 0 {
			continue
		}
		ang := math.Atan2(dy, dx)
		if ang < 0 {
			ang += math.Pi
		}
		bin := int(ang / math.Pi * float64(bins))
		if bin >= bins {
			bin = bins - 1
		}
		hist[bin] += mag
	}
	if s := floats.Sum(hist); s > 0 {
		floats.Scale(1/s, hist)
	}
	return hist
}

// cooccurrenceStats quantizes the region to a small number of gray
// levels, builds a horizontal-offset co-occurrence matrix restricted to
// pixel pairs inside the region support, and reduces it to contrast
// (scaled into [0, 1] by its (levels-1)^2 maximum), energy, and
// homogeneity. A region with no interior horizontal pairs reports
// zeros.
func cooccurrenceStats(g *raster.Grid, reg Region, lo, span float64, levels int) []float64 {
	member := make(map[geometry.PointInt]bool, len(reg.Pixels))
	for _, p := range reg.Pixels {
		member[p] = true
	}

	glcm := make([]float64, levels*levels)
	pairs := 0.0
	for _, p := range reg.Pixels {
		q := geometry.PointInt{X: p.X + 1, Y: p.Y}
		if !member[q] {
			continue
		}
		a := quantize(g.At(p.Y, p.X), lo, span, levels)
		b := quantize(g.At(q.Y, q.X), lo, span, levels)
		glcm[a*levels+b]++
		pairs++
	}

	stats := make([]float64, 3)
	if pairs == 0 {
		return stats
	}
	floats.Scale(1/pairs, glcm)

	var contrast, energy, homogeneity float64
	for a := 0; a < levels; a++ {
		for b := 0; b < levels; b++ {
			p := glcm[a*levels+b]
			if p == 0 {
				continue
			}
			diff := float64(a - b)
			contrast += p * diff * diff
			energy += p * p
			homogeneity += p / (1 + math.Abs(diff))
		}
	}
	maxDiff := float64(levels - 1)
	stats[0] = contrast / (maxDiff * maxDiff)
	stats[1] = energy
	stats[2] = homogeneity
	return stats
}

// quantize maps a raw sample into one of n bins over [lo, lo+span].
func quantize(v float64, lo, span float64, n int) int {
	if span <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	bin := int((v - lo) / span * float64(n))
	if bin < 0 {
		bin = 0
	}
	if bin >= n {
		bin = n - 1
	}
	return bin
}
