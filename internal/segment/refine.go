package segment

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"crop-cluster/internal/raster"
)

// RefineOptions configures edge-aware boundary refinement.
type RefineOptions struct {
	ThresholdFraction float64 // Canny thresholds at median*(1-f) and median*(1+f)
	DilateRadius      int     // Half-width of the boundary search band
	Verbose           bool
}

// DefaultRefineOptions returns default refinement options.
func DefaultRefineOptions() RefineOptions {
	return RefineOptions{
		ThresholdFraction: 0.33,
		DilateRadius:      1,
	}
}

// Validate checks the options.
func (o RefineOptions) Validate() error {
	if o.ThresholdFraction <= 0 || o.ThresholdFraction >= 1 {
		return fmt.Errorf("threshold fraction must be in (0, 1), got %g", o.ThresholdFraction)
	}
	if o.DilateRadius < 0 {
		return fmt.Errorf("dilate radius must not be negative, got %d", o.DilateRadius)
	}
	return nil
}

// Refine trims segment extents wherever they disagree with strong
// intensity edges. Canny thresholds are derived from the raster's own
// median intensity, so they self-calibrate per input. Pixels where the
// edge mask intersects the (dilated) segment boundary band are cleared
// to the boundary sentinel; segments may shrink or split, never grow,
// and surviving IDs are not renumbered.
func Refine(g *raster.Grid, segs *raster.IntGrid, opts RefineOptions) (*raster.IntGrid, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := raster.CheckSameShape(g, segs); err != nil {
		return nil, err
	}

	lo, hi := g.MinMax()
	if hi <= lo {
		// Flat raster: no edges to snap to.
		return segs.Clone(), nil
	}

	// Median of the 8-bit rescaled intensities, the domain Canny sees.
	med := (g.Median() - lo) / (hi - lo) * 255
	low := med * (1 - opts.ThresholdFraction)
	high := med * (1 + opts.ThresholdFraction)
	if high > 255 {
		high = 255
	}
	if opts.Verbose {
		fmt.Printf("[Refine] median %.1f, canny thresholds %.1f/%.1f\n", med, low, high)
	}

	gray := raster.ToGray8(g)
	defer gray.Close()
	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, float32(low), float32(high))

	boundary := boundaryMask(segs)
	defer boundary.Close()
	if opts.DilateRadius > 0 {
		side := 2*opts.DilateRadius + 1
		kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: side, Y: side})
		defer kernel.Close()
		gocv.Dilate(boundary, &boundary, kernel)
	}

	cut := gocv.NewMat()
	defer cut.Close()
	gocv.BitwiseAnd(edges, boundary, &cut)

	refined := segs.Clone()
	trimmed := 0
	for y := 0; y < segs.H; y++ {
		for x := 0; x < segs.W; x++ {
			if cut.GetUCharAt(y, x) != 0 {
				refined.Set(y, x, raster.Unlabeled)
				trimmed++
			}
		}
	}
	if opts.Verbose {
		fmt.Printf("[Refine] trimmed %d boundary pixels\n", trimmed)
	}
	return refined, nil
}

// boundaryMask marks pixels whose right or lower neighbor carries a
// different segment ID. The caller owns the returned Mat.
func boundaryMask(segs *raster.IntGrid) gocv.Mat {
	mask := gocv.NewMatWithSize(segs.H, segs.W, gocv.MatTypeCV8U)
	for y := 0; y < segs.H; y++ {
		for x := 0; x < segs.W; x++ {
			id := segs.At(y, x)
			if x+1 < segs.W && segs.At(y, x+1) != id {
				mask.SetUCharAt(y, x, 255)
				continue
			}
			if y+1 < segs.H && segs.At(y+1, x) != id {
				mask.SetUCharAt(y, x, 255)
			}
		}
	}
	return mask
}
