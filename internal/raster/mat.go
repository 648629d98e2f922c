package raster

import (
	"math"

	"gocv.io/x/gocv"
)

// ToMat32F copies the grid into a single-channel CV32F Mat. The caller
// owns the returned Mat and must Close it.
func ToMat32F(g *Grid) gocv.Mat {
	mat := gocv.NewMatWithSize(g.H, g.W, gocv.MatTypeCV32F)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			mat.SetFloatAt(y, x, float32(g.At(y, x)))
		}
	}
	return mat
}

// ToGray8 rescales the grid's finite sample range to 0-255 and copies it
// into a CV8U Mat, the form the edge detector consumes. A flat grid maps
// to all zeros. The caller owns the returned Mat and must Close it.
func ToGray8(g *Grid) gocv.Mat {
	lo, hi := g.MinMax()
	span := hi - lo

	mat := gocv.NewMatWithSize(g.H, g.W, gocv.MatTypeCV8U)
	if span <= 0 {
		return mat
	}
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			v := g.At(y, x)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = lo
			}
			mat.SetUCharAt(y, x, uint8(math.Round((v-lo)/span*255)))
		}
	}
	return mat
}
