package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crop-cluster/internal/raster"
)

func TestRefineOptionsValidate(t *testing.T) {
	assert.NoError(t, DefaultRefineOptions().Validate())

	bad := DefaultRefineOptions()
	bad.ThresholdFraction = 0
	assert.Error(t, bad.Validate())

	bad = DefaultRefineOptions()
	bad.ThresholdFraction = 1.5
	assert.Error(t, bad.Validate())

	bad = DefaultRefineOptions()
	bad.DilateRadius = -1
	assert.Error(t, bad.Validate())
}

func TestRefineFlatRasterIsIdentity(t *testing.T) {
	g, err := raster.NewGrid(6, 6)
	require.NoError(t, err)
	segs, err := raster.NewIntGrid(6, 6, 0)
	require.NoError(t, err)
	for x := 3; x < 6; x++ {
		for y := 0; y < 6; y++ {
			segs.Set(y, x, 1)
		}
	}

	refined, err := Refine(g, segs, DefaultRefineOptions())
	require.NoError(t, err)
	assert.Equal(t, segs.Data, refined.Data, "no edges on a flat raster")
}

func TestRefineOnlyTrims(t *testing.T) {
	// A sharp intensity step down the middle; whatever Canny finds,
	// refinement may only shrink segments, never grow or relabel them.
	g, err := raster.NewGrid(12, 12)
	require.NoError(t, err)
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			if x >= 6 {
				g.Set(y, x, 200)
			} else {
				g.Set(y, x, 20)
			}
		}
	}
	segs, err := raster.NewIntGrid(12, 12, 0)
	require.NoError(t, err)
	for y := 0; y < 12; y++ {
		for x := 5; x < 12; x++ {
			segs.Set(y, x, 1)
		}
	}

	refined, err := Refine(g, segs, DefaultRefineOptions())
	require.NoError(t, err)

	before := map[int32]int{}
	after := map[int32]int{}
	for i := range segs.Data {
		before[segs.Data[i]]++
		after[refined.Data[i]]++
		if refined.Data[i] != raster.Unlabeled {
			assert.Equal(t, segs.Data[i], refined.Data[i], "surviving pixels keep their segment ID")
		}
	}
	for id, n := range after {
		if id == raster.Unlabeled {
			continue
		}
		assert.LessOrEqual(t, n, before[id], "segment %d grew", id)
	}
}

func TestRefineShapeMismatch(t *testing.T) {
	g, err := raster.NewGrid(6, 6)
	require.NoError(t, err)
	segs, err := raster.NewIntGrid(5, 6, 0)
	require.NoError(t, err)

	_, err = Refine(g, segs, DefaultRefineOptions())
	assert.ErrorContains(t, err, "shape mismatch")
}
