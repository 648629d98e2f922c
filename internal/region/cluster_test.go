package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crop-cluster/internal/cluster"
	"crop-cluster/internal/raster"
)

func TestClusterPaintsSupports(t *testing.T) {
	segs := squareSegments(t)
	regions, err := Discover(segs, 10)
	require.NoError(t, err)
	require.Len(t, regions, 2)

	// Clearly separated descriptors so k=2 splits them.
	descs := [][]float64{{0, 0}, {10, 10}}

	labels, perRegion, err := Cluster(regions, descs, segs.H, segs.W, cluster.Options{K: 2, MaxIterations: 50, Seed: 1})
	require.NoError(t, err)
	require.Len(t, perRegion, 2)
	assert.NotEqual(t, perRegion[0], perRegion[1])

	for _, reg := range regions {
		want := int32(perRegion[reg.ID])
		for _, p := range reg.Pixels {
			require.Equal(t, want, labels.At(p.Y, p.X))
		}
	}
}

func TestClusterUnlabeledSentinel(t *testing.T) {
	segs := squareSegments(t)
	regions, err := Discover(segs, 10)
	require.NoError(t, err)

	// Keep only the square; everything else must stay unlabeled.
	square := []Region{regions[1]}
	square[0].ID = 0
	descs := [][]float64{{1, 2}}

	labels, _, err := Cluster(square, descs, segs.H, segs.W, cluster.Options{K: 3, MaxIterations: 50, Seed: 1})
	require.NoError(t, err)

	for y := 0; y < segs.H; y++ {
		for x := 0; x < segs.W; x++ {
			l := labels.At(y, x)
			if segs.At(y, x) == 1 {
				assert.Equal(t, int32(0), l, "k clamps to the region count")
			} else {
				assert.Equal(t, raster.Unlabeled, l)
			}
		}
	}
}

func TestClusterNoRegions(t *testing.T) {
	labels, perRegion, err := Cluster(nil, nil, 4, 4, cluster.Options{K: 2, MaxIterations: 10, Seed: 1})
	require.NoError(t, err)
	assert.Empty(t, perRegion)
	for _, l := range labels.Data {
		assert.Equal(t, raster.Unlabeled, l)
	}
}

func TestClusterCountMismatch(t *testing.T) {
	segs := squareSegments(t)
	regions, err := Discover(segs, 10)
	require.NoError(t, err)

	_, _, err = Cluster(regions, [][]float64{{1}}, segs.H, segs.W, cluster.Options{K: 2, MaxIterations: 10, Seed: 1})
	assert.Error(t, err)
}
