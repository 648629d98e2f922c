package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crop-cluster/internal/raster"
)

// squareSegments builds a 20x20 raster holding a single 10x10 segment
// (ID 1, area 100) surrounded by segment 0.
func squareSegments(t *testing.T) *raster.IntGrid {
	t.Helper()
	segs, err := raster.NewIntGrid(20, 20, 0)
	require.NoError(t, err)
	for y := 5; y < 15; y++ {
		for x := 5; x < 15; x++ {
			segs.Set(y, x, 1)
		}
	}
	return segs
}

func TestDiscoverRetainsSquare(t *testing.T) {
	regions, err := Discover(squareSegments(t), 10)
	require.NoError(t, err)
	require.Len(t, regions, 2)

	// Row-major discovery: the surrounding segment is found first.
	assert.Equal(t, int32(0), regions[0].Segment)
	assert.Equal(t, int32(1), regions[1].Segment)
	assert.Equal(t, 100, regions[1].Area())
	assert.Equal(t, 5, regions[1].Bounds.X)
	assert.Equal(t, 5, regions[1].Bounds.Y)
	assert.Equal(t, 10, regions[1].Bounds.Width)
	assert.Equal(t, 10, regions[1].Bounds.Height)

	for i, reg := range regions {
		assert.Equal(t, i, reg.ID)
	}
}

func TestDiscoverAreaThresholdDrops(t *testing.T) {
	regions, err := Discover(squareSegments(t), 1000)
	require.NoError(t, err)
	assert.Empty(t, regions, "100px region below a 1000px threshold is discarded")
}

func TestDiscoverSkipsSentinel(t *testing.T) {
	segs := squareSegments(t)
	// A sentinel wall splits segment 1 into two halves.
	for y := 5; y < 15; y++ {
		segs.Set(y, 10, raster.Unlabeled)
	}

	regions, err := Discover(segs, 10)
	require.NoError(t, err)

	ofSegment1 := 0
	for _, reg := range regions {
		if reg.Segment == 1 {
			ofSegment1++
			assert.Equal(t, 50, reg.Area())
		}
	}
	assert.Equal(t, 2, ofSegment1, "sentinel wall splits the segment into two regions")
}

func TestDiscoverBadThreshold(t *testing.T) {
	_, err := Discover(squareSegments(t), 0)
	assert.Error(t, err)
}

func TestDescriptorsFixedLength(t *testing.T) {
	g, err := raster.NewGrid(20, 20)
	require.NoError(t, err)
	for i := range g.Data {
		g.Data[i] = float64(i % 13)
	}

	regions, err := Discover(squareSegments(t), 10)
	require.NoError(t, err)
	require.NotEmpty(t, regions)

	opts := DefaultDescriptorOptions()
	descs, err := Descriptors(g, regions, opts)
	require.NoError(t, err)
	require.Len(t, descs, len(regions))

	for _, d := range descs {
		assert.Len(t, d, opts.Length(), "identical length regardless of region size")
	}
}

func TestDescriptorsHistogramsNormalized(t *testing.T) {
	g, err := raster.NewGrid(20, 20)
	require.NoError(t, err)
	for i := range g.Data {
		g.Data[i] = float64((i * 7) % 251)
	}

	regions, err := Discover(squareSegments(t), 10)
	require.NoError(t, err)

	opts := DefaultDescriptorOptions()
	descs, err := Descriptors(g, regions, opts)
	require.NoError(t, err)

	for _, d := range descs {
		sum := 0.0
		for _, v := range d[:opts.HistogramBins] {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "intensity histogram sums to 1")
	}
}

func TestDescriptorsUniformRegionSpike(t *testing.T) {
	// Uniform intensity inside the square, different outside: the
	// square's intensity histogram is a single spike.
	g, err := raster.NewGrid(20, 20)
	require.NoError(t, err)
	for y := 5; y < 15; y++ {
		for x := 5; x < 15; x++ {
			g.Set(y, x, 100)
		}
	}

	regions, err := Discover(squareSegments(t), 10)
	require.NoError(t, err)
	require.Len(t, regions, 2)
	square := regions[1]
	require.Equal(t, int32(1), square.Segment)

	opts := DefaultDescriptorOptions()
	descs, err := Descriptors(g, []Region{square}, opts)
	require.NoError(t, err)

	hist := descs[0][:opts.HistogramBins]
	spikes := 0
	for _, v := range hist {
		if v > 0.99 {
			spikes++
		} else {
			assert.InDelta(t, 0.0, v, 1e-9)
		}
	}
	assert.Equal(t, 1, spikes, "one bin holds the whole histogram mass")
}

func TestDescriptorsBadOptions(t *testing.T) {
	g, err := raster.NewGrid(20, 20)
	require.NoError(t, err)
	regions, err := Discover(squareSegments(t), 10)
	require.NoError(t, err)

	bad := DefaultDescriptorOptions()
	bad.HistogramBins = 0
	_, err = Descriptors(g, regions, bad)
	assert.Error(t, err)

	bad = DefaultDescriptorOptions()
	bad.GLCMLevels = 1
	_, err = Descriptors(g, regions, bad)
	assert.Error(t, err)
}
