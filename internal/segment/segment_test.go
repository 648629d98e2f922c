package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crop-cluster/internal/raster"
)

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())

	bad := DefaultOptions()
	bad.GridSize = 0
	assert.Error(t, bad.Validate())

	bad = DefaultOptions()
	bad.TargetSegments = -1
	assert.Error(t, bad.Validate())

	bad = DefaultOptions()
	bad.Compactness = -0.1
	assert.Error(t, bad.Validate())
}

func TestRunZeroRaster(t *testing.T) {
	// All-zero 8x8 raster with grid size 4: exactly 4 tiles, at least
	// one segment per tile, global IDs 0..n-1 without collisions.
	g, err := raster.NewGrid(8, 8)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.GridSize = 4
	opts.TargetSegments = 2
	opts.SmoothSigma = 0
	opts.Seed = 1

	segs, n, err := Run(g, opts)
	require.NoError(t, err)
	require.GreaterOrEqual(t, n, 4, "at least one segment per tile")

	// Every ID in [0, n) is present and connected segments do not
	// leak across tile boundaries.
	seen := make(map[int32]bool)
	for _, id := range segs.Data {
		require.GreaterOrEqual(t, id, int32(0))
		require.Less(t, id, int32(n))
		seen[id] = true
	}
	assert.Len(t, seen, n, "no gaps in the global ID range")

	// Each tile's ID set is disjoint from every other tile's.
	tiles, err := TileGrid(8, 8, 4)
	require.NoError(t, err)
	owner := make(map[int32]int)
	for ti, tile := range tiles {
		for y := tile.Y; y < tile.Y+tile.Height; y++ {
			for x := tile.X; x < tile.X+tile.Width; x++ {
				id := segs.At(y, x)
				if prev, ok := owner[id]; ok {
					require.Equal(t, prev, ti, "segment %d crosses tiles", id)
				}
				owner[id] = ti
			}
		}
	}
}

func TestRunDeterministicAcrossWorkerCounts(t *testing.T) {
	g, err := raster.NewGrid(16, 16)
	require.NoError(t, err)
	for i := range g.Data {
		g.Data[i] = float64(i % 37)
	}

	opts := DefaultOptions()
	opts.GridSize = 8
	opts.TargetSegments = 3
	opts.SmoothSigma = 0
	opts.Seed = 9

	opts.Workers = 1
	serial, n1, err := Run(g, opts)
	require.NoError(t, err)

	opts.Workers = 4
	parallel, n2, err := Run(g, opts)
	require.NoError(t, err)

	assert.Equal(t, n1, n2)
	assert.Equal(t, serial.Data, parallel.Data, "IDs independent of scheduling")
}

func TestRelabelConnected(t *testing.T) {
	// Two diagonal blocks of the same coarse label are separate
	// segments under 4-connectivity.
	in, err := raster.NewIntGrid(4, 4, 0)
	require.NoError(t, err)
	in.Set(0, 0, 1)
	in.Set(0, 1, 1)
	in.Set(3, 3, 1)

	out, count := relabelConnected(in)
	assert.Equal(t, 3, count)
	assert.Equal(t, out.At(0, 0), out.At(0, 1))
	assert.NotEqual(t, out.At(0, 0), out.At(3, 3))
	assert.NotEqual(t, out.At(0, 0), out.At(2, 2))

	// Row-major discovery order: the first visited pixel takes ID 0.
	assert.Equal(t, int32(0), out.At(0, 0))
}
