// Package segment implements tiled superpixel segmentation of radar
// rasters and edge-aware refinement of the resulting segment boundaries.
package segment

import (
	"fmt"
	"image"
	"math"
	"runtime"
	"sync"

	"gocv.io/x/gocv"

	"crop-cluster/internal/cluster"
	"crop-cluster/internal/raster"
	"crop-cluster/pkg/geometry"
)

// Options configures tiled segmentation.
type Options struct {
	GridSize       int     // Tile edge length in pixels
	TargetSegments int     // Superpixel target count per tile
	Compactness    float64 // Weight of spatial proximity vs intensity similarity
	SmoothSigma    float64 // Gaussian pre-smoothing sigma; 0 disables
	MaxIterations  int     // Per-tile k-means iteration cap
	Seed           int64   // Base RNG seed; tile i uses Seed+i
	Workers        int     // Concurrent tile workers; 0 means NumCPU
	Verbose        bool
}

// DefaultOptions returns default segmentation options.
func DefaultOptions() Options {
	return Options{
		GridSize:       25,
		TargetSegments: 8,
		Compactness:    0.5,
		SmoothSigma:    1.0,
		MaxIterations:  25,
		Seed:           1,
	}
}

// Validate checks the options before any raster work.
func (o Options) Validate() error {
	if o.GridSize <= 0 {
		return fmt.Errorf("grid size must be positive, got %d", o.GridSize)
	}
	if o.TargetSegments <= 0 {
		return fmt.Errorf("target segment count must be positive, got %d", o.TargetSegments)
	}
	if o.Compactness < 0 {
		return fmt.Errorf("compactness must not be negative, got %g", o.Compactness)
	}
	if o.SmoothSigma < 0 {
		return fmt.Errorf("smoothing sigma must not be negative, got %g", o.SmoothSigma)
	}
	if o.MaxIterations <= 0 {
		return fmt.Errorf("max iterations must be positive, got %d", o.MaxIterations)
	}
	return nil
}

type tileResult struct {
	labels *raster.IntGrid // Tile-local segment labels starting at 0
	count  int             // Number of local segments
	err    error
}

// Run segments the raster tile by tile and assembles one segment raster
// with globally unique segment IDs. Tiles are processed on a worker
// pool; the global ID offsets are assigned afterwards in row-major tile
// order, so the output does not depend on scheduling. Segments never
// cross tile boundaries; that edge artifact is part of the contract.
// Returns the segment raster and the total segment count.
func Run(g *raster.Grid, opts Options) (*raster.IntGrid, int, error) {
	if err := opts.Validate(); err != nil {
		return nil, 0, err
	}

	tiles, err := TileGrid(g.H, g.W, opts.GridSize)
	if err != nil {
		return nil, 0, err
	}
	if opts.Verbose {
		fmt.Printf("[Segment] %dx%d raster, %d tiles of <=%dx%d\n", g.H, g.W, len(tiles), opts.GridSize, opts.GridSize)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(tiles) {
		workers = len(tiles)
	}

	results := make([]tileResult, len(tiles))
	jobs := make(chan int, len(tiles))
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ti := range jobs {
				results[ti] = segmentTile(g, tiles[ti], opts, opts.Seed+int64(ti))
			}
		}()
	}
	for ti := range tiles {
		jobs <- ti
	}
	close(jobs)
	wg.Wait()

	for ti := range results {
		if results[ti].err != nil {
			return nil, 0, fmt.Errorf("tile %d: %w", ti, results[ti].err)
		}
	}

	// Ordered fold over tile results: local IDs are offset by a running
	// counter in row-major tile order.
	out, err := raster.NewIntGrid(g.H, g.W, 0)
	if err != nil {
		return nil, 0, err
	}
	offset := int32(0)
	for ti, t := range tiles {
		local := results[ti].labels
		for y := 0; y < t.Height; y++ {
			for x := 0; x < t.Width; x++ {
				out.Set(t.Y+y, t.X+x, local.At(y, x)+offset)
			}
		}
		offset += int32(results[ti].count)
	}

	if opts.Verbose {
		fmt.Printf("[Segment] %d segments total\n", offset)
	}
	return out, int(offset), nil
}

// segmentTile runs superpixel segmentation on one tile: spatially
// weighted k-means over (intensity, x, y) followed by a connected
// relabel so every local ID names one connected segment.
func segmentTile(g *raster.Grid, t geometry.RectInt, opts Options, seed int64) tileResult {
	sub, err := g.Sub(t.Y, t.Y+t.Height, t.X, t.X+t.Width)
	if err != nil {
		return tileResult{err: err}
	}
	if opts.SmoothSigma > 0 {
		smooth(sub, opts.SmoothSigma)
	}

	n := sub.H * sub.W
	k := opts.TargetSegments
	if k > n {
		k = n
	}

	// Normalized intensity plus spatial coordinates scaled by the SLIC
	// ratio m/S, S being the expected superpixel spacing.
	lo, hi := sub.MinMax()
	span := hi - lo
	spacing := math.Sqrt(float64(n) / float64(k))
	sw := opts.Compactness / spacing

	points := make([][]float64, n)
	backing := make([]float64, n*3)
	for y := 0; y < sub.H; y++ {
		for x := 0; x < sub.W; x++ {
			i := y*sub.W + x
			v := 0.0
			if span > 0 {
				v = (sub.At(y, x) - lo) / span
			}
			row := backing[i*3 : (i+1)*3]
			row[0] = v
			row[1] = float64(x) * sw
			row[2] = float64(y) * sw
			points[i] = row
		}
	}

	res, err := cluster.Run(points, cluster.Options{K: k, MaxIterations: opts.MaxIterations, Seed: seed})
	if err != nil {
		return tileResult{err: err}
	}

	coarse, err := raster.NewIntGrid(sub.H, sub.W, 0)
	if err != nil {
		return tileResult{err: err}
	}
	for i, l := range res.Labels {
		coarse.Data[i] = int32(l)
	}

	labels, count := relabelConnected(coarse)
	return tileResult{labels: labels, count: count}
}

// smooth applies a Gaussian blur to the grid in place.
func smooth(g *raster.Grid, sigma float64) {
	k := 2*int(math.Ceil(2*sigma)) + 1

	src := raster.ToMat32F(g)
	defer src.Close()
	dst := gocv.NewMat()
	defer dst.Close()
	gocv.GaussianBlur(src, &dst, image.Point{X: k, Y: k}, sigma, sigma, gocv.BorderDefault)

	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			g.Set(y, x, float64(dst.GetFloatAt(y, x)))
		}
	}
}

// relabelConnected splits every label of the input into its
// 4-connected components and renumbers them 0..count-1 in row-major
// discovery order.
func relabelConnected(in *raster.IntGrid) (*raster.IntGrid, int) {
	out, _ := raster.NewIntGrid(in.H, in.W, raster.Unlabeled)
	next := int32(0)

	var queue []geometry.PointInt
	for sy := 0; sy < in.H; sy++ {
		for sx := 0; sx < in.W; sx++ {
			if out.At(sy, sx) != raster.Unlabeled {
				continue
			}
			id := in.At(sy, sx)
			out.Set(sy, sx, next)
			queue = append(queue[:0], geometry.PointInt{X: sx, Y: sy})
			for len(queue) > 0 {
				p := queue[len(queue)-1]
				queue = queue[:len(queue)-1]
				for _, d := range [4]geometry.PointInt{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}} {
					nx, ny := p.X+d.X, p.Y+d.Y
					if nx < 0 || ny < 0 || nx >= in.W || ny >= in.H {
						continue
					}
					if out.At(ny, nx) != raster.Unlabeled || in.At(ny, nx) != id {
						continue
					}
					out.Set(ny, nx, next)
					queue = append(queue, geometry.PointInt{X: nx, Y: ny})
				}
			}
			next++
		}
	}
	return out, int(next)
}
