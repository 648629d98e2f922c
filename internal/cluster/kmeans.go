// Package cluster implements the shared k-means partitioning primitive
// used by both the pixel and the region clustering paths.
package cluster

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Options configures a k-means run.
type Options struct {
	K             int   // Number of clusters
	MaxIterations int   // Iteration cap if assignments never stabilize
	Seed          int64 // RNG seed; same seed + same input -> same labels
}

// DefaultOptions returns default clustering options.
func DefaultOptions() Options {
	return Options{
		K:             10,
		MaxIterations: 100,
		Seed:          1,
	}
}

// Validate checks the options before any data is touched.
func (o Options) Validate() error {
	if o.K <= 0 {
		return fmt.Errorf("cluster count must be positive, got %d", o.K)
	}
	if o.MaxIterations <= 0 {
		return fmt.Errorf("max iterations must be positive, got %d", o.MaxIterations)
	}
	return nil
}

// Result holds the outcome of a k-means run.
type Result struct {
	Labels     []int       // One label in [0, K-1] per input point
	Centroids  [][]float64 // Final cluster centers
	Iterations int         // Iterations until convergence or cap
}

// Run partitions points into opts.K clusters with Lloyd's algorithm.
// Initial centroids are drawn from the points with a seeded RNG, so the
// result is reproducible. A centroid left with no assigned points is
// re-seeded to the point farthest from its own centroid (first index on
// ties), so the run always ends with K clusters.
func Run(points [][]float64, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	n := len(points)
	if n == 0 {
		return nil, fmt.Errorf("no points to cluster")
	}
	if opts.K > n {
		return nil, fmt.Errorf("cluster count %d exceeds point count %d", opts.K, n)
	}
	dim := len(points[0])
	for i, p := range points {
		if len(p) != dim {
			return nil, fmt.Errorf("point %d has %d features, expected %d", i, len(p), dim)
		}
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	centroids := make([][]float64, opts.K)
	for i, idx := range rng.Perm(n)[:opts.K] {
		centroids[i] = append([]float64(nil), points[idx]...)
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	iter := 0
	for ; iter < opts.MaxIterations; iter++ {
		changed := assign(points, centroids, labels)

		counts := make([]int, opts.K)
		sums := make([][]float64, opts.K)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, p := range points {
			c := labels[i]
			counts[c]++
			floats.Add(sums[c], p)
		}

		for c := 0; c < opts.K; c++ {
			if counts[c] == 0 {
				// Re-seed the empty cluster to the point farthest
				// from its assigned centroid and redo the pass.
				far := farthestPoint(points, centroids, labels)
				copy(centroids[c], points[far])
				changed = true
				continue
			}
			copy(centroids[c], sums[c])
			floats.Scale(1/float64(counts[c]), centroids[c])
		}

		if !changed {
			break
		}
	}

	return &Result{Labels: labels, Centroids: centroids, Iterations: iter}, nil
}

// assign moves every point to its nearest centroid (lowest index on
// ties) and reports whether any label changed.
func assign(points, centroids [][]float64, labels []int) bool {
	changed := false
	for i, p := range points {
		best, bestDist := 0, math.Inf(1)
		for c, ctr := range centroids {
			d := floats.Distance(p, ctr, 2)
			if d < bestDist {
				best, bestDist = c, d
			}
		}
		if labels[i] != best {
			labels[i] = best
			changed = true
		}
	}
	return changed
}

// farthestPoint returns the index of the point with the greatest
// distance to its assigned centroid.
func farthestPoint(points, centroids [][]float64, labels []int) int {
	far, farDist := 0, -1.0
	for i, p := range points {
		if labels[i] < 0 {
			continue
		}
		d := floats.Distance(p, centroids[labels[i]], 2)
		if d > farDist {
			far, farDist = i, d
		}
	}
	return far
}
