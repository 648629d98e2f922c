// Package region discovers connected regions in a refined segment
// raster and turns them into fixed-length descriptors for clustering.
package region

import (
	"fmt"

	"crop-cluster/internal/raster"
	"crop-cluster/pkg/geometry"
)

// Region is a connected set of pixels sharing one segment ID. Pixels is
// the region's full pixel support, recorded at discovery time so cluster
// labels can be painted back without re-scanning the raster.
type Region struct {
	ID      int                 // Index in discovery order
	Segment int32               // Segment ID the region came from
	Pixels  []geometry.PointInt // Pixel support
	Bounds  geometry.RectInt    // Bounding box of the support
}

// Area returns the region's pixel count.
func (r Region) Area() int {
	return len(r.Pixels)
}

// Discover enumerates the 4-connected regions of the refined segment
// raster in row-major scan order. Boundary sentinel pixels separate
// regions and belong to none. Regions smaller than minArea are dropped;
// they contribute noise, not signal, to clustering.
func Discover(refined *raster.IntGrid, minArea int) ([]Region, error) {
	if minArea <= 0 {
		return nil, fmt.Errorf("minimum region area must be positive, got %d", minArea)
	}

	visited := make([]bool, len(refined.Data))
	var regions []Region
	var queue []geometry.PointInt

	for sy := 0; sy < refined.H; sy++ {
		for sx := 0; sx < refined.W; sx++ {
			if visited[sy*refined.W+sx] {
				continue
			}
			id := refined.At(sy, sx)
			if id == raster.Unlabeled {
				visited[sy*refined.W+sx] = true
				continue
			}

			visited[sy*refined.W+sx] = true
			queue = append(queue[:0], geometry.PointInt{X: sx, Y: sy})
			pixels := []geometry.PointInt{{X: sx, Y: sy}}
			bounds := geometry.RectInt{X: sx, Y: sy, Width: 1, Height: 1}

			for len(queue) > 0 {
				p := queue[len(queue)-1]
				queue = queue[:len(queue)-1]
				for _, d := range [4]geometry.PointInt{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}} {
					nx, ny := p.X+d.X, p.Y+d.Y
					if nx < 0 || ny < 0 || nx >= refined.W || ny >= refined.H {
						continue
					}
					if visited[ny*refined.W+nx] || refined.At(ny, nx) != id {
						continue
					}
					visited[ny*refined.W+nx] = true
					np := geometry.PointInt{X: nx, Y: ny}
					queue = append(queue, np)
					pixels = append(pixels, np)
					bounds = bounds.ExpandToInclude(np)
				}
			}

			if len(pixels) < minArea {
				continue
			}
			regions = append(regions, Region{
				ID:      len(regions),
				Segment: id,
				Pixels:  pixels,
				Bounds:  bounds,
			})
		}
	}
	return regions, nil
}
