package segment

import (
	"fmt"

	"crop-cluster/pkg/geometry"
)

// TileGrid partitions an h x w raster into a row-major list of tiles of
// at most size x size pixels. Edge tiles are smaller when the raster
// dimensions are not multiples of size; together the tiles cover every
// pixel exactly once.
func TileGrid(h, w, size int) ([]geometry.RectInt, error) {
	if h <= 0 || w <= 0 {
		return nil, fmt.Errorf("invalid raster shape %dx%d", h, w)
	}
	if size <= 0 {
		return nil, fmt.Errorf("grid size must be positive, got %d", size)
	}

	var tiles []geometry.RectInt
	for y := 0; y < h; y += size {
		th := size
		if y+th > h {
			th = h - y
		}
		for x := 0; x < w; x += size {
			tw := size
			if x+tw > w {
				tw = w - x
			}
			tiles = append(tiles, geometry.RectInt{X: x, Y: y, Width: tw, Height: th})
		}
	}
	return tiles, nil
}
