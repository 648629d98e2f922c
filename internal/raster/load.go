package raster

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/tiff"
)

// Load reads a band image (TIFF, PNG, or JPEG) and converts it to a grid
// of luminance samples.
func Load(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open band %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode band %s: %w", path, err)
	}
	return FromImage(img), nil
}

// FromImage converts an image to a grid of 16-bit luminance samples.
// Radar backscatter products are commonly delivered as 16-bit grayscale
// TIFFs, so the full 0-65535 range is preserved.
func FromImage(img image.Image) *Grid {
	bounds := img.Bounds()
	g, _ := NewGrid(bounds.Dy(), bounds.Dx())

	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			r, gr, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			g.Set(y, x, (float64(r)+float64(gr)+float64(b))/3)
		}
	}
	return g
}
