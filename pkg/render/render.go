// Package render paints integer label rasters into images for
// diagnostic output.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/draw"

	"crop-cluster/internal/raster"
)

// Unlabeled pixels render as black.
var unlabeledColor = color.RGBA{A: 255}

// Palette returns n visually distinct colors by stepping the hue wheel
// with the golden angle. The palette is deterministic for a given n.
func Palette(n int) []color.RGBA {
	out := make([]color.RGBA, n)
	const golden = 137.508
	for i := range out {
		h := math.Mod(float64(i)*golden, 360)
		s := 0.65
		if i%2 == 1 {
			s = 0.9
		}
		out[i] = hsvToRGB(h, s, 0.95)
	}
	return out
}

// LabelImage paints the label raster with the palette, cycling if the
// label domain exceeds the palette. Unlabeled pixels come out black.
func LabelImage(labels *raster.IntGrid, palette []color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, labels.W, labels.H))
	for y := 0; y < labels.H; y++ {
		for x := 0; x < labels.W; x++ {
			l := labels.At(y, x)
			if l < 0 {
				img.SetRGBA(x, y, unlabeledColor)
				continue
			}
			img.SetRGBA(x, y, palette[int(l)%len(palette)])
		}
	}
	return img
}

// Upscale resizes the image by an integer factor with nearest-neighbor
// sampling so label boundaries stay crisp.
func Upscale(img *image.RGBA, factor int) *image.RGBA {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// WritePNG saves the image to a PNG file.
func WritePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// hsvToRGB converts H in degrees (0-360), S and V in 0-1 to RGBA.
func hsvToRGB(h, s, v float64) color.RGBA {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return color.RGBA{
		R: uint8((r + m) * 255),
		G: uint8((g + m) * 255),
		B: uint8((b + m) * 255),
		A: 255,
	}
}
