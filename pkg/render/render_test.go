package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crop-cluster/internal/raster"
)

func TestPaletteDeterministicAndDistinct(t *testing.T) {
	a := Palette(16)
	b := Palette(16)
	assert.Equal(t, a, b)

	seen := make(map[color.RGBA]bool)
	for _, c := range a {
		assert.False(t, seen[c], "palette colors repeat")
		seen[c] = true
	}
}

func TestLabelImage(t *testing.T) {
	labels, err := raster.NewIntGrid(2, 2, 0)
	require.NoError(t, err)
	labels.Set(0, 1, 1)
	labels.Set(1, 0, raster.Unlabeled)

	pal := Palette(4)
	img := LabelImage(labels, pal)

	assert.Equal(t, pal[0], img.RGBAAt(0, 0))
	assert.Equal(t, pal[1], img.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{A: 255}, img.RGBAAt(0, 1), "unlabeled renders black")
}

func TestLabelImageCyclesPalette(t *testing.T) {
	labels, err := raster.NewIntGrid(1, 1, 5)
	require.NoError(t, err)
	img := LabelImage(labels, Palette(3))
	assert.Equal(t, Palette(3)[2], img.RGBAAt(0, 0))
}

func TestUpscale(t *testing.T) {
	labels, err := raster.NewIntGrid(2, 2, 0)
	require.NoError(t, err)
	labels.Set(0, 0, 1)
	img := LabelImage(labels, Palette(2))

	big := Upscale(img, 3)
	assert.Equal(t, 6, big.Bounds().Dx())
	assert.Equal(t, 6, big.Bounds().Dy())
	assert.Equal(t, img.RGBAAt(0, 0), big.RGBAAt(1, 1), "nearest-neighbor keeps blocks")

	same := Upscale(img, 1)
	assert.Equal(t, img, same)
}
