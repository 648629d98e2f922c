package groundtruth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const squareFeature = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"crop_code": 3},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[2, 2], [6, 2], [6, 6], [2, 6], [2, 2]]]
      }
    }
  ]
}`

func TestRasterizeSquare(t *testing.T) {
	mask, err := Rasterize([]byte(squareFeature), 8, 8, DefaultOptions())
	require.NoError(t, err)

	painted := 0
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := mask.At(y, x)
			inside := x >= 2 && x < 6 && y >= 2 && y < 6
			if inside {
				assert.Equal(t, int32(3), v, "pixel (%d,%d)", x, y)
				painted++
			} else {
				assert.Equal(t, int32(0), v, "pixel (%d,%d)", x, y)
			}
		}
	}
	assert.Equal(t, 16, painted)
}

func TestRasterizeSkipsNonPositiveCode(t *testing.T) {
	data := `{
	  "type": "FeatureCollection",
	  "features": [
	    {
	      "type": "Feature",
	      "properties": {"crop_code": 0},
	      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[4,0],[4,4],[0,4],[0,0]]]}
	    }
	  ]
	}`
	mask, err := Rasterize([]byte(data), 8, 8, DefaultOptions())
	require.NoError(t, err)
	for _, v := range mask.Data {
		assert.Equal(t, int32(0), v)
	}
}

func TestRasterizeCustomProperty(t *testing.T) {
	data := `{
	  "type": "FeatureCollection",
	  "features": [
	    {
	      "type": "Feature",
	      "properties": {"kind": 9},
	      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[2,0],[2,2],[0,2],[0,0]]]}
	    }
	  ]
	}`
	opts := DefaultOptions()
	opts.ClassProperty = "kind"
	mask, err := Rasterize([]byte(data), 4, 4, opts)
	require.NoError(t, err)
	assert.Equal(t, int32(9), mask.At(0, 0))
	assert.Equal(t, int32(9), mask.At(1, 1))
	assert.Equal(t, int32(0), mask.At(3, 3))
}

func TestRasterizeErrors(t *testing.T) {
	_, err := Rasterize([]byte("not json"), 4, 4, DefaultOptions())
	assert.Error(t, err)

	_, err = Rasterize([]byte(squareFeature), 4, 4, Options{ClassProperty: ""})
	assert.Error(t, err)
}
