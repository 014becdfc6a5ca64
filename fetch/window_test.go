package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// a north-up raster covering lon [100, 101], lat [49, 50] at 1000x1000 pixels
var mockGeoTransform = [6]float64{100.0, 0.001, 0, 50.0, 0, -0.001}

func TestGeoToPixelRoundTrip(t *testing.T) {
	px, py, err := geoToPixel(mockGeoTransform, 100.5, 49.5)
	assert.Nil(t, err)
	assert.InDelta(t, 500.0, px, 1e-9)
	assert.InDelta(t, 500.0, py, 1e-9)

	x, y := pixelToGeo(mockGeoTransform, px, py)
	assert.InDelta(t, 100.5, x, 1e-9)
	assert.InDelta(t, 49.5, y, 1e-9)
}

func TestGeoToPixel_DegenerateTransform(t *testing.T) {
	_, _, err := geoToPixel([6]float64{}, 100, 50)
	assert.NotNil(t, err)
}

func TestWindowFromBounds_Interior(t *testing.T) {
	window, err := windowFromBounds(mockGeoTransform, 1000, 1000, Bounds{
		MinX: 100.25, MinY: 49.25, MaxX: 100.75, MaxY: 49.75,
	})

	assert.Nil(t, err)
	assert.False(t, window.Empty())
	assert.Equal(t, Window{OffX: 250, OffY: 250, Width: 500, Height: 500}, window)
}

func TestWindowFromBounds_ClipsToRaster(t *testing.T) {
	window, err := windowFromBounds(mockGeoTransform, 1000, 1000, Bounds{
		MinX: 99.5, MinY: 48.5, MaxX: 100.5, MaxY: 49.5,
	})

	assert.Nil(t, err)
	assert.Equal(t, Window{OffX: 0, OffY: 500, Width: 500, Height: 500}, window)
}

func TestWindowFromBounds_DisjointIsEmptyNotError(t *testing.T) {
	window, err := windowFromBounds(mockGeoTransform, 1000, 1000, Bounds{
		MinX: 10, MinY: 10, MaxX: 11, MaxY: 11,
	})

	assert.Nil(t, err)
	assert.True(t, window.Empty())
}
