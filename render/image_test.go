package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lihungbin/PlanetaryComputer/fetch"
)

func TestWritePNG_SingleBand(t *testing.T) {
	window := &fetch.RasterWindow{
		Data:   [][]float64{{0, 50, 100, 150, 200, 250}},
		Width:  3,
		Height: 2,
	}

	var buffer bytes.Buffer
	err := WritePNG(&buffer, window)

	assert.Nil(t, err)
	decoded, err := png.Decode(&buffer)
	assert.Nil(t, err)
	assert.Equal(t, 3, decoded.Bounds().Dx())
	assert.Equal(t, 2, decoded.Bounds().Dy())
}

func TestToImage_StretchesBandRange(t *testing.T) {
	window := &fetch.RasterWindow{
		Data:   [][]float64{{1000, 2000, 3000, 4000}},
		Width:  2,
		Height: 2,
	}

	img, err := ToImage(window)
	assert.Nil(t, err)

	gray := img.(*image.Gray)
	assert.Equal(t, uint8(0), gray.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), gray.GrayAt(1, 1).Y)
}

func TestToImage_ThreeBands(t *testing.T) {
	band := []float64{0, 255, 0, 255}
	window := &fetch.RasterWindow{
		Data:   [][]float64{band, band, band},
		Width:  2,
		Height: 2,
	}

	img, err := ToImage(window)
	assert.Nil(t, err)

	nrgba := img.(*image.NRGBA)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, nrgba.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{R: 0, G: 0, B: 0, A: 255}, nrgba.NRGBAAt(0, 0))
}

func TestToImage_RejectsEmptyWindow(t *testing.T) {
	_, err := ToImage(nil)
	assert.NotNil(t, err)

	_, err = ToImage(&fetch.RasterWindow{})
	assert.NotNil(t, err)
}

func TestToImage_RejectsBandCount(t *testing.T) {
	window := &fetch.RasterWindow{
		Data:   [][]float64{{0}, {0}},
		Width:  1,
		Height: 1,
	}

	_, err := ToImage(window)

	assert.NotNil(t, err)
}
