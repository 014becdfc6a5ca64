package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/lihungbin/PlanetaryComputer/fetch"
)

// WritePNG renders a raster window as a static PNG artifact. Three-band
// windows become RGB, single-band windows grayscale; each band is stretched
// linearly between its own minimum and maximum. Empty windows are rejected;
// callers distinguish them with RasterWindow.Empty before rendering.
func WritePNG(w io.Writer, window *fetch.RasterWindow) error {
	img, err := ToImage(window)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// ToImage converts a raster window to a drawable image using the same
// per-band stretch as WritePNG
func ToImage(window *fetch.RasterWindow) (image.Image, error) {
	if window == nil || window.Empty() {
		return nil, fmt.Errorf("render: cannot render an empty raster window")
	}
	switch len(window.Data) {
	case 1:
		return grayImage(window), nil
	case 3:
		return rgbImage(window), nil
	}
	return nil, fmt.Errorf("render: expected 1 or 3 bands, got %d", len(window.Data))
}

func grayImage(window *fetch.RasterWindow) image.Image {
	stretch := newStretch(window.Data[0])
	img := image.NewGray(image.Rect(0, 0, window.Width, window.Height))
	for y := 0; y < window.Height; y++ {
		for x := 0; x < window.Width; x++ {
			value := window.Data[0][y*window.Width+x]
			img.SetGray(x, y, color.Gray{Y: stretch.toByte(value)})
		}
	}
	return img
}

func rgbImage(window *fetch.RasterWindow) image.Image {
	stretches := [3]stretch{
		newStretch(window.Data[0]),
		newStretch(window.Data[1]),
		newStretch(window.Data[2]),
	}
	img := image.NewNRGBA(image.Rect(0, 0, window.Width, window.Height))
	for y := 0; y < window.Height; y++ {
		for x := 0; x < window.Width; x++ {
			offset := y*window.Width + x
			img.SetNRGBA(x, y, color.NRGBA{
				R: stretches[0].toByte(window.Data[0][offset]),
				G: stretches[1].toByte(window.Data[1][offset]),
				B: stretches[2].toByte(window.Data[2][offset]),
				A: 255,
			})
		}
	}
	return img
}

type stretch struct {
	min   float64
	scale float64
}

func newStretch(values []float64) stretch {
	min, max := math.Inf(1), math.Inf(-1)
	for _, value := range values {
		if math.IsNaN(value) {
			continue
		}
		min = math.Min(min, value)
		max = math.Max(max, value)
	}
	if max <= min {
		return stretch{min: min, scale: 0}
	}
	return stretch{min: min, scale: 255 / (max - min)}
}

func (s stretch) toByte(value float64) uint8 {
	if math.IsNaN(value) {
		return 0
	}
	scaled := (value - s.min) * s.scale
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}
