package fetch

import (
	"fmt"
	"math"
)

// Window is a pixel-space read window within a raster
type Window struct {
	OffX   int
	OffY   int
	Width  int
	Height int
}

// Empty reports whether the window covers no pixels
func (w Window) Empty() bool {
	return w.Width <= 0 || w.Height <= 0
}

// Bounds is a geographic or projected bounding box, min corner first
type Bounds struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// geoToPixel maps a georeferenced coordinate to fractional pixel space by
// inverting the affine geotransform
func geoToPixel(gt [6]float64, x, y float64) (px, py float64, err error) {
	det := gt[1]*gt[5] - gt[2]*gt[4]
	if det == 0 {
		return 0, 0, fmt.Errorf("degenerate geotransform %v", gt)
	}
	dx := x - gt[0]
	dy := y - gt[3]
	px = (gt[5]*dx - gt[2]*dy) / det
	py = (gt[1]*dy - gt[4]*dx) / det
	return px, py, nil
}

// pixelToGeo maps a fractional pixel coordinate to georeferenced space
func pixelToGeo(gt [6]float64, px, py float64) (x, y float64) {
	x = gt[0] + px*gt[1] + py*gt[2]
	y = gt[3] + px*gt[4] + py*gt[5]
	return
}

// windowFromBounds computes the pixel window of a raster intersecting the
// given bounds, expressed in the raster's own coordinate reference system.
// A bounds that misses the raster entirely yields an empty window, not an
// error.
func windowFromBounds(gt [6]float64, rasterWidth, rasterHeight int, bounds Bounds) (Window, error) {
	corners := [4][2]float64{
		{bounds.MinX, bounds.MinY},
		{bounds.MinX, bounds.MaxY},
		{bounds.MaxX, bounds.MinY},
		{bounds.MaxX, bounds.MaxY},
	}

	minPX, minPY := math.Inf(1), math.Inf(1)
	maxPX, maxPY := math.Inf(-1), math.Inf(-1)
	for _, corner := range corners {
		px, py, err := geoToPixel(gt, corner[0], corner[1])
		if err != nil {
			return Window{}, err
		}
		minPX = math.Min(minPX, px)
		minPY = math.Min(minPY, py)
		maxPX = math.Max(maxPX, px)
		maxPY = math.Max(maxPY, py)
	}

	x0 := int(math.Floor(minPX))
	y0 := int(math.Floor(minPY))
	x1 := int(math.Ceil(maxPX))
	y1 := int(math.Ceil(maxPY))

	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > rasterWidth {
		x1 = rasterWidth
	}
	if y1 > rasterHeight {
		y1 = rasterHeight
	}

	if x1 <= x0 || y1 <= y0 {
		return Window{}, nil
	}
	return Window{OffX: x0, OffY: y0, Width: x1 - x0, Height: y1 - y0}, nil
}
