// Copyright 2016, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fetch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/airbusgeo/godal"

	"github.com/lihungbin/PlanetaryComputer/model"
	"github.com/lihungbin/PlanetaryComputer/util"
)

const wgs84Proj4 = "+proj=longlat +datum=WGS84 +no_defs"

var registerDriversOnce sync.Once

// RasterWindow is an in-memory pixel window read from a raster asset,
// band-major, with the georeferencing of the window itself.
type RasterWindow struct {
	Data       [][]float64
	Width      int
	Height     int
	Transform  [6]float64
	Projection string
}

// Empty reports whether the read produced no pixels
func (rw *RasterWindow) Empty() bool {
	return rw.Width == 0 || rw.Height == 0
}

// ReadRasterWindow opens a raster asset and reads the pixel window
// intersecting the given geographic bounds (WGS84 lon/lat), reprojecting the
// bounds into the asset's native coordinate reference system first. A nil
// bounds reads the full raster; bands selects 1-based band numbers, all
// bands when empty. Reads go through GDAL's range-request virtual
// filesystem, so only the intersecting window is downloaded. Bounds that
// miss the asset entirely yield an empty window, not an error.
func ReadRasterWindow(ctx context.Context, logContext util.LogContext, ref model.AssetRef, bounds *Bounds, bands []int) (*RasterWindow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	registerDriversOnce.Do(func() { godal.RegisterAll() })

	dataset, err := godal.Open(gdalName(ref.Href))
	if err != nil {
		return nil, util.LogSimpleErr(logContext, fmt.Sprintf("Failed to open raster asset %v.", ref.Href), err)
	}
	defer dataset.Close()

	structure := dataset.Structure()
	transform, err := dataset.GeoTransform()
	if err != nil {
		return nil, util.LogSimpleErr(logContext, fmt.Sprintf("Raster asset %v has no geotransform.", ref.Href), err)
	}

	window := Window{Width: structure.SizeX, Height: structure.SizeY}
	if bounds != nil {
		nativeBounds, err := reprojectBounds(dataset, *bounds)
		if err != nil {
			return nil, util.LogSimpleErr(logContext, fmt.Sprintf("Failed to reproject request bounds into the CRS of %v.", ref.Href), err)
		}
		if window, err = windowFromBounds(transform, structure.SizeX, structure.SizeY, nativeBounds); err != nil {
			return nil, util.LogSimpleErr(logContext, fmt.Sprintf("Failed to compute read window for %v.", ref.Href), err)
		}
	}

	result := RasterWindow{Projection: dataset.Projection(), Transform: transform}
	if window.Empty() {
		return &result, nil
	}
	result.Width = window.Width
	result.Height = window.Height
	result.Transform[0], result.Transform[3] = pixelToGeo(transform, float64(window.OffX), float64(window.OffY))

	allBands := dataset.Bands()
	if len(bands) == 0 {
		bands = make([]int, len(allBands))
		for i := range allBands {
			bands[i] = i + 1
		}
	}

	result.Data = make([][]float64, len(bands))
	for i, bandNumber := range bands {
		if bandNumber < 1 || bandNumber > len(allBands) {
			return nil, fmt.Errorf("raster %v has no band %d", ref.Href, bandNumber)
		}
		buffer := make([]float64, window.Width*window.Height)
		if err := allBands[bandNumber-1].Read(window.OffX, window.OffY, buffer, window.Width, window.Height); err != nil {
			return nil, util.LogSimpleErr(logContext, fmt.Sprintf("Failed windowed read of band %d of %v.", bandNumber, ref.Href), err)
		}
		result.Data[i] = buffer
	}

	return &result, nil
}

// reprojectBounds transforms WGS84 lon/lat bounds into the dataset's native
// CRS by transforming the box corners and taking their envelope.
func reprojectBounds(dataset *godal.Dataset, bounds Bounds) (Bounds, error) {
	native := dataset.SpatialRef()
	if native == nil {
		// ungeoreferenced rasters are treated as already being in the
		// request CRS
		return bounds, nil
	}

	wgs84, err := godal.NewSpatialRefFromProj4(wgs84Proj4)
	if err != nil {
		return Bounds{}, err
	}
	defer wgs84.Close()

	transform, err := godal.NewTransform(wgs84, native)
	if err != nil {
		return Bounds{}, err
	}
	defer transform.Close()

	xs := []float64{bounds.MinX, bounds.MinX, bounds.MaxX, bounds.MaxX}
	ys := []float64{bounds.MinY, bounds.MaxY, bounds.MinY, bounds.MaxY}
	if err := transform.TransformEx(xs, ys, nil, nil); err != nil {
		return Bounds{}, err
	}

	projected := Bounds{MinX: xs[0], MinY: ys[0], MaxX: xs[0], MaxY: ys[0]}
	for i := 1; i < 4; i++ {
		if xs[i] < projected.MinX {
			projected.MinX = xs[i]
		}
		if xs[i] > projected.MaxX {
			projected.MaxX = xs[i]
		}
		if ys[i] < projected.MinY {
			projected.MinY = ys[i]
		}
		if ys[i] > projected.MaxY {
			projected.MaxY = ys[i]
		}
	}
	return projected, nil
}

func gdalName(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return "/vsicurl/" + href
	}
	return href
}
