package render

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"math"
	"net/http"
	"strconv"
	"strings"

	// tile servers answer with PNG or JPEG depending on layer
	_ "image/jpeg"
	_ "image/png"

	"github.com/lihungbin/PlanetaryComputer/fetch"
	"github.com/lihungbin/PlanetaryComputer/util"
)

const tileSize = 256

// StitchTiles composites an XYZ tile service over a geographic bounding box
// at one zoom level into a single image. Tiles are fetched sequentially, one
// request per tile, and nothing is cached; the template is any URL with
// {z}/{x}/{y} placeholders, e.g. a resolved mosaic tile template.
func StitchTiles(ctx context.Context, logContext util.LogContext, template string, bounds fetch.Bounds, zoom int) (image.Image, error) {
	if !strings.Contains(template, "{z}") || !strings.Contains(template, "{x}") || !strings.Contains(template, "{y}") {
		return nil, fmt.Errorf("render: tile template %q lacks {z}/{x}/{y} placeholders", template)
	}
	if zoom < 0 || zoom > 24 {
		return nil, fmt.Errorf("render: zoom %d out of range", zoom)
	}

	minTX, maxTY := tileCoords(bounds.MinX, bounds.MinY, zoom)
	maxTX, minTY := tileCoords(bounds.MaxX, bounds.MaxY, zoom)

	lastIndex := int(math.Exp2(float64(zoom))) - 1
	firstTX, firstTY := clampTile(minTX, lastIndex), clampTile(minTY, lastIndex)
	lastTX, lastTY := clampTile(maxTX, lastIndex), clampTile(maxTY, lastIndex)

	columns := lastTX - firstTX + 1
	rows := lastTY - firstTY + 1
	canvas := image.NewNRGBA(image.Rect(0, 0, columns*tileSize, rows*tileSize))

	for ty := firstTY; ty <= lastTY; ty++ {
		for tx := firstTX; tx <= lastTX; tx++ {
			tile, err := fetchTile(ctx, logContext, template, zoom, tx, ty)
			if err != nil {
				return nil, err
			}
			origin := image.Pt((tx-firstTX)*tileSize, (ty-firstTY)*tileSize)
			draw.Draw(canvas, image.Rectangle{Min: origin, Max: origin.Add(image.Pt(tileSize, tileSize))}, tile, tile.Bounds().Min, draw.Src)
		}
	}

	// crop to the exact pixel footprint of the requested bounds
	cropMinX := int(math.Round((minTX - float64(firstTX)) * tileSize))
	cropMinY := int(math.Round((minTY - float64(firstTY)) * tileSize))
	cropMaxX := int(math.Round((maxTX - float64(firstTX)) * tileSize))
	cropMaxY := int(math.Round((maxTY - float64(firstTY)) * tileSize))
	crop := image.Rect(cropMinX, cropMinY, cropMaxX, cropMaxY).Intersect(canvas.Bounds())
	if crop.Empty() {
		return canvas, nil
	}
	return canvas.SubImage(crop), nil
}

// webMercatorMaxLat is the latitude limit of the spherical-mercator tiling
// scheme; rows beyond it do not exist.
const webMercatorMaxLat = 85.05112878

// tileCoords maps a WGS84 position to fractional XYZ tile coordinates using
// the spherical-mercator tiling scheme. Latitudes beyond the mercator limit
// are clamped to it, so polar bounds land on the first and last tile rows.
func tileCoords(lon, lat float64, zoom int) (tx, ty float64) {
	n := math.Exp2(float64(zoom))
	lat = math.Max(-webMercatorMaxLat, math.Min(webMercatorMaxLat, lat))
	tx = (lon + 180) / 360 * n
	latRad := lat * math.Pi / 180
	ty = (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * n
	return
}

// clampTile floors a fractional tile coordinate to a valid tile index at the
// current zoom
func clampTile(coord float64, lastIndex int) int {
	index := int(math.Floor(coord))
	if index < 0 {
		return 0
	}
	if index > lastIndex {
		return lastIndex
	}
	return index
}

func fetchTile(ctx context.Context, logContext util.LogContext, template string, zoom, tx, ty int) (image.Image, error) {
	tileURL := strings.NewReplacer(
		"{z}", strconv.Itoa(zoom),
		"{x}", strconv.Itoa(tx),
		"{y}", strconv.Itoa(ty),
	).Replace(template)

	request, err := http.NewRequestWithContext(ctx, "GET", tileURL, nil)
	if err != nil {
		return nil, err
	}
	response, err := util.HTTPClient().Do(request)
	if err != nil {
		return nil, util.LogSimpleErr(logContext, fmt.Sprintf("Failed to fetch tile %v.", tileURL), err)
	}
	defer response.Body.Close()
	if response.StatusCode >= 400 {
		message := fmt.Sprintf("Failed to fetch tile %v: %v. ", tileURL, response.Status)
		util.LogAlert(logContext, message)
		return nil, util.HTTPErr{Status: response.StatusCode, Message: message}
	}

	tile, _, err := image.Decode(response.Body)
	if err != nil {
		return nil, util.LogSimpleErr(logContext, fmt.Sprintf("Failed to decode tile %v.", tileURL), err)
	}
	return tile, nil
}
