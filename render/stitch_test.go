package render

import (
	"context"
	"image"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lihungbin/PlanetaryComputer/fetch"
	"github.com/lihungbin/PlanetaryComputer/util"
)

var tilePathPattern = regexp.MustCompile(`^/tiles/(\d+)/(\d+)/(\d+)$`)

func newMockTileServer(t *testing.T, tileRequests *[]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !tilePathPattern.MatchString(r.URL.Path) {
			http.NotFound(w, r)
			return
		}
		*tileRequests = append(*tileRequests, r.URL.Path)
		w.Header().Set("Content-Type", "image/png")
		png.Encode(w, image.NewNRGBA(image.Rect(0, 0, 256, 256)))
	}))
}

func TestStitchTiles(t *testing.T) {
	var tileRequests []string
	server := newMockTileServer(t, &tileRequests)
	defer server.Close()
	logContext := &util.BasicLogContext{}

	// at zoom 2 this box sits inside tiles x=1..2, y=1
	bounds := fetch.Bounds{MinX: -80, MinY: 10, MaxX: 10, MaxY: 60}
	stitched, err := StitchTiles(context.Background(), logContext, server.URL+"/tiles/{z}/{x}/{y}", bounds, 2)

	assert.Nil(t, err)
	assert.Len(t, tileRequests, 2)
	assert.Contains(t, tileRequests, "/tiles/2/1/1")
	assert.Contains(t, tileRequests, "/tiles/2/2/1")
	assert.True(t, stitched.Bounds().Dx() > 0 && stitched.Bounds().Dx() <= 512)
	assert.True(t, stitched.Bounds().Dy() > 0 && stitched.Bounds().Dy() <= 256)
}

func TestStitchTiles_PolarBoundsStayOnGrid(t *testing.T) {
	var tileRequests []string
	server := newMockTileServer(t, &tileRequests)
	defer server.Close()
	logContext := &util.BasicLogContext{}

	// a whole-world box reaches past the mercator latitude limit; the grid
	// at zoom 1 still only has rows 0 and 1
	bounds := fetch.Bounds{MinX: -180, MinY: -90, MaxX: 180, MaxY: 90}
	stitched, err := StitchTiles(context.Background(), logContext, server.URL+"/tiles/{z}/{x}/{y}", bounds, 1)

	assert.Nil(t, err)
	assert.Len(t, tileRequests, 4)
	for _, tile := range []string{"/tiles/1/0/0", "/tiles/1/1/0", "/tiles/1/0/1", "/tiles/1/1/1"} {
		assert.Contains(t, tileRequests, tile)
	}
	assert.True(t, stitched.Bounds().Dx() <= 512)
	assert.True(t, stitched.Bounds().Dy() <= 512)
}

func TestTileCoords_ClampsLatitude(t *testing.T) {
	_, tyNorth := tileCoords(0, 90, 2)
	_, tySouth := tileCoords(0, -90, 2)

	assert.False(t, math.IsInf(tySouth, 0))
	assert.InDelta(t, 0, tyNorth, 1e-6)
	assert.InDelta(t, 4, tySouth, 1e-6)
}

func TestStitchTiles_BadTemplate(t *testing.T) {
	logContext := &util.BasicLogContext{}

	_, err := StitchTiles(context.Background(), logContext, "http://tiles.localdomain/static.png", fetch.Bounds{}, 2)

	assert.NotNil(t, err)
}

func TestStitchTiles_BadZoom(t *testing.T) {
	logContext := &util.BasicLogContext{}

	_, err := StitchTiles(context.Background(), logContext, "http://tiles.localdomain/{z}/{x}/{y}", fetch.Bounds{}, 99)

	assert.NotNil(t, err)
}

func TestStitchTiles_MissingTile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()
	logContext := &util.BasicLogContext{}

	bounds := fetch.Bounds{MinX: -80, MinY: 10, MaxX: -10, MaxY: 60}
	_, err := StitchTiles(context.Background(), logContext, server.URL+"/tiles/{z}/{x}/{y}", bounds, 2)

	assert.NotNil(t, err)
	assert.True(t, util.IsClientErr(err))
}
