package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/geojson-go/geojson"

	"github.com/lihungbin/PlanetaryComputer/model"
)

func mockSquare(minX, minY, maxX, maxY float64) *geojson.Polygon {
	return geojson.NewPolygon([][][]float64{{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY},
	}})
}

// unit square area of interest
var mockAOI = mockSquare(0, 0, 1, 1)

func TestByOverlap_HighestCoverageFirst(t *testing.T) {
	items := []model.ItemRecord{
		{ID: "quarter", Geometry: mockSquare(0, 0, 0.5, 0.5)},
		{ID: "full", Geometry: mockSquare(-1, -1, 2, 2)},
		{ID: "half", Geometry: mockSquare(0, 0, 1, 0.5)},
		{ID: "miss", Geometry: mockSquare(5, 5, 6, 6)},
	}

	ranked, err := ByOverlap(mockAOI, items)

	assert.Nil(t, err)
	assert.Equal(t, "full", ranked[0].ID)
	assert.Equal(t, "half", ranked[1].ID)
	assert.Equal(t, "quarter", ranked[2].ID)
	assert.Equal(t, "miss", ranked[3].ID)
	// input order is preserved
	assert.Equal(t, "quarter", items[0].ID)
}

func TestByOverlap_TiesKeepInputOrder(t *testing.T) {
	items := []model.ItemRecord{
		{ID: "first", Geometry: mockSquare(0, 0, 0.5, 1)},
		{ID: "second", Geometry: mockSquare(0.5, 0, 1, 1)},
		{ID: "third", Geometry: mockSquare(0, 0.5, 1, 1)},
	}

	ranked, err := ByOverlap(mockAOI, items)

	assert.Nil(t, err)
	assert.Equal(t, "first", ranked[0].ID)
	assert.Equal(t, "second", ranked[1].ID)
	assert.Equal(t, "third", ranked[2].ID)
}

func TestOverlapRatio(t *testing.T) {
	ratio, err := OverlapRatio(mockAOI, mockSquare(0.5, 0, 1.5, 1))

	assert.Nil(t, err)
	assert.InDelta(t, 0.5, ratio, 1e-9)
}

func TestOverlapRatio_Disjoint(t *testing.T) {
	ratio, err := OverlapRatio(mockAOI, mockSquare(10, 10, 11, 11))

	assert.Nil(t, err)
	assert.Equal(t, 0.0, ratio)
}

func TestByOverlap_ZeroAreaAOI(t *testing.T) {
	point := geojson.NewPoint([]float64{0.5, 0.5})

	_, err := ByOverlap(point, []model.ItemRecord{{ID: "a", Geometry: mockSquare(0, 0, 1, 1)}})

	assert.NotNil(t, err)
}

func TestByOverlap_UnsupportedGeometry(t *testing.T) {
	items := []model.ItemRecord{{ID: "bad", Geometry: geojson.NewLineString([][]float64{{0, 0}, {1, 1}})}}

	_, err := ByOverlap(mockAOI, items)

	assert.NotNil(t, err)
}
