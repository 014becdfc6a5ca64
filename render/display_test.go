package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/geojson-go/geojson"

	"github.com/lihungbin/PlanetaryComputer/model"
	"github.com/lihungbin/PlanetaryComputer/mosaic"
)

var mockDisplayItem = model.ItemRecord{
	ID:   "item-042",
	Bbox: geojson.BoundingBox{100, 40, 102, 44},
}

func TestApplySelection_ItemCentersAndClearsTiles(t *testing.T) {
	initial := DisplayState{Center: [2]float64{0, 0}, Zoom: 3, TileTemplate: "http://tiles.localdomain/{z}/{x}/{y}"}

	next := initial.ApplySelection(Selection{Item: &mockDisplayItem})

	assert.Equal(t, [2]float64{101, 42}, next.Center)
	assert.Equal(t, "item-042", next.LayerID)
	assert.Equal(t, "", next.TileTemplate)
	// the prior state is untouched
	assert.Equal(t, [2]float64{0, 0}, initial.Center)
	assert.Equal(t, "http://tiles.localdomain/{z}/{x}/{y}", initial.TileTemplate)
}

func TestApplySelection_TileJSON(t *testing.T) {
	initial := DisplayState{Zoom: 3}
	tileJSON := &mosaic.TileJSON{
		Tiles:  []string{"http://tiles.localdomain/mosaic/{z}/{x}/{y}"},
		Center: []float64{-120.5, 46.2, 8},
	}

	next := initial.ApplySelection(Selection{TileJSON: tileJSON, LayerID: "mosaic-layer"})

	assert.Equal(t, "http://tiles.localdomain/mosaic/{z}/{x}/{y}", next.TileTemplate)
	assert.Equal(t, [2]float64{-120.5, 46.2}, next.Center)
	assert.Equal(t, 8, next.Zoom)
	assert.Equal(t, "mosaic-layer", next.LayerID)
}

func TestApplySelection_ExplicitLayerWins(t *testing.T) {
	next := DisplayState{}.ApplySelection(Selection{Item: &mockDisplayItem, LayerID: "custom"})

	assert.Equal(t, "custom", next.LayerID)
}

func TestDiff(t *testing.T) {
	prev := DisplayState{Center: [2]float64{0, 0}, Zoom: 3, LayerID: "a"}
	next := DisplayState{Center: [2]float64{101, 42}, Zoom: 3, LayerID: "b", TileTemplate: "t"}

	changes := Diff(prev, next)

	assert.Len(t, changes, 3)
	assert.Equal(t, SetCenter, changes[0].Op)
	assert.Equal(t, [2]float64{101, 42}, changes[0].Center)
	assert.Equal(t, SetLayer, changes[1].Op)
	assert.Equal(t, SetTiles, changes[2].Op)
}

func TestDiff_EquivalentStates(t *testing.T) {
	state := DisplayState{Center: [2]float64{1, 2}, Zoom: 5, LayerID: "a"}

	assert.Empty(t, Diff(state, state))
}
