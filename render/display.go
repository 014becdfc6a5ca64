package render

import (
	"github.com/lihungbin/PlanetaryComputer/model"
	"github.com/lihungbin/PlanetaryComputer/mosaic"
)

// DisplayState is an immutable description of what an interactive map should
// show. Selection logic produces new states; a rendering layer applies the
// difference between consecutive states to whatever widget it drives.
type DisplayState struct {
	Center       [2]float64 // lon, lat
	Zoom         int
	LayerID      string
	TileTemplate string
}

// Selection is one user or program choice to display: a single catalog item,
// or a tiled mosaic.
type Selection struct {
	Item     *model.ItemRecord
	TileJSON *mosaic.TileJSON
	LayerID  string
}

// ApplySelection returns the state that results from applying a selection to
// the current one. The receiver is never modified.
func (s DisplayState) ApplySelection(selection Selection) DisplayState {
	next := s
	if selection.LayerID != "" {
		next.LayerID = selection.LayerID
	}
	if selection.Item != nil {
		if bbox := selection.Item.Bbox; len(bbox) >= 4 {
			next.Center = [2]float64{(bbox[0] + bbox[2]) / 2, (bbox[1] + bbox[3]) / 2}
		}
		if next.LayerID == s.LayerID {
			next.LayerID = selection.Item.ID
		}
		next.TileTemplate = ""
	}
	if selection.TileJSON != nil {
		if len(selection.TileJSON.Tiles) > 0 {
			next.TileTemplate = selection.TileJSON.Tiles[0]
		}
		if len(selection.TileJSON.Center) >= 2 {
			next.Center = [2]float64{selection.TileJSON.Center[0], selection.TileJSON.Center[1]}
		}
		if len(selection.TileJSON.Center) >= 3 {
			next.Zoom = int(selection.TileJSON.Center[2])
		} else if selection.TileJSON.MinZoom > 0 {
			next.Zoom = selection.TileJSON.MinZoom
		}
	}
	return next
}

// ChangeOp names one kind of display mutation
type ChangeOp string

const (
	SetCenter ChangeOp = "set-center"
	SetZoom   ChangeOp = "set-zoom"
	SetLayer  ChangeOp = "set-layer"
	SetTiles  ChangeOp = "set-tiles"
)

// Change is one mutation a rendering layer must apply to move a widget from
// one display state to the next
type Change struct {
	Op           ChangeOp
	Center       [2]float64
	Zoom         int
	LayerID      string
	TileTemplate string
}

// Diff computes the mutations needed to move a widget showing prev to show
// next. An empty result means the states are equivalent.
func Diff(prev, next DisplayState) []Change {
	var changes []Change
	if prev.Center != next.Center {
		changes = append(changes, Change{Op: SetCenter, Center: next.Center})
	}
	if prev.Zoom != next.Zoom {
		changes = append(changes, Change{Op: SetZoom, Zoom: next.Zoom})
	}
	if prev.LayerID != next.LayerID {
		changes = append(changes, Change{Op: SetLayer, LayerID: next.LayerID})
	}
	if prev.TileTemplate != next.TileTemplate {
		changes = append(changes, Change{Op: SetTiles, TileTemplate: next.TileTemplate})
	}
	return changes
}
