package catalog

import (
	"fmt"

	"github.com/venicegeo/geojson-go/geojson"

	"github.com/lihungbin/PlanetaryComputer/model"
)

func parseItems(features []itemWire) ([]model.ItemRecord, error) {
	items := make([]model.ItemRecord, len(features))
	for i, wire := range features {
		item, err := parseItem(wire)
		if err != nil {
			return nil, err
		}
		items[i] = *item
	}
	return items, nil
}

func parseItem(wire itemWire) (*model.ItemRecord, error) {
	if wire.ID == "" {
		return nil, fmt.Errorf("catalog item has no id")
	}
	if len(wire.Geometry) == 0 {
		return nil, fmt.Errorf("catalog item %v has no geometry", wire.ID)
	}
	geometry, err := geojson.Parse(wire.Geometry)
	if err != nil {
		return nil, fmt.Errorf("catalog item %v has unparseable geometry: %w", wire.ID, err)
	}

	properties := model.Properties(wire.Properties)
	acquired, err := properties.Time("datetime")
	if err != nil {
		// ranged items carry start/end instead of a single instant
		if acquired, err = properties.Time("start_datetime"); err != nil {
			return nil, fmt.Errorf("catalog item %v has no usable datetime: %w", wire.ID, err)
		}
	}

	assets := make(map[string]model.AssetRef, len(wire.Assets))
	for role, asset := range wire.Assets {
		assets[role] = model.AssetRef{
			Href:      asset.Href,
			MediaType: asset.Type,
			Title:     asset.Title,
			Roles:     asset.Roles,
		}
	}

	item := model.ItemRecord{
		ID:           wire.ID,
		Collection:   wire.Collection,
		Geometry:     geometry,
		Bbox:         geojson.BoundingBox(wire.Bbox),
		AcquiredDate: acquired,
		Assets:       assets,
		Properties:   properties,
	}
	if item.Bbox == nil {
		feature := geojson.NewFeature(geometry, wire.ID, nil)
		item.Bbox = feature.ForceBbox()
	}
	return &item, nil
}
