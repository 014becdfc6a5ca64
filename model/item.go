package model

import (
	"time"

	"github.com/venicegeo/geojson-go/geojson"
)

// AssetRef is a reference to one named, typed resource of an item. The Href
// is the only field a signing step may rewrite, and only by appending an
// access token to it.
type AssetRef struct {
	Href      string                 `json:"href"`
	MediaType string                 `json:"type,omitempty"`
	Title     string                 `json:"title,omitempty"`
	Roles     []string               `json:"roles,omitempty"`
	Extra     map[string]interface{} `json:"-"`
}

// ItemRecord is one catalog record: a spatio-temporal footprint plus the
// assets it describes. Geometry and AcquiredDate are immutable once parsed
// from the catalog response.
type ItemRecord struct {
	ID           string
	Collection   string
	Geometry     interface{}
	Bbox         geojson.BoundingBox
	AcquiredDate time.Time
	Assets       map[string]AssetRef
	Properties   Properties
}

// Asset returns the asset registered under the given role name
func (item ItemRecord) Asset(role string) (AssetRef, bool) {
	ref, ok := item.Assets[role]
	return ref, ok
}

// GeoJSONFeature implements the GeoJSONFeatureCreator interface
func (item ItemRecord) GeoJSONFeature() (*geojson.Feature, error) {
	properties := make(map[string]interface{}, len(item.Properties)+2)
	for key, value := range item.Properties {
		properties[key] = value
	}
	properties["collection"] = item.Collection
	properties["datetime"] = item.AcquiredDate.UTC().Format(StandardTimeLayout)

	feature := geojson.NewFeature(item.Geometry, item.ID, properties)
	feature.Bbox = feature.ForceBbox()

	var assetsMixin GeoJSONFeatureMixin = AssetsMixin{Assets: item.Assets}
	if err := assetsMixin.Apply(feature); err != nil {
		return nil, err
	}
	return feature, nil
}

// MultiItemResult is a container type for bundling multiple records together,
// e.g. as results from a discover endpoint
type MultiItemResult struct {
	FeatureCreators []GeoJSONFeatureCreator
}

// GeoJSONFeatureCollection implements the GeoJSONFeatureCollectionCreator interface
func (result MultiItemResult) GeoJSONFeatureCollection() (*geojson.FeatureCollection, error) {
	var err error
	features := make([]*geojson.Feature, len(result.FeatureCreators))
	for i, creator := range result.FeatureCreators {
		features[i], err = creator.GeoJSONFeature()
		if err != nil {
			return nil, err
		}
	}

	return geojson.NewFeatureCollection(features), nil
}
