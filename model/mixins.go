package model

import (
	"github.com/venicegeo/geojson-go/geojson"
)

// AssetsMixin is a mixin attaching an item's asset hrefs and media types to
// a feature, keyed by role name
type AssetsMixin struct {
	Assets map[string]AssetRef
}

// Apply implements the GeoJSONFeatureMixin interface
func (am AssetsMixin) Apply(feature *geojson.Feature) error {
	if len(am.Assets) == 0 {
		return nil
	}
	assets := make(map[string]interface{}, len(am.Assets))
	for role, ref := range am.Assets {
		assets[role] = map[string]interface{}{
			"href": ref.Href,
			"type": ref.MediaType,
		}
	}
	feature.Properties["assets"] = assets
	return nil
}
