package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/geojson-go/geojson"
)

func TestAssetsMixin_Apply(t *testing.T) {
	// Mock
	feature := geojson.NewFeature(nil, "test-id", nil)
	mixin := AssetsMixin{Assets: map[string]AssetRef{
		"visual":    {Href: "https://example.localdomain/visual.tif", MediaType: "image/tiff; application=geotiff"},
		"thumbnail": {Href: "https://example.localdomain/thumb.png", MediaType: "image/png"},
	}}

	// Tested code
	err := mixin.Apply(feature)

	// Asserts
	assert.Nil(t, err)
	assets, ok := feature.Properties["assets"].(map[string]interface{})
	assert.True(t, ok)
	assert.Len(t, assets, 2)
	visual, ok := assets["visual"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "https://example.localdomain/visual.tif", visual["href"])
	assert.Equal(t, "image/tiff; application=geotiff", visual["type"])
}

func TestAssetsMixin_ApplyEmpty(t *testing.T) {
	// Mock
	feature := geojson.NewFeature(nil, "test-id", nil)

	// Tested code
	err := AssetsMixin{}.Apply(feature)

	// Asserts
	assert.Nil(t, err)
	assert.NotContains(t, feature.Properties, "assets")
}
