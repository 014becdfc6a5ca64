package mosaic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

// newMockMosaicServer answers registration with a fixed searchid and serves a
// tilejson whose template embeds that id.
func newMockMosaicServer(t *testing.T, searchID string) *httptest.Server {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/mosaic/register":
			assert.Equal(t, "POST", r.Method)
			var body registerBody
			json.NewDecoder(r.Body).Decode(&body)
			assert.NotEmpty(t, body.Collection)
			json.NewEncoder(w).Encode(registerResponse{
				SearchID: searchID,
				Links: []Link{
					{Rel: "metadata", Href: server.URL + "/mosaic/" + searchID + "/info"},
					{Rel: "tilejson", Href: server.URL + "/mosaic/" + searchID + "/tilejson.json"},
				},
			})
		case strings.HasSuffix(r.URL.Path, "/tilejson.json"):
			assert.Equal(t, "visual", r.URL.Query().Get("assets"))
			json.NewEncoder(w).Encode(TileJSON{
				TileJSON: "2.2.0",
				Tiles:    []string{server.URL + "/mosaic/tiles/" + searchID + "/{z}/{x}/{y}?assets=visual"},
				MinZoom:  0,
				MaxZoom:  18,
			})
		default:
			http.NotFound(w, r)
		}
	}))
	return server
}

func TestRegisterAndTileJSON(t *testing.T) {
	server := newMockMosaicServer(t, "9b989f86a149628eabfde894fb965982")
	defer server.Close()
	client := &Context{BaseMosaicURL: server.URL}

	registration, err := Register(context.Background(), client, "test-collection", map[string]interface{}{
		"op": "<=", "args": []interface{}{map[string]interface{}{"property": "eo:cloud_cover"}, 10},
	})
	assert.Nil(t, err)
	assert.Equal(t, "9b989f86a149628eabfde894fb965982", registration.SearchID)

	tileJSON, err := registration.TileJSON(context.Background(), client, url.Values{"assets": {"visual"}})
	assert.Nil(t, err)
	assert.Equal(t, 18, tileJSON.MaxZoom)

	// the resolved template repeats the registered identifier verbatim
	template, err := registration.TileTemplate()
	assert.Nil(t, err)
	assert.Contains(t, template, registration.SearchID)
	assert.Contains(t, template, "{z}/{x}/{y}")
}

func TestRegister_MissingCollection(t *testing.T) {
	client := &Context{BaseMosaicURL: "http://mosaic.localdomain"}

	_, err := Register(context.Background(), client, "", nil)

	assert.NotNil(t, err)
}

func TestRegister_EmptySearchID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(registerResponse{})
	}))
	defer server.Close()
	client := &Context{BaseMosaicURL: server.URL}

	_, err := Register(context.Background(), client, "test-collection", nil)

	assert.NotNil(t, err)
}

func TestTileJSON_RequiresRegistration(t *testing.T) {
	client := &Context{BaseMosaicURL: "http://mosaic.localdomain"}
	registration := &Registration{}

	_, err := registration.TileJSON(context.Background(), client, nil)

	assert.NotNil(t, err)
}

func TestTileTemplate_RequiresTileJSON(t *testing.T) {
	registration := &Registration{SearchID: "abc", state: registered}

	_, err := registration.TileTemplate()

	assert.NotNil(t, err)
}
