package mosaic

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func newHandlerRouter(mosaicURL string) *mux.Router {
	mosaicContext := &Context{BaseMosaicURL: mosaicURL}
	router := mux.NewRouter()
	router.Handle("/mosaic/register", &RegisterHandler{Context: mosaicContext}).Methods("POST")
	router.Handle("/mosaic/{searchid}/tilejson.json", &TileJSONHandler{Context: mosaicContext})
	return router
}

func TestRegisterHandler(t *testing.T) {
	server := newMockMosaicServer(t, "f1f7c2a0f6f04a0c9c4c2a6b8d3e5f70")
	defer server.Close()
	router := newHandlerRouter(server.URL)

	request := httptest.NewRequest("POST", "/mosaic/register",
		strings.NewReader(`{"collection":"test-collection","filter":{"op":"=","args":[{"property":"platform"},"landsat-8"]}}`))
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)

	assert.Equal(t, http.StatusOK, response.Code)
	var body registerResponse
	assert.Nil(t, json.Unmarshal(response.Body.Bytes(), &body))
	assert.Equal(t, "f1f7c2a0f6f04a0c9c4c2a6b8d3e5f70", body.SearchID)
	assert.NotEmpty(t, body.Links)
}

func TestRegisterHandler_MissingCollection(t *testing.T) {
	router := newHandlerRouter("http://mosaic.localdomain")

	request := httptest.NewRequest("POST", "/mosaic/register", strings.NewReader(`{"filter":{}}`))
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)

	assert.Equal(t, http.StatusBadRequest, response.Code)
}

func TestTileJSONHandler(t *testing.T) {
	searchID := "f1f7c2a0f6f04a0c9c4c2a6b8d3e5f70"
	server := newMockMosaicServer(t, searchID)
	defer server.Close()
	router := newHandlerRouter(server.URL)

	request := httptest.NewRequest("GET", "/mosaic/"+searchID+"/tilejson.json?assets=visual", strings.NewReader(""))
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)

	assert.Equal(t, http.StatusOK, response.Code)
	var tileJSON TileJSON
	assert.Nil(t, json.Unmarshal(response.Body.Bytes(), &tileJSON))
	assert.Len(t, tileJSON.Tiles, 1)
	assert.Contains(t, tileJSON.Tiles[0], searchID)
}
