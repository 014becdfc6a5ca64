package mosaic

import (
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/lihungbin/PlanetaryComputer/util"
)

// RegisterHandler is a handler for POST /mosaic/register. It forwards a
// collection plus filter expression to the remote registration endpoint and
// answers with the assigned search identifier and links.
type RegisterHandler struct {
	Context *Context
}

// NewRegisterHandler creates a new handler using configuration from
// environment variables
func NewRegisterHandler() *RegisterHandler {
	return &RegisterHandler{
		Context: &Context{
			BaseMosaicURL:   util.GetMosaicAPIURL(),
			SubscriptionKey: util.GetSubscriptionKey(),
		},
	}
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body registerBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		util.HTTPError(r, w, h.Context, fmt.Sprintf("Invalid registration body: %v", err), http.StatusBadRequest)
		return
	}
	if body.Collection == "" {
		util.HTTPError(r, w, h.Context, "Registration body has no collection", http.StatusBadRequest)
		return
	}

	registration, err := Register(r.Context(), h.Context, body.Collection, body.Filter)
	if err != nil {
		status := http.StatusBadGateway
		if util.IsClientErr(err) {
			status = http.StatusBadRequest
		}
		util.HTTPError(r, w, h.Context, fmt.Sprintf("Error registering mosaic: %v", err), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	response, _ := json.Marshal(registerResponse{SearchID: registration.SearchID, Links: registration.Links})
	w.Write(response)
}

// TileJSONHandler is a handler for /mosaic/{searchid}/tilejson.json. It
// resolves the tile-URL template of an already-registered mosaic, passing
// query parameters through as rendering parameters.
type TileJSONHandler struct {
	Context *Context
}

// NewTileJSONHandler creates a new handler using configuration from
// environment variables
func NewTileJSONHandler() *TileJSONHandler {
	return &TileJSONHandler{
		Context: &Context{
			BaseMosaicURL:   util.GetMosaicAPIURL(),
			SubscriptionKey: util.GetSubscriptionKey(),
		},
	}
}

func (h *TileJSONHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	searchID, ok := mux.Vars(r)["searchid"]
	if !ok || searchID == "" {
		util.HTTPError(r, w, h.Context, "No search id found in URL", http.StatusBadRequest)
		return
	}

	// reconstitute a registered-state handle from the path identifier
	registration := Registration{
		SearchID: searchID,
		Links: []Link{{
			Rel:  "tilejson",
			Href: fmt.Sprintf("%s/mosaic/%s/tilejson.json", h.Context.BaseMosaicURL, searchID),
		}},
		state: registered,
	}

	tileJSON, err := registration.TileJSON(r.Context(), h.Context, r.URL.Query())
	if err != nil {
		status := http.StatusBadGateway
		if util.IsClientErr(err) {
			status = http.StatusBadRequest
		}
		util.HTTPError(r, w, h.Context, fmt.Sprintf("Error resolving tilejson: %v", err), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	response, _ := json.Marshal(tileJSON)
	w.Write(response)
}
