// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package catalog

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/venicegeo/geojson-go/geojson"

	"github.com/lihungbin/PlanetaryComputer/model"
	"github.com/lihungbin/PlanetaryComputer/util"
)

// reserved query parameters of the discover endpoint; everything else is
// forwarded as an attribute-equality filter
var reservedDiscoverParams = map[string]bool{
	"bbox":     true,
	"datetime": true,
	"limit":    true,
	"sortby":   true,
}

const defaultDiscoverLimit = 100

// DiscoverHandler is a handler for /discover/{collection}
// @Title discoverHandler
// @Description discovers items in a hosted catalog collection
// @Accept  plain
// @Param   bbox       query   string  false        "The bounding box, as x1,y1,x2,y2"
// @Param   datetime   query   string  false        "An RFC 3339 instant, a date, or a start/end interval"
// @Param   limit      query   int     false        "Cap on the number of returned items"
// @Success 200 {object}  geojson.FeatureCollection
// @Failure 400 {object}  string
// @Router /discover/{collection} [get]
type DiscoverHandler struct {
	Context *Context
}

// NewDiscoverHandler creates a new handler using configuration from
// environment variables
func NewDiscoverHandler() *DiscoverHandler {
	return &DiscoverHandler{
		Context: &Context{
			BaseStacURL:     util.GetStacAPIURL(),
			SubscriptionKey: util.GetSubscriptionKey(),
		},
	}
}

// ServeHTTP implements the http.Handler interface for the DiscoverHandler type
func (h *DiscoverHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	collectionID, ok := mux.Vars(r)["collection"]
	if !ok {
		util.HTTPError(r, w, h.Context, "No collection id found in URL", http.StatusBadRequest)
		return
	}

	options := SearchOptions{Collections: []string{collectionID}, Limit: defaultDiscoverLimit}

	if bboxString := r.FormValue("bbox"); bboxString != "" {
		bbox, err := geojson.NewBoundingBox(bboxString)
		if err != nil {
			message := fmt.Sprintf("The bbox value of %v is invalid", bboxString)
			util.LogAlert(h.Context, message)
			util.HTTPError(r, w, h.Context, message, http.StatusBadRequest)
			return
		}
		options.Bbox = bbox
	}
	options.Datetime = r.FormValue("datetime")
	if limitString := r.FormValue("limit"); limitString != "" {
		limit, err := strconv.Atoi(limitString)
		if err != nil || limit < 0 {
			message := fmt.Sprintf("The limit value of %v is invalid", limitString)
			util.LogAlert(h.Context, message)
			util.HTTPError(r, w, h.Context, message, http.StatusBadRequest)
			return
		}
		options.Limit = limit
	}
	r.ParseForm()
	for param, values := range r.Form {
		if reservedDiscoverParams[param] || len(values) == 0 {
			continue
		}
		if options.Query == nil {
			options.Query = make(map[string]interface{})
		}
		options.Query[param] = values[0]
	}

	items, err := Search(r.Context(), h.Context, options).Collect()
	if err != nil {
		status := http.StatusBadGateway
		if util.IsClientErr(err) {
			status = http.StatusBadRequest
		}
		util.HTTPError(r, w, h.Context, fmt.Sprintf("Error searching catalog: %v", err), status)
		return
	}

	featureCreators := make([]model.GeoJSONFeatureCreator, len(items))
	for i, item := range items {
		featureCreators[i] = item
	}
	featureCollection, err := model.MultiItemResult{FeatureCreators: featureCreators}.GeoJSONFeatureCollection()
	if err != nil {
		util.HTTPError(r, w, h.Context, fmt.Sprintf("Error converting to feature collection: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.Write([]byte(featureCollection.String()))
}

// MetadataHandler is a handler for /catalog/{collection}/{id}
// @Title metadataHandler
// @Description fetches the metadata of a single catalog item
// @Success 200 {object}  geojson.Feature
// @Failure 404 {object}  string
// @Router /catalog/{collection}/{id} [get]
type MetadataHandler struct {
	Context *Context
}

// NewMetadataHandler creates a new handler using configuration from
// environment variables
func NewMetadataHandler() *MetadataHandler {
	return &MetadataHandler{
		Context: &Context{
			BaseStacURL:     util.GetStacAPIURL(),
			SubscriptionKey: util.GetSubscriptionKey(),
		},
	}
}

func (h *MetadataHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collectionID, itemID := vars["collection"], vars["id"]
	if collectionID == "" || itemID == "" {
		util.HTTPError(r, w, h.Context, "No collection and item id found in URL", http.StatusBadRequest)
		return
	}

	item, err := GetItem(r.Context(), h.Context, collectionID, itemID)
	if err != nil {
		status := http.StatusBadGateway
		if httpErr, ok := err.(util.HTTPErr); ok && httpErr.Status == http.StatusNotFound {
			status = http.StatusNotFound
		} else if util.IsClientErr(err) {
			status = http.StatusBadRequest
		}
		util.HTTPError(r, w, h.Context, fmt.Sprintf("Error fetching item: %v", err), status)
		return
	}

	feature, err := item.GeoJSONFeature()
	if err != nil {
		util.HTTPError(r, w, h.Context, fmt.Sprintf("Error converting metadata to geojson: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write([]byte(feature.String()))
}
