// Copyright 2016, RadiantBlue Technologies, Inc.
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

package mosaic

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/lihungbin/PlanetaryComputer/util"
)

// Context is the context for a mosaic operation
type Context struct {
	BaseMosaicURL   string
	SubscriptionKey string
	sessionID       string
}

// AppName returns the broker name
func (c *Context) AppName() string {
	return "pc-broker"
}

// SessionID returns a Session ID, creating one if needed
func (c *Context) SessionID() string {
	if c.sessionID == "" {
		c.sessionID = util.NewSessionID()
	}
	return c.sessionID
}

type state int

const (
	unregistered state = iota
	registered
	tiled
)

// Link is one hypermedia link returned by the registration endpoint
type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
	Type string `json:"type,omitempty"`
}

// TileJSON describes the templated tile service of a registered mosaic
type TileJSON struct {
	TileJSON string    `json:"tilejson"`
	Tiles    []string  `json:"tiles"`
	Bounds   []float64 `json:"bounds,omitempty"`
	Center   []float64 `json:"center,omitempty"`
	MinZoom  int       `json:"minzoom"`
	MaxZoom  int       `json:"maxzoom"`
}

// Registration tracks one mosaic through its lifecycle: unregistered until
// the search is submitted, registered once the server assigns a search
// identifier, and tiled once a tile-URL template has been resolved. The
// server owns the registration's lifetime; the client holds only the
// identifier and links.
type Registration struct {
	SearchID string
	Links    []Link

	state        state
	tileTemplate string
}

type registerBody struct {
	Collection string      `json:"collection"`
	Filter     interface{} `json:"filter"`
}

type registerResponse struct {
	SearchID string `json:"searchid"`
	Links    []Link `json:"links"`
}

// Register submits a search plus a boolean filter expression to the
// registration endpoint, moving the mosaic to the registered state. Distinct
// calls may yield distinct identifiers for equivalent filters; no
// deduplication is assumed.
func Register(ctx context.Context, client *Context, collection string, filter interface{}) (*Registration, error) {
	if collection == "" {
		return nil, fmt.Errorf("mosaic: a collection id is required")
	}
	inputURL := strings.TrimRight(client.BaseMosaicURL, "/") + "/mosaic/register"

	var response registerResponse
	if _, err := util.ReqByObjJSON(ctx, util.ReqInput{
		Method:          "POST",
		URL:             inputURL,
		Body:            registerBody{Collection: collection, Filter: filter},
		SubscriptionKey: client.SubscriptionKey,
	}, &response); err != nil {
		if httpErr, ok := err.(util.HTTPErr); ok && util.IsClientErr(err) {
			util.LogAlert(client, fmt.Sprintf("Mosaic registration rejected: %v", httpErr.Message))
			return nil, httpErr
		}
		return nil, util.LogSimpleErr(client, "Failed to register mosaic search.", err)
	}
	if response.SearchID == "" {
		regErr := util.Error{
			LogMsg:    "Mosaic registration returned no search identifier",
			SimpleMsg: "The mosaic service returned an invalid registration.",
			URL:       inputURL,
		}
		return nil, regErr.Log(client, "")
	}

	util.LogInfo(client, fmt.Sprintf("Registered mosaic search %v for collection %v", response.SearchID, collection))
	return &Registration{SearchID: response.SearchID, Links: response.Links, state: registered}, nil
}

// TileJSON resolves the registration's tilejson link, substituting the
// registered identifier and the given rendering parameters into the tile-URL
// template and moving the mosaic to the tiled state.
func (r *Registration) TileJSON(ctx context.Context, client *Context, renderParams url.Values) (*TileJSON, error) {
	if r.state < registered {
		return nil, fmt.Errorf("mosaic: search is not registered")
	}

	link, ok := r.link("tilejson")
	if !ok {
		return nil, fmt.Errorf("mosaic: registration %v has no tilejson link", r.SearchID)
	}
	inputURL := link.Href
	if len(renderParams) > 0 {
		if strings.Contains(inputURL, "?") {
			inputURL += "&" + renderParams.Encode()
		} else {
			inputURL += "?" + renderParams.Encode()
		}
	}

	var tileJSON TileJSON
	if _, err := util.ReqByObjJSON(ctx, util.ReqInput{
		Method:          "GET",
		URL:             inputURL,
		SubscriptionKey: client.SubscriptionKey,
	}, &tileJSON); err != nil {
		return nil, util.LogSimpleErr(client, fmt.Sprintf("Failed to resolve tilejson for mosaic %v.", r.SearchID), err)
	}
	if len(tileJSON.Tiles) == 0 {
		tjErr := util.Error{
			LogMsg:    fmt.Sprintf("Tilejson for mosaic %v carries no tile template", r.SearchID),
			SimpleMsg: "The mosaic service returned an unusable tilejson.",
			URL:       inputURL,
		}
		return nil, tjErr.Log(client, "")
	}

	r.tileTemplate = tileJSON.Tiles[0]
	r.state = tiled
	return &tileJSON, nil
}

// TileTemplate returns the resolved per-tile URL template with {z}/{x}/{y}
// placeholders. It is only available once TileJSON has succeeded.
func (r *Registration) TileTemplate() (string, error) {
	if r.state < tiled {
		return "", fmt.Errorf("mosaic: no tile template resolved for %v", r.SearchID)
	}
	return r.tileTemplate, nil
}

func (r *Registration) link(rel string) (Link, bool) {
	for _, link := range r.Links {
		if link.Rel == rel {
			return link, true
		}
	}
	return Link{}, false
}
