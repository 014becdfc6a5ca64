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

package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/lihungbin/PlanetaryComputer/model"
	"github.com/lihungbin/PlanetaryComputer/util"
)

const defaultPageSize = 100

// Search issues a search against the catalog and returns a lazy iterator
// over its results. The iterator requests follow-up pages transparently as
// the consumer advances; calling Search again with the same options yields a
// fresh, restarted sequence. Option validation errors are surfaced by the
// first call to Next.
func Search(ctx context.Context, client *Context, options SearchOptions) *ItemIterator {
	it := &ItemIterator{ctx: ctx, client: client}

	if err := validateOptions(client, options); err != nil {
		it.err = err
		it.done = true
		return it
	}

	body := searchBody{
		Collections: options.Collections,
		Intersects:  options.Intersects,
		Datetime:    options.Datetime,
		SortBy:      options.SortBy,
		Limit:       options.PageSize,
	}
	if options.Bbox != nil {
		body.Bbox = []float64(options.Bbox)
	}
	if body.Limit == 0 {
		body.Limit = defaultPageSize
	}
	if options.Limit > 0 && options.Limit < body.Limit {
		body.Limit = options.Limit
	}
	if len(options.Query) > 0 {
		body.Query = make(map[string]interface{}, len(options.Query))
		for property, value := range options.Query {
			body.Query[property] = map[string]interface{}{"eq": value}
		}
	}

	it.limit = options.Limit
	it.next = &body
	return it
}

// validateOptions rejects a malformed search before any remote request is
// issued. Request-construction failures are returned as 400-class HTTPErr so
// callers classify them alongside remote rejections.
func validateOptions(client *Context, options SearchOptions) error {
	if client == nil || client.BaseStacURL == "" {
		return fmt.Errorf("catalog: no base URL configured")
	}
	if len(options.Collections) == 0 {
		return util.HTTPErr{Status: http.StatusBadRequest, Message: "catalog: at least one collection id is required"}
	}
	if options.Limit < 0 {
		return util.HTTPErr{Status: http.StatusBadRequest, Message: fmt.Sprintf("catalog: negative result cap %d", options.Limit)}
	}
	if options.Datetime != "" {
		if _, _, err := model.ParseCatalogInterval(options.Datetime); err != nil {
			return util.HTTPErr{Status: http.StatusBadRequest, Message: fmt.Sprintf("catalog: bad datetime filter: %v", err)}
		}
	}
	for _, clause := range options.SortBy {
		if clause.Direction != "asc" && clause.Direction != "desc" {
			return util.HTTPErr{Status: http.StatusBadRequest, Message: fmt.Sprintf("catalog: bad sort direction %q", clause.Direction)}
		}
	}
	return nil
}

// ItemIterator walks the results of one search, one page of remote requests
// at a time. Use the Next/Item/Err triple, or Collect to materialize.
type ItemIterator struct {
	ctx     context.Context
	client  *Context
	page    []model.ItemRecord
	pageIdx int
	current model.ItemRecord
	next    *searchBody // pending POST body; nil once links are followed
	nextURL string      // absolute next href, when the service links by URL
	count   int
	limit   int
	err     error
	done    bool
}

// Next advances the iterator, fetching a follow-up page from the catalog if
// the current one is exhausted. It returns false when the sequence ends or a
// fetch fails; Err distinguishes the two.
func (it *ItemIterator) Next() bool {
	if it.done {
		return false
	}
	if it.limit > 0 && it.count >= it.limit {
		it.done = true
		return false
	}
	if it.pageIdx >= len(it.page) {
		if !it.fetchPage() {
			return false
		}
	}
	it.current = it.page[it.pageIdx]
	it.pageIdx++
	it.count++
	return true
}

// Item returns the record produced by the last successful call to Next
func (it *ItemIterator) Item() model.ItemRecord {
	return it.current
}

// Err returns the first error encountered, if any
func (it *ItemIterator) Err() error {
	return it.err
}

// Collect materializes the remainder of the sequence
func (it *ItemIterator) Collect() ([]model.ItemRecord, error) {
	var items []model.ItemRecord
	for it.Next() {
		items = append(items, it.Item())
	}
	return items, it.Err()
}

func (it *ItemIterator) fetchPage() bool {
	if it.next == nil && it.nextURL == "" {
		it.done = true
		return false
	}

	var (
		page searchPage
		err  error
	)
	searchURL := resolveURL(it.client.BaseStacURL, "search")
	if it.nextURL != "" {
		_, err = util.ReqByObjJSON(it.ctx, util.ReqInput{
			Method:          "GET",
			URL:             it.nextURL,
			SubscriptionKey: it.client.SubscriptionKey,
		}, &page)
		searchURL = it.nextURL
	} else {
		_, err = util.ReqByObjJSON(it.ctx, util.ReqInput{
			Method:          "POST",
			URL:             searchURL,
			Body:            it.next,
			SubscriptionKey: it.client.SubscriptionKey,
		}, &page)
	}
	if err != nil {
		it.err = remoteErr(it.client, searchURL, err)
		it.done = true
		return false
	}

	it.page, err = parseItems(page.Features)
	if err != nil {
		it.err = util.LogSimpleErr(it.client, "Failed to parse catalog search results.", err)
		it.done = true
		return false
	}
	it.pageIdx = 0
	it.advanceCursor(page.Links)

	if len(it.page) == 0 {
		it.done = true
		return false
	}
	return true
}

// advanceCursor records how to reach the following page. The catalog links
// the next page either by an opaque token to repeat in the POST body, or by
// a fully-formed href.
func (it *ItemIterator) advanceCursor(links []linkWire) {
	for _, link := range links {
		if link.Rel != "next" {
			continue
		}
		if len(link.Body) > 0 && it.next != nil {
			var cursor struct {
				Token string `json:"token"`
			}
			if err := json.Unmarshal(link.Body, &cursor); err == nil && cursor.Token != "" {
				next := *it.next
				next.Token = cursor.Token
				it.next = &next
				it.nextURL = ""
				return
			}
		}
		if link.Href != "" {
			it.next = nil
			it.nextURL = link.Href
			return
		}
	}
	it.next = nil
	it.nextURL = ""
}

// GetItem fetches a single record by collection and id
func GetItem(ctx context.Context, client *Context, collectionID, itemID string) (*model.ItemRecord, error) {
	inputURL := resolveURL(client.BaseStacURL, "collections/"+url.PathEscape(collectionID)+"/items/"+url.PathEscape(itemID))

	var wire itemWire
	if _, err := util.ReqByObjJSON(ctx, util.ReqInput{
		Method:          "GET",
		URL:             inputURL,
		SubscriptionKey: client.SubscriptionKey,
	}, &wire); err != nil {
		return nil, remoteErr(client, inputURL, err)
	}

	item, err := parseItem(wire)
	if err != nil {
		return nil, util.LogSimpleErr(client, fmt.Sprintf("Failed to parse catalog item %v.", itemID), err)
	}
	return item, nil
}

// GetCollection fetches the descriptive record of a collection. An unknown
// id is a non-retryable client error.
func GetCollection(ctx context.Context, client *Context, collectionID string) (*Collection, error) {
	inputURL := resolveURL(client.BaseStacURL, "collections/"+url.PathEscape(collectionID))

	var collection Collection
	if _, err := util.ReqByObjJSON(ctx, util.ReqInput{
		Method:          "GET",
		URL:             inputURL,
		SubscriptionKey: client.SubscriptionKey,
	}, &collection); err != nil {
		return nil, remoteErr(client, inputURL, err)
	}
	return &collection, nil
}

// remoteErr classifies a failed catalog call the way every remote call here
// is classified: 4xx is surfaced as-is and never retried, 5xx and transport
// failures carry the offending request context.
func remoteErr(client *Context, inputURL string, err error) error {
	if httpErr, ok := err.(util.HTTPErr); ok {
		if util.IsClientErr(err) {
			util.LogAlert(client, fmt.Sprintf("Catalog rejected request to %v: %v", inputURL, httpErr.Message))
			return httpErr
		}
		catErr := util.Error{
			LogMsg:     "Catalog request failed: " + httpErr.Message,
			SimpleMsg:  "The catalog service returned an error for this request.",
			URL:        inputURL,
			HTTPStatus: httpErr.Status,
		}
		return catErr.Log(client, "")
	}
	return util.LogSimpleErr(client, fmt.Sprintf("Failed to complete catalog request to %v.", inputURL), err)
}

func resolveURL(base, relative string) string {
	baseURL, err := url.Parse(strings.TrimRight(base, "/") + "/")
	if err != nil {
		return base + "/" + relative
	}
	relativeURL, err := url.Parse(relative)
	if err != nil {
		return base + "/" + relative
	}
	return baseURL.ResolveReference(relativeURL).String()
}
