package catalog

import (
	json "github.com/goccy/go-json"
	"github.com/venicegeo/geojson-go/geojson"

	"github.com/lihungbin/PlanetaryComputer/util"
)

// Context is the context for a catalog operation
type Context struct {
	BaseStacURL     string
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

// SortClause is one sort key for a search
type SortClause struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// SearchOptions are the caller-supplied parameters of a search. A search is
// immutable once issued; the options are copied into each request.
type SearchOptions struct {
	Collections []string
	Intersects  interface{} // GeoJSON geometry for spatial intersection
	Bbox        geojson.BoundingBox
	Datetime    string // instant, bare date, or "start/end" interval
	Query       map[string]interface{}
	SortBy      []SortClause
	Limit       int // cap on total items returned; 0 means no cap
	PageSize    int
}

// searchBody is the wire form of a search request
type searchBody struct {
	Collections []string               `json:"collections,omitempty"`
	Intersects  interface{}            `json:"intersects,omitempty"`
	Bbox        []float64              `json:"bbox,omitempty"`
	Datetime    string                 `json:"datetime,omitempty"`
	Query       map[string]interface{} `json:"query,omitempty"`
	SortBy      []SortClause           `json:"sortby,omitempty"`
	Limit       int                    `json:"limit,omitempty"`
	Token       string                 `json:"token,omitempty"`
}

type assetWire struct {
	Href  string   `json:"href"`
	Type  string   `json:"type,omitempty"`
	Title string   `json:"title,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

type itemWire struct {
	ID         string                 `json:"id"`
	Collection string                 `json:"collection,omitempty"`
	Geometry   json.RawMessage        `json:"geometry"`
	Bbox       []float64              `json:"bbox,omitempty"`
	Properties map[string]interface{} `json:"properties"`
	Assets     map[string]assetWire   `json:"assets,omitempty"`
}

type linkWire struct {
	Rel    string          `json:"rel"`
	Href   string          `json:"href,omitempty"`
	Method string          `json:"method,omitempty"`
	Body   json.RawMessage `json:"body,omitempty"`
}

type searchPage struct {
	Type     string     `json:"type"`
	Features []itemWire `json:"features"`
	Links    []linkWire `json:"links,omitempty"`
}

// Collection is the descriptive record of one catalog collection
type Collection struct {
	ID          string           `json:"id"`
	Title       string           `json:"title,omitempty"`
	Description string           `json:"description,omitempty"`
	License     string           `json:"license,omitempty"`
	Extent      CollectionExtent `json:"extent"`
}

// CollectionExtent is the advertised spatio-temporal coverage of a collection
type CollectionExtent struct {
	Spatial struct {
		Bbox [][]float64 `json:"bbox"`
	} `json:"spatial"`
	Temporal struct {
		Interval [][]*string `json:"interval"`
	} `json:"temporal"`
}
