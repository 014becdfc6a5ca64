package fetch

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/lihungbin/PlanetaryComputer/model"
	"github.com/lihungbin/PlanetaryComputer/util"
)

// TabularFrame is an in-memory table read from a tabular asset
type TabularFrame struct {
	Columns []string
	Records [][]string
}

// Empty reports whether the frame holds no records
func (frame *TabularFrame) Empty() bool {
	return len(frame.Records) == 0
}

// OpenTable fetches a tabular asset and decodes it into a frame according to
// its declared media type. CSV partitions map directly; GeoJSON feature
// collections become one record per feature with property names as columns.
func OpenTable(ctx context.Context, logContext util.LogContext, ref model.AssetRef) (*TabularFrame, error) {
	mediaType := strings.SplitN(ref.MediaType, ";", 2)[0]
	switch strings.TrimSpace(mediaType) {
	case "text/csv":
		return openCSV(ctx, logContext, ref)
	case "application/geo+json", "application/json":
		return openFeatureTable(ctx, logContext, ref)
	}
	return nil, fmt.Errorf("no tabular reader for media type %q", ref.MediaType)
}

func fetchBody(ctx context.Context, logContext util.LogContext, href string) (io.ReadCloser, error) {
	request, err := http.NewRequestWithContext(ctx, "GET", href, nil)
	if err != nil {
		return nil, util.LogSimpleErr(logContext, fmt.Sprintf("Failed to build request for %v.", href), err)
	}
	response, err := util.HTTPClient().Do(request)
	if err != nil {
		return nil, util.LogSimpleErr(logContext, fmt.Sprintf("Failed to fetch asset %v.", href), err)
	}
	if response.StatusCode >= 400 {
		response.Body.Close()
		message := fmt.Sprintf("Failed to fetch asset %v: %v. ", href, response.Status)
		util.LogAlert(logContext, message)
		return nil, util.HTTPErr{Status: response.StatusCode, Message: message}
	}
	return response.Body, nil
}

func openCSV(ctx context.Context, logContext util.LogContext, ref model.AssetRef) (*TabularFrame, error) {
	body, err := fetchBody(ctx, logContext, ref.Href)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	reader := csv.NewReader(body)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, util.LogSimpleErr(logContext, fmt.Sprintf("Failed to parse CSV asset %v.", ref.Href), err)
	}
	if len(rows) == 0 {
		return &TabularFrame{}, nil
	}
	return &TabularFrame{Columns: rows[0], Records: rows[1:]}, nil
}

func openFeatureTable(ctx context.Context, logContext util.LogContext, ref model.AssetRef) (*TabularFrame, error) {
	body, err := fetchBody(ctx, logContext, ref.Href)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var collection struct {
		Features []struct {
			ID         interface{}            `json:"id"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	if err := json.NewDecoder(body).Decode(&collection); err != nil {
		return nil, util.LogSimpleErr(logContext, fmt.Sprintf("Failed to parse GeoJSON asset %v.", ref.Href), err)
	}
	if len(collection.Features) == 0 {
		return &TabularFrame{}, nil
	}

	columnSet := make(map[string]bool)
	for _, feature := range collection.Features {
		for name := range feature.Properties {
			columnSet[name] = true
		}
	}
	columns := make([]string, 0, len(columnSet)+1)
	columns = append(columns, "id")
	for name := range columnSet {
		columns = append(columns, name)
	}
	sort.Strings(columns[1:])

	frame := TabularFrame{Columns: columns}
	for _, feature := range collection.Features {
		record := make([]string, len(columns))
		record[0] = fmt.Sprintf("%v", feature.ID)
		for i, name := range columns[1:] {
			if value, ok := feature.Properties[name]; ok && value != nil {
				record[i+1] = fmt.Sprintf("%v", value)
			}
		}
		frame.Records = append(frame.Records, record)
	}
	return &frame, nil
}
