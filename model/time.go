package model

import (
	"fmt"
	"strings"
	"time"
)

// Catalog endpoints return datetime data in several near-RFC-3339 shapes, and
// query parameters additionally allow a bare date or an interval of two
// instants separated by "/". The lenient multi-format parsing lives here.

// StandardTimeLayout is the preferred format when writing datetimes back to
// the catalog
const StandardTimeLayout = "2006-01-02T15:04:05.999999999Z"

var catalogTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999Z",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseCatalogTime is a drop-in replacement for time.Parse, but matching
// against every datetime format the catalog is known to emit
func ParseCatalogTime(catalogTime string) (time.Time, error) {
	for _, layout := range catalogTimeLayouts {
		if output, err := time.Parse(layout, catalogTime); err == nil {
			return output, nil
		}
	}
	return time.Time{}, fmt.Errorf("date could not be parsed by any expected time format: `%s`", catalogTime)
}

// ParseCatalogInterval parses a datetime query value: either a single
// instant, a bare date (expanded to that whole day), or a "start/end"
// interval where either side may be the open-ended marker "..".
func ParseCatalogInterval(value string) (start, end time.Time, err error) {
	parts := strings.SplitN(value, "/", 2)
	if len(parts) == 1 {
		if start, err = ParseCatalogTime(parts[0]); err != nil {
			return
		}
		if len(parts[0]) == len("2006-01-02") {
			end = start.Add(24*time.Hour - time.Nanosecond)
		} else {
			end = start
		}
		return
	}
	if parts[0] != ".." {
		if start, err = ParseCatalogTime(parts[0]); err != nil {
			return
		}
	}
	if parts[1] != ".." {
		if end, err = ParseCatalogTime(parts[1]); err != nil {
			return
		}
		if len(parts[1]) == len("2006-01-02") {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
	}
	return
}
