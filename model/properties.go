package model

import (
	"fmt"
	"time"
)

// Properties is the open-ended property bag attached to an item. Values are
// held as decoded JSON and validated lazily, on first typed access.
type Properties map[string]interface{}

// ErrProperty describes a property access that failed validation.
type ErrProperty struct {
	Key    string
	Wanted string
	Got    interface{}
}

func (err ErrProperty) Error() string {
	if err.Got == nil {
		return fmt.Sprintf("property %q is not present", err.Key)
	}
	return fmt.Sprintf("property %q is not a %s (got %T)", err.Key, err.Wanted, err.Got)
}

// String returns the named property as a string
func (p Properties) String(key string) (string, error) {
	raw, ok := p[key]
	if !ok {
		return "", ErrProperty{Key: key}
	}
	value, ok := raw.(string)
	if !ok {
		return "", ErrProperty{Key: key, Wanted: "string", Got: raw}
	}
	return value, nil
}

// Float returns the named property as a float64
func (p Properties) Float(key string) (float64, error) {
	raw, ok := p[key]
	if !ok {
		return 0, ErrProperty{Key: key}
	}
	switch value := raw.(type) {
	case float64:
		return value, nil
	case int:
		return float64(value), nil
	}
	return 0, ErrProperty{Key: key, Wanted: "number", Got: raw}
}

// Time returns the named property parsed as a catalog datetime
func (p Properties) Time(key string) (time.Time, error) {
	value, err := p.String(key)
	if err != nil {
		return time.Time{}, err
	}
	parsed, err := ParseCatalogTime(value)
	if err != nil {
		return time.Time{}, ErrProperty{Key: key, Wanted: "datetime", Got: value}
	}
	return parsed, nil
}

// Map returns the named property as a nested mapping
func (p Properties) Map(key string) (map[string]interface{}, error) {
	raw, ok := p[key]
	if !ok {
		return nil, ErrProperty{Key: key}
	}
	value, ok := raw.(map[string]interface{})
	if !ok {
		return nil, ErrProperty{Key: key, Wanted: "mapping", Got: raw}
	}
	return value, nil
}
