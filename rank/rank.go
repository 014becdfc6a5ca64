package rank

import (
	"fmt"
	"sort"

	"github.com/paulsmith/gogeos/geos"
	"github.com/venicegeo/geojson-go/geojson"

	"github.com/lihungbin/PlanetaryComputer/model"
)

// ByOverlap orders candidate items by how much of the area of interest each
// one covers: descending intersection(item, aoi).area / aoi.area, ties kept
// in input order. The input slice is not modified.
func ByOverlap(aoi interface{}, items []model.ItemRecord) ([]model.ItemRecord, error) {
	aoiGeom, err := toGeos(aoi)
	if err != nil {
		return nil, fmt.Errorf("rank: bad area of interest: %w", err)
	}
	aoiArea, err := aoiGeom.Area()
	if err != nil {
		return nil, err
	}
	if aoiArea == 0 {
		return nil, fmt.Errorf("rank: area of interest has zero area")
	}

	ratios := make([]float64, len(items))
	for i, item := range items {
		if ratios[i], err = overlapRatio(aoiGeom, aoiArea, item.Geometry); err != nil {
			return nil, fmt.Errorf("rank: item %v: %w", item.ID, err)
		}
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return ratios[order[a]] > ratios[order[b]]
	})

	ranked := make([]model.ItemRecord, len(items))
	for i, idx := range order {
		ranked[i] = items[idx]
	}
	return ranked, nil
}

// OverlapRatio returns intersection(geometry, aoi).area / aoi.area
func OverlapRatio(aoi, geometry interface{}) (float64, error) {
	aoiGeom, err := toGeos(aoi)
	if err != nil {
		return 0, err
	}
	aoiArea, err := aoiGeom.Area()
	if err != nil {
		return 0, err
	}
	if aoiArea == 0 {
		return 0, fmt.Errorf("rank: area of interest has zero area")
	}
	return overlapRatio(aoiGeom, aoiArea, geometry)
}

func overlapRatio(aoi *geos.Geometry, aoiArea float64, geometry interface{}) (float64, error) {
	candidate, err := toGeos(geometry)
	if err != nil {
		return 0, err
	}
	intersection, err := aoi.Intersection(candidate)
	if err != nil {
		return 0, err
	}
	area, err := intersection.Area()
	if err != nil {
		return 0, err
	}
	return area / aoiArea, nil
}

// toGeos converts a parsed GeoJSON geometry to its GEOS form
func toGeos(geometry interface{}) (*geos.Geometry, error) {
	switch g := geometry.(type) {
	case *geojson.Polygon:
		return polygonToGeos(g.Coordinates)
	case geojson.Polygon:
		return polygonToGeos(g.Coordinates)
	case *geojson.MultiPolygon:
		return multiPolygonToGeos(g.Coordinates)
	case geojson.MultiPolygon:
		return multiPolygonToGeos(g.Coordinates)
	case *geojson.Point:
		return geos.NewPoint(geos.NewCoord(g.Coordinates[0], g.Coordinates[1]))
	}
	return nil, fmt.Errorf("unsupported geometry type %T", geometry)
}

func polygonToGeos(rings [][][]float64) (*geos.Geometry, error) {
	if len(rings) == 0 {
		return nil, fmt.Errorf("polygon has no rings")
	}
	shell := ringToCoords(rings[0])
	holes := make([][]geos.Coord, 0, len(rings)-1)
	for _, ring := range rings[1:] {
		holes = append(holes, ringToCoords(ring))
	}
	return geos.NewPolygon(shell, holes...)
}

func multiPolygonToGeos(polygons [][][][]float64) (*geos.Geometry, error) {
	collected := make([]*geos.Geometry, len(polygons))
	for i, rings := range polygons {
		polygon, err := polygonToGeos(rings)
		if err != nil {
			return nil, err
		}
		collected[i] = polygon
	}
	return geos.NewCollection(geos.MULTIPOLYGON, collected...)
}

func ringToCoords(ring [][]float64) []geos.Coord {
	coords := make([]geos.Coord, len(ring))
	for i, position := range ring {
		coords[i] = geos.NewCoord(position[0], position[1])
	}
	return coords
}
