package featuresource

import (
	"encoding/json"
	"fmt"
	"strconv"

	"storymap/internal/core/domain/model/geo"
	"storymap/internal/core/domain/model/kernel"
)

type featureCollection struct {
	Type     string           `json:"type"`
	Features []geojsonFeature `json:"features"`
}

type geojsonFeature struct {
	ID         json.RawMessage `json:"id"`
	Properties struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"properties"`
	Geometry *geometry `json:"geometry"`
}

type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// toFeatures converts the collection. Features of unknown type or without
// geometry are skipped; out-of-range coordinates fail the whole collection.
func (fc featureCollection) toFeatures() ([]geo.Feature, error) {
	features := make([]geo.Feature, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		featureType, err := geo.ParseFeatureType(f.Properties.Type)
		if err != nil {
			continue
		}
		parts, err := f.Geometry.parts()
		if err != nil {
			return nil, fmt.Errorf("%w: feature %d: %v", geo.ErrMalformedGeometryInput, i, err)
		}
		if len(parts) == 0 {
			continue
		}
		features = append(features, geo.Feature{
			ID:    featureID(f.ID, i),
			Name:  f.Properties.Name,
			Type:  featureType,
			Parts: parts,
		})
	}
	return features, nil
}

// parts flattens line strings and polygon rings into point sequences.
func (g geometry) parts() ([][]kernel.GeoPoint, error) {
	var lines [][][]float64
	switch g.Type {
	case "LineString":
		var line [][]float64
		if err := json.Unmarshal(g.Coordinates, &line); err != nil {
			return nil, err
		}
		lines = [][][]float64{line}
	case "MultiLineString", "Polygon":
		if err := json.Unmarshal(g.Coordinates, &lines); err != nil {
			return nil, err
		}
	case "MultiPolygon":
		var polygons [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &polygons); err != nil {
			return nil, err
		}
		for _, rings := range polygons {
			lines = append(lines, rings...)
		}
	default:
		return nil, nil
	}

	parts := make([][]kernel.GeoPoint, 0, len(lines))
	for _, line := range lines {
		if len(line) < 2 {
			continue
		}
		part := make([]kernel.GeoPoint, 0, len(line))
		for _, position := range line {
			if len(position) < 2 {
				return nil, fmt.Errorf("position has %d values", len(position))
			}
			p := kernel.GeoPoint{Lat: position[1], Lng: position[0]}
			if err := p.Validate(); err != nil {
				return nil, err
			}
			part = append(part, p)
		}
		parts = append(parts, part)
	}
	return parts, nil
}

// featureID accepts string or numeric GeoJSON ids.
func featureID(raw json.RawMessage, index int) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return "f" + strconv.Itoa(index)
}
