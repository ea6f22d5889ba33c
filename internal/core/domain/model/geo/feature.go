package geo

import (
	"fmt"

	"storymap/internal/core/domain/model/kernel"
)

// FeatureType tags a geographic feature.
type FeatureType string

const (
	FeatureCoastline FeatureType = "coastline"
	FeatureLake      FeatureType = "lake"
	FeatureRiver     FeatureType = "river"
	FeatureBoundary  FeatureType = "boundary"
)

// ParseFeatureType maps a source tag onto a FeatureType.
func ParseFeatureType(tag string) (FeatureType, error) {
	switch FeatureType(tag) {
	case FeatureCoastline, FeatureLake, FeatureRiver, FeatureBoundary:
		return FeatureType(tag), nil
	}
	if tag == "administrative" {
		return FeatureBoundary, nil
	}
	return "", fmt.Errorf("unknown feature type %q", tag)
}

// Closed reports whether features of this type render as closed paths.
// Only lakes are polygons; everything else stays an open path.
func (t FeatureType) Closed() bool {
	return t == FeatureLake
}

// FeatureCategory groups feature types in requests to the feature source.
type FeatureCategory string

const (
	CategoryWater          FeatureCategory = "water"
	CategoryAdministrative FeatureCategory = "administrative"
)

// DefaultCategories are requested for every export.
func DefaultCategories() []FeatureCategory {
	return []FeatureCategory{CategoryWater, CategoryAdministrative}
}

// Feature is a named geographic polyline or polygon supplied by the external
// source. A feature may carry several parts (multi-line strings, polygon
// rings). Features are read-only input to layer generation.
type Feature struct {
	ID    string
	Name  string
	Type  FeatureType
	Parts [][]kernel.GeoPoint
}
