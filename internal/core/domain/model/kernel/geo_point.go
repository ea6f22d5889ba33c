package kernel

import (
	"fmt"
	"math"

	"storymap/internal/pkg/errs"
)

const (
	// LatitudeMin is the southernmost valid latitude in degrees.
	LatitudeMin = -90.0
	// LatitudeMax is the northernmost valid latitude in degrees.
	LatitudeMax = 90.0
	// LongitudeMin is the westernmost valid longitude in degrees.
	LongitudeMin = -180.0
	// LongitudeMax is the easternmost valid longitude in degrees.
	LongitudeMax = 180.0
)

// GeoPoint is a WGS 84 coordinate in decimal degrees.
//
// GeoPoint is a plain value: its fields are exported so that order snapshots
// serialize without a mapping layer. Anything crossing a trust boundary
// (API payloads, persisted snapshots, external feature data) must pass
// Validate before it reaches the projector.
//
// Example:
//
//	p, err := kernel.NewGeoPoint(40.0, -74.0)
//	if err != nil {
//	    // non-finite or out of range
//	}
type GeoPoint struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// NewGeoPoint creates a validated GeoPoint.
//
// Returns an error when either coordinate is NaN, infinite or outside the
// [-90, 90] latitude / [-180, 180] longitude ranges.
func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	p := GeoPoint{Lat: lat, Lng: lng}
	if err := p.Validate(); err != nil {
		return GeoPoint{}, err
	}
	return p, nil
}

// Validate checks that both coordinates are finite and within range.
func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) {
		return errs.NewValueIsInvalidErrorWithCause("lat", fmt.Errorf("%v is not finite", p.Lat))
	}
	if math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
		return errs.NewValueIsInvalidErrorWithCause("lng", fmt.Errorf("%v is not finite", p.Lng))
	}
	if p.Lat < LatitudeMin || p.Lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("lat", p.Lat, LatitudeMin, LatitudeMax)
	}
	if p.Lng < LongitudeMin || p.Lng > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("lng", p.Lng, LongitudeMin, LongitudeMax)
	}
	return nil
}

// IsEqual reports exact coordinate equality.
func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return p.Lat == other.Lat && p.Lng == other.Lng
}

// String implements fmt.Stringer, e.g. "GeoPoint(40.000000,-74.000000)".
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.Lat, p.Lng)
}
