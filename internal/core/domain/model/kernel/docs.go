// Package kernel provides the value objects shared by every aggregate of the
// story map domain.
//
// The package includes:
//   - UUID: identifiers for orders and status history entries
//   - GeoPoint: a validated WGS 84 latitude/longitude pair
//
// Both are immutable and safe for concurrent use. Zero values are invalid and
// fail Validate, so data coming back from persistence or the API is checked
// before it enters an aggregate.
package kernel
