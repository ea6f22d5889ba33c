// Package geo turns geographic input into canvas coordinates.
//
// The package includes:
//   - BoundingBox and ResolveBounds: one padded box covering every location
//     and the template route region
//   - Projector: the linear equirectangular mapping into the content area
//   - Feature: read-only coastline, lake, river and boundary geometry from
//     the external feature source
//   - the error taxonomy of the export pipeline
//
// Every layer of one export must be generated from the same BoundingBox and
// the same Projector value. Overlaying two layers at 1:1 scale only lines up
// when they share those parameters exactly.
package geo
