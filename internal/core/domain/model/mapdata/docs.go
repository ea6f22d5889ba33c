// Package mapdata holds the map-creation snapshot an order is placed with:
// the chosen template, the customer's locations and chapters, style and
// export settings.
//
// A MapData value is a snapshot, not a live reference. Once an order is
// placed nothing in this package is mutated; Validate only checks structural
// integrity (finite coordinates, chapter/location pairing, enumerated
// settings), not upstream business rules.
package mapdata
