// Package production derives the manufacturing side of an order from its
// export settings: physical dimensions, the resolved material specification
// with per-operation machine settings, and the filenames generated files
// are delivered under.
package production
