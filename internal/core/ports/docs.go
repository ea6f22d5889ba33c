// Package ports defines the contracts between the story map core and its
// adapters: order persistence, the external geographic feature source, the
// read-only template and material catalogs, and the export sink.
// These interfaces enable dependency inversion and testability.
package ports
