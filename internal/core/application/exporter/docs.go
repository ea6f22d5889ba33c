// Package exporter implements the manufacturing export orchestrator. Given a
// placed order it resolves bounds once, fetches real geographic features,
// generates the four registered layers, encodes them as SVG and DXF, adds
// combined files and the human readable documents, and returns the bundle.
//
// The bundle is all or nothing: any failure discards every file generated so
// far and is returned as a single export level error.
package exporter
