// Package documents renders the human readable sheets shipped with every
// manufacturing export: the material specification, the operator's
// production instructions and the multi-layer process guide.
package documents
