package ports

import (
	"context"
)

// ExportFile is one generated file of an export bundle.
type ExportFile struct {
	Name        string
	ContentType string
	Content     []byte
}

// ExportSink hands a complete export bundle to a delivery mechanism. The
// bundle is delivered as a whole or not at all.
type ExportSink interface {
	Store(ctx context.Context, orderNumber string, files []ExportFile) error
}
