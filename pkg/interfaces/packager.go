package interfaces

import (
	"context"
	"io"
)

// OutputFile is a single generated artifact handed to a packager.
type OutputFile struct {
	Path     string `json:"path"`
	Content  []byte `json:"-"`
	MIMEType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// Packager persists an export. Implementations own all filesystem or network
// side effects; the pipeline itself never writes.
type Packager interface {
	Package(ctx context.Context, files []OutputFile) error
}

// AssetSource resolves referenced assets so they can be bundled with an
// export.
type AssetSource interface {
	Open(ctx context.Context, asset Asset) (io.ReadCloser, error)
}
