// Package packager persists export output. The export pipeline only builds
// an in-memory file list; everything that touches the filesystem lives here.
package packager

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// Multi runs several packagers in order and stops at the first failure.
type Multi []interfaces.Packager

func (m Multi) Package(ctx context.Context, files []interfaces.OutputFile) error {
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Package(ctx, files); err != nil {
			return err
		}
	}
	return nil
}

// cleanPath validates an output path and returns it in slash form.
func cleanPath(p string) (string, error) {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		return "", fmt.Errorf("packager: empty output path")
	}
	if strings.HasPrefix(trimmed, "/") || filepath.IsAbs(trimmed) {
		return "", fmt.Errorf("packager: output path %q must be relative", p)
	}
	clean := path.Clean(filepath.ToSlash(trimmed))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("packager: output path %q escapes the root", p)
	}
	return clean, nil
}

var (
	_ interfaces.Packager = Multi(nil)
	_ interfaces.Packager = (*Directory)(nil)
	_ interfaces.Packager = (*Zip)(nil)
)
