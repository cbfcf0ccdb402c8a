package packager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// Directory writes every file beneath Root, creating parent directories as
// needed. Existing files with the same path are overwritten.
type Directory struct {
	Root string
	// FileMode defaults to 0o644.
	FileMode os.FileMode
}

func (d *Directory) Package(ctx context.Context, files []interfaces.OutputFile) error {
	if d == nil || d.Root == "" {
		return fmt.Errorf("packager: directory root required")
	}
	mode := d.FileMode
	if mode == 0 {
		mode = 0o644
	}
	if err := os.MkdirAll(d.Root, 0o755); err != nil {
		return fmt.Errorf("packager: create root: %w", err)
	}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := cleanPath(file.Path)
		if err != nil {
			return err
		}
		target := filepath.Join(d.Root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("packager: create dir for %s: %w", rel, err)
		}
		if err := os.WriteFile(target, file.Content, mode); err != nil {
			return fmt.Errorf("packager: write %s: %w", rel, err)
		}
	}
	return nil
}
