package packager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// Zip writes the export as a single deflate-compressed archive at Path. The
// archive is written to a temporary file first and renamed into place, so a
// failed run never leaves a truncated archive behind.
type Zip struct {
	Path string
	// Modified stamps every entry. The zero value keeps archives of
	// identical exports byte-identical.
	Modified time.Time
}

func (z *Zip) Package(ctx context.Context, files []interfaces.OutputFile) (err error) {
	if z == nil || z.Path == "" {
		return fmt.Errorf("packager: zip path required")
	}
	if err := os.MkdirAll(filepath.Dir(z.Path), 0o755); err != nil {
		return fmt.Errorf("packager: create archive dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(z.Path), ".blocksite-*.zip")
	if err != nil {
		return fmt.Errorf("packager: create archive: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	writer := zip.NewWriter(tmp)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := cleanPath(file.Path)
		if err != nil {
			return err
		}
		header := &zip.FileHeader{
			Name:     rel,
			Method:   zip.Deflate,
			Modified: z.Modified,
		}
		header.SetMode(0o644)
		entry, err := writer.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("packager: add %s: %w", rel, err)
		}
		if _, err := entry.Write(file.Content); err != nil {
			return fmt.Errorf("packager: write %s: %w", rel, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("packager: finish archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("packager: close archive: %w", err)
	}
	if err := os.Rename(tmp.Name(), z.Path); err != nil {
		return fmt.Errorf("packager: move archive: %w", err)
	}
	return nil
}
