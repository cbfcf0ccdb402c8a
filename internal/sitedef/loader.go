// Package sitedef loads site definitions from TOML, JSON or Markdown files.
package sitedef

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/goliatone/go-blocksite/internal/logging"
	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// SiteFile is the optional site-level definition read when loading a
// directory of Markdown pages.
const SiteFile = "site.toml"

// Loader reads site definitions from a filesystem.
type Loader struct {
	fs     fs.FS
	logger interfaces.Logger
}

// Option customises a Loader.
type Option func(*Loader)

// WithLogger attaches a logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader constructs a Loader over filesystem.
func NewLoader(filesystem fs.FS, opts ...Option) *Loader {
	l := &Loader{fs: filesystem, logger: logging.NoOp()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile loads the site definition at path from the local filesystem.
func LoadFile(ctx context.Context, p string, opts ...Option) (interfaces.Site, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return interfaces.Site{}, fmt.Errorf("sitedef: resolve %s: %w", p, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return interfaces.Site{}, fmt.Errorf("sitedef: %w", err)
	}
	if info.IsDir() {
		return NewLoader(os.DirFS(abs), opts...).Load(ctx, ".")
	}
	return NewLoader(os.DirFS(filepath.Dir(abs)), opts...).Load(ctx, filepath.Base(abs))
}

// Load reads name from the loader filesystem. Directories are loaded as a
// collection of Markdown pages; files dispatch on their extension.
func (l *Loader) Load(ctx context.Context, name string) (interfaces.Site, error) {
	if err := ctx.Err(); err != nil {
		return interfaces.Site{}, err
	}
	name = path.Clean(filepath.ToSlash(name))
	logger := logging.WithFields(l.logger, map[string]any{"source": name})

	info, err := fs.Stat(l.fs, name)
	if err != nil {
		return interfaces.Site{}, fmt.Errorf("sitedef: stat %s: %w", name, err)
	}

	var site interfaces.Site
	if info.IsDir() {
		site, err = l.loadDirectory(ctx, name)
	} else {
		site, err = l.loadSingle(name, info.ModTime())
	}
	if err != nil {
		logging.WithError(logger, err).Error("sitedef.load.failed")
		return interfaces.Site{}, err
	}
	if err := Validate(site); err != nil {
		logging.WithError(logger, err).Error("sitedef.load.invalid")
		return interfaces.Site{}, err
	}

	blocks := 0
	for _, page := range site.Pages {
		blocks += len(page.Blocks)
	}
	logging.WithFields(logger, map[string]any{
		"site":   site.Name,
		"pages":  len(site.Pages),
		"blocks": blocks,
	}).Debug("sitedef.load.completed")
	return site, nil
}

func (l *Loader) loadSingle(name string, modified time.Time) (interfaces.Site, error) {
	data, err := fs.ReadFile(l.fs, name)
	if err != nil {
		return interfaces.Site{}, fmt.Errorf("sitedef: read %s: %w", name, err)
	}
	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".toml":
		site, err := decodeTOML(data)
		if err != nil {
			return interfaces.Site{}, fmt.Errorf("sitedef: %s: %w", name, err)
		}
		return normalizeSite(site, modified)
	case ".json":
		site, err := decodeJSON(data)
		if err != nil {
			return interfaces.Site{}, fmt.Errorf("sitedef: %s: %w", name, err)
		}
		return normalizeSite(site, modified)
	case ".md", ".markdown":
		page, meta, err := parsePage(name, data)
		if err != nil {
			return interfaces.Site{}, err
		}
		site := interfaces.Site{Name: meta.Site, Pages: []interfaces.Page{page}}
		if site.Name == "" {
			site.Name = page.Title
		}
		return normalizeSite(site, modified)
	default:
		return interfaces.Site{}, fmt.Errorf("sitedef: unsupported file type %q for %s", ext, name)
	}
}

// loadDirectory turns every Markdown file under dir into a page, sorted by
// path. A site.toml beside them supplies site-level fields and may declare
// additional pages of its own.
func (l *Loader) loadDirectory(ctx context.Context, dir string) (interfaces.Site, error) {
	var site interfaces.Site
	sitePath := path.Join(dir, SiteFile)
	if data, err := fs.ReadFile(l.fs, sitePath); err == nil {
		decoded, err := decodeTOML(data)
		if err != nil {
			return interfaces.Site{}, fmt.Errorf("sitedef: %s: %w", sitePath, err)
		}
		site = decoded
		info, err := fs.Stat(l.fs, sitePath)
		if err != nil {
			return interfaces.Site{}, fmt.Errorf("sitedef: stat %s: %w", sitePath, err)
		}
		if site, err = normalizeSite(site, info.ModTime()); err != nil {
			return interfaces.Site{}, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return interfaces.Site{}, fmt.Errorf("sitedef: read %s: %w", sitePath, err)
	}

	var files []string
	err := fs.WalkDir(l.fs, dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != dir && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		switch strings.ToLower(path.Ext(p)) {
		case ".md", ".markdown":
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return interfaces.Site{}, fmt.Errorf("sitedef: walk %s: %w", dir, err)
	}
	sort.Strings(files)

	for _, file := range files {
		data, err := fs.ReadFile(l.fs, file)
		if err != nil {
			return interfaces.Site{}, fmt.Errorf("sitedef: read %s: %w", file, err)
		}
		info, err := fs.Stat(l.fs, file)
		if err != nil {
			return interfaces.Site{}, fmt.Errorf("sitedef: stat %s: %w", file, err)
		}
		page, meta, err := parsePage(relativeTo(dir, file), data)
		if err != nil {
			return interfaces.Site{}, err
		}
		page, err = normalizePage(page, info.ModTime())
		if err != nil {
			return interfaces.Site{}, fmt.Errorf("sitedef: %s: %w", file, err)
		}
		if site.Name == "" && meta.Site != "" {
			site.Name = meta.Site
		}
		site.Pages = append(site.Pages, page)
	}
	if site.Name == "" {
		site.Name = path.Base(dir)
		if site.Name == "." {
			site.Name = "site"
		}
	}
	return site, nil
}

func decodeTOML(data []byte) (interfaces.Site, error) {
	var site interfaces.Site
	if err := toml.Unmarshal(data, &site); err != nil {
		return site, fmt.Errorf("decode toml: %w", err)
	}
	return site, nil
}

func decodeJSON(data []byte) (interfaces.Site, error) {
	var site interfaces.Site
	if err := json.Unmarshal(data, &site); err != nil {
		return site, fmt.Errorf("decode json: %w", err)
	}
	return site, nil
}

func relativeTo(dir, file string) string {
	if dir == "." {
		return file
	}
	return strings.TrimPrefix(file, dir+"/")
}
