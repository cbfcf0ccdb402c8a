package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// DirAssetSource resolves assets relative to a local directory.
type DirAssetSource struct {
	Root string
}

func (s DirAssetSource) Open(_ context.Context, asset interfaces.Asset) (io.ReadCloser, error) {
	rel, err := cleanAssetPath(asset.Path)
	if err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(s.Root, filepath.FromSlash(rel)))
}

// cleanAssetPath rejects paths that leave the export root.
func cleanAssetPath(p string) (string, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(p), "/")
	if trimmed == "" {
		return "", fmt.Errorf("asset path required")
	}
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	clean := path.Clean(trimmed)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("asset path %q escapes the export root", p)
	}
	return clean, nil
}

func dedupeAssets(assets []interfaces.Asset) []interfaces.Asset {
	seen := map[string]struct{}{}
	out := make([]interfaces.Asset, 0, len(assets))
	for _, asset := range assets {
		if asset.Path == "" {
			continue
		}
		if _, ok := seen[asset.Path]; ok {
			continue
		}
		seen[asset.Path] = struct{}{}
		out = append(out, asset)
	}
	return out
}

func detectContentType(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	switch ext {
	case "html", "htm":
		return "text/html; charset=utf-8"
	case "css":
		return "text/css; charset=utf-8"
	case "js", "mjs":
		return "application/javascript"
	case "json":
		return "application/json"
	case "webmanifest":
		return "application/manifest+json"
	case "xml":
		return "application/xml"
	case "txt":
		return "text/plain; charset=utf-8"
	case "svg":
		return "image/svg+xml"
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "avif":
		return "image/avif"
	case "ico":
		return "image/x-icon"
	case "woff":
		return "font/woff"
	case "woff2":
		return "font/woff2"
	default:
		return "application/octet-stream"
	}
}
