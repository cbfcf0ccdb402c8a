package sitedef

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// contentBlockType receives the Markdown body of a page file.
const contentBlockType = "content"

type pageMeta struct {
	ID          string          `yaml:"id"`
	Slug        string          `yaml:"slug"`
	Name        string          `yaml:"name"`
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Site        string          `yaml:"site"`
	Width       string          `yaml:"width"`
	Blocks      []markdownBlock `yaml:"blocks"`
}

type markdownBlock struct {
	ID         string         `yaml:"id"`
	Type       string         `yaml:"type"`
	Data       map[string]any `yaml:"data"`
	ModifiedAt time.Time      `yaml:"modified_at"`
}

// parsePage reads a Markdown page. Frontmatter blocks come first; a
// non-empty body is appended as a content block.
func parsePage(name string, source []byte) (interfaces.Page, pageMeta, error) {
	var meta pageMeta
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return interfaces.Page{}, meta, fmt.Errorf("sitedef: parse frontmatter %s: %w", name, err)
	}

	page := interfaces.Page{
		ID:          strings.TrimSpace(meta.ID),
		Slug:        meta.Slug,
		Name:        meta.Name,
		Title:       meta.Title,
		Description: meta.Description,
	}
	if strings.TrimSpace(page.Slug) == "" {
		page.Slug = slugFromPath(name)
	}

	for _, block := range meta.Blocks {
		page.Blocks = append(page.Blocks, interfaces.Block{
			ID:         block.ID,
			Type:       block.Type,
			Data:       yamlMap(block.Data),
			ModifiedAt: block.ModifiedAt,
		})
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		data := map[string]any{"markdown": text}
		if width := strings.TrimSpace(meta.Width); width != "" {
			data["width"] = width
		}
		page.Blocks = append(page.Blocks, interfaces.Block{Type: contentBlockType, Data: data})
	}
	return page, meta, nil
}

// slugFromPath maps about/team.md to about/team and any index file to its
// directory.
func slugFromPath(name string) string {
	trimmed := strings.TrimSuffix(name, path.Ext(name))
	trimmed = strings.TrimSuffix(trimmed, "/index")
	if trimmed == "index" || trimmed == "." {
		return "/"
	}
	return trimmed
}

// yamlMap converts the map[interface{}]interface{} values produced by the
// YAML decoder into the JSON data model block payloads use.
func yamlMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = yamlValue(value)
	}
	return out
}

func yamlValue(value any) any {
	switch typed := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = yamlValue(item)
		}
		return out
	case map[string]any:
		return yamlMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = yamlValue(item)
		}
		return out
	default:
		return value
	}
}
