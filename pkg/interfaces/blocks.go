package interfaces

import "time"

// Block is a unit of page content. Blocks are owned by the authoring layer and
// treated as read-only by the pipeline.
type Block struct {
	ID         string         `json:"id" toml:"id"`
	Type       string         `json:"type" toml:"type"`
	Data       map[string]any `json:"data,omitempty" toml:"data,omitempty"`
	ModifiedAt time.Time      `json:"modified_at" toml:"modified_at"`
}

// Page is an ordered collection of blocks published under a slug.
type Page struct {
	ID          string  `json:"id,omitempty" toml:"id,omitempty"`
	Slug        string  `json:"slug" toml:"slug"`
	Name        string  `json:"name,omitempty" toml:"name,omitempty"`
	Title       string  `json:"title,omitempty" toml:"title,omitempty"`
	Description string  `json:"description,omitempty" toml:"description,omitempty"`
	Blocks      []Block `json:"blocks" toml:"blocks"`
}

// Site groups the pages of a single export together with cross-cutting data.
type Site struct {
	Name   string         `json:"name" toml:"name"`
	Domain string         `json:"domain,omitempty" toml:"domain,omitempty"`
	Lang   string         `json:"lang,omitempty" toml:"lang,omitempty"`
	Theme  ThemeTokens    `json:"theme" toml:"theme"`
	Global map[string]any `json:"global,omitempty" toml:"global,omitempty"`
	Pages  []Page         `json:"pages" toml:"pages"`
}

// ThemeTokens carries the design tokens renderers may consult.
type ThemeTokens struct {
	PrimaryColor   string            `json:"primary_color,omitempty" toml:"primary_color,omitempty"`
	SecondaryColor string            `json:"secondary_color,omitempty" toml:"secondary_color,omitempty"`
	HeadingFont    string            `json:"heading_font,omitempty" toml:"heading_font,omitempty"`
	BodyFont       string            `json:"body_font,omitempty" toml:"body_font,omitempty"`
	Extra          map[string]string `json:"extra,omitempty" toml:"extra,omitempty"`
}

// PageMeta describes the page a block is being rendered for.
type PageMeta struct {
	ID          string
	Slug        string
	Name        string
	Title       string
	Description string
}

// RenderContext is the read-only environment handed to renderers.
type RenderContext struct {
	Theme      ThemeTokens
	Page       PageMeta
	ExportMode bool
	Global     map[string]any
}

// AssetKind classifies external resources referenced by rendered output.
type AssetKind string

const (
	AssetImage      AssetKind = "image"
	AssetStylesheet AssetKind = "stylesheet"
	AssetScript     AssetKind = "script"
	AssetFont       AssetKind = "font"
	AssetOther      AssetKind = "other"
)

// Asset is an external resource referenced by a block.
type Asset struct {
	Path string    `json:"path"`
	Kind AssetKind `json:"kind"`
}
