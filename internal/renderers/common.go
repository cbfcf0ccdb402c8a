// Package renderers ships the built-in block renderers. Every renderer is a
// pure function of its data and render context: output is produced through
// html/template so user supplied strings are always escaped.
package renderers

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/goliatone/go-blocksite/internal/registry"
	"github.com/goliatone/go-blocksite/internal/validation"
	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// sectionStyles is repeated in every renderer's stylesheet so pages with
// several block types rely on stylesheet deduplication.
const sectionStyles = `.bs-section{padding:4rem 1.5rem;font-family:var(--bs-body-font,system-ui,sans-serif)}
.bs-container{max-width:72rem;margin:0 auto}
.bs-section h2{margin:0 0 1.5rem;font-family:var(--bs-heading-font,inherit);font-size:2rem;line-height:1.2}
`

const buttonStyles = `.bs-button{display:inline-block;padding:.75rem 1.5rem;border-radius:.375rem;background:var(--bs-primary,#2563eb);color:#fff;text-decoration:none;font-weight:600}
.bs-button--secondary{background:var(--bs-secondary,#0f172a)}
`

func mustTemplate(name, body string) *template.Template {
	return template.Must(template.New(name).Parse(body))
}

func execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%s template: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// imageAsset reports a local image reference. Remote and inline URLs are
// not collected since the export cannot copy them.
func imageAsset(path string) (interfaces.Asset, bool) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return interfaces.Asset{}, false
	}
	lower := strings.ToLower(trimmed)
	if strings.Contains(lower, "://") || strings.HasPrefix(lower, "//") || strings.HasPrefix(lower, "data:") {
		return interfaces.Asset{}, false
	}
	return interfaces.Asset{Path: strings.TrimPrefix(trimmed, "/"), Kind: interfaces.AssetImage}, true
}

func collectImages(paths ...string) []interfaces.Asset {
	var assets []interfaces.Asset
	seen := map[string]struct{}{}
	for _, p := range paths {
		asset, ok := imageAsset(p)
		if !ok {
			continue
		}
		if _, dup := seen[asset.Path]; dup {
			continue
		}
		seen[asset.Path] = struct{}{}
		assets = append(assets, asset)
	}
	return assets
}

func str(def string) map[string]any {
	return map[string]any{"type": "string", "default": def}
}

func requiredStr() map[string]any {
	return map[string]any{"type": "string", "minLength": 1}
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		req := make([]any, len(required))
		for i, name := range required {
			req[i] = name
		}
		schema["required"] = req
	}
	return schema
}

func arrayOf(items map[string]any, minItems int) map[string]any {
	schema := map[string]any{"type": "array", "items": items}
	if minItems > 0 {
		schema["minItems"] = minItems
	}
	return schema
}

func register[T any](reg *registry.Registry, blockType string, renderer interfaces.Renderer[T], schema map[string]any) error {
	validator, err := validation.NewSchemaValidator[T](schema)
	if err != nil {
		return fmt.Errorf("%s schema: %w", blockType, err)
	}
	return registry.Register[T](reg, blockType, renderer, validator)
}

// RegisterBuiltins registers every built-in block type on reg.
func RegisterBuiltins(reg *registry.Registry) error {
	steps := []func(*registry.Registry) error{
		func(r *registry.Registry) error { return register[HeroData](r, HeroType, NewHero(), HeroSchema()) },
		func(r *registry.Registry) error {
			return register[FeaturesData](r, FeaturesType, NewFeatures(), FeaturesSchema())
		},
		func(r *registry.Registry) error { return register[CTAData](r, CTAType, NewCTA(), CTASchema()) },
		func(r *registry.Registry) error { return register[FAQData](r, FAQType, NewFAQ(), FAQSchema()) },
		func(r *registry.Registry) error { return register[PricingData](r, PricingType, NewPricing(), PricingSchema()) },
		func(r *registry.Registry) error {
			return register[TestimonialsData](r, TestimonialsType, NewTestimonials(), TestimonialsSchema())
		},
		func(r *registry.Registry) error { return register[ContentData](r, ContentType, NewContent(), ContentSchema()) },
		func(r *registry.Registry) error { return register[GalleryData](r, GalleryType, NewGallery(), GallerySchema()) },
	}
	for _, step := range steps {
		if err := step(reg); err != nil {
			return err
		}
	}
	return nil
}

// Types lists the built-in block types.
func Types() []string {
	return []string{HeroType, FeaturesType, CTAType, FAQType, PricingType, TestimonialsType, ContentType, GalleryType}
}
