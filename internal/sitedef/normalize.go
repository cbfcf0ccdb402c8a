package sitedef

import (
	"fmt"
	"path"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	goslug "github.com/goliatone/go-slug"

	"github.com/goliatone/go-blocksite/internal/identity"
	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

const textCodeSiteInvalid = "SITE_DEFINITION_INVALID"

// NormalizeSlug lowercases and slugifies every path segment. "/", "" and
// "index" all mean the home page and normalise to "/".
func NormalizeSlug(slug string) (string, error) {
	trimmed := strings.Trim(strings.TrimSpace(slug), "/")
	if trimmed == "" || strings.EqualFold(trimmed, "index") {
		return "/", nil
	}
	segments := strings.Split(trimmed, "/")
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		switch segment {
		case "", ".":
			continue
		case "..":
			return "", fmt.Errorf("slug %q escapes the site root", slug)
		}
		clean, err := goslug.Normalize(segment)
		if err != nil {
			return "", fmt.Errorf("normalize slug %q: %w", slug, err)
		}
		if clean != "" {
			out = append(out, clean)
		}
	}
	if len(out) == 0 {
		return "/", nil
	}
	return path.Join(out...), nil
}

func normalizeSite(site interfaces.Site, modified time.Time) (interfaces.Site, error) {
	site.Name = strings.TrimSpace(site.Name)
	site.Lang = strings.TrimSpace(site.Lang)
	for i, page := range site.Pages {
		normalized, err := normalizePage(page, modified)
		if err != nil {
			return site, fmt.Errorf("sitedef: page %d: %w", i, err)
		}
		site.Pages[i] = normalized
	}
	return site, nil
}

// normalizePage fills block ids and modification times that the source left
// out. Derived ids depend only on the page slug, the block position and the
// block type, so reloading an unchanged file yields the same ids.
func normalizePage(page interfaces.Page, modified time.Time) (interfaces.Page, error) {
	slug, err := NormalizeSlug(page.Slug)
	if err != nil {
		return page, err
	}
	page.Slug = slug
	page.Title = strings.TrimSpace(page.Title)
	page.Name = strings.TrimSpace(page.Name)

	blocks := make([]interfaces.Block, len(page.Blocks))
	for i, block := range page.Blocks {
		block.Type = strings.ToLower(strings.TrimSpace(block.Type))
		block.ID = strings.TrimSpace(block.ID)
		if block.ID == "" {
			block.ID = identity.BlockID(slug, i, block.Type)
		}
		if block.ModifiedAt.IsZero() {
			block.ModifiedAt = modified
		}
		if block.Data == nil {
			block.Data = map[string]any{}
		}
		blocks[i] = block
	}
	page.Blocks = blocks
	return page, nil
}

// Validate checks a loaded site: it needs a name and at least one page,
// slugs must be unique and every block needs a type. Block payloads are
// checked later by the renderer schemas.
func Validate(site interfaces.Site) error {
	errs := validation.Errors{}
	if err := validation.Validate(site.Name, validation.Required); err != nil {
		errs["name"] = err
	}
	if err := validation.Validate(site.Pages, validation.Required); err != nil {
		errs["pages"] = err
	}

	owners := map[string]int{}
	for i, page := range site.Pages {
		key := fmt.Sprintf("pages[%d]", i)
		err := validation.ValidateStruct(&page,
			validation.Field(&page.Slug, validation.By(func(any) error {
				if first, taken := owners[page.Slug]; taken {
					return validation.NewError("validation_slug_unique", fmt.Sprintf("duplicates the slug of pages[%d]", first))
				}
				return nil
			})),
			validation.Field(&page.Blocks, validation.By(func(any) error {
				for bi, block := range page.Blocks {
					if block.Type == "" {
						return validation.NewError("validation_block_type", fmt.Sprintf("block %d has no type", bi))
					}
				}
				return nil
			})),
		)
		if err != nil {
			errs[key] = err
		}
		if _, taken := owners[page.Slug]; !taken {
			owners[page.Slug] = i
		}
	}

	if err := errs.Filter(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid site definition").
			WithTextCode(textCodeSiteInvalid)
	}
	return nil
}
