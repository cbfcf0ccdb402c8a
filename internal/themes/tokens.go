package themes

import (
	"maps"
	"sort"
	"strings"

	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

var tokenAliases = map[string][]string{
	"primary":      {"primary_color", "primary", "color.primary", "colors.primary", "color-primary"},
	"secondary":    {"secondary_color", "secondary", "color.secondary", "colors.secondary", "color-secondary"},
	"heading_font": {"heading_font", "font.heading", "fonts.heading", "font-heading"},
	"body_font":    {"body_font", "font.body", "fonts.body", "font-body"},
}

// TokensFromMap maps flat theme tokens onto ThemeTokens. Recognised names
// fill the typed fields; every other token lands in Extra with dots turned
// into dashes.
func TokensFromMap(tokens map[string]string) interfaces.ThemeTokens {
	out := interfaces.ThemeTokens{}
	claimed := map[string]struct{}{}
	pick := func(field string) string {
		for _, alias := range tokenAliases[field] {
			for key, value := range tokens {
				if strings.EqualFold(strings.TrimSpace(key), alias) && strings.TrimSpace(value) != "" {
					claimed[key] = struct{}{}
					return strings.TrimSpace(value)
				}
			}
		}
		return ""
	}
	out.PrimaryColor = pick("primary")
	out.SecondaryColor = pick("secondary")
	out.HeadingFont = pick("heading_font")
	out.BodyFont = pick("body_font")

	keys := make([]string, 0, len(tokens))
	for key := range tokens {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, ok := claimed[key]; ok {
			continue
		}
		name := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), ".", "-"))
		value := strings.TrimSpace(tokens[key])
		if name == "" || value == "" {
			continue
		}
		if out.Extra == nil {
			out.Extra = map[string]string{}
		}
		out.Extra[name] = value
	}
	return out
}

// Merge layers override on top of base. Non-empty override fields win and
// Extra maps are merged key by key.
func Merge(base, override interfaces.ThemeTokens) interfaces.ThemeTokens {
	out := base
	if override.PrimaryColor != "" {
		out.PrimaryColor = override.PrimaryColor
	}
	if override.SecondaryColor != "" {
		out.SecondaryColor = override.SecondaryColor
	}
	if override.HeadingFont != "" {
		out.HeadingFont = override.HeadingFont
	}
	if override.BodyFont != "" {
		out.BodyFont = override.BodyFont
	}
	if len(base.Extra)+len(override.Extra) > 0 {
		out.Extra = maps.Clone(base.Extra)
		if out.Extra == nil {
			out.Extra = map[string]string{}
		}
		maps.Copy(out.Extra, override.Extra)
	}
	return out
}
