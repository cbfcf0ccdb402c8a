package export

import (
	"sort"
	"strings"

	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// rootVariables renders theme tokens as CSS custom properties. Renderers
// reference them through var(--bs-*).
func rootVariables(theme interfaces.ThemeTokens) string {
	vars := map[string]string{}
	set := func(name, value string) {
		if value = sanitizeCSSValue(value); value != "" {
			vars[name] = value
		}
	}
	set("--bs-primary", theme.PrimaryColor)
	set("--bs-secondary", theme.SecondaryColor)
	set("--bs-heading-font", theme.HeadingFont)
	set("--bs-body-font", theme.BodyFont)
	for key, value := range theme.Extra {
		name := sanitizeCSSName(key)
		if name == "" {
			continue
		}
		set("--bs-"+name, value)
	}
	if len(vars) == 0 {
		return ""
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(":root{")
	for i, name := range names {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(name + ":" + vars[name])
	}
	b.WriteString("}")
	return b.String()
}

// sanitizeCSSValue keeps the value up to the first character that could end
// the declaration or the surrounding style element.
func sanitizeCSSValue(value string) string {
	if idx := strings.IndexAny(value, ";{}<>\\"); idx >= 0 {
		value = value[:idx]
	}
	return strings.Join(strings.Fields(value), " ")
}

func sanitizeCSSName(name string) string {
	name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), "--")))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		case r == '_' || r == '.' || r == ' ':
			return '-'
		}
		return -1
	}, name)
}
