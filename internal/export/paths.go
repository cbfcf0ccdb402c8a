package export

import (
	"fmt"
	"path"
	"strings"

	goslug "github.com/goliatone/go-slug"
)

const homeFile = "index.html"

// OutputPath maps a page slug to its HTML file. "/", "" and "index" map to
// index.html; other slugs are normalised per segment, so "About Us/Team"
// becomes about-us/team.html.
func OutputPath(slug string) (string, error) {
	base, err := outputBase(slug)
	if err != nil {
		return "", err
	}
	return base + ".html", nil
}

func outputBase(slug string) (string, error) {
	trimmed := strings.Trim(strings.TrimSpace(slug), "/")
	if trimmed == "" || strings.EqualFold(trimmed, "index") {
		return "index", nil
	}
	trimmed = strings.TrimSuffix(trimmed, ".html")

	segments := strings.Split(trimmed, "/")
	normalized := make([]string, 0, len(segments))
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" || segment == "." {
			continue
		}
		if segment == ".." {
			return "", fmt.Errorf("slug %q escapes the export root", slug)
		}
		clean, err := goslug.Normalize(segment)
		if err != nil {
			return "", fmt.Errorf("normalize slug %q: %w", slug, err)
		}
		if clean == "" {
			return "", fmt.Errorf("slug %q has an empty segment after normalisation", slug)
		}
		normalized = append(normalized, clean)
	}
	if len(normalized) == 0 {
		return "index", nil
	}
	return path.Join(normalized...), nil
}

// relativePrefix returns the "../" chain that leads from file back to the
// export root.
func relativePrefix(file string) string {
	depth := strings.Count(path.Clean(file), "/")
	return strings.Repeat("../", depth)
}

func stylesheetPath(base string) string {
	return path.Join("assets", "css", base+".css")
}

func scriptPath(base string) string {
	return path.Join("assets", "js", base+".js")
}
