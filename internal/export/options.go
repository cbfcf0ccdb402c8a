package export

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Output formats.
const (
	// FormatStatic writes complete HTML documents.
	FormatStatic = "static"
	// FormatFragments writes body-only HTML for embedding into another page.
	// Stylesheets and scripts always go to external files in this format.
	FormatFragments = "fragments"
)

// Options tune a single export run.
type Options struct {
	InlineCSS           bool   `json:"inline_css"`
	InlineJS            bool   `json:"inline_js"`
	Minify              bool   `json:"minify"`
	Format              string `json:"format"`
	GenerateSitemap     bool   `json:"generate_sitemap"`
	GenerateRobots      bool   `json:"generate_robots"`
	GenerateWebManifest bool   `json:"generate_web_manifest"`
	WriteManifestFile   bool   `json:"write_manifest_file"`
	// BaseURL prefixes absolute URLs in sitemap.xml and robots.txt. Defaults
	// to https://<Site.Domain>.
	BaseURL string `json:"base_url"`
}

// DefaultOptions inlines CSS and JS into static documents and skips every
// auxiliary file.
func DefaultOptions() Options {
	return Options{
		InlineCSS: true,
		InlineJS:  true,
		Format:    FormatStatic,
	}
}

// Validate checks option combinations.
func (o Options) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Format, validation.Required, validation.In(FormatStatic, FormatFragments)),
		validation.Field(&o.BaseURL, validation.By(func(value any) error {
			base, _ := value.(string)
			if base == "" || strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
				return nil
			}
			return validation.NewError("validation_base_url", "must start with http:// or https://")
		})),
	)
}

// Normalized fills the format and base URL defaults.
func (o Options) Normalized(domain string) Options {
	o.Format = strings.ToLower(strings.TrimSpace(o.Format))
	if o.Format == "" {
		o.Format = FormatStatic
	}
	o.BaseURL = strings.TrimRight(strings.TrimSpace(o.BaseURL), "/")
	if o.BaseURL == "" {
		if domain = strings.Trim(strings.TrimSpace(domain), "/"); domain != "" {
			if strings.Contains(domain, "://") {
				o.BaseURL = domain
			} else {
				o.BaseURL = "https://" + domain
			}
		}
	}
	return o
}

func (o Options) externalCSS() bool {
	return !o.InlineCSS || o.Format == FormatFragments
}

func (o Options) externalJS() bool {
	return !o.InlineJS || o.Format == FormatFragments
}
