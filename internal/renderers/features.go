package renderers

import (
	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// FeaturesType is the registry key for feature grids.
const FeaturesType = "features"

// FeatureItem is a single grid entry.
type FeatureItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// FeaturesData is the validated features payload.
type FeaturesData struct {
	Title   string        `json:"title"`
	Intro   string        `json:"intro"`
	Columns int           `json:"columns"`
	Items   []FeatureItem `json:"items"`
}

// FeaturesSchema describes the features payload.
func FeaturesSchema() map[string]any {
	return objectSchema(map[string]any{
		"title": str(""),
		"intro": str(""),
		"columns": map[string]any{
			"type":    "integer",
			"minimum": 1,
			"maximum": 4,
			"default": 3,
		},
		"items": arrayOf(objectSchema(map[string]any{
			"title":       requiredStr(),
			"description": str(""),
			"icon":        str(""),
		}, "title"), 1),
	}, "items")
}

// Features renders a responsive grid of feature cards.
type Features struct{}

func NewFeatures() *Features { return &Features{} }

var featuresTemplate = mustTemplate(FeaturesType, `<section class="bs-section bs-features">
<div class="bs-container">
{{- with .Title}}
<h2>{{.}}</h2>
{{- end}}
{{- with .Intro}}
<p class="bs-features__intro">{{.}}</p>
{{- end}}
<div class="bs-features__grid bs-features__grid--{{.Columns}}">
{{- range .Items}}
<article class="bs-features__item">
{{- with .Icon}}
<span class="bs-features__icon" aria-hidden="true">{{.}}</span>
{{- end}}
<h3>{{.Title}}</h3>
{{- with .Description}}
<p>{{.}}</p>
{{- end}}
</article>
{{- end}}
</div>
</div>
</section>`)

func (f *Features) Render(data FeaturesData, _ interfaces.RenderContext) (interfaces.RenderFragment, error) {
	if data.Columns < 1 || data.Columns > 4 {
		data.Columns = 3
	}
	html, err := execute(featuresTemplate, data)
	if err != nil {
		return interfaces.RenderFragment{}, err
	}
	fragment := interfaces.RenderFragment{HTML: html, CSS: f.DefaultStyles()}
	if len(data.Items) == 0 {
		fragment.Warnings = append(fragment.Warnings, "features block has no items")
	}
	return fragment, nil
}

func (f *Features) DefaultData() FeaturesData {
	return FeaturesData{
		Title:   "Features",
		Columns: 3,
		Items: []FeatureItem{
			{Title: "Fast", Description: "Pages are pre-rendered."},
			{Title: "Reliable", Description: "Broken blocks never break a page."},
			{Title: "Portable", Description: "Export to any static host."},
		},
	}
}

func (f *Features) DefaultStyles() string {
	return sectionStyles + `.bs-features__intro{margin:0 0 2rem;color:#475569}
.bs-features__grid{display:grid;gap:1.5rem;grid-template-columns:repeat(var(--bs-columns,3),minmax(0,1fr))}
.bs-features__grid--1{--bs-columns:1}
.bs-features__grid--2{--bs-columns:2}
.bs-features__grid--3{--bs-columns:3}
.bs-features__grid--4{--bs-columns:4}
.bs-features__item{padding:1.5rem;border:1px solid #e2e8f0;border-radius:.5rem}
.bs-features__icon{display:block;margin-bottom:.75rem;font-size:1.5rem;color:var(--bs-primary,#2563eb)}
@media (max-width:640px){.bs-features__grid{grid-template-columns:1fr}}
`
}
