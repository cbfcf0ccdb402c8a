package renderers

import (
	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// CTAType is the registry key for call-to-action bands.
const CTAType = "cta"

// CTAData is the validated call-to-action payload.
type CTAData struct {
	Heading    string `json:"heading"`
	Body       string `json:"body"`
	ButtonText string `json:"button_text"`
	ButtonURL  string `json:"button_url"`
	Variant    string `json:"variant"`
}

// CTASchema describes the call-to-action payload.
func CTASchema() map[string]any {
	return objectSchema(map[string]any{
		"heading":     requiredStr(),
		"body":        str(""),
		"button_text": str("Get started"),
		"button_url":  str("#"),
		"variant": map[string]any{
			"type":    "string",
			"enum":    []any{"primary", "secondary"},
			"default": "primary",
		},
	}, "heading")
}

// CTA renders a centred call-to-action band.
type CTA struct{}

func NewCTA() *CTA { return &CTA{} }

var ctaTemplate = mustTemplate(CTAType, `<section class="bs-section bs-cta bs-cta--{{.Variant}}">
<div class="bs-container">
<h2>{{.Heading}}</h2>
{{- with .Body}}
<p class="bs-cta__body">{{.}}</p>
{{- end}}
{{- if .ButtonText}}
<a class="bs-button{{if eq .Variant "secondary"}} bs-button--secondary{{end}}" href="{{.ButtonURL}}">{{.ButtonText}}</a>
{{- end}}
</div>
</section>`)

func (c *CTA) Render(data CTAData, _ interfaces.RenderContext) (interfaces.RenderFragment, error) {
	if data.Variant == "" {
		data.Variant = "primary"
	}
	html, err := execute(ctaTemplate, data)
	if err != nil {
		return interfaces.RenderFragment{}, err
	}
	return interfaces.RenderFragment{HTML: html, CSS: c.DefaultStyles()}, nil
}

func (c *CTA) DefaultData() CTAData {
	return CTAData{
		Heading:    "Ready to get started?",
		ButtonText: "Get started",
		ButtonURL:  "#",
		Variant:    "primary",
	}
}

func (c *CTA) DefaultStyles() string {
	return sectionStyles + buttonStyles + `.bs-cta{text-align:center}
.bs-cta--primary{background:#eff6ff}
.bs-cta--secondary{background:#f1f5f9}
.bs-cta__body{margin:0 auto 2rem;max-width:40rem;color:#475569}
`
}
