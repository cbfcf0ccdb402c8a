package renderers

import (
	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// PricingType is the registry key for pricing tables.
const PricingType = "pricing"

// PricingPlan is one column of the table.
type PricingPlan struct {
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Period      string   `json:"period"`
	Features    []string `json:"features"`
	Highlighted bool     `json:"highlighted"`
	CTAText     string   `json:"cta_text"`
	CTAURL      string   `json:"cta_url"`
}

// PricingData is the validated pricing payload.
type PricingData struct {
	Title    string        `json:"title"`
	Currency string        `json:"currency"`
	Plans    []PricingPlan `json:"plans"`
}

// PricingSchema describes the pricing payload. Prices are strings so
// values like "Free" or "12.50" need no formatting rules.
func PricingSchema() map[string]any {
	return objectSchema(map[string]any{
		"title":    str("Pricing"),
		"currency": str("$"),
		"plans": arrayOf(objectSchema(map[string]any{
			"name":        requiredStr(),
			"price":       requiredStr(),
			"period":      str("month"),
			"features":    arrayOf(map[string]any{"type": "string"}, 0),
			"highlighted": map[string]any{"type": "boolean", "default": false},
			"cta_text":    str("Choose plan"),
			"cta_url":     str("#"),
		}, "name", "price"), 1),
	}, "plans")
}

// Pricing renders plan cards side by side.
type Pricing struct{}

func NewPricing() *Pricing { return &Pricing{} }

var pricingTemplate = mustTemplate(PricingType, `<section class="bs-section bs-pricing">
<div class="bs-container">
{{- with .Title}}
<h2>{{.}}</h2>
{{- end}}
<div class="bs-pricing__plans">
{{- $currency := .Currency}}
{{- range .Plans}}
<article class="bs-pricing__plan{{if .Highlighted}} bs-pricing__plan--highlighted{{end}}">
<h3>{{.Name}}</h3>
<p class="bs-pricing__price"><span class="bs-pricing__currency">{{$currency}}</span>{{.Price}}{{with .Period}}<span class="bs-pricing__period">/{{.}}</span>{{end}}</p>
{{- if .Features}}
<ul>
{{- range .Features}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
{{- if .CTAText}}
<a class="bs-button{{if not .Highlighted}} bs-button--secondary{{end}}" href="{{.CTAURL}}">{{.CTAText}}</a>
{{- end}}
</article>
{{- end}}
</div>
</div>
</section>`)

func (p *Pricing) Render(data PricingData, _ interfaces.RenderContext) (interfaces.RenderFragment, error) {
	html, err := execute(pricingTemplate, data)
	if err != nil {
		return interfaces.RenderFragment{}, err
	}
	fragment := interfaces.RenderFragment{HTML: html, CSS: p.DefaultStyles()}
	highlighted := 0
	for _, plan := range data.Plans {
		if plan.Highlighted {
			highlighted++
		}
	}
	if highlighted > 1 {
		fragment.Warnings = append(fragment.Warnings, "pricing block highlights more than one plan")
	}
	return fragment, nil
}

func (p *Pricing) DefaultData() PricingData {
	return PricingData{
		Title:    "Pricing",
		Currency: "$",
		Plans: []PricingPlan{
			{Name: "Starter", Price: "0", Period: "month", CTAText: "Choose plan", CTAURL: "#"},
			{Name: "Pro", Price: "29", Period: "month", Highlighted: true, CTAText: "Choose plan", CTAURL: "#"},
		},
	}
}

func (p *Pricing) DefaultStyles() string {
	return sectionStyles + buttonStyles + `.bs-pricing__plans{display:flex;flex-wrap:wrap;gap:1.5rem;justify-content:center}
.bs-pricing__plan{flex:1 1 16rem;max-width:22rem;padding:2rem;border:1px solid #e2e8f0;border-radius:.5rem}
.bs-pricing__plan--highlighted{border-color:var(--bs-primary,#2563eb);box-shadow:0 10px 25px rgba(37,99,235,.15)}
.bs-pricing__price{margin:0 0 1.5rem;font-size:2.5rem;font-weight:700}
.bs-pricing__currency{font-size:1.25rem;vertical-align:top}
.bs-pricing__period{font-size:1rem;font-weight:400;color:#64748b}
.bs-pricing__plan ul{margin:0 0 1.5rem;padding-left:1.25rem}
`
}
