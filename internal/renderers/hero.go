package renderers

import (
	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// HeroType is the registry key for hero banners.
const HeroType = "hero"

// HeroData is the validated hero payload.
type HeroData struct {
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle"`
	CTAText         string `json:"cta_text"`
	CTAURL          string `json:"cta_url"`
	BackgroundImage string `json:"background_image"`
	Alignment       string `json:"alignment"`
}

// HeroSchema describes the hero payload.
func HeroSchema() map[string]any {
	return objectSchema(map[string]any{
		"title":            requiredStr(),
		"subtitle":         str(""),
		"cta_text":         str(""),
		"cta_url":          str("#"),
		"background_image": str(""),
		"alignment": map[string]any{
			"type":    "string",
			"enum":    []any{"left", "center", "right"},
			"default": "center",
		},
	}, "title")
}

// Hero renders a full-width page header.
type Hero struct{}

func NewHero() *Hero { return &Hero{} }

var heroTemplate = mustTemplate(HeroType, `<section class="bs-section bs-hero bs-hero--{{.Alignment}}"{{with .BackgroundImage}} style="background-image:url('{{.}}')"{{end}}>
<div class="bs-container">
<h1 class="bs-hero__title">{{.Title}}</h1>
{{- with .Subtitle}}
<p class="bs-hero__subtitle">{{.}}</p>
{{- end}}
{{- if .CTAText}}
<a class="bs-button" href="{{.CTAURL}}">{{.CTAText}}</a>
{{- end}}
</div>
</section>`)

func (h *Hero) Render(data HeroData, _ interfaces.RenderContext) (interfaces.RenderFragment, error) {
	if data.Alignment == "" {
		data.Alignment = "center"
	}
	html, err := execute(heroTemplate, data)
	if err != nil {
		return interfaces.RenderFragment{}, err
	}
	return interfaces.RenderFragment{
		HTML:   html,
		CSS:    h.DefaultStyles(),
		Assets: collectImages(data.BackgroundImage),
	}, nil
}

func (h *Hero) DefaultData() HeroData {
	return HeroData{
		Title:     "Welcome",
		CTAURL:    "#",
		Alignment: "center",
	}
}

func (h *Hero) DefaultStyles() string {
	return sectionStyles + buttonStyles + `.bs-hero{padding:6rem 1.5rem;background:var(--bs-primary,#2563eb) center/cover no-repeat;color:#fff}
.bs-hero--center{text-align:center}
.bs-hero--right{text-align:right}
.bs-hero__title{margin:0 0 1rem;font-family:var(--bs-heading-font,inherit);font-size:3rem;line-height:1.1}
.bs-hero__subtitle{margin:0 0 2rem;font-size:1.25rem;opacity:.9}
`
}
