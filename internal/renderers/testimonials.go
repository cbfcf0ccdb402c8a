package renderers

import (
	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// TestimonialsType is the registry key for quote carousels.
const TestimonialsType = "testimonials"

// Testimonial is a single quote.
type Testimonial struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
	Role   string `json:"role"`
	Avatar string `json:"avatar"`
}

// TestimonialsData is the validated testimonials payload. IntervalMS of zero
// disables rotation.
type TestimonialsData struct {
	Title      string        `json:"title"`
	IntervalMS int           `json:"interval_ms"`
	Items      []Testimonial `json:"items"`
}

// TestimonialsSchema describes the testimonials payload.
func TestimonialsSchema() map[string]any {
	return objectSchema(map[string]any{
		"title":       str("What people say"),
		"interval_ms": map[string]any{"type": "integer", "minimum": 0, "default": 6000},
		"items": arrayOf(objectSchema(map[string]any{
			"quote":  requiredStr(),
			"author": requiredStr(),
			"role":   str(""),
			"avatar": str(""),
		}, "quote", "author"), 1),
	}, "items")
}

// Testimonials renders quotes as a rotating carousel.
type Testimonials struct{}

func NewTestimonials() *Testimonials { return &Testimonials{} }

var testimonialsTemplate = mustTemplate(TestimonialsType, `<section class="bs-section bs-testimonials" data-bs-carousel data-interval="{{.IntervalMS}}">
<div class="bs-container">
{{- with .Title}}
<h2>{{.}}</h2>
{{- end}}
<div class="bs-testimonials__track">
{{- range $i, $item := .Items}}
<figure class="bs-testimonials__slide{{if eq $i 0}} is-active{{end}}">
<blockquote>{{$item.Quote}}</blockquote>
<figcaption>
{{- with $item.Avatar}}<img class="bs-testimonials__avatar" src="{{.}}" alt="" width="48" height="48">{{end -}}
<strong>{{$item.Author}}</strong>{{with $item.Role}}<span>{{.}}</span>{{end}}</figcaption>
</figure>
{{- end}}
</div>
</div>
</section>`)

const testimonialsScript = `document.querySelectorAll('[data-bs-carousel]').forEach(function (root) {
  if (root.dataset.bsReady) { return; }
  root.dataset.bsReady = '1';
  var slides = root.querySelectorAll('.bs-testimonials__slide');
  var interval = parseInt(root.dataset.interval, 10);
  if (slides.length < 2 || !interval) { return; }
  var current = 0;
  setInterval(function () {
    slides[current].classList.remove('is-active');
    current = (current + 1) % slides.length;
    slides[current].classList.add('is-active');
  }, interval);
});`

func (t *Testimonials) Render(data TestimonialsData, _ interfaces.RenderContext) (interfaces.RenderFragment, error) {
	html, err := execute(testimonialsTemplate, data)
	if err != nil {
		return interfaces.RenderFragment{}, err
	}
	avatars := make([]string, 0, len(data.Items))
	for _, item := range data.Items {
		avatars = append(avatars, item.Avatar)
	}
	return interfaces.RenderFragment{
		HTML:   html,
		CSS:    t.DefaultStyles(),
		JS:     testimonialsScript,
		Assets: collectImages(avatars...),
	}, nil
}

func (t *Testimonials) DefaultData() TestimonialsData {
	return TestimonialsData{
		Title:      "What people say",
		IntervalMS: 6000,
		Items:      []Testimonial{{Quote: "It just works.", Author: "A happy customer"}},
	}
}

func (t *Testimonials) DefaultStyles() string {
	return sectionStyles + `.bs-testimonials{background:#f8fafc;text-align:center}
.bs-testimonials__slide{display:none;margin:0}
.bs-testimonials__slide.is-active{display:block}
.bs-testimonials__slide blockquote{margin:0 auto 1.5rem;max-width:40rem;font-size:1.25rem;font-style:italic}
.bs-testimonials__slide figcaption{display:flex;gap:.75rem;align-items:center;justify-content:center}
.bs-testimonials__avatar{border-radius:50%}
.bs-testimonials__slide figcaption span{color:#64748b}
`
}
