package renderers

import (
	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// FAQType is the registry key for question/answer accordions.
const FAQType = "faq"

// FAQItem is a question with its answer.
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQData is the validated FAQ payload.
type FAQData struct {
	Title     string    `json:"title"`
	OpenFirst bool      `json:"open_first"`
	Items     []FAQItem `json:"items"`
}

// FAQSchema describes the FAQ payload.
func FAQSchema() map[string]any {
	return objectSchema(map[string]any{
		"title":      str("Frequently asked questions"),
		"open_first": map[string]any{"type": "boolean", "default": false},
		"items": arrayOf(objectSchema(map[string]any{
			"question": requiredStr(),
			"answer":   requiredStr(),
		}, "question", "answer"), 1),
	}, "items")
}

// FAQ renders an accordion. The script binds each accordion once, so the
// same script appearing for several FAQ blocks on a page is harmless.
type FAQ struct{}

func NewFAQ() *FAQ { return &FAQ{} }

var faqTemplate = mustTemplate(FAQType, `<section class="bs-section bs-faq" data-bs-accordion>
<div class="bs-container">
{{- with .Title}}
<h2>{{.}}</h2>
{{- end}}
{{- $open := .OpenFirst}}
{{- range $i, $item := .Items}}
<div class="bs-faq__item{{if and $open (eq $i 0)}} is-open{{end}}">
<button class="bs-faq__question" type="button" aria-expanded="{{if and $open (eq $i 0)}}true{{else}}false{{end}}">{{$item.Question}}</button>
<div class="bs-faq__answer"><p>{{$item.Answer}}</p></div>
</div>
{{- end}}
</div>
</section>`)

const faqScript = `document.querySelectorAll('[data-bs-accordion]').forEach(function (root) {
  if (root.dataset.bsReady) { return; }
  root.dataset.bsReady = '1';
  root.querySelectorAll('.bs-faq__question').forEach(function (button) {
    button.addEventListener('click', function () {
      var item = button.parentElement;
      var open = item.classList.toggle('is-open');
      button.setAttribute('aria-expanded', open ? 'true' : 'false');
    });
  });
});`

func (f *FAQ) Render(data FAQData, _ interfaces.RenderContext) (interfaces.RenderFragment, error) {
	html, err := execute(faqTemplate, data)
	if err != nil {
		return interfaces.RenderFragment{}, err
	}
	return interfaces.RenderFragment{HTML: html, CSS: f.DefaultStyles(), JS: faqScript}, nil
}

func (f *FAQ) DefaultData() FAQData {
	return FAQData{
		Title: "Frequently asked questions",
		Items: []FAQItem{{Question: "How does it work?", Answer: "Content is rendered into static pages."}},
	}
}

func (f *FAQ) DefaultStyles() string {
	return sectionStyles + `.bs-faq__item{border-bottom:1px solid #e2e8f0}
.bs-faq__question{width:100%;padding:1rem 0;border:0;background:none;text-align:left;font:inherit;font-weight:600;cursor:pointer}
.bs-faq__answer{display:none;padding:0 0 1rem;color:#475569}
.bs-faq__item.is-open .bs-faq__answer{display:block}
`
}
