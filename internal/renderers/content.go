package renderers

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// ContentType is the registry key for Markdown prose blocks.
const ContentType = "content"

// ContentData is the validated content payload.
type ContentData struct {
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
	Width    string `json:"width"`
}

// ContentSchema describes the content payload.
func ContentSchema() map[string]any {
	return objectSchema(map[string]any{
		"title":    str(""),
		"markdown": map[string]any{"type": "string"},
		"width": map[string]any{
			"type":    "string",
			"enum":    []any{"narrow", "wide"},
			"default": "narrow",
		},
	}, "markdown")
}

// Content renders Markdown. Raw HTML embedded in the source is omitted
// from the output.
type Content struct {
	markdown goldmark.Markdown
}

func NewContent() *Content {
	return &Content{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

var contentTemplate = mustTemplate(ContentType, `<section class="bs-section bs-content bs-content--{{.Width}}">
<div class="bs-container">
{{- with .Title}}
<h2>{{.}}</h2>
{{- end}}
<div class="bs-content__body">{{.Body}}</div>
</div>
</section>`)

func (c *Content) Render(data ContentData, _ interfaces.RenderContext) (interfaces.RenderFragment, error) {
	var buf bytes.Buffer
	if err := c.markdown.Convert([]byte(data.Markdown), &buf); err != nil {
		return interfaces.RenderFragment{}, fmt.Errorf("content markdown: %w", err)
	}
	if data.Width == "" {
		data.Width = "narrow"
	}
	html, err := execute(contentTemplate, struct {
		Title string
		Width string
		// goldmark escapes text and drops raw HTML unless WithUnsafe is set.
		Body template.HTML
	}{
		Title: data.Title,
		Width: data.Width,
		Body:  template.HTML(buf.String()),
	})
	if err != nil {
		return interfaces.RenderFragment{}, err
	}
	fragment := interfaces.RenderFragment{HTML: html, CSS: c.DefaultStyles()}
	if len(bytes.TrimSpace([]byte(data.Markdown))) == 0 {
		fragment.Warnings = append(fragment.Warnings, "content block is empty")
	}
	return fragment, nil
}

func (c *Content) DefaultData() ContentData {
	return ContentData{Width: "narrow"}
}

func (c *Content) DefaultStyles() string {
	return sectionStyles + `.bs-content--narrow .bs-container{max-width:44rem}
.bs-content__body{line-height:1.7}
.bs-content__body img{max-width:100%;height:auto}
.bs-content__body pre{overflow-x:auto;padding:1rem;background:#0f172a;color:#e2e8f0;border-radius:.375rem}
.bs-content__body a{color:var(--bs-primary,#2563eb)}
`
}
