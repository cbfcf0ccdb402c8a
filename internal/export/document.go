package export

import (
	"html/template"
	"io"
)

// Generator is written to the generator meta tag.
const Generator = "go-blocksite"

// Document is the data handed to a DocumentLayout for one page.
type Document struct {
	Lang        string
	Title       string
	Description string
	SiteName    string
	Generator   string
	// Prefix leads from the page back to the export root, e.g. "../" for
	// blog/post.html.
	Prefix         string
	CSS            template.CSS
	StylesheetHref string
	JS             template.JS
	ScriptSrc      string
	Body           template.HTML
}

// DocumentLayout renders a full HTML document around a page body.
type DocumentLayout interface {
	Render(w io.Writer, doc Document) error
}

// LayoutFunc adapts a function into a DocumentLayout.
type LayoutFunc func(w io.Writer, doc Document) error

func (f LayoutFunc) Render(w io.Writer, doc Document) error {
	return f(w, doc)
}

var defaultDocument = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
{{- with .Description}}
<meta name="description" content="{{.}}">
{{- end}}
<meta name="generator" content="{{.Generator}}">
{{- with .StylesheetHref}}
<link rel="stylesheet" href="{{.}}">
{{- end}}
{{- with .CSS}}
<style>
{{.}}</style>
{{- end}}
</head>
<body>
{{.Body}}
{{- with .ScriptSrc}}
<script src="{{.}}" defer></script>
{{- end}}
{{- with .JS}}
<script>
{{.}}</script>
{{- end}}
</body>
</html>
`))

// DefaultLayout returns the built-in html/template document layout.
func DefaultLayout() DocumentLayout {
	return LayoutFunc(func(w io.Writer, doc Document) error {
		return defaultDocument.Execute(w, doc)
	})
}
