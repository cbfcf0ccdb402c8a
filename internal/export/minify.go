package export

import (
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

const (
	mimeHTML = "text/html"
	mimeCSS  = "text/css"
	mimeJS   = "application/javascript"
)

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc(mimeCSS, css.Minify)
	m.AddFunc(mimeJS, js.Minify)
	m.Add(mimeHTML, &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	return m
}

// minifyText returns the minified text, or the original text together with
// the minifier error.
func minifyText(m *minify.M, mime, text string) (string, error) {
	if m == nil || text == "" {
		return text, nil
	}
	out, err := m.String(mime, text)
	if err != nil {
		return text, err
	}
	return out, nil
}
