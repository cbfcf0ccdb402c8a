package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-blocksite/internal/registry"
	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

func TestWrapScript(t *testing.T) {
	got := WrapScript("b1", "faq", "  run();\n")
	want := "// block b1 (faq)\n(function() {\nrun();\n})();"
	if got != want {
		t.Fatalf("unexpected wrapper %q", got)
	}
}

func TestRenderPageCombinesBlocks(t *testing.T) {
	reg, _ := newHeroRegistry(t)
	registerFunc(t, reg, "faq", func(map[string]any, interfaces.RenderContext) (interfaces.RenderFragment, error) {
		return interfaces.RenderFragment{
			HTML:   "<dl></dl>",
			CSS:    "h1{margin:0}\ndl{padding:0}",
			JS:     "toggle();",
			Assets: []interfaces.Asset{{Path: "img/q.png"}},
		}, nil
	})
	eng := New(reg)

	page := eng.RenderPage(context.Background(), []interfaces.Block{
		block("hero-1", "hero", map[string]any{"title": "One"}),
		block("faq-1", "faq", nil),
		block("gone-1", "missing", nil),
	}, interfaces.RenderContext{})

	if len(page.Blocks) != 3 {
		t.Fatalf("expected 3 block results, got %d", len(page.Blocks))
	}
	if !strings.HasPrefix(page.HTML, "<h1>One</h1>\n<dl></dl>\n") {
		t.Fatalf("expected block html in order, got %q", page.HTML)
	}
	if strings.Count(page.CSS, "h1{margin:0}") != 1 || !strings.Contains(page.CSS, "dl{padding:0}") {
		t.Fatalf("expected deduplicated css, got %q", page.CSS)
	}
	if !strings.Contains(page.JS, "// block faq-1 (faq)\n(function() {\ntoggle();\n})();") {
		t.Fatalf("expected wrapped script, got %q", page.JS)
	}
	if len(page.Assets) != 1 || page.Assets[0].Path != "img/q.png" {
		t.Fatalf("unexpected assets %+v", page.Assets)
	}
	if !page.Degraded() || len(page.Errors) != 1 || page.Errors[0].BlockID != "gone-1" {
		t.Fatalf("expected one fallback error, got %+v", page.Errors)
	}
}

func TestRenderPageEmpty(t *testing.T) {
	page := New(registry.New()).RenderPage(context.Background(), nil, interfaces.RenderContext{})
	if page.HTML != "" || page.CSS != "" || page.JS != "" || page.Degraded() {
		t.Fatalf("expected empty page, got %+v", page)
	}
}
