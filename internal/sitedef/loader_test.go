package sitedef

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-blocksite/internal/identity"
	"github.com/goliatone/go-blocksite/pkg/testsupport"
)

const siteTOML = `
name = "Acme"
domain = "acme.test"

[theme]
primary_color = "#0044ff"

[[pages]]
slug = "/"
title = "Home"

[[pages.blocks]]
type = "hero"
[pages.blocks.data]
title = "Welcome"

[[pages.blocks]]
id = "cta-main"
type = "CTA"
modified_at = 2026-04-01T10:00:00Z
[pages.blocks.data]
heading = "Start now"

[[pages]]
slug = "About Us"
title = "About"
`

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteFile(t, dir, "site.toml", siteTOML)

	site, err := LoadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if site.Name != "Acme" || site.Theme.PrimaryColor != "#0044ff" {
		t.Fatalf("unexpected site %+v", site)
	}
	if len(site.Pages) != 2 || site.Pages[1].Slug != "about-us" {
		t.Fatalf("expected normalized slugs, got %+v", site.Pages)
	}

	hero := site.Pages[0].Blocks[0]
	if hero.ID != identity.BlockID("/", 0, "hero") {
		t.Fatalf("expected derived block id, got %q", hero.ID)
	}
	if hero.Data["title"] != "Welcome" {
		t.Fatalf("unexpected hero data %+v", hero.Data)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !hero.ModifiedAt.Equal(info.ModTime()) {
		t.Fatalf("expected file mtime default, got %s", hero.ModifiedAt)
	}

	cta := site.Pages[0].Blocks[1]
	if cta.ID != "cta-main" || cta.Type != "cta" {
		t.Fatalf("unexpected cta block %+v", cta)
	}
	if !cta.ModifiedAt.Equal(time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected explicit modified_at kept, got %s", cta.ModifiedAt)
	}
}

func TestLoadIsStableAcrossReloads(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteFile(t, dir, "site.toml", siteTOML)
	first, err := LoadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	second, err := LoadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if first.Pages[0].Blocks[0].ID != second.Pages[0].Blocks[0].ID {
		t.Fatal("expected derived ids to be stable")
	}
}

func TestLoadJSON(t *testing.T) {
	fsys := fstest.MapFS{
		"site.json": {Data: []byte(`{
			"name": "Acme",
			"pages": [{"slug": "index", "blocks": [{"type": "features", "data": {"columns": 2, "items": [{"title": "Fast"}]}}]}]
		}`), ModTime: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
	}
	site, err := NewLoader(fsys).Load(context.Background(), "site.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	page := site.Pages[0]
	if page.Slug != "/" {
		t.Fatalf("expected index to mean home, got %q", page.Slug)
	}
	if page.Blocks[0].Data["columns"] != float64(2) {
		t.Fatalf("expected JSON numbers, got %#v", page.Blocks[0].Data["columns"])
	}
}

func TestLoadMarkdownPage(t *testing.T) {
	source := `---
title: Launch notes
slug: News/Launch
site: Acme
width: wide
blocks:
  - type: hero
    data:
      title: We launched
      nested:
        key: value
---
# Details

Plain markdown body.
`
	fsys := fstest.MapFS{"launch.md": {Data: []byte(source)}}
	site, err := NewLoader(fsys).Load(context.Background(), "launch.md")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if site.Name != "Acme" {
		t.Fatalf("expected site name from frontmatter, got %q", site.Name)
	}
	page := site.Pages[0]
	if page.Slug != "news/launch" || page.Title != "Launch notes" {
		t.Fatalf("unexpected page %+v", page)
	}
	if len(page.Blocks) != 2 {
		t.Fatalf("expected hero plus content block, got %d", len(page.Blocks))
	}
	nested, ok := page.Blocks[0].Data["nested"].(map[string]any)
	if !ok || nested["key"] != "value" {
		t.Fatalf("expected nested yaml map converted, got %#v", page.Blocks[0].Data["nested"])
	}
	content := page.Blocks[1]
	if content.Type != "content" || content.Data["width"] != "wide" {
		t.Fatalf("unexpected content block %+v", content)
	}
	if !strings.HasPrefix(content.Data["markdown"].(string), "# Details") {
		t.Fatalf("expected body as markdown, got %q", content.Data["markdown"])
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, dir, "site.toml", "name = \"Docs\"\nlang = \"de\"\n")
	testsupport.WriteFile(t, dir, "index.md", "---\ntitle: Start\n---\nHello")
	testsupport.WriteFile(t, dir, "guide/setup.md", "---\ntitle: Setup\n---\nSteps")
	testsupport.WriteFile(t, dir, "guide/index.md", "---\ntitle: Guide\n---\nOverview")
	testsupport.WriteFile(t, dir, ".drafts/wip.md", "ignored")

	site, err := LoadFile(context.Background(), dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if site.Name != "Docs" || site.Lang != "de" {
		t.Fatalf("expected site.toml fields, got %+v", site)
	}
	slugs := make([]string, 0, len(site.Pages))
	for _, page := range site.Pages {
		slugs = append(slugs, page.Slug)
	}
	if strings.Join(slugs, ",") != "guide,guide/setup,/" {
		t.Fatalf("unexpected page order %v", slugs)
	}
}

func TestLoadRejectsDuplicateSlugs(t *testing.T) {
	fsys := fstest.MapFS{
		"site.json": {Data: []byte(`{"name":"x","pages":[{"slug":"/"},{"slug":"index"}]}`)},
	}
	_, err := NewLoader(fsys).Load(context.Background(), "site.json")
	if err == nil {
		t.Fatal("expected duplicate slug error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestLoadRejectsMissingBlockType(t *testing.T) {
	fsys := fstest.MapFS{
		"site.json": {Data: []byte(`{"name":"x","pages":[{"slug":"/","blocks":[{"data":{}}]}]}`)},
	}
	if _, err := NewLoader(fsys).Load(context.Background(), "site.json"); err == nil {
		t.Fatal("expected missing type error")
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	fsys := fstest.MapFS{"site.yaml": {Data: []byte("name: x")}}
	if _, err := NewLoader(fsys).Load(context.Background(), "site.yaml"); err == nil {
		t.Fatal("expected unsupported extension error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestNormalizeSlug(t *testing.T) {
	cases := map[string]string{
		"":              "/",
		"/":             "/",
		"Index":         "/",
		"About Us/Team": "about-us/team",
		"/blog/":        "blog",
	}
	for in, want := range cases {
		got, err := NormalizeSlug(in)
		if err != nil || got != want {
			t.Fatalf("%q: expected %q, got %q (%v)", in, want, got, err)
		}
	}
	if _, err := NormalizeSlug("../up"); err == nil {
		t.Fatal("expected traversal error")
	}
}
