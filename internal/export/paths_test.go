package export

import (
	"testing"

	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

func TestOutputPath(t *testing.T) {
	cases := []struct {
		slug string
		want string
	}{
		{"/", "index.html"},
		{"", "index.html"},
		{"index", "index.html"},
		{"contact", "contact.html"},
		{"/contact/", "contact.html"},
		{"blog/post", "blog/post.html"},
		{"docs/./intro", "docs/intro.html"},
	}
	for _, tc := range cases {
		got, err := OutputPath(tc.slug)
		if err != nil {
			t.Fatalf("%q: %v", tc.slug, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %s, got %s", tc.slug, tc.want, got)
		}
	}
}

func TestOutputPathRejectsTraversal(t *testing.T) {
	if _, err := OutputPath("../secret"); err == nil {
		t.Fatal("expected traversal to be rejected")
	}
}

func TestRelativePrefix(t *testing.T) {
	if got := relativePrefix("index.html"); got != "" {
		t.Fatalf("expected empty prefix, got %q", got)
	}
	if got := relativePrefix("a/b/c.html"); got != "../../" {
		t.Fatalf("expected ../../, got %q", got)
	}
}

func TestCleanAssetPath(t *testing.T) {
	if got, err := cleanAssetPath("/img/a.png?v=2"); err != nil || got != "img/a.png" {
		t.Fatalf("unexpected clean path %q %v", got, err)
	}
	if _, err := cleanAssetPath("../../etc/passwd"); err == nil {
		t.Fatal("expected escape to be rejected")
	}
}

func TestRootVariablesSanitises(t *testing.T) {
	got := rootVariables(interfaces.ThemeTokens{
		PrimaryColor: "red;}</style>",
		BodyFont:     "  Inter,   sans-serif ",
		Extra:        map[string]string{"!!": "ignored"},
	})
	if got != ":root{--bs-body-font:Inter, sans-serif;--bs-primary:red}" {
		t.Fatalf("unexpected root variables %q", got)
	}
}

func TestSanitizeCSSValueCutsAtTerminator(t *testing.T) {
	cases := map[string]string{
		"#112233":                   "#112233",
		"red;}</style>":             "red",
		"  Georgia ,  serif ":       "Georgia , serif",
		"blue}body{display:none":    "blue",
		"url(x)\\;color:red":        "url(x)",
		"<script>alert(1)</script>": "",
	}
	for input, want := range cases {
		if got := sanitizeCSSValue(input); got != want {
			t.Fatalf("sanitizeCSSValue(%q) = %q, want %q", input, got, want)
		}
	}
}
