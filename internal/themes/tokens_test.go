package themes

import (
	"testing"

	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

func TestTokensFromMap(t *testing.T) {
	tokens := TokensFromMap(map[string]string{
		"color.primary":   "#112233",
		"Secondary_Color": "#445566",
		"fonts.heading":   "Georgia, serif",
		"body_font":       "Inter",
		"radius.md":       "6px",
		"spacing":         " 1rem ",
		"empty":           "",
	})
	if tokens.PrimaryColor != "#112233" || tokens.SecondaryColor != "#445566" {
		t.Fatalf("unexpected colours %+v", tokens)
	}
	if tokens.HeadingFont != "Georgia, serif" || tokens.BodyFont != "Inter" {
		t.Fatalf("unexpected fonts %+v", tokens)
	}
	if len(tokens.Extra) != 2 || tokens.Extra["radius-md"] != "6px" || tokens.Extra["spacing"] != "1rem" {
		t.Fatalf("unexpected extra tokens %+v", tokens.Extra)
	}
}

func TestTokensFromMapEmpty(t *testing.T) {
	tokens := TokensFromMap(nil)
	if tokens.PrimaryColor != "" || tokens.Extra != nil {
		t.Fatalf("expected zero tokens, got %+v", tokens)
	}
}

func TestMerge(t *testing.T) {
	base := interfaces.ThemeTokens{
		PrimaryColor: "#000",
		BodyFont:     "Inter",
		Extra:        map[string]string{"radius": "4px", "gap": "1rem"},
	}
	override := interfaces.ThemeTokens{
		PrimaryColor: "#fff",
		Extra:        map[string]string{"radius": "8px"},
	}
	merged := Merge(base, override)
	if merged.PrimaryColor != "#fff" || merged.BodyFont != "Inter" {
		t.Fatalf("unexpected merge %+v", merged)
	}
	if merged.Extra["radius"] != "8px" || merged.Extra["gap"] != "1rem" {
		t.Fatalf("unexpected extra merge %+v", merged.Extra)
	}
	if base.Extra["radius"] != "4px" {
		t.Fatal("expected base left untouched")
	}
}

func TestLoadDirRequiresManifest(t *testing.T) {
	if _, err := Resolve(t.TempDir(), ""); err == nil {
		t.Fatal("expected error for a directory without a theme manifest")
	}
	if _, err := NewSelector("", "").LoadDir("   "); err == nil {
		t.Fatal("expected error for an empty directory name")
	}
}
