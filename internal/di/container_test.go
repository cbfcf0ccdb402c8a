package di

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-blocksite/internal/logging/gologger"
	"github.com/goliatone/go-blocksite/internal/manifests"
	"github.com/goliatone/go-blocksite/internal/runtimeconfig"
	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

func TestNewContainerDefaults(t *testing.T) {
	container, err := NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer container.Close()

	if _, ok := container.LoggerProvider().(*gologger.Provider); !ok {
		t.Fatalf("expected go-logger provider, got %T", container.LoggerProvider())
	}
	if len(container.Registry().Types()) == 0 {
		t.Fatal("expected built-in renderers registered")
	}
	if _, ok := container.History().(*manifests.MemoryStore); !ok {
		t.Fatalf("expected memory history, got %T", container.History())
	}
	if container.Engine().MaxRenderTime() != 5*time.Second {
		t.Fatalf("unexpected max render time %s", container.Engine().MaxRenderTime())
	}
	opts := container.ExportOptions()
	if !opts.InlineCSS || opts.Format != runtimeconfig.FormatStatic {
		t.Fatalf("unexpected export options %+v", opts)
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Engine.MaxRenderTime = runtimeconfig.Duration{}
	if _, err := NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrMaxRenderTimeInvalid) {
		t.Fatalf("expected max render time error, got %v", err)
	}
}

func TestNewContainerWithoutBuiltinsOrHistory(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = runtimeconfig.StorageNone
	cfg.Logging.Provider = "none"
	cfg.Cache.Enabled = false

	container, err := NewContainer(cfg, WithoutBuiltins())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if len(container.Registry().Types()) != 0 {
		t.Fatalf("expected empty registry, got %v", container.Registry().Types())
	}
	if container.History() != nil {
		t.Fatal("expected history disabled")
	}
	if container.LoggerProvider() != nil {
		t.Fatal("expected no logger provider")
	}
	if container.RenderCache().Len() != 0 {
		t.Fatal("expected disabled cache")
	}
}

func TestNewContainerSQLiteHistory(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "none"
	cfg.Storage.Driver = runtimeconfig.StorageSQLite
	cfg.Storage.DSN = "file:" + filepath.Join(t.TempDir(), "history.db")

	fixed := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	container, err := NewContainer(cfg, WithClock(func() time.Time { return fixed }))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer container.Close()

	if _, ok := container.History().(*manifests.BunStore); !ok {
		t.Fatalf("expected bun history, got %T", container.History())
	}

	site := interfaces.Site{Name: "Demo", Pages: []interfaces.Page{{Slug: "/", Blocks: []interfaces.Block{
		{ID: "h", Type: "hero", Data: map[string]any{"title": "Hi"}},
	}}}}
	result, err := container.Exporter().ExportSite(context.Background(), site, container.ExportOptions())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	latest, err := container.History().Latest(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.ID != result.Manifest.ID || !latest.GeneratedAt.Equal(fixed) {
		t.Fatalf("expected stored manifest, got %+v", latest)
	}
}

func TestThemeTokensWithoutThemeDir(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "none"
	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	site := interfaces.ThemeTokens{PrimaryColor: "#123456"}
	tokens, err := container.ThemeTokens(site)
	if err != nil || tokens.PrimaryColor != "#123456" {
		t.Fatalf("expected site tokens unchanged, got %+v (%v)", tokens, err)
	}
}

func TestNewContainerFailsOnMissingThemeDir(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "none"
	cfg.Themes.Dir = filepath.Join(t.TempDir(), "missing")
	if _, err := NewContainer(cfg); err == nil {
		t.Fatal("expected theme loading error")
	}
}
