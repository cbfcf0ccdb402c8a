package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-blocksite/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if cfg.Engine.MaxRenderTime.Duration != 5*time.Second {
		t.Fatalf("expected 5s render budget, got %s", cfg.Engine.MaxRenderTime)
	}
	if cfg.Cache.Capacity != 100 || cfg.Cache.MaxAge.Duration != time.Hour {
		t.Fatalf("unexpected cache defaults %+v", cfg.Cache)
	}
}

func TestConfigValidateErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{"zero render time", func(c *runtimeconfig.Config) { c.Engine.MaxRenderTime.Duration = 0 }, runtimeconfig.ErrMaxRenderTimeInvalid},
		{"negative concurrency", func(c *runtimeconfig.Config) { c.Engine.Concurrency = -1 }, runtimeconfig.ErrConcurrencyInvalid},
		{"zero capacity", func(c *runtimeconfig.Config) { c.Cache.Capacity = 0 }, runtimeconfig.ErrCacheCapacityInvalid},
		{"unknown format", func(c *runtimeconfig.Config) { c.Export.Format = "nextjs" }, runtimeconfig.ErrExportFormatInvalid},
		{"sqlite without dsn", func(c *runtimeconfig.Config) { c.Storage.Driver = "sqlite" }, runtimeconfig.ErrStorageDSNRequired},
		{"unknown driver", func(c *runtimeconfig.Config) { c.Storage.Driver = "redis" }, runtimeconfig.ErrStorageDriverUnknown},
		{"theme without dir", func(c *runtimeconfig.Config) { c.Themes.DefaultTheme = "aurora" }, runtimeconfig.ErrThemeDirRequired},
		{"missing provider", func(c *runtimeconfig.Config) { c.Logging.Provider = "" }, runtimeconfig.ErrLoggingProviderRequired},
		{"unknown provider", func(c *runtimeconfig.Config) { c.Logging.Provider = "syslog" }, runtimeconfig.ErrLoggingProviderUnknown},
		{"bad level", func(c *runtimeconfig.Config) { c.Logging.Level = "loud" }, runtimeconfig.ErrLoggingLevelInvalid},
		{"bad log format", func(c *runtimeconfig.Config) { c.Logging.Format = "xml" }, runtimeconfig.ErrLoggingFormatInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCacheCapacityIgnoredWhenDisabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Cache.Capacity = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected disabled cache to skip capacity check, got %v", err)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	data := []byte(`
[engine]
max_render_time = "250ms"
concurrency = 4

[cache]
enabled = true
capacity = 10
max_age = "2m"

[export]
minify = true
sitemap = true
base_url = "https://example.com"

[logging]
provider = "gologger"
level = "debug"
format = "json"
`)
	cfg, err := runtimeconfig.Parse(data)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if cfg.Engine.MaxRenderTime.Duration != 250*time.Millisecond || cfg.Engine.Concurrency != 4 {
		t.Fatalf("unexpected engine config %+v", cfg.Engine)
	}
	if cfg.Cache.Capacity != 10 || cfg.Cache.MaxAge.Duration != 2*time.Minute {
		t.Fatalf("unexpected cache config %+v", cfg.Cache)
	}
	if !cfg.Export.Minify || !cfg.Export.GenerateSitemap || cfg.Export.BaseURL != "https://example.com" {
		t.Fatalf("unexpected export config %+v", cfg.Export)
	}
	if !cfg.Export.InlineCSS {
		t.Fatal("expected untouched defaults to survive decoding")
	}
}

func TestParseRejectsInvalidDuration(t *testing.T) {
	if _, err := runtimeconfig.Parse([]byte("[engine]\nmax_render_time = \"soon\"\n")); err == nil {
		t.Fatal("expected duration parse error")
	}
}

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := runtimeconfig.LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if cfg.Export.Format != runtimeconfig.FormatStatic {
		t.Fatalf("expected defaults, got %+v", cfg.Export)
	}
}

func TestLoadFileReadsDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocksite.toml")
	if err := os.WriteFile(path, []byte("[cache]\nenabled = false\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := runtimeconfig.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if cfg.Cache.Enabled {
		t.Fatal("expected cache to be disabled from file")
	}
}
