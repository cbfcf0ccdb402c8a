package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrMaxRenderTimeInvalid    = errors.New("blocksite config: engine max render time must be positive")
	ErrConcurrencyInvalid      = errors.New("blocksite config: engine concurrency must be zero or positive")
	ErrCacheCapacityInvalid    = errors.New("blocksite config: cache capacity must be positive when cache is enabled")
	ErrCacheMaxAgeInvalid      = errors.New("blocksite config: cache max age must be zero or positive")
	ErrExportFormatInvalid     = errors.New("blocksite config: export format is invalid")
	ErrExportWorkersInvalid    = errors.New("blocksite config: export workers must be zero or positive")
	ErrStorageDriverUnknown    = errors.New("blocksite config: history storage driver is invalid")
	ErrStorageDSNRequired      = errors.New("blocksite config: history storage dsn is required for sql drivers")
	ErrThemeDirRequired        = errors.New("blocksite config: themes directory is required when a default theme is set")
	ErrLoggingProviderRequired = errors.New("blocksite config: logging provider is required")
	ErrLoggingProviderUnknown  = errors.New("blocksite config: logging provider is invalid")
	ErrLoggingLevelInvalid     = errors.New("blocksite config: logging level is invalid")
	ErrLoggingFormatInvalid    = errors.New("blocksite config: logging format is invalid")
)

const (
	FormatStatic    = "static"
	FormatFragments = "fragments"
)

const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageNone     = "none"
)

// Config aggregates the runtime settings for the render engine and export
// pipeline. Zero values are replaced by DefaultConfig when loading from disk.
type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Cache   CacheConfig   `toml:"cache"`
	Export  ExportConfig  `toml:"export"`
	Storage StorageConfig `toml:"storage"`
	Themes  ThemeConfig   `toml:"themes"`
	Logging LoggingConfig `toml:"logging"`
}

// EngineConfig controls per-block rendering.
type EngineConfig struct {
	MaxRenderTime Duration `toml:"max_render_time"`
	// Concurrency bounds the number of blocks rendered at once by RenderBlocks;
	// zero means one goroutine per block.
	Concurrency int `toml:"concurrency"`
}

// CacheConfig captures render cache behaviour.
type CacheConfig struct {
	Enabled  bool     `toml:"enabled"`
	Capacity int      `toml:"capacity"`
	MaxAge   Duration `toml:"max_age"`
}

// ExportConfig holds the default export options.
type ExportConfig struct {
	InlineCSS           bool   `toml:"inline_css"`
	InlineJS            bool   `toml:"inline_js"`
	Minify              bool   `toml:"minify"`
	Format              string `toml:"format"`
	GenerateSitemap     bool   `toml:"sitemap"`
	GenerateRobots      bool   `toml:"robots"`
	GenerateWebManifest bool   `toml:"webmanifest"`
	WriteManifestFile   bool   `toml:"manifest_file"`
	BaseURL             string `toml:"base_url"`
	Workers             int    `toml:"workers"`
}

// StorageConfig selects where superseded export manifests are kept.
type StorageConfig struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

// ThemeConfig points at go-theme manifests used to derive theme tokens.
type ThemeConfig struct {
	Dir            string `toml:"dir"`
	DefaultTheme   string `toml:"default_theme"`
	DefaultVariant string `toml:"default_variant"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `toml:"provider"`
	Level     string   `toml:"level"`
	Format    string   `toml:"format"`
	AddSource bool     `toml:"add_source"`
	Focus     []string `toml:"focus"`
}

// Duration decodes Go duration strings ("5s", "1h") from text formats.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// DefaultConfig returns the defaults used by the CLI and the root facade.
func DefaultConfig() Config {
	return Config{
		Engine: EngineConfig{
			MaxRenderTime: Duration{5 * time.Second},
			Concurrency:   0,
		},
		Cache: CacheConfig{
			Enabled:  true,
			Capacity: 100,
			MaxAge:   Duration{time.Hour},
		},
		Export: ExportConfig{
			InlineCSS: true,
			InlineJS:  true,
			Format:    FormatStatic,
			Workers:   0,
		},
		Storage: StorageConfig{
			Driver: StorageMemory,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "console",
		},
	}
}

// Validate performs consistency checks.
func (cfg Config) Validate() error {
	if cfg.Engine.MaxRenderTime.Duration <= 0 {
		return ErrMaxRenderTimeInvalid
	}
	if cfg.Engine.Concurrency < 0 {
		return ErrConcurrencyInvalid
	}
	if cfg.Cache.Enabled && cfg.Cache.Capacity <= 0 {
		return ErrCacheCapacityInvalid
	}
	if cfg.Cache.MaxAge.Duration < 0 {
		return ErrCacheMaxAgeInvalid
	}
	if format := normalize(cfg.Export.Format); format != "" && !IsSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrExportFormatInvalid, format)
	}
	if cfg.Export.Workers < 0 {
		return ErrExportWorkersInvalid
	}
	switch driver := normalize(cfg.Storage.Driver); driver {
	case "", StorageMemory, StorageNone:
	case StorageSQLite, StoragePostgres:
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStorageDSNRequired, driver)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
	}
	if strings.TrimSpace(cfg.Themes.DefaultTheme) != "" && strings.TrimSpace(cfg.Themes.Dir) == "" {
		return ErrThemeDirRequired
	}

	provider := normalize(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedLogFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// IsSupportedFormat reports whether the export format is known.
func IsSupportedFormat(format string) bool {
	switch normalize(format) {
	case FormatStatic, FormatFragments:
		return true
	default:
		return false
	}
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "gologger", "none":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedLogFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
