// Package di wires the render engine, export pipeline and their
// collaborators from a runtime configuration.
package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-blocksite/internal/cache"
	"github.com/goliatone/go-blocksite/internal/engine"
	"github.com/goliatone/go-blocksite/internal/export"
	"github.com/goliatone/go-blocksite/internal/logging"
	"github.com/goliatone/go-blocksite/internal/logging/gologger"
	"github.com/goliatone/go-blocksite/internal/manifests"
	"github.com/goliatone/go-blocksite/internal/registry"
	"github.com/goliatone/go-blocksite/internal/renderers"
	"github.com/goliatone/go-blocksite/internal/runtimeconfig"
	"github.com/goliatone/go-blocksite/internal/themes"
	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// Container owns the module's long-lived services.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	registry       *registry.Registry
	cache          interfaces.RenderCache
	metrics        interfaces.RenderMetrics
	engine         *engine.Engine
	history        manifests.Store
	bunDB          *bun.DB
	ownsDB         bool
	assets         interfaces.AssetSource
	layout         export.DocumentLayout
	themes         *themes.Selector
	exporter       *export.Service
	skipBuiltins   bool
	clock          func() time.Time
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithRegistry supplies a pre-populated renderer registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(c *Container) {
		c.registry = reg
	}
}

// WithoutBuiltins skips registering the built-in block renderers.
func WithoutBuiltins() Option {
	return func(c *Container) {
		c.skipBuiltins = true
	}
}

// WithRenderCache overrides the cache built from the cache config.
func WithRenderCache(rc interfaces.RenderCache) Option {
	return func(c *Container) {
		c.cache = rc
	}
}

// WithMetrics attaches render telemetry.
func WithMetrics(metrics interfaces.RenderMetrics) Option {
	return func(c *Container) {
		c.metrics = metrics
	}
}

// WithHistoryStore overrides the manifest store built from the storage
// config.
func WithHistoryStore(store manifests.Store) Option {
	return func(c *Container) {
		c.history = store
	}
}

// WithBunDB reuses an existing database handle for sql history drivers.
// The container does not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithAssetSource enables asset copying during export.
func WithAssetSource(source interfaces.AssetSource) Option {
	return func(c *Container) {
		c.assets = source
	}
}

// WithLayout replaces the default document layout.
func WithLayout(layout export.DocumentLayout) Option {
	return func(c *Container) {
		c.layout = layout
	}
}

// WithClock overrides the time source of the cache, engine and exporter.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		c.clock = now
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureRegistry(); err != nil {
		return nil, err
	}
	c.configureCache()
	c.configureEngine()
	if err := c.configureHistory(); err != nil {
		return nil, err
	}
	if err := c.configureThemes(); err != nil {
		c.Close()
		return nil, err
	}
	c.configureExporter()
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	}
	return nil
}

func (c *Container) configureRegistry() error {
	if c.registry == nil {
		c.registry = registry.New()
	}
	if c.skipBuiltins {
		return nil
	}
	if err := renderers.RegisterBuiltins(c.registry); err != nil {
		return fmt.Errorf("register built-in renderers: %w", err)
	}
	logging.WithFields(logging.RegistryLogger(c.loggerProvider), map[string]any{
		"types": c.registry.Types(),
	}).Debug("registry.builtins.registered")
	return nil
}

func (c *Container) configureCache() {
	if c.cache != nil {
		return
	}
	if !c.Config.Cache.Enabled {
		c.cache = cache.Disabled()
		return
	}
	var opts []cache.Option
	if c.clock != nil {
		opts = append(opts, cache.WithClock(c.clock))
	}
	c.cache = cache.New(cache.Config{
		Capacity: c.Config.Cache.Capacity,
		MaxAge:   c.Config.Cache.MaxAge.Duration,
	}, opts...)
}

func (c *Container) configureEngine() {
	opts := []engine.Option{
		engine.WithCache(c.cache),
		engine.WithLogger(logging.EngineLogger(c.loggerProvider)),
		engine.WithMaxRenderTime(c.Config.Engine.MaxRenderTime.Duration),
		engine.WithConcurrency(c.Config.Engine.Concurrency),
	}
	if c.metrics != nil {
		opts = append(opts, engine.WithMetrics(c.metrics))
	}
	if c.clock != nil {
		opts = append(opts, engine.WithClock(c.clock))
	}
	c.engine = engine.New(c.registry, opts...)
}

func (c *Container) configureHistory() error {
	if c.history != nil {
		return nil
	}
	logger := logging.HistoryLogger(c.loggerProvider)
	driver := strings.ToLower(strings.TrimSpace(c.Config.Storage.Driver))
	switch driver {
	case "", runtimeconfig.StorageMemory:
		c.history = manifests.NewMemoryStore()
	case runtimeconfig.StorageNone:
		return nil
	case runtimeconfig.StorageSQLite, runtimeconfig.StoragePostgres:
		if c.bunDB == nil {
			db, err := manifests.OpenDB(driver, c.Config.Storage.DSN)
			if err != nil {
				return err
			}
			c.bunDB = db
			c.ownsDB = true
		}
		store := manifests.NewBunStore(c.bunDB)
		if err := store.EnsureSchema(context.Background()); err != nil {
			c.Close()
			return fmt.Errorf("prepare manifest history: %w", err)
		}
		c.history = store
	default:
		return fmt.Errorf("%w: %s", runtimeconfig.ErrStorageDriverUnknown, driver)
	}
	logging.WithFields(logger, map[string]any{"driver": driver}).Debug("history.store.ready")
	return nil
}

func (c *Container) configureThemes() error {
	dir := strings.TrimSpace(c.Config.Themes.Dir)
	if dir == "" {
		return nil
	}
	selector := themes.NewSelector(c.Config.Themes.DefaultTheme, c.Config.Themes.DefaultVariant)
	if _, err := selector.LoadDir(dir); err != nil {
		return err
	}
	c.themes = selector
	return nil
}

func (c *Container) configureExporter() {
	opts := []export.Option{
		export.WithLogger(logging.ExportLogger(c.loggerProvider)),
		export.WithWorkers(c.Config.Export.Workers),
	}
	if c.history != nil {
		opts = append(opts, export.WithHistory(c.history))
	}
	if c.assets != nil {
		opts = append(opts, export.WithAssetSource(c.assets))
	}
	if c.layout != nil {
		opts = append(opts, export.WithLayout(c.layout))
	}
	if c.clock != nil {
		opts = append(opts, export.WithClock(c.clock))
	}
	c.exporter = export.NewService(c.engine, opts...)
}

// ExportOptions converts the export config section into export.Options.
func (c *Container) ExportOptions() export.Options {
	cfg := c.Config.Export
	return export.Options{
		InlineCSS:           cfg.InlineCSS,
		InlineJS:            cfg.InlineJS,
		Minify:              cfg.Minify,
		Format:              cfg.Format,
		GenerateSitemap:     cfg.GenerateSitemap,
		GenerateRobots:      cfg.GenerateRobots,
		GenerateWebManifest: cfg.GenerateWebManifest,
		WriteManifestFile:   cfg.WriteManifestFile,
		BaseURL:             cfg.BaseURL,
	}
}

// ThemeTokens resolves the configured theme and layers site on top of it.
// Without a theme directory the site tokens are returned unchanged.
func (c *Container) ThemeTokens(site interfaces.ThemeTokens) (interfaces.ThemeTokens, error) {
	if c.themes == nil {
		return site, nil
	}
	base, err := c.themes.Tokens(c.Config.Themes.DefaultTheme, c.Config.Themes.DefaultVariant)
	if err != nil {
		return site, err
	}
	return themes.Merge(base, site), nil
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

func (c *Container) Registry() *registry.Registry { return c.registry }

func (c *Container) RenderCache() interfaces.RenderCache { return c.cache }

func (c *Container) Engine() *engine.Engine { return c.engine }

func (c *Container) Exporter() *export.Service { return c.exporter }

// History returns the manifest store, or nil when history is disabled.
func (c *Container) History() manifests.Store { return c.history }

// Close releases the database handle the container opened itself.
func (c *Container) Close() error {
	if c.bunDB != nil && c.ownsDB {
		db := c.bunDB
		c.bunDB = nil
		return db.Close()
	}
	return nil
}
