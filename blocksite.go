// Package blocksite renders typed content blocks to HTML fragments and
// exports whole sites as static files.
package blocksite

import (
	"context"
	"sync"

	exportcmd "github.com/goliatone/go-blocksite/internal/commands/export"
	"github.com/goliatone/go-blocksite/internal/di"
	"github.com/goliatone/go-blocksite/internal/engine"
	"github.com/goliatone/go-blocksite/internal/export"
	"github.com/goliatone/go-blocksite/internal/logging"
	"github.com/goliatone/go-blocksite/internal/registry"
	"github.com/goliatone/go-blocksite/internal/sitedef"
	"github.com/goliatone/go-blocksite/internal/validation"
	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

type (
	Block         = interfaces.Block
	Page          = interfaces.Page
	Site          = interfaces.Site
	ThemeTokens   = interfaces.ThemeTokens
	RenderContext = interfaces.RenderContext
	RenderResult  = interfaces.RenderResult
	OutputFile    = interfaces.OutputFile
	Manifest      = interfaces.ExportManifest

	// PageResult joins the rendered blocks of one page.
	PageResult = engine.PageResult

	// ExportOptions tune a single export run.
	ExportOptions = export.Options
	// ExportResult reports an export run.
	ExportResult = export.Result
	// ExportSiteCommand is the go-command message accepted by ExportHandler.
	ExportSiteCommand = exportcmd.ExportSiteCommand
	// ExportEnvelope is handed to ExportSiteCommand.ResultCallback.
	ExportEnvelope = exportcmd.ResultEnvelope
	// DirAssetSource reads referenced assets from a local directory.
	DirAssetSource = export.DirAssetSource
)

// Export formats.
const (
	FormatStatic    = export.FormatStatic
	FormatFragments = export.FormatFragments
)

var (
	ErrDuplicateRenderer = registry.ErrDuplicateRenderer
	ErrInvalidRenderer   = registry.ErrInvalidRenderer
	ErrRegistrySealed    = registry.ErrRegistrySealed
)

// Option customises module wiring.
type Option = di.Option

var (
	WithLoggerProvider = di.WithLoggerProvider
	WithMetrics        = di.WithMetrics
	WithHistoryStore   = di.WithHistoryStore
	WithBunDB          = di.WithBunDB
	WithRenderCache    = di.WithRenderCache
	WithAssetSource    = di.WithAssetSource
	WithLayout         = di.WithLayout
	WithClock          = di.WithClock
	WithoutBuiltins    = di.WithoutBuiltins
)

// Module is the entry point for rendering and exporting. Renderers are
// registered first; the registry is sealed by the first render or export.
type Module struct {
	container *di.Container
	seal      sync.Once
	exportCmd *exportcmd.ExportSiteHandler
}

// New constructs a module from cfg.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	m := &Module{container: container}
	m.exportCmd = exportcmd.NewExportSiteHandler(m,
		logging.CommandLogger(container.LoggerProvider(), "export"))
	return m, nil
}

// Container exposes the underlying container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// RegisterRenderer binds a typed renderer and its validator to blockType.
// Registering the same renderer twice is a no-op; a different renderer for a
// known type returns ErrDuplicateRenderer.
func RegisterRenderer[T any](m *Module, blockType string, renderer interfaces.Renderer[T], validator interfaces.Validator[T]) error {
	return registry.Register(m.container.Registry(), blockType, renderer, validator)
}

// NewSchemaValidator compiles a JSON schema validator for T.
func NewSchemaValidator[T any](schema map[string]any) (interfaces.Validator[T], error) {
	return validation.NewSchemaValidator[T](schema)
}

// PassthroughValidator decodes payloads into T without schema checks.
func PassthroughValidator[T any]() interfaces.Validator[T] {
	return validation.Passthrough[T]()
}

// Types lists the registered block types.
func (m *Module) Types() []string {
	return m.container.Registry().Types()
}

// RenderBlock renders one block. It never panics: failures come back as a
// fallback result.
func (m *Module) RenderBlock(ctx context.Context, block Block, rc RenderContext) *RenderResult {
	m.sealRegistry()
	return m.container.Engine().RenderBlock(ctx, block, rc)
}

// RenderBlocks renders blocks concurrently and returns results in input
// order.
func (m *Module) RenderBlocks(ctx context.Context, blocks []Block, rc RenderContext) []*RenderResult {
	m.sealRegistry()
	return m.container.Engine().RenderBlocks(ctx, blocks, rc)
}

// RenderPage renders blocks and joins them into one page body with
// deduplicated CSS and per-block scoped scripts.
func (m *Module) RenderPage(ctx context.Context, blocks []Block, rc RenderContext) *PageResult {
	m.sealRegistry()
	return m.container.Engine().RenderPage(ctx, blocks, rc)
}

// DefaultExportOptions returns the export options from the loaded config.
func (m *Module) DefaultExportOptions() ExportOptions {
	return m.container.ExportOptions()
}

// ExportSite renders every page of site into output files. The configured
// theme, if any, supplies tokens the site does not set itself.
func (m *Module) ExportSite(ctx context.Context, site Site, opts ExportOptions) (*ExportResult, error) {
	m.sealRegistry()
	tokens, err := m.container.ThemeTokens(site.Theme)
	if err != nil {
		return nil, err
	}
	site.Theme = tokens
	return m.container.Exporter().ExportSite(ctx, site, opts)
}

// ExportHandler returns the go-command handler that exports a site and
// writes it to a directory and/or zip archive.
func (m *Module) ExportHandler() *exportcmd.ExportSiteHandler {
	return m.exportCmd
}

// LoadSite reads a site definition from a TOML, JSON or Markdown file, or a
// directory of Markdown pages.
func (m *Module) LoadSite(ctx context.Context, path string) (Site, error) {
	return sitedef.LoadFile(ctx, path,
		sitedef.WithLogger(logging.LoaderLogger(m.container.LoggerProvider())))
}

// Close releases resources held by the module.
func (m *Module) Close() error {
	return m.container.Close()
}

func (m *Module) sealRegistry() {
	m.seal.Do(m.container.Registry().Seal)
}
