package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"maps"
	"runtime"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/tdewolff/minify/v2"

	"github.com/goliatone/go-blocksite/internal/engine"
	"github.com/goliatone/go-blocksite/internal/identity"
	"github.com/goliatone/go-blocksite/internal/logging"
	"github.com/goliatone/go-blocksite/internal/manifests"
	"github.com/goliatone/go-blocksite/internal/stylesheet"
	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// BlockRenderer renders the blocks of one page. Results come back in block
// order and every block yields a result.
type BlockRenderer interface {
	RenderBlocks(ctx context.Context, blocks []interfaces.Block, rc interfaces.RenderContext) []*interfaces.RenderResult
}

// Result reports an export run. Files holds everything produced so far even
// when Success is false.
type Result struct {
	Success  bool                       `json:"success"`
	Files    []interfaces.OutputFile    `json:"files"`
	Manifest *interfaces.ExportManifest `json:"manifest,omitempty"`
	Errors   []interfaces.ReportEntry   `json:"errors"`
	Warnings []interfaces.ReportEntry   `json:"warnings"`
	Diff     *manifests.Diff            `json:"diff,omitempty"`
	Duration time.Duration              `json:"duration"`
}

// Service turns a site into a set of output files.
type Service struct {
	renderer BlockRenderer
	layout   DocumentLayout
	assets   interfaces.AssetSource
	history  manifests.Store
	logger   interfaces.Logger
	workers  int
	now      func() time.Time
	minifier *minify.M
}

// Option customises the service.
type Option func(*Service)

// WithLayout replaces the default document layout.
func WithLayout(layout DocumentLayout) Option {
	return func(s *Service) {
		if layout != nil {
			s.layout = layout
		}
	}
}

// WithAssetSource enables copying referenced assets into the export.
func WithAssetSource(source interfaces.AssetSource) Option {
	return func(s *Service) {
		s.assets = source
	}
}

// WithHistory records every manifest in store and diffs against the
// previous one.
func WithHistory(store manifests.Store) Option {
	return func(s *Service) {
		s.history = store
	}
}

// WithLogger attaches a logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWorkers bounds how many pages render at once. Zero uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.workers = n
		}
	}
}

// WithClock overrides the time source used for GeneratedAt and durations.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs an export service on top of renderer.
func NewService(renderer BlockRenderer, opts ...Option) *Service {
	s := &Service{
		renderer: renderer,
		layout:   DefaultLayout(),
		logger:   logging.NoOp(),
		now:      time.Now,
		minifier: newMinifier(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExportSite renders every page of site and assembles the output files.
// Block failures degrade to placeholders and are listed in the report; only
// an assembly failure sets Success to false, in which case the returned
// error carries the EXPORT_PIPELINE_FAULT text code.
func (s *Service) ExportSite(ctx context.Context, site interfaces.Site, opts Options) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opts = opts.Normalized(site.Domain)
	if err := opts.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid export options").
			WithTextCode(textCodeOptionsInvalid)
	}

	start := s.now()
	logger := logging.WithFields(logging.FromContext(ctx, s.logger), map[string]any{
		"site":   site.Name,
		"pages":  len(site.Pages),
		"format": opts.Format,
	})
	logger.Info("export.site.started")

	run := &exportRun{
		service:     s,
		site:        site,
		opts:        opts,
		generatedAt: start,
		logger:      logger,
		paths:       map[string]struct{}{},
	}
	err := run.execute(ctx)
	result := run.result(err == nil)
	result.Duration = s.now().Sub(start)

	if err != nil {
		if !errors.Is(err, ErrPipelineFault) {
			err = fmt.Errorf("%w: %v", ErrPipelineFault, err)
		}
		result.Errors = append(result.Errors, interfaces.ReportEntry{
			Kind:    interfaces.ErrorKindPipelineFault,
			Message: err.Error(),
		})
		logging.WithError(logger, err).Error("export.site.failed")
		return result, goerrors.Wrap(err, goerrors.CategoryInternal, "export pipeline fault").
			WithTextCode(textCodePipelineFault)
	}

	logging.WithFields(logger, map[string]any{
		"files":       len(result.Files),
		"errors":      len(result.Errors),
		"warnings":    len(result.Warnings),
		"duration_ms": result.Duration.Milliseconds(),
	}).Info("export.site.completed")
	return result, nil
}

type pageTarget struct {
	page   interfaces.Page
	meta   interfaces.PageMeta
	output string
	base   string
}

type renderedPage struct {
	results []*interfaces.RenderResult
	fault   error
}

type exportRun struct {
	service     *Service
	site        interfaces.Site
	opts        Options
	generatedAt time.Time
	logger      interfaces.Logger

	files     []interfaces.OutputFile
	paths     map[string]struct{}
	htmlFiles []string
	pages     []interfaces.ManifestPage
	assets    []interfaces.Asset
	errors    []interfaces.ReportEntry
	warnings  []interfaces.ReportEntry
	manifest  *interfaces.ExportManifest
	diff      *manifests.Diff
}

func (r *exportRun) execute(ctx context.Context) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: panic: %v", ErrPipelineFault, rec)
		}
	}()

	if r.service.renderer == nil {
		return fmt.Errorf("%w: block renderer not configured", ErrPipelineFault)
	}

	targets, err := r.plan()
	if err != nil {
		return err
	}

	rendered := r.render(ctx, targets)
	rootVars := rootVariables(r.site.Theme)
	for i, target := range targets {
		if rendered[i].fault != nil {
			return fmt.Errorf("%w: page %s: %v", ErrPipelineFault, target.page.Slug, rendered[i].fault)
		}
		if err := r.assemble(target, rendered[i].results, rootVars); err != nil {
			return fmt.Errorf("%w: page %s: %v", ErrPipelineFault, target.page.Slug, err)
		}
	}

	r.assets = dedupeAssets(r.assets)
	if err := r.copyAssets(ctx); err != nil {
		return err
	}
	if err := r.auxiliary(); err != nil {
		return fmt.Errorf("%w: %v", ErrPipelineFault, err)
	}
	return r.finalize(ctx)
}

// plan resolves output paths and rejects pages that would overwrite each
// other. Blocks without an id get one derived from their page and position
// so they never share a cache entry.
func (r *exportRun) plan() ([]pageTarget, error) {
	targets := make([]pageTarget, 0, len(r.site.Pages))
	owners := map[string]string{}
	for _, page := range r.site.Pages {
		base, err := outputBase(page.Slug)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPipelineFault, err)
		}
		output := base + ".html"
		if owner, ok := owners[output]; ok {
			return nil, fmt.Errorf("%w: %w: pages %q and %q both map to %s", ErrPipelineFault, ErrDuplicateOutput, owner, page.Slug, output)
		}
		owners[output] = page.Slug

		id := strings.TrimSpace(page.ID)
		if id == "" {
			id = identity.PageID(page.Slug)
		}
		page.Blocks = withBlockIDs(page.Slug, page.Blocks)
		targets = append(targets, pageTarget{
			page: page,
			meta: interfaces.PageMeta{
				ID:          id,
				Slug:        page.Slug,
				Name:        page.Name,
				Title:       page.Title,
				Description: page.Description,
			},
			output: output,
			base:   base,
		})
	}
	return targets, nil
}

func withBlockIDs(slug string, blocks []interfaces.Block) []interfaces.Block {
	out := make([]interfaces.Block, len(blocks))
	for i, block := range blocks {
		if strings.TrimSpace(block.ID) == "" {
			block.ID = identity.BlockID(slug, i, block.Type)
		}
		out[i] = block
	}
	return out
}

// render runs pages through a worker pool. Output is indexed by page so
// assembly can proceed in page order regardless of completion order.
func (r *exportRun) render(ctx context.Context, targets []pageTarget) []renderedPage {
	out := make([]renderedPage, len(targets))
	if len(targets) == 0 {
		return out
	}
	workers := r.service.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(targets) {
		workers = len(targets)
	}

	global := r.globalData()
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				out[idx] = r.renderPage(ctx, targets[idx], global)
			}
		}()
	}
	for i := range targets {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return out
}

func (r *exportRun) renderPage(ctx context.Context, target pageTarget, global map[string]any) (page renderedPage) {
	defer func() {
		if rec := recover(); rec != nil {
			page = renderedPage{fault: fmt.Errorf("render panic: %v", rec)}
		}
	}()
	rc := interfaces.RenderContext{
		Theme:      r.site.Theme,
		Page:       target.meta,
		ExportMode: true,
		Global:     global,
	}
	return renderedPage{results: r.service.renderer.RenderBlocks(ctx, target.page.Blocks, rc)}
}

func (r *exportRun) globalData() map[string]any {
	global := maps.Clone(r.site.Global)
	if global == nil {
		global = map[string]any{}
	}
	setDefault := func(key string, value any) {
		if _, ok := global[key]; !ok {
			global[key] = value
		}
	}
	setDefault("site_name", r.site.Name)
	setDefault("domain", r.site.Domain)
	setDefault("lang", r.lang())
	setDefault("base_url", r.opts.BaseURL)
	return global
}

func (r *exportRun) lang() string {
	if lang := strings.TrimSpace(r.site.Lang); lang != "" {
		return lang
	}
	return "en"
}

func (r *exportRun) assemble(target pageTarget, results []*interfaces.RenderResult, rootVars string) error {
	if len(results) != len(target.page.Blocks) {
		return fmt.Errorf("expected %d block results, got %d", len(target.page.Blocks), len(results))
	}
	slug := target.page.Slug
	summary := interfaces.ManifestPage{Slug: slug, Path: target.output, Blocks: len(results)}

	var body strings.Builder
	sheet := stylesheet.New()
	sheet.Add("theme", rootVars)
	for i, result := range results {
		if result == nil {
			return fmt.Errorf("block %d has no render result", i)
		}
		body.WriteString(result.HTML)
		body.WriteByte('\n')
		for _, blockErr := range result.Errors {
			r.errors = append(r.errors, interfaces.ReportEntry{
				Page:      slug,
				BlockID:   blockErr.BlockID,
				BlockType: blockErr.BlockType,
				Kind:      blockErr.Kind,
				Message:   blockErr.Message,
			})
			summary.Errors++
		}
		for _, warning := range result.Warnings {
			r.warnings = append(r.warnings, interfaces.ReportEntry{
				Page:      slug,
				BlockID:   result.BlockID,
				BlockType: result.BlockType,
				Message:   warning,
			})
			summary.Warnings++
		}
		sheet.Add(fmt.Sprintf("block %s (%s)", result.BlockID, result.BlockType), result.CSS)
		r.assets = append(r.assets, result.Assets...)
	}
	for _, warning := range sheet.Warnings() {
		r.warn(slug, warning)
		summary.Warnings++
	}

	css := sheet.String()
	js := engine.CombineScripts(results)
	if r.opts.Minify {
		css = r.minify(slug, mimeCSS, css, &summary)
		js = r.minify(slug, mimeJS, js, &summary)
	}

	var html []byte
	if r.opts.Format == FormatFragments {
		html = []byte(body.String())
	} else {
		doc := Document{
			Lang:        r.lang(),
			Title:       r.title(target),
			Description: target.page.Description,
			SiteName:    r.site.Name,
			Generator:   Generator,
			Prefix:      relativePrefix(target.output),
			Body:        template.HTML(body.String()),
		}
		if css != "" {
			if r.opts.externalCSS() {
				doc.StylesheetHref = doc.Prefix + stylesheetPath(target.base)
			} else {
				doc.CSS = template.CSS(css)
			}
		}
		if js != "" {
			if r.opts.externalJS() {
				doc.ScriptSrc = doc.Prefix + scriptPath(target.base)
			} else {
				doc.JS = template.JS(js)
			}
		}
		var buf bytes.Buffer
		if err := r.service.layout.Render(&buf, doc); err != nil {
			return fmt.Errorf("document layout: %w", err)
		}
		html = buf.Bytes()
	}
	if r.opts.Minify {
		html = []byte(r.minify(slug, mimeHTML, string(html), &summary))
	}

	if err := r.addFile(target.output, html, detectContentType(target.output)); err != nil {
		return err
	}
	r.htmlFiles = append(r.htmlFiles, target.output)
	if css != "" && r.opts.externalCSS() {
		if err := r.addFile(stylesheetPath(target.base), []byte(css), detectContentType(".css")); err != nil {
			return err
		}
	}
	if js != "" && r.opts.externalJS() {
		if err := r.addFile(scriptPath(target.base), []byte(js), detectContentType(".js")); err != nil {
			return err
		}
	}
	r.pages = append(r.pages, summary)

	logging.WithFields(r.logger, map[string]any{
		"page_slug": slug,
		"path":      target.output,
		"blocks":    summary.Blocks,
		"errors":    summary.Errors,
		"warnings":  summary.Warnings,
		"css_dupes": sheet.Duplicates(),
	}).Debug("export.page.assembled")
	return nil
}

func (r *exportRun) title(target pageTarget) string {
	title := strings.TrimSpace(target.page.Title)
	if title == "" {
		title = strings.TrimSpace(target.page.Name)
	}
	site := strings.TrimSpace(r.site.Name)
	switch {
	case title == "":
		return site
	case site == "" || strings.EqualFold(title, site):
		return title
	default:
		return title + " | " + site
	}
}

func (r *exportRun) minify(page, mime, text string, summary *interfaces.ManifestPage) string {
	out, err := minifyText(r.service.minifier, mime, text)
	if err != nil {
		r.warn(page, fmt.Sprintf("minify %s failed, kept original: %v", mime, err))
		summary.Warnings++
	}
	return out
}

func (r *exportRun) copyAssets(ctx context.Context) error {
	source := r.service.assets
	if source == nil {
		return nil
	}
	for _, asset := range r.assets {
		rel, err := cleanAssetPath(asset.Path)
		if err != nil {
			r.warn("", err.Error())
			continue
		}
		if _, exists := r.paths[rel]; exists {
			r.warn("", fmt.Sprintf("asset %s collides with a generated file, skipped", rel))
			continue
		}
		data, err := readAsset(ctx, source, asset)
		if err != nil {
			r.warn("", fmt.Sprintf("asset %s unavailable: %v", asset.Path, err))
			continue
		}
		if err := r.addFile(rel, data, detectContentType(rel)); err != nil {
			return fmt.Errorf("%w: %v", ErrPipelineFault, err)
		}
	}
	return nil
}

func readAsset(ctx context.Context, source interfaces.AssetSource, asset interfaces.Asset) ([]byte, error) {
	rc, err := source.Open(ctx, asset)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (r *exportRun) auxiliary() error {
	sitemap := r.opts.GenerateSitemap
	if sitemap && r.opts.Format == FormatFragments {
		r.warn("", "sitemap skipped: fragments are not standalone pages")
		sitemap = false
	}
	if sitemap {
		data, err := buildSitemap(r.opts.BaseURL, r.htmlFiles, r.generatedAt)
		if err != nil {
			return err
		}
		if err := r.addFile(sitemapFile, data, detectContentType(sitemapFile)); err != nil {
			return err
		}
	}
	if r.opts.GenerateRobots {
		if err := r.addFile(robotsFile, buildRobots(r.opts.BaseURL, sitemap), detectContentType(robotsFile)); err != nil {
			return err
		}
	}
	if r.opts.GenerateWebManifest {
		data, err := buildWebManifest(r.site)
		if err != nil {
			return err
		}
		if err := r.addFile(webManifestFile, data, detectContentType(webManifestFile)); err != nil {
			return err
		}
	}
	return nil
}

func (r *exportRun) finalize(ctx context.Context) error {
	r.manifest = buildManifest(r.site.Name, r.generatedAt, r.pages, r.files, r.assets, r.report())

	if store := r.service.history; store != nil {
		previous, err := store.Latest(ctx)
		switch {
		case errors.Is(err, manifests.ErrNotFound):
			previous = nil
		case err != nil:
			r.warn("", fmt.Sprintf("load previous manifest: %v", err))
			previous = nil
		}
		if err == nil || errors.Is(err, manifests.ErrNotFound) {
			diff := manifests.Compare(previous, r.manifest)
			r.diff = &diff
		}
		r.manifest.Report = r.report()
		if err := store.Save(ctx, r.manifest); err != nil {
			r.warn("", fmt.Sprintf("save manifest: %v", err))
		}
		r.manifest.Report = r.report()
	}

	if r.opts.WriteManifestFile {
		encoded, err := json.MarshalIndent(r.manifest, "", "  ")
		if err != nil {
			return fmt.Errorf("%w: encode manifest: %v", ErrPipelineFault, err)
		}
		if err := r.addFile(manifestFileName, append(encoded, '\n'), detectContentType(manifestFileName)); err != nil {
			return fmt.Errorf("%w: %v", ErrPipelineFault, err)
		}
	}
	return nil
}

func (r *exportRun) report() interfaces.Report {
	return interfaces.Report{
		Errors:       append([]interfaces.ReportEntry{}, r.errors...),
		Warnings:     append([]interfaces.ReportEntry{}, r.warnings...),
		ErrorCount:   len(r.errors),
		WarningCount: len(r.warnings),
	}
}

func (r *exportRun) warn(page, message string) {
	r.warnings = append(r.warnings, interfaces.ReportEntry{Page: page, Message: message})
}

func (r *exportRun) addFile(path string, content []byte, mimeType string) error {
	if _, exists := r.paths[path]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateOutput, path)
	}
	r.paths[path] = struct{}{}
	r.files = append(r.files, interfaces.OutputFile{
		Path:     path,
		Content:  content,
		MIMEType: mimeType,
		Size:     int64(len(content)),
	})
	return nil
}

func (r *exportRun) result(success bool) *Result {
	result := &Result{
		Success:  success,
		Files:    append([]interfaces.OutputFile{}, r.files...),
		Errors:   append([]interfaces.ReportEntry{}, r.errors...),
		Warnings: append([]interfaces.ReportEntry{}, r.warnings...),
	}
	if success {
		result.Manifest = r.manifest
		result.Diff = r.diff
	}
	return result
}
