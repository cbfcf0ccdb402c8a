package engine

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/goliatone/go-blocksite/internal/cache"
	"github.com/goliatone/go-blocksite/internal/logging"
	"github.com/goliatone/go-blocksite/internal/registry"
	"github.com/goliatone/go-blocksite/internal/validation"
	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// DefaultMaxRenderTime bounds a single renderer invocation.
const DefaultMaxRenderTime = 5 * time.Second

// Engine renders blocks through the registry with caching, schema
// validation, a per-block time budget and fallback output. Every exported
// method returns a result; per-block faults never escape.
type Engine struct {
	registry      *registry.Registry
	cache         interfaces.RenderCache
	logger        interfaces.Logger
	metrics       interfaces.RenderMetrics
	maxRenderTime time.Duration
	concurrency   int
	now           func() time.Time
}

// Option customises the engine.
type Option func(*Engine)

// WithCache attaches the render cache. Defaults to a disabled cache.
func WithCache(c interfaces.RenderCache) Option {
	return func(e *Engine) {
		if c != nil {
			e.cache = c
		}
	}
}

// WithLogger attaches a logger used for structured diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics wires the metrics recorder used for telemetry.
func WithMetrics(metrics interfaces.RenderMetrics) Option {
	return func(e *Engine) {
		if metrics != nil {
			e.metrics = metrics
		}
	}
}

// WithMaxRenderTime overrides the per-block render budget.
func WithMaxRenderTime(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.maxRenderTime = d
		}
	}
}

// WithConcurrency bounds RenderBlocks fan-out. Zero means unbounded.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.concurrency = n
		}
	}
}

// WithClock overrides the time source used for durations.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New constructs an engine over reg.
func New(reg *registry.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry:      reg,
		cache:         cache.Disabled(),
		logger:        logging.NoOp(),
		metrics:       NoOpMetrics(),
		maxRenderTime: DefaultMaxRenderTime,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = registry.New()
	}
	return e
}

// Registry exposes the registry the engine resolves renderers from.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// MaxRenderTime returns the configured render budget.
func (e *Engine) MaxRenderTime() time.Duration {
	return e.maxRenderTime
}

type renderOutcome struct {
	fragment interfaces.RenderFragment
	issues   []interfaces.FieldError
	err      error
	stack    string
}

// RenderBlock renders a single block.
func (e *Engine) RenderBlock(ctx context.Context, block interfaces.Block, rc interfaces.RenderContext) *interfaces.RenderResult {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.WithBlockContext(e.baseLogger(ctx), rc.Page.Slug, block.ID, block.Type)

	key := cache.Key(block.Type, block.ID, block.ModifiedAt)
	if cached, ok := e.cache.Get(key); ok {
		e.metrics.IncrementCacheHit(block.Type)
		logger.Debug("engine.render.cache_hit")
		return cached
	}

	binding, ok := e.registry.Lookup(block.Type)
	if !ok {
		err := missingFault(block.Type)
		e.metrics.IncrementFallback(block.Type, interfaces.ErrorKindRendererMissing)
		logging.WithError(logger, err).Warn("engine.render.renderer_missing")
		return fallbackResult(block, interfaces.ErrorKindRendererMissing, interfaces.RenderNoRenderer,
			fmt.Sprintf("no renderer registered for block type %q", block.Type), nil)
	}

	start := e.now()
	outcome, kind := e.race(ctx, func() renderOutcome {
		render, issues := binding.Prepare(block.Data)
		fragment, err := render(rc)
		return renderOutcome{fragment: fragment, issues: issues, err: err}
	})
	elapsed := e.now().Sub(start)
	e.metrics.ObserveRenderDuration(block.Type, elapsed)

	var warnings []string
	if len(outcome.issues) > 0 {
		err := validationFault(block.Type, outcome.issues)
		warnings = append(warnings, fmt.Sprintf("block %s (%s): invalid data, rendered with defaults: %s",
			block.ID, block.Type, validation.FormatIssues(outcome.issues)))
		logging.WithError(logger, err).Warn("engine.render.validation_failed")
	}

	if outcome.err != nil {
		err := renderFault(outcome.err, kind)
		e.metrics.IncrementRenderError(block.Type)
		e.metrics.IncrementFallback(block.Type, kind)
		fields := map[string]any{
			"duration_ms": elapsed.Milliseconds(),
			"error_kind":  string(kind),
			"error":       err,
		}
		if outcome.stack != "" {
			fields["stack"] = outcome.stack
		}
		logging.WithFields(logger, fields).Error("engine.render.failed")

		status := interfaces.RenderFailed
		if kind == interfaces.ErrorKindTimedOut {
			status = interfaces.RenderTimedOut
		}
		result := fallbackResult(block, kind, status, outcome.err.Error(), warnings)
		result.Timing.RenderDuration = elapsed
		return result
	}

	fragment := outcome.fragment
	warnings = append(warnings, fragment.Warnings...)
	result := &interfaces.RenderResult{
		BlockID:   block.ID,
		BlockType: block.Type,
		HTML:      fragment.HTML,
		CSS:       fragment.CSS,
		JS:        fragment.JS,
		Assets:    append([]interfaces.Asset(nil), fragment.Assets...),
		Warnings:  warnings,
		Timing: interfaces.RenderTiming{
			RenderDuration: elapsed,
			CSSBytes:       len(fragment.CSS),
			JSBytes:        len(fragment.JS),
		},
		Status: interfaces.RenderSuccess,
	}
	e.cache.Put(key, result)

	logging.WithFields(logger, map[string]any{
		"duration_ms": elapsed.Milliseconds(),
		"warnings":    len(warnings),
	}).Debug("engine.render.succeeded")
	return result
}

// race runs work (validation plus render) in its own goroutine and returns
// whichever comes first: its outcome, the render budget, or ctx
// cancellation. Work that loses the race keeps running until it returns;
// its outcome is discarded.
func (e *Engine) race(ctx context.Context, work func() renderOutcome) (renderOutcome, interfaces.ErrorKind) {
	done := make(chan renderOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- renderOutcome{err: fmt.Errorf("%w: %v", ErrRenderPanic, r), stack: string(debug.Stack())}
			}
		}()
		done <- work()
	}()

	timer := time.NewTimer(e.maxRenderTime)
	defer timer.Stop()

	select {
	case outcome := <-done:
		if outcome.err != nil {
			return outcome, interfaces.ErrorKindRenderFault
		}
		return outcome, ""
	case <-timer.C:
		return renderOutcome{err: fmt.Errorf("%w after %s", ErrRenderTimeout, e.maxRenderTime)}, interfaces.ErrorKindTimedOut
	case <-ctx.Done():
		return renderOutcome{err: fmt.Errorf("%w: %v", ErrRenderTimeout, ctx.Err())}, interfaces.ErrorKindTimedOut
	}
}

// RenderBlocks renders blocks concurrently and returns results in input order.
func (e *Engine) RenderBlocks(ctx context.Context, blocks []interfaces.Block, rc interfaces.RenderContext) []*interfaces.RenderResult {
	results := make([]*interfaces.RenderResult, len(blocks))
	if len(blocks) == 0 {
		return results
	}

	var sem chan struct{}
	if e.concurrency > 0 {
		sem = make(chan struct{}, e.concurrency)
	}

	var wg sync.WaitGroup
	for i := range blocks {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			results[idx] = e.RenderBlock(ctx, blocks[idx], rc)
		}(i)
	}
	wg.Wait()
	return results
}

func (e *Engine) baseLogger(ctx context.Context) interfaces.Logger {
	return logging.FromContext(ctx, e.logger)
}
