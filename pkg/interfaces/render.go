package interfaces

import "time"

// RenderFragment is the output of a single renderer invocation.
type RenderFragment struct {
	HTML     string
	CSS      string
	JS       string
	Assets   []Asset
	Warnings []string
}

// Renderer turns validated, strongly typed block data into markup. Render must
// be deterministic for identical inputs and must escape user supplied text.
type Renderer[T any] interface {
	Render(data T, ctx RenderContext) (RenderFragment, error)
	DefaultData() T
	DefaultStyles() string
}

// FieldError reports a single schema violation.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationOutcome is the result of validating a raw payload. Data is only
// meaningful when OK is true.
type ValidationOutcome[T any] struct {
	OK     bool
	Data   T
	Errors []FieldError
}

// Validator checks raw block payloads and decodes them into T, applying
// schema defaults for absent optional fields.
type Validator[T any] interface {
	Validate(raw map[string]any) ValidationOutcome[T]
}

// RenderStatus records the terminal state of a render attempt.
type RenderStatus string

const (
	RenderSuccess    RenderStatus = "success"
	RenderTimedOut   RenderStatus = "timed_out"
	RenderFailed     RenderStatus = "render_error"
	RenderNoRenderer RenderStatus = "no_renderer"
)

// ErrorKind classifies degraded output.
type ErrorKind string

const (
	ErrorKindValidation      ErrorKind = "validation"
	ErrorKindRendererMissing ErrorKind = "renderer_missing"
	ErrorKindRenderFault     ErrorKind = "render_fault"
	ErrorKindTimedOut        ErrorKind = "timed_out"
	ErrorKindPipelineFault   ErrorKind = "pipeline_fault"
)

// BlockError describes why a block produced fallback output.
type BlockError struct {
	BlockID      string    `json:"block_id"`
	BlockType    string    `json:"block_type"`
	Message      string    `json:"message"`
	FallbackUsed bool      `json:"fallback_used"`
	Kind         ErrorKind `json:"kind"`
}

// RenderTiming is informational and never affects control flow.
type RenderTiming struct {
	RenderDuration time.Duration `json:"render_duration"`
	CSSBytes       int           `json:"css_bytes"`
	JSBytes        int           `json:"js_bytes"`
}

// RenderResult is the immutable output of rendering one block. Results are
// shared by pointer (cache hits return the stored instance) and must not be
// modified by consumers.
type RenderResult struct {
	BlockID   string
	BlockType string
	HTML      string
	CSS       string
	JS        string
	Assets    []Asset
	Errors    []BlockError
	Warnings  []string
	Timing    RenderTiming
	Status    RenderStatus
}

// Degraded reports whether the result carries fallback output.
func (r *RenderResult) Degraded() bool {
	return r != nil && len(r.Errors) > 0
}

// RenderCache memoises successful render results by content identity.
type RenderCache interface {
	Get(key string) (*RenderResult, bool)
	Put(key string, result *RenderResult)
	Len() int
	Purge()
}

// RenderMetrics captures engine telemetry.
type RenderMetrics interface {
	ObserveRenderDuration(blockType string, duration time.Duration)
	IncrementRenderError(blockType string)
	IncrementCacheHit(blockType string)
	IncrementFallback(blockType string, kind ErrorKind)
}
