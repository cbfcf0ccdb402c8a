package registry

import (
	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// RenderFunc renders already prepared block data.
type RenderFunc func(ctx interfaces.RenderContext) (interfaces.RenderFragment, error)

// Binding is the type-erased pairing of a Renderer[T] and its Validator[T].
// The concrete data type stays inside the closures.
type Binding struct {
	blockType     string
	renderer      any
	prepare       func(raw map[string]any) (RenderFunc, []interfaces.FieldError)
	defaultStyles func() string
}

// Type returns the block type the binding was registered under.
func (b *Binding) Type() string {
	return b.blockType
}

// Prepare validates raw and returns a render function bound to the validated
// data. When validation fails the function is bound to the renderer's default
// data instead and the field errors are returned alongside it.
func (b *Binding) Prepare(raw map[string]any) (RenderFunc, []interfaces.FieldError) {
	return b.prepare(raw)
}

// DefaultStyles returns the renderer's baseline stylesheet.
func (b *Binding) DefaultStyles() string {
	if b.defaultStyles == nil {
		return ""
	}
	return b.defaultStyles()
}

func newBinding[T any](blockType string, renderer interfaces.Renderer[T], validator interfaces.Validator[T]) *Binding {
	return &Binding{
		blockType: blockType,
		renderer:  renderer,
		prepare: func(raw map[string]any) (RenderFunc, []interfaces.FieldError) {
			outcome := validator.Validate(raw)
			data := outcome.Data
			var issues []interfaces.FieldError
			if !outcome.OK {
				data = renderer.DefaultData()
				issues = outcome.Errors
				if len(issues) == 0 {
					issues = []interfaces.FieldError{{Path: "#", Message: "validation failed"}}
				}
			}
			return func(ctx interfaces.RenderContext) (interfaces.RenderFragment, error) {
				return renderer.Render(data, ctx)
			}, issues
		},
		defaultStyles: renderer.DefaultStyles,
	}
}

// Funcs adapts closures into an interfaces.Renderer. RenderFunc is required.
type Funcs[T any] struct {
	RenderFunc  func(data T, ctx interfaces.RenderContext) (interfaces.RenderFragment, error)
	DefaultFunc func() T
	StylesFunc  func() string
}

func (f *Funcs[T]) Render(data T, ctx interfaces.RenderContext) (interfaces.RenderFragment, error) {
	return f.RenderFunc(data, ctx)
}

func (f *Funcs[T]) DefaultData() T {
	if f.DefaultFunc == nil {
		var zero T
		return zero
	}
	return f.DefaultFunc()
}

func (f *Funcs[T]) DefaultStyles() string {
	if f.StylesFunc == nil {
		return ""
	}
	return f.StylesFunc()
}

var _ interfaces.Renderer[struct{}] = (*Funcs[struct{}])(nil)
