package registry

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// Registry maps block types to their renderer bindings. It is constructed
// explicitly, populated during start-up and sealed before rendering begins.
type Registry struct {
	mu       sync.RWMutex
	bindings map[string]*Binding
	sealed   bool
}

// New constructs an empty registry.
func New() *Registry {
	return &Registry{
		bindings: make(map[string]*Binding),
	}
}

// Register binds renderer and validator to blockType. Registering the same
// renderer again is a no-op; a different renderer for a known type returns
// ErrDuplicateRenderer.
func Register[T any](r *Registry, blockType string, renderer interfaces.Renderer[T], validator interfaces.Validator[T]) error {
	if r == nil {
		return fmt.Errorf("%w: registry is nil", ErrInvalidRenderer)
	}
	name := NormalizeType(blockType)
	if name == "" {
		return fmt.Errorf("%w: block type is required", ErrInvalidRenderer)
	}
	if isNil(renderer) {
		return fmt.Errorf("%w: %s: renderer is nil", ErrInvalidRenderer, name)
	}
	if funcs, ok := any(renderer).(*Funcs[T]); ok && funcs.RenderFunc == nil {
		return fmt.Errorf("%w: %s: render function is nil", ErrInvalidRenderer, name)
	}
	if isNil(validator) {
		return fmt.Errorf("%w: %s: validator is nil", ErrInvalidRenderer, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("%w: cannot register %s", ErrRegistrySealed, name)
	}
	if existing, ok := r.bindings[name]; ok {
		if sameRenderer(existing.renderer, renderer) {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrDuplicateRenderer, name)
	}

	r.bindings[name] = newBinding(name, renderer, validator)
	return nil
}

// Lookup returns the binding for blockType.
func (r *Registry) Lookup(blockType string) (*Binding, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	binding, ok := r.bindings[NormalizeType(blockType)]
	return binding, ok
}

// Types lists registered block types in name order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.bindings))
	for name := range r.bindings {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Seal freezes the registry. Subsequent registrations fail with ErrRegistrySealed.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// NormalizeType lowercases and trims a block type key.
func NormalizeType(blockType string) string {
	return strings.ToLower(strings.TrimSpace(blockType))
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// sameRenderer compares renderer identity without panicking on values whose
// dynamic type is not comparable.
func sameRenderer(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		defer func() { _ = recover() }()
		return a == b
	}
	return false
}
