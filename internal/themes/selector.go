// Package themes resolves go-theme manifests into the design tokens block
// renderers consume.
package themes

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gotheme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// Selector loads theme directories into a go-theme registry and resolves
// theme/variant pairs to ThemeTokens.
type Selector struct {
	registry       *gotheme.MemoryRegistry
	defaultTheme   string
	defaultVariant string

	mu     sync.Mutex
	loaded map[string]string
}

// NewSelector constructs a selector with the fallback theme and variant used
// when Tokens is called with empty names.
func NewSelector(defaultTheme, defaultVariant string) *Selector {
	return &Selector{
		registry:       gotheme.NewRegistry(),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
		loaded:         map[string]string{},
	}
}

// LoadDir registers the manifest found in dir and returns its theme name.
// Loading the same directory twice is a no-op.
func (s *Selector) LoadDir(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", fmt.Errorf("themes: theme directory required")
	}
	cleaned := filepath.Clean(strings.TrimSpace(dir))

	s.mu.Lock()
	defer s.mu.Unlock()
	if name, ok := s.loaded[cleaned]; ok {
		return name, nil
	}

	manifest, err := gotheme.LoadDir(os.DirFS(cleaned), ".")
	if err != nil {
		return "", fmt.Errorf("themes: load manifest from %s: %w", cleaned, err)
	}
	if strings.TrimSpace(manifest.Name) == "" {
		manifest.Name = filepath.Base(cleaned)
	}
	if err := s.registry.Register(manifest); err != nil {
		return "", fmt.Errorf("themes: register %s: %w", manifest.Name, err)
	}
	s.loaded[cleaned] = manifest.Name
	if s.defaultTheme == "" {
		s.defaultTheme = manifest.Name
	}
	return manifest.Name, nil
}

// Tokens selects theme and variant and maps the selection tokens onto
// ThemeTokens.
func (s *Selector) Tokens(theme, variant string) (interfaces.ThemeTokens, error) {
	s.mu.Lock()
	selector := gotheme.Selector{
		Registry:       s.registry,
		DefaultTheme:   s.defaultTheme,
		DefaultVariant: s.defaultVariant,
	}
	s.mu.Unlock()

	if strings.TrimSpace(variant) == "" {
		variant = s.defaultVariant
	}
	selection, err := selector.Select(strings.TrimSpace(theme), strings.TrimSpace(variant))
	if err != nil {
		return interfaces.ThemeTokens{}, fmt.Errorf("themes: select %q/%q: %w", theme, variant, err)
	}
	return TokensFromMap(selection.Tokens()), nil
}

// Resolve loads dir and returns the tokens of variant in one step.
func Resolve(dir, variant string) (interfaces.ThemeTokens, error) {
	selector := NewSelector("", variant)
	name, err := selector.LoadDir(dir)
	if err != nil {
		return interfaces.ThemeTokens{}, err
	}
	return selector.Tokens(name, variant)
}
