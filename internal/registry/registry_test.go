package registry

import (
	"errors"
	"sync"
	"testing"

	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

type greeting struct {
	Name string `json:"name"`
}

type greetingRenderer struct {
	prefix string
}

func (g *greetingRenderer) Render(data greeting, _ interfaces.RenderContext) (interfaces.RenderFragment, error) {
	return interfaces.RenderFragment{HTML: "<p>" + g.prefix + data.Name + "</p>"}, nil
}

func (g *greetingRenderer) DefaultData() greeting { return greeting{Name: "stranger"} }

func (g *greetingRenderer) DefaultStyles() string { return "p{margin:0}" }

type greetingValidator struct{}

func (greetingValidator) Validate(raw map[string]any) interfaces.ValidationOutcome[greeting] {
	name, ok := raw["name"].(string)
	if !ok || name == "" {
		return interfaces.ValidationOutcome[greeting]{Errors: []interfaces.FieldError{{Path: "/name", Message: "required"}}}
	}
	return interfaces.ValidationOutcome[greeting]{OK: true, Data: greeting{Name: name}}
}

func TestRegisterAndLookup(t *testing.T) {
	reg := New()
	if err := Register[greeting](reg, " Greeting ", &greetingRenderer{prefix: "Hi "}, greetingValidator{}); err != nil {
		t.Fatalf("register: %v", err)
	}

	binding, ok := reg.Lookup("GREETING")
	if !ok {
		t.Fatal("expected lookup to be case-insensitive")
	}
	if binding.Type() != "greeting" {
		t.Fatalf("unexpected binding type %q", binding.Type())
	}

	render, issues := binding.Prepare(map[string]any{"name": "Ada"})
	if len(issues) != 0 {
		t.Fatalf("unexpected issues %v", issues)
	}
	fragment, err := render(interfaces.RenderContext{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if fragment.HTML != "<p>Hi Ada</p>" {
		t.Fatalf("unexpected html %q", fragment.HTML)
	}
	if binding.DefaultStyles() != "p{margin:0}" {
		t.Fatalf("unexpected default styles %q", binding.DefaultStyles())
	}
}

func TestPrepareFallsBackToDefaultData(t *testing.T) {
	reg := New()
	if err := Register[greeting](reg, "greeting", &greetingRenderer{}, greetingValidator{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	binding, _ := reg.Lookup("greeting")

	render, issues := binding.Prepare(map[string]any{"name": 7})
	if len(issues) != 1 || issues[0].Path != "/name" {
		t.Fatalf("expected validation issue, got %v", issues)
	}
	fragment, _ := render(interfaces.RenderContext{})
	if fragment.HTML != "<p>stranger</p>" {
		t.Fatalf("expected default data render, got %q", fragment.HTML)
	}
}

func TestRegisterIsIdempotentForSameRenderer(t *testing.T) {
	reg := New()
	renderer := &greetingRenderer{}
	if err := Register[greeting](reg, "greeting", renderer, greetingValidator{}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := Register[greeting](reg, "greeting", renderer, greetingValidator{}); err != nil {
		t.Fatalf("expected re-registration of the same renderer to succeed, got %v", err)
	}
	if err := Register[greeting](reg, "greeting", &greetingRenderer{}, greetingValidator{}); !errors.Is(err, ErrDuplicateRenderer) {
		t.Fatalf("expected ErrDuplicateRenderer, got %v", err)
	}
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	reg := New()
	var nilRenderer *greetingRenderer

	cases := map[string]error{
		"blank type":     Register[greeting](reg, " ", &greetingRenderer{}, greetingValidator{}),
		"nil renderer":   Register[greeting](reg, "a", nilRenderer, greetingValidator{}),
		"nil interface":  Register[greeting](reg, "b", nil, greetingValidator{}),
		"nil validator":  Register[greeting](reg, "c", &greetingRenderer{}, nil),
		"nil RenderFunc": Register[greeting](reg, "d", &Funcs[greeting]{}, greetingValidator{}),
	}
	for name, err := range cases {
		if !errors.Is(err, ErrInvalidRenderer) {
			t.Fatalf("%s: expected ErrInvalidRenderer, got %v", name, err)
		}
	}
	if len(reg.Types()) != 0 {
		t.Fatalf("expected nothing registered, got %v", reg.Types())
	}
}

func TestSealedRegistryRejectsRegistration(t *testing.T) {
	reg := New()
	reg.Seal()
	if !reg.Sealed() {
		t.Fatal("expected registry to report sealed")
	}
	err := Register[greeting](reg, "greeting", &greetingRenderer{}, greetingValidator{})
	if !errors.Is(err, ErrRegistrySealed) {
		t.Fatalf("expected ErrRegistrySealed, got %v", err)
	}
}

func TestFuncsAdapter(t *testing.T) {
	reg := New()
	renderer := &Funcs[greeting]{
		RenderFunc: func(data greeting, _ interfaces.RenderContext) (interfaces.RenderFragment, error) {
			return interfaces.RenderFragment{HTML: data.Name}, nil
		},
	}
	if err := Register[greeting](reg, "plain", renderer, greetingValidator{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if renderer.DefaultStyles() != "" || renderer.DefaultData().Name != "" {
		t.Fatal("expected zero defaults when funcs are unset")
	}
}

func TestTypesSortedAndConcurrentLookup(t *testing.T) {
	reg := New()
	for _, name := range []string{"pricing", "faq", "hero"} {
		if err := Register[greeting](reg, name, &greetingRenderer{}, greetingValidator{}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	types := reg.Types()
	if len(types) != 3 || types[0] != "faq" || types[2] != "pricing" {
		t.Fatalf("unexpected type order %v", types)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := reg.Lookup("hero"); !ok {
				t.Error("expected hero binding")
			}
		}()
	}
	wg.Wait()
}
