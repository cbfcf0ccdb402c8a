package validation

import (
	"errors"
	"strings"
	"testing"
)

type heroPayload struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Align    string   `json:"align"`
	Buttons  []button `json:"buttons"`
}

type button struct {
	Label string `json:"label"`
	Href  string `json:"href"`
	Style string `json:"style"`
}

func heroSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"title"},
		"properties": map[string]any{
			"title":    map[string]any{"type": "string", "minLength": 1},
			"subtitle": map[string]any{"type": "string", "default": ""},
			"align":    map[string]any{"type": "string", "enum": []any{"left", "center"}, "default": "center"},
			"buttons": map[string]any{
				"type":    "array",
				"default": []any{},
				"items": map[string]any{
					"type":     "object",
					"required": []any{"label"},
					"properties": map[string]any{
						"label": map[string]any{"type": "string"},
						"href":  map[string]any{"type": "string", "default": "#"},
						"style": map[string]any{"type": "string", "default": "primary"},
					},
				},
			},
		},
	}
}

func TestSchemaValidatorAppliesDefaults(t *testing.T) {
	v := MustSchemaValidator[heroPayload](heroSchema())

	outcome := v.Validate(map[string]any{
		"title":   "Welcome",
		"buttons": []any{map[string]any{"label": "Start"}},
	})
	if !outcome.OK {
		t.Fatalf("expected success, got %+v", outcome.Errors)
	}
	if outcome.Data.Align != "center" {
		t.Fatalf("expected default align, got %q", outcome.Data.Align)
	}
	if len(outcome.Data.Buttons) != 1 || outcome.Data.Buttons[0].Href != "#" || outcome.Data.Buttons[0].Style != "primary" {
		t.Fatalf("expected item defaults, got %+v", outcome.Data.Buttons)
	}
}

func TestSchemaValidatorRejectsTypeMismatch(t *testing.T) {
	v := MustSchemaValidator[heroPayload](heroSchema())

	outcome := v.Validate(map[string]any{"title": 42})
	if outcome.OK {
		t.Fatal("expected numeric title to be rejected")
	}
	if len(outcome.Errors) == 0 {
		t.Fatal("expected field errors")
	}
	if !strings.Contains(outcome.Errors[0].Path, "title") {
		t.Fatalf("expected error to point at title, got %+v", outcome.Errors)
	}
}

func TestSchemaValidatorRejectsMissingRequired(t *testing.T) {
	v := MustSchemaValidator[heroPayload](heroSchema())

	outcome := v.Validate(nil)
	if outcome.OK {
		t.Fatal("expected missing title to be rejected")
	}
}

func TestSchemaValidatorAcceptsGoNativeNumbers(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"columns": map[string]any{"type": "integer", "default": 3},
		},
	}
	type grid struct {
		Columns int `json:"columns"`
	}
	v := MustSchemaValidator[grid](schema)

	if outcome := v.Validate(map[string]any{"columns": int64(4)}); !outcome.OK || outcome.Data.Columns != 4 {
		t.Fatalf("expected int64 to validate as integer, got %+v", outcome)
	}
	if outcome := v.Validate(map[string]any{}); !outcome.OK || outcome.Data.Columns != 3 {
		t.Fatalf("expected default columns, got %+v", outcome)
	}
}

func TestApplyDefaultsDoesNotOverwritePresentValues(t *testing.T) {
	payload := map[string]any{"align": "left"}
	ApplyDefaults(heroSchema(), payload)
	if payload["align"] != "left" {
		t.Fatalf("expected present value to be kept, got %v", payload["align"])
	}
	if payload["subtitle"] != "" {
		t.Fatalf("expected subtitle default, got %v", payload["subtitle"])
	}
}

func TestApplyDefaultsClonesDefaultValues(t *testing.T) {
	schema := heroSchema()
	first := map[string]any{}
	ApplyDefaults(schema, first)
	first["buttons"] = append(first["buttons"].([]any), "mutated")

	second := map[string]any{}
	ApplyDefaults(schema, second)
	if len(second["buttons"].([]any)) != 0 {
		t.Fatal("expected defaults to be copied per payload")
	}
}

func TestNewSchemaValidatorRejectsInvalidSchema(t *testing.T) {
	_, err := NewSchemaValidator[heroPayload](map[string]any{"type": 12})
	if !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestPassthroughDecodes(t *testing.T) {
	outcome := Passthrough[heroPayload]().Validate(map[string]any{"title": "x"})
	if !outcome.OK || outcome.Data.Title != "x" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
}

func TestPayloadValidationErrorFormatsIssues(t *testing.T) {
	err := &PayloadValidationError{}
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatal("expected PayloadValidationError to unwrap to ErrSchemaValidation")
	}
	msg := FormatIssues(Issues(&PayloadValidationError{Issues: nil}))
	if msg != "" {
		t.Fatalf("expected empty message for no issues, got %q", msg)
	}
}
