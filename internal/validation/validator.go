package validation

import (
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// SchemaValidator validates block payloads against a JSON schema and decodes
// the defaulted payload into T.
type SchemaValidator[T any] struct {
	schema   map[string]any
	compiled *jsonschema.Schema
}

// NewSchemaValidator compiles schema once; the validator is safe for
// concurrent use afterwards.
func NewSchemaValidator[T any](schema map[string]any) (*SchemaValidator[T], error) {
	compiled, err := CompileSchema(schema)
	if err != nil {
		return nil, err
	}
	// defaults are copied into payloads, so they must already be JSON values
	normalized, err := normalizePayload(schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return &SchemaValidator[T]{
		schema:   normalized,
		compiled: compiled,
	}, nil
}

// MustSchemaValidator panics when schema does not compile. Intended for
// package-level schemas shipped with built-in renderers.
func MustSchemaValidator[T any](schema map[string]any) *SchemaValidator[T] {
	v, err := NewSchemaValidator[T](schema)
	if err != nil {
		panic(fmt.Sprintf("validation: %v", err))
	}
	return v
}

// Validate applies defaults, checks the schema and decodes into T.
func (v *SchemaValidator[T]) Validate(raw map[string]any) interfaces.ValidationOutcome[T] {
	payload, err := normalizePayload(raw)
	if err != nil {
		return failed[T](interfaces.FieldError{Path: "#", Message: fmt.Sprintf("payload is not JSON encodable: %v", err)})
	}

	ApplyDefaults(v.schema, payload)

	if err := v.compiled.Validate(payload); err != nil {
		return interfaces.ValidationOutcome[T]{Errors: Issues(err)}
	}

	data, err := Decode[T](payload)
	if err != nil {
		return failed[T](interfaces.FieldError{Path: "#", Message: err.Error()})
	}
	return interfaces.ValidationOutcome[T]{OK: true, Data: data}
}

// Schema returns a copy of the schema document.
func (v *SchemaValidator[T]) Schema() map[string]any {
	return cloneMap(v.schema)
}

// Decode converts a JSON-shaped payload into T.
func Decode[T any](payload map[string]any) (T, error) {
	var out T
	encoded, err := json.Marshal(payload)
	if err != nil {
		return out, fmt.Errorf("encode payload: %w", err)
	}
	if err := json.Unmarshal(encoded, &out); err != nil {
		return out, fmt.Errorf("decode payload: %w", err)
	}
	return out, nil
}

// Func adapts a plain function into an interfaces.Validator.
type Func[T any] func(raw map[string]any) interfaces.ValidationOutcome[T]

func (f Func[T]) Validate(raw map[string]any) interfaces.ValidationOutcome[T] {
	return f(raw)
}

// Passthrough decodes the payload into T without schema checks. Useful for
// renderers whose data has no constraints beyond its Go shape.
func Passthrough[T any]() Func[T] {
	return func(raw map[string]any) interfaces.ValidationOutcome[T] {
		payload, err := normalizePayload(raw)
		if err != nil {
			return failed[T](interfaces.FieldError{Path: "#", Message: err.Error()})
		}
		data, err := Decode[T](payload)
		if err != nil {
			return failed[T](interfaces.FieldError{Path: "#", Message: err.Error()})
		}
		return interfaces.ValidationOutcome[T]{OK: true, Data: data}
	}
}

func failed[T any](issues ...interfaces.FieldError) interfaces.ValidationOutcome[T] {
	return interfaces.ValidationOutcome[T]{Errors: issues}
}

var (
	_ interfaces.Validator[map[string]any] = (*SchemaValidator[map[string]any])(nil)
	_ interfaces.Validator[map[string]any] = Func[map[string]any](nil)
)
