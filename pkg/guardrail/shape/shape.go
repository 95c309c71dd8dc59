package shape

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// ErrInvalidShape is wrapped by every validation failure.
var ErrInvalidShape = errors.New("output does not match shape")

// Validator converts an untrusted value into T.
type Validator[T any] interface {
	Validate(value any) (T, error)
}

// Func adapts a function to the Validator interface.
type Func[T any] func(value any) (T, error)

// Validate calls f(value).
func (f Func[T]) Validate(value any) (T, error) {
	return f(value)
}

// Erase returns a validator producing T as an untyped value.
func Erase[T any](v Validator[T]) Validator[any] {
	return Func[any](func(value any) (any, error) {
		out, err := v.Validate(value)
		if err != nil {
			return nil, err
		}
		return out, nil
	})
}

// Ptr returns a pointer to v, for filling optional schema keywords.
func Ptr[T any](v T) *T {
	return &v
}

// JSON validates values against a JSON Schema inferred from T and decodes
// them into T.
type JSON[T any] struct {
	name     string
	schema   *jsonschema.Schema
	resolved *jsonschema.Resolved
}

// NewJSON infers a schema from T, lets tune tighten it, and resolves it.
// tune may be nil.
func NewJSON[T any](name string, tune func(*jsonschema.Schema)) (*JSON[T], error) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, fmt.Errorf("shape %s: infer schema: %w", name, err)
	}
	if tune != nil {
		tune(schema)
	}

	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("shape %s: resolve schema: %w", name, err)
	}

	return &JSON[T]{name: name, schema: schema, resolved: resolved}, nil
}

// MustJSON is like NewJSON but panics on error.
func MustJSON[T any](name string, tune func(*jsonschema.Schema)) *JSON[T] {
	v, err := NewJSON[T](name, tune)
	if err != nil {
		panic(err)
	}
	return v
}

// Name returns the validator name.
func (v *JSON[T]) Name() string {
	return v.name
}

// Schema returns the resolved JSON Schema. Callers must not modify it.
func (v *JSON[T]) Schema() *jsonschema.Schema {
	return v.schema
}

// Validate accepts JSON text (string, []byte, json.RawMessage) or any value
// that marshals to JSON. Text wrapped in a Markdown code fence is unwrapped
// first. The result is the value decoded into T; unknown fields are rejected.
func (v *JSON[T]) Validate(value any) (T, error) {
	var zero T

	data, err := encode(value)
	if err != nil {
		return zero, fmt.Errorf("%w: %s: %v", ErrInvalidShape, v.name, err)
	}

	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return zero, fmt.Errorf("%w: %s: not JSON: %v", ErrInvalidShape, v.name, err)
	}
	if err := v.resolved.Validate(instance); err != nil {
		return zero, fmt.Errorf("%w: %s: %v", ErrInvalidShape, v.name, err)
	}

	var out T
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return zero, fmt.Errorf("%w: %s: %v", ErrInvalidShape, v.name, err)
	}
	return out, nil
}

func encode(value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, errors.New("no output")
	case string:
		return []byte(unfence(v)), nil
	case []byte:
		return []byte(unfence(string(v))), nil
	case json.RawMessage:
		return v, nil
	default:
		return json.Marshal(v)
	}
}

// unfence strips a surrounding ``` or ```json code fence.
func unfence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	body := s[3 : len(s)-3]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], "{[\"") {
		body = body[nl+1:]
	}
	return strings.TrimSpace(body)
}
