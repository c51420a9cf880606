package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the value type of a settings field.
type Kind string

const (
	// KindBoolean is a JSON boolean.
	KindBoolean Kind = "boolean"
	// KindNumber is a JSON number.
	KindNumber Kind = "number"
	// KindString is a JSON string.
	KindString Kind = "string"
	// KindColor is a JSON string holding a css color.
	KindColor Kind = "color"
	// KindJSON is any JSON document.
	KindJSON Kind = "json"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindBoolean, KindNumber, KindString, KindColor, KindJSON:
		return true
	}

	return false
}

// Value is a tagged settings value. The zero Value is invalid.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string // string and color payload, canonical JSON for KindJSON
}

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Number returns a number value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Color returns a color value.
func Color(s string) Value { return Value{kind: KindColor, s: s} }

// JSON returns a structured value. v must be encodable with encoding/json.
// Object keys are sorted so equal documents compare equal.
func JSON(v any) (Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Value{}, fmt.Errorf("encode json value: %w", err)
	}

	return decodeJSONKind(string(raw))
}

// MustJSON is like JSON but panics on error. Intended for static defaults.
func MustJSON(v any) Value {
	val, err := JSON(v)
	if err != nil {
		panic(err)
	}

	return val
}

// Kind returns the tag of v.
func (v Value) Kind() Kind { return v.kind }

// IsZero reports whether v was never set.
func (v Value) IsZero() bool { return v.kind == "" }

// AsBool returns the boolean payload and whether v is a boolean.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBoolean }

// AsNumber returns the number payload and whether v is a number.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsString returns the string payload and whether v is a string or color.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString || v.kind == KindColor
}

// Interface returns the plain Go value: bool, float64, string or the decoded JSON document.
func (v Value) Interface() any {
	switch v.kind {
	case KindBoolean:
		return v.b
	case KindNumber:
		return v.n
	case KindString, KindColor:
		return v.s
	case KindJSON:
		var out any
		_ = json.Unmarshal([]byte(v.s), &out)

		return out
	}

	return nil
}

// Encode returns the JSON encoding persisted in the settings store.
func (v Value) Encode() string {
	switch v.kind {
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return formatNumber(v.n)
	case KindString, KindColor:
		return encodeString(v.s)
	case KindJSON:
		return v.s
	}

	return "null"
}

// Equal reports whether both values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindBoolean:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	default:
		return v.s == o.s
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	return string(v.kind) + ":" + v.Encode()
}

// Decode parses an encoded value of the given kind. It is the inverse of Encode.
func Decode(kind Kind, encoded string) (Value, error) {
	switch kind {
	case KindBoolean:
		var b bool
		if err := strictUnmarshal(encoded, &b); err != nil {
			return Value{}, fmt.Errorf("%w %s: %w", ErrKindMismatch, kind, err)
		}

		return Bool(b), nil
	case KindNumber:
		var n float64
		if err := strictUnmarshal(encoded, &n); err != nil {
			return Value{}, fmt.Errorf("%w %s: %w", ErrKindMismatch, kind, err)
		}

		return Number(n), nil
	case KindString, KindColor:
		var s string
		if err := strictUnmarshal(encoded, &s); err != nil {
			return Value{}, fmt.Errorf("%w %s: %w", ErrKindMismatch, kind, err)
		}

		return Value{kind: kind, s: s}, nil
	case KindJSON:
		return decodeJSONKind(encoded)
	}

	return Value{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// FromInterface converts a plain value, as produced by encoding/json, into a Value of the given kind.
func FromInterface(kind Kind, in any) (Value, error) {
	switch kind {
	case KindBoolean:
		if b, ok := in.(bool); ok {
			return Bool(b), nil
		}
	case KindNumber:
		switch n := in.(type) {
		case float64:
			return Number(n), nil
		case int:
			return Number(float64(n)), nil
		case json.Number:
			f, err := n.Float64()
			if err == nil {
				return Number(f), nil
			}
		}
	case KindString, KindColor:
		if s, ok := in.(string); ok {
			return Value{kind: kind, s: s}, nil
		}
	case KindJSON:
		return JSON(in)
	default:
		return Value{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	return Value{}, fmt.Errorf("%w %s: got %T", ErrKindMismatch, kind, in)
}

func decodeJSONKind(encoded string) (Value, error) {
	var doc any
	if err := json.Unmarshal([]byte(encoded), &doc); err != nil {
		return Value{}, fmt.Errorf("%w %s: %w", ErrKindMismatch, KindJSON, err)
	}

	canonical, err := marshalNoEscape(doc)
	if err != nil {
		return Value{}, fmt.Errorf("encode json value: %w", err)
	}

	return Value{kind: KindJSON, s: canonical}, nil
}

// strictUnmarshal rejects null, which encoding/json silently accepts for scalars.
func strictUnmarshal(encoded string, out any) error {
	trimmed := strings.TrimSpace(encoded)
	if trimmed == "null" || trimmed == "" {
		return fmt.Errorf("unexpected %q", encoded)
	}

	return json.Unmarshal([]byte(trimmed), out) //nolint:wrapcheck
}

func formatNumber(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return "null"
	}

	return strconv.FormatFloat(n, 'f', -1, 64)
}

func encodeString(s string) string {
	out, _ := marshalNoEscape(s)

	return out
}

// marshalNoEscape encodes like JSON.stringify, leaving <, > and & as is.
func marshalNoEscape(v any) (string, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return "", err //nolint:wrapcheck
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}
