package settings

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/stoewer/go-strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/adminconsole/admin-console/internal/db/models"
)

// Field declares one key of a domain.
type Field struct {
	Key     string
	Kind    Kind
	Default Value
	// Rule is an optional validator tag applied to the plain value, e.g. "min=12,max=24".
	Rule string
}

// InferFunc derives the persisted data type of a value.
type InferFunc func(key string, v Value) models.DataType

// Schema is the ordered field set of one domain.
type Schema struct {
	Domain string
	Fields []Field
	// Infer overrides InferDataType for this domain.
	Infer InferFunc

	index map[string]int
}

// NewSchema creates a schema. Field order is kept.
func NewSchema(domain string, fields ...Field) *Schema {
	s := &Schema{
		Domain: domain,
		Fields: fields,
		index:  make(map[string]int, len(fields)),
	}

	for i, f := range fields {
		s.index[f.Key] = i
	}

	return s
}

// WithInfer sets the data type inference of the schema.
func (s *Schema) WithInfer(fn InferFunc) *Schema {
	s.Infer = fn

	return s
}

// Field returns the field declared for key.
func (s *Schema) Field(key string) (Field, bool) {
	i, ok := s.index[key]
	if !ok {
		return Field{}, false
	}

	return s.Fields[i], true
}

// Keys returns the declared keys in declaration order.
func (s *Schema) Keys() []string {
	keys := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		keys = append(keys, f.Key)
	}

	return keys
}

// Defaults returns a fresh copy of the default values.
func (s *Schema) Defaults() Values {
	out := make(Values, len(s.Fields))
	for _, f := range s.Fields {
		out[f.Key] = f.Default
	}

	return out
}

// DataType returns the data type a new record for key is created with.
func (s *Schema) DataType(key string, v Value) models.DataType {
	if s != nil && s.Infer != nil {
		return s.Infer(key, v)
	}

	return InferDataType(key, v)
}

// Coerce converts a plain value for key into a Value of the declared kind.
func (s *Schema) Coerce(key string, in any) (Value, error) {
	f, ok := s.Field(key)
	if !ok {
		return Value{}, fmt.Errorf("%w: %s.%s", ErrUnknownKey, s.Domain, key)
	}

	v, err := FromInterface(f.Kind, in)
	if err != nil {
		return Value{}, fmt.Errorf("%s.%s: %w", s.Domain, key, err)
	}

	return v, nil
}

// Validate checks every declared key present in values against its kind and rule.
// Keys the schema does not declare are rejected.
func (s *Schema) Validate(values Values) error {
	return s.ValidateChanged(values, nil)
}

// ValidateChanged is Validate for the keys whose value differs from snapshot.
// A key equal to its snapshot value is accepted as is, so a stored value kept
// raw after a decode failure does not block saving the other keys.
func (s *Schema) ValidateChanged(values, snapshot Values) error {
	for _, key := range values.Keys() {
		v := values[key]

		if prev, ok := snapshot[key]; ok && prev.Equal(v) {
			continue
		}

		f, ok := s.Field(key)
		if !ok {
			return fmt.Errorf("%w: %s.%s", ErrUnknownKey, s.Domain, key)
		}

		if v.Kind() != f.Kind {
			return fmt.Errorf("%w: %s.%s is %s, want %s", ErrInvalidValue, s.Domain, key, v.Kind(), f.Kind)
		}

		if f.Rule == "" {
			continue
		}

		if err := validate.Var(v.Interface(), f.Rule); err != nil {
			return fmt.Errorf("%w: %s.%s: %w", ErrInvalidValue, s.Domain, key, err)
		}
	}

	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals

// InferDataType tags booleans boolean, numbers number, keys containing "Color" color
// and everything else string.
func InferDataType(key string, v Value) models.DataType {
	switch v.Kind() {
	case KindBoolean:
		return models.DataTypeBoolean
	case KindNumber:
		return models.DataTypeNumber
	}

	if strings.Contains(key, "Color") {
		return models.DataTypeColor
	}

	return models.DataTypeString
}

// InferStructured is InferDataType, additionally tagging structured values json.
func InferStructured(key string, v Value) models.DataType {
	if v.Kind() == KindJSON {
		return models.DataTypeJSON
	}

	return InferDataType(key, v)
}

// Label turns a key into start case, mobileBreakpoint becomes Mobile Breakpoint.
func Label(key string) string {
	title := cases.Title(language.English)

	words := strings.FieldsFunc(strcase.SnakeCase(key), func(r rune) bool { return r == '_' })
	for i, w := range words {
		words[i] = title.String(w)
	}

	return strings.Join(words, " ")
}
