package settings

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Values maps the keys of one domain to their values.
type Values map[string]Value

// Clone returns an independent copy.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}

	return maps.Clone(v)
}

// Equal reports whether both sets hold the same keys with equal values.
func (v Values) Equal(o Values) bool {
	return maps.EqualFunc(v, o, Value.Equal)
}

// Set stores val under key.
func (v Values) Set(key string, val Value) {
	v[key] = val
}

// Keys returns the keys in sorted order.
func (v Values) Keys() []string {
	return slices.Sorted(maps.Keys(v))
}

// Plain returns the values as plain Go values.
func (v Values) Plain() map[string]any {
	out := make(map[string]any, len(v))
	for k, val := range v {
		out[k] = val.Interface()
	}

	return out
}

// MarshalJSON encodes the plain values.
func (v Values) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Plain()) //nolint:wrapcheck
}

// State holds the values of several domains.
type State map[string]Values

// Clone returns a deep copy.
func (s State) Clone() State {
	if s == nil {
		return nil
	}

	out := make(State, len(s))
	for domain, values := range s {
		out[domain] = values.Clone()
	}

	return out
}

// Equal reports whether both states hold equal values for the same domains.
func (s State) Equal(o State) bool {
	return maps.EqualFunc(s, o, Values.Equal)
}

// Domains returns the domain names in sorted order.
func (s State) Domains() []string {
	return slices.Sorted(maps.Keys(s))
}

// Plain returns the state as nested plain Go values.
func (s State) Plain() map[string]any {
	out := make(map[string]any, len(s))
	for domain, values := range s {
		out[domain] = values.Plain()
	}

	return out
}

type taggedValue struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
}

// MarshalState encodes a state keeping each value's kind, for session storage.
func MarshalState(s State) ([]byte, error) {
	tagged := make(map[string]map[string]taggedValue, len(s))

	for domain, values := range s {
		m := make(map[string]taggedValue, len(values))
		for key, val := range values {
			m[key] = taggedValue{Kind: val.Kind(), Value: val.Encode()}
		}

		tagged[domain] = m
	}

	return json.Marshal(tagged) //nolint:wrapcheck
}

// UnmarshalState is the inverse of MarshalState.
func UnmarshalState(data []byte) (State, error) {
	var tagged map[string]map[string]taggedValue
	if err := json.Unmarshal(data, &tagged); err != nil {
		return nil, fmt.Errorf("decode settings state: %w", err)
	}

	out := make(State, len(tagged))

	for domain, m := range tagged {
		values := make(Values, len(m))

		for key, tv := range m {
			val, err := Decode(tv.Kind, tv.Value)
			if err != nil {
				return nil, fmt.Errorf("decode settings state %s.%s: %w", domain, key, err)
			}

			values[key] = val
		}

		out[domain] = values
	}

	return out, nil
}
