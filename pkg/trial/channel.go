package trial

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Channel is a vector channel as stored on disk. It accepts flat arrays as
// well as N×1 and 1×N nested arrays.
type Channel []float64

// UnmarshalJSON implements json.Unmarshaler.
func (c *Channel) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		*c = nil
		return nil
	}
	return c.set(v)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Channel) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	if v == nil {
		*c = nil
		return nil
	}
	return c.set(v)
}

// UnmarshalTOML implements toml.Unmarshaler.
func (c *Channel) UnmarshalTOML(v any) error {
	return c.set(v)
}

func (c *Channel) set(v any) error {
	samples, err := flatten(v)
	if err != nil {
		return err
	}
	*c = samples
	return nil
}

// Scalar is a single value that may also be stored as a 1-element or 1×1
// array. Present reports whether the key appeared at all.
type Scalar struct {
	Value   float64
	Present bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		*s = Scalar{}
		return nil
	}
	return s.set(v)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Scalar) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	if v == nil {
		*s = Scalar{}
		return nil
	}
	return s.set(v)
}

// UnmarshalTOML implements toml.Unmarshaler.
func (s *Scalar) UnmarshalTOML(v any) error {
	return s.set(v)
}

func (s *Scalar) set(v any) error {
	if _, isList := v.([]any); !isList {
		f, err := number(v)
		if err != nil {
			return err
		}
		s.Value, s.Present = f, true
		return nil
	}
	samples, err := flatten(v)
	if err != nil {
		return err
	}
	if len(samples) != 1 {
		return fmt.Errorf("expected a single value, got %d", len(samples))
	}
	s.Value, s.Present = samples[0], true
	return nil
}

// flatten turns a decoded array into samples. A single wrapping list (1×N)
// is unwrapped, and each element may be a number or a 1-element list (N×1).
func flatten(v any) ([]float64, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected an array, got %T", v)
	}
	if len(list) == 1 {
		if inner, ok := list[0].([]any); ok && len(inner) != 1 {
			list = inner
		}
	}
	out := make([]float64, 0, len(list))
	for i, elem := range list {
		if row, ok := elem.([]any); ok {
			if len(row) != 1 {
				return nil, fmt.Errorf("element %d: expected 1 column, got %d", i, len(row))
			}
			elem = row[0]
		}
		f, err := number(elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func number(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}
