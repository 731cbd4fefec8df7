package command

import (
	"fmt"
	"sort"

	"netcommand/internal/domain"
	"netcommand/internal/driver"
)

// ParamType is the declared type of a command parameter
type ParamType string

const (
	TypeString     ParamType = "String"
	TypeInteger    ParamType = "Integer"
	TypeBoolean    ParamType = "Boolean"
	TypeDictionary ParamType = "Dictionary"
)

// Parameter declares one argument of a command
type Parameter struct {
	Key         string    `json:"key" yaml:"key" cbor:"key"`
	Type        ParamType `json:"type" yaml:"type" cbor:"type"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty" cbor:"description,omitempty"`
	DisplayName string    `json:"display_name,omitempty" yaml:"display_name,omitempty" cbor:"display_name,omitempty"`
	Optional    bool      `json:"optional" yaml:"optional" cbor:"optional"`
	Default     any       `json:"default" yaml:"default" cbor:"default"`
	Nullable    bool      `json:"nullable" yaml:"nullable" cbor:"nullable"`
	// Multi accepts a list of values of Type
	Multi bool `json:"multi,omitempty" yaml:"multi,omitempty" cbor:"multi,omitempty"`
}

// ValidationError reports arguments that do not match a command's schema
type ValidationError struct {
	Command string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Command, e.Message)
	}
	return fmt.Sprintf("%s: parameter %q %s", e.Command, e.Field, e.Message)
}

// Bind checks args against the operation's parameters and returns the
// arguments to forward: declared parameters only, defaults filled in for
// omitted optional ones, numbers normalized to int.
func (op Operation) Bind(args map[string]any) (driver.Args, error) {
	declared := make(map[string]bool, len(op.Parameters))
	for _, p := range op.Parameters {
		declared[p.Key] = true
	}

	var unknown []string
	for key := range args {
		if !declared[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &ValidationError{Command: op.Name, Field: unknown[0], Message: "is not a parameter of this command"}
	}

	bound := make(driver.Args, len(op.Parameters))
	for _, p := range op.Parameters {
		value, present := args[p.Key]
		if !present {
			if !p.Optional {
				return nil, &ValidationError{Command: op.Name, Field: p.Key, Message: "is required"}
			}
			bound[p.Key] = p.Default
			continue
		}

		if value == nil {
			if !p.Nullable {
				return nil, &ValidationError{Command: op.Name, Field: p.Key, Message: "may not be null"}
			}
			bound[p.Key] = nil
			continue
		}

		v, err := p.coerce(value)
		if err != nil {
			return nil, &ValidationError{Command: op.Name, Field: p.Key, Message: err.Error()}
		}
		bound[p.Key] = v
	}

	return bound, nil
}

func (p Parameter) coerce(value any) (any, error) {
	if !p.Multi {
		return coerceScalar(p.Type, value)
	}

	items, ok := value.([]any)
	if !ok {
		if strs, isStrs := value.([]string); isStrs {
			items = make([]any, len(strs))
			for i, s := range strs {
				items[i] = s
			}
		} else {
			return nil, fmt.Errorf("expected a list of %s, got %T", p.Type, value)
		}
	}

	out := make([]any, len(items))
	for i, item := range items {
		v, err := coerceScalar(p.Type, item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func coerceScalar(t ParamType, value any) (any, error) {
	switch t {
	case TypeString:
		if s, ok := value.(string); ok {
			return s, nil
		}
	case TypeBoolean:
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case TypeDictionary:
		if m, ok := value.(map[string]any); ok {
			return m, nil
		}
	case TypeInteger:
		if n, ok := domain.IntValue(value); ok {
			return n, nil
		}
		if _, numeric := value.(float64); numeric {
			return nil, fmt.Errorf("expected a whole number within the integer range, got %v", value)
		}
	default:
		return nil, fmt.Errorf("has unsupported type %s", t)
	}
	return nil, fmt.Errorf("expected %s, got %T", t, value)
}
