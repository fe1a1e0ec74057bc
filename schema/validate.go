package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// ValidationError describes the first field of a value that failed
// validation. Path is the dotted path to the offending field; the root
// value itself has an empty path.
type ValidationError struct {
	Path    string
	Message string
}

var _ error = &ValidationError{}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidateJSON decodes raw JSON and validates it against the schema. An
// empty payload is treated as an empty object, so schemas with required
// fields reject it.
func ValidateJSON(s *Schema, raw json.RawMessage) error {
	var value interface{} = map[string]interface{}{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &value); err != nil {
			return &ValidationError{Message: fmt.Sprintf("invalid JSON: %v", err)}
		}
	}
	return Validate(s, value)
}

// Validate checks the value against the schema, failing fast on the first
// offending field. Values are expected in encoding/json's generic form:
// map[string]interface{}, []interface{}, string, float64, bool, nil.
func Validate(s *Schema, value interface{}) error {
	return validate(s, value, "")
}

func validate(s *Schema, value interface{}, path string) error {
	if s == nil {
		return nil
	}

	actual := typeOf(value)
	if s.Type != "" && !typeMatches(s.Type, actual) {
		return &ValidationError{
			Path:    path,
			Message: fmt.Sprintf("expected %s, got %s", s.Type, actual),
		}
	}

	if len(s.Enum) > 0 {
		if !enumContains(s.Enum, value) {
			return &ValidationError{
				Path:    path,
				Message: fmt.Sprintf("value %v is not one of the allowed values", value),
			}
		}
	}

	switch actual {
	case TypeObject:
		return validateObject(s, value.(map[string]interface{}), path)
	case TypeArray:
		return validateArray(s, value.([]interface{}), path)
	}
	return nil
}

func validateObject(s *Schema, obj map[string]interface{}, path string) error {
	for _, name := range s.Required {
		if _, ok := obj[name]; !ok {
			return &ValidationError{
				Path:    joinPath(path, name),
				Message: "required field is missing",
			}
		}
	}

	// Walk properties in sorted order so the first reported failure is
	// deterministic.
	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	sort.Strings(names)

	closed := s.AdditionalProperties != nil && !*s.AdditionalProperties
	for _, name := range names {
		prop, declared := s.Properties[name]
		if !declared {
			if closed {
				return &ValidationError{
					Path:    joinPath(path, name),
					Message: "field is not allowed",
				}
			}
			continue
		}
		if err := validate(prop, obj[name], joinPath(path, name)); err != nil {
			return err
		}
	}
	return nil
}

func validateArray(s *Schema, arr []interface{}, path string) error {
	if s.Items == nil {
		return nil
	}
	for i, elem := range arr {
		if err := validate(s.Items, elem, joinPath(path, fmt.Sprintf("%d", i))); err != nil {
			return err
		}
	}
	return nil
}

// typeOf maps a decoded JSON value to its schema type. Numbers with no
// fractional part report as integers, which also satisfy number schemas.
func typeOf(value interface{}) Type {
	switch v := value.(type) {
	case nil:
		return TypeNull
	case bool:
		return TypeBoolean
	case string:
		return TypeString
	case float64:
		if v == math.Trunc(v) {
			return TypeInteger
		}
		return TypeNumber
	case json.Number:
		if _, err := v.Int64(); err == nil {
			return TypeInteger
		}
		return TypeNumber
	case map[string]interface{}:
		return TypeObject
	case []interface{}:
		return TypeArray
	default:
		return Type(fmt.Sprintf("%T", value))
	}
}

func typeMatches(expected, actual Type) bool {
	if expected == actual {
		return true
	}
	// An integral number satisfies a number schema; the reverse does not
	// hold.
	return expected == TypeNumber && actual == TypeInteger
}

func enumContains(enum []interface{}, value interface{}) bool {
	for _, allowed := range enum {
		if jsonEqual(allowed, value) {
			return true
		}
	}
	return false
}

// jsonEqual compares two JSON values, treating all numeric representations
// uniformly.
func jsonEqual(a, b interface{}) bool {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		return af == bf
	}
	return a == b
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func joinPath(base, field string) string {
	if base == "" {
		return field
	}
	return base + "." + field
}
