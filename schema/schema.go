// Package schema defines the input schemas that describe a tool's arguments
// and validates argument payloads against them.
//
// Schemas are explicit, data-only field descriptors in the JSON Schema
// style: a tagged type plus per-property sub-schemas, required lists, and
// enumerations. Validation is strict about types (no coercion: "2" is not
// accepted where 2 is required) and permissive about unknown fields unless
// a schema declares closed-object semantics.
package schema

// Type identifies the JSON type a schema accepts.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeNull    Type = "null"
)

// Schema describes the shape of a JSON value. The zero value accepts
// anything; setting Type constrains the value's JSON type, and the
// remaining fields refine objects, arrays, and enumerations.
type Schema struct {
	Type        Type               `json:"type,omitempty"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []interface{}      `json:"enum,omitempty"`

	// AdditionalProperties set to false declares closed-object semantics:
	// fields not named in Properties fail validation. Left nil (the
	// default), unknown fields are accepted.
	AdditionalProperties *bool `json:"additionalProperties,omitempty"`
}

// Object returns an object schema with the given properties. The required
// list names properties that must be present.
func Object(properties map[string]*Schema, required ...string) *Schema {
	return &Schema{
		Type:       TypeObject,
		Properties: properties,
		Required:   required,
	}
}

// String returns a string schema
func String(description string) *Schema {
	return &Schema{Type: TypeString, Description: description}
}

// StringEnum returns a string schema restricted to the given values
func StringEnum(description string, values ...string) *Schema {
	enum := make([]interface{}, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return &Schema{Type: TypeString, Description: description, Enum: enum}
}

// Number returns a number schema
func Number(description string) *Schema {
	return &Schema{Type: TypeNumber, Description: description}
}

// Integer returns an integer schema
func Integer(description string) *Schema {
	return &Schema{Type: TypeInteger, Description: description}
}

// Boolean returns a boolean schema
func Boolean(description string) *Schema {
	return &Schema{Type: TypeBoolean, Description: description}
}

// Array returns an array schema whose elements match items
func Array(description string, items *Schema) *Schema {
	return &Schema{Type: TypeArray, Description: description, Items: items}
}

// Closed marks the schema as rejecting properties it does not declare and
// returns it.
func (s *Schema) Closed() *Schema {
	f := false
	s.AdditionalProperties = &f
	return s
}
