package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calculatorSchema() *Schema {
	return Object(map[string]*Schema{
		"x":         Number("First number"),
		"y":         Number("Second number"),
		"operation": StringEnum("Operation", "add", "subtract", "multiply", "divide"),
	}, "x", "y", "operation")
}

func validationError(t *testing.T, err error) *ValidationError {
	t.Helper()
	require.Error(t, err)
	verr, ok := err.(*ValidationError)
	require.True(t, ok, "expected *ValidationError, got %T", err)
	return verr
}

func TestValidateAccepts(t *testing.T) {
	err := ValidateJSON(calculatorSchema(), json.RawMessage(`{"x":1,"y":2,"operation":"add"}`))
	assert.NoError(t, err)
}

func TestValidateMissingRequiredField(t *testing.T) {
	err := ValidateJSON(calculatorSchema(), json.RawMessage(`{"x":1,"operation":"add"}`))
	verr := validationError(t, err)
	assert.Equal(t, "y", verr.Path)
	assert.Contains(t, verr.Message, "required")
}

func TestValidateEmptyArguments(t *testing.T) {
	err := ValidateJSON(calculatorSchema(), nil)
	verr := validationError(t, err)
	assert.Equal(t, "x", verr.Path)
}

func TestValidateNoTypeCoercion(t *testing.T) {
	// A string is not accepted where a number is required
	err := ValidateJSON(calculatorSchema(), json.RawMessage(`{"x":"2","y":2,"operation":"add"}`))
	verr := validationError(t, err)
	assert.Equal(t, "x", verr.Path)
	assert.Contains(t, verr.Message, "expected number")

	// Nor a number where a string is required
	err = ValidateJSON(calculatorSchema(), json.RawMessage(`{"x":1,"y":2,"operation":7}`))
	verr = validationError(t, err)
	assert.Equal(t, "operation", verr.Path)
}

func TestValidateEnum(t *testing.T) {
	// Right type, wrong value
	err := ValidateJSON(calculatorSchema(), json.RawMessage(`{"x":1,"y":2,"operation":"modulo"}`))
	verr := validationError(t, err)
	assert.Equal(t, "operation", verr.Path)
	assert.Contains(t, verr.Message, "allowed")
}

func TestValidateNumericEnum(t *testing.T) {
	s := Object(map[string]*Schema{
		"level": {Type: TypeInteger, Enum: []interface{}{1, 2, 3}},
	}, "level")

	assert.NoError(t, ValidateJSON(s, json.RawMessage(`{"level":2}`)))

	err := ValidateJSON(s, json.RawMessage(`{"level":5}`))
	verr := validationError(t, err)
	assert.Equal(t, "level", verr.Path)
}

func TestValidateUnknownFieldsPermissive(t *testing.T) {
	err := ValidateJSON(calculatorSchema(), json.RawMessage(`{"x":1,"y":2,"operation":"add","precision":"high"}`))
	assert.NoError(t, err)
}

func TestValidateClosedObject(t *testing.T) {
	s := Object(map[string]*Schema{
		"name": String("Name"),
	}, "name").Closed()

	err := ValidateJSON(s, json.RawMessage(`{"name":"a","extra":1}`))
	verr := validationError(t, err)
	assert.Equal(t, "extra", verr.Path)
	assert.Contains(t, verr.Message, "not allowed")
}

func TestValidateIntegerVsNumber(t *testing.T) {
	s := Object(map[string]*Schema{
		"count": Integer("Count"),
		"ratio": Number("Ratio"),
	}, "count", "ratio")

	// An integral number satisfies both; a fractional one only number
	assert.NoError(t, ValidateJSON(s, json.RawMessage(`{"count":3,"ratio":3}`)))
	assert.NoError(t, ValidateJSON(s, json.RawMessage(`{"count":3,"ratio":0.5}`)))

	err := ValidateJSON(s, json.RawMessage(`{"count":1.5,"ratio":1}`))
	verr := validationError(t, err)
	assert.Equal(t, "count", verr.Path)
}

func TestValidateNestedPath(t *testing.T) {
	s := Object(map[string]*Schema{
		"point": Object(map[string]*Schema{
			"x": Number("X"),
			"y": Number("Y"),
		}, "x", "y"),
	}, "point")

	err := ValidateJSON(s, json.RawMessage(`{"point":{"x":1,"y":"nope"}}`))
	verr := validationError(t, err)
	assert.Equal(t, "point.y", verr.Path)

	err = ValidateJSON(s, json.RawMessage(`{"point":{"x":1}}`))
	verr = validationError(t, err)
	assert.Equal(t, "point.y", verr.Path)
}

func TestValidateArrayItems(t *testing.T) {
	s := Object(map[string]*Schema{
		"tags": Array("Tags", String("Tag")),
	}, "tags")

	assert.NoError(t, ValidateJSON(s, json.RawMessage(`{"tags":["a","b"]}`)))

	err := ValidateJSON(s, json.RawMessage(`{"tags":["a",2]}`))
	verr := validationError(t, err)
	assert.Equal(t, "tags.1", verr.Path)
}

func TestValidateFailsFastDeterministically(t *testing.T) {
	s := Object(map[string]*Schema{
		"a": Number("A"),
		"b": Number("B"),
	})

	// Both fields are wrong; the lexically first one is always reported
	for i := 0; i < 10; i++ {
		err := ValidateJSON(s, json.RawMessage(`{"b":"x","a":"y"}`))
		verr := validationError(t, err)
		assert.Equal(t, "a", verr.Path)
	}
}

func TestValidateInvalidJSON(t *testing.T) {
	err := ValidateJSON(calculatorSchema(), json.RawMessage(`{nope`))
	verr := validationError(t, err)
	assert.Contains(t, verr.Message, "invalid JSON")
}
