package jsonrpc

import (
	"encoding/json"
	"fmt"
	"math"
)

// ID represents a JSON-RPC request ID, which must be either a string or an
// integer. A response echoes the ID of the request it answers verbatim.
type ID struct {
	value interface{}
}

// NewID creates a JSON-RPC ID from a string or integer
func NewID(id interface{}) (ID, error) {
	switch v := id.(type) {
	case ID:
		return v, nil
	case string:
		return ID{value: v}, nil
	case int:
		return ID{value: int64(v)}, nil
	case int32:
		return ID{value: int64(v)}, nil
	case int64:
		return ID{value: v}, nil
	case float64:
		if v != math.Trunc(v) {
			return ID{}, fmt.Errorf("id must be an integer, got %g", v)
		}
		return ID{value: int64(v)}, nil
	case nil:
		return ID{}, fmt.Errorf("id cannot be null")
	default:
		return ID{}, fmt.Errorf("id must be string or integer, got %T", id)
	}
}

func (id ID) Value() interface{} {
	return id.value
}

func (id ID) IsNil() bool {
	return id.value == nil
}

// Equal compares two IDs for equality
func (id ID) Equal(other interface{}) bool {
	switch v := other.(type) {
	case ID:
		return id.value == v.value
	case string:
		return id.value == v
	case int:
		return id.value == int64(v)
	case int64:
		return id.value == v
	default:
		return false
	}
}

func (id ID) String() string {
	switch v := id.value.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", v)
	}
}

var _ json.Marshaler = ID{}

// MarshalJSON encodes the ID, producing null for the zero ID. A null ID
// appears only in responses to requests whose ID could not be recovered.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(id.value)
}

var _ json.Unmarshaler = &ID{}

// UnmarshalJSON implements json.Unmarshaler. A JSON null decodes to the
// zero ID: it never occurs in a well-formed request (a missing id leaves
// the field unset), but responses to unparseable messages carry it.
func (id *ID) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		id.value = v
		return nil
	case float64: // JSON numbers are decoded as float64
		if v != math.Trunc(v) {
			return fmt.Errorf("id must be an integer, got %g", v)
		}
		id.value = int64(v)
		return nil
	case nil:
		id.value = nil
		return nil
	default:
		return fmt.Errorf("id must be string or integer, got %T", raw)
	}
}
