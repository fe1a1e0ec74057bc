package jsonrpc

import "encoding/json"

// Response represents a JSON-RPC response object. Exactly one of Result and
// Error is set.
type Response struct {
	Version string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      ID          `json:"id"`
}

// NewResponse creates a new Response object echoing the given request ID
func NewResponse(id interface{}, result interface{}, err *Error) Response {
	respID, _ := NewID(id)

	return Response{
		Version: Version,
		ID:      respID,
		Result:  result,
		Error:   err,
	}
}

var _ json.Marshaler = Response{}

// MarshalJSON emits either the result or the error member, never both.
// Result is kept even when it is a JSON zero value such as 0 or false,
// which omitempty would otherwise drop.
func (r Response) MarshalJSON() ([]byte, error) {
	if r.Error != nil {
		return json.Marshal(struct {
			Version string `json:"jsonrpc"`
			Error   *Error `json:"error"`
			ID      ID     `json:"id"`
		}{r.Version, r.Error, r.ID})
	}
	return json.Marshal(struct {
		Version string      `json:"jsonrpc"`
		Result  interface{} `json:"result"`
		ID      ID          `json:"id"`
	}{r.Version, r.Result, r.ID})
}
