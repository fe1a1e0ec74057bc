package jsonrpc

import "encoding/json"

// Version is the JSON-RPC protocol version accepted and emitted by this
// package
const Version = "2.0"

// Request represents a JSON-RPC request object. A request with no ID is a
// notification: the caller has declared disinterest in a reply, and no
// response is ever produced for it, even on error.
type Request struct {
	Version string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      *ID             `json:"id,omitempty"`
}

// NewRequest creates a new Request object
func NewRequest(method string, params json.RawMessage, id interface{}) Request {
	req := Request{
		Version: Version,
		Method:  method,
		Params:  params,
	}
	if id != nil {
		if v, err := NewID(id); err == nil {
			req.ID = &v
		}
	}
	return req
}

// IsNotification reports whether the request carries no ID and therefore
// must not produce a response.
func (r Request) IsNotification() bool {
	return r.ID == nil
}
