package jsonrpc

import (
	"bytes"
	"encoding/json"
)

// Split separates a raw JSON-RPC payload into its constituent messages.
// A payload whose first byte is '[' is a batch and yields one raw message
// per array element; anything else yields a single raw message. The
// returned *Error reports payload-level failures: malformed JSON maps to
// ErrParse, an empty batch to ErrInvalidRequest.
func Split(data []byte) (raws []json.RawMessage, batch bool, err *Error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, false, NewError(ErrParse, nil)
	}

	if trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, false, NewError(ErrParse, nil)
		}
		return []json.RawMessage{trimmed}, false, nil
	}

	var elems []json.RawMessage
	if uerr := json.Unmarshal(trimmed, &elems); uerr != nil {
		return nil, true, NewError(ErrParse, nil)
	}
	if len(elems) == 0 {
		return nil, true, NewError(ErrInvalidRequest, "empty batch")
	}
	return elems, true, nil
}

// DecodeRequest parses a single raw message into a Request and validates
// its envelope: the message must be a JSON object whose jsonrpc field equals
// "2.0" with a non-empty method. Unknown fields are ignored for forward
// compatibility.
//
// On failure the returned Request still carries whatever ID could be
// recovered, so that the caller can echo it in the error response.
func DecodeRequest(data []byte) (Request, *Error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		// The payload is valid JSON by the time it reaches here, so a
		// failure means the shape is wrong, not the syntax.
		req.ID = recoverID(data)
		return req, NewError(ErrInvalidRequest, err.Error())
	}
	if req.Version != Version {
		return req, Errorf(ErrInvalidRequest, "unsupported jsonrpc version %q", req.Version)
	}
	if req.Method == "" {
		return req, NewError(ErrInvalidRequest, "method must not be empty")
	}
	return req, nil
}

// recoverID makes a best-effort attempt to pull a usable ID out of a
// message that failed to decode as a Request.
func recoverID(data []byte) *ID {
	var probe struct {
		ID ID `json:"id"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil
	}
	if probe.ID.IsNil() {
		return nil
	}
	return &probe.ID
}

// EncodeResponse serializes a single response
func EncodeResponse(resp Response) ([]byte, error) {
	return json.Marshal(resp)
}

// EncodeBatch serializes a batch of responses, preserving their order
func EncodeBatch(resps []Response) ([]byte, error) {
	return json.Marshal(resps)
}
