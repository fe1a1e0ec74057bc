package jsonrpc

import "context"

// Handler defines the interface for handling decoded JSON-RPC requests.
// Handle returns nil when the request is a notification, which must not
// produce wire output.
type Handler interface {
	Handle(ctx context.Context, request Request) *Response
}
