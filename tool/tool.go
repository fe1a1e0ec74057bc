// Package tool defines the callable tools exposed over JSON-RPC and the
// registry that holds them.
package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/loopwork-ai/toolrpc/schema"
)

// Handler executes a tool call. Arguments arrive as the raw JSON object
// from the request, already validated against the tool's input schema.
// The returned value is the tool-defined JSON result. Handlers may be
// invoked concurrently and must not rely on the core for serialization.
type Handler interface {
	Invoke(ctx context.Context, args json.RawMessage) (interface{}, error)
}

// HandlerFunc adapts a function to the Handler interface
type HandlerFunc func(ctx context.Context, args json.RawMessage) (interface{}, error)

func (f HandlerFunc) Invoke(ctx context.Context, args json.RawMessage) (interface{}, error) {
	return f(ctx, args)
}

// Tool describes a named callable: its input schema, shown to callers via
// tools/list, and the handler invoked by tools/call.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema *schema.Schema `json:"inputSchema"`
	Handler     Handler        `json:"-"`
}

// ErrorKind distinguishes caller-fault failures from execution failures.
type ErrorKind int

const (
	// KindInvalidArgument reports arguments the tool could not accept.
	// It maps to the protocol's invalid-params error.
	KindInvalidArgument ErrorKind = iota

	// KindExecutionFailure reports a failure while performing the tool's
	// work. It maps to the server error band, carrying the message through
	// to the caller.
	KindExecutionFailure
)

// Error is a failure reported by a tool handler
type Error struct {
	Kind    ErrorKind
	Message string
}

var _ error = &Error{}

func (e *Error) Error() string {
	return e.Message
}

// InvalidArgumentf creates a caller-fault tool error
func InvalidArgumentf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// ExecutionFailuref creates an execution-fault tool error
func ExecutionFailuref(format string, args ...interface{}) *Error {
	return &Error{Kind: KindExecutionFailure, Message: fmt.Sprintf(format, args...)}
}
