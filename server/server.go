// Package server dispatches JSON-RPC 2.0 requests to a registry of tools.
//
// Each request runs an independent Parse, Route, Resolve, Validate, Invoke,
// Respond pipeline; no shared mutable state is touched in between, so any
// number of requests may be dispatched concurrently. The registry is
// immutable once the server is constructed.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/loopwork-ai/toolrpc/jsonrpc"
	"github.com/loopwork-ai/toolrpc/schema"
	"github.com/loopwork-ai/toolrpc/tool"
)

// Server routes JSON-RPC requests to protocol handlers and registered
// tools.
type Server struct {
	registry     *tool.Registry
	info         Implementation
	instructions string
	logger       *slog.Logger
	limiter      *RateLimiter
}

// New creates a server over the given registry. The registry must be fully
// populated before serving begins; the server never mutates it.
func New(registry *tool.Registry, opts ...Option) *Server {
	s := &Server{
		registry: registry,
		info:     Implementation{Name: "toolrpc", Version: "dev"},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ jsonrpc.Handler = (*Server)(nil)

// Handle processes a single decoded request and returns its response, or
// nil when the request is a notification. Notifications never produce
// output, even when the underlying operation fails.
func (s *Server) Handle(ctx context.Context, request jsonrpc.Request) *jsonrpc.Response {
	s.logger.Debug("received request", "method", request.Method, "id", request.ID)

	resp := s.dispatch(ctx, request)
	if request.IsNotification() {
		return nil
	}
	return resp
}

func (s *Server) dispatch(ctx context.Context, request jsonrpc.Request) *jsonrpc.Response {
	if strings.HasPrefix(request.Method, notificationPrefix) {
		// Lifecycle notifications such as notifications/initialized are
		// accepted and ignored.
		return nil
	}

	if s.limiter != nil {
		if err := s.limiter.Allow(ctx, request.Method); err != nil {
			return s.respond(request, nil, jsonrpc.Errorf(jsonrpc.ErrServer, "rate limit: %v", err))
		}
	}

	switch request.Method {
	case MethodInitialize:
		return s.handleInitialize(request)
	case MethodPing:
		return s.respond(request, struct{}{}, nil)
	case MethodToolsList:
		return s.handleToolsList(request)
	case MethodToolsCall:
		return s.handleToolsCall(ctx, request)
	default:
		return s.respond(request, nil, jsonrpc.NewError(jsonrpc.ErrMethodNotFound, request.Method))
	}
}

func (s *Server) handleInitialize(request jsonrpc.Request) *jsonrpc.Response {
	result := InitializeResult{
		ProtocolVersion: ProtocolVersion,
		ServerInfo:      s.info,
		Instructions:    s.instructions,
	}
	if s.registry.Len() > 0 {
		result.Capabilities.Tools = &struct {
			ListChanged bool `json:"listChanged"`
		}{}
	}
	return s.respond(request, result, nil)
}

func (s *Server) handleToolsList(request jsonrpc.Request) *jsonrpc.Response {
	return s.respond(request, ToolsListResult{Tools: s.registry.List()}, nil)
}

func (s *Server) handleToolsCall(ctx context.Context, request jsonrpc.Request) *jsonrpc.Response {
	if len(request.Params) == 0 {
		return s.respond(request, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, "params required"))
	}

	var params ToolCallParams
	if err := json.Unmarshal(request.Params, &params); err != nil {
		return s.respond(request, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, err.Error()))
	}
	if params.Name == "" {
		return s.respond(request, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, "tool name required"))
	}

	// A bad tool name is the caller's fault, so it reports as invalid
	// params rather than an internal error.
	t, ok := s.registry.Lookup(params.Name)
	if !ok {
		return s.respond(request, nil, jsonrpc.Errorf(jsonrpc.ErrInvalidParams, "unknown tool: %s", params.Name))
	}

	if t.InputSchema != nil {
		if err := schema.ValidateJSON(t.InputSchema, params.Arguments); err != nil {
			var verr *schema.ValidationError
			if errors.As(err, &verr) {
				e := jsonrpc.NewError(jsonrpc.ErrInvalidParams, map[string]string{
					"path":  verr.Path,
					"error": verr.Message,
				})
				return s.respond(request, nil, e)
			}
			return s.respond(request, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, err.Error()))
		}
	}

	if s.limiter != nil {
		if err := s.limiter.AllowTool(ctx, params.Name); err != nil {
			return s.respond(request, nil, jsonrpc.Errorf(jsonrpc.ErrServer, "rate limit: %v", err))
		}
	}

	result, err := s.invoke(ctx, t, params.Arguments)
	if err != nil {
		return s.respond(request, nil, toolCallError(err))
	}
	return s.respond(request, result, nil)
}

// invoke calls the tool handler, converting a panic into an error so one
// failing tool call cannot take down the serving loop.
func (s *Server) invoke(ctx context.Context, t *tool.Tool, args json.RawMessage) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("tool panicked", "tool", t.Name, "panic", r)
			err = jsonrpc.Errorf(jsonrpc.ErrInternal, "Internal error")
		}
	}()
	return t.Handler.Invoke(ctx, args)
}

// toolCallError maps a handler failure onto the wire error taxonomy:
// caller-fault tool errors report as invalid params, everything else as a
// server error carrying the tool's message.
func toolCallError(err error) *jsonrpc.Error {
	var rpcErr *jsonrpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	var toolErr *tool.Error
	if errors.As(err, &toolErr) {
		switch toolErr.Kind {
		case tool.KindInvalidArgument:
			return jsonrpc.Errorf(jsonrpc.ErrInvalidParams, "%s", toolErr.Message)
		default:
			return jsonrpc.Errorf(jsonrpc.ErrServer, "%s", toolErr.Message)
		}
	}
	return jsonrpc.Errorf(jsonrpc.ErrServer, "%s", err.Error())
}

func (s *Server) respond(request jsonrpc.Request, result interface{}, err *jsonrpc.Error) *jsonrpc.Response {
	var id interface{}
	if request.ID != nil {
		id = *request.ID
	}
	resp := jsonrpc.NewResponse(id, result, err)
	if err != nil {
		s.logger.Debug("responding with error", "method", request.Method, "id", resp.ID, "code", err.Code, "message", err.Message)
	} else {
		s.logger.Debug("responding", "method", request.Method, "id", resp.ID)
	}
	return &resp
}

// HandleMessage decodes a raw JSON-RPC payload, dispatches each request it
// contains, and encodes the reply. It returns nil when no output is owed:
// the payload was a notification, or a batch of notifications.
//
// Batch members are dispatched concurrently; replies are aggregated in the
// order the requests appeared.
func (s *Server) HandleMessage(ctx context.Context, data []byte) []byte {
	raws, batch, splitErr := jsonrpc.Split(data)
	if splitErr != nil {
		return encodeOne(jsonrpc.NewResponse(nil, nil, splitErr))
	}

	if !batch {
		resp := s.handleRaw(ctx, raws[0])
		if resp == nil {
			return nil
		}
		return encodeOne(*resp)
	}

	slots := make([]*jsonrpc.Response, len(raws))
	g, gctx := errgroup.WithContext(ctx)
	for i, raw := range raws {
		i, raw := i, raw
		g.Go(func() error {
			slots[i] = s.handleRaw(gctx, raw)
			return nil
		})
	}
	_ = g.Wait()

	responses := make([]jsonrpc.Response, 0, len(slots))
	for _, resp := range slots {
		if resp != nil {
			responses = append(responses, *resp)
		}
	}
	if len(responses) == 0 {
		return nil
	}

	out, err := jsonrpc.EncodeBatch(responses)
	if err != nil {
		s.logger.Error("failed to encode batch response", "error", err)
		return encodeOne(jsonrpc.NewResponse(nil, nil, jsonrpc.NewError(jsonrpc.ErrInternal, nil)))
	}
	return out
}

func (s *Server) handleRaw(ctx context.Context, raw json.RawMessage) *jsonrpc.Response {
	request, decErr := jsonrpc.DecodeRequest(raw)
	if decErr != nil {
		// A message that fails envelope validation cannot be trusted to be
		// a notification, so an error response is produced with whatever ID
		// could be recovered, null otherwise.
		var id interface{}
		if request.ID != nil {
			id = *request.ID
		}
		resp := jsonrpc.NewResponse(id, nil, decErr)
		return &resp
	}
	return s.Handle(ctx, request)
}

func encodeOne(resp jsonrpc.Response) []byte {
	out, err := jsonrpc.EncodeResponse(resp)
	if err != nil {
		// Response values are built from marshalable parts; reaching here
		// means a tool returned something JSON cannot represent.
		fallback := jsonrpc.Response{
			Version: jsonrpc.Version,
			ID:      resp.ID,
			Error:   jsonrpc.NewError(jsonrpc.ErrInternal, nil),
		}
		out, _ = jsonrpc.EncodeResponse(fallback)
	}
	return out
}
