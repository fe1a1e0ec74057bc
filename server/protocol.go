package server

import (
	"encoding/json"

	"github.com/loopwork-ai/toolrpc/tool"
)

// ProtocolVersion is the protocol revision this server speaks
const ProtocolVersion = "2024-11-05"

// Methods recognized by the server. Anything under notifications/ is a
// notification by definition and never produces output.
const (
	MethodInitialize = "initialize"
	MethodPing       = "ping"
	MethodToolsList  = "tools/list"
	MethodToolsCall  = "tools/call"

	notificationPrefix = "notifications/"
)

type (
	// Implementation identifies the server to clients
	Implementation struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}

	// Capabilities advertises what the server supports. The tool list is
	// immutable once serving starts, so listChanged is always false.
	Capabilities struct {
		Tools *struct {
			ListChanged bool `json:"listChanged"`
		} `json:"tools,omitempty"`
	}

	// InitializeResult is the result of the initialize method
	InitializeResult struct {
		ProtocolVersion string         `json:"protocolVersion"`
		Capabilities    Capabilities   `json:"capabilities"`
		ServerInfo      Implementation `json:"serverInfo"`
		Instructions    string         `json:"instructions,omitempty"`
	}

	// ToolsListResult is the result of the tools/list method
	ToolsListResult struct {
		Tools []tool.Tool `json:"tools"`
	}

	// ToolCallParams are the parameters of the tools/call method
	ToolCallParams struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments,omitempty"`
	}
)
