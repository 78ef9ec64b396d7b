package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/corroleaus/tibber-mcp/tools"
)

// JSON-RPC 2.0 message structures.
// See: https://www.jsonrpc.org/specification

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id,omitempty"`
	Result  any       `json:"result,omitempty"`
	Error   *RPCError `json:"error,omitempty"`
}

// RPCError is a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Standard JSON-RPC error codes.
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

// MCP method names served by this adapter.
const (
	MethodInitialize = "initialize"
	MethodToolsList  = "tools/list"
	MethodToolsCall  = "tools/call"
)

// ProtocolVersion is the MCP revision this server speaks.
const ProtocolVersion = "2024-11-05"

// InitializeParams carries the client's initialize request.
type InitializeParams struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities,omitempty"`
	ClientInfo      ClientInfo     `json:"clientInfo"`
}

// ClientInfo identifies the connecting host.
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResult is the response to initialize.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
}

// ServerCapabilities describes what the server supports.
type ServerCapabilities struct {
	Tools map[string]any `json:"tools,omitempty"`
}

// ServerInfo identifies this server to the host.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ToolsListResult is the response to tools/list.
type ToolsListResult struct {
	Tools []ToolDescription `json:"tools"`
}

// ToolDescription is a tool in MCP wire format.
type ToolDescription struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// ToolsCallParams carries a tools/call invocation.
type ToolsCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ToolsCallResult is the response to tools/call. Tool failures are
// reported in-band with IsError set, keeping the RPC itself successful.
type ToolsCallResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ContentBlock is one piece of tool result content.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Handler dispatches JSON-RPC messages against a Server. Every
// per-request failure becomes a structured response; nothing escapes to
// the transport loop.
type Handler struct {
	server *Server
}

// NewHandler creates a message handler for the server.
func NewHandler(server *Server) *Handler {
	return &Handler{server: server}
}

// HandleMessage processes one JSON-RPC message. It returns nil for
// notifications, which expect no response.
func (h *Handler) HandleMessage(ctx context.Context, data []byte) *Response {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return &Response{
			JSONRPC: "2.0",
			Error:   &RPCError{Code: ParseError, Message: "Parse error", Data: err.Error()},
		}
	}

	if req.ID == nil {
		h.server.logger.Debug("received notification", "method", req.Method)
		return nil
	}

	if req.JSONRPC != "2.0" {
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &RPCError{Code: InvalidRequest, Message: "Invalid JSON-RPC version"},
		}
	}

	var result any
	var rpcErr *RPCError

	switch req.Method {
	case MethodInitialize:
		result, rpcErr = h.handleInitialize(req.Params)
	case MethodToolsList:
		result, rpcErr = h.handleToolsList()
	case MethodToolsCall:
		result, rpcErr = h.handleToolsCall(ctx, req.Params)
	default:
		rpcErr = &RPCError{Code: MethodNotFound, Message: fmt.Sprintf("Method not found: %s", req.Method)}
	}

	return &Response{JSONRPC: "2.0", ID: req.ID, Result: result, Error: rpcErr}
}

func (h *Handler) handleInitialize(params json.RawMessage) (any, *RPCError) {
	var initParams InitializeParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &initParams); err != nil {
			return nil, &RPCError{Code: InvalidParams, Message: "Invalid initialize parameters", Data: err.Error()}
		}
	}

	h.server.logger.Info("MCP client connected",
		"client", initParams.ClientInfo.Name,
		"version", initParams.ClientInfo.Version)

	return InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities: ServerCapabilities{
			Tools: map[string]any{},
		},
		ServerInfo: ServerInfo{Name: h.server.name, Version: h.server.version},
	}, nil
}

func (h *Handler) handleToolsList() (any, *RPCError) {
	list := make([]ToolDescription, 0, len(h.server.Tools()))
	for _, tool := range h.server.Tools() {
		spec := tool.Spec()
		list = append(list, ToolDescription{
			Name:        spec.Name,
			Description: spec.Description,
			InputSchema: spec.Parameters,
		})
	}
	return ToolsListResult{Tools: list}, nil
}

func (h *Handler) handleToolsCall(ctx context.Context, params json.RawMessage) (any, *RPCError) {
	var callParams ToolsCallParams
	if err := json.Unmarshal(params, &callParams); err != nil {
		return nil, &RPCError{Code: InvalidParams, Message: "Invalid tools/call parameters", Data: err.Error()}
	}

	tool, ok := h.server.Lookup(callParams.Name)
	if !ok {
		return nil, &RPCError{Code: InvalidParams, Message: fmt.Sprintf("Unknown tool: %s", callParams.Name)}
	}

	h.server.logger.Info("executing tool", "tool", callParams.Name)

	result, err := tool.Execute(ctx, callParams.Arguments)
	if err != nil {
		// Codes in the reserved JSON-RPC range are protocol errors
		// (malformed arguments and the like); everything else is a tool
		// failure reported in-band so the loop stays alive either way.
		var toolErr *tools.Error
		if errors.As(err, &toolErr) && toolErr.Code >= -32768 && toolErr.Code <= -32000 {
			return nil, &RPCError{Code: toolErr.Code, Message: toolErr.Message, Data: toolErr.Data}
		}

		h.server.logger.Error("tool execution failed",
			"tool", callParams.Name,
			"error", err)

		return ToolsCallResult{
			Content: []ContentBlock{{Type: "text", Text: fmt.Sprintf("Error executing tool: %v", err)}},
			IsError: true,
		}, nil
	}

	return ToolsCallResult{
		Content: []ContentBlock{{Type: "text", Text: tools.MarshalOutput(h.server.logger, result.Output)}},
	}, nil
}
