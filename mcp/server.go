// Package mcp implements the server side of the Model Context Protocol
// for this adapter: a JSON-RPC 2.0 dispatcher with a stdio transport
// (newline-delimited messages, exactly one response per request) and an
// optional bearer-authenticated HTTP transport for local debugging.
package mcp

import (
	"fmt"
	"log/slog"

	"github.com/corroleaus/tibber-mcp/tools"
)

// Server holds the registered tools and identity reported to the host.
// The tool set is fixed at construction; lookups go through an explicit
// name-keyed table.
type Server struct {
	name    string
	version string
	byName  map[string]tools.Tool
	ordered []tools.Tool
	logger  *slog.Logger
}

// ServerConfig configures a Server.
type ServerConfig struct {
	Name    string
	Version string
	Tools   []tools.Tool
	Logger  *slog.Logger
}

// NewServer builds a server, validating every tool and rejecting
// duplicate names.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		name:    cfg.Name,
		version: cfg.Version,
		byName:  make(map[string]tools.Tool, len(cfg.Tools)),
		ordered: make([]tools.Tool, 0, len(cfg.Tools)),
		logger:  cfg.Logger,
	}

	for _, tool := range cfg.Tools {
		if err := tools.Validate(tool); err != nil {
			return nil, fmt.Errorf("invalid tool: %w", err)
		}
		name := tool.Spec().Name
		if _, exists := s.byName[name]; exists {
			return nil, fmt.Errorf("duplicate tool name %q", name)
		}
		s.byName[name] = tool
		s.ordered = append(s.ordered, tool)
	}

	s.logger.Info("initialized MCP server",
		"name", cfg.Name,
		"version", cfg.Version,
		"tool_count", len(cfg.Tools))

	return s, nil
}

// Lookup resolves a tool by name.
func (s *Server) Lookup(name string) (tools.Tool, bool) {
	t, ok := s.byName[name]
	return t, ok
}

// Tools returns the registered tools in registration order.
func (s *Server) Tools() []tools.Tool {
	return s.ordered
}

// Name returns the server name.
func (s *Server) Name() string { return s.name }

// Version returns the server version.
func (s *Server) Version() string { return s.version }
