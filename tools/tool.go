// Package tools defines the declarative tool registry primitives: the
// Tool interface, the spec describing a tool to the host (name,
// description, input schema), and a type-safe constructor that infers
// the input schema from the handler signature.
//
// A tool is a triple of name, input schema and handler:
//
//	type PingParams struct {
//	    HomeID string `json:"home_id" jsonschema:"The Tibber home ID"`
//	}
//
//	tool := tools.NewTool(
//	    "ping-home",
//	    "Checks that a home id resolves",
//	    func(ctx context.Context, p PingParams) (PingResult, error) { ... },
//	)
//
// Arguments are decoded strictly: input that does not parse into the
// handler's parameter type is rejected as an invalid-params error and
// the handler is never invoked.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// Tool is a named, schema-described operation exposed to the host.
type Tool interface {
	// Spec returns the tool's name, description and input schema.
	Spec() *ToolSpec

	// Execute runs the tool with raw JSON arguments.
	Execute(ctx context.Context, params json.RawMessage) (*Result, error)
}

// ToolSpec describes a tool to the host.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Result wraps a successful tool invocation's payload.
type Result struct {
	Output any
}

const maxToolNameLength = 64

// Validate checks that a tool's spec is well-formed enough to register.
func Validate(t Tool) error {
	if t == nil {
		return fmt.Errorf("tool cannot be nil")
	}
	spec := t.Spec()
	if spec.Name == "" {
		return fmt.Errorf("tool spec must include a non-empty name")
	}
	if len(spec.Name) > maxToolNameLength {
		return fmt.Errorf("tool name must not exceed %d characters", maxToolNameLength)
	}
	for _, char := range spec.Name {
		if (char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '_' || char == '-' {
			continue
		}
		return fmt.Errorf("tool name must contain only alphanumeric characters, underscores, or hyphens")
	}
	if spec.Description == "" {
		return fmt.Errorf("tool spec description cannot be empty")
	}
	if spec.Parameters == nil {
		return fmt.Errorf("tool spec parameters cannot be nil")
	}
	return nil
}
