package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// TypedTool adapts a strongly-typed handler function to the Tool
// interface. The input schema is inferred from In at construction time.
type TypedTool[In, Out any] struct {
	spec    *ToolSpec
	handler func(context.Context, In) (Out, error)
}

func (t *TypedTool[In, Out]) Spec() *ToolSpec {
	return t.spec
}

// Execute decodes params strictly into In and invokes the handler.
// Arguments that do not parse become an invalid-params error without
// the handler running.
func (t *TypedTool[In, Out]) Execute(ctx context.Context, params json.RawMessage) (*Result, error) {
	var input In
	if len(params) > 0 {
		if err := json.Unmarshal(params, &input); err != nil {
			return nil, NewInvalidParamsError(fmt.Sprintf("failed to parse arguments: %v", err))
		}
	}
	output, err := t.handler(ctx, input)
	if err != nil {
		return nil, err
	}
	return &Result{Output: output}, nil
}

// NewTool creates a TypedTool, panicking when schema generation fails.
// Tools are constructed at startup from static types; a failure there
// is a programming error and fails fast.
func NewTool[In, Out any](
	name, description string,
	handler func(context.Context, In) (Out, error),
) Tool {
	tool, err := NewToolWithError[In, Out](name, description, handler)
	if err != nil {
		panic(fmt.Sprintf("failed to create tool %q: %v", name, err))
	}
	return tool
}

// NewToolWithError is NewTool with explicit error handling.
func NewToolWithError[In, Out any](
	name, description string,
	handler func(context.Context, In) (Out, error),
) (Tool, error) {
	parameters, err := schemaFor[In]()
	if err != nil {
		return nil, fmt.Errorf("generating input schema: %w", err)
	}

	return &TypedTool[In, Out]{
		spec: &ToolSpec{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
		handler: handler,
	}, nil
}
