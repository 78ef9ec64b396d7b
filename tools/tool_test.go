package tools

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

type testInput struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type testOutput struct {
	Result string `json:"result"`
}

func testHandler(ctx context.Context, input testInput) (testOutput, error) {
	return testOutput{Result: "processed: " + input.Name}, nil
}

func TestNewToolSpec(t *testing.T) {
	tool := NewTool("test-tool", "A test tool", testHandler)

	spec := tool.Spec()
	if spec.Name != "test-tool" {
		t.Errorf("expected name 'test-tool', got %q", spec.Name)
	}
	if spec.Description != "A test tool" {
		t.Errorf("expected description 'A test tool', got %q", spec.Description)
	}
	if spec.Parameters == nil {
		t.Fatal("parameters should not be nil")
	}
	if spec.Parameters["type"] != "object" {
		t.Errorf("expected object schema, got %v", spec.Parameters["type"])
	}
	props, ok := spec.Parameters["properties"].(map[string]any)
	if !ok {
		t.Fatal("expected properties map in schema")
	}
	if _, ok := props["name"]; !ok {
		t.Error("schema missing 'name' property")
	}
	if _, ok := props["value"]; !ok {
		t.Error("schema missing 'value' property")
	}
	if _, ok := spec.Parameters["required"].([]any); !ok {
		if _, ok := spec.Parameters["required"].([]string); !ok {
			t.Errorf("required should be an array, got %T", spec.Parameters["required"])
		}
	}
}

func TestExecuteSuccess(t *testing.T) {
	tool := NewTool("test-tool", "A test tool", testHandler)

	result, err := tool.Execute(context.Background(), json.RawMessage(`{"name":"abc","value":2}`))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	output, ok := result.Output.(testOutput)
	if !ok {
		t.Fatalf("unexpected output type %T", result.Output)
	}
	if output.Result != "processed: abc" {
		t.Errorf("unexpected output: %q", output.Result)
	}
}

func TestExecuteEmptyParams(t *testing.T) {
	tool := NewTool("test-tool", "A test tool", testHandler)

	result, err := tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Output.(testOutput).Result != "processed: " {
		t.Errorf("expected zero-value input, got %+v", result.Output)
	}
}

func TestExecuteMalformedParams(t *testing.T) {
	tool := NewTool("test-tool", "A test tool", testHandler)

	for _, params := range []string{
		`{"value": "not_an_int"}`,
		`{"name": 1}`,
		`{bad json`,
	} {
		_, err := tool.Execute(context.Background(), json.RawMessage(params))
		if err == nil {
			t.Fatalf("expected error for params %s", params)
		}
		var toolErr *Error
		if !errors.As(err, &toolErr) {
			t.Fatalf("expected *tools.Error, got %T", err)
		}
		if toolErr.Code != CodeInvalidParams {
			t.Errorf("expected code %d, got %d", CodeInvalidParams, toolErr.Code)
		}
	}
}

func TestExecuteHandlerError(t *testing.T) {
	wantErr := errors.New("handler failed")
	tool := NewTool("test-tool", "A test tool", func(ctx context.Context, input testInput) (testOutput, error) {
		return testOutput{}, wantErr
	})

	_, err := tool.Execute(context.Background(), json.RawMessage(`{}`))
	if !errors.Is(err, wantErr) {
		t.Errorf("expected handler error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := NewTool("valid_tool-1", "A valid tool", testHandler)
	if err := Validate(valid); err != nil {
		t.Errorf("expected valid tool, got %v", err)
	}

	cases := []struct {
		name string
		tool Tool
	}{
		{"nil tool", nil},
		{"empty name", NewTool("", "desc", testHandler)},
		{"bad characters", NewTool("bad name!", "desc", testHandler)},
		{"long name", NewTool(strings.Repeat("x", 65), "desc", testHandler)},
		{"empty description", NewTool("tool", "", testHandler)},
	}
	for _, tc := range cases {
		if err := Validate(tc.tool); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestMarshalOutput(t *testing.T) {
	logger := slog.Default()

	if got := MarshalOutput(logger, "plain text"); got != "plain text" {
		t.Errorf("string output should pass through, got %q", got)
	}

	got := MarshalOutput(logger, testOutput{Result: "ok"})
	if got != `{"result":"ok"}` {
		t.Errorf("unexpected JSON output: %s", got)
	}
}
