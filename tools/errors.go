package tools

import "fmt"

// Common error codes tools surface to the transport. These match the
// standard JSON-RPC 2.0 codes.
const (
	CodeInvalidParams = -32602
	CodeInternalError = -32603
)

// Error is an error from tool execution that carries a code for the
// transport layer. Codes in the reserved JSON-RPC range become
// protocol-level errors; anything else is reported as a tool failure.
type Error struct {
	Code    int
	Message string
	Data    any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (code: %d): %v", e.Message, e.Code, e.Cause)
	}
	return fmt.Sprintf("%s (code: %d)", e.Message, e.Code)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a tool error.
func NewError(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewInvalidParamsError creates an error reporting malformed or invalid
// arguments, surfaced to the host as JSON-RPC invalid params.
func NewInvalidParamsError(message string) *Error {
	return &Error{Code: CodeInvalidParams, Message: message}
}
