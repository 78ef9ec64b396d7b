package tools

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// MarshalOutput renders a tool output as the text content the host
// receives. Strings pass through unquoted; everything else becomes its
// JSON representation.
func MarshalOutput(logger *slog.Logger, o any) string {
	if str, ok := o.(string); ok {
		return str
	}

	outputBytes, err := json.Marshal(o)
	if err != nil {
		logger.Error("error marshalling tool output",
			"error", err,
			"type", fmt.Sprintf("%T", o))
		return ""
	}
	return string(outputBytes)
}
