package tools

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// schemaFor generates the JSON schema map for a parameter type. The
// marshal/unmarshal round trip goes through jsonschema's custom
// marshalling so the map matches what a client would see on the wire.
// The "required" key is forced to an array; some MCP clients reject a
// null there.
func schemaFor[In any]() (map[string]any, error) {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		return nil, err
	}

	data, err := schema.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshalling schema: %w", err)
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("unmarshalling schema: %w", err)
	}

	if required, ok := result["required"]; !ok || required == nil {
		result["required"] = []string{}
	}
	return result, nil
}
