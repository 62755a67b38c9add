package mcp

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SimpleSchema builds the parameter schema of a module function from a map
// of parameter names to Go type names, e.g. {"id": "string", "limit": "int?"}.
// A trailing "?" marks the parameter optional; every other one is required.
func SimpleSchema(params map[string]string) *jsonschema.Schema {
	properties := make(map[string]*jsonschema.Schema, len(params))
	required := make([]string, 0, len(params))

	for name, spec := range params {
		goType, optional := strings.CutSuffix(spec, "?")

		properties[name] = goTypeToJSONSchema(goType)

		if !optional {
			required = append(required, name)
		}
	}

	slices.Sort(required)

	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// goTypeToJSONSchema maps a Go type name to the JSON type the host decodes it
// from. Unknown names are treated as strings.
func goTypeToJSONSchema(goType string) *jsonschema.Schema {
	if elem, ok := strings.CutPrefix(goType, "[]"); ok && elem != "" {
		return &jsonschema.Schema{Type: "array", Items: goTypeToJSONSchema(elem)}
	}

	if strings.HasPrefix(goType, "map[") {
		return &jsonschema.Schema{Type: "object"}
	}

	switch strings.TrimPrefix(goType, "*") {
	case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
		return &jsonschema.Schema{Type: "integer"}
	case "float32", "float64", "float", "number":
		return &jsonschema.Schema{Type: "number"}
	case "bool", "boolean":
		return &jsonschema.Schema{Type: "boolean"}
	case "any", "object":
		return &jsonschema.Schema{Type: "object"}
	default:
		return &jsonschema.Schema{Type: "string"}
	}
}

// TextResult creates a CallToolResult with text content.
func TextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// ErrorResult creates a CallToolResult indicating an error.
func ErrorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: message},
		},
		IsError: true,
	}
}

// JSONResult wraps a module reply as tool output. A string reply is returned
// as is; anything else is encoded as JSON, so a function that returns nothing
// yields "null".
func JSONResult(v any) *mcp.CallToolResult {
	if text, ok := v.(string); ok {
		return TextResult(text)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return ErrorResult(fmt.Sprintf("failed to marshal result: %v", err))
	}

	return TextResult(string(data))
}

// NewTool creates an mcp.Tool with the given parameters. A nil schema accepts
// any object.
func NewTool(name, description string, inputSchema *jsonschema.Schema) *mcp.Tool {
	if inputSchema == nil {
		inputSchema = &jsonschema.Schema{Type: "object"}
	}

	return &mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: inputSchema,
	}
}

// ParseArguments decodes tool arguments into the params object sent with a
// module function call. Missing arguments decode to an empty object.
func ParseArguments(req *mcp.CallToolRequest) (map[string]any, error) {
	if req == nil || req.Params == nil {
		return make(map[string]any), nil
	}

	if len(req.Params.Arguments) == 0 {
		return make(map[string]any), nil
	}

	var args map[string]any
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return nil, fmt.Errorf("failed to unmarshal arguments: %w", err)
	}

	return args, nil
}
