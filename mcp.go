package valusdk

import (
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	internalmcp "github.com/wagiedev/valu-sdk-go/internal/mcp"
)

// Re-export MCP SDK types for public API.
type (
	// CallToolResult is the server's response to a tool call.
	CallToolResult = mcp.CallToolResult

	// CallToolRequest is the request passed to tool handlers.
	CallToolRequest = mcp.CallToolRequest

	// McpTool represents an MCP tool definition from the official SDK.
	McpTool = mcp.Tool

	// McpToolAnnotations describes optional hints about tool behavior.
	McpToolAnnotations = mcp.ToolAnnotations

	// Schema is a JSON Schema object for tool input validation.
	Schema = jsonschema.Schema
)

// ModuleFunction describes one module function exposed as an MCP tool.
type ModuleFunction = internalmcp.Function

// ModuleToolServer exposes module functions as MCP tools.
type ModuleToolServer = internalmcp.ToolServer

// NewModuleToolServer exposes functions of a bound module as MCP tools named
// "<module>__<function>". Tool arguments are passed to the function as its
// params and the module's reply is returned as JSON text; host errors become
// error results.
//
//	users, _ := client.GetModule(ctx, "users")
//	tools := valusdk.NewModuleToolServer(users, "1.0.0",
//	    valusdk.ModuleFunction{
//	        Name:        "getProfile",
//	        Description: "Fetch a user profile",
//	        Schema:      valusdk.SimpleSchema(map[string]string{"id": "string"}),
//	    },
//	)
//
//	// Serve over stdio to an MCP client.
//	err := tools.MCPServer().Run(ctx, &mcp.StdioTransport{})
func NewModuleToolServer(module *ModuleHandle, version string, fns ...ModuleFunction) *ModuleToolServer {
	return internalmcp.NewModuleToolServer(module, version, fns...)
}

// SimpleSchema creates a jsonschema.Schema from a simple type map.
//
// Input format: {"a": "float64", "b": "string", "limit": "int?"}. A trailing
// "?" makes the parameter optional.
//
// Type mappings:
//   - "string"           → {"type": "string"}
//   - "int", "int64"     → {"type": "integer"}
//   - "float64", "float" → {"type": "number"}
//   - "bool"             → {"type": "boolean"}
//   - "[]string"         → {"type": "array", "items": {"type": "string"}}
//   - "map[...]...", "any" → {"type": "object"}
func SimpleSchema(props map[string]string) *jsonschema.Schema {
	return internalmcp.SimpleSchema(props)
}

// TextResult creates a CallToolResult with text content.
func TextResult(text string) *mcp.CallToolResult {
	return internalmcp.TextResult(text)
}

// ErrorResult creates a CallToolResult indicating an error.
func ErrorResult(message string) *mcp.CallToolResult {
	return internalmcp.ErrorResult(message)
}
