package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/valu-sdk-go/internal/errors"
)

// Invoker is the part of a module handle the bridge needs.
type Invoker interface {
	Name() string
	Invoke(ctx context.Context, functionName string, params any) (any, error)
}

// Function describes one module function to expose as a tool.
type Function struct {
	// Name is the module function name.
	Name string
	// Description is shown to MCP clients.
	Description string
	// Schema describes the parameters. Nil accepts any object.
	Schema *jsonschema.Schema
	// Annotations are optional hints about the function's behaviour.
	Annotations *mcp.ToolAnnotations
}

// ToolServer holds a registry of tools for direct invocation and for mounting
// on an MCP SDK server.
type ToolServer struct {
	name    string
	version string
	mu      sync.RWMutex
	tools   map[string]*registeredTool
}

type registeredTool struct {
	tool    *mcp.Tool
	handler mcp.ToolHandler
}

// NewToolServer creates an empty tool server.
func NewToolServer(name, version string) *ToolServer {
	return &ToolServer{
		name:    name,
		version: version,
		tools:   make(map[string]*registeredTool, 8),
	}
}

// NewModuleToolServer creates a tool server named after module with one tool
// per function. Each tool invokes the function with the tool arguments and
// returns the module's reply as JSON text.
func NewModuleToolServer(module Invoker, version string, fns ...Function) *ToolServer {
	s := NewToolServer(module.Name(), version)

	for _, fn := range fns {
		tool := NewTool(ToolName(module.Name(), fn.Name), fn.Description, fn.Schema)
		tool.Annotations = fn.Annotations

		s.AddTool(tool, invokeHandler(module, fn.Name))
	}

	return s
}

// ToolName is the tool name used for a module function.
func ToolName(module, function string) string {
	return sanitize(module) + "__" + sanitize(function)
}

// sanitize keeps tool names within the characters MCP clients accept.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, s)
}

// invokeHandler adapts a module function to an mcp.ToolHandler. Host errors
// become error results; a stopped client or cancelled context is returned as
// an error.
func invokeHandler(module Invoker, function string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := ParseArguments(req)
		if err != nil {
			return ErrorResult(err.Error()), nil
		}

		result, err := module.Invoke(ctx, function, args)
		if err != nil {
			if invErr, ok := stderrors.AsType[*errors.InvocationError](err); ok {
				return ErrorResult(invErr.Message), nil
			}

			return nil, err
		}

		return JSONResult(result), nil
	}
}

// AddTool registers a tool with the server, replacing one of the same name.
func (s *ToolServer) AddTool(tool *mcp.Tool, handler mcp.ToolHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools[tool.Name] = &registeredTool{
		tool:    tool,
		handler: handler,
	}
}

// Name returns the server name.
func (s *ToolServer) Name() string {
	return s.name
}

// Version returns the server version.
func (s *ToolServer) Version() string {
	return s.version
}

// ListTools returns the registered tools sorted by name.
func (s *ToolServer) ListTools() []*mcp.Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*mcp.Tool, 0, len(s.tools))
	for _, t := range s.tools {
		out = append(out, t.tool)
	}

	slices.SortFunc(out, func(a, b *mcp.Tool) int {
		return strings.Compare(a.Name, b.Name)
	})

	return out
}

// CallTool executes a tool by name with the given input. Lookup and argument
// failures are reported as error results, not errors.
func (s *ToolServer) CallTool(ctx context.Context, name string, input map[string]any) (*mcp.CallToolResult, error) {
	s.mu.RLock()
	t, exists := s.tools[name]
	s.mu.RUnlock()

	if !exists {
		return ErrorResult("Tool not found: " + name), nil
	}

	inputBytes, err := json.Marshal(input)
	if err != nil {
		return ErrorResult("Failed to marshal input: " + err.Error()), nil
	}

	req := &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      name,
			Arguments: inputBytes,
		},
	}

	result, err := t.handler(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("tool %s: %w", name, err)
	}

	return result, nil
}

// MCPServer builds an MCP SDK server carrying every registered tool. Serve it
// with (*mcp.Server).Run or Connect on any MCP transport.
func (s *ToolServer) MCPServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: s.name, Version: s.version}, nil)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tools {
		server.AddTool(t.tool, t.handler)
	}

	return server
}
