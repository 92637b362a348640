package catalogue

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/devbridge/workbench-gateway/internal/dispatch"
)

// gatewayVersion is reported to MCP clients during the stdio handshake.
const gatewayVersion = "1.0.0"

// NewMCPServer bridges a dispatch.Registry onto an mcp-go server: every
// registered Tool becomes an MCP tool, with its JSON-shaped Schema()
// passed through as the raw input schema and its Execute() result folded
// into mcp-go's CallToolResult (spec §6 "Tool transport").
func NewMCPServer(registry *dispatch.Registry, policy *dispatch.Policy) (*server.MCPServer, error) {
	mcpServer := server.NewMCPServer("workbench-gateway", gatewayVersion)
	dispatcher := dispatch.NewDispatcher(registry, policy)

	for _, tool := range registry.List() {
		if policy != nil && !policy.Allowed(tool.Name()) {
			continue
		}
		schema, err := json.Marshal(tool.Schema())
		if err != nil {
			return nil, err
		}
		mcpTool := mcp.NewToolWithRawSchema(tool.Name(), tool.Description(), schema)
		mcpServer.AddTool(mcpTool, mcpHandler(dispatcher, tool.Name()))
	}

	return mcpServer, nil
}

// mcpHandler adapts one dispatcher call into mcp-go's ToolHandlerFunc
// shape, folding dispatch.Result's {content, isError} envelope into
// mcp-go's CallToolResult.
func mcpHandler(dispatcher *dispatch.Dispatcher, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := dispatcher.Dispatch(ctx, name, dispatch.Args(request.GetArguments()))

		if result.IsError {
			return mcp.NewToolResultError(joinSegments(result.Content)), nil
		}
		return mcp.NewToolResultText(joinSegments(result.Content)), nil
	}
}

func joinSegments(segments []string) string {
	if len(segments) == 1 {
		return segments[0]
	}
	out := ""
	for i, s := range segments {
		if i > 0 {
			out += "\n"
		}
		out += s
	}
	return out
}

// ServeStdio runs the MCP server over stdio. It blocks until the client
// disconnects (stdin closes) or the process errors out; cmd/root.go's
// serve command races this against the auxiliary sink and signal handling
// under an errgroup.
func ServeStdio(mcpServer *server.MCPServer) error {
	return server.ServeStdio(mcpServer)
}
