// Package toolserver serves the resolved engine output of one document as
// MCP tools over stdio, so agents can query operations and type
// declarations without generating files first.
package toolserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/typebind-dev/typebind/pkg/plugin"
)

const serverInstructions = `typebind MCP server: exposes the resolved types and operation bindings of one OpenAPI document.

Tools: list_operations (mapped operations with their type names), get_operation (types for one path+method), list_types (named declarations), get_type (one declaration rendered as Go source), coverage (type-coverage summary).`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context, gen *plugin.Context, version string) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "typebind", Version: version},
		&mcp.ServerOptions{Instructions: serverInstructions},
	)
	registerTools(server, gen)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerTools(server *mcp.Server, gen *plugin.Context) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_operations",
		Description: "List every operation that resolved to at least one concrete type, with its request and response type names.",
	}, handleListOperations(gen))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_operation",
		Description: "Return the resolved request and response type names for one path and HTTP method.",
	}, handleGetOperation(gen))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_types",
		Description: "List every named type declaration produced for the document, component schemas first.",
	}, handleListTypes(gen))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_type",
		Description: "Return one named type declaration rendered as Go source.",
	}, handleGetType(gen))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "coverage",
		Description: "Return the type-coverage summary: totals and per-location typed/untyped counts.",
	}, handleCoverage(gen))
}
