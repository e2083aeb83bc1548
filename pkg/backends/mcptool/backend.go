// Package mcptool is the protocol-tool-server output backend. It emits a
// standalone MCP server program exposing one tool per mapped operation,
// each proxying to the upstream API with the generated model types.
package mcptool

import (
	"fmt"
	"strings"

	"github.com/typebind-dev/typebind/pkg/backends/httpclient"
	"github.com/typebind-dev/typebind/pkg/emit"
	"github.com/typebind-dev/typebind/pkg/naming"
	"github.com/typebind-dev/typebind/pkg/plugin"
)

// Backend implements the plugin contract for the MCP tool-server flavor.
type Backend struct{}

// New returns the backend.
func New() *Backend { return &Backend{} }

func (b *Backend) ID() string        { return "mcptool" }
func (b *Backend) Aliases() []string { return []string{"mcp", "tools"} }
func (b *Backend) Kind() plugin.Kind { return plugin.KindProtocolToolServer }

// CanRun always passes; the tool server has no environment requirements.
func (b *Backend) CanRun(*plugin.Context) plugin.Capability { return plugin.Runnable() }

func (b *Backend) ResolveOutputs(ctx *plugin.Context) plugin.Outputs {
	return plugin.Outputs{
		ServicePath: "toolserver/toolserver.go",
		Artifacts: []plugin.Artifact{
			{Path: "toolserver/models.go", Role: "models"},
			{Path: "toolserver/toolserver.go", Role: "server"},
		},
	}
}

// Generate renders the tool-server program into its own toolserver/
// directory. The program is a main package, so it must not share a
// directory with the client backends' models file. The tool count is
// reported as the method count.
func (b *Backend) Generate(ctx *plugin.Context) (plugin.Generation, error) {
	methods := httpclient.Methods(ctx)
	return plugin.Generation{
		Files: []plugin.File{
			{Path: "toolserver/models.go", Content: emit.RenderModels("main", ctx.Models)},
			{Path: "toolserver/toolserver.go", Content: renderToolServer(ctx, methods)},
		},
		MethodCount: len(methods),
	}, nil
}

// renderToolServer emits the server program source. One tool per operation;
// tool input carries path parameter values and an optional raw JSON body.
func renderToolServer(ctx *plugin.Context, methods []httpclient.Method) string {
	var b strings.Builder
	b.WriteString(emit.Header)
	b.WriteString(`
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type toolInput struct {
	PathParams map[string]string ` + "`json:\"path_params,omitempty\" jsonschema:\"Values for path placeholders\"`" + `
	Body       json.RawMessage   ` + "`json:\"body,omitempty\" jsonschema:\"Request body as raw JSON\"`" + `
}

type toolOutput struct {
	Status int             ` + "`json:\"status\"`" + `
	Body   json.RawMessage ` + "`json:\"body,omitempty\"`" + `
}

func callUpstream(ctx context.Context, method, pathTemplate string, params []string, in toolInput) (toolOutput, error) {
	path := pathTemplate
	args := make([]any, 0, len(params))
	for _, p := range params {
		args = append(args, in.PathParams[p])
	}
	if len(args) > 0 {
		path = fmt.Sprintf(pathTemplate, args...)
	}
	var body io.Reader
	if len(in.Body) > 0 {
		body = bytes.NewReader(in.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, os.Getenv("UPSTREAM_BASE_URL")+path, body)
	if err != nil {
		return toolOutput{}, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return toolOutput{}, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return toolOutput{}, err
	}
	return toolOutput{Status: resp.StatusCode, Body: data}, nil
}

func handler(method, pathTemplate string, params []string) func(context.Context, *mcp.CallToolRequest, toolInput) (*mcp.CallToolResult, toolOutput, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in toolInput) (*mcp.CallToolResult, toolOutput, error) {
		out, err := callUpstream(ctx, method, pathTemplate, params, in)
		if err != nil {
			return &mcp.CallToolResult{IsError: true}, toolOutput{}, err
		}
		return nil, out, nil
	}
}

func main() {
	server := mcp.NewServer(
`)
	fmt.Fprintf(&b, "\t\t&mcp.Implementation{Name: %q, Version: %q},\n\t\tnil,\n\t)\n",
		naming.ToSnakeCase(ctx.Title()), ctx.Version())
	for _, m := range methods {
		fmt.Fprintf(&b, "\tmcp.AddTool(server, &mcp.Tool{\n\t\tName:        %q,\n\t\tDescription: %q,\n\t}, handler(%q, %q, %s))\n",
			naming.ToSnakeCase(m.Name),
			toolDescription(m),
			m.HTTPMethod,
			m.PathTemplate,
			paramsLiteral(m.PathParams))
	}
	b.WriteString(`	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
`)
	return b.String()
}

func toolDescription(m httpclient.Method) string {
	desc := fmt.Sprintf("Call %s %s", m.HTTPMethod, m.PathTemplate)
	if m.ResponseType != "" {
		desc += ", returns " + m.ResponseType
	}
	if m.RequestType != "" {
		desc += ", accepts " + m.RequestType
	}
	return desc
}

func paramsLiteral(params []string) string {
	if len(params) == 0 {
		return "nil"
	}
	quoted := make([]string, 0, len(params))
	for _, p := range params {
		quoted = append(quoted, fmt.Sprintf("%q", p))
	}
	return "[]string{" + strings.Join(quoted, ", ") + "}"
}
