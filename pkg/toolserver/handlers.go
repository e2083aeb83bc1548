package toolserver

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/typebind-dev/typebind/pkg/emit"
	"github.com/typebind-dev/typebind/pkg/plugin"
	"github.com/typebind-dev/typebind/pkg/report"
)

type operationSummary struct {
	Path         string `json:"path"`
	Method       string `json:"method"`
	RequestType  string `json:"requestType,omitempty"`
	ResponseType string `json:"responseType,omitempty"`
}

type listOperationsOutput struct {
	Title      string             `json:"title"`
	Version    string             `json:"version"`
	Operations []operationSummary `json:"operations"`
}

func handleListOperations(gen *plugin.Context) func(context.Context, *mcp.CallToolRequest, struct{}) (*mcp.CallToolResult, listOperationsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, listOperationsOutput, error) {
		out := listOperationsOutput{Title: gen.Title(), Version: gen.Version()}
		for _, ref := range gen.SortedOperations() {
			out.Operations = append(out.Operations, operationSummary{
				Path:         ref.Path,
				Method:       ref.Method,
				RequestType:  ref.Types.RequestType,
				ResponseType: ref.Types.ResponseType,
			})
		}
		return nil, out, nil
	}
}

type getOperationInput struct {
	Path   string `json:"path" jsonschema:"the template path, e.g. /items/{id}"`
	Method string `json:"method" jsonschema:"the HTTP method, case-insensitive"`
}

func handleGetOperation(gen *plugin.Context) func(context.Context, *mcp.CallToolRequest, getOperationInput) (*mcp.CallToolResult, operationSummary, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, in getOperationInput) (*mcp.CallToolResult, operationSummary, error) {
		method := strings.ToUpper(strings.TrimSpace(in.Method))
		types, ok := gen.Operations.Lookup(in.Path, method)
		if !ok {
			return nil, operationSummary{}, fmt.Errorf("no mapped operation for %s %s", method, in.Path)
		}
		return nil, operationSummary{
			Path:         in.Path,
			Method:       method,
			RequestType:  types.RequestType,
			ResponseType: types.ResponseType,
		}, nil
	}
}

type typeSummary struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Origin string `json:"origin"`
}

type listTypesOutput struct {
	Total int           `json:"total"`
	Types []typeSummary `json:"types"`
}

func handleListTypes(gen *plugin.Context) func(context.Context, *mcp.CallToolRequest, struct{}) (*mcp.CallToolResult, listTypesOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, listTypesOutput, error) {
		out := listTypesOutput{Total: len(gen.Models)}
		for _, m := range gen.Models {
			out.Types = append(out.Types, typeSummary{
				Name:   m.Name,
				Kind:   string(m.Descriptor.Kind),
				Origin: string(m.Origin),
			})
		}
		return nil, out, nil
	}
}

type getTypeInput struct {
	Name string `json:"name" jsonschema:"the declared type name, as returned by list_types"`
}

type getTypeOutput struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

func handleGetType(gen *plugin.Context) func(context.Context, *mcp.CallToolRequest, getTypeInput) (*mcp.CallToolResult, getTypeOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, in getTypeInput) (*mcp.CallToolResult, getTypeOutput, error) {
		for _, m := range gen.Models {
			if m.Name == in.Name {
				return nil, getTypeOutput{Name: m.Name, Source: emit.Declaration(m)}, nil
			}
		}
		return nil, getTypeOutput{}, fmt.Errorf("unknown type %q", in.Name)
	}
}

type locationCoverage struct {
	Location string  `json:"location"`
	Total    int     `json:"total"`
	Typed    int     `json:"typed"`
	Untyped  int     `json:"untyped"`
	Percent  float64 `json:"percent"`
}

type coverageOutput struct {
	Total      int                `json:"total"`
	Typed      int                `json:"typed"`
	Untyped    int                `json:"untyped"`
	Percent    float64            `json:"percent"`
	ByLocation []locationCoverage `json:"byLocation"`
}

func handleCoverage(gen *plugin.Context) func(context.Context, *mcp.CallToolRequest, struct{}) (*mcp.CallToolResult, coverageOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, coverageOutput, error) {
		_, coverage := report.Build(gen.Doc, gen.Operations, time.Now())
		out := coverageOutput{
			Total:   coverage.Totals.Total,
			Typed:   coverage.Totals.Typed,
			Untyped: coverage.Totals.Untyped,
			Percent: coverage.Totals.CoveragePercentage,
		}
		var locations []string
		for loc := range coverage.ByLocation {
			locations = append(locations, string(loc))
		}
		sort.Strings(locations)
		for _, loc := range locations {
			c := coverage.ByLocation[report.Location(loc)]
			out.ByLocation = append(out.ByLocation, locationCoverage{
				Location: loc,
				Total:    c.Total,
				Typed:    c.Typed,
				Untyped:  c.Untyped,
				Percent:  c.CoveragePercentage,
			})
		}
		return nil, out, nil
	}
}
