// Package httpclient is the plain net/http output backend. It renders one
// client method per mapped operation against the named request and response
// types from the models file.
package httpclient

import (
	"embed"
	"fmt"
	"path"
	"regexp"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/typebind-dev/typebind/pkg/emit"
	"github.com/typebind-dev/typebind/pkg/extractor"
	"github.com/typebind-dev/typebind/pkg/naming"
	"github.com/typebind-dev/typebind/pkg/plugin"
)

//go:embed templates/*
var templatesFS embed.FS

// Backend implements the plugin contract for the basic HTTP client flavor.
type Backend struct{}

// New returns the backend.
func New() *Backend { return &Backend{} }

func (b *Backend) ID() string        { return "httpclient" }
func (b *Backend) Aliases() []string { return []string{"http", "client"} }
func (b *Backend) Kind() plugin.Kind { return plugin.KindHTTPClient }

// CanRun always passes; the plain client has no environment requirements.
func (b *Backend) CanRun(*plugin.Context) plugin.Capability { return plugin.Runnable() }

func (b *Backend) ResolveOutputs(ctx *plugin.Context) plugin.Outputs {
	return plugin.Outputs{
		ServicePath: "client.go",
		Artifacts: []plugin.Artifact{
			{Path: "models.go", Role: "models"},
			{Path: "client.go", Role: "client"},
		},
	}
}

// Method is the template view of one generated client method.
type Method struct {
	Name         string
	HTTPMethod   string
	PathTemplate string
	PathParams   []string
	RequestType  string
	ResponseType string
}

// Generate renders models.go and client.go.
func (b *Backend) Generate(ctx *plugin.Context) (plugin.Generation, error) {
	methods := Methods(ctx)
	clientSrc, err := render("client.go.gotmpl", map[string]any{
		"Package": ctx.PackageName,
		"Title":   ctx.Title(),
		"Version": ctx.Version(),
		"Methods": methods,
	})
	if err != nil {
		return plugin.Generation{}, err
	}
	return plugin.Generation{
		Files: []plugin.File{
			{Path: "models.go", Content: emit.RenderModels(ctx.PackageName, ctx.Models)},
			{Path: "client.go", Content: clientSrc},
		},
		MethodCount: len(methods),
	}, nil
}

// Methods builds the template view for every mapped operation.
func Methods(ctx *plugin.Context) []Method {
	var out []Method
	for _, ref := range ctx.SortedOperations() {
		out = append(out, MethodFor(ctx.Doc, ref))
	}
	return out
}

// MethodFor builds the template view of a single mapped operation. The
// service backend reuses it for its per-tag grouping.
func MethodFor(doc *openapi3.T, ref plugin.OperationRef) Method {
	op := lookupOperation(doc, ref.Path, ref.Method)
	return Method{
		Name:         extractor.BaseName(ref.Path, ref.Method, op),
		HTTPMethod:   ref.Method,
		PathTemplate: pathTemplate(ref.Path),
		PathParams:   pathParams(ref.Path),
		RequestType:  ref.Types.RequestType,
		ResponseType: ref.Types.ResponseType,
	}
}

// OperationTag returns the first tag of the operation at (path, method), or
// "misc" when untagged.
func OperationTag(doc *openapi3.T, p, method string) string {
	if op := lookupOperation(doc, p, method); op != nil && len(op.Tags) > 0 {
		return op.Tags[0]
	}
	return "misc"
}

func lookupOperation(doc *openapi3.T, p, method string) *openapi3.Operation {
	if doc == nil || doc.Paths == nil {
		return &openapi3.Operation{}
	}
	item := doc.Paths.Value(p)
	if item == nil {
		return &openapi3.Operation{}
	}
	if op := item.GetOperation(method); op != nil {
		return op
	}
	return &openapi3.Operation{}
}

var pathParamPattern = regexp.MustCompile(`\{([^}]+)\}`)

// pathTemplate rewrites {param} placeholders into %v format verbs.
func pathTemplate(p string) string {
	return pathParamPattern.ReplaceAllString(p, "%v")
}

// pathParams returns the camel-cased parameter names in path order.
func pathParams(p string) []string {
	var params []string
	for _, m := range pathParamPattern.FindAllStringSubmatch(p, -1) {
		params = append(params, naming.ToCamelCase(m[1]))
	}
	return params
}

func render(name string, data map[string]any) (string, error) {
	raw, err := templatesFS.ReadFile(path.Join("templates", name))
	if err != nil {
		return "", fmt.Errorf("read template %s: %w", name, err)
	}
	funcs := template.FuncMap{
		"pascal": naming.ToPascalCase,
		"camel":  naming.ToCamelCase,
		"snake":  naming.ToSnakeCase,
	}
	for k, v := range sprig.FuncMap() {
		funcs[k] = v
	}
	tmpl, err := template.New(name).Funcs(funcs).Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return b.String(), nil
}
