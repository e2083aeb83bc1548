// Package service is the framework service-class output backend: operations
// grouped into per-tag service structs hanging off a root client. It only
// runs inside a framework project and falls back to the plain HTTP client
// elsewhere.
package service

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/typebind-dev/typebind/pkg/backends/httpclient"
	"github.com/typebind-dev/typebind/pkg/emit"
	"github.com/typebind-dev/typebind/pkg/naming"
	"github.com/typebind-dev/typebind/pkg/plugin"
)

//go:embed templates/*
var templatesFS embed.FS

// Backend implements the plugin contract for the service-class flavor.
type Backend struct{}

// New returns the backend.
func New() *Backend { return &Backend{} }

func (b *Backend) ID() string        { return "service" }
func (b *Backend) Aliases() []string { return []string{"svc", "service-class"} }
func (b *Backend) Kind() plugin.Kind { return plugin.KindHTTPClient }

// CanRun requires a framework project; otherwise it defers to the plain
// HTTP client backend.
func (b *Backend) CanRun(ctx *plugin.Context) plugin.Capability {
	if !ctx.FrameworkProject {
		return plugin.Capability{
			OK:         false,
			Reason:     "output location is not a framework project",
			FallbackID: "httpclient",
		}
	}
	return plugin.Runnable()
}

func (b *Backend) ResolveOutputs(ctx *plugin.Context) plugin.Outputs {
	return plugin.Outputs{
		ServicePath: "services.go",
		Artifacts: []plugin.Artifact{
			{Path: "models.go", Role: "models"},
			{Path: "services.go", Role: "client"},
		},
	}
}

// Service is the template view of one tag group.
type Service struct {
	Name    string
	Field   string
	Methods []httpclient.Method
}

// Generate renders models.go and services.go.
func (b *Backend) Generate(ctx *plugin.Context) (plugin.Generation, error) {
	services, count := groupByTag(ctx)
	src, err := render("services.go.gotmpl", map[string]any{
		"Package":  ctx.PackageName,
		"Title":    ctx.Title(),
		"Services": services,
	})
	if err != nil {
		return plugin.Generation{}, err
	}
	return plugin.Generation{
		Files: []plugin.File{
			{Path: "models.go", Content: emit.RenderModels(ctx.PackageName, ctx.Models)},
			{Path: "services.go", Content: src},
		},
		MethodCount: count,
	}, nil
}

// groupByTag buckets mapped operations by their first tag, in tag order.
func groupByTag(ctx *plugin.Context) ([]Service, int) {
	byTag := make(map[string][]httpclient.Method)
	count := 0
	for _, ref := range ctx.SortedOperations() {
		tag := httpclient.OperationTag(ctx.Doc, ref.Path, ref.Method)
		byTag[tag] = append(byTag[tag], httpclient.MethodFor(ctx.Doc, ref))
		count++
	}
	tags := make([]string, 0, len(byTag))
	for tag := range byTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	services := make([]Service, 0, len(tags))
	for _, tag := range tags {
		services = append(services, Service{
			Name:    naming.ToPascalCase(tag) + "Service",
			Field:   naming.ToPascalCase(tag),
			Methods: byTag[tag],
		})
	}
	return services, count
}

func render(name string, data map[string]any) (string, error) {
	raw, err := templatesFS.ReadFile(path.Join("templates", name))
	if err != nil {
		return "", fmt.Errorf("read template %s: %w", name, err)
	}
	funcs := template.FuncMap{
		"pascal": naming.ToPascalCase,
		"camel":  naming.ToCamelCase,
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
