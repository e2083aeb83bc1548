// Package extractor walks every operation in a validated document and
// resolves or synthesizes the named request/response types, producing the
// declarations and the operation type map that backends consume.
package extractor

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/typebind-dev/typebind/pkg/naming"
	"github.com/typebind-dev/typebind/pkg/resolver"
	"github.com/typebind-dev/typebind/pkg/schema"
	"github.com/typebind-dev/typebind/pkg/typemodel"
)

// Result is the engine output of one extraction pass: component-schema
// declarations in name order, followed by operation-body declarations in
// synthesis order, plus the per-operation type map.
type Result struct {
	Models     []typemodel.NamedType
	Operations typemodel.OperationTypeMap
}

type extraction struct {
	doc    *openapi3.T
	reg    *naming.Registry
	models []typemodel.NamedType
	ops    typemodel.OperationTypeMap
}

// Extract resolves every component schema and every operation of doc using
// the run's registry. Per-operation failures are recovered and logged; they
// never abort the pass.
func Extract(doc *openapi3.T, reg *naming.Registry) Result {
	e := &extraction{doc: doc, reg: reg, ops: make(typemodel.OperationTypeMap)}
	e.components()
	e.operations()
	return Result{Models: e.models, Operations: e.ops}
}

// components declares one named type per component schema, in name order.
func (e *extraction) components() {
	if e.doc.Components == nil || e.doc.Components.Schemas == nil {
		return
	}
	names := make([]string, 0, len(e.doc.Components.Schemas))
	for name := range e.doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		allocated := e.reg.Allocate(name)
		d := resolver.Resolve(schema.FromRef(e.doc.Components.Schemas[name]), e.reg)
		e.models = append(e.models, typemodel.NamedType{
			Name:       allocated,
			Descriptor: d,
			Origin:     typemodel.OriginComponentSchema,
		})
	}
}

var methodOrder = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD", "TRACE"}

func (e *extraction) operations() {
	if e.doc.Paths == nil {
		return
	}
	paths := make([]string, 0, e.doc.Paths.Len())
	for path := range e.doc.Paths.Map() {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		item := e.doc.Paths.Value(path)
		if item == nil {
			continue
		}
		for _, method := range methodOrder {
			if op := item.GetOperation(method); op != nil {
				e.operation(path, method, op)
			}
		}
	}
}

// operation derives the types for a single (path, method) pair. Anything
// that goes wrong here is logged and the operation skipped; the rest of the
// run continues.
func (e *extraction) operation(path, method string, op *openapi3.Operation) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("operation type generation failed, omitting",
				"path", path, "method", method, "cause", r)
		}
	}()

	base := BaseName(path, method, op)
	var types typemodel.OperationTypes
	if sr := requestSchema(op); sr != nil {
		types.RequestType = e.bodyType(sr, base+"Request")
	}
	if sr := responseSchema(op); sr != nil {
		types.ResponseType = e.bodyType(sr, base+"Response")
	}
	if types.RequestType == "" && types.ResponseType == "" {
		return
	}
	e.ops.Set(path, method, types)
}

// bodyType resolves one content schema. A bare named reference is reused
// as-is; anything else concrete becomes a new inline-operation declaration.
// Unknown yields no name, so consumers fall back to their "any" type.
func (e *extraction) bodyType(sr *openapi3.SchemaRef, title string) string {
	d := resolver.Resolve(schema.FromRef(sr), e.reg)
	if name := d.BareRef(); name != "" {
		return name
	}
	if d.IsUnknown() {
		return ""
	}
	name := e.reg.Allocate(title)
	e.models = append(e.models, typemodel.NamedType{
		Name:       name,
		Descriptor: d,
		Origin:     typemodel.OriginOperationBody,
	})
	return name
}

// BaseName prefers the operation's own identifier; otherwise it is derived
// from the method and path, folding path parameters into By<Param> suffixes
// (GET /users/{id}/pets -> GetUsersByIdPets).
func BaseName(path, method string, op *openapi3.Operation) string {
	if op.OperationID != "" {
		return naming.ToPascalCase(op.OperationID)
	}
	var b strings.Builder
	b.WriteString(naming.ToPascalCase(strings.ToLower(method)))
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			b.WriteString("By" + naming.ToPascalCase(strings.Trim(seg, "{}")))
			continue
		}
		b.WriteString(naming.ToPascalCase(seg))
	}
	return b.String()
}

// requestSchema picks the request body content schema, preferring a JSON
// media type over whatever is declared first.
func requestSchema(op *openapi3.Operation) *openapi3.SchemaRef {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	return preferredContent(op.RequestBody.Value.Content)
}

// responseSchema picks the best success response: 200, then 201, then the
// lowest remaining 2xx code.
func responseSchema(op *openapi3.Operation) *openapi3.SchemaRef {
	if op.Responses == nil {
		return nil
	}
	m := op.Responses.Map()
	for _, code := range successCodes(m) {
		rr := m[code]
		if rr == nil || rr.Value == nil {
			continue
		}
		if sr := preferredContent(rr.Value.Content); sr != nil {
			return sr
		}
	}
	return nil
}

func successCodes(responses map[string]*openapi3.ResponseRef) []string {
	var rest []string
	for code := range responses {
		if len(code) == 3 && code[0] == '2' && code != "200" && code != "201" {
			rest = append(rest, code)
		}
	}
	sort.Strings(rest)
	return append([]string{"200", "201"}, rest...)
}

func preferredContent(content openapi3.Content) *openapi3.SchemaRef {
	if len(content) == 0 {
		return nil
	}
	if media, ok := content["application/json"]; ok {
		return media.Schema
	}
	types := make([]string, 0, len(content))
	for ct := range content {
		types = append(types, ct)
	}
	sort.Strings(types)
	for _, ct := range types {
		if strings.Contains(ct, "json") {
			return content[ct].Schema
		}
	}
	return content[types[0]].Schema
}
