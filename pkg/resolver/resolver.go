// Package resolver turns raw schema nodes into type descriptors. Resolution
// is a pure function over the node plus a run-scoped name registry; it never
// fails. Malformed or absent fragments degrade to the Unknown sentinel so a
// single bad schema never aborts a run.
package resolver

import (
	"fmt"
	"strconv"

	"github.com/typebind-dev/typebind/pkg/naming"
	"github.com/typebind-dev/typebind/pkg/schema"
	"github.com/typebind-dev/typebind/pkg/typemodel"
)

// Resolve maps a schema node to its type descriptor. First matching rule
// wins: ref, enum, anyOf/oneOf, allOf, array, object, primitive. A nullable
// node gets a null variant appended to whatever resolved.
func Resolve(n schema.Node, reg *naming.Registry) typemodel.Descriptor {
	d := resolveBare(n, reg)
	if n.Nullable && !d.IsUnknown() && n.Kind != schema.KindRef {
		d = appendNull(d)
	}
	return d
}

func resolveBare(n schema.Node, reg *naming.Registry) typemodel.Descriptor {
	switch n.Kind {
	case schema.KindRef:
		return typemodel.Descriptor{Kind: typemodel.KindRef, Ref: reg.Allocate(n.Ref)}

	case schema.KindEnum:
		if len(n.Enum) == 0 {
			return typemodel.Unknown()
		}
		values := make([]string, 0, len(n.Enum))
		for _, v := range n.Enum {
			values = append(values, enumLiteral(v))
		}
		return typemodel.Descriptor{Kind: typemodel.KindEnum, EnumValues: values}

	case schema.KindAnyOf, schema.KindOneOf:
		variants := resolveVariants(n.Variants, reg)
		switch len(variants) {
		case 0:
			return typemodel.Unknown()
		case 1:
			return variants[0]
		}
		return typemodel.Descriptor{Kind: typemodel.KindUnion, Variants: variants}

	case schema.KindAllOf:
		variants := resolveVariants(n.Variants, reg)
		switch len(variants) {
		case 0:
			return typemodel.Unknown()
		case 1:
			return variants[0]
		}
		if merged, ok := mergeObjects(variants); ok {
			return merged
		}
		return typemodel.Descriptor{Kind: typemodel.KindIntersection, Variants: variants}

	case schema.KindArray:
		if n.Items == nil {
			return typemodel.Unknown()
		}
		elem := Resolve(*n.Items, reg)
		return typemodel.Descriptor{Kind: typemodel.KindArray, Elem: &elem}

	case schema.KindObject:
		if len(n.Properties) == 0 {
			return typemodel.Unknown()
		}
		return resolveObject(n, reg)

	case schema.KindScalar:
		return resolveScalar(n)
	}
	return typemodel.Unknown()
}

// resolveVariants resolves each variant and drops the ones that degrade to
// Unknown, so one unresolvable branch does not poison the whole union.
func resolveVariants(nodes []schema.Node, reg *naming.Registry) []typemodel.Descriptor {
	out := make([]typemodel.Descriptor, 0, len(nodes))
	for _, v := range nodes {
		if d := Resolve(v, reg); !d.IsUnknown() {
			out = append(out, d)
		}
	}
	return out
}

// resolveObject applies the required-field rule: a present non-empty
// required list marks only the listed properties required; an absent or
// explicitly empty list marks every declared property required. The empty
// case intentionally mirrors the absent case.
func resolveObject(n schema.Node, reg *naming.Registry) typemodel.Descriptor {
	listed := make(map[string]bool, len(n.Required))
	for _, name := range n.Required {
		listed[name] = true
	}
	allRequired := len(n.Required) == 0

	fields := make([]typemodel.Field, 0, len(n.Properties))
	for _, p := range n.Properties {
		fields = append(fields, typemodel.Field{
			Name:     p.Name,
			Type:     Resolve(p.Schema, reg),
			Required: allRequired || listed[p.Name],
		})
	}
	return typemodel.Descriptor{Kind: typemodel.KindObject, Fields: fields}
}

func resolveScalar(n schema.Node) typemodel.Descriptor {
	switch n.Type {
	case "string":
		// date-time stays a plain string; no implicit date parsing. A
		// numeric format flags legacy numeric-as-string fields.
		if n.Format == "numeric" {
			return typemodel.Descriptor{Kind: typemodel.KindScalar, Scalar: typemodel.ScalarNumber}
		}
		return typemodel.Descriptor{Kind: typemodel.KindScalar, Scalar: typemodel.ScalarString}
	case "number", "integer":
		return typemodel.Descriptor{Kind: typemodel.KindScalar, Scalar: typemodel.ScalarNumber}
	case "boolean":
		return typemodel.Descriptor{Kind: typemodel.KindScalar, Scalar: typemodel.ScalarBoolean}
	}
	return typemodel.Unknown()
}

// mergeObjects collapses an allOf whose variants are all object literals
// into a single object literal over the union of their field sets.
func mergeObjects(variants []typemodel.Descriptor) (typemodel.Descriptor, bool) {
	for _, v := range variants {
		if v.Kind != typemodel.KindObject {
			return typemodel.Descriptor{}, false
		}
	}
	seen := make(map[string]bool)
	var fields []typemodel.Field
	for _, v := range variants {
		for _, f := range v.Fields {
			if seen[f.Name] {
				continue
			}
			seen[f.Name] = true
			fields = append(fields, f)
		}
	}
	return typemodel.Descriptor{Kind: typemodel.KindObject, Fields: fields}, true
}

func appendNull(d typemodel.Descriptor) typemodel.Descriptor {
	null := typemodel.Descriptor{Kind: typemodel.KindScalar, Scalar: typemodel.ScalarNull}
	if d.Kind == typemodel.KindUnion {
		d.Variants = append(d.Variants, null)
		return d
	}
	return typemodel.Descriptor{Kind: typemodel.KindUnion, Variants: []typemodel.Descriptor{d, null}}
}

// enumLiteral renders one enum member: strings are quoted, everything else
// is stringified verbatim.
func enumLiteral(v any) string {
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	return fmt.Sprint(v)
}
