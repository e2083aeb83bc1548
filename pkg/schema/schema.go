// Package schema defines the tagged raw-schema fragment model consumed by
// the resolver. Converting the document's schema objects into an explicit
// variant up front keeps all shape-probing in one place; the resolver then
// switches exhaustively over Node kinds.
package schema

import (
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// NodeKind discriminates a Node.
type NodeKind string

const (
	// KindNone marks an absent or malformed fragment.
	KindNone   NodeKind = "none"
	KindRef    NodeKind = "ref"
	KindEnum   NodeKind = "enum"
	KindAnyOf  NodeKind = "anyOf"
	KindOneOf  NodeKind = "oneOf"
	KindAllOf  NodeKind = "allOf"
	KindArray  NodeKind = "array"
	KindObject NodeKind = "object"
	KindScalar NodeKind = "scalar"
)

// Node is an immutable, tagged view of one raw schema fragment. Only the
// fields relevant to Kind are populated. Nullable is orthogonal to Kind.
type Node struct {
	Kind     NodeKind
	Nullable bool

	// KindScalar
	Type   string // string, number, integer, boolean
	Format string

	// KindEnum
	Enum []any

	// KindRef: the referenced schema's raw name (last ref segment)
	Ref string

	// KindAnyOf / KindOneOf / KindAllOf
	Variants []Node

	// KindObject: properties in sorted name order plus the raw required list.
	// RequiredSet distinguishes `required: []` from an absent key so the
	// resolver can apply its required-field rule.
	Properties  []Property
	Required    []string
	RequiredSet bool

	// KindArray
	Items *Node
}

// Property is one named property of an object node.
type Property struct {
	Name   string
	Schema Node
}

// None returns the absent-fragment node.
func None() Node { return Node{Kind: KindNone} }

// FromRef converts a document schema reference into a Node. A nil or empty
// reference yields KindNone; it never fails.
func FromRef(sr *openapi3.SchemaRef) Node {
	if sr == nil {
		return None()
	}
	if sr.Ref != "" {
		if name := refTargetName(sr.Ref); name != "" {
			return Node{Kind: KindRef, Ref: name}
		}
		return None()
	}
	if sr.Value == nil {
		return None()
	}
	s := sr.Value

	if len(s.Enum) > 0 {
		return Node{Kind: KindEnum, Enum: s.Enum, Nullable: s.Nullable}
	}
	if len(s.AnyOf) > 0 {
		return Node{Kind: KindAnyOf, Variants: fromRefs(s.AnyOf), Nullable: s.Nullable}
	}
	if len(s.OneOf) > 0 {
		return Node{Kind: KindOneOf, Variants: fromRefs(s.OneOf), Nullable: s.Nullable}
	}
	if len(s.AllOf) > 0 {
		return Node{Kind: KindAllOf, Variants: fromRefs(s.AllOf), Nullable: s.Nullable}
	}

	if s.Type != nil {
		switch {
		case s.Type.Is(openapi3.TypeArray):
			var items *Node
			if s.Items != nil {
				n := FromRef(s.Items)
				items = &n
			}
			return Node{Kind: KindArray, Items: items, Nullable: s.Nullable}
		case s.Type.Is(openapi3.TypeObject):
			return objectNode(s)
		case s.Type.Is(openapi3.TypeString):
			return Node{Kind: KindScalar, Type: "string", Format: s.Format, Nullable: s.Nullable}
		case s.Type.Is(openapi3.TypeInteger):
			return Node{Kind: KindScalar, Type: "integer", Format: s.Format, Nullable: s.Nullable}
		case s.Type.Is(openapi3.TypeNumber):
			return Node{Kind: KindScalar, Type: "number", Format: s.Format, Nullable: s.Nullable}
		case s.Type.Is(openapi3.TypeBoolean):
			return Node{Kind: KindScalar, Type: "boolean", Nullable: s.Nullable}
		}
	}

	// Untyped objects still show up with bare properties in the wild.
	if len(s.Properties) > 0 {
		return objectNode(s)
	}
	return None()
}

func fromRefs(refs openapi3.SchemaRefs) []Node {
	out := make([]Node, 0, len(refs))
	for _, sr := range refs {
		out = append(out, FromRef(sr))
	}
	return out
}

func objectNode(s *openapi3.Schema) Node {
	names := make([]string, 0, len(s.Properties))
	for n := range s.Properties {
		names = append(names, n)
	}
	sort.Strings(names)
	props := make([]Property, 0, len(names))
	for _, n := range names {
		props = append(props, Property{Name: n, Schema: FromRef(s.Properties[n])})
	}
	return Node{
		Kind:        KindObject,
		Properties:  props,
		Required:    append([]string(nil), s.Required...),
		RequiredSet: s.Required != nil,
		Nullable:    s.Nullable,
	}
}

// refTargetName extracts the referenced schema name from a $ref string,
// handling both 3.x component refs and 2.0 definition refs. Unresolvable
// refs outside declared schemas still yield their last segment; name
// allocation is best effort.
func refTargetName(ref string) string {
	for _, prefix := range []string{"#/components/schemas/", "#/definitions/"} {
		if strings.HasPrefix(ref, prefix) {
			return strings.TrimPrefix(ref, prefix)
		}
	}
	parts := strings.Split(ref, "/")
	if len(parts) > 0 {
		return parts[len(parts)-1]
	}
	return ""
}
