// Package emit renders type descriptors into Go source text. Emission is
// separate from resolution so every backend renders the same descriptors
// without duplicating the resolver.
package emit

import (
	"fmt"
	"strings"

	"github.com/typebind-dev/typebind/pkg/naming"
	"github.com/typebind-dev/typebind/pkg/typemodel"
)

// Header is prepended to every generated source file.
const Header = "// Code generated by typebind. DO NOT EDIT.\n"

// GoType renders a descriptor as a Go type expression for use in field or
// signature position.
func GoType(d typemodel.Descriptor) string {
	switch d.Kind {
	case typemodel.KindScalar:
		switch d.Scalar {
		case typemodel.ScalarString:
			return "string"
		case typemodel.ScalarNumber:
			return "float64"
		case typemodel.ScalarBoolean:
			return "bool"
		}
		return "any"
	case typemodel.KindRef:
		return d.Ref
	case typemodel.KindArray:
		if d.Elem != nil {
			return "[]" + GoType(*d.Elem)
		}
		return "[]any"
	case typemodel.KindUnion:
		// A two-way union with null is the nullable idiom; everything else
		// has no direct Go spelling.
		if inner, ok := nullableInner(d); ok {
			return "*" + GoType(inner)
		}
		return "any"
	case typemodel.KindEnum:
		if allQuoted(d.EnumValues) {
			return "string"
		}
		return "float64"
	case typemodel.KindObject:
		return structLiteral(d, "")
	}
	return "any"
}

// nullableInner unwraps Union(X, null) into X.
func nullableInner(d typemodel.Descriptor) (typemodel.Descriptor, bool) {
	if d.Kind != typemodel.KindUnion || len(d.Variants) != 2 {
		return typemodel.Descriptor{}, false
	}
	for i, v := range d.Variants {
		if v.Kind == typemodel.KindScalar && v.Scalar == typemodel.ScalarNull {
			return d.Variants[1-i], true
		}
	}
	return typemodel.Descriptor{}, false
}

// RenderModels renders every named type as a top-level declaration, in the
// order given: component-derived declarations first, synthesized operation
// bodies after.
func RenderModels(pkg string, models []typemodel.NamedType) string {
	var b strings.Builder
	b.WriteString(Header)
	fmt.Fprintf(&b, "\npackage %s\n", pkg)
	for _, m := range models {
		b.WriteString("\n")
		b.WriteString(Declaration(m))
	}
	return b.String()
}

// Declaration renders one named type.
func Declaration(m typemodel.NamedType) string {
	d := m.Descriptor
	switch {
	case d.Kind == typemodel.KindObject:
		return fmt.Sprintf("type %s %s\n", m.Name, structLiteral(d, ""))
	case d.Kind == typemodel.KindEnum && allQuoted(d.EnumValues):
		return enumDeclaration(m.Name, d.EnumValues)
	default:
		return fmt.Sprintf("type %s = %s\n", m.Name, GoType(d))
	}
}

func structLiteral(d typemodel.Descriptor, indent string) string {
	if len(d.Fields) == 0 {
		return "map[string]any"
	}
	var b strings.Builder
	b.WriteString("struct {\n")
	for _, f := range d.Fields {
		tag := f.Name
		if !f.Required {
			tag += ",omitempty"
		}
		fmt.Fprintf(&b, "%s\t%s %s `json:%q`\n",
			indent, naming.Sanitize(f.Name), fieldType(f, indent), tag)
	}
	b.WriteString(indent + "}")
	return b.String()
}

func fieldType(f typemodel.Field, indent string) string {
	if f.Type.Kind == typemodel.KindObject && len(f.Type.Fields) > 0 {
		return structLiteral(f.Type, indent+"\t")
	}
	return GoType(f.Type)
}

// enumDeclaration renders a string enum as a defined type plus one constant
// per literal value.
func enumDeclaration(name string, quoted []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "type %s string\n\nconst (\n", name)
	for _, q := range quoted {
		fmt.Fprintf(&b, "\t%s%s %s = %s\n", name, naming.Sanitize(strings.Trim(q, `"`)), name, q)
	}
	b.WriteString(")\n")
	return b.String()
}

func allQuoted(values []string) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if !strings.HasPrefix(v, `"`) {
			return false
		}
	}
	return true
}
