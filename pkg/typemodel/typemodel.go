// Package typemodel defines the resolved type representation shared by the
// resolver, the extractor, and every output backend. Descriptors are pure
// data; rendering them into a concrete language is the emitters' job.
package typemodel

// Kind discriminates a Descriptor.
type Kind string

const (
	// KindUnknown is the "any" sentinel. Resolution never fails; it degrades here.
	KindUnknown      Kind = "unknown"
	KindScalar       Kind = "scalar"
	KindArray        Kind = "array"
	KindUnion        Kind = "union"
	KindIntersection Kind = "intersection"
	KindObject       Kind = "object"
	KindEnum         Kind = "enum"
	KindRef          Kind = "ref"
)

// ScalarType is the primitive carried by a KindScalar descriptor.
type ScalarType string

const (
	ScalarString  ScalarType = "string"
	ScalarNumber  ScalarType = "number"
	ScalarBoolean ScalarType = "boolean"
	ScalarNull    ScalarType = "null"
)

// Descriptor is the structural representation of a resolved schema fragment.
// Only the fields relevant to Kind are populated; the zero value is not a
// valid descriptor, use Unknown() instead.
type Descriptor struct {
	Kind   Kind
	Scalar ScalarType // KindScalar

	Elem *Descriptor // KindArray element

	Variants []Descriptor // KindUnion / KindIntersection

	Fields []Field // KindObject, in declaration order

	EnumValues []string // KindEnum, rendered literals (strings already quoted)

	Ref string // KindRef, a registry-issued name
}

// Field is one property of an object literal.
type Field struct {
	Name     string
	Type     Descriptor
	Required bool
}

// Unknown returns the "any" sentinel descriptor.
func Unknown() Descriptor { return Descriptor{Kind: KindUnknown} }

// IsUnknown reports whether d is the sentinel.
func (d Descriptor) IsUnknown() bool { return d.Kind == KindUnknown }

// BareRef returns the referenced name when d is a plain named reference,
// and "" otherwise. Callers use this to reuse declarations instead of
// synthesizing new ones.
func (d Descriptor) BareRef() string {
	if d.Kind == KindRef {
		return d.Ref
	}
	return ""
}

// Origin records where a named type came from.
type Origin string

const (
	OriginComponentSchema Origin = "component-schema"
	OriginOperationBody   Origin = "inline-operation-body"
)

// NamedType is a top-level declaration produced once per unique raw schema
// key or synthesized operation body.
type NamedType struct {
	Name       string
	Descriptor Descriptor
	Origin     Origin
}

// OperationTypes holds the resolved type names for one operation. Either
// side may be empty; entries with both sides empty are never recorded.
type OperationTypes struct {
	RequestType  string
	ResponseType string
}

// OperationTypeMap records resolved request/response type names keyed by
// path, then upper-cased HTTP method.
type OperationTypeMap map[string]map[string]OperationTypes

// Set records the types for (path, method), creating the inner map as needed.
func (m OperationTypeMap) Set(path, method string, t OperationTypes) {
	if m[path] == nil {
		m[path] = make(map[string]OperationTypes)
	}
	m[path][method] = t
}

// Lookup returns the entry for (path, method) when one was recorded.
func (m OperationTypeMap) Lookup(path, method string) (OperationTypes, bool) {
	t, ok := m[path][method]
	return t, ok
}
