package plugin

import (
	"sort"

	"github.com/typebind-dev/typebind/pkg/typemodel"
)

// OperationRef is one mapped operation in deterministic order.
type OperationRef struct {
	Path   string
	Method string
	Types  typemodel.OperationTypes
}

// SortedOperations flattens the operation type map, ordered by path then
// method, so backends and reports iterate deterministically.
func (c *Context) SortedOperations() []OperationRef {
	var refs []OperationRef
	for path, methods := range c.Operations {
		for method, types := range methods {
			refs = append(refs, OperationRef{Path: path, Method: method, Types: types})
		}
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Path == refs[j].Path {
			return refs[i].Method < refs[j].Method
		}
		return refs[i].Path < refs[j].Path
	})
	return refs
}

// Title returns the document's title, or a fallback when absent.
func (c *Context) Title() string {
	if c.Doc != nil && c.Doc.Info != nil && c.Doc.Info.Title != "" {
		return c.Doc.Info.Title
	}
	return "API"
}

// Version returns the document's version, or a fallback when absent.
func (c *Context) Version() string {
	if c.Doc != nil && c.Doc.Info != nil && c.Doc.Info.Version != "" {
		return c.Doc.Info.Version
	}
	return "0.0.0"
}
