package plugin

import (
	"sort"
	"strings"
)

// Registry is the closed table of available backends, indexed by lower-cased
// id and every lower-cased alias. It is built once at startup.
type Registry struct {
	byID map[string]Backend
}

// NewRegistry builds a registry over the given backends.
func NewRegistry(backends ...Backend) *Registry {
	r := &Registry{byID: make(map[string]Backend)}
	for _, b := range backends {
		r.byID[strings.ToLower(b.ID())] = b
		for _, alias := range b.Aliases() {
			r.byID[strings.ToLower(alias)] = b
		}
	}
	return r
}

// Resolve looks up a backend by id or alias, case-insensitively.
func (r *Registry) Resolve(idOrAlias string) (Backend, bool) {
	b, ok := r.byID[strings.ToLower(idOrAlias)]
	return b, ok
}

// IDs returns the sorted set of canonical backend ids.
func (r *Registry) IDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, b := range r.byID {
		if !seen[b.ID()] {
			seen[b.ID()] = true
			ids = append(ids, b.ID())
		}
	}
	sort.Strings(ids)
	return ids
}
