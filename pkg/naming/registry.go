package naming

import "strconv"

// Registry issues unique declaration names for one generation run. Repeated
// calls with the same raw key return the same name; distinct raw keys that
// sanitize to the same identifier receive deterministic numeric suffixes.
type Registry struct {
	byRaw  map[string]string
	issued map[string]bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byRaw:  make(map[string]string),
		issued: make(map[string]bool),
	}
}

// Allocate sanitizes raw and reserves a unique name for it. The raw-to-name
// mapping is cached, so allocation is idempotent per raw key.
func (r *Registry) Allocate(raw string) string {
	if name, ok := r.byRaw[raw]; ok {
		return name
	}
	base := Sanitize(raw)
	name := base
	for n := 2; r.issued[name]; n++ {
		name = base + strconv.Itoa(n)
	}
	r.byRaw[raw] = name
	r.issued[name] = true
	return name
}

// Lookup returns the name previously allocated for raw, if any.
func (r *Registry) Lookup(raw string) (string, bool) {
	name, ok := r.byRaw[raw]
	return name, ok
}

// Names returns a copy of the raw-key to issued-name mapping.
func (r *Registry) Names() map[string]string {
	out := make(map[string]string, len(r.byRaw))
	for k, v := range r.byRaw {
		out[k] = v
	}
	return out
}
