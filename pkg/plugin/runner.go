package plugin

import (
	"log/slog"
	"strings"
)

// Runner orchestrates backend execution: it resolves requested ids, probes
// capability, walks fallback chains, and persists generated files through
// the injected writer. Backends run strictly sequentially.
type Runner struct {
	registry *Registry
	writer   Writer
}

// NewRunner builds a runner over a registry and a file writer.
func NewRunner(registry *Registry, writer Writer) *Runner {
	return &Runner{registry: registry, writer: writer}
}

// Run processes each requested id independently, in order. Files written
// for earlier requests are never rolled back when a later request fails.
func (r *Runner) Run(requested []string, ctx *Context) ([]Result, error) {
	results := make([]Result, 0, len(requested))
	for _, id := range requested {
		res, err := r.runOne(id, ctx)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// runOne walks the fallback chain for one requested id. The visited set is
// extended by copy at each step so the cycle check is explicit and the walk
// iterative.
func (r *Runner) runOne(requestedID string, ctx *Context) (Result, error) {
	id := requestedID
	var visited []string
	for {
		backend, ok := r.registry.Resolve(id)
		if !ok {
			return Result{}, &UnknownPluginError{ID: id}
		}
		canonical := strings.ToLower(backend.ID())
		for _, seen := range visited {
			if seen == canonical {
				return Result{}, &CircularFallbackError{Chain: append(visited, canonical)}
			}
		}
		visited = append(append([]string(nil), visited...), canonical)

		probe := backend.CanRun(ctx)
		if probe.OK {
			return r.execute(requestedID, backend, ctx)
		}
		if probe.FallbackID == "" {
			return Result{}, &CannotRunError{ID: backend.ID(), Reason: probe.Reason}
		}
		slog.Warn("backend cannot run, trying fallback",
			"backend", backend.ID(), "reason", probe.Reason, "fallback", probe.FallbackID)
		id = probe.FallbackID
	}
}

func (r *Runner) execute(requestedID string, backend Backend, ctx *Context) (Result, error) {
	outputs := backend.ResolveOutputs(ctx)
	gen, err := backend.Generate(ctx)
	if err != nil {
		return Result{}, err
	}
	for _, f := range gen.Files {
		if err := r.writer.WriteFile(f.Path, []byte(f.Content)); err != nil {
			return Result{}, err
		}
	}
	slog.Info("backend finished",
		"backend", backend.ID(), "methods", gen.MethodCount, "files", len(gen.Files))
	return Result{
		RequestedID: requestedID,
		ExecutedID:  backend.ID(),
		Kind:        backend.Kind(),
		MethodCount: gen.MethodCount,
		Artifacts:   outputs.Artifacts,
	}, nil
}
