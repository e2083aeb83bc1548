// Package plugin defines the output-backend contract and the orchestration
// layer that selects, capability-probes, and falls back between backends.
package plugin

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/typebind-dev/typebind/pkg/typemodel"
)

// Kind classifies what a backend produces.
type Kind string

const (
	KindHTTPClient         Kind = "http-client"
	KindProtocolToolServer Kind = "protocol-tool-server"
)

// Context is the shared generation state handed to every backend. It is
// built once per run from the engine output and never mutated by backends.
type Context struct {
	// Doc is the validated document the run was started with.
	Doc *openapi3.T
	// Models holds every named declaration, component-derived first.
	Models []typemodel.NamedType
	// Operations maps path and method to resolved type names.
	Operations typemodel.OperationTypeMap
	// Names is the registry's raw-key to issued-name mapping.
	Names map[string]string
	// PackageName is the target package for generated sources.
	PackageName string
	// OutDir is the root the injected writer resolves paths against.
	OutDir string
	// FrameworkProject reports whether the output location is a framework
	// project; only CanRun probes consult it.
	FrameworkProject bool
}

// Capability is a backend's answer to a CanRun probe. A failed probe may
// name another backend to try instead.
type Capability struct {
	OK         bool
	Reason     string
	FallbackID string
}

// Runnable returns a passing capability.
func Runnable() Capability { return Capability{OK: true} }

// Artifact describes one planned output of a backend.
type Artifact struct {
	Path string
	Role string // models, client, server
}

// Outputs lists the deterministic paths a backend will produce, resolved
// before any generation happens so dry runs can print a plan.
type Outputs struct {
	ServicePath string
	ReportPath  string
	Artifacts   []Artifact
}

// File is one generated source file, relative to the run's output root.
type File struct {
	Path    string
	Content string
}

// Generation is what a backend produced for one run.
type Generation struct {
	Files       []File
	MethodCount int
}

// Backend is an output plugin: stateless, registered once at startup.
type Backend interface {
	ID() string
	Aliases() []string
	Kind() Kind
	CanRun(ctx *Context) Capability
	ResolveOutputs(ctx *Context) Outputs
	Generate(ctx *Context) (Generation, error)
}

// Result records the outcome for one requested backend id. ExecutedID
// differs from RequestedID when a fallback ran.
type Result struct {
	RequestedID string
	ExecutedID  string
	Kind        Kind
	MethodCount int
	Artifacts   []Artifact
}

// Writer persists generated files. Formatting, path resolution, and
// overwrite policy live behind this boundary.
type Writer interface {
	WriteFile(path string, content []byte) error
}
