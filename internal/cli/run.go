// Package cli wires the engine, the backend registry, and the writers into
// the commands exposed by the typebind binary.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/typebind-dev/typebind/pkg/backends/httpclient"
	"github.com/typebind-dev/typebind/pkg/backends/mcptool"
	"github.com/typebind-dev/typebind/pkg/backends/service"
	"github.com/typebind-dev/typebind/pkg/config"
	"github.com/typebind-dev/typebind/pkg/extractor"
	"github.com/typebind-dev/typebind/pkg/naming"
	"github.com/typebind-dev/typebind/pkg/openapi"
	"github.com/typebind-dev/typebind/pkg/output"
	"github.com/typebind-dev/typebind/pkg/plugin"
	"github.com/typebind-dev/typebind/pkg/report"
	"github.com/typebind-dev/typebind/pkg/toolserver"
)

// Version is stamped into the tool-server handshake and the version command.
const Version = "0.1.0"

const (
	missingDefinitionsFile = "missing-definitions.json"
	typeCoverageFile       = "type-coverage.json"
)

// FallbackParams carries the single-run flags used when no config file is
// given. All of Spec, OutDir, and Backends must be set.
type FallbackParams struct {
	Spec             string
	OutDir           string
	PackageName      string
	Backends         []string
	FrameworkProject bool
}

// RunGenerateParams selects either a config file or the fallback flags.
type RunGenerateParams struct {
	ConfigPath string
	Fallback   FallbackParams
	DryRun     bool
	// Plan receives the dry-run listing; stdout in the binary.
	Plan io.Writer
}

// RunGenerate executes one generation run end to end: load and validate the
// document, extract the type model, run every requested backend, then write
// the enabled reports.
func RunGenerate(ctx context.Context, p RunGenerateParams) error {
	cfg, err := resolveConfig(p)
	if err != nil {
		return err
	}

	doc, err := openapi.LoadDocument(ctx, cfg.Spec)
	if err != nil {
		return err
	}

	reg := naming.NewRegistry()
	extracted := extractor.Extract(doc, reg)
	genctx := &plugin.Context{
		Doc:              doc,
		Models:           extracted.Models,
		Operations:       extracted.Operations,
		Names:            reg.Names(),
		PackageName:      cfg.PackageName,
		OutDir:           cfg.OutDir,
		FrameworkProject: cfg.FrameworkProject,
	}
	registry := backendRegistry()

	if p.DryRun {
		return printPlan(p.Plan, registry, cfg, genctx)
	}

	writer := output.NewFormatting(output.NewDirWriter(cfg.OutDir))
	runner := plugin.NewRunner(registry, writer)
	results, runErr := runner.Run(cfg.Backends, genctx)

	for _, res := range results {
		slog.Info("generated",
			"requested", res.RequestedID,
			"executed", res.ExecutedID,
			"kind", res.Kind,
			"methods", res.MethodCount)
	}
	if runErr != nil {
		return runErr
	}

	return writeReports(cfg, genctx, writer)
}

// RunValidate loads input and reports whether it is usable as a generation
// source.
func RunValidate(ctx context.Context, input string) error {
	if input == "" {
		return errors.New("an input document is required")
	}
	return openapi.ValidateSpec(ctx, input)
}

// RunServe loads input, extracts its type model, and serves it as MCP tools
// over stdio until the client disconnects.
func RunServe(ctx context.Context, input string) error {
	doc, err := openapi.LoadDocument(ctx, input)
	if err != nil {
		return err
	}
	reg := naming.NewRegistry()
	extracted := extractor.Extract(doc, reg)
	genctx := &plugin.Context{
		Doc:        doc,
		Models:     extracted.Models,
		Operations: extracted.Operations,
		Names:      reg.Names(),
	}
	slog.Info("serving type model over stdio",
		"title", genctx.Title(), "operations", len(genctx.SortedOperations()), "types", len(genctx.Models))
	return toolserver.Run(ctx, genctx, Version)
}

func resolveConfig(p RunGenerateParams) (*config.Config, error) {
	if p.ConfigPath != "" {
		return config.Load(p.ConfigPath)
	}
	f := p.Fallback
	if f.Spec == "" || f.OutDir == "" || len(f.Backends) == 0 {
		return nil, errors.New("either --config or all of --input, --out, --backend must be provided")
	}
	cfg := &config.Config{
		Spec:             f.Spec,
		OutDir:           f.OutDir,
		PackageName:      f.PackageName,
		Backends:         f.Backends,
		FrameworkProject: f.FrameworkProject,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func backendRegistry() *plugin.Registry {
	return plugin.NewRegistry(
		httpclient.New(),
		service.New(),
		mcptool.New(),
	)
}

// printPlan lists every artifact the run would produce, without probing
// capability or touching the output directory.
func printPlan(w io.Writer, registry *plugin.Registry, cfg *config.Config, genctx *plugin.Context) error {
	if w == nil {
		w = io.Discard
	}
	fmt.Fprintf(w, "plan for %s (out: %s)\n", cfg.Spec, cfg.OutDir)
	for _, id := range cfg.Backends {
		backend, ok := registry.Resolve(id)
		if !ok {
			return &plugin.UnknownPluginError{ID: id}
		}
		outputs := backend.ResolveOutputs(genctx)
		fmt.Fprintf(w, "  %s (%s):\n", backend.ID(), backend.Kind())
		for _, a := range outputs.Artifacts {
			fmt.Fprintf(w, "    %-8s %s\n", a.Role, a.Path)
		}
	}
	if cfg.Reports.MissingDefinitionsEnabled() {
		fmt.Fprintf(w, "  reports:\n    %-8s %s\n", "report", missingDefinitionsFile)
	}
	if cfg.Reports.TypeCoverageEnabled() {
		fmt.Fprintf(w, "    %-8s %s\n", "report", typeCoverageFile)
	}
	return nil
}

func writeReports(cfg *config.Config, genctx *plugin.Context, writer plugin.Writer) error {
	if !cfg.Reports.MissingDefinitionsEnabled() && !cfg.Reports.TypeCoverageEnabled() {
		return nil
	}
	missing, coverage := report.Build(genctx.Doc, genctx.Operations, time.Now().UTC())
	if cfg.Reports.MissingDefinitionsEnabled() {
		if err := writeJSON(writer, missingDefinitionsFile, missing); err != nil {
			return err
		}
		slog.Info("report written", "file", missingDefinitionsFile, "issues", missing.Total)
	}
	if cfg.Reports.TypeCoverageEnabled() {
		if err := writeJSON(writer, typeCoverageFile, coverage); err != nil {
			return err
		}
		slog.Info("report written", "file", typeCoverageFile,
			"coverage", fmt.Sprintf("%.1f%%", coverage.Totals.CoveragePercentage))
	}
	return nil
}

func writeJSON(writer plugin.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return writer.WriteFile(path, append(data, '\n'))
}
