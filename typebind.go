// Package typebind generates statically typed API bindings from OpenAPI
// specifications.
//
// The library entry points mirror the typebind binary: Generate runs the
// full pipeline for one document, ValidateSpec checks a document without
// generating anything.
//
// Quick start:
//
//	err := typebind.Generate(context.Background(), typebind.Options{
//		Spec:     "./openapi.yaml",
//		OutDir:   "./generated",
//		Backends: []string{"httpclient"},
//	})
//
// For finer control over backends and writers, use the pkg/plugin and
// pkg/extractor packages directly.
package typebind

import (
	"context"

	"github.com/typebind-dev/typebind/internal/cli"
)

// Options configures one generation run.
type Options struct {
	// Spec is a local file path or HTTP(S) URL of the OpenAPI document.
	Spec string
	// OutDir is the directory generated files are written under.
	OutDir string
	// PackageName names the generated package; defaults to "apiclient".
	PackageName string
	// Backends lists backend ids or aliases to run, in order.
	Backends []string
	// FrameworkProject marks OutDir as a framework project, which backend
	// capability probes consult.
	FrameworkProject bool
}

// Generate runs the full pipeline for one document: load, resolve types,
// run every requested backend, write reports.
func Generate(ctx context.Context, opts Options) error {
	return cli.RunGenerate(ctx, cli.RunGenerateParams{
		Fallback: cli.FallbackParams{
			Spec:             opts.Spec,
			OutDir:           opts.OutDir,
			PackageName:      opts.PackageName,
			Backends:         opts.Backends,
			FrameworkProject: opts.FrameworkProject,
		},
	})
}

// GenerateFromConfig runs every backend listed in a YAML configuration file.
func GenerateFromConfig(ctx context.Context, configPath string) error {
	return cli.RunGenerate(ctx, cli.RunGenerateParams{ConfigPath: configPath})
}

// ValidateSpec loads and validates a document without generating anything.
func ValidateSpec(ctx context.Context, spec string) error {
	return cli.RunValidate(ctx, spec)
}
