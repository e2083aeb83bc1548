// Package config holds the YAML run configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is one generation run: a spec, an output directory, and the
// requested backends in execution order.
type Config struct {
	Spec        string   `yaml:"spec"`
	OutDir      string   `yaml:"outDir"`
	PackageName string   `yaml:"packageName"`
	Backends    []string `yaml:"backends"`
	// FrameworkProject marks the output location as a framework project;
	// backend capability probes consult it.
	FrameworkProject bool    `yaml:"frameworkProject"`
	Reports          Reports `yaml:"reports"`
}

// Reports toggles the JSON report artifacts. Both default to on.
type Reports struct {
	MissingDefinitions *bool `yaml:"missingDefinitions"`
	TypeCoverage       *bool `yaml:"typeCoverage"`
}

// MissingDefinitionsEnabled reports whether the missing-definitions report
// should be written.
func (r Reports) MissingDefinitionsEnabled() bool {
	return r.MissingDefinitions == nil || *r.MissingDefinitions
}

// TypeCoverageEnabled reports whether the type-coverage report should be
// written.
func (r Reports) TypeCoverageEnabled() bool {
	return r.TypeCoverage == nil || *r.TypeCoverage
}

// Load reads and validates a YAML configuration file. Relative paths are
// resolved against the working directory; HTTP(S) spec URLs are kept as-is.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.absolutize()
	return &cfg, nil
}

// Validate checks required fields and fills defaults.
func (c *Config) Validate() error {
	if c.Spec == "" {
		return errors.New("config.spec is required")
	}
	if c.OutDir == "" {
		return errors.New("config.outDir is required")
	}
	if c.PackageName == "" {
		c.PackageName = "apiclient"
	}
	if len(c.Backends) == 0 {
		return errors.New("config.backends must list at least one backend id")
	}
	for i, id := range c.Backends {
		if id == "" {
			return fmt.Errorf("config.backends[%d] is empty", i)
		}
	}
	return nil
}

func (c *Config) absolutize() {
	if !filepath.IsAbs(c.OutDir) {
		if abs, err := filepath.Abs(c.OutDir); err == nil {
			c.OutDir = abs
		}
	}
	if u, err := url.Parse(c.Spec); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return
	}
	if !filepath.IsAbs(c.Spec) {
		if abs, err := filepath.Abs(c.Spec); err == nil {
			c.Spec = abs
		}
	}
}
