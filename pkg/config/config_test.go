package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "typebind.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
spec: ./openapi.yaml
outDir: ./generated
packageName: petstore
backends: [httpclient, mcptool]
frameworkProject: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "petstore", cfg.PackageName)
	assert.Equal(t, []string{"httpclient", "mcptool"}, cfg.Backends)
	assert.True(t, cfg.FrameworkProject)
	assert.True(t, filepath.IsAbs(cfg.Spec))
	assert.True(t, filepath.IsAbs(cfg.OutDir))
}

func TestLoadKeepsSpecURLs(t *testing.T) {
	path := writeConfig(t, `
spec: https://example.com/openapi.json
outDir: ./generated
backends: [httpclient]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/openapi.json", cfg.Spec)
}

func TestValidateDefaultsAndErrors(t *testing.T) {
	cfg := &Config{Spec: "a.yaml", OutDir: "out", Backends: []string{"httpclient"}}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "apiclient", cfg.PackageName)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing spec", Config{OutDir: "out", Backends: []string{"x"}}},
		{"missing outDir", Config{Spec: "a.yaml", Backends: []string{"x"}}},
		{"no backends", Config{Spec: "a.yaml", OutDir: "out"}},
		{"empty backend id", Config{Spec: "a.yaml", OutDir: "out", Backends: []string{""}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Error(t, test.cfg.Validate())
		})
	}
}

func TestReportToggles(t *testing.T) {
	var r Reports
	assert.True(t, r.MissingDefinitionsEnabled())
	assert.True(t, r.TypeCoverageEnabled())

	off := false
	r = Reports{MissingDefinitions: &off}
	assert.False(t, r.MissingDefinitionsEnabled())
	assert.True(t, r.TypeCoverageEnabled())
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := writeConfig(t, "spec: only-a-spec\n")
	_, err := Load(path)
	assert.Error(t, err)
}
