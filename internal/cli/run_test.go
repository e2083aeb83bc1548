package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petsSpec = `
openapi: 3.0.3
info:
  title: Pets API
  version: 1.0.0
paths:
  /pets:
    get:
      responses:
        '200':
          description: OK
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
components:
  schemas:
    Pet:
      type: object
      required: [name]
      properties:
        name:
          type: string
`

func writeSpec(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(petsSpec), 0o644))
	return path
}

func TestRunGenerateEndToEnd(t *testing.T) {
	outDir := t.TempDir()
	err := RunGenerate(context.Background(), RunGenerateParams{
		Fallback: FallbackParams{
			Spec:        writeSpec(t),
			OutDir:      outDir,
			PackageName: "pets",
			Backends:    []string{"httpclient"},
		},
	})
	require.NoError(t, err)

	models, err := os.ReadFile(filepath.Join(outDir, "models.go"))
	require.NoError(t, err)
	assert.Contains(t, string(models), "type Pet struct {")

	client, err := os.ReadFile(filepath.Join(outDir, "client.go"))
	require.NoError(t, err)
	assert.Contains(t, string(client), "func (c *Client) GetPets(")

	var coverage struct {
		Totals struct {
			Total int     `json:"total"`
			Typed int     `json:"typed"`
			Pct   float64 `json:"coveragePercentage"`
		} `json:"totals"`
	}
	raw, err := os.ReadFile(filepath.Join(outDir, "type-coverage.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &coverage))
	assert.Equal(t, 1, coverage.Totals.Total)
	assert.Equal(t, 1, coverage.Totals.Typed)

	_, err = os.Stat(filepath.Join(outDir, "missing-definitions.json"))
	assert.NoError(t, err)
}

func TestRunGenerateClientAndToolServerTogether(t *testing.T) {
	outDir := t.TempDir()
	err := RunGenerate(context.Background(), RunGenerateParams{
		Fallback: FallbackParams{
			Spec:        writeSpec(t),
			OutDir:      outDir,
			PackageName: "pets",
			Backends:    []string{"httpclient", "mcptool"},
		},
	})
	require.NoError(t, err)

	// The client package must survive the tool-server run intact.
	models, err := os.ReadFile(filepath.Join(outDir, "models.go"))
	require.NoError(t, err)
	assert.Contains(t, string(models), "package pets")
	assert.Contains(t, string(models), "type Pet struct {")

	serverModels, err := os.ReadFile(filepath.Join(outDir, "toolserver", "models.go"))
	require.NoError(t, err)
	assert.Contains(t, string(serverModels), "package main")

	server, err := os.ReadFile(filepath.Join(outDir, "toolserver", "toolserver.go"))
	require.NoError(t, err)
	assert.Contains(t, string(server), "mcp.NewServer(")
}

func TestRunGenerateServiceFallsBackOutsideFrameworkProject(t *testing.T) {
	outDir := t.TempDir()
	err := RunGenerate(context.Background(), RunGenerateParams{
		Fallback: FallbackParams{
			Spec:     writeSpec(t),
			OutDir:   outDir,
			Backends: []string{"service"},
		},
	})
	require.NoError(t, err)

	// The plain client ran instead of the service flavor.
	_, err = os.Stat(filepath.Join(outDir, "client.go"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "services.go"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunGenerateDryRunWritesNothing(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	var plan strings.Builder
	err := RunGenerate(context.Background(), RunGenerateParams{
		Fallback: FallbackParams{
			Spec:     writeSpec(t),
			OutDir:   outDir,
			Backends: []string{"httpclient", "mcptool"},
		},
		DryRun: true,
		Plan:   &plan,
	})
	require.NoError(t, err)

	assert.Contains(t, plan.String(), "client.go")
	assert.Contains(t, plan.String(), "toolserver.go")
	assert.Contains(t, plan.String(), "missing-definitions.json")
	_, err = os.Stat(outDir)
	assert.True(t, os.IsNotExist(err))
}

func TestRunGenerateUnknownBackend(t *testing.T) {
	err := RunGenerate(context.Background(), RunGenerateParams{
		Fallback: FallbackParams{
			Spec:     writeSpec(t),
			OutDir:   t.TempDir(),
			Backends: []string{"cobol"},
		},
	})
	assert.ErrorContains(t, err, `unknown plugin "cobol"`)
}

func TestRunGenerateRequiresInputs(t *testing.T) {
	err := RunGenerate(context.Background(), RunGenerateParams{})
	assert.Error(t, err)
}

func TestRunValidate(t *testing.T) {
	require.NoError(t, RunValidate(context.Background(), writeSpec(t)))
	assert.Error(t, RunValidate(context.Background(), ""))
	assert.Error(t, RunValidate(context.Background(), "/no/such/file.yaml"))
}
