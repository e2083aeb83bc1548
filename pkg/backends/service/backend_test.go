package service

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typebind-dev/typebind/pkg/extractor"
	"github.com/typebind-dev/typebind/pkg/naming"
	"github.com/typebind-dev/typebind/pkg/plugin"
)

const storeSpec = `
openapi: 3.0.3
info:
  title: Store API
  version: 1.0.0
paths:
  /orders:
    get:
      tags: [orders]
      responses:
        '200':
          description: OK
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Order'
  /health:
    get:
      responses:
        '200':
          description: OK
          content:
            application/json:
              schema:
                type: object
                properties:
                  status: {type: string}
components:
  schemas:
    Order:
      type: object
      properties:
        id: {type: string}
`

func storeContext(t *testing.T, framework bool) *plugin.Context {
	t.Helper()
	loader := &openapi3.Loader{}
	doc, err := loader.LoadFromData([]byte(storeSpec))
	require.NoError(t, err)
	reg := naming.NewRegistry()
	result := extractor.Extract(doc, reg)
	return &plugin.Context{
		Doc:              doc,
		Models:           result.Models,
		Operations:       result.Operations,
		Names:            reg.Names(),
		PackageName:      "store",
		FrameworkProject: framework,
	}
}

func TestCanRunRequiresFrameworkProject(t *testing.T) {
	b := New()

	probe := b.CanRun(storeContext(t, false))
	assert.False(t, probe.OK)
	assert.Equal(t, "httpclient", probe.FallbackID)
	assert.Equal(t, "output location is not a framework project", probe.Reason)

	assert.True(t, b.CanRun(storeContext(t, true)).OK)
}

func TestGenerateGroupsByTag(t *testing.T) {
	gen, err := New().Generate(storeContext(t, true))
	require.NoError(t, err)
	assert.Equal(t, 2, gen.MethodCount)
	require.Len(t, gen.Files, 2)

	services := gen.Files[1]
	assert.Equal(t, "services.go", services.Path)
	assert.Contains(t, services.Content, "package store")
	assert.Contains(t, services.Content, "type OrdersService struct {")
	assert.Contains(t, services.Content, "type MiscService struct {")
	assert.Contains(t, services.Content, "func (s *OrdersService) GetOrders(ctx context.Context) (Order, error)")
	assert.Contains(t, services.Content, "func (s *MiscService) GetHealth(ctx context.Context) (GetHealthResponse, error)")
	// Tag groups hang off the root client in sorted tag order.
	assert.Contains(t, services.Content, "Misc *MiscService")
	assert.Contains(t, services.Content, "Orders *OrdersService")
}
