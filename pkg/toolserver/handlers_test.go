package toolserver

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typebind-dev/typebind/pkg/extractor"
	"github.com/typebind-dev/typebind/pkg/naming"
	"github.com/typebind-dev/typebind/pkg/plugin"
)

const booksSpec = `
openapi: 3.0.3
info:
  title: Books API
  version: 3.0.0
paths:
  /books:
    get:
      responses:
        '200':
          description: OK
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Book'
components:
  schemas:
    Book:
      type: object
      required: [title]
      properties:
        title: {type: string}
`

func booksContext(t *testing.T) *plugin.Context {
	t.Helper()
	loader := &openapi3.Loader{}
	doc, err := loader.LoadFromData([]byte(booksSpec))
	require.NoError(t, err)
	reg := naming.NewRegistry()
	result := extractor.Extract(doc, reg)
	return &plugin.Context{
		Doc:        doc,
		Models:     result.Models,
		Operations: result.Operations,
		Names:      reg.Names(),
	}
}

func TestHandleListOperations(t *testing.T) {
	gen := booksContext(t)
	_, out, err := handleListOperations(gen)(context.Background(), nil, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "Books API", out.Title)
	assert.Equal(t, "3.0.0", out.Version)
	require.Len(t, out.Operations, 1)
	assert.Equal(t, "/books", out.Operations[0].Path)
	assert.Equal(t, "Book", out.Operations[0].ResponseType)
}

func TestHandleGetOperation(t *testing.T) {
	gen := booksContext(t)

	_, out, err := handleGetOperation(gen)(context.Background(), nil, getOperationInput{Path: "/books", Method: "get"})
	require.NoError(t, err)
	assert.Equal(t, "GET", out.Method)
	assert.Equal(t, "Book", out.ResponseType)

	_, _, err = handleGetOperation(gen)(context.Background(), nil, getOperationInput{Path: "/missing", Method: "GET"})
	assert.ErrorContains(t, err, "no mapped operation")
}

func TestHandleListAndGetType(t *testing.T) {
	gen := booksContext(t)

	_, list, err := handleListTypes(gen)(context.Background(), nil, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, "Book", list.Types[0].Name)
	assert.Equal(t, "component-schema", list.Types[0].Origin)

	_, typ, err := handleGetType(gen)(context.Background(), nil, getTypeInput{Name: "Book"})
	require.NoError(t, err)
	assert.Contains(t, typ.Source, "type Book struct {")
	assert.Contains(t, typ.Source, "Title string `json:\"title\"`")

	_, _, err = handleGetType(gen)(context.Background(), nil, getTypeInput{Name: "Nope"})
	assert.ErrorContains(t, err, `unknown type "Nope"`)
}

func TestHandleCoverage(t *testing.T) {
	gen := booksContext(t)
	_, out, err := handleCoverage(gen)(context.Background(), nil, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Total)
	assert.Equal(t, 1, out.Typed)
	assert.InDelta(t, 100.0, out.Percent, 0.01)
	require.Len(t, out.ByLocation, 4)
}
