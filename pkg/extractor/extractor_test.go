package extractor

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typebind-dev/typebind/pkg/naming"
	"github.com/typebind-dev/typebind/pkg/typemodel"
)

const itemsSpec = `
openapi: 3.0.3
info:
  title: Items API
  version: 1.0.0
paths:
  /items:
    get:
      responses:
        '200':
          description: OK
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Item'
    post:
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                name:
                  type: string
      responses:
        '201':
          description: Created
          content:
            application/json:
              schema:
                type: object
                properties:
                  id:
                    type: string
  /items/{itemId}:
    get:
      parameters:
        - name: itemId
          in: path
          required: true
          schema:
            type: string
      responses:
        '200':
          description: OK
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Item'
    delete:
      responses:
        '204':
          description: No Content
components:
  schemas:
    Item:
      type: object
      required: [id]
      properties:
        id:
          type: string
        name:
          type: string
`

func loadDoc(t *testing.T, spec string) *openapi3.T {
	t.Helper()
	loader := &openapi3.Loader{IsExternalRefsAllowed: true}
	doc, err := loader.LoadFromData([]byte(spec))
	require.NoError(t, err)
	return doc
}

func TestExtractComponentsAndOperations(t *testing.T) {
	doc := loadDoc(t, itemsSpec)
	reg := naming.NewRegistry()
	result := Extract(doc, reg)

	names := make([]string, 0, len(result.Models))
	for _, m := range result.Models {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Item", "PostItemsRequest", "PostItemsResponse"}, names)

	require.Equal(t, typemodel.OriginComponentSchema, result.Models[0].Origin)
	require.Equal(t, typemodel.OriginOperationBody, result.Models[1].Origin)

	// A bare component reference is reused, not re-declared.
	types, ok := result.Operations.Lookup("/items", "GET")
	require.True(t, ok)
	assert.Equal(t, "", types.RequestType)
	assert.Equal(t, "Item", types.ResponseType)

	types, ok = result.Operations.Lookup("/items", "POST")
	require.True(t, ok)
	assert.Equal(t, "PostItemsRequest", types.RequestType)
	assert.Equal(t, "PostItemsResponse", types.ResponseType)

	types, ok = result.Operations.Lookup("/items/{itemId}", "GET")
	require.True(t, ok)
	assert.Equal(t, "Item", types.ResponseType)

	// Operations with no resolvable body on either side are omitted.
	_, ok = result.Operations.Lookup("/items/{itemId}", "DELETE")
	assert.False(t, ok)
}

func TestExtractComponentRequiredFields(t *testing.T) {
	doc := loadDoc(t, itemsSpec)
	result := Extract(doc, naming.NewRegistry())

	item := result.Models[0]
	require.Equal(t, typemodel.KindObject, item.Descriptor.Kind)
	byName := make(map[string]typemodel.Field)
	for _, f := range item.Descriptor.Fields {
		byName[f.Name] = f
	}
	assert.True(t, byName["id"].Required)
	assert.False(t, byName["name"].Required)
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		path     string
		method   string
		op       *openapi3.Operation
		expected string
	}{
		{"/items", "GET", &openapi3.Operation{}, "GetItems"},
		{"/items", "POST", &openapi3.Operation{}, "PostItems"},
		{"/items/{itemId}", "GET", &openapi3.Operation{}, "GetItemsByItemId"},
		{"/users/{id}/pets", "GET", &openapi3.Operation{}, "GetUsersByIdPets"},
		{"/users", "GET", &openapi3.Operation{OperationID: "listUsers"}, "ListUsers"},
		{"/users", "POST", &openapi3.Operation{OperationID: "create-user"}, "CreateUser"},
	}
	for _, test := range tests {
		got := BaseName(test.path, test.method, test.op)
		if got != test.expected {
			t.Errorf("BaseName(%q, %q) = %q, expected %q", test.path, test.method, got, test.expected)
		}
	}
}

func TestExtractReusesRequestRefWithoutResponse(t *testing.T) {
	spec := `
openapi: 3.0.3
info:
  title: Widgets API
  version: 1.0.0
paths:
  /widgets:
    post:
      requestBody:
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Widget'
      responses:
        '204':
          description: No Content
components:
  schemas:
    Widget:
      type: object
      properties:
        label: {type: string}
`
	doc := loadDoc(t, spec)
	result := Extract(doc, naming.NewRegistry())

	types, ok := result.Operations.Lookup("/widgets", "POST")
	require.True(t, ok)
	assert.Equal(t, "Widget", types.RequestType)
	assert.Equal(t, "", types.ResponseType)
	// No synthesized declaration for the reused reference.
	require.Len(t, result.Models, 1)
	assert.Equal(t, "Widget", result.Models[0].Name)
}

func TestExtractResponsePicksBestSuccessCode(t *testing.T) {
	spec := `
openapi: 3.0.3
info:
  title: Codes API
  version: 1.0.0
paths:
  /things:
    post:
      responses:
        '500':
          description: Error
          content:
            application/json:
              schema:
                type: object
                properties:
                  message: {type: string}
        '202':
          description: Accepted
          content:
            application/json:
              schema:
                type: object
                properties:
                  token: {type: string}
        '201':
          description: Created
          content:
            application/json:
              schema:
                type: object
                properties:
                  id: {type: string}
`
	doc := loadDoc(t, spec)
	result := Extract(doc, naming.NewRegistry())

	types, ok := result.Operations.Lookup("/things", "POST")
	require.True(t, ok)
	assert.Equal(t, "PostThingsResponse", types.ResponseType)

	require.Len(t, result.Models, 1)
	require.Equal(t, typemodel.KindObject, result.Models[0].Descriptor.Kind)
	assert.Equal(t, "id", result.Models[0].Descriptor.Fields[0].Name)
}

func TestExtractPrefersJSONContent(t *testing.T) {
	spec := `
openapi: 3.0.3
info:
  title: Content API
  version: 1.0.0
paths:
  /docs:
    get:
      responses:
        '200':
          description: OK
          content:
            text/plain:
              schema:
                type: string
            application/json:
              schema:
                type: object
                properties:
                  body: {type: string}
`
	doc := loadDoc(t, spec)
	result := Extract(doc, naming.NewRegistry())

	types, ok := result.Operations.Lookup("/docs", "GET")
	require.True(t, ok)
	assert.Equal(t, "GetDocsResponse", types.ResponseType)
	require.Len(t, result.Models, 1)
	assert.Equal(t, typemodel.KindObject, result.Models[0].Descriptor.Kind)
}

func TestExtractNameCollisionWithComponent(t *testing.T) {
	spec := `
openapi: 3.0.3
info:
  title: Collide API
  version: 1.0.0
paths:
  /items:
    post:
      operationId: postItems
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                name: {type: string}
      responses:
        '201':
          description: Created
components:
  schemas:
    post-items-request:
      type: object
      properties:
        reserved: {type: string}
`
	doc := loadDoc(t, spec)
	result := Extract(doc, naming.NewRegistry())

	types, ok := result.Operations.Lookup("/items", "POST")
	require.True(t, ok)
	// The component key sanitized to the same name first; the synthesized
	// body gets the next suffix.
	assert.Equal(t, "PostItemsRequest2", types.RequestType)
}
