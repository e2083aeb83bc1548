// Package openapi loads and validates the input document. The engine only
// ever sees a validated OpenAPI 3.x document; Swagger 2.0 input is upgraded
// on the way in.
package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// LoadDocument loads an API description from a local file path or an
// HTTP(S) URL, upgrades Swagger 2.0 documents to OpenAPI 3, and validates
// the result.
func LoadDocument(ctx context.Context, input string) (*openapi3.T, error) {
	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: true}

	if u, err := url.Parse(input); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		raw, err := fetch(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", input, err)
		}
		return loadBytes(ctx, loader, input, raw, u)
	}

	raw, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", input, err)
	}
	return loadBytes(ctx, loader, input, raw, nil)
}

// loadBytes parses a raw document, upgrading Swagger 2.0 first. A non-nil
// location keeps relative external refs resolvable for fetched documents.
func loadBytes(ctx context.Context, loader *openapi3.Loader, input string, raw []byte, location *url.URL) (*openapi3.T, error) {
	if isSwaggerV2(raw) {
		doc, err := convertV2(loader, raw)
		if err != nil {
			return nil, fmt.Errorf("convert %s to OpenAPI 3: %w", input, err)
		}
		return validate(ctx, doc)
	}
	var doc *openapi3.T
	var err error
	if location != nil {
		doc, err = loader.LoadFromDataWithPath(raw, location)
	} else {
		doc, err = loader.LoadFromData(raw)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", input, err)
	}
	return validate(ctx, doc)
}

func fetch(ctx context.Context, input string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, input, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// ValidateSpec loads input and reports whether it is a valid document.
func ValidateSpec(ctx context.Context, input string) error {
	_, err := LoadDocument(ctx, input)
	return err
}

func validate(ctx context.Context, doc *openapi3.T) (*openapi3.T, error) {
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}
	return doc, nil
}

// isSwaggerV2 sniffs the version marker without fully parsing the document.
func isSwaggerV2(raw []byte) bool {
	var probe struct {
		Swagger string `yaml:"swagger" json:"swagger"`
	}
	if err := yaml.Unmarshal(raw, &probe); err != nil {
		return false
	}
	return probe.Swagger == "2.0"
}

func convertV2(loader *openapi3.Loader, raw []byte) (*openapi3.T, error) {
	// Round-trip through JSON so the document model's json tags apply to
	// YAML input too.
	var intermediate any
	if err := yaml.Unmarshal(raw, &intermediate); err != nil {
		return nil, err
	}
	data, err := json.Marshal(intermediate)
	if err != nil {
		return nil, err
	}
	var v2 openapi2.T
	if err := json.Unmarshal(data, &v2); err != nil {
		return nil, err
	}
	doc, err := openapi2conv.ToV3(&v2)
	if err != nil {
		return nil, err
	}
	if err := loader.ResolveRefsIn(doc, nil); err != nil {
		return nil, err
	}
	return doc, nil
}
