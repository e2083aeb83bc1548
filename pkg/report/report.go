// Package report derives the missing-definitions and type-coverage reports
// from the engine output. Reports are consumers of resolution: degraded
// fragments never stop a run, they surface here for triage.
package report

import (
	"sort"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/typebind-dev/typebind/pkg/extractor"
	"github.com/typebind-dev/typebind/pkg/naming"
	"github.com/typebind-dev/typebind/pkg/resolver"
	"github.com/typebind-dev/typebind/pkg/schema"
	"github.com/typebind-dev/typebind/pkg/typemodel"
)

// Location identifies which slot of an operation an issue concerns.
type Location string

const (
	LocPathParameter  Location = "path.parameter"
	LocQueryParameter Location = "query.parameter"
	LocRequestBody    Location = "request.body"
	LocResponseBody   Location = "response.body"
)

var allLocations = []Location{LocPathParameter, LocQueryParameter, LocRequestBody, LocResponseBody}

// Issue is one untyped or undeclared slot.
type Issue struct {
	Path                  string   `json:"path"`
	Method                string   `json:"method"`
	Location              Location `json:"location"`
	Field                 string   `json:"field,omitempty"`
	Reason                string   `json:"reason"`
	RecommendedDefinition string   `json:"recommendedDefinition"`
}

// MissingDefinitions is the missing-definitions report.
type MissingDefinitions struct {
	GeneratedAt time.Time        `json:"generatedAt"`
	Total       int              `json:"total"`
	ByLocation  map[Location]int `json:"byLocation"`
	Issues      []Issue          `json:"issues"`
}

// LocationCoverage is one coverage bucket.
type LocationCoverage struct {
	Total              int     `json:"total"`
	Typed              int     `json:"typed"`
	Untyped            int     `json:"untyped"`
	CoveragePercentage float64 `json:"coveragePercentage"`
}

// OperationCoverage summarizes one operation.
type OperationCoverage struct {
	Path    string `json:"path"`
	Method  string `json:"method"`
	Typed   int    `json:"typed"`
	Untyped int    `json:"untyped"`
}

// TypeCoverage is the type-coverage report.
type TypeCoverage struct {
	Totals     LocationCoverage              `json:"totals"`
	ByLocation map[Location]LocationCoverage `json:"byLocation"`
	Operations []OperationCoverage           `json:"operations"`
	Issues     []Issue                       `json:"issues"`
}

type slot struct {
	location Location
	field    string
	typed    bool
	reason   string
	suggest  string
}

// Build scans every operation of doc against the resolved operation type
// map and produces both reports.
func Build(doc *openapi3.T, ops typemodel.OperationTypeMap, now time.Time) (MissingDefinitions, TypeCoverage) {
	missing := MissingDefinitions{GeneratedAt: now, ByLocation: make(map[Location]int)}
	coverage := TypeCoverage{ByLocation: make(map[Location]LocationCoverage)}
	for _, loc := range allLocations {
		missing.ByLocation[loc] = 0
		coverage.ByLocation[loc] = LocationCoverage{}
	}

	walkOperations(doc, func(path, method string, op *openapi3.Operation) {
		opCov := OperationCoverage{Path: path, Method: method}
		for _, s := range operationSlots(path, method, op, ops) {
			bucket := coverage.ByLocation[s.location]
			bucket.Total++
			if s.typed {
				bucket.Typed++
				opCov.Typed++
			} else {
				bucket.Untyped++
				opCov.Untyped++
				issue := Issue{
					Path:                  path,
					Method:                method,
					Location:              s.location,
					Field:                 s.field,
					Reason:                s.reason,
					RecommendedDefinition: s.suggest,
				}
				missing.Issues = append(missing.Issues, issue)
				missing.ByLocation[s.location]++
				coverage.Issues = append(coverage.Issues, issue)
			}
			coverage.ByLocation[s.location] = bucket
		}
		coverage.Operations = append(coverage.Operations, opCov)
	})

	missing.Total = len(missing.Issues)
	for _, bucket := range coverage.ByLocation {
		coverage.Totals.Total += bucket.Total
		coverage.Totals.Typed += bucket.Typed
		coverage.Totals.Untyped += bucket.Untyped
	}
	coverage.Totals.CoveragePercentage = percentage(coverage.Totals.Typed, coverage.Totals.Total)
	for loc, bucket := range coverage.ByLocation {
		bucket.CoveragePercentage = percentage(bucket.Typed, bucket.Total)
		coverage.ByLocation[loc] = bucket
	}
	return missing, coverage
}

var methodOrder = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD", "TRACE"}

func walkOperations(doc *openapi3.T, fn func(path, method string, op *openapi3.Operation)) {
	if doc == nil || doc.Paths == nil {
		return
	}
	paths := make([]string, 0, doc.Paths.Len())
	for path := range doc.Paths.Map() {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		item := doc.Paths.Value(path)
		if item == nil {
			continue
		}
		for _, method := range methodOrder {
			if op := item.GetOperation(method); op != nil {
				fn(path, method, op)
			}
		}
	}
}

// operationSlots enumerates the typed/untyped slots of one operation:
// each path and query parameter, the request body when declared, and the
// success response when declared.
func operationSlots(path, method string, op *openapi3.Operation, ops typemodel.OperationTypeMap) []slot {
	var slots []slot
	reg := naming.NewRegistry()

	for _, pr := range op.Parameters {
		if pr == nil || pr.Value == nil {
			continue
		}
		p := pr.Value
		var loc Location
		switch p.In {
		case openapi3.ParameterInPath:
			loc = LocPathParameter
		case openapi3.ParameterInQuery:
			loc = LocQueryParameter
		default:
			continue
		}
		reason := "parameter schema did not resolve to a concrete type"
		if p.Schema == nil {
			reason = "parameter declares no schema"
		}
		typed := !resolver.Resolve(schema.FromRef(p.Schema), reg).IsUnknown()
		slots = append(slots, slot{
			location: loc,
			field:    p.Name,
			typed:    typed,
			reason:   reason,
			suggest:  naming.Sanitize(p.Name) + "Parameter",
		})
	}

	types, _ := ops.Lookup(path, method)
	if op.RequestBody != nil {
		reason := "request body schema did not resolve to a concrete type"
		if op.RequestBody.Value == nil || len(op.RequestBody.Value.Content) == 0 {
			reason = "request body declares no schema"
		}
		slots = append(slots, slot{
			location: LocRequestBody,
			typed:    types.RequestType != "",
			reason:   reason,
			suggest:  extractor.BaseName(path, method, op) + "Request",
		})
	}
	if hasSuccessResponse(op) {
		slots = append(slots, slot{
			location: LocResponseBody,
			typed:    types.ResponseType != "",
			reason:   "response body schema did not resolve to a concrete type",
			suggest:  extractor.BaseName(path, method, op) + "Response",
		})
	}
	return slots
}

func hasSuccessResponse(op *openapi3.Operation) bool {
	if op.Responses == nil {
		return false
	}
	for code := range op.Responses.Map() {
		if len(code) == 3 && code[0] == '2' {
			return true
		}
	}
	return false
}

func percentage(typed, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(typed) / float64(total) * 100
}
