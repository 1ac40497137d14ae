// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/stacklok/falcon-mcp/pkg/credentials"
	"github.com/stacklok/falcon-mcp/pkg/tools"
	"github.com/stacklok/falcon-mcp/pkg/versions"
)

const (
	tagSystem = "system"
	tagTools  = "tools"
)

// buildOpenAPI describes the REST front-end. Every registry entry becomes a
// POST /tools/{name} operation whose request body is the tool's call schema.
func buildOpenAPI(registry *tools.Registry) (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "CrowdStrike Falcon MCP Server",
			Description: "HTTP/REST gateway for CrowdStrike Falcon MCP Server",
			Version:     versions.ServiceVersion(),
			License: &openapi3.License{
				Name: "Apache 2.0",
				URL:  "http://www.apache.org/licenses/LICENSE-2.0.html",
			},
		},
		Paths: openapi3.NewPaths(),
		Tags: openapi3.Tags{
			{Name: tagSystem, Description: "Service endpoints"},
			{Name: tagTools, Description: "CrowdStrike Falcon operations"},
		},
	}

	addSystemPaths(doc)
	for _, desc := range registry.List() {
		op, err := toolOperation(desc)
		if err != nil {
			return nil, err
		}
		doc.Paths.Set(desc.Endpoint(), &openapi3.PathItem{Post: op})
	}
	return doc, nil
}

func addSystemPaths(doc *openapi3.T) {
	doc.Paths.Set("/", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "getServiceDescriptor",
			Summary:     "Service descriptor",
			Tags:        []string{tagSystem},
			Responses:   jsonResponses("Service name, version and endpoints", objectSchema()),
		},
	})
	doc.Paths.Set("/healthz", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "getHealth",
			Summary:     "Health check",
			Tags:        []string{tagSystem},
			Responses:   jsonResponses("Service is healthy", objectSchema()),
		},
	})
	doc.Paths.Set("/tools", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "listTools",
			Summary:     "List tools",
			Tags:        []string{tagTools},
			Responses:   jsonResponses("Available tools", objectSchema()),
		},
	})
	doc.Paths.Set("/metrics", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "getMetrics",
			Summary:     "Prometheus metrics",
			Tags:        []string{tagSystem},
			Responses:   openapi3.NewResponses(),
		},
	})
}

func toolOperation(desc *tools.Descriptor) (*openapi3.Operation, error) {
	body, err := toOpenAPISchema(desc.CallSchema())
	if err != nil {
		return nil, fmt.Errorf("failed to describe tool %s: %w", desc.Name, err)
	}

	responses := jsonResponses("Raw JSON returned by the Falcon API", objectSchema())
	responses.Set("400", errorResponse("Invalid body, credentials or parameters"))
	responses.Set("404", errorResponse("Unknown tool"))
	responses.Set("413", errorResponse("Request body too large"))
	responses.Set("500", errorResponse("Upstream or internal failure"))

	return &openapi3.Operation{
		OperationID: desc.Name,
		Summary:     desc.Description,
		Description: fmt.Sprintf("Calls %s %s on the Falcon API.", desc.Method, desc.Path),
		Tags:        []string{tagTools},
		Parameters: openapi3.Parameters{
			headerParameter(credentials.APIKeyHeader, "CrowdStrike API key, used when the body has no api_key"),
			headerParameter(credentials.TenantIDHeader, "Tenant ID, used when the body has no tenant_id"),
		},
		RequestBody: &openapi3.RequestBodyRef{
			Value: &openapi3.RequestBody{
				Required: len(desc.Required()) > 0,
				Content:  openapi3.NewContentWithJSONSchema(body),
			},
		},
		Responses: responses,
	}, nil
}

// toOpenAPISchema converts a JSON Schema document into its OpenAPI form.
func toOpenAPISchema(schema map[string]any) (*openapi3.Schema, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	out := &openapi3.Schema{}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

func headerParameter(name, description string) *openapi3.ParameterRef {
	return &openapi3.ParameterRef{
		Value: &openapi3.Parameter{
			Name:        name,
			In:          openapi3.ParameterInHeader,
			Description: description,
			Schema:      &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
		},
	}
}

func objectSchema() *openapi3.Schema {
	return &openapi3.Schema{Type: &openapi3.Types{"object"}}
}

func jsonResponses(description string, schema *openapi3.Schema) *openapi3.Responses {
	responses := openapi3.NewResponses()
	responses.Set("200", &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: stringPtr(description),
			Content:     openapi3.NewContentWithJSONSchema(schema),
		},
	})
	return responses
}

func errorResponse(description string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: stringPtr(description),
			Content: openapi3.NewContentWithJSONSchema(&openapi3.Schema{
				Type:     &openapi3.Types{"object"},
				Required: []string{"error", "detail"},
				Properties: openapi3.Schemas{
					"error":  {Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
					"detail": {Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
					"known_tools": {Value: &openapi3.Schema{
						Type:  &openapi3.Types{"array"},
						Items: &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
					}},
				},
			}),
		},
	}
}

func stringPtr(s string) *string {
	return &s
}

// ServeOpenAPI writes the OpenAPI document.
func (d *docs) ServeOpenAPI(w http.ResponseWriter, _ *http.Request) {
	if d.err != nil {
		http.Error(w, "Failed to build OpenAPI specification", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(d.spec)
}
