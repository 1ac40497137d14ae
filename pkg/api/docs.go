// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stacklok/falcon-mcp/pkg/logger"
	"github.com/stacklok/falcon-mcp/pkg/tools"
)

const (
	// OpenAPIPath serves the OpenAPI document.
	OpenAPIPath = "/openapi.json"
	// DocsPath serves the API reference page.
	DocsPath = "/docs"
)

// docs holds the encoded OpenAPI document. The registry is fixed, so it is
// built once.
type docs struct {
	spec []byte
	err  error
}

func newDocs(registry *tools.Registry) *docs {
	d := &docs{}
	doc, err := buildOpenAPI(registry)
	if err == nil {
		d.spec, err = json.Marshal(doc)
	}
	if err != nil {
		logger.Errorf("Failed to build OpenAPI specification: %v", err)
		d.err = err
	}
	return d
}

// DocsRouter creates a new router for documentation endpoints.
func DocsRouter(registry *tools.Registry) http.Handler {
	d := newDocs(registry)
	r := chi.NewRouter()
	r.Get(OpenAPIPath, d.ServeOpenAPI)
	r.Get(DocsPath, d.ServeScalar)
	return r
}
