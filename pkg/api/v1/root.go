// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package v1

import (
	"net/http"

	"github.com/stacklok/falcon-mcp/pkg/versions"
)

const (
	documentationPath = "/docs"
	openAPIPath       = "/openapi.json"
)

type serviceDescriptor struct {
	Service       string            `json:"service"`
	Version       string            `json:"version"`
	Transport     string            `json:"transport"`
	Endpoints     map[string]string `json:"endpoints"`
	Documentation string            `json:"documentation"`
}

// RootHandler describes the service and the endpoints it serves.
func RootHandler() http.HandlerFunc {
	descriptor := serviceDescriptor{
		Service:   "CrowdStrike Falcon MCP Server",
		Version:   versions.ServiceVersion(),
		Transport: "HTTP/REST",
		Endpoints: map[string]string{
			"health":    "/healthz",
			"tools":     "/tools",
			"call_tool": "/tools/{tool_name}",
			"metrics":   "/metrics",
			"openapi":   openAPIPath,
		},
		Documentation: documentationPath,
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, descriptor)
	}
}
