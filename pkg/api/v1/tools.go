// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package v1 provides the REST routes of the Falcon gateway.
package v1

import (
	"bytes"
	"encoding/json"
	goerr "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stacklok/toolhive-core/httperr"

	apierrors "github.com/stacklok/falcon-mcp/pkg/api/errors"
	"github.com/stacklok/falcon-mcp/pkg/credentials"
	"github.com/stacklok/falcon-mcp/pkg/errors"
	"github.com/stacklok/falcon-mcp/pkg/tools"
)

// FrontendName labels calls received over REST.
const FrontendName = "http"

// ToolsRouter sets up the tool listing and invocation routes.
func ToolsRouter(dispatcher *tools.Dispatcher) http.Handler {
	routes := &toolsRoutes{dispatcher: dispatcher}
	r := chi.NewRouter()
	r.Get("/", routes.listTools)
	r.Post("/{name}", apierrors.ErrorHandler(routes.callTool))
	return r
}

type toolsRoutes struct {
	dispatcher *tools.Dispatcher
}

type toolSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Endpoint    string `json:"endpoint"`
}

type toolListResponse struct {
	Tools []toolSummary `json:"tools"`
}

func (t *toolsRoutes) listTools(w http.ResponseWriter, _ *http.Request) {
	descs := t.dispatcher.Registry().List()
	resp := toolListResponse{Tools: make([]toolSummary, 0, len(descs))}
	for _, d := range descs {
		resp.Tools = append(resp.Tools, toolSummary{
			Name:        d.Name,
			Description: d.Description,
			Endpoint:    d.Endpoint(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// callTool invokes one tool. The body is parsed before credentials are
// resolved, so a malformed body is always a 400 regardless of auth.
func (t *toolsRoutes) callTool(w http.ResponseWriter, r *http.Request) error {
	args, err := decodeArguments(r.Body)
	if err != nil {
		return err
	}

	explicit, params, err := credentials.Extract(args)
	if err != nil {
		return httperr.WithCode(err, http.StatusBadRequest)
	}

	result, err := t.dispatcher.Dispatch(r.Context(), tools.Call{
		Frontend: FrontendName,
		Tool:     chi.URLParam(r, "name"),
		Explicit: explicit,
		Header: credentials.Source{
			APIKey:   r.Header.Get(credentials.APIKeyHeader),
			TenantID: r.Header.Get(credentials.TenantIDHeader),
		},
		Params: params,
	})
	if err != nil {
		return httperr.WithCode(err, errors.StatusCode(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result)
	return nil
}

// decodeArguments reads a JSON object body. An empty body is an empty object.
func decodeArguments(body io.Reader) (map[string]any, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if goerr.As(err, &maxErr) {
			return nil, httperr.WithCode(
				errors.NewInvalidParametersError(fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit), nil),
				http.StatusRequestEntityTooLarge)
		}
		return nil, httperr.WithCode(errors.NewInvalidParametersError("failed to read request body", err),
			http.StatusBadRequest)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return map[string]any{}, nil
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, httperr.WithCode(errors.NewInvalidParametersError("invalid JSON body", err),
			http.StatusBadRequest)
	}
	args, ok := decoded.(map[string]any)
	if !ok {
		return nil, httperr.WithCode(errors.NewInvalidParametersError("request body must be a JSON object", nil),
			http.StatusBadRequest)
	}
	return args, nil
}
