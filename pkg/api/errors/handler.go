// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package errors provides HTTP error handling utilities for the API.
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/stacklok/toolhive-core/httperr"

	"github.com/stacklok/falcon-mcp/pkg/errors"
	"github.com/stacklok/falcon-mcp/pkg/logger"
)

// HandlerWithError is an HTTP handler that can return an error.
// This signature allows handlers to return errors instead of manually
// writing error responses, enabling centralized error handling.
type HandlerWithError func(http.ResponseWriter, *http.Request) error

// Response is the JSON body written for every failed request.
type Response struct {
	// Error is the taxonomy type, e.g. "missing_credential".
	Error string `json:"error"`
	// Detail is the human readable message.
	Detail string `json:"detail"`
	// KnownTools lists the valid tool names when the requested one does not exist.
	KnownTools []string `json:"known_tools,omitempty"`
}

// ErrorHandler wraps a HandlerWithError and converts returned errors
// into JSON error responses.
//
// The decorator:
//   - Returns early if no error is returned (handler already wrote the response)
//   - Takes the HTTP status code from httperr.Code, falling back to the taxonomy mapping
//   - Logs 5xx errors; the message is still returned since it never carries credentials
//
// Usage:
//
//	r.Post("/{name}", apierrors.ErrorHandler(routes.callTool))
func ErrorHandler(fn HandlerWithError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		Write(w, err)
	}
}

// Write encodes err as a JSON error response.
func Write(w http.ResponseWriter, err error) {
	code := httperr.Code(err)
	if code < http.StatusBadRequest {
		code = errors.StatusCode(err)
	}

	if code >= http.StatusInternalServerError {
		logger.Errorf("Internal server error: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := Response{
		Error:      errors.TypeOf(err),
		Detail:     err.Error(),
		KnownTools: errors.KnownOperations(err),
	}
	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		logger.Errorf("Failed to encode error response: %v", encErr)
	}
}
