// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package server provides the MCP (Model Context Protocol) front-end that
// exposes every Falcon operation as a tool.
package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/stacklok/falcon-mcp/pkg/credentials"
	"github.com/stacklok/falcon-mcp/pkg/tools"
)

// Handler handles MCP tool requests by forwarding them to the dispatcher.
type Handler struct {
	dispatcher *tools.Dispatcher
}

// NewHandler creates a new handler
func NewHandler(dispatcher *tools.Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// Tool returns the handler for desc. Failures are reported as tool errors so
// the agent can read them, never as protocol errors.
func (h *Handler) Tool(desc *tools.Descriptor) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		explicit, params, err := credentials.Extract(request.GetArguments())
		if err != nil {
			return toolError(err), nil
		}

		result, err := h.dispatcher.Dispatch(ctx, tools.Call{
			Frontend: FrontendName,
			Tool:     desc.Name,
			Explicit: explicit,
			Params:   params,
		})
		if err != nil {
			return toolError(err), nil
		}
		return toolResult(result), nil
	}
}
