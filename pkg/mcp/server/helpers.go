// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/stacklok/falcon-mcp/pkg/errors"
)

// toolResult returns the upstream JSON verbatim as text, and as structured
// content when it is an object.
func toolResult(raw json.RawMessage) *mcp.CallToolResult {
	var structured map[string]any
	if err := json.Unmarshal(raw, &structured); err != nil || structured == nil {
		return mcp.NewToolResultText(string(raw))
	}
	return mcp.NewToolResultStructured(structured, string(raw))
}

// toolError renders err as a tool error whose text starts with the error type.
func toolError(err error) *mcp.CallToolResult {
	kind := errors.TypeOf(err)
	msg := err.Error()
	if !strings.HasPrefix(msg, kind+":") {
		msg = kind + ": " + msg
	}
	return mcp.NewToolResultError(msg)
}
