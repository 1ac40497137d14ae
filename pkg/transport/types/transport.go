// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package types provides the transport mode shared by configuration and the orchestrator.
package types

import (
	"context"
	"strings"
)

// TransportMode selects which front-ends the process runs.
//
//nolint:revive // Intentionally named TransportMode despite package name
type TransportMode string

const (
	// TransportModeStdio runs only the MCP front-end over stdin/stdout.
	TransportModeStdio TransportMode = "stdio"

	// TransportModeHTTP runs only the REST front-end.
	TransportModeHTTP TransportMode = "http"

	// TransportModeDual runs the REST front-end in the background and MCP in the foreground.
	TransportModeDual TransportMode = "dual"
)

// String returns the string representation of the transport mode.
func (t TransportMode) String() string {
	return string(t)
}

// ParseTransportMode parses a string into a transport mode. Matching is
// case-insensitive; any unrecognised value, including the empty string, is dual.
func ParseTransportMode(s string) TransportMode {
	switch TransportMode(strings.ToLower(strings.TrimSpace(s))) {
	case TransportModeStdio:
		return TransportModeStdio
	case TransportModeHTTP:
		return TransportModeHTTP
	default:
		return TransportModeDual
	}
}

// Server is a front-end that serves until ctx is cancelled or it fails.
type Server interface {
	// Name identifies the front-end in logs.
	Name() string

	// Run blocks while serving. It returns nil on a clean stop.
	Run(ctx context.Context) error
}
