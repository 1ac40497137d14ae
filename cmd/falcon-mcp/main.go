// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package main is the entry point for the CrowdStrike Falcon MCP gateway.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/stacklok/falcon-mcp/cmd/falcon-mcp/app"
	"github.com/stacklok/falcon-mcp/pkg/logger"
)

func main() {
	// Initialize the logger
	logger.Initialize()
	defer logger.Sync()

	// Create a context that will be canceled on signal
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Execute the root command with context
	err := app.NewRootCmd().ExecuteContext(ctx)
	cancel()
	if err != nil {
		logger.Errorf("Error executing command: %v", err)
		logger.Sync()
		os.Exit(1)
	}
}
