// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stacklok/falcon-mcp/pkg/api"
	"github.com/stacklok/falcon-mcp/pkg/config"
	"github.com/stacklok/falcon-mcp/pkg/credentials"
	"github.com/stacklok/falcon-mcp/pkg/falcon"
	"github.com/stacklok/falcon-mcp/pkg/logger"
	mcpserver "github.com/stacklok/falcon-mcp/pkg/mcp/server"
	"github.com/stacklok/falcon-mcp/pkg/metrics"
	"github.com/stacklok/falcon-mcp/pkg/telemetry"
	"github.com/stacklok/falcon-mcp/pkg/tools"
	"github.com/stacklok/falcon-mcp/pkg/transport"
)

// credentialsHelp documents how API keys become OAuth2 client credentials.
const credentialsHelp = `Credentials:
  An API key of the form client_id:client_secret is split on the first colon.
  A bare client_id is paired with FALCON_CLIENT_SECRET when it is set.
  WARNING: when FALCON_CLIENT_SECRET is unset, the bare client_id is also sent
  as the client secret. This only works against endpoints that accept it; set
  FALCON_CLIENT_SECRET or pass client_id:client_secret instead.`

// newServeCmd creates the serve command for starting the gateway
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the gateway",
		Long: `Start the gateway in the configured transport mode.

  stdio  serve MCP on stdin/stdout only
  http   serve the REST API only
  dual   serve the REST API in the background and MCP on stdin/stdout (default)

Any other value of --transport or TRANSPORT_MODE is treated as dual.

` + credentialsHelp,
		RunE: runServe,
	}
}

// runServe implements the serve command logic
func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("configuration loading failed: %w", err)
	}

	shutdown, err := telemetry.Setup(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("telemetry setup failed: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(cmd.Context()), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Warnf("Failed to flush traces: %v", err)
		}
	}()

	orchestrator, err := newOrchestrator(cfg)
	if err != nil {
		return err
	}

	logger.Infow("Starting falcon-mcp",
		"transport", orchestrator.Mode(),
		"api_base_url", cfg.APIBaseURL,
		"http_address", cfg.HTTPAddress(),
	)
	return orchestrator.Run(cmd.Context())
}

// newOrchestrator wires both front-ends to one dispatcher.
func newOrchestrator(cfg *config.Config) (*transport.Orchestrator, error) {
	m := metrics.New()
	dispatcher := tools.NewDispatcher(
		tools.Default(),
		credentials.NewResolver(cfg),
		falcon.NewFactory(cfg),
		tools.WithRecorder(m),
	)

	mcpSrv, err := mcpserver.New(dispatcher)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP server: %w", err)
	}
	httpSrv := api.New(cfg, dispatcher, m)

	return transport.NewOrchestrator(cfg.TransportMode, mcpSrv, httpSrv), nil
}
