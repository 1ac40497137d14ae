// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package app provides the entry point for the falcon-mcp command-line application.
package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stacklok/falcon-mcp/pkg/config"
	"github.com/stacklok/falcon-mcp/pkg/logger"
)

// NewRootCmd creates a new root command for the falcon-mcp CLI. Running it
// without a subcommand starts the gateway.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "falcon-mcp",
		DisableAutoGenTag: true,
		Short:             "CrowdStrike Falcon gateway for MCP clients and HTTP callers",
		Long: `falcon-mcp exposes a fixed set of CrowdStrike Falcon operations (hosts, detections,
IOCs, host groups, prevention policies and sensor-update policies) as MCP tools over
stdio and as REST endpoints over HTTP.

Credentials are taken from each call, from the X-API-Key and X-Tenant-ID headers on
REST requests, or from the FALCON_API_KEY and FALCON_TENANT_ID environment variables.

` + credentialsHelp,
		RunE: runServe,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.Initialize()
		},
	}

	// Add persistent flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	bindFlag(rootCmd, "debug", "debug")

	rootCmd.PersistentFlags().String("transport", "",
		"Transport mode: stdio, http or dual (can also be set via TRANSPORT_MODE env var)")
	bindFlag(rootCmd, config.KeyTransport, "transport")

	rootCmd.PersistentFlags().Int("http-port", config.DefaultHTTPPort,
		"Port of the REST front-end (can also be set via HTTP_PORT env var)")
	bindFlag(rootCmd, config.KeyHTTPPort, "http-port")

	rootCmd.PersistentFlags().String("http-host", config.DefaultHTTPHost,
		"Host of the REST front-end (can also be set via HTTP_HOST env var)")
	bindFlag(rootCmd, config.KeyHTTPHost, "http-host")

	rootCmd.PersistentFlags().String("otel-endpoint", "",
		"OTLP/HTTP collector host:port; tracing is disabled when empty (can also be set via FALCON_OTEL_ENDPOINT env var)")
	bindFlag(rootCmd, config.KeyOTELEndpoint, "otel-endpoint")

	// Add subcommands
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newToolsCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Silence printing the usage on error
	rootCmd.SilenceUsage = true

	return rootCmd
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		logger.Errorf("Error binding %s flag: %v", flag, err)
	}
}
