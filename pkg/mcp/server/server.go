// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/stacklok/falcon-mcp/pkg/logger"
	"github.com/stacklok/falcon-mcp/pkg/tools"
	"github.com/stacklok/falcon-mcp/pkg/versions"
)

const (
	// ServerName is advertised to MCP clients during initialization.
	ServerName = "crowdstrike-falcon-mcp"

	// FrontendName labels calls received over MCP.
	FrontendName = "mcp"
)

// Server is the stdio MCP front-end.
type Server struct {
	mcpServer *server.MCPServer
	handler   *Handler
	in        io.Reader
	out       io.Writer
}

// Option configures a Server.
type Option func(*Server)

// WithIO replaces stdin and stdout. Used by tests.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(s *Server) {
		s.in = in
		s.out = out
	}
}

// New creates the MCP server and registers one tool per registry entry.
func New(dispatcher *tools.Dispatcher, opts ...Option) (*Server, error) {
	mcpServer := server.NewMCPServer(
		ServerName,
		versions.ServiceVersion(),
		server.WithToolCapabilities(false),
	)

	handler := NewHandler(dispatcher)
	if err := registerTools(mcpServer, handler, dispatcher.Registry()); err != nil {
		return nil, err
	}

	s := &Server{
		mcpServer: mcpServer,
		handler:   handler,
		in:        os.Stdin,
		out:       os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name implements types.Server.
func (*Server) Name() string {
	return FrontendName
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Run serves a single session on the configured reader and writer until the
// peer closes the stream or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(zap.NewStdLog(logger.Get().Desugar().Named("stdio")))

	logger.Info("Starting MCP server on stdio")
	err := stdio.Listen(ctx, s.in, s.out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("MCP server error: %w", err)
	}
	logger.Info("MCP server stopped")
	return nil
}

// registerTools registers every registry entry as an MCP tool.
func registerTools(mcpServer *server.MCPServer, handler *Handler, registry *tools.Registry) error {
	for _, desc := range registry.List() {
		schema, err := json.Marshal(desc.CallSchema())
		if err != nil {
			return fmt.Errorf("failed to encode input schema for %s: %w", desc.Name, err)
		}
		mcpServer.AddTool(mcp.Tool{
			Name:           desc.Name,
			Description:    desc.Description,
			RawInputSchema: schema,
		}, handler.Tool(desc))
	}
	return nil
}
