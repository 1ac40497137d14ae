// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package transport runs the gateway's front-ends for the configured
// transport mode.
package transport

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/stacklok/falcon-mcp/pkg/logger"
	"github.com/stacklok/falcon-mcp/pkg/transport/types"
)

// Orchestrator runs the MCP front-end, the REST front-end, or both.
type Orchestrator struct {
	mode  types.TransportMode
	stdio types.Server
	http  types.Server
}

// NewOrchestrator creates an orchestrator. Unrecognised modes run as dual.
func NewOrchestrator(mode types.TransportMode, stdio, http types.Server) *Orchestrator {
	return &Orchestrator{
		mode:  types.ParseTransportMode(string(mode)),
		stdio: stdio,
		http:  http,
	}
}

// Mode returns the effective transport mode.
func (o *Orchestrator) Mode() types.TransportMode {
	return o.mode
}

// Run blocks until the foreground front-end exits or ctx is cancelled.
//
// In dual mode the REST front-end runs in the background and MCP in the
// foreground. When MCP exits the REST front-end is cancelled and joined. When
// the REST front-end fails, MCP is cancelled and the failure is returned.
func (o *Orchestrator) Run(ctx context.Context) error {
	logger.Infof("Starting transport in %s mode", o.mode)

	switch o.mode {
	case types.TransportModeStdio:
		return run(ctx, o.stdio)
	case types.TransportModeHTTP:
		return run(ctx, o.http)
	case types.TransportModeDual:
		return o.runDual(ctx)
	default:
		return o.runDual(ctx)
	}
}

func (o *Orchestrator) runDual(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	background, cancelBackground := context.WithCancel(gctx)
	defer cancelBackground()

	g.Go(func() error {
		return run(background, o.http)
	})
	g.Go(func() error {
		defer cancelBackground()
		return run(gctx, o.stdio)
	})

	return g.Wait()
}

func run(ctx context.Context, srv types.Server) error {
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("%s front-end: %w", srv.Name(), err)
	}
	logger.Debugf("%s front-end stopped", srv.Name())
	return nil
}
