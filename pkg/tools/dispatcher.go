// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package tools

//go:generate mockgen -destination=mocks/mock_dispatcher.go -package=mocks -source=dispatcher.go ClientFactory,Recorder

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/falcon-mcp/pkg/credentials"
	"github.com/stacklok/falcon-mcp/pkg/errors"
	"github.com/stacklok/falcon-mcp/pkg/falcon"
	"github.com/stacklok/falcon-mcp/pkg/logger"
)

const tracerName = "github.com/stacklok/falcon-mcp/pkg/tools"

// OutcomeSuccess labels a call that returned an upstream result.
const OutcomeSuccess = "success"

// ClientFactory creates the single-use upstream client for one call.
type ClientFactory interface {
	New(creds credentials.Credentials) falcon.API
}

// Recorder observes completed tool calls.
type Recorder interface {
	// RecordToolCall is called once per call. outcome is OutcomeSuccess or the
	// error type of the failure.
	RecordToolCall(frontend, tool, outcome string, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordToolCall(string, string, string, time.Duration) {}

// Call is one inbound tool invocation, independent of the front-end it came from.
type Call struct {
	// Frontend names the surface that received the call, e.g. "mcp" or "http".
	Frontend string
	// Tool is the operation name.
	Tool string
	// Explicit holds credentials supplied as call arguments or body fields.
	Explicit credentials.Source
	// Header holds credentials supplied as request headers.
	Header credentials.Source
	// Params are the operation parameters with credential fields removed.
	Params map[string]any
}

// Dispatcher resolves calls against a registry and executes them upstream.
type Dispatcher struct {
	registry *Registry
	resolver *credentials.Resolver
	factory  ClientFactory
	recorder Recorder
	tracer   trace.Tracer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRecorder sets the recorder notified of every call.
func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.recorder = r
		}
	}
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(
	registry *Registry, resolver *credentials.Resolver, factory ClientFactory, opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		resolver: resolver,
		factory:  factory,
		recorder: nopRecorder{},
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the registry the dispatcher resolves against.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch resolves the tool, then the credentials, then executes the call.
// The upstream call is detached from ctx cancellation and bounded only by the
// client timeouts.
func (d *Dispatcher) Dispatch(ctx context.Context, call Call) (result json.RawMessage, err error) {
	start := time.Now()
	callID := uuid.NewString()

	ctx, span := d.tracer.Start(ctx, "tools.dispatch",
		trace.WithAttributes(
			attribute.String("tool.name", call.Tool),
			attribute.String("tool.frontend", call.Frontend),
			attribute.String("tool.call_id", callID),
		),
	)
	defer func() {
		outcome := OutcomeSuccess
		if err != nil {
			outcome = errors.TypeOf(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		span.End()
		d.recorder.RecordToolCall(call.Frontend, call.Tool, outcome, time.Since(start))

		if err != nil {
			logger.Debugw("tool call failed",
				"call_id", callID, "tool", call.Tool, "frontend", call.Frontend,
				"error_type", outcome, "duration", time.Since(start))
			return
		}
		logger.Debugw("tool call completed",
			"call_id", callID, "tool", call.Tool, "frontend", call.Frontend,
			"duration", time.Since(start))
	}()

	desc, err := d.registry.Resolve(call.Tool)
	if err != nil {
		return nil, err
	}
	creds, err := d.resolver.Resolve(call.Explicit, call.Header)
	if err != nil {
		return nil, err
	}
	return d.Invoke(ctx, desc, creds, call.Params)
}

// Invoke executes desc with already-resolved credentials. Parameters are
// validated before any network traffic.
func (d *Dispatcher) Invoke(
	ctx context.Context, desc *Descriptor, creds credentials.Credentials, params map[string]any,
) (json.RawMessage, error) {
	query, body, err := desc.Request(params)
	if err != nil {
		return nil, err
	}

	client := d.factory.New(creds)
	defer client.Close()

	var payload any
	if body != nil {
		payload = body
	}
	return client.Do(context.WithoutCancel(ctx), desc.Method, desc.Path, query, payload)
}
