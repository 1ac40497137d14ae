// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package api contains the REST front-end of the Falcon gateway.
package api

import (
	"context"
	goerr "errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"

	v1 "github.com/stacklok/falcon-mcp/pkg/api/v1"
	"github.com/stacklok/falcon-mcp/pkg/config"
	"github.com/stacklok/falcon-mcp/pkg/errors"
	"github.com/stacklok/falcon-mcp/pkg/logger"
	"github.com/stacklok/falcon-mcp/pkg/metrics"
	"github.com/stacklok/falcon-mcp/pkg/telemetry"
	"github.com/stacklok/falcon-mcp/pkg/tools"
)

const (
	// requestTimeoutMargin is added on top of the upstream budget for local work.
	requestTimeoutMargin = 10 * time.Second
	readHeaderTimeout    = 10 * time.Second
	maxRequestBodySize   = 1 << 20
)

// Server is the REST front-end.
type Server struct {
	address         string
	shutdownTimeout time.Duration
	requestTimeout  time.Duration
	handler         http.Handler
}

// New creates the REST front-end. m may be nil, in which case /metrics is not served.
func New(cfg *config.Config, dispatcher *tools.Dispatcher, m *metrics.Metrics) *Server {
	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = config.DefaultShutdownTimeout
	}
	requestTimeout := requestBudget(cfg.APITimeout)
	return &Server{
		address:         cfg.HTTPAddress(),
		shutdownTimeout: shutdownTimeout,
		requestTimeout:  requestTimeout,
		handler:         newRouter(dispatcher, m, requestTimeout),
	}
}

// requestBudget bounds one REST call. A call fetches a token and then makes
// the upstream request, each limited by apiTimeout.
func requestBudget(apiTimeout time.Duration) time.Duration {
	if apiTimeout <= 0 {
		apiTimeout = config.DefaultAPITimeout
	}
	return 2*apiTimeout + requestTimeoutMargin
}

func newRouter(dispatcher *tools.Dispatcher, m *metrics.Metrics, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		telemetry.HTTPMiddleware(otel.GetTracerProvider()),
		middleware.Timeout(requestTimeout),
		headersMiddleware,
		requestBodySizeLimitMiddleware(maxRequestBodySize),
	)

	r.Get("/", v1.RootHandler())
	docs := DocsRouter(dispatcher.Registry())
	r.Handle(OpenAPIPath, docs)
	r.Handle(DocsPath, docs)
	routers := map[string]http.Handler{
		"/healthz": v1.HealthcheckRouter(),
		"/tools":   v1.ToolsRouter(dispatcher),
	}
	if m != nil {
		routers["/metrics"] = m.Handler()
	}
	for prefix, router := range routers {
		r.Mount(prefix, router)
	}
	return r
}

func headersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(w, r)
	})
}

// requestBodySizeLimitMiddleware rejects bodies larger than maxBodySize. A
// declared Content-Length over the limit is refused up front; otherwise the
// body is wrapped so reading past the limit fails.
func requestBodySizeLimitMiddleware(maxBodySize int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBodySize {
				http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
			next.ServeHTTP(w, r)
		})
	}
}

// Name implements types.Server.
func (*Server) Name() string {
	return v1.FrontendName
}

// Handler returns the router. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run binds the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return errors.NewTransportStartupError(fmt.Sprintf("failed to listen on %s", s.address), err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is cancelled, then shuts down gracefully
// within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		BaseContext:       func(net.Listener) context.Context { return ctx },
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	logger.Infof("Starting HTTP server on %s", listener.Addr())

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(listener); err != nil && !goerr.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}

	logger.Info("HTTP server stopped")
	return nil
}
