// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package falcon implements the client for the CrowdStrike Falcon REST API.
//
// A Client serves exactly one tool call: it owns its own transport, fetches a
// fresh OAuth2 token for every request and must be closed when the call ends.
package falcon

//go:generate mockgen -destination=mocks/mock_api.go -package=mocks -source=client.go API

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/stacklok/falcon-mcp/pkg/config"
	"github.com/stacklok/falcon-mcp/pkg/credentials"
	"github.com/stacklok/falcon-mcp/pkg/errors"
	"github.com/stacklok/falcon-mcp/pkg/logger"
)

const (
	// TokenPath is the OAuth2 client-credentials endpoint.
	TokenPath = "/oauth2/token"
	// TenantHeader scopes a request to a child tenant.
	TenantHeader = "X-CS-TENANT-ID"

	// maxResponseSize caps how much of an upstream body is read.
	maxResponseSize = 100 * 1024 * 1024 // 100 MB

	tracerName = "github.com/stacklok/falcon-mcp/pkg/falcon"
)

// API is the surface the tool dispatcher needs from an upstream client.
type API interface {
	// Do performs one authenticated request and returns the raw JSON body.
	Do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error)
	// Close releases the client's network resources.
	Close()
}

// Options configure a Client.
type Options struct {
	// BaseURL is the API root, e.g. https://api.crowdstrike.com.
	BaseURL string
	// ClientSecret is used when the API key carries no embedded secret.
	ClientSecret string
	// Timeout bounds the token fetch and the request separately.
	Timeout time.Duration
	// Transport overrides the per-client transport. Used by tests.
	Transport http.RoundTripper
}

// Client is a single-use Falcon API client.
type Client struct {
	baseURL      string
	creds        credentials.Credentials
	clientSecret string
	timeout      time.Duration
	httpClient   *http.Client
	tracer       trace.Tracer
}

// NewClient creates a client for one call made with creds.
func NewClient(creds credentials.Credentials, opts Options) *Client {
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport.(*http.Transport).Clone()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = config.DefaultAPITimeout
	}

	return &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		creds:        creds,
		clientSecret: opts.ClientSecret,
		timeout:      timeout,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		tracer: otel.Tracer(tracerName),
	}
}

// Close releases idle connections held by the client's transport.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// SplitAPIKey derives the OAuth2 client id and secret from an API key.
//
// "id:secret" splits on the first colon. A bare id is paired with
// fallbackSecret, or with itself when no fallback is configured.
func SplitAPIKey(apiKey, fallbackSecret string) (clientID, clientSecret string) {
	if id, secret, ok := strings.Cut(apiKey, ":"); ok {
		return id, secret
	}
	if fallbackSecret != "" {
		return apiKey, fallbackSecret
	}
	// NOTE: self-fallback kept for deployments that rely on it; it is not a
	// meaningful secret.
	return apiKey, apiKey
}

// AcquireToken exchanges the client's credentials for a bearer token. Every
// call performs a new exchange.
func (c *Client) AcquireToken(ctx context.Context) (string, error) {
	clientID, clientSecret := SplitAPIKey(c.creds.APIKey, c.clientSecret)

	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     c.baseURL + TokenPath,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := conf.Token(ctx)
	if err != nil {
		return "", errors.NewUpstreamAuthError("failed to obtain access token", err)
	}
	if token.AccessToken == "" {
		return "", errors.NewUpstreamAuthError("token response did not include an access_token", nil)
	}
	return token.AccessToken, nil
}

// Do performs an authenticated request. query is sent for every method; body is
// JSON-encoded for POST and PUT and ignored otherwise.
func (c *Client) Do(
	ctx context.Context, method, path string, query url.Values, body any,
) (_ json.RawMessage, retErr error) {
	ctx, span := c.tracer.Start(ctx, "falcon.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer func() {
		if retErr != nil {
			span.RecordError(retErr)
			span.SetStatus(codes.Error, errors.TypeOf(retErr))
		}
		span.End()
	}()

	token, err := c.AcquireToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewUpstreamRequestError(method, path, 0, nil, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.NewUpstreamRequestError(method, path, 0, nil, fmt.Errorf("failed to read response: %w", err))
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.NewUpstreamRequestError(method, path, resp.StatusCode, respBody, nil)
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(respBody) {
		return nil, errors.NewInternalError(fmt.Sprintf("%s %s returned a non-JSON body", method, path), nil)
	}

	logger.Debugw("upstream request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"trace_id", gjson.GetBytes(respBody, "meta.trace_id").String(),
		"resources", gjson.GetBytes(respBody, "resources.#").Int(),
		"errors", gjson.GetBytes(respBody, "errors.#").Int(),
	)

	return json.RawMessage(respBody), nil
}

func (c *Client) newRequest(
	ctx context.Context, method, path string, query url.Values, body any,
) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil && (method == http.MethodPost || method == http.MethodPut) {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.NewInternalError("failed to encode request body", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, errors.NewInternalError("failed to build upstream request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.creds.TenantID != "" {
		req.Header.Set(TenantHeader, c.creds.TenantID)
	}
	return req, nil
}

// Factory creates one Client per tool call from the process configuration.
type Factory struct {
	opts Options
}

// NewFactory creates a Factory from cfg.
func NewFactory(cfg *config.Config) *Factory {
	return &Factory{opts: Options{
		BaseURL:      cfg.APIBaseURL,
		ClientSecret: cfg.ClientSecret,
		Timeout:      cfg.APITimeout,
	}}
}

// NewFactoryWithOptions creates a Factory with explicit options.
func NewFactoryWithOptions(opts Options) *Factory {
	return &Factory{opts: opts}
}

// New returns a fresh client for creds.
func (f *Factory) New(creds credentials.Credentials) API {
	return NewClient(creds, f.opts)
}
