// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package config builds the process configuration once at startup. Nothing
// below this package reads the environment; the resulting Config is passed
// explicitly to the credential resolver, the upstream client factory and the
// transport orchestrator.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/stacklok/falcon-mcp/pkg/transport/types"
)

// Viper keys. Each key is bound to the environment variables listed in envBindings
// and may be overridden by a CLI flag bound to the same key.
const (
	KeyAPIBaseURL      = "api_base_url"
	KeyTransport       = "transport"
	KeyHTTPHost        = "http_host"
	KeyHTTPPort        = "http_port"
	KeyStdioPort       = "stdio_port"
	KeyAPIKey          = "api_key"
	KeyTenantID        = "tenant_id"
	KeyClientSecret    = "client_secret"
	KeyAPITimeout      = "api_timeout"
	KeyShutdownTimeout = "shutdown_timeout"
	KeyOTELEndpoint    = "otel_endpoint"
	KeyOTELInsecure    = "otel_insecure"
	KeyOTELSampling    = "otel_sampling_rate"
)

const (
	// DefaultAPIBaseURL is the CrowdStrike US-1 cloud.
	DefaultAPIBaseURL = "https://api.crowdstrike.com"
	// DefaultHTTPHost binds the REST front-end on all interfaces.
	DefaultHTTPHost = "0.0.0.0"
	// DefaultHTTPPort is the REST front-end port.
	DefaultHTTPPort = 80
	// DefaultStdioPort is reserved and not used by the stdio transport.
	DefaultStdioPort = 8080
	// DefaultAPITimeout bounds token acquisition and each upstream call.
	DefaultAPITimeout = 30 * time.Second
	// DefaultShutdownTimeout bounds the graceful HTTP shutdown.
	DefaultShutdownTimeout = 10 * time.Second
	// DefaultOTELSamplingRate is the fraction of traces kept when tracing is enabled.
	DefaultOTELSamplingRate = 0.1
)

var envBindings = map[string][]string{
	KeyAPIBaseURL:      {"FALCON_API_BASE_URL"},
	KeyTransport:       {"TRANSPORT_MODE"},
	KeyHTTPHost:        {"HTTP_HOST"},
	KeyHTTPPort:        {"HTTP_PORT"},
	KeyStdioPort:       {"STDIO_PORT"},
	KeyAPIKey:          {"FALCON_API_KEY", "CROWDSTRIKE_API_KEY"},
	KeyTenantID:        {"FALCON_TENANT_ID", "CROWDSTRIKE_TENANT_ID"},
	KeyClientSecret:    {"FALCON_CLIENT_SECRET"},
	KeyAPITimeout:      {"FALCON_API_TIMEOUT"},
	KeyShutdownTimeout: {"SHUTDOWN_TIMEOUT"},
	KeyOTELEndpoint:    {"FALCON_OTEL_ENDPOINT"},
	KeyOTELInsecure:    {"FALCON_OTEL_INSECURE"},
	KeyOTELSampling:    {"FALCON_OTEL_SAMPLING_RATE"},
}

// Config is the immutable process configuration.
type Config struct {
	// APIBaseURL is the upstream API root, without a trailing slash.
	APIBaseURL string
	// TransportMode selects which front-ends run.
	TransportMode types.TransportMode
	// HTTPHost and HTTPPort are the REST front-end bind address.
	HTTPHost string
	HTTPPort int
	// StdioPort is reserved.
	StdioPort int

	// APIKey is the fallback credential used when a request carries none.
	APIKey string
	// TenantID is the fallback tenant used when a request carries none.
	TenantID string
	// ClientSecret is paired with an API key that has no embedded secret.
	ClientSecret string

	// APITimeout bounds each token fetch and each upstream call.
	APITimeout time.Duration
	// ShutdownTimeout bounds the graceful shutdown of the REST front-end.
	ShutdownTimeout time.Duration

	// OTELEndpoint is the OTLP/HTTP collector as host:port. Tracing is off when empty.
	OTELEndpoint string
	// OTELInsecure sends traces over plain HTTP.
	OTELInsecure bool
	// OTELSamplingRate is the fraction of traces kept, between 0 and 1.
	OTELSamplingRate float64
}

// HTTPAddress returns the host:port the REST front-end binds to.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

// BindEnvironment registers defaults and environment bindings on v.
func BindEnvironment(v *viper.Viper) error {
	v.SetDefault(KeyAPIBaseURL, DefaultAPIBaseURL)
	v.SetDefault(KeyTransport, string(types.TransportModeDual))
	v.SetDefault(KeyHTTPHost, DefaultHTTPHost)
	v.SetDefault(KeyHTTPPort, strconv.Itoa(DefaultHTTPPort))
	v.SetDefault(KeyStdioPort, strconv.Itoa(DefaultStdioPort))
	v.SetDefault(KeyAPITimeout, DefaultAPITimeout.String())
	v.SetDefault(KeyShutdownTimeout, DefaultShutdownTimeout.String())
	v.SetDefault(KeyOTELInsecure, "false")
	v.SetDefault(KeyOTELSampling, strconv.FormatFloat(DefaultOTELSamplingRate, 'f', -1, 64))

	for key, envVars := range envBindings {
		if err := v.BindEnv(append([]string{key}, envVars...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// Load builds a Config from v. Environment bindings are registered first, so a
// fresh viper instance is enough.
func Load(v *viper.Viper) (*Config, error) {
	if err := BindEnvironment(v); err != nil {
		return nil, err
	}

	httpPort, err := parsePort(v.GetString(KeyHTTPPort))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_PORT: %w", err)
	}
	stdioPort, err := parsePort(v.GetString(KeyStdioPort))
	if err != nil {
		return nil, fmt.Errorf("invalid STDIO_PORT: %w", err)
	}
	apiTimeout, err := parseTimeout(v.GetString(KeyAPITimeout))
	if err != nil {
		return nil, fmt.Errorf("invalid FALCON_API_TIMEOUT: %w", err)
	}
	shutdownTimeout, err := parseTimeout(v.GetString(KeyShutdownTimeout))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	otelEndpoint := strings.TrimSpace(v.GetString(KeyOTELEndpoint))
	if strings.HasPrefix(otelEndpoint, "http://") || strings.HasPrefix(otelEndpoint, "https://") {
		return nil, fmt.Errorf("invalid FALCON_OTEL_ENDPOINT: endpoint should not start with http:// or https://")
	}
	otelInsecure, err := strconv.ParseBool(strings.TrimSpace(v.GetString(KeyOTELInsecure)))
	if err != nil {
		return nil, fmt.Errorf("invalid FALCON_OTEL_INSECURE: %w", err)
	}
	samplingRate, err := parseSamplingRate(v.GetString(KeyOTELSampling))
	if err != nil {
		return nil, fmt.Errorf("invalid FALCON_OTEL_SAMPLING_RATE: %w", err)
	}

	baseURL := strings.TrimRight(strings.TrimSpace(v.GetString(KeyAPIBaseURL)), "/")
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}

	return &Config{
		APIBaseURL:       baseURL,
		TransportMode:    types.ParseTransportMode(v.GetString(KeyTransport)),
		HTTPHost:         v.GetString(KeyHTTPHost),
		HTTPPort:         httpPort,
		StdioPort:        stdioPort,
		APIKey:           v.GetString(KeyAPIKey),
		TenantID:         v.GetString(KeyTenantID),
		ClientSecret:     v.GetString(KeyClientSecret),
		APITimeout:       apiTimeout,
		ShutdownTimeout:  shutdownTimeout,
		OTELEndpoint:     otelEndpoint,
		OTELInsecure:     otelInsecure,
		OTELSamplingRate: samplingRate,
	}, nil
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if port < 0 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range", port)
	}
	return port, nil
}

func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", d)
	}
	return d, nil
}

func parseSamplingRate(s string) (float64, error) {
	rate, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if rate < 0.0 || rate > 1.0 {
		return 0, fmt.Errorf("sampling rate must be between 0.0 and 1.0")
	}
	return rate, nil
}
