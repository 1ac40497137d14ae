// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package credentials resolves the API key and tenant used for a single tool call.
package credentials

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/stacklok/falcon-mcp/pkg/config"
	"github.com/stacklok/falcon-mcp/pkg/errors"
)

const (
	// APIKeyHeader carries the API key on REST requests.
	APIKeyHeader = "X-API-Key"
	// TenantIDHeader carries the tenant on REST requests.
	TenantIDHeader = "X-Tenant-ID"

	// ParamAPIKey and ParamTenantID are the credential fields accepted
	// alongside operation parameters on both front-ends.
	ParamAPIKey   = "api_key"
	ParamTenantID = "tenant_id"

	// MinAPIKeyLength is the shortest trimmed API key accepted.
	MinAPIKeyLength = 16

	redacted = "[REDACTED]"
)

// Credentials identify the caller to the upstream API for one call.
type Credentials struct {
	APIKey   string
	TenantID string
}

// String never includes the API key.
func (c Credentials) String() string {
	if c.TenantID == "" {
		return "Credentials{APIKey: " + redacted + "}"
	}
	return "Credentials{APIKey: " + redacted + ", TenantID: " + c.TenantID + "}"
}

// GoString keeps %#v from printing the key.
func (c Credentials) GoString() string {
	return c.String()
}

// MarshalLogObject implements zapcore.ObjectMarshaler so structured log
// fields never carry the key.
func (c Credentials) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("api_key", redacted)
	if c.TenantID != "" {
		enc.AddString("tenant_id", c.TenantID)
	}
	return nil
}

// Source is one place credentials may come from. Empty fields count as absent.
type Source struct {
	APIKey   string
	TenantID string
}

// Resolver fills in credentials from, in order: the explicit call or body
// value, the request headers, and finally the configured fallbacks.
type Resolver struct {
	fallbackAPIKey   string
	fallbackTenantID string
}

// NewResolver creates a resolver whose last-resort values come from cfg.
func NewResolver(cfg *config.Config) *Resolver {
	return &Resolver{
		fallbackAPIKey:   cfg.APIKey,
		fallbackTenantID: cfg.TenantID,
	}
}

// Resolve returns the effective credentials for a call. The agent-protocol
// front-end has no headers and passes an empty header Source.
func (r *Resolver) Resolve(explicit, header Source) (Credentials, error) {
	apiKey := firstNonEmpty(explicit.APIKey, header.APIKey, r.fallbackAPIKey)
	if apiKey == "" {
		return Credentials{}, errors.NewMissingCredentialError(
			"api_key is required (provide it in the request, the " + APIKeyHeader +
				" header, or the FALCON_API_KEY environment variable)")
	}
	if err := Validate(apiKey); err != nil {
		return Credentials{}, err
	}

	return Credentials{
		APIKey:   apiKey,
		TenantID: firstNonEmpty(explicit.TenantID, header.TenantID, r.fallbackTenantID),
	}, nil
}

// Validate checks the API key syntactically. It never contacts the upstream API.
func Validate(apiKey string) error {
	if len(strings.TrimSpace(apiKey)) < MinAPIKeyLength {
		return errors.NewInvalidCredentialFormatError("invalid API key format: expected at least 16 characters")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Extract separates the credential fields from the operation parameters.
// Null credential fields count as absent; other non-string values are rejected.
func Extract(args map[string]any) (Source, map[string]any, error) {
	var explicit Source
	params := make(map[string]any, len(args))

	for k, v := range args {
		switch k {
		case ParamAPIKey, ParamTenantID:
			if v == nil {
				continue
			}
			s, ok := v.(string)
			if !ok {
				return Source{}, nil, errors.NewInvalidParametersError(
					fmt.Sprintf("%s must be a string", k), nil)
			}
			if k == ParamAPIKey {
				explicit.APIKey = s
			} else {
				explicit.TenantID = s
			}
		default:
			params[k] = v
		}
	}
	return explicit, params, nil
}
