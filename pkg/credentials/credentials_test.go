// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package credentials

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/stacklok/falcon-mcp/pkg/config"
	"github.com/stacklok/falcon-mcp/pkg/errors"
)

const (
	explicitKey = "explicit-key-0123456789"
	headerKey   = "header-key-0123456789"
	envKey      = "environment-key-0123456789"
)

func TestResolvePrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		cfg        config.Config
		explicit   Source
		header     Source
		wantKey    string
		wantTenant string
	}{
		{
			name:       "explicit wins over everything",
			cfg:        config.Config{APIKey: envKey, TenantID: "env-tenant"},
			explicit:   Source{APIKey: explicitKey, TenantID: "explicit-tenant"},
			header:     Source{APIKey: headerKey, TenantID: "header-tenant"},
			wantKey:    explicitKey,
			wantTenant: "explicit-tenant",
		},
		{
			name:       "header used when explicit is empty",
			cfg:        config.Config{APIKey: envKey, TenantID: "env-tenant"},
			header:     Source{APIKey: headerKey, TenantID: "header-tenant"},
			wantKey:    headerKey,
			wantTenant: "header-tenant",
		},
		{
			name:       "environment is the last resort",
			cfg:        config.Config{APIKey: envKey, TenantID: "env-tenant"},
			wantKey:    envKey,
			wantTenant: "env-tenant",
		},
		{
			name:       "key and tenant resolve independently",
			cfg:        config.Config{TenantID: "env-tenant"},
			explicit:   Source{APIKey: explicitKey},
			header:     Source{TenantID: "header-tenant"},
			wantKey:    explicitKey,
			wantTenant: "header-tenant",
		},
		{
			name:    "tenant is optional",
			header:  Source{APIKey: headerKey},
			wantKey: headerKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := NewResolver(&tt.cfg)

			creds, err := r.Resolve(tt.explicit, tt.header)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, creds.APIKey)
			assert.Equal(t, tt.wantTenant, creds.TenantID)
		})
	}
}

func TestResolveMissingCredential(t *testing.T) {
	t.Parallel()

	r := NewResolver(&config.Config{TenantID: "tenant"})
	_, err := r.Resolve(Source{}, Source{})

	require.Error(t, err)
	assert.True(t, errors.IsMissingCredential(err))
	assert.Contains(t, err.Error(), "X-API-Key")
	assert.Contains(t, err.Error(), "FALCON_API_KEY")
}

func TestResolveInvalidFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		explicit Source
		header   Source
		cfg      config.Config
	}{
		{"short explicit key", Source{APIKey: "0123456789"}, Source{}, config.Config{}},
		{"short header key", Source{}, Source{APIKey: "0123456789"}, config.Config{}},
		{"short env key", Source{}, Source{}, config.Config{APIKey: "0123456789"}},
		{"padded key below floor", Source{APIKey: "   0123456789     "}, Source{}, config.Config{}},
		{"whitespace only", Source{APIKey: "                    "}, Source{}, config.Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := NewResolver(&tt.cfg)

			_, err := r.Resolve(tt.explicit, tt.header)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidCredentialFormat(err))
			assert.NotContains(t, err.Error(), "0123456789")
		})
	}
}

func TestValidateBoundary(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Validate("0123456789abcdef"))
	assert.Error(t, Validate("0123456789abcde"))
	assert.NoError(t, Validate("client-id:client-secret"))
}

func TestCredentialsNeverPrintKey(t *testing.T) {
	t.Parallel()

	creds := Credentials{APIKey: explicitKey, TenantID: "tenant-1"}
	for _, format := range []string{"%v", "%+v", "%s", "%#v"} {
		out := fmt.Sprintf(format, creds)
		assert.NotContains(t, out, explicitKey, format)
		assert.Contains(t, out, "tenant-1", format)
	}
}

func TestCredentialsNeverLogKey(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	zap.New(core).Sugar().Infow("calling upstream",
		"credentials", Credentials{APIKey: explicitKey, TenantID: "tenant-1"},
		"anonymous", Credentials{APIKey: headerKey},
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, map[string]any{"api_key": "[REDACTED]", "tenant_id": "tenant-1"}, fields["credentials"])
	assert.Equal(t, map[string]any{"api_key": "[REDACTED]"}, fields["anonymous"])
	assert.NotContains(t, fmt.Sprint(fields), explicitKey)
	assert.NotContains(t, fmt.Sprint(fields), headerKey)
}

func TestExtract(t *testing.T) {
	t.Parallel()

	explicit, params, err := Extract(map[string]any{
		ParamAPIKey:   explicitKey,
		ParamTenantID: nil,
		"limit":       float64(10),
	})
	require.NoError(t, err)
	assert.Equal(t, Source{APIKey: explicitKey}, explicit)
	assert.Equal(t, map[string]any{"limit": float64(10)}, params)

	_, _, err = Extract(map[string]any{ParamTenantID: 42})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidParameters(err))
}
