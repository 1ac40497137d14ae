// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/stacklok/falcon-mcp/pkg/config"
	"github.com/stacklok/falcon-mcp/pkg/falcon"
	"github.com/stacklok/falcon-mcp/pkg/tools"
	"github.com/stacklok/falcon-mcp/pkg/transport/types"
	"github.com/stacklok/falcon-mcp/pkg/versions"
)

func TestRootCommandLayout(t *testing.T) {
	t.Parallel()

	root := NewRootCmd()
	assert.Equal(t, "falcon-mcp", root.Use)
	assert.NotNil(t, root.RunE, "running without a subcommand serves")

	for _, name := range []string{"serve", "tools", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
	for _, flag := range []string{"debug", "transport", "http-port", "http-host"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestHelpWarnsAboutClientSecretFallback(t *testing.T) {
	t.Parallel()

	// The documented behaviour: a bare id doubles as its own secret.
	id, secret := falcon.SplitAPIKey("bare-client-id-0123", "")
	require.Equal(t, id, secret)

	for _, long := range []string{newServeCmd().Long, NewRootCmd().Long} {
		assert.Contains(t, long, "FALCON_CLIENT_SECRET")
		assert.Contains(t, long, "WARNING")
		assert.Contains(t, long, "bare client_id is also sent")
		assert.Contains(t, long, "client_id:client_secret")
	}
}

func TestPrintToolsJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, printTools(&buf, tools.Default(), true))

	var infos []toolInfo
	require.NoError(t, json.Unmarshal(buf.Bytes(), &infos))
	require.Len(t, infos, tools.Default().Len())
	assert.Equal(t, "query_hosts", infos[0].Name)
	assert.Equal(t, "/tools/query_hosts", infos[0].Endpoint)
	assert.Equal(t, "object", infos[0].InputSchema["type"])
}

func TestPrintToolsTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, printTools(&buf, tools.Default(), false))
	assert.Contains(t, buf.String(), "get_sensor_update_policy_details")
}

func TestPrintJSONVersionInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, printJSONVersionInfo(&buf, versionsInfoForTest()))
	assert.Equal(t, "1.2.3", gjson.Get(buf.String(), "version").String())
	assert.Equal(t, "linux/amd64", gjson.Get(buf.String(), "platform").String())

	buf.Reset()
	printVersionInfo(&buf, versionsInfoForTest())
	assert.Contains(t, buf.String(), "falcon-mcp 1.2.3")
}

func TestNewOrchestratorUsesConfiguredMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode types.TransportMode
		want types.TransportMode
	}{
		{types.TransportModeStdio, types.TransportModeStdio},
		{types.TransportModeHTTP, types.TransportModeHTTP},
		{types.TransportModeDual, types.TransportModeDual},
		{"bogus", types.TransportModeDual},
	}

	for _, tt := range tests {
		cfg := &config.Config{
			APIBaseURL:    config.DefaultAPIBaseURL,
			TransportMode: tt.mode,
			HTTPHost:      "127.0.0.1",
			HTTPPort:      0,
			APITimeout:    config.DefaultAPITimeout,
		}
		o, err := newOrchestrator(cfg)
		require.NoError(t, err)
		assert.Equal(t, tt.want, o.Mode())
	}
}

func versionsInfoForTest() versions.VersionInfo {
	return versions.VersionInfo{
		Version:   "1.2.3",
		Commit:    "abcdef12",
		BuildDate: "2025-01-01 00:00:00 UTC",
		GoVersion: "go1.26.1",
		Platform:  "linux/amd64",
	}
}
