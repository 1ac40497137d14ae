// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/falcon-mcp/pkg/tools"
)

func TestRenderToolsTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, RenderToolsTable(&buf, tools.Default().List()))

	out := buf.String()
	for _, name := range tools.Default().Names() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "/iocs/entities/indicators/v1")
	assert.Contains(t, out, "device_ids*")
	assert.Contains(t, strings.ToUpper(out), "UPSTREAM")
}

func TestRenderToolsTableEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, RenderToolsTable(&buf, nil))
	assert.Equal(t, "No tools registered.\n", buf.String())
}

func TestParamSummary(t *testing.T) {
	t.Parallel()

	got := paramSummary([]tools.Param{
		{Name: "ids", Required: true},
		{Name: "comment"},
	})
	assert.Equal(t, "ids*, comment", got)
}
