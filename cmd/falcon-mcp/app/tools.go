// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/stacklok/falcon-mcp/cmd/falcon-mcp/app/ui"
	"github.com/stacklok/falcon-mcp/pkg/tools"
)

// toolInfo is the JSON form of a registry entry.
type toolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Method      string         `json:"method"`
	Path        string         `json:"path"`
	Endpoint    string         `json:"endpoint"`
	InputSchema map[string]any `json:"input_schema"`
}

// newToolsCmd creates the tools command listing the registry
func newToolsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the available tools",
		Long:  "List every tool served by the gateway with the upstream call it maps to.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printTools(cmd.OutOrStdout(), tools.Default(), jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the tools and their input schemas as JSON")

	return cmd
}

func printTools(w io.Writer, registry *tools.Registry, jsonOutput bool) error {
	if !jsonOutput {
		return ui.RenderToolsTable(w, registry.List())
	}

	infos := make([]toolInfo, 0, registry.Len())
	for _, d := range registry.List() {
		infos = append(infos, toolInfo{
			Name:        d.Name,
			Description: d.Description,
			Method:      d.Method,
			Path:        d.Path,
			Endpoint:    d.Endpoint(),
			InputSchema: d.InputSchema(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("failed to encode tools: %w", err)
	}
	return nil
}
