// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package ui renders command output for the falcon-mcp CLI.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/stacklok/falcon-mcp/pkg/tools"
)

// RenderToolsTable renders one row per tool: name, upstream call and parameters.
// Required parameters are marked with a trailing asterisk.
func RenderToolsTable(w io.Writer, descs []*tools.Descriptor) error {
	if len(descs) == 0 {
		_, err := fmt.Fprintln(w, "No tools registered.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Options(
		tablewriter.WithHeader([]string{"Tool", "Shape", "Upstream", "Parameters"}),
		tablewriter.WithRendition(
			tw.Rendition{
				Borders: tw.Border{
					Left:   tw.State(1),
					Top:    tw.State(1),
					Right:  tw.State(1),
					Bottom: tw.State(1),
				},
			},
		),
		tablewriter.WithAlignment(tw.MakeAlign(4, tw.AlignLeft)),
	)

	for _, d := range descs {
		if err := table.Append([]string{
			d.Name,
			string(d.Shape),
			d.Method + " " + d.Path,
			paramSummary(d.Params),
		}); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

func paramSummary(params []tools.Param) string {
	names := make([]string, 0, len(params))
	for _, p := range params {
		if p.Required {
			names = append(names, p.Name+"*")
		} else {
			names = append(names, p.Name)
		}
	}
	return strings.Join(names, ", ")
}
