// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/specialistvlad/deskboot/internal/buildmode"
	"github.com/specialistvlad/deskboot/internal/manifest"
	"github.com/spf13/cobra"
)

func newManifestCmd(outW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Inspect application manifests",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate PATH",
		Short: "Load and validate a manifest, then print a summary",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(cmd.Context(), args[0], buildmode.Current)
			if err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}
			printManifest(outW, m)
			return nil
		},
	})
	return cmd
}

func printManifest(w io.Writer, m *manifest.Manifest) {
	fmt.Fprintf(w, "✅ %s\n", m)
	if m.Build.FrontendDist != "" {
		fmt.Fprintf(w, "Frontend dist: %s\n", m.Build.FrontendDist)
	}
	if m.Build.DevURL != "" {
		fmt.Fprintf(w, "Dev URL: %s\n", m.Build.DevURL)
	}
	if len(m.Windows) == 0 {
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Label", "Title", "Size", "Resizable", "Fullscreen"})
	table.SetAutoFormatHeaders(false)
	for _, win := range m.Windows {
		table.Append([]string{
			win.Label,
			win.Title,
			fmt.Sprintf("%dx%d", win.Width, win.Height),
			strconv.FormatBool(win.Resizable),
			strconv.FormatBool(win.Fullscreen),
		})
	}
	table.Render()
}
