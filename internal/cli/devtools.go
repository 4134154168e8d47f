// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package cli

import (
	"io"

	"github.com/specialistvlad/deskboot/internal/devtools"
	"github.com/spf13/cobra"
)

func newDevtoolsCmd(outW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devtools",
		Short: "Talk to the devtools units of a running debug shell",
	}

	var url string
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Stream log records from a running debug shell",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return devtools.Tail(cmd.Context(), url, outW)
		},
	}
	tail.Flags().StringVar(&url, "url", "http://127.0.0.1:1430", "Base URL of the running shell.")
	cmd.AddCommand(tail)

	return cmd
}
