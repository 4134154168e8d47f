// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/specialistvlad/deskboot/internal/buildmode"
	"github.com/specialistvlad/deskboot/internal/sequencer"
	"github.com/spf13/cobra"
)

func newUnitsCmd(outW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "Show the startup units this build attaches, in order",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			printUnits(outW, buildmode.Current)
			return nil
		},
	}
}

func printUnits(w io.Writer, mode buildmode.Mode) {
	fmt.Fprintf(w, "Build mode: %s\n", mode)

	b := sequencer.Compose(mode)
	units := b.Units()
	if len(units) == 0 {
		fmt.Fprintln(w, "No startup units attached.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Unit"})
	table.SetAutoFormatHeaders(false)
	for i, name := range units {
		table.Append([]string{strconv.Itoa(i + 1), name})
	}
	table.Render()
	fmt.Fprintf(w, "%d route(s), %d service(s) contributed.\n", len(b.Routes()), len(b.Services()))
}
