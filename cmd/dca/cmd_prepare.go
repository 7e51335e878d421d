// cmd/dca/cmd_prepare.go
package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"dca-oilgas/internal/config"
	"dca-oilgas/internal/dca"
)

func newPrepareCmd() *cobra.Command {
	var (
		flags  calcFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Show the sorted table with derived water, water cut and active flags",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := readRows(flags.file)
			if err != nil {
				return err
			}
			opts := flags.options(config.Load())
			prepared, err := dca.Prepare(rows, opts.WindowSize)
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), prepared)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "YEAR\tOIL\tLIQUID\tWATER\tWATER CUT\tACTIVE")
			for _, r := range prepared {
				active := color.HiBlackString("-")
				if r.Active {
					active = color.GreenString("yes")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					r.Year, num(r.Oil), num(r.Liquid), num(r.Water), num(r.WaterCut), active)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "Production file (.xlsx or .json)")
	cmd.Flags().IntVarP(&flags.window, "window", "w", -1, "Trailing window of active years (default from config)")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table, json")
	return cmd
}
