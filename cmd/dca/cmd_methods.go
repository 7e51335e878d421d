// cmd/dca/cmd_methods.go
package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dca-oilgas/internal/dca"
)

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List calculation methods and their axes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tNAME\tX\tY")
			for _, m := range dca.Methods() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Key, m.Name, m.XDescription, m.YDescription)
			}
			return tw.Flush()
		},
	}
}
