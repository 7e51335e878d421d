// cmd/dca/main.go
// CLI offline: hitung cadangan dari file xlsx/json tanpa server.

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// BuildVersion diisi saat ldflags
var BuildVersion = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dca",
		Short: "Decline curve analysis: extractable and remaining oil reserves",
		Long: `dca reads yearly oil/liquid production (xlsx or json) and fits the six
displacement characteristics (Nazarov-Sipachev, Sipachev-Posevich, Maksimov,
Sazonov, Pirverdyan, Kambarov) over the trailing window of years.

Examples:
  dca calc --file field.xlsx --window 8 --geo 12000
  dca calc --file field.xlsx --method kambarov --format json
  dca calc --file field.xlsx --export results.xlsx --chart-dir charts/
  dca prepare --file field.xlsx --window 5`,
		Version:       BuildVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	var noColor bool
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	root.PersistentPreRun = func(*cobra.Command, []string) {
		if noColor {
			color.NoColor = true
		}
	}

	root.AddCommand(newCalcCmd(), newPrepareCmd(), newMethodsCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}
