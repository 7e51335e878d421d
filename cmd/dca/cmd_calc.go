// cmd/dca/cmd_calc.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"dca-oilgas/internal/chart"
	"dca-oilgas/internal/config"
	"dca-oilgas/internal/dca"
	"dca-oilgas/internal/spreadsheet"
)

func newCalcCmd() *cobra.Command {
	var (
		flags    calcFlags
		method   string
		format   string
		export   string
		chartDir string
	)
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate reserves with all methods (or one with --method)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := readRows(flags.file)
			if err != nil {
				return err
			}
			opts := flags.options(config.Load())
			out := cmd.OutOrStdout()

			if method != "" {
				res, err := dca.CalculateMethod(dca.MethodKey(method), rows, opts)
				if err != nil {
					return err
				}
				if format == "json" {
					return writeJSON(out, res)
				}
				printMethod(out, res)
				return nil
			}

			sum, err := dca.Calculate(rows, opts)
			if err != nil {
				return err
			}
			if export != "" {
				if err := exportWorkbook(export, sum); err != nil {
					return err
				}
			}
			if chartDir != "" {
				if err := writeCharts(chartDir, sum); err != nil {
					return err
				}
			}
			if format == "json" {
				return writeJSON(out, sum)
			}
			printSummary(out, sum)
			return nil
		},
	}
	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "Production file (.xlsx or .json)")
	cmd.Flags().IntVarP(&flags.window, "window", "w", -1, "Trailing window of active years (default from config)")
	cmd.Flags().Float64Var(&flags.geo, "geo", 0, "Geological reserves for ORC")
	cmd.Flags().Float64Var(&flags.cumulative, "cumulative", 0, "Cumulative oil production override")
	cmd.Flags().StringVarP(&method, "method", "m", "", "Run a single method (keys: dca methods)")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table, json")
	cmd.Flags().StringVar(&export, "export", "", "Write Data/Results workbook to this .xlsx path")
	cmd.Flags().StringVar(&chartDir, "chart-dir", "", "Write one PNG per method plus reserves.png into this directory")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func exportWorkbook(path string, sum *dca.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := spreadsheet.WriteWorkbook(f, sum.Rows, sum); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func writeCharts(dir string, sum *dca.Summary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	render := func(name string, fn func(io.Writer) error) error {
		f, err := os.Create(filepath.Join(dir, name+".png"))
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("chart %s: %w", name, err)
		}
		return f.Close()
	}
	for _, res := range sum.Ordered() {
		res := res
		if err := render(string(res.Key), func(w io.Writer) error {
			return chart.RenderMethod(w, res, 0, 0)
		}); err != nil {
			return err
		}
	}
	return render("reserves", func(w io.Writer) error {
		return chart.RenderReserves(w, sum, 0, 0)
	})
}
