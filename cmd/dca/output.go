// cmd/dca/output.go
// Render tabel hasil ke terminal (warna via fatih/color)

package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"

	"dca-oilgas/internal/dca"
)

func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func numPtr(v *float64) string {
	if v == nil {
		return color.HiBlackString("-")
	}
	return num(*v)
}

func printMethod(w io.Writer, res *dca.MethodResult) {
	bold := color.New(color.Bold)
	bold.Fprintf(w, "%s (%s)\n", res.Name, res.Key)
	fmt.Fprintf(w, "X: %s\nY: %s\n", res.XDescription, res.YDescription)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "YEAR\tX\tY")
	for _, p := range res.Points {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Year, num(float64(p.X)), num(float64(p.Y)))
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "A = %s  B = %s  R² = %s\n",
		num(float64(res.Coefficients.A)), num(float64(res.Coefficients.B)), num(float64(res.Coefficients.R2)))
	if res.Degenerate.SlopeForcedZero {
		color.New(color.FgYellow).Fprintln(w, "warning: zero x variance, slope forced to 0")
	}
	fmt.Fprintf(w, "Extractable: %s\nRemaining:   %s\n",
		numPtr(res.ExtractableOilReserves), numPtr(res.RemainingOilReserves))
}

func printSummary(w io.Writer, s *dca.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tA\tB\tR²\tEXTRACTABLE\tREMAINING")
	for _, res := range s.Ordered() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			res.Name,
			num(float64(res.Coefficients.A)),
			num(float64(res.Coefficients.B)),
			num(float64(res.Coefficients.R2)),
			numPtr(res.ExtractableOilReserves),
			numPtr(res.RemainingOilReserves))
	}
	_ = tw.Flush()

	for _, key := range s.Methods {
		if msg, ok := s.Failures[key]; ok {
			fmt.Fprintf(w, "%s %s: %s\n", color.RedString("failed"), key, msg)
		}
	}

	agg := s.Aggregate
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Average extractable: %s\n", numPtr(agg.ExtractableAverage))
	fmt.Fprintf(w, "Average remaining:   %s\n", numPtr(agg.RemainingAverage))
	fmt.Fprintf(w, "Cumulative oil:      %s\n", num(agg.CumulativeOilProduction))
	if agg.ORC != nil {
		fmt.Fprintf(w, "ORC:                 %s\n", color.GreenString(num(*agg.ORC)))
	}
	if agg.UnderCounted {
		color.New(color.FgYellow).Fprintf(w, "note: %d valid methods, averages divide by %d\n",
			agg.ValidCount, dca.ExpectedValidMethodCount)
	}
}
