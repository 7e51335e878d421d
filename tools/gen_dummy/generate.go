// [FILE] tools/gen_dummy/generate.go
// Data produksi sintetis: minyak naik lalu decline eksponensial, water cut
// naik logistik, sehingga karakteristik pendesakan mendekati linear.
package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"dca-oilgas/internal/dca"
	"dca-oilgas/internal/spreadsheet"
)

const (
	firstYear = 1990
	lastYear  = 2020
)

type field struct {
	ID   string
	Rows []dca.ProductionRow
}

func generate(n int, seed int64) []field {
	rng := rand.New(rand.NewSource(seed))
	out := make([]field, 0, n)
	for i := 0; i < n; i++ {
		peak := 200 + rng.Float64()*1800 // ribu ton/tahun
		rampYears := 3 + rng.Intn(5)
		decline := 0.04 + rng.Float64()*0.12
		wcMid := 8 + rng.Float64()*15
		wcSteep := 0.15 + rng.Float64()*0.25

		f := field{ID: fmt.Sprintf("F-%03d", i+1)}
		start := firstYear + rng.Intn(10)
		for y := start; y <= lastYear; y++ {
			t := float64(y - start)
			var oil float64
			if int(t) < rampYears {
				oil = peak * (t + 1) / float64(rampYears)
			} else {
				oil = peak * math.Exp(-decline*(t-float64(rampYears)))
			}
			oil *= 1 + (rng.Float64()-0.5)*0.1
			wc := 0.98 / (1 + math.Exp(-wcSteep*(t-wcMid)))
			liquid := oil / (1 - wc)
			f.Rows = append(f.Rows, dca.ProductionRow{
				Year:   strconv.Itoa(y),
				Oil:    round2(oil),
				Liquid: round2(liquid),
			})
		}
		out = append(out, f)
	}
	return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func writeCSV(path string, fields []field) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	_ = w.Write([]string{"field_id", "year", "oil", "liquid"})
	for _, fl := range fields {
		for _, r := range fl.Rows {
			_ = w.Write([]string{
				fl.ID,
				r.Year,
				strconv.FormatFloat(r.Oil, 'f', 2, 64),
				strconv.FormatFloat(r.Liquid, 'f', 2, 64),
			})
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// writeWorkbooks satu xlsx per lapangan (sheet Data), siap untuk
// POST /api/import atau cmd/ingest-production -dir.
func writeWorkbooks(dir string, fields []field) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, fl := range fields {
		rows, err := dca.Prepare(fl.Rows, 11)
		if err != nil {
			return fmt.Errorf("%s: %w", fl.ID, err)
		}
		f, err := os.Create(filepath.Join(dir, fl.ID+".xlsx"))
		if err != nil {
			return err
		}
		if err := spreadsheet.WriteWorkbook(f, rows, nil); err != nil {
			_ = f.Close()
			return fmt.Errorf("%s: %w", fl.ID, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
