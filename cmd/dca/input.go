// cmd/dca/input.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dca-oilgas/internal/config"
	"dca-oilgas/internal/dca"
	"dca-oilgas/internal/spreadsheet"
)

// readRows memuat rows dari .xlsx (kolom A..C) atau .json (array / {"rows": [...]}).
func readRows(path string) ([]dca.ProductionRow, error) {
	if path == "" {
		return nil, fmt.Errorf("--file is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return spreadsheet.ReadRows(f)
	case ".json":
		var raw json.RawMessage
		if err := json.NewDecoder(f).Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		var rows []dca.ProductionRow
		if err := json.Unmarshal(raw, &rows); err == nil {
			return rows, nil
		}
		var wrapped struct {
			Rows []dca.ProductionRow `json:"rows"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return wrapped.Rows, nil
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .xlsx or .json)", filepath.Ext(path))
	}
}

// calcFlags flag bersama calc/prepare. Nilai < 0 / NaN = pakai default config.
type calcFlags struct {
	file       string
	window     int
	geo        float64
	cumulative float64
}

func (f *calcFlags) options(cfg *config.Config) dca.Options {
	opts := cfg.CalcOptions()
	if f.window >= 0 {
		opts.WindowSize = f.window
	}
	if f.geo > 0 {
		v := f.geo
		opts.GeologicalReserves = &v
	}
	if f.cumulative > 0 {
		v := f.cumulative
		opts.CumulativeOil = &v
	}
	return opts
}
