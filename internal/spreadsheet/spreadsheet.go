// internal/spreadsheet/spreadsheet.go
// Import/export workbook produksi (xlsx) dan hasil perhitungan DCA

package spreadsheet

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"dca-oilgas/internal/dca"
)

const (
	DataSheet    = "Data"
	ResultsSheet = "Results"
)

var dataHeaders = []string{"Годы", "Нефти", "Жидкости", "Воды", "Обводненность", "Active points"}

var resultHeaders = []string{"Метод", "X", "Y", "A", "B", "R²", "Извлекаемые запасы", "Остаточные запасы"}

// ReadRows membaca sheet pertama: kolom A tahun, B minyak, C cairan.
// Baris dengan tahun kosong dilewati; baris pertama dianggap header bila
// sel minyaknya bukan angka.
func ReadRows(r io.Reader) ([]dca.ProductionRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	out := make([]dca.ProductionRow, 0, len(raw))
	for i, cells := range raw {
		year := strings.TrimSpace(cell(cells, 0))
		if year == "" {
			continue
		}
		oil := cell(cells, 1)
		if i == 0 && !numeric(oil) {
			continue
		}
		out = append(out, dca.NewRow(year, oil, cell(cells, 2)))
	}
	return out, nil
}

func cell(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}

func numeric(s string) bool {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return false
	}
	_, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	return err == nil
}

// round4 nilai dibulatkan 4 digit; NaN/Inf jadi sel kosong.
func round4(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return decimal.NewFromFloat(v).Round(4).InexactFloat64()
}

func roundPtr(v *float64) any {
	if v == nil {
		return ""
	}
	return round4(*v)
}

// WriteWorkbook menulis sheet Data (rows hasil preprocessing) dan, bila
// summary tidak nil, sheet Results.
func WriteWorkbook(w io.Writer, rows []dca.ProductionRow, summary *dca.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), DataSheet); err != nil {
		return err
	}
	if err := writeRow(f, DataSheet, 1, toAny(dataHeaders)); err != nil {
		return err
	}
	for i, r := range rows {
		active := 0
		if r.Active {
			active = 1
		}
		vals := []any{r.Year, round4(r.Oil), round4(r.Liquid), round4(r.Water), round4(r.WaterCut), active}
		if err := writeRow(f, DataSheet, i+2, vals); err != nil {
			return err
		}
	}

	if summary != nil {
		if _, err := f.NewSheet(ResultsSheet); err != nil {
			return err
		}
		if err := writeResults(f, summary); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeResults(f *excelize.File, s *dca.Summary) error {
	line := 1
	if err := writeRow(f, ResultsSheet, line, toAny(resultHeaders)); err != nil {
		return err
	}
	for _, key := range s.Methods {
		line++
		res, ok := s.Results[key]
		if !ok {
			msg := s.Failures[key]
			if err := writeRow(f, ResultsSheet, line, []any{string(key), "", "", "", "", "", "", msg}); err != nil {
				return err
			}
			continue
		}
		c := res.Coefficients
		vals := []any{
			res.Name, res.XDescription, res.YDescription,
			round4(float64(c.A)), round4(float64(c.B)), round4(float64(c.R2)),
			roundPtr(res.ExtractableOilReserves), roundPtr(res.RemainingOilReserves),
		}
		if err := writeRow(f, ResultsSheet, line, vals); err != nil {
			return err
		}
	}

	a := s.Aggregate
	block := [][]any{
		{"Среднее извлекаемых запасов", roundPtr(a.ExtractableAverage)},
		{"Среднее остаточных запасов", roundPtr(a.RemainingAverage)},
		{"Накопленная добыча нефти", round4(a.CumulativeOilProduction)},
		{"Геологические запасы", roundPtr(a.GeologicalReserves)},
		{"КИН (ORC)", roundPtr(a.ORC)},
		{"Методов с запасами", a.ValidCount},
	}
	line++
	for _, vals := range block {
		line++
		if err := writeRow(f, ResultsSheet, line, vals); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, vals []any) error {
	for i, v := range vals {
		name, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, name, v); err != nil {
			return fmt.Errorf("set %s!%s: %w", sheet, name, err)
		}
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
