// internal/dca/engine.go
// Pipeline perhitungan: preprocess -> enam metode -> OLS -> cadangan -> agregat

package dca

import "fmt"

// Calculate menjalankan keenam metode atas rows. Validasi struktural (tabel
// kosong, window kosong/negatif) membatalkan seluruh batch. Setelah itu tiap
// metode berjalan terisolasi: kegagalan satu metode dicatat di
// Summary.Failures dan metode lain tetap selesai.
func Calculate(rows []ProductionRow, opts Options) (*Summary, error) {
	prepared, active, err := prepareActive(rows, opts.WindowSize)
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		Methods: Keys(),
		Results: make(map[MethodKey]*MethodResult, len(methods)),
		Rows:    prepared,
	}
	ordered := make([]*MethodResult, 0, len(methods))
	for _, m := range methods {
		res, err := runMethod(m, active)
		if err != nil {
			if sum.Failures == nil {
				sum.Failures = map[MethodKey]string{}
			}
			sum.Failures[m.Key] = err.Error()
			continue
		}
		sum.Results[m.Key] = res
		ordered = append(ordered, res)
	}
	if len(ordered) == 0 {
		return nil, fmt.Errorf("all methods failed: %v", sum.Failures)
	}

	sum.Aggregate = AggregateResults(ordered, cumulativeOil(active, opts), opts.GeologicalReserves)
	return sum, nil
}

// CalculateMethod menjalankan satu metode saja.
func CalculateMethod(key MethodKey, rows []ProductionRow, opts Options) (*MethodResult, error) {
	m, err := Lookup(key)
	if err != nil {
		return nil, err
	}
	_, active, err := prepareActive(rows, opts.WindowSize)
	if err != nil {
		return nil, err
	}
	return runMethod(m, active)
}

func prepareActive(rows []ProductionRow, windowSize int) ([]ProductionRow, []ProductionRow, error) {
	prepared, err := Prepare(rows, windowSize)
	if err != nil {
		return nil, nil, err
	}
	active := ActiveRows(prepared)
	if len(active) == 0 {
		return nil, nil, invalid("rows", "active window is empty")
	}
	return prepared, active, nil
}

func runMethod(m Method, active []ProductionRow) (res *MethodResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			res, err = nil, fmt.Errorf("%s: %v", m.Key, p)
		}
	}()
	if len(active) == 0 {
		return nil, invalid("rows", "active window is empty")
	}

	points := m.Transform(active)
	reg, err := Fit(points)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Key, err)
	}
	extractable, remaining := m.Reserves(reg, active[len(active)-1].Oil)

	return &MethodResult{
		Key:          m.Key,
		Name:         m.Name,
		XDescription: m.XDescription,
		YDescription: m.YDescription,
		Points:       points,
		Coefficients: m.Coefficients(reg),
		Sums: Sums{
			SumX:        Float(reg.SumX),
			SumY:        Float(reg.SumY),
			SumXY:       Float(reg.SumXY),
			SumX2:       Float(reg.SumX2),
			SumXSquared: Float(reg.SumX * reg.SumX),
		},
		Degenerate:             reg.Degenerate,
		ExtractableOilReserves: extractable,
		RemainingOilReserves:   remaining,
	}, nil
}

// cumulativeOil: override dari Options, default oil row aktif terakhir
// (volume diperlakukan kumulatif, konsisten dengan remaining = extractable - last oil).
func cumulativeOil(active []ProductionRow, opts Options) float64 {
	if opts.CumulativeOil != nil {
		return *opts.CumulativeOil
	}
	return active[len(active)-1].Oil
}
