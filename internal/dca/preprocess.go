// internal/dca/preprocess.go
// Preprocessing row produksi: urut tahun, air, water cut, window aktif

package dca

import "sort"

// SortByYear mengembalikan salinan rows terurut tahun (numerik, stable).
func SortByYear(rows []ProductionRow) []ProductionRow {
	out := make([]ProductionRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return ParseYear(out[i].Year) < ParseYear(out[j].Year)
	})
	return out
}

// DeriveWater mengisi Water dan WaterCut in-place pada rows yang sudah terurut.
// Water cut tiap row hanya bergantung pada row sebelumnya.
func DeriveWater(rows []ProductionRow) {
	for i := range rows {
		rows[i].Water = waterOf(rows[i].Oil, rows[i].Liquid)
		rows[i].WaterCut = 0
		if i == 0 {
			continue
		}
		prev := rows[i-1]
		dLiquid := rows[i].Liquid - prev.Liquid
		if dLiquid == 0 {
			continue
		}
		dWater := rows[i].Water - waterOf(prev.Oil, prev.Liquid)
		rows[i].WaterCut = dWater / dLiquid * 100
	}
}

func waterOf(oil, liquid float64) float64 {
	w := liquid - oil
	if w < 0 {
		return 0
	}
	return w
}

// ComputeActiveFlags menandai n row terakhir sebagai aktif (semua kalau n = 0
// atau n > len). Rows dianggap sudah terurut; hasil selalu slice baru.
func ComputeActiveFlags(rows []ProductionRow, n int) ([]ProductionRow, error) {
	if n < 0 {
		return nil, invalid("window_size", "must be >= 0, got %d", n)
	}
	out := make([]ProductionRow, len(rows))
	copy(out, rows)
	start := 0
	if n > 0 && n < len(out) {
		start = len(out) - n
	}
	for i := range out {
		out[i].Active = i >= start
	}
	return out, nil
}

// Prepare menjalankan seluruh preprocessing: sort, air/water cut, window aktif.
// Slice milik caller tidak diubah.
func Prepare(rows []ProductionRow, windowSize int) ([]ProductionRow, error) {
	if len(rows) == 0 {
		return nil, invalid("rows", "production table is empty")
	}
	sorted := SortByYear(rows)
	DeriveWater(sorted)
	return ComputeActiveFlags(sorted, windowSize)
}

// ActiveRows memfilter row aktif dengan urutan tetap.
func ActiveRows(rows []ProductionRow) []ProductionRow {
	out := make([]ProductionRow, 0, len(rows))
	for _, r := range rows {
		if r.Active {
			out = append(out, r)
		}
	}
	return out
}
