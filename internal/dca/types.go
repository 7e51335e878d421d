// internal/dca/types.go
// Model data engine decline-curve analysis

package dca

import (
	"encoding/json"
	"math"
)

// MethodKey identitas tetap untuk enam metode DCA.
type MethodKey string

const (
	NazarovSipachev  MethodKey = "nazarov-sipachev"
	SipachevPosevich MethodKey = "sipachev-posevich"
	Maksimov         MethodKey = "maksimov"
	Sazonov          MethodKey = "sazonov"
	Pirverdyan       MethodKey = "pirverdyan"
	Kambarov         MethodKey = "kambarov"
)

// ProductionRow satu tahun data lapangan.
type ProductionRow struct {
	Year     string  `json:"year"`
	Oil      float64 `json:"oil"`
	Liquid   float64 `json:"liquid"`
	Water    float64 `json:"water"`
	WaterCut float64 `json:"water_cut"`
	Active   bool    `json:"active"`
}

// NewRow membangun row dari nilai mentah (teks atau angka).
func NewRow(year string, oil, liquid any) ProductionRow {
	return ProductionRow{
		Year:   year,
		Oil:    ParseNumber(oil),
		Liquid: ParseNumber(liquid),
	}
}

// FitPoint pasangan (X, Y) hasil transformasi satu row untuk satu metode.
type FitPoint struct {
	Year string `json:"year"`
	X    Float  `json:"x"`
	Y    Float  `json:"y"`
	XY   Float  `json:"xy"`
	X2   Float  `json:"x2"`
}

// Coefficients koefisien regresi dalam penamaan metode (A, B).
type Coefficients struct {
	A  Float `json:"a"`
	B  Float `json:"b"`
	R2 Float `json:"r2"`
}

// Sums jumlah-jumlah regresi, ikut ditampilkan di konsol hasil.
type Sums struct {
	SumX        Float `json:"sum_x"`
	SumY        Float `json:"sum_y"`
	SumXY       Float `json:"sum_xy"`
	SumX2       Float `json:"sum_x2"`
	SumXSquared Float `json:"sum_x_squared"`
}

// MethodResult keluaran satu metode. Immutable setelah dibuat.
type MethodResult struct {
	Key          MethodKey    `json:"key"`
	Name         string       `json:"method"`
	XDescription string       `json:"x_description"`
	YDescription string       `json:"y_description"`
	Points       []FitPoint   `json:"results"`
	Coefficients Coefficients `json:"coefficients"`
	Sums         Sums         `json:"sums"`
	Degenerate   Degeneracy   `json:"degenerate"`

	// nil untuk metode tanpa relasi cadangan (Maksimov, Sazonov)
	ExtractableOilReserves *float64 `json:"extractable_oil_reserves"`
	RemainingOilReserves   *float64 `json:"remaining_oil_reserves"`
}

// Aggregate ringkasan lintas metode.
type Aggregate struct {
	ExtractableAverage      *float64 `json:"extractable_average"`
	RemainingAverage        *float64 `json:"remaining_average"`
	CumulativeOilProduction float64  `json:"cumulative_oil_production"`
	TotalNumerator          *float64 `json:"total_numerator"`
	GeologicalReserves      *float64 `json:"geological_reserves,omitempty"`
	ORC                     *float64 `json:"orc"`
	ValidCount              int      `json:"valid_count"`
	// true kalau metode valid < ExpectedValidMethodCount: rata-rata under-count
	UnderCounted bool `json:"under_counted"`
}

// Summary hasil satu pemanggilan Calculate.
type Summary struct {
	Methods   []MethodKey                 `json:"methods"`
	Results   map[MethodKey]*MethodResult `json:"results"`
	Failures  map[MethodKey]string        `json:"failures,omitempty"`
	Aggregate Aggregate                   `json:"aggregate"`
	Rows      []ProductionRow             `json:"rows"`
}

// Ordered mengembalikan hasil sesuai urutan metode tetap.
func (s *Summary) Ordered() []*MethodResult {
	out := make([]*MethodResult, 0, len(s.Methods))
	for _, k := range s.Methods {
		if r, ok := s.Results[k]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Options konfigurasi perhitungan. FnLimit/FeLimit diterima tapi tidak
// dipakai oleh rumus; key tuning lain masuk Extra dan diabaikan.
type Options struct {
	WindowSize         int            `json:"window_size" yaml:"window_size"`
	FnLimit            float64        `json:"fn_limit" yaml:"fn_limit"`
	FeLimit            float64        `json:"fe_limit" yaml:"fe_limit"`
	GeologicalReserves *float64       `json:"geological_reserves,omitempty" yaml:"geological_reserves,omitempty"`
	CumulativeOil      *float64       `json:"cumulative_oil,omitempty" yaml:"cumulative_oil,omitempty"`
	Extra              map[string]any `json:"-" yaml:",inline"`
}

// Float float64 yang di-encode JSON sebagai null kalau NaN/Inf.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func (f *Float) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = Float(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

func ptr(v float64) *float64 { return &v }
