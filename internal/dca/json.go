// internal/dca/json.go
// Encoding JSON: NaN/Inf jadi null, row input menerima teks atau angka

package dca

import (
	"bytes"
	"encoding/json"
	"strings"
)

func nullable(p *float64) *Float {
	if p == nil {
		return nil
	}
	f := Float(*p)
	return &f
}

func (r ProductionRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Year     string `json:"year"`
		Oil      Float  `json:"oil"`
		Liquid   Float  `json:"liquid"`
		Water    Float  `json:"water"`
		WaterCut Float  `json:"water_cut"`
		Active   bool   `json:"active"`
	}{r.Year, Float(r.Oil), Float(r.Liquid), Float(r.Water), Float(r.WaterCut), r.Active})
}

// UnmarshalJSON menerima year/oil/liquid sebagai string atau angka.
// water, water_cut dan active selalu dihitung ulang oleh Prepare.
func (r *ProductionRow) UnmarshalJSON(b []byte) error {
	var raw struct {
		Year   json.RawMessage `json:"year"`
		Oil    any             `json:"oil"`
		Liquid any             `json:"liquid"`
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*r = NewRow(yearLabel(raw.Year), raw.Oil, raw.Liquid)
	return nil
}

func yearLabel(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return strings.TrimSpace(str)
	}
	return s
}

func (r MethodResult) MarshalJSON() ([]byte, error) {
	type alias MethodResult
	return json.Marshal(struct {
		alias
		ExtractableOilReserves *Float `json:"extractable_oil_reserves"`
		RemainingOilReserves   *Float `json:"remaining_oil_reserves"`
	}{alias(r), nullable(r.ExtractableOilReserves), nullable(r.RemainingOilReserves)})
}

func (a Aggregate) MarshalJSON() ([]byte, error) {
	type alias Aggregate
	return json.Marshal(struct {
		alias
		ExtractableAverage      *Float `json:"extractable_average"`
		RemainingAverage        *Float `json:"remaining_average"`
		CumulativeOilProduction Float  `json:"cumulative_oil_production"`
		TotalNumerator          *Float `json:"total_numerator"`
		GeologicalReserves      *Float `json:"geological_reserves,omitempty"`
		ORC                     *Float `json:"orc"`
	}{
		alias(a),
		nullable(a.ExtractableAverage),
		nullable(a.RemainingAverage),
		Float(a.CumulativeOilProduction),
		nullable(a.TotalNumerator),
		nullable(a.GeologicalReserves),
		nullable(a.ORC),
	})
}
