// internal/dca/number.go
// Koersi angka dari teks spreadsheet (koma atau titik sebagai desimal)

package dca

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseNumber mengubah nilai sel (string, angka, json.Number) menjadi float64.
// Teks yang tidak bisa di-parse utuh (termasuk "12abc") menjadi 0. Float64
// langsung (termasuk NaN) diteruskan apa adanya.
func ParseNumber(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		return parseText(t.String())
	case string:
		return parseText(t)
	}
	// tipe numerik lain (int8..uint64, tipe bernama)
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return parseText(rv.String())
	default:
		return 0
	}
}

func parseText(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// ParseYear mengambil tahun numerik dari label. Label tak valid -> 0.
func ParseYear(label string) int {
	label = strings.TrimSpace(label)
	if label == "" {
		return 0
	}
	if n, err := strconv.Atoi(label); err == nil {
		return n
	}
	f := parseText(label)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}
