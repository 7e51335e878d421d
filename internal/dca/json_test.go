package dca

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionRowUnmarshalFlexible(t *testing.T) {
	var rows []ProductionRow
	err := json.Unmarshal([]byte(`[
		{"year": 2020, "oil": "100,5", "liquid": 150},
		{"year": "2021", "oil": 90, "liquid": "160.25", "water": 999, "active": true},
		{"year": null, "oil": "n/a"}
	]`), &rows)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, ProductionRow{Year: "2020", Oil: 100.5, Liquid: 150}, rows[0])
	assert.Equal(t, ProductionRow{Year: "2021", Oil: 90, Liquid: 160.25}, rows[1])
	assert.Equal(t, ProductionRow{}, rows[2])
}

func TestMethodResultJSONNullables(t *testing.T) {
	r := MethodResult{
		Key:                    Kambarov,
		ExtractableOilReserves: ptr(math.NaN()),
		RemainingOilReserves:   nil,
		Coefficients:           Coefficients{A: 1, B: 2, R2: Float(math.NaN())},
	}
	b, err := json.Marshal(r)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Nil(t, out["extractable_oil_reserves"])
	assert.Nil(t, out["remaining_oil_reserves"])
	assert.Equal(t, "kambarov", out["key"])
	assert.Nil(t, out["coefficients"].(map[string]any)["r2"])
}

func TestAggregateJSON(t *testing.T) {
	b, err := json.Marshal(Aggregate{RemainingAverage: ptr(25), CumulativeOilProduction: 80, ORC: ptr(math.Inf(1)), ValidCount: 4})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"extractable_average": null,
		"remaining_average": 25,
		"cumulative_oil_production": 80,
		"total_numerator": null,
		"orc": null,
		"valid_count": 4,
		"under_counted": false
	}`, string(b))
}
