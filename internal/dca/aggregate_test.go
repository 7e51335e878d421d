package dca

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withReserves(extractable, remaining float64) *MethodResult {
	return &MethodResult{ExtractableOilReserves: ptr(extractable), RemainingOilReserves: ptr(remaining)}
}

func TestAggregateFixedDivisorFourValid(t *testing.T) {
	results := []*MethodResult{
		withReserves(110, 10),
		withReserves(120, 20),
		{},
		{},
		withReserves(130, 30),
		withReserves(140, 40),
	}
	agg := AggregateResults(results, 500, ptr(1000))

	require.NotNil(t, agg.RemainingAverage)
	assert.Equal(t, 25.0, *agg.RemainingAverage)
	assert.Equal(t, 125.0, *agg.ExtractableAverage)
	assert.Equal(t, 4, agg.ValidCount)
	assert.False(t, agg.UnderCounted)
	assert.Equal(t, 525.0, *agg.TotalNumerator)
	assert.InDelta(t, 0.525, *agg.ORC, 1e-12)
}

// Tiga metode valid tetap dibagi 4 (perilaku saat ini, ditandai UnderCounted).
func TestAggregateUnderCountsWithThreeValid(t *testing.T) {
	results := []*MethodResult{withReserves(0, 10), withReserves(0, 20), withReserves(0, 30), {}}
	agg := AggregateResults(results, 0, nil)

	require.NotNil(t, agg.RemainingAverage)
	assert.Equal(t, 15.0, *agg.RemainingAverage)
	assert.NotEqual(t, 20.0, *agg.RemainingAverage)
	assert.True(t, agg.UnderCounted)
	assert.Equal(t, ExpectedValidMethodCount, 4)
}

func TestAggregateNoValidResults(t *testing.T) {
	agg := AggregateResults([]*MethodResult{{}, nil}, 100, ptr(1000))
	assert.Nil(t, agg.ExtractableAverage)
	assert.Nil(t, agg.RemainingAverage)
	assert.Nil(t, agg.TotalNumerator)
	assert.Nil(t, agg.ORC)
	assert.Equal(t, 0, agg.ValidCount)
}

func TestAggregateORCRequiresPositiveGeologicalReserves(t *testing.T) {
	results := []*MethodResult{withReserves(1, 1)}
	for _, q := range []*float64{nil, ptr(0), ptr(-50)} {
		agg := AggregateResults(results, 10, q)
		assert.Nil(t, agg.ORC)
		require.NotNil(t, agg.TotalNumerator)
	}
}
