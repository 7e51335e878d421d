package dca

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linePoints(xs []float64, f func(float64) float64) []FitPoint {
	out := make([]FitPoint, len(xs))
	for i, x := range xs {
		y := f(x)
		out[i] = FitPoint{X: Float(x), Y: Float(y), XY: Float(x * y), X2: Float(x * x)}
	}
	return out
}

func TestFitRecoversExactLine(t *testing.T) {
	reg, err := Fit(linePoints([]float64{1, 2, 3, 4, 5, 6}, func(x float64) float64 { return 3*x + 2 }))
	require.NoError(t, err)

	assert.InDelta(t, 3, reg.Slope, 1e-9)
	assert.InDelta(t, 2, reg.Intercept, 1e-9)
	assert.InDelta(t, 1, reg.RSquared, 1e-9)
	assert.False(t, reg.Degenerate.Any())
}

func TestFitIdenticalXForcesZeroSlope(t *testing.T) {
	pts := []FitPoint{{X: 4, Y: 1}, {X: 4, Y: 2}, {X: 4, Y: 6}}
	reg, err := Fit(pts)
	require.NoError(t, err)

	assert.Equal(t, 0.0, reg.Slope)
	assert.InDelta(t, 3, reg.Intercept, 1e-12)
	assert.True(t, reg.Degenerate.SlopeForcedZero)
}

func TestFitIdenticalYGivesNaNRSquared(t *testing.T) {
	pts := []FitPoint{{X: 1, Y: 5}, {X: 2, Y: 5}, {X: 3, Y: 5}}
	reg, err := Fit(pts)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(reg.RSquared))
	assert.True(t, reg.Degenerate.RSquaredUndefined)
	assert.Equal(t, 0.0, reg.Slope)
	assert.Equal(t, 5.0, reg.Intercept)
}

func TestFitEmptyIsValidationError(t *testing.T) {
	_, err := Fit(nil)
	require.ErrorIs(t, err, ErrValidation)
}

func TestFitIsOrderIndependent(t *testing.T) {
	a := []FitPoint{{X: 1, Y: 2}, {X: 2, Y: 3.5}, {X: 5, Y: 9}, {X: 7, Y: 8}}
	b := []FitPoint{a[3], a[1], a[0], a[2]}

	ra, err := Fit(a)
	require.NoError(t, err)
	rb, err := Fit(b)
	require.NoError(t, err)

	assert.InDelta(t, ra.Slope, rb.Slope, 1e-12)
	assert.InDelta(t, ra.Intercept, rb.Intercept, 1e-12)
	assert.InDelta(t, ra.RSquared, rb.RSquared, 1e-12)
}

func TestFitPropagatesNaN(t *testing.T) {
	pts := []FitPoint{{X: 1, Y: 1}, {X: Float(math.NaN()), Y: 2}, {X: 3, Y: 3}}
	reg, err := Fit(pts)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(reg.Slope))
}
