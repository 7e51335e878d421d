package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dca-oilgas/internal/dca"
)

func TestPearsonCorrelation(t *testing.T) {
	r, err := PearsonCorrelation([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r, 1e-12)

	r, err = PearsonCorrelation([]float64{1, 2, 3}, []float64{3, 2, 1})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, r, 1e-12)

	r, err = PearsonCorrelation([]float64{1, 1, 1}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 0.0, r)

	_, err = PearsonCorrelation([]float64{1}, []float64{1})
	assert.Error(t, err)
}

func TestResidualOutliers(t *testing.T) {
	// y = 2x kecuali satu tahun yang meleset jauh
	pts := []dca.FitPoint{}
	for i, y := range []float64{2, 4, 6, 8, 30, 12, 14, 16, 18, 20} {
		x := float64(i + 1)
		pts = append(pts, dca.FitPoint{Year: string(rune('A' + i)), X: dca.Float(x), Y: dca.Float(y)})
	}
	res := &dca.MethodResult{
		Key:          dca.NazarovSipachev,
		Points:       pts,
		Coefficients: dca.Coefficients{A: 2, B: 0},
	}
	out, err := ResidualOutliers(res, 2)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "E", out[0].Year)
	assert.InDelta(t, 20.0, out[0].Residual, 1e-9)
	assert.Greater(t, out[0].ZScore, 2.0)

	_, err = ResidualOutliers(&dca.MethodResult{}, 2)
	assert.Error(t, err)
}

func TestResidualOutliersPerfectFit(t *testing.T) {
	res := &dca.MethodResult{
		Key:          dca.Kambarov, // A = intercept, B = slope
		Points:       []dca.FitPoint{{Year: "1", X: 1, Y: 5}, {Year: "2", X: 2, Y: 7}},
		Coefficients: dca.Coefficients{A: 3, B: 2},
	}
	out, err := ResidualOutliers(res, 1)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDiagnoseSummary(t *testing.T) {
	sum, err := dca.Calculate(sampleRows(), defaults())
	require.NoError(t, err)

	diags := Diagnose(sum, 0)
	require.Len(t, diags, 6)
	assert.Equal(t, dca.NazarovSipachev, diags[0].Method)
	for _, d := range diags {
		assert.False(t, math.IsNaN(d.Correlation), d.Method)
		assert.LessOrEqual(t, math.Abs(d.Correlation), 1.0+1e-9)
		assert.NotNil(t, d.Outliers)
	}
}
