package chart

import (
	"bytes"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dca-oilgas/internal/dca"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func summary(t *testing.T) *dca.Summary {
	t.Helper()
	oil := []float64{100, 190, 270, 340, 400, 450}
	liquid := []float64{120, 229, 327, 414, 488, 561}
	rows := make([]dca.ProductionRow, len(oil))
	for i := range oil {
		rows[i] = dca.ProductionRow{Year: fmt.Sprint(2014 + i), Oil: oil[i], Liquid: liquid[i]}
	}
	s, err := dca.Calculate(rows, dca.Options{WindowSize: 11})
	require.NoError(t, err)
	return s
}

func TestFitLineHonoursCoefficientOrder(t *testing.T) {
	res := &dca.MethodResult{Key: dca.Kambarov, Coefficients: dca.Coefficients{A: 7, B: 2}}
	slope, intercept := FitLine(res)
	assert.Equal(t, 2.0, slope)
	assert.Equal(t, 7.0, intercept)

	res = &dca.MethodResult{Key: dca.Sazonov, Coefficients: dca.Coefficients{A: 7, B: 2}}
	slope, intercept = FitLine(res)
	assert.Equal(t, 7.0, slope)
	assert.Equal(t, 2.0, intercept)
}

func TestRenderMethod(t *testing.T) {
	s := summary(t)
	for _, res := range s.Ordered() {
		var buf bytes.Buffer
		require.NoError(t, RenderMethod(&buf, res, 0, 0), res.Key)
		assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic), res.Key)
	}
}

func TestRenderMethodSkipsNonFinite(t *testing.T) {
	res := &dca.MethodResult{
		Key:  dca.Maksimov,
		Name: "Максимов",
		Points: []dca.FitPoint{
			{X: 1, Y: dca.Float(math.NaN())},
			{X: 2, Y: 3},
		},
		Coefficients: dca.Coefficients{A: dca.Float(math.NaN())},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderMethod(&buf, res, DefaultWidth, DefaultHeight))

	res.Points = res.Points[:1]
	assert.Error(t, RenderMethod(&buf, res, 0, 0))
}

func TestRenderReserves(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderReserves(&buf, summary(t), 0, 0))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))

	empty := &dca.Summary{Results: map[dca.MethodKey]*dca.MethodResult{}}
	assert.Error(t, RenderReserves(&buf, empty, 0, 0))
}
