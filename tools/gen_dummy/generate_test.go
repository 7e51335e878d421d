package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dca-oilgas/internal/dca"
)

func TestGenerateIsDeterministicAndCalculable(t *testing.T) {
	a := generate(3, 7)
	b := generate(3, 7)
	require.Equal(t, a, b)
	require.Len(t, a, 3)

	for _, f := range a {
		require.NotEmpty(t, f.Rows)
		for _, r := range f.Rows {
			assert.Greater(t, r.Liquid, r.Oil-0.01, f.ID)
		}
		sum, err := dca.Calculate(f.Rows, dca.Options{WindowSize: 8})
		require.NoError(t, err, f.ID)
		assert.Len(t, sum.Results, 6)
	}
}
