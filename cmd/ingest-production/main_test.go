package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"F-01.xlsx", "F-02.xlsx", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	jobs, err := collect("", "", dir)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
	assert.Equal(t, filepath.Join(dir, "F-02.xlsx"), jobs["F-02"])

	jobs, err = collect("", "/data/North Dome.xlsx", "")
	require.NoError(t, err)
	assert.Contains(t, jobs, "North Dome")

	jobs, err = collect("X", "/data/a.xlsx", "")
	require.NoError(t, err)
	assert.Equal(t, "/data/a.xlsx", jobs["X"])

	_, err = collect("", "", "")
	assert.Error(t, err)
}
