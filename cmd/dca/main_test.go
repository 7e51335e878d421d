package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{"rows":[
 {"year":"2014","oil":100,"liquid":120},
 {"year":"2015","oil":190,"liquid":229},
 {"year":"2016","oil":270,"liquid":327},
 {"year":"2017","oil":340,"liquid":414},
 {"year":"2018","oil":400,"liquid":488},
 {"year":"2019","oil":450,"liquid":561}
]}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func sampleFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "field.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o644))
	return path
}

func TestCalcTable(t *testing.T) {
	out, err := run(t, "calc", "--file", sampleFile(t), "--geo", "5000")
	require.NoError(t, err)
	assert.Contains(t, out, "Камбаров")
	assert.Contains(t, out, "Average remaining:")
	assert.Contains(t, out, "ORC:")
	assert.NotContains(t, out, "note:")
}

func TestCalcSingleMethodJSON(t *testing.T) {
	out, err := run(t, "calc", "-f", sampleFile(t), "-m", "pirverdyan", "--format", "json")
	require.NoError(t, err)
	var res struct {
		Key     string   `json:"key"`
		Results []any    `json:"results"`
		Extract *float64 `json:"extractable_oil_reserves"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "pirverdyan", res.Key)
	assert.Len(t, res.Results, 6)
	assert.NotNil(t, res.Extract)
}

func TestCalcExportAndCharts(t *testing.T) {
	dir := t.TempDir()
	xlsx := filepath.Join(dir, "out.xlsx")
	charts := filepath.Join(dir, "charts")
	_, err := run(t, "calc", "-f", sampleFile(t), "--export", xlsx, "--chart-dir", charts)
	require.NoError(t, err)

	assert.FileExists(t, xlsx)
	assert.FileExists(t, filepath.Join(charts, "reserves.png"))
	assert.FileExists(t, filepath.Join(charts, "kambarov.png"))
}

func TestCalcUnknownMethod(t *testing.T) {
	_, err := run(t, "calc", "-f", sampleFile(t), "-m", "arps")
	assert.ErrorContains(t, err, "unknown calculation method")
}

func TestCalcRequiresFile(t *testing.T) {
	_, err := run(t, "calc")
	assert.ErrorContains(t, err, "--file is required")
}

func TestPrepareWindow(t *testing.T) {
	out, err := run(t, "prepare", "-f", sampleFile(t), "-w", "2", "--format", "json")
	require.NoError(t, err)
	var rows []struct {
		Year   string `json:"year"`
		Active bool   `json:"active"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 6)
	assert.False(t, rows[3].Active)
	assert.True(t, rows[5].Active)
}

func TestMethodsList(t *testing.T) {
	out, err := run(t, "methods")
	require.NoError(t, err)
	for _, k := range []string{"nazarov-sipachev", "sipachev-posevich", "maksimov", "sazonov", "pirverdyan", "kambarov"} {
		assert.Contains(t, out, k)
	}
}
