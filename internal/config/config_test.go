package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DCA_WINDOW_SIZE", "")
	t.Setenv("DCA_FN_LIMIT", "")
	t.Setenv("DCA_FE_LIMIT", "")
	t.Setenv("DCA_CONFIG_FILE", "")

	c := Load()
	assert.Equal(t, 11, c.Calc.WindowSize)
	assert.Equal(t, 0.15, c.Calc.FnLimit)
	assert.Equal(t, 0.85, c.Calc.FeLimit)
	assert.NoError(t, c.Validate())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DCA_WINDOW_SIZE", "6")
	t.Setenv("DCA_FN_LIMIT", "0,2")
	t.Setenv("WORKER_INTERVAL", "15m")
	t.Setenv("DB_DSN", "u:p@tcp(db:3306)/x")

	c := Load()
	assert.Equal(t, 6, c.Calc.WindowSize)
	assert.Equal(t, 0.2, c.Calc.FnLimit)
	assert.Equal(t, 15*time.Minute, c.Worker.Interval)
	assert.Equal(t, "u:p@tcp(db:3306)/x", c.MySQLDSN())
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dca.yaml")
	body := "calculation:\n  window_size: 5\n  fe_limit: 0.9\n  chart_theme: dark\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("DCA_WINDOW_SIZE", "")
	t.Setenv("DCA_FE_LIMIT", "")
	t.Setenv("DCA_CONFIG_FILE", path)

	c := Load()
	assert.Equal(t, 5, c.Calc.WindowSize)
	assert.Equal(t, 0.9, c.Calc.FeLimit)
	assert.Equal(t, 0.15, c.Calc.FnLimit)
	assert.Equal(t, "dark", c.Calc.Extra["chart_theme"])
}

func TestLoadYAMLFileZeroOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dca.yaml")
	body := "calculation:\n  window_size: 0\n  fn_limit: 0\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("DCA_WINDOW_SIZE", "")
	t.Setenv("DCA_FN_LIMIT", "")
	t.Setenv("DCA_FE_LIMIT", "")
	t.Setenv("DCA_CONFIG_FILE", path)

	c := Load()
	assert.Equal(t, 0, c.Calc.WindowSize)
	assert.Equal(t, 0.0, c.Calc.FnLimit)
	assert.Equal(t, 0.85, c.Calc.FeLimit)
	assert.Empty(t, c.Calc.Extra)
	assert.NoError(t, c.Validate())
	assert.Equal(t, 0, c.CalcOptions().WindowSize)
}

func TestValidate(t *testing.T) {
	c := Load()
	c.Calc.WindowSize = -1
	c.RateLimit.RPS = 0
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DCA_WINDOW_SIZE")
	assert.Contains(t, err.Error(), "RATE_LIMIT_RPS")
}

func TestMySQLDSNFromParts(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("MYSQL_HOST", "db")
	t.Setenv("MYSQL_USER", "dca")
	t.Setenv("MYSQL_PASSWORD", "s3cret")
	t.Setenv("MYSQL_DB", "fields")

	c := Load()
	assert.Equal(t, "dca:s3cret@tcp(db:3306)/fields?parseTime=true&charset=utf8mb4", c.MySQLDSN())
}

func TestCalcOptions(t *testing.T) {
	c := &Config{Calc: CalcDefaults{WindowSize: 7, FnLimit: 0.1, FeLimit: 0.9}}
	o := c.CalcOptions()
	assert.Equal(t, 7, o.WindowSize)
	assert.Equal(t, 0.1, o.FnLimit)
	assert.Equal(t, 0.9, o.FeLimit)
	assert.Nil(t, o.GeologicalReserves)
}
