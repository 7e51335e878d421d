// internal/config/config.go
// Loader konfigurasi dari environment variables (+ .env dan file YAML opsional)

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"dca-oilgas/internal/dca"
)

type Config struct {
	AppName   string
	AppEnv    string
	AppPort   string
	MCPPort   string
	LogLevel  string
	LogFormat string

	// DB_DSN kalau diisi menimpa MYSQL_*.
	DSN       string
	DBEnabled bool // DB_DSN atau MYSQL_HOST diset; tanpa itu endpoint lapangan 503

	MySQL struct {
		Host     string
		Port     string
		DB       string
		User     string
		Password string
		MaxOpen  int
		MaxIdle  int
	}

	LLM struct {
		APIKey  string
		APIBase string
		Model   string
	}

	Auth struct {
		APIKey        string // kosong = /api tanpa API key
		AdminUser     string
		AdminPassHash string // bcrypt
		JWTSecret     string
	}

	RateLimit struct {
		RPS   float64
		Burst int
	}

	Worker struct {
		Interval    time.Duration
		Concurrency int
	}

	Calc CalcDefaults
}

// CalcDefaults default parameter perhitungan DCA.
type CalcDefaults struct {
	WindowSize int
	FnLimit    float64
	FeLimit    float64
	// Extra menampung key YAML lain; tidak dipakai engine.
	Extra map[string]any
}

// fileCalc section "calculation" di file YAML; pointer nil = key tidak ada,
// jadi window_size: 0 (semua baris aktif) tetap menimpa default.
type fileCalc struct {
	WindowSize *int           `yaml:"window_size"`
	FnLimit    *float64       `yaml:"fn_limit"`
	FeLimit    *float64       `yaml:"fe_limit"`
	Extra      map[string]any `yaml:",inline"`
}

type fileConfig struct {
	Calculation *fileCalc `yaml:"calculation"`
}

func Load() *Config {
	// .env opsional; variabel yang sudah ada tidak ditimpa
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[WARN] .env not loaded: %v", err)
	}

	c := &Config{}
	c.AppName = getEnv("APP_NAME", "dca-oilgas")
	c.AppEnv = getEnv("APP_ENV", "development")
	c.AppPort = getEnv("APP_PORT", "8080")
	c.MCPPort = getEnv("MCP_PORT", "8090")
	c.LogLevel = getEnv("LOG_LEVEL", "debug")
	c.LogFormat = getEnv("LOG_FORMAT", "json")

	c.DSN = getEnv("DB_DSN", "")
	c.DBEnabled = c.DSN != "" || os.Getenv("MYSQL_HOST") != ""
	c.MySQL.Host = getEnv("MYSQL_HOST", "localhost")
	c.MySQL.Port = getEnv("MYSQL_PORT", "3306")
	c.MySQL.DB = getEnv("MYSQL_DB", "dca")
	c.MySQL.User = getEnv("MYSQL_USER", "root")
	c.MySQL.Password = getEnv("MYSQL_PASSWORD", "")
	c.MySQL.MaxOpen = getEnvInt("MYSQL_MAX_OPEN_CONNS", 10)
	c.MySQL.MaxIdle = getEnvInt("MYSQL_MAX_IDLE_CONNS", 5)

	c.LLM.APIKey = getEnv("OPENAI_API_KEY", "")
	c.LLM.APIBase = getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1")
	c.LLM.Model = getEnv("OPENAI_MODEL", "gpt-4o-mini")

	c.Auth.APIKey = getEnv("API_KEY", "")
	c.Auth.AdminUser = getEnv("ADMIN_USER", "admin")
	c.Auth.AdminPassHash = getEnv("ADMIN_PASS_HASH", "")
	c.Auth.JWTSecret = getEnv("ADMIN_JWT_SECRET", "")

	c.RateLimit.RPS = getEnvFloat("RATE_LIMIT_RPS", 20)
	c.RateLimit.Burst = getEnvInt("RATE_LIMIT_BURST", 40)

	c.Worker.Interval = getEnvDuration("WORKER_INTERVAL", time.Hour)
	c.Worker.Concurrency = getEnvInt("BATCH_CONCURRENCY", 4)

	c.Calc = CalcDefaults{
		WindowSize: getEnvInt("DCA_WINDOW_SIZE", 11),
		FnLimit:    getEnvFloat("DCA_FN_LIMIT", 0.15),
		FeLimit:    getEnvFloat("DCA_FE_LIMIT", 0.85),
	}
	if path := getEnv("DCA_CONFIG_FILE", ""); path != "" {
		if err := c.mergeFile(path); err != nil {
			log.Printf("[WARN] config file %s ignored: %v", path, err)
		}
	}

	if c.LLM.APIKey == "" {
		log.Println("[WARN] OPENAI_API_KEY is not set, summarize_reserves uses template narrative")
	}
	return c
}

// mergeFile menimpa default perhitungan dari file YAML (section "calculation").
func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if fc.Calculation == nil {
		return nil
	}
	if v := fc.Calculation.WindowSize; v != nil {
		c.Calc.WindowSize = *v
	}
	if v := fc.Calculation.FnLimit; v != nil {
		c.Calc.FnLimit = *v
	}
	if v := fc.Calculation.FeLimit; v != nil {
		c.Calc.FeLimit = *v
	}
	c.Calc.Extra = fc.Calculation.Extra
	return nil
}

// Validate cek nilai yang tidak bisa dipakai jalan.
func (c *Config) Validate() error {
	var errs []error
	if c.Calc.WindowSize < 0 {
		errs = append(errs, fmt.Errorf("DCA_WINDOW_SIZE must be >= 0, got %d", c.Calc.WindowSize))
	}
	if c.RateLimit.RPS <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS must be > 0, got %v", c.RateLimit.RPS))
	}
	if c.RateLimit.Burst <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be > 0, got %d", c.RateLimit.Burst))
	}
	if c.Worker.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("BATCH_CONCURRENCY must be > 0, got %d", c.Worker.Concurrency))
	}
	if c.Worker.Interval <= 0 {
		errs = append(errs, fmt.Errorf("WORKER_INTERVAL must be > 0, got %s", c.Worker.Interval))
	}
	return errors.Join(errs...)
}

// CalcOptions default perhitungan dalam bentuk dca.Options.
func (c *Config) CalcOptions() dca.Options {
	return dca.Options{
		WindowSize: c.Calc.WindowSize,
		FnLimit:    c.Calc.FnLimit,
		FeLimit:    c.Calc.FeLimit,
		Extra:      c.Calc.Extra,
	}
}

// MySQLDSN DSN efektif untuk driver go-sql-driver/mysql.
func (c *Config) MySQLDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4",
		c.MySQL.User, c.MySQL.Password, c.MySQL.Host, c.MySQL.Port, c.MySQL.DB)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		_, err := fmt.Sscanf(v, "%d", &i)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(v), ",", ".", 1), 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
