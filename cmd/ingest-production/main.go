// cmd/ingest-production/main.go
// Muat workbook produksi tahunan (xlsx) ke tabel field_production_yearly.
//
//	ingest-production -field F-01 -file data/F-01.xlsx
//	ingest-production -dir data/        # nama file (tanpa ekstensi) = field_id
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"dca-oilgas/internal/config"
	"dca-oilgas/internal/logger"
	mysqlrepo "dca-oilgas/internal/repositories/mysql"
	"dca-oilgas/internal/spreadsheet"
	"dca-oilgas/pkg/db"
)

func main() {
	cfg := config.Load()
	var dsn, field, file, dir string
	flag.StringVar(&dsn, "dsn", cfg.MySQLDSN(), "MySQL DSN")
	flag.StringVar(&field, "field", "", "field id (with -file)")
	flag.StringVar(&file, "file", "", "xlsx file: column A year, B oil, C liquid")
	flag.StringVar(&dir, "dir", "", "directory of <field_id>.xlsx files")
	flag.Parse()

	log := logger.Must(cfg.LogLevel, cfg.LogFormat).Named("ingest")
	defer func() { _ = log.Sync() }()

	jobs, err := collect(field, file, dir)
	if err != nil {
		log.Fatal("arguments", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	conn, err := db.NewMySQL(ctx, db.Options{DSN: dsn, Attempts: 3, Backoff: time.Second})
	if err != nil {
		log.Fatal("mysql connect", zap.Error(err))
	}
	defer conn.Close()

	repo := &mysqlrepo.ProductionRepo{DB: conn}
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal("ensure schema", zap.Error(err))
	}

	failed := 0
	for id, path := range jobs {
		n, err := ingest(ctx, repo, id, path)
		if err != nil {
			failed++
			log.Error("ingest failed", zap.String("field_id", id), zap.String("file", path), zap.Error(err))
			continue
		}
		log.Info("ingested", zap.String("field_id", id), zap.String("file", path), zap.Int("rows", n))
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// collect memetakan field_id -> path file.
func collect(field, file, dir string) (map[string]string, error) {
	jobs := map[string]string{}
	if file != "" {
		if field == "" {
			field = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		}
		jobs[field] = file
	}
	if dir != "" {
		matches, err := filepath.Glob(filepath.Join(dir, "*.xlsx"))
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			jobs[strings.TrimSuffix(filepath.Base(m), ".xlsx")] = m
		}
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("nothing to ingest: pass -file or -dir")
	}
	return jobs, nil
}

func ingest(ctx context.Context, repo *mysqlrepo.ProductionRepo, fieldID, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	rows, err := spreadsheet.ReadRows(f)
	if err != nil {
		return 0, err
	}
	return repo.UpsertYearly(ctx, fieldID, rows)
}
