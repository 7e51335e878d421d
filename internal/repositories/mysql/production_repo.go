// repositories/mysql/production_repo.go
// Repo untuk data produksi tahunan per lapangan (sumber input DCA)
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"dca-oilgas/internal/dca"
)

// Schema tabel produksi tahunan. Volume kumulatif per tahun.
const Schema = `
CREATE TABLE IF NOT EXISTS field_production_yearly (
	field_id VARCHAR(64) NOT NULL,
	year     INT         NOT NULL,
	oil      DOUBLE      NOT NULL,
	liquid   DOUBLE      NOT NULL,
	PRIMARY KEY (field_id, year)
)`

type ProductionRepo struct{ DB *sql.DB }

type YearlyFilter struct {
	FieldID  string
	FromYear int // inclusive, 0 = tanpa batas
	ToYear   int // inclusive, 0 = tanpa batas
}

type FieldInfo struct {
	FieldID   string `json:"field_id"`
	Years     int    `json:"years"`
	FirstYear int    `json:"first_year"`
	LastYear  int    `json:"last_year"`
}

func (r *ProductionRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create field_production_yearly: %w", err)
	}
	return nil
}

// ListYearly baris produksi satu lapangan, urut tahun naik.
func (r *ProductionRepo) ListYearly(ctx context.Context, f YearlyFilter) ([]dca.ProductionRow, error) {
	if f.FieldID == "" {
		return nil, fmt.Errorf("field_id required")
	}
	q := `
		SELECT year, oil, liquid
		FROM field_production_yearly
		WHERE field_id = ?`
	args := []any{f.FieldID}

	if f.FromYear > 0 {
		q += ` AND year >= ?`
		args = append(args, f.FromYear)
	}
	if f.ToYear > 0 {
		q += ` AND year <= ?`
		args = append(args, f.ToYear)
	}
	q += ` ORDER BY year ASC`

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query production yearly: %w", err)
	}
	defer rows.Close()

	var out []dca.ProductionRow
	for rows.Next() {
		var (
			year        int
			oil, liquid sql.NullFloat64
		)
		if err := rows.Scan(&year, &oil, &liquid); err != nil {
			return nil, err
		}
		out = append(out, dca.ProductionRow{
			Year:   strconv.Itoa(year),
			Oil:    oil.Float64,
			Liquid: liquid.Float64,
		})
	}
	return out, rows.Err()
}

func (r *ProductionRepo) ListFields(ctx context.Context) ([]FieldInfo, error) {
	const q = `
		SELECT field_id, COUNT(*), MIN(year), MAX(year)
		FROM field_production_yearly
		GROUP BY field_id
		ORDER BY field_id`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query fields: %w", err)
	}
	defer rows.Close()

	var out []FieldInfo
	for rows.Next() {
		var fi FieldInfo
		if err := rows.Scan(&fi.FieldID, &fi.Years, &fi.FirstYear, &fi.LastYear); err != nil {
			return nil, err
		}
		out = append(out, fi)
	}
	return out, rows.Err()
}

// UpsertYearly menulis rows dalam satu transaksi. Tahun yang tidak bisa
// di-parse dilewati; jumlah baris tertulis dikembalikan.
func (r *ProductionRepo) UpsertYearly(ctx context.Context, fieldID string, in []dca.ProductionRow) (int, error) {
	if fieldID == "" {
		return 0, fmt.Errorf("field_id required")
	}
	tuples := make([]string, 0, len(in))
	args := make([]any, 0, len(in)*4)
	for _, row := range in {
		year := dca.ParseYear(row.Year)
		if year == 0 {
			continue
		}
		tuples = append(tuples, "("+placeholders(4)+")")
		args = append(args, fieldID, year, row.Oil, row.Liquid)
	}
	if len(tuples) == 0 {
		return 0, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := `INSERT INTO field_production_yearly (field_id, year, oil, liquid) VALUES ` +
		strings.Join(tuples, ", ") +
		` ON DUPLICATE KEY UPDATE oil = VALUES(oil), liquid = VALUES(liquid)`
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return 0, fmt.Errorf("upsert production yearly: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(tuples), nil
}
