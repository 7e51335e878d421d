/*
Kompilasi manual:
  go build -o tools/gen_dummy/load_to_mysql ./tools/gen_dummy

Pakai contoh:
  # 1) generate CSV + workbook sintetis (20 lapangan, 1990..2020)
  ./tools/gen_dummy/load_to_mysql -gen 20 -csv tools/gen_dummy/sample_production.csv -xlsx-dir tools/gen_dummy/xlsx

  # 2) muat CSV ke MySQL
  ./tools/gen_dummy/load_to_mysql \
    -csv tools/gen_dummy/sample_production.csv \
    -dsn "dcauser:secret@tcp(127.0.0.1:3306)/dca?parseTime=true" \
    -batch 2000 -truncate
*/

// [FILE] tools/gen_dummy/load_to_mysql.go
package main

import (
	"bufio"
	"database/sql"
	"encoding/csv"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	mysqlrepo "dca-oilgas/internal/repositories/mysql"
)

var (
	csvPath   = flag.String("csv", "tools/gen_dummy/sample_production.csv", "CSV path (field_id,year,oil,liquid)")
	dsn       = flag.String("dsn", "root:password@tcp(127.0.0.1:3306)/dca?parseTime=true", "MySQL DSN")
	batchSize = flag.Int("batch", 1000, "Insert batch size")
	truncate  = flag.Bool("truncate", false, "TRUNCATE field_production_yearly first")
	genFields = flag.Int("gen", 0, "Generate N synthetic fields into -csv instead of loading")
	xlsxDir   = flag.String("xlsx-dir", "", "With -gen: also write one <field_id>.xlsx per field")
	seed      = flag.Int64("seed", 42, "Random seed for -gen")
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	flag.Parse()

	if *genFields > 0 {
		fields := generate(*genFields, *seed)
		must(writeCSV(*csvPath, fields))
		log.Printf("[ok] wrote %d fields to %s", len(fields), *csvPath)
		if *xlsxDir != "" {
			must(writeWorkbooks(*xlsxDir, fields))
			log.Printf("[ok] wrote workbooks to %s", *xlsxDir)
		}
		return
	}

	db, err := sql.Open("mysql", *dsn)
	must(err)
	defer db.Close()
	must(db.Ping())

	_, err = db.Exec(mysqlrepo.Schema)
	must(err)

	if *truncate {
		_, err := db.Exec("TRUNCATE TABLE field_production_yearly")
		must(err)
		log.Printf("[ok] truncated field_production_yearly")
		if *csvPath == "/dev/null" {
			return
		}
	}

	f, err := os.Open(*csvPath)
	must(err)
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1

	head, err := r.Read()
	must(err)
	loadProduction(db, r, head)
}

/* ======================= Common Helpers ======================= */

func headerIndex(h []string) map[string]int {
	m := map[string]int{}
	for i, c := range h {
		c = strings.TrimSpace(strings.ToLower(c))
		c = strings.TrimPrefix(c, "\ufeff")
		m[c] = i
	}
	return m
}

func ensureColumns(idx map[string]int, need []string) {
	for _, c := range need {
		if _, ok := idx[c]; !ok {
			log.Fatalf("missing column %q in CSV header", c)
		}
	}
}

func readRow(r *csv.Reader) ([]string, error) {
	rec, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	return rec, nil
}

/* ======================= field_production_yearly ======================= */

func loadProduction(db *sql.DB, r *csv.Reader, head []string) {
	idx := headerIndex(head)
	need := []string{"field_id", "year", "oil", "liquid"}
	ensureColumns(idx, need)

	vals := make([]any, 0, *batchSize*4)
	rows := 0
	for {
		rec, err := readRow(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			log.Fatal(err)
		}
		year, err := strconv.Atoi(strings.TrimSpace(rec[idx["year"]]))
		if err != nil {
			log.Printf("[skip] bad year %q", rec[idx["year"]])
			continue
		}
		vals = append(vals, rec[idx["field_id"]], year, rec[idx["oil"]], rec[idx["liquid"]])
		rows++
		if rows%*batchSize == 0 {
			flushProduction(db, &vals)
		}
	}
	if len(vals) > 0 {
		flushProduction(db, &vals)
	}
	log.Printf("[ok] upserted field_production_yearly rows: ~%d", rows)
}

func flushProduction(db *sql.DB, vals *[]any) {
	if len(*vals) == 0 {
		return
	}
	placeholders := strings.Repeat("(?, ?, ?, ?),", len(*vals)/4)
	placeholders = strings.TrimRight(placeholders, ",")
	q := "INSERT INTO field_production_yearly(field_id, year, oil, liquid) VALUES " + placeholders +
		" ON DUPLICATE KEY UPDATE oil=VALUES(oil), liquid=VALUES(liquid)"
	_, err := db.Exec(q, *vals...)
	must(err)
	*vals = (*vals)[:0]
}
