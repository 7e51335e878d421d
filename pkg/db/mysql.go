// pkg/db/mysql.go
// Helper koneksi MySQL (menggunakan database/sql)

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

type Options struct {
	DSN      string
	MaxOpen  int
	MaxIdle  int
	Attempts int           // jumlah percobaan ping, default 5
	Backoff  time.Duration // jeda awal antar ping, default 500ms (dobel tiap gagal)
}

// NewMySQL membuka pool dan menunggu sampai server bisa di-ping.
func NewMySQL(ctx context.Context, o Options) (*sql.DB, error) {
	db, err := sql.Open("mysql", o.DSN)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if o.MaxOpen > 0 {
		db.SetMaxOpenConns(o.MaxOpen)
	}
	if o.MaxIdle > 0 {
		db.SetMaxIdleConns(o.MaxIdle)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := Ping(ctx, db, o.Attempts, o.Backoff); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Ping mencoba PingContext beberapa kali dengan backoff eksponensial.
func Ping(ctx context.Context, db *sql.DB, attempts int, backoff time.Duration) error {
	if attempts <= 0 {
		attempts = 5
	}
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	var err error
	for i := 0; i < attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err = db.PingContext(pctx)
		cancel()
		if err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return fmt.Errorf("ping mysql after %d attempts: %w", attempts, err)
}
