package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"TrendSentinel/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists history to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	// WAL so external readers don't block the collector.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite history store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS history_records (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			cycle_id       TEXT,
			symbol         TEXT NOT NULL,
			timestamp      INTEGER NOT NULL,
			price          REAL NOT NULL,
			volume         REAL,
			moving_average REAL,
			oscillator     REAL,
			trend          TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_symbol ON history_records(symbol, id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) Append(ctx context.Context, rec *model.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `INSERT INTO history_records
		(cycle_id, symbol, timestamp, price, volume, moving_average, oscillator, trend)
		VALUES (?,?,?,?,?,?,?,?)`,
		rec.CycleID, rec.Symbol, rec.Timestamp.UnixMilli(), rec.Price, rec.Volume,
		rec.MovingAverage, rec.Oscillator, string(rec.Trend),
	)
	if err != nil {
		return writeErr(err)
	}
	return nil
}

func (s *SQLiteStore) RecentPrices(ctx context.Context, symbol string, limit int) ([]float64, error) {
	if limit <= 0 {
		return []float64{}, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT price FROM (
			SELECT id, price FROM history_records WHERE symbol = ? ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, symbol, limit)
	if err != nil {
		return nil, readErr(err)
	}
	defer rows.Close()

	prices := []float64{}
	for rows.Next() {
		var p float64
		if err := rows.Scan(&p); err != nil {
			return nil, readErr(err)
		}
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, readErr(err)
	}
	return prices, nil
}

// Records returns every stored record for symbol in append order.
func (s *SQLiteStore) Records(ctx context.Context, symbol string) ([]model.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT cycle_id, symbol, timestamp, price, volume,
		moving_average, oscillator, trend FROM history_records WHERE symbol = ? ORDER BY id ASC`, symbol)
	if err != nil {
		return nil, readErr(err)
	}
	defer rows.Close()

	var out []model.HistoryRecord
	for rows.Next() {
		var r model.HistoryRecord
		var ts int64
		var trend string
		if err := rows.Scan(&r.CycleID, &r.Symbol, &ts, &r.Price, &r.Volume,
			&r.MovingAverage, &r.Oscillator, &trend); err != nil {
			return nil, readErr(err)
		}
		r.Timestamp = time.UnixMilli(ts)
		r.Trend = model.ParseTrend(trend)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite history store")
	return s.db.Close()
}
