package recorder

import (
	"context"
	"errors"
	"fmt"
	"log"

	"TrendSentinel/internal/model"
)

var (
	ErrStorageWrite = errors.New("history write failed")
	ErrStorageRead  = errors.New("history read failed")
)

// HistoryStore is the append-only per-symbol record log.
type HistoryStore interface {
	// Append adds one record. Records are never rewritten or deleted.
	Append(ctx context.Context, rec *model.HistoryRecord) error
	// RecentPrices returns up to limit most recent prices for symbol, oldest first.
	RecentPrices(ctx context.Context, symbol string, limit int) ([]float64, error)
	Close() error
}

// Options selects and configures a history backend.
type Options struct {
	Driver        string // csv, sqlite, redis or memory
	CSVPath       string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open creates the configured backend.
func Open(opts Options) (HistoryStore, error) {
	switch opts.Driver {
	case "", "csv":
		return NewCSVStore(opts.CSVPath)
	case "sqlite":
		return NewSQLiteStore(opts.SQLitePath)
	case "redis":
		return NewRedisStore(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.RedisPrefix)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

// OpenWithFallback opens the configured backend and falls back to an in-memory store
// when it cannot be opened, so the collector keeps reporting.
func OpenWithFallback(opts Options) HistoryStore {
	store, err := Open(opts)
	if err != nil {
		log.Printf("[WARN] open %s history store failed, using memory: %v", opts.Driver, err)
		return NewMemoryStore()
	}
	return store
}

func writeErr(err error) error {
	return fmt.Errorf("%w: %w", ErrStorageWrite, err)
}

func readErr(err error) error {
	return fmt.Errorf("%w: %w", ErrStorageRead, err)
}

func tail(prices []float64, limit int) []float64 {
	if limit <= 0 {
		return []float64{}
	}
	if len(prices) > limit {
		prices = prices[len(prices)-limit:]
	}
	return prices
}
