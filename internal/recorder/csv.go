package recorder

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"TrendSentinel/internal/model"
)

// TimestampLayout is the timestamp format used in the CSV history and report headers.
const TimestampLayout = "2006-01-02 15:04:05"

var csvHeader = []string{"symbol", "timestamp", "price", "volume", "moving_average", "oscillator", "trend"}

// CSVStore persists history as one CSV row per (symbol, cycle).
type CSVStore struct {
	path string
	mu   sync.Mutex
}

// NewCSVStore prepares a CSV history file at path. The file itself is created on the
// first append.
func NewCSVStore(path string) (*CSVStore, error) {
	if path == "" {
		return nil, errors.New("csv path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	log.Printf("[INFO] csv history store: %s", path)
	return &CSVStore{path: path}, nil
}

func (s *CSVStore) Append(_ context.Context, rec *model.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, statErr := os.Stat(s.path)
	fresh := os.IsNotExist(statErr)

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return writeErr(err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write(csvHeader); err != nil {
			return writeErr(err)
		}
	}
	if err := w.Write([]string{
		rec.Symbol,
		rec.Timestamp.Format(TimestampLayout),
		formatFloat(rec.Price),
		formatFloat(rec.Volume),
		formatFloat(rec.MovingAverage),
		formatFloat(rec.Oscillator),
		string(rec.Trend),
	}); err != nil {
		return writeErr(err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return writeErr(err)
	}
	return nil
}

func (s *CSVStore) RecentPrices(_ context.Context, symbol string, limit int) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []float64{}, nil
		}
		return nil, readErr(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var prices []float64
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, readErr(err)
		}
		if len(row) < 3 || row[0] != symbol {
			continue
		}
		p, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, readErr(fmt.Errorf("parse price %q: %w", row[2], err))
		}
		prices = append(prices, p)
	}
	return tail(prices, limit), nil
}

func (s *CSVStore) Close() error { return nil }

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
