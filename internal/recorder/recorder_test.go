package recorder

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"TrendSentinel/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(symbol string, ts time.Time, price float64) *model.HistoryRecord {
	return &model.HistoryRecord{
		CycleID:       "cycle-1",
		Symbol:        symbol,
		Timestamp:     ts,
		Price:         price,
		Volume:        1234.5,
		MovingAverage: price - 1,
		Oscillator:    61.25,
		Trend:         model.TrendBullish,
	}
}

// exerciseStore checks the HistoryStore contract shared by every backend.
func exerciseStore(t *testing.T, store HistoryStore) {
	t.Helper()
	ctx := context.Background()

	empty, err := store.RecentPrices(ctx, "BTCUSDT", 30)
	require.NoError(t, err)
	assert.Empty(t, empty)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)
	submitted := []float64{100.1, 102.25, 99.999, 105, 103.0000001}
	for i, p := range submitted {
		ts := base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, store.Append(ctx, record("BTCUSDT", ts, p)))
		require.NoError(t, store.Append(ctx, record("ETHUSDT", ts, p*10)))
	}

	got, err := store.RecentPrices(ctx, "BTCUSDT", len(submitted))
	require.NoError(t, err)
	assert.Equal(t, submitted, got)

	got, err = store.RecentPrices(ctx, "BTCUSDT", 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{105, 103.0000001}, got)

	got, err = store.RecentPrices(ctx, "BTCUSDT", 100)
	require.NoError(t, err)
	assert.Equal(t, submitted, got)

	got, err = store.RecentPrices(ctx, "ETHUSDT", 1)
	require.NoError(t, err)
	assert.InDelta(t, 1030.000001, got[0], 1e-9)

	got, err = store.RecentPrices(ctx, "SOLUSDT", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	exerciseStore(t, store)
	assert.Len(t, store.Records(), 10)
}

func TestCSVStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "prices.csv")
	store, err := NewCSVStore(path)
	require.NoError(t, err)
	exerciseStore(t, store)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "symbol,timestamp,price,volume,moving_average,oscillator,trend", lines[0])
	assert.Equal(t, "BTCUSDT,2025-01-01 00:00:00,100.1,1234.5,99.1,61.25,Bullish", lines[1])
	assert.Equal(t, 1, strings.Count(string(data), "symbol,timestamp"))
}

func TestCSVStore_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	ctx := context.Background()

	first, err := NewCSVStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Append(ctx, record("X", time.Now(), 1)))

	second, err := NewCSVStore(path)
	require.NoError(t, err)
	require.NoError(t, second.Append(ctx, record("X", time.Now(), 2)))

	got, err := second.RecentPrices(ctx, "X", 30)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, got)
}

func TestCSVStore_CorruptPrice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, os.WriteFile(path, []byte("symbol,timestamp,price\nX,now,abc\n"), 0644))

	store, err := NewCSVStore(path)
	require.NoError(t, err)
	_, err = store.RecentPrices(context.Background(), "X", 30)
	assert.ErrorIs(t, err, ErrStorageRead)
}

func TestCSVStore_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	store, err := NewCSVStore(filepath.Join(dir, "prices.csv"))
	require.NoError(t, err)
	// A directory where the file should be makes the open fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "prices.csv"), 0755))

	err = store.Append(context.Background(), record("X", time.Now(), 1))
	assert.ErrorIs(t, err, ErrStorageWrite)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)

	recs, err := store.Records(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, recs, 5)
	assert.Equal(t, "cycle-1", recs[0].CycleID)
	assert.Equal(t, model.TrendBullish, recs[0].Trend)
	for i := 1; i < len(recs); i++ {
		assert.True(t, recs[i].Timestamp.After(recs[i-1].Timestamp))
	}
}

func TestRedisRecordCodec(t *testing.T) {
	ts := time.UnixMilli(1735689600123)
	in := record("BTCUSDT", ts, 97000.5)

	s, err := encodeRedisRecord(in)
	require.NoError(t, err)
	out, err := decodeRedisRecord(s)
	require.NoError(t, err)

	assert.Equal(t, in.Symbol, out.Symbol)
	assert.Equal(t, in.Price, out.Price)
	assert.True(t, in.Timestamp.Equal(out.Timestamp))
	assert.Equal(t, in.Trend, out.Trend)

	_, err = decodeRedisRecord("{not json")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	_, err := Open(Options{Driver: "parquet"})
	assert.Error(t, err)

	store, err := Open(Options{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = Open(Options{CSVPath: filepath.Join(t.TempDir(), "h.csv")})
	require.NoError(t, err)
	assert.IsType(t, &CSVStore{}, store)
}

func TestOpenWithFallback(t *testing.T) {
	store := OpenWithFallback(Options{Driver: "csv"})
	assert.IsType(t, &MemoryStore{}, store)
}

func TestTextLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "trend_log.txt")
	tl := NewTextLog(path)
	ts := time.Date(2025, 3, 4, 5, 6, 7, 0, time.Local)

	require.NoError(t, tl.Write(ts, "report one"))
	require.NoError(t, tl.Write(ts.Add(time.Hour), "report two"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-04 05:06:07\nreport one\n\n2025-03-04 06:06:07\nreport two\n\n", string(data))
}
