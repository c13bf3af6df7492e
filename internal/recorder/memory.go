package recorder

import (
	"context"
	"sync"

	"TrendSentinel/internal/model"
)

// MemoryStore keeps history in process memory. Used when no durable backend is
// available and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	records []model.HistoryRecord
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Append(_ context.Context, rec *model.HistoryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *rec)
	return nil
}

func (m *MemoryStore) RecentPrices(_ context.Context, symbol string, limit int) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var prices []float64
	for _, r := range m.records {
		if r.Symbol == symbol {
			prices = append(prices, r.Price)
		}
	}
	return append([]float64{}, tail(prices, limit)...), nil
}

// Records returns a copy of every record in append order.
func (m *MemoryStore) Records() []model.HistoryRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.HistoryRecord(nil), m.records...)
}

func (m *MemoryStore) Close() error { return nil }
