package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"TrendSentinel/internal/model"

	"github.com/go-redis/redis/v8"
)

const defaultRedisPrefix = "trendsentinel:"

// RedisStore keeps one Redis list of JSON records per symbol.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// redisRecord is the JSON shape stored in each list element.
type redisRecord struct {
	CycleID       string  `json:"cycle_id"`
	Symbol        string  `json:"symbol"`
	Timestamp     int64   `json:"timestamp"`
	Price         float64 `json:"price"`
	Volume        float64 `json:"volume"`
	MovingAverage float64 `json:"moving_average"`
	Oscillator    float64 `json:"oscillator"`
	Trend         string  `json:"trend"`
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr, password string, db int, prefix string) (*RedisStore, error) {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	log.Printf("[INFO] redis history store connected: %s", addr)
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) key(symbol string) string {
	return s.prefix + "history:" + symbol
}

func (s *RedisStore) Append(ctx context.Context, rec *model.HistoryRecord) error {
	data, err := encodeRedisRecord(rec)
	if err != nil {
		return writeErr(err)
	}
	if err := s.client.RPush(ctx, s.key(rec.Symbol), data).Err(); err != nil {
		return writeErr(err)
	}
	return nil
}

func (s *RedisStore) RecentPrices(ctx context.Context, symbol string, limit int) ([]float64, error) {
	if limit <= 0 {
		return []float64{}, nil
	}
	items, err := s.client.LRange(ctx, s.key(symbol), -int64(limit), -1).Result()
	if err != nil {
		return nil, readErr(err)
	}
	prices := make([]float64, 0, len(items))
	for _, item := range items {
		rec, err := decodeRedisRecord(item)
		if err != nil {
			return nil, readErr(err)
		}
		prices = append(prices, rec.Price)
	}
	return prices, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func encodeRedisRecord(rec *model.HistoryRecord) (string, error) {
	data, err := json.Marshal(redisRecord{
		CycleID:       rec.CycleID,
		Symbol:        rec.Symbol,
		Timestamp:     rec.Timestamp.UnixMilli(),
		Price:         rec.Price,
		Volume:        rec.Volume,
		MovingAverage: rec.MovingAverage,
		Oscillator:    rec.Oscillator,
		Trend:         string(rec.Trend),
	})
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	return string(data), nil
}

func decodeRedisRecord(s string) (*model.HistoryRecord, error) {
	var r redisRecord
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &model.HistoryRecord{
		CycleID:       r.CycleID,
		Symbol:        r.Symbol,
		Timestamp:     time.UnixMilli(r.Timestamp),
		Price:         r.Price,
		Volume:        r.Volume,
		MovingAverage: r.MovingAverage,
		Oscillator:    r.Oscillator,
		Trend:         model.ParseTrend(r.Trend),
	}, nil
}
