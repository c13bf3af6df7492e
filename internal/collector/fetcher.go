package collector

import (
	"context"
	"errors"

	"TrendSentinel/internal/model"
)

// ErrFetch wraps every failure to obtain a live sample.
var ErrFetch = errors.New("fetch ticker failed")

// Fetcher defines the interface for fetching the latest price and 24h volume.
type Fetcher interface {
	FetchTicker(ctx context.Context, symbol string) (*model.Sample, error)
	Name() string
}
