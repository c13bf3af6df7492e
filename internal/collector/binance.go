package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"TrendSentinel/internal/model"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
)

// BinanceFetcher reads 24h ticker statistics from the Binance spot API.
type BinanceFetcher struct {
	client *binance.Client
	now    func() time.Time
}

// NewBinanceFetcher creates a fetcher. Keys may be empty; the ticker endpoint is public.
// baseURL overrides the production endpoint when set.
func NewBinanceFetcher(apiKey, secretKey, baseURL, proxyURL string) *BinanceFetcher {
	client := binance.NewClient(apiKey, secretKey)
	if baseURL != "" {
		client.BaseURL = baseURL
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	client.HTTPClient = &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
	return &BinanceFetcher{client: client, now: time.Now}
}

func (f *BinanceFetcher) Name() string { return "binance" }

func (f *BinanceFetcher) FetchTicker(ctx context.Context, symbol string) (*model.Sample, error) {
	stats, err := f.client.NewListPriceChangeStatsService().Symbol(symbol).Do(ctx)
	if err != nil {
		var apiErr *common.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("%w: %s: binance error %d: %s", ErrFetch, symbol, apiErr.Code, apiErr.Message)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, symbol, err)
	}
	if len(stats) == 0 {
		return nil, fmt.Errorf("%w: %s: empty ticker response", ErrFetch, symbol)
	}

	price, err := strconv.ParseFloat(stats[0].LastPrice, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: parse lastPrice %q: %w", ErrFetch, symbol, stats[0].LastPrice, err)
	}
	volume, err := strconv.ParseFloat(stats[0].Volume, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: parse volume %q: %w", ErrFetch, symbol, stats[0].Volume, err)
	}

	return &model.Sample{
		Symbol:    symbol,
		Timestamp: f.now(),
		Price:     price,
		Volume:    volume,
	}, nil
}
