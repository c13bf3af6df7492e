package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"TrendSentinel/internal/model"
)

const yahooChartBase = "https://query1.finance.yahoo.com/v8/finance/chart/"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API. It serves symbols
// that are not listed on Binance (indices, equities).
type YahooFetcher struct {
	Client    *http.Client
	BaseURL   string
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL: yahooChartBase,
		SymbolMap: map[string]string{
			"SPX500":  "^GSPC",
			"SPX":     "^GSPC",
			"BTCUSDT": "BTC-USD",
			"ETHUSDT": "ETH-USD",
			"SOLUSDT": "SOL-USD",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the subset of the chart API response used here.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// FetchTicker returns the regular market price and the volume of the latest daily bar.
func (f *YahooFetcher) FetchTicker(ctx context.Context, symbol string) (*model.Sample, error) {
	u := fmt.Sprintf("%s%s?interval=1d&range=5d", f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, symbol, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: yahoo fetch: %w", ErrFetch, symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: yahoo read body: %w", ErrFetch, symbol, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: yahoo status %d", ErrFetch, symbol, resp.StatusCode)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("%w: %s: yahoo decode: %w", ErrFetch, symbol, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s: yahoo api error: %s", ErrFetch, symbol, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s: yahoo returned no data", ErrFetch, symbol)
	}

	result := chart.Chart.Result[0]
	price := result.Meta.RegularMarketPrice
	var volume float64
	if len(result.Indicators.Quote) > 0 {
		q := result.Indicators.Quote[0]
		// Walk back past null bars (holidays, partial sessions).
		for i := len(q.Close) - 1; i >= 0; i-- {
			c := toFloat(q.Close[i])
			if c == 0 {
				continue
			}
			if price == 0 {
				price = c
			}
			if i < len(q.Volume) {
				volume = toFloat(q.Volume[i])
			}
			break
		}
	}
	if price == 0 {
		return nil, fmt.Errorf("%w: %s: yahoo returned no price", ErrFetch, symbol)
	}

	return &model.Sample{Symbol: symbol, Timestamp: time.Now(), Price: price, Volume: volume}, nil
}
