package collector

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"TrendSentinel/internal/metrics"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/notifier"
	"TrendSentinel/internal/recorder"
	"TrendSentinel/internal/strategy"

	"github.com/google/uuid"
)

// MockFetcher returns scripted prices for development and testing. Each call for a
// symbol consumes the next scripted price; the last one repeats.
type MockFetcher struct {
	Prices map[string][]float64
	Volume float64
	Errors map[string]error
	Delay  time.Duration

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchTicker(ctx context.Context, symbol string) (*model.Sample, error) {
	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.Delay):
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	n := m.calls[symbol]
	m.calls[symbol]++

	if err, ok := m.Errors[symbol]; ok {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, symbol, err)
	}
	prices := m.Prices[symbol]
	if len(prices) == 0 {
		return nil, fmt.Errorf("%w: %s: no mock price", ErrFetch, symbol)
	}
	if n >= len(prices) {
		n = len(prices) - 1
	}
	return &model.Sample{Symbol: symbol, Timestamp: time.Now(), Price: prices[n], Volume: m.Volume}, nil
}

// Calls returns the total number of FetchTicker calls.
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

// Dispatcher delivers a finished report to the notification channel.
type Dispatcher interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// ReportLog appends finished reports to a human-readable log.
type ReportLog interface {
	Write(ts time.Time, report string) error
}

// Config holds the per-cycle settings.
type Config struct {
	Symbols      []string
	HistoryDepth int // prices read back from history before the new sample
	Params       strategy.Params
	SendRetries  int
}

// SymbolFailure records why a symbol is missing from a cycle's analyses.
type SymbolFailure struct {
	Symbol string
	Err    error
}

// CycleReport summarizes one completed cycle.
type CycleReport struct {
	ID        string
	Trigger   model.TriggerType
	StartedAt time.Time
	Text      string
	Analyses  []*model.Analysis
	Failures  []SymbolFailure
	Warnings  []SymbolFailure // analyzed but not persisted
}

// Collector runs analysis cycles. Cycles are serialized: a caller arriving while a
// cycle is in flight waits for it to finish.
type Collector struct {
	Fetcher  Fetcher
	Store    recorder.HistoryStore
	Notifier Dispatcher
	Log      ReportLog
	Metrics  *metrics.Metrics
	Now      func() time.Time

	cfg Config
	mu  sync.Mutex
}

// NewCollector creates a new Collector. notifier, reportLog and m may be nil.
func NewCollector(cfg Config, fetcher Fetcher, store recorder.HistoryStore, dispatcher Dispatcher, reportLog ReportLog, m *metrics.Metrics) *Collector {
	return &Collector{
		Fetcher:  fetcher,
		Store:    store,
		Notifier: dispatcher,
		Log:      reportLog,
		Metrics:  m,
		Now:      time.Now,
		cfg:      cfg,
	}
}

// RunCycle samples every configured symbol, persists the analyses and dispatches one
// report. Per-symbol, storage and dispatch failures are reported, never returned; the
// error is non-nil only when ctx is done before the cycle starts.
func (c *Collector) RunCycle(ctx context.Context, trigger model.TriggerType) (*CycleReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Taken inside the gate so timestamps follow execution order.
	now := c.Now()
	report := &CycleReport{
		ID:        uuid.NewString(),
		Trigger:   trigger,
		StartedAt: now,
	}
	log.Printf("[INFO] cycle %s started (trigger=%s, symbols=%d)", report.ID, trigger, len(c.cfg.Symbols))

	rb := notifier.NewReportBuilder(c.cfg.Params.MAPeriod)
	for _, symbol := range c.cfg.Symbols {
		c.collectSymbol(ctx, symbol, now, report, rb)
	}

	report.Text = rb.Finalize(now)
	c.dispatch(ctx, report)

	elapsed := time.Since(now)
	c.Metrics.ObserveCycle(string(trigger), elapsed)
	log.Printf("[INFO] cycle %s finished in %v (ok=%d, failed=%d, unsaved=%d)",
		report.ID, elapsed.Round(time.Millisecond), len(report.Analyses), len(report.Failures), len(report.Warnings))
	return report, nil
}

func (c *Collector) collectSymbol(ctx context.Context, symbol string, now time.Time, report *CycleReport, rb *notifier.ReportBuilder) {
	fail := func(err error) {
		report.Failures = append(report.Failures, SymbolFailure{Symbol: symbol, Err: err})
		rb.AppendFailure(symbol, err)
	}

	sample, err := c.Fetcher.FetchTicker(ctx, symbol)
	if err != nil {
		log.Printf("[WARN] cycle %s: %v", report.ID, err)
		c.Metrics.FetchFailed(symbol)
		fail(err)
		return
	}
	sample.Timestamp = now

	history, err := c.Store.RecentPrices(ctx, symbol, c.cfg.HistoryDepth)
	if err != nil {
		log.Printf("[ERROR] cycle %s: read %s history: %v", report.ID, symbol, err)
		c.Metrics.StorageFailed("read")
		fail(err)
		return
	}
	window := append(history, sample.Price)

	analysis := strategy.Analyze(*sample, window, c.cfg.Params)
	report.Analyses = append(report.Analyses, analysis)
	rb.Append(analysis)
	c.Metrics.SetTrend(symbol, trendValue(analysis.Trend))

	if err := c.Store.Append(ctx, analysis.Record(report.ID)); err != nil {
		log.Printf("[ERROR] cycle %s: append %s history: %v", report.ID, symbol, err)
		c.Metrics.StorageFailed("append")
		report.Warnings = append(report.Warnings, SymbolFailure{Symbol: symbol, Err: err})
		rb.AppendWarning(symbol, err)
	}
}

func (c *Collector) dispatch(ctx context.Context, report *CycleReport) {
	if c.Notifier != nil {
		if err := c.Notifier.SendWithRetry(ctx, report.Text, c.cfg.SendRetries); err != nil {
			log.Printf("[ERROR] cycle %s: send report: %v", report.ID, err)
			c.Metrics.NotifyFailed("send")
		}
	}
	if c.Log != nil {
		if err := c.Log.Write(report.StartedAt, report.Text); err != nil {
			log.Printf("[ERROR] cycle %s: write report log: %v", report.ID, err)
			c.Metrics.StorageFailed("report_log")
		}
	}
}

func trendValue(t model.Trend) float64 {
	switch t {
	case model.TrendBullish:
		return 1
	case model.TrendBearish:
		return -1
	default:
		return 0
	}
}
