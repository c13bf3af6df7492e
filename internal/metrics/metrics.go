// Package metrics exposes Prometheus counters for collection cycles.
package metrics

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collector's Prometheus metrics. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	CyclesTotal     *prometheus.CounterVec // labels: trigger
	CycleDuration   prometheus.Histogram
	FetchFailures   *prometheus.CounterVec // labels: symbol
	StorageFailures *prometheus.CounterVec // labels: op
	NotifyFailures  *prometheus.CounterVec // labels: op
	CoalescedTotal  prometheus.Counter
	CommandsTotal   prometheus.Counter
	LastTrend       *prometheus.GaugeVec // labels: symbol; 1=bullish, 0=sideways, -1=bearish

	gatherer prometheus.Gatherer
}

// New registers all metrics on reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		CyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trendsentinel_cycles_total",
			Help: "Completed collection cycles",
		}, []string{"trigger"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "trendsentinel_cycle_duration_seconds",
			Help:    "Wall time of one collection cycle",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trendsentinel_fetch_failures_total",
			Help: "Ticker fetch failures",
		}, []string{"symbol"}),
		StorageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trendsentinel_storage_failures_total",
			Help: "History and report log failures",
		}, []string{"op"}),
		NotifyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trendsentinel_notify_failures_total",
			Help: "Telegram send and poll failures",
		}, []string{"op"}),
		CoalescedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trendsentinel_triggers_coalesced_total",
			Help: "Scheduled triggers dropped because a cycle was already queued",
		}),
		CommandsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trendsentinel_commands_total",
			Help: "Status commands received",
		}),
		LastTrend: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "trendsentinel_trend",
			Help: "Last trend per symbol (1 bullish, 0 sideways, -1 bearish)",
		}, []string{"symbol"}),
		gatherer: reg,
	}
	reg.MustRegister(
		m.CyclesTotal, m.CycleDuration, m.FetchFailures, m.StorageFailures,
		m.NotifyFailures, m.CoalescedTotal, m.CommandsTotal, m.LastTrend,
	)
	return m
}

func (m *Metrics) ObserveCycle(trigger string, d time.Duration) {
	if m == nil {
		return
	}
	m.CyclesTotal.WithLabelValues(trigger).Inc()
	m.CycleDuration.Observe(d.Seconds())
}

func (m *Metrics) FetchFailed(symbol string) {
	if m == nil {
		return
	}
	m.FetchFailures.WithLabelValues(symbol).Inc()
}

func (m *Metrics) StorageFailed(op string) {
	if m == nil {
		return
	}
	m.StorageFailures.WithLabelValues(op).Inc()
}

func (m *Metrics) NotifyFailed(op string) {
	if m == nil {
		return
	}
	m.NotifyFailures.WithLabelValues(op).Inc()
}

func (m *Metrics) Coalesced() {
	if m == nil {
		return
	}
	m.CoalescedTotal.Inc()
}

func (m *Metrics) CommandReceived() {
	if m == nil {
		return
	}
	m.CommandsTotal.Inc()
}

func (m *Metrics) SetTrend(symbol string, value float64) {
	if m == nil {
		return
	}
	m.LastTrend.WithLabelValues(symbol).Set(value)
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[INFO] metrics listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[ERROR] metrics server: %v", err)
	}
}
