package main

import (
	"context"
	"fmt"
	"log"

	"TrendSentinel/internal/collector"
	"TrendSentinel/internal/config"
	"TrendSentinel/internal/lock"
	"TrendSentinel/internal/metrics"
	"TrendSentinel/internal/notifier"
	"TrendSentinel/internal/recorder"
	"TrendSentinel/internal/scheduler"
	"TrendSentinel/internal/strategy"

	"github.com/prometheus/client_golang/prometheus"
)

// components are the outward-facing pieces built only after the run lock is held.
type components struct {
	fetcher    collector.Fetcher
	store      recorder.HistoryStore
	dispatcher collector.Dispatcher
	poller     scheduler.Poller
	reportLog  collector.ReportLog
}

type componentFactory func(cfg *config.Config) (*components, error)

// run holds the run lock for its whole lifetime and blocks until ctx is cancelled.
// main wraps it so the deferred release runs before the process exits.
func run(ctx context.Context, cfg *config.Config, build componentFactory) error {
	lk, err := lock.Acquire(cfg.Storage.LockFile)
	if err != nil {
		return err
	}
	defer lk.Release()

	comp, err := build(cfg)
	if err != nil {
		return fmt.Errorf("init components: %w", err)
	}
	defer comp.store.Close()
	log.Printf("[INFO] data source: %s", comp.fetcher.Name())

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	if cfg.Metrics.Addr != "" {
		go m.Serve(ctx, cfg.Metrics.Addr)
	}

	col := collector.NewCollector(collector.Config{
		Symbols:      cfg.DataSource.Symbols,
		HistoryDepth: cfg.Indicators.HistoryDepth,
		Params: strategy.Params{
			MAPeriod:         cfg.Indicators.MAPeriod,
			OscillatorPeriod: cfg.Indicators.OscillatorPeriod,
		},
		SendRetries: cfg.Telegram.SendRetries,
	}, comp.fetcher, comp.store, comp.dispatcher, comp.reportLog, m)

	sched := scheduler.NewScheduler(col, comp.poller, m, scheduler.Options{
		Interval:      cfg.Schedule.Interval,
		PollInterval:  cfg.Telegram.PollInterval,
		StatusCommand: cfg.Telegram.StatusCommand,
	})
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	log.Println("[INFO] TrendSentinel is running. Press Ctrl+C to stop.")
	<-ctx.Done()

	log.Println("[INFO] shutdown signal received, stopping...")
	sched.Stop()
	return nil
}

func buildComponents(cfg *config.Config) (*components, error) {
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "binance":
		fetcher = collector.NewBinanceFetcher(cfg.DataSource.APIKey, cfg.DataSource.SecretKey, cfg.DataSource.BaseURL, cfg.Proxy)
	case "yahoo":
		yf := collector.NewYahooFetcher(cfg.Proxy)
		if cfg.DataSource.BaseURL != "" {
			yf.BaseURL = cfg.DataSource.BaseURL
		}
		fetcher = yf
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.DataSource.Provider)
	}

	store := recorder.OpenWithFallback(recorder.Options{
		Driver:        cfg.Storage.Driver,
		CSVPath:       cfg.Storage.CSVPath,
		SQLitePath:    cfg.Storage.SQLitePath,
		RedisAddr:     cfg.Storage.RedisAddr,
		RedisPassword: cfg.Storage.RedisPassword,
		RedisDB:       cfg.Storage.RedisDB,
	})

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	return &components{
		fetcher:    fetcher,
		store:      store,
		dispatcher: tn,
		poller:     tn,
		reportLog:  recorder.NewTextLog(cfg.Storage.ReportLog),
	}, nil
}
