package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"TrendSentinel/internal/config"
	"TrendSentinel/internal/lock"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] TrendSentinel starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, buildComponents)
	stop()

	switch {
	case errors.Is(err, lock.ErrAlreadyRunning):
		log.Printf("[ERROR] %v", err)
		os.Exit(2)
	case err != nil:
		log.Printf("[FATAL] %v", err)
		os.Exit(1)
	}
	log.Println("[INFO] TrendSentinel stopped")
}
