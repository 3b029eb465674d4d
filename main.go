package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// Entry point for the gatepoint badge scanner
func main() {
	cfgMgr := NewConfigManager(configPath())
	if err := cfgMgr.Load(); err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	cfg := cfgMgr.Get()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("scanner exited", "error", err)
		os.Exit(1)
	}
}

// run connects, opens the peripherals and scans until ctx is cancelled.
func run(ctx context.Context, cfg Config, logger *slog.Logger) error {
	if NewNetworkConnector(cfg.Network, logger).Connect(ctx) == nil {
		return nil
	}
	hw, err := openHardware(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialisation error: %w", err)
	}
	defer hw.Close()

	scanner := NewScanner(
		hw.Reader,
		NewVerdictClient(cfg.ServerURL, cfg.RequestTimeout()),
		NewIndicator(hw.Success, hw.Failure, cfg.Indicators.ActiveLow, logger),
		initRecorders(cfg, logger),
		logger,
	)
	logger.Info("waiting for badges", "server", cfg.ServerURL)
	scanner.Run(ctx)
	return nil
}
