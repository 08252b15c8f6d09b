package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"skillpath/internal/app"
	"skillpath/internal/config"
	"skillpath/internal/pipeline"
	"skillpath/internal/pkg/logger"

	"go.uber.org/zap"
)

// recalibrate runs a single recalibration batch and exits. It takes the same run lock
// as the server's periodic pipeline.
func main() {
	timeout := flag.Duration("timeout", 2*time.Minute, "maximum duration of the run")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c, err := app.NewContainer(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to init container", zap.Error(err))
	}
	defer func() {
		_ = c.Close()
	}()

	in, err := c.RecalibrationPipeline.RunOnce(ctx)
	if errors.Is(err, pipeline.ErrRunInProgress) {
		lg.Info("another instance is recalibrating, nothing to do")
		return
	}
	if err != nil {
		_ = c.Close()
		lg.Fatal("recalibration failed", zap.Error(err))
	}
	lg.Info("recalibration finished",
		zap.Int("fetched", in.Fetched),
		zap.Int("processed", in.Processed),
		zap.Int("committed", len(in.Committed)),
		zap.Int("deferred", len(in.Deferred)),
	)
}
