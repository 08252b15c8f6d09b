package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skillpath/internal/domain/feedback"
	"skillpath/internal/metrics"
	"skillpath/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RecalibrationLockKey = "locks:recalibration"

var ErrRunInProgress = fmt.Errorf("%w: recalibration already running", usecase.ErrConflict)

// Locker is a cross-instance mutex keyed by name. Unlock only releases a lock still held
// by token.
type Locker interface {
	TryLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key, token string) error
}

type RecalibrationPipeline struct {
	recalibration usecase.RecalibrationUsecase
	lock          Locker
	interval      time.Duration
	lockTTL       time.Duration
	log           *zap.Logger
}

func NewRecalibrationPipeline(recalibration usecase.RecalibrationUsecase, lock Locker, interval time.Duration, logger *zap.Logger) *RecalibrationPipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	lockTTL := interval
	if lockTTL < time.Minute {
		lockTTL = time.Minute
	}
	return &RecalibrationPipeline{
		recalibration: recalibration,
		lock:          lock,
		interval:      interval,
		lockTTL:       lockTTL,
		log:           logger.With(zap.String("pipeline", "recalibration")),
	}
}

// RunOnce performs one recalibration while holding the run lock. It returns
// ErrRunInProgress when another run holds the lock.
func (p *RecalibrationPipeline) RunOnce(ctx context.Context) (feedback.Insights, error) {
	token := uuid.NewString()
	if p.lock != nil {
		ok, err := p.lock.TryLock(ctx, RecalibrationLockKey, token, p.lockTTL)
		if err != nil {
			p.log.Warn("lock unavailable", zap.String("status", "error"), zap.Error(err))
			return feedback.Insights{}, fmt.Errorf("acquire recalibration lock: %w", err)
		}
		if !ok {
			p.log.Info("another run holds the lock", zap.String("status", "skipped"))
			return feedback.Insights{}, ErrRunInProgress
		}
		defer func() {
			if err := p.lock.Unlock(context.Background(), RecalibrationLockKey, token); err != nil {
				p.log.Warn("release lock failed", zap.Error(err))
			}
		}()
	}

	p.log.Info("run started", zap.String("status", "started"))
	in, err := p.recalibration.Run(ctx)
	metrics.ObserveRecalibration(in, err)

	fields := []zap.Field{
		zap.String("run_id", in.RunID.String()),
		zap.Int("fetched", in.Fetched),
		zap.Int("processed", in.Processed),
		zap.Int("skipped", in.Skipped),
		zap.Int("committed", len(in.Committed)),
		zap.Int("deferred", len(in.Deferred)),
		zap.Duration("duration", in.FinishedAt.Sub(in.StartedAt)),
	}
	if err != nil {
		p.log.Error("run failed", append(fields, zap.String("status", "error"), zap.Error(err))...)
		return in, err
	}
	p.log.Info("run finished", append(fields, zap.String("status", "finished"))...)
	return in, nil
}

// Start runs recalibration every interval until ctx is cancelled. Failed runs are logged
// and retried on the next tick.
func (p *RecalibrationPipeline) Start(ctx context.Context) {
	t := time.NewTicker(p.interval)
	defer t.Stop()

	p.log.Info("scheduler started", zap.Duration("interval", p.interval))
	for {
		select {
		case <-ctx.Done():
			p.log.Info("scheduler stopped", zap.String("status", "stopped"))
			return
		case <-t.C:
			if _, err := p.RunOnce(ctx); err != nil && !errors.Is(err, ErrRunInProgress) && ctx.Err() == nil {
				p.log.Warn("scheduled run failed", zap.Error(err))
			}
		}
	}
}
