package usecase

import (
	"context"
	"sync"

	"skillpath/internal/domain/feedback"
	"skillpath/internal/repository"

	"go.uber.org/zap"
)

type RecalibrationUsecase interface {
	Run(ctx context.Context) (feedback.Insights, error)
	Last() (feedback.Insights, bool)
}

type Recalibration struct {
	feedback     repository.FeedbackRepository
	recalibrator *feedback.Recalibrator
	batchLimit   int
	minSample    int

	mu      sync.RWMutex
	last    feedback.Insights
	hasLast bool
}

func NewRecalibrationUsecase(
	fb repository.FeedbackRepository,
	eff repository.EffectivenessRepository,
	profiles repository.ProfileRepository,
	engine Engine,
	logger *zap.Logger,
) *Recalibration {
	rc := engine.Policy.Recalibration
	return &Recalibration{
		feedback:     fb,
		recalibrator: feedback.NewRecalibrator(eff, fb, profiles, rc.MinSampleSize, logger),
		batchLimit:   rc.BatchLimit,
		minSample:    rc.MinSampleSize,
	}
}

// Run folds one batch of the oldest ready feedback. Entities still below the minimum sample
// are left waiting and never take batch slots. Partial failures still record the insights
// of what was committed.
func (u *Recalibration) Run(ctx context.Context) (feedback.Insights, error) {
	batch, err := u.feedback.FetchReady(ctx, u.batchLimit, u.minSample)
	if err != nil {
		return feedback.Insights{}, translate(err)
	}

	in, err := u.recalibrator.Recalibrate(ctx, batch)

	u.mu.Lock()
	u.last = in
	u.hasLast = true
	u.mu.Unlock()

	if err != nil {
		if ctx.Err() != nil {
			return in, ctx.Err()
		}
		return in, translate(err)
	}
	return in, nil
}

func (u *Recalibration) Last() (feedback.Insights, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.last, u.hasLast
}
