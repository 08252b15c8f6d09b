package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skillpath/internal/domain/effectiveness"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Folder commits one entity aggregate. Implementations must mark the aggregate's feedback
// records processed and fold the samples in the same atomic step, and must leave both
// untouched when fewer than minSample records can be claimed.
type Folder interface {
	Fold(ctx context.Context, agg effectiveness.Aggregate, minSample int) (effectiveness.FoldOutcome, error)
}

type Marker interface {
	MarkProcessed(ctx context.Context, ids []uuid.UUID) (int, error)
}

type SkillVerifier interface {
	VerifySkills(ctx context.Context, profileID uuid.UUID, skills []string) error
}

type EntityOutcome struct {
	Kind     effectiveness.Kind
	EntityID uuid.UUID
	Samples  int
	Outcome  effectiveness.FoldOutcome
}

type Insights struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time

	Fetched   int
	Processed int
	Skipped   int

	Committed []EntityOutcome
	Deferred  []EntityOutcome

	RecommendationSamples  int
	RecommendationAccuracy float64
	AverageRating          float64
}

type Recalibrator struct {
	folder    Folder
	marker    Marker
	verifier  SkillVerifier
	minSample int
	log       *zap.Logger
	now       func() time.Time
}

func NewRecalibrator(folder Folder, marker Marker, verifier SkillVerifier, minSample int, logger *zap.Logger) *Recalibrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if minSample < 1 {
		minSample = 1
	}
	return &Recalibrator{
		folder:    folder,
		marker:    marker,
		verifier:  verifier,
		minSample: minSample,
		log:       logger,
		now:       time.Now,
	}
}

// Recalibrate folds one batch of unprocessed feedback. Entities whose batch sample is
// below the minimum are deferred and their records stay unprocessed. Cancellation is
// honoured between entity commits only.
func (r *Recalibrator) Recalibrate(ctx context.Context, batch []Record) (Insights, error) {
	in := Insights{RunID: uuid.New(), StartedAt: r.now().UTC(), Fetched: len(batch)}

	aggs, byID, tail, skipped := r.partition(batch)
	in.Skipped = skipped

	var errs []error
	for _, agg := range aggs {
		if err := ctx.Err(); err != nil {
			in.FinishedAt = r.now().UTC()
			return in, err
		}

		outcome, err := r.folder.Fold(ctx, agg, r.minSample)
		if err != nil {
			r.log.Error("effectiveness fold failed",
				zap.String("kind", string(agg.Kind)),
				zap.String("entity_id", agg.EntityID.String()),
				zap.Int("samples", agg.Count()),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("fold %s %s: %w", agg.Kind, agg.EntityID, err))
			continue
		}

		eo := EntityOutcome{Kind: agg.Kind, EntityID: agg.EntityID, Samples: agg.Count(), Outcome: outcome}
		if outcome != effectiveness.FoldCommitted {
			r.log.Info("effectiveness fold deferred",
				zap.String("kind", string(agg.Kind)),
				zap.String("entity_id", agg.EntityID.String()),
				zap.Int("samples", agg.Count()),
				zap.Int("min_sample", r.minSample),
			)
			in.Deferred = append(in.Deferred, eo)
			continue
		}

		in.Committed = append(in.Committed, eo)
		in.Processed += agg.Count()
		r.verifyPlacements(ctx, agg, byID)
	}

	r.summarizeRecommendations(&in, tail, byID)

	if len(tail) > 0 {
		if err := ctx.Err(); err != nil {
			in.FinishedAt = r.now().UTC()
			return in, err
		}
		n, err := r.marker.MarkProcessed(ctx, tail)
		if err != nil {
			errs = append(errs, fmt.Errorf("mark processed: %w", err))
		} else {
			in.Processed += n
		}
	}

	in.FinishedAt = r.now().UTC()
	return in, errors.Join(errs...)
}

// partition groups effectiveness feedback per entity in first-seen order. The tail holds
// ids that are marked processed without an entity fold.
func (r *Recalibrator) partition(batch []Record) ([]effectiveness.Aggregate, map[uuid.UUID]Record, []uuid.UUID, int) {
	type key struct {
		kind effectiveness.Kind
		id   uuid.UUID
	}
	index := map[key]int{}
	aggs := make([]effectiveness.Aggregate, 0)
	byID := make(map[uuid.UUID]Record, len(batch))
	tail := make([]uuid.UUID, 0)
	skipped := 0

	add := func(k key, s effectiveness.Sample) {
		i, ok := index[k]
		if !ok {
			i = len(aggs)
			index[k] = i
			aggs = append(aggs, effectiveness.Aggregate{Kind: k.kind, EntityID: k.id})
		}
		aggs[i].Samples = append(aggs[i].Samples, s)
	}

	for _, rec := range batch {
		byID[rec.ID] = rec
		if err := Validate(rec.Type, rec.SubjectProfileID, rec.RelatedEntityID, rec.Payload); err != nil {
			r.log.Warn("skipping malformed stored feedback",
				zap.String("feedback_id", rec.ID.String()),
				zap.Error(err),
			)
			tail = append(tail, rec.ID)
			skipped++
			continue
		}

		switch rec.Type {
		case TypeCourseEffectiveness:
			add(key{effectiveness.KindCourse, rec.RelatedEntityID}, effectiveness.Sample{
				FeedbackID:       rec.ID,
				SkillImprovement: *rec.Payload.SkillImprovement,
				HasImprovement:   true,
				Placed:           *rec.Payload.HelpedInPlacement,
			})
		case TypePlacementOutcome:
			add(key{effectiveness.KindJob, rec.RelatedEntityID}, effectiveness.Sample{
				FeedbackID: rec.ID,
				Placed:     *rec.Payload.Placed,
			})
		case TypeRecommendationAccuracy:
			tail = append(tail, rec.ID)
		}
	}
	return aggs, byID, tail, skipped
}

func (r *Recalibrator) verifyPlacements(ctx context.Context, agg effectiveness.Aggregate, byID map[uuid.UUID]Record) {
	if r.verifier == nil || agg.Kind != effectiveness.KindJob {
		return
	}
	for _, s := range agg.Samples {
		rec, ok := byID[s.FeedbackID]
		if !ok || !s.Placed || len(rec.Payload.VerifiedSkills) == 0 {
			continue
		}
		if err := r.verifier.VerifySkills(ctx, rec.SubjectProfileID, rec.Payload.VerifiedSkills); err != nil {
			r.log.Warn("skill verification failed",
				zap.String("profile_id", rec.SubjectProfileID.String()),
				zap.Error(err),
			)
		}
	}
}

func (r *Recalibrator) summarizeRecommendations(in *Insights, tail []uuid.UUID, byID map[uuid.UUID]Record) {
	accurate := 0
	rated := 0
	var ratingSum float64
	for _, id := range tail {
		rec := byID[id]
		if rec.Type != TypeRecommendationAccuracy || rec.Payload.Accurate == nil {
			continue
		}
		in.RecommendationSamples++
		if *rec.Payload.Accurate {
			accurate++
		}
		if rec.Payload.Rating != nil {
			rated++
			ratingSum += *rec.Payload.Rating
		}
	}
	if in.RecommendationSamples > 0 {
		in.RecommendationAccuracy = float64(accurate) / float64(in.RecommendationSamples) * 100
	}
	if rated > 0 {
		in.AverageRating = ratingSum / float64(rated)
	}
}
