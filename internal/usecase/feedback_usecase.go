package usecase

import (
	"context"
	"time"

	"skillpath/internal/domain/feedback"
	"skillpath/internal/repository"

	"github.com/google/uuid"
)

type SubmitFeedbackInput struct {
	Type             feedback.Type
	SubjectProfileID uuid.UUID
	RelatedEntityID  uuid.UUID
	Payload          feedback.Payload
}

type FeedbackUsecase interface {
	Submit(ctx context.Context, in SubmitFeedbackInput) (feedback.Record, error)
}

type Feedback struct {
	feedback repository.FeedbackRepository
	profiles repository.ProfileRepository
	catalog  repository.CatalogRepository
	now      func() time.Time
}

func NewFeedbackUsecase(fb repository.FeedbackRepository, profiles repository.ProfileRepository, catalog repository.CatalogRepository) *Feedback {
	return &Feedback{feedback: fb, profiles: profiles, catalog: catalog, now: time.Now}
}

// Submit persists one unprocessed outcome record. Nothing is stored when the payload
// is malformed or the referenced profile, course or job does not exist.
func (u *Feedback) Submit(ctx context.Context, in SubmitFeedbackInput) (feedback.Record, error) {
	rec, err := feedback.NewRecord(in.Type, in.SubjectProfileID, in.RelatedEntityID, in.Payload, u.now())
	if err != nil {
		return feedback.Record{}, translate(err)
	}

	if _, err := u.profiles.Get(ctx, rec.SubjectProfileID); err != nil {
		return feedback.Record{}, translate(err)
	}
	switch rec.Type {
	case feedback.TypeCourseEffectiveness:
		if _, err := u.catalog.FindCourse(ctx, rec.RelatedEntityID); err != nil {
			return feedback.Record{}, translate(err)
		}
	case feedback.TypePlacementOutcome:
		if _, err := u.catalog.FindJob(ctx, rec.RelatedEntityID); err != nil {
			return feedback.Record{}, translate(err)
		}
	}

	if err := u.feedback.Create(ctx, rec); err != nil {
		return feedback.Record{}, translate(err)
	}
	return rec, nil
}
