package usecase

import (
	"context"
	"errors"
	"testing"

	"skillpath/internal/domain/feedback"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }
func bp(v bool) *bool         { return &v }

func TestFeedbackUsecase_Submit(t *testing.T) {
	f := newFixture(t)
	uc := NewFeedbackUsecase(f.store, f.store, f.store)
	ctx := context.Background()

	rec, err := uc.Submit(ctx, SubmitFeedbackInput{
		Type:             feedback.TypeCourseEffectiveness,
		SubjectProfileID: f.profile.ID,
		RelatedEntityID:  f.goIntro.ID,
		Payload:          feedback.Payload{SkillImprovement: fptr(25), HelpedInPlacement: bp(true)},
	})
	require.NoError(t, err)
	assert.False(t, rec.IsProcessed())

	pending, err := f.store.FetchUnprocessed(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, rec.ID, pending[0].ID)
}

func TestFeedbackUsecase_SubmitRejects(t *testing.T) {
	f := newFixture(t)
	uc := NewFeedbackUsecase(f.store, f.store, f.store)
	ctx := context.Background()

	cases := []struct {
		name string
		in   SubmitFeedbackInput
		want error
	}{
		{"missing placed", SubmitFeedbackInput{Type: feedback.TypePlacementOutcome, SubjectProfileID: f.profile.ID, RelatedEntityID: f.job.ID}, ErrMalformedInput},
		{"unknown profile", SubmitFeedbackInput{Type: feedback.TypePlacementOutcome, SubjectProfileID: uuid.New(), RelatedEntityID: f.job.ID, Payload: feedback.Payload{Placed: bp(true)}}, ErrNotFound},
		{"unknown job", SubmitFeedbackInput{Type: feedback.TypePlacementOutcome, SubjectProfileID: f.profile.ID, RelatedEntityID: uuid.New(), Payload: feedback.Payload{Placed: bp(true)}}, ErrNotFound},
		{"unknown course", SubmitFeedbackInput{Type: feedback.TypeCourseEffectiveness, SubjectProfileID: f.profile.ID, RelatedEntityID: uuid.New(), Payload: feedback.Payload{SkillImprovement: fptr(1), HelpedInPlacement: bp(false)}}, ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Submit(ctx, tc.in)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}

	pending, err := f.store.FetchUnprocessed(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
