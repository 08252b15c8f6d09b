package usecase

import (
	"context"
	"testing"

	"skillpath/internal/domain/gap"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGapUsecase_AnalyzeResolvesAliases(t *testing.T) {
	f := newFixture(t)
	uc := NewGapUsecase(f.store, f.store, f.engine)

	report, err := uc.Analyze(context.Background(), f.profile.ID, f.job.ID)
	require.NoError(t, err)

	require.Len(t, report.Matching, 1)
	assert.Equal(t, "JS", report.Matching[0].Requirement.SkillName)
	require.Len(t, report.PartialMatch, 1)
	assert.Equal(t, "Golang", report.PartialMatch[0].Requirement.SkillName)
	require.Len(t, report.Missing, 1)
	assert.Equal(t, "Kubernetes", report.Missing[0].Requirement.SkillName)

	assert.GreaterOrEqual(t, report.OverallMatchScore, 0)
	assert.LessOrEqual(t, report.OverallMatchScore, 100)
	// a missing preferred skill is not recommended; the partial must-have is
	require.Len(t, report.Recommendations, 1)
	assert.Equal(t, gap.PriorityImprovement, report.Recommendations[0].Priority)
	assert.Equal(t, "Golang", report.Recommendations[0].SkillName)
}

func TestGapUsecase_Errors(t *testing.T) {
	f := newFixture(t)
	uc := NewGapUsecase(f.store, f.store, f.engine)
	ctx := context.Background()

	_, err := uc.Analyze(ctx, uuid.Nil, f.job.ID)
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = uc.Analyze(ctx, uuid.New(), f.job.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = uc.Analyze(ctx, f.profile.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
