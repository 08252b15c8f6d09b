package usecase

import (
	"context"
	"testing"

	"skillpath/internal/domain/catalog"
	"skillpath/internal/domain/learningpath"
	"skillpath/internal/domain/proficiency"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileUsecase_CompleteCourseRaisesLevels(t *testing.T) {
	f := newFixture(t)
	course := catalog.Course{ID: uuid.New(), Title: "Polyglot", Level: proficiency.Intermediate, SkillsTaught: []string{"Go", "JavaScript", "Terraform"}}
	f.store.PutCourse(course)
	uc := NewProfileUsecase(f.store, f.store)

	p, err := uc.CompleteCourse(context.Background(), f.profile.ID, course.ID)
	require.NoError(t, err)

	g, ok := p.Find("go")
	require.True(t, ok)
	assert.Equal(t, proficiency.Intermediate, g.Level)

	js, ok := p.Find("javascript")
	require.True(t, ok)
	assert.Equal(t, proficiency.Advanced, js.Level, "higher level is kept")

	tf, ok := p.Find("terraform")
	require.True(t, ok)
	assert.Equal(t, proficiency.Intermediate, tf.Level)
	assert.False(t, tf.Verified)
}

func TestProfileUsecase_CompleteCourseNotFound(t *testing.T) {
	f := newFixture(t)
	uc := NewProfileUsecase(f.store, f.store)

	_, err := uc.CompleteCourse(context.Background(), f.profile.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = uc.CompleteCourse(context.Background(), uuid.New(), f.goIntro.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssessmentUsecase_PassVerifiesAndRaises(t *testing.T) {
	f := newFixture(t)
	uc := NewAssessmentUsecase(f.store, f.store, f.engine)
	ctx := context.Background()
	assessment := uuid.New()

	a, err := uc.Start(ctx, StartAssessmentInput{ProfileID: f.profile.ID, AssessmentID: assessment, SkillName: "Go", Level: proficiency.Advanced})
	require.NoError(t, err)

	_, err = uc.Start(ctx, StartAssessmentInput{ProfileID: f.profile.ID, AssessmentID: assessment, SkillName: "Go", Level: proficiency.Advanced})
	assert.ErrorIs(t, err, ErrConflict)

	res, err := uc.Submit(ctx, a.ID, 95)
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.Equal(t, []learningpath.Action{learningpath.ActionAllowSkip}, res.Actions)

	p, err := f.store.Get(ctx, f.profile.ID)
	require.NoError(t, err)
	g, ok := p.Find("Go")
	require.True(t, ok)
	assert.Equal(t, proficiency.Advanced, g.Level)
	assert.True(t, g.Verified)
	assert.Equal(t, 95.0, g.Score)

	_, err = uc.Submit(ctx, a.ID, 95)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssessmentUsecase_RepeatedFailuresEscalate(t *testing.T) {
	f := newFixture(t)
	uc := NewAssessmentUsecase(f.store, f.store, f.engine)
	ctx := context.Background()
	assessment := uuid.New()

	var res AssessmentResult
	for i := 0; i < 4; i++ {
		a, err := uc.Start(ctx, StartAssessmentInput{ProfileID: f.profile.ID, AssessmentID: assessment, SkillName: "Kubernetes", Level: proficiency.Intermediate})
		require.NoError(t, err)
		res, err = uc.Submit(ctx, a.ID, 40)
		require.NoError(t, err)
		assert.False(t, res.Passed)
	}
	assert.ElementsMatch(t, []learningpath.Action{learningpath.ActionRemediate, learningpath.ActionMentor}, res.Actions)

	p, err := f.store.Get(ctx, f.profile.ID)
	require.NoError(t, err)
	_, ok := p.Find("Kubernetes")
	assert.False(t, ok)
}

func TestAssessmentUsecase_InvalidInput(t *testing.T) {
	f := newFixture(t)
	uc := NewAssessmentUsecase(f.store, f.store, f.engine)

	_, err := uc.Start(context.Background(), StartAssessmentInput{ProfileID: f.profile.ID, AssessmentID: uuid.New()})
	assert.ErrorIs(t, err, ErrMalformedInput)
	_, err = uc.Submit(context.Background(), uuid.New(), 101)
	assert.ErrorIs(t, err, ErrMalformedInput)
}
