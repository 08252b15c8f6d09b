package learningpath

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func twoStagePath() (Path, Module, Module, Module) {
	a := Module{ID: uuid.New(), Type: ModuleCourse}
	b := Module{ID: uuid.New(), Type: ModuleProject, IsOptional: true}
	c := Module{ID: uuid.New(), Type: ModuleCourse}
	return Path{
		ID: uuid.New(),
		Stages: []Stage{
			{Order: 1, Modules: []Module{a, b}},
			{Order: 2, Modules: []Module{c}},
		},
	}, a, b, c
}

func TestEnrollment_RequiredModuleAdvancesStage(t *testing.T) {
	p, a, _, _ := twoStagePath()
	e := NewEnrollment(uuid.New(), p, at)

	require.NoError(t, e.CompleteModule(p, a.ID, at))
	assert.Equal(t, 1, e.CurrentStage)
	assert.Equal(t, StatusActive, e.Status)
}

func TestEnrollment_OptionalModuleAloneDoesNotAdvance(t *testing.T) {
	p, _, b, _ := twoStagePath()
	e := NewEnrollment(uuid.New(), p, at)

	require.NoError(t, e.CompleteModule(p, b.ID, at))
	assert.Equal(t, 0, e.CurrentStage)
	assert.True(t, e.IsModuleCompleted(b.ID))
}

func TestEnrollment_NothingCompletedStaysAtFirstStage(t *testing.T) {
	p, _, _, _ := twoStagePath()
	e := NewEnrollment(uuid.New(), p, at)
	assert.Equal(t, 0, e.CurrentStage)
	assert.Equal(t, StatusActive, e.Status)
}

func TestEnrollment_FinalStageCompletes(t *testing.T) {
	p, a, _, c := twoStagePath()
	e := NewEnrollment(uuid.New(), p, at)

	require.NoError(t, e.CompleteModule(p, a.ID, at))
	require.NoError(t, e.CompleteModule(p, c.ID, at))
	assert.Equal(t, 1, e.CurrentStage)
	assert.Equal(t, StatusCompleted, e.Status)

	err := e.CompleteModule(p, c.ID, at)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestEnrollment_CompletingTwiceIsIdempotent(t *testing.T) {
	p, _, b, _ := twoStagePath()
	e := NewEnrollment(uuid.New(), p, at)

	require.NoError(t, e.CompleteModule(p, b.ID, at))
	require.NoError(t, e.CompleteModule(p, b.ID, at))
	assert.Len(t, e.CompletedModules, 1)
}

func TestEnrollment_PauseResumeKeepsProgress(t *testing.T) {
	p, a, b, _ := twoStagePath()
	e := NewEnrollment(uuid.New(), p, at)
	require.NoError(t, e.CompleteModule(p, b.ID, at))
	require.NoError(t, e.CompleteModule(p, a.ID, at))

	require.NoError(t, e.Pause(at))
	assert.Equal(t, StatusPaused, e.Status)
	assert.ErrorIs(t, e.Pause(at), ErrInvalidTransition)
	assert.ErrorIs(t, e.CompleteModule(p, a.ID, at), ErrInvalidTransition)

	require.NoError(t, e.Resume(at))
	assert.Equal(t, StatusActive, e.Status)
	assert.Equal(t, 1, e.CurrentStage)
	assert.Len(t, e.CompletedModules, 2)
	assert.ErrorIs(t, e.Resume(at), ErrInvalidTransition)
}

func TestEnrollment_UnknownModule(t *testing.T) {
	p, _, _, _ := twoStagePath()
	e := NewEnrollment(uuid.New(), p, at)
	assert.ErrorIs(t, e.CompleteModule(p, uuid.New(), at), ErrUnknownModule)
}

func TestEnrollment_EmptyPathStartsCompleted(t *testing.T) {
	e := NewEnrollment(uuid.New(), Path{ID: uuid.New()}, at)
	assert.Equal(t, StatusCompleted, e.Status)
}
