package repository

import (
	"context"
	"errors"
	"time"

	"skillpath/internal/domain/catalog"
	"skillpath/internal/domain/effectiveness"
	"skillpath/internal/domain/feedback"
	"skillpath/internal/domain/learningpath"
	"skillpath/internal/domain/proficiency"
	"skillpath/internal/domain/profile"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrVersionConflict   = errors.New("version conflict")
	ErrAttemptInProgress = errors.New("assessment attempt already in progress")
)

type ProfileRepository interface {
	Get(ctx context.Context, id uuid.UUID) (profile.SkillProfile, error)
	Save(ctx context.Context, p profile.SkillProfile) error
	UpsertSkill(ctx context.Context, profileID uuid.UUID, s profile.Skill) error
	VerifySkills(ctx context.Context, profileID uuid.UUID, names []string) error
}

type CatalogRepository interface {
	FindRequirement(ctx context.Context, targetID uuid.UUID) (catalog.RequirementSet, error)
	FindCourses(ctx context.Context, filter catalog.CourseFilter) ([]catalog.Course, error)
	FindCourse(ctx context.Context, id uuid.UUID) (catalog.Course, error)
	FindJob(ctx context.Context, id uuid.UUID) (catalog.Job, error)
	ListJobs(ctx context.Context, limit, offset int) ([]catalog.Job, error)
}

// EffectivenessRepository owns the effectiveness counters. Fold claims the aggregate's
// unprocessed feedback, and when at least minSample records were claimed it folds exactly
// those samples and marks them processed in one transaction. Otherwise nothing changes.
type EffectivenessRepository interface {
	Fold(ctx context.Context, agg effectiveness.Aggregate, minSample int) (effectiveness.FoldOutcome, error)
	Get(ctx context.Context, kind effectiveness.Kind, entityID uuid.UUID) (effectiveness.Record, error)
}

type FeedbackRepository interface {
	Create(ctx context.Context, r feedback.Record) error
	FetchUnprocessed(ctx context.Context, limit int) ([]feedback.Record, error)
	// FetchReady returns up to limit unprocessed records that a run can act on: records
	// without an entity fold, and the records of every entity that has at least minSample
	// unprocessed records. An entity's records are returned next to each other, ordered by
	// the entity's oldest record, so they are only split at the end of the batch.
	FetchReady(ctx context.Context, limit, minSample int) ([]feedback.Record, error)
	// MarkProcessed flips only records that are still unprocessed and reports how many flipped.
	MarkProcessed(ctx context.Context, ids []uuid.UUID) (int, error)
}

type EnrollmentRepository interface {
	SavePath(ctx context.Context, p learningpath.Path) error
	GetPath(ctx context.Context, id uuid.UUID) (learningpath.Path, error)
	Get(ctx context.Context, profileID, pathID uuid.UUID) (learningpath.Enrollment, error)
	// Save inserts when e.Version is 0 and otherwise updates only if the stored version
	// equals e.Version. The returned enrollment carries the new version.
	Save(ctx context.Context, e learningpath.Enrollment) (learningpath.Enrollment, error)
}

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in-progress"
	AttemptPassed     AttemptStatus = "passed"
	AttemptFailed     AttemptStatus = "failed"
)

type AssessmentAttempt struct {
	ID           uuid.UUID
	ProfileID    uuid.UUID
	AssessmentID uuid.UUID
	SkillName    string
	Level        proficiency.Level
	Status       AttemptStatus
	Score        float64
	StartedAt    time.Time
	FinishedAt   *time.Time
}

type AssessmentRepository interface {
	StartAttempt(ctx context.Context, a AssessmentAttempt) error
	FinishAttempt(ctx context.Context, id uuid.UUID, status AttemptStatus, score float64, at time.Time) (AssessmentAttempt, error)
	CountAttempts(ctx context.Context, profileID, assessmentID uuid.UUID) (int, error)
}
