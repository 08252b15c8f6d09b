package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skillpath/internal/domain/catalog"
	"skillpath/internal/domain/learningpath"
	"skillpath/internal/domain/profile"
	"skillpath/internal/repository"

	"github.com/google/uuid"
)

type LearningPathUsecase interface {
	Generate(ctx context.Context, profileID, targetID uuid.UUID) (learningpath.Path, error)
	GenerateTemplate(ctx context.Context, targetID uuid.UUID) (learningpath.Path, error)
	Enroll(ctx context.Context, profileID, pathID uuid.UUID) (learningpath.Enrollment, error)
	CompleteModule(ctx context.Context, profileID, pathID, moduleID uuid.UUID) (learningpath.Enrollment, error)
	Pause(ctx context.Context, profileID, pathID uuid.UUID) (learningpath.Enrollment, error)
	Resume(ctx context.Context, profileID, pathID uuid.UUID) (learningpath.Enrollment, error)
}

type LearningPath struct {
	profiles    repository.ProfileRepository
	catalog     repository.CatalogRepository
	enrollments repository.EnrollmentRepository
	engine      Engine
	maxRetries  int
	now         func() time.Time
}

func NewLearningPathUsecase(
	profiles repository.ProfileRepository,
	catalog repository.CatalogRepository,
	enrollments repository.EnrollmentRepository,
	engine Engine,
) *LearningPath {
	return &LearningPath{
		profiles:    profiles,
		catalog:     catalog,
		enrollments: enrollments,
		engine:      engine,
		maxRetries:  3,
		now:         time.Now,
	}
}

func (u *LearningPath) Generate(ctx context.Context, profileID, targetID uuid.UUID) (learningpath.Path, error) {
	if profileID == uuid.Nil || targetID == uuid.Nil {
		return learningpath.Path{}, ErrMalformedInput
	}
	p, err := u.profiles.Get(ctx, profileID)
	if err != nil {
		return learningpath.Path{}, translate(err)
	}
	path, err := u.build(ctx, p, targetID)
	if err != nil {
		return learningpath.Path{}, err
	}
	path.OwnerProfileID = profileID
	if err := u.enrollments.SavePath(ctx, path); err != nil {
		return learningpath.Path{}, translate(err)
	}
	return path, nil
}

// GenerateTemplate builds a shared path for a learner with no skills yet.
func (u *LearningPath) GenerateTemplate(ctx context.Context, targetID uuid.UUID) (learningpath.Path, error) {
	if targetID == uuid.Nil {
		return learningpath.Path{}, ErrMalformedInput
	}
	path, err := u.build(ctx, profile.SkillProfile{}, targetID)
	if err != nil {
		return learningpath.Path{}, err
	}
	if err := u.enrollments.SavePath(ctx, path); err != nil {
		return learningpath.Path{}, translate(err)
	}
	return path, nil
}

func (u *LearningPath) build(ctx context.Context, p profile.SkillProfile, targetID uuid.UUID) (learningpath.Path, error) {
	reqs, err := u.catalog.FindRequirement(ctx, targetID)
	if err != nil {
		return learningpath.Path{}, translate(err)
	}
	report := u.engine.Analyzer.Analyze(p, reqs)

	// the builder decides overlap with the alias rule, so it sees the whole catalog
	var courses []catalog.Course
	if len(report.PartialMatch)+len(report.Missing) > 0 {
		courses, err = u.catalog.FindCourses(ctx, catalog.CourseFilter{})
		if err != nil {
			return learningpath.Path{}, translate(err)
		}
	}

	path := u.engine.Builder.Build(report, courses)
	path.TargetID = targetID
	return path, nil
}

func (u *LearningPath) Enroll(ctx context.Context, profileID, pathID uuid.UUID) (learningpath.Enrollment, error) {
	path, err := u.enrollments.GetPath(ctx, pathID)
	if err != nil {
		return learningpath.Enrollment{}, translate(err)
	}
	if path.Personalized() && path.OwnerProfileID != profileID {
		return learningpath.Enrollment{}, fmt.Errorf("%w: path %s belongs to another profile", ErrMalformedInput, pathID)
	}
	if _, err := u.profiles.Get(ctx, profileID); err != nil {
		return learningpath.Enrollment{}, translate(err)
	}

	e, err := u.enrollments.Save(ctx, learningpath.NewEnrollment(profileID, path, u.now()))
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return learningpath.Enrollment{}, fmt.Errorf("%w: already enrolled", ErrConflict)
		}
		return learningpath.Enrollment{}, translate(err)
	}
	return e, nil
}

func (u *LearningPath) CompleteModule(ctx context.Context, profileID, pathID, moduleID uuid.UUID) (learningpath.Enrollment, error) {
	return u.mutate(ctx, profileID, pathID, func(e *learningpath.Enrollment, p learningpath.Path, at time.Time) error {
		return e.CompleteModule(p, moduleID, at)
	})
}

func (u *LearningPath) Pause(ctx context.Context, profileID, pathID uuid.UUID) (learningpath.Enrollment, error) {
	return u.mutate(ctx, profileID, pathID, func(e *learningpath.Enrollment, _ learningpath.Path, at time.Time) error {
		return e.Pause(at)
	})
}

func (u *LearningPath) Resume(ctx context.Context, profileID, pathID uuid.UUID) (learningpath.Enrollment, error) {
	return u.mutate(ctx, profileID, pathID, func(e *learningpath.Enrollment, _ learningpath.Path, at time.Time) error {
		return e.Resume(at)
	})
}

// mutate applies fn to a fresh snapshot and saves it with an optimistic version check,
// reloading and retrying when another writer got there first.
func (u *LearningPath) mutate(
	ctx context.Context,
	profileID, pathID uuid.UUID,
	fn func(e *learningpath.Enrollment, p learningpath.Path, at time.Time) error,
) (learningpath.Enrollment, error) {
	path, err := u.enrollments.GetPath(ctx, pathID)
	if err != nil {
		return learningpath.Enrollment{}, translate(err)
	}

	var lastErr error
	for attempt := 0; attempt < u.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return learningpath.Enrollment{}, err
		}
		e, err := u.enrollments.Get(ctx, profileID, pathID)
		if err != nil {
			return learningpath.Enrollment{}, translate(err)
		}
		if err := fn(&e, path, u.now()); err != nil {
			return learningpath.Enrollment{}, translate(err)
		}
		saved, err := u.enrollments.Save(ctx, e)
		if err == nil {
			return saved, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return learningpath.Enrollment{}, translate(err)
		}
		lastErr = err
	}
	return learningpath.Enrollment{}, translate(lastErr)
}
