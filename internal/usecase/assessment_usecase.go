package usecase

import (
	"context"
	"math"
	"strings"
	"time"

	"skillpath/internal/domain/learningpath"
	"skillpath/internal/domain/proficiency"
	"skillpath/internal/domain/profile"
	"skillpath/internal/repository"

	"github.com/google/uuid"
)

type StartAssessmentInput struct {
	ProfileID    uuid.UUID
	AssessmentID uuid.UUID
	SkillName    string
	Level        proficiency.Level
}

type AssessmentResult struct {
	Attempt repository.AssessmentAttempt
	Passed  bool
	// Actions are the adaptive triggers fired by this score and attempt count.
	Actions []learningpath.Action
}

type AssessmentUsecase interface {
	Start(ctx context.Context, in StartAssessmentInput) (repository.AssessmentAttempt, error)
	Submit(ctx context.Context, attemptID uuid.UUID, score float64) (AssessmentResult, error)
}

type Assessment struct {
	attempts repository.AssessmentRepository
	profiles repository.ProfileRepository
	engine   Engine
	now      func() time.Time
}

func NewAssessmentUsecase(attempts repository.AssessmentRepository, profiles repository.ProfileRepository, engine Engine) *Assessment {
	return &Assessment{attempts: attempts, profiles: profiles, engine: engine, now: time.Now}
}

func (u *Assessment) Start(ctx context.Context, in StartAssessmentInput) (repository.AssessmentAttempt, error) {
	if in.ProfileID == uuid.Nil || in.AssessmentID == uuid.Nil || strings.TrimSpace(in.SkillName) == "" {
		return repository.AssessmentAttempt{}, ErrMalformedInput
	}
	if _, err := u.profiles.Get(ctx, in.ProfileID); err != nil {
		return repository.AssessmentAttempt{}, translate(err)
	}

	a := repository.AssessmentAttempt{
		ID:           uuid.New(),
		ProfileID:    in.ProfileID,
		AssessmentID: in.AssessmentID,
		SkillName:    strings.TrimSpace(in.SkillName),
		Level:        proficiency.ParseLevel(string(in.Level)),
		Status:       repository.AttemptInProgress,
		StartedAt:    u.now().UTC(),
	}
	if err := u.attempts.StartAttempt(ctx, a); err != nil {
		return repository.AssessmentAttempt{}, translate(err)
	}
	return a, nil
}

// Submit finishes the in-progress attempt. A pass marks the skill verified and raises it
// to the assessed level.
func (u *Assessment) Submit(ctx context.Context, attemptID uuid.UUID, score float64) (AssessmentResult, error) {
	if math.IsNaN(score) || score < 0 || score > 100 {
		return AssessmentResult{}, ErrMalformedInput
	}

	passed := score >= u.engine.Policy.Path.PassingScore
	status := repository.AttemptFailed
	if passed {
		status = repository.AttemptPassed
	}

	a, err := u.attempts.FinishAttempt(ctx, attemptID, status, score, u.now())
	if err != nil {
		return AssessmentResult{}, translate(err)
	}

	if passed {
		p, err := u.profiles.Get(ctx, a.ProfileID)
		if err != nil {
			return AssessmentResult{}, translate(err)
		}
		s, ok := p.Find(a.SkillName)
		if !ok {
			s = profile.Skill{Name: a.SkillName, Level: a.Level}
		}
		s.Level = proficiency.Max(s.Level, a.Level)
		s.Score = math.Max(s.Score, score)
		s.Verified = true
		if err := u.profiles.UpsertSkill(ctx, a.ProfileID, s); err != nil {
			return AssessmentResult{}, translate(err)
		}
	}

	count, err := u.attempts.CountAttempts(ctx, a.ProfileID, a.AssessmentID)
	if err != nil {
		return AssessmentResult{}, translate(err)
	}
	rules := learningpath.RulesFromPolicy(u.engine.Policy.Path.Adaptive)

	return AssessmentResult{Attempt: a, Passed: passed, Actions: rules.Evaluate(score, count)}, nil
}
