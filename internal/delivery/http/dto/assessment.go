package dto

import (
	"time"

	"skillpath/internal/repository"
	"skillpath/internal/usecase"

	"github.com/google/uuid"
)

type StartAssessmentRequest struct {
	ProfileID    string `json:"profile_id"`
	AssessmentID string `json:"assessment_id"`
	SkillName    string `json:"skill_name"`
	Level        string `json:"level"`
}

type SubmitAssessmentRequest struct {
	Score *float64 `json:"score"`
}

type AssessmentAttemptResponse struct {
	ID           uuid.UUID  `json:"id"`
	ProfileID    uuid.UUID  `json:"profile_id"`
	AssessmentID uuid.UUID  `json:"assessment_id"`
	SkillName    string     `json:"skill_name"`
	Level        string     `json:"level"`
	Status       string     `json:"status"`
	Score        float64    `json:"score"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

type AssessmentResultResponse struct {
	Attempt AssessmentAttemptResponse `json:"attempt"`
	Passed  bool                      `json:"passed"`
	Actions []string                  `json:"actions"`
}

func FromAttempt(a repository.AssessmentAttempt) AssessmentAttemptResponse {
	return AssessmentAttemptResponse{
		ID:           a.ID,
		ProfileID:    a.ProfileID,
		AssessmentID: a.AssessmentID,
		SkillName:    a.SkillName,
		Level:        string(a.Level),
		Status:       string(a.Status),
		Score:        a.Score,
		StartedAt:    a.StartedAt,
		FinishedAt:   a.FinishedAt,
	}
}

func FromAssessmentResult(r usecase.AssessmentResult) AssessmentResultResponse {
	actions := make([]string, 0, len(r.Actions))
	for _, a := range r.Actions {
		actions = append(actions, string(a))
	}
	return AssessmentResultResponse{
		Attempt: FromAttempt(r.Attempt),
		Passed:  r.Passed,
		Actions: actions,
	}
}
