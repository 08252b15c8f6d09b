package dto

import (
	"time"

	"skillpath/internal/domain/feedback"

	"github.com/google/uuid"
)

type FeedbackPayloadRequest struct {
	SkillImprovement  *float64 `json:"skill_improvement"`
	HelpedInPlacement *bool    `json:"helped_in_placement"`
	Placed            *bool    `json:"placed"`
	VerifiedSkills    []string `json:"verified_skills"`
	Accurate          *bool    `json:"accurate"`
	Rating            *float64 `json:"rating"`
}

type SubmitFeedbackRequest struct {
	Type             string                 `json:"type"`
	SubjectProfileID string                 `json:"subject_profile_id"`
	RelatedEntityID  string                 `json:"related_entity_id"`
	Payload          FeedbackPayloadRequest `json:"payload"`
}

func (p FeedbackPayloadRequest) ToDomain() feedback.Payload {
	return feedback.Payload{
		SkillImprovement:  p.SkillImprovement,
		HelpedInPlacement: p.HelpedInPlacement,
		Placed:            p.Placed,
		VerifiedSkills:    p.VerifiedSkills,
		Accurate:          p.Accurate,
		Rating:            p.Rating,
	}
}

type FeedbackResponse struct {
	ID               uuid.UUID `json:"id"`
	Type             string    `json:"type"`
	SubjectProfileID uuid.UUID `json:"subject_profile_id"`
	RelatedEntityID  uuid.UUID `json:"related_entity_id"`
	State            string    `json:"state"`
	CreatedAt        time.Time `json:"created_at"`
}

func FromFeedback(r feedback.Record) FeedbackResponse {
	return FeedbackResponse{
		ID:               r.ID,
		Type:             string(r.Type),
		SubjectProfileID: r.SubjectProfileID,
		RelatedEntityID:  r.RelatedEntityID,
		State:            string(r.State),
		CreatedAt:        r.CreatedAt,
	}
}
