package dto

import (
	"time"

	"skillpath/internal/domain/feedback"

	"github.com/google/uuid"
)

type EntityOutcomeResponse struct {
	Kind     string    `json:"kind"`
	EntityID uuid.UUID `json:"entity_id"`
	Samples  int       `json:"samples"`
	Outcome  string    `json:"outcome"`
}

type RecalibrationResponse struct {
	RunID                  uuid.UUID               `json:"run_id"`
	StartedAt              time.Time               `json:"started_at"`
	FinishedAt             time.Time               `json:"finished_at"`
	Fetched                int                     `json:"fetched"`
	Processed              int                     `json:"processed"`
	Skipped                int                     `json:"skipped"`
	Committed              []EntityOutcomeResponse `json:"committed"`
	Deferred               []EntityOutcomeResponse `json:"deferred"`
	RecommendationSamples  int                     `json:"recommendation_samples"`
	RecommendationAccuracy float64                 `json:"recommendation_accuracy"`
	AverageRating          float64                 `json:"average_rating"`
}

func FromInsights(in feedback.Insights) RecalibrationResponse {
	return RecalibrationResponse{
		RunID:                  in.RunID,
		StartedAt:              in.StartedAt,
		FinishedAt:             in.FinishedAt,
		Fetched:                in.Fetched,
		Processed:              in.Processed,
		Skipped:                in.Skipped,
		Committed:              outcomes(in.Committed),
		Deferred:               outcomes(in.Deferred),
		RecommendationSamples:  in.RecommendationSamples,
		RecommendationAccuracy: in.RecommendationAccuracy,
		AverageRating:          in.AverageRating,
	}
}

func outcomes(in []feedback.EntityOutcome) []EntityOutcomeResponse {
	out := make([]EntityOutcomeResponse, 0, len(in))
	for _, o := range in {
		out = append(out, EntityOutcomeResponse{
			Kind:     string(o.Kind),
			EntityID: o.EntityID,
			Samples:  o.Samples,
			Outcome:  string(o.Outcome),
		})
	}
	return out
}
