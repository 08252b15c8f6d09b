package dto

import (
	"skillpath/internal/domain/profile"

	"github.com/google/uuid"
)

type ProfileSkillResponse struct {
	Name     string  `json:"name"`
	Level    string  `json:"level"`
	Score    float64 `json:"score"`
	Verified bool    `json:"verified"`
	Category string  `json:"category,omitempty"`
}

type ProfileResponse struct {
	ID     uuid.UUID              `json:"id"`
	Skills []ProfileSkillResponse `json:"skills"`
}

type CompleteCourseRequest struct {
	CourseID string `json:"course_id"`
}

func FromProfile(p profile.SkillProfile) ProfileResponse {
	out := ProfileResponse{ID: p.ID, Skills: make([]ProfileSkillResponse, 0, len(p.Skills))}
	for _, s := range p.Skills {
		out.Skills = append(out.Skills, ProfileSkillResponse{
			Name:     s.Name,
			Level:    string(s.Level),
			Score:    s.Score,
			Verified: s.Verified,
			Category: s.Category,
		})
	}
	return out
}
