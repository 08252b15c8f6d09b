package dto

import (
	"time"

	"skillpath/internal/domain/learningpath"

	"github.com/google/uuid"
)

type ModuleResponse struct {
	ID            uuid.UUID  `json:"id"`
	Type          string     `json:"type"`
	Title         string     `json:"title"`
	CourseID      *uuid.UUID `json:"course_id,omitempty"`
	SkillsCovered []string   `json:"skills_covered"`
	IsOptional    bool       `json:"is_optional"`
	DurationHours int        `json:"duration_hours"`
	MinScore      float64    `json:"min_score,omitempty"`
	Criteria      string     `json:"criteria,omitempty"`
}

type StageResponse struct {
	Order         int              `json:"order"`
	Name          string           `json:"name"`
	Difficulty    string           `json:"difficulty"`
	Milestone     string           `json:"milestone"`
	DurationHours int              `json:"duration_hours"`
	Modules       []ModuleResponse `json:"modules"`
}

type LearningPathResponse struct {
	ID                 uuid.UUID       `json:"id"`
	OwnerProfileID     *uuid.UUID      `json:"owner_profile_id,omitempty"`
	TargetID           uuid.UUID       `json:"target_id"`
	TotalDurationHours int             `json:"total_duration_hours"`
	Stages             []StageResponse `json:"stages"`
	CreatedAt          time.Time       `json:"created_at"`
}

type EnrollmentResponse struct {
	ProfileID        uuid.UUID   `json:"profile_id"`
	PathID           uuid.UUID   `json:"path_id"`
	CurrentStage     int         `json:"current_stage"`
	CompletedModules []uuid.UUID `json:"completed_modules"`
	Status           string      `json:"status"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

type GeneratePathRequest struct {
	ProfileID string `json:"profile_id"`
	TargetID  string `json:"target_id"`
}

type EnrollmentRequest struct {
	ProfileID string `json:"profile_id"`
}

type CompleteModuleRequest struct {
	ProfileID string `json:"profile_id"`
	ModuleID  string `json:"module_id"`
}

func FromPath(p learningpath.Path) LearningPathResponse {
	out := LearningPathResponse{
		ID:                 p.ID,
		TargetID:           p.TargetID,
		TotalDurationHours: p.TotalDurationHours,
		Stages:             make([]StageResponse, 0, len(p.Stages)),
		CreatedAt:          p.CreatedAt,
	}
	if p.Personalized() {
		owner := p.OwnerProfileID
		out.OwnerProfileID = &owner
	}
	for _, s := range p.Stages {
		st := StageResponse{
			Order:         s.Order,
			Name:          s.Name,
			Difficulty:    string(s.Difficulty),
			Milestone:     s.Milestone,
			DurationHours: s.DurationHours,
			Modules:       make([]ModuleResponse, 0, len(s.Modules)),
		}
		for _, m := range s.Modules {
			mr := ModuleResponse{
				ID:            m.ID,
				Type:          string(m.Type),
				Title:         m.Title,
				SkillsCovered: m.SkillsCovered,
				IsOptional:    m.IsOptional,
				DurationHours: m.DurationHours,
				MinScore:      m.Completion.MinScore,
				Criteria:      m.Completion.Description,
			}
			if m.CourseID != uuid.Nil {
				id := m.CourseID
				mr.CourseID = &id
			}
			st.Modules = append(st.Modules, mr)
		}
		out.Stages = append(out.Stages, st)
	}
	return out
}

func FromEnrollment(e learningpath.Enrollment) EnrollmentResponse {
	completed := e.CompletedModules
	if completed == nil {
		completed = []uuid.UUID{}
	}
	return EnrollmentResponse{
		ProfileID:        e.ProfileID,
		PathID:           e.PathID,
		CurrentStage:     e.CurrentStage,
		CompletedModules: completed,
		Status:           string(e.Status),
		UpdatedAt:        e.UpdatedAt,
	}
}
