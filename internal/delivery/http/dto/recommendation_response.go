package dto

import (
	"skillpath/internal/domain/matching"
	"skillpath/internal/usecase"

	"github.com/google/uuid"
)

type SubScoreResponse struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Max   float64 `json:"max"`
}

type JobRecommendationResponse struct {
	JobID      uuid.UUID          `json:"job_id"`
	Title      string             `json:"title"`
	Company    string             `json:"company"`
	City       string             `json:"city"`
	WorkMode   string             `json:"work_mode"`
	MatchScore int                `json:"match_score"`
	Breakdown  []SubScoreResponse `json:"breakdown"`
}

type CourseRecommendationResponse struct {
	CourseID      uuid.UUID          `json:"course_id"`
	Title         string             `json:"title"`
	Level         string             `json:"level"`
	SkillsTaught  []string           `json:"skills_taught"`
	DurationHours int                `json:"duration_hours"`
	Rating        float64            `json:"rating"`
	MatchScore    int                `json:"match_score"`
	Breakdown     []SubScoreResponse `json:"breakdown"`
}

func FromJobRecommendations(in []usecase.JobRecommendation) []JobRecommendationResponse {
	out := make([]JobRecommendationResponse, 0, len(in))
	for _, r := range in {
		out = append(out, JobRecommendationResponse{
			JobID:      r.Job.ID,
			Title:      r.Job.Title,
			Company:    r.Job.Company,
			City:       r.Job.City,
			WorkMode:   string(r.Job.WorkMode),
			MatchScore: r.Match.Total,
			Breakdown:  breakdown(r.Match),
		})
	}
	return out
}

func FromCourseRecommendations(in []usecase.CourseRecommendation) []CourseRecommendationResponse {
	out := make([]CourseRecommendationResponse, 0, len(in))
	for _, r := range in {
		out = append(out, CourseRecommendationResponse{
			CourseID:      r.Course.ID,
			Title:         r.Course.Title,
			Level:         string(r.Course.Level),
			SkillsTaught:  r.Course.SkillsTaught,
			DurationHours: r.Course.DurationHours,
			Rating:        r.Course.Rating,
			MatchScore:    r.Match.Total,
			Breakdown:     breakdown(r.Match),
		})
	}
	return out
}

func breakdown(m matching.Result) []SubScoreResponse {
	out := make([]SubScoreResponse, 0, len(m.Breakdown))
	for _, s := range m.Breakdown {
		out = append(out, SubScoreResponse{Name: s.Name, Value: s.Value, Max: s.Max})
	}
	return out
}
