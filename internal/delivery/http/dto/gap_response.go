package dto

import (
	"skillpath/internal/domain/gap"
)

type GapEntryResponse struct {
	SkillName          string  `json:"skill_name"`
	Importance         string  `json:"importance"`
	MinimumProficiency string  `json:"minimum_proficiency"`
	Classification     string  `json:"classification"`
	MatchedSkill       string  `json:"matched_skill,omitempty"`
	UserLevel          string  `json:"user_level,omitempty"`
	Coverage           float64 `json:"coverage"`
	GapPercentage      float64 `json:"gap_percentage"`
}

type GapRecommendationResponse struct {
	SkillName     string  `json:"skill_name"`
	Priority      string  `json:"priority"`
	Importance    string  `json:"importance"`
	TargetLevel   string  `json:"target_level"`
	GapPercentage float64 `json:"gap_percentage"`
}

type GapReportResponse struct {
	OverallMatchScore int                         `json:"overall_match_score"`
	Matching          []GapEntryResponse          `json:"matching"`
	PartialMatch      []GapEntryResponse          `json:"partial_match"`
	Missing           []GapEntryResponse          `json:"missing"`
	Recommendations   []GapRecommendationResponse `json:"recommendations"`
}

func FromGapReport(r gap.Report) GapReportResponse {
	out := GapReportResponse{
		OverallMatchScore: r.OverallMatchScore,
		Matching:          gapEntries(r.Matching),
		PartialMatch:      gapEntries(r.PartialMatch),
		Missing:           gapEntries(r.Missing),
		Recommendations:   make([]GapRecommendationResponse, 0, len(r.Recommendations)),
	}
	for _, rec := range r.Recommendations {
		out.Recommendations = append(out.Recommendations, GapRecommendationResponse{
			SkillName:     rec.SkillName,
			Priority:      string(rec.Priority),
			Importance:    string(rec.Importance),
			TargetLevel:   string(rec.TargetLevel),
			GapPercentage: rec.GapPercentage,
		})
	}
	return out
}

func gapEntries(in []gap.Entry) []GapEntryResponse {
	out := make([]GapEntryResponse, 0, len(in))
	for _, e := range in {
		out = append(out, GapEntryResponse{
			SkillName:          e.Requirement.SkillName,
			Importance:         string(e.Requirement.Importance),
			MinimumProficiency: string(e.Requirement.MinimumProficiency),
			Classification:     string(e.Class),
			MatchedSkill:       e.MatchedSkill,
			UserLevel:          string(e.UserLevel),
			Coverage:           e.Coverage,
			GapPercentage:      e.GapPercentage,
		})
	}
	return out
}
