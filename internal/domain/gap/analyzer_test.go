package gap

import (
	"testing"

	"skillpath/internal/domain/catalog"
	"skillpath/internal/domain/policy"
	"skillpath/internal/domain/proficiency"
	"skillpath/internal/domain/profile"
	"skillpath/internal/domain/skill"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalyzer() *Analyzer {
	return NewAnalyzer(skill.DefaultResolver(), policy.Default().Importance)
}

func jsProfile() profile.SkillProfile {
	return profile.SkillProfile{Skills: []profile.Skill{{Name: "JavaScript", Level: proficiency.Advanced}}}
}

func TestAnalyze_FullMatch(t *testing.T) {
	rep := newAnalyzer().Analyze(jsProfile(), catalog.RequirementSet{Requirements: []catalog.Requirement{
		{SkillName: "JavaScript", Importance: catalog.MustHave, MinimumProficiency: proficiency.Intermediate, Weight: 2},
	}})

	require.Len(t, rep.Matching, 1)
	assert.Empty(t, rep.PartialMatch)
	assert.Empty(t, rep.Missing)
	assert.Equal(t, 100, rep.OverallMatchScore)
	assert.Empty(t, rep.Recommendations)
}

func TestAnalyze_PartialMatch(t *testing.T) {
	rep := newAnalyzer().Analyze(jsProfile(), catalog.RequirementSet{Requirements: []catalog.Requirement{
		{SkillName: "JavaScript", Importance: catalog.MustHave, MinimumProficiency: proficiency.Expert, Weight: 2},
	}})

	require.Len(t, rep.PartialMatch, 1)
	assert.Equal(t, 25.0, rep.PartialMatch[0].GapPercentage)
	assert.Equal(t, 75.0, rep.PartialMatch[0].Coverage)
	assert.Equal(t, 75, rep.OverallMatchScore)
	require.Len(t, rep.Recommendations, 1)
	assert.Equal(t, PriorityImprovement, rep.Recommendations[0].Priority)
}

func TestAnalyze_EmptyRequirementsIsFullMatch(t *testing.T) {
	rep := newAnalyzer().Analyze(jsProfile(), catalog.RequirementSet{})
	assert.Equal(t, 100, rep.OverallMatchScore)

	rep = newAnalyzer().Analyze(profile.SkillProfile{}, catalog.RequirementSet{})
	assert.Equal(t, 100, rep.OverallMatchScore)
}

func TestAnalyze_AliasAndMissing(t *testing.T) {
	p := profile.SkillProfile{Skills: []profile.Skill{
		{Name: "JS", Level: proficiency.Expert},
		{Name: "Golang", Level: proficiency.Beginner},
	}}
	reqs := catalog.RequirementSet{Requirements: []catalog.Requirement{
		{SkillName: "JavaScript", Importance: catalog.MustHave, MinimumProficiency: proficiency.Advanced},
		{SkillName: "Go", Importance: catalog.Preferred, MinimumProficiency: proficiency.Advanced},
		{SkillName: "Kubernetes", Importance: catalog.NiceToHave, MinimumProficiency: proficiency.Beginner},
	}}

	rep := newAnalyzer().Analyze(p, reqs)

	require.Len(t, rep.Matching, 1)
	require.Len(t, rep.PartialMatch, 1)
	require.Len(t, rep.Missing, 1)
	assert.Equal(t, "Golang", rep.PartialMatch[0].MatchedSkill)
	assert.InDelta(t, 66.67, rep.PartialMatch[0].GapPercentage, 0.01)

	// weights 3 + 2 + 1; matched 3 + 2*(1/3)
	assert.Equal(t, 61, rep.OverallMatchScore)
}

func TestAnalyze_BestMatchingSkillWins(t *testing.T) {
	p := profile.SkillProfile{Skills: []profile.Skill{
		{Name: "React", Level: proficiency.Beginner},
		{Name: "React Native", Level: proficiency.Expert},
	}}
	rep := newAnalyzer().Analyze(p, catalog.RequirementSet{Requirements: []catalog.Requirement{
		{SkillName: "react", Importance: catalog.MustHave, MinimumProficiency: proficiency.Advanced},
	}})
	require.Len(t, rep.Matching, 1)
	assert.Equal(t, "React Native", rep.Matching[0].MatchedSkill)
}

func TestAnalyze_ScoreAlwaysWithinBounds(t *testing.T) {
	levels := []proficiency.Level{proficiency.Beginner, proficiency.Intermediate, proficiency.Advanced, proficiency.Expert}
	for _, have := range levels {
		for _, want := range levels {
			p := profile.SkillProfile{Skills: []profile.Skill{{Name: "Go", Level: have}}}
			rep := newAnalyzer().Analyze(p, catalog.RequirementSet{Requirements: []catalog.Requirement{
				{SkillName: "go", Importance: catalog.MustHave, MinimumProficiency: want, Weight: 5},
				{SkillName: "rust", Importance: catalog.NiceToHave, MinimumProficiency: want},
			}})
			assert.GreaterOrEqual(t, rep.OverallMatchScore, 0)
			assert.LessOrEqual(t, rep.OverallMatchScore, 100)
		}
	}
}

func TestGenerateRecommendations_TierOrder(t *testing.T) {
	rep := Report{
		Missing: []Entry{
			{Requirement: catalog.Requirement{SkillName: "docker", Importance: catalog.NiceToHave}, GapPercentage: 100},
			{Requirement: catalog.Requirement{SkillName: "go", Importance: catalog.MustHave}, GapPercentage: 100},
			{Requirement: catalog.Requirement{SkillName: "graphql", Importance: catalog.Preferred}, GapPercentage: 100},
			{Requirement: catalog.Requirement{SkillName: "sql", Importance: catalog.MustHave}, GapPercentage: 100},
			{Requirement: catalog.Requirement{SkillName: "helm", Importance: catalog.NiceToHave}, GapPercentage: 100},
		},
		PartialMatch: []Entry{
			{Requirement: catalog.Requirement{SkillName: "css"}, GapPercentage: 25},
			{Requirement: catalog.Requirement{SkillName: "html"}, GapPercentage: 50},
			{Requirement: catalog.Requirement{SkillName: "redis"}, GapPercentage: 25},
		},
	}

	recs := GenerateRecommendations(rep)

	names := make([]string, 0, len(recs))
	for _, r := range recs {
		names = append(names, r.SkillName)
	}
	assert.Equal(t, []string{"go", "sql", "html", "css", "redis", "docker", "helm"}, names)
	assert.Equal(t, PriorityCritical, recs[0].Priority)
	assert.Equal(t, PriorityImprovement, recs[2].Priority)
	assert.Equal(t, PriorityOptional, recs[6].Priority)
}
