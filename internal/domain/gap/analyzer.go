package gap

import (
	"math"
	"sort"

	"skillpath/internal/domain/catalog"
	"skillpath/internal/domain/policy"
	"skillpath/internal/domain/proficiency"
	"skillpath/internal/domain/profile"
	"skillpath/internal/domain/skill"
)

type Classification string

const (
	ClassMatching Classification = "matching"
	ClassPartial  Classification = "partial"
	ClassMissing  Classification = "missing"
)

type Entry struct {
	Requirement   catalog.Requirement
	Class         Classification
	Weight        float64
	MatchedSkill  string
	UserLevel     proficiency.Level
	Coverage      float64
	GapPercentage float64
}

type Priority string

const (
	PriorityCritical    Priority = "critical"
	PriorityImprovement Priority = "improvement"
	PriorityOptional    Priority = "optional"
)

type Recommendation struct {
	SkillName     string
	Priority      Priority
	Importance    catalog.Importance
	TargetLevel   proficiency.Level
	GapPercentage float64
}

type Report struct {
	Matching          []Entry
	PartialMatch      []Entry
	Missing           []Entry
	OverallMatchScore int
	Recommendations   []Recommendation
}

// Entries returns every classified requirement, grouped by classification.
func (r Report) Entries() []Entry {
	out := make([]Entry, 0, len(r.Matching)+len(r.PartialMatch)+len(r.Missing))
	out = append(out, r.Matching...)
	out = append(out, r.PartialMatch...)
	out = append(out, r.Missing...)
	return out
}

type Analyzer struct {
	resolver *skill.Resolver
	weights  policy.ImportanceWeights
}

func NewAnalyzer(resolver *skill.Resolver, weights policy.ImportanceWeights) *Analyzer {
	if resolver == nil {
		resolver = skill.DefaultResolver()
	}
	return &Analyzer{resolver: resolver, weights: weights}
}

func (a *Analyzer) Resolver() *skill.Resolver {
	return a.resolver
}

func (a *Analyzer) Analyze(p profile.SkillProfile, reqs catalog.RequirementSet) Report {
	rep := Report{
		Matching:     make([]Entry, 0),
		PartialMatch: make([]Entry, 0),
		Missing:      make([]Entry, 0),
	}

	var totalWeight float64
	var matchedWeight float64

	for _, req := range reqs.Requirements {
		w := req.EffectiveWeight(a.weights)
		totalWeight += w

		e := Entry{Requirement: req, Weight: w}
		best, ok := a.bestMatch(p, req)
		if !ok {
			e.Class = ClassMissing
			e.GapPercentage = 100
			rep.Missing = append(rep.Missing, e)
			continue
		}

		cov := proficiency.Compare(best.Level, req.MinimumProficiency)
		e.MatchedSkill = best.Name
		e.UserLevel = best.Level
		e.Coverage = cov

		if cov >= 100 {
			e.Class = ClassMatching
			matchedWeight += w
			rep.Matching = append(rep.Matching, e)
			continue
		}

		e.Class = ClassPartial
		e.GapPercentage = 100 - cov
		matchedWeight += w * cov / 100
		rep.PartialMatch = append(rep.PartialMatch, e)
	}

	rep.OverallMatchScore = overallScore(matchedWeight, totalWeight)
	rep.Recommendations = GenerateRecommendations(rep)
	return rep
}

func (a *Analyzer) bestMatch(p profile.SkillProfile, req catalog.Requirement) (profile.Skill, bool) {
	var best profile.Skill
	bestCov := -1.0
	for _, s := range p.Skills {
		if !a.resolver.Matches(s.Name, req.SkillName) {
			continue
		}
		cov := proficiency.Compare(s.Level, req.MinimumProficiency)
		if cov > bestCov {
			best = s
			bestCov = cov
		}
	}
	return best, bestCov >= 0
}

func overallScore(matched, total float64) int {
	if total <= 0 {
		return 100
	}
	score := int(math.Round(matched / total * 100))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// GenerateRecommendations orders work as critical gaps, then improvements by descending
// gap, then optional extras. Input order is kept within a tier.
func GenerateRecommendations(r Report) []Recommendation {
	out := make([]Recommendation, 0, len(r.Missing)+len(r.PartialMatch))

	for _, e := range r.Missing {
		if e.Requirement.Importance != catalog.MustHave {
			continue
		}
		out = append(out, recommendationFor(e, PriorityCritical))
	}

	partial := append([]Entry(nil), r.PartialMatch...)
	sort.SliceStable(partial, func(i, j int) bool {
		return partial[i].GapPercentage > partial[j].GapPercentage
	})
	for _, e := range partial {
		out = append(out, recommendationFor(e, PriorityImprovement))
	}

	for _, e := range r.Missing {
		if e.Requirement.Importance != catalog.NiceToHave {
			continue
		}
		out = append(out, recommendationFor(e, PriorityOptional))
	}

	return out
}

func recommendationFor(e Entry, p Priority) Recommendation {
	return Recommendation{
		SkillName:     e.Requirement.SkillName,
		Priority:      p,
		Importance:    e.Requirement.Importance,
		TargetLevel:   e.Requirement.MinimumProficiency,
		GapPercentage: e.GapPercentage,
	}
}
