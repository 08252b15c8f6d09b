package matching

import (
	"math"
	"sort"
	"strings"
	"time"

	"skillpath/internal/domain/catalog"
	"skillpath/internal/domain/policy"
	"skillpath/internal/domain/proficiency"
	"skillpath/internal/domain/profile"
	"skillpath/internal/domain/skill"

	"github.com/google/uuid"
)

const (
	SubSkillMatch      = "skillMatch"
	SubInterestMatch   = "interestMatch"
	SubLocationMatch   = "locationMatch"
	SubRoleMatch       = "roleMatch"
	SubExperienceMatch = "experienceMatch"
	SubBonus           = "bonus"

	SubSkillGapFill       = "skillGapFill"
	SubLevelAppropriate   = "levelAppropriate"
	SubRatingScore        = "ratingScore"
	SubEffectivenessScore = "effectivenessScore"
)

type SubScore struct {
	Name  string
	Value float64
	Max   float64
}

type Result struct {
	TargetID  uuid.UUID
	Breakdown []SubScore
	Total     int
}

func (r Result) SubScore(name string) float64 {
	for _, s := range r.Breakdown {
		if s.Name == name {
			return s.Value
		}
	}
	return 0
}

// Scorer is stateless apart from its configuration and safe for concurrent use.
type Scorer struct {
	resolver *skill.Resolver
	policy   policy.Policy
}

func NewScorer(resolver *skill.Resolver, p policy.Policy) *Scorer {
	if resolver == nil {
		resolver = skill.DefaultResolver()
	}
	return &Scorer{resolver: resolver, policy: p}
}

func (s *Scorer) ScoreJob(p profile.SkillProfile, j catalog.Job, now time.Time) Result {
	w := s.policy.Job
	return finalize(j.ID, []SubScore{
		{Name: SubSkillMatch, Max: w.SkillMatch, Value: s.skillMatch(p, j, w.SkillMatch)},
		{Name: SubInterestMatch, Max: w.InterestMatch, Value: s.interestMatch(p, j, w.InterestMatch)},
		{Name: SubLocationMatch, Max: w.LocationMatch, Value: locationMatch(p, j, w)},
		{Name: SubRoleMatch, Max: w.RoleMatch, Value: roleMatch(p, j, w)},
		{Name: SubExperienceMatch, Max: w.ExperienceMatch, Value: experienceMatch(p, j, now, w.ExperienceMatch)},
		{Name: SubBonus, Max: w.Bonus, Value: bonus(p, w.Bonus)},
	})
}

func (s *Scorer) skillMatch(p profile.SkillProfile, j catalog.Job, weight float64) float64 {
	required := j.Requirements.SkillNames()
	if len(required) == 0 {
		return weight
	}
	have := p.Names()
	found := 0
	for _, r := range required {
		if s.resolver.MatchesAny(r, have) {
			found++
		}
	}
	return weight * float64(found) / float64(len(required))
}

func (s *Scorer) interestMatch(p profile.SkillProfile, j catalog.Job, weight float64) float64 {
	if s.resolver.Overlaps(p.InterestDomains, j.Categories) {
		return weight
	}
	return 0
}

func locationMatch(p profile.SkillProfile, j catalog.Job, w policy.JobWeights) float64 {
	city := skill.Normalize(p.Location.City)
	if city == "" || p.Location.RemoteTolerant {
		return w.LocationMatch
	}
	if skill.Normalize(j.City) == city {
		return w.LocationMatch
	}
	if j.WorkMode == catalog.WorkModeRemote {
		return w.RemotePartialCredit
	}
	return 0
}

func roleMatch(p profile.SkillProfile, j catalog.Job, w policy.JobWeights) float64 {
	roles := make([]string, 0, len(p.PreferredRoles))
	for _, r := range p.PreferredRoles {
		if n := skill.Normalize(r); n != "" {
			roles = append(roles, n)
		}
	}
	if len(roles) == 0 {
		return w.RoleMatch
	}
	title := skill.Normalize(j.Title)
	if title == "" {
		return w.RoleFloor
	}
	for _, r := range roles {
		if strings.Contains(title, r) || strings.Contains(r, title) {
			return w.RoleMatch
		}
	}
	return w.RoleFloor
}

func experienceMatch(p profile.SkillProfile, j catalog.Job, now time.Time, weight float64) float64 {
	if j.MinExperienceYears <= 0 {
		return weight
	}
	if p.ExpectedGraduationYear <= 0 {
		return 0
	}
	if now.Year()-p.ExpectedGraduationYear >= j.MinExperienceYears {
		return weight
	}
	return 0
}

func bonus(p profile.SkillProfile, weight float64) float64 {
	if p.HasSuccessfulApplication {
		return weight
	}
	return 0
}

// ScoreCourse rates a course for p. targetSkills are the skills demanded by the caller's
// top job matches.
func (s *Scorer) ScoreCourse(p profile.SkillProfile, c catalog.Course, targetSkills []string) Result {
	w := s.policy.Course
	return finalize(c.ID, []SubScore{
		{Name: SubSkillGapFill, Max: w.SkillGapFill, Value: s.skillGapFill(p, c, targetSkills, w.SkillGapFill)},
		{Name: SubLevelAppropriate, Max: w.LevelAppropriate, Value: levelAppropriate(p, c, w)},
		{Name: SubRatingScore, Max: w.RatingScore, Value: clampFloat(c.Rating, 0, 5) / 5 * w.RatingScore},
		{Name: SubEffectivenessScore, Max: w.EffectivenessScore, Value: s.effectivenessScore(c, w)},
	})
}

func (s *Scorer) skillGapFill(p profile.SkillProfile, c catalog.Course, targetSkills []string, weight float64) float64 {
	if s.resolver.Overlaps(c.SkillsTaught, targetSkills) {
		return weight
	}
	have := p.Names()
	for _, taught := range c.SkillsTaught {
		if skill.Normalize(taught) == "" {
			continue
		}
		if !s.resolver.MatchesAny(taught, have) {
			return weight / 2
		}
	}
	return 0
}

// DifficultyDistance is the course rank minus the profile's average rank.
func DifficultyDistance(p profile.SkillProfile, c catalog.Course) int {
	return proficiency.Rank(c.Level) - proficiency.AverageRank(p.Levels())
}

func levelAppropriate(p profile.SkillProfile, c catalog.Course, w policy.CourseWeights) float64 {
	switch d := DifficultyDistance(p, c); {
	case d == 0 || d == 1:
		return w.LevelAppropriate
	case d == -1:
		return w.LevelAppropriate * w.OneLevelBelowFactor
	default:
		return w.LevelAppropriate * w.OtherLevelFactor
	}
}

func (s *Scorer) effectivenessScore(c catalog.Course, w policy.CourseWeights) float64 {
	if !c.Effectiveness.HasSufficientSample(s.policy.Recalibration.MinSampleSize) {
		return w.EffectivenessPrior * w.EffectivenessScore
	}
	return clampFloat(c.Effectiveness.PlacementSuccessRate, 0, 100) / 100 * w.EffectivenessScore
}

func finalize(id uuid.UUID, subs []SubScore) Result {
	var sum float64
	for i := range subs {
		subs[i].Value = clampFloat(subs[i].Value, 0, subs[i].Max)
		sum += subs[i].Value
	}
	total := int(math.Round(sum))
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}
	return Result{TargetID: id, Breakdown: subs, Total: total}
}

// Rank sorts results by descending total; equal totals keep their input order.
func Rank(results []Result) []Result {
	out := append([]Result(nil), results...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	return out
}

func clampFloat(v, minV, maxV float64) float64 {
	if math.IsNaN(v) {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
