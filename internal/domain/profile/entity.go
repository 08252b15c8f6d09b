package profile

import (
	"time"

	"skillpath/internal/domain/proficiency"
	"skillpath/internal/domain/skill"

	"github.com/google/uuid"
)

type Skill struct {
	Name     string
	Level    proficiency.Level
	Score    float64
	Verified bool
	Category string
}

type Location struct {
	City           string
	RemoteTolerant bool
}

type SkillProfile struct {
	ID                       uuid.UUID
	Skills                   []Skill
	InterestDomains          []string
	Location                 Location
	PreferredRoles           []string
	ExpectedGraduationYear   int
	HasSuccessfulApplication bool
	UpdatedAt                time.Time
}

func (p SkillProfile) Find(name string) (Skill, bool) {
	n := skill.Normalize(name)
	if n == "" {
		return Skill{}, false
	}
	for _, s := range p.Skills {
		if skill.Normalize(s.Name) == n {
			return s, true
		}
	}
	return Skill{}, false
}

// Upsert replaces the skill with the same normalised name or appends a new one.
func (p *SkillProfile) Upsert(s Skill) {
	n := skill.Normalize(s.Name)
	if n == "" {
		return
	}
	s.Score = clampScore(s.Score)
	for i := range p.Skills {
		if skill.Normalize(p.Skills[i].Name) == n {
			p.Skills[i] = s
			return
		}
	}
	p.Skills = append(p.Skills, s)
}

func (p SkillProfile) Names() []string {
	out := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		out = append(out, s.Name)
	}
	return out
}

func (p SkillProfile) Levels() []proficiency.Level {
	out := make([]proficiency.Level, 0, len(p.Skills))
	for _, s := range p.Skills {
		out = append(out, s.Level)
	}
	return out
}

// Clone returns a deep copy safe to hand to concurrent scorers.
func (p SkillProfile) Clone() SkillProfile {
	out := p
	out.Skills = append([]Skill(nil), p.Skills...)
	out.InterestDomains = append([]string(nil), p.InterestDomains...)
	out.PreferredRoles = append([]string(nil), p.PreferredRoles...)
	return out
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
