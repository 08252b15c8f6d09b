package catalog

import (
	"strings"

	"skillpath/internal/domain/effectiveness"
	"skillpath/internal/domain/policy"
	"skillpath/internal/domain/proficiency"

	"github.com/google/uuid"
)

type Importance string

const (
	MustHave   Importance = "must-have"
	Preferred  Importance = "preferred"
	NiceToHave Importance = "nice-to-have"
)

func ParseImportance(raw string) Importance {
	switch Importance(strings.ToLower(strings.TrimSpace(raw))) {
	case MustHave:
		return MustHave
	case NiceToHave:
		return NiceToHave
	default:
		return Preferred
	}
}

type Requirement struct {
	SkillName          string
	Importance         Importance
	MinimumProficiency proficiency.Level
	Weight             float64
}

// EffectiveWeight falls back to the importance tier default when no positive weight is set.
func (r Requirement) EffectiveWeight(w policy.ImportanceWeights) float64 {
	if r.Weight > 0 {
		return r.Weight
	}
	switch r.Importance {
	case MustHave:
		return w.MustHave
	case NiceToHave:
		return w.NiceToHave
	default:
		return w.Preferred
	}
}

type RequirementSet struct {
	TargetID     uuid.UUID
	Requirements []Requirement
}

func (s RequirementSet) SkillNames() []string {
	out := make([]string, 0, len(s.Requirements))
	for _, r := range s.Requirements {
		out = append(out, r.SkillName)
	}
	return out
}

type WorkMode string

const (
	WorkModeOnsite WorkMode = "onsite"
	WorkModeRemote WorkMode = "remote"
	WorkModeHybrid WorkMode = "hybrid"
)

type Job struct {
	ID                 uuid.UUID
	Title              string
	Company            string
	City               string
	WorkMode           WorkMode
	Categories         []string
	MinExperienceYears int
	Requirements       RequirementSet
	Effectiveness      effectiveness.Record
}

type Role struct {
	ID           uuid.UUID
	Title        string
	Requirements RequirementSet
}

type Course struct {
	ID            uuid.UUID
	Title         string
	Level         proficiency.Level
	SkillsTaught  []string
	DurationHours int
	Rating        float64
	Effectiveness effectiveness.Record
}

type CourseFilter struct {
	Skills []string
	Level  proficiency.Level
	Limit  int
}
