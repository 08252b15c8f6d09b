package learningpath

import (
	"time"

	"skillpath/internal/domain/policy"
	"skillpath/internal/domain/proficiency"

	"github.com/google/uuid"
)

type ModuleType string

const (
	ModuleCourse  ModuleType = "course"
	ModuleProject ModuleType = "project"
)

type CompletionCriteria struct {
	MinScore       float64
	RequireProject bool
	Description    string
}

type Module struct {
	ID            uuid.UUID
	Type          ModuleType
	Title         string
	CourseID      uuid.UUID
	SkillsCovered []string
	IsOptional    bool
	DurationHours int
	Completion    CompletionCriteria
}

type Stage struct {
	Order         int
	Name          string
	Difficulty    proficiency.Level
	Modules       []Module
	Milestone     string
	DurationHours int
}

func (s Stage) RequiredModuleIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s.Modules))
	for _, m := range s.Modules {
		if !m.IsOptional {
			out = append(out, m.ID)
		}
	}
	return out
}

type Action string

const (
	ActionRemediate Action = "recommend-remediation"
	ActionAllowSkip Action = "permit-stage-skip"
	ActionMentor    Action = "escalate-to-mentor"
)

// AdaptiveRules are static triggers. The path only carries them; consumers evaluate.
type AdaptiveRules struct {
	RemediationBelow float64
	SkipAbove        float64
	MentorAttempts   int
	MentorBelow      float64
}

func RulesFromPolicy(t policy.AdaptiveThresholds) AdaptiveRules {
	return AdaptiveRules{
		RemediationBelow: t.RemediationBelow,
		SkipAbove:        t.SkipAbove,
		MentorAttempts:   t.MentorAttempts,
		MentorBelow:      t.MentorBelow,
	}
}

func (r AdaptiveRules) Evaluate(score float64, attempts int) []Action {
	out := make([]Action, 0, 2)
	if score < r.RemediationBelow {
		out = append(out, ActionRemediate)
	}
	if score > r.SkipAbove {
		out = append(out, ActionAllowSkip)
	}
	if attempts > r.MentorAttempts && score < r.MentorBelow {
		out = append(out, ActionMentor)
	}
	return out
}

type Path struct {
	ID                 uuid.UUID
	OwnerProfileID     uuid.UUID
	TargetID           uuid.UUID
	Stages             []Stage
	TotalDurationHours int
	AdaptiveRules      AdaptiveRules
	CreatedAt          time.Time
}

// Personalized paths belong to one profile; the rest are shared templates.
func (p Path) Personalized() bool {
	return p.OwnerProfileID != uuid.Nil
}

func (p Path) FindModule(id uuid.UUID) (stage int, m Module, ok bool) {
	for i, s := range p.Stages {
		for _, mod := range s.Modules {
			if mod.ID == id {
				return i, mod, true
			}
		}
	}
	return -1, Module{}, false
}
