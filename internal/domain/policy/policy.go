package policy

import (
	"errors"
	"fmt"
)

type ImportanceWeights struct {
	MustHave   float64 `mapstructure:"must_have" yaml:"must_have"`
	Preferred  float64 `mapstructure:"preferred" yaml:"preferred"`
	NiceToHave float64 `mapstructure:"nice_to_have" yaml:"nice_to_have"`
}

type JobWeights struct {
	SkillMatch      float64 `mapstructure:"skill_match" yaml:"skill_match"`
	InterestMatch   float64 `mapstructure:"interest_match" yaml:"interest_match"`
	LocationMatch   float64 `mapstructure:"location_match" yaml:"location_match"`
	RoleMatch       float64 `mapstructure:"role_match" yaml:"role_match"`
	ExperienceMatch float64 `mapstructure:"experience_match" yaml:"experience_match"`
	Bonus           float64 `mapstructure:"bonus" yaml:"bonus"`

	RemotePartialCredit float64 `mapstructure:"remote_partial_credit" yaml:"remote_partial_credit"`
	RoleFloor           float64 `mapstructure:"role_floor" yaml:"role_floor"`
}

type CourseWeights struct {
	SkillGapFill       float64 `mapstructure:"skill_gap_fill" yaml:"skill_gap_fill"`
	LevelAppropriate   float64 `mapstructure:"level_appropriate" yaml:"level_appropriate"`
	RatingScore        float64 `mapstructure:"rating_score" yaml:"rating_score"`
	EffectivenessScore float64 `mapstructure:"effectiveness_score" yaml:"effectiveness_score"`

	OneLevelBelowFactor float64 `mapstructure:"one_level_below_factor" yaml:"one_level_below_factor"`
	OtherLevelFactor    float64 `mapstructure:"other_level_factor" yaml:"other_level_factor"`
	EffectivenessPrior  float64 `mapstructure:"effectiveness_prior" yaml:"effectiveness_prior"`
}

type StageCaps struct {
	Foundation int `mapstructure:"foundation" yaml:"foundation"`
	Core       int `mapstructure:"core" yaml:"core"`
	Advanced   int `mapstructure:"advanced" yaml:"advanced"`
}

type AdaptiveThresholds struct {
	RemediationBelow float64 `mapstructure:"remediation_below" yaml:"remediation_below"`
	SkipAbove        float64 `mapstructure:"skip_above" yaml:"skip_above"`
	MentorAttempts   int     `mapstructure:"mentor_attempts" yaml:"mentor_attempts"`
	MentorBelow      float64 `mapstructure:"mentor_below" yaml:"mentor_below"`
}

type Path struct {
	Caps                 StageCaps          `mapstructure:"caps" yaml:"caps"`
	// partial gaps of at least this many levels go to the foundation stage
	LargeGapLevels       int                `mapstructure:"large_gap_levels" yaml:"large_gap_levels"`
	MinStages            int                `mapstructure:"min_stages" yaml:"min_stages"`
	ProjectDurationHours int                `mapstructure:"project_duration_hours" yaml:"project_duration_hours"`
	PassingScore         float64            `mapstructure:"passing_score" yaml:"passing_score"`
	Adaptive             AdaptiveThresholds `mapstructure:"adaptive" yaml:"adaptive"`
}

type Recalibration struct {
	MinSampleSize int `mapstructure:"min_sample_size" yaml:"min_sample_size"`
	BatchLimit    int `mapstructure:"batch_limit" yaml:"batch_limit"`
}

// Policy holds the business heuristics of the engine. Zero values are never used as-is;
// start from Default and override.
type Policy struct {
	Importance     ImportanceWeights `mapstructure:"importance" yaml:"importance"`
	Job            JobWeights        `mapstructure:"job" yaml:"job"`
	Course         CourseWeights     `mapstructure:"course" yaml:"course"`
	Path           Path              `mapstructure:"path" yaml:"path"`
	Recalibration  Recalibration     `mapstructure:"recalibration" yaml:"recalibration"`
	StrictAliasing bool              `mapstructure:"strict_aliasing" yaml:"strict_aliasing"`
}

var ErrInvalidPolicy = errors.New("invalid policy")

func Default() Policy {
	return Policy{
		Importance: ImportanceWeights{MustHave: 3, Preferred: 2, NiceToHave: 1},
		Job: JobWeights{
			SkillMatch:          40,
			InterestMatch:       15,
			LocationMatch:       15,
			RoleMatch:           15,
			ExperienceMatch:     10,
			Bonus:               5,
			RemotePartialCredit: 10,
			RoleFloor:           5,
		},
		Course: CourseWeights{
			SkillGapFill:        40,
			LevelAppropriate:    25,
			RatingScore:         20,
			EffectivenessScore:  15,
			OneLevelBelowFactor: 0.7,
			OtherLevelFactor:    0.4,
			EffectivenessPrior:  0.5,
		},
		Path: Path{
			Caps:                 StageCaps{Foundation: 3, Core: 4, Advanced: 3},
			LargeGapLevels:       2,
			MinStages:            2,
			ProjectDurationHours: 10,
			PassingScore:         70,
			Adaptive: AdaptiveThresholds{
				RemediationBelow: 50,
				SkipAbove:        90,
				MentorAttempts:   3,
				MentorBelow:      60,
			},
		},
		Recalibration: Recalibration{MinSampleSize: 5, BatchLimit: 500},
	}
}

func (p Policy) Validate() error {
	var problems []string

	if p.Importance.MustHave <= 0 || p.Importance.Preferred <= 0 || p.Importance.NiceToHave <= 0 {
		problems = append(problems, "importance weights must be positive")
	}
	if s := p.Job.total(); s != 100 {
		problems = append(problems, fmt.Sprintf("job weights sum to %.2f, want 100", s))
	}
	if s := p.Course.total(); s != 100 {
		problems = append(problems, fmt.Sprintf("course weights sum to %.2f, want 100", s))
	}
	if p.Job.RoleFloor < 0 || p.Job.RoleFloor > p.Job.RoleMatch {
		problems = append(problems, "role floor must be within role weight")
	}
	if p.Job.RemotePartialCredit < 0 || p.Job.RemotePartialCredit > p.Job.LocationMatch {
		problems = append(problems, "remote partial credit must be within location weight")
	}
	if p.Path.Caps.Foundation <= 0 || p.Path.Caps.Core <= 0 || p.Path.Caps.Advanced <= 0 {
		problems = append(problems, "stage caps must be positive")
	}
	if p.Path.PassingScore < 0 || p.Path.PassingScore > 100 {
		problems = append(problems, "passing score must be within [0,100]")
	}
	if p.Path.LargeGapLevels < 1 {
		problems = append(problems, "large gap levels must be at least 1")
	}
	if p.Recalibration.MinSampleSize < 1 {
		problems = append(problems, "min sample size must be at least 1")
	}
	if p.Recalibration.BatchLimit < 1 {
		problems = append(problems, "batch limit must be at least 1")
	}
	if p.Recalibration.BatchLimit < p.Recalibration.MinSampleSize {
		problems = append(problems, "batch limit must not be below min sample size")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %v", ErrInvalidPolicy, problems)
	}
	return nil
}

func (w JobWeights) total() float64 {
	return w.SkillMatch + w.InterestMatch + w.LocationMatch + w.RoleMatch + w.ExperienceMatch + w.Bonus
}

func (w CourseWeights) total() float64 {
	return w.SkillGapFill + w.LevelAppropriate + w.RatingScore + w.EffectivenessScore
}
