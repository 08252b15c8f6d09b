package learningpath

import (
	"fmt"
	"strings"
	"time"

	"skillpath/internal/domain/catalog"
	"skillpath/internal/domain/gap"
	"skillpath/internal/domain/policy"
	"skillpath/internal/domain/proficiency"
	"skillpath/internal/domain/skill"

	"github.com/google/uuid"
)

const (
	StageFoundation = "Foundation"
	StageCore       = "Core"
	StageAdvanced   = "Advanced"
)

type stageSkill struct {
	name        string
	importance  catalog.Importance
	targetLevel proficiency.Level
}

type Builder struct {
	resolver *skill.Resolver
	cfg      policy.Path
	now      func() time.Time
}

func NewBuilder(resolver *skill.Resolver, cfg policy.Path) *Builder {
	if resolver == nil {
		resolver = skill.DefaultResolver()
	}
	return &Builder{resolver: resolver, cfg: cfg, now: time.Now}
}

func (b *Builder) Build(report gap.Report, courses []catalog.Course) Path {
	foundation, core, advanced := b.classify(report)

	type plan struct {
		name       string
		difficulty proficiency.Level
		skills     []stageSkill
	}
	plans := make([]plan, 0, 3)
	if len(foundation) > 0 {
		plans = append(plans, plan{StageFoundation, proficiency.Beginner, foundation})
	}
	if len(core) > 0 {
		plans = append(plans, plan{StageCore, proficiency.Intermediate, core})
	}
	if len(advanced) > 0 {
		plans = append(plans, plan{StageAdvanced, proficiency.Advanced, advanced})
	} else if len(plans) > 0 && len(plans) < b.cfg.MinStages {
		src := foundation
		if len(src) == 0 {
			src = core
		}
		plans = append(plans, plan{StageAdvanced, proficiency.Advanced, src})
	}

	p := Path{
		ID:            uuid.New(),
		Stages:        make([]Stage, 0, len(plans)),
		AdaptiveRules: RulesFromPolicy(b.cfg.Adaptive),
		CreatedAt:     b.now().UTC(),
	}
	for i, pl := range plans {
		st := b.buildStage(i+1, pl.name, pl.difficulty, pl.skills, courses)
		p.TotalDurationHours += st.DurationHours
		p.Stages = append(p.Stages, st)
	}
	return p
}

func (b *Builder) classify(report gap.Report) (foundation, core, advanced []stageSkill) {
	placed := map[string]struct{}{}
	take := func(dst []stageSkill, limit int, e gap.Entry) []stageSkill {
		key := skill.Normalize(e.Requirement.SkillName)
		if _, ok := placed[key]; ok || len(dst) >= limit {
			return dst
		}
		placed[key] = struct{}{}
		return append(dst, stageSkill{
			name:        e.Requirement.SkillName,
			importance:  e.Requirement.Importance,
			targetLevel: e.Requirement.MinimumProficiency,
		})
	}

	caps := b.cfg.Caps
	for _, e := range report.Missing {
		if e.Requirement.Importance == catalog.MustHave {
			foundation = take(foundation, caps.Foundation, e)
		}
	}
	for _, e := range report.PartialMatch {
		if b.levelGap(e) >= b.cfg.LargeGapLevels {
			foundation = take(foundation, caps.Foundation, e)
		}
	}

	for _, e := range report.Missing {
		if e.Requirement.Importance == catalog.NiceToHave {
			core = take(core, caps.Core, e)
		}
	}
	for _, e := range report.PartialMatch {
		if g := b.levelGap(e); g > 0 && g < b.cfg.LargeGapLevels {
			core = take(core, caps.Core, e)
		}
	}

	remaining := make([]gap.Entry, 0, len(report.Missing)+len(report.PartialMatch))
	remaining = append(remaining, report.Missing...)
	remaining = append(remaining, report.PartialMatch...)
	for _, e := range remaining {
		if proficiency.Rank(e.Requirement.MinimumProficiency) >= proficiency.Rank(proficiency.Advanced) {
			advanced = take(advanced, caps.Advanced, e)
		}
	}
	return foundation, core, advanced
}

func (b *Builder) levelGap(e gap.Entry) int {
	return proficiency.Rank(e.Requirement.MinimumProficiency) - proficiency.Rank(e.UserLevel)
}

func (b *Builder) buildStage(order int, name string, difficulty proficiency.Level, skills []stageSkill, courses []catalog.Course) Stage {
	st := Stage{
		Order:      order,
		Name:       name,
		Difficulty: difficulty,
		Modules:    make([]Module, 0, len(skills)),
	}

	byCourse := map[uuid.UUID]int{}
	names := make([]string, 0, len(skills))
	for _, sk := range skills {
		names = append(names, sk.name)
		optional := sk.importance == catalog.NiceToHave && name != StageAdvanced

		c, ok := b.findCourse(sk.name, difficulty, courses)
		if !ok {
			st.Modules = append(st.Modules, b.projectModule(sk, optional))
			continue
		}
		if idx, seen := byCourse[c.ID]; seen {
			m := &st.Modules[idx]
			if !containsFold(m.SkillsCovered, sk.name) {
				m.SkillsCovered = append(m.SkillsCovered, sk.name)
			}
			m.IsOptional = m.IsOptional && optional
			continue
		}
		byCourse[c.ID] = len(st.Modules)
		st.Modules = append(st.Modules, b.courseModule(c, sk, optional))
	}

	for _, m := range st.Modules {
		st.DurationHours += m.DurationHours
	}
	st.Milestone = fmt.Sprintf("%s complete: %s", name, strings.Join(names, ", "))
	return st
}

func (b *Builder) findCourse(skillName string, difficulty proficiency.Level, courses []catalog.Course) (catalog.Course, bool) {
	fallback := -1
	for i, c := range courses {
		if !b.resolver.MatchesAny(skillName, c.SkillsTaught) {
			continue
		}
		if proficiency.Rank(c.Level) == proficiency.Rank(difficulty) {
			return c, true
		}
		if fallback < 0 {
			fallback = i
		}
	}
	if fallback >= 0 {
		return courses[fallback], true
	}
	return catalog.Course{}, false
}

func (b *Builder) courseModule(c catalog.Course, sk stageSkill, optional bool) Module {
	dur := c.DurationHours
	if dur < 0 {
		dur = 0
	}
	return Module{
		ID:            uuid.New(),
		Type:          ModuleCourse,
		Title:         c.Title,
		CourseID:      c.ID,
		SkillsCovered: []string{sk.name},
		IsOptional:    optional,
		DurationHours: dur,
		Completion: CompletionCriteria{
			MinScore:    b.cfg.PassingScore,
			Description: fmt.Sprintf("finish %q and pass its assessment", c.Title),
		},
	}
}

func (b *Builder) projectModule(sk stageSkill, optional bool) Module {
	return Module{
		ID:            uuid.New(),
		Type:          ModuleProject,
		Title:         fmt.Sprintf("%s project", sk.name),
		SkillsCovered: []string{sk.name},
		IsOptional:    optional,
		DurationHours: b.cfg.ProjectDurationHours,
		Completion: CompletionCriteria{
			MinScore:       b.cfg.PassingScore,
			RequireProject: true,
			Description:    fmt.Sprintf("ship a project demonstrating %s at %s level", sk.name, sk.targetLevel),
		},
	}
}

func containsFold(list []string, v string) bool {
	n := skill.Normalize(v)
	for _, it := range list {
		if skill.Normalize(it) == n {
			return true
		}
	}
	return false
}
