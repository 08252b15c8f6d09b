package learningpath

import (
	"testing"
	"time"

	"skillpath/internal/domain/catalog"
	"skillpath/internal/domain/gap"
	"skillpath/internal/domain/policy"
	"skillpath/internal/domain/proficiency"
	"skillpath/internal/domain/profile"
	"skillpath/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder() *Builder {
	b := NewBuilder(skill.DefaultResolver(), policy.Default().Path)
	b.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return b
}

func analyze(p profile.SkillProfile, reqs ...catalog.Requirement) gap.Report {
	a := gap.NewAnalyzer(skill.DefaultResolver(), policy.Default().Importance)
	return a.Analyze(p, catalog.RequirementSet{Requirements: reqs})
}

func req(name string, imp catalog.Importance, lvl proficiency.Level) catalog.Requirement {
	return catalog.Requirement{SkillName: name, Importance: imp, MinimumProficiency: lvl}
}

func skillsOf(st Stage) []string {
	out := []string{}
	for _, m := range st.Modules {
		out = append(out, m.SkillsCovered...)
	}
	return out
}

func TestBuild_ThreeTiers(t *testing.T) {
	p := profile.SkillProfile{Skills: []profile.Skill{
		{Name: "SQL", Level: proficiency.Beginner},
		{Name: "Docker", Level: proficiency.Intermediate},
	}}
	rep := analyze(p,
		req("Go", catalog.MustHave, proficiency.Intermediate),
		req("SQL", catalog.Preferred, proficiency.Advanced),
		req("Docker", catalog.Preferred, proficiency.Advanced),
		req("Helm", catalog.NiceToHave, proficiency.Beginner),
		req("Kafka", catalog.Preferred, proficiency.Expert),
	)

	courses := []catalog.Course{
		{ID: uuid.New(), Title: "Go Basics", Level: proficiency.Beginner, SkillsTaught: []string{"golang"}, DurationHours: 12},
		{ID: uuid.New(), Title: "Go Advanced", Level: proficiency.Advanced, SkillsTaught: []string{"go"}, DurationHours: 20},
		{ID: uuid.New(), Title: "Docker Deep Dive", Level: proficiency.Advanced, SkillsTaught: []string{"docker"}, DurationHours: 8},
	}

	path := newBuilder().Build(rep, courses)

	require.Len(t, path.Stages, 3)
	assert.Equal(t, StageFoundation, path.Stages[0].Name)
	assert.Equal(t, []string{"Go", "SQL"}, skillsOf(path.Stages[0]))
	assert.Equal(t, StageCore, path.Stages[1].Name)
	assert.Equal(t, []string{"Helm", "Docker"}, skillsOf(path.Stages[1]))
	assert.Equal(t, StageAdvanced, path.Stages[2].Name)
	assert.Equal(t, []string{"Kafka"}, skillsOf(path.Stages[2]))

	goModule := path.Stages[0].Modules[0]
	assert.Equal(t, ModuleCourse, goModule.Type)
	assert.Equal(t, "Go Basics", goModule.Title)
	assert.False(t, goModule.IsOptional)

	helm := path.Stages[1].Modules[0]
	assert.Equal(t, ModuleProject, helm.Type)
	assert.True(t, helm.IsOptional)

	docker := path.Stages[1].Modules[1]
	assert.Equal(t, "Docker Deep Dive", docker.Title, "falls back to any overlapping course")

	total := 0
	for i, st := range path.Stages {
		assert.Equal(t, i+1, st.Order)
		sum := 0
		for _, m := range st.Modules {
			sum += m.DurationHours
		}
		assert.Equal(t, sum, st.DurationHours)
		total += st.DurationHours
	}
	assert.Equal(t, total, path.TotalDurationHours)
	assert.Equal(t, 12+10+10+8+10, path.TotalDurationHours)
}

func TestBuild_EveryTargetSkillYieldsAModule(t *testing.T) {
	rep := analyze(profile.SkillProfile{},
		req("Rust", catalog.MustHave, proficiency.Intermediate),
		req("Zig", catalog.MustHave, proficiency.Intermediate),
	)
	path := newBuilder().Build(rep, nil)

	require.NotEmpty(t, path.Stages)
	for _, st := range path.Stages {
		for _, m := range st.Modules {
			assert.Equal(t, ModuleProject, m.Type)
			assert.Equal(t, 10, m.DurationHours)
			assert.True(t, m.Completion.RequireProject)
		}
	}
	assert.ElementsMatch(t, []string{"Rust", "Zig"}, skillsOf(path.Stages[0]))
}

func TestBuild_SynthesizesAdvancedStage(t *testing.T) {
	rep := analyze(profile.SkillProfile{}, req("Go", catalog.MustHave, proficiency.Intermediate))
	path := newBuilder().Build(rep, nil)

	require.Len(t, path.Stages, 2)
	assert.Equal(t, StageFoundation, path.Stages[0].Name)
	assert.Equal(t, StageAdvanced, path.Stages[1].Name)
	assert.Equal(t, proficiency.Advanced, path.Stages[1].Difficulty)
	assert.Equal(t, []string{"Go"}, skillsOf(path.Stages[1]))
}

func TestBuild_SynthesizesFromCoreWhenNoFoundation(t *testing.T) {
	rep := analyze(profile.SkillProfile{}, req("Helm", catalog.NiceToHave, proficiency.Beginner))
	path := newBuilder().Build(rep, nil)

	require.Len(t, path.Stages, 2)
	assert.Equal(t, StageCore, path.Stages[0].Name)
	assert.Equal(t, StageAdvanced, path.Stages[1].Name)
	assert.False(t, path.Stages[1].Modules[0].IsOptional)
}

func TestBuild_StageCaps(t *testing.T) {
	reqs := []catalog.Requirement{}
	for _, n := range []string{"a1", "b2", "c3", "d4", "e5"} {
		reqs = append(reqs, req(n, catalog.MustHave, proficiency.Intermediate))
	}
	path := newBuilder().Build(analyze(profile.SkillProfile{}, reqs...), nil)

	require.NotEmpty(t, path.Stages)
	assert.Len(t, path.Stages[0].Modules, 3)
}

func TestBuild_NoGapsGivesEmptyPath(t *testing.T) {
	p := profile.SkillProfile{Skills: []profile.Skill{{Name: "Go", Level: proficiency.Expert}}}
	path := newBuilder().Build(analyze(p, req("Go", catalog.MustHave, proficiency.Advanced)), nil)
	assert.Empty(t, path.Stages)
	assert.Equal(t, 0, path.TotalDurationHours)
}

func TestBuild_SharedCourseAppearsOnce(t *testing.T) {
	course := catalog.Course{ID: uuid.New(), Title: "Cloud Native", Level: proficiency.Beginner, SkillsTaught: []string{"docker", "kubernetes"}, DurationHours: 30}
	rep := analyze(profile.SkillProfile{},
		req("Docker", catalog.MustHave, proficiency.Intermediate),
		req("k8s", catalog.MustHave, proficiency.Intermediate),
	)
	path := newBuilder().Build(rep, []catalog.Course{course})

	require.Len(t, path.Stages[0].Modules, 1)
	assert.Equal(t, []string{"Docker", "k8s"}, path.Stages[0].Modules[0].SkillsCovered)
	assert.Equal(t, 30, path.Stages[0].DurationHours)
}

func TestAdaptiveRules_Evaluate(t *testing.T) {
	r := RulesFromPolicy(policy.Default().Path.Adaptive)

	assert.Equal(t, []Action{ActionRemediate}, r.Evaluate(40, 1))
	assert.Equal(t, []Action{ActionAllowSkip}, r.Evaluate(95, 1))
	assert.Equal(t, []Action{ActionMentor}, r.Evaluate(55, 4))
	assert.Equal(t, []Action{ActionRemediate, ActionMentor}, r.Evaluate(30, 5))
	assert.Empty(t, r.Evaluate(75, 10))
}
