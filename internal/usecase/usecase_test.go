package usecase

import (
	"context"
	"testing"
	"time"

	"skillpath/internal/domain/catalog"
	"skillpath/internal/domain/policy"
	"skillpath/internal/domain/proficiency"
	"skillpath/internal/domain/profile"
	"skillpath/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store   *repository.MemoryStore
	engine  Engine
	profile profile.SkillProfile
	job     catalog.Job
	goIntro catalog.Course
	k8s     catalog.Course
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := repository.NewMemoryStore()

	p := profile.SkillProfile{
		ID: uuid.New(),
		Skills: []profile.Skill{
			{Name: "JavaScript", Level: proficiency.Advanced, Score: 80},
			{Name: "Go", Level: proficiency.Beginner, Score: 30},
		},
		InterestDomains: []string{"backend"},
		Location:        profile.Location{City: "Berlin"},
		PreferredRoles:  []string{"Backend Engineer"},
	}
	require.NoError(t, store.Save(context.Background(), p))

	job := catalog.Job{
		ID:         uuid.New(),
		Title:      "Backend Engineer",
		City:       "Berlin",
		WorkMode:   catalog.WorkModeHybrid,
		Categories: []string{"backend"},
		Requirements: catalog.RequirementSet{Requirements: []catalog.Requirement{
			{SkillName: "JS", Importance: catalog.MustHave, MinimumProficiency: proficiency.Advanced},
			{SkillName: "Golang", Importance: catalog.MustHave, MinimumProficiency: proficiency.Advanced},
			{SkillName: "Kubernetes", Importance: catalog.Preferred, MinimumProficiency: proficiency.Advanced},
		}},
	}
	store.PutJob(job)

	goIntro := catalog.Course{ID: uuid.New(), Title: "Go in Practice", Level: proficiency.Intermediate, SkillsTaught: []string{"Go"}, DurationHours: 20, Rating: 4.5}
	k8s := catalog.Course{ID: uuid.New(), Title: "Kubernetes Basics", Level: proficiency.Beginner, SkillsTaught: []string{"Kubernetes"}, DurationHours: 12, Rating: 4}
	store.PutCourse(goIntro)
	store.PutCourse(k8s)

	return fixture{
		store:   store,
		engine:  NewEngine(policy.Default(), nil),
		profile: p,
		job:     job,
		goIntro: goIntro,
		k8s:     k8s,
	}
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
