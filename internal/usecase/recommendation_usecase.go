package usecase

import (
	"context"
	"time"

	"skillpath/internal/domain/catalog"
	"skillpath/internal/domain/matching"
	"skillpath/internal/repository"

	"github.com/google/uuid"
)

type RecommendationParams struct {
	Limit    int
	MinScore int
	// TargetID narrows course recommendations to one job or role. When nil the target
	// skills are taken from the best job matches.
	TargetID uuid.UUID
}

type JobRecommendation struct {
	Job   catalog.Job
	Match matching.Result
}

type CourseRecommendation struct {
	Course catalog.Course
	Match  matching.Result
}

type RecommendationUsecase interface {
	RecommendJobs(ctx context.Context, profileID uuid.UUID, params RecommendationParams) ([]JobRecommendation, error)
	RecommendCourses(ctx context.Context, profileID uuid.UUID, params RecommendationParams) ([]CourseRecommendation, error)
}

type Recommendation struct {
	profiles repository.ProfileRepository
	catalog  repository.CatalogRepository
	engine   Engine
	workers  int
	pageSize int
	maxJobs  int
	now      func() time.Time
}

func NewRecommendationUsecase(profiles repository.ProfileRepository, catalog repository.CatalogRepository, engine Engine, workers int) *Recommendation {
	return &Recommendation{
		profiles: profiles,
		catalog:  catalog,
		engine:   engine,
		workers:  workers,
		pageSize: 200,
		maxJobs:  5000,
		now:      time.Now,
	}
}

func (u *Recommendation) RecommendJobs(ctx context.Context, profileID uuid.UUID, params RecommendationParams) ([]JobRecommendation, error) {
	limit, err := normalizeLimit(params.Limit)
	if err != nil {
		return nil, err
	}
	p, err := u.profiles.Get(ctx, profileID)
	if err != nil {
		return nil, translate(err)
	}

	jobs, err := u.loadJobs(ctx)
	if err != nil {
		return nil, translate(err)
	}
	byID := make(map[uuid.UUID]catalog.Job, len(jobs))
	for _, j := range jobs {
		byID[j.ID] = j
	}

	ranked, err := u.engine.Scorer.RankJobs(ctx, p, jobs, u.now(), u.workers)
	if err != nil {
		return nil, translate(err)
	}

	out := make([]JobRecommendation, 0, limit)
	for _, r := range ranked {
		if r.Total < params.MinScore {
			continue
		}
		out = append(out, JobRecommendation{Job: byID[r.TargetID], Match: r})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (u *Recommendation) RecommendCourses(ctx context.Context, profileID uuid.UUID, params RecommendationParams) ([]CourseRecommendation, error) {
	limit, err := normalizeLimit(params.Limit)
	if err != nil {
		return nil, err
	}
	p, err := u.profiles.Get(ctx, profileID)
	if err != nil {
		return nil, translate(err)
	}

	var targetSkills []string
	if params.TargetID != uuid.Nil {
		set, err := u.catalog.FindRequirement(ctx, params.TargetID)
		if err != nil {
			return nil, translate(err)
		}
		targetSkills = set.SkillNames()
	} else {
		top, err := u.RecommendJobs(ctx, profileID, RecommendationParams{Limit: 3})
		if err != nil {
			return nil, err
		}
		for _, jr := range top {
			targetSkills = append(targetSkills, jr.Job.Requirements.SkillNames()...)
		}
	}
	targetSkills = u.withCanonical(targetSkills)

	// every course is a candidate; the scorer's gap-fill tiers rank courses outside the
	// target set below those inside it
	courses, err := u.catalog.FindCourses(ctx, catalog.CourseFilter{})
	if err != nil {
		return nil, translate(err)
	}
	byID := make(map[uuid.UUID]catalog.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	ranked, err := u.engine.Scorer.RankCourses(ctx, p, courses, targetSkills, u.workers)
	if err != nil {
		return nil, translate(err)
	}

	out := make([]CourseRecommendation, 0, limit)
	for _, r := range ranked {
		if r.Total < params.MinScore {
			continue
		}
		out = append(out, CourseRecommendation{Course: byID[r.TargetID], Match: r})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (u *Recommendation) loadJobs(ctx context.Context) ([]catalog.Job, error) {
	out := make([]catalog.Job, 0)
	for off := 0; off < u.maxJobs; {
		page, err := u.catalog.ListJobs(ctx, u.pageSize, off)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		out = append(out, page...)
		off += len(page)
	}
	return out, nil
}

// withCanonical appends the canonical form of each name so catalog lookups also hit
// courses that list a skill under its alias.
func (u *Recommendation) withCanonical(names []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(names)*2)
	add := func(v string) {
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, n := range names {
		add(n)
		add(u.engine.Resolver.Canonical(n))
	}
	return out
}

func normalizeLimit(limit int) (int, error) {
	if limit < 0 || limit > 100 {
		return 0, ErrMalformedInput
	}
	if limit == 0 {
		return 10, nil
	}
	return limit, nil
}
