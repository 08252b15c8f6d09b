package matching

import (
	"context"
	"time"

	"skillpath/internal/domain/catalog"
	"skillpath/internal/domain/profile"

	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 8

// RankJobs scores jobs on up to workers goroutines and returns them ranked. The output is
// identical to scoring sequentially and calling Rank.
func (s *Scorer) RankJobs(ctx context.Context, p profile.SkillProfile, jobs []catalog.Job, now time.Time, workers int) ([]Result, error) {
	snap := p.Clone()
	return scoreAll(ctx, len(jobs), workers, func(i int) Result {
		return s.ScoreJob(snap, jobs[i], now)
	})
}

func (s *Scorer) RankCourses(ctx context.Context, p profile.SkillProfile, courses []catalog.Course, targetSkills []string, workers int) ([]Result, error) {
	snap := p.Clone()
	targets := append([]string(nil), targetSkills...)
	return scoreAll(ctx, len(courses), workers, func(i int) Result {
		return s.ScoreCourse(snap, courses[i], targets)
	})
}

func scoreAll(ctx context.Context, n, workers int, score func(i int) Result) ([]Result, error) {
	if workers <= 0 {
		workers = defaultWorkers
	}
	out := make([]Result, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = score(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Rank(out), nil
}
