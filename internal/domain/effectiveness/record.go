package effectiveness

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindCourse Kind = "course"
	KindJob    Kind = "job"
)

type Record struct {
	AverageSkillImprovement float64
	PlacementSuccessRate    float64
	SampleSize              int
	LastCalculated          time.Time
}

func (r Record) HasSufficientSample(minSample int) bool {
	return r.SampleSize >= minSample
}

type Sample struct {
	FeedbackID       uuid.UUID
	SkillImprovement float64
	HasImprovement   bool
	Placed           bool
}

// Aggregate is the per-entity slice of one recalibration batch.
type Aggregate struct {
	Kind     Kind
	EntityID uuid.UUID
	Samples  []Sample
}

func (a Aggregate) Count() int {
	return len(a.Samples)
}

func (a Aggregate) FeedbackIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(a.Samples))
	for _, s := range a.Samples {
		out = append(out, s.FeedbackID)
	}
	return out
}

func (a Aggregate) Sums() (improvementSum float64, improvementCount int, placed int) {
	for _, s := range a.Samples {
		if s.HasImprovement {
			improvementSum += s.SkillImprovement
			improvementCount++
		}
		if s.Placed {
			placed++
		}
	}
	return improvementSum, improvementCount, placed
}

// Restrict keeps only the samples whose feedback id is in keep.
func (a Aggregate) Restrict(keep map[uuid.UUID]struct{}) Aggregate {
	out := Aggregate{Kind: a.Kind, EntityID: a.EntityID, Samples: make([]Sample, 0, len(a.Samples))}
	for _, s := range a.Samples {
		if _, ok := keep[s.FeedbackID]; ok {
			out.Samples = append(out.Samples, s)
		}
	}
	return out
}

// IncrementalMean folds newCount values summing to newSum into a running mean.
func IncrementalMean(oldAvg float64, oldCount int, newSum float64, newCount int) float64 {
	if oldCount < 0 {
		oldCount = 0
	}
	total := oldCount + newCount
	if total <= 0 {
		return oldAvg
	}
	return (oldAvg*float64(oldCount) + newSum) / float64(total)
}

// Fold returns r with a folded in. Counters only grow.
func (r Record) Fold(a Aggregate, at time.Time) Record {
	n := a.Count()
	if n == 0 {
		return r
	}
	sum, cnt, placed := a.Sums()

	out := r
	if cnt > 0 {
		out.AverageSkillImprovement = IncrementalMean(r.AverageSkillImprovement, r.SampleSize, sum, cnt)
	}
	out.PlacementSuccessRate = IncrementalMean(r.PlacementSuccessRate, r.SampleSize, float64(placed)*100, n)
	out.SampleSize = r.SampleSize + n
	out.LastCalculated = at.UTC()
	return out
}

type FoldOutcome string

const (
	FoldCommitted FoldOutcome = "committed"
	FoldDeferred  FoldOutcome = "deferred"
)
