package effectiveness

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func improvementSamples(vals ...float64) []Sample {
	out := make([]Sample, 0, len(vals))
	for _, v := range vals {
		out = append(out, Sample{FeedbackID: uuid.New(), SkillImprovement: v, HasImprovement: true})
	}
	return out
}

func TestIncrementalMean(t *testing.T) {
	assert.InDelta(t, 73.33, IncrementalMean(70, 10, 180, 2), 0.005)
	assert.Equal(t, 42.0, IncrementalMean(42, 0, 0, 0))
	assert.Equal(t, 50.0, IncrementalMean(0, 0, 100, 2))
}

func TestRecord_Fold(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	r := Record{AverageSkillImprovement: 70, PlacementSuccessRate: 40, SampleSize: 10}

	samples := improvementSamples(90, 90)
	samples[0].Placed = true
	got := r.Fold(Aggregate{Kind: KindCourse, EntityID: uuid.New(), Samples: samples}, at)

	assert.InDelta(t, 73.33, got.AverageSkillImprovement, 0.005)
	assert.InDelta(t, (400.0+100.0)/12.0, got.PlacementSuccessRate, 0.0001)
	assert.Equal(t, 12, got.SampleSize)
	assert.Equal(t, at, got.LastCalculated)
}

func TestRecord_FoldWithoutImprovementKeepsAverage(t *testing.T) {
	r := Record{AverageSkillImprovement: 12, SampleSize: 4}
	agg := Aggregate{Kind: KindJob, Samples: []Sample{{FeedbackID: uuid.New(), Placed: true}, {FeedbackID: uuid.New()}}}

	got := r.Fold(agg, time.Now())
	assert.Equal(t, 12.0, got.AverageSkillImprovement)
	assert.InDelta(t, 100.0/6.0, got.PlacementSuccessRate, 0.0001)
	assert.Equal(t, 6, got.SampleSize)
}

func TestRecord_FoldEmptyIsNoop(t *testing.T) {
	r := Record{AverageSkillImprovement: 1, SampleSize: 3}
	assert.Equal(t, r, r.Fold(Aggregate{}, time.Now()))
}

func TestAggregate_Restrict(t *testing.T) {
	samples := improvementSamples(1, 2, 3)
	agg := Aggregate{Kind: KindCourse, Samples: samples}

	keep := map[uuid.UUID]struct{}{samples[0].FeedbackID: {}, samples[2].FeedbackID: {}}
	got := agg.Restrict(keep)

	assert.Equal(t, 2, got.Count())
	sum, cnt, placed := got.Sums()
	assert.Equal(t, 4.0, sum)
	assert.Equal(t, 2, cnt)
	assert.Equal(t, 0, placed)
	assert.ElementsMatch(t, []uuid.UUID{samples[0].FeedbackID, samples[2].FeedbackID}, got.FeedbackIDs())
}

func TestRecord_HasSufficientSample(t *testing.T) {
	assert.False(t, Record{SampleSize: 4}.HasSufficientSample(5))
	assert.True(t, Record{SampleSize: 5}.HasSufficientSample(5))
}
