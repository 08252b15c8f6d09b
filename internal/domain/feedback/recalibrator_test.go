package feedback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"skillpath/internal/domain/effectiveness"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore mimics the repository contract: claim unprocessed ids, fold only when the
// claimed sample reaches the minimum, all under one lock.
type fakeStore struct {
	mu        sync.Mutex
	processed map[uuid.UUID]bool
	records   map[uuid.UUID]effectiveness.Record
	failFor   map[uuid.UUID]error
	verified  map[uuid.UUID][]string
	folds     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		processed: map[uuid.UUID]bool{},
		records:   map[uuid.UUID]effectiveness.Record{},
		failFor:   map[uuid.UUID]error{},
		verified:  map[uuid.UUID][]string{},
	}
}

func (s *fakeStore) Fold(_ context.Context, agg effectiveness.Aggregate, minSample int) (effectiveness.FoldOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failFor[agg.EntityID]; err != nil {
		return "", err
	}
	keep := map[uuid.UUID]struct{}{}
	for _, id := range agg.FeedbackIDs() {
		if !s.processed[id] {
			keep[id] = struct{}{}
		}
	}
	claimed := agg.Restrict(keep)
	if claimed.Count() < minSample {
		return effectiveness.FoldDeferred, nil
	}
	for id := range keep {
		s.processed[id] = true
	}
	s.records[agg.EntityID] = s.records[agg.EntityID].Fold(claimed, time.Now())
	s.folds++
	return effectiveness.FoldCommitted, nil
}

func (s *fakeStore) MarkProcessed(_ context.Context, ids []uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, id := range ids {
		if !s.processed[id] {
			s.processed[id] = true
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) VerifySkills(_ context.Context, profileID uuid.UUID, skills []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verified[profileID] = append(s.verified[profileID], skills...)
	return nil
}

// unprocessed plays the repository-level filter between runs.
func (s *fakeStore) unprocessed(batch []Record) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Record{}
	for _, r := range batch {
		if !s.processed[r.ID] {
			out = append(out, r)
		}
	}
	return out
}

func f64(v float64) *float64 { return &v }
func bptr(v bool) *bool      { return &v }

func courseFeedback(t *testing.T, courseID uuid.UUID, improvement float64, helped bool) Record {
	t.Helper()
	r, err := NewRecord(TypeCourseEffectiveness, uuid.New(), courseID, Payload{
		SkillImprovement:  f64(improvement),
		HelpedInPlacement: bptr(helped),
	}, time.Now())
	require.NoError(t, err)
	return r
}

func newRecalibrator(s *fakeStore) *Recalibrator {
	return NewRecalibrator(s, s, s, 5, zap.NewNop())
}

func TestRecalibrate_CommitsWhenBatchReachesMinimum(t *testing.T) {
	store := newFakeStore()
	course := uuid.New()
	store.records[course] = effectiveness.Record{AverageSkillImprovement: 70, SampleSize: 10}

	batch := []Record{}
	for i := 0; i < 5; i++ {
		batch = append(batch, courseFeedback(t, course, 90, i < 2))
	}

	in, err := newRecalibrator(store).Recalibrate(context.Background(), batch)
	require.NoError(t, err)

	require.Len(t, in.Committed, 1)
	assert.Empty(t, in.Deferred)
	assert.Equal(t, 5, in.Processed)

	rec := store.records[course]
	assert.Equal(t, 15, rec.SampleSize)
	assert.InDelta(t, (700.0+450.0)/15.0, rec.AverageSkillImprovement, 1e-9)
	assert.InDelta(t, 200.0/15.0, rec.PlacementSuccessRate, 1e-9)
}

func TestRecalibrate_DefersSmallBatchAndLeavesRecordsUnprocessed(t *testing.T) {
	store := newFakeStore()
	course := uuid.New()

	batch := []Record{}
	for i := 0; i < 4; i++ {
		batch = append(batch, courseFeedback(t, course, 50, false))
	}

	in, err := newRecalibrator(store).Recalibrate(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, in.Deferred, 1)
	assert.Equal(t, effectiveness.FoldDeferred, in.Deferred[0].Outcome)
	assert.Equal(t, 0, in.Processed)
	assert.Len(t, store.unprocessed(batch), 4)
	_, touched := store.records[course]
	assert.False(t, touched)

	// the deferred records accumulate into the next batch
	batch = append(store.unprocessed(batch), courseFeedback(t, course, 50, true))
	in, err = newRecalibrator(store).Recalibrate(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, in.Committed, 1)
	assert.Equal(t, 5, store.records[course].SampleSize)
}

func TestRecalibrate_IdempotentOnRerun(t *testing.T) {
	store := newFakeStore()
	course := uuid.New()
	job := uuid.New()

	batch := []Record{}
	for i := 0; i < 6; i++ {
		batch = append(batch, courseFeedback(t, course, 20, true))
		r, err := NewRecord(TypePlacementOutcome, uuid.New(), job, Payload{Placed: bptr(i%2 == 0)}, time.Now())
		require.NoError(t, err)
		batch = append(batch, r)
	}

	rc := newRecalibrator(store)
	_, err := rc.Recalibrate(context.Background(), batch)
	require.NoError(t, err)
	snapshot := map[uuid.UUID]effectiveness.Record{course: store.records[course], job: store.records[job]}

	second := store.unprocessed(batch)
	assert.Empty(t, second)
	in, err := rc.Recalibrate(context.Background(), second)
	require.NoError(t, err)
	assert.Empty(t, in.Committed)
	assert.Equal(t, snapshot[course], store.records[course])
	assert.Equal(t, snapshot[job], store.records[job])

	// replaying the original batch is also harmless: every id is already claimed
	_, err = rc.Recalibrate(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, snapshot[course], store.records[course])
	assert.Equal(t, 2, store.folds)
}

func TestRecalibrate_RecommendationAccuracyInsights(t *testing.T) {
	store := newFakeStore()
	batch := []Record{}
	for i, ok := range []bool{true, true, false, true} {
		p := Payload{Accurate: bptr(ok)}
		if i < 2 {
			p.Rating = f64(float64(4 + i))
		}
		r, err := NewRecord(TypeRecommendationAccuracy, uuid.New(), uuid.Nil, p, time.Now())
		require.NoError(t, err)
		batch = append(batch, r)
	}

	in, err := newRecalibrator(store).Recalibrate(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 4, in.RecommendationSamples)
	assert.Equal(t, 75.0, in.RecommendationAccuracy)
	assert.Equal(t, 4.5, in.AverageRating)
	assert.Equal(t, 4, in.Processed)
	assert.Empty(t, store.unprocessed(batch))
}

func TestRecalibrate_FailedEntityStaysUnprocessed(t *testing.T) {
	store := newFakeStore()
	good, bad := uuid.New(), uuid.New()
	store.failFor[bad] = errors.New("connection reset")

	batch := []Record{}
	for i := 0; i < 5; i++ {
		batch = append(batch, courseFeedback(t, good, 10, false), courseFeedback(t, bad, 10, false))
	}

	in, err := newRecalibrator(store).Recalibrate(context.Background(), batch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	require.Len(t, in.Committed, 1)
	assert.Equal(t, good, in.Committed[0].EntityID)

	left := store.unprocessed(batch)
	assert.Len(t, left, 5)
	for _, r := range left {
		assert.Equal(t, bad, r.RelatedEntityID)
	}
}

func TestRecalibrate_CancelledBeforeAnyCommit(t *testing.T) {
	store := newFakeStore()
	course := uuid.New()
	batch := []Record{}
	for i := 0; i < 5; i++ {
		batch = append(batch, courseFeedback(t, course, 10, false))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRecalibrator(store).Recalibrate(ctx, batch)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, store.unprocessed(batch), 5)
	assert.Equal(t, 0, store.folds)
}

func TestRecalibrate_VerifiesSkillsOnCommittedPlacements(t *testing.T) {
	store := newFakeStore()
	job := uuid.New()
	placedProfile := uuid.New()

	batch := []Record{}
	for i := 0; i < 5; i++ {
		subject := uuid.New()
		p := Payload{Placed: bptr(false)}
		if i == 0 {
			subject = placedProfile
			p = Payload{Placed: bptr(true), VerifiedSkills: []string{"Go", "SQL"}}
		}
		r, err := NewRecord(TypePlacementOutcome, subject, job, p, time.Now())
		require.NoError(t, err)
		batch = append(batch, r)
	}

	_, err := newRecalibrator(store).Recalibrate(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL"}, store.verified[placedProfile])
	assert.Len(t, store.verified, 1)
}

func TestRecalibrate_MalformedStoredRecordIsSkippedAndRetired(t *testing.T) {
	store := newFakeStore()
	bad := Record{ID: uuid.New(), Type: TypeCourseEffectiveness, SubjectProfileID: uuid.New(), State: StateUnprocessed}

	in, err := newRecalibrator(store).Recalibrate(context.Background(), []Record{bad})
	require.NoError(t, err)
	assert.Equal(t, 1, in.Skipped)
	assert.Empty(t, store.unprocessed([]Record{bad}))
}
