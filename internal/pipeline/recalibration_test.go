package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"skillpath/internal/domain/feedback"
	"skillpath/internal/infrastructure/cache"
	"skillpath/internal/usecase"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRecalibration struct {
	calls  atomic.Int32
	err    error
	during func()
}

func (f *fakeRecalibration) Run(ctx context.Context) (feedback.Insights, error) {
	f.calls.Add(1)
	if f.during != nil {
		f.during()
	}
	now := time.Now()
	return feedback.Insights{RunID: uuid.New(), StartedAt: now, FinishedAt: now, Fetched: 3, Processed: 3}, f.err
}

func (f *fakeRecalibration) Last() (feedback.Insights, bool) { return feedback.Insights{}, false }

func newLocker(t *testing.T) (*cache.Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisWithClient(client, time.Minute, zap.NewNop()), mr
}

func TestRecalibrationPipeline_RunOnceHoldsLock(t *testing.T) {
	locker, mr := newLocker(t)
	fake := &fakeRecalibration{}
	fake.during = func() {
		assert.True(t, mr.Exists(RecalibrationLockKey))
	}
	p := NewRecalibrationPipeline(fake, locker, time.Minute, zap.NewNop())

	in, err := p.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, in.Processed)
	assert.Equal(t, int32(1), fake.calls.Load())
	assert.False(t, mr.Exists(RecalibrationLockKey))
}

func TestRecalibrationPipeline_SkipsWhenLocked(t *testing.T) {
	locker, mr := newLocker(t)
	require.NoError(t, mr.Set(RecalibrationLockKey, "other-instance"))
	fake := &fakeRecalibration{}
	p := NewRecalibrationPipeline(fake, locker, time.Minute, zap.NewNop())

	_, err := p.RunOnce(context.Background())
	assert.ErrorIs(t, err, ErrRunInProgress)
	assert.ErrorIs(t, err, usecase.ErrConflict)
	assert.Zero(t, fake.calls.Load())

	v, err := mr.Get(RecalibrationLockKey)
	require.NoError(t, err)
	assert.Equal(t, "other-instance", v)
}

func TestRecalibrationPipeline_FailureReleasesLock(t *testing.T) {
	locker, mr := newLocker(t)
	boom := errors.New("boom")
	fake := &fakeRecalibration{err: boom}
	p := NewRecalibrationPipeline(fake, locker, time.Minute, zap.NewNop())

	_, err := p.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists(RecalibrationLockKey))
}

func TestRecalibrationPipeline_WithoutLocker(t *testing.T) {
	fake := &fakeRecalibration{}
	p := NewRecalibrationPipeline(fake, nil, time.Minute, nil)

	_, err := p.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), fake.calls.Load())
}

func TestRecalibrationPipeline_StartTicksUntilCancelled(t *testing.T) {
	locker, _ := newLocker(t)
	fake := &fakeRecalibration{}
	p := NewRecalibrationPipeline(fake, locker, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return fake.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
