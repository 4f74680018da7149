package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSchedulerRunsJobsUntilStopped(t *testing.T) {
	s := NewScheduler()

	var runs atomic.Int32
	require.NoError(t, s.AddJob(Job{
		Name:       "tick",
		Interval:   5 * time.Millisecond,
		RunOnStart: true,
		Fn: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	}))

	s.Start(context.Background())
	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, time.Millisecond)
	s.Stop()

	stopped := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
}

func TestSchedulerStopsWithParentContext(t *testing.T) {
	s := NewScheduler()
	require.NoError(t, s.AddJob(Job{Name: "noop", Interval: time.Hour, Fn: func(ctx context.Context) error { return nil }}))

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()
	s.Stop()
}

func TestSchedulerSurvivesFailingJobs(t *testing.T) {
	s := NewScheduler()

	var runs atomic.Int32
	require.NoError(t, s.AddJob(Job{
		Name:       "panics",
		Interval:   5 * time.Millisecond,
		RunOnStart: true,
		Fn: func(ctx context.Context) error {
			runs.Add(1)
			panic("boom")
		},
	}))
	require.NoError(t, s.AddJob(Job{
		Name:     "fails",
		Interval: 5 * time.Millisecond,
		Fn:       func(ctx context.Context) error { return errors.New("unreachable database") },
	}))

	s.Start(context.Background())
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, time.Millisecond)
	s.Stop()
}

func TestAddJobValidates(t *testing.T) {
	s := NewScheduler()
	assert.Error(t, s.AddJob(Job{Name: "zero", Fn: func(ctx context.Context) error { return nil }}))
	assert.Error(t, s.AddJob(Job{Name: "nil", Interval: time.Second}))

	// Stop without Start is a no-op
	s.Stop()
}

func TestRunOnce(t *testing.T) {
	s := NewScheduler()

	var order []string
	require.NoError(t, s.AddJob(Job{Name: "first", Interval: time.Hour, Fn: func(ctx context.Context) error {
		order = append(order, "first")
		return errors.New("first failed")
	}}))
	require.NoError(t, s.AddJob(Job{Name: "second", Interval: time.Hour, Fn: func(ctx context.Context) error {
		order = append(order, "second")
		return nil
	}}))

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")
	assert.Equal(t, []string{"first", "second"}, order)
}
