package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enabledSpec() TriggerSpec {
	return TriggerSpec{Hour: 22, Minute: 0, Timezone: "Asia/Seoul", Enabled: true}
}

func TestRegisterValidation(t *testing.T) {
	s := New()
	noop := func(ctx context.Context) error { return nil }

	assert.Error(t, s.Register("bad-hour", TriggerSpec{Hour: 24, Timezone: "UTC"}, noop))
	assert.Error(t, s.Register("bad-minute", TriggerSpec{Minute: 60, Timezone: "UTC"}, noop))
	assert.Error(t, s.Register("bad-zone", TriggerSpec{Timezone: "Mars/Olympus"}, noop))

	require.NoError(t, s.Register("daily_feedback", enabledSpec(), noop))
	err := s.Register("daily_feedback", enabledSpec(), noop)
	assert.ErrorIs(t, err, ErrDuplicateJob)
}

func TestTriggerNowUnknownJob(t *testing.T) {
	err := New().TriggerNow("nope")
	assert.ErrorIs(t, err, ErrUnknownJob)
}

func TestTriggerNowMutualExclusion(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 2)

	s := New()
	require.NoError(t, s.Register("daily_feedback", enabledSpec(), func(ctx context.Context) error {
		started <- struct{}{}
		<-release
		return nil
	}))

	require.NoError(t, s.TriggerNow("daily_feedback"))
	<-started

	err := s.TriggerNow("daily_feedback")
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	running, err := s.Running("daily_feedback")
	require.NoError(t, err)
	assert.True(t, running)

	close(release)
	require.Eventually(t, func() bool {
		running, _ := s.Running("daily_feedback")
		return !running
	}, time.Second, 10*time.Millisecond)

	// Free again once the first execution finishes.
	assert.NoError(t, s.TriggerNow("daily_feedback"))
}

func TestExecuteRecordsFailure(t *testing.T) {
	s := New()
	require.NoError(t, s.Register("daily_feedback", enabledSpec(), func(ctx context.Context) error {
		return errors.New("batch exploded")
	}))
	require.NoError(t, s.TriggerNow("daily_feedback"))

	require.Eventually(t, func() bool {
		st := s.Status()[0]
		return st.LastRun != nil
	}, time.Second, 10*time.Millisecond)

	st := s.Status()[0]
	assert.Equal(t, "batch exploded", st.LastError)
	assert.False(t, st.Running)
}

func TestExecuteRecoversPanic(t *testing.T) {
	s := New()
	require.NoError(t, s.Register("daily_feedback", enabledSpec(), func(ctx context.Context) error {
		panic("boom")
	}))
	require.NoError(t, s.TriggerNow("daily_feedback"))

	require.Eventually(t, func() bool {
		return s.Status()[0].LastRun != nil
	}, time.Second, 10*time.Millisecond)

	assert.Contains(t, s.Status()[0].LastError, "boom")
}

func TestStatusFields(t *testing.T) {
	s := New()
	require.NoError(t, s.Register("daily_feedback", enabledSpec(), func(ctx context.Context) error { return nil }))
	require.NoError(t, s.Register("disabled_job", TriggerSpec{Hour: 3, Minute: 30, Timezone: "UTC"}, func(ctx context.Context) error { return nil }))

	statuses := s.Status()
	require.Len(t, statuses, 2)

	daily := statuses[0]
	assert.Equal(t, "daily_feedback", daily.ID)
	assert.Equal(t, "22:00", daily.Schedule)
	assert.Equal(t, "Asia/Seoul", daily.Timezone)
	assert.True(t, daily.Enabled)
	assert.Nil(t, daily.LastRun)
	require.NotNil(t, daily.NextFire)
	assert.True(t, daily.NextFire.After(time.Now().Add(-time.Minute)))

	disabled := statuses[1]
	assert.False(t, disabled.Enabled)
	assert.Nil(t, disabled.NextFire)
}

func TestNextFire(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	spec := TriggerSpec{Hour: 22, Minute: 0, Timezone: "Asia/Seoul", Enabled: true}

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"before today's fire",
			time.Date(2026, 8, 31, 10, 0, 0, 0, seoul),
			time.Date(2026, 8, 31, 22, 0, 0, 0, seoul),
		},
		{
			"exactly at fire time rolls to tomorrow",
			time.Date(2026, 8, 31, 22, 0, 0, 0, seoul),
			time.Date(2026, 9, 1, 22, 0, 0, 0, seoul),
		},
		{
			"after today's fire",
			time.Date(2026, 8, 31, 23, 30, 0, 0, seoul),
			time.Date(2026, 9, 1, 22, 0, 0, 0, seoul),
		},
		{
			"now in another zone",
			time.Date(2026, 8, 31, 16, 30, 0, 0, time.UTC), // 01:30 Sep 1 in Seoul
			time.Date(2026, 9, 1, 22, 0, 0, 0, seoul),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextFire(tt.now, spec, seoul)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}
