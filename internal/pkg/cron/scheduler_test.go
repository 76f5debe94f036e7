package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunOnceExecutesAllJobs(t *testing.T) {
	s := NewScheduler(testLogger)

	var first, second int
	s.AddJob("first", time.Hour, func(_ context.Context) error {
		first++
		return nil
	})
	s.AddJob("second", time.Hour, func(_ context.Context) error {
		second++
		return nil
	})

	s.RunOnce(context.Background())

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}

func TestScheduler_RunOnceContinuesPastFailures(t *testing.T) {
	s := NewScheduler(testLogger)

	var ran bool
	s.AddJob("failing", time.Hour, func(_ context.Context) error {
		return errors.New("boom")
	})
	s.AddJob("after", time.Hour, func(_ context.Context) error {
		ran = true
		return nil
	})

	s.RunOnce(context.Background())

	assert.True(t, ran, "a failing job must not stop the rest")
}
