package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donorhub/internal/draw/models"
)

type countingRunner struct {
	calls atomic.Int32
	panic bool
}

func (r *countingRunner) RunIfDue(context.Context) (*models.Record, error) {
	r.calls.Add(1)
	if r.panic {
		panic("boom")
	}
	return nil, nil
}

func TestNewRejectsInvalidSpec(t *testing.T) {
	_, err := New("not a cron spec", &countingRunner{}, nil)
	assert.Error(t, err)
}

func TestSchedulerRunsJobAndSurvivesPanics(t *testing.T) {
	runner := &countingRunner{panic: true}
	s, err := New("* * * * * *", runner, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return runner.calls.Load() >= 2 }, 5*time.Second, 50*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
