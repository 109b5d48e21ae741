package sched

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_RunsScheduledTasks(t *testing.T) {
	r := NewRunner(nil, 16)
	r.Start(context.Background())

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		r.Schedule(func(ctx context.Context) { ran.Add(1) })
	}

	r.Stop(context.Background())
	assert.EqualValues(t, 5, ran.Load())
}

func TestRunner_ScheduleDoesNotBlockWhenFull(t *testing.T) {
	r := NewRunner(nil, 1)
	// Not started: the queue never drains, so the second submission must
	// drop instead of blocking.
	r.Schedule(func(ctx context.Context) {})

	delivered := make(chan struct{})
	go func() {
		r.Schedule(func(ctx context.Context) {})
		close(delivered)
	}()

	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("Schedule blocked on a full queue")
	}
}

func TestRunner_RecoversFromTaskPanic(t *testing.T) {
	r := NewRunner(nil, 16)
	r.Start(context.Background())

	var ran atomic.Int32
	r.Schedule(func(ctx context.Context) { panic("boom") })
	r.Schedule(func(ctx context.Context) { ran.Add(1) })

	r.Stop(context.Background())
	assert.EqualValues(t, 1, ran.Load(), "a panicking task must not kill the dispatcher")
}

func TestRunner_TaskOutlivesSubmitterContext(t *testing.T) {
	r := NewRunner(nil, 16)
	r.Start(context.Background())

	got := make(chan error, 1)
	r.Schedule(func(ctx context.Context) { got <- ctx.Err() })

	select {
	case err := <-got:
		require.NoError(t, err, "task context must not carry the submitter's cancellation")
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}

	r.Stop(context.Background())
}

func TestNop_DiscardsTasks(t *testing.T) {
	var ran atomic.Int32
	Nop{}.Schedule(func(ctx context.Context) { ran.Add(1) })
	assert.EqualValues(t, 0, ran.Load())
}
