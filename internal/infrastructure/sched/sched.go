package sched

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/shopfront/checkout/internal/observability"
)

const componentScheduler = "scheduler"

// Runner executes submitted tasks on a single dispatch goroutine, detached
// from the submitter. Schedule never blocks and never fails; when the queue
// is full the task is dropped and logged. Tasks run under a context that
// outlives the submitting call.
type Runner struct {
	queue     chan func(ctx context.Context)
	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
	log       observability.Logger
}

func NewRunner(logger observability.Logger, queueSize int) *Runner {
	if logger == nil {
		logger = observability.NopLogger()
	}
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Runner{
		queue: make(chan func(ctx context.Context), queueSize),
		done:  make(chan struct{}),
		log:   logger.With(observability.F("component", componentScheduler)),
	}
}

func (r *Runner) Start(ctx context.Context) {
	r.startOnce.Do(func() {
		bg, cancel := context.WithCancel(context.WithoutCancel(ctx))
		r.cancel = cancel
		go r.dispatchLoop(bg)
		r.log.Info("scheduler_started")
	})
}

// Stop drains the queue, runs what remains, then returns. Safe to call once
// submissions have ceased.
func (r *Runner) Stop(ctx context.Context) {
	r.stopOnce.Do(func() {
		close(r.queue)
		if r.cancel == nil {
			return
		}
		select {
		case <-r.done:
		case <-ctx.Done():
			if r.cancel != nil {
				r.cancel()
			}
			<-r.done
		}
		if r.cancel != nil {
			r.cancel()
		}
		r.log.Info("scheduler_stopped")
	})
}

func (r *Runner) Schedule(task func(ctx context.Context)) {
	if task == nil {
		return
	}
	select {
	case r.queue <- task:
		r.log.Debug("task_enqueued")
	default:
		r.log.Error("task_dropped_queue_full")
	}
}

func (r *Runner) dispatchLoop(ctx context.Context) {
	defer close(r.done)
	for task := range r.queue {
		r.run(ctx, task)
	}
}

func (r *Runner) run(ctx context.Context, task func(ctx context.Context)) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("task_panic",
				observability.F("panic", rec),
				observability.F("stack", string(debug.Stack())),
			)
		}
	}()
	task(ctx)
}

// Nop discards every task. Valid wherever backgrounding is irrelevant.
type Nop struct{}

func (Nop) Schedule(func(ctx context.Context)) {}
