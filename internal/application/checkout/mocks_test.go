package checkout

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/shopfront/checkout/internal/domain/cart"
	"github.com/shopfront/checkout/internal/domain/order"
	"github.com/shopfront/checkout/internal/domain/payment"
	"github.com/shopfront/checkout/internal/observability"
)

// recordingLogger captures message names so tests can count retry/give-up/
// reschedule entries. With returns the same sink; field context is irrelevant
// to what the tests assert.
type recordingLogger struct {
	mu      sync.Mutex
	entries []string
}

func newRecordingLogger() *recordingLogger { return &recordingLogger{} }

func (r *recordingLogger) record(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, msg)
}

func (r *recordingLogger) With(_ ...observability.Field) observability.Logger { return r }
func (r *recordingLogger) Debug(msg string, _ ...observability.Field)         { r.record(msg) }
func (r *recordingLogger) Info(msg string, _ ...observability.Field)          { r.record(msg) }
func (r *recordingLogger) Warn(msg string, _ ...observability.Field)          { r.record(msg) }
func (r *recordingLogger) Error(msg string, _ ...observability.Field)         { r.record(msg) }

func (r *recordingLogger) count(msg string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e == msg {
			n++
		}
	}
	return n
}

func (r *recordingLogger) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

type stubTelemetry struct{ log observability.Logger }

func (s stubTelemetry) Tracer() observability.Tracer   { return observability.NopTracer() }
func (s stubTelemetry) Logger() observability.Logger   { return s.log }
func (s stubTelemetry) Metrics() observability.Metrics { return observability.NopMetrics() }

// stubCart serves one fixed snapshot and records delete calls.
type stubCart struct {
	snapshot    cart.Snapshot
	getErr      error
	deleteErr   error
	deleteCalls atomic.Int32
}

func (s *stubCart) Get(_ context.Context, _ cart.UserID) (cart.Snapshot, error) {
	return s.snapshot, s.getErr
}

func (s *stubCart) Delete(_ context.Context, _ cart.UserID) error {
	s.deleteCalls.Add(1)
	return s.deleteErr
}

// stubPayments fails its first failures attempts, then succeeds. The attempt
// counter is shared across attempts and updated atomically so the
// fails-then-recovers collaborators stay race-free.
type stubPayments struct {
	failures int32
	err      error
	id       payment.ID
	calls    atomic.Int32
}

func (s *stubPayments) Process(_ context.Context, _ cart.UserID, _ int64, _ payment.Card) (payment.ID, error) {
	if n := s.calls.Add(1); n <= s.failures {
		return "", s.err
	}
	return s.id, nil
}

type stubOrders struct {
	failures int32
	err      error
	id       order.ID
	calls    atomic.Int32
}

func (s *stubOrders) Create(_ context.Context, _ cart.UserID, _ payment.ID, _ []cart.Item, _ int64) (order.ID, error) {
	if n := s.calls.Add(1); n <= s.failures {
		return "", s.err
	}
	return s.id, nil
}

// stubScheduler captures submissions without running them; tests invoke Run
// explicitly when the detached task's behavior is under test.
type stubScheduler struct {
	mu    sync.Mutex
	tasks []func(ctx context.Context)
}

func (s *stubScheduler) Schedule(task func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, task)
}

func (s *stubScheduler) submissions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *stubScheduler) Run(ctx context.Context) {
	s.mu.Lock()
	tasks := append(([]func(ctx context.Context))(nil), s.tasks...)
	s.mu.Unlock()
	for _, t := range tasks {
		t(ctx)
	}
}
