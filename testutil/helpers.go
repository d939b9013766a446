package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/kbukum/providerkit/component"
	"github.com/kbukum/providerkit/provider"
)

// THelper provides testing.T integration for component setup.
type THelper struct {
	t   testing.TB
	ctx context.Context
}

// T wraps a testing.TB.
//
//	func TestTicker(t *testing.T) {
//	    testutil.T(t).Setup(ticker)
//	    // ticker is stopped when the test ends
//	}
func T(t testing.TB) *THelper {
	return &THelper{t: t, ctx: context.Background()}
}

// WithContext sets a custom context for the helper.
func (h *THelper) WithContext(ctx context.Context) *THelper {
	h.ctx = ctx
	return h
}

// Setup starts c and registers its Stop with t.Cleanup.
func (h *THelper) Setup(c component.Component) {
	h.t.Helper()
	if err := c.Start(h.ctx); err != nil {
		h.t.Fatalf("failed to start component %s: %v", c.Name(), err)
	}
	h.t.Cleanup(func() {
		if err := c.Stop(h.ctx); err != nil {
			h.t.Errorf("failed to stop component %s: %v", c.Name(), err)
		}
	})
}

// Eventually polls cond until it holds or timeout elapses.
func Eventually(t testing.TB, timeout time.Duration, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out after %v waiting for %s", timeout, what)
		}
		time.Sleep(time.Millisecond)
	}
}

// WaitForWaiters blocks until n goroutines are parked on sched.
func WaitForWaiters(t testing.TB, sched *provider.FrameScheduler, n int) {
	t.Helper()
	Eventually(t, 2*time.Second, func() bool { return sched.Waiting() == n }, "scheduler waiters")
}

// Receive waits for ch to close or deliver within timeout.
func Receive[V any](t testing.TB, ch <-chan V, timeout time.Duration, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(timeout):
		t.Fatalf("timed out after %v waiting for %s", timeout, what)
	}
}
