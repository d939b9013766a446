package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kbukum/providerkit/component"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestFrameSchedulerTickReleasesWaiters(t *testing.T) {
	s := NewFrameScheduler()
	done := make(chan error, 2)
	for range 2 {
		go func() { done <- s.Yield(context.Background()) }()
	}
	waitFor(t, func() bool { return s.Waiting() == 2 })

	if frame := s.Tick(); frame != 1 {
		t.Errorf("expected frame 1, got %d", frame)
	}
	for range 2 {
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("unexpected yield error: %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("waiter not released")
		}
	}
	if s.Waiting() != 0 {
		t.Errorf("expected no waiters after tick, got %d", s.Waiting())
	}
	if s.Frame() != 1 {
		t.Errorf("expected Frame 1, got %d", s.Frame())
	}
}

func TestFrameSchedulerYieldCanceled(t *testing.T) {
	s := NewFrameScheduler()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Yield(ctx) }()
	waitFor(t, func() bool { return s.Waiting() == 1 })

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("yield did not return on cancel")
	}
	if s.Waiting() != 0 {
		t.Errorf("expected waiter count to drop, got %d", s.Waiting())
	}
}

func TestFrameSchedulerListenersRunBeforeRelease(t *testing.T) {
	s := NewFrameScheduler()
	var order []string
	var seen []uint64
	cancelA := s.OnTick(func(frame uint64) {
		order = append(order, "a")
		seen = append(seen, frame)
	})
	s.OnTick(func(uint64) { order = append(order, "b") })

	released := make(chan struct{})
	go func() {
		_ = s.Yield(context.Background())
		close(released)
	}()
	waitFor(t, func() bool { return s.Waiting() == 1 })

	s.Tick()
	<-released
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("expected listeners in registration order, got %v", order)
	}

	cancelA()
	s.Tick()
	if len(order) != 3 || order[2] != "b" {
		t.Errorf("expected only b after unsubscribe, got %v", order)
	}
	if len(seen) != 1 || seen[0] != 1 {
		t.Errorf("expected listener to see frame 1, got %v", seen)
	}
}

func TestIntervalScheduler(t *testing.T) {
	s := NewIntervalScheduler(0)
	if s.Interval() != DefaultFrameInterval {
		t.Errorf("expected default interval, got %v", s.Interval())
	}

	s = NewIntervalScheduler(time.Millisecond)
	if err := s.Yield(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewIntervalScheduler(time.Hour).Yield(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestTickerSchedulerLifecycle(t *testing.T) {
	s := NewTickerScheduler("ticker", time.Millisecond)
	ctx := context.Background()

	if h := s.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := s.Start(ctx); err != nil {
		t.Fatalf("second Start failed: %v", err)
	}
	if h := s.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy while running, got %s", h.Status)
	}

	if err := s.Yield(ctx); err != nil {
		t.Fatalf("Yield failed: %v", err)
	}
	waitFor(t, func() bool { return s.Frame() >= 2 })

	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if s.Running() {
		t.Error("expected not running after Stop")
	}
	if err := s.Stop(ctx); err != nil {
		t.Errorf("second Stop failed: %v", err)
	}
	if d := s.Describe(); d.Type != "scheduler" || d.Name != "ticker" {
		t.Errorf("unexpected description: %+v", d)
	}
}
