package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/providerkit/component"
	"github.com/kbukum/providerkit/logger"
)

// DefaultFrameInterval is one frame at roughly 60 ticks per second.
const DefaultFrameInterval = 16 * time.Millisecond

// Scheduler suspends the readiness loop until the next tick.
type Scheduler interface {
	// Yield blocks until the next tick or until ctx is done.
	Yield(ctx context.Context) error
}

// IntervalScheduler treats every fixed interval as one tick.
type IntervalScheduler struct {
	interval time.Duration
}

// NewIntervalScheduler creates a scheduler with the given tick interval.
// Non-positive intervals fall back to DefaultFrameInterval.
func NewIntervalScheduler(interval time.Duration) *IntervalScheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &IntervalScheduler{interval: interval}
}

// Interval returns the tick interval.
func (s *IntervalScheduler) Interval() time.Duration { return s.interval }

// Yield implements Scheduler.
func (s *IntervalScheduler) Yield(ctx context.Context) error {
	t := time.NewTimer(s.interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type tickListener struct {
	id uint64
	fn func(frame uint64)
}

// FrameScheduler is a host-driven Scheduler. Every Tick call advances one
// frame: tick listeners run first, then every goroutine parked in Yield is
// released.
type FrameScheduler struct {
	tickMu sync.Mutex

	mu        sync.Mutex
	frame     uint64
	wake      chan struct{}
	waiting   int
	listeners []tickListener
	nextID    uint64
}

// NewFrameScheduler creates a scheduler at frame zero.
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{wake: make(chan struct{})}
}

// Yield implements Scheduler.
func (s *FrameScheduler) Yield(ctx context.Context) error {
	s.mu.Lock()
	wake, frame := s.wake, s.frame
	s.waiting++
	s.mu.Unlock()

	select {
	case <-wake:
		return nil
	case <-ctx.Done():
		s.mu.Lock()
		if s.frame == frame {
			s.waiting--
		}
		s.mu.Unlock()
		return ctx.Err()
	}
}

// Tick advances one frame and returns its number.
func (s *FrameScheduler) Tick() uint64 {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	s.mu.Lock()
	next := s.frame + 1
	listeners := append([]tickListener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(next)
	}

	s.mu.Lock()
	s.frame = next
	close(s.wake)
	s.wake = make(chan struct{})
	s.waiting = 0
	s.mu.Unlock()
	return next
}

// OnTick registers fn to run on every frame before waiters are released.
// The returned func unsubscribes.
func (s *FrameScheduler) OnTick(fn func(frame uint64)) (cancel func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, tickListener{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Frame returns the number of completed frames.
func (s *FrameScheduler) Frame() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Waiting returns how many goroutines are parked on the current frame.
func (s *FrameScheduler) Waiting() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiting
}

// TickerScheduler drives a FrameScheduler from a time.Ticker. It runs as a
// component so the bootstrap lifecycle owns the ticking goroutine.
type TickerScheduler struct {
	*FrameScheduler

	name     string
	interval time.Duration
	log      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTickerScheduler creates a stopped ticker scheduler. Non-positive
// intervals fall back to DefaultFrameInterval.
func NewTickerScheduler(name string, interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &TickerScheduler{
		FrameScheduler: NewFrameScheduler(),
		name:           name,
		interval:       interval,
		log:            logger.Get("provider").WithComponent(name),
	}
}

// Name implements component.Component.
func (s *TickerScheduler) Name() string { return s.name }

// Start spawns the ticking goroutine. Starting twice is a no-op.
func (s *TickerScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(runCtx, s.done)

	s.log.Debug("ticker started", logger.Fields("interval", s.interval.String()))
	return nil
}

func (s *TickerScheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Stop ends the ticking goroutine and waits for it to exit.
func (s *TickerScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		s.log.Debug("ticker stopped", logger.Fields("frames", s.Frame()))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Running reports whether the ticking goroutine is active.
func (s *TickerScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Health implements component.Component.
func (s *TickerScheduler) Health(ctx context.Context) component.Health {
	if s.Running() {
		return component.Health{Name: s.name, Status: component.StatusHealthy}
	}
	return component.Health{Name: s.name, Status: component.StatusUnhealthy, Message: "not running"}
}

// Describe implements component.Describable.
func (s *TickerScheduler) Describe() component.Description {
	return component.Description{
		Name:    s.name,
		Type:    "scheduler",
		Details: fmt.Sprintf("interval=%s", s.interval),
	}
}

var (
	_ Scheduler           = (*IntervalScheduler)(nil)
	_ Scheduler           = (*FrameScheduler)(nil)
	_ component.Component = (*TickerScheduler)(nil)
)
