package testutil

import (
	"context"
	"sync"

	"github.com/kbukum/providerkit/provider"
)

// StubProvider is a scriptable provider.Provider.
type StubProvider struct {
	*provider.Base

	mu          sync.Mutex
	initCalls   int
	closeCalls  int
	initErrs    []error
	panicValue  any
	closeErr    error
	manual      bool
	sched       *provider.FrameScheduler
	readyAfter  int
	initCtx     context.Context
	unsubscribe func()
}

// StubOption configures a StubProvider.
type StubOption func(*stubConfig)

type stubConfig struct {
	base []provider.BaseOption
	stub []func(*StubProvider)
}

// Priority sets the stub priority.
func Priority(p provider.Priority) StubOption {
	return func(c *stubConfig) { c.base = append(c.base, provider.WithPriority(p)) }
}

// Platforms restricts the stub to platforms.
func Platforms(platforms ...provider.Platform) StubOption {
	return func(c *stubConfig) { c.base = append(c.base, provider.WithPlatforms(platforms...)) }
}

// Disabled starts the stub disabled.
func Disabled() StubOption {
	return func(c *stubConfig) { c.base = append(c.base, provider.WithEnabled(false)) }
}

// FailInit makes successive Initialize calls return errs in order. Calls
// past the end of errs succeed.
func FailInit(errs ...error) StubOption {
	return func(c *stubConfig) {
		c.stub = append(c.stub, func(s *StubProvider) { s.initErrs = append(s.initErrs, errs...) })
	}
}

// PanicOnInit makes Initialize panic with v.
func PanicOnInit(v any) StubOption {
	return func(c *stubConfig) {
		c.stub = append(c.stub, func(s *StubProvider) { s.panicValue = v })
	}
}

// CloseError makes Close return err.
func CloseError(err error) StubOption {
	return func(c *stubConfig) {
		c.stub = append(c.stub, func(s *StubProvider) { s.closeErr = err })
	}
}

// ManualReady leaves the stub not ready after Initialize until MarkReady.
func ManualReady() StubOption {
	return func(c *stubConfig) {
		c.stub = append(c.stub, func(s *StubProvider) { s.manual = true })
	}
}

// ReadyAfterTicks makes the stub ready on the n-th sched tick after
// Initialize.
func ReadyAfterTicks(sched *provider.FrameScheduler, n int) StubOption {
	return func(c *stubConfig) {
		c.stub = append(c.stub, func(s *StubProvider) {
			s.sched = sched
			s.readyAfter = n
		})
	}
}

// NewStub creates an enabled stub that becomes ready during Initialize
// unless configured otherwise.
func NewStub(name string, opts ...StubOption) *StubProvider {
	var cfg stubConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &StubProvider{Base: provider.NewBase(name, cfg.base...)}
	for _, apply := range cfg.stub {
		apply(s)
	}
	return s
}

// Initialize implements provider.Provider.
func (s *StubProvider) Initialize(ctx context.Context) error {
	s.mu.Lock()
	s.initCalls++
	s.initCtx = ctx
	if s.panicValue != nil {
		v := s.panicValue
		s.mu.Unlock()
		panic(v)
	}
	if len(s.initErrs) > 0 {
		err := s.initErrs[0]
		s.initErrs = s.initErrs[1:]
		s.mu.Unlock()
		return err
	}
	manual, sched, n := s.manual, s.sched, s.readyAfter
	s.mu.Unlock()

	switch {
	case manual:
	case sched != nil && n > 0:
		ticks := 0
		unsubscribe := sched.OnTick(func(uint64) {
			ticks++
			if ticks >= n {
				s.MarkReady()
			}
		})
		s.mu.Lock()
		s.unsubscribe = unsubscribe
		s.mu.Unlock()
	default:
		s.MarkReady()
	}
	return nil
}

// Close implements provider.Closeable.
func (s *StubProvider) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeCalls++
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	return s.closeErr
}

// InitCalls returns how many times Initialize ran.
func (s *StubProvider) InitCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initCalls
}

// CloseCalls returns how many times Close ran.
func (s *StubProvider) CloseCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeCalls
}

// InitContext returns the context passed to the last Initialize call.
func (s *StubProvider) InitContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initCtx
}

var (
	_ provider.Provider  = (*StubProvider)(nil)
	_ provider.Closeable = (*StubProvider)(nil)
)
