package dummy

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/providerkit/errors"
	"github.com/kbukum/providerkit/logger"
	"github.com/kbukum/providerkit/provider"
)

const (
	// ProjectProviderName is the registered type of ProjectProvider.
	ProjectProviderName = "project"

	// DefaultReadyDelay is how long ProjectProvider takes to log in.
	DefaultReadyDelay = 2 * time.Second
)

// ProjectConfig holds configuration for ProjectProvider.
type ProjectConfig struct {
	ProjectID string
	// ReadyDelay is used when no tick scheduler is set.
	ReadyDelay time.Duration
	// Scheduler and ReadyTicks make readiness follow scheduler frames
	// instead of the wall clock.
	Scheduler  *provider.FrameScheduler
	ReadyTicks int
}

// ProjectProvider logs in with a project id and becomes ready after a
// delay or a number of scheduler ticks.
type ProjectProvider struct {
	*provider.Base
	recorder

	cfg ProjectConfig
	log *logger.Logger

	mu          sync.Mutex
	armed       bool
	cancel      context.CancelFunc
	done        chan struct{}
	unsubscribe func()
}

// NewProjectProvider creates a ProjectProvider on base.
func NewProjectProvider(base *provider.Base, cfg ProjectConfig) *ProjectProvider {
	if cfg.ReadyDelay <= 0 {
		cfg.ReadyDelay = DefaultReadyDelay
	}
	return &ProjectProvider{
		Base: base,
		cfg:  cfg,
		log:  logger.Get("analytics").WithComponent(base.Name()),
	}
}

// ProjectID returns the configured project id.
func (p *ProjectProvider) ProjectID() string { return p.cfg.ProjectID }

// Initialize starts the log-in. ctx bounds the wait for readiness.
func (p *ProjectProvider) Initialize(ctx context.Context) error {
	if p.cfg.ProjectID == "" {
		return errors.InvalidInput("project_id", "project id is required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.armed {
		return nil
	}
	p.armed = true

	p.log.Info("logging in", logger.Fields("project_id", p.cfg.ProjectID))

	if p.cfg.Scheduler != nil && p.cfg.ReadyTicks > 0 {
		seen, want := 0, p.cfg.ReadyTicks
		p.unsubscribe = p.cfg.Scheduler.OnTick(func(uint64) {
			seen++
			if seen >= want {
				p.MarkReady()
			}
		})
		return nil
	}

	loginCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.login(loginCtx, p.done)
	return nil
}

func (p *ProjectProvider) login(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	timer := time.NewTimer(p.cfg.ReadyDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		p.MarkReady()
	case <-ctx.Done():
		p.log.Debug("log in abandoned", logger.Fields(logger.FieldError, ctx.Err().Error()))
	}
}

// Close stops a pending log-in and waits for it to exit.
func (p *ProjectProvider) Close(ctx context.Context) error {
	p.mu.Lock()
	cancel, done, unsubscribe := p.cancel, p.done, p.unsubscribe
	p.cancel, p.done, p.unsubscribe = nil, nil, nil
	p.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogEvent implements analytics.Provider.
func (p *ProjectProvider) LogEvent(ctx context.Context, name string, params map[string]string) error {
	if !p.IsReady() {
		return errors.NotReady(p.Name())
	}
	p.record(name, params)
	p.log.WithContext(ctx).Info("LogEvent "+name, logger.Fields(logger.FieldEvent, name))
	return nil
}
