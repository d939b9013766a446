package dummy

import (
	"time"

	"go.uber.org/multierr"

	"github.com/kbukum/providerkit/analytics"
	"github.com/kbukum/providerkit/errors"
	"github.com/kbukum/providerkit/provider"
)

// ProjectFactory returns a provider.Factory that creates ProjectProvider
// instances. Settings: project_id, ready_delay (a duration string).
// A non-nil sched with ticks > 0 overrides ready_delay.
func ProjectFactory(sched *provider.FrameScheduler, ticks int) provider.Factory[analytics.Provider] {
	return func(spec provider.Spec) (analytics.Provider, error) {
		cfg := ProjectConfig{
			ProjectID:  spec.Setting("project_id", ""),
			Scheduler:  sched,
			ReadyTicks: ticks,
		}
		if raw := spec.Setting("ready_delay", ""); raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return nil, errors.InvalidInput("ready_delay", err.Error())
			}
			cfg.ReadyDelay = d
		}
		return NewProjectProvider(provider.NewBaseFromSpec(spec), cfg), nil
	}
}

// KeyFactory returns a provider.Factory that creates KeyProvider
// instances. Settings: public_key.
func KeyFactory() provider.Factory[analytics.Provider] {
	return func(spec provider.Spec) (analytics.Provider, error) {
		return NewKeyProvider(provider.NewBaseFromSpec(spec), spec.Setting("public_key", "")), nil
	}
}

// Register adds the project and key factories to reg.
func Register(reg *provider.Registry[analytics.Provider], sched *provider.FrameScheduler, ticks int) error {
	return multierr.Combine(
		reg.Register(ProjectProviderName, ProjectFactory(sched, ticks)),
		reg.Register(KeyProviderName, KeyFactory()),
	)
}
