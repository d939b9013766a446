package provider

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/providerkit/resilience"
	"github.com/kbukum/providerkit/validation"
)

func init() {
	mustRegister("platform", func(fl validator.FieldLevel) bool {
		_, err := ParsePlatform(fl.Field().String())
		return err == nil
	})
	mustRegister("priority", func(fl validator.FieldLevel) bool {
		_, err := ParsePriority(fl.Field().String())
		return err == nil
	})
}

func mustRegister(tag string, fn validator.Func) {
	if err := validation.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("provider: register %q validation: %v", tag, err))
	}
}

// Spec is one provider entry in configuration.
type Spec struct {
	// Name is the provider display name.
	Name string `yaml:"name" mapstructure:"name" validate:"required"`
	// Type selects the registered factory.
	Type string `yaml:"type" mapstructure:"type" validate:"required"`
	// Platforms restricts the provider. Empty means every platform.
	Platforms []Platform `yaml:"platforms" mapstructure:"platforms" validate:"dive,platform"`
	// Priority is a ParsePriority name, matched without case. Empty means low.
	Priority string `yaml:"priority" mapstructure:"priority" validate:"priority"`
	// Enabled defaults to true when omitted.
	Enabled *bool `yaml:"enabled" mapstructure:"enabled"`
	// Settings holds factory-specific values.
	Settings map[string]any `yaml:"settings" mapstructure:"settings"`
}

// IsEnabled reports the configured enablement, defaulting to true.
func (s Spec) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// NormalizedPlatforms returns Platforms in canonical form, so aliases and
// mixed case match ResolvedPlatform. Unknown values, which validation
// rejects, are kept as written.
func (s Spec) NormalizedPlatforms() []Platform {
	out := make([]Platform, 0, len(s.Platforms))
	for _, raw := range s.Platforms {
		if p, err := ParsePlatform(string(raw)); err == nil {
			raw = p
		}
		out = append(out, raw)
	}
	return out
}

// ParsedPriority returns the Priority for the configured name. Unknown
// values, which validation rejects, map to PriorityLow.
func (s Spec) ParsedPriority() Priority {
	p, _ := ParsePriority(s.Priority)
	return p
}

// Setting returns a string setting, or def when it is missing.
func (s Spec) Setting(key, def string) string {
	if v, ok := s.Settings[key].(string); ok && v != "" {
		return v
	}
	return def
}

// Config configures a coordinator and the providers it starts with.
type Config struct {
	// Platform overrides the detected platform.
	Platform string `yaml:"platform" mapstructure:"platform" validate:"omitempty,platform"`
	// TickInterval is the scheduler frame length.
	TickInterval time.Duration `yaml:"tick_interval" mapstructure:"tick_interval" validate:"gte=0"`
	// ReadinessTimeout bounds the readiness wait. Zero waits forever.
	ReadinessTimeout time.Duration `yaml:"readiness_timeout" mapstructure:"readiness_timeout" validate:"gte=0"`
	// InitRetry controls retries of a failing Initialize.
	InitRetry resilience.RetryConfig `yaml:"init_retry" mapstructure:"init_retry"`
	// Providers lists the candidates in attachment order.
	Providers []Spec `yaml:"providers" mapstructure:"providers" validate:"dive"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.TickInterval == 0 {
		c.TickInterval = DefaultFrameInterval
	}
	if c.InitRetry.MaxAttempts == 0 {
		c.InitRetry.MaxAttempts = 1
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// ResolvedPlatform returns the configured platform or CurrentPlatform.
func (c *Config) ResolvedPlatform() Platform {
	if p, err := ParsePlatform(c.Platform); err == nil {
		return p
	}
	return CurrentPlatform()
}

// Options converts the configuration into coordinator options.
func (c *Config) Options() []Option {
	return []Option{
		WithReadinessTimeout(c.ReadinessTimeout),
		WithInitRetry(c.InitRetry),
	}
}
