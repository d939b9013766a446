package analytics

import (
	"github.com/kbukum/providerkit/logger"
	"github.com/kbukum/providerkit/resilience"
	"github.com/kbukum/providerkit/validation"
)

// DeliveryConfig bundles the per-provider policies applied to LogEvent.
// A zero value delivers every event directly.
type DeliveryConfig struct {
	// RateLimit caps how fast events reach one provider. Events over the
	// limit are dropped with resilience.ErrRateLimited.
	RateLimit resilience.RateLimiterConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	// CircuitBreaker stops sending to a provider that keeps failing.
	CircuitBreaker resilience.CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
}

// Validate checks both policies.
func (c DeliveryConfig) Validate() error {
	return validation.Validate(c)
}

func (c DeliveryConfig) enabled() bool {
	return c.RateLimit.Enabled || c.CircuitBreaker.Enabled
}

// guard holds one provider's delivery policies. Either field may be nil.
type guard struct {
	limiter *resilience.RateLimiter
	breaker *resilience.CircuitBreaker
}

func newGuard(cfg DeliveryConfig, name string, log *logger.Logger) *guard {
	g := &guard{}
	if cfg.RateLimit.Enabled {
		g.limiter = resilience.NewRateLimiter(cfg.RateLimit)
	}
	if cfg.CircuitBreaker.Enabled {
		bc := cfg.CircuitBreaker
		bc.Name = name
		notify := bc.OnStateChange
		bc.OnStateChange = func(name string, from, to resilience.State) {
			log.Warn("analytics provider breaker changed state", logger.Fields(
				logger.FieldProvider, name,
				logger.FieldState, to.String(),
				"from", from.String(),
			))
			if notify != nil {
				notify(name, from, to)
			}
		}
		g.breaker = resilience.NewCircuitBreaker(bc)
	}
	return g
}

// execute applies the limiter before the breaker, so dropped events never
// count as provider failures.
func (g *guard) execute(send func() error) error {
	if g.limiter != nil && !g.limiter.Allow() {
		return resilience.ErrRateLimited
	}
	if g.breaker != nil {
		return g.breaker.Execute(send)
	}
	return send()
}
