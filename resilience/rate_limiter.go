package resilience

import (
	"context"
	"errors"

	"golang.org/x/time/rate"

	"github.com/kbukum/providerkit/validation"
)

// ErrRateLimited is returned by Execute when no token is available.
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimiterConfig configures a token bucket.
type RateLimiterConfig struct {
	// Enabled turns the limiter on for callers that build one per target.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Rate is the sustained number of calls per second.
	Rate float64 `yaml:"rate" mapstructure:"rate" validate:"gte=0"`
	// Burst is the bucket size.
	Burst int `yaml:"burst" mapstructure:"burst" validate:"gte=0"`
}

// Validate checks the configured bounds.
func (c RateLimiterConfig) Validate() error {
	return validation.Validate(c)
}

// DefaultRateLimiterConfig allows 10 calls per second with bursts of 20.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{Enabled: true, Rate: 10, Burst: 20}
}

// RateLimiter rejects or delays calls beyond the configured rate.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a full bucket. Zero values take the
// DefaultRateLimiterConfig values.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	def := DefaultRateLimiterConfig()
	if cfg.Rate <= 0 {
		cfg.Rate = def.Rate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst)}
}

// Allow takes a token if one is available.
func (l *RateLimiter) Allow() bool { return l.limiter.Allow() }

// Wait blocks until a token is available or ctx is done.
func (l *RateLimiter) Wait(ctx context.Context) error { return l.limiter.Wait(ctx) }

// Execute runs fn if a token is available and returns ErrRateLimited
// otherwise.
func (l *RateLimiter) Execute(fn func() error) error {
	if !l.Allow() {
		return ErrRateLimited
	}
	return fn()
}
