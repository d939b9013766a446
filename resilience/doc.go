// Package resilience retries fallible operations with exponential backoff
// and guards repeatedly failing targets with a circuit breaker.
//
// The provider coordinator uses Retry to re-run a provider's Initialize when
// it returns an error. Wrap an error with Permanent to stop retrying early:
//
//	err := resilience.RetryFunc(ctx, cfg, func() error {
//	    if badKey {
//	        return resilience.Permanent(errInvalidKey)
//	    }
//	    return login(ctx)
//	})
//
// The analytics manager keeps one CircuitBreaker per provider, so a backend
// that keeps rejecting events is skipped until its cool-down elapses.
package resilience
