// Package provider coordinates interchangeable service backends
// ("providers") attached to an owning entity.
//
// A Coordinator filters the candidates by platform and enablement, drives
// each retained provider through Initialize, waits, one scheduler tick at a
// time, until every provider reports IsReady, and then exposes aggregation
// (AllProviders) and priority selection (HighestPriorityProvider, Select).
//
// Providers embed *Base to get readiness, enablement and memoized
// applicability for free, and override Initialize when setup is
// asynchronous:
//
//	type Remote struct {
//	    *provider.Base
//	}
//
//	func (r *Remote) Initialize(ctx context.Context) error {
//	    go func() {
//	        // log in ...
//	        r.MarkReady()
//	    }()
//	    return nil
//	}
//
// # Hosts and schedulers
//
// Host abstracts the owning entity: it reports the running platform and
// disposes providers the coordinator drops. Entity is the in-memory default.
//
// Scheduler abstracts "wait one tick". FrameScheduler is driven explicitly by
// Tick, TickerScheduler drives a FrameScheduler from a time.Ticker and runs as
// a component, IntervalScheduler simply sleeps one frame.
//
// # Usage
//
//	reg := provider.NewRegistry[analytics.Provider]()
//	reg.Register("key", newKeyProvider)
//	candidates, err := reg.Build(cfg.Providers)
//
//	entity := provider.NewEntity[analytics.Provider]("analytics", cfg.Platform)
//	entity.Attach(candidates...)
//
//	coord := provider.NewCoordinator[analytics.Provider](entity,
//	    provider.WithName("analytics"),
//	    provider.WithReadinessTimeout(cfg.ReadinessTimeout),
//	)
//	err = coord.Start(ctx, entity.Candidates()...)
package provider
