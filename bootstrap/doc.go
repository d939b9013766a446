// Package bootstrap runs a providerkit application: typed config, ordered
// component start, lifecycle hooks, a startup summary and graceful
// shutdown.
//
// # Quick Start
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	_ = app.RegisterComponent(ticker)
//	_ = app.RegisterComponent(coordinatorComponent)
//	return app.RunTask(ctx, func(ctx context.Context) error {
//	    return manager.LogEvent(ctx, "Demo", nil)
//	})
//
// Components start in registration order and stop in reverse order, so
// register a scheduler before the coordinators that wait on it.
package bootstrap
