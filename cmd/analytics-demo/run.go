package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/providerkit/analytics"
	"github.com/kbukum/providerkit/analytics/dummy"
	"github.com/kbukum/providerkit/bootstrap"
	"github.com/kbukum/providerkit/config"
	"github.com/kbukum/providerkit/logger"
	"github.com/kbukum/providerkit/observability"
	"github.com/kbukum/providerkit/provider"
)

type runOptions struct {
	configFile string
	envFile    string
	platform   string
	event      string
	readyTicks int
	port       int
	out        io.Writer
}

func newRunCommand() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start providers for the platform and log one event",
		Long: `Start every configured provider that applies to the platform,
wait until all of them are ready, then log an event through them.

Examples:
  analytics-demo run --config cmd/analytics-demo/config.yml
  analytics-demo run --platform macos --event Purchase`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.out = cmd.OutOrStdout()
			return runDemo(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "Path to the config file")
	cmd.Flags().StringVar(&opts.envFile, "env-file", "", "Path to a .env file")
	cmd.Flags().StringVarP(&opts.platform, "platform", "p", "", "Override the detected platform")
	cmd.Flags().StringVar(&opts.event, "event", "DemoEvent", "Name of the event to log")
	cmd.Flags().IntVar(&opts.readyTicks, "ready-ticks", 0, "Make project providers ready after this many frames instead of their delay")
	return cmd
}

func loadConfig(opts runOptions) (*DemoConfig, error) {
	var loaderOpts []config.LoaderOption
	if opts.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(opts.configFile))
	}
	if opts.envFile != "" {
		loaderOpts = append(loaderOpts, config.WithEnvFile(opts.envFile))
	}

	cfg := &DemoConfig{}
	if err := config.LoadConfig(serviceName, cfg, loaderOpts...); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	if opts.platform != "" {
		cfg.Analytics.Platform = opts.platform
	}
	if opts.port > 0 {
		cfg.Server.Port = opts.port
	}
	return cfg, nil
}

// demo is the wiring shared by the run and serve commands.
type demo struct {
	app      *bootstrap.App[*DemoConfig]
	log      *logger.Logger
	entity   *provider.Entity[analytics.Provider]
	mgr      *analytics.Manager
	platform provider.Platform
}

func newDemo(ctx context.Context, opts runOptions) (*demo, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	app, err := bootstrap.NewApp(cfg, bootstrap.WithSummaryOutput(opts.out))
	if err != nil {
		return nil, err
	}
	log := app.Logger.WithComponent("demo")

	if cfg.Telemetry.Enabled {
		if err := initTelemetry(ctx, app); err != nil {
			return nil, err
		}
	}

	ticker := provider.NewTickerScheduler("frames", cfg.Analytics.TickInterval)
	reg := analytics.NewRegistry()
	if err := dummy.Register(reg, ticker.FrameScheduler, opts.readyTicks); err != nil {
		return nil, err
	}
	candidates, err := reg.Build(cfg.Analytics.Providers)
	if err != nil {
		log.Warn("some providers could not be created", logger.Fields(logger.FieldError, err.Error()))
	}

	platform := cfg.Analytics.ResolvedPlatform()
	entity := provider.NewEntity[analytics.Provider](cfg.Name, platform)
	entity.Attach(candidates...)

	coordOpts := append(cfg.Analytics.Options(),
		provider.WithScheduler(ticker),
		provider.WithDiagnostics(provider.DiagnosticsFunc(func(ctx context.Context, owner string, err error) {
			log.WithContext(ctx).Warn("provider diagnostic", logger.Fields(
				logger.FieldOwner, owner,
				logger.FieldError, err.Error(),
			))
		})),
	)
	mgr := analytics.NewManager(entity, coordOpts...)
	mgr.UseDelivery(cfg.Delivery)

	if err := app.RegisterComponent(ticker); err != nil {
		return nil, err
	}
	return &demo{app: app, log: log, entity: entity, mgr: mgr, platform: platform}, nil
}

// registerManager adds the analytics component. Components start in
// registration order, so callers pick what runs before it.
func (d *demo) registerManager() error {
	return d.app.RegisterComponent(d.mgr.Component(provider.FromEntity(d.entity)))
}

func runDemo(ctx context.Context, opts runOptions) error {
	d, err := newDemo(ctx, opts)
	if err != nil {
		return err
	}
	if err := d.registerManager(); err != nil {
		return err
	}

	return d.app.RunTask(ctx, func(ctx context.Context) error {
		if err := d.mgr.LogEvent(ctx, opts.event, map[string]string{"source": serviceName}); err != nil {
			return err
		}
		p, ok := d.mgr.Coordinator().HighestPriorityProvider()
		if !ok {
			fmt.Fprintf(opts.out, "no providers available on %s\n", d.platform)
			return nil
		}
		fmt.Fprintf(opts.out, "preferred provider: %s (priority %s)\n", p.Name(), p.Priority())
		fmt.Fprintf(opts.out, "disposed: %v\n", d.entity.Disposed())
		return nil
	})
}

func initTelemetry(ctx context.Context, app *bootstrap.App[*DemoConfig]) error {
	tel, err := observability.Setup(ctx, app.Cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	app.OnStop(func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tel.Shutdown(ctx)
	})
	return nil
}
