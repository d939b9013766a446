package main

import (
	"go.uber.org/multierr"

	"github.com/kbukum/providerkit/analytics"
	"github.com/kbukum/providerkit/config"
	"github.com/kbukum/providerkit/observability"
	"github.com/kbukum/providerkit/provider"
	"github.com/kbukum/providerkit/server"
)

// DemoConfig is the analytics-demo configuration file.
type DemoConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Analytics provider.Config          `yaml:"analytics" mapstructure:"analytics"`
	Delivery  analytics.DeliveryConfig `yaml:"delivery" mapstructure:"delivery"`
	Server    server.Config            `yaml:"server" mapstructure:"server"`
	Telemetry observability.Config     `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills zero values in every section.
func (c *DemoConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Analytics.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Telemetry.ApplyDefaults(c.Name, c.Version, c.Environment)
}

// Validate checks every section and reports all problems at once.
func (c *DemoConfig) Validate() error {
	return multierr.Combine(
		c.ServiceConfig.Validate(),
		c.Analytics.Validate(),
		c.Delivery.Validate(),
		c.Server.Validate(),
		c.Telemetry.Validate(),
	)
}
