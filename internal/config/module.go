package config

import "go.uber.org/fx"

// Module provides the loaded configuration and per-package slices of it
var Module = fx.Module("config",
	fx.Provide(
		Load,
		func(c *Config) *APIConfig { return &c.API },
		func(c *Config) *FederatedConfig { return &c.Federated },
		func(c *Config) *StorageConfig { return &c.Storage },
		func(c *Config) *ProbeConfig { return &c.Probe },
		func(c *Config) *LoggingConfig { return &c.Logging },
	),
)
