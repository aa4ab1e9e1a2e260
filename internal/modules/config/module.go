package config

import "go.uber.org/fx"

// Module отдаёт *Config целиком и его секции по значению.
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			NewConfig,
			func(c *Config) Exchange { return c.Exchange },
			func(c *Config) Telegram { return c.Telegram },
			func(c *Config) Scheduler { return c.Scheduler },
		),
	)
}
