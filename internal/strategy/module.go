package strategy

import (
	"signal_bot/internal/indicators"
	"signal_bot/internal/modules/config"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(
			NewEngine, // func(*config.Config) Engine
			func(cfg *config.Config) *indicators.Calculator {
				return indicators.NewCalculator(cfg.Indicators)
			},
		),
	)
}
