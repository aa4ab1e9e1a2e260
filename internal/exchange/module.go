package exchange

import (
	"signal_bot/internal/modules/config"

	"go.uber.org/fx"
)

// New выбирает провайдера по конфигу и оборачивает его в Resilient.
func New(cfg config.Exchange) Source {
	var src Source
	switch cfg.Provider {
	case config.ProviderOKX:
		src = NewOKX(cfg.BaseURL, cfg.Timeout)
	default:
		src = NewBinance(cfg.BaseURL, cfg.Timeout)
	}
	return NewResilient(cfg.Provider, src, cfg)
}

func Module() fx.Option {
	return fx.Module("exchange",
		fx.Provide(
			New, // func(config.Exchange) Source
		),
	)
}
