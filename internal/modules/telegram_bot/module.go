package telegram

import (
	"context"

	"signal_bot/internal/modules/config"
	health "signal_bot/internal/modules/health/service"
	"signal_bot/internal/modules/telegram_bot/service"
	"signal_bot/pkg/logger"

	"go.uber.org/fx"
)

// NewSink: без токена или chat id, или если Telegram недоступен на старте,
// уведомления уходят в лог.
func NewSink(lc fx.Lifecycle, cfg config.Telegram, state *health.State) service.Sink {
	if cfg.Token == "" || cfg.ChatID == 0 {
		logger.Warn("[TG] token or chat_id not set, notifications go to log")
		return service.Stdout{}
	}

	t, err := service.NewTelegram(cfg, state)
	if err != nil {
		logger.Error("[TG] %v; notifications go to log", err)
		return service.Stdout{}
	}

	// команды живут до OnStop, а не до таймаута старта
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			t.Start(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			t.Stop()
			return nil
		},
	})
	return t
}

func Module() fx.Option {
	return fx.Module("telegram",
		fx.Provide(
			NewSink, // func(fx.Lifecycle, config.Telegram, *health.State) service.Sink
		),
	)
}
