package bootstrap

import (
	"context"
	"errors"
	"strings"

	"signal_bot/internal/exchange"
	"signal_bot/internal/indicators"
	bootstrap "signal_bot/internal/modules/bootstrap/service"
	"signal_bot/internal/modules/config"
	"signal_bot/pkg/logger"

	"go.uber.org/fx"
)

// Module проверяет источник до старта цикла. Постоянная ошибка (неверный
// символ, таймфрейм) валит старт; транзиентная только пишется в лог, цикл
// сам переживёт её со своим счётчиком сбоев.
func Module() fx.Option {
	return fx.Module("bootstrap",
		fx.Provide(
			func(src exchange.Source, calc *indicators.Calculator, cfg *config.Config) *bootstrap.Warmuper {
				return bootstrap.NewWarmuper(src, calc, cfg)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, wu *bootstrap.Warmuper) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					return check(ctx, wu, cfg.Scheduler.MinBars)
				},
			})
		}),
	)
}

func check(ctx context.Context, wu *bootstrap.Warmuper, minBars int) error {
	rep, err := wu.Warmup(ctx)
	switch {
	case err == nil:
	case exchange.IsTransient(err), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		logger.Warn("[BOOT] warmup skipped: %v", err)
		return nil
	default:
		return err
	}

	if rep.Ready(minBars) {
		logger.Info("[BOOT] warmup done: %d bars, last %s, price %.2f",
			rep.Bars, rep.LastBar.Format("2006-01-02 15:04"), rep.Price)
		return nil
	}
	logger.Warn("[BOOT] warmup incomplete: %d bars (min %d), stale=%t, undefined=[%s]",
		rep.Bars, minBars, rep.Stale, strings.Join(rep.Undefined, ","))
	return nil
}
