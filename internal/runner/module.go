package runner

import (
	"context"

	"signal_bot/internal/indicators"
	"signal_bot/pkg/logger"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			func(c *indicators.Calculator) Indicators { return c },
			New, // *Runner
		),
		fx.Invoke(func(lc fx.Lifecycle, sd fx.Shutdowner, r *Runner) {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})

			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go func() {
						defer close(done)
						if err := r.Run(ctx); err != nil {
							logger.Error("[RUNNER] %v", err)
							_ = sd.Shutdown(fx.ExitCode(1))
						}
					}()
					return nil
				},
				OnStop: func(stopCtx context.Context) error {
					cancel()
					select {
					case <-done:
					case <-stopCtx.Done():
						return stopCtx.Err()
					}
					return nil
				},
			})
		}),
	)
}
