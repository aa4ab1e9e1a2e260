package main

import (
	"context"
	"log"

	"signal_bot/internal/exchange"
	"signal_bot/internal/modules/bootstrap"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/health"
	"signal_bot/internal/modules/postgres"
	telegram "signal_bot/internal/modules/telegram_bot"
	"signal_bot/internal/runner"
	"signal_bot/internal/strategy"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/tracing"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"
)

func main() {
	// до чтения конфига пишем на info
	if err := logger.Init("info"); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	app := fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{Logger: logger.With()}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		config.Module(),
		fx.Module("ambient",
			fx.Invoke(setupLogger),
			fx.Invoke(setupTracing),
		),
		health.Module(),
		exchange.Module(),
		strategy.Module(),
		postgres.Module(),
		telegram.Module(),
		bootstrap.Module(),
		runner.Module(),
	)
	app.Run()
}

func setupLogger(cfg *config.Config) error {
	logger.SetServiceName(cfg.Service.Name)
	tracing.SetServiceName(cfg.Service.Name)
	return logger.Init(cfg.Service.LogLevel)
}

func setupTracing(lc fx.Lifecycle, cfg *config.Config) error {
	_, closer, err := tracing.InitTracer(tracing.Config{
		Enabled: cfg.Tracing.Enabled,
		Host:    cfg.Tracing.Host,
		Port:    cfg.Tracing.Port,
	})
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			closer()
			return nil
		},
	})
	return nil
}
