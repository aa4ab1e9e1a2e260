package main

import (
	"context"
	"log"
	"strings"
	"time"

	"signal_bot/internal/exchange"
	"signal_bot/internal/indicators"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/strategy"
	"signal_bot/pkg/logger"

	"go.uber.org/fx"
)

// scan — разовый прогон: одна выборка свечей, снапшот и вердикт в лог.
// Позиции, уведомления и журнал не трогает.
func main() {
	if err := logger.Init("info"); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	app := fx.New(
		fx.NopLogger,
		config.Module(),
		exchange.Module(),
		strategy.Module(),
		fx.Invoke(scan),
	)
	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}
	_ = app.Stop(context.Background())
}

func scan(lc fx.Lifecycle, cfg *config.Config, src exchange.Source, calc *indicators.Calculator, engine strategy.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ex := cfg.Exchange
			bars, err := src.Fetch(ctx, ex.Symbol, ex.Timeframe, ex.Limit)
			if err != nil {
				return err
			}
			if len(bars) < cfg.Scheduler.MinBars {
				logger.Warn("[SCAN] %d bars < %d, nothing to score", len(bars), cfg.Scheduler.MinBars)
				return nil
			}

			curr, prev, err := calc.Latest(bars, time.Now())
			if err != nil {
				return err
			}
			logger.Info("[SCAN] %s %s @ %.2f: rsi %.1f, ema %.2f/%.2f/%.2f, macd %.4f/%.4f, atr %.2f",
				ex.Symbol, ex.Timeframe, curr.Close, curr.RSI,
				curr.EMAShort, curr.EMAMedium, curr.EMALong,
				curr.MACD, curr.MACDSignal, curr.ATR)

			v := engine.Evaluate(curr, prev)
			logger.Info("[SCAN] %s: %s buy=%.1f sell=%.1f min=%g [%s]",
				engine.Name(), v.Side, v.BuyScore, v.SellScore, cfg.Scoring.MinScore,
				strings.Join(v.Reasons, ", "))
			return nil
		},
	})
}
