package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"signal_bot/internal/exchange"
	"signal_bot/internal/helper"
	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
)

// Indicators — то же, что нужно циклу.
type Indicators interface {
	Latest(bars []models.Bar, now time.Time) (models.Snapshot, *models.Snapshot, error)
}

// Warmuper — разовая проверка на старте: биржа отвечает, символ существует,
// истории хватает на прогрев индикаторов.
type Warmuper struct {
	src exchange.Source
	ind Indicators
	cfg *config.Config
	now func() time.Time
}

func NewWarmuper(src exchange.Source, ind Indicators, cfg *config.Config) *Warmuper {
	return &Warmuper{src: src, ind: ind, cfg: cfg, now: time.Now}
}

type Report struct {
	Bars      int
	LastBar   time.Time
	Price     float64
	Stale     bool
	Undefined []string // индикаторы, которые на последней свече ещё NaN
}

func (r Report) Ready(minBars int) bool {
	return r.Bars >= minBars && len(r.Undefined) == 0 && !r.Stale
}

func (w *Warmuper) Warmup(ctx context.Context) (Report, error) {
	ex := w.cfg.Exchange
	bars, err := w.src.Fetch(ctx, ex.Symbol, ex.Timeframe, ex.Limit)
	if err != nil {
		return Report{}, fmt.Errorf("warmup %s %s: %w", ex.Symbol, ex.Timeframe, err)
	}

	rep := Report{Bars: len(bars)}
	if len(bars) == 0 {
		return rep, nil
	}

	now := w.now()
	last := bars[len(bars)-1]
	rep.LastBar = last.Start
	rep.Price = last.Close
	rep.Stale = helper.Stale(last.Start, now, ex.Timeframe)

	curr, _, err := w.ind.Latest(bars, now)
	if err != nil {
		return rep, fmt.Errorf("warmup indicators: %w", err)
	}
	rep.Undefined = undefined(curr, w.cfg.Scoring)
	return rep, nil
}

func undefined(s models.Snapshot, sc config.Scoring) []string {
	fields := []struct {
		name string
		v    float64
	}{
		{"rsi", s.RSI},
		{"ema_short", s.EMAShort},
		{"ema_medium", s.EMAMedium},
		{"ema_long", s.EMALong},
		{"macd", s.MACD},
		{"macd_signal", s.MACDSignal},
		{"bbands", s.BBMid},
		{"volume_ma", s.VolumeMA},
		{"atr", s.ATR},
	}
	if sc.Stochastic {
		fields = append(fields, struct {
			name string
			v    float64
		}{"stoch_k", s.StochK})
	}

	var out []string
	for _, f := range fields {
		if math.IsNaN(f.v) {
			out = append(out, f.name)
		}
	}
	return out
}
