package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"signal_bot/internal/exchange"
	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	health "signal_bot/internal/modules/health/service"
	"signal_bot/internal/modules/postgres"
	"signal_bot/internal/modules/telegram_bot/service"
	"signal_bot/internal/runner/sessions"
	"signal_bot/internal/strategy"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/tracing"

	"go.uber.org/fx"
)

var ErrTooManyFailures = errors.New("too many consecutive failures")

// финальные уведомления уходят уже после отмены ctx цикла
const notifyTimeout = 10 * time.Second

// Indicators — снапшоты последней и предыдущей свечи.
type Indicators interface {
	Latest(bars []models.Bar, now time.Time) (models.Snapshot, *models.Snapshot, error)
}

type Params struct {
	fx.In

	Config     *config.Config
	Source     exchange.Source
	Indicators Indicators
	Engine     strategy.Engine
	Sink       service.Sink
	Journal    postgres.Journal
	State      *health.State
	Metrics    *health.Metrics
	Hub        *health.Hub
	Clock      Clock `optional:"true"`
}

// Runner — один последовательный цикл опроса. Всё состояние (позиция,
// счётчики периода, счётчик ошибок) принадлежит циклу, блокировок нет.
type Runner struct {
	cfg     *config.Config
	src     exchange.Source
	ind     Indicators
	engine  strategy.Engine
	sink    service.Sink
	journal postgres.Journal
	state   *health.State
	metrics *health.Metrics
	hub     *health.Hub
	clock   Clock

	st       sessions.State
	failures int
	price    float64
}

func New(p Params) *Runner {
	clock := p.Clock
	if clock == nil {
		clock = RealClock()
	}
	journal := p.Journal
	if journal == nil {
		journal = postgres.Nop{}
	}
	return &Runner{
		cfg:     p.Config,
		src:     p.Source,
		ind:     p.Indicators,
		engine:  p.Engine,
		sink:    p.Sink,
		journal: journal,
		state:   p.State,
		metrics: p.Metrics,
		hub:     p.Hub,
		clock:   clock,
		st:      sessions.NewState(clock.Now(), p.Config.Trading.Period),
	}
}

// Run крутит цикл до отмены ctx (nil) или до MaxConsecutiveFailures
// ошибок подряд (ErrTooManyFailures).
func (r *Runner) Run(ctx context.Context) error {
	logger.Info("[RUNNER] ▶️ %s: %s %s, poll %s, engine %s",
		r.cfg.Variant, r.cfg.Exchange.Symbol, r.cfg.Exchange.Timeframe,
		r.cfg.Scheduler.PollInterval, r.engine.Name())
	r.notify(ctx, service.StartMessage(r.cfg))

	for {
		// отмена проверяется только здесь, не посреди цикла
		if ctx.Err() != nil {
			logger.Info("[RUNNER] 👋 stopped")
			r.notifyDetached(service.StopMessage())
			return nil
		}

		wait := r.cfg.Scheduler.PollInterval
		err := r.cycle(ctx)
		switch {
		case err == nil:
			r.failures = 0
			r.state.SetReady(true)
		case ctx.Err() != nil:
			// прерванный отменой запрос не считается сбоем
			continue
		default:
			r.failures++
			r.metrics.Cycles.WithLabelValues(health.CycleFailure).Inc()
			r.state.SetReady(false)
			r.hub.Publish(health.Event{
				Type:         health.EventFailure,
				Time:         r.clock.Now(),
				PeriodProfit: r.st.Counters.Profit,
				Error:        err.Error(),
			})
			logger.Error("[RUNNER] cycle failed (%d/%d): %v",
				r.failures, r.cfg.Scheduler.MaxConsecutiveFailures, err)

			if r.failures >= r.cfg.Scheduler.MaxConsecutiveFailures {
				r.publishStatus()
				r.notifyDetached(service.FatalMessage(r.failures, err))
				return fmt.Errorf("%w: %d, last: %v", ErrTooManyFailures, r.failures, err)
			}
			wait = r.cfg.Scheduler.RetryBackoff
		}

		r.publishStatus()
		_ = r.clock.Sleep(ctx, wait)
	}
}

func (r *Runner) cycle(ctx context.Context) error {
	span, ctx := tracing.StartSpan(ctx, "cycle")
	defer span.Finish()

	now := r.clock.Now()
	r.state.TouchTick(now)
	r.observeBoundary(ctx, now)

	ex := r.cfg.Exchange
	bars, err := r.src.Fetch(ctx, ex.Symbol, ex.Timeframe, ex.Limit)
	if err != nil {
		tracing.Fail(span, err)
		return fmt.Errorf("fetch %s %s: %w", ex.Symbol, ex.Timeframe, err)
	}
	span.SetTag("bars", len(bars))

	if len(bars) < r.cfg.Scheduler.MinBars {
		logger.Info("[RUNNER] %d bars < %d, skip cycle", len(bars), r.cfg.Scheduler.MinBars)
		r.metrics.Cycles.WithLabelValues(health.CycleAbstain).Inc()
		return nil
	}

	curr, prev, err := r.ind.Latest(bars, now)
	if err != nil {
		tracing.Fail(span, err)
		return fmt.Errorf("indicators: %w", err)
	}
	r.price = curr.Close
	r.metrics.LastPrice.Set(curr.Close)

	if r.st.Flat() {
		r.tryOpen(ctx, curr, prev, now)
	} else {
		r.tryClose(ctx, curr.Close, now)
	}

	r.metrics.Cycles.WithLabelValues(health.CycleOK).Inc()
	r.hub.Publish(health.Event{
		Type:         health.EventCycle,
		Time:         now,
		Price:        curr.Close,
		PeriodProfit: r.st.Counters.Profit,
	})
	return nil
}

func (r *Runner) observeBoundary(ctx context.Context, now time.Time) {
	prev := r.st.Counters
	next, reset := sessions.ObserveBoundary(r.st, now, r.cfg.Trading.Period)
	if !reset {
		return
	}
	r.st = next

	logger.Info("[PERIOD] 🌅 new %s from %s; previous: profit %.2f%%, buy %d, sell %d",
		r.cfg.Trading.Period, next.Counters.PeriodStart.Format("2006-01-02"),
		prev.Profit, prev.BuySignals, prev.SellSignals)
	r.notify(ctx, service.PeriodResetMessage(prev, next.Counters.PeriodStart, r.cfg.Trading.Period))
	r.metrics.PeriodProfit.Set(0)
	r.hub.Publish(health.Event{Type: health.EventReset, Time: now, PeriodProfit: prev.Profit})

	if p := r.st.Position; p != nil {
		logger.Warn("[PERIOD] ⚠️ period changed with open %s position from %.2f", p.Side, p.Entry)
		r.notify(ctx, service.OpenPositionWarning(*p, r.cfg.Trading.Period))
	}
}

func (r *Runner) tryOpen(ctx context.Context, curr models.Snapshot, prev *models.Snapshot, now time.Time) {
	v := r.engine.Evaluate(curr, prev)
	logger.Debug("[SIGNAL] %s buy=%.1f sell=%.1f", v.Side, v.BuyScore, v.SellScore)
	if !v.HasSignal() {
		return
	}

	next, rej := sessions.TryOpen(r.st, v, sessions.Quote{Price: curr.Close, ATR: curr.ATR}, now, r.cfg.Trading)
	if !rej.OK() {
		logger.Info("[SIGNAL] %s score %.1f skipped: %s", v.Side, v.Score, rej)
		return
	}
	r.st = next
	p := *r.st.Position

	logger.Info("[SIGNAL] 🎯 %s @ %.2f score %.1f [%s] tp %.2f sl %.2f (%.2f%%)",
		p.Side, p.Entry, p.Score, strings.Join(p.Reasons, ", "), p.TakeProfit, p.StopLoss, p.StopPct)

	r.metrics.Signals.WithLabelValues(p.Side.String()).Inc()
	r.notify(ctx, service.SignalMessage(r.cfg.Exchange.Symbol, p, r.cfg.Trading.TakeProfitPct))
	if err := r.journal.RecordSignal(ctx, r.cfg.Exchange.Symbol, p); err != nil {
		logger.Warn("[JOURNAL] signal: %v", err)
	}
	r.hub.Publish(health.Event{
		Type:         health.EventSignal,
		Time:         now,
		Side:         p.Side.String(),
		Price:        p.Entry,
		Score:        p.Score,
		Reasons:      p.Reasons,
		PeriodProfit: r.st.Counters.Profit,
	})
}

func (r *Runner) tryClose(ctx context.Context, price float64, now time.Time) {
	next, trade := sessions.TryClose(r.st, price, now, r.cfg.Trading)
	if trade == nil {
		if u, ok := sessions.Unrealized(r.st, price, r.cfg.Trading); ok {
			p := r.st.Position
			logger.Debug("[POSITION] %s net %.2f%% for %s, tp %.2f",
				p.Side, u, now.Sub(p.EntryTime).Round(time.Minute), p.TakeProfit)
		}
		return
	}
	r.st = next

	logger.Info("[POSITION] 🔔 closed %s by %s: %.2f -> %.2f, net %.2f%%, %s; period %.2f%%",
		trade.Side, trade.Reason, trade.Entry, trade.Exit, trade.NetPct,
		trade.Duration().Round(time.Minute), r.st.Counters.Profit)

	r.metrics.Trades.WithLabelValues(string(trade.Reason)).Inc()
	r.metrics.PeriodProfit.Set(r.st.Counters.Profit)
	r.notify(ctx, service.CloseMessage(*trade, r.st.Counters.Profit, r.cfg.Trading.Period))
	if err := r.journal.RecordTrade(ctx, r.cfg.Exchange.Symbol, *trade); err != nil {
		logger.Warn("[JOURNAL] trade: %v", err)
	}
	r.hub.Publish(health.Event{
		Type:         health.EventClose,
		Time:         now,
		Side:         trade.Side.String(),
		Price:        trade.Exit,
		NetPct:       trade.NetPct,
		Reason:       string(trade.Reason),
		PeriodProfit: r.st.Counters.Profit,
	})
}

func (r *Runner) publishStatus() {
	st := health.Status{
		Variant:  r.cfg.Variant,
		Symbol:   r.cfg.Exchange.Symbol,
		Price:    r.price,
		Position: r.st.Position,
		Counters: r.st.Counters,
		Failures: r.failures,
	}
	if u, ok := sessions.Unrealized(r.st, r.price, r.cfg.Trading); ok {
		st.Unrealized = u
	}
	r.state.SetStatus(st)
	r.metrics.SetPosition(r.st.Position)
	r.metrics.ConsecutiveFailures.Set(float64(r.failures))
}

// notify — best-effort: результат только логируется.
func (r *Runner) notify(ctx context.Context, text string) {
	if !r.sink.Send(ctx, text) {
		logger.Warn("[NOTIFY] not delivered")
	}
}

func (r *Runner) notifyDetached(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	r.notify(ctx, text)
}

// Snapshot — текущее состояние контроллера (для тестов и отладки).
func (r *Runner) Snapshot() sessions.State { return r.st }
