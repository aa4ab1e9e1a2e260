package sessions

import (
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
)

// Rejection — почему сигнал не принят. Пустая строка — принят.
type Rejection string

const (
	Accepted           Rejection = ""
	RejectOpenPosition Rejection = "position already open"
	RejectNoSignal     Rejection = "no signal"
	RejectPeriodTarget Rejection = "period target reached"
	RejectSignalCap    Rejection = "per-period signal cap reached"
	RejectCooldown     Rejection = "min signal interval not elapsed"
)

func (r Rejection) OK() bool { return r == Accepted }

// TryOpen открывает виртуальную позицию, если проходят все гейты (по порядку):
// FLAT, есть сторона, цель периода не достигнута, лимит сигналов стороны,
// интервал с прошлого сигнала. При отказе состояние не меняется.
func TryOpen(st State, v models.Verdict, q Quote, now time.Time, cfg config.Trading) (State, Rejection) {
	switch {
	case !st.Flat():
		return st, RejectOpenPosition
	case v.Side != models.SideBuy && v.Side != models.SideSell:
		return st, RejectNoSignal
	case st.Counters.Profit >= cfg.PeriodTargetPct:
		return st, RejectPeriodTarget
	case st.Counters.Signals(v.Side) >= cfg.PerPeriodCap:
		return st, RejectSignalCap
	case !st.Counters.LastSignal.IsZero() && now.Sub(st.Counters.LastSignal) < cfg.MinSignalInterval:
		return st, RejectCooldown
	}

	stopPct := StopPct(q, cfg)
	tp, sl := Levels(v.Side, q.Price, cfg.TakeProfitPct, stopPct)

	st.Position = &models.Position{
		Side:       v.Side,
		Entry:      q.Price,
		EntryTime:  now,
		TakeProfit: tp,
		StopLoss:   sl,
		StopPct:    stopPct,
		Score:      v.Score,
		Reasons:    append([]string(nil), v.Reasons...),
	}

	if v.Side == models.SideBuy {
		st.Counters.BuySignals++
	} else {
		st.Counters.SellSignals++
	}
	st.Counters.LastSignal = now

	return st, Accepted
}

// StopPct — дистанция стопа в %. С множителем ATR и известным ATR стоп
// волатильностный, иначе фиксированный StopLossPct.
func StopPct(q Quote, cfg config.Trading) float64 {
	if cfg.StopLossATRMult > 0 && q.ATR > 0 && q.Price > 0 {
		return q.ATR / q.Price * 100 * cfg.StopLossATRMult
	}
	return cfg.StopLossPct
}

// Levels: для BUY tp = p*(1+tp%), sl = p*(1-sl%); для SELL зеркально.
func Levels(side models.Side, price, tpPct, slPct float64) (tp, sl float64) {
	if side == models.SideSell {
		return price * (1 - tpPct/100), price * (1 + slPct/100)
	}
	return price * (1 + tpPct/100), price * (1 - slPct/100)
}
