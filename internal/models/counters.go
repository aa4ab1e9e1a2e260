package models

import "time"

// PeriodCounters — статистика текущего периода (день или неделя).
type PeriodCounters struct {
	PeriodStart time.Time
	Profit      float64 // net %, сумма по закрытым сделкам
	BuySignals  int
	SellSignals int
	// LastSignal не сбрасывается на границе периода, кулдаун сквозной.
	LastSignal time.Time
}

func (c PeriodCounters) Signals(side Side) int {
	switch side {
	case SideBuy:
		return c.BuySignals
	case SideSell:
		return c.SellSignals
	}
	return 0
}
