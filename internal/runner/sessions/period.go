package sessions

import (
	"time"

	"signal_bot/internal/modules/config"
)

// PeriodStart — полночь локального дня или понедельник 00:00 локальной недели.
func PeriodStart(t time.Time, period string) time.Time {
	y, m, d := t.Date()
	if period == config.PeriodWeekly {
		// Weekday: воскресенье 0, нам нужен понедельник
		d -= (int(t.Weekday()) + 6) % 7
	}
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ObserveBoundary сбрасывает счётчики периода ровно один раз, когда
// канонический старт периода для now позже сохранённого. LastSignal
// и открытая позиция не трогаются.
func ObserveBoundary(st State, now time.Time, period string) (State, bool) {
	start := PeriodStart(now, period)
	if !start.After(st.Counters.PeriodStart) {
		return st, false
	}

	st.Counters.PeriodStart = start
	st.Counters.Profit = 0
	st.Counters.BuySignals = 0
	st.Counters.SellSignals = 0
	return st, true
}
