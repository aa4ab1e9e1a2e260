package sessions

import (
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
)

// TryClose проверяет сначала тейк, потом стоп. Внутри свечи путь цены
// неизвестен, при двойном касании выигрывает тейк.
func TryClose(st State, price float64, now time.Time, cfg config.Trading) (State, *models.ClosedTrade) {
	p := st.Position
	if p == nil {
		return st, nil
	}

	var reason models.ExitReason
	switch p.Side {
	case models.SideBuy:
		if reachedUp(price, p.TakeProfit) {
			reason = models.ExitTarget
		} else if reachedDown(price, p.StopLoss) {
			reason = models.ExitStop
		}
	case models.SideSell:
		if reachedDown(price, p.TakeProfit) {
			reason = models.ExitTarget
		} else if reachedUp(price, p.StopLoss) {
			reason = models.ExitStop
		}
	}
	if reason == "" {
		return st, nil
	}

	gross := GrossPct(p.Side, p.Entry, price)
	trade := &models.ClosedTrade{
		Side:      p.Side,
		Entry:     p.Entry,
		Exit:      price,
		EntryTime: p.EntryTime,
		ExitTime:  now,
		GrossPct:  gross,
		NetPct:    NetPct(gross, cfg.CommissionPct),
		Reason:    reason,
	}

	st.Position = nil
	st.Counters.Profit += trade.NetPct
	return st, trade
}

// Unrealized — текущий net % открытой позиции, для логов.
func Unrealized(st State, price float64, cfg config.Trading) (float64, bool) {
	if st.Position == nil {
		return 0, false
	}
	return NetPct(GrossPct(st.Position.Side, st.Position.Entry, price), cfg.CommissionPct), true
}

// GrossPct — движение цены в пользу позиции, %.
func GrossPct(side models.Side, entry, price float64) float64 {
	g := (price - entry) / entry * 100
	if side == models.SideSell {
		return -g
	}
	return g
}

// NetPct — комиссия за вход и выход.
func NetPct(gross, commissionPct float64) float64 {
	return gross - 2*commissionPct
}
