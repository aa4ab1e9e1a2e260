package service

import (
	"errors"
	"testing"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalMessage(t *testing.T) {
	p := models.Position{
		Side:       models.SideBuy,
		Entry:      100,
		TakeProfit: 100.8,
		StopLoss:   97.5,
		StopPct:    2.5,
		Score:      5.5,
		Reasons:    []string{"RSI(22.0)<25", "MACD+"},
	}
	msg := SignalMessage("BTCUSDT", p, 0.8)

	assert.Contains(t, msg, "*BUY сигнал* BTCUSDT")
	assert.Contains(t, msg, "Скор: 5.5")
	assert.Contains(t, msg, "Цена: $100.00")
	assert.Contains(t, msg, "RSI(22.0)<25, MACD+")
	assert.Contains(t, msg, "Цель: $100.80 (+0.80%)")
	assert.Contains(t, msg, "Стоп: $97.50 (-2.50%)")
	assert.Contains(t, msg, "R/R: 1:0.32")
}

func TestCloseMessage(t *testing.T) {
	entry := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	tr := models.ClosedTrade{
		Side: models.SideSell, Entry: 500, Exit: 515,
		EntryTime: entry, ExitTime: entry.Add(65 * time.Minute),
		NetPct: -3.2, Reason: models.ExitStop,
	}
	msg := CloseMessage(tr, -3.2, config.PeriodWeekly)

	assert.Contains(t, msg, "❌ *Позиция закрыта*")
	assert.Contains(t, msg, "Выход: $515.00")
	assert.Contains(t, msg, "Net: *-3.20%*")
	assert.Contains(t, msg, "Время: 1ч 05м")
	assert.Contains(t, msg, "Причина: стоп")
	assert.Contains(t, msg, "Итог недели: -3.20%")

	tr.NetPct, tr.Reason = 0.6, models.ExitTarget
	msg = CloseMessage(tr, 0.6, config.PeriodDaily)
	assert.Contains(t, msg, "✅")
	assert.Contains(t, msg, "Причина: цель")
	assert.Contains(t, msg, "Итог дня: +0.60%")
}

func TestPeriodResetMessage(t *testing.T) {
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	prev := models.PeriodCounters{Profit: 1.5, BuySignals: 1, SellSignals: 1}

	msg := PeriodResetMessage(prev, start, config.PeriodWeekly)
	assert.Contains(t, msg, "Новая неделя")
	assert.Contains(t, msg, "2025-03-10")
	assert.Contains(t, msg, "Итог прошлого недели: +1.50%")
	assert.Contains(t, msg, "Покупки: 1 | Продажи: 1")

	assert.Contains(t, PeriodResetMessage(prev, start, config.PeriodDaily), "Новый день")
}

func TestStartMessage(t *testing.T) {
	cfg, err := config.Default(config.VariantDaily)
	require.NoError(t, err)

	msg := StartMessage(cfg)
	assert.Contains(t, msg, "(daily)")
	assert.Contains(t, msg, "таймфрейм `15m`")
	assert.Contains(t, msg, "Мин. скор: `5`")
}

func TestFatalMessage(t *testing.T) {
	msg := FatalMessage(10, errors.New("binance_klines: timeout"))
	assert.Contains(t, msg, "10 ошибок подряд")
	assert.Contains(t, msg, `binance\_klines`)
}

func TestHumanDuration(t *testing.T) {
	assert.Equal(t, "45м", humanDuration(45*time.Minute))
	assert.Equal(t, "2ч 00м", humanDuration(2*time.Hour))
	assert.Equal(t, "1д 3ч 10м", humanDuration(27*time.Hour+10*time.Minute))
}
