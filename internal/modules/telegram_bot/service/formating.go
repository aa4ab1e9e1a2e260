package service

import (
	"fmt"
	"strings"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	health "signal_bot/internal/modules/health/service"
)

func StartMessage(cfg *config.Config) string {
	_, gen := periodNouns(cfg.Trading.Period)
	return fmt.Sprintf(
		"🚀 *Бот запущен* (%s)\n\n"+
			"📈 %s, таймфрейм `%s`\n"+
			"🔄 Опрос: `%s`\n"+
			"💰 Цель %s: `%s%%`\n"+
			"🎯 TP: `%s%%` | 🛑 SL: `%s%%`\n"+
			"📊 Мин. скор: `%g`",
		cfg.Variant,
		escape(cfg.Exchange.Symbol), cfg.Exchange.Timeframe,
		cfg.Scheduler.PollInterval,
		gen, f2(cfg.Trading.PeriodTargetPct),
		f2(cfg.Trading.TakeProfitPct), f2(cfg.Trading.StopLossPct),
		cfg.Scoring.MinScore,
	)
}

func SignalMessage(symbol string, p models.Position, takeProfitPct float64) string {
	rr := 0.0
	if p.StopPct > 0 {
		rr = takeProfitPct / p.StopPct
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎯 *%s сигнал* %s\n\n", p.Side, escape(symbol))
	fmt.Fprintf(&b, "📊 Скор: %g\n", p.Score)
	fmt.Fprintf(&b, "💵 Цена: %s\n", usd(p.Entry))
	if len(p.Reasons) > 0 {
		fmt.Fprintf(&b, "📝 %s\n", escape(strings.Join(p.Reasons, ", ")))
	}
	fmt.Fprintf(&b, "\n🎯 Цель: %s (+%s%%)\n", usd(p.TakeProfit), f2(takeProfitPct))
	fmt.Fprintf(&b, "🛑 Стоп: %s (-%s%%)\n", usd(p.StopLoss), f2(p.StopPct))
	fmt.Fprintf(&b, "💼 R/R: 1:%s", f2(rr))
	return b.String()
}

func CloseMessage(t models.ClosedTrade, periodProfit float64, period string) string {
	emoji := "❌"
	if t.NetPct > 0 {
		emoji = "✅"
	}
	_, gen := periodNouns(period)
	return fmt.Sprintf(
		"%s *Позиция закрыта*\n\n"+
			"📊 %s\n"+
			"💵 Вход: %s\n"+
			"💵 Выход: %s\n"+
			"💰 Net: *%s* (с комиссией)\n"+
			"⏱️ Время: %s\n"+
			"📝 Причина: %s\n\n"+
			"📈 Итог %s: %s",
		emoji,
		t.Side,
		usd(t.Entry),
		usd(t.Exit),
		pct(t.NetPct),
		humanDuration(t.Duration()),
		exitReasonRu(t.Reason),
		gen, pct(periodProfit),
	)
}

// PeriodResetMessage — итоги закончившегося периода.
func PeriodResetMessage(prev models.PeriodCounters, start time.Time, period string) string {
	head := "🌅 *Новый день*"
	if period == config.PeriodWeekly {
		head = "🗓 *Новая неделя*"
	}
	_, gen := periodNouns(period)
	return fmt.Sprintf(
		"%s\n\n"+
			"📅 %s\n"+
			"💰 Итог прошлого %s: %s\n"+
			"📊 Покупки: %d | Продажи: %d",
		head,
		start.Format("2006-01-02"),
		gen, pct(prev.Profit),
		prev.BuySignals, prev.SellSignals,
	)
}

func OpenPositionWarning(p models.Position, period string) string {
	nom, _ := periodNouns(period)
	return fmt.Sprintf(
		"⚠️ *Внимание*: %s сменился, позиция открыта\n"+
			"Тип: %s\n"+
			"Вход: %s",
		nom, p.Side, usd(p.Entry),
	)
}

func FatalMessage(failures int, err error) string {
	msg := fmt.Sprintf("❌ *Бот остановлен*: %d ошибок подряд", failures)
	if err != nil {
		msg += "\n" + escape(err.Error())
	}
	return msg
}

func StopMessage() string {
	return "👋 Бот остановлен"
}

func StatusMessage(st health.Status) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Статус* %s (%s)\n\n", escape(st.Symbol), st.Variant)
	if st.Price > 0 {
		fmt.Fprintf(&b, "💵 Цена: %s\n", usd(st.Price))
	}
	if p := st.Position; p != nil {
		fmt.Fprintf(&b, "💼 %s от %s, сейчас %s\n", p.Side, usd(p.Entry), pct(st.Unrealized))
		fmt.Fprintf(&b, "🎯 %s | 🛑 %s\n", usd(p.TakeProfit), usd(p.StopLoss))
	} else {
		b.WriteString("💼 Позиции нет\n")
	}
	fmt.Fprintf(&b, "📈 Итог периода: %s\n", pct(st.Counters.Profit))
	fmt.Fprintf(&b, "📊 Покупки: %d | Продажи: %d", st.Counters.BuySignals, st.Counters.SellSignals)
	if st.Failures > 0 {
		fmt.Fprintf(&b, "\n⚠️ Ошибок подряд: %d", st.Failures)
	}
	return b.String()
}
