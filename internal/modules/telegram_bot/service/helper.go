package service

import (
	"fmt"
	"strings"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// цены с разделителем тысяч: $104,250.00
var printer = message.NewPrinter(language.English)

func usd(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

func f2(v float64) string { // для красивого вывода
	return fmt.Sprintf("%.2f", v)
}

// pct со знаком: +0.60%, -3.20%
func pct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

func humanDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	switch {
	case h >= 24:
		return fmt.Sprintf("%dд %dч %02dм", h/24, h%24, m)
	case h > 0:
		return fmt.Sprintf("%dч %02dм", h, m)
	}
	return fmt.Sprintf("%dм", m)
}

func exitReasonRu(r models.ExitReason) string {
	switch r {
	case models.ExitTarget:
		return "цель"
	case models.ExitStop:
		return "стоп"
	}
	return string(r)
}

// periodNouns: "день"/"дня", "неделя"/"недели".
func periodNouns(period string) (nominative, genitive string) {
	if period == config.PeriodWeekly {
		return "неделя", "недели"
	}
	return "день", "дня"
}

// escape для legacy Markdown Telegram.
var mdEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escape(s string) string { return mdEscaper.Replace(s) }
