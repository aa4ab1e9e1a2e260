package helper

import (
	"context"
	"strings"
	"time"
)

// NormTF приводит таймфрейм к виду бинанса: "60m"/"1H" -> "1h", "1D" -> "1d".
func NormTF(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = strings.TrimPrefix(s, "candle")
	switch s {
	case "60m":
		return "1h"
	case "240m":
		return "4h"
	case "1440m":
		return "1d"
	default:
		return s
	}
}

// TimeframeDuration — длина свечи; 0 для неизвестного таймфрейма.
func TimeframeDuration(tf string) time.Duration {
	switch NormTF(tf) {
	case "1m":
		return time.Minute
	case "3m":
		return 3 * time.Minute
	case "5m":
		return 5 * time.Minute
	case "15m":
		return 15 * time.Minute
	case "30m":
		return 30 * time.Minute
	case "1h":
		return time.Hour
	case "2h":
		return 2 * time.Hour
	case "4h":
		return 4 * time.Hour
	case "6h":
		return 6 * time.Hour
	case "12h":
		return 12 * time.Hour
	case "1d":
		return 24 * time.Hour
	case "1w":
		return 7 * 24 * time.Hour
	default:
		return 0
	}
}

// Stale — последняя свеча старше трёх своих длин.
func Stale(lastStart, now time.Time, tf string) bool {
	d := TimeframeDuration(tf)
	if d == 0 || lastStart.IsZero() {
		return false
	}
	return now.Sub(lastStart) > 3*d
}

// Sleep ждёт d или отмены ctx. Единственный таймер-сон в проекте:
// цикл, повторы биржи и Telegram ждут через него.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
