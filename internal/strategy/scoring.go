package strategy

import (
	"fmt"
	"math"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
)

// Scorer — композитный скоринг по 7 проверкам.
type Scorer struct {
	name string
	cfg  config.Scoring
}

func NewScorer(name string, cfg config.Scoring) *Scorer {
	return &Scorer{name: name, cfg: cfg}
}

func (s *Scorer) Name() string { return s.name }

func (s *Scorer) Evaluate(curr models.Snapshot, prev *models.Snapshot) models.Verdict {
	return Evaluate(curr, prev, s.cfg)
}

type tally struct {
	score   float64
	reasons []string
}

func (t *tally) add(points float64, format string, args ...any) {
	t.score += points
	t.reasons = append(t.reasons, fmt.Sprintf(format, args...))
}

// Evaluate считает buy/sell баллы независимо и выбирает сторону.
// Неопределённое обязательное поле => Abstain.
func Evaluate(curr models.Snapshot, prev *models.Snapshot, cfg config.Scoring) models.Verdict {
	trend := trendLine(curr, cfg)
	if !models.Defined(curr.Close, curr.RSI, curr.BBUpper, curr.BBLower, curr.MACD, curr.MACDSignal,
		curr.EMAShort, trend, curr.Volume, curr.VolumeMA) {
		return models.Abstain()
	}
	if cfg.Stochastic && math.IsNaN(curr.StochK) {
		return models.Abstain()
	}

	var buy, sell tally

	// 1. RSI
	if curr.RSI < cfg.RSIOversold {
		buy.add(1, "RSI(%.1f)<%g", curr.RSI, cfg.RSIOversold)
	}
	if curr.RSI > cfg.RSIOverbought {
		sell.add(1, "RSI(%.1f)>%g", curr.RSI, cfg.RSIOverbought)
	}

	// 2. положение в полосах Боллинджера, нулевую ширину пропускаем
	if width := curr.BBUpper - curr.BBLower; width > 0 {
		pos := (curr.Close - curr.BBLower) / width
		if pos < cfg.BandLow {
			buy.add(1, "BB low(%.0f%%)", pos*100)
		}
		if pos > cfg.BandHigh {
			sell.add(1, "BB high(%.0f%%)", pos*100)
		}
	}

	// 3. MACD
	scoreMACD(curr, prev, cfg, &buy, &sell)

	// 4. EMA
	scoreTrend(curr.EMAShort, trend, cfg, &buy, &sell)

	// 5. стохастик
	if cfg.Stochastic {
		if curr.StochK < cfg.StochLow {
			buy.add(1, "Stoch(%.0f)<%g", curr.StochK, cfg.StochLow)
		}
		if curr.StochK > cfg.StochHigh {
			sell.add(1, "Stoch(%.0f)>%g", curr.StochK, cfg.StochHigh)
		}
	}

	// 6. объём подтверждает силу, не направление: балл обеим сторонам
	if curr.VolumeMA > 0 && curr.Volume > curr.VolumeMA*cfg.VolumeMultiplier {
		ratio := curr.Volume / curr.VolumeMA
		buy.add(1, "Vol(%.1fx)", ratio)
		sell.add(1, "Vol(%.1fx)", ratio)
	}

	// 7. VWAP сессии; нет VWAP — нет проверки
	if cfg.VWAP && !math.IsNaN(curr.VWAP) {
		if curr.Close < curr.VWAP {
			buy.add(1, "below VWAP")
		}
		if curr.Close > curr.VWAP {
			sell.add(1, "above VWAP")
		}
	}

	return decide(buy, sell, cfg.MinScore)
}

// decide: ничья => NONE, иначе побеждает большая сторона, если дотянула до minScore.
func decide(buy, sell tally, minScore float64) models.Verdict {
	v := models.Verdict{Side: models.SideNone, BuyScore: buy.score, SellScore: sell.score}

	switch {
	case buy.score == sell.score:
	case buy.score > sell.score && buy.score >= minScore:
		v.Side, v.Score, v.Reasons = models.SideBuy, buy.score, buy.reasons
	case sell.score > buy.score && sell.score >= minScore:
		v.Side, v.Score, v.Reasons = models.SideSell, sell.score, sell.reasons
	}
	return v
}

func scoreMACD(curr models.Snapshot, prev *models.Snapshot, cfg config.Scoring, buy, sell *tally) {
	above := curr.MACD > curr.MACDSignal
	below := curr.MACD < curr.MACDSignal

	// без предыдущей свечи кроссовер не определить: простое направление
	if !cfg.MACDCrossover || prev == nil || !models.Defined(prev.MACD, prev.MACDSignal) {
		if above {
			buy.add(1, "MACD+")
		}
		if below {
			sell.add(1, "MACD-")
		}
		return
	}

	switch {
	case above && prev.MACD <= prev.MACDSignal:
		buy.add(1, "MACD cross up")
	case above:
		buy.add(0.5, "MACD+")
	case below && prev.MACD >= prev.MACDSignal:
		sell.add(1, "MACD cross down")
	case below:
		sell.add(0.5, "MACD-")
	}
}

// scoreTrend: порядок EMA даёт балл; если порядка нет, но линии ближе
// TrendTolerance, стороне начисляется пол-балла за возможный кросс.
func scoreTrend(short, trend float64, cfg config.Scoring, buy, sell *tally) {
	near := false
	var gap float64
	if cfg.TrendTolerance > 0 && trend > 0 {
		gap = math.Abs(short-trend) / trend
		near = gap < cfg.TrendTolerance
	}

	if short > trend {
		buy.add(1, "EMA+")
	} else if near {
		buy.add(0.5, "EMA near(%.2f%%)", gap*100)
	}

	if short < trend {
		sell.add(1, "EMA-")
	} else if near {
		sell.add(0.5, "EMA near(%.2f%%)", gap*100)
	}
}

func trendLine(s models.Snapshot, cfg config.Scoring) float64 {
	if cfg.TrendLine == config.TrendLong {
		return s.EMALong
	}
	return s.EMAMedium
}
