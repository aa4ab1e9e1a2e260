package indicators

import (
	"errors"
	"math"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"

	"github.com/markcheno/go-talib"
)

var ErrNoBars = errors.New("indicators: no bars")

// Calculator считает снапшоты по окну свечей. Чистая функция от свечей,
// окон из конфига и даты сессии для VWAP.
type Calculator struct {
	cfg config.Indicators
}

func NewCalculator(cfg config.Indicators) *Calculator {
	return &Calculator{cfg: cfg}
}

// Latest — снапшот последней свечи и предыдущей (nil, если свеча одна).
func (c *Calculator) Latest(bars []models.Bar, now time.Time) (models.Snapshot, *models.Snapshot, error) {
	snaps, err := Compute(bars, c.cfg, now)
	if err != nil {
		return models.Snapshot{}, nil, err
	}

	curr := snaps[len(snaps)-1]
	if len(snaps) < 2 {
		return curr, nil, nil
	}
	prev := snaps[len(snaps)-2]
	return curr, &prev, nil
}

// Compute возвращает снапшот на каждую свечу. До конца прогрева индикатора
// его значения NaN (talib в этих местах отдаёт нули).
func Compute(bars []models.Bar, cfg config.Indicators, now time.Time) ([]models.Snapshot, error) {
	n := len(bars)
	if n == 0 {
		return nil, ErrNoBars
	}

	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	volumes := make([]float64, n)
	for i, b := range bars {
		closes[i], highs[i], lows[i], volumes[i] = b.Close, b.High, b.Low, b.Volume
	}

	rsi := series(n, cfg.RSIPeriod, func() []float64 { return talib.Rsi(closes, cfg.RSIPeriod) })
	emaShort := series(n, cfg.EMAShort-1, func() []float64 { return talib.Ema(closes, cfg.EMAShort) })
	emaMedium := series(n, cfg.EMAMedium-1, func() []float64 { return talib.Ema(closes, cfg.EMAMedium) })
	emaLong := series(n, cfg.EMALong-1, func() []float64 { return talib.Ema(closes, cfg.EMALong) })

	macdLookback := cfg.MACDSlow - 1 + cfg.MACDSignal - 1
	var macdLine, macdSignal []float64
	if n > macdLookback {
		macdLine, macdSignal, _ = talib.Macd(closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
	}
	macdLine = warm(macdLine, n, macdLookback)
	macdSignal = warm(macdSignal, n, macdLookback)

	bbLookback := cfg.BBPeriod - 1
	var bbUpper, bbMid, bbLower []float64
	if n > bbLookback {
		bbUpper, bbMid, bbLower = talib.BBands(closes, cfg.BBPeriod, cfg.BBStdDev, cfg.BBStdDev, talib.SMA)
	}
	bbUpper = warm(bbUpper, n, bbLookback)
	bbMid = warm(bbMid, n, bbLookback)
	bbLower = warm(bbLower, n, bbLookback)

	// сырой %K (slowK=1) и его SMA как %D
	stochLookback := cfg.StochK - 1 + cfg.StochD - 1
	var stochK, stochD []float64
	if n > stochLookback {
		stochK, stochD = talib.Stoch(highs, lows, closes, cfg.StochK, 1, talib.SMA, cfg.StochD, talib.SMA)
	}
	stochK = warm(stochK, n, stochLookback)
	stochD = warm(stochD, n, stochLookback)

	volumeMA := series(n, cfg.VolumePeriod-1, func() []float64 { return talib.Sma(volumes, cfg.VolumePeriod) })
	atr := series(n, cfg.ATRPeriod, func() []float64 { return talib.Atr(highs, lows, closes, cfg.ATRPeriod) })
	vwap := SessionVWAP(bars, now)

	out := make([]models.Snapshot, n)
	for i, b := range bars {
		s := models.EmptySnapshot(b)
		s.RSI = rsi[i]
		s.EMAShort, s.EMAMedium, s.EMALong = emaShort[i], emaMedium[i], emaLong[i]
		s.MACD, s.MACDSignal = macdLine[i], macdSignal[i]
		s.BBUpper, s.BBMid, s.BBLower = bbUpper[i], bbMid[i], bbLower[i]
		s.StochK, s.StochD = stochK[i], stochD[i]
		s.VolumeMA = volumeMA[i]
		s.ATR = atr[i]
		s.VWAP = vwap[i]
		out[i] = s
	}
	return out, nil
}

// SessionVWAP — накопительный VWAP по свечам текущих локальных суток (сутки
// берутся из now). Для свечей вне сессии и при нулевом объёме NaN.
func SessionVWAP(bars []models.Bar, now time.Time) []float64 {
	out := nanSlice(len(bars))
	y, m, d := now.Date()
	loc := now.Location()

	var pv, vol float64
	for i, b := range bars {
		by, bm, bd := b.Start.In(loc).Date()
		if by != y || bm != m || bd != d {
			continue
		}
		pv += b.TypicalPrice() * b.Volume
		vol += b.Volume
		if vol > 0 {
			out[i] = pv / vol
		}
	}
	return out
}

func series(n, lookback int, fn func() []float64) []float64 {
	if lookback < 0 {
		lookback = 0
	}
	if n <= lookback {
		return nanSlice(n)
	}
	return warm(fn(), n, lookback)
}

// warm ставит NaN на индексы [0, lookback). nil => весь ряд NaN.
func warm(vals []float64, n, lookback int) []float64 {
	if len(vals) != n {
		return nanSlice(n)
	}
	for i := 0; i < lookback && i < n; i++ {
		vals[i] = math.NaN()
	}
	return vals
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
