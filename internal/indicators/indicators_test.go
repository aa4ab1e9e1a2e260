package indicators

import (
	"math"
	"testing"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailyWindows(t *testing.T) config.Indicators {
	t.Helper()
	cfg, err := config.Default(config.VariantDaily)
	require.NoError(t, err)
	return cfg.Indicators
}

// волна вокруг 100 с постоянным диапазоном свечи 2 и объёмом 10
func waveBars(n int, start time.Time, step time.Duration) []models.Bar {
	bars := make([]models.Bar, n)
	for i := range bars {
		c := 100 + 5*math.Sin(float64(i)/4)
		bars[i] = models.Bar{
			Start:  start.Add(time.Duration(i) * step),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 10,
		}
	}
	return bars
}

func TestCompute_WarmupIsUndefined(t *testing.T) {
	cfg := dailyWindows(t)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := waveBars(120, start, 15*time.Minute)

	snaps, err := Compute(bars, cfg, start)
	require.NoError(t, err)
	require.Len(t, snaps, len(bars))

	cases := []struct {
		name     string
		lookback int
		get      func(models.Snapshot) float64
	}{
		{"rsi", cfg.RSIPeriod, func(s models.Snapshot) float64 { return s.RSI }},
		{"ema short", cfg.EMAShort - 1, func(s models.Snapshot) float64 { return s.EMAShort }},
		{"ema medium", cfg.EMAMedium - 1, func(s models.Snapshot) float64 { return s.EMAMedium }},
		{"ema long", cfg.EMALong - 1, func(s models.Snapshot) float64 { return s.EMALong }},
		{"macd", cfg.MACDSlow + cfg.MACDSignal - 2, func(s models.Snapshot) float64 { return s.MACD }},
		{"macd signal", cfg.MACDSlow + cfg.MACDSignal - 2, func(s models.Snapshot) float64 { return s.MACDSignal }},
		{"bb upper", cfg.BBPeriod - 1, func(s models.Snapshot) float64 { return s.BBUpper }},
		{"bb lower", cfg.BBPeriod - 1, func(s models.Snapshot) float64 { return s.BBLower }},
		{"stoch k", cfg.StochK + cfg.StochD - 2, func(s models.Snapshot) float64 { return s.StochK }},
		{"volume ma", cfg.VolumePeriod - 1, func(s models.Snapshot) float64 { return s.VolumeMA }},
		{"atr", cfg.ATRPeriod, func(s models.Snapshot) float64 { return s.ATR }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, math.IsNaN(tc.get(snaps[0])))
			assert.True(t, math.IsNaN(tc.get(snaps[tc.lookback-1])))
			assert.False(t, math.IsNaN(tc.get(snaps[tc.lookback])))
			assert.False(t, math.IsNaN(tc.get(snaps[len(snaps)-1])))
		})
	}
}

func TestCompute_KnownValues(t *testing.T) {
	cfg := dailyWindows(t)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := waveBars(120, start, 15*time.Minute)

	snaps, err := Compute(bars, cfg, start)
	require.NoError(t, err)

	last := snaps[len(snaps)-1]
	assert.InDelta(t, 10, last.VolumeMA, 1e-9)
	assert.InDelta(t, 2, last.ATR, 0.5)
	assert.True(t, last.BBUpper > last.BBMid && last.BBMid > last.BBLower)
	assert.True(t, last.RSI >= 0 && last.RSI <= 100)
	assert.Equal(t, bars[len(bars)-1].Close, last.Close)
}

func TestCompute_ShortHistoryIsAllUndefined(t *testing.T) {
	cfg := dailyWindows(t)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	snaps, err := Compute(waveBars(5, start, time.Minute), cfg, start)
	require.NoError(t, err)
	for _, s := range snaps {
		assert.True(t, math.IsNaN(s.EMALong))
		assert.True(t, math.IsNaN(s.MACD))
		assert.True(t, math.IsNaN(s.RSI))
	}
}

func TestCompute_NoBars(t *testing.T) {
	_, err := Compute(nil, dailyWindows(t), time.Now())
	assert.ErrorIs(t, err, ErrNoBars)
}

func TestSessionVWAP(t *testing.T) {
	day := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	bars := []models.Bar{
		{Start: day.Add(-time.Hour), High: 50, Low: 50, Close: 50, Volume: 100},
		{Start: day, High: 12, Low: 6, Close: 9, Volume: 1},
		{Start: day.Add(time.Hour), High: 13, Low: 9, Close: 11, Volume: 3},
		{Start: day.Add(2 * time.Hour), High: 1, Low: 1, Close: 1, Volume: 0},
	}

	vwap := SessionVWAP(bars, day.Add(3*time.Hour))

	assert.True(t, math.IsNaN(vwap[0]), "previous session is excluded")
	assert.InDelta(t, 9, vwap[1], 1e-9)
	assert.InDelta(t, (9+33)/4.0, vwap[2], 1e-9)
	assert.InDelta(t, (9+33)/4.0, vwap[3], 1e-9, "zero volume keeps the running value")
}

func TestSessionVWAP_NoSessionBars(t *testing.T) {
	day := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	bars := []models.Bar{{Start: day.Add(-time.Hour), High: 2, Low: 1, Close: 1.5, Volume: 5}}

	vwap := SessionVWAP(bars, day.Add(time.Minute))
	assert.True(t, math.IsNaN(vwap[0]))
}

func TestCalculatorLatest(t *testing.T) {
	cfg := dailyWindows(t)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	calc := NewCalculator(cfg)

	curr, prev, err := calc.Latest(waveBars(1, start, time.Minute), start)
	require.NoError(t, err)
	assert.Nil(t, prev)
	assert.Equal(t, start, curr.Time)

	bars := waveBars(30, start, time.Minute)
	curr, prev, err = calc.Latest(bars, start)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, bars[29].Start, curr.Time)
	assert.Equal(t, bars[28].Start, prev.Time)
}
