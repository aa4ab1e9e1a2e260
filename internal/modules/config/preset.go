package config

import "time"

const (
	VariantDaily  = "daily"
	VariantWeekly = "weekly"

	PeriodDaily  = "daily"
	PeriodWeekly = "weekly"

	TrendMedium = "medium"
	TrendLong   = "long"

	ProviderBinance = "binance"
	ProviderOKX     = "okx"
)

type Preset struct {
	Name        string
	Description string
	Apply       func(c *Config)
}

var Presets = map[string]Preset{
	VariantDaily: {
		Name:        "📅 Дневной",
		Description: "15m свечи, 7 проверок, цель 0.8% в день",
		Apply: func(c *Config) {
			c.Exchange.Timeframe = "15m"

			c.Indicators.RSIPeriod = 9
			c.Indicators.EMAShort = 9
			c.Indicators.EMAMedium = 21
			c.Indicators.EMALong = 50
			c.Indicators.MACDFast = 8
			c.Indicators.MACDSlow = 17
			c.Indicators.MACDSignal = 9
			c.Indicators.BBPeriod = 20
			c.Indicators.BBStdDev = 2
			c.Indicators.StochK = 14
			c.Indicators.StochD = 3

			c.Scoring.RSIOversold = 25
			c.Scoring.RSIOverbought = 75
			c.Scoring.MACDCrossover = false
			c.Scoring.TrendLine = TrendMedium
			c.Scoring.TrendTolerance = 0
			c.Scoring.Stochastic = true
			c.Scoring.VolumeMultiplier = 1.3
			c.Scoring.VWAP = true
			c.Scoring.MinScore = 5

			c.Trading.Period = PeriodDaily
			c.Trading.TakeProfitPct = 0.8
			c.Trading.StopLossPct = 2.5
			c.Trading.StopLossATRMult = 0
			c.Trading.CommissionPct = 0.1
			c.Trading.PeriodTargetPct = 0.8
			c.Trading.PerPeriodCap = 1
			c.Trading.MinSignalInterval = 15 * time.Minute

			c.Scheduler.PollInterval = 5 * time.Minute
			c.Scheduler.RetryBackoff = time.Minute
			c.Scheduler.MinBars = 100
		},
	},
	VariantWeekly: {
		Name:        "🗓 Недельный",
		Description: "1h свечи, кроссовер MACD, стоп от ATR, цель 1.5% в неделю",
		Apply: func(c *Config) {
			c.Exchange.Timeframe = "1h"

			c.Indicators.RSIPeriod = 14
			c.Indicators.EMAShort = 20
			c.Indicators.EMAMedium = 35
			c.Indicators.EMALong = 50
			c.Indicators.MACDFast = 12
			c.Indicators.MACDSlow = 26
			c.Indicators.MACDSignal = 9
			c.Indicators.BBPeriod = 20
			c.Indicators.BBStdDev = 2
			c.Indicators.StochK = 14
			c.Indicators.StochD = 3

			c.Scoring.RSIOversold = 35
			c.Scoring.RSIOverbought = 65
			c.Scoring.MACDCrossover = true
			c.Scoring.TrendLine = TrendLong
			c.Scoring.TrendTolerance = 0.01
			c.Scoring.Stochastic = false
			c.Scoring.VolumeMultiplier = 1.2
			c.Scoring.VWAP = false
			c.Scoring.MinScore = 4

			c.Trading.Period = PeriodWeekly
			c.Trading.TakeProfitPct = 1.5
			c.Trading.StopLossPct = 3
			c.Trading.StopLossATRMult = 2
			c.Trading.CommissionPct = 0.1
			c.Trading.PeriodTargetPct = 1.5
			c.Trading.PerPeriodCap = 1
			c.Trading.MinSignalInterval = time.Hour

			c.Scheduler.PollInterval = 30 * time.Minute
			c.Scheduler.RetryBackoff = 5 * time.Minute
			c.Scheduler.MinBars = 100
		},
	},
}
