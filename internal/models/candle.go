package models

import "time"

// Bar — закрытая OHLCV-свеча. Источники отдают их по возрастанию Start.
type Bar struct {
	Start  time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// TypicalPrice (H+L+C)/3, используется для VWAP.
func (b Bar) TypicalPrice() float64 {
	return (b.High + b.Low + b.Close) / 3
}
