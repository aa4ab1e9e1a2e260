package models

import (
	"math"
	"time"
)

// Snapshot — значения индикаторов на одной свече.
// Неопределённые (не прогретые) значения хранятся как NaN.
type Snapshot struct {
	Time   time.Time
	Close  float64
	High   float64
	Low    float64
	Volume float64

	RSI float64

	EMAShort  float64
	EMAMedium float64
	EMALong   float64

	MACD       float64
	MACDSignal float64

	BBUpper float64
	BBMid   float64
	BBLower float64

	StochK float64
	StochD float64

	VolumeMA float64
	ATR      float64
	VWAP     float64
}

// EmptySnapshot возвращает снапшот, где все индикаторы не определены.
func EmptySnapshot(b Bar) Snapshot {
	nan := math.NaN()
	return Snapshot{
		Time:   b.Start,
		Close:  b.Close,
		High:   b.High,
		Low:    b.Low,
		Volume: b.Volume,

		RSI:        nan,
		EMAShort:   nan,
		EMAMedium:  nan,
		EMALong:    nan,
		MACD:       nan,
		MACDSignal: nan,
		BBUpper:    nan,
		BBMid:      nan,
		BBLower:    nan,
		StochK:     nan,
		StochD:     nan,
		VolumeMA:   nan,
		ATR:        nan,
		VWAP:       nan,
	}
}

// Defined true, если ни одно из значений не NaN.
func Defined(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}
