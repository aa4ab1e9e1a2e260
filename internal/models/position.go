package models

import "time"

type ExitReason string

const (
	ExitTarget ExitReason = "target"
	ExitStop   ExitReason = "stop"
)

// Position — виртуальная позиция, ордеров на бирже нет.
type Position struct {
	Side       Side
	Entry      float64
	EntryTime  time.Time
	TakeProfit float64
	StopLoss   float64
	StopPct    float64
	Score      float64
	Reasons    []string
}

// ClosedTrade — итог закрытой позиции. NetPct уже за вычетом комиссии в обе стороны.
type ClosedTrade struct {
	Side      Side
	Entry     float64
	Exit      float64
	EntryTime time.Time
	ExitTime  time.Time
	GrossPct  float64
	NetPct    float64
	Reason    ExitReason
}

func (t ClosedTrade) Duration() time.Duration { return t.ExitTime.Sub(t.EntryTime) }
