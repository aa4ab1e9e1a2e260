package sessions

import (
	"math"
	"time"

	"signal_bot/internal/models"
)

// State — всё состояние контроллера. Переходы TryOpen/TryClose/ObserveBoundary
// чистые: принимают State по значению и возвращают новый.
type State struct {
	Position *models.Position // nil => FLAT
	Counters models.PeriodCounters
}

func NewState(now time.Time, period string) State {
	return State{Counters: models.PeriodCounters{PeriodStart: PeriodStart(now, period)}}
}

func (s State) Flat() bool { return s.Position == nil }

// Quote — цена входа и ATR на момент сигнала.
type Quote struct {
	Price float64
	ATR   float64
}

// относительный допуск сравнения с уровнями TP/SL: 100*(1+0.8/100) != 100.8 во float
const levelEpsilon = 1e-12

func reachedUp(price, level float64) bool {
	return price >= level-levelEpsilon*math.Abs(level)
}

func reachedDown(price, level float64) bool {
	return price <= level+levelEpsilon*math.Abs(level)
}
