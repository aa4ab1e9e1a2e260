package models

type Side string

const (
	SideNone Side = ""
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

func (s Side) String() string {
	if s == SideNone {
		return "NONE"
	}
	return string(s)
}

// Verdict — результат скоринга одного цикла.
type Verdict struct {
	Side    Side
	Score   float64
	Reasons []string

	// для логов, в решении не участвуют
	BuyScore  float64
	SellScore float64
}

// Abstain — отказ от оценки (не прогретые данные).
func Abstain() Verdict {
	return Verdict{Side: SideNone}
}

func (v Verdict) HasSignal() bool { return v.Side != SideNone }
