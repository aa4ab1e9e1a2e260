package service

import (
	"sync/atomic"
	"time"

	"signal_bot/internal/models"
)

// Status — снимок состояния цикла для /healthz и /status в Telegram.
// Пишется только циклом, читается кем угодно.
type Status struct {
	Variant string
	Symbol  string

	Price      float64
	Position   *models.Position
	Unrealized float64 // net %, если позиция открыта

	Counters models.PeriodCounters
	Failures int // подряд
}

type State struct {
	ready     atomic.Bool
	startedAt time.Time

	lastTickUnix atomic.Int64 // unix seconds
	status       atomic.Pointer[Status]
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	s.status.Store(&Status{})
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) TouchTick(t time.Time) { s.lastTickUnix.Store(t.Unix()) }
func (s *State) LastTick() time.Time {
	u := s.lastTickUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }

// SetStatus сохраняет копию: позиция и причины не должны меняться у читателя.
func (s *State) SetStatus(st Status) {
	if st.Position != nil {
		p := *st.Position
		p.Reasons = append([]string(nil), p.Reasons...)
		st.Position = &p
	}
	s.status.Store(&st)
}

func (s *State) Status() Status { return *s.status.Load() }
