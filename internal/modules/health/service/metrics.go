package service

import (
	"net/http"

	"signal_bot/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	CycleOK      = "ok"
	CycleAbstain = "abstain"
	CycleFailure = "failure"
)

// Metrics — счётчики цикла. Свой registry, чтобы тесты не делили глобальный.
type Metrics struct {
	registry *prometheus.Registry

	Cycles              *prometheus.CounterVec // result
	Signals             *prometheus.CounterVec // side
	Trades              *prometheus.CounterVec // reason
	PeriodProfit        prometheus.Gauge
	OpenPosition        prometheus.Gauge // 1 BUY, -1 SELL, 0 FLAT
	ConsecutiveFailures prometheus.Gauge
	LastPrice           prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		Cycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signal_bot_cycles_total",
				Help: "Polling cycles by result",
			},
			[]string{"result"},
		),
		Signals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signal_bot_signals_total",
				Help: "Accepted signals by side",
			},
			[]string{"side"},
		),
		Trades: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signal_bot_closed_trades_total",
				Help: "Closed virtual positions by exit reason",
			},
			[]string{"reason"},
		),
		PeriodProfit: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signal_bot_period_profit_percent",
			Help: "Net profit of the current period, percent",
		}),
		OpenPosition: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signal_bot_open_position",
			Help: "1 for BUY, -1 for SELL, 0 when flat",
		}),
		ConsecutiveFailures: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signal_bot_consecutive_failures",
			Help: "Consecutive failed cycles",
		}),
		LastPrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signal_bot_last_price",
			Help: "Close of the last fetched bar",
		}),
	}

	m.registry.MustRegister(
		m.Cycles,
		m.Signals,
		m.Trades,
		m.PeriodProfit,
		m.OpenPosition,
		m.ConsecutiveFailures,
		m.LastPrice,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) SetPosition(p *models.Position) {
	switch {
	case p == nil:
		m.OpenPosition.Set(0)
	case p.Side == models.SideBuy:
		m.OpenPosition.Set(1)
	default:
		m.OpenPosition.Set(-1)
	}
}
