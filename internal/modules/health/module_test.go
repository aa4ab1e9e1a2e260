package health

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/health/service"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	state   *service.State
	metrics *service.Metrics
	hub     *service.Hub
	srv     *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		state:   service.NewState(),
		metrics: service.NewMetrics(),
		hub:     service.NewHub(),
	}
	f.srv = httptest.NewServer(NewMux(f.state, f.metrics, f.hub))
	t.Cleanup(f.srv.Close)
	return f
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestLiveAndReady(t *testing.T) {
	f := newFixture(t)

	code, body := get(t, f.srv.URL+"/livez")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)

	code, _ = get(t, f.srv.URL+"/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)

	f.state.SetReady(true)
	code, body = get(t, f.srv.URL+"/readyz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	entry := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	f.state.TouchTick(entry.Add(time.Hour))
	f.state.SetStatus(service.Status{
		Variant: "daily",
		Symbol:  "BTCUSDT",
		Price:   101,
		Position: &models.Position{
			Side: models.SideBuy, Entry: 100, EntryTime: entry, TakeProfit: 100.8, StopLoss: 97.5,
		},
		Unrealized: 0.8,
		Counters:   models.PeriodCounters{Profit: 0.6, BuySignals: 1},
		Failures:   2,
	})

	code, body := get(t, f.srv.URL+"/healthz")
	require.Equal(t, http.StatusOK, code)

	var resp struct {
		Ready               bool    `json:"ready"`
		LastTickUnix        int64   `json:"lastTickUnix"`
		Variant             string  `json:"variant"`
		PeriodProfitPct     float64 `json:"periodProfitPct"`
		BuySignals          int     `json:"buySignals"`
		ConsecutiveFailures int     `json:"consecutiveFailures"`
		Position            *struct {
			Side       string  `json:"side"`
			TakeProfit float64 `json:"takeProfit"`
		} `json:"position"`
	}
	require.NoError(t, sonic.UnmarshalString(body, &resp))

	assert.False(t, resp.Ready)
	assert.Equal(t, entry.Add(time.Hour).Unix(), resp.LastTickUnix)
	assert.Equal(t, "daily", resp.Variant)
	assert.Equal(t, 0.6, resp.PeriodProfitPct)
	assert.Equal(t, 1, resp.BuySignals)
	assert.Equal(t, 2, resp.ConsecutiveFailures)
	require.NotNil(t, resp.Position)
	assert.Equal(t, "BUY", resp.Position.Side)
	assert.Equal(t, 100.8, resp.Position.TakeProfit)
}

func TestMetrics(t *testing.T) {
	f := newFixture(t)
	f.metrics.Cycles.WithLabelValues(service.CycleOK).Inc()
	f.metrics.Signals.WithLabelValues("BUY").Inc()
	f.metrics.SetPosition(&models.Position{Side: models.SideSell})

	code, body := get(t, f.srv.URL+"/metrics")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `signal_bot_cycles_total{result="ok"} 1`)
	assert.Contains(t, body, `signal_bot_signals_total{side="BUY"} 1`)
	assert.Contains(t, body, `signal_bot_open_position -1`)
}

func TestWSFeed(t *testing.T) {
	f := newFixture(t)

	url := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return f.hub.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	f.hub.Publish(service.Event{Type: service.EventSignal, Side: "SELL", Price: 50000, Score: 5})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev service.Event
	require.NoError(t, sonic.Unmarshal(data, &ev))
	assert.Equal(t, service.EventSignal, ev.Type)
	assert.Equal(t, "SELL", ev.Side)
	assert.Equal(t, 50000.0, ev.Price)

	conn.Close()
	assert.Eventually(t, func() bool { return f.hub.Subscribers() == 0 }, time.Second, 5*time.Millisecond)
}
