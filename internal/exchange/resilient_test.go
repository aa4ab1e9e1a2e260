package exchange

import (
	"context"
	"errors"
	"testing"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedSource struct {
	errs  []error
	calls int
}

func (s *scriptedSource) Fetch(context.Context, string, string, int) ([]models.Bar, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	return []models.Bar{{Close: 1}}, nil
}

func testExchangeConfig() config.Exchange {
	return config.Exchange{
		Retries:         3,
		RetryDelay:      5 * time.Second,
		RateLimitDelay:  10 * time.Second,
		BreakerFailures: 100,
		BreakerTimeout:  time.Minute,
	}
}

func newTestResilient(src Source, cfg config.Exchange) (*Resilient, *[]time.Duration) {
	r := NewResilient("test", src, cfg)
	var slept []time.Duration
	r.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return r, &slept
}

func TestResilient_RetriesTransient(t *testing.T) {
	src := &scriptedSource{errs: []error{Transient(errors.New("timeout")), RateLimited(errors.New("429"))}}
	r, slept := newTestResilient(src, testExchangeConfig())

	bars, err := r.Fetch(context.Background(), "BTCUSDT", "15m", 10)
	require.NoError(t, err)
	assert.Len(t, bars, 1)
	assert.Equal(t, 3, src.calls)
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second}, *slept)
}

func TestResilient_GivesUpAfterRetries(t *testing.T) {
	boom := Transient(errors.New("timeout"))
	src := &scriptedSource{errs: []error{boom, boom, boom, boom}}
	r, slept := newTestResilient(src, testExchangeConfig())

	_, err := r.Fetch(context.Background(), "BTCUSDT", "15m", 10)
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.Equal(t, 3, src.calls)
	assert.Len(t, *slept, 2)
}

func TestResilient_PermanentNotRetried(t *testing.T) {
	src := &scriptedSource{errs: []error{errors.New("invalid symbol")}}
	r, slept := newTestResilient(src, testExchangeConfig())

	_, err := r.Fetch(context.Background(), "NOPE", "15m", 10)
	require.Error(t, err)
	assert.False(t, IsTransient(err))
	assert.Equal(t, 1, src.calls)
	assert.Empty(t, *slept)
}

func TestResilient_BreakerOpens(t *testing.T) {
	cfg := testExchangeConfig()
	cfg.Retries = 1
	cfg.BreakerFailures = 2
	boom := Transient(errors.New("down"))
	src := &scriptedSource{errs: []error{boom, boom, boom, boom}}
	r, _ := newTestResilient(src, cfg)

	for i := 0; i < 2; i++ {
		_, err := r.Fetch(context.Background(), "BTCUSDT", "15m", 10)
		require.Error(t, err)
	}
	_, err := r.Fetch(context.Background(), "BTCUSDT", "15m", 10)
	require.Error(t, err)
	assert.True(t, IsTransient(err), "open breaker is retryable later")
	assert.Equal(t, 2, src.calls, "source is not called while open")
}

func TestResilient_CancelledWhileSleeping(t *testing.T) {
	src := &scriptedSource{errs: []error{Transient(errors.New("timeout"))}}
	r := NewResilient("test", src, testExchangeConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := r.Fetch(ctx, "BTCUSDT", "15m", 10)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestKlinesToBars(t *testing.T) {
	bars, err := klinesToBars([]*binance.Kline{
		{OpenTime: 1700000000000, Open: "100", High: "101", Low: "99", Close: "100.5", Volume: "12.5"},
		nil,
	})
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, models.Bar{
		Start: time.UnixMilli(1700000000000), Open: 100, High: 101, Low: 99, Close: 100.5, Volume: 12.5,
	}, bars[0])

	_, err = klinesToBars([]*binance.Kline{{Open: "x"}})
	assert.Error(t, err)
}

func TestClassifyBinance(t *testing.T) {
	ctx := context.Background()
	assert.True(t, IsRateLimited(classifyBinance(ctx, &common.APIError{Code: -1003, Message: "too many"})))
	assert.True(t, IsTransient(classifyBinance(ctx, &common.APIError{Code: -1001})))
	assert.False(t, IsTransient(classifyBinance(ctx, &common.APIError{Code: -1121, Message: "Invalid symbol."})))
	assert.True(t, IsTransient(classifyBinance(ctx, errors.New("dial tcp: i/o timeout"))))
}

func TestBinanceSymbol(t *testing.T) {
	assert.Equal(t, "BTCUSDT", binanceSymbol("btc/usdt"))
	assert.Equal(t, "BTCUSDT", binanceSymbol("BTC-USDT"))
}
