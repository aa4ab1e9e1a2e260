package exchange

import (
	"context"
	"errors"
	"time"

	"signal_bot/internal/helper"
	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	"signal_bot/pkg/logger"

	"github.com/jpillora/backoff"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Resilient оборачивает Source: лимит запросов, circuit breaker и
// ограниченное число повторов на транзиентных ошибках.
type Resilient struct {
	src     Source
	name    string
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker

	retries        int
	retryDelay     time.Duration
	rateLimitDelay time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

func NewResilient(name string, src Source, cfg config.Exchange) *Resilient {
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}

	st := gobreaker.Settings{Name: name}
	st.Timeout = cfg.BreakerTimeout
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= cfg.BreakerFailures
	}
	// постоянные ошибки (неверный символ и т.п.) не открывают breaker
	st.IsSuccessful = func(err error) bool {
		return err == nil || !IsTransient(err)
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		logger.Warn("[MARKET] breaker %s: %s -> %s", name, from, to)
	}

	retries := cfg.Retries
	if retries < 1 {
		retries = 1
	}

	return &Resilient{
		src:            src,
		name:           name,
		limiter:        rate.NewLimiter(limit, 1),
		breaker:        gobreaker.NewCircuitBreaker(st),
		retries:        retries,
		retryDelay:     cfg.RetryDelay,
		rateLimitDelay: cfg.RateLimitDelay,
		sleep:          helper.Sleep,
	}
}

func (r *Resilient) Fetch(ctx context.Context, symbol, timeframe string, limit int) ([]models.Bar, error) {
	b := &backoff.Backoff{Min: r.retryDelay, Max: r.rateLimitDelay, Factor: 2}

	var lastErr error
	for attempt := 1; attempt <= r.retries; attempt++ {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		out, err := r.breaker.Execute(func() (interface{}, error) {
			return r.src.Fetch(ctx, symbol, timeframe, limit)
		})
		if err == nil {
			return out.([]models.Bar), nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = Transient(err)
		}
		lastErr = err

		if !IsTransient(err) || attempt == r.retries {
			break
		}

		delay := b.Duration()
		if IsRateLimited(err) && delay < r.rateLimitDelay {
			delay = r.rateLimitDelay
		}
		logger.Warn("[MARKET] %s %s attempt %d/%d failed: %v; retry in %s",
			r.name, symbol, attempt, r.retries, err, delay)

		if err := r.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}
