package exchange

import (
	"context"
	"errors"
	"net/http"

	"signal_bot/internal/models"
)

// Source — поставщик OHLCV. Свечи по возрастанию времени; свечей может
// прийти меньше limit, это не ошибка.
type Source interface {
	Fetch(ctx context.Context, symbol, timeframe string, limit int) ([]models.Bar, error)
}

var (
	// ErrTransient — сеть, таймаут, 5xx, открытый breaker. Можно повторить.
	ErrTransient = errors.New("transient market data error")
	// ErrRateLimited — частный случай транзиентной ошибки, ждём дольше.
	ErrRateLimited = errors.New("market data rate limited")
)

type transientError struct {
	cause       error
	rateLimited bool
}

func (e *transientError) Error() string { return e.cause.Error() }
func (e *transientError) Unwrap() error { return e.cause }

func (e *transientError) Is(target error) bool {
	return target == ErrTransient || (e.rateLimited && target == ErrRateLimited)
}

// Transient помечает ошибку как повторяемую.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{cause: err}
}

// RateLimited — транзиентная ошибка лимита запросов.
func RateLimited(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{cause: err, rateLimited: true}
}

func IsTransient(err error) bool   { return errors.Is(err, ErrTransient) }
func IsRateLimited(err error) bool { return errors.Is(err, ErrRateLimited) }

// classifyStatus: 429 — лимит, 5xx — транзиентная, прочее — постоянная.
func classifyStatus(status int, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return RateLimited(err)
	case status >= 500:
		return Transient(err)
	}
	return err
}

// classifyTransport: ошибки http.Client.Do повторяемы, кроме отмены контекста.
func classifyTransport(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return err
	}
	return Transient(err)
}
