package exchange

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"signal_bot/internal/models"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/pkg/errors"
)

// Binance — спотовые свечи, ключи не нужны.
type Binance struct {
	client *binance.Client
}

func NewBinance(baseURL string, timeout time.Duration) *Binance {
	client := binance.NewClient("", "")
	client.HTTPClient = &http.Client{Timeout: timeout}
	if baseURL != "" {
		client.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &Binance{client: client}
}

func (c *Binance) Fetch(ctx context.Context, symbol, timeframe string, limit int) ([]models.Bar, error) {
	klines, err := c.client.NewKlinesService().
		Symbol(binanceSymbol(symbol)).
		Interval(timeframe).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, classifyBinance(ctx, errors.Wrap(err, "binance klines"))
	}

	return klinesToBars(klines)
}

func klinesToBars(klines []*binance.Kline) ([]models.Bar, error) {
	out := make([]models.Bar, 0, len(klines))
	for _, k := range klines {
		if k == nil {
			continue
		}
		b := models.Bar{Start: time.UnixMilli(k.OpenTime)}

		var err error
		for _, f := range []struct {
			dst *float64
			raw string
		}{
			{&b.Open, k.Open},
			{&b.High, k.High},
			{&b.Low, k.Low},
			{&b.Close, k.Close},
			{&b.Volume, k.Volume},
		} {
			if *f.dst, err = strconv.ParseFloat(f.raw, 64); err != nil {
				return nil, errors.Wrapf(err, "binance kline %d", k.OpenTime)
			}
		}
		out = append(out, b)
	}
	return out, nil
}

// classifyBinance: -1003 — лимит запросов, -1001/-1007 — сбой на стороне
// биржи, прочие APIError постоянные. Не-API ошибки — транспорт.
func classifyBinance(ctx context.Context, err error) error {
	var apiErr *common.APIError
	if !errors.As(err, &apiErr) {
		return classifyTransport(ctx, err)
	}
	switch apiErr.Code {
	case -1003, -1015:
		return RateLimited(err)
	case -1001, -1007:
		return Transient(err)
	}
	return err
}

func binanceSymbol(symbol string) string {
	return strings.ToUpper(strings.NewReplacer("/", "", "-", "").Replace(symbol))
}
