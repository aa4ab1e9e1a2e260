package exchange

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

const okxBaseURL = "https://www.okx.com"

type OKX struct {
	baseURL string
	http    *http.Client
}

func NewOKX(baseURL string, timeout time.Duration) *OKX {
	if baseURL == "" {
		baseURL = okxBaseURL
	}
	return &OKX{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Fetch: OKX data row: [ts, o, h, l, c, vol, volCcy, volCcyQuote, confirm]
func (c *OKX) Fetch(ctx context.Context, symbol, timeframe string, limit int) ([]models.Bar, error) {
	if limit <= 0 {
		limit = 100
	}
	bar, err := okxBar(timeframe) // "1h" -> "1H"
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/api/v5/market/candles?instId=%s&bar=%s&limit=%d",
		c.baseURL, url.QueryEscape(okxInstID(symbol)), url.QueryEscape(bar), limit,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransport(ctx, errors.Wrap(err, "okx candles"))
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Transient(errors.Wrap(err, "okx candles: read body"))
	}
	if resp.StatusCode/100 != 2 {
		return nil, classifyStatus(resp.StatusCode, errors.Errorf("okx candles: http %d: %s", resp.StatusCode, string(b)))
	}

	var r struct {
		Code string     `json:"code"`
		Msg  string     `json:"msg"`
		Data [][]string `json:"data"`
	}
	if err := sonic.Unmarshal(b, &r); err != nil {
		return nil, errors.Wrap(err, "okx candles: decode")
	}
	if r.Code != "0" {
		err := errors.Errorf("okx candles error: code=%s msg=%s", r.Code, r.Msg)
		// 50011 — too many requests
		if r.Code == "50011" {
			return nil, RateLimited(err)
		}
		return nil, err
	}

	// OKX отдаёт newest-first → разворачиваем
	out := make([]models.Bar, 0, len(r.Data))
	skipped := 0
	for i := len(r.Data) - 1; i >= 0; i-- {
		b, ok := parseOKXRow(r.Data[i])
		if !ok {
			skipped++
			continue
		}
		out = append(out, b)
	}
	if skipped > 0 {
		logger.Warn("[MARKET] okx %s %s: skipped %d malformed rows", okxInstID(symbol), bar, skipped)
	}

	return out, nil
}

// parseOKXRow: [ts, o, h, l, c, vol, ...]. Строка с любым нечитаемым полем
// или неположительным close отбрасывается целиком.
func parseOKXRow(row []string) (models.Bar, bool) {
	if len(row) < 6 {
		return models.Bar{}, false
	}
	tsMs, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return models.Bar{}, false
	}

	var vals [5]float64
	for j := range vals {
		v, err := strconv.ParseFloat(row[j+1], 64)
		if err != nil {
			return models.Bar{}, false
		}
		vals[j] = v
	}
	if vals[3] <= 0 {
		return models.Bar{}, false
	}

	return models.Bar{
		Start:  time.UnixMilli(tsMs),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, true
}

// okxInstID: BTCUSDT -> BTC-USDT, BTC/USDT -> BTC-USDT; уже дефисный не трогаем.
func okxInstID(symbol string) string {
	s := strings.ToUpper(strings.ReplaceAll(symbol, "/", "-"))
	if strings.Contains(s, "-") {
		return s
	}
	for _, quote := range []string{"USDT", "USDC", "USD", "BTC", "ETH"} {
		if strings.HasSuffix(s, quote) && len(s) > len(quote) {
			return s[:len(s)-len(quote)] + "-" + quote
		}
	}
	return s
}

func okxBar(tf string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(tf)) {
	case "1m", "3m", "5m", "15m", "30m":
		return strings.ToLower(strings.TrimSpace(tf)), nil

	case "60m", "1h":
		return "1H", nil
	case "2h":
		return "2H", nil
	case "4h":
		return "4H", nil
	case "6h":
		return "6H", nil
	case "12h":
		return "12H", nil

	case "1d":
		return "1D", nil
	case "1w":
		return "1W", nil
	}
	return "", fmt.Errorf("unsupported timeframe for OKX bar: %q", tf)
}
