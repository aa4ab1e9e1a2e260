package service

import (
	"context"
	"net/http"
	"time"

	"signal_bot/internal/helper"
	"signal_bot/internal/modules/config"
	health "signal_bot/internal/modules/health/service"
	"signal_bot/pkg/logger"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

// Sink — доставка уведомлений. Best-effort: false значит, что попытки
// исчерпаны; на торговые решения это не влияет.
type Sink interface {
	Send(ctx context.Context, text string) bool
}

// StatusSource отдаёт последний снимок цикла для /status.
type StatusSource interface {
	Status() health.Status
}

// botAPI — подмножество *tgbot.BotAPI, которое нам нужно.
type botAPI interface {
	Send(c tgbot.Chattable) (tgbot.Message, error)
	GetUpdatesChan(config tgbot.UpdateConfig) tgbot.UpdatesChannel
	StopReceivingUpdates()
}

// Telegram — пассивный нотифайер в один чат + команды /status и /help.
type Telegram struct {
	bot     botAPI
	chatID  int64
	retries int
	delay   time.Duration
	status  StatusSource

	sleep func(ctx context.Context, d time.Duration) error
}

// NewTelegram: у клиента свой таймаут, иначе зависший запрос к Telegram
// держит цикл. getMe на старте ограничен тем же таймаутом.
func NewTelegram(cfg config.Telegram, status StatusSource) (*Telegram, error) {
	b, err := tgbot.NewBotAPIWithClient(cfg.Token, tgbot.APIEndpoint, newHTTPClient(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "telegram bot api")
	}
	return newTelegram(b, cfg, status), nil
}

func newHTTPClient(cfg config.Telegram) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}

func newTelegram(bot botAPI, cfg config.Telegram, status StatusSource) *Telegram {
	retries := cfg.Retries
	if retries < 1 {
		retries = 1
	}
	return &Telegram{
		bot:     bot,
		chatID:  cfg.ChatID,
		retries: retries,
		delay:   cfg.RetryDelay,
		status:  status,
		sleep:   helper.Sleep,
	}
}

// Send — Markdown-сообщение с ограниченным числом повторов и фиксированной
// паузой. Если Telegram не разобрал разметку, шлём тот же текст без неё.
func (t *Telegram) Send(ctx context.Context, text string) bool {
	msg := tgbot.NewMessage(t.chatID, text)
	msg.ParseMode = tgbot.ModeMarkdown

	for attempt := 1; attempt <= t.retries; attempt++ {
		err := t.send(ctx, msg)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			logger.Warn("[TG] send abandoned: %v", err)
			return false
		}

		delay := t.delay
		var apiErr *tgbot.Error
		if errors.As(err, &apiErr) {
			if apiErr.Code == http.StatusBadRequest && msg.ParseMode != "" {
				logger.Warn("[TG] markdown rejected (%v), resending as plain text", err)
				msg.ParseMode = ""
				attempt-- // повтор без разметки не тратит попытку
				continue
			}
			if ra := time.Duration(apiErr.RetryAfter) * time.Second; ra > delay {
				delay = ra
			}
		}

		logger.Warn("[TG] send attempt %d/%d failed: %v", attempt, t.retries, err)
		if attempt == t.retries {
			break
		}
		if err := t.sleep(ctx, delay); err != nil {
			return false
		}
	}

	logger.Error("[TG] message dropped after %d attempts", t.retries)
	return false
}

// send — одна попытка, ограниченная ctx. tgbot не принимает ctx, поэтому
// запрос живёт в своей горутине до ответа или таймаута http-клиента.
func (t *Telegram) send(ctx context.Context, msg tgbot.MessageConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() {
		_, err := t.bot.Send(msg)
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start слушает команды в фоне. Сообщения из чужих чатов игнорируются.
func (t *Telegram) Start(ctx context.Context) {
	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)

	go func() {
		for update := range updates {
			t.handleUpdate(ctx, update)
		}
	}()
}

func (t *Telegram) Stop() {
	t.bot.StopReceivingUpdates()
}

// Stdout — запасной Sink без токена: пишет текст в лог.
type Stdout struct{}

func (Stdout) Send(_ context.Context, text string) bool {
	logger.Info("[NOTIFY] %s", text)
	return true
}
