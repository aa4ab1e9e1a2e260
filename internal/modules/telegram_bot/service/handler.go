package service

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = "🤖 Сигнальный бот BTC\n\n" +
	"/status — позиция и итоги периода\n" +
	"/help — эта подсказка"

func (t *Telegram) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || !msg.IsCommand() {
		return
	}
	// бот однопользовательский
	if msg.Chat.ID != t.chatID {
		return
	}

	switch msg.Command() {
	case "status":
		if t.status == nil {
			t.Send(ctx, "ℹ️ Статус пока недоступен")
			return
		}
		t.Send(ctx, StatusMessage(t.status.Status()))
	case "start", "help":
		t.Send(ctx, helpText)
	}
}
