package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

type telegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(botToken, chatID string) (Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create telegram bot")
	}

	var id int64
	if _, err := fmt.Sscanf(chatID, "%d", &id); err != nil {
		return nil, errors.Wrap(err, "invalid telegram chat id")
	}

	return &telegramNotifier{bot: bot, chatID: id}, nil
}

func (t *telegramNotifier) Notify(ctx context.Context, message string) error {
	msg := tgbotapi.NewMessage(t.chatID, message)
	_, err := t.bot.Send(msg)
	return err
}
