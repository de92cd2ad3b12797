package notify

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/liemthanh24/notekeeper/pkg/scheduler"
)

// Telegram pushes fired-alarm notifications to one chat.
type Telegram struct {
	API    *tgbotapi.BotAPI
	ChatID int64
}

// Ensure Telegram implements scheduler.Notifier
var _ scheduler.Notifier = (*Telegram)(nil)

// NewTelegram creates a Telegram notifier for the given bot token and chat.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("error creating Telegram bot: %w", err)
	}
	return &Telegram{API: api, ChatID: chatID}, nil
}

func (t *Telegram) Notify(ev scheduler.Event) {
	msg := tgbotapi.NewMessage(t.ChatID, Message(ev))
	if _, err := t.API.Send(msg); err != nil {
		log.Printf("notify: failed to send Telegram notification for alarm %d: %v", ev.Alarm.ID, err)
	}
}
