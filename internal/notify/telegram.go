// Package notify delivers composed feedback to learners over Telegram.
// Delivery is optional: learners without a linked chat are skipped.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/lingofeed/internal/feedback"
)

// ChatResolver maps a learner to their Telegram chat id, 0 when none.
type ChatResolver interface {
	ChatID(ctx context.Context, learnerID int64) (int64, error)
}

// Telegram sends feedback messages through the bot API.
type Telegram struct {
	bot      *tgbotapi.BotAPI
	resolver ChatResolver
}

// NewTelegram creates the notifier from a bot token.
func NewTelegram(token string, resolver ChatResolver) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %v", err)
	}
	return &Telegram{bot: bot, resolver: resolver}, nil
}

// NotifyFeedback sends the three phrases as one message. A learner with
// no linked chat is silently skipped.
func (t *Telegram) NotifyFeedback(ctx context.Context, learnerID int64, text feedback.Text) error {
	chatID, err := t.resolver.ChatID(ctx, learnerID)
	if err != nil {
		return fmt.Errorf("failed to resolve chat for learner %d: %v", learnerID, err)
	}
	if chatID == 0 {
		return nil
	}

	msg := tgbotapi.NewMessage(chatID, FormatMessage(text))
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send feedback to learner %d: %v", learnerID, err)
	}
	return nil
}

// FormatMessage renders the chat message body.
func FormatMessage(text feedback.Text) string {
	return fmt.Sprintf("🌱 오늘의 피드백\n\n%s\n%s\n%s", text.Summary, text.Praise, text.Motivation)
}
