// Package telegram relays notifications to a Telegram chat.
package telegram

import (
	"context"
	"fmt"
	"strings"

	"citizenvoice/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender is the part of *tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier sends every relayed notification to one chat.
type Notifier struct {
	Bot    Sender
	ChatID int64
	Logger *zap.Logger
}

// NewNotifier connects to the Bot API with token.
func NewNotifier(token string, chatID int64, logger *zap.Logger) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("telegram relay authorized", zap.String("bot", bot.Self.UserName), zap.Int64("chat_id", chatID))

	return &Notifier{Bot: bot, ChatID: chatID, Logger: logger}, nil
}

// Notify sends n as a Markdown message.
func (n *Notifier) Notify(ctx context.Context, notification models.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.ChatID, Render(notification))
	msg.ParseMode = tgbotapi.ModeMarkdown

	sent, err := n.Bot.Send(msg)
	if err != nil {
		return fmt.Errorf("telegram: send notification %s: %w", notification.ID, err)
	}
	n.logger().Debug("notification relayed",
		zap.String("notification_id", notification.ID),
		zap.Int("complaint_id", notification.ComplaintID),
		zap.Int("message_id", sent.MessageID),
	)
	return nil
}

func (n *Notifier) logger() *zap.Logger {
	if n.Logger == nil {
		return zap.NewNop()
	}
	return n.Logger
}

// Render formats a notification as legacy Markdown.
func Render(notification models.Notification) string {
	var b strings.Builder
	b.WriteString("*")
	b.WriteString(escapeMarkdown(notification.Message))
	b.WriteString("*")
	if notification.FullMessage != "" && notification.FullMessage != notification.Message {
		b.WriteString("\n")
		b.WriteString(escapeMarkdown(notification.FullMessage))
	}
	if notification.ComplaintID != 0 {
		fmt.Fprintf(&b, "\nComplaint #%d", notification.ComplaintID)
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"`", "\\`",
	"[", "\\[",
)

func escapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}
