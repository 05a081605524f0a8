// Package notify delivers appointment notifications to professors and
// students.
package notify

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/office_hours/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// MessageSender is the part of *bot.Bot the notifier needs.
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Telegram sends notifications to users that linked a chat. Users without a
// chat id are skipped silently.
type Telegram struct {
	sender MessageSender
	logger *zap.Logger
}

func NewTelegram(sender MessageSender, logger *zap.Logger) *Telegram {
	return &Telegram{sender: sender, logger: logger}
}

func (t *Telegram) AppointmentRequested(ctx context.Context, professor, student *model.User, appointment *model.Appointment) error {
	return t.send(ctx, professor, requestedText(student, appointment))
}

func (t *Telegram) AppointmentStatusChanged(ctx context.Context, student, professor *model.User, appointment *model.Appointment) error {
	return t.send(ctx, student, statusChangedText(professor, appointment))
}

func (t *Telegram) AppointmentReminder(ctx context.Context, recipient, counterpart *model.User, appointment *model.Appointment) error {
	return t.send(ctx, recipient, reminderText(counterpart, appointment))
}

func (t *Telegram) send(ctx context.Context, recipient *model.User, text string) error {
	if recipient.TelegramChatID == nil {
		t.logger.Debug("Recipient has no telegram chat, skipping",
			zap.String("user_id", recipient.ID.String()),
		)
		return nil
	}

	_, err := t.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    *recipient.TelegramChatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	return nil
}
