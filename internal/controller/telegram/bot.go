// Package telegram answers chat commands so users can link a chat to their
// account and check their appointments.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/Freeeeeet/office_hours/internal/model"
	"github.com/Freeeeeet/office_hours/internal/notify"
	"github.com/Freeeeeet/office_hours/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserFinder interface {
	GetByTelegramChatID(ctx context.Context, chatID int64) (*model.User, error)
}

type AppointmentLister interface {
	ListMyAppointments(ctx context.Context, callerID uuid.UUID, role model.Role, upcomingOnly bool) ([]*model.Appointment, error)
}

const (
	textNotLinked = "This chat is not linked to an office hours account yet.\n\nUse /start to get your chat id."
	textFailure   = "❌ Something went wrong. Please try again later."
	textNoneAhead = "📭 You have no upcoming appointments."
)

type BotController struct {
	bot          *bot.Bot
	users        UserFinder
	appointments AppointmentLister
	logger       *zap.Logger
}

func NewBotController(b *bot.Bot, users UserFinder, appointments AppointmentLister, logger *zap.Logger) *BotController {
	return &BotController{
		bot:          b,
		users:        users,
		appointments: appointments,
		logger:       logger,
	}
}

// RegisterHandlers wires the commands and publishes the command menu.
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.reply(c.startText))
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.reply(c.startText))
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/appointments", bot.MatchTypeExact, c.reply(c.appointmentsText))

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: []models.BotCommand{
			{Command: "start", Description: "🚀 Link this chat"},
			{Command: "appointments", Description: "📅 My upcoming appointments"},
			{Command: "help", Description: "❓ Help"},
		},
	})
	if err != nil {
		return fmt.Errorf("set bot commands: %w", err)
	}
	return nil
}

// Run polls for updates until ctx is done.
func (c *BotController) Run(ctx context.Context) error {
	c.logger.Info("Starting telegram bot")
	c.bot.Start(ctx)
	return nil
}

func (c *BotController) reply(text func(ctx context.Context, msg *models.Message) string) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}

		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    update.Message.Chat.ID,
			Text:      text(ctx, update.Message),
			ParseMode: models.ParseModeHTML,
		})
		if err != nil {
			c.logger.Error("Failed to send reply",
				zap.Int64("chat_id", update.Message.Chat.ID),
				zap.Error(err),
			)
		}
	}
}

func (c *BotController) startText(ctx context.Context, msg *models.Message) string {
	chatID := msg.Chat.ID

	user, err := c.users.GetByTelegramChatID(ctx, chatID)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		name := "there"
		if msg.From != nil && msg.From.FirstName != "" {
			name = msg.From.FirstName
		}
		return fmt.Sprintf(
			"👋 Hi, %s!\n\n"+
				"Your chat id is <code>%d</code>. Pass it as <code>telegramChatId</code> when you "+
				"register in office hours to get appointment notifications here.\n\n"+
				"/appointments - your upcoming appointments",
			html.EscapeString(name), chatID,
		)
	case err != nil:
		c.logger.Error("Failed to get user by chat", zap.Int64("chat_id", chatID), zap.Error(err))
		return textFailure
	}

	return fmt.Sprintf(
		"👋 Hi, %s!\n\n"+
			"This chat receives notifications for <b>%s</b>.\n\n"+
			"/appointments - your upcoming appointments",
		html.EscapeString(user.Name), html.EscapeString(user.Email),
	)
}

func (c *BotController) appointmentsText(ctx context.Context, msg *models.Message) string {
	chatID := msg.Chat.ID

	user, err := c.users.GetByTelegramChatID(ctx, chatID)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return textNotLinked
	case err != nil:
		c.logger.Error("Failed to get user by chat", zap.Int64("chat_id", chatID), zap.Error(err))
		return textFailure
	}

	appointments, err := c.appointments.ListMyAppointments(ctx, user.ID, user.Role, true)
	if err != nil {
		c.logger.Error("Failed to list appointments",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return textFailure
	}

	if len(appointments) == 0 {
		return textNoneAhead
	}
	return notify.AgendaText(appointments)
}
