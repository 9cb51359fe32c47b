package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/MasloRich/Beauty-bot/internal/booking"
	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/common"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	user := update.Message.From
	roles, err := h.Roles.Resolve(ctx, user.ID)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, err, "resolve_roles")
		return
	}

	h.Logger.Info("User started bot",
		zap.Int64("telegram_id", user.ID),
		zap.Bool("admin", roles.IsAdmin),
		zap.Bool("master", roles.IsMaster()))

	text, kb := common.MainMenu(user.FirstName, roles)
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	roles, err := h.Roles.Resolve(ctx, update.Message.From.ID)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, err, "resolve_roles")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, common.HelpText(roles), nil)
}

// HandleBook начинает диалог записи заново
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleBookingEvent(ctx, b, update, booking.Event{Kind: booking.EventStart})
}

// HandleCancel прерывает диалог записи
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleBookingEvent(ctx, b, update, booking.Event{Kind: booking.EventCancel})
}

func (h *Handlers) handleBookingEvent(ctx context.Context, b *bot.Bot, update *models.Update, ev booking.Event) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	prompt, err := h.Flow.Handle(ctx, common.ConversationOf(*update.Message.From), ev)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, err, "booking_flow")
		return
	}

	text, kb := common.BookingScreen(prompt)
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleMyBookings обрабатывает команду /mybookings
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	appointments, err := h.Appointments.ListForClient(ctx, update.Message.From.ID)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, err, "list_client_appointments")
		return
	}

	text, kb := common.ClientAppointments(appointments, h.Location)
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleMaster панель мастера
func (h *Handlers) HandleMaster(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	master, ok := h.requireMaster(ctx, b, update)
	if !ok {
		return
	}

	stats, err := h.Appointments.Stats(ctx, update.Message.From.ID)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, err, "master_stats")
		return
	}

	text, kb := common.MasterPanelScreen(master, stats)
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleTextMessage обрабатывает текст вне команд: подсказывает, как начать
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Команды обрабатываются другими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"Я понимаю кнопки и команды. Нажмите /book, чтобы записаться, или /help для справки.", nil)
}
