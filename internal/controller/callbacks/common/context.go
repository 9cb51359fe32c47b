package common

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/MasloRich/Beauty-bot/internal/booking"
	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/callbacktypes"
	"github.com/MasloRich/Beauty-bot/internal/model"
)

// HandlerContext содержит общие данные для обработки callback
type HandlerContext struct {
	Ctx        context.Context
	Bot        *bot.Bot
	Callback   *models.CallbackQuery
	Handler    *callbacktypes.Handler
	Message    *models.Message
	Master     *model.Master
	TelegramID int64
	ChatID     int64
}

// NewHandlerContext создаёт новый контекст обработчика
func NewHandlerContext(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
) *HandlerContext {
	msg := GetMessageFromCallback(callback)
	var chatID int64
	if msg != nil {
		chatID = msg.Chat.ID
	}

	return &HandlerContext{
		Ctx:        ctx,
		Bot:        b,
		Callback:   callback,
		Handler:    h,
		Message:    msg,
		TelegramID: callback.From.ID,
		ChatID:     chatID,
	}
}

// Conversation диалог записи пользователя
func (hc *HandlerContext) Conversation() booking.Conversation {
	return ConversationOf(hc.Callback.From)
}

// RequireMaster загружает мастера в контекст
func (hc *HandlerContext) RequireMaster() error {
	if hc.Master != nil {
		return nil
	}
	master, err := hc.Handler.Roles.RequireMaster(hc.Ctx, hc.TelegramID)
	if err != nil {
		return err
	}
	hc.Master = master
	return nil
}

// RequireAdmin проверяет что пользователь администратор
func (hc *HandlerContext) RequireAdmin() error {
	return hc.Handler.Roles.RequireAdmin(hc.TelegramID)
}

// Answer отвечает на callback query
func (hc *HandlerContext) Answer(text string) {
	AnswerCallback(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// AnswerAlert отвечает на callback query с alert
func (hc *HandlerContext) AnswerAlert(text string) {
	AnswerCallbackAlert(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// EditMessage редактирует сообщение с кнопками
func (hc *HandlerContext) EditMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	if hc.Message == nil {
		return ErrNoMessage
	}

	params := &bot.EditMessageTextParams{
		ChatID:    hc.ChatID,
		MessageID: hc.Message.ID,
		Text:      text,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	_, err := hc.Bot.EditMessageText(hc.Ctx, params)

	// Игнорируем ошибку "message is not modified" - это не настоящая ошибка
	if IsMessageNotModifiedError(err) {
		return nil
	}

	return err
}

// SendMessage отправляет новое сообщение
func (hc *HandlerContext) SendMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	_, err := hc.Bot.SendMessage(hc.Ctx, SendParams(hc.ChatID, text, keyboard))
	return err
}

// Show редактирует сообщение, а если это невозможно, отправляет новое
func (hc *HandlerContext) Show(text string, keyboard *models.InlineKeyboardMarkup) error {
	if err := hc.EditMessage(text, keyboard); err == nil {
		return nil
	}
	if hc.ChatID == 0 {
		hc.ChatID = hc.TelegramID
	}
	return hc.SendMessage(text, keyboard)
}
