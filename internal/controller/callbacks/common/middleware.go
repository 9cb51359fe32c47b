package common

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/callbacktypes"
)

// WithMaster создаёт HandlerContext и проверяет что пользователь - мастер.
// При ошибке отвечает пользователю и не вызывает handler
func WithMaster(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*HandlerContext),
) {
	hc := NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireMaster(); err != nil {
		h.Logger.Warn("Master check failed",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Error(err))
		hc.AnswerAlert(ErrorMessage(err))
		return
	}

	handler(hc)
}

// WithAdmin создаёт HandlerContext и проверяет что пользователь - администратор
func WithAdmin(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*HandlerContext),
) {
	hc := NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireAdmin(); err != nil {
		h.Logger.Warn("Admin check failed",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Error(err))
		hc.AnswerAlert(ErrorMessage(err))
		return
	}

	handler(hc)
}

// HandleError логирует ошибку и отвечает пользователю.
// Ошибки пользователя пишутся как warn, непредвиденные как error
func HandleError(hc *HandlerContext, err error, operation string) {
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.Int64("telegram_id", hc.TelegramID),
		zap.Error(err),
	}
	if ErrorMessage(err) == ErrorMessage(nil) {
		hc.Handler.Logger.Error("Operation failed", fields...)
	} else {
		hc.Handler.Logger.Warn("Operation rejected", fields...)
	}
	hc.AnswerAlert(ErrorMessage(err))
}
