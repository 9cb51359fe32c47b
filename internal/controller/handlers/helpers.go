package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/common"
)

// sendError отправляет сообщение об ошибке и логирует причину
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, err error, operation string) {
	h.Logger.Warn("Command failed",
		zap.String("operation", operation),
		zap.Int64("chat_id", chatID),
		zap.Error(err))
	h.sendMessage(ctx, b, chatID, common.ErrorMessage(err), nil)
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, kb *models.InlineKeyboardMarkup) {
	_, err := b.SendMessage(ctx, common.SendParams(chatID, text, kb))
	if err != nil {
		h.Logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
