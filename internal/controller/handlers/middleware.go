package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/MasloRich/Beauty-bot/internal/model"
)

// requireMaster проверяет что пользователь является мастером.
// Возвращает мастера и true если OK, иначе отвечает пользователю
func (h *Handlers) requireMaster(ctx context.Context, b *bot.Bot, update *models.Update) (*model.Master, bool) {
	master, err := h.Roles.RequireMaster(ctx, update.Message.From.ID)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, err, "require_master")
		return nil, false
	}
	return master, true
}

// requireAdmin проверяет что пользователь есть в списке администраторов
func (h *Handlers) requireAdmin(ctx context.Context, b *bot.Bot, update *models.Update) bool {
	if err := h.Roles.RequireAdmin(update.Message.From.ID); err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, err, "require_admin")
		return false
	}
	return true
}
