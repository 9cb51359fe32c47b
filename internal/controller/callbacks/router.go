package callbacks

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/admin"
	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/callbacktypes"
	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/client"
	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/common"
	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/common/keyboard"
	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/master"
)

// Handler обработчик нажатий на inline кнопки
type Handler struct {
	*callbacktypes.Handler
}

// NewHandler создаёт обработчик callbacks с зависимостями
func NewHandler(deps *callbacktypes.Handler) *Handler {
	return &Handler{Handler: deps}
}

// HandleCallbackQuery - главный обработчик callback queries
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	Route(ctx, b, update.CallbackQuery, h.Handler)
}

// Route распределяет callback query по разделам по префиксу данных
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Debug("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID))

	switch {
	case data == keyboard.Noop:
		common.AnswerCallback(ctx, b, callback.ID, "")

	// ===== Запись к мастеру =====
	case strings.HasPrefix(data, common.PrefixBooking):
		client.HandleBookingEvent(ctx, b, callback, h)

	// ===== Клиент =====
	case data == common.ClientMenu:
		client.HandleMenu(ctx, b, callback, h)
	case data == common.ClientList:
		client.HandleList(ctx, b, callback, h)
	case data == common.ClientAbout, data == common.ClientContacts:
		client.HandleInfo(ctx, b, callback, h)
	case strings.HasPrefix(data, common.PrefixClient):
		client.HandleAction(ctx, b, callback, h)

	// ===== Мастер =====
	case data == common.MasterPanel:
		master.HandlePanel(ctx, b, callback, h)
	case data == common.MasterPending:
		master.HandlePending(ctx, b, callback, h)
	case data == common.MasterUpcoming:
		master.HandleUpcoming(ctx, b, callback, h)
	case strings.HasPrefix(data, common.PrefixMaster):
		master.HandleAction(ctx, b, callback, h)

	// ===== Администратор =====
	case strings.HasPrefix(data, common.AdminPage):
		admin.HandlePage(ctx, b, callback, h)
	case strings.HasPrefix(data, common.PrefixAdmin):
		admin.HandleAction(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		common.AnswerCallbackAlert(ctx, b, callback.ID, "Эта кнопка больше не работает. Используйте /start")
	}
}
