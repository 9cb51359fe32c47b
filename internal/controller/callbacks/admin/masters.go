package admin

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/callbacktypes"
	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/common"
	"github.com/MasloRich/Beauty-bot/internal/model"
)

// HandlePage страница списка мастеров: ad:page:<n>
func HandlePage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		page, err := common.ParsePage(callback.Data, common.AdminPage)
		if err != nil {
			common.HandleError(hc, err, "parse_admin_page")
			return
		}
		showPage(hc, page, 0, "")
	})
}

// HandleAction переключение активности мастера: ad:toggle:<id>
func HandleAction(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		_, action, masterID, err := common.ParseAction(callback.Data)
		if err != nil || action != common.AdminToggle {
			common.HandleError(hc, common.ErrInvalidFormat, "parse_admin_action")
			return
		}

		current, err := h.Catalog.GetMaster(ctx, masterID)
		if err != nil {
			common.HandleError(hc, err, "get_master")
			return
		}
		if current == nil {
			common.HandleError(hc, model.ErrNotFound, "get_master")
			return
		}

		updated, err := h.Catalog.SetMasterActive(ctx, masterID, !current.IsActive)
		if err != nil {
			common.HandleError(hc, err, "toggle_master")
			return
		}

		h.Logger.Info("Master toggled by admin",
			zap.Int64("admin_id", hc.TelegramID),
			zap.Int64("master_id", masterID),
			zap.Bool("active", updated.IsActive))

		answer := "⏸ Мастер отключён"
		if updated.IsActive {
			answer = "▶️ Мастер включён"
		}
		showPage(hc, 0, masterID, answer)
	})
}

// showPage показывает страницу page; если focusID задан, страницу, на которой этот мастер
func showPage(hc *common.HandlerContext, page int, focusID int64, answer string) {
	masters, err := hc.Handler.Catalog.ListAllMasters(hc.Ctx)
	if err != nil {
		common.HandleError(hc, err, "list_masters")
		return
	}

	for i, m := range masters {
		if focusID != 0 && m.ID == focusID {
			page = i / common.AdminPageSize
		}
	}

	text, kb := common.AdminMasters(masters, page)
	if err := hc.Show(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to show masters",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Error(err))
	}
	hc.Answer(answer)
}
