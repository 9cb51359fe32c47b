package client

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/callbacktypes"
	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/common"
)

// HandleMenu показывает главное меню
func HandleMenu(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	roles, err := h.Roles.Resolve(ctx, hc.TelegramID)
	if err != nil {
		common.HandleError(hc, err, "resolve_roles")
		return
	}

	text, kb := common.MainMenu(callback.From.FirstName, roles)
	show(hc, text, kb)
	hc.Answer("")
}

// HandleList показывает записи клиента
func HandleList(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)
	if showList(hc) {
		hc.Answer("")
	}
}

// HandleInfo справочные экраны студии
func HandleInfo(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	text, kb := common.AboutScreen(h.Studio)
	if callback.Data == common.ClientContacts {
		text, kb = common.ContactsScreen(h.Studio)
	}
	show(hc, text, kb)
	hc.Answer("")
}

// HandleAction отмена записи клиентом: cl:cancel:<id> спрашивает подтверждение, cl:sure:<id> отменяет
func HandleAction(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	_, action, appointmentID, err := common.ParseAction(callback.Data)
	if err != nil {
		common.HandleError(hc, err, "parse_client_action")
		return
	}

	switch action {
	case common.ClientCancel:
		appointment, err := h.Appointments.GetForClient(ctx, hc.TelegramID, appointmentID)
		if err != nil {
			common.HandleError(hc, err, "get_client_appointment")
			return
		}
		text, kb := common.ClientCancelConfirm(appointment, h.Location)
		show(hc, text, kb)
		hc.Answer("")

	case common.ClientCancelSure:
		if _, err := h.Appointments.CancelByClient(ctx, hc.TelegramID, appointmentID); err != nil {
			common.HandleError(hc, err, "cancel_by_client")
			return
		}
		h.Logger.Info("Appointment cancelled by client",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Int64("appointment_id", appointmentID))
		if showList(hc) {
			hc.Answer("Запись отменена")
		}

	default:
		common.HandleError(hc, common.ErrInvalidFormat, "client_action")
	}
}

// showList показывает записи клиента; false если ответ на callback уже отправлен с ошибкой
func showList(hc *common.HandlerContext) bool {
	appointments, err := hc.Handler.Appointments.ListForClient(hc.Ctx, hc.TelegramID)
	if err != nil {
		common.HandleError(hc, err, "list_client_appointments")
		return false
	}

	text, kb := common.ClientAppointments(appointments, hc.Handler.Location)
	show(hc, text, kb)
	return true
}

func show(hc *common.HandlerContext, text string, kb *models.InlineKeyboardMarkup) {
	if err := hc.Show(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to show screen",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Error(err))
	}
}
