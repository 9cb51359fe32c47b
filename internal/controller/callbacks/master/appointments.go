package master

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/callbacktypes"
	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/common"
	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/common/keyboard"
	"github.com/MasloRich/Beauty-bot/internal/model"
)

// HandlePanel панель мастера со счётчиками
func HandlePanel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithMaster(ctx, b, callback, h, func(hc *common.HandlerContext) {
		stats, err := h.Appointments.Stats(ctx, hc.TelegramID)
		if err != nil {
			common.HandleError(hc, err, "master_stats")
			return
		}

		text, kb := common.MasterPanelScreen(hc.Master, stats)
		show(hc, text, kb)
		hc.Answer("")
	})
}

// HandlePending заявки, ожидающие подтверждения
func HandlePending(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithMaster(ctx, b, callback, h, func(hc *common.HandlerContext) {
		showList(hc, "⏳ Заявки на подтверждение", model.AppointmentStatusPending)
	})
}

// HandleUpcoming предстоящие активные записи
func HandleUpcoming(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithMaster(ctx, b, callback, h, func(hc *common.HandlerContext) {
		showList(hc, "🗓 Предстоящие записи", model.ActiveStatuses...)
	})
}

// HandleAction подтверждение, отклонение и завершение записи: ms:<action>:<id>
func HandleAction(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithMaster(ctx, b, callback, h, func(hc *common.HandlerContext) {
		_, action, appointmentID, err := common.ParseAction(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "parse_master_action")
			return
		}

		var (
			appointment *model.Appointment
			answer      string
		)
		switch action {
		case common.MasterConfirm:
			appointment, err = h.Appointments.Confirm(ctx, hc.TelegramID, appointmentID)
			answer = "✅ Запись подтверждена"
		case common.MasterReject:
			appointment, err = h.Appointments.Reject(ctx, hc.TelegramID, appointmentID)
			answer = "Запись отклонена"
		case common.MasterComplete:
			appointment, err = h.Appointments.Complete(ctx, hc.TelegramID, appointmentID)
			answer = "✔️ Визит отмечен"
		default:
			err = common.ErrInvalidFormat
		}
		if err != nil {
			common.HandleError(hc, err, "master_"+action)
			return
		}

		h.Logger.Info("Appointment updated by master",
			zap.Int64("master_id", hc.Master.ID),
			zap.Int64("appointment_id", appointment.ID),
			zap.String("status", string(appointment.Status)))

		kb := keyboard.NewBuilder().
			Row(keyboard.Button("⏳ Другие заявки", common.MasterPending)).
			AddBackButton(common.MasterPanel).
			Build()
		show(hc, common.AppointmentCard(appointment, h.Location), kb)
		hc.Answer(answer)
	})
}

func showList(hc *common.HandlerContext, title string, statuses ...model.AppointmentStatus) {
	appointments, err := hc.Handler.Appointments.ListForMaster(hc.Ctx, hc.TelegramID, statuses...)
	if err != nil {
		common.HandleError(hc, err, "list_master_appointments")
		return
	}

	text, kb := common.MasterAppointments(title, appointments, hc.Handler.Location)
	show(hc, text, kb)
	hc.Answer("")
}

func show(hc *common.HandlerContext, text string, kb *models.InlineKeyboardMarkup) {
	if err := hc.Show(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to show screen",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Error(err))
	}
}
