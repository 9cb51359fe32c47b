package client

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/callbacktypes"
	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/common"
)

// HandleBookingEvent передаёт нажатие кнопки в диалог записи и показывает следующий шаг
func HandleBookingEvent(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	ev, err := common.DecodeBookingEvent(callback.Data)
	if err != nil {
		common.HandleError(hc, err, "decode_booking_event")
		return
	}

	prompt, err := h.Flow.Handle(ctx, hc.Conversation(), ev)
	if err != nil {
		// Черновик не изменился, пользователь может нажать кнопку ещё раз
		common.HandleError(hc, err, "booking_flow")
		return
	}

	text, kb := common.BookingScreen(prompt)
	if err := hc.Show(text, kb); err != nil {
		h.Logger.Error("Failed to show booking step",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Error(err))
	}
	hc.Answer("")
}
