package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/common"
	"github.com/MasloRich/Beauty-bot/internal/format"
	"github.com/MasloRich/Beauty-bot/internal/model"
	"github.com/MasloRich/Beauty-bot/internal/service"
)

// HandleAdmin список мастеров студии
func (h *Handlers) HandleAdmin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || !h.requireAdmin(ctx, b, update) {
		return
	}

	masters, err := h.Catalog.ListAllMasters(ctx)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, err, "list_masters")
		return
	}

	text, kb := common.AdminMasters(masters, 0)
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleAddMaster /addmaster <telegram_id> <процент> <имя>
func (h *Handlers) HandleAddMaster(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || !h.requireAdmin(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	in, err := ParseAddMaster(update.Message.Text)
	if err != nil {
		h.sendMessage(ctx, b, chatID, "Формат: /addmaster <telegram_id> <процент> <имя>\nНапример: /addmaster 123456789 40 Анна Смирнова", nil)
		return
	}

	master, err := h.Catalog.AddMaster(ctx, in)
	if err != nil {
		h.sendError(ctx, b, chatID, err, "add_master")
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Мастер %s добавлен (id %d)", master.FullName, master.ID), nil)
}

// HandleAddService /addservice <master_id> <минуты> <цена> <название>
func (h *Handlers) HandleAddService(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || !h.requireAdmin(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	in, err := ParseAddService(update.Message.Text)
	if err != nil {
		h.sendMessage(ctx, b, chatID, "Формат: /addservice <master_id> <минуты> <цена> <название>\nНапример: /addservice 1 90 1500 Маникюр с покрытием", nil)
		return
	}

	svc, err := h.Catalog.AddService(ctx, in)
	if err != nil {
		h.sendError(ctx, b, chatID, err, "add_service")
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Услуга %s добавлена (id %d): %s, %s",
		svc.Name, svc.ID, format.Duration(svc.DurationMinutes), format.Price(svc.Price)), nil)
}

// HandleAddWindow /addwindow <master_id> <ГГГГ-ММ-ДД> <ЧЧ:ММ> <ЧЧ:ММ>
func (h *Handlers) HandleAddWindow(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || !h.requireAdmin(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	in, err := ParseAddWindow(update.Message.Text)
	if err != nil {
		h.sendMessage(ctx, b, chatID, "Формат: /addwindow <master_id> <ГГГГ-ММ-ДД> <ЧЧ:ММ> <ЧЧ:ММ>\nНапример: /addwindow 1 2025-03-12 10:00 18:00", nil)
		return
	}

	window, err := h.Catalog.AddScheduleWindow(ctx, in)
	if err != nil {
		h.sendError(ctx, b, chatID, err, "add_window")
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Рабочее окно добавлено: %s, %s",
		format.DayLong(window.StartsAt), format.TimeRange(window.StartsAt, window.EndsAt)), nil)
}

// ParseAddMaster разбирает аргументы /addmaster
func ParseAddMaster(text string) (service.NewMasterInput, error) {
	args := commandArgs(text)
	if len(args) < 3 {
		return service.NewMasterInput{}, fmt.Errorf("%w: expected 3 arguments", model.ErrValidation)
	}

	telegramID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return service.NewMasterInput{}, fmt.Errorf("%w: telegram id %q", model.ErrValidation, args[0])
	}
	percentage, err := strconv.Atoi(strings.TrimSuffix(args[1], "%"))
	if err != nil {
		return service.NewMasterInput{}, fmt.Errorf("%w: percentage %q", model.ErrValidation, args[1])
	}

	return service.NewMasterInput{
		TelegramID: telegramID,
		Percentage: percentage,
		FullName:   strings.Join(args[2:], " "),
	}, nil
}

// ParseAddService разбирает аргументы /addservice
func ParseAddService(text string) (service.NewServiceInput, error) {
	args := commandArgs(text)
	if len(args) < 4 {
		return service.NewServiceInput{}, fmt.Errorf("%w: expected 4 arguments", model.ErrValidation)
	}

	var nums [3]int64
	for i := range nums {
		n, err := strconv.ParseInt(args[i], 10, 64)
		if err != nil {
			return service.NewServiceInput{}, fmt.Errorf("%w: number %q", model.ErrValidation, args[i])
		}
		nums[i] = n
	}

	return service.NewServiceInput{
		MasterID:        nums[0],
		DurationMinutes: int(nums[1]),
		Price:           int(nums[2]),
		Name:            strings.Join(args[3:], " "),
	}, nil
}

// ParseAddWindow разбирает аргументы /addwindow. Формат даты и времени проверяет сервис
func ParseAddWindow(text string) (service.NewWindowInput, error) {
	args := commandArgs(text)
	if len(args) != 4 {
		return service.NewWindowInput{}, fmt.Errorf("%w: expected 4 arguments", model.ErrValidation)
	}

	masterID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return service.NewWindowInput{}, fmt.Errorf("%w: master id %q", model.ErrValidation, args[0])
	}

	return service.NewWindowInput{
		MasterID: masterID,
		Date:     args[1],
		Start:    args[2],
		End:      args[3],
	}, nil
}

// commandArgs аргументы команды без самой команды
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}
