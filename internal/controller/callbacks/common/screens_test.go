package common

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MasloRich/Beauty-bot/internal/booking"
	"github.com/MasloRich/Beauty-bot/internal/model"
	"github.com/MasloRich/Beauty-bot/internal/notification"
	"github.com/MasloRich/Beauty-bot/internal/service"
)

var msk = time.FixedZone("MSK", 3*60*60)

func callbacks(kb *models.InlineKeyboardMarkup) []string {
	var out []string
	if kb == nil {
		return out
	}
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			out = append(out, b.CallbackData)
		}
	}
	return out
}

func appointment(id int64, status model.AppointmentStatus) *model.Appointment {
	start := time.Date(2024, time.January, 20, 14, 0, 0, 0, msk)
	return &model.Appointment{
		ID:          id,
		MasterID:    1,
		StartTime:   start,
		EndTime:     start.Add(90 * time.Minute),
		Status:      status,
		MasterName:  "Анна",
		ServiceName: "Маникюр",
		ClientName:  "Ольга",
	}
}

func TestMainMenu_RoleButtons(t *testing.T) {
	_, kb := MainMenu("Ольга", service.Roles{})
	assert.NotContains(t, callbacks(kb), MasterPanel)
	assert.NotContains(t, callbacks(kb), AdminPage+"0")

	_, kb = MainMenu("Анна", service.Roles{IsAdmin: true, Master: &model.Master{ID: 1}})
	assert.Contains(t, callbacks(kb), MasterPanel)
	assert.Contains(t, callbacks(kb), AdminPage+"0")
}

func TestMainMenu_StudioInfoButtons(t *testing.T) {
	_, kb := MainMenu("Ольга", service.Roles{})
	assert.Contains(t, callbacks(kb), ClientAbout)
	assert.Contains(t, callbacks(kb), ClientContacts)
}

func TestStudioInfoScreens(t *testing.T) {
	studio := model.Studio{
		Name:       "Эстетика",
		Address:    "ул. Красивая, д. 123",
		Phone:      "+7 900 000-00-00",
		Email:      "info@beauty-studio.ru",
		Hours:      "Пн-Пт: 9:00 - 21:00",
		Directions: "Метро «Центральная», 5 минут пешком",
		Socials:    []string{"Instagram: @beauty_studio", " VK: vk.com/beauty_studio"},
	}

	t.Run("about", func(t *testing.T) {
		text, kb := AboutScreen(studio)
		assert.Contains(t, text, "🏠 Эстетика")
		assert.Contains(t, text, "📍 Адрес: ул. Красивая, д. 123")
		assert.Contains(t, text, "🕒 Часы работы: Пн-Пт: 9:00 - 21:00")
		assert.NotContains(t, text, "info@beauty-studio.ru")
		assert.Contains(t, callbacks(kb), ClientMenu)
		assert.Contains(t, callbacks(kb), EncodeBookingEvent(booking.Event{Kind: booking.EventStart}))
	})

	t.Run("contacts", func(t *testing.T) {
		text, kb := ContactsScreen(studio)
		assert.Contains(t, text, "Email: info@beauty-studio.ru")
		assert.Contains(t, text, "\nVK: vk.com/beauty_studio")
		assert.Contains(t, text, "📍 Как добраться:\nМетро «Центральная», 5 минут пешком")
		assert.Contains(t, callbacks(kb), ClientMenu)
	})

	t.Run("contacts without data", func(t *testing.T) {
		text, _ := ContactsScreen(model.Studio{Name: "Эстетика"})
		assert.Contains(t, text, "Контакты студии пока не указаны.")
		assert.NotContains(t, text, "Телефон")
	})
}

func TestBookingScreen(t *testing.T) {
	p := &booking.Prompt{
		Text:    "🕐 Выберите время:",
		Notice:  "Это время уже недоступно. Выберите другое.",
		Columns: 4,
		Options: []booking.Option{
			{Label: "10:00", Event: booking.Event{Kind: booking.EventChoose, Step: booking.StepChoosingTime, Token: "10:00"}},
			{Label: "10:30", Event: booking.Event{Kind: booking.EventChoose, Step: booking.StepChoosingTime, Token: "10:30"}},
			{Label: "11:00", Event: booking.Event{Kind: booking.EventChoose, Step: booking.StepChoosingTime, Token: "11:00"}},
			{Label: "11:30", Event: booking.Event{Kind: booking.EventChoose, Step: booking.StepChoosingTime, Token: "11:30"}},
			{Label: "12:00", Event: booking.Event{Kind: booking.EventChoose, Step: booking.StepChoosingTime, Token: "12:00"}},
		},
		Nav: []booking.Option{
			{Label: "⬅️ Назад", Event: booking.Event{Kind: booking.EventBack}},
			{Label: "❌ Отменить запись", Event: booking.Event{Kind: booking.EventCancel}},
		},
	}

	text, kb := BookingScreen(p)
	assert.Contains(t, text, "уже недоступно")
	require.NotNil(t, kb)
	require.Len(t, kb.InlineKeyboard, 3)
	assert.Len(t, kb.InlineKeyboard[0], 4)
	assert.Equal(t, "bk:choose:choosing_time:12:00", kb.InlineKeyboard[1][0].CallbackData)
	assert.Equal(t, []string{"bk:back", "bk:cancel"}, callbacks(&models.InlineKeyboardMarkup{InlineKeyboard: kb.InlineKeyboard[2:]}))
}

func TestBookingScreen_DoneShowsMenu(t *testing.T) {
	_, kb := BookingScreen(&booking.Prompt{Text: "🎉 Вы записаны!", Done: true})
	assert.Equal(t, []string{ClientList, ClientMenu}, callbacks(kb))
}

func TestClientAppointments(t *testing.T) {
	text, kb := ClientAppointments(nil, msk)
	assert.Contains(t, text, "нет записей")
	assert.Contains(t, callbacks(kb), "bk:start")

	list := []*model.Appointment{
		appointment(1, model.AppointmentStatusPending),
		appointment(2, model.AppointmentStatusConfirmed),
		appointment(3, model.AppointmentStatusCancelled),
	}
	text, kb = ClientAppointments(list, msk)
	assert.Contains(t, text, "20.01.2024, 14:00–15:30")

	data := callbacks(kb)
	assert.Contains(t, data, "cl:cancel:1")
	assert.Contains(t, data, "cl:cancel:2")
	assert.NotContains(t, data, "cl:cancel:3", "terminal appointments cannot be cancelled")
}

func TestClientCancelConfirm(t *testing.T) {
	_, kb := ClientCancelConfirm(appointment(7, model.AppointmentStatusPending), msk)
	assert.Equal(t, []string{"cl:sure:7", ClientList}, callbacks(kb))
}

func TestMasterAppointments_ActionsByStatus(t *testing.T) {
	list := []*model.Appointment{
		appointment(1, model.AppointmentStatusPending),
		appointment(2, model.AppointmentStatusConfirmed),
	}

	_, kb := MasterAppointments("⏳ Заявки", list, msk)
	assert.Equal(t, []string{"ms:confirm:1", "ms:reject:1", "ms:complete:2", MasterPanel}, callbacks(kb))

	text, kb := MasterAppointments("⏳ Заявки", nil, msk)
	assert.Contains(t, text, "Записей нет")
	assert.Equal(t, []string{MasterPanel}, callbacks(kb))
}

func TestMasterPanelScreen(t *testing.T) {
	text, kb := MasterPanelScreen(&model.Master{FullName: "Анна", IsActive: true}, &model.MasterStats{Total: 5, Pending: 2, Today: 1})
	assert.Contains(t, text, "Всего: 5 записей")
	assert.Contains(t, text, "Ожидают подтверждения: 2")
	assert.Contains(t, callbacks(kb), MasterPending)
}

func TestAdminMasters_Pagination(t *testing.T) {
	var masters []*model.Master
	for i := 1; i <= AdminPageSize+2; i++ {
		masters = append(masters, &model.Master{ID: int64(i), FullName: fmt.Sprintf("Мастер %d", i), IsActive: i%2 == 0})
	}

	_, kb := AdminMasters(masters, 0)
	data := callbacks(kb)
	assert.Contains(t, data, "ad:toggle:1")
	assert.NotContains(t, data, fmt.Sprintf("ad:toggle:%d", AdminPageSize+1))
	assert.Contains(t, data, AdminPage+"1")

	_, kb = AdminMasters(masters, 1)
	data = callbacks(kb)
	assert.Contains(t, data, fmt.Sprintf("ad:toggle:%d", AdminPageSize+1))
	assert.Contains(t, data, AdminPage+"0")
}

func TestNotificationScreen(t *testing.T) {
	a := appointment(9, model.AppointmentStatusPending)

	text, kb := NotificationScreen(notification.Event{
		AppointmentID: 9, Status: model.AppointmentStatusPending, Recipient: notification.RecipientMaster, Appointment: a,
	}, msk)
	assert.Contains(t, text, "Новая заявка")
	assert.Equal(t, []string{"ms:confirm:9", "ms:reject:9"}, callbacks(kb))

	text, _ = NotificationScreen(notification.Event{
		AppointmentID: 9, Status: model.AppointmentStatusConfirmed, Recipient: notification.RecipientClient, Appointment: a,
	}, msk)
	assert.Contains(t, text, "подтвердил")

	text, _ = NotificationScreen(notification.Event{
		AppointmentID: 9, Status: model.AppointmentStatusCancelled, Recipient: notification.RecipientMaster,
	}, msk)
	assert.Contains(t, text, "отменил")
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("confirm: %w", model.ErrNotAuthorized), "❌ Это действие вам недоступно"},
		{fmt.Errorf("get: %w", model.ErrNotFound), "❌ Запись не найдена или больше недоступна"},
		{fmt.Errorf("update: %w", model.ErrInvalidTransition), "❌ Статус записи уже изменён"},
		{fmt.Errorf("book: %w", model.ErrSlotConflict), "❌ Это время уже занято"},
		{fmt.Errorf("parse: %w", model.ErrValidation), "❌ Неверные данные"},
		{fmt.Errorf("read: %w", model.ErrUnavailable), "⏳ Сервис временно недоступен, попробуйте позже"},
		{ErrInvalidFormat, "❌ Неверный формат данных"},
		{errors.New("boom"), "❌ Произошла ошибка"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorMessage(tt.err))
	}
}
