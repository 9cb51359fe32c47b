package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/MasloRich/Beauty-bot/internal/booking"
	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/common/keyboard"
	"github.com/MasloRich/Beauty-bot/internal/format"
	"github.com/MasloRich/Beauty-bot/internal/model"
	"github.com/MasloRich/Beauty-bot/internal/notification"
	"github.com/MasloRich/Beauty-bot/internal/service"
)

// AdminPageSize мастеров на странице администратора
const AdminPageSize = 8

var (
	bookButton = keyboard.Button("📅 Записаться", EncodeBookingEvent(booking.Event{Kind: booking.EventStart}))
	listButton = keyboard.Button("📋 Мои записи", ClientList)
)

// MainMenu главное меню; кнопки панелей видны только при наличии роли
func MainMenu(name string, roles service.Roles) (string, *models.InlineKeyboardMarkup) {
	var text strings.Builder
	if name != "" {
		fmt.Fprintf(&text, "👋 Здравствуйте, %s!\n\n", name)
	}
	text.WriteString("Это бот записи в студию красоты. Выберите мастера, услугу и удобное время, " +
		"а мастер подтвердит запись.")

	kb := keyboard.NewBuilder().
		Row(bookButton).
		Row(listButton).
		Row(keyboard.Button("🏠 О студии", ClientAbout), keyboard.Button("📞 Контакты", ClientContacts))
	if roles.IsMaster() {
		kb.Row(keyboard.Button("💼 Панель мастера", MasterPanel))
	}
	if roles.IsAdmin {
		kb.Row(keyboard.Button("🛠 Мастера студии", AdminPage+"0"))
	}

	return text.String(), kb.Build()
}

// AboutScreen экран «О студии»
func AboutScreen(studio model.Studio) (string, *models.InlineKeyboardMarkup) {
	var text strings.Builder
	fmt.Fprintf(&text, "🏠 %s\n\n", studio.Name)
	if studio.Address != "" {
		fmt.Fprintf(&text, "📍 Адрес: %s\n", studio.Address)
	}
	if studio.Hours != "" {
		fmt.Fprintf(&text, "🕒 Часы работы: %s\n", studio.Hours)
	}
	if studio.Phone != "" {
		fmt.Fprintf(&text, "📞 Телефон: %s\n", studio.Phone)
	}
	text.WriteString("\n✨ Опытные мастера, качественные материалы и индивидуальный подход.")
	if studio.Directions != "" {
		fmt.Fprintf(&text, "\n\n%s", studio.Directions)
	}

	return text.String(), infoKeyboard()
}

// ContactsScreen экран «Контакты»; пустые поля не выводятся
func ContactsScreen(studio model.Studio) (string, *models.InlineKeyboardMarkup) {
	var text strings.Builder
	text.WriteString("📞 Контакты:\n\n")

	empty := true
	for _, line := range []struct{ label, value string }{
		{"Телефон", studio.Phone},
		{"Email", studio.Email},
		{"Адрес", studio.Address},
	} {
		if line.value != "" {
			fmt.Fprintf(&text, "%s: %s\n", line.label, line.value)
			empty = false
		}
	}
	if len(studio.Socials) > 0 {
		text.WriteString("\n📱 Социальные сети:\n")
		for _, s := range studio.Socials {
			fmt.Fprintf(&text, "%s\n", strings.TrimSpace(s))
		}
		empty = false
	}
	if studio.Hours != "" {
		fmt.Fprintf(&text, "\n🕒 Режим работы:\n%s\n", studio.Hours)
		empty = false
	}
	if studio.Directions != "" {
		fmt.Fprintf(&text, "\n📍 Как добраться:\n%s\n", studio.Directions)
		empty = false
	}
	if empty {
		text.WriteString("Контакты студии пока не указаны.")
	}

	return strings.TrimRight(text.String(), "\n"), infoKeyboard()
}

func infoKeyboard() *models.InlineKeyboardMarkup {
	return keyboard.NewBuilder().
		Row(bookButton).
		AddMenuButton(ClientMenu).
		Build()
}

// HelpText справка с командами доступных ролей
func HelpText(roles service.Roles) string {
	var b strings.Builder
	b.WriteString("📚 Справка по командам:\n\n" +
		"/start - Главное меню\n" +
		"/book - Записаться к мастеру\n" +
		"/mybookings - Мои записи\n" +
		"/cancel - Прервать оформление записи\n" +
		"/help - Показать эту справку\n")

	if roles.IsMaster() {
		b.WriteString("\nДля мастеров:\n" +
			"/master - Панель мастера: заявки и расписание\n")
	}
	if roles.IsAdmin {
		b.WriteString("\nДля администраторов:\n" +
			"/admin - Список мастеров\n" +
			"/addmaster <telegram_id> <процент> <имя> - Добавить мастера\n" +
			"/addservice <master_id> <минуты> <цена> <название> - Добавить услугу\n" +
			"/addwindow <master_id> <ГГГГ-ММ-ДД> <ЧЧ:ММ> <ЧЧ:ММ> - Рабочее окно\n")
	}
	return b.String()
}

// BookingScreen отображение шага диалога записи
func BookingScreen(p *booking.Prompt) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()

	options := make([]models.InlineKeyboardButton, 0, len(p.Options))
	for _, opt := range p.Options {
		options = append(options, keyboard.Button(opt.Label, EncodeBookingEvent(opt.Event)))
	}
	kb.Grid(options, p.Columns)

	nav := make([]models.InlineKeyboardButton, 0, len(p.Nav))
	for _, opt := range p.Nav {
		nav = append(nav, keyboard.Button(opt.Label, EncodeBookingEvent(opt.Event)))
	}
	kb.Grid(nav, 2)

	if p.Done {
		kb.Row(listButton).AddMenuButton(ClientMenu)
	}

	return p.FullText(), kb.Build()
}

// ClientAppointments список записей клиента; активные можно отменить
func ClientAppointments(appointments []*model.Appointment, loc *time.Location) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()

	if len(appointments) == 0 {
		kb.Row(bookButton).AddMenuButton(ClientMenu)
		return "📋 У вас пока нет записей.", kb.Build()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Ваши записи (%d):\n\n", len(appointments))
	for _, a := range appointments {
		start := a.StartTime.In(loc)
		fmt.Fprintf(&b, "%s %s, %s\n   %s у мастера %s\n\n",
			format.Status(a.Status).Emoji,
			format.Date(start),
			format.TimeRange(start, a.EndTime.In(loc)),
			a.ServiceName,
			a.MasterName)

		if a.IsActive() {
			label := fmt.Sprintf("❌ Отменить %s %s", format.Date(start), format.Clock(start))
			kb.Row(keyboard.Button(label, Action(PrefixClient, ClientCancel, a.ID)))
		}
	}

	kb.Row(bookButton).AddMenuButton(ClientMenu)
	return b.String(), kb.Build()
}

// ClientCancelConfirm запрос подтверждения отмены
func ClientCancelConfirm(a *model.Appointment, loc *time.Location) (string, *models.InlineKeyboardMarkup) {
	text := "Отменить запись?\n\n" + AppointmentCard(a, loc)
	kb := keyboard.NewBuilder().
		Row(keyboard.YesNoButtons(Action(PrefixClient, ClientCancelSure, a.ID), ClientList)...).
		Build()
	return text, kb
}

// AppointmentCard подробности записи
func AppointmentCard(a *model.Appointment, loc *time.Location) string {
	start := a.StartTime.In(loc)

	var b strings.Builder
	fmt.Fprintf(&b, "📌 Запись #%d\n", a.ID)
	fmt.Fprintf(&b, "👩‍🎨 Мастер: %s\n", a.MasterName)
	fmt.Fprintf(&b, "💅 Услуга: %s\n", a.ServiceName)
	if a.ClientName != "" {
		fmt.Fprintf(&b, "🙋 Клиент: %s\n", a.ClientName)
	}
	fmt.Fprintf(&b, "📅 %s, %s\n", format.DayLong(start), format.TimeRange(start, a.EndTime.In(loc)))
	fmt.Fprintf(&b, "📊 Статус: %s\n", format.Status(a.Status))
	return b.String()
}

// MasterPanelScreen панель мастера со счётчиками
func MasterPanelScreen(master *model.Master, stats *model.MasterStats) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf(
		"💼 Панель мастера %s\n\n"+
			"📊 Всего: %d %s\n"+
			"⏳ Ожидают подтверждения: %d\n"+
			"📅 Сегодня: %d\n",
		master.FullName,
		stats.Total, format.Appointments(stats.Total),
		stats.Pending,
		stats.Today,
	)
	if !master.IsActive {
		text += "\n⏸ Вы отключены, новые записи к вам не принимаются.\n"
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.Button(fmt.Sprintf("⏳ Заявки (%d)", stats.Pending), MasterPending)).
		Row(keyboard.Button("🗓 Предстоящие записи", MasterUpcoming)).
		AddMenuButton(ClientMenu).
		Build()

	return text, kb
}

// MasterAppointments список записей мастера с действиями по статусу
func MasterAppointments(title string, appointments []*model.Appointment, loc *time.Location) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()

	if len(appointments) == 0 {
		kb.AddBackButton(MasterPanel)
		return title + "\n\nЗаписей нет.", kb.Build()
	}

	var b strings.Builder
	b.WriteString(title + "\n\n")
	for _, a := range appointments {
		start := a.StartTime.In(loc)
		short := fmt.Sprintf("%s %s", format.Date(start), format.Clock(start))
		fmt.Fprintf(&b, "%s #%d %s, %s\n   %s, клиент %s\n\n",
			format.Status(a.Status).Emoji,
			a.ID,
			format.Date(start),
			format.TimeRange(start, a.EndTime.In(loc)),
			a.ServiceName,
			clientName(a))

		switch a.Status {
		case model.AppointmentStatusPending:
			kb.Row(
				keyboard.Button("✅ "+short, Action(PrefixMaster, MasterConfirm, a.ID)),
				keyboard.Button("❌ Отклонить", Action(PrefixMaster, MasterReject, a.ID)),
			)
		case model.AppointmentStatusConfirmed:
			kb.Row(keyboard.Button("✔️ Состоялась "+short, Action(PrefixMaster, MasterComplete, a.ID)))
		}
	}

	kb.AddBackButton(MasterPanel)
	return b.String(), kb.Build()
}

// AdminMasters страница списка мастеров с переключением активности
func AdminMasters(masters []*model.Master, page int) (string, *models.InlineKeyboardMarkup) {
	from, to, current, pages := keyboard.Page(len(masters), AdminPageSize, page)

	kb := keyboard.NewBuilder()
	var b strings.Builder
	fmt.Fprintf(&b, "🛠 Мастера студии (%d)\n\n", len(masters))
	if len(masters) == 0 {
		b.WriteString("Мастеров нет. Добавьте: /addmaster <telegram_id> <процент> <имя>")
	}

	for _, m := range masters[from:to] {
		state, action := "✅", "⏸ Отключить"
		if !m.IsActive {
			state, action = "⏸", "▶️ Включить"
		}
		fmt.Fprintf(&b, "%s #%d %s (tg %d, %d%%)\n", state, m.ID, m.FullName, m.TelegramID, m.Percentage)
		kb.Row(keyboard.Button(fmt.Sprintf("%s %s", action, m.FullName), Action(PrefixAdmin, AdminToggle, m.ID)))
	}

	kb.AddPagination(AdminPage, current, pages).AddMenuButton(ClientMenu)
	return b.String(), kb.Build()
}

// NotificationScreen уведомление о смене статуса записи.
// Мастер получает новую заявку с кнопками подтверждения
func NotificationScreen(ev notification.Event, loc *time.Location) (string, *models.InlineKeyboardMarkup) {
	card := ""
	if ev.Appointment != nil {
		card = "\n\n" + AppointmentCard(ev.Appointment, loc)
	}

	switch ev.Recipient {
	case notification.RecipientMaster:
		switch ev.Status {
		case model.AppointmentStatusPending:
			kb := keyboard.NewBuilder().Row(
				keyboard.Button("✅ Подтвердить", Action(PrefixMaster, MasterConfirm, ev.AppointmentID)),
				keyboard.Button("❌ Отклонить", Action(PrefixMaster, MasterReject, ev.AppointmentID)),
			).Build()
			return "🔔 Новая заявка на запись" + card, kb
		case model.AppointmentStatusCancelled:
			return "🔕 Клиент отменил запись" + card, nil
		}
		return "🔔 Запись изменена" + card, nil

	default:
		kb := keyboard.NewBuilder().Row(listButton).Build()
		switch ev.Status {
		case model.AppointmentStatusConfirmed:
			return "✅ Мастер подтвердил вашу запись" + card, kb
		case model.AppointmentStatusCancelled:
			kb = keyboard.NewBuilder().Row(bookButton).Row(listButton).Build()
			return "😔 Мастер не сможет принять вас в это время" + card, kb
		case model.AppointmentStatusCompleted:
			return "💖 Спасибо за визит! Будем рады видеть вас снова" + card, kb
		}
		return "🔔 Статус записи изменён" + card, kb
	}
}

func clientName(a *model.Appointment) string {
	if a.ClientName == "" {
		return "без имени"
	}
	return a.ClientName
}
