package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MasloRich/Beauty-bot/internal/format"
	"github.com/MasloRich/Beauty-bot/internal/model"
)

// Option вариант ответа. Транспорт кодирует Event в данные кнопки
type Option struct {
	Label string
	Event Event
}

// Prompt ответ диалога на событие
type Prompt struct {
	Text    string
	Notice  string // пояснение к ошибке, показывается над текстом
	Options []Option
	// Columns количество кнопок выбора в ряду; навигационные кнопки всегда в отдельном ряду
	Columns int
	// Nav навигационные кнопки (назад, отмена, подтверждение)
	Nav []Option
	// Done диалог завершён (запись создана или отменена)
	Done        bool
	Appointment *model.Appointment
}

// FullText текст вместе с пояснением
func (p *Prompt) FullText() string {
	if p.Notice == "" {
		return p.Text
	}
	return "⚠️ " + p.Notice + "\n\n" + p.Text
}

var (
	navBack    = Option{Label: "⬅️ Назад", Event: Event{Kind: EventBack}}
	navCancel  = Option{Label: "❌ Отменить запись", Event: Event{Kind: EventCancel}}
	navConfirm = Option{Label: "✅ Подтвердить", Event: Event{Kind: EventConfirm}}
	navRetry   = Option{Label: "🔄 Повторить", Event: Event{Kind: EventRefresh}}
	navStart   = Option{Label: "📅 Записаться", Event: Event{Kind: EventStart}}
)

func choice(step Step, token, label string) Option {
	return Option{Label: label, Event: Event{Kind: EventChoose, Step: step, Token: token}}
}

func mastersPrompt(masters []*model.Master) *Prompt {
	if len(masters) == 0 {
		return &Prompt{
			Text: "😔 Сейчас нет мастеров, к которым можно записаться.",
			Nav:  []Option{navCancel},
		}
	}

	p := &Prompt{Text: "👩‍🎨 Выберите мастера:", Columns: 1, Nav: []Option{navCancel}}
	for _, m := range masters {
		p.Options = append(p.Options, choice(StepChoosingMaster, fmt.Sprint(m.ID), m.FullName))
	}
	return p
}

func servicesPrompt(d Draft, services []*model.Service) *Prompt {
	header := fmt.Sprintf("👩‍🎨 Мастер: %s\n\n", d.MasterName)
	if len(services) == 0 {
		return &Prompt{
			Text: header + "У мастера пока нет доступных услуг.",
			Nav:  []Option{navBack, navCancel},
		}
	}

	p := &Prompt{Text: header + "💅 Выберите услугу:", Columns: 1, Nav: []Option{navBack, navCancel}}
	for _, s := range services {
		label := fmt.Sprintf("%s · %s · %s", s.Name, format.Duration(s.DurationMinutes), format.Price(s.Price))
		p.Options = append(p.Options, choice(StepChoosingService, fmt.Sprint(s.ID), label))
	}
	return p
}

func datesPrompt(d Draft, dates []time.Time) *Prompt {
	header := draftHeader(d)
	if len(dates) == 0 {
		return &Prompt{
			Text: header + "😔 В ближайшие дни у мастера нет рабочих дней.",
			Nav:  []Option{navBack, navCancel},
		}
	}

	p := &Prompt{Text: header + "📅 Выберите дату:", Columns: 2, Nav: []Option{navBack, navCancel}}
	for _, date := range dates {
		p.Options = append(p.Options, choice(StepChoosingDate, date.Format(DateLayout), format.DayButton(date)))
	}
	return p
}

func slotsPrompt(d Draft, day time.Time, slots []time.Time) *Prompt {
	header := draftHeader(d) + fmt.Sprintf("📅 Дата: %s\n\n", format.DayLong(day))
	if len(slots) == 0 {
		return &Prompt{
			Text: header + "😔 На эту дату нет свободного времени. Выберите другую дату.",
			Nav:  []Option{navBack, navCancel},
		}
	}

	p := &Prompt{Text: header + "🕐 Выберите время:", Columns: 4, Nav: []Option{navBack, navCancel}}
	for _, slot := range slots {
		label := format.Clock(slot)
		p.Options = append(p.Options, choice(StepChoosingTime, label, label))
	}
	return p
}

func summaryPrompt(d Draft, start time.Time) *Prompt {
	end := start.Add(d.ServiceDuration())

	var b strings.Builder
	b.WriteString("📝 Проверьте запись:\n\n")
	fmt.Fprintf(&b, "👩‍🎨 Мастер: %s\n", d.MasterName)
	fmt.Fprintf(&b, "💅 Услуга: %s (%s)\n", d.ServiceName, format.Duration(d.ServiceMinutes))
	fmt.Fprintf(&b, "📅 Дата: %s\n", format.DayLong(start))
	fmt.Fprintf(&b, "🕐 Время: %s\n", format.TimeRange(start, end))
	fmt.Fprintf(&b, "💰 Стоимость: %s\n", format.Price(d.ServicePrice))

	return &Prompt{Text: b.String(), Nav: []Option{navConfirm, navBack, navCancel}}
}

func committedPrompt(a *model.Appointment, loc *time.Location) *Prompt {
	start := a.StartTime.In(loc)

	var b strings.Builder
	b.WriteString("🎉 Вы записаны!\n\n")
	fmt.Fprintf(&b, "👩‍🎨 Мастер: %s\n", a.MasterName)
	fmt.Fprintf(&b, "💅 Услуга: %s\n", a.ServiceName)
	fmt.Fprintf(&b, "📅 %s, %s\n\n", format.DayLong(start), format.TimeRange(start, a.EndTime.In(loc)))
	b.WriteString("⏳ Мастер подтвердит запись, и мы пришлём уведомление.")

	return &Prompt{Text: b.String(), Done: true, Appointment: a}
}

func cancelledPrompt() *Prompt {
	return &Prompt{Text: "Запись отменена. Возвращайтесь, когда будет удобно!", Done: true, Nav: []Option{navStart}}
}

func idlePrompt() *Prompt {
	return &Prompt{Text: "Запись не начата или уже завершена.", Done: true, Nav: []Option{navStart}}
}

func unavailablePrompt() *Prompt {
	return &Prompt{
		Text: "Сервис временно недоступен. Попробуйте ещё раз чуть позже.",
		Nav:  []Option{navRetry, navCancel},
	}
}

func draftHeader(d Draft) string {
	return fmt.Sprintf("👩‍🎨 Мастер: %s\n💅 Услуга: %s (%s, %s)\n\n",
		d.MasterName, d.ServiceName, format.Duration(d.ServiceMinutes), format.Price(d.ServicePrice))
}

// Notice текст пояснения для ошибки шага
func Notice(err error) string {
	switch {
	case errors.Is(err, ErrStaleEvent):
		return "Эта кнопка устарела. Продолжите с текущего шага."
	case errors.Is(err, model.ErrSlotConflict):
		return "Это время уже недоступно. Выберите другое."
	case errors.Is(err, model.ErrNotFound):
		return "Выбранный вариант больше недоступен."
	case errors.Is(err, model.ErrValidation):
		return "Этот вариант нельзя выбрать."
	case errors.Is(err, model.ErrUnavailable):
		return "Сервис временно недоступен."
	}
	return ""
}
