// Package booking ведёт клиента через выбор мастера, услуги, даты и времени
// и создаёт запись только после явного подтверждения.
//
// Transition чистая функция (шаг, событие) -> (шаг, эффекты). Flow исполняет
// эффекты: читает каталог и свободные слоты, проверяет выбор и коммитит запись.
package booking

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MasloRich/Beauty-bot/internal/model"
)

// Step шаг диалога записи
type Step string

const (
	StepIdle            Step = "idle"
	StepChoosingMaster  Step = "choosing_master"
	StepChoosingService Step = "choosing_service"
	StepChoosingDate    Step = "choosing_date"
	StepChoosingTime    Step = "choosing_time"
	StepConfirming      Step = "confirming"
	StepCommitted       Step = "committed"
	StepCancelled       Step = "cancelled"
)

// Active шаг внутри незавершённого диалога
func (s Step) Active() bool {
	switch s {
	case StepChoosingMaster, StepChoosingService, StepChoosingDate, StepChoosingTime, StepConfirming:
		return true
	}
	return false
}

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Draft незавершённая запись. Хранится между событиями одного диалога
type Draft struct {
	Step           Step      `json:"step"`
	MasterID       int64     `json:"master_id,omitempty"`
	MasterName     string    `json:"master_name,omitempty"`
	ServiceID      int64     `json:"service_id,omitempty"`
	ServiceName    string    `json:"service_name,omitempty"`
	ServiceMinutes int       `json:"service_minutes,omitempty"`
	ServicePrice   int       `json:"service_price,omitempty"`
	Date           string    `json:"date,omitempty"` // YYYY-MM-DD в часовом поясе студии
	Time           string    `json:"time,omitempty"` // HH:MM
	UpdatedAt      time.Time `json:"updated_at"`
}

// ServiceDuration длительность выбранной услуги
func (d Draft) ServiceDuration() time.Duration {
	return time.Duration(d.ServiceMinutes) * time.Minute
}

// StartTime время начала выбранного слота
func (d Draft) StartTime(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+ClockLayout, d.Date+" "+d.Time, loc)
}

// Day выбранная дата
func (d Draft) Day(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, d.Date, loc)
}

// EventKind вид события от пользователя
type EventKind string

const (
	EventStart   EventKind = "start"
	EventChoose  EventKind = "choose"
	EventBack    EventKind = "back"
	EventCancel  EventKind = "cancel"
	EventConfirm EventKind = "confirm"
	EventRefresh EventKind = "refresh"
)

// Event событие диалога. Для EventChoose Step указывает, на каком шаге был
// показан вариант, а Token содержит непрозрачное значение выбора
type Event struct {
	Kind  EventKind
	Step  Step
	Token string
}

// EffectKind действие, которое Flow выполняет после перехода
type EffectKind string

const (
	EffectShowMasters  EffectKind = "show_masters"
	EffectShowServices EffectKind = "show_services"
	EffectShowDates    EffectKind = "show_dates"
	EffectShowSlots    EffectKind = "show_slots"
	EffectShowSummary  EffectKind = "show_summary"
	EffectCommit       EffectKind = "commit"
	EffectDiscard      EffectKind = "discard"
)

type Effect struct {
	Kind EffectKind
}

var (
	// ErrNoDraft событие пришло, когда запись не начата
	ErrNoDraft = errors.New("no booking in progress")
	// ErrStaleEvent событие относится к другому шагу (например старая кнопка)
	ErrStaleEvent = fmt.Errorf("%w: event does not match current step", model.ErrValidation)
)

// showEffect эффект, который заново показывает шаг
var showEffect = map[Step]EffectKind{
	StepChoosingMaster:  EffectShowMasters,
	StepChoosingService: EffectShowServices,
	StepChoosingDate:    EffectShowDates,
	StepChoosingTime:    EffectShowSlots,
	StepConfirming:      EffectShowSummary,
}

// Transition вычисляет следующий черновик и эффекты. Не обращается к хранилищу
// и не изменяет d. При ошибке черновик остаётся прежним
func Transition(d Draft, ev Event) (Draft, []Effect, error) {
	switch ev.Kind {
	case EventStart:
		return Draft{Step: StepChoosingMaster}, effects(EffectShowMasters), nil
	case EventCancel:
		return Draft{Step: StepCancelled}, effects(EffectDiscard), nil
	}

	if !d.Step.Active() {
		return d, nil, ErrNoDraft
	}

	switch ev.Kind {
	case EventRefresh:
		return d, effects(showEffect[d.Step]), nil
	case EventChoose:
		return choose(d, ev)
	case EventBack:
		return back(d)
	case EventConfirm:
		if d.Step != StepConfirming {
			return d, nil, ErrStaleEvent
		}
		next := d
		next.Step = StepCommitted
		return next, effects(EffectCommit), nil
	}

	return d, nil, fmt.Errorf("%w: unknown event %q", model.ErrValidation, ev.Kind)
}

func choose(d Draft, ev Event) (Draft, []Effect, error) {
	if ev.Step != d.Step {
		return d, nil, ErrStaleEvent
	}

	next := d
	switch d.Step {
	case StepChoosingMaster:
		id, err := parseID(ev.Token)
		if err != nil {
			return d, nil, err
		}
		next = Draft{Step: StepChoosingService, MasterID: id}
		return next, effects(EffectShowServices), nil

	case StepChoosingService:
		id, err := parseID(ev.Token)
		if err != nil {
			return d, nil, err
		}
		next.ServiceID = id
		next.ServiceName, next.ServiceMinutes, next.ServicePrice = "", 0, 0
		next.Date, next.Time = "", ""
		next.Step = StepChoosingDate
		return next, effects(EffectShowDates), nil

	case StepChoosingDate:
		if _, err := time.Parse(DateLayout, ev.Token); err != nil {
			return d, nil, fmt.Errorf("%w: bad date %q", model.ErrValidation, ev.Token)
		}
		next.Date, next.Time = ev.Token, ""
		next.Step = StepChoosingTime
		return next, effects(EffectShowSlots), nil

	case StepChoosingTime:
		if _, err := time.Parse(ClockLayout, ev.Token); err != nil {
			return d, nil, fmt.Errorf("%w: bad time %q", model.ErrValidation, ev.Token)
		}
		next.Time = ev.Token
		next.Step = StepConfirming
		return next, effects(EffectShowSummary), nil
	}

	return d, nil, ErrStaleEvent
}

func back(d Draft) (Draft, []Effect, error) {
	next := d
	switch d.Step {
	case StepChoosingService:
		return Draft{Step: StepChoosingMaster}, effects(EffectShowMasters), nil
	case StepChoosingDate:
		return Draft{Step: StepChoosingService, MasterID: d.MasterID, MasterName: d.MasterName}, effects(EffectShowServices), nil
	case StepChoosingTime:
		next.Step = StepChoosingDate
		next.Time = ""
		return next, effects(EffectShowDates), nil
	case StepConfirming:
		next.Step = StepChoosingTime
		next.Time = ""
		return next, effects(EffectShowSlots), nil
	}

	return d, nil, fmt.Errorf("%w: nothing to go back to", model.ErrValidation)
}

func parseID(token string) (int64, error) {
	id, err := strconv.ParseInt(token, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad id %q", model.ErrValidation, token)
	}
	return id, nil
}

func effects(kinds ...EffectKind) []Effect {
	out := make([]Effect, len(kinds))
	for i, k := range kinds {
		out[i] = Effect{Kind: k}
	}
	return out
}
