package availability

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/MasloRich/Beauty-bot/internal/model"
)

// WindowSource источник рабочих окон мастеров
type WindowSource interface {
	GetWindowsByDate(ctx context.Context, masterID int64, date time.Time) ([]*model.ScheduleWindow, error)
	GetWindowDates(ctx context.Context, masterID int64, from, to time.Time) ([]time.Time, error)
}

// BusySource источник активных записей мастера
type BusySource interface {
	GetActiveByMasterBetween(ctx context.Context, masterID int64, from, to time.Time) ([]*model.Appointment, error)
}

// Options настройки генерации слотов
type Options struct {
	Step        time.Duration // шаг сетки; 0 = длительность услуги
	MinNotice   time.Duration // минимальное время до начала записи
	HorizonDays int           // на сколько дней вперёд можно записаться
	Location    *time.Location
	Now         func() time.Time
}

// Resolver выдаёт доступные даты и слоты по данным хранилища
type Resolver struct {
	windows WindowSource
	busy    BusySource
	opts    Options
}

func NewResolver(windows WindowSource, busy BusySource, opts Options) *Resolver {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Resolver{windows: windows, busy: busy, opts: opts}
}

// Location часовой пояс студии
func (r *Resolver) Location() *time.Location {
	return r.opts.Location
}

// Today начало сегодняшнего дня в часовом поясе студии
func (r *Resolver) Today() time.Time {
	return DayStart(r.opts.Now(), r.opts.Location)
}

// Dates возвращает будущие даты (с завтрашнего дня и в пределах горизонта),
// на которые у мастера есть рабочие окна
func (r *Resolver) Dates(ctx context.Context, masterID int64) ([]time.Time, error) {
	today := r.Today()
	from := today.AddDate(0, 0, 1)
	to := today.AddDate(0, 0, r.opts.HorizonDays)

	dates, err := r.windows.GetWindowDates(ctx, masterID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get window dates: %w", err)
	}
	return dates, nil
}

// IsBookableDate проверяет что дату можно выбрать для записи
func (r *Resolver) IsBookableDate(ctx context.Context, masterID int64, date time.Time) (bool, error) {
	dates, err := r.Dates(ctx, masterID)
	if err != nil {
		return false, err
	}
	date = DayStart(date, r.opts.Location)
	for _, d := range dates {
		if DayStart(d, r.opts.Location).Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

// Slots возвращает свободные времена начала для услуги длительностью duration.
// Окна и занятые интервалы читаются один раз; последовательность обходит этот снимок.
func (r *Resolver) Slots(ctx context.Context, masterID int64, date time.Time, duration time.Duration) (iter.Seq[time.Time], error) {
	day := DayStart(date, r.opts.Location)

	windows, err := r.windows.GetWindowsByDate(ctx, masterID, day)
	if err != nil {
		return nil, fmt.Errorf("get windows: %w", err)
	}

	appointments, err := r.busy.GetActiveByMasterBetween(ctx, masterID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("get active appointments: %w", err)
	}

	busy := make([]Interval, 0, len(appointments))
	for _, a := range appointments {
		if !a.IsActive() {
			continue
		}
		busy = append(busy, Interval{Start: a.StartTime, End: a.EndTime})
	}

	step := r.opts.Step
	if step <= 0 {
		step = duration
	}
	notBefore := r.opts.Now().Add(r.opts.MinNotice)

	return func(yield func(time.Time) bool) {
		for _, w := range windows {
			window := Interval{Start: w.StartsAt, End: w.EndsAt}
			for start := range Candidates(window, busy, duration, step, notBefore) {
				if !yield(start) {
					return
				}
			}
		}
	}, nil
}

// IsFree проверяет что слот [start, start+duration) всё ещё свободен
func (r *Resolver) IsFree(ctx context.Context, masterID int64, start time.Time, duration time.Duration) (bool, error) {
	slots, err := r.Slots(ctx, masterID, start, duration)
	if err != nil {
		return false, err
	}
	for s := range slots {
		if s.Equal(start) {
			return true, nil
		}
	}
	return false, nil
}

// DayStart полночь даты t в часовом поясе loc
func DayStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
