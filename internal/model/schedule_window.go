package model

import "time"

// ScheduleWindow рабочие часы мастера на конкретную дату.
// StartsAt и EndsAt уже собраны из даты и времени в часовом поясе студии.
type ScheduleWindow struct {
	ID       int64     `json:"id"`
	MasterID int64     `json:"master_id"`
	Date     time.Time `json:"date"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// Contains проверяет что интервал [start, end) целиком внутри окна
func (w *ScheduleWindow) Contains(start, end time.Time) bool {
	return !start.Before(w.StartsAt) && !end.After(w.EndsAt)
}
