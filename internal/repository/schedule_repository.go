package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/MasloRich/Beauty-bot/internal/model"
	"github.com/MasloRich/Beauty-bot/internal/repository/base"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// ScheduleRepository рабочие окна мастеров (таблица master_schedule).
// Дата и время хранятся без зоны; сессия базы работает в часовом поясе студии,
// поэтому date + time приводится к timestamptz корректно
type ScheduleRepository struct {
	*base.Repository
	loc *time.Location
}

func NewScheduleRepository(b *base.Repository, loc *time.Location) *ScheduleRepository {
	return &ScheduleRepository{Repository: b, loc: loc}
}

// AddWindow добавляет рабочее окно. start и end задают время на дату date
func (r *ScheduleRepository) AddWindow(ctx context.Context, window *model.ScheduleWindow) error {
	query := `
		INSERT INTO master_schedule (master_id, date, start_time, end_time)
		VALUES ($1, $2::date, $3::time, $4::time)
		RETURNING id
	`

	starts := window.StartsAt.In(r.loc)
	ends := window.EndsAt.In(r.loc)

	err := r.QueryRow(
		ctx, query,
		window.MasterID,
		starts.Format(dateLayout),
		starts.Format(clockLayout),
		ends.Format(clockLayout),
	).Scan(&window.ID)

	if err != nil {
		return fmt.Errorf("add schedule window: %w", base.MapWriteError(err))
	}

	window.Date = dayStart(starts, r.loc)
	return nil
}

// GetWindowsByDate окна мастера на дату, по времени начала
func (r *ScheduleRepository) GetWindowsByDate(ctx context.Context, masterID int64, date time.Time) ([]*model.ScheduleWindow, error) {
	query := `
		SELECT id, master_id, (date + start_time)::timestamptz, (date + end_time)::timestamptz
		FROM master_schedule
		WHERE master_id = $1 AND date = $2::date
		ORDER BY start_time
	`

	day := dayStart(date, r.loc)

	var windows []*model.ScheduleWindow
	err := r.Read(ctx, func(ctx context.Context) error {
		windows = windows[:0]

		rows, err := r.Query(ctx, query, masterID, day.Format(dateLayout))
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			w := model.ScheduleWindow{Date: day}
			if err := rows.Scan(&w.ID, &w.MasterID, &w.StartsAt, &w.EndsAt); err != nil {
				return err
			}
			w.StartsAt = w.StartsAt.In(r.loc)
			w.EndsAt = w.EndsAt.In(r.loc)
			windows = append(windows, &w)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("get schedule windows: %w", err)
	}

	return windows, nil
}

// GetWindowDates даты в диапазоне [from, to], на которые у мастера есть окна
func (r *ScheduleRepository) GetWindowDates(ctx context.Context, masterID int64, from, to time.Time) ([]time.Time, error) {
	query := `
		SELECT DISTINCT date::text
		FROM master_schedule
		WHERE master_id = $1 AND date BETWEEN $2::date AND $3::date
		ORDER BY 1
	`

	var dates []time.Time
	err := r.Read(ctx, func(ctx context.Context) error {
		dates = dates[:0]

		rows, err := r.Query(ctx, query, masterID, from.In(r.loc).Format(dateLayout), to.In(r.loc).Format(dateLayout))
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var raw string
			if err := rows.Scan(&raw); err != nil {
				return err
			}
			date, err := time.ParseInLocation(dateLayout, raw, r.loc)
			if err != nil {
				return fmt.Errorf("parse date %q: %w", raw, err)
			}
			dates = append(dates, date)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("get window dates: %w", err)
	}

	return dates, nil
}

func dayStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
