package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/MasloRich/Beauty-bot/internal/model"
	"github.com/MasloRich/Beauty-bot/internal/repository/base"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var appointmentColumns = []string{
	"a.id", "a.master_id", "a.client_id", "a.service_id",
	"a.start_time", "a.end_time", "a.status", "a.source",
	"a.paid_amount", "a.notes", "a.notification_sent",
	"a.created_at", "a.updated_at",
	"m.full_name", "s.name", "COALESCE(c.full_name, '')",
}

const appointmentJoins = `
	JOIN masters m ON m.id = a.master_id
	JOIN services s ON s.id = a.service_id
	LEFT JOIN clients c ON c.id = a.client_id
`

type AppointmentRepository struct {
	*base.Repository
}

func NewAppointmentRepository(b *base.Repository) *AppointmentRepository {
	return &AppointmentRepository{Repository: b}
}

// CreateIfFree атомарно проверяет слот и создаёт запись.
//
// В транзакции берётся advisory-блокировка по мастеру, затем проверяется что
// интервал лежит в рабочем окне и не пересекается с активными записями.
// Ограничение appointments_no_overlap страхует от гонок вне этого пути
func (r *AppointmentRepository) CreateIfFree(ctx context.Context, a *model.Appointment) error {
	tx, err := r.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", base.MapWriteError(err))
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, a.MasterID); err != nil {
		return fmt.Errorf("lock master: %w", base.MapWriteError(err))
	}

	var inSchedule bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM master_schedule
			WHERE master_id = $1
			  AND (date + start_time)::timestamptz <= $2
			  AND (date + end_time)::timestamptz >= $3
		)
	`, a.MasterID, a.StartTime, a.EndTime).Scan(&inSchedule)
	if err != nil {
		return fmt.Errorf("check schedule: %w", base.MapWriteError(err))
	}
	if !inSchedule {
		return fmt.Errorf("check schedule: %w: slot is outside of master schedule", model.ErrValidation)
	}

	var busy bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE master_id = $1
			  AND status IN ('pending', 'confirmed')
			  AND start_time < $3
			  AND end_time > $2
		)
	`, a.MasterID, a.StartTime, a.EndTime).Scan(&busy)
	if err != nil {
		return fmt.Errorf("check overlap: %w", base.MapWriteError(err))
	}
	if busy {
		return fmt.Errorf("check overlap: %w", model.ErrSlotConflict)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO appointments (master_id, client_id, service_id, start_time, end_time, status, source, paid_amount, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`,
		a.MasterID,
		a.ClientID,
		a.ServiceID,
		a.StartTime,
		a.EndTime,
		a.Status,
		a.Source,
		a.PaidAmount,
		a.Notes,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", base.MapWriteError(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", base.MapWriteError(err))
	}

	return nil
}

// GetByID получает запись с именами мастера, услуги и клиента
func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	query, args, err := selectAppointments().
		Where(sq.Eq{"a.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var appointment *model.Appointment
	err = r.Read(ctx, func(ctx context.Context) error {
		found, err := scanAppointment(r.QueryRow(ctx, query, args...))
		if err != nil {
			return err
		}
		appointment = found
		return nil
	})

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}

	return appointment, nil
}

// GetActiveByMasterBetween активные записи мастера, пересекающие [from, to)
func (r *AppointmentRepository) GetActiveByMasterBetween(ctx context.Context, masterID int64, from, to time.Time) ([]*model.Appointment, error) {
	query, args, err := selectAppointments().
		Where(sq.Eq{"a.master_id": masterID, "a.status": statusStrings(model.ActiveStatuses)}).
		Where(sq.Lt{"a.start_time": to}).
		Where(sq.Gt{"a.end_time": from}).
		OrderBy("a.start_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	appointments, err := r.queryAppointments(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("get active appointments: %w", err)
	}
	return appointments, nil
}

// List записи по фильтру
func (r *AppointmentRepository) List(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error) {
	query, args, err := buildListQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	appointments, err := r.queryAppointments(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appointments, nil
}

// updateStatusQuery меняет статус и сбрасывает notification_sent:
// уведомление о новом статусе ещё не доставлено
var updateStatusQuery = `
	WITH a AS (
		UPDATE appointments
		SET status = $3, notification_sent = FALSE
		WHERE id = $1 AND status = $2
		RETURNING *
	)
	SELECT ` + strings.Join(appointmentColumns, ", ") + `
	FROM a` + appointmentJoins

const completePastQuery = `
	UPDATE appointments
	SET status = 'completed', notification_sent = FALSE
	WHERE status = 'confirmed' AND end_time <= $1
`

// UpdateStatus меняет статус только если текущий равен from.
// Если статус уже другой, возвращает model.ErrInvalidTransition
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id int64, from, to model.AppointmentStatus) (*model.Appointment, error) {
	appointment, err := scanAppointment(r.QueryRow(ctx, updateStatusQuery, id, from, to))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, fmt.Errorf("update appointment status: %w: status is not %s", model.ErrInvalidTransition, from)
		}
		return nil, fmt.Errorf("update appointment status: %w", base.MapWriteError(err))
	}

	return appointment, nil
}

// MarkNotified отмечает что уведомление о последнем статусе доставлено
func (r *AppointmentRepository) MarkNotified(ctx context.Context, id int64) error {
	if _, err := r.ExecAffected(ctx, `UPDATE appointments SET notification_sent = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("mark appointment notified: %w", base.MapWriteError(err))
	}
	return nil
}

// CompletePast переводит подтверждённые записи, закончившиеся до now, в completed
func (r *AppointmentRepository) CompletePast(ctx context.Context, now time.Time) (int64, error) {
	affected, err := r.ExecAffected(ctx, completePastQuery, now)
	if err != nil {
		return 0, fmt.Errorf("complete past appointments: %w", base.MapWriteError(err))
	}
	return affected, nil
}

// StatsForMaster счётчики записей мастера; "сегодня" = активные с началом в [dayFrom, dayTo)
func (r *AppointmentRepository) StatsForMaster(ctx context.Context, masterID int64, dayFrom, dayTo time.Time) (*model.MasterStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status IN ('pending', 'confirmed') AND start_time >= $2 AND start_time < $3)
		FROM appointments
		WHERE master_id = $1
	`

	var stats model.MasterStats
	err := r.Read(ctx, func(ctx context.Context) error {
		return r.QueryRow(ctx, query, masterID, dayFrom, dayTo).Scan(&stats.Total, &stats.Pending, &stats.Today)
	})
	if err != nil {
		return nil, fmt.Errorf("master stats: %w", err)
	}

	return &stats, nil
}

func (r *AppointmentRepository) queryAppointments(ctx context.Context, query string, args []interface{}) ([]*model.Appointment, error) {
	var appointments []*model.Appointment
	err := r.Read(ctx, func(ctx context.Context) error {
		appointments = appointments[:0]

		rows, err := r.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			appointment, err := scanAppointment(rows)
			if err != nil {
				return err
			}
			appointments = append(appointments, appointment)
		}

		return rows.Err()
	})

	return appointments, err
}

func buildListQuery(filter model.AppointmentFilter) (string, []interface{}, error) {
	q := selectAppointments()

	if filter.MasterID != 0 {
		q = q.Where(sq.Eq{"a.master_id": filter.MasterID})
	}
	if filter.ClientID != 0 {
		q = q.Where(sq.Eq{"a.client_id": filter.ClientID})
	}
	if len(filter.Statuses) > 0 {
		q = q.Where(sq.Eq{"a.status": statusStrings(filter.Statuses)})
	}
	if !filter.From.IsZero() {
		q = q.Where(sq.GtOrEq{"a.start_time": filter.From})
	}
	if !filter.To.IsZero() {
		q = q.Where(sq.Lt{"a.start_time": filter.To})
	}

	if filter.Descending {
		q = q.OrderBy("a.start_time DESC")
	} else {
		q = q.OrderBy("a.start_time")
	}

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}

	return q.ToSql()
}

func selectAppointments() sq.SelectBuilder {
	return psql.Select(appointmentColumns...).
		From("appointments a").
		Join("masters m ON m.id = a.master_id").
		Join("services s ON s.id = a.service_id").
		LeftJoin("clients c ON c.id = a.client_id")
}

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	var a model.Appointment
	err := row.Scan(
		&a.ID,
		&a.MasterID,
		&a.ClientID,
		&a.ServiceID,
		&a.StartTime,
		&a.EndTime,
		&a.Status,
		&a.Source,
		&a.PaidAmount,
		&a.Notes,
		&a.NotificationSent,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.MasterName,
		&a.ServiceName,
		&a.ClientName,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func statusStrings(statuses []model.AppointmentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
