package repository_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MasloRich/Beauty-bot/internal/app"
	"github.com/MasloRich/Beauty-bot/internal/model"
	"github.com/MasloRich/Beauty-bot/internal/repository"
	"github.com/MasloRich/Beauty-bot/internal/repository/base"
)

// Тесты этого файла работают с настоящим PostgreSQL: TEST_DB_DSN=postgres://... go test ./internal/repository/
const testTimezone = "Europe/Moscow"

var msk = time.FixedZone("MSK", 3*60*60)

type dbEnv struct {
	pool         *pgxpool.Pool
	appointments *repository.AppointmentRepository
	masterID     int64
	serviceID    int64
	clientID     int64
}

func newDBEnv(t *testing.T) *dbEnv {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN is not set")
	}

	ctx := context.Background()
	pool, err := app.ConnectPostgres(ctx, dsn, testTimezone)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	migrator, err := app.NewMigrator(pool, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, migrator.Run(ctx))
	require.NoError(t, migrator.Close())

	_, err = pool.Exec(ctx, `TRUNCATE appointments, master_schedule, services, clients, masters RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	db := base.NewRepository(pool, 1)
	loc, err := time.LoadLocation(testTimezone)
	require.NoError(t, err)

	master := &model.Master{TelegramID: 1001, FullName: "Анна", Percentage: 40, IsActive: true}
	require.NoError(t, repository.NewMasterRepository(db).Create(ctx, master))

	svc := &model.Service{MasterID: master.ID, Name: "Маникюр", DurationMinutes: 90, Price: 1500, IsActive: true}
	require.NoError(t, repository.NewServiceRepository(db).Create(ctx, svc))

	require.NoError(t, repository.NewScheduleRepository(db, loc).AddWindow(ctx, &model.ScheduleWindow{
		MasterID: master.ID,
		StartsAt: at(10, 0),
		EndsAt:   at(18, 0),
	}))

	client, err := repository.NewClientRepository(db).EnsureByTelegramID(ctx, 5001, "Ольга")
	require.NoError(t, err)

	return &dbEnv{
		pool:         pool,
		appointments: repository.NewAppointmentRepository(db),
		masterID:     master.ID,
		serviceID:    svc.ID,
		clientID:     client.ID,
	}
}

// at время на 20 января 2099 года по Москве
func at(hour, minute int) time.Time {
	return time.Date(2099, time.January, 20, hour, minute, 0, 0, msk)
}

func (e *dbEnv) appointment(start time.Time) *model.Appointment {
	return &model.Appointment{
		MasterID:  e.masterID,
		ClientID:  &e.clientID,
		ServiceID: e.serviceID,
		StartTime: start,
		EndTime:   start.Add(90 * time.Minute),
		Status:    model.AppointmentStatusPending,
		Source:    model.AppointmentSourceBot,
	}
}

// insertRaw пишет запись в обход CreateIfFree, чтобы проверить ограничения схемы
func (e *dbEnv) insertRaw(start time.Time, status model.AppointmentStatus) error {
	_, err := e.pool.Exec(context.Background(), `
		INSERT INTO appointments (master_id, client_id, service_id, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, e.masterID, e.clientID, e.serviceID, start, start.Add(90*time.Minute), status)
	return base.MapWriteError(err)
}

func TestCreateIfFree_DB(t *testing.T) {
	env := newDBEnv(t)
	ctx := context.Background()

	first := env.appointment(at(14, 0))
	require.NoError(t, env.appointments.CreateIfFree(ctx, first))
	assert.NotZero(t, first.ID)

	err := env.appointments.CreateIfFree(ctx, env.appointment(at(13, 0)))
	assert.ErrorIs(t, err, model.ErrSlotConflict)

	err = env.appointments.CreateIfFree(ctx, env.appointment(at(17, 0)))
	assert.ErrorIs(t, err, model.ErrValidation, "ends after the window")

	// граница в границу не пересекается
	require.NoError(t, env.appointments.CreateIfFree(ctx, env.appointment(at(15, 30))))
}

func TestCreateIfFree_ConcurrentSameSlot_DB(t *testing.T) {
	env := newDBEnv(t)

	const attempts = 6
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := env.appointments.CreateIfFree(context.Background(), env.appointment(at(11, 0)))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			assert.ErrorIs(t, err, model.ErrSlotConflict)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
}

func TestSchemaGuards_DB(t *testing.T) {
	env := newDBEnv(t)
	ctx := context.Background()

	require.NoError(t, env.insertRaw(at(10, 0), model.AppointmentStatusPending))

	t.Run("overlap exclusion", func(t *testing.T) {
		assert.ErrorIs(t, env.insertRaw(at(11, 0), model.AppointmentStatusConfirmed), model.ErrSlotConflict)
		// отменённые записи не занимают время
		assert.NoError(t, env.insertRaw(at(11, 0), model.AppointmentStatusCancelled))
	})

	t.Run("schedule containment", func(t *testing.T) {
		err := env.insertRaw(at(8, 0), model.AppointmentStatusPending)
		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("status transitions", func(t *testing.T) {
		a := env.appointment(at(14, 0))
		require.NoError(t, env.appointments.CreateIfFree(ctx, a))

		_, err := env.appointments.UpdateStatus(ctx, a.ID, model.AppointmentStatusConfirmed, model.AppointmentStatusCompleted)
		assert.ErrorIs(t, err, model.ErrInvalidTransition, "current status is pending")

		_, err = env.appointments.UpdateStatus(ctx, a.ID, model.AppointmentStatusPending, model.AppointmentStatusCancelled)
		require.NoError(t, err)

		_, err = env.pool.Exec(ctx, `UPDATE appointments SET status = 'pending' WHERE id = $1`, a.ID)
		assert.ErrorIs(t, base.MapWriteError(err), model.ErrInvalidTransition, "cancelled is terminal")
	})
}

func TestUpdateStatus_ResetsNotificationFlag_DB(t *testing.T) {
	env := newDBEnv(t)
	ctx := context.Background()

	a := env.appointment(at(12, 0))
	require.NoError(t, env.appointments.CreateIfFree(ctx, a))

	require.NoError(t, env.appointments.MarkNotified(ctx, a.ID))
	got, err := env.appointments.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, got.NotificationSent)

	updated, err := env.appointments.UpdateStatus(ctx, a.ID, model.AppointmentStatusPending, model.AppointmentStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, updated.Status)
	assert.False(t, updated.NotificationSent)
	assert.Equal(t, "Анна", updated.MasterName)

	require.NoError(t, env.appointments.MarkNotified(ctx, a.ID))
	n, err := env.appointments.CompletePast(ctx, at(23, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err = env.appointments.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, got.Status)
	assert.False(t, got.NotificationSent)
}
