package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/MasloRich/Beauty-bot/internal/lock"
	"github.com/MasloRich/Beauty-bot/internal/metrics"
	"github.com/MasloRich/Beauty-bot/internal/model"
	"github.com/MasloRich/Beauty-bot/internal/notification"
)

const listLimit = 30

// AppointmentService жизненный цикл записи: создание, подтверждение,
// отклонение, отмена клиентом и завершение
type AppointmentService struct {
	masters      MasterStore
	clients      ClientStore
	services     ServiceStore
	appointments AppointmentStore
	locker       lock.Locker
	publisher    notification.Publisher
	metrics      *metrics.Metrics
	logger       *zap.Logger
	loc          *time.Location
	minNotice    time.Duration
	now          func() time.Time
}

func NewAppointmentService(
	masters MasterStore,
	clients ClientStore,
	services ServiceStore,
	appointments AppointmentStore,
	locker lock.Locker,
	publisher notification.Publisher,
	m *metrics.Metrics,
	logger *zap.Logger,
	loc *time.Location,
	minNotice time.Duration,
) *AppointmentService {
	if loc == nil {
		loc = time.Local
	}
	return &AppointmentService{
		masters:      masters,
		clients:      clients,
		services:     services,
		appointments: appointments,
		locker:       locker,
		publisher:    publisher,
		metrics:      m,
		logger:       logger,
		loc:          loc,
		minNotice:    minNotice,
		now:          time.Now,
	}
}

// Book создаёт запись в статусе pending, если слот всё ещё свободен.
// Проверка слота и запись атомарны; при гонке проигравший получает ErrSlotConflict
func (s *AppointmentService) Book(ctx context.Context, req model.BookingRequest) (*model.Appointment, error) {
	if req.ClientTelegramID == 0 {
		return nil, fmt.Errorf("%w: client is required", model.ErrValidation)
	}

	master, err := s.masters.GetByID(ctx, req.MasterID)
	if err != nil {
		return nil, fmt.Errorf("get master: %w", err)
	}
	if master == nil || !master.IsActive {
		return nil, fmt.Errorf("master %d: %w", req.MasterID, model.ErrNotFound)
	}

	svc, err := s.services.GetByID(ctx, req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	if svc == nil || !svc.IsActive {
		return nil, fmt.Errorf("service %d: %w", req.ServiceID, model.ErrNotFound)
	}
	if svc.MasterID != master.ID {
		return nil, fmt.Errorf("%w: service %d does not belong to master %d", model.ErrValidation, svc.ID, master.ID)
	}

	now := s.now()
	if !req.StartTime.After(now) {
		return nil, fmt.Errorf("%w: start time is in the past", model.ErrValidation)
	}
	if req.StartTime.Before(now.Add(s.minNotice)) {
		return nil, fmt.Errorf("%w: start time is within %s booking notice", model.ErrValidation, s.minNotice)
	}

	client, err := s.clients.EnsureByTelegramID(ctx, req.ClientTelegramID, req.ClientName)
	if err != nil {
		return nil, fmt.Errorf("ensure client: %w", err)
	}

	appointment := &model.Appointment{
		MasterID:  master.ID,
		ClientID:  &client.ID,
		ServiceID: svc.ID,
		StartTime: req.StartTime,
		EndTime:   req.StartTime.Add(svc.Duration()),
		Status:    model.AppointmentStatusPending,
		Source:    model.AppointmentSourceBot,
	}

	started := time.Now()
	err = s.locker.WithLock(ctx, lock.MasterKey(master.ID), func(ctx context.Context) error {
		return s.appointments.CreateIfFree(ctx, appointment)
	})
	s.metrics.StoreLatency.WithLabelValues("create_appointment").Observe(time.Since(started).Seconds())
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			err = fmt.Errorf("%w: master %d lock wait exceeded", model.ErrUnavailable, master.ID)
		}
		if errors.Is(err, model.ErrSlotConflict) {
			s.metrics.SlotConflicts.Inc()
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.metrics.BookingsCommitted.Inc()
	s.metrics.StatusTransitions.WithLabelValues(string(model.AppointmentStatusPending)).Inc()

	appointment.MasterName = master.FullName
	appointment.ServiceName = svc.Name
	appointment.ClientName = client.FullName

	s.logger.Info("Appointment booked",
		zap.Int64("appointment_id", appointment.ID),
		zap.Int64("master_id", master.ID),
		zap.Int64("client_id", client.ID),
		zap.Time("start_time", appointment.StartTime))

	s.publisher.Publish(notification.Event{
		AppointmentID: appointment.ID,
		Status:        appointment.Status,
		Recipient:     notification.RecipientMaster,
		ChatID:        master.TelegramID,
		Appointment:   appointment,
	})

	return appointment, nil
}

// Confirm мастер подтверждает заявку: pending -> confirmed
func (s *AppointmentService) Confirm(ctx context.Context, masterTelegramID, appointmentID int64) (*model.Appointment, error) {
	return s.changeByMaster(ctx, masterTelegramID, appointmentID, model.AppointmentStatusPending, model.AppointmentStatusConfirmed)
}

// Reject мастер отклоняет заявку: pending -> cancelled
func (s *AppointmentService) Reject(ctx context.Context, masterTelegramID, appointmentID int64) (*model.Appointment, error) {
	return s.changeByMaster(ctx, masterTelegramID, appointmentID, model.AppointmentStatusPending, model.AppointmentStatusCancelled)
}

// Complete мастер отмечает визит состоявшимся: confirmed -> completed
func (s *AppointmentService) Complete(ctx context.Context, masterTelegramID, appointmentID int64) (*model.Appointment, error) {
	return s.changeByMaster(ctx, masterTelegramID, appointmentID, model.AppointmentStatusConfirmed, model.AppointmentStatusCompleted)
}

func (s *AppointmentService) changeByMaster(ctx context.Context, masterTelegramID, appointmentID int64, from, to model.AppointmentStatus) (*model.Appointment, error) {
	master, err := s.masters.GetByTelegramID(ctx, masterTelegramID)
	if err != nil {
		return nil, fmt.Errorf("get master: %w", err)
	}
	if master == nil {
		return nil, fmt.Errorf("user %d is not a master: %w", masterTelegramID, model.ErrNotAuthorized)
	}

	appointment, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appointment == nil {
		return nil, fmt.Errorf("appointment %d: %w", appointmentID, model.ErrNotFound)
	}
	if appointment.MasterID != master.ID {
		return nil, fmt.Errorf("appointment %d belongs to another master: %w", appointmentID, model.ErrNotAuthorized)
	}
	if appointment.Status != from {
		return nil, fmt.Errorf("appointment %d is %s: %w", appointmentID, appointment.Status, model.ErrInvalidTransition)
	}

	updated, err := s.transition(ctx, appointment, to)
	if err != nil {
		return nil, err
	}

	s.notifyClient(ctx, updated)
	return updated, nil
}

// CancelByClient клиент отменяет свою активную запись. Запись не удаляется, статус становится cancelled
func (s *AppointmentService) CancelByClient(ctx context.Context, clientTelegramID, appointmentID int64) (*model.Appointment, error) {
	client, err := s.clients.GetByTelegramID(ctx, clientTelegramID)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}

	appointment, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appointment == nil {
		return nil, fmt.Errorf("appointment %d: %w", appointmentID, model.ErrNotFound)
	}
	if client == nil || appointment.ClientID == nil || *appointment.ClientID != client.ID {
		return nil, fmt.Errorf("appointment %d belongs to another client: %w", appointmentID, model.ErrNotAuthorized)
	}
	if !model.CanTransition(appointment.Status, model.AppointmentStatusCancelled) {
		return nil, fmt.Errorf("appointment %d is %s: %w", appointmentID, appointment.Status, model.ErrInvalidTransition)
	}

	updated, err := s.transition(ctx, appointment, model.AppointmentStatusCancelled)
	if err != nil {
		return nil, err
	}

	master, err := s.masters.GetByID(ctx, updated.MasterID)
	if err != nil {
		s.logger.Warn("Failed to load master for notification",
			zap.Int64("appointment_id", updated.ID),
			zap.Error(err))
	} else if master != nil {
		s.publisher.Publish(notification.Event{
			AppointmentID: updated.ID,
			Status:        updated.Status,
			Recipient:     notification.RecipientMaster,
			ChatID:        master.TelegramID,
			Appointment:   updated,
		})
	}

	return updated, nil
}

// transition меняет статус, если он всё ещё равен текущему. Гонку разрешает хранилище
func (s *AppointmentService) transition(ctx context.Context, appointment *model.Appointment, to model.AppointmentStatus) (*model.Appointment, error) {
	started := time.Now()
	updated, err := s.appointments.UpdateStatus(ctx, appointment.ID, appointment.Status, to)
	s.metrics.StoreLatency.WithLabelValues("update_status").Observe(time.Since(started).Seconds())
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	s.metrics.StatusTransitions.WithLabelValues(string(to)).Inc()
	s.logger.Info("Appointment status changed",
		zap.Int64("appointment_id", appointment.ID),
		zap.String("from", string(appointment.Status)),
		zap.String("to", string(to)))

	return updated, nil
}

func (s *AppointmentService) notifyClient(ctx context.Context, appointment *model.Appointment) {
	if appointment.ClientID == nil {
		return
	}

	client, err := s.clients.GetByID(ctx, *appointment.ClientID)
	if err != nil {
		s.logger.Warn("Failed to load client for notification",
			zap.Int64("appointment_id", appointment.ID),
			zap.Error(err))
		return
	}
	if client == nil {
		return
	}

	s.publisher.Publish(notification.Event{
		AppointmentID: appointment.ID,
		Status:        appointment.Status,
		Recipient:     notification.RecipientClient,
		ChatID:        client.TelegramID,
		Appointment:   appointment,
	})
}

// GetForMaster запись мастера по ID
func (s *AppointmentService) GetForMaster(ctx context.Context, masterTelegramID, appointmentID int64) (*model.Appointment, error) {
	master, err := s.requireMaster(ctx, masterTelegramID)
	if err != nil {
		return nil, err
	}

	appointment, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appointment == nil {
		return nil, fmt.Errorf("appointment %d: %w", appointmentID, model.ErrNotFound)
	}
	if appointment.MasterID != master.ID {
		return nil, fmt.Errorf("appointment %d belongs to another master: %w", appointmentID, model.ErrNotAuthorized)
	}
	return appointment, nil
}

// GetForClient запись клиента по ID
func (s *AppointmentService) GetForClient(ctx context.Context, clientTelegramID, appointmentID int64) (*model.Appointment, error) {
	client, err := s.clients.GetByTelegramID(ctx, clientTelegramID)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}

	appointment, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appointment == nil {
		return nil, fmt.Errorf("appointment %d: %w", appointmentID, model.ErrNotFound)
	}
	if client == nil || appointment.ClientID == nil || *appointment.ClientID != client.ID {
		return nil, fmt.Errorf("appointment %d belongs to another client: %w", appointmentID, model.ErrNotAuthorized)
	}
	return appointment, nil
}

// ListForClient записи клиента, сначала новые
func (s *AppointmentService) ListForClient(ctx context.Context, clientTelegramID int64) ([]*model.Appointment, error) {
	client, err := s.clients.GetByTelegramID(ctx, clientTelegramID)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	if client == nil {
		return nil, nil
	}

	appointments, err := s.appointments.List(ctx, model.AppointmentFilter{
		ClientID:   client.ID,
		Descending: true,
		Limit:      listLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("list client appointments: %w", err)
	}
	return appointments, nil
}

// ListForMaster предстоящие записи мастера с нужными статусами, начиная с сегодняшнего дня
func (s *AppointmentService) ListForMaster(ctx context.Context, masterTelegramID int64, statuses ...model.AppointmentStatus) ([]*model.Appointment, error) {
	master, err := s.requireMaster(ctx, masterTelegramID)
	if err != nil {
		return nil, err
	}

	appointments, err := s.appointments.List(ctx, model.AppointmentFilter{
		MasterID: master.ID,
		Statuses: statuses,
		From:     s.today(),
		Limit:    listLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("list master appointments: %w", err)
	}
	return appointments, nil
}

// Stats счётчики для панели мастера
func (s *AppointmentService) Stats(ctx context.Context, masterTelegramID int64) (*model.MasterStats, error) {
	master, err := s.requireMaster(ctx, masterTelegramID)
	if err != nil {
		return nil, err
	}

	today := s.today()
	stats, err := s.appointments.StatsForMaster(ctx, master.ID, today, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("master stats: %w", err)
	}
	return stats, nil
}

func (s *AppointmentService) requireMaster(ctx context.Context, telegramID int64) (*model.Master, error) {
	master, err := s.masters.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("get master: %w", err)
	}
	if master == nil {
		return nil, fmt.Errorf("user %d is not a master: %w", telegramID, model.ErrNotAuthorized)
	}
	return master, nil
}

func (s *AppointmentService) today() time.Time {
	now := s.now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}
