// Package notification доставляет события смены статуса записи,
// не блокируя операции, которые их порождают.
package notification

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/MasloRich/Beauty-bot/internal/metrics"
	"github.com/MasloRich/Beauty-bot/internal/model"
)

// Recipient роль получателя уведомления
type Recipient string

const (
	RecipientClient Recipient = "client"
	RecipientMaster Recipient = "master"
)

// Event смена статуса записи: (appointment_id, new_status, recipient_role)
type Event struct {
	AppointmentID int64
	Status        model.AppointmentStatus
	Recipient     Recipient
	ChatID        int64
	Appointment   *model.Appointment
}

// Sender доставляет событие получателю (например в Telegram)
type Sender interface {
	Deliver(ctx context.Context, event Event) error
}

// Marker отмечает доставленные уведомления в хранилище
type Marker interface {
	MarkNotified(ctx context.Context, appointmentID int64) error
}

// Publisher принимает события; реализация не должна блокировать вызывающего
type Publisher interface {
	Publish(event Event)
}

// Dispatcher очередь уведомлений с одним обработчиком
type Dispatcher struct {
	events  chan Event
	sender  Sender
	marker  Marker
	logger  *zap.Logger
	metrics *metrics.Metrics
	timeout time.Duration
}

func NewDispatcher(sender Sender, marker Marker, m *metrics.Metrics, logger *zap.Logger, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	return &Dispatcher{
		events:  make(chan Event, buffer),
		sender:  sender,
		marker:  marker,
		logger:  logger,
		metrics: m,
		timeout: 10 * time.Second,
	}
}

// Publish ставит событие в очередь. При переполненной очереди событие отбрасывается
func (d *Dispatcher) Publish(event Event) {
	select {
	case d.events <- event:
	default:
		d.metrics.NotificationsSent.WithLabelValues("dropped").Inc()
		d.logger.Warn("Notification queue is full, event dropped",
			zap.Int64("appointment_id", event.AppointmentID),
			zap.String("status", string(event.Status)),
			zap.String("recipient", string(event.Recipient)))
	}
}

// Run доставляет события до отмены ctx
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info("Notification dispatcher started")

	for {
		select {
		case event := <-d.events:
			d.deliver(ctx, event)
		case <-ctx.Done():
			d.logger.Info("Notification dispatcher stopped", zap.Int("pending", len(d.events)))
			return nil
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, event Event) {
	deliverCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	log := d.logger.With(
		zap.Int64("appointment_id", event.AppointmentID),
		zap.String("status", string(event.Status)),
		zap.String("recipient", string(event.Recipient)),
		zap.Int64("chat_id", event.ChatID),
	)

	if err := d.sender.Deliver(deliverCtx, event); err != nil {
		d.metrics.NotificationsSent.WithLabelValues("failed").Inc()
		log.Error("Failed to deliver notification", zap.Error(err))
		return
	}

	d.metrics.NotificationsSent.WithLabelValues("delivered").Inc()

	if event.Recipient != RecipientClient {
		return
	}

	if err := d.marker.MarkNotified(deliverCtx, event.AppointmentID); err != nil {
		log.Error("Failed to mark appointment notified", zap.Error(err))
	}
}
