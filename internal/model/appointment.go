package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"   // Ожидает подтверждения мастера
	AppointmentStatusConfirmed AppointmentStatus = "confirmed" // Подтверждена
	AppointmentStatusCompleted AppointmentStatus = "completed" // Визит состоялся
	AppointmentStatusCancelled AppointmentStatus = "cancelled" // Отменена или отклонена
)

type AppointmentSource string

const (
	AppointmentSourceBot    AppointmentSource = "bot"    // Клиент записался через бота
	AppointmentSourceMaster AppointmentSource = "master" // Запись создана мастером
)

// transitions допустимые переходы статусов. completed и cancelled терминальные.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusConfirmed: {AppointmentStatusCompleted, AppointmentStatusCancelled},
}

// CanTransition проверяет допустимость перехода from -> to
func CanTransition(from, to AppointmentStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ActiveStatuses статусы, занимающие время мастера
var ActiveStatuses = []AppointmentStatus{
	AppointmentStatusPending,
	AppointmentStatusConfirmed,
}

type Appointment struct {
	ID               int64             `json:"id"`
	MasterID         int64             `json:"master_id"`
	ClientID         *int64            `json:"client_id"` // NULL если клиент удалён
	ServiceID        int64             `json:"service_id"`
	StartTime        time.Time         `json:"start_time"`
	EndTime          time.Time         `json:"end_time"`
	Status           AppointmentStatus `json:"status"`
	Source           AppointmentSource `json:"source"`
	PaidAmount       int               `json:"paid_amount"`
	Notes            *string           `json:"notes"`
	NotificationSent bool              `json:"notification_sent"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`

	// Дополнительные поля для отображения (не из таблицы appointments)
	MasterName  string `json:"master_name,omitempty"`
	ServiceName string `json:"service_name,omitempty"`
	ClientName  string `json:"client_name,omitempty"`
}

// IsActive проверяет что запись занимает время мастера
func (a *Appointment) IsActive() bool {
	return a.Status == AppointmentStatusPending || a.Status == AppointmentStatusConfirmed
}

// Overlaps проверяет пересечение с интервалом [start, end).
// Записи, которые только соприкасаются границами, не пересекаются.
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.StartTime.Before(end) && a.EndTime.After(start)
}
