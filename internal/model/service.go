package model

import "time"

// Service услуга конкретного мастера
type Service struct {
	ID              int64     `json:"id"`
	MasterID        int64     `json:"master_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"` // > 0
	Price           int       `json:"price"`            // в рублях, >= 0
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// Duration возвращает длительность услуги
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}
