package model

import "time"

// Master мастер студии
type Master struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	FullName   string    `json:"full_name"`
	Experience string    `json:"experience"`
	Percentage int       `json:"percentage"` // комиссия мастера, 0-100
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}
