package model

import "time"

// Client клиент студии, создаётся при первой записи
type Client struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	FullName   string    `json:"full_name"`
	Phone      *string   `json:"phone"` // может отсутствовать
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}
