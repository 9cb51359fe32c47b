package model

import "time"

// BookingRequest данные подтверждённого клиентом черновика для записи в хранилище
type BookingRequest struct {
	ClientTelegramID int64
	ClientName       string
	MasterID         int64
	ServiceID        int64
	StartTime        time.Time
}
