package model

import "time"

// AppointmentFilter условия выборки записей. Нулевые поля не фильтруют
type AppointmentFilter struct {
	MasterID   int64
	ClientID   int64
	Statuses   []AppointmentStatus
	From       time.Time // start_time >= From
	To         time.Time // start_time < To
	Descending bool
	Limit      int
}
