package service

import (
	"context"
	"time"

	"github.com/MasloRich/Beauty-bot/internal/model"
)

// Хранилища, которые нужны сервисам. Реализации в internal/repository

type MasterStore interface {
	Create(ctx context.Context, master *model.Master) error
	GetByID(ctx context.Context, id int64) (*model.Master, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.Master, error)
	ListActive(ctx context.Context) ([]*model.Master, error)
	ListAll(ctx context.Context) ([]*model.Master, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

type ClientStore interface {
	EnsureByTelegramID(ctx context.Context, telegramID int64, fullName string) (*model.Client, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.Client, error)
	GetByID(ctx context.Context, id int64) (*model.Client, error)
}

type ServiceStore interface {
	Create(ctx context.Context, service *model.Service) error
	GetByID(ctx context.Context, id int64) (*model.Service, error)
	ListActiveByMaster(ctx context.Context, masterID int64) ([]*model.Service, error)
}

type ScheduleStore interface {
	AddWindow(ctx context.Context, window *model.ScheduleWindow) error
}

type AppointmentStore interface {
	CreateIfFree(ctx context.Context, a *model.Appointment) error
	GetByID(ctx context.Context, id int64) (*model.Appointment, error)
	List(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, from, to model.AppointmentStatus) (*model.Appointment, error)
	StatsForMaster(ctx context.Context, masterID int64, dayFrom, dayTo time.Time) (*model.MasterStats, error)
}
