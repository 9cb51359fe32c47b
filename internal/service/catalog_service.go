package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/MasloRich/Beauty-bot/internal/model"
)

// NewMasterInput данные нового мастера
type NewMasterInput struct {
	TelegramID int64  `validate:"required,gt=0"`
	FullName   string `validate:"required,max=100"`
	Experience string `validate:"max=255"`
	Percentage int    `validate:"min=0,max=100"`
}

// NewServiceInput данные новой услуги
type NewServiceInput struct {
	MasterID        int64  `validate:"required,gt=0"`
	Name            string `validate:"required,max=100"`
	Description     string `validate:"max=500"`
	DurationMinutes int    `validate:"required,gt=0,max=720"`
	Price           int    `validate:"min=0"`
}

// NewWindowInput рабочее окно мастера: дата YYYY-MM-DD и время HH:MM
type NewWindowInput struct {
	MasterID int64  `validate:"required,gt=0"`
	Date     string `validate:"required,datetime=2006-01-02"`
	Start    string `validate:"required,datetime=15:04"`
	End      string `validate:"required,datetime=15:04"`
}

// CatalogService мастера, услуги и рабочие окна
type CatalogService struct {
	masters  MasterStore
	services ServiceStore
	schedule ScheduleStore
	validate *validator.Validate
	logger   *zap.Logger
	loc      *time.Location
}

func NewCatalogService(masters MasterStore, services ServiceStore, schedule ScheduleStore, logger *zap.Logger, loc *time.Location) *CatalogService {
	if loc == nil {
		loc = time.Local
	}
	return &CatalogService{
		masters:  masters,
		services: services,
		schedule: schedule,
		validate: validator.New(),
		logger:   logger,
		loc:      loc,
	}
}

func (s *CatalogService) ListActiveMasters(ctx context.Context) ([]*model.Master, error) {
	return s.masters.ListActive(ctx)
}

func (s *CatalogService) ListAllMasters(ctx context.Context) ([]*model.Master, error) {
	return s.masters.ListAll(ctx)
}

func (s *CatalogService) GetMaster(ctx context.Context, id int64) (*model.Master, error) {
	return s.masters.GetByID(ctx, id)
}

func (s *CatalogService) ListActiveServices(ctx context.Context, masterID int64) ([]*model.Service, error) {
	return s.services.ListActiveByMaster(ctx, masterID)
}

func (s *CatalogService) GetService(ctx context.Context, id int64) (*model.Service, error) {
	return s.services.GetByID(ctx, id)
}

// AddMaster создаёт активного мастера
func (s *CatalogService) AddMaster(ctx context.Context, in NewMasterInput) (*model.Master, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}

	master := &model.Master{
		TelegramID: in.TelegramID,
		FullName:   in.FullName,
		Experience: in.Experience,
		Percentage: in.Percentage,
		IsActive:   true,
	}
	if err := s.masters.Create(ctx, master); err != nil {
		return nil, fmt.Errorf("create master: %w", err)
	}

	s.logger.Info("Master added",
		zap.Int64("master_id", master.ID),
		zap.Int64("telegram_id", master.TelegramID))

	return master, nil
}

// SetMasterActive включает или отключает мастера. Существующие записи не трогаются
func (s *CatalogService) SetMasterActive(ctx context.Context, masterID int64, active bool) (*model.Master, error) {
	if err := s.masters.SetActive(ctx, masterID, active); err != nil {
		return nil, fmt.Errorf("set master active: %w", err)
	}

	master, err := s.masters.GetByID(ctx, masterID)
	if err != nil {
		return nil, fmt.Errorf("get master: %w", err)
	}
	if master == nil {
		return nil, fmt.Errorf("master %d: %w", masterID, model.ErrNotFound)
	}

	s.logger.Info("Master activity changed",
		zap.Int64("master_id", masterID),
		zap.Bool("active", active))

	return master, nil
}

// AddService создаёт активную услугу мастера
func (s *CatalogService) AddService(ctx context.Context, in NewServiceInput) (*model.Service, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}

	master, err := s.masters.GetByID(ctx, in.MasterID)
	if err != nil {
		return nil, fmt.Errorf("get master: %w", err)
	}
	if master == nil {
		return nil, fmt.Errorf("master %d: %w", in.MasterID, model.ErrNotFound)
	}

	service := &model.Service{
		MasterID:        master.ID,
		Name:            in.Name,
		Description:     in.Description,
		DurationMinutes: in.DurationMinutes,
		Price:           in.Price,
		IsActive:        true,
	}
	if err := s.services.Create(ctx, service); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	return service, nil
}

// AddScheduleWindow добавляет рабочее окно мастера на дату
func (s *CatalogService) AddScheduleWindow(ctx context.Context, in NewWindowInput) (*model.ScheduleWindow, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}

	starts, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.Start, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	ends, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.End, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	if !ends.After(starts) {
		return nil, fmt.Errorf("%w: window end must be after start", model.ErrValidation)
	}

	master, err := s.masters.GetByID(ctx, in.MasterID)
	if err != nil {
		return nil, fmt.Errorf("get master: %w", err)
	}
	if master == nil {
		return nil, fmt.Errorf("master %d: %w", in.MasterID, model.ErrNotFound)
	}

	window := &model.ScheduleWindow{
		MasterID: master.ID,
		StartsAt: starts,
		EndsAt:   ends,
	}
	if err := s.schedule.AddWindow(ctx, window); err != nil {
		return nil, fmt.Errorf("add window: %w", err)
	}

	s.logger.Info("Schedule window added",
		zap.Int64("master_id", master.ID),
		zap.Time("starts_at", starts),
		zap.Time("ends_at", ends))

	return window, nil
}
