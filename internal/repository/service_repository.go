package repository

import (
	"context"
	"fmt"

	"github.com/MasloRich/Beauty-bot/internal/model"
	"github.com/MasloRich/Beauty-bot/internal/repository/base"
)

// ServiceRepository хранилище услуг мастеров
type ServiceRepository struct {
	*base.Repository
}

func NewServiceRepository(b *base.Repository) *ServiceRepository {
	return &ServiceRepository{Repository: b}
}

// Create создаёт услугу
func (r *ServiceRepository) Create(ctx context.Context, service *model.Service) error {
	query := `
		INSERT INTO services (master_id, name, description, duration_minutes, price, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		service.MasterID,
		service.Name,
		service.Description,
		service.DurationMinutes,
		service.Price,
		service.IsActive,
	).Scan(&service.ID, &service.CreatedAt)

	if err != nil {
		return fmt.Errorf("create service: %w", base.MapWriteError(err))
	}

	return nil
}

// GetByID получает услугу по ID
func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*model.Service, error) {
	query := `
		SELECT id, master_id, name, description, duration_minutes, price, is_active, created_at
		FROM services
		WHERE id = $1
	`

	var service model.Service
	err := r.Read(ctx, func(ctx context.Context) error {
		return r.QueryRow(ctx, query, id).Scan(
			&service.ID,
			&service.MasterID,
			&service.Name,
			&service.Description,
			&service.DurationMinutes,
			&service.Price,
			&service.IsActive,
			&service.CreatedAt,
		)
	})

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service by id: %w", err)
	}

	return &service, nil
}

// ListActiveByMaster активные услуги мастера
func (r *ServiceRepository) ListActiveByMaster(ctx context.Context, masterID int64) ([]*model.Service, error) {
	query := `
		SELECT id, master_id, name, description, duration_minutes, price, is_active, created_at
		FROM services
		WHERE master_id = $1 AND is_active
		ORDER BY price, name
	`

	var services []*model.Service
	err := r.Read(ctx, func(ctx context.Context) error {
		services = services[:0]

		rows, err := r.Query(ctx, query, masterID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var service model.Service
			if err := rows.Scan(
				&service.ID,
				&service.MasterID,
				&service.Name,
				&service.Description,
				&service.DurationMinutes,
				&service.Price,
				&service.IsActive,
				&service.CreatedAt,
			); err != nil {
				return err
			}
			services = append(services, &service)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("list services by master: %w", err)
	}

	return services, nil
}
