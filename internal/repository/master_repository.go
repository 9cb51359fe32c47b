package repository

import (
	"context"
	"fmt"

	"github.com/MasloRich/Beauty-bot/internal/model"
	"github.com/MasloRich/Beauty-bot/internal/repository/base"
)

const masterColumns = `id, telegram_id, full_name, experience, percentage, is_active, created_at`

type MasterRepository struct {
	*base.Repository
}

func NewMasterRepository(b *base.Repository) *MasterRepository {
	return &MasterRepository{Repository: b}
}

// Create создаёт мастера
func (r *MasterRepository) Create(ctx context.Context, master *model.Master) error {
	query := `
		INSERT INTO masters (telegram_id, full_name, experience, percentage, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		master.TelegramID,
		master.FullName,
		master.Experience,
		master.Percentage,
		master.IsActive,
	).Scan(&master.ID, &master.CreatedAt)

	if err != nil {
		return fmt.Errorf("create master: %w", base.MapWriteError(err))
	}

	return nil
}

// GetByID получает мастера по ID
func (r *MasterRepository) GetByID(ctx context.Context, id int64) (*model.Master, error) {
	query := `SELECT ` + masterColumns + ` FROM masters WHERE id = $1`
	return r.getOne(ctx, "get master by id", query, id)
}

// GetByTelegramID получает мастера по telegram ID
func (r *MasterRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Master, error) {
	query := `SELECT ` + masterColumns + ` FROM masters WHERE telegram_id = $1`
	return r.getOne(ctx, "get master by telegram id", query, telegramID)
}

// ListActive активные мастера для записи
func (r *MasterRepository) ListActive(ctx context.Context) ([]*model.Master, error) {
	query := `SELECT ` + masterColumns + ` FROM masters WHERE is_active ORDER BY full_name`
	return r.list(ctx, "list active masters", query)
}

// ListAll все мастера, для админ-панели
func (r *MasterRepository) ListAll(ctx context.Context) ([]*model.Master, error) {
	query := `SELECT ` + masterColumns + ` FROM masters ORDER BY id`
	return r.list(ctx, "list masters", query)
}

// SetActive включает или выключает мастера
func (r *MasterRepository) SetActive(ctx context.Context, id int64, active bool) error {
	affected, err := r.ExecAffected(ctx, `UPDATE masters SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("set master active: %w", base.MapWriteError(err))
	}

	if affected == 0 {
		return fmt.Errorf("set master active: %w", model.ErrNotFound)
	}

	return nil
}

func (r *MasterRepository) getOne(ctx context.Context, op, query string, arg interface{}) (*model.Master, error) {
	var master model.Master
	err := r.Read(ctx, func(ctx context.Context) error {
		return r.QueryRow(ctx, query, arg).Scan(
			&master.ID,
			&master.TelegramID,
			&master.FullName,
			&master.Experience,
			&master.Percentage,
			&master.IsActive,
			&master.CreatedAt,
		)
	})

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &master, nil
}

func (r *MasterRepository) list(ctx context.Context, op, query string) ([]*model.Master, error) {
	var masters []*model.Master
	err := r.Read(ctx, func(ctx context.Context) error {
		masters = masters[:0]

		rows, err := r.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var master model.Master
			if err := rows.Scan(
				&master.ID,
				&master.TelegramID,
				&master.FullName,
				&master.Experience,
				&master.Percentage,
				&master.IsActive,
				&master.CreatedAt,
			); err != nil {
				return err
			}
			masters = append(masters, &master)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return masters, nil
}
