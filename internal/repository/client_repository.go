package repository

import (
	"context"
	"fmt"

	"github.com/MasloRich/Beauty-bot/internal/model"
	"github.com/MasloRich/Beauty-bot/internal/repository/base"
)

type ClientRepository struct {
	*base.Repository
}

func NewClientRepository(b *base.Repository) *ClientRepository {
	return &ClientRepository{Repository: b}
}

// EnsureByTelegramID возвращает клиента, создавая его при первом обращении
func (r *ClientRepository) EnsureByTelegramID(ctx context.Context, telegramID int64, fullName string) (*model.Client, error) {
	query := `
		INSERT INTO clients (telegram_id, full_name)
		VALUES ($1, $2)
		ON CONFLICT (telegram_id) DO UPDATE SET telegram_id = EXCLUDED.telegram_id
		RETURNING id, telegram_id, full_name, phone, notes, created_at
	`

	var client model.Client
	err := r.QueryRow(ctx, query, telegramID, fullName).Scan(
		&client.ID,
		&client.TelegramID,
		&client.FullName,
		&client.Phone,
		&client.Notes,
		&client.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("ensure client: %w", base.MapWriteError(err))
	}

	return &client, nil
}

// GetByTelegramID получает клиента по telegram ID
func (r *ClientRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Client, error) {
	return r.getOne(ctx, "get client by telegram id", `
		SELECT id, telegram_id, full_name, phone, notes, created_at
		FROM clients
		WHERE telegram_id = $1
	`, telegramID)
}

// GetByID получает клиента по ID
func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	return r.getOne(ctx, "get client by id", `
		SELECT id, telegram_id, full_name, phone, notes, created_at
		FROM clients
		WHERE id = $1
	`, id)
}

func (r *ClientRepository) getOne(ctx context.Context, op, query string, arg int64) (*model.Client, error) {
	var client model.Client
	err := r.Read(ctx, func(ctx context.Context) error {
		return r.QueryRow(ctx, query, arg).Scan(
			&client.ID,
			&client.TelegramID,
			&client.FullName,
			&client.Phone,
			&client.Notes,
			&client.CreatedAt,
		)
	})

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &client, nil
}
