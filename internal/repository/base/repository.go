package base

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"

	"github.com/MasloRich/Beauty-bot/internal/model"
)

// Коды ошибок PostgreSQL, которые переводим в ошибки домена
const (
	codeExclusionViolation  = "23P01"
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeRaiseException      = "P0001"
)

// transitionErrorPrefix сообщение триггера appointments_check_status
const transitionErrorPrefix = "invalid appointment status transition"

// Repository базовый репозиторий с общими методами
type Repository struct {
	pool    *pgxpool.Pool
	retries uint64
}

// NewRepository создаёт базовый репозиторий.
// retries количество повторов чтения при сбоях соединения
func NewRepository(pool *pgxpool.Pool, retries uint64) *Repository {
	return &Repository{pool: pool, retries: retries}
}

// Pool возвращает пул соединений
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

// QueryRow выполняет запрос и возвращает одну строку
func (r *Repository) QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row {
	return r.pool.QueryRow(ctx, query, args...)
}

// Query выполняет запрос и возвращает множество строк
func (r *Repository) Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error) {
	return r.pool.Query(ctx, query, args...)
}

// ExecAffected выполняет команду и возвращает количество затронутых строк
func (r *Repository) ExecAffected(ctx context.Context, query string, args ...interface{}) (int64, error) {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Read выполняет операцию чтения, повторяя её с экспоненциальной задержкой
// при сбоях соединения. После исчерпания попыток возвращает model.ErrUnavailable
func (r *Repository) Read(ctx context.Context, fn func(ctx context.Context) error) error {
	return ReadWithRetry(ctx, r.retries, fn)
}

// ReadWithRetry см. Repository.Read
func ReadWithRetry(ctx context.Context, retries uint64, fn func(ctx context.Context) error) error {
	backoff := retry.NewExponential(50 * time.Millisecond)
	backoff = retry.WithCappedDuration(time.Second, backoff)
	backoff = retry.WithMaxRetries(retries, backoff)

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			if IsTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})

	if err != nil && IsTransient(err) {
		return fmt.Errorf("%w: %v", model.ErrUnavailable, err)
	}
	return err
}

// IsNotFound проверяет является ли ошибка "строка не найдена"
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsTransient проверяет что ошибка вызвана соединением, а не запросом
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	return pgconn.SafeToRetry(err) || pgconn.Timeout(err)
}

// MapWriteError переводит ошибки записи в ошибки домена.
// Нераспознанные ошибки возвращаются как есть
func MapWriteError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeExclusionViolation, codeUniqueViolation:
			return fmt.Errorf("%w: %s", model.ErrSlotConflict, pgErr.Message)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", model.ErrNotFound, pgErr.Message)
		case codeCheckViolation:
			return fmt.Errorf("%w: %s", model.ErrValidation, pgErr.Message)
		case codeRaiseException:
			if strings.HasPrefix(pgErr.Message, transitionErrorPrefix) {
				return fmt.Errorf("%w: %s", model.ErrInvalidTransition, pgErr.Message)
			}
		}
		return err
	}

	if IsTransient(err) {
		return fmt.Errorf("%w: %v", model.ErrUnavailable, err)
	}

	return err
}
