package base

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MasloRich/Beauty-bot/internal/model"
)

// retryableErr ведёт себя как сетевая ошибка pgconn до отправки запроса
type retryableErr struct{}

func (retryableErr) Error() string { return "connection reset" }
func (retryableErr) SafeToRetry() bool { return true }

func TestReadWithRetry_RecoversFromTransient(t *testing.T) {
	calls := 0
	err := ReadWithRetry(context.Background(), 3, func(context.Context) error {
		calls++
		if calls < 3 {
			return retryableErr{}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestReadWithRetry_Exhausted(t *testing.T) {
	calls := 0
	err := ReadWithRetry(context.Background(), 2, func(context.Context) error {
		calls++
		return retryableErr{}
	})

	assert.ErrorIs(t, err, model.ErrUnavailable)
	assert.Equal(t, 3, calls)
}

func TestReadWithRetry_PermanentErrorNotRetried(t *testing.T) {
	calls := 0
	permanent := errors.New("syntax error")
	err := ReadWithRetry(context.Background(), 3, func(context.Context) error {
		calls++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestMapWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "exclusion", err: &pgconn.PgError{Code: "23P01", Message: "conflicting key value"}, want: model.ErrSlotConflict},
		{name: "unique", err: &pgconn.PgError{Code: "23505"}, want: model.ErrSlotConflict},
		{name: "foreign key", err: &pgconn.PgError{Code: "23503"}, want: model.ErrNotFound},
		{name: "check", err: &pgconn.PgError{Code: "23514"}, want: model.ErrValidation},
		{
			name: "status trigger",
			err:  &pgconn.PgError{Code: "P0001", Message: "invalid appointment status transition: completed -> pending"},
			want: model.ErrInvalidTransition,
		},
		{name: "wrapped", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23P01"}), want: model.ErrSlotConflict},
		{name: "transient", err: retryableErr{}, want: model.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, MapWriteError(tt.err), tt.want)
		})
	}
}

func TestMapWriteError_Passthrough(t *testing.T) {
	assert.NoError(t, MapWriteError(nil))

	other := &pgconn.PgError{Code: "P0001", Message: "something else"}
	assert.Same(t, error(other), MapWriteError(other))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(pgx.ErrNoRows))
	assert.True(t, IsNotFound(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	assert.False(t, IsNotFound(errors.New("boom")))
}
