package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MasloRich/Beauty-bot/internal/model"
)

func newCatalog(db *memDB) *CatalogService {
	return NewCatalogService(memMasters{db}, memServices{db}, memSchedule{db}, zap.NewNop(), msk)
}

func TestCatalog_AddMaster(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	catalog := newCatalog(db)

	master, err := catalog.AddMaster(ctx, NewMasterInput{TelegramID: 3003, FullName: "Елена", Percentage: 40})
	require.NoError(t, err)
	assert.True(t, master.IsActive)

	_, err = catalog.AddMaster(ctx, NewMasterInput{TelegramID: 3004, FullName: "Ирина", Percentage: 140})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = catalog.AddMaster(ctx, NewMasterInput{FullName: "Без ID"})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestCatalog_SetMasterActive(t *testing.T) {
	ctx := context.Background()
	catalog := newCatalog(newMemDB())

	master, err := catalog.SetMasterActive(ctx, 1, false)
	require.NoError(t, err)
	assert.False(t, master.IsActive)

	active, err := catalog.ListActiveMasters(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, int64(2), active[0].ID)

	_, err = catalog.SetMasterActive(ctx, 99, true)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCatalog_AddService(t *testing.T) {
	ctx := context.Background()
	catalog := newCatalog(newMemDB())

	svc, err := catalog.AddService(ctx, NewServiceInput{MasterID: 2, Name: "Окрашивание", DurationMinutes: 180, Price: 4500})
	require.NoError(t, err)
	assert.True(t, svc.IsActive)

	_, err = catalog.AddService(ctx, NewServiceInput{MasterID: 2, Name: "Ноль", DurationMinutes: 0})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = catalog.AddService(ctx, NewServiceInput{MasterID: 99, Name: "Нет мастера", DurationMinutes: 30})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCatalog_AddScheduleWindow(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	catalog := newCatalog(db)

	window, err := catalog.AddScheduleWindow(ctx, NewWindowInput{MasterID: 2, Date: "2024-01-22", Start: "09:00", End: "13:30"})
	require.NoError(t, err)
	assert.Equal(t, clock(22, 9, 0), window.StartsAt)
	assert.Equal(t, clock(22, 13, 30), window.EndsAt)

	tests := []struct {
		name string
		in   NewWindowInput
	}{
		{name: "bad date", in: NewWindowInput{MasterID: 2, Date: "22.01.2024", Start: "09:00", End: "13:00"}},
		{name: "bad time", in: NewWindowInput{MasterID: 2, Date: "2024-01-22", Start: "9am", End: "13:00"}},
		{name: "end before start", in: NewWindowInput{MasterID: 2, Date: "2024-01-22", Start: "13:00", End: "09:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.AddScheduleWindow(ctx, tt.in)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}

	_, err = catalog.AddScheduleWindow(ctx, NewWindowInput{MasterID: 99, Date: "2024-01-22", Start: "09:00", End: "13:00"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}
