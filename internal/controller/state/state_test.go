package state

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MasloRich/Beauty-bot/internal/booking"
	"github.com/MasloRich/Beauty-bot/internal/model"
)

func sampleDraft(updated time.Time) booking.Draft {
	return booking.Draft{
		Step:           booking.StepChoosingTime,
		MasterID:       1,
		MasterName:     "Анна",
		ServiceID:      10,
		ServiceName:    "Маникюр",
		ServiceMinutes: 90,
		ServicePrice:   1500,
		Date:           "2024-01-20",
		UpdatedAt:      updated,
	}
}

func TestManager_GetSaveDelete(t *testing.T) {
	ctx := context.Background()
	m := NewManager(30 * time.Minute)

	got, err := m.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	draft := sampleDraft(time.Now())
	require.NoError(t, m.Save(ctx, 1, draft))

	got, err = m.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, draft, *got)

	got.MasterName = "changed"
	again, _ := m.Get(ctx, 1)
	assert.Equal(t, "Анна", again.MasterName, "returned draft is a copy")

	require.NoError(t, m.Delete(ctx, 1))
	got, _ = m.Get(ctx, 1)
	assert.Nil(t, got)
}

func TestManager_Sweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.January, 19, 12, 0, 0, 0, time.UTC)
	m := NewManager(30 * time.Minute)

	require.NoError(t, m.Save(ctx, 1, sampleDraft(now.Add(-31*time.Minute))))
	require.NoError(t, m.Save(ctx, 2, sampleDraft(now.Add(-5*time.Minute))))

	assert.Equal(t, 1, m.Sweep(now))
	assert.Equal(t, 1, m.Len())

	got, _ := m.Get(ctx, 2)
	assert.NotNil(t, got)
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, 30*time.Minute), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	draft := sampleDraft(time.Date(2024, time.January, 19, 12, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(ctx, 42, draft))
	assert.Equal(t, 30*time.Minute, mr.TTL(draftKeyPrefix+"42"))

	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, draft.Step, got.Step)
	assert.Equal(t, draft.ServiceName, got.ServiceName)
	assert.True(t, draft.UpdatedAt.Equal(got.UpdatedAt))

	require.NoError(t, store.Delete(ctx, 42))
	got, err = store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_Expires(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	require.NoError(t, store.Save(ctx, 1, sampleDraft(time.Now())))
	mr.FastForward(31 * time.Minute)

	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_CorruptedDraft(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	require.NoError(t, mr.Set(draftKeyPrefix+"7", "{not json"))

	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists(draftKeyPrefix+"7"))
}

func TestRedisStore_Unavailable(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	mr.Close()

	_, err := store.Get(ctx, 1)
	assert.ErrorIs(t, err, model.ErrUnavailable)

	err = store.Save(ctx, 1, sampleDraft(time.Now()))
	assert.ErrorIs(t, err, model.ErrUnavailable)
}
