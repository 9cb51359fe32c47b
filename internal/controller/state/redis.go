package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MasloRich/Beauty-bot/internal/booking"
	"github.com/MasloRich/Beauty-bot/internal/model"
)

const draftKeyPrefix = "beauty:draft:"

// RedisStore хранит черновики в Redis в JSON; TTL ключа равен таймауту простоя,
// поэтому черновик переживает перезапуск бота и сам истекает без активности
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, conversationID int64) (*booking.Draft, error) {
	raw, err := s.client.Get(ctx, draftKey(conversationID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get draft: %w: %v", model.ErrUnavailable, err)
	}

	var draft booking.Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		// повреждённый черновик считаем отсутствующим
		_ = s.client.Del(ctx, draftKey(conversationID)).Err()
		return nil, nil
	}

	return &draft, nil
}

func (s *RedisStore) Save(ctx context.Context, conversationID int64, draft booking.Draft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}

	if err := s.client.Set(ctx, draftKey(conversationID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w: %v", model.ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, conversationID int64) error {
	if err := s.client.Del(ctx, draftKey(conversationID)).Err(); err != nil {
		return fmt.Errorf("delete draft: %w: %v", model.ErrUnavailable, err)
	}
	return nil
}

func draftKey(conversationID int64) string {
	return draftKeyPrefix + strconv.FormatInt(conversationID, 10)
}
