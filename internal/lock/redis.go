package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
)

const keyPrefix = "beauty:lock:"

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

// RedisLocker блокировка через SET NX с токеном владельца.
// Занятый ключ ожидается не дольше wait, как и LocalLocker ждёт освобождения.
// Снимается Lua-скриптом только владельцем; по истечении ttl снимается сама
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	poll   time.Duration
}

// NewRedisLocker создаёт блокировку; ожидание занятого ключа ограничено ttl
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl, wait: ttl, poll: 20 * time.Millisecond}
}

func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	redisKey := keyPrefix + key
	token := uuid.NewString()

	if err := l.acquire(ctx, redisKey, token); err != nil {
		return err
	}

	defer func() {
		// ctx мог быть отменён, а ключ нужно снять
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		_ = l.release(releaseCtx, redisKey, token)
	}()

	fnCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(fnCtx)
}

// acquire повторяет SET NX, пока ключ занят, не дольше l.wait.
// После исчерпания ожидания возвращает ErrNotAcquired
func (l *RedisLocker) acquire(ctx context.Context, key, token string) error {
	backoff := retry.WithJitter(l.poll/2, retry.NewConstant(l.poll))
	backoff = retry.WithMaxDuration(l.wait, backoff)

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("acquire lock: %w", err)
		}
		if !ok {
			return retry.RetryableError(ErrNotAcquired)
		}
		return nil
	})
	if errors.Is(err, ErrNotAcquired) {
		return ErrNotAcquired
	}
	return err
}

func (l *RedisLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
