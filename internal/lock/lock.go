// Package lock сериализует коммиты записей к одному мастеру.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotAcquired блокировку держит другой процесс или запрос
var ErrNotAcquired = errors.New("lock not acquired")

// Locker выполняет fn под блокировкой ключа
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// MasterKey ключ блокировки коммитов мастера
func MasterKey(masterID int64) string {
	return fmt.Sprintf("master:%d", masterID)
}

// LocalLocker блокировки в памяти процесса, когда Redis не настроен.
// Ожидает освобождения ключа, а не отказывает сразу
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*entry)}
}

func (l *LocalLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}()

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	return fn(ctx)
}
