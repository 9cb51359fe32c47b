package state

import (
	"context"
	"sync"
	"time"

	"github.com/MasloRich/Beauty-bot/internal/booking"
)

// Manager хранит черновики записи в памяти процесса.
// При перезапуске черновики теряются
type Manager struct {
	mu          sync.RWMutex
	drafts      map[int64]booking.Draft // conversationID -> черновик
	idleTimeout time.Duration
}

// NewManager создаёт менеджер черновиков; idleTimeout используется в Sweep
func NewManager(idleTimeout time.Duration) *Manager {
	return &Manager{
		drafts:      make(map[int64]booking.Draft),
		idleTimeout: idleTimeout,
	}
}

// Get получает черновик диалога
func (sm *Manager) Get(_ context.Context, conversationID int64) (*booking.Draft, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if draft, exists := sm.drafts[conversationID]; exists {
		// Возвращаем копию, чтобы избежать race condition
		return &draft, nil
	}
	return nil, nil
}

// Save сохраняет черновик диалога
func (sm *Manager) Save(_ context.Context, conversationID int64, draft booking.Draft) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.drafts[conversationID] = draft
	return nil
}

// Delete удаляет черновик диалога
func (sm *Manager) Delete(_ context.Context, conversationID int64) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.drafts, conversationID)
	return nil
}

// Sweep удаляет черновики без активности дольше idleTimeout и возвращает их количество
func (sm *Manager) Sweep(now time.Time) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for id, draft := range sm.drafts {
		if now.Sub(draft.UpdatedAt) > sm.idleTimeout {
			delete(sm.drafts, id)
			removed++
		}
	}
	return removed
}

// Len количество черновиков
func (sm *Manager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.drafts)
}
