package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DraftSweeper удаляет черновики записи без активности
type DraftSweeper interface {
	Sweep(now time.Time) int
}

// AppointmentCompleter переводит прошедшие подтверждённые записи в completed
type AppointmentCompleter interface {
	CompletePast(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	drafts    DraftSweeper
	completer AppointmentCompleter
	logger    *zap.Logger

	sweepInterval    time.Duration
	completeInterval time.Duration
	now              func() time.Time

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewScheduler создаёт планировщик. drafts может быть nil (черновики в Redis истекают по TTL)
func NewScheduler(drafts DraftSweeper, completer AppointmentCompleter, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		drafts:           drafts,
		completer:        completer,
		logger:           logger,
		sweepInterval:    time.Minute,
		completeInterval: 10 * time.Minute,
		now:              time.Now,
		stopChan:         make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	if s.drafts != nil {
		s.wg.Add(1)
		go s.runEvery(ctx, "draft_sweep", s.sweepInterval, s.sweepDrafts)
	}

	s.wg.Add(1)
	go s.runEvery(ctx, "complete_past", s.completeInterval, s.completePast)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

func (s *Scheduler) runEvery(ctx context.Context, name string, interval time.Duration, task func(ctx context.Context)) {
	defer s.wg.Done()

	// Первый запуск сразу при старте
	task(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			task(ctx)
		case <-s.stopChan:
			s.logger.Info("Background task stopped", zap.String("task", name))
			return
		case <-ctx.Done():
			s.logger.Info("Background task cancelled", zap.String("task", name))
			return
		}
	}
}

func (s *Scheduler) sweepDrafts(_ context.Context) {
	if removed := s.drafts.Sweep(s.now()); removed > 0 {
		s.logger.Info("Idle booking drafts discarded", zap.Int("count", removed))
	}
}

func (s *Scheduler) completePast(ctx context.Context) {
	completed, err := s.completer.CompletePast(ctx, s.now())
	if err != nil {
		s.logger.Error("Failed to complete past appointments", zap.Error(err))
		return
	}
	if completed > 0 {
		s.logger.Info("Past appointments completed", zap.Int64("count", completed))
	}
}
