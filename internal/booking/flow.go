package booking

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/MasloRich/Beauty-bot/internal/lock"
	"github.com/MasloRich/Beauty-bot/internal/metrics"
	"github.com/MasloRich/Beauty-bot/internal/model"
)

// Catalog мастера и услуги
type Catalog interface {
	ListActiveMasters(ctx context.Context) ([]*model.Master, error)
	GetMaster(ctx context.Context, id int64) (*model.Master, error)
	ListActiveServices(ctx context.Context, masterID int64) ([]*model.Service, error)
	GetService(ctx context.Context, id int64) (*model.Service, error)
}

// Availability доступные даты и слоты мастера
type Availability interface {
	Location() *time.Location
	Dates(ctx context.Context, masterID int64) ([]time.Time, error)
	IsBookableDate(ctx context.Context, masterID int64, date time.Time) (bool, error)
	Slots(ctx context.Context, masterID int64, date time.Time, duration time.Duration) (iter.Seq[time.Time], error)
	IsFree(ctx context.Context, masterID int64, start time.Time, duration time.Duration) (bool, error)
}

// Committer атомарно проверяет слот и создаёт запись в статусе pending
type Committer interface {
	Book(ctx context.Context, req model.BookingRequest) (*model.Appointment, error)
}

// DraftStore хранилище черновиков по ID диалога. Get возвращает nil, если черновика нет
type DraftStore interface {
	Get(ctx context.Context, conversationID int64) (*Draft, error)
	Save(ctx context.Context, conversationID int64, draft Draft) error
	Delete(ctx context.Context, conversationID int64) error
}

// Conversation диалог с клиентом. В личном чате ID совпадает с telegram ID пользователя
type Conversation struct {
	ID   int64
	Name string
}

// Flow исполняет переходы диалога записи.
// События одного диалога обрабатываются строго по очереди
type Flow struct {
	catalog      Catalog
	availability Availability
	committer    Committer
	drafts       DraftStore
	locks        *lock.LocalLocker
	metrics      *metrics.Metrics
	logger       *zap.Logger
	idleTimeout  time.Duration
	now          func() time.Time
}

func NewFlow(
	catalog Catalog,
	availability Availability,
	committer Committer,
	drafts DraftStore,
	m *metrics.Metrics,
	logger *zap.Logger,
	idleTimeout time.Duration,
) *Flow {
	return &Flow{
		catalog:      catalog,
		availability: availability,
		committer:    committer,
		drafts:       drafts,
		locks:        lock.NewLocalLocker(),
		metrics:      m,
		logger:       logger,
		idleTimeout:  idleTimeout,
		now:          time.Now,
	}
}

// Handle обрабатывает событие и возвращает следующий экран.
// Ошибки выбора не прерывают диалог: возвращается текущий шаг с пояснением.
// Ошибка возвращается только для непредвиденных сбоев; черновик при этом не меняется
func (f *Flow) Handle(ctx context.Context, conv Conversation, ev Event) (*Prompt, error) {
	var prompt *Prompt
	err := f.locks.WithLock(ctx, fmt.Sprintf("conversation:%d", conv.ID), func(ctx context.Context) error {
		var err error
		prompt, err = f.handle(ctx, conv, ev)
		return err
	})

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
		f.logger.Error("Booking event failed",
			zap.Int64("conversation_id", conv.ID),
			zap.String("event", string(ev.Kind)),
			zap.String("operation", "booking_flow"),
			zap.Error(err))
	case prompt.Notice != "":
		outcome = "notice"
	}
	f.metrics.FlowEvents.WithLabelValues(string(ev.Kind), outcome).Inc()

	return prompt, err
}

func (f *Flow) handle(ctx context.Context, conv Conversation, ev Event) (*Prompt, error) {
	now := f.now()

	current, expired, err := f.load(ctx, conv.ID, now)
	if err != nil {
		if errors.Is(err, model.ErrUnavailable) {
			return unavailablePrompt(), nil
		}
		return nil, fmt.Errorf("load draft: %w", err)
	}

	next, effs, err := Transition(current, ev)
	if err != nil {
		if errors.Is(err, ErrNoDraft) {
			p := idlePrompt()
			if expired {
				p.Notice = "Время на оформление записи истекло, начните заново."
			}
			return p, nil
		}
		return f.recover(ctx, conv, current, err)
	}
	next.UpdatedAt = now

	var prompt *Prompt
	for _, eff := range effs {
		next, prompt, err = f.apply(ctx, conv, next, eff)
		if err != nil {
			slotStep := eff.Kind == EffectShowSummary || eff.Kind == EffectCommit
			if slotStep && errors.Is(err, model.ErrSlotConflict) {
				return f.reofferSlots(ctx, conv, next, err)
			}
			return f.recover(ctx, conv, current, err)
		}
	}

	if err := f.persist(ctx, conv.ID, next); err != nil {
		return unavailablePrompt(), nil
	}

	f.logger.Debug("Booking step",
		zap.Int64("conversation_id", conv.ID),
		zap.String("from", string(current.Step)),
		zap.String("to", string(next.Step)))

	return prompt, nil
}

// load читает черновик; просроченный черновик удаляется
func (f *Flow) load(ctx context.Context, conversationID int64, now time.Time) (Draft, bool, error) {
	stored, err := f.drafts.Get(ctx, conversationID)
	if err != nil {
		return Draft{}, false, err
	}
	if stored == nil {
		return Draft{Step: StepIdle}, false, nil
	}

	if stored.Step.Active() && f.idleTimeout > 0 && now.Sub(stored.UpdatedAt) > f.idleTimeout {
		if err := f.drafts.Delete(ctx, conversationID); err != nil {
			f.logger.Warn("Failed to delete expired draft", zap.Int64("conversation_id", conversationID), zap.Error(err))
		}
		return Draft{Step: StepIdle}, true, nil
	}

	return *stored, false, nil
}

func (f *Flow) persist(ctx context.Context, conversationID int64, d Draft) error {
	if d.Step.Active() {
		if err := f.drafts.Save(ctx, conversationID, d); err != nil {
			f.logger.Error("Failed to save draft", zap.Int64("conversation_id", conversationID), zap.Error(err))
			return err
		}
		return nil
	}

	if err := f.drafts.Delete(ctx, conversationID); err != nil {
		f.logger.Warn("Failed to delete draft", zap.Int64("conversation_id", conversationID), zap.Error(err))
	}
	return nil
}

// apply выполняет эффект. При ошибке возвращает черновик без изменений
func (f *Flow) apply(ctx context.Context, conv Conversation, d Draft, eff Effect) (Draft, *Prompt, error) {
	loc := f.availability.Location()

	switch eff.Kind {
	case EffectShowMasters:
		masters, err := f.catalog.ListActiveMasters(ctx)
		if err != nil {
			return d, nil, fmt.Errorf("list masters: %w", err)
		}
		return d, mastersPrompt(masters), nil

	case EffectShowServices:
		master, err := f.catalog.GetMaster(ctx, d.MasterID)
		if err != nil {
			return d, nil, fmt.Errorf("get master: %w", err)
		}
		if master == nil || !master.IsActive {
			return d, nil, fmt.Errorf("master %d: %w", d.MasterID, model.ErrNotFound)
		}

		services, err := f.catalog.ListActiveServices(ctx, master.ID)
		if err != nil {
			return d, nil, fmt.Errorf("list services: %w", err)
		}

		d.MasterName = master.FullName
		return d, servicesPrompt(d, services), nil

	case EffectShowDates:
		service, err := f.catalog.GetService(ctx, d.ServiceID)
		if err != nil {
			return d, nil, fmt.Errorf("get service: %w", err)
		}
		if service == nil || !service.IsActive || service.MasterID != d.MasterID {
			return d, nil, fmt.Errorf("service %d of master %d: %w", d.ServiceID, d.MasterID, model.ErrNotFound)
		}

		dates, err := f.availability.Dates(ctx, d.MasterID)
		if err != nil {
			return d, nil, fmt.Errorf("list dates: %w", err)
		}

		d.ServiceName = service.Name
		d.ServiceMinutes = service.DurationMinutes
		d.ServicePrice = service.Price
		return d, datesPrompt(d, dates), nil

	case EffectShowSlots:
		day, err := d.Day(loc)
		if err != nil {
			return d, nil, fmt.Errorf("%w: bad date %q", model.ErrValidation, d.Date)
		}

		ok, err := f.availability.IsBookableDate(ctx, d.MasterID, day)
		if err != nil {
			return d, nil, fmt.Errorf("check date: %w", err)
		}
		if !ok {
			return d, nil, fmt.Errorf("%w: date %s is not bookable", model.ErrValidation, d.Date)
		}

		seq, err := f.availability.Slots(ctx, d.MasterID, day, d.ServiceDuration())
		if err != nil {
			return d, nil, fmt.Errorf("list slots: %w", err)
		}
		return d, slotsPrompt(d, day, slices.Collect(seq)), nil

	case EffectShowSummary:
		start, err := d.StartTime(loc)
		if err != nil {
			return d, nil, fmt.Errorf("%w: bad slot %s %s", model.ErrValidation, d.Date, d.Time)
		}

		free, err := f.availability.IsFree(ctx, d.MasterID, start, d.ServiceDuration())
		if err != nil {
			return d, nil, fmt.Errorf("check slot: %w", err)
		}
		if !free {
			return d, nil, fmt.Errorf("slot %s %s: %w", d.Date, d.Time, model.ErrSlotConflict)
		}
		return d, summaryPrompt(d, start), nil

	case EffectCommit:
		start, err := d.StartTime(loc)
		if err != nil {
			return d, nil, fmt.Errorf("%w: bad slot %s %s", model.ErrValidation, d.Date, d.Time)
		}

		// с показа сводки могло пройти время: слот заняли или он попал в минимальный интервал до записи
		free, err := f.availability.IsFree(ctx, d.MasterID, start, d.ServiceDuration())
		if err != nil {
			return d, nil, fmt.Errorf("check slot: %w", err)
		}
		if !free {
			return d, nil, fmt.Errorf("slot %s %s: %w", d.Date, d.Time, model.ErrSlotConflict)
		}

		appointment, err := f.committer.Book(ctx, model.BookingRequest{
			ClientTelegramID: conv.ID,
			ClientName:       conv.Name,
			MasterID:         d.MasterID,
			ServiceID:        d.ServiceID,
			StartTime:        start,
		})
		if err != nil {
			return d, nil, fmt.Errorf("commit booking: %w", err)
		}
		return d, committedPrompt(appointment, loc), nil

	case EffectDiscard:
		return d, cancelledPrompt(), nil
	}

	return d, nil, fmt.Errorf("unknown effect %q", eff.Kind)
}

// reofferSlots возвращает клиента к выбору времени со свежим списком слотов
func (f *Flow) reofferSlots(ctx context.Context, conv Conversation, d Draft, cause error) (*Prompt, error) {
	d.Step = StepChoosingTime
	d.Time = ""
	d.UpdatedAt = f.now()

	next, prompt, err := f.apply(ctx, conv, d, Effect{Kind: EffectShowSlots})
	if err != nil {
		return f.recover(ctx, conv, d, err)
	}

	if err := f.persist(ctx, conv.ID, next); err != nil {
		return unavailablePrompt(), nil
	}

	prompt.Notice = Notice(cause)
	return prompt, nil
}

// recover показывает заново последний корректный шаг prev с пояснением.
// Если и он больше невалиден (например мастер отключён), диалог начинается заново
func (f *Flow) recover(ctx context.Context, conv Conversation, prev Draft, cause error) (*Prompt, error) {
	if errors.Is(cause, model.ErrUnavailable) {
		return unavailablePrompt(), nil
	}
	if !isUserError(cause) {
		return nil, cause
	}

	if !prev.Step.Active() {
		p := idlePrompt()
		p.Notice = Notice(cause)
		return p, nil
	}

	next, prompt, err := f.apply(ctx, conv, prev, Effect{Kind: showEffect[prev.Step]})
	if err != nil {
		if errors.Is(err, model.ErrUnavailable) {
			return unavailablePrompt(), nil
		}
		if !isUserError(err) {
			return nil, err
		}
		if prev.Step == StepConfirming && errors.Is(err, model.ErrSlotConflict) {
			return f.reofferSlots(ctx, conv, prev, err)
		}

		next, prompt, err = f.apply(ctx, conv, Draft{Step: StepChoosingMaster}, Effect{Kind: EffectShowMasters})
		if err != nil {
			if errors.Is(err, model.ErrUnavailable) {
				return unavailablePrompt(), nil
			}
			return nil, err
		}
	}

	next.UpdatedAt = f.now()
	if err := f.persist(ctx, conv.ID, next); err != nil {
		return unavailablePrompt(), nil
	}

	prompt.Notice = Notice(cause)
	return prompt, nil
}

func isUserError(err error) bool {
	return errors.Is(err, model.ErrValidation) ||
		errors.Is(err, model.ErrNotFound) ||
		errors.Is(err, model.ErrSlotConflict) ||
		errors.Is(err, model.ErrNotAuthorized) ||
		errors.Is(err, model.ErrInvalidTransition)
}
