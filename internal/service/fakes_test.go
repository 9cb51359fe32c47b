package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MasloRich/Beauty-bot/internal/model"
	"github.com/MasloRich/Beauty-bot/internal/notification"
)

var msk = time.FixedZone("MSK", 3*60*60)

func clock(day, hour, minute int) time.Time {
	return time.Date(2024, time.January, day, hour, minute, 0, 0, msk)
}

// memDB хранилище в памяти с теми же проверками, что и в базе:
// пересечение активных записей, рабочее окно, сравнение статуса при обновлении
type memDB struct {
	mu           sync.Mutex
	nextID       int64
	masters      map[int64]*model.Master
	clients      map[int64]*model.Client
	services     map[int64]*model.Service
	windows      []*model.ScheduleWindow
	appointments map[int64]*model.Appointment
	createDelay  time.Duration
}

func newMemDB() *memDB {
	db := &memDB{
		nextID:       100,
		masters:      map[int64]*model.Master{},
		clients:      map[int64]*model.Client{},
		services:     map[int64]*model.Service{},
		appointments: map[int64]*model.Appointment{},
	}
	db.masters[1] = &model.Master{ID: 1, TelegramID: 1001, FullName: "Анна", IsActive: true}
	db.masters[2] = &model.Master{ID: 2, TelegramID: 1002, FullName: "Мария", IsActive: true}
	db.services[10] = &model.Service{ID: 10, MasterID: 1, Name: "Маникюр", DurationMinutes: 90, Price: 1500, IsActive: true}
	db.services[20] = &model.Service{ID: 20, MasterID: 2, Name: "Стрижка", DurationMinutes: 60, Price: 1200, IsActive: true}
	db.windows = []*model.ScheduleWindow{
		{ID: 1, MasterID: 1, Date: clock(20, 0, 0), StartsAt: clock(20, 10, 0), EndsAt: clock(20, 18, 0)},
	}
	return db
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// masters

type memMasters struct{ *memDB }

func (s memMasters) Create(_ context.Context, m *model.Master) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.masters {
		if existing.TelegramID == m.TelegramID {
			return fmt.Errorf("create master: %w", model.ErrSlotConflict)
		}
	}
	m.ID = s.id()
	s.masters[m.ID] = clone(m)
	return nil
}

func (s memMasters) GetByID(_ context.Context, id int64) (*model.Master, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.masters[id]), nil
}

func (s memMasters) GetByTelegramID(_ context.Context, tgID int64) (*model.Master, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.masters {
		if m.TelegramID == tgID {
			return clone(m), nil
		}
	}
	return nil, nil
}

func (s memMasters) ListActive(ctx context.Context) ([]*model.Master, error) {
	all, _ := s.ListAll(ctx)
	var out []*model.Master
	for _, m := range all {
		if m.IsActive {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s memMasters) ListAll(context.Context) ([]*model.Master, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Master
	for _, m := range s.masters {
		out = append(out, clone(m))
	}
	return out, nil
}

func (s memMasters) SetActive(_ context.Context, id int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.masters[id]
	if !ok {
		return fmt.Errorf("set master active: %w", model.ErrNotFound)
	}
	m.IsActive = active
	return nil
}

// clients

type memClients struct{ *memDB }

func (s memClients) EnsureByTelegramID(_ context.Context, tgID int64, name string) (*model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		if c.TelegramID == tgID {
			c.FullName = name
			return clone(c), nil
		}
	}
	c := &model.Client{ID: s.id(), TelegramID: tgID, FullName: name}
	s.clients[c.ID] = c
	return clone(c), nil
}

func (s memClients) GetByTelegramID(_ context.Context, tgID int64) (*model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		if c.TelegramID == tgID {
			return clone(c), nil
		}
	}
	return nil, nil
}

func (s memClients) GetByID(_ context.Context, id int64) (*model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.clients[id]), nil
}

// services

type memServices struct{ *memDB }

func (s memServices) Create(_ context.Context, svc *model.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc.ID = s.id()
	s.services[svc.ID] = clone(svc)
	return nil
}

func (s memServices) GetByID(_ context.Context, id int64) (*model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.services[id]), nil
}

func (s memServices) ListActiveByMaster(_ context.Context, masterID int64) ([]*model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Service
	for _, svc := range s.services {
		if svc.MasterID == masterID && svc.IsActive {
			out = append(out, clone(svc))
		}
	}
	return out, nil
}

// schedule

type memSchedule struct{ *memDB }

func (s memSchedule) AddWindow(_ context.Context, w *model.ScheduleWindow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.ID = s.id()
	w.Date = time.Date(w.StartsAt.Year(), w.StartsAt.Month(), w.StartsAt.Day(), 0, 0, 0, 0, w.StartsAt.Location())
	s.windows = append(s.windows, clone(w))
	return nil
}

func (s memSchedule) GetWindowsByDate(_ context.Context, masterID int64, date time.Time) ([]*model.ScheduleWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.ScheduleWindow
	for _, w := range s.windows {
		if w.MasterID == masterID && w.Date.Equal(date) {
			out = append(out, clone(w))
		}
	}
	return out, nil
}

func (s memSchedule) GetWindowDates(_ context.Context, masterID int64, from, to time.Time) ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []time.Time
	for _, w := range s.windows {
		if w.MasterID == masterID && !w.Date.Before(from) && !w.Date.After(to) {
			out = append(out, w.Date)
		}
	}
	return out, nil
}

// appointments

type memAppointments struct{ *memDB }

func (s memAppointments) CreateIfFree(_ context.Context, a *model.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createDelay > 0 {
		time.Sleep(s.createDelay)
	}

	inWindow := false
	for _, w := range s.windows {
		if w.MasterID == a.MasterID && w.Contains(a.StartTime, a.EndTime) {
			inWindow = true
		}
	}
	if !inWindow {
		return fmt.Errorf("check schedule: %w", model.ErrValidation)
	}

	for _, existing := range s.appointments {
		if existing.MasterID == a.MasterID && existing.IsActive() && existing.Overlaps(a.StartTime, a.EndTime) {
			return fmt.Errorf("check overlap: %w", model.ErrSlotConflict)
		}
	}

	a.ID = s.id()
	s.appointments[a.ID] = clone(a)
	return nil
}

func (s memAppointments) GetByID(_ context.Context, id int64) (*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.appointments[id]), nil
}

func (s memAppointments) GetActiveByMasterBetween(_ context.Context, masterID int64, from, to time.Time) ([]*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Appointment
	for _, a := range s.appointments {
		if a.MasterID == masterID && a.IsActive() && a.Overlaps(from, to) {
			out = append(out, clone(a))
		}
	}
	return out, nil
}

func (s memAppointments) List(_ context.Context, f model.AppointmentFilter) ([]*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Appointment
	for _, a := range s.appointments {
		if f.MasterID != 0 && a.MasterID != f.MasterID {
			continue
		}
		if f.ClientID != 0 && (a.ClientID == nil || *a.ClientID != f.ClientID) {
			continue
		}
		if len(f.Statuses) > 0 {
			match := false
			for _, st := range f.Statuses {
				match = match || a.Status == st
			}
			if !match {
				continue
			}
		}
		out = append(out, clone(a))
	}
	return out, nil
}

func (s memAppointments) UpdateStatus(_ context.Context, id int64, from, to model.AppointmentStatus) (*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok || a.Status != from || !model.CanTransition(from, to) {
		return nil, fmt.Errorf("update status: %w", model.ErrInvalidTransition)
	}
	a.Status = to
	return clone(a), nil
}

func (s memAppointments) StatsForMaster(_ context.Context, masterID int64, dayFrom, dayTo time.Time) (*model.MasterStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stats model.MasterStats
	for _, a := range s.appointments {
		if a.MasterID != masterID {
			continue
		}
		stats.Total++
		if a.Status == model.AppointmentStatusPending {
			stats.Pending++
		}
		if a.IsActive() && !a.StartTime.Before(dayFrom) && a.StartTime.Before(dayTo) {
			stats.Today++
		}
	}
	return &stats, nil
}

// publisher

type recordingPublisher struct {
	mu     sync.Mutex
	events []notification.Event
}

func (p *recordingPublisher) Publish(e notification.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) Events() []notification.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notification.Event(nil), p.events...)
}
