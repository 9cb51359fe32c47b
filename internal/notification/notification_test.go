package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MasloRich/Beauty-bot/internal/metrics"
	"github.com/MasloRich/Beauty-bot/internal/model"
)

type recordingSender struct {
	mu     sync.Mutex
	events []Event
	err    error
	block  chan struct{}
}

func (s *recordingSender) Deliver(ctx context.Context, event Event) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func (s *recordingSender) delivered() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

type recordingMarker struct {
	mu  sync.Mutex
	ids []int64
}

func (m *recordingMarker) MarkNotified(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids = append(m.ids, id)
	return nil
}

func (m *recordingMarker) marked() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.ids...)
}

func runDispatcher(t *testing.T, d *Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = d.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestDispatcher_DeliversAndMarksClientEvents(t *testing.T) {
	sender := &recordingSender{}
	marker := &recordingMarker{}
	d := NewDispatcher(sender, marker, metrics.NewNop(), zap.NewNop(), 8)
	runDispatcher(t, d)

	d.Publish(Event{AppointmentID: 1, Status: model.AppointmentStatusConfirmed, Recipient: RecipientClient, ChatID: 10})
	d.Publish(Event{AppointmentID: 2, Status: model.AppointmentStatusPending, Recipient: RecipientMaster, ChatID: 20})

	require.Eventually(t, func() bool { return len(sender.delivered()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return len(marker.marked()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int64{1}, marker.marked())
}

func TestDispatcher_FailedDeliveryNotMarked(t *testing.T) {
	sender := &recordingSender{err: errors.New("bot was blocked by the user")}
	marker := &recordingMarker{}
	m := metrics.NewNop()
	d := NewDispatcher(sender, marker, m, zap.NewNop(), 8)
	runDispatcher(t, d)

	d.Publish(Event{AppointmentID: 1, Status: model.AppointmentStatusCancelled, Recipient: RecipientClient})

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.NotificationsSent.WithLabelValues("failed")) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, marker.marked())
}

func TestDispatcher_PublishDoesNotBlock(t *testing.T) {
	sender := &recordingSender{block: make(chan struct{})}
	m := metrics.NewNop()
	d := NewDispatcher(sender, &recordingMarker{}, m, zap.NewNop(), 1)

	done := make(chan struct{})
	go func() {
		// без запущенного Run: первое событие в буфер, остальные отбрасываются
		for i := 0; i < 5; i++ {
			d.Publish(Event{AppointmentID: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked")
	}
	assert.Equal(t, 4.0, testutil.ToFloat64(m.NotificationsSent.WithLabelValues("dropped")))
	close(sender.block)
}
