// Package metrics содержит prometheus коллекторы бота.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "beauty_bot"

type Metrics struct {
	BookingsCommitted prometheus.Counter
	SlotConflicts     prometheus.Counter
	StatusTransitions *prometheus.CounterVec
	FlowEvents        *prometheus.CounterVec
	NotificationsSent *prometheus.CounterVec
	StoreLatency      *prometheus.HistogramVec
}

// New регистрирует коллекторы в reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BookingsCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_committed_total",
			Help:      "Appointments written in pending status.",
		}),
		SlotConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_conflicts_total",
			Help:      "Commit attempts rejected because the slot was taken.",
		}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_transitions_total",
			Help:      "Appointment status transitions by target status.",
		}, []string{"status"}),
		FlowEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_flow_events_total",
			Help:      "Booking conversation events by kind and outcome.",
		}, []string{"event", "outcome"}),
		NotificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Status change notifications by outcome.",
		}, []string{"outcome"}),
		StoreLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_seconds",
			Help:      "Latency of appointment store operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	reg.MustRegister(
		m.BookingsCommitted,
		m.SlotConflicts,
		m.StatusTransitions,
		m.FlowEvents,
		m.NotificationsSent,
		m.StoreLatency,
	)

	return m
}

// NewNop коллекторы без регистрации, для тестов и утилит
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
