package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	// Availability metrics
	AvailabilityQueries *prometheus.CounterVec
	SlotsGenerated      prometheus.Histogram

	// Booking metrics
	BookingWrites    *prometheus.CounterVec
	BookingConflicts prometheus.Counter
	LockWait         prometheus.Histogram

	// Outbox related metrics
	OutboxEventsProcessed   prometheus.Counter
	OutboxEventsFailed      prometheus.Counter
	OutboxProcessingLatency prometheus.Histogram
	OutboxRetries           *prometheus.CounterVec
	OutboxEventsPurged      prometheus.Counter

	// Database metrics
	DatabaseOperations *prometheus.CounterVec
}

// NewMetrics creates all application metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AvailabilityQueries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_queries_total",
			Help:      "Availability queries by outcome",
		}, []string{"outcome"}),
		SlotsGenerated: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "availability_slots_generated",
			Help:      "Number of slots generated per availability query",
			Buckets:   []float64{0, 1, 5, 10, 20, 30, 40, 60},
		}),
		BookingWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_writes_total",
			Help:      "Booking create and update attempts by operation and outcome",
		}, []string{"operation", "outcome"}),
		BookingConflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflicts_total",
			Help:      "Booking writes rejected because the slot was taken",
		}),
		LockWait: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "booking_lock_wait_seconds",
			Help:      "Time spent acquiring the staff schedule lock",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2},
		}),

		OutboxEventsProcessed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_processed_total",
			Help:      "Total number of successfully processed outbox events",
		}),
		OutboxEventsFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_failed_total",
			Help:      "Total number of failed outbox events",
		}),
		OutboxProcessingLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outbox_processing_duration_seconds",
			Help:      "Time spent processing outbox batches",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		OutboxRetries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_retry_attempts_total",
			Help:      "Total number of retry attempts for outbox events",
		}, []string{"event_type"}),
		OutboxEventsPurged: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_purged_total",
			Help:      "Processed outbox events removed after the retention period",
		}),

		DatabaseOperations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
	}
}

func (m *Metrics) AvailabilityQuery(outcome string, slots int) {
	if m == nil {
		return
	}
	m.AvailabilityQueries.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		m.SlotsGenerated.Observe(float64(slots))
	}
}

func (m *Metrics) BookingWrite(operation, outcome string) {
	if m == nil {
		return
	}
	m.BookingWrites.WithLabelValues(operation, outcome).Inc()
	if outcome == "conflict" {
		m.BookingConflicts.Inc()
	}
}

func (m *Metrics) ObserveLockWait(d time.Duration) {
	if m == nil {
		return
	}
	m.LockWait.Observe(d.Seconds())
}

func (m *Metrics) DatabaseOperation(operation string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.DatabaseOperations.WithLabelValues(operation, status).Inc()
}
