package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReviewSyncMetrics records remote sync outcomes for review writes.
type ReviewSyncMetrics struct {
	duration  *prometheus.HistogramVec
	success   *prometheus.CounterVec
	failure   *prometheus.CounterVec
	rollbacks *prometheus.CounterVec
}

// NewReviewSyncMetrics registers the review sync metrics on the provided registerer.
func NewReviewSyncMetrics(reg prometheus.Registerer) *ReviewSyncMetrics {
	if reg == nil {
		return &ReviewSyncMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "review_sync_duration_seconds",
		Help:    "Duration of remote review writes in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "review_sync_success",
		Help: "Review writes confirmed by the remote store.",
	}, []string{"op"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "review_sync_failure",
		Help: "Review writes rejected or lost by the remote store.",
	}, []string{"op"})
	rollbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "review_sync_rollbacks",
		Help: "Optimistic review updates rolled back after a failed write.",
	}, []string{"op"})
	reg.MustRegister(duration, success, failure, rollbacks)
	return &ReviewSyncMetrics{
		duration:  duration,
		success:   success,
		failure:   failure,
		rollbacks: rollbacks,
	}
}

// ObserveDuration records the remote write duration for the named operation.
func (m *ReviewSyncMetrics) ObserveDuration(op string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(op)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named operation.
func (m *ReviewSyncMetrics) IncSuccess(op string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncFailure increments the failure counter for the named operation.
func (m *ReviewSyncMetrics) IncFailure(op string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncRollback increments the rollback counter for the named operation.
func (m *ReviewSyncMetrics) IncRollback(op string) {
	if m == nil || m.rollbacks == nil {
		return
	}
	m.rollbacks.WithLabelValues(normalizeLabel(op)).Inc()
}

// OrderMetrics records submitted order counts and sizes.
type OrderMetrics struct {
	submitted *prometheus.CounterVec
	items     prometheus.Histogram
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	submitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_submitted",
		Help: "Orders handed off to the messaging channel.",
	}, []string{"delivery_day"})
	items := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_line_items",
		Help:    "Distinct line items per submitted order.",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
	})
	reg.MustRegister(submitted, items)
	return &OrderMetrics{
		submitted: submitted,
		items:     items,
	}
}

// IncSubmitted increments the submitted counter for the given delivery day.
func (m *OrderMetrics) IncSubmitted(deliveryDay string) {
	if m == nil || m.submitted == nil {
		return
	}
	m.submitted.WithLabelValues(normalizeLabel(deliveryDay)).Inc()
}

// ObserveLineItems records the number of distinct line items in an order.
func (m *OrderMetrics) ObserveLineItems(count int) {
	if m == nil || m.items == nil {
		return
	}
	m.items.Observe(float64(count))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
