package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RateMetrics holds the counters for the sync pipeline and push fan-out.
type RateMetrics struct {
	// Poll cycle counters
	CyclesTotal      prometheus.Counter
	CycleErrorsTotal prometheus.Counter
	CycleDuration    prometheus.Histogram

	// Item mutations
	ItemsCreatedTotal prometheus.CounterVec
	ItemsUpdatedTotal prometheus.CounterVec

	// Event bus
	EventsPublishedTotal prometheus.CounterVec
	PublishErrorsTotal   prometheus.Counter

	// Push subscribers
	Subscribers          prometheus.Gauge
	BroadcastPrunedTotal prometheus.Counter
}

// NewRateMetrics registers the rate metrics on the given registerer. Tests
// pass a throwaway registry to stay clear of duplicate registration.
func NewRateMetrics(reg prometheus.Registerer) *RateMetrics {
	factory := promauto.With(reg)

	return &RateMetrics{
		CyclesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "rate_sync_cycles_total",
			Help: "Number of completed poll cycles",
		}),

		CycleErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "rate_sync_cycle_errors_total",
			Help: "Number of poll cycles with at least one failed upsert",
		}),

		CycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rate_sync_cycle_duration_seconds",
			Help:    "Duration of one poll cycle",
			Buckets: prometheus.DefBuckets,
		}),

		ItemsCreatedTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_items_created_total",
				Help: "Number of items created by the sync pipeline",
			},
			[]string{"platform"},
		),

		ItemsUpdatedTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_items_updated_total",
				Help: "Number of items updated by the sync pipeline",
			},
			[]string{"platform"},
		),

		EventsPublishedTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_events_published_total",
				Help: "Number of rate events published to the event bus",
			},
			[]string{"type"},
		),

		PublishErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "rate_event_publish_errors_total",
			Help: "Number of failed event bus publishes",
		}),

		Subscribers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rate_push_subscribers",
			Help: "Number of live push subscribers",
		}),

		BroadcastPrunedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "rate_push_subscribers_pruned_total",
			Help: "Number of push subscribers dropped after a failed delivery",
		}),
	}
}
