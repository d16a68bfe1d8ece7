package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Account metrics
	Operations        *prometheus.CounterVec
	OperationAmount   *prometheus.HistogramVec
	OperationDuration *prometheus.HistogramVec
	Rejections        *prometheus.CounterVec
	AccountBalance    prometheus.Gauge

	// Statement metrics
	Statements       *prometheus.CounterVec
	StatementEntries prometheus.Histogram

	// Cache metrics
	CacheErrors *prometheus.CounterVec

	// Outbox metrics
	EventsPublished     prometheus.Counter
	EventPublishErrors  prometheus.Counter
	OutboxPendingEvents prometheus.Gauge

	// Rate limiting metrics
	RateLimitHits prometheus.Counter

	// Reconciliation metrics
	Reconciliations  *prometheus.CounterVec
	LedgerDifference prometheus.Gauge
}

// New creates all metrics and registers them with reg. A nil reg uses the
// default Prometheus registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Account metrics
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goaccount_operations_total",
				Help: "Total account operations by type",
			},
			[]string{"operation"},
		),
		OperationAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "goaccount_operation_amount_cents",
				Help:    "Deposit and withdrawal amounts in minor units",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"operation"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "goaccount_operation_duration_seconds",
				Help:    "Duration of account operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		Rejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goaccount_rejections_total",
				Help: "Total rejected account operations by reason",
			},
			[]string{"operation", "reason"},
		),
		AccountBalance: factory.NewGauge(prometheus.GaugeOpts{
			Name: "goaccount_account_balance_cents",
			Help: "Current account balance in minor units",
		}),

		// Statement metrics
		Statements: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goaccount_statements_total",
				Help: "Total statements served by source",
			},
			[]string{"source"},
		),
		StatementEntries: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "goaccount_statement_entries",
			Help:    "Number of entries per statement",
			Buckets: []float64{1, 2, 5, 10, 50, 100, 500, 1000},
		}),

		// Cache metrics
		CacheErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goaccount_cache_errors_total",
				Help: "Total statement cache errors",
			},
			[]string{"operation"},
		),

		// Outbox metrics
		EventsPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "goaccount_events_published_total",
			Help: "Total outbox events published",
		}),
		EventPublishErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "goaccount_event_publish_errors_total",
			Help: "Total outbox events that failed to publish",
		}),
		OutboxPendingEvents: factory.NewGauge(prometheus.GaugeOpts{
			Name: "goaccount_outbox_pending_events",
			Help: "Unpublished events fetched in the last outbox poll",
		}),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "goaccount_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),

		// Reconciliation metrics
		Reconciliations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goaccount_reconciliations_total",
				Help: "Total ledger reconciliations by outcome",
			},
			[]string{"outcome"},
		),
		LedgerDifference: factory.NewGauge(prometheus.GaugeOpts{
			Name: "goaccount_ledger_difference_cents",
			Help: "Recorded minus calculated balance at the last reconciliation",
		}),
	}
}
