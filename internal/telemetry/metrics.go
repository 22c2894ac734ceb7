package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the data core. All components
// accept a nil *Metrics and skip instrumentation, so tests don't need a
// registry.
type Metrics struct {
	// Store
	StoreReads       *prometheus.CounterVec
	StoreWrites      *prometheus.CounterVec
	StoreCorruptions *prometheus.CounterVec
	StoreSeeded      *prometheus.CounterVec

	// Change bus
	BusPublished *prometheus.CounterVec
	BusDelivered *prometheus.CounterVec

	// Queries
	QueryRuns       *prometheus.CounterVec
	QuerySuperseded *prometheus.CounterVec
	QueryFailures   *prometheus.CounterVec
	QueryDelay      *prometheus.HistogramVec

	// Mutations
	Mutations *prometheus.CounterVec
}

// NewMetrics creates and registers the core metrics on reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if namespace == "" {
		namespace = "vitrin"
	}

	factory := promauto.With(reg)

	return &Metrics{
		StoreReads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "reads_total",
				Help:      "Collection reads served by the persistent store",
			},
			[]string{"collection"},
		),
		StoreWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "writes_total",
				Help:      "Full-collection overwrites",
			},
			[]string{"collection"},
		),
		StoreCorruptions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "corruption_recoveries_total",
				Help:      "Reads that found unparseable data and recovered with an empty collection",
			},
			[]string{"collection"},
		),
		StoreSeeded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "seeds_total",
				Help:      "Times a collection was seeded with its default dataset",
			},
			[]string{"collection"},
		),
		BusPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "bus",
				Name:      "published_total",
				Help:      "Notifications published per topic",
			},
			[]string{"topic"},
		),
		BusDelivered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "bus",
				Name:      "delivered_total",
				Help:      "Listener invocations per topic",
			},
			[]string{"topic"},
		),
		QueryRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "query",
				Name:      "runs_total",
				Help:      "Query pipeline executions",
			},
			[]string{"query"},
		),
		QuerySuperseded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "query",
				Name:      "superseded_total",
				Help:      "In-flight results discarded because a newer request was issued",
			},
			[]string{"query"},
		),
		QueryFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "query",
				Name:      "failures_total",
				Help:      "Pipeline runs that ended in the error state",
			},
			[]string{"query"},
		),
		QueryDelay: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "query",
				Name:      "simulated_delay_seconds",
				Help:      "Simulated latency window applied before a result is committed",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"query"},
		),
		Mutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "mutation",
				Name:      "applied_total",
				Help:      "Mutations applied per collection and operation",
			},
			[]string{"collection", "op"},
		),
	}
}
