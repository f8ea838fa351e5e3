package archecs

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors a World reports structural and
// scheduling activity through. World and Schedule update every field without
// checking it for nil; NewMetrics sets all of them.
//
// lazyecs has no metrics of its own, so the collector names and label scheme
// follow the Prometheus client's own naming conventions (snake_case, unit
// suffixes).
type Metrics struct {
	ArchetypeCount      prometheus.Gauge
	EntityCount         prometheus.Gauge
	ChangeTick          prometheus.Gauge
	ArchetypeGeneration prometheus.Gauge
	BatchDuration       prometheus.Histogram
}

// NewMetrics builds a Metrics with all collectors registered against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ArchetypeCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "archecs_archetype_count",
			Help: "Number of live archetypes in the world.",
		}),
		EntityCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "archecs_entity_count",
			Help: "Number of live entities in the world.",
		}),
		ChangeTick: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "archecs_change_tick",
			Help: "Current value of the world's monotonic change tick.",
		}),
		ArchetypeGeneration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "archecs_archetype_generation",
			Help: "Number of structural changes (archetype creations/prunes) observed.",
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "archecs_scheduler_batch_duration_seconds",
			Help:    "Wall-clock duration of one scheduler batch.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.ArchetypeCount, m.EntityCount, m.ChangeTick, m.ArchetypeGeneration, m.BatchDuration)
	return m
}
