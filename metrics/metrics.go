package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/openphylo/sdk/taxonomy"
)

// Metrics holds the SDK's Prometheus collectors.
type Metrics struct {
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	cacheEvictions *prometheus.CounterVec
	serviceCalls   *prometheus.CounterVec
	serviceErrors  prometheus.Counter
	events         *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "phylo",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Taxonomy cache hits by facet.",
		}, []string{"facet"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "phylo",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Taxonomy cache misses by facet.",
		}, []string{"facet"}),
		cacheEvictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "phylo",
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Wholesale facet clears triggered by the capacity sentinel.",
		}, []string{"facet"}),
		serviceCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "phylo",
			Subsystem: "service",
			Name:      "calls_total",
			Help:      "Taxonomy service searches by facet.",
		}, []string{"facet"}),
		serviceErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "phylo",
			Subsystem: "service",
			Name:      "errors_total",
			Help:      "Taxonomy service searches that returned an error.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "phylo",
			Subsystem: "gsdi",
			Name:      "events_total",
			Help:      "Reconciliation event classifications by type.",
		}, []string{"type"}),
	}
	reg.MustRegister(m.cacheHits, m.cacheMisses, m.cacheEvictions,
		m.serviceCalls, m.serviceErrors, m.events)
	return m
}

// CacheHit records a cache hit on a facet.
func (m *Metrics) CacheHit(f taxonomy.Facet) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(f.String()).Inc()
}

// CacheMiss records a cache miss on a facet.
func (m *Metrics) CacheMiss(f taxonomy.Facet) {
	if m == nil {
		return
	}
	m.cacheMisses.WithLabelValues(f.String()).Inc()
}

// CacheEviction records a wholesale clear of a facet.
func (m *Metrics) CacheEviction(f taxonomy.Facet) {
	if m == nil {
		return
	}
	m.cacheEvictions.WithLabelValues(f.String()).Inc()
}

// ServiceCall records a service search on a facet.
func (m *Metrics) ServiceCall(f taxonomy.Facet) {
	if m == nil {
		return
	}
	m.serviceCalls.WithLabelValues(f.String()).Inc()
}

// ServiceError records a failed service search.
func (m *Metrics) ServiceError() {
	if m == nil {
		return
	}
	m.serviceErrors.Inc()
}

// Event records one event classification.
func (m *Metrics) Event(e taxonomy.Event) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(e.String()).Inc()
}
