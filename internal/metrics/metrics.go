package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ScansTotal    *prometheus.CounterVec
	StoreFailures prometheus.Counter
	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ScansTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_scans_total",
			Help: "Total number of scan requests by outcome",
		}, []string{"outcome"}),
		StoreFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "attendance_store_failures_total",
			Help: "Total number of failed store operations",
		}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "attendance_session_cache_hits_total",
			Help: "Existence lookups answered from the session cache",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "attendance_session_cache_misses_total",
			Help: "Existence lookups that fell through to the store",
		}),
	}
}

func (m *Metrics) ObserveScan(outcome string) {
	if m == nil {
		return
	}
	m.ScansTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveStoreFailure() {
	if m == nil {
		return
	}
	m.StoreFailures.Inc()
}

func (m *Metrics) ObserveCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

func (m *Metrics) ObserveCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}
