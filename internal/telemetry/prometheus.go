package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names published by the core. Registering them up front keeps the
// hot path allocation free.
const (
	MetricFramesTotal          = "heist_frames_total"
	MetricFrameDurationSeconds = "heist_frame_duration_seconds"
	MetricEntitiesActive       = "heist_entities_active"
	MetricItemsCollected       = "heist_items_collected_total"
	MetricCropsHarvested       = "heist_crops_harvested_total"
	MetricMolesKilled          = "heist_moles_killed_total"
	MetricLedgerDispatched     = "heist_ledger_dispatched_total"
	MetricLedgerRejected       = "heist_ledger_rejected_total"
	MetricMirrorPolls          = "heist_mirror_polls_total"
	MetricMirrorPollFailures   = "heist_mirror_poll_failures_total"
	MetricBroadcastsSent       = "heist_position_broadcasts_total"
	MetricTimerSeconds         = "heist_timer_seconds_remaining"
)

// PromMetrics backs the Metrics interface with a prometheus registry.
type PromMetrics struct {
	mu       sync.RWMutex
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
}

func NewPromMetrics(reg prometheus.Registerer) *PromMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &PromMetrics{
		counters: make(map[string]prometheus.Counter),
		gauges:   make(map[string]prometheus.Gauge),
	}
	counterNames := []string{
		MetricFramesTotal,
		MetricItemsCollected,
		MetricCropsHarvested,
		MetricMolesKilled,
		MetricLedgerDispatched,
		MetricLedgerRejected,
		MetricMirrorPolls,
		MetricMirrorPollFailures,
		MetricBroadcastsSent,
	}
	for _, name := range counterNames {
		c := prometheus.NewCounter(prometheus.CounterOpts{Name: name})
		reg.MustRegister(c)
		m.counters[name] = c
	}
	gaugeNames := []string{
		MetricFrameDurationSeconds,
		MetricEntitiesActive,
		MetricTimerSeconds,
	}
	for _, name := range gaugeNames {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Name: name})
		reg.MustRegister(g)
		m.gauges[name] = g
	}
	return m
}

func (m *PromMetrics) Add(name string, delta float64) {
	m.mu.RLock()
	counter, ok := m.counters[name]
	m.mu.RUnlock()
	if ok && delta >= 0 {
		counter.Add(delta)
		return
	}
	m.mu.RLock()
	gauge, ok := m.gauges[name]
	m.mu.RUnlock()
	if ok {
		gauge.Add(delta)
	}
}

func (m *PromMetrics) Store(name string, value float64) {
	m.mu.RLock()
	gauge, ok := m.gauges[name]
	m.mu.RUnlock()
	if ok {
		gauge.Set(value)
	}
}

var _ Metrics = (*PromMetrics)(nil)
