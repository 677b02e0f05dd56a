// Package telemetry exports pressure engine events as Prometheus metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kvpressure/kvpressure/pressure"
)

// Collector implements pressure.Observer over Prometheus instruments.
// Metrics register with the default registerer under the given namespace;
// tests pick distinct namespaces to stay isolated.
type Collector struct {
	memoryUsageRatio   prometheus.Gauge
	cacheUsageRatio    prometheus.Gauge
	pressureTier       prometheus.Gauge
	samplesTotal       prometheus.Counter
	conversionsTotal   *prometheus.CounterVec
	conversionFailures prometheus.Counter
	cleanupsTotal      prometheus.Counter
}

// NewCollector creates and registers the engine's metric set.
func NewCollector(namespace string) *Collector {
	return &Collector{
		memoryUsageRatio: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memory_usage_ratio",
			Help:      "Active bytes over the configured memory limit, clamped to [0,1]",
		}),
		cacheUsageRatio: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_usage_ratio",
			Help:      "Cached bytes over the configured cache limit, clamped to [0,1]",
		}),
		pressureTier: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pressure_tier",
			Help:      "Current pressure tier (0=low, 1=medium, 2=high, 3=critical)",
		}),
		samplesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Total number of due pressure checks",
		}),
		conversionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_conversions_total",
			Help:      "Total cache conversions by target representation",
		}, []string{"target"}),
		conversionFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_conversion_failures_total",
			Help:      "Total cache conversions rejected by the runtime",
		}),
		cleanupsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forced_cleanups_total",
			Help:      "Total ForceCleanup invocations",
		}),
	}
}

// ObserveSample records the normalized state and classified tier of a due
// check.
func (c *Collector) ObserveSample(state pressure.MemoryState, tier pressure.PressureTier) {
	c.memoryUsageRatio.Set(state.MemoryUsageRatio)
	c.cacheUsageRatio.Set(state.CacheUsageRatio)
	c.pressureTier.Set(float64(tier))
	c.samplesTotal.Inc()
}

// ObserveConversion counts a completed cache conversion.
func (c *Collector) ObserveConversion(to pressure.RepresentationKind) {
	c.conversionsTotal.WithLabelValues(to.String()).Inc()
}

// ObserveConversionFailure counts a rejected cache conversion.
func (c *Collector) ObserveConversionFailure() {
	c.conversionFailures.Inc()
}

// ObserveCleanup counts a forced cleanup.
func (c *Collector) ObserveCleanup() {
	c.cleanupsTotal.Inc()
}
