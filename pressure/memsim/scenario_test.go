package memsim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvpressure/kvpressure/pressure"
)

const gib = int64(1) << 30

// End-to-end: critical pressure under the balanced strategy quantizes the
// live cache with the smallest group size and drops the token budget to 80.
func TestScenario_CriticalBalancedQuantizes(t *testing.T) {
	rt := NewSimRuntime(pressure.MemoryLimits{MemoryLimitBytes: 4 * gib, CacheLimitBytes: gib})
	rt.SetSnapshot(pressure.MemorySnapshot{ActiveBytes: 4123168604}) // ~0.96 of 4GiB

	state := pressure.NewSampler(rt).Sample()
	tier := pressure.NewDefaultClassifier().Classify(state.MemoryUsageRatio)
	require.Equal(t, pressure.TierCritical, tier)

	monitor := pressure.NewMonitor(rt, pressure.MonitorConfig{Strategy: pressure.StrategyBalanced})
	cache := NewSimCache(131072)
	cache.AppendN(2048)
	before := cache.SizeInBytes()

	require.NoError(t, monitor.Tick(time.Unix(100, 0), []pressure.Cache{cache}))

	assert.Equal(t, pressure.QuantizedKind, cache.Kind())
	assert.Less(t, cache.SizeInBytes(), before/2)

	preset := monitor.Selector().GenerationPreset(tier, pressure.StrategyBalanced)
	assert.Equal(t, 80, preset.MaxTokens)
	assert.Equal(t, 4, preset.QuantizationBits)
	assert.Equal(t, 32, preset.QuantizationGroupSize)
}

// End-to-end: medium pressure under the balanced strategy selects a sliding
// window with the protected 4-token prefix and the default 1024 bound. The
// monitor itself does not transform at Medium; the decision is exposed
// through the selector for session setup.
func TestScenario_MediumBalancedSelectsSlidingWindow(t *testing.T) {
	rt := NewSimRuntime(pressure.MemoryLimits{MemoryLimitBytes: 4 * gib, CacheLimitBytes: gib})
	rt.SetSnapshot(pressure.MemorySnapshot{ActiveBytes: 3 * gib}) // 0.75

	state := pressure.NewSampler(rt).Sample()
	tier := pressure.NewDefaultClassifier().Classify(state.MemoryUsageRatio)
	require.Equal(t, pressure.TierMedium, tier)

	policy := pressure.NewSelector(0).CachePolicy(tier, pressure.StrategyBalanced, 0)
	assert.Equal(t, pressure.SlidingWindowKind, policy.Kind)
	assert.Equal(t, 4, policy.Keep)
	assert.Equal(t, pressure.DefaultWindowSize, policy.MaxSize)

	cache := NewSimCache(131072)
	cache.AppendN(4096)
	require.NoError(t, cache.ConvertToSlidingWindow(policy.MaxSize, policy.Keep))
	assert.Equal(t, 1024, cache.RetainedTokenCount())
}

// End-to-end: degenerate zero limits are coerced to 1 and the pipeline
// stays total — no NaN, no panic, a usable (clamped) classification.
func TestScenario_DegenerateZeroLimits(t *testing.T) {
	rt := NewSimRuntime(pressure.MemoryLimits{})
	rt.SetSnapshot(pressure.MemorySnapshot{ActiveBytes: 123})

	state := pressure.NewSampler(rt).Sample()
	assert.Equal(t, 1.0, state.MemoryUsageRatio)
	assert.Equal(t, pressure.TierCritical, pressure.NewDefaultClassifier().Classify(state.MemoryUsageRatio))

	monitor := pressure.NewMonitor(rt, pressure.MonitorConfig{})
	cache := NewSimCache(64)
	cache.AppendN(16)
	assert.NoError(t, monitor.Tick(time.Unix(100, 0), []pressure.Cache{cache}))
}

// A full session: ramp usage up through the tiers, let the periodic monitor
// transform the registry's caches, then force a cleanup.
func TestScenario_RampWithRegistry(t *testing.T) {
	limits := pressure.MemoryLimits{MemoryLimitBytes: 4 * gib, CacheLimitBytes: gib}
	rt := NewSimRuntime(limits)
	monitor := pressure.NewMonitor(rt, pressure.MonitorConfig{
		Strategy: pressure.StrategyBalanced,
		Interval: 100 * time.Millisecond,
	})

	registry := pressure.NewRegistry()
	for _, name := range []string{"chat", "summarize"} {
		cache := NewSimCache(131072)
		cache.AppendN(1024)
		_, err := registry.Register(name, cache)
		require.NoError(t, err)
	}

	now := time.Unix(0, 0)
	for _, ratio := range []float64{0.2, 0.5, 0.8, 0.99} {
		now = now.Add(200 * time.Millisecond)
		rt.SetSnapshot(pressure.MemorySnapshot{ActiveBytes: int64(ratio * float64(limits.MemoryLimitBytes))})
		require.NoError(t, monitor.Tick(now, registry.Caches()))
	}

	for _, cache := range registry.Caches() {
		assert.Equal(t, pressure.QuantizedKind, cache.Kind())
		m := pressure.Metrics(cache)
		assert.True(t, m.IsQuantized)
		assert.Equal(t, 0.25, m.CompressionRatio)
	}

	monitor.ForceCleanup(registry.Caches())
	assert.Equal(t, 1, rt.ClearCalls())
	for _, cache := range registry.Caches() {
		assert.LessOrEqual(t, cache.RetainedTokenCount(), 512)
	}
}
