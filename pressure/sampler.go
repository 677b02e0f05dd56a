package pressure

import "math"

// MemorySnapshot holds the allocator's live byte counters at a point in time.
// Snapshots are ephemeral and recomputed per decision point, never persisted.
type MemorySnapshot struct {
	ActiveBytes int64 // bytes in live tensors
	CachedBytes int64 // bytes held in the allocator's reuse pool
	PeakBytes   int64 // high-water mark since the last reset
}

// MemoryLimits holds the configured allocator ceilings.
// A limit of zero or below is invalid and coerced to 1 before any division.
type MemoryLimits struct {
	MemoryLimitBytes int64 // ceiling for live tensor memory
	CacheLimitBytes  int64 // ceiling for the allocator reuse pool
}

// MemoryState is a snapshot normalized against the configured limits.
// Ratios are always within [0, 1] and never NaN or infinite.
type MemoryState struct {
	Snapshot MemorySnapshot
	Limits   MemoryLimits

	MemoryUsageRatio float64 // ActiveBytes / MemoryLimitBytes, clamped
	CacheUsageRatio  float64 // CachedBytes / CacheLimitBytes, clamped
}

// NewMemoryState derives a MemoryState from raw allocator readings.
// Malformed inputs (negative counters, non-positive limits) are coerced to
// the safest interpretation rather than rejected: a mis-sample must never
// block generation.
func NewMemoryState(snapshot MemorySnapshot, limits MemoryLimits) MemoryState {
	if snapshot.ActiveBytes < 0 {
		snapshot.ActiveBytes = 0
	}
	if snapshot.CachedBytes < 0 {
		snapshot.CachedBytes = 0
	}
	if snapshot.PeakBytes < 0 {
		snapshot.PeakBytes = 0
	}
	if limits.MemoryLimitBytes <= 0 {
		limits.MemoryLimitBytes = 1
	}
	if limits.CacheLimitBytes <= 0 {
		limits.CacheLimitBytes = 1
	}
	return MemoryState{
		Snapshot:         snapshot,
		Limits:           limits,
		MemoryUsageRatio: usageRatio(snapshot.ActiveBytes, limits.MemoryLimitBytes),
		CacheUsageRatio:  usageRatio(snapshot.CachedBytes, limits.CacheLimitBytes),
	}
}

// usageRatio divides used by limit and clamps the result into [0, 1].
// NaN and infinities normalize to 0.
func usageRatio(used, limit int64) float64 {
	r := float64(used) / float64(limit)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// Sampler reads the injected runtime and derives normalized memory state.
// Sample is total: it never fails and has no side effects.
type Sampler struct {
	runtime MemoryRuntime
}

// NewSampler creates a Sampler over the given runtime capability.
func NewSampler(runtime MemoryRuntime) *Sampler {
	return &Sampler{runtime: runtime}
}

// Sample pulls the current snapshot and limits and normalizes them.
func (s *Sampler) Sample() MemoryState {
	return NewMemoryState(s.runtime.CurrentSnapshot(), s.runtime.ConfiguredLimits())
}
