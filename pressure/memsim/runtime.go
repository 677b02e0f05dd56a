package memsim

import "github.com/kvpressure/kvpressure/pressure"

// SimRuntime implements pressure.MemoryRuntime with settable counters. The
// CLI replay drives the snapshot along a synthetic ramp; tests set it
// directly. ClearTransientCache invocations are counted so callers can
// assert the cleanup hook fired.
type SimRuntime struct {
	snapshot   pressure.MemorySnapshot
	limits     pressure.MemoryLimits
	clearCalls int
}

// NewSimRuntime creates a runtime with the given configured limits and an
// empty snapshot.
func NewSimRuntime(limits pressure.MemoryLimits) *SimRuntime {
	return &SimRuntime{limits: limits}
}

// SetSnapshot replaces the live counters, tracking the peak high-water mark.
func (r *SimRuntime) SetSnapshot(snapshot pressure.MemorySnapshot) {
	if snapshot.PeakBytes < r.snapshot.PeakBytes {
		snapshot.PeakBytes = r.snapshot.PeakBytes
	}
	if snapshot.ActiveBytes > snapshot.PeakBytes {
		snapshot.PeakBytes = snapshot.ActiveBytes
	}
	r.snapshot = snapshot
}

// CurrentSnapshot returns the allocator counters.
func (r *SimRuntime) CurrentSnapshot() pressure.MemorySnapshot { return r.snapshot }

// ConfiguredLimits returns the configured ceilings.
func (r *SimRuntime) ConfiguredLimits() pressure.MemoryLimits { return r.limits }

// SetLimits reconfigures the ceilings.
func (r *SimRuntime) SetLimits(limits pressure.MemoryLimits) { r.limits = limits }

// ClearTransientCache models dropping the allocator's reuse pool: cached
// bytes go to zero and the invocation is counted.
func (r *SimRuntime) ClearTransientCache() {
	r.snapshot.CachedBytes = 0
	r.clearCalls++
}

// ClearCalls returns how many times the cleanup hook has been invoked.
func (r *SimRuntime) ClearCalls() int { return r.clearCalls }
