// Package pressure implements the memory-pressure cache policy engine
// for on-device LLM inference runtimes.
//
// # Reading Guide
//
// Start with these three files to understand the decision pipeline:
//   - sampler.go: MemorySnapshot/MemoryLimits → normalized MemoryState
//   - classifier.go: usage ratio → discrete PressureTier
//   - policy.go: (tier, strategy) → CachePolicy and GenerationPreset
//
// # Architecture
//
// The pressure package defines interfaces and the decision tables;
// implementations live in sub-packages:
//   - pressure/memsim/: simulated memory runtime and cache (token accounting)
//   - pressure/telemetry/: Prometheus metric export via the Observer hook
//
// Control flow is Sampler → Classifier → Selector, driven either once per
// explicit request or periodically through Monitor.Tick. The engine never
// owns a timer: the caller's generation loop invokes Tick so that pressure
// evaluation stays serialized with the loop that appends to the caches
// being evaluated.
//
// # Key Interfaces
//
// The extension points are small interfaces:
//   - MemoryRuntime: allocator snapshot, configured limits, transient-cache clear
//   - Cache: representation kind, one-way conversions, trim, size queries
//   - Observer: optional telemetry hook for samples, conversions, cleanups
//
// Sampler, Classifier, Selector and Metrics are pure with respect to shared
// state and safe for concurrent callers. Monitor and Registry mutate
// caller-owned state and follow the caller's serialization discipline.
package pressure
