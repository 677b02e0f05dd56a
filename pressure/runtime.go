package pressure

// RepresentationKind identifies how a cache currently stores its entries.
// The set is closed: policy dispatch switches exhaustively over these values
// instead of downcasting to concrete cache types.
type RepresentationKind int

const (
	PlainKind         RepresentationKind = iota // full-precision, unbounded
	SlidingWindowKind                           // recent window plus protected prefix
	QuantizedKind                               // reduced bit-width storage
)

// String returns the kind name used in logs and metric labels.
func (k RepresentationKind) String() string {
	switch k {
	case PlainKind:
		return "plain"
	case SlidingWindowKind:
		return "sliding-window"
	case QuantizedKind:
		return "quantized"
	default:
		return "unknown"
	}
}

// MemoryRuntime is the capability this engine consumes from the host
// tensor/memory runtime. It is injected, never owned: the engine only
// reads counters and invokes the runtime's own cleanup hook.
type MemoryRuntime interface {
	// CurrentSnapshot returns the allocator's live byte counters.
	CurrentSnapshot() MemorySnapshot

	// ConfiguredLimits returns the configured memory and cache ceilings.
	ConfiguredLimits() MemoryLimits

	// SetLimits reconfigures the allocator ceilings.
	SetLimits(limits MemoryLimits)

	// ClearTransientCache drops the allocator's transient buffer pool.
	ClearTransientCache()
}

// Cache is the capability a live KV cache exposes to the policy engine.
// Conversions are one-way: there is no path back to PlainKind, so the
// Monitor only transforms caches still in their plain representation.
type Cache interface {
	// Kind reports the cache's current representation.
	Kind() RepresentationKind

	// ConvertToQuantized rewrites the cache into reduced bit-width storage.
	// On failure the cache must be left in its prior representation.
	ConvertToQuantized(groupSize, bitWidth int) error

	// ConvertToSlidingWindow bounds the cache to maxSize entries while
	// protecting the oldest keep entries from eviction.
	// On failure the cache must be left in its prior representation.
	ConvertToSlidingWindow(maxSize, keep int) error

	// Trim discards entries until at most toTokenCount remain.
	Trim(toTokenCount int)

	// RetainedTokenCount returns the number of entries currently stored.
	RetainedTokenCount() int

	// SizeInBytes returns the cache's current memory footprint.
	SizeInBytes() int64
}
