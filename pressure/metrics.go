package pressure

// Compression ratio estimates per representation kind. These are fixed
// constants, not measured byte counts: 4-bit quantization of 16-bit values
// approaches 1/4 of the original footprint, and the plain and windowed
// representations store full-precision values. Callers must not treat the
// ratio as authoritative compression telemetry.
const (
	compressionRatioPlain     = 1.0
	compressionRatioQuantized = 0.25
)

// CacheMetrics is a derived, read-only view of a live cache. It is
// recomputed per query and never mutated in place.
type CacheMetrics struct {
	MemoryUsageBytes int64   // current footprint reported by the cache
	TokenCount       int     // retained entries
	CompressionRatio float64 // estimate by representation kind, see above
	IsQuantized      bool
}

// Metrics reports the current read-only view of a cache. Pure; safe for any
// number of concurrent callers.
func Metrics(cache Cache) CacheMetrics {
	kind := cache.Kind()
	ratio := compressionRatioPlain
	if kind == QuantizedKind {
		ratio = compressionRatioQuantized
	}
	return CacheMetrics{
		MemoryUsageBytes: cache.SizeInBytes(),
		TokenCount:       cache.RetainedTokenCount(),
		CompressionRatio: ratio,
		IsQuantized:      kind == QuantizedKind,
	}
}
