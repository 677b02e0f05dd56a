// Package memsim provides in-process reference implementations of the
// pressure engine's runtime capabilities: a simulated allocator and a
// simulated KV cache with token-level byte accounting. It models footprint,
// not tensor math, and backs the CLI replay and the end-to-end tests.
package memsim

import (
	"fmt"

	"github.com/kvpressure/kvpressure/pressure"
)

// fullPrecisionBits is the baseline storage width a quantized conversion
// rescales from.
const fullPrecisionBits = 16

// perGroupOverheadBytes is the scale/bias bookkeeping cost per quantization
// group.
const perGroupOverheadBytes = 8

// SimCache implements pressure.Cache over a token slice. Each retained token
// costs bytesPerToken at full precision; a quantized conversion rescales the
// cost by bit-width, a windowed conversion bounds the slice while protecting
// the oldest keep tokens. Conversions are one-way, matching the engine's
// eligibility rule.
//
// SimCache is caller-serialized like any live generation cache.
type SimCache struct {
	kind          pressure.RepresentationKind
	tokens        []int
	bytesPerToken int64

	// QuantizedKind parameters
	groupSize int
	bitWidth  int

	// SlidingWindowKind parameters
	maxSize int
	keep    int
}

// NewSimCache creates an empty plain cache with the given per-token cost.
func NewSimCache(bytesPerToken int64) *SimCache {
	if bytesPerToken <= 0 {
		bytesPerToken = 1
	}
	return &SimCache{kind: pressure.PlainKind, bytesPerToken: bytesPerToken}
}

// Kind reports the current representation.
func (c *SimCache) Kind() pressure.RepresentationKind { return c.kind }

// Append stores one decoded token. A windowed cache evicts the oldest
// unprotected token once the window is full.
func (c *SimCache) Append(token int) {
	c.tokens = append(c.tokens, token)
	if c.kind == pressure.SlidingWindowKind && len(c.tokens) > c.maxSize {
		c.evictToWindow()
	}
}

// AppendN stores n synthetic tokens, for building up test and replay state.
func (c *SimCache) AppendN(n int) {
	for i := 0; i < n; i++ {
		c.Append(i)
	}
}

// ConvertToQuantized rewrites the cache into reduced bit-width storage.
// Only a plain cache may convert; re-quantization and quantization of a
// windowed cache are rejected.
func (c *SimCache) ConvertToQuantized(groupSize, bitWidth int) error {
	if c.kind != pressure.PlainKind {
		return fmt.Errorf("cannot quantize a %s cache", c.kind)
	}
	if groupSize <= 0 {
		return fmt.Errorf("group size must be positive, got %d", groupSize)
	}
	if bitWidth != 4 && bitWidth != 8 {
		return fmt.Errorf("bit width must be 4 or 8, got %d", bitWidth)
	}
	c.kind = pressure.QuantizedKind
	c.groupSize = groupSize
	c.bitWidth = bitWidth
	return nil
}

// ConvertToSlidingWindow bounds the cache to maxSize tokens, protecting the
// oldest keep tokens. Only a plain cache may convert.
func (c *SimCache) ConvertToSlidingWindow(maxSize, keep int) error {
	if c.kind != pressure.PlainKind {
		return fmt.Errorf("cannot window a %s cache", c.kind)
	}
	if keep < 0 || maxSize <= keep {
		return fmt.Errorf("window maxSize %d must exceed keep %d", maxSize, keep)
	}
	c.kind = pressure.SlidingWindowKind
	c.maxSize = maxSize
	c.keep = keep
	if len(c.tokens) > c.maxSize {
		c.evictToWindow()
	}
	return nil
}

// evictToWindow drops tokens from the middle until the window bound holds:
// the keep prefix stays, the most recent tokens fill the rest.
func (c *SimCache) evictToWindow() {
	excess := len(c.tokens) - c.maxSize
	if excess <= 0 {
		return
	}
	kept := make([]int, 0, c.maxSize)
	kept = append(kept, c.tokens[:c.keep]...)
	kept = append(kept, c.tokens[c.keep+excess:]...)
	c.tokens = kept
}

// Trim discards tokens until at most toTokenCount remain. The keep prefix of
// a windowed cache survives; otherwise the oldest tokens go first.
func (c *SimCache) Trim(toTokenCount int) {
	if toTokenCount < 0 {
		toTokenCount = 0
	}
	if len(c.tokens) <= toTokenCount {
		return
	}
	keep := 0
	if c.kind == pressure.SlidingWindowKind && c.keep < toTokenCount {
		keep = c.keep
	}
	kept := make([]int, 0, toTokenCount)
	kept = append(kept, c.tokens[:keep]...)
	kept = append(kept, c.tokens[len(c.tokens)-(toTokenCount-keep):]...)
	c.tokens = kept
}

// RetainedTokenCount returns the number of stored tokens.
func (c *SimCache) RetainedTokenCount() int { return len(c.tokens) }

// SizeInBytes returns the simulated footprint. Quantized storage scales the
// per-token cost by bitWidth/16 and adds per-group scale/bias overhead.
func (c *SimCache) SizeInBytes() int64 {
	n := int64(len(c.tokens))
	if c.kind != pressure.QuantizedKind {
		return n * c.bytesPerToken
	}
	data := n * c.bytesPerToken * int64(c.bitWidth) / fullPrecisionBits
	groups := (n + int64(c.groupSize) - 1) / int64(c.groupSize)
	return data + groups*perGroupOverheadBytes
}
