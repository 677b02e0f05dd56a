package pressure

import "gonum.org/v1/gonum/stat"

// TrendDirection summarizes how the usage ratio has moved across the
// recorded window.
type TrendDirection int

const (
	TrendSteady TrendDirection = iota
	TrendRising
	TrendFalling
)

// String returns the trend name used in reports.
func (d TrendDirection) String() string {
	switch d {
	case TrendRising:
		return "rising"
	case TrendFalling:
		return "falling"
	default:
		return "steady"
	}
}

// trendEpsilon is the minimum half-to-half mean difference treated as a
// real movement rather than noise.
const trendEpsilon = 0.02

// UsageHistory is a fixed-capacity ring of recent usage ratios. It backs
// trend reporting in the CLI and telemetry; the decision pipeline itself
// only ever looks at the latest sample.
type UsageHistory struct {
	samples []float64
	next    int
	full    bool
}

// NewUsageHistory creates a history retaining the last capacity samples.
// Capacity below 2 is coerced to 2 so a trend is always computable.
func NewUsageHistory(capacity int) *UsageHistory {
	if capacity < 2 {
		capacity = 2
	}
	return &UsageHistory{samples: make([]float64, capacity)}
}

// Record appends a ratio, evicting the oldest sample once full.
func (h *UsageHistory) Record(ratio float64) {
	h.samples[h.next] = ratio
	h.next++
	if h.next == len(h.samples) {
		h.next = 0
		h.full = true
	}
}

// Samples returns the recorded ratios in chronological order.
func (h *UsageHistory) Samples() []float64 {
	if !h.full {
		return append([]float64{}, h.samples[:h.next]...)
	}
	out := make([]float64, 0, len(h.samples))
	out = append(out, h.samples[h.next:]...)
	out = append(out, h.samples[:h.next]...)
	return out
}

// Len returns the number of recorded samples.
func (h *UsageHistory) Len() int {
	if h.full {
		return len(h.samples)
	}
	return h.next
}

// Mean returns the mean recorded ratio, 0 when empty.
func (h *UsageHistory) Mean() float64 {
	s := h.Samples()
	if len(s) == 0 {
		return 0
	}
	return stat.Mean(s, nil)
}

// StdDev returns the sample standard deviation, 0 with fewer than 2 samples.
func (h *UsageHistory) StdDev() float64 {
	s := h.Samples()
	if len(s) < 2 {
		return 0
	}
	return stat.StdDev(s, nil)
}

// Trend compares the mean of the older half against the newer half.
func (h *UsageHistory) Trend() TrendDirection {
	s := h.Samples()
	if len(s) < 2 {
		return TrendSteady
	}
	mid := len(s) / 2
	older := stat.Mean(s[:mid], nil)
	newer := stat.Mean(s[mid:], nil)
	switch {
	case newer-older > trendEpsilon:
		return TrendRising
	case older-newer > trendEpsilon:
		return TrendFalling
	default:
		return TrendSteady
	}
}
