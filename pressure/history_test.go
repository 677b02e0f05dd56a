package pressure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsageHistory_RecordAndSamples(t *testing.T) {
	h := NewUsageHistory(3)
	h.Record(0.1)
	h.Record(0.2)
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, []float64{0.1, 0.2}, h.Samples())

	// Overflow evicts the oldest sample, chronological order preserved.
	h.Record(0.3)
	h.Record(0.4)
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []float64{0.2, 0.3, 0.4}, h.Samples())
}

func TestUsageHistory_MeanAndStdDev(t *testing.T) {
	h := NewUsageHistory(4)
	for _, r := range []float64{0.2, 0.4, 0.6, 0.8} {
		h.Record(r)
	}
	assert.InDelta(t, 0.5, h.Mean(), 1e-9)
	assert.InDelta(t, 0.2581988897, h.StdDev(), 1e-6)
}

func TestUsageHistory_EmptyIsZero(t *testing.T) {
	h := NewUsageHistory(8)
	assert.Equal(t, 0.0, h.Mean())
	assert.Equal(t, 0.0, h.StdDev())
	assert.Equal(t, TrendSteady, h.Trend())
}

func TestUsageHistory_Trend(t *testing.T) {
	rising := NewUsageHistory(6)
	for _, r := range []float64{0.1, 0.15, 0.2, 0.6, 0.7, 0.8} {
		rising.Record(r)
	}
	assert.Equal(t, TrendRising, rising.Trend())

	falling := NewUsageHistory(6)
	for _, r := range []float64{0.8, 0.7, 0.6, 0.2, 0.15, 0.1} {
		falling.Record(r)
	}
	assert.Equal(t, TrendFalling, falling.Trend())

	steady := NewUsageHistory(6)
	for i := 0; i < 6; i++ {
		steady.Record(0.5)
	}
	assert.Equal(t, TrendSteady, steady.Trend())
}
