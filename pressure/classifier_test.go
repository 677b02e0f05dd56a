package pressure

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestClassify_Bands(t *testing.T) {
	c := NewDefaultClassifier()
	cases := []struct {
		ratio float64
		want  PressureTier
	}{
		{0.0, TierLow},
		{0.3, TierLow},
		{0.5, TierLow},
		{0.7, TierLow},
		{0.71, TierMedium},
		{0.8, TierMedium},
		{0.86, TierHigh},
		{0.95, TierHigh},
		{0.96, TierCritical},
		{1.0, TierCritical},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, c.Classify(tc.ratio), "Classify(%v)", tc.ratio)
	}
}

func TestClassify_ThresholdBoundaryIsStrict(t *testing.T) {
	// Exactly hitting a threshold does NOT promote: 0.85 stays Medium,
	// only strictly above moves to High.
	c := NewDefaultClassifier()
	assert.Equal(t, TierMedium, c.Classify(0.85))
	assert.Equal(t, TierHigh, c.Classify(0.8501))
	assert.Equal(t, TierHigh, c.Classify(0.95))
	assert.Equal(t, TierCritical, c.Classify(0.9501))
}

func TestClassify_CustomThresholds(t *testing.T) {
	c := NewClassifier(Thresholds{Low: 0.2, Medium: 0.4, High: 0.6, Critical: 0.8})
	assert.Equal(t, TierLow, c.Classify(0.4))
	assert.Equal(t, TierMedium, c.Classify(0.5))
	assert.Equal(t, TierHigh, c.Classify(0.7))
	assert.Equal(t, TierCritical, c.Classify(0.9))
}

// Property: classification is monotonic in the usage ratio.
func TestProperty_ClassificationMonotonic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500

	properties := gopter.NewProperties(parameters)
	c := NewDefaultClassifier()

	properties.Property("ratio1 <= ratio2 implies tier1 <= tier2", prop.ForAll(
		func(a, b float64) bool {
			lo, hi := a, b
			if lo > hi {
				lo, hi = hi, lo
			}
			return c.Classify(lo) <= c.Classify(hi)
		},
		gen.Float64Range(0, 1), gen.Float64Range(0, 1),
	))

	properties.TestingRun(t)
}

func TestPressureTier_Ordering(t *testing.T) {
	assert.True(t, TierLow < TierMedium)
	assert.True(t, TierMedium < TierHigh)
	assert.True(t, TierHigh < TierCritical)
}

func TestPressureTier_String(t *testing.T) {
	assert.Equal(t, "low", TierLow.String())
	assert.Equal(t, "critical", TierCritical.String())
	assert.Equal(t, "unknown", PressureTier(42).String())
}
