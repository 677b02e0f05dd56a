package pressure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelector_TableIsTotal(t *testing.T) {
	s := NewSelector(0)
	for _, strategy := range strategyOrder {
		for _, tier := range tierOrder {
			policy := s.CachePolicy(tier, strategy, 0)
			preset := s.GenerationPreset(tier, strategy)
			assert.Containsf(t, []RepresentationKind{PlainKind, SlidingWindowKind, QuantizedKind}, policy.Kind, "(%s, %s)", tier, strategy)
			assert.Positivef(t, preset.MaxTokens, "(%s, %s)", tier, strategy)
		}
	}
}

func TestSelector_CriticalQuantizesUnderEveryStrategy(t *testing.T) {
	s := NewSelector(0)
	for _, strategy := range strategyOrder {
		policy := s.CachePolicy(TierCritical, strategy, 0)
		assert.Equal(t, QuantizedKind, policy.Kind)
		assert.Equal(t, 32, policy.GroupSize)
		assert.Equal(t, 4, policy.BitWidth)
	}
}

func TestSelector_LowPressureAndConservativeStayPlain(t *testing.T) {
	s := NewSelector(0)
	for _, strategy := range strategyOrder {
		assert.Equal(t, PlainKind, s.CachePolicy(TierLow, strategy, 0).Kind)
	}
	// Conservative resists transformation below Critical.
	assert.Equal(t, PlainKind, s.CachePolicy(TierMedium, StrategyConservative, 0).Kind)
	assert.Equal(t, PlainKind, s.CachePolicy(TierHigh, StrategyConservative, 0).Kind)
}

func TestSelector_BalancedMediumUsesSlidingWindow(t *testing.T) {
	s := NewSelector(0)
	policy := s.CachePolicy(TierMedium, StrategyBalanced, 0)
	assert.Equal(t, SlidingWindowKind, policy.Kind)
	assert.Equal(t, DefaultWindowSize, policy.MaxSize)
	assert.Equal(t, 4, policy.Keep)
}

func TestSelector_RequestedCacheSizeOverridesWindow(t *testing.T) {
	s := NewSelector(0)
	policy := s.CachePolicy(TierMedium, StrategyBalanced, 512)
	assert.Equal(t, 512, policy.MaxSize)

	// The override only applies to sliding-window decisions.
	quantized := s.CachePolicy(TierHigh, StrategyBalanced, 512)
	assert.Equal(t, QuantizedKind, quantized.Kind)
	assert.Zero(t, quantized.MaxSize)
}

func TestSelector_BalancedHighQuantizesGroup64(t *testing.T) {
	s := NewSelector(0)
	policy := s.CachePolicy(TierHigh, StrategyBalanced, 0)
	assert.Equal(t, QuantizedKind, policy.Kind)
	assert.Equal(t, 64, policy.GroupSize)
	assert.Equal(t, 4, policy.BitWidth)
}

func TestSelector_AggressiveHighUsesSmallestGroup(t *testing.T) {
	s := NewSelector(0)
	policy := s.CachePolicy(TierHigh, StrategyAggressive, 0)
	assert.Equal(t, QuantizedKind, policy.Kind)
	assert.Equal(t, 32, policy.GroupSize)
}

func TestSelector_CriticalBalancedPreset(t *testing.T) {
	s := NewSelector(0)
	preset := s.GenerationPreset(TierCritical, StrategyBalanced)
	assert.Equal(t, 80, preset.MaxTokens)
	assert.Equal(t, 4, preset.QuantizationBits)
	assert.Equal(t, 32, preset.QuantizationGroupSize)
}

func TestSelector_PresetMonotonicity(t *testing.T) {
	// For a fixed strategy, budgets shrink and bit-widths never grow as the
	// tier rises. This is enforced by construction; the test guards the
	// literal table against regressions.
	s := NewSelector(0)
	for _, strategy := range strategyOrder {
		prev := s.GenerationPreset(tierOrder[0], strategy)
		for _, tier := range tierOrder[1:] {
			cur := s.GenerationPreset(tier, strategy)
			assert.Lessf(t, cur.MaxTokens, prev.MaxTokens, "MaxTokens at (%s, %s)", tier, strategy)
			assert.Lessf(t, cur.MaxCacheSize, prev.MaxCacheSize, "MaxCacheSize at (%s, %s)", tier, strategy)
			assert.LessOrEqualf(t, cur.QuantizationBits, prev.QuantizationBits, "QuantizationBits at (%s, %s)", tier, strategy)
			prev = cur
		}
	}
}

func TestSelector_PresetFieldRanges(t *testing.T) {
	s := NewSelector(0)
	for _, strategy := range strategyOrder {
		for _, tier := range tierOrder {
			preset := s.GenerationPreset(tier, strategy)
			assert.Contains(t, []int{4, 8}, preset.QuantizationBits)
			assert.Positive(t, preset.QuantizationGroupSize)
			assert.Positive(t, preset.QuantizationStartOffset)
			assert.GreaterOrEqual(t, preset.Temperature, 0.0)
			assert.LessOrEqual(t, preset.Temperature, 2.0)
		}
	}
}

func TestSelector_DefaultWindowSizeConfigurable(t *testing.T) {
	s := NewSelector(256)
	policy := s.CachePolicy(TierMedium, StrategyBalanced, 0)
	assert.Equal(t, 256, policy.MaxSize)
}

func TestNewOptimizationStrategy(t *testing.T) {
	got, err := NewOptimizationStrategy("aggressive")
	assert.NoError(t, err)
	assert.Equal(t, StrategyAggressive, got)

	got, err = NewOptimizationStrategy("")
	assert.NoError(t, err)
	assert.Equal(t, StrategyBalanced, got)

	_, err = NewOptimizationStrategy("reckless")
	assert.Error(t, err)
}
