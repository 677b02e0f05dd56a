package pressure

import "fmt"

// DefaultWindowSize is the sliding-window bound used when the caller does
// not request a specific cache size.
const DefaultWindowSize = 1024

// WindowKeepTokens is the protected prefix of a sliding-window policy: the
// earliest context tokens are never evicted because attention sinks on them.
const WindowKeepTokens = 4

// CachePolicy is a tagged choice of cache representation. Exactly one
// variant is active per decision, identified by Kind; the other fields are
// meaningful only for their variant.
type CachePolicy struct {
	Kind RepresentationKind

	// SlidingWindowKind
	MaxSize int // window bound in tokens
	Keep    int // protected prefix length

	// QuantizedKind
	GroupSize int // quantization group size
	BitWidth  int // 4 or 8
}

// PlainPolicy returns the unbounded full-precision policy.
func PlainPolicy() CachePolicy {
	return CachePolicy{Kind: PlainKind}
}

// SlidingWindowPolicy returns a bounded-window policy with a protected prefix.
func SlidingWindowPolicy(maxSize, keep int) CachePolicy {
	return CachePolicy{Kind: SlidingWindowKind, MaxSize: maxSize, Keep: keep}
}

// QuantizedPolicy returns a reduced bit-width policy.
func QuantizedPolicy(groupSize, bitWidth int) CachePolicy {
	return CachePolicy{Kind: QuantizedKind, GroupSize: groupSize, BitWidth: bitWidth}
}

// GenerationPreset bundles the generation knobs matched to a policy decision.
type GenerationPreset struct {
	MaxTokens               int     // token generation budget
	MaxCacheSize            int     // KV cache sizing hint in tokens
	QuantizationBits        int     // 4 or 8
	QuantizationGroupSize   int     // group size if quantization engages
	QuantizationStartOffset int     // tokens generated before quantization engages
	Temperature             float64 // sampling temperature, within [0, 2]
}

// policyKey indexes the 4x3 decision table.
type policyKey struct {
	tier     PressureTier
	strategy OptimizationStrategy
}

// Selector maps (tier, strategy) pairs to cache policies and generation
// presets through an explicit lookup table. The table is closed over both
// enumerations and checked for totality and budget monotonicity at
// construction, so a gap or ordering violation fails at init rather than
// silently falling through at decision time.
type Selector struct {
	defaultWindowSize int
	policies          map[policyKey]CachePolicy
	presets           map[policyKey]GenerationPreset
}

// tierOrder and strategyOrder enumerate the closed sets for table
// construction and validation.
var tierOrder = []PressureTier{TierLow, TierMedium, TierHigh, TierCritical}
var strategyOrder = []OptimizationStrategy{StrategyAggressive, StrategyBalanced, StrategyConservative}

// NewSelector builds the decision table. defaultWindowSize bounds sliding
// windows when the caller requests no specific size; 0 means
// DefaultWindowSize. Panics if the built table is incomplete or violates
// budget monotonicity; both are programming errors, not runtime conditions.
func NewSelector(defaultWindowSize int) *Selector {
	if defaultWindowSize <= 0 {
		defaultWindowSize = DefaultWindowSize
	}
	s := &Selector{
		defaultWindowSize: defaultWindowSize,
		policies:          make(map[policyKey]CachePolicy),
		presets:           make(map[policyKey]GenerationPreset),
	}
	s.buildPolicies()
	s.buildPresets()
	if err := s.validate(); err != nil {
		panic(fmt.Sprintf("pressure: invalid selector table: %v", err))
	}
	return s
}

// buildPolicies fills the cache-policy half of the table.
//
// Critical pressure wins over every strategy, including conservative: at the
// top tier the alternative to quantization is allocation failure mid-token.
// Below Critical, conservative callers always keep the plain representation.
func (s *Selector) buildPolicies() {
	for _, strategy := range strategyOrder {
		// Low pressure never transforms, and Critical always quantizes
		// with the smallest group size.
		s.policies[policyKey{TierLow, strategy}] = PlainPolicy()
		s.policies[policyKey{TierCritical, strategy}] = QuantizedPolicy(32, 4)
	}

	s.policies[policyKey{TierMedium, StrategyAggressive}] = QuantizedPolicy(64, 4)
	s.policies[policyKey{TierMedium, StrategyBalanced}] = SlidingWindowPolicy(s.defaultWindowSize, WindowKeepTokens)
	s.policies[policyKey{TierMedium, StrategyConservative}] = PlainPolicy()

	s.policies[policyKey{TierHigh, StrategyAggressive}] = QuantizedPolicy(32, 4)
	s.policies[policyKey{TierHigh, StrategyBalanced}] = QuantizedPolicy(64, 4)
	s.policies[policyKey{TierHigh, StrategyConservative}] = PlainPolicy()
}

// buildPresets fills the generation-preset half of the table. Budgets shrink
// strictly as the tier rises and bit-widths never grow; validate() enforces
// both properties against the literal numbers below.
func (s *Selector) buildPresets() {
	set := func(tier PressureTier, strategy OptimizationStrategy, p GenerationPreset) {
		s.presets[policyKey{tier, strategy}] = p
	}

	set(TierLow, StrategyAggressive, GenerationPreset{MaxTokens: 240, MaxCacheSize: 1024, QuantizationBits: 4, QuantizationGroupSize: 64, QuantizationStartOffset: 512, Temperature: 0.7})
	set(TierMedium, StrategyAggressive, GenerationPreset{MaxTokens: 160, MaxCacheSize: 768, QuantizationBits: 4, QuantizationGroupSize: 64, QuantizationStartOffset: 512, Temperature: 0.7})
	set(TierHigh, StrategyAggressive, GenerationPreset{MaxTokens: 96, MaxCacheSize: 512, QuantizationBits: 4, QuantizationGroupSize: 32, QuantizationStartOffset: 256, Temperature: 0.7})
	set(TierCritical, StrategyAggressive, GenerationPreset{MaxTokens: 64, MaxCacheSize: 256, QuantizationBits: 4, QuantizationGroupSize: 32, QuantizationStartOffset: 128, Temperature: 0.7})

	set(TierLow, StrategyBalanced, GenerationPreset{MaxTokens: 320, MaxCacheSize: 2048, QuantizationBits: 8, QuantizationGroupSize: 64, QuantizationStartOffset: 1024, Temperature: 0.7})
	set(TierMedium, StrategyBalanced, GenerationPreset{MaxTokens: 240, MaxCacheSize: 1024, QuantizationBits: 8, QuantizationGroupSize: 64, QuantizationStartOffset: 1024, Temperature: 0.7})
	set(TierHigh, StrategyBalanced, GenerationPreset{MaxTokens: 160, MaxCacheSize: 768, QuantizationBits: 4, QuantizationGroupSize: 64, QuantizationStartOffset: 512, Temperature: 0.7})
	set(TierCritical, StrategyBalanced, GenerationPreset{MaxTokens: 80, MaxCacheSize: 512, QuantizationBits: 4, QuantizationGroupSize: 32, QuantizationStartOffset: 256, Temperature: 0.7})

	set(TierLow, StrategyConservative, GenerationPreset{MaxTokens: 512, MaxCacheSize: 4096, QuantizationBits: 8, QuantizationGroupSize: 64, QuantizationStartOffset: 2048, Temperature: 0.7})
	set(TierMedium, StrategyConservative, GenerationPreset{MaxTokens: 448, MaxCacheSize: 3072, QuantizationBits: 8, QuantizationGroupSize: 64, QuantizationStartOffset: 2048, Temperature: 0.7})
	set(TierHigh, StrategyConservative, GenerationPreset{MaxTokens: 384, MaxCacheSize: 2048, QuantizationBits: 8, QuantizationGroupSize: 64, QuantizationStartOffset: 1024, Temperature: 0.7})
	set(TierCritical, StrategyConservative, GenerationPreset{MaxTokens: 320, MaxCacheSize: 1536, QuantizationBits: 4, QuantizationGroupSize: 32, QuantizationStartOffset: 512, Temperature: 0.7})
}

// validate checks table totality and the monotonicity properties: for each
// strategy, MaxTokens and MaxCacheSize strictly decrease and
// QuantizationBits never increases as the tier rises.
func (s *Selector) validate() error {
	for _, strategy := range strategyOrder {
		for _, tier := range tierOrder {
			key := policyKey{tier, strategy}
			if _, ok := s.policies[key]; !ok {
				return fmt.Errorf("missing cache policy for (%s, %s)", tier, strategy)
			}
			if _, ok := s.presets[key]; !ok {
				return fmt.Errorf("missing generation preset for (%s, %s)", tier, strategy)
			}
			p := s.presets[key]
			if p.MaxTokens <= 0 || p.MaxCacheSize <= 0 || p.QuantizationGroupSize <= 0 || p.QuantizationStartOffset <= 0 {
				return fmt.Errorf("non-positive preset field for (%s, %s)", tier, strategy)
			}
			if p.QuantizationBits != 4 && p.QuantizationBits != 8 {
				return fmt.Errorf("preset for (%s, %s) has quantization bits %d, want 4 or 8", tier, strategy, p.QuantizationBits)
			}
			if p.Temperature < 0 || p.Temperature > 2 {
				return fmt.Errorf("preset for (%s, %s) has temperature %v outside [0, 2]", tier, strategy, p.Temperature)
			}
		}
		for i := 1; i < len(tierOrder); i++ {
			prev := s.presets[policyKey{tierOrder[i-1], strategy}]
			cur := s.presets[policyKey{tierOrder[i], strategy}]
			if cur.MaxTokens >= prev.MaxTokens {
				return fmt.Errorf("MaxTokens not strictly decreasing for %s at %s", strategy, tierOrder[i])
			}
			if cur.MaxCacheSize >= prev.MaxCacheSize {
				return fmt.Errorf("MaxCacheSize not strictly decreasing for %s at %s", strategy, tierOrder[i])
			}
			if cur.QuantizationBits > prev.QuantizationBits {
				return fmt.Errorf("QuantizationBits increases for %s at %s", strategy, tierOrder[i])
			}
		}
	}
	return nil
}

// CachePolicy returns the cache policy for the pair. requestedCacheSize
// overrides the sliding-window bound when positive; 0 keeps the selector's
// default. Total over the closed 4x3 cross product.
func (s *Selector) CachePolicy(tier PressureTier, strategy OptimizationStrategy, requestedCacheSize int) CachePolicy {
	policy := s.policies[policyKey{tier, strategy}]
	if policy.Kind == SlidingWindowKind && requestedCacheSize > 0 {
		policy.MaxSize = requestedCacheSize
	}
	return policy
}

// GenerationPreset returns the generation preset for the pair.
func (s *Selector) GenerationPreset(tier PressureTier, strategy OptimizationStrategy) GenerationPreset {
	return s.presets[policyKey{tier, strategy}]
}
