package pressure

import "fmt"

// OptimizationStrategy is the caller-chosen dial trading memory savings
// against output quality. It is independent of the measured pressure tier.
type OptimizationStrategy int

const (
	StrategyAggressive OptimizationStrategy = iota
	StrategyBalanced
	StrategyConservative
)

// String returns the strategy name used in flags, config files and logs.
func (s OptimizationStrategy) String() string {
	switch s {
	case StrategyAggressive:
		return "aggressive"
	case StrategyBalanced:
		return "balanced"
	case StrategyConservative:
		return "conservative"
	default:
		return "unknown"
	}
}

// ValidStrategies is the set of recognized strategy names.
// Shared by PolicyBundle.Validate and NewOptimizationStrategy.
// An empty string defaults to balanced (for CLI flag default compatibility).
var ValidStrategies = map[string]bool{"": true, "aggressive": true, "balanced": true, "conservative": true}

// NewOptimizationStrategy parses a strategy by name.
func NewOptimizationStrategy(name string) (OptimizationStrategy, error) {
	switch name {
	case "aggressive":
		return StrategyAggressive, nil
	case "", "balanced":
		return StrategyBalanced, nil
	case "conservative":
		return StrategyConservative, nil
	default:
		return StrategyBalanced, fmt.Errorf("unknown optimization strategy %q; valid strategies: [aggressive, balanced, conservative]", name)
	}
}
