package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kvpressure/kvpressure/pressure"
)

// policyCmd prints the full (tier, strategy) decision table for inspection.
var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Print the cache policy and generation preset table",
	Run: func(cmd *cobra.Command, args []string) {
		selector := pressure.NewSelector(0)
		tiers := []pressure.PressureTier{pressure.TierLow, pressure.TierMedium, pressure.TierHigh, pressure.TierCritical}
		strategies := []pressure.OptimizationStrategy{pressure.StrategyAggressive, pressure.StrategyBalanced, pressure.StrategyConservative}

		fmt.Printf("%-10s %-13s %-28s %-10s %-9s %s\n", "TIER", "STRATEGY", "CACHE POLICY", "MAXTOKENS", "MAXCACHE", "BITS")
		for _, strategy := range strategies {
			for _, tier := range tiers {
				policy := selector.CachePolicy(tier, strategy, 0)
				preset := selector.GenerationPreset(tier, strategy)
				fmt.Printf("%-10s %-13s %-28s %-10d %-9d %d\n",
					tier, strategy, describePolicy(policy), preset.MaxTokens, preset.MaxCacheSize, preset.QuantizationBits)
			}
		}
	},
}

// describePolicy renders a policy variant with its active parameters.
func describePolicy(p pressure.CachePolicy) string {
	switch p.Kind {
	case pressure.SlidingWindowKind:
		return fmt.Sprintf("sliding-window(max=%d,keep=%d)", p.MaxSize, p.Keep)
	case pressure.QuantizedKind:
		return fmt.Sprintf("quantized(group=%d,bits=%d)", p.GroupSize, p.BitWidth)
	default:
		return "plain"
	}
}
