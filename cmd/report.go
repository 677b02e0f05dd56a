package cmd

import (
	"fmt"

	"github.com/kvpressure/kvpressure/pressure"
	"github.com/kvpressure/kvpressure/pressure/memsim"
)

// ReplayReport aggregates the outcome of a replay run for final display.
type ReplayReport struct {
	Strategy           pressure.OptimizationStrategy
	Registry           *pressure.Registry
	Runtime            *memsim.SimRuntime
	History            *pressure.UsageHistory
	PeakTier           pressure.PressureTier
	FinalPreset        pressure.GenerationPreset
	ConversionFailures int
}

// Print displays the replay outcome: usage statistics, the peak tier
// reached, the matching generation preset, and per-cache metrics.
func (r *ReplayReport) Print() {
	fmt.Println("=== Pressure Replay Report ===")
	fmt.Printf("Strategy             : %s\n", r.Strategy)
	fmt.Printf("Peak Tier            : %s\n", r.PeakTier)
	fmt.Printf("Usage Mean / StdDev  : %.3f / %.3f\n", r.History.Mean(), r.History.StdDev())
	fmt.Printf("Usage Trend          : %s\n", r.History.Trend())
	fmt.Printf("Cleanup Hook Calls   : %d\n", r.Runtime.ClearCalls())
	if r.ConversionFailures > 0 {
		fmt.Printf("Conversion Failures  : %d\n", r.ConversionFailures)
	}
	fmt.Printf("Preset @ Peak        : maxTokens=%d maxCache=%d bits=%d group=%d startOffset=%d temp=%.2f\n",
		r.FinalPreset.MaxTokens, r.FinalPreset.MaxCacheSize, r.FinalPreset.QuantizationBits,
		r.FinalPreset.QuantizationGroupSize, r.FinalPreset.QuantizationStartOffset, r.FinalPreset.Temperature)

	fmt.Println("--- Caches ---")
	for _, name := range r.Registry.Names() {
		cache, ok := r.Registry.Get(name)
		if !ok {
			continue
		}
		m := pressure.Metrics(cache)
		fmt.Printf("%-14s kind=%-14s tokens=%-6d bytes=%-12d compression=%.2f\n",
			name, cache.Kind(), m.TokenCount, m.MemoryUsageBytes, m.CompressionRatio)
	}
}
