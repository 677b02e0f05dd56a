package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kvpressure/kvpressure/pressure"
	"github.com/kvpressure/kvpressure/pressure/memsim"
	"github.com/kvpressure/kvpressure/pressure/telemetry"
)

var (
	// CLI flags for the replay run
	logLevel         string  // Log verbosity level
	steps            int     // Number of replay steps
	stepMillis       int     // Wall-clock milliseconds advanced per step
	memoryLimitMB    int64   // Configured memory limit (MiB)
	cacheLimitMB     int64   // Configured cache limit (MiB)
	peakTargetRatio  float64 // Usage ratio the synthetic ramp climbs to
	cacheCount       int     // Number of live caches in the registry
	tokensPerCache   int     // Tokens preloaded into each cache
	bytesPerToken    int64   // Full-precision per-token footprint
	strategyName     string  // Optimization strategy (aggressive, balanced, conservative)
	policyConfigPath string  // Optional YAML policy bundle
	checkIntervalMS  int     // Monitor re-evaluation interval (ms)
	forceCleanupEnd  bool    // Run ForceCleanup after the replay
	metricsAddr      string  // Optional address to serve Prometheus metrics on
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "kvpressure",
	Short: "Memory-pressure cache policy engine for LLM inference runtimes",
}

// runCmd replays a synthetic memory usage ramp through the monitor and
// reports the decisions it made.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a synthetic usage ramp through the pressure monitor",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := pressure.MonitorConfig{
			Strategy: pressure.StrategyBalanced,
			Interval: time.Duration(checkIntervalMS) * time.Millisecond,
		}
		if policyConfigPath != "" {
			bundle, err := pressure.LoadPolicyBundle(policyConfigPath)
			if err != nil {
				logrus.Fatalf("Unable to load policy config: %v", err)
			}
			if err := bundle.Validate(); err != nil {
				logrus.Fatalf("Invalid policy config: %v", err)
			}
			cfg, err = bundle.MonitorConfig()
			if err != nil {
				logrus.Fatalf("Invalid policy config: %v", err)
			}
		}
		if strategyName != "" {
			strategy, err := pressure.NewOptimizationStrategy(strategyName)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			cfg.Strategy = strategy
		}
		cfg.Observer = telemetry.NewCollector("kvpressure")

		if metricsAddr != "" {
			go func() {
				http.Handle("/metrics", promhttp.Handler())
				if err := http.ListenAndServe(metricsAddr, nil); err != nil {
					logrus.Errorf("metrics server: %v", err)
				}
			}()
			logrus.Infof("Serving Prometheus metrics on %s/metrics", metricsAddr)
		}

		logrus.Infof("Starting replay: steps=%d limits=(%dMiB,%dMiB) caches=%d strategy=%s",
			steps, memoryLimitMB, cacheLimitMB, cacheCount, cfg.Strategy)

		report := runReplay(cfg)
		report.Print()

		logrus.Info("Replay complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runReplay builds the simulated runtime and registry, drives the monitor
// along the configured ramp, and collects the replay report.
func runReplay(cfg pressure.MonitorConfig) *ReplayReport {
	const mib = int64(1) << 20

	limits := pressure.MemoryLimits{
		MemoryLimitBytes: memoryLimitMB * mib,
		CacheLimitBytes:  cacheLimitMB * mib,
	}
	runtime := memsim.NewSimRuntime(limits)
	monitor := pressure.NewMonitor(runtime, cfg)

	registry := pressure.NewRegistry()
	for i := 0; i < cacheCount; i++ {
		cache := memsim.NewSimCache(bytesPerToken)
		cache.AppendN(tokensPerCache)
		name := cacheName(i)
		if _, err := registry.Register(name, cache); err != nil {
			logrus.Fatalf("registering %s: %v", name, err)
		}
	}

	history := pressure.NewUsageHistory(steps)
	sampler := pressure.NewSampler(runtime)
	classifier := pressure.NewClassifier(effectiveThresholds(cfg))

	report := &ReplayReport{Strategy: cfg.Strategy, Registry: registry, Runtime: runtime}
	now := time.Unix(0, 0)
	step := time.Duration(stepMillis) * time.Millisecond
	for i := 0; i < steps; i++ {
		now = now.Add(step)

		// Advance the ramp: active bytes climb linearly toward the target
		// ratio, cached bytes trail at half the active usage.
		progress := float64(i+1) / float64(steps)
		active := int64(progress * peakTargetRatio * float64(limits.MemoryLimitBytes))
		runtime.SetSnapshot(pressure.MemorySnapshot{
			ActiveBytes: active,
			CachedBytes: active / 2,
		})

		state := sampler.Sample()
		history.Record(state.MemoryUsageRatio)
		report.PeakTier = maxTier(report.PeakTier, classifier.Classify(state.MemoryUsageRatio))

		if err := monitor.Tick(now, registry.Caches()); err != nil {
			logrus.Warnf("tick %d: %v", i, err)
			report.ConversionFailures++
		}
	}

	if forceCleanupEnd {
		monitor.ForceCleanup(registry.Caches())
	}

	report.History = history
	report.FinalPreset = monitor.Selector().GenerationPreset(report.PeakTier, cfg.Strategy)
	return report
}

// effectiveThresholds unwraps the config's thresholds, falling back to the
// defaults.
func effectiveThresholds(cfg pressure.MonitorConfig) pressure.Thresholds {
	if cfg.Thresholds != nil {
		return *cfg.Thresholds
	}
	return pressure.DefaultThresholds
}

func maxTier(a, b pressure.PressureTier) pressure.PressureTier {
	if a > b {
		return a
	}
	return b
}

func cacheName(i int) string {
	return fmt.Sprintf("session-%03d", i)
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().IntVar(&steps, "steps", 50, "Number of replay steps")
	runCmd.Flags().IntVar(&stepMillis, "step-millis", 200, "Wall-clock milliseconds advanced per step")
	runCmd.Flags().Int64Var(&memoryLimitMB, "memory-limit-mib", 4096, "Configured memory limit in MiB")
	runCmd.Flags().Int64Var(&cacheLimitMB, "cache-limit-mib", 1024, "Configured cache limit in MiB")
	runCmd.Flags().Float64Var(&peakTargetRatio, "peak-ratio", 0.97, "Usage ratio the synthetic ramp climbs to")
	runCmd.Flags().IntVar(&cacheCount, "caches", 4, "Number of live caches in the registry")
	runCmd.Flags().IntVar(&tokensPerCache, "tokens-per-cache", 2048, "Tokens preloaded into each cache")
	runCmd.Flags().Int64Var(&bytesPerToken, "bytes-per-token", 131072, "Full-precision per-token KV footprint in bytes")
	runCmd.Flags().StringVar(&strategyName, "strategy", "", "Optimization strategy (aggressive, balanced, conservative; empty = policy config or balanced)")
	runCmd.Flags().StringVar(&policyConfigPath, "policy-config", "", "Path to YAML policy bundle")
	runCmd.Flags().IntVar(&checkIntervalMS, "check-interval-ms", 1000, "Monitor re-evaluation interval in milliseconds")
	runCmd.Flags().BoolVar(&forceCleanupEnd, "force-cleanup", false, "Run ForceCleanup after the replay")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Address to serve Prometheus metrics on (empty = disabled)")

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(policyCmd)
}
