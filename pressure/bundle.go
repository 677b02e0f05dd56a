package pressure

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PolicyBundle holds unified engine configuration, loadable from a YAML
// file. Nil pointer fields mean "not set in YAML" — they do not override the
// compiled defaults. String fields use empty string for "not set".
type PolicyBundle struct {
	Thresholds ThresholdConfig `yaml:"thresholds"`
	Monitor    MonitorTuning   `yaml:"monitor"`
	Strategy   string          `yaml:"strategy"`
	WindowSize *int            `yaml:"default_window_size"`
}

// ThresholdConfig holds tier entry thresholds.
type ThresholdConfig struct {
	Low      *float64 `yaml:"low"`
	Medium   *float64 `yaml:"medium"`
	High     *float64 `yaml:"high"`
	Critical *float64 `yaml:"critical"`
}

// MonitorTuning holds re-evaluation intervals in seconds.
type MonitorTuning struct {
	CacheCheckIntervalSeconds     *float64 `yaml:"cache_check_interval_seconds"`
	ContainerCheckIntervalSeconds *float64 `yaml:"container_check_interval_seconds"`
}

// LoadPolicyBundle reads and parses a YAML engine configuration file.
func LoadPolicyBundle(path string) (*PolicyBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy config: %w", err)
	}
	var bundle PolicyBundle
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("parsing policy config: %w", err)
	}
	return &bundle, nil
}

// Validate checks strategy names and parameter ranges in the bundle.
// Thresholds must stay within (0, 1) and strictly ascend across tiers.
func (b *PolicyBundle) Validate() error {
	if !ValidStrategies[b.Strategy] {
		return fmt.Errorf("unknown optimization strategy %q", b.Strategy)
	}
	th := b.EffectiveThresholds()
	if th.Low <= 0 || th.Critical >= 1 {
		return fmt.Errorf("thresholds must lie within (0, 1), got low=%v critical=%v", th.Low, th.Critical)
	}
	if !(th.Low < th.Medium && th.Medium < th.High && th.High < th.Critical) {
		return fmt.Errorf("thresholds must strictly ascend, got %+v", th)
	}
	if b.Monitor.CacheCheckIntervalSeconds != nil && *b.Monitor.CacheCheckIntervalSeconds <= 0 {
		return fmt.Errorf("cache_check_interval_seconds must be positive, got %f", *b.Monitor.CacheCheckIntervalSeconds)
	}
	if b.Monitor.ContainerCheckIntervalSeconds != nil && *b.Monitor.ContainerCheckIntervalSeconds <= 0 {
		return fmt.Errorf("container_check_interval_seconds must be positive, got %f", *b.Monitor.ContainerCheckIntervalSeconds)
	}
	if b.WindowSize != nil && *b.WindowSize <= WindowKeepTokens {
		return fmt.Errorf("default_window_size must exceed the protected prefix of %d, got %d", WindowKeepTokens, *b.WindowSize)
	}
	return nil
}

// EffectiveThresholds merges configured thresholds over DefaultThresholds.
func (b *PolicyBundle) EffectiveThresholds() Thresholds {
	th := DefaultThresholds
	if b.Thresholds.Low != nil {
		th.Low = *b.Thresholds.Low
	}
	if b.Thresholds.Medium != nil {
		th.Medium = *b.Thresholds.Medium
	}
	if b.Thresholds.High != nil {
		th.High = *b.Thresholds.High
	}
	if b.Thresholds.Critical != nil {
		th.Critical = *b.Thresholds.Critical
	}
	return th
}

// CacheCheckInterval returns the configured cache-level interval or the
// default.
func (b *PolicyBundle) CacheCheckInterval() time.Duration {
	if b.Monitor.CacheCheckIntervalSeconds == nil {
		return DefaultCacheCheckInterval
	}
	return time.Duration(*b.Monitor.CacheCheckIntervalSeconds * float64(time.Second))
}

// ContainerCheckInterval returns the configured container-level interval or
// the default.
func (b *PolicyBundle) ContainerCheckInterval() time.Duration {
	if b.Monitor.ContainerCheckIntervalSeconds == nil {
		return DefaultContainerCheckInterval
	}
	return time.Duration(*b.Monitor.ContainerCheckIntervalSeconds * float64(time.Second))
}

// MonitorConfig materializes a MonitorConfig from the bundle. The observer
// is attached by the caller; requested window size and strategy fall back to
// defaults when unset.
func (b *PolicyBundle) MonitorConfig() (MonitorConfig, error) {
	strategy, err := NewOptimizationStrategy(b.Strategy)
	if err != nil {
		return MonitorConfig{}, err
	}
	th := b.EffectiveThresholds()
	cfg := MonitorConfig{
		Strategy:   strategy,
		Interval:   b.CacheCheckInterval(),
		Thresholds: &th,
	}
	if b.WindowSize != nil {
		cfg.DefaultWindowSize = *b.WindowSize
	}
	return cfg, nil
}
