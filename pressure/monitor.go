package pressure

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Default re-evaluation intervals. Cache-level monitoring runs inside a
// generation session; container-level monitoring sweeps a whole registry and
// is coarser.
const (
	DefaultCacheCheckInterval     = time.Second
	DefaultContainerCheckInterval = 5 * time.Second
)

// Observer receives engine events for telemetry export. All methods are
// called synchronously from the Monitor's caller; implementations must not
// block.
type Observer interface {
	ObserveSample(state MemoryState, tier PressureTier)
	ObserveConversion(to RepresentationKind)
	ObserveConversionFailure()
	ObserveCleanup()
}

// ConversionError reports a cache conversion rejected by the runtime.
// The cache at Index is left in its prior representation; the Monitor
// continues with the remaining caches and retries only on a later due tick.
type ConversionError struct {
	Index  int                // position of the cache in the tick batch
	Target RepresentationKind // representation the conversion was aiming for
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("converting cache %d to %s: %v", e.Index, e.Target, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// MonitorConfig groups Monitor construction parameters.
// Zero values select defaults; a nil Thresholds means DefaultThresholds.
type MonitorConfig struct {
	Strategy          OptimizationStrategy
	Interval          time.Duration // 0 = DefaultCacheCheckInterval
	Thresholds        *Thresholds   // nil = DefaultThresholds
	DefaultWindowSize int           // 0 = DefaultWindowSize
	Observer          Observer      // optional telemetry hook
}

// Monitor periodically re-evaluates memory pressure and applies the selected
// cache policy to eligible caches. It is a debouncer around the
// Sampler → Classifier → Selector pipeline: the caller drives Tick from its
// own generation loop, and the Monitor only acts when the configured
// interval has elapsed since the last due check.
//
// A Monitor mutates caller-owned caches in place and must be invoked under
// the caller's serialization discipline; one cache set is owned by one
// generation session at a time.
type Monitor struct {
	sampler    *Sampler
	classifier *Classifier
	selector   *Selector
	runtime    MemoryRuntime
	strategy   OptimizationStrategy
	observer   Observer

	interval  time.Duration
	lastCheck time.Time
}

// NewMonitor creates a Monitor over the given runtime capability.
func NewMonitor(runtime MemoryRuntime, cfg MonitorConfig) *Monitor {
	thresholds := DefaultThresholds
	if cfg.Thresholds != nil {
		thresholds = *cfg.Thresholds
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultCacheCheckInterval
	}
	return &Monitor{
		sampler:    NewSampler(runtime),
		classifier: NewClassifier(thresholds),
		selector:   NewSelector(cfg.DefaultWindowSize),
		runtime:    runtime,
		strategy:   cfg.Strategy,
		observer:   cfg.Observer,
		interval:   interval,
	}
}

// Selector exposes the monitor's decision table, for callers that want the
// matching generation preset alongside the automatic cache management.
func (m *Monitor) Selector() *Selector { return m.selector }

// Tick re-evaluates pressure if the check interval has elapsed since the
// last due check; otherwise it is an idempotent no-op. On a due check under
// High or Critical pressure, the selected policy is applied to every cache
// still in its plain representation. Already-quantized or already-windowed
// caches are left as-is: conversions are one-way and repeated transformation
// would only churn.
//
// A failed conversion leaves that cache untouched and does not abort the
// batch; all failures are joined into the returned error.
func (m *Monitor) Tick(now time.Time, caches []Cache) error {
	if !m.lastCheck.IsZero() && now.Sub(m.lastCheck) < m.interval {
		return nil
	}
	m.lastCheck = now

	state := m.sampler.Sample()
	tier := m.classifier.Classify(state.MemoryUsageRatio)
	if m.observer != nil {
		m.observer.ObserveSample(state, tier)
	}
	logrus.Debugf("pressure check: memory=%.3f cache=%.3f tier=%s", state.MemoryUsageRatio, state.CacheUsageRatio, tier)
	if tier < TierHigh {
		return nil
	}

	policy := m.selector.CachePolicy(tier, m.strategy, 0)
	var errs []error
	for i, cache := range caches {
		if cache.Kind() != PlainKind {
			continue
		}
		if err := applyPolicy(cache, policy); err != nil {
			if m.observer != nil {
				m.observer.ObserveConversionFailure()
			}
			logrus.Warnf("cache %d conversion to %s failed: %v", i, policy.Kind, err)
			errs = append(errs, &ConversionError{Index: i, Target: policy.Kind, Err: err})
			continue
		}
		if policy.Kind != PlainKind && m.observer != nil {
			m.observer.ObserveConversion(policy.Kind)
		}
	}
	return errors.Join(errs...)
}

// applyPolicy transforms a cache into the representation the policy names.
// The switch is exhaustive over the closed RepresentationKind set.
func applyPolicy(cache Cache, policy CachePolicy) error {
	switch policy.Kind {
	case PlainKind:
		return nil
	case SlidingWindowKind:
		return cache.ConvertToSlidingWindow(policy.MaxSize, policy.Keep)
	case QuantizedKind:
		return cache.ConvertToQuantized(policy.GroupSize, policy.BitWidth)
	default:
		return fmt.Errorf("unhandled policy kind %d", policy.Kind)
	}
}

// ForceCleanup is the manual escape hatch, independent of measured pressure
// and of the check interval: it halves every cache's retained token count
// and unconditionally invokes the runtime's transient-cache clear hook.
func (m *Monitor) ForceCleanup(caches []Cache) {
	for i, cache := range caches {
		retained := cache.RetainedTokenCount()
		cache.Trim(retained / 2)
		logrus.Debugf("force cleanup: cache %d trimmed %d -> %d tokens", i, retained, cache.RetainedTokenCount())
	}
	m.runtime.ClearTransientCache()
	if m.observer != nil {
		m.observer.ObserveCleanup()
	}
}
