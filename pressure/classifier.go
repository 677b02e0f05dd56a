package pressure

// PressureTier is a discrete classification of how close memory usage is to
// its configured ceiling. Tiers are totally ordered: Low < Medium < High <
// Critical.
type PressureTier int

const (
	TierLow PressureTier = iota
	TierMedium
	TierHigh
	TierCritical
)

// String returns the tier name used in logs and metric labels.
func (t PressureTier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	case TierCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Thresholds attaches an entry threshold to each tier. Classification picks
// the highest tier whose threshold the usage ratio strictly exceeds, so a
// ratio exactly equal to a threshold stays in the tier below. TierLow is the
// default tier; its threshold documents the band but never promotes.
type Thresholds struct {
	Low      float64
	Medium   float64
	High     float64
	Critical float64
}

// DefaultThresholds are the fixed tier boundaries of the engine.
var DefaultThresholds = Thresholds{Low: 0.5, Medium: 0.7, High: 0.85, Critical: 0.95}

// Classifier maps usage ratios to pressure tiers. It is a pure function
// object; concurrent use needs no coordination.
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a Classifier with the given thresholds.
// Threshold ordering is validated by PolicyBundle.Validate when thresholds
// come from configuration.
func NewClassifier(thresholds Thresholds) *Classifier {
	return &Classifier{thresholds: thresholds}
}

// NewDefaultClassifier creates a Classifier with DefaultThresholds.
func NewDefaultClassifier() *Classifier {
	return NewClassifier(DefaultThresholds)
}

// Classify returns the highest tier whose threshold ratio strictly exceeds,
// defaulting to TierLow. The comparison is strict: Classify(0.85) with
// default thresholds is TierMedium, not TierHigh.
func (c *Classifier) Classify(ratio float64) PressureTier {
	switch {
	case ratio > c.thresholds.Critical:
		return TierCritical
	case ratio > c.thresholds.High:
		return TierHigh
	case ratio > c.thresholds.Medium:
		return TierMedium
	default:
		return TierLow
	}
}
