package scoring

// WeightConfig defines signal weights for the composite score
type WeightConfig struct {
	Sentiment float64
	Event     float64
	Momentum  float64
}

// DefaultWeightConfig returns the production weight configuration
func DefaultWeightConfig() WeightConfig {
	return WeightConfig{
		Sentiment: 0.50, // 50% - averaged headline sentiment
		Event:     0.30, // 30% - additive event impact
		Momentum:  0.20, // 20% - normalized recent price trend
	}
	// Total: 100%
}

// ValidateWeights checks if weights sum to 1.0
func (w *WeightConfig) ValidateWeights() bool {
	sum := w.Sentiment + w.Event + w.Momentum
	// Allow small floating point error
	return sum >= 0.99 && sum <= 1.01
}

// Aggregator combines the three signals into one composite score
// ⭐ SSOT: the composite score formula lives here and only here
type Aggregator struct {
	weights WeightConfig
}

// NewAggregator creates a new aggregator
func NewAggregator(weights WeightConfig) *Aggregator {
	return &Aggregator{weights: weights}
}

// Aggregate returns the weighted composite score.
// Momentum is clamped to [-1, 1] at this boundary; the upstream provider
// promises that range but out-of-range values must not skew the weighting.
func (a *Aggregator) Aggregate(sentiment, event, momentum float64) float64 {
	momentum = clamp(momentum, -1.0, 1.0)

	return sentiment*a.weights.Sentiment +
		event*a.weights.Event +
		momentum*a.weights.Momentum
}

// clamp bounds v to [lo, hi]
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
