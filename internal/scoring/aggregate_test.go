package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregator_Aggregate(t *testing.T) {
	agg := NewAggregator(DefaultWeightConfig())

	tests := []struct {
		name      string
		sentiment float64
		event     float64
		momentum  float64
		want      float64
	}{
		{
			name:      "unit signals sum to exactly 1.0",
			sentiment: 1, event: 1, momentum: 1,
			want: 1.0,
		},
		{
			name:      "all zero",
			sentiment: 0, event: 0, momentum: 0,
			want: 0.0,
		},
		{
			name:      "weighted combination",
			sentiment: 1, event: 2, momentum: -0.5,
			want: 0.5*1 + 0.3*2 + 0.2*-0.5,
		},
		{
			name:      "out-of-range momentum is clamped high",
			sentiment: 0, event: 0, momentum: 4.2,
			want: 0.2,
		},
		{
			name:      "out-of-range momentum is clamped low",
			sentiment: 0, event: 0, momentum: -7,
			want: -0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := agg.Aggregate(tt.sentiment, tt.event, tt.momentum)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestWeightConfig_ValidateWeights(t *testing.T) {
	valid := DefaultWeightConfig()
	assert.True(t, valid.ValidateWeights())

	invalid := WeightConfig{Sentiment: 0.5, Event: 0.5, Momentum: 0.5}
	assert.False(t, invalid.ValidateWeights())
}
