package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const historyHTML = `
<html><body>
<table class="history-table">
<thead><tr><th>Date</th><th>Open</th><th>High</th><th>Low</th><th>Close</th><th>Volume</th></tr></thead>
<tbody>
<tr><td>2026-01-10</td><td>104.0</td><td>106.0</td><td>103.0</td><td>105.00</td><td>1,000,000</td></tr>
<tr><td>2026-01-09</td><td>103.0</td><td>105.0</td><td>102.0</td><td>104.00</td><td>900,000</td></tr>
<tr><td>2026-01-08</td><td>102.0</td><td>104.0</td><td>101.0</td><td>103.00</td><td>800,000</td></tr>
<tr><td>2026-01-07</td><td>101.0</td><td>103.0</td><td>100.0</td><td>102.00</td><td>700,000</td></tr>
<tr><td>2026-01-06</td><td>100.0</td><td>102.0</td><td>99.0</td><td>101.00</td><td>600,000</td></tr>
<tr><td>2026-01-05</td><td>99.0</td><td>101.0</td><td>98.0</td><td>100.00</td><td>500,000</td></tr>
<tr><td>2026-01-04</td><td>98.0</td><td>100.0</td><td>97.0</td><td>1,250.50</td><td>400,000</td></tr>
</tbody>
</table>
</body></html>`

func TestParseCloses(t *testing.T) {
	closes, err := parseCloses(historyHTML)
	require.NoError(t, err)

	require.Len(t, closes, 7)
	assert.Equal(t, 105.0, closes[0])
	assert.Equal(t, 100.0, closes[5])
	// Thousands separators are stripped
	assert.Equal(t, 1250.5, closes[6])
}

func TestParseCloses_NoRows(t *testing.T) {
	_, err := parseCloses("<html><body><p>maintenance</p></body></html>")
	assert.Error(t, err)
}

func TestNormalizedReturn(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   float64
	}{
		{
			name:   "five percent move maps to half signal",
			closes: []float64{105, 104, 103, 102, 101, 100},
			want:   0.5,
		},
		{
			name:   "decline maps negative",
			closes: []float64{95, 96, 97, 98, 99, 100},
			want:   -0.5,
		},
		{
			name:   "large rally saturates at one",
			closes: []float64{150, 140, 130, 120, 110, 100},
			want:   1.0,
		},
		{
			name:   "crash saturates at minus one",
			closes: []float64{50, 60, 70, 80, 90, 100},
			want:   -1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizedReturn(tt.closes)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestNormalizedReturn_NotEnoughData(t *testing.T) {
	_, err := normalizedReturn([]float64{105, 104, 103})
	assert.Error(t, err)
}
