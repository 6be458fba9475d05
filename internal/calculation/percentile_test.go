package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	shuffled := []float64{7, 3, 10, 1, 9, 2, 8, 5, 4, 6}

	tests := []struct {
		name string
		p    float64
		want float64
	}{
		{"zero is minimum", 0, 1},
		{"negative clamps to minimum", -5, 1},
		{"hundred is maximum", 100, 10},
		{"above hundred clamps to maximum", 150, 10},
		{"median interpolates", 50, 5.5},
		{"quartile interpolates", 25, 3.25},
		{"exact rank", 100.0 / 9, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percentile(sorted, tt.p), 1e-9)
			assert.InDelta(t, tt.want, Percentile(shuffled, tt.p), 1e-9)
		})
	}
}

func TestPercentile_DoesNotMutateInput(t *testing.T) {
	values := []float64{5, 1, 4, 2, 3}
	_ = Percentile(values, 50)
	_ = Band(values)
	assert.Equal(t, []float64{5, 1, 4, 2, 3}, values)
}

func TestPercentile_Empty(t *testing.T) {
	assert.Equal(t, 0.0, Percentile(nil, 50))
	assert.Equal(t, 0.0, Percentile([]float64{}, 95))
	assert.Equal(t, 0.0, Median(nil))
}

func TestPercentile_SingleValue(t *testing.T) {
	assert.Equal(t, 42.0, Percentile([]float64{42}, 37))
}

func TestBand(t *testing.T) {
	values := make([]float64, 101)
	for i := range values {
		values[i] = float64(100 - i)
	}
	band := Band(values)

	assert.InDelta(t, 5, band.P5, 1e-9)
	assert.InDelta(t, 10, band.P10, 1e-9)
	assert.InDelta(t, 25, band.P25, 1e-9)
	assert.InDelta(t, 50, band.P50, 1e-9)
	assert.InDelta(t, 75, band.P75, 1e-9)
	assert.InDelta(t, 90, band.P90, 1e-9)
	assert.InDelta(t, 95, band.P95, 1e-9)
}

func TestDepletionRate(t *testing.T) {
	assert.Equal(t, 0.0, DepletionRate(nil))
	assert.Equal(t, 50.0, DepletionRate([]float64{0, 10, -1, 3}))
	assert.Equal(t, 100.0, DepletionRate([]float64{0, 0}))
}
