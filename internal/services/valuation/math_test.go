package valuation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlexibleAverage(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		opts   AverageOptions
		want   float64
		wantOK bool
	}{
		{"all positive", []float64{10, 20, 30}, AverageOptions{}, 20, true},
		{"drops zero and negative", []float64{10, 0, -5, 30}, AverageOptions{}, 20, true},
		{"allow zero", []float64{0, 10, 20}, AverageOptions{AllowZero: true}, 10, true},
		{"allow negative", []float64{-10, 10, 30}, AverageOptions{AllowNegative: true}, 10, true},
		{"drops NaN and Inf", []float64{math.NaN(), 12, math.Inf(1)}, AverageOptions{}, 12, true},
		{"nothing survives", []float64{0, -1, math.NaN()}, AverageOptions{}, 0, false},
		{"empty", nil, AverageOptions{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FlexibleAverage(tt.values, tt.opts)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCAGR(t *testing.T) {
	tests := []struct {
		name              string
		start, end, years float64
		want              float64
	}{
		{"doubles in one year", 100, 200, 1, 1.0},
		{"21% over two years", 1.0, 1.21, 2, 0.1},
		{"no change", 50, 50, 3, 0},
		{"decline", 100, 81, 2, -0.1},
		{"zero start", 0, 100, 2, 0},
		{"negative end", 10, -5, 2, 0},
		{"zero years", 10, 20, 0, 0},
		{"NaN start", math.NaN(), 20, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CAGR(tt.start, tt.end, tt.years), 1e-9)
		})
	}
}

func TestSafeDivide(t *testing.T) {
	assert.Equal(t, 2.5, SafeDivide(5, 2))
	assert.Equal(t, 0.0, SafeDivide(5, 0))
	assert.Equal(t, 0.0, SafeDivide(math.NaN(), 2))
	assert.Equal(t, 0.0, SafeDivide(5, math.Inf(-1)))
}

func TestClampFloat64(t *testing.T) {
	assert.Equal(t, 0.0, ClampFloat64(-1, 0, 1))
	assert.Equal(t, 1.0, ClampFloat64(2, 0, 1))
	assert.Equal(t, 0.5, ClampFloat64(0.5, 0, 1))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.2349))
	assert.Equal(t, 1.24, Round2(1.235001))
	assert.Equal(t, -3.5, Round2(-3.499999))
}

func TestGrowthCap(t *testing.T) {
	assert.Equal(t, 25.0, growthCap(2e12))
	assert.Equal(t, 35.0, growthCap(50e9))
	assert.Equal(t, 50.0, growthCap(5e9))
	assert.Equal(t, 50.0, growthCap(0))
}

func TestMarginWinRate(t *testing.T) {
	assert.Equal(t, 50, marginWinRate(100, 100, 1))
	assert.Equal(t, 80, marginWinRate(100, 70, 1))
	assert.Equal(t, 1, marginWinRate(100, 1000, 1))
	assert.Equal(t, 50, marginWinRate(0, 10, 1))
}
