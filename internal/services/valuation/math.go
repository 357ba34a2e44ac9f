package valuation

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// AverageOptions controls which values FlexibleAverage keeps
type AverageOptions struct {
	AllowNegative bool
	AllowZero     bool
}

// FlexibleAverage returns the arithmetic mean of the valid values.
// NaN and Inf stand in for missing data and are always dropped; zero and
// negative values are dropped unless allowed. ok is false when nothing survives.
func FlexibleAverage(values []float64, opts AverageOptions) (avg float64, ok bool) {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		if v == 0 && !opts.AllowZero {
			continue
		}
		if v < 0 && !opts.AllowNegative {
			continue
		}
		valid = append(valid, v)
	}
	if len(valid) == 0 {
		return 0, false
	}
	return stat.Mean(valid, nil), true
}

// CAGR calculates Compound Annual Growth Rate as a fraction.
// Returns 0 when either endpoint or the period is not positive.
func CAGR(start, end, years float64) float64 {
	if !isFinite(start) || !isFinite(end) || !isFinite(years) {
		return 0
	}
	if start <= 0 || end <= 0 || years <= 0 {
		return 0
	}
	return math.Pow(end/start, 1/years) - 1
}

// SafeDivide returns n/d, or 0 when d is zero or either operand is not finite
func SafeDivide(n, d float64) float64 {
	if d == 0 || !isFinite(n) || !isFinite(d) {
		return 0
	}
	return n / d
}

// ClampFloat64 constrains a value to a range
func ClampFloat64(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Round2 rounds to two decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func ptr(v float64) *float64 {
	return &v
}

// recentYears returns the newest count rows, oldest first
func recentYears(history []FinancialYear, count int) []FinancialYear {
	if len(history) <= count {
		return history
	}
	return history[len(history)-count:]
}

// growthCap limits growth rates for large companies, where a low base can
// produce growth rates that cannot persist
func growthCap(marketCap float64) float64 {
	const billion = 1_000_000_000
	switch {
	case marketCap > 100*billion:
		return 25
	case marketCap > 10*billion:
		return 35
	default:
		return 50
	}
}

// marginWinRate scores the discount of price to a value anchor.
// A price at the anchor scores 50; every percent of discount adds scale points.
func marginWinRate(anchor, price, scale float64) int {
	margin := SafeDivide(anchor-price, anchor) * 100
	return clampWinRate(50 + margin*scale)
}

func clampWinRate(v float64) int {
	if !isFinite(v) {
		return neutralWinRate
	}
	return int(math.Round(ClampFloat64(v, 1, 99)))
}
