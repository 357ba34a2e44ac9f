package valuation

import (
	"fmt"
	"math"
)

const (
	grahamBaseMultiple = 8.5
	grahamMinGrowth    = 3.0 // percent
	grahamMaxPE        = 50.0
	grahamSafety       = 0.67
	grahamHoldBand     = 1.2
)

// Graham evaluates intrinsic value with default options
func Graham(in Input) AlgorithmResult {
	return evaluateGraham(in, DefaultOptions())
}

// grahamValue applies V = EPS * (8.5 + multiplier*g), capped at 50x EPS.
// The multiplier is 2 up to 10% growth, 1 from 100%, linear in between.
func grahamValue(eps, g float64) float64 {
	var multiplier float64
	switch {
	case g <= 10:
		multiplier = 2
	case g >= 100:
		multiplier = 1
	default:
		multiplier = 2 - (g-10)/90
	}
	return math.Min(eps*(grahamBaseMultiple+multiplier*g), eps*grahamMaxPE)
}

// evaluateGraham compares price to a growth-adjusted Graham value.
//
// Verdict: price < 0.67x value STRONG_BUY, < value BUY, < 1.2x value HOLD, else SELL
func evaluateGraham(in Input, _ Options) AlgorithmResult {
	hist := recentYears(in.History, 3)
	if len(hist) == 0 {
		return notApplicable(TriggerDataInsufficient, "No historical data available")
	}

	eps := hist[len(hist)-1].EPS
	if !isFinite(eps) || eps <= 0 {
		return notApplicable(TriggerAvoidNoEarnings, "No positive earnings - Graham formula requires positive EPS",
			Number("current_eps", SafeDivide(eps, 1)))
	}
	if r, bad := invalidPrice(in); bad {
		return r
	}

	growth := grahamMinGrowth
	oldest := hist[0].EPS
	if span := float64(len(hist) - 1); oldest > 0 && span > 0 {
		growth = math.Max(CAGR(oldest, eps, span)*100, grahamMinGrowth)
	}
	growth = math.Min(growth, growthCap(in.Market.MarketCap))

	value := grahamValue(eps, growth)
	price := in.Market.CurrentPrice
	verdict := fourTier(price, value*grahamSafety, value, value*grahamHoldBand)

	var trigger TriggerCode
	switch verdict {
	case VerdictStrongBuy:
		trigger = TriggerMarginSafety
	case VerdictBuy:
		trigger = TriggerNearValue
	case VerdictHold:
		trigger = TriggerAboveValue
	default:
		trigger = TriggerOvervalued
	}

	result := AlgorithmResult{
		Verdict:     verdict,
		Logic:       fmt.Sprintf("EPS $%.2f, growth %.1f%% -> intrinsic value $%.2f", eps, growth, value),
		TriggerCode: trigger,
		KeyFactors: KeyFactors{
			Number("eps", Round2(eps)),
			Number("eps_growth_rate", round1(growth)),
			Number("graham_number", Round2(value)),
			Number("margin_of_safety", round1(SafeDivide(value-price, value)*100)),
		},
		PriceGuide: PriceGuide{
			BuyZoneMax:    ptr(value * grahamSafety),
			ProfitZoneMin: ptr(value * grahamHoldBand),
		},
		MetricName:  "Graham Number",
		MetricValue: ptr(value),
		FairPrice:   ptr(value),
		WinRate:     marginWinRate(value, price, 1.0),
	}
	applyDisplay(&result, price, result.FairPrice)
	return result
}
