package valuation

import (
	"fmt"
	"math"
)

// Buffett projection constants
const (
	buffettWindow          = 3
	buffettMinGrowth       = 3.0  // percent, terminal growth floor
	buffettTerminalGrowth  = 3.0  // percent, rate decays toward this
	buffettMaxRate         = 30.0 // percent
	buffettMaxPER          = 50.0
	buffettDiscountRate    = 0.15
	buffettProjectionYears = 10
)

// Buffett evaluates quality compounding with default options
func Buffett(in Input) AlgorithmResult {
	return evaluateBuffett(in, DefaultOptions())
}

// evaluateBuffett projects ten years of compounding earnings and discounts them to a buy price.
//
// Steps:
// - average ROE of the recent years (positive values only)
// - EPS CAGR over the window, floored at 3%
// - compounding rate = min(avgROE, growth*1.5), decayed via (rate+3)/2, capped at 30%
// - future EPS * min(avgPER, 50), discounted at 15%/yr
//
// Verdict: price < 0.8x buy price STRONG_BUY, < buy price BUY, < 1.2x HOLD, else SELL
func evaluateBuffett(in Input, _ Options) AlgorithmResult {
	hist := recentYears(in.History, buffettWindow)
	if len(hist) == 0 {
		return notApplicable(TriggerDataInsufficient, "No historical data available")
	}
	if r, bad := invalidPrice(in); bad {
		return r
	}

	roes := make([]float64, len(hist))
	pers := make([]float64, len(hist))
	for i, y := range hist {
		roes[i] = y.ROE
		pers[i] = y.PER
	}

	avgROE, ok := FlexibleAverage(roes, AverageOptions{})
	if !ok || avgROE <= 0 {
		return notApplicable(TriggerDataInvalid, "No positive ROE - cannot project earnings",
			Number("avg_roe", 0))
	}

	latestEPS := hist[len(hist)-1].EPS
	oldestEPS := hist[0].EPS
	if !isFinite(latestEPS) || latestEPS <= 0 {
		return notApplicable(TriggerDataInvalid, "Current EPS is not positive",
			Number("current_eps", SafeDivide(latestEPS, 1)))
	}

	growth := buffettMinGrowth
	adjusted := true
	if span := float64(len(hist) - 1); oldestEPS > 0 && span > 0 {
		if raw := CAGR(oldestEPS, latestEPS, span) * 100; raw >= buffettMinGrowth {
			growth = raw
			adjusted = false
		}
	}

	rate := math.Min(avgROE, growth*1.5)
	rate = (rate + buffettTerminalGrowth) / 2
	rate = math.Min(rate, buffettMaxRate)

	avgPER, ok := FlexibleAverage(pers, AverageOptions{})
	if !ok {
		return notApplicable(TriggerDataInvalid, "No valid historical PER",
			Number("avg_per", 0))
	}
	cappedPER := math.Min(avgPER, buffettMaxPER)

	futureEPS := latestEPS * math.Pow(1+rate/100, buffettProjectionYears)
	futurePrice := futureEPS * cappedPER
	buyPrice := futurePrice / math.Pow(1+buffettDiscountRate, buffettProjectionYears)

	price := in.Market.CurrentPrice
	verdict := fourTier(price, buyPrice*0.8, buyPrice, buyPrice*1.2)

	growthLabel := fmt.Sprintf("Growth %.1f%%", growth)
	if adjusted {
		growthLabel += " (adj min)"
	}

	var trigger TriggerCode
	switch verdict {
	case VerdictStrongBuy:
		trigger = TriggerMoatBargain
	case VerdictBuy:
		trigger = TriggerQualityFair
	case VerdictHold:
		trigger = TriggerMoatFair
	default:
		trigger = TriggerMoatExpensive
	}

	result := AlgorithmResult{
		Verdict: verdict,
		Logic: fmt.Sprintf("ROE %.1f%%, %s -> decay-adj %.1f%%, PER %.1fx -> buy price $%.2f",
			avgROE, growthLabel, rate, avgPER, buyPrice),
		TriggerCode: trigger,
		KeyFactors: KeyFactors{
			Number("avg_roe", round1(avgROE)),
			Number("eps_growth", round1(growth)),
			Bool("growth_adjusted", adjusted),
			Number("compounding_rate", round1(rate)),
			Number("avg_per", round1(avgPER)),
		},
		PriceGuide: PriceGuide{
			BuyZoneMax:    ptr(buyPrice),
			ProfitZoneMin: ptr(buyPrice * 1.2),
		},
		MetricName:  "Compounding Rate",
		MetricValue: ptr(rate),
		FairPrice:   ptr(buyPrice),
		WinRate:     marginWinRate(buyPrice, price, 1.0),
	}
	applyDisplay(&result, price, result.FairPrice)
	return result
}
