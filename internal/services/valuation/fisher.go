package valuation

import (
	"fmt"
	"math"
)

const (
	fisherBargainRatio = 0.85
	// fisherNearTarget is how close a bullish price may sit to the buy target
	// before the displayed target moves to the band top
	fisherNearTarget = 0.95
)

// Fisher evaluates price-to-sales with default options
func Fisher(in Input) AlgorithmResult {
	return evaluateFisher(in, DefaultOptions())
}

// evaluateFisher compares the live PSR against the historical PSR band.
//
// The live PSR is re-derived as price / latest SPS. Average PSR keeps zero
// values; max PSR is the band top.
//
// Verdict: PSR < 0.85x avg STRONG_BUY, < avg BUY, < max HOLD, else SELL
func evaluateFisher(in Input, opts Options) AlgorithmResult {
	hist := recentYears(in.History, 3)
	if len(hist) == 0 {
		return notApplicable(TriggerDataInsufficient, "No historical data available")
	}

	psrs := make([]float64, 0, len(hist))
	for _, y := range hist {
		if isFinite(y.PSR) {
			psrs = append(psrs, y.PSR)
		}
	}
	if len(psrs) == 0 {
		return notApplicable(TriggerDataInsufficient, "No PSR data available")
	}
	if r, bad := invalidPrice(in); bad {
		return r
	}

	avgPSR, ok := FlexibleAverage(psrs, AverageOptions{AllowZero: true})
	maxPSR := math.Inf(-1)
	for _, v := range psrs {
		maxPSR = math.Max(maxPSR, v)
	}
	sps := hist[len(hist)-1].SPS

	if !ok || maxPSR <= 0 || !isFinite(sps) || sps <= 0 {
		return notApplicable(TriggerDataInvalid, "Invalid PSR or SPS data",
			Number("avg_psr", Round2(avgPSR)),
			Number("max_psr", Round2(SafeDivide(maxPSR, 1))),
			Number("sps", Round2(SafeDivide(sps, 1))),
		)
	}

	price := in.Market.CurrentPrice
	currentPSR := price / sps
	buyTarget := sps * avgPSR
	sellTarget := sps * maxPSR

	verdict := fourTier(currentPSR, avgPSR*fisherBargainRatio, avgPSR, maxPSR)

	var trigger TriggerCode
	switch verdict {
	case VerdictStrongBuy:
		trigger = TriggerPSRBargain
	case VerdictBuy:
		trigger = TriggerPSRFair
	case VerdictHold:
		trigger = TriggerPSRBand
	default:
		trigger = TriggerPSRExpensive
	}

	result := AlgorithmResult{
		Verdict: verdict,
		Logic: fmt.Sprintf("PSR %.2f vs avg %.2f -> buy target $%.2f, max PSR %.2f -> sell at $%.2f",
			currentPSR, avgPSR, buyTarget, maxPSR, sellTarget),
		TriggerCode: trigger,
		KeyFactors: KeyFactors{
			Number("current_psr", Round2(currentPSR)),
			Number("avg_psr", Round2(avgPSR)),
			Number("max_psr", Round2(maxPSR)),
			Number("sps", Round2(sps)),
		},
		PriceGuide: PriceGuide{
			BuyZoneMax:    ptr(buyTarget),
			ProfitZoneMin: ptr(sellTarget),
		},
		MetricName:  "PSR",
		MetricValue: ptr(currentPSR),
		FairPrice:   ptr(buyTarget),
		WinRate:     marginWinRate(avgPSR, currentPSR, 1.5),
	}
	applyDisplay(&result, price, fisherDisplayTarget(verdict, price, buyTarget, sellTarget, opts))
	return result
}

// fisherDisplayTarget picks the target shown to the user. A bullish verdict
// whose price is already within 5% of the buy target shows the band top.
func fisherDisplayTarget(verdict Verdict, price, buyTarget, sellTarget float64, opts Options) *float64 {
	if opts.FisherTargetRedirect && verdict.IsBullish() && price >= buyTarget*fisherNearTarget {
		return ptr(sellTarget)
	}
	return ptr(buyTarget)
}
