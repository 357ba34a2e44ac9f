package valuation

import "fmt"

const (
	marksBottomZone     = 0.2
	marksTopZone        = 0.8
	marksUndervaluedPBR = 0.8
)

// Marks evaluates cycle position with default options
func Marks(in Input) AlgorithmResult {
	return evaluateMarks(in, DefaultOptions())
}

// evaluateMarks places price within the 52-week range and checks the book multiple.
//
// rank = (price-low)/(high-low), clamped to [0,1].
// Undervalued when the latest PBR is below 80% of the average PBR.
//
// Verdict: rank < 0.2 and undervalued STRONG_BUY, rank < 0.2 BUY,
// rank > 0.8 SELL, else HOLD.
func evaluateMarks(in Input, opts Options) AlgorithmResult {
	price := in.Market.CurrentPrice
	low := in.Market.Low52Week
	high := in.Market.High52Week

	if !(isFinite(price) && price > 0) || !(isFinite(low) && low > 0) || !(isFinite(high) && high > 0) {
		return notApplicable(TriggerDataInsufficient, "Missing 52-week price range data")
	}
	if high <= low {
		return notApplicable(TriggerDataInvalid, "Invalid 52-week price range",
			Number("52w_low", low),
			Number("52w_high", high),
		)
	}

	priceRange := high - low
	rank := ClampFloat64(SafeDivide(price-low, priceRange), 0, 1)

	undervalued, avgPBR := marksUndervalued(recentYears(in.History, 3))

	var verdict Verdict
	var trigger TriggerCode
	var position string
	switch {
	case rank < marksBottomZone && undervalued:
		verdict, trigger, position = VerdictStrongBuy, TriggerPanicBottom, "bottom, undervalued - cycle bottom opportunity"
	case rank < marksBottomZone:
		verdict, trigger, position = VerdictBuy, TriggerCycleBottom, "bottom - potential cycle bottom"
	case rank > marksTopZone:
		verdict, trigger, position = VerdictSell, TriggerEuphoriaTop, "top - cycle top risk, consider taking profits"
	default:
		verdict, trigger, position = VerdictHold, TriggerMidCycle, "mid-cycle - neutral positioning"
	}

	winRate := 50.0
	switch {
	case rank < 0.1:
		winRate += 40
	case rank < 0.3:
		winRate += 20
	}
	switch {
	case rank > 0.9:
		winRate -= 45
	case rank > 0.8:
		winRate -= 30
	}
	if undervalued {
		winRate += 10
	}

	buyZone := low + priceRange*marksBottomZone
	factors := KeyFactors{
		Number("cycle_position", Round2(rank)),
		Bool("is_undervalued", undervalued),
	}
	if avgPBR > 0 {
		factors = append(factors, Number("avg_pbr", Round2(avgPBR)))
	}

	result := AlgorithmResult{
		Verdict:     verdict,
		Logic:       fmt.Sprintf("Price at %.1f%% of 52-week range (%s)", rank*100, position),
		TriggerCode: trigger,
		KeyFactors:  factors,
		PriceGuide: PriceGuide{
			BuyZoneMax:    ptr(buyZone),
			ProfitZoneMin: ptr(low + priceRange*marksTopZone),
		},
		MetricName:  "Price Position",
		MetricValue: ptr(rank * 100),
		FairPrice:   ptr(buyZone),
		WinRate:     clampWinRate(winRate),
	}
	applyDisplay(&result, price, marksDisplayTarget(verdict, low, high, buyZone, opts))
	return result
}

// marksUndervalued compares the latest positive PBR to the average PBR
func marksUndervalued(hist []FinancialYear) (bool, float64) {
	if len(hist) == 0 {
		return false, 0
	}
	pbrs := make([]float64, len(hist))
	for i, y := range hist {
		pbrs[i] = y.PBR
	}
	avg, ok := FlexibleAverage(pbrs, AverageOptions{})
	if !ok {
		return false, 0
	}
	current := hist[len(hist)-1].PBR
	return isFinite(current) && current > 0 && current < avg*marksUndervaluedPBR, avg
}

// marksDisplayTarget shows the top of the range when bullish and the bottom otherwise
func marksDisplayTarget(verdict Verdict, low, high, fair float64, opts Options) *float64 {
	if !opts.MarksRangeTarget {
		return ptr(fair)
	}
	if verdict.IsBullish() {
		return ptr(high)
	}
	return ptr(low)
}
