package valuation

// neutralWinRate is the score carried by results that reached no verdict
const neutralWinRate = 50

// notApplicable builds a degraded result for a failed precondition
func notApplicable(code TriggerCode, logic string, factors ...Factor) AlgorithmResult {
	if factors == nil {
		factors = KeyFactors{}
	}
	return AlgorithmResult{
		Verdict:     VerdictNA,
		Logic:       logic,
		TriggerCode: code,
		KeyFactors:  factors,
		PriceStatus: PriceNormal,
		WinRate:     neutralWinRate,
	}
}

// invalidPrice reports a current price no persona can value against
func invalidPrice(in Input) (AlgorithmResult, bool) {
	price := in.Market.CurrentPrice
	if isFinite(price) && price > 0 {
		return AlgorithmResult{}, false
	}
	return notApplicable(TriggerDataInvalid, "Current price is missing or not positive",
		Number("current_price", SafeDivide(price, 1))), true
}

// fourTier maps price against a value anchor using the shared
// 0.8x / 1.0x / 1.2x style ladder
func fourTier(value, strongBuy, buy, hold float64) Verdict {
	switch {
	case value < strongBuy:
		return VerdictStrongBuy
	case value < buy:
		return VerdictBuy
	case value < hold:
		return VerdictHold
	default:
		return VerdictSell
	}
}
