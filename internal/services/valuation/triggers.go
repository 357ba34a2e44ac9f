package valuation

import "sort"

// TriggerCode classifies the decision path a persona took
type TriggerCode string

// Data condition codes shared by all personas
const (
	TriggerDataInsufficient TriggerCode = "DATA_INSUFFICIENT"
	TriggerDataInvalid      TriggerCode = "DATA_INVALID"
	TriggerAvoidNoEarnings  TriggerCode = "AVOID_NO_EARNINGS"
	TriggerCalculationError TriggerCode = "CALCULATION_ERROR"
)

// Buffett
const (
	TriggerMoatBargain   TriggerCode = "BUY_MOAT_BARGAIN"
	TriggerQualityFair   TriggerCode = "BUY_QUALITY_FAIR"
	TriggerMoatFair      TriggerCode = "HOLD_MOAT_FAIR"
	TriggerMoatExpensive TriggerCode = "SELL_MOAT_EXPENSIVE"
)

// Lynch
const (
	TriggerFastGrower   TriggerCode = "BUY_FAST_GROWER"
	TriggerStalwart     TriggerCode = "BUY_STALWART"
	TriggerFairValue    TriggerCode = "HOLD_FAIR_VALUE"
	TriggerDebtWarning  TriggerCode = "HOLD_DEBT_WARNING"
	TriggerPEGExpensive TriggerCode = "SELL_PEG_EXPENSIVE"
	TriggerDebtRisk     TriggerCode = "SELL_DEBT_RISK"
)

// Graham
const (
	TriggerMarginSafety TriggerCode = "BUY_MARGIN_SAFETY"
	TriggerNearValue    TriggerCode = "BUY_NEAR_VALUE"
	TriggerAboveValue   TriggerCode = "HOLD_ABOVE_VALUE"
	TriggerOvervalued   TriggerCode = "SELL_OVERVALUED"
)

// Fisher
const (
	TriggerPSRBargain   TriggerCode = "BUY_PSR_BARGAIN"
	TriggerPSRFair      TriggerCode = "BUY_PSR_FAIR"
	TriggerPSRBand      TriggerCode = "HOLD_PSR_BAND"
	TriggerPSRExpensive TriggerCode = "SELL_PSR_EXPENSIVE"
)

// Druckenmiller
const (
	TriggerTrendBreakout  TriggerCode = "BUY_TREND_BREAKOUT"
	TriggerDipOpportunity TriggerCode = "BUY_DIP_OPPORTUNITY"
	TriggerFakeBreakout   TriggerCode = "HOLD_FAKE_BREAKOUT"
	TriggerNoCatalyst     TriggerCode = "HOLD_NO_CATALYST"
	TriggerTrendBroken    TriggerCode = "SELL_TREND_BROKEN"
)

// Marks
const (
	TriggerPanicBottom TriggerCode = "BUY_PANIC_BOTTOM"
	TriggerCycleBottom TriggerCode = "BUY_CYCLE_BOTTOM"
	TriggerMidCycle    TriggerCode = "HOLD_MID_CYCLE"
	TriggerEuphoriaTop TriggerCode = "SELL_EUPHORIA_TOP"
)

// triggerMessages is built once and never modified
var triggerMessages = map[TriggerCode]string{
	TriggerDataInsufficient: "Not enough data to run this strategy",
	TriggerDataInvalid:      "Required data is missing or invalid for this strategy",
	TriggerAvoidNoEarnings:  "No positive earnings - intrinsic value cannot be estimated",
	TriggerCalculationError: "The strategy could not be evaluated",

	TriggerMoatBargain:   "Buffett: a durable business trading well below its compounding value",
	TriggerQualityFair:   "Buffett: a quality business at a fair price",
	TriggerMoatFair:      "Buffett: competitive advantage intact but the price is already fair",
	TriggerMoatExpensive: "Buffett: returns are strong but the price is too high",

	TriggerFastGrower:   "Lynch: fast grower with a very low PEG",
	TriggerStalwart:     "Lynch: steady grower at a reasonable price",
	TriggerFairValue:    "Lynch: price is fair for the growth on offer",
	TriggerDebtWarning:  "Lynch: debt is elevated and needs watching",
	TriggerPEGExpensive: "Lynch: PEG is high - expensive for its growth",
	TriggerDebtRisk:     "Lynch: debt level is too high",

	TriggerMarginSafety: "Graham: deep discount to intrinsic value with a margin of safety",
	TriggerNearValue:    "Graham: trading below intrinsic value",
	TriggerAboveValue:   "Graham: trading slightly above intrinsic value",
	TriggerOvervalued:   "Graham: well above intrinsic value",

	TriggerPSRBargain:   "Fisher: sales multiple is far below its historical average",
	TriggerPSRFair:      "Fisher: sales multiple is below its historical average",
	TriggerPSRBand:      "Fisher: sales multiple sits within its historical band",
	TriggerPSRExpensive: "Fisher: sales multiple is above its historical peak",

	TriggerTrendBreakout:  "Druckenmiller: strong uptrend confirmed by earnings growth",
	TriggerDipOpportunity: "Druckenmiller: pullback inside an uptrend with growing earnings",
	TriggerFakeBreakout:   "Druckenmiller: price is running without earnings support",
	TriggerNoCatalyst:     "Druckenmiller: uptrend intact but no momentum or earnings catalyst",
	TriggerTrendBroken:    "Druckenmiller: price broke below the 200-day moving average",

	TriggerPanicBottom: "Marks: panic low in the cycle with undervalued book multiple",
	TriggerCycleBottom: "Marks: near the bottom of the cycle",
	TriggerMidCycle:    "Marks: mid-cycle - no edge either way",
	TriggerEuphoriaTop: "Marks: near the top of the cycle - optimism is priced in",
}

// Message returns the display message for the code, or the code itself if unknown
func (c TriggerCode) Message() string {
	if msg, ok := triggerMessages[c]; ok {
		return msg
	}
	return string(c)
}

// Known reports whether the code belongs to the enumerated set
func (c TriggerCode) Known() bool {
	_, ok := triggerMessages[c]
	return ok
}

// TriggerCodes lists every trigger code in sorted order
func TriggerCodes() []TriggerCode {
	codes := make([]TriggerCode, 0, len(triggerMessages))
	for c := range triggerMessages {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// TriggerMessages returns a copy of the code to message table
func TriggerMessages() map[TriggerCode]string {
	out := make(map[TriggerCode]string, len(triggerMessages))
	for c, m := range triggerMessages {
		out[c] = m
	}
	return out
}
