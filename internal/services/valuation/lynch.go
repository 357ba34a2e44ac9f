package valuation

import (
	"fmt"
	"math"
)

// Lynch thresholds
const (
	lynchMinGrowth    = 3.0 // percent
	lynchGrowthYears  = 2.0
	lynchDebtWarning  = 150.0
	lynchDebtRisk     = 200.0
	lynchPEGStrongBuy = 0.5
	lynchPEGBuy       = 1.2
	lynchPEGHold      = 1.5
)

// Lynch evaluates growth at a reasonable price with default options
func Lynch(in Input) AlgorithmResult {
	return evaluateLynch(in, DefaultOptions())
}

// evaluateLynch scores the PEG ratio.
//
// Growth is the 2-year EPS CAGR floored at 3% and capped by market cap
// (>$100B: 25%, >$10B: 35%, else 50%). PER is price / latest EPS.
//
// Verdict: PEG < 0.5 STRONG_BUY, < 1.2 BUY, < 1.5 HOLD, else SELL.
// Debt/equity above 150 downgrades one tier.
func evaluateLynch(in Input, _ Options) AlgorithmResult {
	hist := recentYears(in.History, 3)
	if len(hist) < 2 {
		return notApplicable(TriggerDataInsufficient, "Insufficient data for growth calculation",
			Number("years_available", float64(len(hist))))
	}
	if r, bad := invalidPrice(in); bad {
		return r
	}

	latestEPS := hist[len(hist)-1].EPS
	oldestEPS := hist[0].EPS
	if !isFinite(latestEPS) || latestEPS <= 0 {
		return notApplicable(TriggerDataInvalid, "Current EPS is not positive",
			Number("current_eps", SafeDivide(latestEPS, 1)))
	}

	rawGrowth := lynchMinGrowth
	adjusted := true
	if oldestEPS > 0 {
		if g := CAGR(oldestEPS, latestEPS, lynchGrowthYears) * 100; g >= lynchMinGrowth {
			rawGrowth = g
			adjusted = false
		}
	}

	maxGrowth := growthCap(in.Market.MarketCap)
	growth := math.Min(rawGrowth, maxGrowth)
	capped := rawGrowth > maxGrowth

	price := in.Market.CurrentPrice
	per := price / latestEPS
	peg := per / growth

	var verdict Verdict
	switch {
	case peg < lynchPEGStrongBuy:
		verdict = VerdictStrongBuy
	case peg < lynchPEGBuy:
		verdict = VerdictBuy
	case peg < lynchPEGHold:
		verdict = VerdictHold
	default:
		verdict = VerdictSell
	}

	debt := in.Market.DebtToEquity
	if !isFinite(debt) {
		debt = 0
	}
	debtNote := ""
	if debt > lynchDebtWarning {
		debtNote = " (debt penalty)"
		verdict = downgrade(verdict)
	}

	var trigger TriggerCode
	switch {
	case debt > lynchDebtRisk:
		trigger = TriggerDebtRisk
	case debt > lynchDebtWarning:
		if verdict == VerdictSell {
			trigger = TriggerDebtRisk
		} else {
			trigger = TriggerDebtWarning
		}
	case peg < lynchPEGStrongBuy:
		trigger = TriggerFastGrower
	case peg < lynchPEGBuy:
		trigger = TriggerStalwart
	case peg < lynchPEGHold:
		trigger = TriggerFairValue
	default:
		trigger = TriggerPEGExpensive
	}

	growthText := fmt.Sprintf("%.1f%%", growth)
	if capped {
		growthText += fmt.Sprintf(" (capped from %.0f%%)", rawGrowth)
	} else if adjusted {
		growthText += " (min adj)"
	}

	winRate := 50 + (lynchPEGBuy-peg)*50
	switch {
	case debt > lynchDebtRisk:
		winRate -= 20
	case debt > lynchDebtWarning:
		winRate -= 10
	}

	fairValue := latestEPS * growth
	result := AlgorithmResult{
		Verdict:     verdict,
		Logic:       fmt.Sprintf("Growth %s, PER %.1f -> PEG %.2f%s", growthText, per, peg, debtNote),
		TriggerCode: trigger,
		KeyFactors: KeyFactors{
			Number("growth_rate", round1(growth)),
			Number("peg", Round2(peg)),
			Number("debt_to_equity", Round2(debt)),
			Number("calculated_per", round1(per)),
		},
		PriceGuide: PriceGuide{
			BuyZoneMax:    ptr(fairValue * lynchPEGBuy),
			ProfitZoneMin: ptr(fairValue * lynchPEGHold),
		},
		MetricName:  "PEG Ratio",
		MetricValue: ptr(peg),
		FairPrice:   ptr(fairValue),
		WinRate:     clampWinRate(winRate),
	}
	applyDisplay(&result, price, result.FairPrice)
	return result
}

// downgrade moves a verdict one tier toward SELL
func downgrade(v Verdict) Verdict {
	switch v {
	case VerdictStrongBuy:
		return VerdictBuy
	case VerdictBuy:
		return VerdictHold
	case VerdictHold:
		return VerdictSell
	default:
		return v
	}
}
