package valuation

import "fmt"

const (
	druckMomentumRatio = 0.9
	druckBreakoutRoom  = 1.05
)

// trendState describes one leaf of the trend decision tree
type trendState struct {
	verdict Verdict
	trigger TriggerCode
	status  string
	label   string
	signal  Verdict
}

var (
	trendBreakout     = trendState{VerdictStrongBuy, TriggerTrendBreakout, "↗ Strong Uptrend", "Momentum Buy", VerdictBuy}
	trendFakeBreakout = trendState{VerdictHold, TriggerFakeBreakout, "↗ Extended Uptrend", "Wait for Earnings", VerdictHold}
	trendDip          = trendState{VerdictBuy, TriggerDipOpportunity, "↘ Pullback in Uptrend", "Buy the Dip", VerdictBuy}
	trendNoCatalyst   = trendState{VerdictHold, TriggerNoCatalyst, "→ Consolidating", "Wait & Watch", VerdictHold}
	trendBroken       = trendState{VerdictSell, TriggerTrendBroken, "↘ Trend Broken", "Exit Position", VerdictSell}
)

// Druckenmiller evaluates trend and earnings momentum with default options
func Druckenmiller(in Input) AlgorithmResult {
	return evaluateDruckenmiller(in, DefaultOptions())
}

// evaluateDruckenmiller follows the 200-day trend, gated on price above the MA.
//
// Signals:
// - trend alive: price > 200-day MA
// - momentum: price > 90% of 52-week high
// - earnings growing: latest EPS > previous EPS and latest EPS > 0
//
// Tree: trend broken SELL; trend+momentum+growth STRONG_BUY;
// trend+momentum HOLD; trend+growth BUY; trend only HOLD.
// No price target. Stop loss is the 200-day MA.
func evaluateDruckenmiller(in Input, _ Options) AlgorithmResult {
	price := in.Market.CurrentPrice
	ma := in.Market.MA200
	high := in.Market.High52Week

	if !(isFinite(price) && price > 0) || !(isFinite(ma) && ma > 0) || !(isFinite(high) && high > 0) {
		return notApplicable(TriggerDataInsufficient, "Missing technical indicator data")
	}

	trendAlive := price > ma
	momentum := price > high*druckMomentumRatio
	growing := earningsGrowing(in.History)

	var state trendState
	var logic string
	switch {
	case !trendAlive:
		state = trendBroken
		logic = fmt.Sprintf("Price $%.2f below 200-day MA ($%.2f) - trend broken", price, ma)
	case momentum && growing:
		state = trendBreakout
		logic = fmt.Sprintf("Price $%.2f above 200-day MA ($%.2f) near 52-week high ($%.2f) with growing earnings - breakout",
			price, ma, high)
	case momentum:
		state = trendFakeBreakout
		logic = "Price near 52-week high but earnings are not growing - fake breakout risk"
	case growing:
		state = trendDip
		logic = "Price pulled back from 52-week high inside an uptrend with growing earnings - buy the dip"
	default:
		state = trendNoCatalyst
		logic = "Price above 200-day MA but no momentum and no earnings growth - no catalyst"
	}

	winRate := 50.0
	if trendAlive {
		winRate += 20
	} else {
		winRate -= 30
	}
	if momentum {
		winRate += 15
	}
	if growing {
		winRate += 10
	}

	guide := PriceGuide{StopLoss: ptr(ma)}
	if trendAlive {
		guide.BuyZoneMax = ptr(high * druckBreakoutRoom)
	}

	return AlgorithmResult{
		Verdict:     state.verdict,
		Logic:       logic,
		TriggerCode: state.trigger,
		KeyFactors: KeyFactors{
			Number("price_vs_ma200", Round2(price/ma)),
			Bool("near_52w_high", momentum),
			Bool("earnings_growing", growing),
		},
		PriceGuide:  guide,
		MetricName:  "200D MA",
		MetricValue: ptr(ma),
		PriceStatus: PriceNormal,
		WinRate:     clampWinRate(winRate),
		TrendStatus: state.status,
		TrendLabel:  state.label,
		TrendSignal: state.signal,
	}
}

func earningsGrowing(history []FinancialYear) bool {
	if len(history) < 2 {
		return false
	}
	latest := history[len(history)-1].EPS
	previous := history[len(history)-2].EPS
	return isFinite(latest) && isFinite(previous) && latest > 0 && latest > previous
}
