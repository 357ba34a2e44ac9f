package valuation

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// StrategyFunc is the contract every persona implements
type StrategyFunc func(Input, Options) AlgorithmResult

// strategies is the persona dispatch table
var strategies = map[Persona]StrategyFunc{
	PersonaBuffett:       evaluateBuffett,
	PersonaLynch:         evaluateLynch,
	PersonaGraham:        evaluateGraham,
	PersonaFisher:        evaluateFisher,
	PersonaDruckenmiller: evaluateDruckenmiller,
	PersonaMarks:         evaluateMarks,
}

// Win-rate bands enforced per verdict
const (
	StrongBuyFloor = 85
	BuyFloor       = 65
	BuyCeiling     = 79
	HoldFloor      = 45
	HoldCeiling    = 55
	SellCeiling    = 35
)

// Consensus thresholds on the total score
const (
	ThresholdStrongBuy = 80
	ThresholdBuy       = 60
	ThresholdHold      = 40
)

// Strategies returns a copy of the persona dispatch table
func Strategies() map[Persona]StrategyFunc {
	out := make(map[Persona]StrategyFunc, len(strategies))
	for p, fn := range strategies {
		out[p] = fn
	}
	return out
}

// EvaluatePersona runs a single persona. Unknown personas and panics
// both come back as N/A results.
func EvaluatePersona(p Persona, in Input, opts Options) (result AlgorithmResult) {
	fn, ok := strategies[p]
	if !ok {
		return notApplicable(TriggerCalculationError, fmt.Sprintf("Unknown persona %q", p))
	}

	defer func() {
		if r := recover(); r != nil {
			result = notApplicable(TriggerCalculationError, fmt.Sprintf("Calculation failed: %v", r))
		}
	}()
	return fn(in, opts)
}

// Evaluate runs every persona against the same input. Personas share no
// state, so concurrent and sequential evaluation give identical results.
func Evaluate(in Input, opts Options) map[Persona]AlgorithmResult {
	results := make([]AlgorithmResult, len(Personas))

	if opts.Sequential {
		for i, p := range Personas {
			results[i] = EvaluatePersona(p, in, opts)
		}
	} else {
		var wg sync.WaitGroup
		for i, p := range Personas {
			wg.Add(1)
			go func(i int, p Persona) {
				defer wg.Done()
				results[i] = EvaluatePersona(p, in, opts)
			}(i, p)
		}
		wg.Wait()
	}

	out := make(map[Persona]AlgorithmResult, len(Personas))
	for i, p := range Personas {
		out[p] = results[i]
	}
	return out
}

// AdjustWinRate moves a raw win rate into the band allowed for its verdict:
// - STRONG_BUY: 85-99
// - BUY: 65-79
// - HOLD: 45-55
// - SELL: 1-35
// N/A keeps its raw score.
func AdjustWinRate(verdict Verdict, raw int) int {
	clamp := func(v, lo, hi int) int {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}

	switch verdict {
	case VerdictStrongBuy:
		return clamp(raw, StrongBuyFloor, 99)
	case VerdictBuy:
		return clamp(raw, BuyFloor, BuyCeiling)
	case VerdictHold:
		return clamp(raw, HoldFloor, HoldCeiling)
	case VerdictSell:
		return clamp(raw, 1, SellCeiling)
	default:
		return clamp(raw, 1, 99)
	}
}

// Summarize computes the consensus over adjusted results.
//
// total_score = round(mean(win_rate)) across all personas
// consensus: >= 80 STRONG_BUY, >= 60 BUY, >= 40 HOLD, else SELL
// breakdown: count of each verdict (N/A not counted)
func Summarize(results map[Persona]AlgorithmResult) Summary {
	var breakdown OpinionBreakdown
	scores := make([]float64, 0, len(results))

	for _, p := range Personas {
		r, ok := results[p]
		if !ok {
			continue
		}
		scores = append(scores, float64(r.WinRate))
		switch r.Verdict {
		case VerdictStrongBuy:
			breakdown.StrongBuy++
		case VerdictBuy:
			breakdown.Buy++
		case VerdictHold:
			breakdown.Hold++
		case VerdictSell:
			breakdown.Sell++
		}
	}

	total := 0
	if len(scores) > 0 {
		total = int(math.Round(stat.Mean(scores, nil)))
	}

	return Summary{
		TotalScore:       total,
		ConsensusVerdict: consensusVerdict(total),
		OpinionBreakdown: breakdown,
	}
}

func consensusVerdict(score int) Verdict {
	if score >= ThresholdStrongBuy {
		return VerdictStrongBuy
	}
	if score >= ThresholdBuy {
		return VerdictBuy
	}
	if score >= ThresholdHold {
		return VerdictHold
	}
	return VerdictSell
}

// Analyze runs all personas, adjusts their win rates and builds the summary.
// Currency, timestamp and request id are left for the caller to stamp.
func Analyze(in Input, opts Options) AnalysisResult {
	results := Evaluate(in, opts)
	for p, r := range results {
		r.WinRate = AdjustWinRate(r.Verdict, r.WinRate)
		results[p] = r
	}

	price := in.Market.CurrentPrice
	if !isFinite(price) {
		price = 0
	}

	return AnalysisResult{
		Ticker:      in.Ticker,
		CompanyName: in.CompanyName,
		Meta: Meta{
			CurrentPrice:   price,
			DataPeriodUsed: DataPeriod(in.History),
		},
		Summary: Summarize(results),
		Results: results,
	}
}

// DataPeriod describes the history window, e.g. "3 years (2022-2024)"
func DataPeriod(history []FinancialYear) string {
	if len(history) == 0 {
		return "0 years (N/A)"
	}
	return fmt.Sprintf("%d years (%d-%d)", len(history), history[0].Year, history[len(history)-1].Year)
}
